package engine

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/pelletier/go-toml/v2"

	"github.com/spaghettifunk/glimmer/engine/core"
)

type ApplicationConfig struct {
	// Window starting position x axis, if applicable.
	StartPosX uint32 `toml:"start_pos_x"`
	// Window starting position y axis, if applicable.
	StartPosY uint32 `toml:"start_pos_y"`
	// Window starting width, if applicable.
	StartWidth uint32 `toml:"start_width"`
	// Window starting height, if applicable.
	StartHeight uint32 `toml:"start_height"`
	// The application name used in windowing, if applicable.
	Name string `toml:"name"`
	// One of debug, info, warn, error, fatal.
	LogLevel string `toml:"log_level"`
	VSync    bool   `toml:"vsync"`
	// RGBA in [0, 1].
	ClearColor [4]float32 `toml:"clear_color"`
	AssetsDir  string     `toml:"assets_dir"`
	// Rebuild watched shaders when their files change.
	HotReload bool `toml:"hot_reload"`
}

func DefaultConfig() *ApplicationConfig {
	return &ApplicationConfig{
		StartPosX:   100,
		StartPosY:   100,
		StartWidth:  1280,
		StartHeight: 720,
		Name:        "Glimmer",
		LogLevel:    "info",
		VSync:       true,
		ClearColor:  [4]float32{0.1, 0.1, 0.12, 1},
		AssetsDir:   "assets",
	}
}

// LoadConfig reads a TOML file over the defaults, so a file only needs the
// keys it changes.
func LoadConfig(path string) (*ApplicationConfig, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *ApplicationConfig) Validate() error {
	if c.StartWidth == 0 || c.StartHeight == 0 {
		return fmt.Errorf("window %dx%d: %w", c.StartWidth, c.StartHeight, core.ErrInvalidDimensions)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

func (c *ApplicationConfig) Level() (core.LogLevel, error) {
	if c.LogLevel == "" {
		return core.InfoLevel, nil
	}
	return log.ParseLevel(c.LogLevel)
}
