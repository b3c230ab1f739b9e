package engine

import (
	"github.com/spaghettifunk/glimmer/engine/assets"
	"github.com/spaghettifunk/glimmer/engine/core"
	"github.com/spaghettifunk/glimmer/engine/renderer"
)

// Services are handed to the game once the engine owns a window and a
// render device.
type Services struct {
	Device *renderer.Device
	Assets *assets.AssetManager
	Input  *core.InputState

	engine *Engine
}

type Game struct {
	ApplicationConfig *ApplicationConfig
	State             interface{}
	FnInitialize      Initialize
	FnUpdate          Update
	FnRender          Render
	FnOnResize        OnResize
	FnShutdown        Shutdown
}

type Initialize func(s *Services) error
type Update func(deltaTime float64) error
type Render func(deltaTime float64) error
type OnResize func(width uint32, height uint32) error
type Shutdown func() error
