package engine

import (
	"fmt"
	"os"
	"sync/atomic"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/spaghettifunk/glimmer/engine/assets"
	"github.com/spaghettifunk/glimmer/engine/core"
	"github.com/spaghettifunk/glimmer/engine/platform"
	"github.com/spaghettifunk/glimmer/engine/renderer"
	"github.com/spaghettifunk/glimmer/engine/renderer/metadata"
	"github.com/spaghettifunk/glimmer/engine/renderer/opengl/gogl"
)

type Stage uint8

const (
	// Engine is in an uninitialized state
	EngineStageUninitialized Stage = iota
	// Engine is currently initializing
	EngineStageInitializing
	// Engine initialization is complete
	EngineStageInitialized
	// Engine is currently running
	EngineStageRunning
	// Engine is in the process of shutting down
	EngineStageShuttingDown
)

func (s Stage) String() string {
	switch s {
	case EngineStageInitializing:
		return "initializing"
	case EngineStageInitialized:
		return "initialized"
	case EngineStageRunning:
		return "running"
	case EngineStageShuttingDown:
		return "shutting down"
	default:
		return "uninitialized"
	}
}

type Engine struct {
	currentStage Stage
	gameInstance *Game
	isSuspended  bool
	stopRequest  atomic.Bool
	platform     *platform.Platform
	assetManager *assets.AssetManager
	device       *renderer.Device
	input        *core.InputState
	stats        *core.FrameStats
	clock        *core.Clock
	lastTime     float64

	// programs rebuilt when their sources change on disk
	shaders map[string]*metadata.ShaderProgram
}

func New(g *Game) (*Engine, error) {
	if g == nil || g.ApplicationConfig == nil {
		return nil, fmt.Errorf("game without application config")
	}
	if err := g.ApplicationConfig.Validate(); err != nil {
		return nil, err
	}
	input := core.NewInputState()

	am, err := assets.NewAssetManager()
	if err != nil {
		core.LogError(err.Error())
		return nil, err
	}

	return &Engine{
		currentStage: EngineStageUninitialized,
		gameInstance: g,
		clock:        core.NewClock(),
		stats:        core.NewFrameStats(),
		input:        input,
		platform:     platform.New(input),
		assetManager: am,
		device:       renderer.NewDevice(),
		shaders:      make(map[string]*metadata.ShaderProgram),
	}, nil
}

func (e *Engine) Stage() Stage {
	return e.currentStage
}

func (e *Engine) Initialize() error {
	if e.currentStage != EngineStageUninitialized {
		return fmt.Errorf("engine is %s", e.currentStage)
	}
	e.currentStage = EngineStageInitializing
	config := e.gameInstance.ApplicationConfig

	level, _ := config.Level()
	core.SetLogLevel(level)

	if err := e.platform.Startup(config.Name, config.StartPosX, config.StartPosY, config.StartWidth, config.StartHeight, config.VSync); err != nil {
		return err
	}

	ctx, err := gogl.New()
	if err != nil {
		return err
	}
	if err := e.device.Init(ctx); err != nil {
		return err
	}
	c := config.ClearColor
	if err := e.device.ClearColor(mgl32.Vec4{c[0], c[1], c[2], c[3]}); err != nil {
		return err
	}
	width, height := e.platform.FramebufferSize()
	if err := e.device.SetViewport(metadata.Viewport{Width: width, Height: height}); err != nil {
		return err
	}

	if _, err := os.Stat(config.AssetsDir); err == nil {
		if err := e.assetManager.Initialize(config.AssetsDir); err != nil {
			return err
		}
	} else {
		core.LogWarn("assets directory %q not found, asset lookups disabled", config.AssetsDir)
	}

	services := &Services{
		Device: e.device,
		Assets: e.assetManager,
		Input:  e.input,
		engine: e,
	}
	if err := e.gameInstance.FnInitialize(services); err != nil {
		return err
	}
	if err := e.gameInstance.FnOnResize(width, height); err != nil {
		return err
	}

	e.currentStage = EngineStageInitialized
	return nil
}

// Run drives the frame loop until the window closes or Shutdown is called,
// then tears everything down on the calling thread.
func (e *Engine) Run() error {
	if e.currentStage != EngineStageInitialized {
		return fmt.Errorf("engine is %s", e.currentStage)
	}
	e.currentStage = EngineStageRunning

	e.clock.Start()
	e.clock.Update()
	e.lastTime = e.clock.Elapsed()

	var runErr error
	for !e.stopRequest.Load() {
		if !e.platform.PumpMessages() {
			break
		}
		if e.platform.Resized() {
			e.onResized()
		}
		if e.isSuspended {
			e.platform.Sleep(16)
			continue
		}

		e.clock.Update()
		currentTime := e.clock.Elapsed()
		delta := currentTime - e.lastTime
		frameStartTime := platform.GetAbsoluteTime()

		e.applyShaderReloads()

		e.device.BeginFrame()
		if err := e.device.Clear(); err != nil {
			runErr = err
			break
		}
		if err := e.gameInstance.FnUpdate(delta); err != nil {
			core.LogError("game update failed, shutting down: %s", err)
			runErr = err
			break
		}
		if err := e.gameInstance.FnRender(delta); err != nil {
			core.LogError("game render failed, shutting down: %s", err)
			runErr = err
			break
		}
		if code := e.device.GetError(); code != 0 {
			core.LogWarn("OpenGL error 0x%x during frame", code)
		}
		e.platform.SwapBuffers()

		e.stats.Update(platform.GetAbsoluteTime() - frameStartTime)

		if e.input.KeyPressed(core.KEY_ESCAPE) {
			e.platform.RequestClose()
		}
		// NOTE: input roll-over must stay the last thing of the frame.
		e.input.Update()
		e.lastTime = currentTime
	}

	if err := e.teardown(); err != nil && runErr == nil {
		runErr = err
	}
	return runErr
}

// Shutdown asks the frame loop to stop. It is safe to call from any
// goroutine, e.g. a signal handler.
func (e *Engine) Shutdown() error {
	e.stopRequest.Store(true)
	return nil
}

func (e *Engine) teardown() error {
	e.currentStage = EngineStageShuttingDown
	core.LogInfo("shutting down (%.0f fps, %.2f ms/frame)", e.stats.FPS(), e.stats.FrameTime())

	var firstErr error
	keep := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if e.gameInstance.FnShutdown != nil {
		keep(e.gameInstance.FnShutdown())
	}
	keep(e.device.Dispose())
	keep(e.assetManager.Close())
	keep(e.platform.Shutdown())
	e.currentStage = EngineStageUninitialized
	return firstErr
}

// GetFramebufferSize returns the width and height (in this order) of the
// application framebuffer.
func (e *Engine) GetFramebufferSize() (uint32, uint32) {
	return e.platform.FramebufferSize()
}

func (e *Engine) onResized() {
	width, height := e.platform.FramebufferSize()
	core.LogDebug("window resize: %d, %d", width, height)

	// Handle minimization
	if width == 0 || height == 0 {
		core.LogInfo("window minimized, suspending application")
		e.isSuspended = true
		return
	}
	if e.isSuspended {
		core.LogInfo("window restored, resuming application")
		e.isSuspended = false
	}
	if err := e.device.SetViewport(metadata.Viewport{Width: width, Height: height}); err != nil {
		core.LogError(err.Error())
	}
	if err := e.gameInstance.FnOnResize(width, height); err != nil {
		core.LogError(err.Error())
	}
}

func (e *Engine) applyShaderReloads() {
	for _, r := range e.assetManager.ShaderReloads() {
		p, ok := e.shaders[r.Name]
		if !ok {
			continue
		}
		if err := e.device.RebuildShaderProgram(p, r.VertexSource, r.FragmentSource); err != nil {
			core.LogError("shader %s kept its previous build: %s", r.Name, err)
			continue
		}
		core.LogInfo("shader %s reloaded", r.Name)
	}
}

// WatchShader rebuilds p whenever one of its stage files changes. It is a
// no-op unless hot reload is enabled in the configuration.
func (s *Services) WatchShader(p *metadata.ShaderProgram, vertexPath, fragmentPath string) error {
	if !s.engine.gameInstance.ApplicationConfig.HotReload {
		return nil
	}
	if err := s.Assets.WatchShader(p.Name, vertexPath, fragmentPath); err != nil {
		return err
	}
	s.engine.shaders[p.Name] = p
	return nil
}
