package testbed

import (
	"errors"
	"fmt"
	stdmath "math"

	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/spaghettifunk/glimmer/engine"
	"github.com/spaghettifunk/glimmer/engine/assets"
	"github.com/spaghettifunk/glimmer/engine/assets/loaders"
	"github.com/spaghettifunk/glimmer/engine/core"
	"github.com/spaghettifunk/glimmer/engine/math"
	"github.com/spaghettifunk/glimmer/engine/renderer/components"
	"github.com/spaghettifunk/glimmer/engine/renderer/metadata"
	"github.com/spaghettifunk/glimmer/engine/renderer/shaders"
)

const (
	batchColumns = 16
	batchRows    = 8
	cameraSpeed  = 300.0
)

type TestGame struct {
	*engine.Game
}

type gameState struct {
	services *engine.Services
	camera   *components.OrthographicCamera

	width  uint32
	height uint32

	spriteShader *metadata.ShaderProgram
	batchShader  *metadata.ShaderProgram
	rectShader   *metadata.ShaderProgram
	fontShader   *metadata.ShaderProgram
	screenShader *metadata.ShaderProgram

	checkerboard *metadata.ImageTexture
	crate        *metadata.ImageTexture
	sheet        *metadata.SpriteSheet
	batch        *metadata.Texture2DBatch
	target       *metadata.RenderTarget
	font         *metadata.Font

	sprite  *math.Transform2D
	time    float64
	paused  bool
	showHUD bool
}

func NewTestGame(config *engine.ApplicationConfig) *TestGame {
	tg := &TestGame{
		Game: &engine.Game{
			ApplicationConfig: config,
			State: &gameState{
				camera:  components.NewOrthographicCamera(),
				sprite:  math.NewTransform2D(math.Vec2{0, 0}, 0, math.Vec2{256, 256}),
				showHUD: true,
			},
		},
	}

	tg.FnInitialize = tg.Initialize
	tg.FnUpdate = tg.Update
	tg.FnRender = tg.Render
	tg.FnOnResize = tg.OnResize
	tg.FnShutdown = tg.Shutdown

	return tg
}

func (g *TestGame) state() *gameState {
	return g.State.(*gameState)
}

func (g *TestGame) Initialize(s *engine.Services) error {
	core.LogInfo("initializing testbed...")
	state := g.state()
	state.services = s
	device := s.Device

	// built-in programs
	state.batchShader = shaders.NewBatchShader()
	state.rectShader = shaders.NewRectShader()
	state.fontShader = shaders.NewFontShader()
	state.screenShader = shaders.NewScreenShader()
	state.spriteShader = g.spriteProgram(s)
	for _, p := range []*metadata.ShaderProgram{state.spriteShader, state.batchShader, state.rectShader, state.fontShader, state.screenShader} {
		if err := device.BuildShaderProgram(p); err != nil {
			return err
		}
	}

	state.checkerboard = metadata.NewCheckerboardTexture(256, 32,
		[4]uint8{255, 255, 255, 255}, [4]uint8{255, 96, 0, 255})
	if err := device.LoadTexture(state.checkerboard); err != nil {
		return err
	}

	state.crate = g.crateTexture(s)
	if err := device.LoadTexture(state.crate); err != nil {
		// a corrupted asset is reported and replaced, the testbed keeps going
		core.LogWarn("crate texture: %s", err)
		state.crate = metadata.NewDefaultTexture()
		if err := device.LoadTexture(state.crate); err != nil {
			return err
		}
	}

	sheet, err := metadata.NewSpriteSheet(4, 4, state.checkerboard)
	if err != nil {
		return err
	}
	state.sheet = sheet

	state.batch = metadata.NewTexture2DBatch()
	for i := 0; i < batchColumns*batchRows; i++ {
		if err := state.batch.AddInstance(g.batchInstance(i, 0)); err != nil {
			return err
		}
	}
	if err := device.LoadTexture2DBatch(state.batch); err != nil {
		return err
	}

	width, height := s.Device.Viewport().Width, s.Device.Viewport().Height
	if state.target, err = device.CreateRenderTarget(width, height); err != nil {
		return err
	}

	face, err := loaders.RasterizeFontData(goregular.TTF, "goregular", 24)
	if err != nil {
		return err
	}
	if state.font, err = device.UploadFont(face); err != nil {
		return err
	}

	core.LogInfo("testbed ready: %d batch instances, %d glyphs", state.batch.Len(), len(state.font.Glyphs))
	return nil
}

// spriteProgram prefers the editable shaders/sprite pair from the assets
// directory, so it can be hot reloaded, and falls back to the built-in one.
func (g *TestGame) spriteProgram(s *engine.Services) *metadata.ShaderProgram {
	p, err := s.Assets.LoadShader("shaders/sprite")
	if err != nil {
		if !errors.Is(err, assets.ErrAssetNotFound) {
			core.LogWarn("sprite shader: %s", err)
		}
		return shaders.NewTexture2DShader()
	}
	if err := s.WatchShader(p, "shaders/sprite.vert", "shaders/sprite.frag"); err != nil {
		core.LogWarn("sprite shader hot reload: %s", err)
	}
	return p
}

func (g *TestGame) crateTexture(s *engine.Services) *metadata.ImageTexture {
	t, err := s.Assets.LoadTexture("textures/crate", true)
	if err != nil {
		core.LogDebug("crate texture: %s, using the default texture", err)
		return metadata.NewDefaultTexture()
	}
	return t
}

// batchInstance lays the instances out on a grid, each showing one tile of
// the sprite sheet, bobbing with time.
func (g *TestGame) batchInstance(i int, t float64) metadata.Texture2DInstance {
	state := g.state()
	col, row := i%batchColumns, i/batchColumns
	x := float32(col-batchColumns/2)*40 + 20
	y := float32(row-batchRows/2)*40 - 120 + 6*float32(stdmath.Sin(t*3+float64(i)*0.4))

	transform := math.NewTransform2D(math.Vec2{x, y}, float32(t*45)+float32(i)*10, math.Vec2{32, 32})
	tileCol, tileRow := state.sheet.TileFromIndex(uint32(i)%(state.sheet.Columns*state.sheet.Rows), false)
	color := mgl32.Vec4{float32(col) / batchColumns, float32(row) / batchRows, 1, 1}

	instance := metadata.NewTexture2DInstance(transform, color, state.sheet.UVTransform(tileCol, tileRow))
	// every ninth instance blinks
	instance.Visible = i%9 != 0 || int(t*2)%2 == 0
	return instance
}

func (g *TestGame) Update(deltaTime float64) error {
	state := g.state()
	input := state.services.Input

	if input.KeyPressed(core.KEY_SPACE) {
		state.paused = !state.paused
	}
	if input.KeyPressed(core.KEY_H) {
		state.showHUD = !state.showHUD
	}
	if input.KeyPressed(core.KEY_R) {
		state.camera.SetPosition(math.Vec3{})
		state.camera.ScreenCorrection = 1
	}

	step := float32(cameraSpeed * deltaTime)
	pos := state.camera.Position
	if input.IsKeyDown(core.KEY_LEFT) || input.IsKeyDown(core.KEY_A) {
		pos[0] -= step
	}
	if input.IsKeyDown(core.KEY_RIGHT) || input.IsKeyDown(core.KEY_D) {
		pos[0] += step
	}
	if input.IsKeyDown(core.KEY_UP) || input.IsKeyDown(core.KEY_W) {
		pos[1] += step
	}
	if input.IsKeyDown(core.KEY_DOWN) || input.IsKeyDown(core.KEY_S) {
		pos[1] -= step
	}
	state.camera.SetPosition(pos)
	if input.IsKeyDown(core.KEY_Q) {
		state.camera.ScreenCorrection = math.Clamp(state.camera.ScreenCorrection*(1+float32(deltaTime)), 0.25, 4)
	}
	if input.IsKeyDown(core.KEY_E) {
		state.camera.ScreenCorrection = math.Clamp(state.camera.ScreenCorrection*(1-float32(deltaTime)), 0.25, 4)
	}

	if state.paused {
		return nil
	}
	state.time += deltaTime
	state.sprite.Turn(float32(deltaTime * 30))

	for i := 0; i < state.batch.Len(); i++ {
		if err := state.services.Device.UpdateTexture2DBatchInstance(state.batch, i, g.batchInstance(i, state.time)); err != nil {
			return err
		}
	}
	return nil
}

func (g *TestGame) Render(deltaTime float64) error {
	state := g.state()
	device := state.services.Device

	// the scene goes to the offscreen target first
	if err := device.BindRenderTarget(state.target); err != nil {
		return err
	}
	if err := device.Clear(); err != nil {
		return err
	}
	if err := device.SetCamera(state.camera); err != nil {
		return err
	}

	if err := device.BindShaderProgram(state.spriteShader); err != nil {
		return err
	}
	white := mgl32.Vec4{1, 1, 1, 1}
	if err := device.DrawTexture2D(state.sprite, state.crate, white); err != nil {
		return err
	}
	corner := math.NewTransform2D(math.Vec2{-400, 200}, 0, math.Vec2{128, 128})
	if err := device.DrawSubTexture2D(corner, state.checkerboard, state.sheet.Subimage(1, 2), white); err != nil {
		return err
	}
	tiled := math.NewTransform2D(math.Vec2{400, 200}, 0, math.Vec2{256, 128})
	if err := device.DrawTexture2DI(tiled, state.checkerboard, mgl32.Vec2{4, 2}, mgl32.Vec4{0.6, 0.8, 1, 1}); err != nil {
		return err
	}

	if err := device.BindShaderProgram(state.batchShader); err != nil {
		return err
	}
	if err := device.DrawTexture2DBatch(state.batch, state.checkerboard); err != nil {
		return err
	}

	if err := device.BindShaderProgram(state.rectShader); err != nil {
		return err
	}
	frame := math.NewTransform2D(math.Vec2{0, 0}, 0, math.Vec2{280, 280})
	if err := device.DrawRect(frame, mgl32.Vec4{1, 0.8, 0, 1}, 4); err != nil {
		return err
	}
	marker := math.NewTransform2D(math.Vec2{0, -300}, 45, math.Vec2{24, 24})
	if err := device.FillRect(marker, mgl32.Vec4{0.9, 0.1, 0.2, 0.8}); err != nil {
		return err
	}

	// then it is presented, with the HUD on top
	if err := device.UnbindRenderTarget(); err != nil {
		return err
	}
	if err := device.BindShaderProgram(state.screenShader); err != nil {
		return err
	}
	if err := device.DrawRenderTarget(state.target); err != nil {
		return err
	}

	if !state.showHUD {
		return nil
	}
	if err := device.BindShaderProgram(state.fontShader); err != nil {
		return err
	}
	hud := components.NewOrthographicCamera()
	hud.SetPosition(math.Vec3{float32(state.width) / 2, float32(state.height) / 2, 0})
	if err := device.SetCamera(hud); err != nil {
		return err
	}
	fps := 0.0
	if deltaTime > 0 {
		fps = 1 / deltaTime
	}
	top := float32(state.height) - 32
	if err := device.DrawText2D(state.font, fmt.Sprintf("%.0f fps", fps), mgl32.Vec2{16, top}, 1, white, metadata.TextAlignLeft); err != nil {
		return err
	}
	help := "arrows/WASD move, Q/E zoom, R reset, space pause, H hide"
	return device.DrawText2D(state.font, help, mgl32.Vec2{float32(state.width) - 16, 16}, 0.75, mgl32.Vec4{0.8, 0.8, 0.8, 1}, metadata.TextAlignRight)
}

func (g *TestGame) OnResize(width uint32, height uint32) error {
	state := g.state()
	state.width = width
	state.height = height
	if state.target == nil {
		return nil
	}
	return state.services.Device.ResizeRenderTarget(state.target, width, height)
}

func (g *TestGame) Shutdown() error {
	core.LogInfo("shutting down testbed...")
	state := g.state()
	device := state.services.Device

	var errs []error
	errs = append(errs,
		device.DisposeFont(state.font),
		device.DisposeRenderTarget(state.target),
		device.DisposeTexture2DBatch(state.batch),
		device.DisposeImageTexture(state.crate),
		device.DisposeImageTexture(state.checkerboard),
	)
	for _, p := range []*metadata.ShaderProgram{state.spriteShader, state.batchShader, state.rectShader, state.fontShader, state.screenShader} {
		errs = append(errs, device.DisposeShaderProgram(p))
	}
	return errors.Join(errs...)
}
