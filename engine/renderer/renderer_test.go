package renderer

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/spaghettifunk/glimmer/engine/core"
	"github.com/spaghettifunk/glimmer/engine/math"
	"github.com/spaghettifunk/glimmer/engine/renderer/components"
	"github.com/spaghettifunk/glimmer/engine/renderer/metadata"
	"github.com/spaghettifunk/glimmer/engine/renderer/opengl"
	"github.com/spaghettifunk/glimmer/engine/renderer/opengl/fakegl"
	"github.com/spaghettifunk/glimmer/engine/renderer/shaders"
)

// four quads with vao, vbo and ibo; all but the rect carry a uv buffer
const builtinObjects = 15

func newTestDevice(t *testing.T) (*Device, *fakegl.Context, *bytes.Buffer) {
	t.Helper()
	var logs bytes.Buffer
	d := NewDevice(WithLogger(core.NewLogger(&logs, "test ")))
	ctx := fakegl.New()
	if err := d.Init(ctx); err != nil {
		t.Fatal(err)
	}
	return d, ctx, &logs
}

func bindProgram(t *testing.T, d *Device, p *metadata.ShaderProgram) *metadata.ShaderProgram {
	t.Helper()
	if err := d.BuildShaderProgram(p); err != nil {
		t.Fatal(err)
	}
	if err := d.BindShaderProgram(p); err != nil {
		t.Fatal(err)
	}
	return p
}

func startFrame(t *testing.T, d *Device) {
	t.Helper()
	d.BeginFrame()
	if err := d.SetViewport(metadata.Viewport{Width: 800, Height: 600}); err != nil {
		t.Fatal(err)
	}
	if err := d.SetCamera(components.NewOrthographicCamera()); err != nil {
		t.Fatal(err)
	}
}

func programID(t *testing.T, p *metadata.ShaderProgram) uint32 {
	t.Helper()
	id, ok := p.ID()
	if !ok {
		t.Fatalf("program %s is %s", p.Name, p.StateName())
	}
	return id
}

func TestInit(t *testing.T) {
	d, ctx, logs := newTestDevice(t)

	if !ctx.Enabled[opengl.DepthTest] || ctx.DepthFn != opengl.Less {
		t.Error("depth test not configured")
	}
	if !ctx.Enabled[opengl.Blend] || ctx.BlendSrc != opengl.SrcAlpha || ctx.BlendDst != opengl.OneMinusSrcAlpha {
		t.Error("alpha blending not configured")
	}
	if got := ctx.LiveObjects(); got != builtinObjects {
		t.Fatalf("live objects after init = %d, want %d", got, builtinObjects)
	}
	for _, s := range []*shape{d.framebufferShape, d.textureShape, d.batchShape, d.rectShape} {
		if s == nil || s.vao == 0 || s.indexCount != 6 {
			t.Fatalf("built-in shape not uploaded: %+v", s)
		}
	}
	if d.batchShape.vao == d.textureShape.vao {
		t.Error("batch and texture quads share a vertex array")
	}

	err := d.Init(ctx)
	if !errors.Is(err, core.ErrAlreadyInitialized) {
		t.Fatalf("second Init = %v", err)
	}
	if got := ctx.LiveObjects(); got != builtinObjects {
		t.Errorf("second Init leaked objects: %d", got)
	}
	if !strings.Contains(logs.String(), "already initialized") {
		t.Errorf("no diagnostic for second Init: %q", logs.String())
	}

	if err := d.Dispose(); err != nil {
		t.Fatal(err)
	}
	if got := ctx.LiveObjects(); got != 0 {
		t.Errorf("live objects after Dispose = %d", got)
	}
	if err := d.Init(fakegl.New()); err != nil {
		t.Errorf("re-init after Dispose: %v", err)
	}
}

func TestOperationsBeforeInit(t *testing.T) {
	var logs bytes.Buffer
	d := NewDevice(WithLogger(core.NewLogger(&logs, "")))
	tex := metadata.NewImageTexture(make([]byte, 4), 1, 1)
	tr := math.NewTransform2D(mgl32.Vec2{}, 0, mgl32.Vec2{1, 1})

	ops := map[string]func() error{
		"LoadTexture":        func() error { return d.LoadTexture(tex) },
		"BuildShaderProgram": func() error { return d.BuildShaderProgram(shaders.NewScreenShader()) },
		"LoadBatch":          func() error { return d.LoadTexture2DBatch(metadata.NewTexture2DBatch()) },
		"InitMesh":           func() error { return d.InitMesh(metadata.NewMesh("m", []float32{0, 0, 0}, nil, []uint32{0}, nil)) },
		"CreateRenderTarget": func() error { _, err := d.CreateRenderTarget(8, 8); return err },
		"DrawTexture2D":      func() error { return d.DrawTexture2D(tr, tex, mgl32.Vec4{1, 1, 1, 1}) },
		"SetCamera":          func() error { return d.SetCamera(components.NewOrthographicCamera()) },
		"DisposeImage":       func() error { return d.DisposeImageTexture(tex) },
		"Dispose":            d.Dispose,
	}
	for name, op := range ops {
		if err := op(); !errors.Is(err, core.ErrNotInitialized) {
			t.Errorf("%s = %v, want ErrNotInitialized", name, err)
		}
	}
	if _, ok := tex.State.(metadata.TexturePreLoad); !ok {
		t.Error("texture changed state on an uninitialized device")
	}
	if d.GetError() != opengl.NoError {
		t.Error("GetError before Init should report no error")
	}
}

func TestFrameState(t *testing.T) {
	d, ctx, _ := newTestDevice(t)

	if err := d.ClearColor(mgl32.Vec4{0.1, 0.2, 0.3, 1}); err != nil {
		t.Fatal(err)
	}
	if err := d.Clear(); err != nil {
		t.Fatal(err)
	}
	if ctx.ClearColorRGB != (mgl32.Vec4{0.1, 0.2, 0.3, 1}) {
		t.Errorf("clear colour = %v", ctx.ClearColorRGB)
	}
	if len(ctx.Clears) != 1 || ctx.Clears[0] != opengl.ColorBufferBit|opengl.DepthBufferBit {
		t.Errorf("clears = %v", ctx.Clears)
	}

	vp := metadata.Viewport{Width: 1280, Height: 720}
	if err := d.SetViewport(vp); err != nil {
		t.Fatal(err)
	}
	if ctx.ViewportRect != [4]int32{0, 0, 1280, 720} || d.Viewport() != vp {
		t.Errorf("viewport = %v", ctx.ViewportRect)
	}

	cam := components.NewOrthographicCamera()
	if err := d.SetCamera(cam); err != nil {
		t.Fatal(err)
	}
	if d.ProjectionMatrix() != cam.ProjectionMatrix(vp) || d.ViewMatrix() != cam.ViewMatrix() {
		t.Error("camera matrices not captured")
	}
	if err := d.SetCamera(nil); !errors.Is(err, core.ErrCameraNotSet) {
		t.Errorf("SetCamera(nil) = %v", err)
	}
}

func TestDrawNeedsProgramAndCamera(t *testing.T) {
	d, _, _ := newTestDevice(t)
	tex := loadTestTexture(t, d, 4, 4)
	tr := math.NewTransform2D(mgl32.Vec2{}, 0, mgl32.Vec2{10, 10})
	white := mgl32.Vec4{1, 1, 1, 1}

	if err := d.DrawTexture2D(tr, tex, white); !errors.Is(err, core.ErrNoProgramBound) {
		t.Fatalf("draw without program = %v", err)
	}
	bindProgram(t, d, shaders.NewTexture2DShader())
	if err := d.DrawTexture2D(tr, tex, white); !errors.Is(err, core.ErrCameraNotSet) {
		t.Fatalf("draw without camera = %v", err)
	}
	startFrame(t, d)
	if err := d.DrawTexture2D(tr, tex, white); err != nil {
		t.Fatal(err)
	}

	// a new frame invalidates the previous matrices
	d.BeginFrame()
	if err := d.DrawTexture2D(tr, tex, white); !errors.Is(err, core.ErrCameraNotSet) {
		t.Fatalf("draw with stale camera = %v", err)
	}
	if err := d.UnbindShaderProgram(); err != nil {
		t.Fatal(err)
	}
	if err := d.SetUniformFloat("aspect", 1); !errors.Is(err, core.ErrNoProgramBound) {
		t.Errorf("SetUniformFloat without program = %v", err)
	}
}

func TestBuildShaderProgram(t *testing.T) {
	d, ctx, _ := newTestDevice(t)

	p := shaders.NewTexture2DShader()
	if err := d.BuildShaderProgram(p); err != nil {
		t.Fatal(err)
	}
	id := programID(t, p)
	if id == 0 || !ctx.Programs[id].Linked {
		t.Fatal("program not linked")
	}
	if len(ctx.Shaders) != 0 {
		t.Errorf("%d intermediate shaders left alive", len(ctx.Shaders))
	}
	if ctx.UniformLookups != len(knownUniforms) {
		t.Errorf("uniform lookups at build = %d, want %d", ctx.UniformLookups, len(knownUniforms))
	}

	err := d.BuildShaderProgram(p)
	var stateErr *core.StateError
	if !errors.As(err, &stateErr) || stateErr.State != "Built" {
		t.Fatalf("rebuild of a Built program = %v", err)
	}
	if programID(t, p) != id {
		t.Error("rejected build changed the program")
	}
}

func TestBuildShaderProgramFailures(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*fakegl.Context)
		stage string
	}{
		{"vertex", func(c *fakegl.Context) { c.FailCompile = opengl.VertexShader }, "vertex shader compile"},
		{"fragment", func(c *fakegl.Context) { c.FailCompile = opengl.FragmentShader }, "fragment shader compile"},
		{"link", func(c *fakegl.Context) { c.FailLink = true }, "link"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, ctx, logs := newTestDevice(t)
			tt.setup(ctx)

			p := shaders.NewRectShader()
			err := d.BuildShaderProgram(p)
			var buildErr *core.BuildError
			if !errors.As(err, &buildErr) || !errors.Is(err, core.ErrBuildFailed) {
				t.Fatalf("err = %v, want BuildError", err)
			}
			if buildErr.Stage != tt.stage || buildErr.Log == "" {
				t.Errorf("stage = %q, log = %q", buildErr.Stage, buildErr.Log)
			}
			if _, ok := p.State.(metadata.ShaderPreBuild); !ok {
				t.Errorf("failed build left the program %s", p.StateName())
			}
			if got := ctx.LiveObjects(); got != builtinObjects {
				t.Errorf("failed build leaked %d objects", got-builtinObjects)
			}
			if !strings.Contains(logs.String(), "BuildShaderProgram rejected") {
				t.Error("missing diagnostic")
			}
		})
	}
}

func TestUniformLocationsResolvedOnce(t *testing.T) {
	d, ctx, _ := newTestDevice(t)
	tex := loadTestTexture(t, d, 4, 4)
	bindProgram(t, d, shaders.NewTexture2DShader())
	lookups := ctx.UniformLookups

	tr := math.NewTransform2D(mgl32.Vec2{1, 2}, 0, mgl32.Vec2{3, 3})
	for frame := 0; frame < 3; frame++ {
		startFrame(t, d)
		if err := d.DrawTexture2D(tr, tex, mgl32.Vec4{1, 1, 1, 1}); err != nil {
			t.Fatal(err)
		}
	}
	if ctx.UniformLookups != lookups {
		t.Errorf("draws resolved %d uniform locations", ctx.UniformLookups-lookups)
	}

	// names outside the well-known set are memoised on first use
	if err := d.SetUniformFloat("time", 1); err != nil {
		t.Fatal(err)
	}
	if err := d.SetUniformFloat("time", 2); err != nil {
		t.Fatal(err)
	}
	if ctx.UniformLookups != lookups+1 {
		t.Errorf("custom uniform looked up %d times", ctx.UniformLookups-lookups)
	}
}

func TestDisposeShaderProgram(t *testing.T) {
	d, ctx, logs := newTestDevice(t)
	p := bindProgram(t, d, shaders.NewTexture2DShader())
	id := programID(t, p)

	if err := d.DisposeShaderProgram(p); err != nil {
		t.Fatal(err)
	}
	if _, ok := p.State.(metadata.ShaderDisposed); !ok {
		t.Fatalf("state = %s", p.StateName())
	}
	if _, ok := ctx.Programs[id]; ok || ctx.BoundProgram != 0 {
		t.Error("program still alive or bound")
	}
	if _, ok := d.uniformCache[id]; ok {
		t.Error("uniform cache kept a disposed program")
	}

	// disposing again is a logged no-op
	if err := d.DisposeShaderProgram(p); err != nil {
		t.Fatalf("second dispose = %v", err)
	}
	if !strings.Contains(logs.String(), "dispose skipped") {
		t.Error("missing diagnostic for second dispose")
	}
	if err := d.BindShaderProgram(p); !errors.Is(err, core.ErrInvalidState) {
		t.Errorf("binding a disposed program = %v", err)
	}

	pre := shaders.NewFontShader()
	if err := d.DisposeShaderProgram(pre); err != nil {
		t.Fatal(err)
	}
	if _, ok := pre.State.(metadata.ShaderDisposed); !ok {
		t.Errorf("PreBuild program disposed to %s", pre.StateName())
	}
}

func TestRebuildShaderProgram(t *testing.T) {
	d, ctx, _ := newTestDevice(t)
	p := bindProgram(t, d, shaders.NewTexture2DShader())
	old := programID(t, p)
	vert, frag, err := shaders.Sources(shaders.Texture2D)
	if err != nil {
		t.Fatal(err)
	}

	if err := d.RebuildShaderProgram(p, vert, frag+"\n"); err != nil {
		t.Fatal(err)
	}
	next := programID(t, p)
	if next == old || ctx.BoundProgram != next {
		t.Fatalf("rebuilt program %d, bound %d", next, ctx.BoundProgram)
	}
	if _, ok := ctx.Programs[old]; ok {
		t.Error("old program not released")
	}

	ctx.FailLink = true
	if err := d.RebuildShaderProgram(p, vert, frag); !errors.Is(err, core.ErrBuildFailed) {
		t.Fatalf("broken rebuild = %v", err)
	}
	if programID(t, p) != next || ctx.BoundProgram != next {
		t.Error("broken rebuild replaced the running program")
	}
}
