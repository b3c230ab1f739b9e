package metadata

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/spaghettifunk/glimmer/engine/core"
	"github.com/spaghettifunk/glimmer/engine/math"
)

func TestTexturePreLoadValidate(t *testing.T) {
	tests := []struct {
		name  string
		state TexturePreLoad
		want  error
	}{
		{"rgba ok", TexturePreLoad{Width: 2, Height: 2, Data: make([]byte, 16), Mode: ColorModeRGBA}, nil},
		{"rgb ok", TexturePreLoad{Width: 3, Height: 1, Data: make([]byte, 9), Mode: ColorModeRGB}, nil},
		{"short", TexturePreLoad{Width: 2, Height: 2, Data: make([]byte, 12), Mode: ColorModeRGBA}, core.ErrInvalidData},
		{"empty", TexturePreLoad{Width: 0, Height: 2, Mode: ColorModeRGBA}, core.ErrInvalidDimensions},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.state.Validate()
			if tt.want == nil && err != nil {
				t.Fatalf("unexpected error %v", err)
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestCheckerboardTexture(t *testing.T) {
	tex := NewCheckerboardTexture(4, 2, [4]uint8{1, 1, 1, 1}, [4]uint8{2, 2, 2, 2})
	s := tex.State.(TexturePreLoad)
	if err := s.Validate(); err != nil {
		t.Fatal(err)
	}
	at := func(x, y int) uint8 { return s.Data[(y*4+x)*4] }
	if at(0, 0) != 1 || at(2, 0) != 2 || at(0, 2) != 2 || at(3, 3) != 1 {
		t.Errorf("unexpected pattern %v", s.Data)
	}
}

func TestBatchAddInstanceOnlyBeforeUpload(t *testing.T) {
	b := NewTexture2DBatch()
	if err := b.AddInstance(Texture2DInstance{Visible: true}); err != nil {
		t.Fatal(err)
	}
	if b.Len() != 1 {
		t.Fatalf("Len = %d", b.Len())
	}

	b.State = BatchLoaded{Instances: b.Instances(), TransformBuffer: 1, ColorBuffer: 2, UVBuffer: 3}
	err := b.AddInstance(Texture2DInstance{})
	if !errors.Is(err, core.ErrInvalidState) {
		t.Fatalf("err = %v, want ErrInvalidState", err)
	}
	if b.Len() != 1 {
		t.Errorf("loaded batch grew to %d", b.Len())
	}
}

func TestBatchesDoNotShareInstances(t *testing.T) {
	base := make([]Texture2DInstance, 1, 4)
	first := NewTexture2DBatch(base...)
	second := NewTexture2DBatch(base...)

	if err := first.AddInstance(Texture2DInstance{Visible: true}); err != nil {
		t.Fatal(err)
	}
	if err := second.AddInstance(Texture2DInstance{Visible: false}); err != nil {
		t.Fatal(err)
	}
	if !first.Instances()[1].Visible {
		t.Error("adding to the second batch overwrote the first")
	}
	if second.Instances()[1].Visible {
		t.Error("adding to the first batch overwrote the second")
	}

	base[0].Visible = true
	if first.Instances()[0].Visible {
		t.Error("batch follows changes to the caller's slice")
	}
}

func TestSerializeInstances(t *testing.T) {
	tr := math.NewTransform2D(mgl32.Vec2{3, 4}, 0, mgl32.Vec2{1, 1})
	visible := NewTexture2DInstance(tr, mgl32.Vec4{1, 0, 0, 1}, math.FullUVTransform())
	hidden := visible
	hidden.Visible = false

	transforms, colors, uvs := SerializeInstances([]Texture2DInstance{visible, hidden})
	if len(transforms) != 32 || len(colors) != 8 || len(uvs) != 8 {
		t.Fatalf("stream lengths %d/%d/%d", len(transforms), len(colors), len(uvs))
	}
	// column major: translation lives in elements 12..14.
	if transforms[12] != 3 || transforms[13] != 4 {
		t.Errorf("translation = %v", transforms[12:15])
	}
	for _, v := range transforms[16:] {
		if v != 0 {
			t.Fatalf("hidden instance transform not zeroed: %v", transforms[16:])
		}
	}
	if colors[4] != 1 || uvs[4] != 1 {
		t.Errorf("hidden instance lost color or uv: %v %v", colors, uvs)
	}
}

func testFont() *Font {
	f := NewFont("test")
	f.Glyphs['A'] = Glyph{TextureID: 1, Width: 10, Height: 12, Advance: 11 << 6}
	f.Glyphs['B'] = Glyph{TextureID: 2, Width: 9, Height: 14, Advance: 10 << 6}
	f.Glyphs[' '] = Glyph{Advance: 4 << 6}
	return f
}

func TestStringBounds(t *testing.T) {
	f := testFont()
	b := f.StringBounds("AB", 1.0)
	if b != (mgl32.Vec2{21, 14}) {
		t.Fatalf("bounds = %v, want [21 14]", b)
	}
	s := f.StringBounds("AB", 2.5)
	if s != (mgl32.Vec2{21 * 2.5, 14 * 2.5}) {
		t.Errorf("scaled bounds = %v", s)
	}
	if got := f.StringBounds("A?B", 1.0); got != b {
		t.Errorf("unknown rune changed bounds: %v", got)
	}
}

func TestAlignOffset(t *testing.T) {
	bounds := mgl32.Vec2{40, 10}
	if AlignOffset(TextAlignLeft, bounds) != 0 ||
		AlignOffset(TextAlignCenter, bounds) != -20 ||
		AlignOffset(TextAlignRight, bounds) != -40 {
		t.Error("unexpected alignment offsets")
	}
}

func TestShapes(t *testing.T) {
	for _, s := range []Shape{FramebufferShape(), TextureShape(), BatchShape(), RectShape()} {
		if len(s.Vertices) != 12 || len(s.Indices) != 6 {
			t.Errorf("%s: %d vertices, %d indices", s.Name, len(s.Vertices), len(s.Indices))
		}
		if s.Name != "rect" && len(s.UVs) != 8 {
			t.Errorf("%s: %d uvs", s.Name, len(s.UVs))
		}
	}
	if RectShape().UVs != nil {
		t.Error("rect shape should carry no uvs")
	}
	if FramebufferShape().Vertices[0] != -1 || TextureShape().Vertices[0] != -0.5 {
		t.Error("unexpected quad extents")
	}
}

func TestSpriteSheet(t *testing.T) {
	_, err := NewSpriteSheet(4, 4, NewImageTexture(make([]byte, 4), 1, 1))
	if !errors.Is(err, core.ErrInvalidState) {
		t.Fatalf("err = %v, want ErrInvalidState", err)
	}

	tex := &ImageTexture{State: TextureLoaded{ID: 7, Width: 128, Height: 64}}
	cols, rows := CalcTileLayout(tex, 32, 16)
	if cols != 4 || rows != 4 {
		t.Fatalf("layout = %dx%d", cols, rows)
	}
	sheet, err := NewSpriteSheet(cols, rows, tex)
	if err != nil {
		t.Fatal(err)
	}
	r := sheet.Subimage(1, 2)
	if r.Position != (mgl32.Vec2{32, 32}) || r.Size != (mgl32.Vec2{32, 16}) {
		t.Errorf("Subimage = %+v", r)
	}
	uv := sheet.UVTransform(1, 2)
	if uv != (mgl32.Vec4{0.25, 0.25, 0.25, 0.5}) {
		t.Errorf("UVTransform = %v", uv)
	}
	if c, r := CalcTileLayout(&ImageTexture{State: TextureDisposed{}}, 8, 8); c != 0 || r != 0 {
		t.Error("disposed texture should have no layout")
	}
}

func TestMeshLocalMatrix(t *testing.T) {
	m := NewMesh("m", nil, nil, nil, nil)
	if !m.LocalMatrix().ApproxEqual(mgl32.Ident4()) {
		t.Fatalf("default local matrix = %v", m.LocalMatrix())
	}
	m.LocalPosition = mgl32.Vec3{1, 2, 3}
	m.LocalScale = mgl32.Vec3{2, 2, 2}
	p := m.LocalMatrix().Mul4x1(mgl32.Vec4{1, 1, 1, 1})
	if !p.ApproxEqual(mgl32.Vec4{3, 4, 5, 1}) {
		t.Errorf("point = %v", p)
	}
}
