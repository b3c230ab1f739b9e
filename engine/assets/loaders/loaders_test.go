package loaders

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/spaghettifunk/glimmer/engine/core"
	"github.com/spaghettifunk/glimmer/engine/renderer/metadata"
)

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestDecodeImageTexturePNG(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.NRGBA{255, 0, 0, 255})
	img.Set(1, 1, color.NRGBA{0, 0, 255, 128})

	tex := DecodeImageBytes(encodePNG(t, img), "dots.png", false)
	pre, ok := tex.State.(metadata.TexturePreLoad)
	if !ok {
		t.Fatalf("state = %s", tex.StateName())
	}
	if pre.Mode != metadata.ColorModeRGBA || pre.Width != 2 || pre.Height != 2 {
		t.Fatalf("decoded %+v", pre)
	}
	if err := pre.Validate(); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(pre.Data[:4], []byte{255, 0, 0, 255}) || !bytes.Equal(pre.Data[12:], []byte{0, 0, 255, 128}) {
		t.Errorf("pixels = %v", pre.Data)
	}

	flipped := DecodeImageBytes(encodePNG(t, img), "dots.png", true).State.(metadata.TexturePreLoad)
	if !bytes.Equal(flipped.Data[8:12], []byte{255, 0, 0, 255}) {
		t.Errorf("flipped pixels = %v", flipped.Data)
	}
}

func TestDecodeImageTextureJPEGIsRGB(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 8, 4))
	for i := range img.Pix {
		img.Pix[i] = 200
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatal(err)
	}

	pre, ok := DecodeImageTexture(&buf, "grey.jpg", false).State.(metadata.TexturePreLoad)
	if !ok {
		t.Fatal("jpeg not decoded")
	}
	if pre.Mode != metadata.ColorModeRGB || len(pre.Data) != 8*4*3 {
		t.Errorf("mode %s with %d bytes", pre.Mode, len(pre.Data))
	}
}

func TestDecodeImageTextureCorrupted(t *testing.T) {
	tests := []struct {
		name string
		tex  *metadata.ImageTexture
	}{
		{"garbage", DecodeImageBytes([]byte("not an image"), "x.png", false)},
		{"truncated png", DecodeImageBytes(encodePNG(t, image.NewGray(image.Rect(0, 0, 4, 4)))[:20], "x.png", false)},
		{"missing file", LoadImageTexture(filepath.Join(t.TempDir(), "nope.png"), false)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, ok := tt.tex.State.(metadata.TextureCorrupted)
			if !ok || s.Reason == "" {
				t.Errorf("state = %s", tt.tex.StateName())
			}
		})
	}
}

func TestReadShaderSource(t *testing.T) {
	dir := t.TempDir()
	vert := filepath.Join(dir, "sprite.vert")
	frag := filepath.Join(dir, "sprite.frag")
	if err := os.WriteFile(vert, []byte("#version 410 core\nvoid main() {}\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(frag, []byte("#version 410 core\nout vec4 c;\nvoid main() { c = vec4(1); }\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	p, err := LoadShaderProgram(vert, frag)
	if err != nil {
		t.Fatal(err)
	}
	pre, ok := p.State.(metadata.ShaderPreBuild)
	if !ok || p.Name != "sprite" || pre.VertexSource == "" || pre.FragmentSource == "" {
		t.Errorf("program = %+v", p)
	}

	start := time.Now()
	if _, err := ReadShaderSource(filepath.Join(dir, "missing.vert")); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("missing stage = %v", err)
	}
	if time.Since(start) > ShaderReadTimeout/2 {
		t.Error("missing stage was retried")
	}
}

func TestReadShaderSourceRetriesEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hot.frag")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	go func() {
		time.Sleep(50 * time.Millisecond)
		os.WriteFile(path, []byte("void main() {}"), 0o644)
	}()

	src, err := ReadShaderSource(path)
	if err != nil || src != "void main() {}" {
		t.Fatalf("src = %q, err = %v", src, err)
	}

	old := ShaderReadTimeout
	ShaderReadTimeout = 50 * time.Millisecond
	defer func() { ShaderReadTimeout = old }()
	empty := filepath.Join(t.TempDir(), "empty.frag")
	if err := os.WriteFile(empty, []byte("  \n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadShaderSource(empty); !errors.Is(err, errEmptySource) {
		t.Errorf("empty stage = %v", err)
	}
}

func TestRasterizeFontData(t *testing.T) {
	face, err := RasterizeFontData(goregular.TTF, "goregular", 32)
	if err != nil {
		t.Fatal(err)
	}
	if face.LineHeight <= 0 || face.PixelHeight != 32 {
		t.Errorf("face metrics %+v", face)
	}
	glyphs := map[rune]metadata.GlyphBitmap{}
	for _, g := range face.Glyphs {
		if g.Rune < metadata.FirstGlyph || g.Rune > metadata.LastGlyph {
			t.Fatalf("rune %d outside range", g.Rune)
		}
		if len(g.Pixels) != int(g.Width*g.Height) {
			t.Fatalf("rune %q bitmap %d bytes for %dx%d", g.Rune, len(g.Pixels), g.Width, g.Height)
		}
		glyphs[g.Rune] = g
	}

	a, ok := glyphs['A']
	if !ok || a.Width == 0 || a.Height == 0 || a.Advance <= 0 {
		t.Fatalf("A = %+v", a)
	}
	if a.BearingY <= 0 || a.BearingY > 32 {
		t.Errorf("A bearing y = %d", a.BearingY)
	}
	var lit bool
	for _, p := range a.Pixels {
		lit = lit || p > 128
	}
	if !lit {
		t.Error("A has no coverage")
	}

	space, ok := glyphs[' ']
	if !ok || space.Width != 0 || len(space.Pixels) != 0 || space.Advance <= 0 {
		t.Errorf("space = %+v", space)
	}
	if _, ok := glyphs[0x07]; ok {
		t.Error("control character rasterized")
	}
}

func TestRasterizeFontRejects(t *testing.T) {
	if _, err := RasterizeFontData(goregular.TTF, "goregular", 0); !errors.Is(err, core.ErrInvalidDimensions) {
		t.Errorf("0px = %v", err)
	}
	if _, err := RasterizeFontData([]byte("not a font"), "junk", 16); err == nil {
		t.Error("junk parsed as a font")
	}
	if _, err := RasterizeFont(filepath.Join(t.TempDir(), "none.ttf"), 16); err == nil {
		t.Error("missing file accepted")
	}
}

const testFNT = `info face="Tiny" size=8 bold=0 italic=0 charset="" unicode=1 stretchH=100 smooth=0 aa=1 padding=0,0,0,0 spacing=1,1 outline=0
common lineHeight=10 base=8 scaleW=8 scaleH=4 pages=1 packed=0 alphaChnl=0 redChnl=4 greenChnl=4 blueChnl=4
page id=0 file="tiny_0.png"
chars count=2
char id=65   x=0     y=0     width=4     height=4     xoffset=0     yoffset=4     xadvance=5     page=0  chnl=15
char id=32   x=4     y=0     width=0     height=0     xoffset=0     yoffset=0     xadvance=3     page=0  chnl=15
`

func TestLoadBitmapFont(t *testing.T) {
	dir := t.TempDir()
	sheet := image.NewNRGBA(image.Rect(0, 0, 8, 4))
	for x := 0; x < 4; x++ {
		sheet.Set(x, 0, color.NRGBA{255, 255, 255, 255})
	}
	if err := os.WriteFile(filepath.Join(dir, "tiny_0.png"), encodePNG(t, sheet), 0o644); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "tiny.fnt")
	if err := os.WriteFile(path, []byte(testFNT), 0o644); err != nil {
		t.Fatal(err)
	}

	face, err := LoadBitmapFont(path)
	if err != nil {
		t.Fatal(err)
	}
	if face.Name != "Tiny" || face.LineHeight != 10 || len(face.Glyphs) != 2 {
		t.Fatalf("face = %+v", face)
	}
	space, a := face.Glyphs[0], face.Glyphs[1]
	if space.Rune != ' ' || space.Advance != 3<<6 {
		t.Errorf("space = %+v", space)
	}
	if a.Rune != 'A' || a.BearingY != 4 || a.Advance != 5<<6 || len(a.Pixels) != 16 {
		t.Fatalf("A = %+v", a)
	}
	if a.Pixels[0] != 255 || a.Pixels[4] != 0 {
		t.Errorf("A coverage = %v", a.Pixels)
	}
}

func writeTestModel(t *testing.T) string {
	t.Helper()
	doc := gltf.NewDocument()
	positions := modeler.WritePosition(doc, [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}})
	indices := modeler.WriteIndices(doc, []uint16{0, 1, 2})
	doc.Meshes = []*gltf.Mesh{{
		Name: "tri",
		Primitives: []*gltf.Primitive{{
			Indices:    gltf.Index(indices),
			Attributes: map[string]int{gltf.POSITION: positions},
		}},
	}}
	doc.Nodes = []*gltf.Node{
		{Name: "root", Translation: [3]float64{0, 0, -2}, Children: []int{1}},
		{Name: "child", Mesh: gltf.Index(0), Translation: [3]float64{1, 0, 0}, Scale: [3]float64{2, 2, 2}},
	}
	doc.Scenes[0].Nodes = []int{0}

	path := filepath.Join(t.TempDir(), "tri.glb")
	if err := gltf.SaveBinary(doc, path); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadModel(t *testing.T) {
	model, err := LoadModel(writeTestModel(t))
	if err != nil {
		t.Fatal(err)
	}
	if model.Name != "tri" || len(model.Meshes) != 1 {
		t.Fatalf("model = %+v", model)
	}
	m := model.Meshes[0]
	if len(m.Vertices) != 9 || len(m.Indices) != 3 || len(m.Normals) != 9 {
		t.Fatalf("mesh %s: %d floats, %d indices, %d normals", m.Name, len(m.Vertices), len(m.Indices), len(m.Normals))
	}
	if !m.LocalPosition.ApproxEqual(mgl32.Vec3{1, 0, -2}) || !m.LocalScale.ApproxEqual(mgl32.Vec3{2, 2, 2}) {
		t.Errorf("local transform %v %v", m.LocalPosition, m.LocalScale)
	}
	// generated face normal of a counter-clockwise triangle in the xy plane
	if !(mgl32.Vec3{m.Normals[0], m.Normals[1], m.Normals[2]}).ApproxEqual(mgl32.Vec3{0, 0, 1}) {
		t.Errorf("normal = %v", m.Normals[:3])
	}
	if m.Material == nil || m.Material.BaseColorTexture == nil {
		t.Fatal("mesh without default material")
	}
	if _, ok := m.Material.BaseColorTexture.State.(metadata.TexturePreLoad); !ok {
		t.Error("default texture is not uploadable")
	}

	if _, err := LoadModel(filepath.Join(t.TempDir(), "none.gltf")); err == nil {
		t.Error("missing model accepted")
	}
}
