package math

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestGenerateUVCoordsFullTexture(t *testing.T) {
	uv := GenerateUVCoords(64, 32, Vec2{0, 0}, Vec2{64, 32})
	want := UVCoords{
		BottomLeft:  Vec2{0, 0},
		TopLeft:     Vec2{0, 1},
		TopRight:    Vec2{1, 1},
		BottomRight: Vec2{1, 0},
	}
	if uv != want {
		t.Fatalf("GenerateUVCoords = %+v, want %+v", uv, want)
	}
	if got := uv.Transform(); got != FullUVTransform() {
		t.Errorf("Transform = %v, want %v", got, FullUVTransform())
	}
}

func TestGenerateUVCoordsWindow(t *testing.T) {
	tests := []struct {
		name          string
		width, height float32
		point, size   Vec2
	}{
		{"quarter", 128, 128, Vec2{32, 64}, Vec2{32, 32}},
		{"odd", 100, 30, Vec2{7, 3}, Vec2{13, 9}},
		{"tiled", 16, 16, Vec2{0, 0}, Vec2{48, 32}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uv := GenerateUVCoords(tt.width, tt.height, tt.point, tt.size)
			if d := uv.TopLeft.Y() - uv.BottomLeft.Y(); !FloatEqual(d, tt.size.Y()/tt.height) {
				t.Errorf("height span = %v, want %v", d, tt.size.Y()/tt.height)
			}
			if d := uv.TopRight.X() - uv.TopLeft.X(); !FloatEqual(d, tt.size.X()/tt.width) {
				t.Errorf("width span = %v, want %v", d, tt.size.X()/tt.width)
			}
			tr := uv.Transform()
			if !FloatEqual(tr.Z(), tt.point.X()/tt.width) || !FloatEqual(tr.W(), tt.point.Y()/tt.height) {
				t.Errorf("offset = (%v, %v)", tr.Z(), tr.W())
			}
		})
	}
}

func TestGetSubimageTilesTexture(t *testing.T) {
	const texW, texH, cols, rows = 256, 128, 8, 4
	covered := make([][]int, texH)
	for i := range covered {
		covered[i] = make([]int, texW)
	}

	for c := uint32(0); c < cols; c++ {
		for r := uint32(0); r < rows; r++ {
			rect := GetSubimage(texW, texH, cols, rows, c, r)
			if rect.Size.X() != texW/cols || rect.Size.Y() != texH/rows {
				t.Fatalf("cell (%d,%d) size = %v", c, r, rect.Size)
			}
			x0, y0 := int(rect.Position.X()), int(rect.Position.Y())
			for y := y0; y < y0+int(rect.Size.Y()); y++ {
				for x := x0; x < x0+int(rect.Size.X()); x++ {
					covered[y][x]++
				}
			}
		}
	}

	for y := range covered {
		for x := range covered[y] {
			if covered[y][x] != 1 {
				t.Fatalf("pixel (%d,%d) covered %d times", x, y, covered[y][x])
			}
		}
	}
}

func TestTileFromIndex(t *testing.T) {
	c, r := TileFromIndex(5, 4, 3, false)
	if c != 1 || r != 1 {
		t.Errorf("TileFromIndex(5) = (%d,%d), want (1,1)", c, r)
	}
	c, r = TileFromIndex(5, 4, 3, true)
	if c != 1 || r != 1 {
		t.Errorf("reversed TileFromIndex(5) = (%d,%d), want (1,1)", c, r)
	}
	c, r = TileFromIndex(0, 4, 3, true)
	if c != 0 || r != 2 {
		t.Errorf("reversed TileFromIndex(0) = (%d,%d), want (0,2)", c, r)
	}
}

func TestEmptyGrid(t *testing.T) {
	for _, reversed := range []bool{false, true} {
		if c, r := TileFromIndex(3, 0, 2, reversed); c != 0 || r != 0 {
			t.Errorf("no columns: (%d,%d)", c, r)
		}
		if c, r := TileFromIndex(3, 2, 0, reversed); c != 0 || r != 0 {
			t.Errorf("no rows: (%d,%d)", c, r)
		}
	}
	if got := GetSubimage(64, 64, 0, 4, 0, 0); got != (Rect{}) {
		t.Errorf("no columns: %v", got)
	}
	if got := GetSubimage(64, 64, 4, 0, 0, 0); got != (Rect{}) {
		t.Errorf("no rows: %v", got)
	}
}

func TestTransform2DModelMatrix(t *testing.T) {
	tr := NewTransform2D(Vec2{10, 20}, 90, Vec2{4, 2})

	p := tr.ModelMatrix().Mul4x1(Vec4{0.5, 0, 0, 1})
	// x half-extent 2 rotated onto +y, then translated.
	if !p.ApproxEqualThreshold(Vec4{10, 22, 0, 1}, 1e-4) {
		t.Errorf("transformed point = %v", p)
	}
	if tr.AspectRatio() != 2 {
		t.Errorf("AspectRatio = %v, want 2", tr.AspectRatio())
	}

	tr.SetScaleX(8)
	if tr.Scale() != (Vec2{8, 2}) {
		t.Errorf("SetScaleX changed y: %v", tr.Scale())
	}
	if tr.AspectRatio() != 4 {
		t.Errorf("AspectRatio after SetScaleX = %v", tr.AspectRatio())
	}

	tr.SetRotation(0)
	tr.SetPositionXY(0, 0)
	if m := tr.ModelMatrix(); !m.ApproxEqual(mgl32.Scale3D(8, 2, 1)) {
		t.Errorf("matrix not rebuilt after setters: %v", m)
	}
}

func TestTransform3DModelMatrix(t *testing.T) {
	tr := TransformFromPosition(Vec3{1, 2, 3})
	if !tr.ModelMatrix().ApproxEqual(mgl32.Translate3D(1, 2, 3)) {
		t.Fatalf("unexpected matrix %v", tr.ModelMatrix())
	}
	tr.SetScale(Vec3{2, 2, 2})
	tr.TurnZ(90)
	p := tr.ModelMatrix().Mul4x1(Vec4{1, 0, 0, 1})
	if !p.ApproxEqualThreshold(Vec4{1, 4, 3, 1}, 1e-4) {
		t.Errorf("transformed point = %v", p)
	}
}

func TestGenerateNormals(t *testing.T) {
	positions := []float32{
		0, 0, 0,
		1, 0, 0,
		0, 1, 0,
	}
	n := GenerateNormals(positions, []uint32{0, 1, 2})
	for i := 0; i < 3; i++ {
		if n[i*3] != 0 || n[i*3+1] != 0 || n[i*3+2] != 1 {
			t.Fatalf("normal %d = %v", i, n[i*3:i*3+3])
		}
	}
}

func TestClamp(t *testing.T) {
	if Clamp(5, 0, 3) != 3 || Clamp(-1, 0, 3) != 0 || Clamp(float32(1.5), 0, 3) != 1.5 {
		t.Error("Clamp returned unexpected values")
	}
}
