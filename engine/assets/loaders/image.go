package loaders

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/spaghettifunk/glimmer/engine/core"
	"github.com/spaghettifunk/glimmer/engine/renderer/metadata"
)

// LoadImageTexture decodes the image at path into a PreLoad texture. Any
// failure, including a missing file, yields a Corrupted texture.
func LoadImageTexture(path string, flip bool) *metadata.ImageTexture {
	f, err := os.Open(path)
	if err != nil {
		core.LogWarn("image %s could not be opened: %s", path, err)
		return metadata.NewCorruptedTexture(err.Error())
	}
	defer f.Close()

	return DecodeImageTexture(f, path, flip)
}

// DecodeImageTexture decodes PNG, JPEG, GIF, BMP, TIFF or WebP data. Images
// whose colour model has no alpha channel are kept as tightly packed RGB,
// everything else is expanded to RGBA. With flip set the rows are reversed
// so the first row in memory is the bottom of the picture.
func DecodeImageTexture(r io.Reader, name string, flip bool) *metadata.ImageTexture {
	img, format, err := image.Decode(r)
	if err != nil {
		core.LogWarn("image %s could not be decoded: %s", name, err)
		return metadata.NewCorruptedTexture(fmt.Sprintf("%s: %s", name, err))
	}
	b := img.Bounds()
	if b.Empty() {
		return metadata.NewCorruptedTexture(fmt.Sprintf("%s: empty image", name))
	}

	mode := colorMode(img.ColorModel())
	var pixels []byte
	if mode == metadata.ColorModeRGB {
		pixels = packRGB(img)
	} else {
		rgba := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
		pixels = rgba.Pix
	}
	if flip {
		flipRows(pixels, b.Dx()*mode.Channels(), b.Dy())
	}

	core.LogDebug("decoded %s image %s (%dx%d %s)", format, name, b.Dx(), b.Dy(), mode)
	return &metadata.ImageTexture{State: metadata.TexturePreLoad{
		Path:   name,
		Width:  uint32(b.Dx()),
		Height: uint32(b.Dy()),
		Data:   pixels,
		Mode:   mode,
	}}
}

// DecodeImageBytes is DecodeImageTexture over an in-memory file.
func DecodeImageBytes(data []byte, name string, flip bool) *metadata.ImageTexture {
	return DecodeImageTexture(bytes.NewReader(data), name, flip)
}

func colorMode(m color.Model) metadata.ColorMode {
	switch m {
	case color.YCbCrModel, color.CMYKModel:
		return metadata.ColorModeRGB
	default:
		return metadata.ColorModeRGBA
	}
}

func packRGB(img image.Image) []byte {
	b := img.Bounds()
	out := make([]byte, 0, b.Dx()*b.Dy()*3)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			out = append(out, c.R, c.G, c.B)
		}
	}
	return out
}

func flipRows(pixels []byte, stride, rows int) {
	tmp := make([]byte, stride)
	for top, bottom := 0, rows-1; top < bottom; top, bottom = top+1, bottom-1 {
		a := pixels[top*stride : (top+1)*stride]
		b := pixels[bottom*stride : (bottom+1)*stride]
		copy(tmp, a)
		copy(a, b)
		copy(b, tmp)
	}
}
