package metadata

import (
	"fmt"

	"github.com/spaghettifunk/glimmer/engine/core"
)

// ColorMode is the pixel layout recorded when an image is decoded.
type ColorMode uint8

const (
	ColorModeRGBA ColorMode = iota
	ColorModeRGB
)

func (m ColorMode) Channels() int {
	if m == ColorModeRGB {
		return 3
	}
	return 4
}

func (m ColorMode) String() string {
	if m == ColorModeRGB {
		return "RGB"
	}
	return "RGBA"
}

// TextureState is one of TexturePreLoad, TextureLoaded, TextureCorrupted or
// TextureDisposed.
type TextureState interface {
	isTextureState()
}

// TexturePreLoad holds decoded pixels waiting for upload.
type TexturePreLoad struct {
	Path   string
	Width  uint32
	Height uint32
	Data   []byte
	Mode   ColorMode
}

// TextureLoaded is a resident texture. Pixel data is no longer kept.
type TextureLoaded struct {
	ID     uint32
	Width  uint32
	Height uint32
}

// TextureCorrupted is terminal: decoding failed.
type TextureCorrupted struct {
	Reason string
}

type TextureDisposed struct{}

func (TexturePreLoad) isTextureState()   {}
func (TextureLoaded) isTextureState()    {}
func (TextureCorrupted) isTextureState() {}
func (TextureDisposed) isTextureState()  {}

type ImageTexture struct {
	State TextureState
}

// NewImageTexture wraps raw RGBA pixels.
func NewImageTexture(data []byte, width, height uint32) *ImageTexture {
	return &ImageTexture{State: TexturePreLoad{Width: width, Height: height, Data: data, Mode: ColorModeRGBA}}
}

func NewCorruptedTexture(reason string) *ImageTexture {
	return &ImageTexture{State: TextureCorrupted{Reason: reason}}
}

// StateName is used in diagnostics.
func (t *ImageTexture) StateName() string {
	switch t.State.(type) {
	case TexturePreLoad:
		return "PreLoad"
	case TextureLoaded:
		return "Loaded"
	case TextureCorrupted:
		return "Corrupted"
	case TextureDisposed:
		return "Disposed"
	default:
		return "Unknown"
	}
}

// Dimensions reports the pixel size of a PreLoad or Loaded texture.
func (t *ImageTexture) Dimensions() (uint32, uint32, bool) {
	switch s := t.State.(type) {
	case TexturePreLoad:
		return s.Width, s.Height, true
	case TextureLoaded:
		return s.Width, s.Height, true
	default:
		return 0, 0, false
	}
}

// ID returns the GPU handle of a Loaded texture.
func (t *ImageTexture) ID() (uint32, bool) {
	if s, ok := t.State.(TextureLoaded); ok {
		return s.ID, true
	}
	return 0, false
}

func (t *ImageTexture) IsLoaded() bool {
	_, ok := t.State.(TextureLoaded)
	return ok
}

// Validate checks that the pixel buffer matches the recorded size and mode.
func (s TexturePreLoad) Validate() error {
	if s.Width == 0 || s.Height == 0 {
		return fmt.Errorf("%dx%d texture: %w", s.Width, s.Height, core.ErrInvalidDimensions)
	}
	want := int(s.Width) * int(s.Height) * s.Mode.Channels()
	if len(s.Data) != want {
		return fmt.Errorf("%d bytes for %dx%d %s, want %d: %w", len(s.Data), s.Width, s.Height, s.Mode, want, core.ErrInvalidData)
	}
	return nil
}
