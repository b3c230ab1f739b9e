package metadata

import (
	"github.com/spaghettifunk/glimmer/engine/core"
	"github.com/spaghettifunk/glimmer/engine/math"
)

/**
 * @brief A loaded texture split into Columns x Rows equal tiles.
 */
type SpriteSheet struct {
	Columns   uint32
	Rows      uint32
	TextureID uint32
	Width     uint32
	Height    uint32
}

// NewSpriteSheet requires a Loaded texture.
func NewSpriteSheet(columns, rows uint32, texture *ImageTexture) (*SpriteSheet, error) {
	s, ok := texture.State.(TextureLoaded)
	if !ok {
		return nil, &core.StateError{Op: "NewSpriteSheet", Resource: "texture", State: texture.StateName()}
	}
	if columns == 0 || rows == 0 {
		return nil, core.ErrInvalidDimensions
	}
	return &SpriteSheet{
		Columns:   columns,
		Rows:      rows,
		TextureID: s.ID,
		Width:     s.Width,
		Height:    s.Height,
	}, nil
}

// CalcTileLayout returns how many whole tiles of the given size fit in the
// texture. Corrupted and disposed textures have no layout.
func CalcTileLayout(texture *ImageTexture, tileWidth, tileHeight uint32) (uint32, uint32) {
	w, h, ok := texture.Dimensions()
	if !ok || tileWidth == 0 || tileHeight == 0 {
		return 0, 0
	}
	return w / tileWidth, h / tileHeight
}

// Subimage is the pixel rectangle of a tile.
func (s *SpriteSheet) Subimage(column, row uint32) math.Rect {
	return math.GetSubimage(s.Width, s.Height, s.Columns, s.Rows, column, row)
}

func (s *SpriteSheet) TileFromIndex(index uint32, reversedRow bool) (uint32, uint32) {
	return math.TileFromIndex(index, s.Columns, s.Rows, reversedRow)
}

// UVTransform is the shader uv window of a tile.
func (s *SpriteSheet) UVTransform(column, row uint32) math.Vec4 {
	r := s.Subimage(column, row)
	return math.GenerateUVCoords(float32(s.Width), float32(s.Height), r.Position, r.Size).Transform()
}
