package metadata

type Viewport struct {
	Width  uint32
	Height uint32
}

func (v Viewport) AspectRatio() float32 {
	if v.Height == 0 {
		return 1
	}
	return float32(v.Width) / float32(v.Height)
}
