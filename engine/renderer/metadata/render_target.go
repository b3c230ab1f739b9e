package metadata

/**
 * @brief An offscreen framebuffer with a colour texture and a combined
 * depth/stencil renderbuffer. The three handles are either all zero or
 * all valid.
 */
type RenderTarget struct {
	Name           string
	Width          uint32
	Height         uint32
	FramebufferID  uint32
	TextureID      uint32
	RenderbufferID uint32
}

func (rt *RenderTarget) IsResident() bool {
	return rt.FramebufferID != 0 && rt.TextureID != 0 && rt.RenderbufferID != 0
}
