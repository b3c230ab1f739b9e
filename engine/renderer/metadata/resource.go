package metadata

type ResourceType int

/** @brief Pre-defined resource types. */
const (
	/** @brief Unknown or unsupported file. */
	ResourceTypeNone ResourceType = iota
	/** @brief Image resource type. */
	ResourceTypeImage
	/** @brief GLSL shader stage source. */
	ResourceTypeShader
	/** @brief glTF scene. */
	ResourceTypeModel
	/** @brief TrueType / OpenType font. */
	ResourceTypeSystemFont
	/** @brief AngelCode bitmap font descriptor. */
	ResourceTypeBitmapFont
)

func (t ResourceType) String() string {
	switch t {
	case ResourceTypeImage:
		return "image"
	case ResourceTypeShader:
		return "shader"
	case ResourceTypeModel:
		return "model"
	case ResourceTypeSystemFont:
		return "system_font"
	case ResourceTypeBitmapFont:
		return "bitmap_font"
	default:
		return "none"
	}
}
