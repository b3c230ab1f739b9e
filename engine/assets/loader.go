package assets

import (
	"path/filepath"
	"strings"

	"github.com/spaghettifunk/glimmer/engine/renderer/metadata"
)

var extensionTypes = map[string]metadata.ResourceType{
	".png":  metadata.ResourceTypeImage,
	".jpg":  metadata.ResourceTypeImage,
	".jpeg": metadata.ResourceTypeImage,
	".gif":  metadata.ResourceTypeImage,
	".bmp":  metadata.ResourceTypeImage,
	".tif":  metadata.ResourceTypeImage,
	".tiff": metadata.ResourceTypeImage,
	".webp": metadata.ResourceTypeImage,
	".vert": metadata.ResourceTypeShader,
	".frag": metadata.ResourceTypeShader,
	".gltf": metadata.ResourceTypeModel,
	".glb":  metadata.ResourceTypeModel,
	".ttf":  metadata.ResourceTypeSystemFont,
	".otf":  metadata.ResourceTypeSystemFont,
	".fnt":  metadata.ResourceTypeBitmapFont,
}

// DetermineAssetType classifies a file by its extension.
func DetermineAssetType(path string) metadata.ResourceType {
	if t, ok := extensionTypes[strings.ToLower(filepath.Ext(path))]; ok {
		return t
	}
	return metadata.ResourceTypeNone
}

// assetName is the lookup key of a file: its path below the root without
// extension, always with forward slashes.
func assetName(rel string) string {
	rel = filepath.ToSlash(rel)
	return strings.TrimSuffix(rel, filepath.Ext(rel))
}
