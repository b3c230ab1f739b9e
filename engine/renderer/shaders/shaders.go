// Package shaders holds the GLSL programs used by the built-in draw calls.
package shaders

import (
	"embed"
	"fmt"
	"sort"

	"github.com/spaghettifunk/glimmer/engine/renderer/metadata"
)

//go:embed glsl/*.vert glsl/*.frag
var files embed.FS

// Names of the built-in programs.
const (
	Texture2D = "texture2d"
	Screen    = "screen"
	Batch     = "batch"
	Font      = "font"
	Rect      = "rect"
	Mesh      = "mesh"
)

// Sources returns the vertex and fragment source of a built-in program.
func Sources(name string) (string, string, error) {
	vert, err := files.ReadFile("glsl/" + name + ".vert")
	if err != nil {
		return "", "", fmt.Errorf("unknown shader %q: %w", name, err)
	}
	frag, err := files.ReadFile("glsl/" + name + ".frag")
	if err != nil {
		return "", "", fmt.Errorf("unknown shader %q: %w", name, err)
	}
	return string(vert), string(frag), nil
}

// Names lists every built-in program.
func Names() []string {
	names := []string{Texture2D, Screen, Batch, Font, Rect, Mesh}
	sort.Strings(names)
	return names
}

// Stages lists the embedded stage files, e.g. for offline validation.
func Stages() ([]string, error) {
	entries, err := files.ReadDir("glsl")
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Name())
	}
	return out, nil
}

// ReadStage returns the contents of one embedded stage file.
func ReadStage(name string) ([]byte, error) {
	return files.ReadFile("glsl/" + name)
}

func program(name string) *metadata.ShaderProgram {
	vert, frag, err := Sources(name)
	if err != nil {
		// embedded at build time, so only a renamed file gets here
		panic(err)
	}
	return metadata.NewShaderProgram(name, vert, frag)
}

// NewTexture2DShader draws a single textured quad with a uv window and tint.
func NewTexture2DShader() *metadata.ShaderProgram { return program(Texture2D) }

// NewScreenShader presents a render target texture over the whole screen.
func NewScreenShader() *metadata.ShaderProgram { return program(Screen) }

// NewBatchShader draws instanced quads with per-instance transform, colour and uv window.
func NewBatchShader() *metadata.ShaderProgram { return program(Batch) }

// NewFontShader draws glyph quads sampling a single channel coverage texture.
func NewFontShader() *metadata.ShaderProgram { return program(Font) }

// NewRectShader fills or outlines a quad.
func NewRectShader() *metadata.ShaderProgram { return program(Rect) }

// NewMeshShader draws textured, tinted meshes.
func NewMeshShader() *metadata.ShaderProgram { return program(Mesh) }
