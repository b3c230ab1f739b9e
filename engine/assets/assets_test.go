package assets

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spaghettifunk/glimmer/engine/renderer/metadata"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func newTestManager(t *testing.T) (*AssetManager, string) {
	t.Helper()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "textures", "crate.png"), "png")
	writeFile(t, filepath.Join(root, "shaders", "sprite.vert"), "void main() {}")
	writeFile(t, filepath.Join(root, "shaders", "sprite.frag"), "void main() {}")
	writeFile(t, filepath.Join(root, "fonts", "mono.ttf"), "ttf")
	writeFile(t, filepath.Join(root, "notes.txt"), "ignored")

	am, err := NewAssetManager()
	if err != nil {
		t.Fatal(err)
	}
	if err := am.Initialize(root); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { am.Close() })
	return am, root
}

func eventually(t *testing.T, cond func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(20 * time.Millisecond)
	}
	return false
}

func TestDetermineAssetType(t *testing.T) {
	tests := map[string]metadata.ResourceType{
		"a/b/crate.PNG":   metadata.ResourceTypeImage,
		"photo.jpeg":      metadata.ResourceTypeImage,
		"sky.webp":        metadata.ResourceTypeImage,
		"sprite.vert":     metadata.ResourceTypeShader,
		"sprite.frag":     metadata.ResourceTypeShader,
		"ship.glb":        metadata.ResourceTypeModel,
		"DejaVu.ttf":      metadata.ResourceTypeSystemFont,
		"arcade.fnt":      metadata.ResourceTypeBitmapFont,
		"readme.md":       metadata.ResourceTypeNone,
		"no_extension":    metadata.ResourceTypeNone,
		"shader.spv.orig": metadata.ResourceTypeNone,
	}
	for path, want := range tests {
		if got := DetermineAssetType(path); got != want {
			t.Errorf("%s = %s, want %s", path, got, want)
		}
	}
}

func TestIndex(t *testing.T) {
	am, root := newTestManager(t)

	if am.Count() != 4 {
		t.Errorf("indexed %d assets, want 4", am.Count())
	}
	info, err := am.Lookup("textures/crate", metadata.ResourceTypeImage)
	if err != nil {
		t.Fatal(err)
	}
	if info.Path != filepath.Join(root, "textures", "crate.png") {
		t.Errorf("path = %s", info.Path)
	}
	if _, err := am.Lookup("textures/crate", metadata.ResourceTypeModel); !errors.Is(err, ErrAssetNotFound) {
		t.Errorf("wrong type lookup = %v", err)
	}
	if fonts := am.Assets(metadata.ResourceTypeSystemFont); len(fonts) != 1 || fonts[0].Name != "fonts/mono" {
		t.Errorf("fonts = %+v", fonts)
	}

	tex, err := am.LoadTexture("textures/crate", false)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := tex.State.(metadata.TextureCorrupted); !ok {
		t.Errorf("invalid png decoded as %s", tex.StateName())
	}

	p, err := am.LoadShader("shaders/sprite")
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := p.State.(metadata.ShaderPreBuild); !ok || p.Name != "shaders/sprite" {
		t.Errorf("shader = %+v", p)
	}
	if _, err := am.LoadShader("shaders/missing"); !errors.Is(err, ErrAssetNotFound) {
		t.Errorf("missing shader = %v", err)
	}
}

func TestIndexFollowsFilesystem(t *testing.T) {
	am, root := newTestManager(t)

	writeFile(t, filepath.Join(root, "models", "ship.gltf"), "{}")
	if !eventually(t, func() bool {
		_, err := am.Lookup("models/ship", metadata.ResourceTypeModel)
		return err == nil
	}) {
		t.Fatal("new file in a new directory was not indexed")
	}

	if err := os.Remove(filepath.Join(root, "textures", "crate.png")); err != nil {
		t.Fatal(err)
	}
	if !eventually(t, func() bool {
		_, err := am.Lookup("textures/crate", metadata.ResourceTypeImage)
		return errors.Is(err, ErrAssetNotFound)
	}) {
		t.Error("removed file still indexed")
	}
}

func TestShaderHotReload(t *testing.T) {
	am, root := newTestManager(t)

	if err := am.WatchShader("sprite", "shaders/sprite.vert", "shaders/sprite.frag"); err != nil {
		t.Fatal(err)
	}
	if err := am.WatchShader("ghost", "shaders/ghost.vert", "shaders/sprite.frag"); err == nil {
		t.Error("watching a missing stage succeeded")
	}
	if len(am.ShaderReloads()) != 0 {
		t.Fatal("reload queued before any change")
	}

	const changed = "void main() { /* v2 */ }"
	writeFile(t, filepath.Join(root, "shaders", "sprite.frag"), changed)

	var reloads []ShaderReload
	if !eventually(t, func() bool {
		reloads = append(reloads, am.ShaderReloads()...)
		return len(reloads) > 0 && reloads[len(reloads)-1].FragmentSource == changed
	}) {
		t.Fatalf("reloads = %+v", reloads)
	}
	last := reloads[len(reloads)-1]
	if last.Name != "sprite" || last.VertexSource != "void main() {}" {
		t.Errorf("reload = %+v", last)
	}
	if len(am.ShaderReloads()) > 1 {
		t.Error("reloads of one shader not coalesced")
	}
}

func TestInitializeAfterClose(t *testing.T) {
	am, err := NewAssetManager()
	if err != nil {
		t.Fatal(err)
	}
	if err := am.Close(); err != nil {
		t.Fatal(err)
	}
	if err := am.Initialize(t.TempDir()); err == nil {
		t.Error("closed manager started watching")
	}
}

func TestClose(t *testing.T) {
	am, _ := newTestManager(t)
	if err := am.Close(); err != nil {
		t.Fatal(err)
	}
	if err := am.Close(); err != nil {
		t.Errorf("second close = %v", err)
	}
}
