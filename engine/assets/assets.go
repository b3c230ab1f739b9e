package assets

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/spaghettifunk/glimmer/engine/assets/loaders"
	"github.com/spaghettifunk/glimmer/engine/core"
	"github.com/spaghettifunk/glimmer/engine/renderer/metadata"
)

var ErrAssetNotFound = errors.New("asset not found")

type AssetInfo struct {
	Name       string
	Path       string
	Type       metadata.ResourceType
	LastLoaded time.Time
}

// ShaderReload carries the new sources of a watched shader after one of its
// stage files changed.
type ShaderReload struct {
	Name           string
	VertexSource   string
	FragmentSource string
}

type shaderWatch struct {
	vertex   string
	fragment string
}

// AssetManager indexes the files under an assets directory by type and keeps
// the index current with fsnotify. Watched shaders are re-read off the render
// thread and handed over through ShaderReloads.
type AssetManager struct {
	root   string
	assets map[metadata.ResourceType]map[string]AssetInfo

	shaders map[string]shaderWatch
	reloads []ShaderReload

	mutex sync.RWMutex

	done     chan struct{}
	wg       sync.WaitGroup
	fsnotify *fsnotify.Watcher
	started  bool
	isClosed bool
}

func NewAssetManager() (*AssetManager, error) {
	fsWatch, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &AssetManager{
		assets:   make(map[metadata.ResourceType]map[string]AssetInfo),
		shaders:  make(map[string]shaderWatch),
		fsnotify: fsWatch,
		done:     make(chan struct{}),
	}, nil
}

// Initialize indexes assetsDir recursively and starts watching it.
func (am *AssetManager) Initialize(assetsDir string) error {
	root, err := filepath.Abs(assetsDir)
	if err != nil {
		return err
	}
	am.root = root
	if err := am.addRecursive(root); err != nil {
		return err
	}

	am.started = true
	am.wg.Add(1)
	go am.start()

	core.LogInfo("asset manager watching %s (%d assets)", root, am.Count())
	return nil
}

// AddRecursive starts watching the named directory and all sub-directories.
func (am *AssetManager) addRecursive(name string) error {
	am.mutex.RLock()
	closed := am.isClosed
	am.mutex.RUnlock()
	if closed {
		return errors.New("asset watcher already closed")
	}
	return am.watchRecursive(name)
}

// Count is the number of indexed assets.
func (am *AssetManager) Count() int {
	am.mutex.RLock()
	defer am.mutex.RUnlock()

	n := 0
	for _, byName := range am.assets {
		n += len(byName)
	}
	return n
}

// Lookup resolves an asset name (its path below the root without extension,
// e.g. "textures/crate") to a file of the given type.
func (am *AssetManager) Lookup(name string, resourceType metadata.ResourceType) (AssetInfo, error) {
	am.mutex.RLock()
	defer am.mutex.RUnlock()

	info, ok := am.assets[resourceType][name]
	if !ok {
		return AssetInfo{}, fmt.Errorf("%s %q: %w", resourceType, name, ErrAssetNotFound)
	}
	return info, nil
}

// Assets lists the indexed assets of a type ordered by name.
func (am *AssetManager) Assets(resourceType metadata.ResourceType) []AssetInfo {
	am.mutex.RLock()
	defer am.mutex.RUnlock()

	out := make([]AssetInfo, 0, len(am.assets[resourceType]))
	for _, info := range am.assets[resourceType] {
		out = append(out, info)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (am *AssetManager) touch(info AssetInfo) {
	am.mutex.Lock()
	defer am.mutex.Unlock()

	info.LastLoaded = time.Now()
	am.assets[info.Type][info.Name] = info
}

// LoadTexture decodes an indexed image. A missing asset is an error; a file
// that fails to decode yields a Corrupted texture.
func (am *AssetManager) LoadTexture(name string, flip bool) (*metadata.ImageTexture, error) {
	info, err := am.Lookup(name, metadata.ResourceTypeImage)
	if err != nil {
		return nil, err
	}
	am.touch(info)
	return loaders.LoadImageTexture(info.Path, flip), nil
}

// LoadShader reads the name.vert / name.frag pair.
func (am *AssetManager) LoadShader(name string) (*metadata.ShaderProgram, error) {
	vert, frag, err := am.shaderStages(name)
	if err != nil {
		return nil, err
	}
	p, err := loaders.LoadShaderProgram(vert, frag)
	if err != nil {
		return nil, err
	}
	p.Name = name
	return p, nil
}

func (am *AssetManager) shaderStages(name string) (string, string, error) {
	am.mutex.RLock()
	defer am.mutex.RUnlock()

	var vert, frag string
	for _, info := range am.assets[metadata.ResourceTypeShader] {
		if info.Name != name {
			continue
		}
		switch filepath.Ext(info.Path) {
		case ".vert":
			vert = info.Path
		case ".frag":
			frag = info.Path
		}
	}
	if vert == "" || frag == "" {
		return "", "", fmt.Errorf("shader %q needs a .vert and a .frag stage: %w", name, ErrAssetNotFound)
	}
	return vert, frag, nil
}

func (am *AssetManager) LoadModel(name string) (*metadata.Model, error) {
	info, err := am.Lookup(name, metadata.ResourceTypeModel)
	if err != nil {
		return nil, err
	}
	am.touch(info)
	return loaders.LoadModel(info.Path)
}

// WatchShader registers a stage pair for hot reload. Paths are relative to
// the assets root unless absolute.
func (am *AssetManager) WatchShader(name, vertexPath, fragmentPath string) error {
	abs := func(p string) (string, error) {
		if !filepath.IsAbs(p) {
			p = filepath.Join(am.root, p)
		}
		if _, err := os.Stat(p); err != nil {
			return "", err
		}
		return filepath.Clean(p), nil
	}
	vert, err := abs(vertexPath)
	if err != nil {
		return fmt.Errorf("watch shader %s: %w", name, err)
	}
	frag, err := abs(fragmentPath)
	if err != nil {
		return fmt.Errorf("watch shader %s: %w", name, err)
	}

	am.mutex.Lock()
	am.shaders[name] = shaderWatch{vertex: vert, fragment: frag}
	am.mutex.Unlock()
	core.LogDebug("hot reload enabled for shader %s", name)
	return nil
}

// ShaderReloads drains the pending reloads. Only the latest sources of each
// shader are kept.
func (am *AssetManager) ShaderReloads() []ShaderReload {
	am.mutex.Lock()
	defer am.mutex.Unlock()

	out := am.reloads
	am.reloads = nil
	return out
}

// Close stops the watcher goroutine and releases the fsnotify handle.
func (am *AssetManager) Close() error {
	am.mutex.Lock()
	if am.isClosed {
		am.mutex.Unlock()
		return nil
	}
	am.isClosed = true
	started := am.started
	am.mutex.Unlock()

	if !started {
		return am.fsnotify.Close()
	}
	close(am.done)
	am.wg.Wait()
	return nil
}

func (am *AssetManager) start() {
	defer am.wg.Done()
	for {
		select {

		case e, ok := <-am.fsnotify.Events:
			if !ok {
				return
			}
			am.handleEvent(e)

		case err, ok := <-am.fsnotify.Errors:
			if !ok {
				return
			}
			core.LogError("asset watcher: %s", err)

		case <-am.done:
			if err := am.fsnotify.Close(); err != nil {
				core.LogWarn("asset watcher close: %s", err)
			}
			return
		}
	}
}

func (am *AssetManager) handleEvent(e fsnotify.Event) {
	if s, err := os.Stat(e.Name); err == nil && s.IsDir() {
		if e.Has(fsnotify.Create) {
			if err := am.watchRecursive(e.Name); err != nil {
				core.LogWarn("asset watcher: %s", err)
			}
		}
		return
	}
	switch {
	case e.Has(fsnotify.Create) || e.Has(fsnotify.Write):
		am.handleFileEvent(e.Name)
		am.reloadShaders(e.Name)
	case e.Has(fsnotify.Remove) || e.Has(fsnotify.Rename):
		am.removeAsset(e.Name)
	}
}

// watchRecursive adds all directories under the given one to the watch list
// and indexes the files it finds.
func (am *AssetManager) watchRecursive(path string) error {
	return filepath.Walk(path, func(walkPath string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if fi.IsDir() {
			return am.fsnotify.Add(walkPath)
		}
		am.handleFileEvent(walkPath)
		return nil
	})
}

// Handle the creation or modification of a file
func (am *AssetManager) handleFileEvent(path string) {
	assetType := DetermineAssetType(path)
	if assetType == metadata.ResourceTypeNone {
		return
	}
	rel, err := filepath.Rel(am.root, path)
	if err != nil {
		return
	}

	am.mutex.Lock()
	defer am.mutex.Unlock()

	if am.assets[assetType] == nil {
		am.assets[assetType] = make(map[string]AssetInfo)
	}
	name := assetName(rel)
	prev := am.assets[assetType][name]
	if prev.Path != "" && prev.Path != path && assetType != metadata.ResourceTypeShader {
		core.LogWarn("asset %s %q provided by both %s and %s, using the latter", assetType, name, prev.Path, path)
	}
	// shader stages share a name, so they are keyed by file
	key := name
	if assetType == metadata.ResourceTypeShader {
		key = filepath.ToSlash(rel)
	}
	am.assets[assetType][key] = AssetInfo{Name: name, Path: path, Type: assetType}
}

// Remove the asset from the index if it was deleted
func (am *AssetManager) removeAsset(path string) {
	assetType := DetermineAssetType(path)
	rel, err := filepath.Rel(am.root, path)
	if assetType == metadata.ResourceTypeNone || err != nil {
		return
	}

	am.mutex.Lock()
	defer am.mutex.Unlock()

	delete(am.assets[assetType], assetName(rel))
	delete(am.assets[assetType], filepath.ToSlash(rel))
}

// reloadShaders re-reads every watched shader that uses path. Reading
// happens without the lock; GL objects are rebuilt later on the render thread.
func (am *AssetManager) reloadShaders(path string) {
	path = filepath.Clean(path)

	am.mutex.RLock()
	var hits []string
	for name, w := range am.shaders {
		if w.vertex == path || w.fragment == path {
			hits = append(hits, name)
		}
	}
	am.mutex.RUnlock()

	for _, name := range hits {
		am.mutex.RLock()
		w := am.shaders[name]
		am.mutex.RUnlock()

		vs, err := loaders.ReadShaderSource(w.vertex)
		if err != nil {
			core.LogWarn("shader %s reload: %s", name, err)
			continue
		}
		fs, err := loaders.ReadShaderSource(w.fragment)
		if err != nil {
			core.LogWarn("shader %s reload: %s", name, err)
			continue
		}

		am.mutex.Lock()
		pending := am.reloads[:0]
		for _, r := range am.reloads {
			if r.Name != name {
				pending = append(pending, r)
			}
		}
		am.reloads = append(pending, ShaderReload{Name: name, VertexSource: vs, FragmentSource: fs})
		am.mutex.Unlock()
		core.LogInfo("shader %s changed on disk, reload queued", name)
	}
}
