package loaders

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/spaghettifunk/glimmer/engine/core"
	"github.com/spaghettifunk/glimmer/engine/renderer/metadata"
)

// ShaderReadTimeout bounds the retries of a single stage read. Editors often
// truncate a file before writing it, so an empty read is retried as well.
var ShaderReadTimeout = 2 * time.Second

var errEmptySource = errors.New("empty shader source")

// ReadShaderSource reads a GLSL stage, retrying with exponential backoff
// while the file is empty or briefly unreadable. A missing file fails at once.
func ReadShaderSource(path string) (string, error) {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 10 * time.Millisecond
	policy.MaxElapsedTime = ShaderReadTimeout

	src, err := backoff.RetryWithData(func() (string, error) {
		data, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			return "", backoff.Permanent(err)
		}
		if err != nil {
			return "", err
		}
		if len(strings.TrimSpace(string(data))) == 0 {
			return "", errEmptySource
		}
		return string(data), nil
	}, policy)
	if err != nil {
		return "", fmt.Errorf("shader stage %s: %w", path, err)
	}
	return src, nil
}

// LoadShaderProgram reads both stages into a PreBuild program named after
// the vertex stage file.
func LoadShaderProgram(vertexPath, fragmentPath string) (*metadata.ShaderProgram, error) {
	vs, err := ReadShaderSource(vertexPath)
	if err != nil {
		return nil, err
	}
	fsrc, err := ReadShaderSource(fragmentPath)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSuffix(filepath.Base(vertexPath), filepath.Ext(vertexPath))
	core.LogDebug("shader %s read from %s and %s", name, vertexPath, fragmentPath)
	return metadata.NewShaderProgram(name, vs, fsrc), nil
}
