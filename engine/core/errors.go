package core

import (
	"errors"
	"fmt"
)

var (
	ErrNotInitialized     = errors.New("render device not initialized")
	ErrAlreadyInitialized = errors.New("render device already initialized")
	ErrInvalidState       = errors.New("resource in invalid state")
	ErrBuildFailed        = errors.New("shader program build failed")
	ErrIncompleteTarget   = errors.New("render target framebuffer incomplete")
	ErrShapeNotFound      = errors.New("built-in shape not found")
	ErrGlyphNotFound      = errors.New("glyph not found")
	ErrCameraNotSet       = errors.New("camera not set for the current frame")
	ErrNoProgramBound     = errors.New("no shader program bound")
	ErrIndexOutOfRange    = errors.New("index out of range")
	ErrInvalidDimensions  = errors.New("invalid dimensions")
	ErrInvalidData        = errors.New("invalid resource data")
)

// StateError reports an operation attempted on a resource whose state does
// not allow it.
type StateError struct {
	Op       string
	Resource string
	State    string
}

func (e *StateError) Error() string {
	return fmt.Sprintf("%s: %s is %s", e.Op, e.Resource, e.State)
}

func (e *StateError) Unwrap() error {
	return ErrInvalidState
}

// BuildError carries the driver info log of a failed compile or link.
type BuildError struct {
	Stage string
	Log   string
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("%s failed: %s", e.Stage, e.Log)
}

func (e *BuildError) Unwrap() error {
	return ErrBuildFailed
}

type IncompleteTargetError struct {
	Status uint32
}

func (e *IncompleteTargetError) Error() string {
	return fmt.Sprintf("framebuffer status 0x%x", e.Status)
}

func (e *IncompleteTargetError) Unwrap() error {
	return ErrIncompleteTarget
}
