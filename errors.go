package tetmesh

import (
	"errors"
	"fmt"
)

// Error kinds. Use errors.Is to test an error returned by this package
// against them.
var (
	ErrLoad            = errors.New("surface load failed")
	ErrTetrahedralize  = errors.New("tetrahedralization failed")
	ErrIndexOutOfRange = errors.New("index out of range")
	ErrIO              = errors.New("export failed")
	ErrEmptyResult     = errors.New("engine returned an empty result")
)

// LoadError reports a surface that could not be loaded.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string { return "load " + e.Path + ": " + e.Err.Error() }
func (e *LoadError) Unwrap() error { return e.Err }
func (e *LoadError) Is(target error) bool { return target == ErrLoad }

// EngineFailure classifies a TetrahedralizeError.
type EngineFailure int

const (
	// Failed means the engine reported an error.
	Failed EngineFailure = iota
	// Crashed means the engine faulted: it panicked or was killed.
	Crashed
	// Degenerate means the engine returned no tetrahedra.
	Degenerate
)

func (k EngineFailure) String() string {
	switch k {
	case Failed:
		return "failed"
	case Crashed:
		return "crashed"
	case Degenerate:
		return "degenerate output"
	}
	return fmt.Sprintf("EngineFailure(%d)", int(k))
}

// TetrahedralizeError is returned when an engine invocation does not produce
// a usable mesh.
type TetrahedralizeError struct {
	Kind     EngineFailure
	Switches string
	Err      error
}

func (e *TetrahedralizeError) Error() string {
	return fmt.Sprintf("tetrahedralize (switches %q) %s: %v", e.Switches, e.Kind, e.Err)
}
func (e *TetrahedralizeError) Unwrap() error { return e.Err }
func (e *TetrahedralizeError) Is(target error) bool { return target == ErrTetrahedralize }

// IndexError reports a corner index outside of the vertex array.
type IndexError struct {
	Element string // "tetrahedron", "face" or "triangle".
	Index   int    // Element index.
	Corner  int    // Corner within the element.
	Value   int    // Offending vertex index.
	Limit   int    // Number of vertices.
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("%s %d corner %d: vertex index %d not in [0,%d)", e.Element, e.Index, e.Corner, e.Value, e.Limit)
}
func (e *IndexError) Is(target error) bool { return target == ErrIndexOutOfRange }

// ExportError reports a mesh that could not be written.
type ExportError struct {
	Path string
	Err  error
}

func (e *ExportError) Error() string { return "export " + e.Path + ": " + e.Err.Error() }
func (e *ExportError) Unwrap() error { return e.Err }
func (e *ExportError) Is(target error) bool { return target == ErrIO }
