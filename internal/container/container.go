// Package container defines the read-only view of an HDF5-like
// hierarchy that the report pipeline consumes: groups, datasets,
// attributes, and external links. Concrete sources (an HDF5 file, an
// in-memory tree) implement these interfaces; the walker and renderer
// never see anything else.
package container

import (
	"errors"
	"fmt"
	"strings"
)

// Common errors for element access.
var (
	ErrNotNumeric = errors.New("dataset element type is not numeric")
	ErrNotString  = errors.New("dataset element type is not string")
	ErrBadIndex   = errors.New("index out of range")
)

// Kind tags an attribute or scalar value. The tag is decided once when
// the value is ingested from the source; formatting dispatches on it.
type Kind int

const (
	KindString Kind = iota
	KindInt
	KindUint
	KindFloat
	KindBytes
	KindBool
	KindArray
	KindOpaque
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindUint:
		return "uint"
	case KindFloat:
		return "float"
	case KindBytes:
		return "bytes"
	case KindBool:
		return "bool"
	case KindArray:
		return "array"
	default:
		return "opaque"
	}
}

// Attribute is a small named metadata value attached to a group or
// dataset. Attribute order on a node is the order the source declares
// them in; consumers must not resort.
type Attribute struct {
	Name  string
	Value any
	Kind  Kind
}

// TypeClass classifies a dataset's element type.
type TypeClass int

const (
	ClassInt TypeClass = iota
	ClassUint
	ClassFloat
	ClassString
	ClassBool
	ClassCompound
	ClassOpaque
)

// TypeDescriptor describes a dataset's element type.
type TypeDescriptor struct {
	Class TypeClass
	Size  int    // bytes per element, 0 if variable or unknown
	Label string // display label, e.g. "float64", "utf-8 string"
}

// Numeric reports whether elements can feed numeric statistics.
// Booleans are deliberately non-numeric here.
func (t TypeDescriptor) Numeric() bool {
	switch t.Class {
	case ClassInt, ClassUint, ClassFloat:
		return true
	}
	return false
}

func (t TypeDescriptor) String() string {
	if t.Label != "" {
		return t.Label
	}
	switch t.Class {
	case ClassInt:
		return "int"
	case ClassUint:
		return "uint"
	case ClassFloat:
		return "float"
	case ClassString:
		return "string"
	case ClassBool:
		return "bool"
	case ClassCompound:
		return "compound"
	}
	return "opaque"
}

// Object is any named member of a group: a Group, a Dataset, or an
// ExternalLink. Callers type-switch on the concrete interface.
type Object interface {
	Name() string
}

// Node is an object carrying attributes.
type Node interface {
	Object
	Attributes() []Attribute
}

// Group holds an ordered set of uniquely named children. The child
// order is the source's declared order and is stable across calls.
type Group interface {
	Node
	Children() []Object
}

// Dataset is a named multi-dimensional array of typed elements.
// An empty shape means scalar. All methods are read-only views.
type Dataset interface {
	Node
	Shape() []int
	ElemType() TypeDescriptor
	Compression() string // "" when uncompressed
	ChunkShape() []int   // nil when not chunked
	StorageSize() int64  // bytes on disk, negative when unknown

	// Floats materializes the elements at the given index-tuples as
	// float64, in the given order. ErrNotNumeric for non-numeric types.
	Floats(idxs [][]int) ([]float64, error)
	// Strings materializes string elements at the given index-tuples.
	Strings(idxs [][]int) ([]string, error)
}

// ExternalLink points at an object in another file. It is rendered as
// metadata and never resolved.
type ExternalLink struct {
	LinkName   string
	TargetFile string
	TargetPath string
}

func (l *ExternalLink) Name() string { return l.LinkName }

// Unreadable marks a spot in the tree whose contents could not be
// listed. Sources emit it in place of the children they failed to
// enumerate; the report renders it as an inline note and the walk
// continues.
type Unreadable struct {
	NodeName string
	Reason   string
}

func (u *Unreadable) Name() string { return u.NodeName }

// NumElements returns the element count for a shape. A scalar (empty
// shape) has one element; any zero extent makes the count zero.
func NumElements(shape []int) int {
	n := 1
	for _, extent := range shape {
		if extent <= 0 {
			return 0
		}
		n *= extent
	}
	return n
}

// LogicalBytes is the uncompressed in-memory size of a dataset.
func LogicalBytes(d Dataset) int64 {
	return int64(NumElements(d.Shape())) * int64(d.ElemType().Size)
}

// FlatOffset converts an index-tuple into a row-major flat offset for
// the given shape. The empty tuple addresses a scalar.
func FlatOffset(shape, idx []int) (int, error) {
	if len(idx) != len(shape) {
		return 0, fmt.Errorf("%w: tuple rank %d against shape rank %d", ErrBadIndex, len(idx), len(shape))
	}
	off := 0
	for dim, i := range idx {
		if i < 0 || i >= shape[dim] {
			return 0, fmt.Errorf("%w: index %d on dimension %d (extent %d)", ErrBadIndex, i, dim, shape[dim])
		}
		off = off*shape[dim] + i
	}
	return off, nil
}

// ShapeString renders a shape the conventional way: "(24,)", "(3, 4)",
// or "scalar" for rank zero.
func ShapeString(shape []int) string {
	if len(shape) == 0 {
		return "scalar"
	}
	parts := make([]string, len(shape))
	for i, extent := range shape {
		parts[i] = fmt.Sprintf("%d", extent)
	}
	if len(parts) == 1 {
		return "(" + parts[0] + ",)"
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
