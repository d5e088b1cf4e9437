package container

import "fmt"

// MemGroup is an in-memory Group used by tests and by callers that
// assemble trees programmatically. Children keep insertion order and
// names are kept unique by replacement.
type MemGroup struct {
	name     string
	attrs    []Attribute
	children []Object
}

// NewGroup creates an empty in-memory group.
func NewGroup(name string) *MemGroup {
	return &MemGroup{name: name}
}

func (g *MemGroup) Name() string            { return g.name }
func (g *MemGroup) Attributes() []Attribute { return g.attrs }
func (g *MemGroup) Children() []Object      { return g.children }

// SetAttr appends an attribute, replacing any existing attribute of the
// same name in place so declaration order survives updates.
func (g *MemGroup) SetAttr(name string, value any, kind Kind) *MemGroup {
	g.attrs = setAttr(g.attrs, name, value, kind)
	return g
}

// Add appends a child, replacing an existing child of the same name.
func (g *MemGroup) Add(child Object) *MemGroup {
	for i, c := range g.children {
		if c.Name() == child.Name() {
			g.children[i] = child
			return g
		}
	}
	g.children = append(g.children, child)
	return g
}

// MemDataset is an in-memory Dataset. Values are stored row-major as
// either floats or strings, matching ElemType.
type MemDataset struct {
	name        string
	attrs       []Attribute
	shape       []int
	elemType    TypeDescriptor
	compression string
	chunks      []int
	storage     int64
	floats      []float64
	strings     []string
}

// NewDataset creates a dataset with the given shape and element type.
// A nil or empty shape makes it scalar.
func NewDataset(name string, shape []int, elemType TypeDescriptor) *MemDataset {
	return &MemDataset{
		name:     name,
		shape:    append([]int(nil), shape...),
		elemType: elemType,
		storage:  -1,
	}
}

// FloatDataset is shorthand for a float64 dataset filled row-major.
func FloatDataset(name string, shape []int, values ...float64) *MemDataset {
	d := NewDataset(name, shape, TypeDescriptor{Class: ClassFloat, Size: 8, Label: "float64"})
	d.floats = append([]float64(nil), values...)
	return d
}

// StringDataset is shorthand for a string dataset filled row-major.
func StringDataset(name string, shape []int, values ...string) *MemDataset {
	d := NewDataset(name, shape, TypeDescriptor{Class: ClassString, Label: "utf-8 string"})
	d.strings = append([]string(nil), values...)
	return d
}

func (d *MemDataset) Name() string             { return d.name }
func (d *MemDataset) Attributes() []Attribute  { return d.attrs }
func (d *MemDataset) Shape() []int             { return d.shape }
func (d *MemDataset) ElemType() TypeDescriptor { return d.elemType }
func (d *MemDataset) Compression() string      { return d.compression }
func (d *MemDataset) ChunkShape() []int        { return d.chunks }
func (d *MemDataset) StorageSize() int64       { return d.storage }

// SetAttr appends or replaces an attribute, preserving order.
func (d *MemDataset) SetAttr(name string, value any, kind Kind) *MemDataset {
	d.attrs = setAttr(d.attrs, name, value, kind)
	return d
}

// WithFloats replaces the dataset payload.
func (d *MemDataset) WithFloats(values ...float64) *MemDataset {
	d.floats = append([]float64(nil), values...)
	return d
}

// WithStrings replaces the dataset payload.
func (d *MemDataset) WithStrings(values ...string) *MemDataset {
	d.strings = append([]string(nil), values...)
	return d
}

// WithCompression records compression metadata and on-disk size.
func (d *MemDataset) WithCompression(name string, storageBytes int64) *MemDataset {
	d.compression = name
	d.storage = storageBytes
	return d
}

// WithChunks records the chunk shape.
func (d *MemDataset) WithChunks(chunks ...int) *MemDataset {
	d.chunks = append([]int(nil), chunks...)
	return d
}

func (d *MemDataset) Floats(idxs [][]int) ([]float64, error) {
	if !d.elemType.Numeric() {
		return nil, ErrNotNumeric
	}
	out := make([]float64, len(idxs))
	for i, idx := range idxs {
		off, err := d.offset(idx)
		if err != nil {
			return nil, err
		}
		if off >= len(d.floats) {
			return nil, fmt.Errorf("%w: flat offset %d of %d", ErrBadIndex, off, len(d.floats))
		}
		out[i] = d.floats[off]
	}
	return out, nil
}

func (d *MemDataset) Strings(idxs [][]int) ([]string, error) {
	if d.elemType.Class != ClassString {
		return nil, ErrNotString
	}
	out := make([]string, len(idxs))
	for i, idx := range idxs {
		off, err := d.offset(idx)
		if err != nil {
			return nil, err
		}
		if off >= len(d.strings) {
			return nil, fmt.Errorf("%w: flat offset %d of %d", ErrBadIndex, off, len(d.strings))
		}
		out[i] = d.strings[off]
	}
	return out, nil
}

func (d *MemDataset) offset(idx []int) (int, error) {
	return FlatOffset(d.shape, idx)
}

func setAttr(attrs []Attribute, name string, value any, kind Kind) []Attribute {
	for i := range attrs {
		if attrs[i].Name == name {
			attrs[i].Value = value
			attrs[i].Kind = kind
			return attrs
		}
	}
	return append(attrs, Attribute{Name: name, Value: value, Kind: kind})
}
