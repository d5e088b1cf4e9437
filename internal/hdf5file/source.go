// Package hdf5file adapts a real HDF5 file onto the container
// interfaces via the pure-Go github.com/robert-malhotra/go-hdf5
// reader. One Source backs one conversion run: opened once, closed by
// the caller on every exit path.
package hdf5file

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/robert-malhotra/go-hdf5/hdf5"

	"github.com/dormorgenstern/h5report/internal/container"
)

// Source is an open HDF5 file exposed as a container tree.
type Source struct {
	file *hdf5.File
	root *group
}

// Open opens the file read-only. Any error here is fatal for the
// conversion: traversal never starts on a file we cannot read.
func Open(path string) (*Source, error) {
	f, err := hdf5.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	return &Source{
		file: f,
		root: &group{g: f.Root(), name: "/"},
	}, nil
}

// Root returns the root group view.
func (s *Source) Root() container.Group {
	return s.root
}

// Close releases the underlying file.
func (s *Source) Close() error {
	return s.file.Close()
}

type group struct {
	g    *hdf5.Group
	name string

	children []container.Object
	loaded   bool
}

func (g *group) Name() string { return g.name }

func (g *group) Attributes() []container.Attribute {
	return readAttributes(g.g.Attrs(), func(name string) (any, error) {
		a := g.g.Attr(name)
		if a == nil {
			return nil, fmt.Errorf("attribute %q not found", name)
		}
		return a.Value()
	})
}

// Children enumerates members in sorted name order, built once per
// group. HDF5 B-trees already index by name, so this matches the
// on-disk declared order and stays stable across runs.
func (g *group) Children() []container.Object {
	if g.loaded {
		return g.children
	}
	g.loaded = true

	members, err := g.g.Members()
	if err != nil {
		g.children = append(g.children, &container.Unreadable{
			NodeName: g.name,
			Reason:   fmt.Sprintf("listing members: %v", err),
		})
		return g.children
	}
	sort.Strings(members)

	for _, name := range members {
		if child, err := g.g.OpenGroup(name); err == nil {
			g.children = append(g.children, &group{g: child, name: name})
			continue
		}
		if child, err := g.g.OpenDataset(name); err == nil {
			g.children = append(g.children, newDataset(child, name))
			continue
		}
		// The reader resolves links transparently and does not expose
		// their targets, so a member it cannot open is almost always a
		// link whose target file is absent. Surface it as link
		// metadata rather than dropping it silently.
		g.children = append(g.children, &container.ExternalLink{
			LinkName:   name,
			TargetFile: "unknown (target unavailable)",
			TargetPath: "unknown",
		})
	}
	return g.children
}

type dataset struct {
	d    *hdf5.Dataset
	name string

	shape    []int
	elemType container.TypeDescriptor

	// Payload is read once on first element access and cached for the
	// rest of the conversion. The reader only supports whole-dataset
	// reads; the walker still materializes no more than its sampled
	// subset into the report.
	loaded  bool
	loadErr error
	floats  []float64
	strings []string
}

func newDataset(d *hdf5.Dataset, name string) *dataset {
	shape := make([]int, 0, len(d.Shape()))
	for _, extent := range d.Shape() {
		shape = append(shape, int(extent))
	}
	return &dataset{
		d:        d,
		name:     name,
		shape:    shape,
		elemType: describeType(d),
	}
}

func (d *dataset) Name() string                       { return d.name }
func (d *dataset) Shape() []int                       { return d.shape }
func (d *dataset) ElemType() container.TypeDescriptor { return d.elemType }

// Compression and chunk layout are not exposed by the reader's public
// API, so file-backed datasets report none; the aggregate ratio then
// degrades to "N/A".
func (d *dataset) Compression() string { return "" }
func (d *dataset) ChunkShape() []int   { return nil }
func (d *dataset) StorageSize() int64  { return -1 }

func (d *dataset) Attributes() []container.Attribute {
	return readAttributes(d.d.Attrs(), func(name string) (any, error) {
		a := d.d.Attr(name)
		if a == nil {
			return nil, fmt.Errorf("attribute %q not found", name)
		}
		return a.Value()
	})
}

func (d *dataset) Floats(idxs [][]int) ([]float64, error) {
	if !d.elemType.Numeric() {
		return nil, container.ErrNotNumeric
	}
	if err := d.load(); err != nil {
		return nil, err
	}
	out := make([]float64, len(idxs))
	for i, idx := range idxs {
		off, err := container.FlatOffset(d.shape, idx)
		if err != nil {
			return nil, err
		}
		if off >= len(d.floats) {
			return nil, fmt.Errorf("%w: flat offset %d of %d", container.ErrBadIndex, off, len(d.floats))
		}
		out[i] = d.floats[off]
	}
	return out, nil
}

func (d *dataset) Strings(idxs [][]int) ([]string, error) {
	if d.elemType.Class != container.ClassString {
		return nil, container.ErrNotString
	}
	if err := d.load(); err != nil {
		return nil, err
	}
	out := make([]string, len(idxs))
	for i, idx := range idxs {
		off, err := container.FlatOffset(d.shape, idx)
		if err != nil {
			return nil, err
		}
		if off >= len(d.strings) {
			return nil, fmt.Errorf("%w: flat offset %d of %d", container.ErrBadIndex, off, len(d.strings))
		}
		out[i] = d.strings[off]
	}
	return out, nil
}

func (d *dataset) load() error {
	if d.loaded {
		return d.loadErr
	}
	d.loaded = true

	t, err := d.d.GoType()
	if err != nil {
		d.loadErr = fmt.Errorf("unsupported element type: %w", err)
		return d.loadErr
	}

	switch t.Kind() {
	case reflect.String:
		d.strings, d.loadErr = d.d.ReadString()
	case reflect.Float64:
		d.floats, d.loadErr = d.d.ReadFloat64()
	case reflect.Float32:
		vals, err := d.d.ReadFloat32()
		d.loadErr = err
		d.floats = toFloats(vals, func(v float32) float64 { return float64(v) })
	case reflect.Int8:
		vals, err := d.d.ReadInt8()
		d.loadErr = err
		d.floats = toFloats(vals, func(v int8) float64 { return float64(v) })
	case reflect.Int16:
		vals, err := d.d.ReadInt16()
		d.loadErr = err
		d.floats = toFloats(vals, func(v int16) float64 { return float64(v) })
	case reflect.Int32:
		vals, err := d.d.ReadInt32()
		d.loadErr = err
		d.floats = toFloats(vals, func(v int32) float64 { return float64(v) })
	case reflect.Int64:
		vals, err := d.d.ReadInt64()
		d.loadErr = err
		d.floats = toFloats(vals, func(v int64) float64 { return float64(v) })
	case reflect.Uint8:
		vals, err := d.d.ReadUint8()
		d.loadErr = err
		d.floats = toFloats(vals, func(v uint8) float64 { return float64(v) })
	case reflect.Uint16:
		vals, err := d.d.ReadUint16()
		d.loadErr = err
		d.floats = toFloats(vals, func(v uint16) float64 { return float64(v) })
	case reflect.Uint32:
		vals, err := d.d.ReadUint32()
		d.loadErr = err
		d.floats = toFloats(vals, func(v uint32) float64 { return float64(v) })
	case reflect.Uint64:
		vals, err := d.d.ReadUint64()
		d.loadErr = err
		d.floats = toFloats(vals, func(v uint64) float64 { return float64(v) })
	default:
		d.loadErr = fmt.Errorf("unsupported element kind %s", t.Kind())
	}
	return d.loadErr
}

func toFloats[T any](vals []T, conv func(T) float64) []float64 {
	out := make([]float64, len(vals))
	for i, v := range vals {
		out[i] = conv(v)
	}
	return out
}

// describeType maps the reader's datatype onto a TypeDescriptor. The
// Go element type gives class and label; classes without a Go mapping
// degrade to an opaque descriptor labeled by the HDF5 class name.
func describeType(d *hdf5.Dataset) container.TypeDescriptor {
	size := d.DtypeSize()
	if t, err := d.GoType(); err == nil {
		desc := container.TypeDescriptor{Size: size, Label: t.String()}
		switch t.Kind() {
		case reflect.Float32, reflect.Float64:
			desc.Class = container.ClassFloat
		case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			desc.Class = container.ClassInt
		case reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			desc.Class = container.ClassUint
		case reflect.String:
			desc.Class = container.ClassString
		default:
			desc.Class = container.ClassOpaque
		}
		return desc
	}
	class := int(d.DtypeClass())
	return container.TypeDescriptor{Class: classFor(class), Size: size, Label: classLabel(class)}
}

func classFor(class int) container.TypeClass {
	if class == 6 {
		return container.ClassCompound
	}
	return container.ClassOpaque
}

// classLabel names the HDF5 datatype classes the reader cannot map to
// a Go type, so the report still says what it saw.
func classLabel(class int) string {
	labels := map[int]string{
		2:  "time",
		4:  "bitfield",
		5:  "opaque",
		6:  "compound",
		7:  "reference",
		8:  "enum",
		9:  "variable-length",
		10: "array",
	}
	if label, ok := labels[class]; ok {
		return label
	}
	return fmt.Sprintf("class %d", class)
}

// readAttributes ingests a node's attributes in declaration order,
// tagging each value with its Kind once. A value that cannot be read
// becomes an opaque placeholder instead of failing the node.
func readAttributes(names []string, value func(string) (any, error)) []container.Attribute {
	attrs := make([]container.Attribute, 0, len(names))
	for _, name := range names {
		v, err := value(name)
		if err != nil {
			attrs = append(attrs, container.Attribute{Name: name, Kind: container.KindOpaque})
			continue
		}
		ingested, kind := ingest(v)
		attrs = append(attrs, container.Attribute{Name: name, Value: ingested, Kind: kind})
	}
	return attrs
}

// ingest tags a raw attribute value. The tag is decided here, once;
// everything downstream dispatches on it.
func ingest(v any) (any, container.Kind) {
	switch t := v.(type) {
	case string:
		return t, container.KindString
	case int64, int32, int16, int8, int:
		return t, container.KindInt
	case uint64, uint32, uint16, uint8, uint:
		return t, container.KindUint
	case float64, float32:
		return t, container.KindFloat
	case bool:
		return t, container.KindBool
	case []byte:
		return t, container.KindBytes
	case []float64, []float32, []int64, []int32, []uint64, []string, []bool:
		return t, container.KindArray
	default:
		return t, container.KindOpaque
	}
}
