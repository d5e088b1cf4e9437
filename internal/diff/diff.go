// Package diff compares the structure of two containers: groups,
// datasets, external links, and attributes. It reads metadata only,
// never element data.
package diff

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/dormorgenstern/h5report/internal/container"
	"github.com/dormorgenstern/h5report/internal/typefmt"
)

// Kind classifies one difference.
type Kind string

const (
	Added   Kind = "added"
	Removed Kind = "removed"
	Changed Kind = "changed"
)

// Entry is one difference between the two trees.
type Entry struct {
	Path   string
	Kind   Kind
	Detail string
}

// Report collects differences in traversal order of the first tree,
// with additions following in the second tree's order.
type Report struct {
	Entries []Entry
}

// Empty reports whether the trees matched.
func (r *Report) Empty() bool { return len(r.Entries) == 0 }

// Compare walks both trees and records structural differences.
func Compare(a, b container.Group) *Report {
	r := &Report{}
	r.groups("", a, b)
	return r
}

func (r *Report) add(path string, kind Kind, detail string) {
	r.Entries = append(r.Entries, Entry{Path: path, Kind: kind, Detail: detail})
}

func (r *Report) groups(path string, a, b container.Group) {
	r.attributes(path, a.Attributes(), b.Attributes())

	bByName := make(map[string]container.Object)
	for _, child := range b.Children() {
		bByName[child.Name()] = child
	}
	aNames := make(map[string]bool)

	for _, ac := range a.Children() {
		aNames[ac.Name()] = true
		childPath := path + "/" + ac.Name()
		bc, ok := bByName[ac.Name()]
		if !ok {
			r.add(childPath, Removed, describe(ac))
			continue
		}
		r.objects(childPath, ac, bc)
	}
	for _, bc := range b.Children() {
		if !aNames[bc.Name()] {
			r.add(path+"/"+bc.Name(), Added, describe(bc))
		}
	}
}

func (r *Report) objects(path string, a, b container.Object) {
	switch ac := a.(type) {
	case container.Group:
		if bc, ok := b.(container.Group); ok {
			r.groups(path, ac, bc)
			return
		}
	case container.Dataset:
		if bc, ok := b.(container.Dataset); ok {
			r.datasets(path, ac, bc)
			return
		}
	case *container.ExternalLink:
		if bc, ok := b.(*container.ExternalLink); ok {
			if ac.TargetFile != bc.TargetFile || ac.TargetPath != bc.TargetPath {
				r.add(path, Changed, fmt.Sprintf("link target %s:%s -> %s:%s",
					ac.TargetFile, ac.TargetPath, bc.TargetFile, bc.TargetPath))
			}
			return
		}
	}
	r.add(path, Changed, fmt.Sprintf("%s became %s", describe(a), describe(b)))
}

func (r *Report) datasets(path string, a, b container.Dataset) {
	if container.ShapeString(a.Shape()) != container.ShapeString(b.Shape()) {
		r.add(path, Changed, fmt.Sprintf("shape %s -> %s",
			container.ShapeString(a.Shape()), container.ShapeString(b.Shape())))
	}
	if a.ElemType().String() != b.ElemType().String() {
		r.add(path, Changed, fmt.Sprintf("type %s -> %s", a.ElemType(), b.ElemType()))
	}
	if a.Compression() != b.Compression() {
		r.add(path, Changed, fmt.Sprintf("compression %s -> %s",
			orNone(a.Compression()), orNone(b.Compression())))
	}
	r.attributes(path, a.Attributes(), b.Attributes())
}

func (r *Report) attributes(path string, a, b []container.Attribute) {
	bByName := make(map[string]container.Attribute)
	for _, attr := range b {
		bByName[attr.Name] = attr
	}
	aNames := make(map[string]bool)

	for _, attr := range a {
		aNames[attr.Name] = true
		attrPath := path + "@" + attr.Name
		bAttr, ok := bByName[attr.Name]
		if !ok {
			r.add(attrPath, Removed, "attribute")
			continue
		}
		// Equality is decided on the raw values; the formatter caps
		// arrays and rounds floats, so it only supplies the detail text.
		if attr.Kind != bAttr.Kind || !reflect.DeepEqual(attr.Value, bAttr.Value) {
			av, _ := typefmt.Format(attr.Value, attr.Kind)
			bv, _ := typefmt.Format(bAttr.Value, bAttr.Kind)
			r.add(attrPath, Changed, fmt.Sprintf("value %s -> %s", av, bv))
		}
	}
	for _, attr := range b {
		if !aNames[attr.Name] {
			r.add(path+"@"+attr.Name, Added, "attribute")
		}
	}
}

func describe(o container.Object) string {
	switch o.(type) {
	case container.Group:
		return "group"
	case container.Dataset:
		return "dataset"
	case *container.ExternalLink:
		return "external link"
	}
	return "object"
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}

// Markdown renders the report as a markdown section.
func (r *Report) Markdown() string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Comparison Report\n\n")
	if r.Empty() {
		fmt.Fprintf(&b, "No differences found.\n")
		return b.String()
	}

	var added, removed, changed int
	for _, e := range r.Entries {
		switch e.Kind {
		case Added:
			added++
		case Removed:
			removed++
		case Changed:
			changed++
		}
	}
	fmt.Fprintf(&b, "%d differences: %d added, %d removed, %d changed\n\n", len(r.Entries), added, removed, changed)

	fmt.Fprintf(&b, "| Path | Change | Detail |\n")
	fmt.Fprintf(&b, "|------|--------|--------|\n")
	for _, e := range r.Entries {
		fmt.Fprintf(&b, "| `%s` | %s | %s |\n", e.Path, e.Kind, e.Detail)
	}
	return b.String()
}
