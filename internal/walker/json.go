package walker

import (
	"unicode/utf8"

	"github.com/dormorgenstern/h5report/internal/container"
)

// JSONTree builds a metadata tree for JSON export: groups, datasets,
// attributes, shapes and types, but no element data. encoding/json
// sorts map keys, so the export is deterministic.
func JSONTree(root container.Group) map[string]any {
	return jsonGroup(root)
}

func jsonGroup(g container.Group) map[string]any {
	children := make(map[string]any)
	for _, child := range g.Children() {
		switch c := child.(type) {
		case container.Group:
			children[c.Name()] = jsonGroup(c)
		case container.Dataset:
			children[c.Name()] = jsonDataset(c)
		case *container.ExternalLink:
			children[c.Name()] = map[string]any{
				"type": "external_link",
				"file": c.TargetFile,
				"path": c.TargetPath,
			}
		case *container.Unreadable:
			children[c.Name()] = map[string]any{
				"type":   "unreadable",
				"reason": c.Reason,
			}
		}
	}
	return map[string]any{
		"type":       "group",
		"attributes": jsonAttrs(g.Attributes()),
		"children":   children,
	}
}

func jsonDataset(d container.Dataset) map[string]any {
	out := map[string]any{
		"type":       "dataset",
		"shape":      d.Shape(),
		"dtype":      d.ElemType().String(),
		"attributes": jsonAttrs(d.Attributes()),
	}
	if c := d.Compression(); c != "" {
		out["compression"] = c
	}
	if c := d.ChunkShape(); len(c) > 0 {
		out["chunks"] = c
	}
	return out
}

func jsonAttrs(attrs []container.Attribute) map[string]any {
	out := make(map[string]any, len(attrs))
	for _, a := range attrs {
		out[a.Name] = jsonValue(a.Value)
	}
	return out
}

// jsonValue keeps attribute values readable in the export: byte
// strings become text when they decode cleanly instead of base64.
func jsonValue(v any) any {
	if b, ok := v.([]byte); ok && utf8.Valid(b) {
		return string(b)
	}
	return v
}
