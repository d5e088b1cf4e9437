package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/dormorgenstern/h5report/internal/container"
	"github.com/dormorgenstern/h5report/internal/stats"
	"github.com/dormorgenstern/h5report/internal/typefmt"
)

// Renderer formats single nodes into document fragments. Depth is the
// number of ancestor groups from the root (root is depth 0); heading
// levels are BaseLevel + depth and therefore monotonic with nesting.
type Renderer struct {
	BaseLevel      int
	IncludePreview bool
	IncludeStats   bool
}

func (r *Renderer) level(depth int) int {
	base := r.BaseLevel
	if base < 1 {
		base = 1
	}
	return base + depth
}

// Group renders a group heading followed by its attribute table.
// A group with no children and no attributes still yields a valid
// heading fragment.
func (r *Renderer) Group(doc *Document, g container.Group, depth int) {
	doc.Add(Heading{Level: r.level(depth), Text: fmt.Sprintf("Group: `%s`", g.Name())})
	r.Attributes(doc, g.Attributes(), depth)
}

// Root renders the file-level attributes without a group heading; the
// file header fragment already introduces the root.
func (r *Renderer) Root(doc *Document, g container.Group) {
	r.Attributes(doc, g.Attributes(), 0)
}

// Attributes renders the attribute table for one node, preserving the
// order the node declares. Nothing is emitted for an empty set.
func (r *Renderer) Attributes(doc *Document, attrs []container.Attribute, depth int) {
	if len(attrs) == 0 {
		return
	}
	rows := make([][]string, 0, len(attrs))
	for _, a := range attrs {
		display, label := typefmt.Format(a.Value, a.Kind)
		rows = append(rows, []string{code(a.Name), code(display), label})
	}
	doc.Add(
		Paragraph{Text: "**Attributes:**"},
		Table{Header: []string{"Name", "Value", "Type"}, Rows: rows},
	)
}

// Dataset renders one dataset: heading, property table, optional
// statistics, optional preview, then the dataset's own attributes.
// preview and summary may be nil/absent; soft failures arrive as
// notes inside the preview.
func (r *Renderer) Dataset(doc *Document, d container.Dataset, depth int, pv *Preview, sum stats.Summary, statsOK bool, statsScope string) {
	level := r.level(depth)
	doc.Add(Heading{Level: level, Text: fmt.Sprintf("Dataset: `%s`", d.Name())})

	doc.Add(Heading{Level: level + 1, Text: "Properties"})
	doc.Add(r.propertyTable(d))

	if r.IncludeStats {
		r.statistics(doc, level, sum, statsOK, statsScope)
	}
	if r.IncludePreview && pv != nil {
		doc.Add(Heading{Level: level + 1, Text: "Preview"})
		pv.render(doc)
	}

	r.Attributes(doc, d.Attributes(), depth)
}

// propertyTable lists dataset properties in fixed order: shape, type,
// size in memory, compression, chunk shape.
func (r *Renderer) propertyTable(d container.Dataset) Table {
	compression := d.Compression()
	if compression == "" {
		compression = "none"
	}
	chunks := "none"
	if c := d.ChunkShape(); len(c) > 0 {
		chunks = container.ShapeString(c)
	}
	return Table{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Shape", code(container.ShapeString(d.Shape()))},
			{"Type", code(d.ElemType().String())},
			{"Size in memory", code(HumanSize(container.LogicalBytes(d)))},
			{"Compression", code(compression)},
			{"Chunks", code(chunks)},
		},
	}
}

func (r *Renderer) statistics(doc *Document, level int, sum stats.Summary, ok bool, scope string) {
	if !ok {
		if sum.NonFinite > 0 {
			doc.Add(Paragraph{Text: fmt.Sprintf("*Statistics unavailable: all %d values are non-finite.*", sum.NonFinite)})
		}
		return
	}
	rows := [][]string{
		{"Minimum", code(fmt.Sprintf("%.3f", sum.Min))},
		{"Maximum", code(fmt.Sprintf("%.3f", sum.Max))},
		{"Mean", code(fmt.Sprintf("%.3f", sum.Mean))},
		{"Median", code(fmt.Sprintf("%.3f", sum.Median))},
		{"Std Dev", code(fmt.Sprintf("%.3f", sum.StdDev))},
		{"Unique Values", code(fmt.Sprintf("%d", sum.Unique))},
	}
	if sum.NonFinite > 0 {
		rows = append(rows, []string{"Non-finite excluded", code(fmt.Sprintf("%d", sum.NonFinite))})
	}
	doc.Add(
		Heading{Level: level + 1, Text: "Statistics"},
		Table{Header: []string{"Metric", "Value"}, Rows: rows},
		Paragraph{Text: fmt.Sprintf("*Statistics computed over %s; standard deviation uses the population formula (divide by N).*", scope)},
	)
}

// ExternalLink renders link metadata. The target is never opened.
func (r *Renderer) ExternalLink(doc *Document, l *container.ExternalLink, depth int) {
	doc.Add(
		Heading{Level: r.level(depth), Text: fmt.Sprintf("External Link: `%s`", l.Name())},
		Table{
			Header: []string{"Property", "Value"},
			Rows: [][]string{
				{"Target file", code(l.TargetFile)},
				{"Target path", code(l.TargetPath)},
			},
		},
	)
}

// Unreadable renders the inline note for a subtree whose contents
// could not be listed, so a partial document says where information
// is missing.
func (r *Renderer) Unreadable(doc *Document, u *container.Unreadable) {
	doc.Add(Paragraph{Text: fmt.Sprintf("*Contents of `%s` unavailable: %s*", u.NodeName, u.Reason)})
}

// FileHeader builds the report title and file-level information
// fragments, for the caller to prepend ahead of the traversal output.
// A negative size skips the information table.
func FileHeader(name string, sizeOnDisk int64, modified time.Time) []Fragment {
	frags := []Fragment{Heading{Level: 1, Text: fmt.Sprintf("HDF5 File: `%s`", name)}}
	if sizeOnDisk < 0 {
		return frags
	}
	return append(frags,
		Heading{Level: 2, Text: "File Information"},
		Table{
			Header: []string{"Property", "Value"},
			Rows: [][]string{
				{"Size on disk", code(HumanSize(sizeOnDisk))},
				{"Last modified", code(modified.Format(time.RFC3339))},
			},
		},
	)
}

// Totals are the running counters the walker accumulates.
type Totals struct {
	Groups             int
	Datasets           int
	CompressedDatasets int
	LogicalBytes       int64
	// StoredLogicalBytes counts logical bytes of only the datasets
	// that reported an on-disk size, so the ratio pairs like with
	// like.
	StoredLogicalBytes int64
	StorageBytes       int64
	StorageKnown       bool
}

// Ratio is the aggregate compression ratio, "N/A" when no dataset
// reported an on-disk size.
func (t Totals) Ratio() string {
	if !t.StorageKnown || t.StorageBytes <= 0 {
		return "N/A"
	}
	return fmt.Sprintf("%.2f", float64(t.StoredLogicalBytes)/float64(t.StorageBytes))
}

// Summary renders the final summary fragment.
func (r *Renderer) Summary(doc *Document, t Totals) {
	doc.Add(
		Heading{Level: 2, Text: "Summary Statistics"},
		Table{
			Header: []string{"Metric", "Value"},
			Rows: [][]string{
				{"Total Groups", code(fmt.Sprintf("%d", t.Groups))},
				{"Total Datasets", code(fmt.Sprintf("%d", t.Datasets))},
				{"Total Data Size", code(HumanSize(t.LogicalBytes))},
				{"Compressed Datasets", code(fmt.Sprintf("%d", t.CompressedDatasets))},
				{"Compression Ratio", code(t.Ratio())},
			},
		},
	)
}

func code(s string) string {
	if strings.Contains(s, "`") {
		return s
	}
	return "`" + s + "`"
}
