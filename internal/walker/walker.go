// Package walker drives the depth-first traversal of a container and
// assembles the report document. It delegates sampling to sample,
// statistics to stats, and fragment formatting to render; per-node
// failures stay confined to that node's fragment.
package walker

import (
	"fmt"
	"path"
	"strconv"
	"strings"

	"github.com/dormorgenstern/h5report/internal/container"
	"github.com/dormorgenstern/h5report/internal/render"
	"github.com/dormorgenstern/h5report/internal/sample"
	"github.com/dormorgenstern/h5report/internal/stats"
	"github.com/dormorgenstern/h5report/internal/typefmt"
)

// Convert walks the container from its root and produces the report
// document: one fragment sequence in traversal order plus a summary
// fragment appended once the totals are known. The root group itself
// is not counted in the totals.
func Convert(root container.Group, cfg Config) *render.Document {
	w := &walk{
		cfg: cfg,
		r: render.Renderer{
			BaseLevel:      cfg.BaseLevel,
			IncludePreview: cfg.IncludePreview,
			IncludeStats:   cfg.IncludeStats,
		},
		doc: &render.Document{},
	}

	w.doc.Add(render.Heading{Level: 2, Text: "File Structure"})
	w.r.Root(w.doc, root)
	w.children(root, "", 0, cfg.Filter == "")
	w.r.Summary(w.doc, w.totals)
	return w.doc
}

type walk struct {
	cfg    Config
	r      render.Renderer
	doc    *render.Document
	totals render.Totals
}

// children visits a group's children in the order the container
// declares them. included is true once this subtree's ancestor matched
// the filter (or no filter is set).
func (w *walk) children(g container.Group, parent string, depth int, included bool) {
	for _, child := range g.Children() {
		childPath := parent + "/" + child.Name()
		if w.excluded(childPath) {
			continue
		}
		switch c := child.(type) {
		case container.Group:
			include := included || w.matches(childPath)
			if !include && !w.reachable(childPath) {
				continue
			}
			if include {
				w.totals.Groups++
			}
			// A group rendered only as a pathway to deeper matches
			// still gets its heading so the report nests correctly.
			w.r.Group(w.doc, c, depth)
			w.children(c, childPath, depth+1, include)
		case container.Dataset:
			if !included && !w.matches(childPath) {
				continue
			}
			w.dataset(c, depth)
		case *container.ExternalLink:
			if !included && !w.matches(childPath) {
				continue
			}
			w.r.ExternalLink(w.doc, c, depth)
		case *container.Unreadable:
			// Always reported: the reader must learn the document is
			// partial even inside a pathway group.
			w.r.Unreadable(w.doc, c)
		}
	}
}

func (w *walk) excluded(p string) bool {
	for _, e := range w.cfg.Exclude {
		if p == e || strings.HasPrefix(p, e+"/") {
			return true
		}
	}
	return false
}

func (w *walk) matches(p string) bool {
	if w.cfg.Filter == "" {
		return true
	}
	ok, err := path.Match(w.cfg.Filter, p)
	return err == nil && ok
}

// reachable reports whether the filter pattern could match somewhere
// below the given group path, so the walk must descend through it.
// Each path segment is matched against the corresponding pattern
// segment, so wildcards in group segments still descend.
func (w *walk) reachable(groupPath string) bool {
	patSegs := strings.Split(strings.TrimPrefix(w.cfg.Filter, "/"), "/")
	pathSegs := strings.Split(strings.TrimPrefix(groupPath, "/"), "/")
	if len(pathSegs) >= len(patSegs) {
		return false
	}
	for i, seg := range pathSegs {
		ok, err := path.Match(patSegs[i], seg)
		if err != nil || !ok {
			return false
		}
	}
	return true
}

// dataset accumulates totals, then builds the preview and statistics
// for one dataset before handing the pieces to the renderer. Every
// failure here is soft: it becomes a note in the fragment and the walk
// continues.
func (w *walk) dataset(d container.Dataset, depth int) {
	w.totals.Datasets++
	w.totals.LogicalBytes += container.LogicalBytes(d)
	if d.Compression() != "" {
		w.totals.CompressedDatasets++
	}
	if s := d.StorageSize(); s >= 0 {
		w.totals.StorageBytes += s
		w.totals.StoredLogicalBytes += container.LogicalBytes(d)
		w.totals.StorageKnown = true
	}

	plan := sample.New(d.Shape(), w.cfg.MaxRows, w.cfg.MaxCols, sample.Strategy(w.cfg.Strategy))
	pv, values := w.materialize(d, plan)

	var sum stats.Summary
	statsOK := false
	scope := ""
	if w.cfg.IncludeStats && values != nil {
		sum, statsOK = stats.Compute(values)
		scope = statsScope(plan, len(values), container.NumElements(d.Shape()))
	}

	w.r.Dataset(w.doc, d, depth, pv, sum, statsOK, scope)
}

// materialize fetches the sampled elements and formats them for the
// preview. The second return value carries the raw numeric values for
// the statistics pass, nil for non-numeric datasets or read failures.
func (w *walk) materialize(d container.Dataset, plan *sample.Plan) (*render.Preview, []float64) {
	pv := &render.Preview{
		Strategy: string(plan.Strategy),
		Partial:  plan.Partial(),
	}
	if plan.Note != "" {
		pv.Notes = append(pv.Notes, plan.Note)
	}
	fillExtents(pv, plan)

	if container.NumElements(d.Shape()) == 0 {
		pv.Notes = append(pv.Notes, "dataset is empty; nothing to preview")
		return pv, nil
	}

	tuples := plan.Tuples()
	elemType := d.ElemType()
	switch {
	case elemType.Numeric():
		values, err := d.Floats(tuples)
		if err != nil {
			pv.Notes = append(pv.Notes, fmt.Sprintf("unable to preview data: %v", err))
			return pv, nil
		}
		cells := make([]string, len(values))
		for i, v := range values {
			cells[i] = typefmt.Float(v)
		}
		pv.Grid = arrange(cells, plan)
		return pv, values
	case elemType.Class == container.ClassString:
		values, err := d.Strings(tuples)
		if err != nil {
			pv.Notes = append(pv.Notes, fmt.Sprintf("unable to preview data: %v", err))
			return pv, nil
		}
		cells := make([]string, len(values))
		for i, v := range values {
			cells[i] = strconv.Quote(v)
		}
		pv.Grid = arrange(cells, plan)
		return pv, nil
	default:
		// Unformattable element type: placeholder note, walk continues.
		pv.Notes = append(pv.Notes, fmt.Sprintf("preview unavailable for %s elements", elemType))
		return pv, nil
	}
}

func fillExtents(pv *render.Preview, plan *sample.Plan) {
	switch {
	case len(plan.Shape) == 0:
		pv.Scalar = true
		pv.RowsShown, pv.RowsTotal = 1, 1
	case plan.Flattened:
		pv.Flattened = true
		pv.RowsShown = len(plan.Dims[0].Indices)
		pv.RowsTotal = plan.Dims[0].Extent
	case len(plan.Dims) == 2:
		pv.RowsShown = len(plan.Dims[0].Indices)
		pv.RowsTotal = plan.Dims[0].Extent
		pv.ColsShown = len(plan.Dims[1].Indices)
		pv.ColsTotal = plan.Dims[1].Extent
	default:
		pv.RowsShown = len(plan.Dims[0].Indices)
		pv.RowsTotal = plan.Dims[0].Extent
	}
}

// arrange lays formatted cells out to match the plan: a rows x cols
// grid for 2D, a single row otherwise.
func arrange(cells []string, plan *sample.Plan) [][]string {
	if len(plan.Shape) == 2 && !plan.Flattened && len(plan.Dims) == 2 {
		cols := len(plan.Dims[1].Indices)
		if cols == 0 {
			return [][]string{cells}
		}
		grid := make([][]string, 0, len(plan.Dims[0].Indices))
		for start := 0; start < len(cells); start += cols {
			grid = append(grid, cells[start:start+cols])
		}
		return grid
	}
	return [][]string{cells}
}

// statsScope is the provenance line for the statistics table. The
// policy is always-disclose: full-dataset statistics say so explicitly
// rather than staying silent.
func statsScope(plan *sample.Plan, materialized, total int) string {
	if plan.Partial() {
		return fmt.Sprintf("a sampled subset (%d of %d elements)", materialized, total)
	}
	return "the full dataset"
}
