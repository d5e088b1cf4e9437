package render

import (
	"fmt"
	"strings"
)

// Preview is the sampled slice of a dataset, already formatted for
// display. The walker assembles it from the sampler's plan and the
// dataset's element accessor.
type Preview struct {
	// Grid holds formatted values row by row. One row for scalars,
	// one-dimensional datasets, and flattened high-rank previews.
	Grid [][]string

	Scalar    bool
	Flattened bool // rank > 2, collapsed to a flat element preview

	RowsShown, RowsTotal int
	ColsShown, ColsTotal int // zero unless a 2D grid

	Strategy string
	Partial  bool

	// Notes carries soft-failure disclosures: sampling fallbacks,
	// unreadable values, unsupported element types.
	Notes []string
}

// render emits the preview block plus the mandatory disclosure line
// whenever the preview is partial.
func (p *Preview) render(doc *Document) {
	for _, note := range p.Notes {
		doc.Add(Paragraph{Text: "*" + note + "*"})
	}

	switch {
	case p.Grid == nil:
		// Nothing readable; notes above already explain why.
	case p.Scalar:
		doc.Add(CodeBlock{Lines: []string{p.Grid[0][0]}})
	case p.ColsTotal > 0:
		lines := make([]string, 0, len(p.Grid))
		for _, row := range p.Grid {
			lines = append(lines, strings.Join(row, "  "))
		}
		doc.Add(CodeBlock{Lines: lines})
	default:
		doc.Add(CodeBlock{Lines: []string{"[" + strings.Join(p.Grid[0], ", ") + "]"}})
	}

	// No disclosure without a block: claiming "showing X of Y" under a
	// failed read would misstate what the reader sees.
	if p.Partial && p.Grid != nil {
		doc.Add(Paragraph{Text: p.disclosure()})
	}
}

// disclosure states how much of the dataset is shown and under which
// strategy.
func (p *Preview) disclosure() string {
	switch {
	case p.Flattened:
		return fmt.Sprintf("(showing %d of %d elements using '%s' sampling)",
			p.RowsShown, p.RowsTotal, p.Strategy)
	case p.ColsTotal > 0:
		if p.ColsShown < p.ColsTotal && p.RowsShown < p.RowsTotal {
			return fmt.Sprintf("(showing %d of %d rows and %d of %d cols using '%s' sampling)",
				p.RowsShown, p.RowsTotal, p.ColsShown, p.ColsTotal, p.Strategy)
		}
		if p.ColsShown < p.ColsTotal {
			return fmt.Sprintf("(showing %d of %d cols using '%s' sampling)",
				p.ColsShown, p.ColsTotal, p.Strategy)
		}
		return fmt.Sprintf("(showing %d of %d rows using '%s' sampling)",
			p.RowsShown, p.RowsTotal, p.Strategy)
	default:
		return fmt.Sprintf("(showing %d of %d rows using '%s' sampling)",
			p.RowsShown, p.RowsTotal, p.Strategy)
	}
}
