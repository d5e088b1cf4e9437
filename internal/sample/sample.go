// Package sample decides which element indices of a dataset are
// materialized for preview. Sampling is a pure function of shape,
// budget, and strategy; it never touches element data.
package sample

import "fmt"

// Strategy selects how indices are picked along a dimension.
type Strategy string

const (
	// First takes the leading indices of each dimension.
	First Strategy = "first"
	// Uniform spreads indices evenly across the extent, always
	// including index 0.
	Uniform Strategy = "uniform"
	// Edges takes indices from both ends of the extent.
	Edges Strategy = "edges"
)

// ErrBadStrategy reports an unrecognized strategy name.
type ErrBadStrategy struct {
	Name string
}

func (e *ErrBadStrategy) Error() string {
	return fmt.Sprintf("unknown sampling strategy %q (valid: first, uniform, edges)", e.Name)
}

// Parse validates a strategy name. The empty string means First.
func Parse(name string) (Strategy, error) {
	switch Strategy(name) {
	case First, Uniform, Edges:
		return Strategy(name), nil
	case "":
		return First, nil
	}
	return First, &ErrBadStrategy{Name: name}
}

// Indices returns the indices to materialize along one dimension, in
// ascending order. A budget of zero or less means no limit. Results
// never leave [0, extent) and never contain duplicates.
func Indices(extent, budget int, s Strategy) []int {
	if extent <= 0 {
		return nil
	}
	if budget <= 0 || budget >= extent {
		return ascending(0, extent)
	}
	switch s {
	case Uniform:
		out := make([]int, budget)
		for i := 0; i < budget; i++ {
			out[i] = i * extent / budget
		}
		return out
	case Edges:
		head := (budget + 1) / 2
		tail := budget / 2
		out := ascending(0, head)
		return append(out, ascending(extent-tail, extent)...)
	default:
		return ascending(0, budget)
	}
}

func ascending(lo, hi int) []int {
	out := make([]int, 0, hi-lo)
	for i := lo; i < hi; i++ {
		out = append(out, i)
	}
	return out
}

// Dim is the sampling decision for one dimension.
type Dim struct {
	Extent  int
	Indices []int
}

// Partial reports whether the dimension is only partially shown.
func (d Dim) Partial() bool { return len(d.Indices) < d.Extent }

// Plan is the sampling decision for a whole dataset. Rendering expands
// at most the first two dimensions; datasets of higher rank are
// flattened to a bounded element preview, which keeps the cartesian
// product out of the report.
type Plan struct {
	Shape     []int
	Dims      []Dim // one entry per rendered dimension
	Strategy  Strategy
	Flattened bool   // rank > 2 collapsed to a flat element preview
	Note      string // set when an invalid strategy fell back to First
}

// New plans a preview for the given shape. rows budgets the first
// dimension (or the flattened element count), cols the second.
// Budgets of zero or less mean no limit. An unrecognized strategy is
// a soft failure: the plan falls back to First and records a note.
func New(shape []int, rows, cols int, strategy Strategy) *Plan {
	p := &Plan{Shape: append([]int(nil), shape...), Strategy: strategy}
	if _, err := Parse(string(strategy)); err != nil {
		p.Strategy = First
		p.Note = fmt.Sprintf("requested sampling strategy %q is not recognized; fell back to 'first'", strategy)
	}

	switch {
	case len(shape) == 0:
		// Scalar: the single empty tuple.
	case len(shape) == 1:
		p.Dims = []Dim{{Extent: shape[0], Indices: Indices(shape[0], rows, p.Strategy)}}
	case len(shape) == 2:
		p.Dims = []Dim{
			{Extent: shape[0], Indices: Indices(shape[0], rows, p.Strategy)},
			{Extent: shape[1], Indices: Indices(shape[1], cols, p.Strategy)},
		}
	default:
		total := 1
		for _, extent := range shape {
			if extent <= 0 {
				total = 0
				break
			}
			total *= extent
		}
		p.Flattened = true
		p.Dims = []Dim{{Extent: total, Indices: Indices(total, rows, p.Strategy)}}
	}
	return p
}

// Partial reports whether any rendered dimension is truncated.
func (p *Plan) Partial() bool {
	for _, d := range p.Dims {
		if d.Partial() {
			return true
		}
	}
	return false
}

// Tuples returns the index-tuples to materialize, row-major (first
// dimension varies slowest). A scalar yields the single empty tuple.
// Flattened plans yield tuples unflattened back into the full shape.
func (p *Plan) Tuples() [][]int {
	if len(p.Shape) == 0 {
		return [][]int{{}}
	}
	if p.Flattened {
		out := make([][]int, 0, len(p.Dims[0].Indices))
		for _, flat := range p.Dims[0].Indices {
			out = append(out, Unflatten(flat, p.Shape))
		}
		return out
	}
	if len(p.Dims) == 1 {
		out := make([][]int, 0, len(p.Dims[0].Indices))
		for _, i := range p.Dims[0].Indices {
			out = append(out, []int{i})
		}
		return out
	}
	out := make([][]int, 0, len(p.Dims[0].Indices)*len(p.Dims[1].Indices))
	for _, r := range p.Dims[0].Indices {
		for _, c := range p.Dims[1].Indices {
			out = append(out, []int{r, c})
		}
	}
	return out
}

// Unflatten converts a row-major flat offset back into an index-tuple
// for the given shape.
func Unflatten(flat int, shape []int) []int {
	idx := make([]int, len(shape))
	for dim := len(shape) - 1; dim >= 0; dim-- {
		idx[dim] = flat % shape[dim]
		flat /= shape[dim]
	}
	return idx
}
