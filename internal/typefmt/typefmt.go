// Package typefmt renders attribute and scalar values for display.
// Every value carries a container.Kind tag decided at ingestion; the
// formatter dispatches on the tag and fails soft on anything it does
// not recognize so one odd value never aborts a report.
package typefmt

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/dormorgenstern/h5report/internal/container"
	"github.com/dormorgenstern/h5report/internal/sample"
)

// arrayCap bounds how many array elements appear in an attribute cell.
// Deliberately independent of the dataset preview budgets.
const arrayCap = 8

// Format renders a value and its kind into a display string and a type
// label for the attribute tables.
func Format(v any, k container.Kind) (display, label string) {
	label = k.String()
	switch k {
	case container.KindString:
		display = fmt.Sprintf("%v", v)
	case container.KindInt:
		display = formatInt(v)
	case container.KindUint:
		display = formatUint(v)
	case container.KindFloat:
		display = formatFloat(v)
	case container.KindBytes:
		display = formatBytes(v)
	case container.KindBool:
		display = fmt.Sprintf("%v", v)
	case container.KindArray:
		display = formatArray(v)
	default:
		// Opaque or unknown: a placeholder, never a failure.
		display = fmt.Sprintf("<%s>", label)
	}
	return display, label
}

// Float renders a float with enough significant digits to tell values
// apart without trailing noise.
func Float(f float64) string {
	return strconv.FormatFloat(f, 'g', 6, 64)
}

func formatFloat(v any) string {
	switch f := v.(type) {
	case float64:
		return Float(f)
	case float32:
		return Float(float64(f))
	}
	return fmt.Sprintf("%v", v)
}

func formatInt(v any) string {
	switch i := v.(type) {
	case int64:
		return strconv.FormatInt(i, 10)
	case int32:
		return strconv.FormatInt(int64(i), 10)
	case int16:
		return strconv.FormatInt(int64(i), 10)
	case int8:
		return strconv.FormatInt(int64(i), 10)
	case int:
		return strconv.Itoa(i)
	}
	return fmt.Sprintf("%v", v)
}

func formatUint(v any) string {
	switch u := v.(type) {
	case uint64:
		return strconv.FormatUint(u, 10)
	case uint32:
		return strconv.FormatUint(uint64(u), 10)
	case uint16:
		return strconv.FormatUint(uint64(u), 10)
	case uint8:
		return strconv.FormatUint(uint64(u), 10)
	case uint:
		return strconv.FormatUint(uint64(u), 10)
	}
	return fmt.Sprintf("%v", v)
}

// formatBytes decodes byte strings as text when they are valid UTF-8,
// otherwise renders an escaped literal marking the binary origin.
func formatBytes(v any) string {
	b, ok := v.([]byte)
	if !ok {
		return fmt.Sprintf("%v", v)
	}
	if utf8.Valid(b) {
		return string(b)
	}
	return "b" + strconv.Quote(string(b))
}

// formatArray renders a bracketed, comma-separated literal. Long
// arrays show the leading elements only, per the "first" policy.
func formatArray(v any) string {
	elems := arrayElements(v)
	if elems == nil {
		return fmt.Sprintf("%v", v)
	}
	shown := sample.Indices(len(elems), arrayCap, sample.First)
	parts := make([]string, 0, len(shown)+1)
	for _, i := range shown {
		parts = append(parts, elems[i])
	}
	if len(shown) < len(elems) {
		parts = append(parts, "...")
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func arrayElements(v any) []string {
	switch s := v.(type) {
	case []float64:
		out := make([]string, len(s))
		for i, f := range s {
			out[i] = Float(f)
		}
		return out
	case []float32:
		out := make([]string, len(s))
		for i, f := range s {
			out[i] = Float(float64(f))
		}
		return out
	case []int64:
		out := make([]string, len(s))
		for i, n := range s {
			out[i] = strconv.FormatInt(n, 10)
		}
		return out
	case []int32:
		out := make([]string, len(s))
		for i, n := range s {
			out[i] = strconv.FormatInt(int64(n), 10)
		}
		return out
	case []uint64:
		out := make([]string, len(s))
		for i, n := range s {
			out[i] = strconv.FormatUint(n, 10)
		}
		return out
	case []string:
		out := make([]string, len(s))
		copy(out, s)
		return out
	case []bool:
		out := make([]string, len(s))
		for i, b := range s {
			out[i] = strconv.FormatBool(b)
		}
		return out
	case []any:
		out := make([]string, len(s))
		for i, e := range s {
			out[i] = fmt.Sprintf("%v", e)
		}
		return out
	}
	return nil
}
