package walker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dormorgenstern/h5report/internal/container"
)

func sensorsRoot() *container.MemGroup {
	values := make([]float64, 24)
	for i := range values {
		values[i] = float64(i)
	}
	return container.NewGroup("/").
		SetAttr("version", "1.0", container.KindString).
		Add(container.NewGroup("sensors").
			Add(container.FloatDataset("temperature", []int{24}, values...)))
}

func TestConvertSensors(t *testing.T) {
	cfg := Default()
	cfg.MaxRows = 5
	cfg.Strategy = "first"

	out := Convert(sensorsRoot(), cfg).RenderText()

	// Root attributes come first, under the structure heading.
	require.Contains(t, out, "## File Structure")
	assert.Contains(t, out, "| `version` | `1.0` | string |")

	// Heading depth tracks nesting: the group at depth 0, its dataset
	// at depth 1.
	assert.Contains(t, out, "## Group: `sensors`")
	assert.Contains(t, out, "### Dataset: `temperature`")

	// The truncated preview carries the exact disclosure line.
	assert.Contains(t, out, "[0, 1, 2, 3, 4]")
	assert.Contains(t, out, "(showing 5 of 24 rows using 'first' sampling)")

	// Statistics come from the sampled subset and say so.
	assert.Contains(t, out, "a sampled subset (5 of 24 elements)")

	// The root group is not counted; /sensors is the one group.
	assert.Contains(t, out, "| Total Groups | `1` |")
	assert.Contains(t, out, "| Total Datasets | `1` |")
	assert.Contains(t, out, "| Compression Ratio | `N/A` |")

	// Summary is the final fragment.
	assert.Greater(t, strings.Index(out, "## Summary Statistics"), strings.Index(out, "### Dataset: `temperature`"))
}

func TestConvertFullDatasetStats(t *testing.T) {
	root := container.NewGroup("/").
		Add(container.FloatDataset("v", []int{4}, 1, 2, 3, 4))

	out := Convert(root, Default()).RenderText()

	assert.Contains(t, out, "| Mean | `2.500` |")
	assert.Contains(t, out, "| Std Dev | `1.118` |")
	assert.Contains(t, out, "the full dataset")
	assert.NotContains(t, out, "showing", "complete preview needs no disclosure")
}

func TestConvertDeterministic(t *testing.T) {
	cfg := Default()
	first := Convert(sensorsRoot(), cfg).RenderText()
	second := Convert(sensorsRoot(), cfg).RenderText()
	assert.Equal(t, first, second)
}

func TestConvertCompressionRatio(t *testing.T) {
	root := container.NewGroup("/").
		Add(container.FloatDataset("packed", []int{24}, make([]float64, 24)...).
			WithCompression("gzip", 96))

	out := Convert(root, Default()).RenderText()

	assert.Contains(t, out, "| Compressed Datasets | `1` |")
	// 24 float64s = 192 logical bytes over 96 on disk.
	assert.Contains(t, out, "| Compression Ratio | `2.00` |")
}

func TestConvertRatioIgnoresUnknownStorage(t *testing.T) {
	// A sibling with no on-disk size must not inflate the ratio's
	// numerator.
	root := container.NewGroup("/").
		Add(container.FloatDataset("packed", []int{24}, make([]float64, 24)...).
			WithCompression("gzip", 96)).
		Add(container.FloatDataset("raw", []int{100}, make([]float64, 100)...))

	out := Convert(root, Default()).RenderText()

	assert.Contains(t, out, "| Total Data Size | `992.0 B` |")
	assert.Contains(t, out, "| Compression Ratio | `2.00` |")
}

func TestConvertEmptyDataset(t *testing.T) {
	root := container.NewGroup("/").
		Add(container.FloatDataset("empty", []int{0}))

	out := Convert(root, Default()).RenderText()

	assert.Contains(t, out, "*dataset is empty; nothing to preview*")
	assert.Contains(t, out, "| Total Datasets | `1` |")
}

func TestConvertStringDataset(t *testing.T) {
	root := container.NewGroup("/").
		Add(container.StringDataset("labels", []int{2}, "hot", "cold"))

	out := Convert(root, Default()).RenderText()

	assert.Contains(t, out, `["hot", "cold"]`)
	assert.NotContains(t, out, "### Statistics", "string datasets carry no statistics")
}

func TestConvertUnreadableDatasetIsSoft(t *testing.T) {
	// A numeric dataset with no payload fails to read; the walk keeps
	// going and the summary still counts it. Its budget-exceeding shape
	// must not produce a disclosure either, since nothing was shown.
	root := container.NewGroup("/").
		Add(container.FloatDataset("broken", []int{24})).
		Add(container.FloatDataset("fine", []int{2}, 1, 2))

	out := Convert(root, Default()).RenderText()

	assert.Contains(t, out, "*unable to preview data:")
	assert.NotContains(t, out, "showing", "no values shown, so no disclosure")
	assert.Contains(t, out, "## Dataset: `fine`")
	assert.Contains(t, out, "| Total Datasets | `2` |")
}

func TestConvertUnlistableGroup(t *testing.T) {
	// A source that fails to enumerate a group's members leaves a
	// placeholder child; the document must say what is missing instead
	// of presenting the group as empty.
	root := container.NewGroup("/").
		Add(container.NewGroup("damaged").
			Add(&container.Unreadable{NodeName: "damaged", Reason: "listing members: truncated heap"}))

	out := Convert(root, Default()).RenderText()

	assert.Contains(t, out, "## Group: `damaged`")
	assert.Contains(t, out, "*Contents of `damaged` unavailable: listing members: truncated heap*")
	assert.Contains(t, out, "| Total Groups | `1` |")
	assert.Contains(t, out, "| Total Datasets | `0` |")
}

func TestConvertFilter(t *testing.T) {
	root := container.NewGroup("/").
		Add(container.NewGroup("data").
			Add(container.FloatDataset("keep", []int{2}, 1, 2))).
		Add(container.NewGroup("meta").
			Add(container.FloatDataset("drop", []int{2}, 3, 4)))

	cfg := Default()
	cfg.Filter = "/data"
	out := Convert(root, cfg).RenderText()

	assert.Contains(t, out, "Group: `data`")
	assert.Contains(t, out, "Dataset: `keep`")
	assert.NotContains(t, out, "Group: `meta`")
	assert.NotContains(t, out, "Dataset: `drop`")
	assert.Contains(t, out, "| Total Groups | `1` |")
	assert.Contains(t, out, "| Total Datasets | `1` |")
}

func TestConvertFilterDescendsToMatch(t *testing.T) {
	root := container.NewGroup("/").
		Add(container.NewGroup("data").
			Add(container.FloatDataset("a", []int{2}, 1, 2)).
			Add(container.FloatDataset("b", []int{2}, 3, 4)))

	cfg := Default()
	cfg.Filter = "/data/a"
	out := Convert(root, cfg).RenderText()

	// The pathway group renders so headings nest, but only the matched
	// dataset appears and only it is counted.
	assert.Contains(t, out, "Group: `data`")
	assert.Contains(t, out, "Dataset: `a`")
	assert.NotContains(t, out, "Dataset: `b`")
	assert.Contains(t, out, "| Total Groups | `0` |")
	assert.Contains(t, out, "| Total Datasets | `1` |")
}

func TestConvertFilterWildcardGroupSegment(t *testing.T) {
	root := container.NewGroup("/").
		Add(container.NewGroup("sensors").
			Add(container.FloatDataset("temperature", []int{2}, 1, 2)).
			Add(container.FloatDataset("humidity", []int{2}, 3, 4))).
		Add(container.NewGroup("probes").
			Add(container.FloatDataset("temperature", []int{2}, 5, 6)))

	cfg := Default()
	cfg.Filter = "/*/temperature"
	out := Convert(root, cfg).RenderText()

	// A wildcard in the group segment still descends through every
	// candidate group and matches in each.
	assert.Contains(t, out, "Group: `sensors`")
	assert.Contains(t, out, "Group: `probes`")
	assert.NotContains(t, out, "Dataset: `humidity`")
	assert.Contains(t, out, "| Total Datasets | `2` |")
	assert.Contains(t, out, "| Total Groups | `0` |")
}

func TestConvertExclude(t *testing.T) {
	root := container.NewGroup("/").
		Add(container.NewGroup("keep").
			Add(container.FloatDataset("x", []int{2}, 1, 2))).
		Add(container.NewGroup("skip").
			Add(container.FloatDataset("y", []int{2}, 3, 4)))

	cfg := Default()
	cfg.Exclude = []string{"/skip"}
	out := Convert(root, cfg).RenderText()

	assert.Contains(t, out, "Group: `keep`")
	assert.NotContains(t, out, "Group: `skip`")
	assert.NotContains(t, out, "Dataset: `y`")
	assert.Contains(t, out, "| Total Groups | `1` |")
}

func TestConvertExternalLink(t *testing.T) {
	root := container.NewGroup("/").
		Add(&container.ExternalLink{LinkName: "calib", TargetFile: "c.h5", TargetPath: "/off"})

	out := Convert(root, Default()).RenderText()

	assert.Contains(t, out, "External Link: `calib`")
	assert.Contains(t, out, "| Target file | `c.h5` |")
	// Links count as neither group nor dataset.
	assert.Contains(t, out, "| Total Groups | `0` |")
	assert.Contains(t, out, "| Total Datasets | `0` |")
}

func TestConvertNoPreviewNoStats(t *testing.T) {
	cfg := Default()
	cfg.IncludePreview = false
	cfg.IncludeStats = false

	out := Convert(sensorsRoot(), cfg).RenderText()

	assert.NotContains(t, out, "Preview")
	assert.NotContains(t, out, "Statistics computed")
	assert.Contains(t, out, "### Dataset: `temperature`")
}

func TestConvert2DPreview(t *testing.T) {
	values := make([]float64, 12)
	for i := range values {
		values[i] = float64(i)
	}
	root := container.NewGroup("/").
		Add(container.FloatDataset("grid", []int{4, 3}, values...))

	cfg := Default()
	cfg.MaxRows = 2
	out := Convert(root, cfg).RenderText()

	// First two rows of the 4x3 grid, cells joined by two spaces.
	assert.Contains(t, out, "0  1  2\n3  4  5")
	assert.Contains(t, out, "(showing 2 of 4 rows using 'first' sampling)")
}

func TestJSONTree(t *testing.T) {
	root := container.NewGroup("/").
		SetAttr("version", "1.0", container.KindString).
		Add(container.NewGroup("sensors").
			Add(container.FloatDataset("temperature", []int{24}, make([]float64, 24)...).
				WithCompression("gzip", 96)))

	tree := JSONTree(root)

	assert.Equal(t, "group", tree["type"])
	attrs := tree["attributes"].(map[string]any)
	assert.Equal(t, "1.0", attrs["version"])

	sensors := tree["children"].(map[string]any)["sensors"].(map[string]any)
	temp := sensors["children"].(map[string]any)["temperature"].(map[string]any)
	assert.Equal(t, "dataset", temp["type"])
	assert.Equal(t, []int{24}, temp["shape"])
	assert.Equal(t, "gzip", temp["compression"])
	_, hasChunks := temp["chunks"]
	assert.False(t, hasChunks, "contiguous dataset exports no chunk shape")
}

func TestJSONValueBytes(t *testing.T) {
	assert.Equal(t, "text", jsonValue([]byte("text")))
	raw := []byte{0xff, 0xfe}
	assert.Equal(t, raw, jsonValue(raw))
}
