package container

import "testing"

func TestNumElements(t *testing.T) {
	tests := []struct {
		shape []int
		want  int
	}{
		{nil, 1}, // scalar
		{[]int{24}, 24},
		{[]int{3, 4}, 12},
		{[]int{2, 0, 5}, 0},
	}
	for _, tt := range tests {
		if got := NumElements(tt.shape); got != tt.want {
			t.Errorf("NumElements(%v) = %d, want %d", tt.shape, got, tt.want)
		}
	}
}

func TestShapeString(t *testing.T) {
	tests := []struct {
		shape []int
		want  string
	}{
		{nil, "scalar"},
		{[]int{24}, "(24,)"},
		{[]int{3, 4}, "(3, 4)"},
	}
	for _, tt := range tests {
		if got := ShapeString(tt.shape); got != tt.want {
			t.Errorf("ShapeString(%v) = %q, want %q", tt.shape, got, tt.want)
		}
	}
}

func TestFlatOffset(t *testing.T) {
	shape := []int{3, 4}
	if off, err := FlatOffset(shape, []int{1, 2}); err != nil || off != 6 {
		t.Errorf("FlatOffset = %d, %v; want 6, nil", off, err)
	}
	if _, err := FlatOffset(shape, []int{3, 0}); err == nil {
		t.Error("out-of-range index should fail")
	}
	if _, err := FlatOffset(shape, []int{1}); err == nil {
		t.Error("rank mismatch should fail")
	}
	if off, err := FlatOffset(nil, nil); err != nil || off != 0 {
		t.Errorf("scalar offset = %d, %v; want 0, nil", off, err)
	}
}

func TestMemDatasetAccess(t *testing.T) {
	d := FloatDataset("m", []int{2, 3}, 1, 2, 3, 4, 5, 6)

	vals, err := d.Floats([][]int{{0, 0}, {1, 2}})
	if err != nil {
		t.Fatalf("Floats: %v", err)
	}
	if vals[0] != 1 || vals[1] != 6 {
		t.Errorf("got %v, want [1 6]", vals)
	}

	if _, err := d.Floats([][]int{{2, 0}}); err == nil {
		t.Error("out-of-range access should fail")
	}
	if _, err := d.Strings([][]int{{0, 0}}); err == nil {
		t.Error("string access on float dataset should fail")
	}
}

func TestMemDatasetScalar(t *testing.T) {
	d := FloatDataset("s", nil, 7.5)
	vals, err := d.Floats([][]int{{}})
	if err != nil {
		t.Fatalf("Floats: %v", err)
	}
	if vals[0] != 7.5 {
		t.Errorf("got %v, want 7.5", vals[0])
	}
}

func TestMemGroupOrderAndUniqueness(t *testing.T) {
	g := NewGroup("/").
		Add(NewGroup("zebra")).
		Add(FloatDataset("alpha", []int{1}, 0)).
		Add(NewGroup("middle"))

	names := make([]string, 0, 3)
	for _, c := range g.Children() {
		names = append(names, c.Name())
	}
	want := []string{"zebra", "alpha", "middle"}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("children order %v, want %v (insertion order)", names, want)
		}
	}

	// Re-adding a name replaces, never duplicates.
	g.Add(NewGroup("zebra"))
	if len(g.Children()) != 3 {
		t.Errorf("got %d children after replacement, want 3", len(g.Children()))
	}
}

func TestAttributeOrderPreserved(t *testing.T) {
	g := NewGroup("/").
		SetAttr("zulu", "z", KindString).
		SetAttr("alpha", int64(1), KindInt).
		SetAttr("zulu", "replaced", KindString)

	attrs := g.Attributes()
	if len(attrs) != 2 {
		t.Fatalf("got %d attributes, want 2", len(attrs))
	}
	if attrs[0].Name != "zulu" || attrs[0].Value != "replaced" {
		t.Errorf("first attribute = %+v, want replaced zulu in original position", attrs[0])
	}
	if attrs[1].Name != "alpha" {
		t.Errorf("second attribute = %q, want alpha", attrs[1].Name)
	}
}

func TestTypeDescriptorNumeric(t *testing.T) {
	numeric := []TypeClass{ClassInt, ClassUint, ClassFloat}
	for _, c := range numeric {
		if !(TypeDescriptor{Class: c}).Numeric() {
			t.Errorf("class %d should be numeric", c)
		}
	}
	for _, c := range []TypeClass{ClassString, ClassBool, ClassCompound, ClassOpaque} {
		if (TypeDescriptor{Class: c}).Numeric() {
			t.Errorf("class %d should not be numeric", c)
		}
	}
}
