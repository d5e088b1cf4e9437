package tui

import (
	"strings"
	"testing"
)

func entries() []Entry {
	return []Entry{
		{Path: "/sensors", Label: "group"},
		{Path: "/metadata", Label: "group"},
		{Path: "/raw", Label: "dataset"},
	}
}

func TestNewPicker(t *testing.T) {
	p := NewPicker(entries())
	if len(p.items) != 3 {
		t.Fatalf("got %d items, want 3", len(p.items))
	}
	for i, item := range p.items {
		if !item.selected {
			t.Errorf("item[%d] should be selected by default", i)
		}
	}
}

func TestPicker_Toggle(t *testing.T) {
	p := NewPicker(entries()[:1])
	p.toggle(0)
	if p.items[0].selected {
		t.Error("item should be deselected after toggle")
	}
	p.toggle(0)
	if !p.items[0].selected {
		t.Error("item should be selected after second toggle")
	}
}

func TestPicker_SelectAll(t *testing.T) {
	p := NewPicker(entries())
	p.selectNone()
	for i, item := range p.items {
		if item.selected {
			t.Errorf("item[%d] should be deselected after selectNone", i)
		}
	}
	p.selectAll()
	for i, item := range p.items {
		if !item.selected {
			t.Errorf("item[%d] should be selected after selectAll", i)
		}
	}
}

func TestPicker_Excluded(t *testing.T) {
	p := NewPicker(entries())
	p.toggle(1) // deselect /metadata

	excluded := p.Excluded()
	if len(excluded) != 1 {
		t.Fatalf("got %d excluded, want 1", len(excluded))
	}
	if excluded[0] != "/metadata" {
		t.Errorf("excluded[0] = %q, want /metadata", excluded[0])
	}
}

func TestPicker_View(t *testing.T) {
	p := NewPicker(entries())
	p.toggle(2)

	view := p.View()
	if !strings.Contains(view, "3 top-level nodes (2 selected)") {
		t.Errorf("header missing selection count:\n%s", view)
	}
	if !strings.Contains(view, "/sensors  (group)") {
		t.Errorf("entry line missing:\n%s", view)
	}
}
