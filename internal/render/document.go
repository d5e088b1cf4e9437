// Package render turns container nodes into markdown fragments and
// assembles them into the final report document.
package render

import (
	"fmt"
	"strings"
)

// Fragment is one block of the rendered document.
type Fragment interface {
	write(b *strings.Builder)
}

// Heading is a markdown heading. Levels are clamped to 1..6 when
// written.
type Heading struct {
	Level int
	Text  string
}

func (h Heading) write(b *strings.Builder) {
	level := h.Level
	if level < 1 {
		level = 1
	}
	if level > 6 {
		level = 6
	}
	b.WriteString(strings.Repeat("#", level))
	b.WriteByte(' ')
	b.WriteString(h.Text)
	b.WriteString("\n\n")
}

// Paragraph is a plain text block.
type Paragraph struct {
	Text string
}

func (p Paragraph) write(b *strings.Builder) {
	b.WriteString(p.Text)
	b.WriteString("\n\n")
}

// Table is a markdown table with a fixed header row.
type Table struct {
	Header []string
	Rows   [][]string
}

func (t Table) write(b *strings.Builder) {
	writeRow(b, t.Header)
	sep := make([]string, len(t.Header))
	for i := range sep {
		sep[i] = "------"
	}
	writeRow(b, sep)
	for _, row := range t.Rows {
		writeRow(b, row)
	}
	b.WriteString("\n")
}

func writeRow(b *strings.Builder, cells []string) {
	b.WriteString("|")
	for _, c := range cells {
		b.WriteString(" ")
		b.WriteString(strings.ReplaceAll(c, "|", "\\|"))
		b.WriteString(" |")
	}
	b.WriteString("\n")
}

// CodeBlock is a fenced block, used for data previews.
type CodeBlock struct {
	Lines []string
}

func (c CodeBlock) write(b *strings.Builder) {
	b.WriteString("```\n")
	for _, line := range c.Lines {
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("```\n\n")
}

// Document is an ordered sequence of fragments. The summary fragment
// is appended by the walker once traversal finishes.
type Document struct {
	fragments []Fragment
}

// Add appends fragments in order.
func (d *Document) Add(frags ...Fragment) {
	d.fragments = append(d.fragments, frags...)
}

// Prepend inserts fragments before everything added so far.
func (d *Document) Prepend(frags ...Fragment) {
	d.fragments = append(append([]Fragment{}, frags...), d.fragments...)
}

// Fragments exposes the assembled sequence.
func (d *Document) Fragments() []Fragment {
	return d.fragments
}

// RenderText produces the final markdown output.
func (d *Document) RenderText() string {
	var b strings.Builder
	for _, f := range d.fragments {
		f.write(&b)
	}
	return b.String()
}

// InsertTOC builds a table of contents from the document's headings
// and prepends it. Anchors follow the usual markdown slug rules.
func (d *Document) InsertTOC() {
	var lines []string
	for _, f := range d.fragments {
		h, ok := f.(Heading)
		if !ok {
			continue
		}
		indent := strings.Repeat("  ", max(h.Level-1, 0))
		lines = append(lines, fmt.Sprintf("%s- [%s](#%s)", indent, h.Text, anchor(h.Text)))
	}
	if len(lines) == 0 {
		return
	}
	d.Prepend(
		Heading{Level: 1, Text: "Table of Contents"},
		Paragraph{Text: strings.Join(lines, "\n")},
	)
}

// anchor converts a heading into a markdown anchor slug.
func anchor(text string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(text) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteByte('-')
		}
	}
	return b.String()
}

// HumanSize renders a byte count the way people read them.
func HumanSize(n int64) string {
	size := float64(n)
	for _, unit := range []string{"B", "KB", "MB", "GB"} {
		if size < 1024.0 {
			return fmt.Sprintf("%.1f %s", size, unit)
		}
		size /= 1024.0
	}
	return fmt.Sprintf("%.1f TB", size)
}
