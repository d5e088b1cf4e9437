package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dormorgenstern/h5report/internal/container"
	"github.com/dormorgenstern/h5report/internal/walker"
)

func TestBuildConfigDefaults(t *testing.T) {
	configFile = ""
	cfg, err := buildConfig(convertCmd)
	if err != nil {
		t.Fatalf("buildConfig: %v", err)
	}
	want := walker.Default()
	if cfg.MaxRows != want.MaxRows || cfg.Strategy != want.Strategy || cfg.TOC != want.TOC {
		t.Errorf("got %+v, want defaults %+v", cfg, want)
	}
}

func TestBuildConfigLayering(t *testing.T) {
	// File sets two values; an explicitly passed flag overrides one of
	// them, untouched keys keep their defaults.
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	data := "max_rows: 3\nsampling_strategy: edges\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	configFile = path
	defer func() { configFile = "" }()

	flags := convertCmd.Flags()
	if err := flags.Set("max-rows", "7"); err != nil {
		t.Fatal(err)
	}

	cfg, err := buildConfig(convertCmd)
	if err != nil {
		t.Fatalf("buildConfig: %v", err)
	}
	if cfg.MaxRows != 7 {
		t.Errorf("MaxRows = %d, want flag value 7 over file value 3", cfg.MaxRows)
	}
	if cfg.Strategy != "edges" {
		t.Errorf("Strategy = %q, want file value edges", cfg.Strategy)
	}
	if cfg.MaxCols != 10 {
		t.Errorf("MaxCols = %d, want default 10", cfg.MaxCols)
	}
}

func TestBuildConfigBadFile(t *testing.T) {
	configFile = filepath.Join(t.TempDir(), "absent.yaml")
	defer func() { configFile = "" }()

	if _, err := buildConfig(convertCmd); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestWriteMarkdown(t *testing.T) {
	root := container.NewGroup("/").
		SetAttr("version", "1.0", container.KindString).
		Add(container.NewGroup("sensors").
			Add(container.FloatDataset("temperature", []int{4}, 1, 2, 3, 4)))

	buf := new(bytes.Buffer)
	if err := writeMarkdown(buf, "run.h5", root, walker.Default()); err != nil {
		t.Fatalf("writeMarkdown: %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"# Table of Contents",
		"# HDF5 File: `run.h5`",
		"## Group: `sensors`",
		"### Dataset: `temperature`",
		"## Summary Statistics",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q\nGot:\n%s", want, out)
		}
	}
	// The path was never stat-able, so no file information table.
	if strings.Contains(out, "File Information") {
		t.Errorf("unexpected file information section:\n%s", out)
	}
}

func TestWriteMarkdownNoTOC(t *testing.T) {
	cfg := walker.Default()
	cfg.TOC = false

	buf := new(bytes.Buffer)
	root := container.NewGroup("/")
	if err := writeMarkdown(buf, "x.h5", root, cfg); err != nil {
		t.Fatalf("writeMarkdown: %v", err)
	}
	if strings.Contains(buf.String(), "Table of Contents") {
		t.Errorf("TOC rendered despite being disabled:\n%s", buf.String())
	}
}

func TestConvertE2E_InvalidPath(t *testing.T) {
	buf := new(bytes.Buffer)
	outputFormat = "markdown"
	outputFile = ""
	configFile = ""

	cmd := rootCmd
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"convert", "/nonexistent/file.h5"})

	if err := cmd.Execute(); err == nil {
		t.Fatal("expected error for nonexistent file")
	}
}

func TestPickerEntries(t *testing.T) {
	root := container.NewGroup("/").
		Add(container.NewGroup("sensors")).
		Add(container.FloatDataset("raw", []int{2}, 1, 2)).
		Add(&container.ExternalLink{LinkName: "calib", TargetFile: "c.h5", TargetPath: "/x"})

	entries := pickerEntries(root)
	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(entries))
	}
	want := []struct{ path, label string }{
		{"/sensors", "group"},
		{"/raw", "dataset"},
		{"/calib", "link"},
	}
	for i, w := range want {
		if entries[i].Path != w.path || entries[i].Label != w.label {
			t.Errorf("entries[%d] = %+v, want %+v", i, entries[i], w)
		}
	}
}
