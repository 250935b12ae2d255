package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/wudi/flowpdf/writer"
)

func TestParseFlags(t *testing.T) {
	opts, err := parseFlags([]string{"-o", "x.pdf", "-verify", "notes.md"})
	if err != nil {
		t.Fatalf("parseFlags: %v", err)
	}
	if opts.output != "x.pdf" || !opts.verify || opts.format != "md" || opts.input != "notes.md" {
		t.Errorf("opts = %+v", opts)
	}
	if _, err := parseFlags(nil); err == nil {
		t.Errorf("missing input accepted")
	}
}

func TestPageSize(t *testing.T) {
	cases := []struct {
		in   string
		w, h float64
		ok   bool
	}{
		{"letter", 612, 792, true},
		{"200x300", 200, 300, true},
		{"0x300", 0, 0, false},
		{"huge", 0, 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			w, h, err := pageSize(tc.in)
			if (err == nil) != tc.ok || w != tc.w || h != tc.h {
				t.Errorf("pageSize(%q) = %v, %v, %v", tc.in, w, h, err)
			}
		})
	}
	if f, err := contentFilter("a85"); err != nil || f != writer.FilterASCII85 {
		t.Errorf("contentFilter(a85) = %v, %v", f, err)
	}
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "doc.md")
	if err := os.WriteFile(in, []byte("# Notes\n\nSome *text*.\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(dir, "doc.pdf")
	opts, err := parseFlags([]string{"-o", out, "-verify", "-filter", "none", "-title", "Notes", in})
	if err != nil {
		t.Fatalf("parseFlags: %v", err)
	}
	if err := run(context.Background(), opts, nil, nil); err != nil {
		t.Fatalf("run: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"%PDF-1.7", "(Notes) Tj", "/Title (Notes)", "/Creator (pdfgen)"} {
		if !bytes.Contains(data, []byte(want)) {
			t.Errorf("output lacks %q", want)
		}
	}
}

func TestRunStdio(t *testing.T) {
	opts, err := parseFlags([]string{"-o", "-", "-format", "txt", "-"})
	if err != nil {
		t.Fatalf("parseFlags: %v", err)
	}
	var out bytes.Buffer
	if err := run(context.Background(), opts, strings.NewReader("plain text"), &out); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !bytes.HasPrefix(out.Bytes(), []byte("%PDF-")) {
		t.Errorf("stdout is not a PDF")
	}
}
