package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	pcol "github.com/maax3v3/pixrect/internal/color"
	"github.com/maax3v3/pixrect/internal/export"
	"github.com/maax3v3/pixrect/internal/pipeline"
	"github.com/maax3v3/pixrect/internal/server"
)

// capture replaces the command runners for the duration of the test.
func capture(t *testing.T) (*pipeline.Config, *server.Config) {
	t.Helper()
	var pcfg pipeline.Config
	var scfg server.Config
	oldPipeline, oldServer := runPipeline, runServer
	runPipeline = func(_ context.Context, cfg pipeline.Config) error {
		pcfg = cfg
		return nil
	}
	runServer = func(_ context.Context, cfg server.Config) error {
		scfg = cfg
		return nil
	}
	t.Cleanup(func() {
		runPipeline, runServer = oldPipeline, oldServer
	})
	return &pcfg, &scfg
}

func execute(args ...string) error {
	cmd := NewRootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	return cmd.ExecuteContext(context.Background())
}

func TestDecompose_Validation(t *testing.T) {
	capture(t)
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"missing in", []string{"decompose"}, "--in is required"},
		{"bad out extension", []string{"decompose", "--in=a.png", "--out=a.txt"}, "--out must be"},
		{"format mismatch", []string{"decompose", "--in=a.png", "--out=a.json", "--format=svg"}, "does not match"},
		{"unknown format", []string{"decompose", "--in=a.png", "--format=pdf"}, "unknown output format"},
		{"negative max colors", []string{"decompose", "--in=a.png", "--max-colors=-1"}, "--max-colors must be >= 0"},
		{"bad background", []string{"decompose", "--in=a.png", "--background=nope"}, "--background"},
		{"bad preview", []string{"decompose", "--in=a.png", "--preview=p.jpg"}, "--preview must be a .png"},
		{"positional args", []string{"decompose", "extra"}, "unknown command"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := execute(tt.args...)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("got %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestDecompose_Flags(t *testing.T) {
	pcfg, _ := capture(t)

	err := execute("decompose", "--in=a.png", "--out=layout.yml", "--max-colors=4",
		"--background=#000", "--verify", "--stats", "--preview=p.png")
	if err != nil {
		t.Fatal(err)
	}
	if pcfg.InPath != "a.png" || pcfg.OutPath != "layout.yml" || pcfg.PreviewPath != "p.png" {
		t.Errorf("paths: %+v", pcfg)
	}
	if pcfg.Format != export.FormatYAML {
		t.Errorf("format: got %q, want yaml", pcfg.Format)
	}
	want := pipeline.Options{Background: pcol.RGB{}, MaxColors: 4, Verify: true}
	if pcfg.Options != want {
		t.Errorf("options: got %+v, want %+v", pcfg.Options, want)
	}
	if !pcfg.Stats || pcfg.Stdout == nil {
		t.Errorf("stats/stdout not set: %+v", pcfg)
	}
}

func TestDecompose_Defaults(t *testing.T) {
	pcfg, _ := capture(t)

	if err := execute("decompose", "--in=a.png"); err != nil {
		t.Fatal(err)
	}
	if pcfg.Format != export.FormatJSON || pcfg.OutPath != "" {
		t.Errorf("got %+v", pcfg)
	}
	if pcfg.Options != pipeline.DefaultOptions() {
		t.Errorf("options: got %+v", pcfg.Options)
	}
}

func TestDecompose_ConfigFile(t *testing.T) {
	pcfg, _ := capture(t)

	path := filepath.Join(t.TempDir(), "pixrect.yaml")
	data := "in: from-file.png\nout: layout.svg\nmax-colors: 3\nbackground: \"#00ff00\"\nverify: true\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	if err := execute("decompose", "--config", path, "--max-colors=7"); err != nil {
		t.Fatal(err)
	}
	if pcfg.InPath != "from-file.png" || pcfg.Format != export.FormatSVG {
		t.Errorf("file values not applied: %+v", pcfg)
	}
	if pcfg.Options.MaxColors != 7 {
		t.Errorf("flag should override file: got %d", pcfg.Options.MaxColors)
	}
	if pcfg.Options.Background != (pcol.RGB{G: 255}) || !pcfg.Options.Verify {
		t.Errorf("options: %+v", pcfg.Options)
	}
}

func TestLoadFile_Errors(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("max-colors: [1, 2\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestServe_Flags(t *testing.T) {
	_, scfg := capture(t)

	if err := execute("serve", "--addr=127.0.0.1:9090", "--max-colors=2"); err != nil {
		t.Fatal(err)
	}
	if scfg.Addr != "127.0.0.1:9090" || scfg.MaxBodyBytes != server.DefaultMaxBodyBytes {
		t.Errorf("got %+v", scfg)
	}
	if scfg.Options.MaxColors != 2 || scfg.Options.Background != pcol.White {
		t.Errorf("options: %+v", scfg.Options)
	}

	if err := execute("serve", "--max-body-bytes=0"); err == nil {
		t.Error("expected error for zero body limit")
	}
}

func TestDecompose_EndToEnd(t *testing.T) {
	dir := t.TempDir()
	inPath := filepath.Join(dir, "in.png")

	img := image.NewRGBA(image.Rect(0, 0, 3, 3))
	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			img.Set(x, y, color.White)
		}
	}
	img.Set(1, 1, color.Black)
	f, err := os.Create(inPath)
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	f.Close()

	var out bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetArgs([]string{"decompose", "--in", inPath, "--log-file", filepath.Join(dir, "pixrect.log")})
	cmd.SetOut(&out)
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		t.Fatal(err)
	}

	var doc export.Document
	if err := json.Unmarshal(out.Bytes(), &doc); err != nil {
		t.Fatalf("stdout is not JSON: %v\n%s", err, out.String())
	}
	if len(doc.Colors) != 1 || doc.Colors[0].Shapes[0].Kind != "pixel" {
		t.Errorf("unexpected document: %+v", doc)
	}
}
