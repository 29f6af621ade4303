package cli

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/forcegraph/pkg/cache"
	"github.com/matzehuels/forcegraph/pkg/config"
	"github.com/matzehuels/forcegraph/pkg/errors"
	"github.com/matzehuels/forcegraph/pkg/graph"
	"github.com/matzehuels/forcegraph/pkg/render"
	"github.com/matzehuels/forcegraph/pkg/scene"
)

func TestRenderFormats(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "g.json", testGraph)

	tests := []struct {
		format   string
		contains string
	}{
		{"svg", "<svg"},
		{"json", `"elements"`},
		{"dot", "layout=neato"},
		{"ascii", "o"},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			out, err := execute(t, "render", in, "-f", tt.format, "--static", "--no-cache")
			if err != nil {
				t.Fatalf("render: %v", err)
			}
			if !strings.Contains(out, tt.contains) {
				t.Errorf("output does not contain %q:\n%s", tt.contains, out)
			}
		})
	}
}

func TestRenderJSONKeepsStaticPositions(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "g.json", testGraph)

	out, err := execute(t, "render", in, "-f", "json", "--static", "--no-cache")
	if err != nil {
		t.Fatal(err)
	}
	var f render.Frame
	if err := json.Unmarshal([]byte(out), &f); err != nil {
		t.Fatalf("decode: %v", err)
	}
	nodes := f.Nodes()
	if len(nodes) != 3 || len(f.Links()) != 2 {
		t.Fatalf("frame has %d nodes and %d links, want 3 and 2", len(nodes), len(f.Links()))
	}
	if nodes[0].ID != "a" || nodes[0].CX != 100 || nodes[0].CY != 100 {
		t.Errorf("first node = %s@(%v,%v), want a@(100,100)", nodes[0].ID, nodes[0].CX, nodes[0].CY)
	}
}

func TestRenderWritesFileAndCachesLayout(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	dir := t.TempDir()
	in := writeFile(t, dir, "g.yaml", "nodes:\n  - id: a\n  - id: b\nlinks:\n  - source: a\n    target: b\n")
	outPath := filepath.Join(dir, "g.svg")

	if _, err := execute(t, "render", in, "-o", outPath, "--ticks", "30"); err != nil {
		t.Fatalf("render: %v", err)
	}
	data, err := os.ReadFile(outPath)
	if err != nil || !strings.Contains(string(data), "<svg") {
		t.Fatalf("output file: %v %q", err, data)
	}

	cacheRoot, _ := cacheDir()
	entries, err := os.ReadDir(cacheRoot)
	if err != nil || len(entries) == 0 {
		t.Fatalf("layout cache is empty (%v)", err)
	}

	// The second run reads the cached layout and must produce the same picture.
	if _, err := execute(t, "render", in, "-o", outPath+".2.svg", "--ticks", "30"); err != nil {
		t.Fatalf("second render: %v", err)
	}
	again, _ := os.ReadFile(outPath + ".2.svg")
	if string(again) != string(data) {
		t.Error("render from cached layout differs from the original")
	}
}

func TestRenderErrors(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "g.json", testGraph)
	bad := writeFile(t, dir, "bad.json", `{"nodes": [{"id": ""}]}`)

	tests := []struct {
		name string
		args []string
		code errors.Code
	}{
		{"unknown format", []string{"render", in, "-f", "gif", "--no-cache"}, errors.ErrCodeInvalidFormat},
		{"control char output", []string{"render", in, "-o", "out\x01.svg", "--no-cache"}, errors.ErrCodeInvalidPath},
		{"missing file", []string{"render", filepath.Join(dir, "nope.json"), "--no-cache"}, errors.ErrCodeFileNotFound},
		{"invalid graph", []string{"render", bad, "--no-cache"}, errors.ErrCodeInvalidInput},
		{"unknown focus", []string{"render", in, "--static", "--no-cache", "--focus", "zz"}, errors.ErrCodeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			if !errors.Is(err, tt.code) {
				t.Errorf("err = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestSettleBatches(t *testing.T) {
	ctx := context.Background()
	g, err := graph.Unmarshal([]byte(testGraph), "json")
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name      string
		static    bool
		maxFrames int
		want      int
	}{
		{"limit inside a batch", false, 20, 20},
		{"limit across batches", false, 120, 120},
		{"static graph never runs", true, 120, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.StaticGraph = tt.static
			sc, err := scene.New(cfg, scene.WithLogger(log.New(io.Discard)))
			if err != nil {
				t.Fatal(err)
			}
			defer sc.Stop()
			if _, err := sc.Update(ctx, g); err != nil {
				t.Fatal(err)
			}

			spin := newSpinner("Settling layout...")
			spin.Start()
			n, err := settle(ctx, sc, tt.maxFrames, spin)
			spin.Stop()
			if err != nil {
				t.Fatal(err)
			}
			if n != tt.want {
				t.Errorf("settle ran %d frames, want %d", n, tt.want)
			}
		})
	}
}

func TestEncodeConversionFailureIsNotCached(t *testing.T) {
	t.Setenv("PATH", t.TempDir())
	ctx := context.Background()
	g, err := graph.Unmarshal([]byte(testGraph), "json")
	if err != nil {
		t.Fatal(err)
	}
	cfg := config.Default()
	cfg.StaticGraph = true
	sc, err := scene.New(cfg, scene.WithLogger(log.New(io.Discard)))
	if err != nil {
		t.Fatal(err)
	}
	defer sc.Stop()
	if _, err := sc.Update(ctx, g); err != nil {
		t.Fatal(err)
	}
	f, err := sc.Frame(ctx)
	if err != nil {
		t.Fatal(err)
	}

	store, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	c := New(io.Discard, log.ErrorLevel)
	for _, format := range []string{render.FormatPDF, render.FormatPNG} {
		opts := &renderOpts{format: format, zoom: 1, labels: true, scale: 2}
		data, err := c.encode(ctx, store, f, cfg, "layout", opts)
		if !errors.Is(err, errors.ErrCodeUnsupported) || data != nil {
			t.Errorf("%s: encode = %d bytes, %v; want no output and %s", format, len(data), err, errors.ErrCodeUnsupported)
		}
		keyOpts := cache.ArtifactOptsFromConfig(cfg, format)
		keyOpts.Zoom, keyOpts.Labels, keyOpts.Scale = opts.zoom, opts.labels, opts.scale
		if _, err := cache.LoadArtifact(ctx, store, cache.NewDefaultKeyer().ArtifactKey("layout", keyOpts)); err == nil {
			t.Errorf("%s: failed conversion was cached", format)
		}
	}
}
