package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCacheDir(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", xdg)

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	if want := filepath.Join(xdg, appName); dir != want {
		t.Errorf("cacheDir() = %q, want %q", dir, want)
	}
}

func TestCachePathAndClear(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	dir := t.TempDir()
	in := writeFile(t, dir, "g.json", testGraph)

	out, err := execute(t, "cache", "path")
	if err != nil {
		t.Fatal(err)
	}
	cacheRoot := strings.TrimSpace(out)
	if filepath.Base(cacheRoot) != appName {
		t.Fatalf("cache path = %q", cacheRoot)
	}

	if _, err := execute(t, "render", in, "-f", "json", "--static"); err != nil {
		t.Fatal(err)
	}
	if entries, _ := os.ReadDir(cacheRoot); len(entries) == 0 {
		t.Fatal("render should populate the cache")
	}

	if _, err := execute(t, "cache", "clear"); err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	if entries, _ := os.ReadDir(cacheRoot); len(entries) != 0 {
		t.Errorf("cache clear left %d entries", len(entries))
	}
}
