package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/go-cmp/cmp"

	"github.com/ru4ls/ComfyUI-Google-Fonts/pkg/cache"
	"github.com/ru4ls/ComfyUI-Google-Fonts/pkg/observability"
)

// execute runs the root command with args and returns its stdout.
func execute(t *testing.T, c *CLI, args ...string) (string, error) {
	t.Helper()
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func newTestCLI(t *testing.T) *CLI {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	t.Cleanup(observability.Reset)
	c := New(io.Discard, log.InfoLevel)
	c.envDir = t.TempDir()
	return c
}

func TestRootCommandSubcommands(t *testing.T) {
	root := New(io.Discard, log.InfoLevel).RootCommand()

	var got []string
	for _, cmd := range root.Commands() {
		got = append(got, cmd.Name())
	}
	want := []string{"cache", "completion", "fonts", "nodes", "render", "serve"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("subcommands (-want +got):\n%s", diff)
	}
}

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")
	os.Unsetenv("XDG_CACHE_HOME")

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	home, _ := os.UserHomeDir()
	if want := filepath.Join(home, ".cache", appName); dir != want {
		t.Errorf("cacheDir() = %q, want %q", dir, want)
	}
}

func TestCacheDirXDG(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/custom-cache")

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	if want := filepath.Join("/tmp/custom-cache", appName); dir != want {
		t.Errorf("cacheDir() with XDG_CACHE_HOME = %q, want %q", dir, want)
	}
}

func TestCachePathCommand(t *testing.T) {
	c := newTestCLI(t)
	custom := filepath.Join(t.TempDir(), "fontcache")
	t.Setenv("FONTNODE_CACHE_DIR", custom)

	out, err := execute(t, c, "cache", "path")
	if err != nil {
		t.Fatalf("cache path: %v", err)
	}
	if got := strings.TrimSpace(out); got != custom {
		t.Errorf("cache path = %q, want %q", got, custom)
	}
}

func TestCachePathRedis(t *testing.T) {
	c := newTestCLI(t)
	t.Setenv("FONTNODE_CACHE_BACKEND", "redis")
	t.Setenv("FONTNODE_REDIS_ADDR", "cache.internal:6379")

	out, err := execute(t, c, "cache", "path")
	if err != nil {
		t.Fatalf("cache path: %v", err)
	}
	if got := strings.TrimSpace(out); got != "redis://cache.internal:6379" {
		t.Errorf("cache path = %q", got)
	}
}

func TestClearDir(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.json", "sub/b.json", "sub/deeper/c.json"} {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("{}"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	count, err := clearDir(dir)
	if err != nil {
		t.Fatalf("clearDir() error: %v", err)
	}
	if count != 3 {
		t.Errorf("clearDir() = %d, want 3", count)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("directory not emptied: %d entries left", len(entries))
	}
	if _, err := os.Stat(dir); err != nil {
		t.Errorf("cache dir itself removed: %v", err)
	}
}

func TestPruneDir(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store, err := cache.NewFileCache(dir)
	if err != nil {
		t.Fatal(err)
	}
	_ = store.Set(ctx, "live", []byte("a"), time.Hour)
	_ = store.Set(ctx, "stale", []byte("b"), time.Millisecond)
	time.Sleep(5 * time.Millisecond)

	count, err := pruneDir(ctx, dir)
	if err != nil {
		t.Fatalf("pruneDir() error: %v", err)
	}
	if count != 1 {
		t.Errorf("pruneDir() = %d, want 1", count)
	}
	if _, hit, _ := store.Get(ctx, "live"); !hit {
		t.Error("live entry was pruned")
	}
}

func TestClearDirMissing(t *testing.T) {
	count, err := clearDir(filepath.Join(t.TempDir(), "nope"))
	if err != nil || count != 0 {
		t.Errorf("clearDir(missing) = %d, %v; want 0, nil", count, err)
	}
}

func TestCompletionCommand(t *testing.T) {
	c := newTestCLI(t)

	out, err := execute(t, c, "completion", "bash")
	if err != nil {
		t.Fatalf("completion bash: %v", err)
	}
	if !strings.Contains(out, appName) {
		t.Error("bash completion should mention the binary name")
	}

	if _, err := execute(t, c, "completion", "tcsh"); err == nil {
		t.Error("completion tcsh should fail")
	}
}

func TestSetupRejectsBadConfig(t *testing.T) {
	c := newTestCLI(t)
	cfg := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(cfg, []byte("[cache]\nbackend = \"floppy\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := execute(t, c, "--config", cfg, "cache", "path")
	if err == nil || !strings.Contains(err.Error(), "floppy") {
		t.Errorf("error = %v, want bad backend error", err)
	}
}
