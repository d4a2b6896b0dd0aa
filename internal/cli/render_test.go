package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/google/go-cmp/cmp"

	errs "github.com/ru4ls/ComfyUI-Google-Fonts/pkg/errors"
	"github.com/ru4ls/ComfyUI-Google-Fonts/pkg/fonts"
	"github.com/ru4ls/ComfyUI-Google-Fonts/pkg/markup"
	"github.com/ru4ls/ComfyUI-Google-Fonts/pkg/pipeline"
	"github.com/ru4ls/ComfyUI-Google-Fonts/pkg/raster"
	"github.com/ru4ls/ComfyUI-Google-Fonts/pkg/raster/rastertest"
)

type staticCatalog fonts.Catalog

func (c staticCatalog) Fetch(context.Context) fonts.Catalog { return fonts.Catalog(c) }

func TestRenderOptsDefaultsValidate(t *testing.T) {
	opts := newRenderOpts()
	opts.Text = "Hello"
	if err := opts.Options.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("default render flags do not validate: %v", err)
	}
}

func TestReadText(t *testing.T) {
	file := filepath.Join(t.TempDir(), "text.txt")
	if err := os.WriteFile(file, []byte("line one\nline two\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		args     []string
		textFile string
		stdin    string
		want     string
		wantErr  bool
	}{
		{name: "argument", args: []string{"Hello"}, want: "Hello"},
		{name: "nothing", want: ""},
		{name: "file keeps inner newlines", textFile: file, want: "line one\nline two"},
		{name: "stdin", textFile: "-", stdin: "piped\r\n", want: "piped"},
		{name: "both", args: []string{"Hello"}, textFile: file, wantErr: true},
		{name: "missing file", textFile: filepath.Join(t.TempDir(), "nope"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := readText(tt.args, tt.textFile, strings.NewReader(tt.stdin))
			if (err != nil) != tt.wantErr {
				t.Fatalf("readText() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("readText() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestReadTextBothIsInvalidInput(t *testing.T) {
	_, err := readText([]string{"a"}, "-", strings.NewReader(""))
	if !errs.Is(err, errs.ErrCodeInvalidInput) {
		t.Errorf("error code = %v, want %v", errs.GetCode(err), errs.ErrCodeInvalidInput)
	}
}

func TestResolvePadding(t *testing.T) {
	changed := func(names ...string) func(string) bool {
		return func(name string) bool {
			for _, n := range names {
				if n == name {
					return true
				}
			}
			return false
		}
	}

	tests := []struct {
		name    string
		uniform int
		sides   [4]int
		changed func(string) bool
		want    markup.Padding
	}{
		{"uniform only", 20, [4]int{}, changed(), markup.Uniform(20)},
		{"top and left override", 20, [4]int{5, 0, 0, 40}, changed("padding-top", "padding-left"),
			markup.Padding{Top: 5, Right: 20, Bottom: 20, Left: 40}},
		{"explicit zero side", 10, [4]int{}, changed("padding-bottom"),
			markup.Padding{Top: 10, Right: 10, Bottom: 0, Left: 10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := resolvePadding(tt.uniform, tt.sides, tt.changed)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("resolvePadding() (-want +got):\n%s", diff)
			}
		})
	}
}

func TestWriteOutputs(t *testing.T) {
	logger := log.New(io.Discard)
	rz := raster.New(&rastertest.Engine{}, logger)
	rz.SettleDelay = 0
	runner := pipeline.NewRunner(staticCatalog{{Name: "Lobster", Variants: []string{"regular"}}}, rz, nil, nil, logger)
	runner.TempDir = t.TempDir()

	opts := newRenderOpts()
	opts.FontFamily = "Lobster"
	opts.Text = "Hi"
	opts.Width, opts.Height = 128, 64
	opts.TransparentBackground = true
	opts.output = t.TempDir()
	opts.npy = true
	opts.mask = true

	result, err := runner.Execute(context.Background(), opts.Options)
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}

	files, err := writeOutputs(result, opts)
	if err != nil {
		t.Fatalf("writeOutputs() error: %v", err)
	}
	if len(files) != 4 {
		t.Fatalf("wrote %d files, want 4: %v", len(files), files)
	}

	base := strings.TrimSuffix(files[0], ".png")
	if !strings.HasPrefix(filepath.Base(base), raster.FilePrefix+"Lobster_") {
		t.Errorf("png name = %q, want %s prefix", filepath.Base(files[0]), raster.FilePrefix)
	}
	wantNames := []string{base + ".png", base + "_image.npy", base + "_mask.npy", base + "_mask.png"}
	if diff := cmp.Diff(wantNames, files); diff != "" {
		t.Errorf("files (-want +got):\n%s", diff)
	}

	npy, err := os.ReadFile(base + "_mask.npy")
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(npy, []byte("\x93NUMPY")) {
		t.Error("mask .npy missing magic header")
	}
	if !bytes.Contains(npy, []byte("(1, 64, 128)")) {
		t.Errorf("mask .npy header does not carry shape (1, 64, 128): %q", npy[:min(len(npy), 128)])
	}
}
