package tensor

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestMaskTo2D(t *testing.T) {
	tests := []struct {
		name      string
		in        Tensor
		wantShape []int
		wantData  []float32
	}{
		{
			name:      "already 2d",
			in:        Tensor{Shape: []int{2, 2}, Data: []float32{1, 2, 3, 4}},
			wantShape: []int{2, 2},
			wantData:  []float32{1, 2, 3, 4},
		},
		{
			name:      "trailing singleton",
			in:        Tensor{Shape: []int{2, 3, 1}, Data: []float32{1, 2, 3, 4, 5, 6}},
			wantShape: []int{2, 3},
			wantData:  []float32{1, 2, 3, 4, 5, 6},
		},
		{
			name:      "leading singleton",
			in:        Tensor{Shape: []int{1, 2, 3}, Data: []float32{1, 2, 3, 4, 5, 6}},
			wantShape: []int{2, 3},
			wantData:  []float32{1, 2, 3, 4, 5, 6},
		},
		{
			name:      "both singletons prefer trailing",
			in:        Tensor{Shape: []int{1, 2, 1}, Data: []float32{7, 8}},
			wantShape: []int{1, 2},
			wantData:  []float32{7, 8},
		},
		{
			name:      "multi channel takes first",
			in:        Tensor{Shape: []int{2, 1, 2}, Data: []float32{1, 9, 2, 9}},
			wantShape: []int{2, 1},
			wantData:  []float32{1, 2},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MaskTo2D(tt.in)
			if err != nil {
				t.Fatalf("MaskTo2D() error: %v", err)
			}
			if diff := cmp.Diff(tt.wantShape, got.Shape); diff != "" {
				t.Errorf("shape (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.wantData, got.Data); diff != "" {
				t.Errorf("data (-want +got):\n%s", diff)
			}
		})
	}

	if _, err := MaskTo2D(New(1, 1, 1, 1)); err == nil {
		t.Error("MaskTo2D(rank 4) should fail")
	}
}

func TestSqueezeUnsqueeze(t *testing.T) {
	x := New(3, 4)
	y := x.Unsqueeze(0)
	if diff := cmp.Diff([]int{1, 3, 4}, y.Shape); diff != "" {
		t.Errorf("Unsqueeze shape (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{3, 4}, x.Shape); diff != "" {
		t.Errorf("Unsqueeze modified the source shape:\n%s", diff)
	}
	if _, err := y.Squeeze(1); err == nil {
		t.Error("Squeeze of a non-singleton axis should fail")
	}
	if _, err := y.Squeeze(5); err == nil {
		t.Error("Squeeze of an out-of-range axis should fail")
	}
}

func checkerImage(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: 255, A: uint8(x * 10)})
		}
	}
	return img
}

func TestPackageImage(t *testing.T) {
	out, err := PackageImage(checkerImage(20, 10))
	if err != nil {
		t.Fatalf("PackageImage() error: %v", err)
	}
	if diff := cmp.Diff([]int{1, 10, 20, 3}, out.Image.Shape); diff != "" {
		t.Errorf("image shape (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{1, 10, 20}, out.Mask.Shape); diff != "" {
		t.Errorf("mask shape (-want +got):\n%s", diff)
	}
	if out.Width != 20 || out.Height != 10 {
		t.Errorf("size = %dx%d, want 20x10", out.Width, out.Height)
	}

	// Pixel (x=5, y=3): R=5, G=3, B=255, A=50.
	if got := out.Image.At(0, 3, 5, 0); got != 5.0/255 {
		t.Errorf("R = %v, want %v", got, 5.0/255)
	}
	if got := out.Image.At(0, 3, 5, 1); got != 3.0/255 {
		t.Errorf("G = %v, want %v", got, 3.0/255)
	}
	if got := out.Image.At(0, 3, 5, 2); got != 1 {
		t.Errorf("B = %v, want 1", got)
	}
	if got := out.Mask.At(0, 3, 5); got != 50.0/255 {
		t.Errorf("alpha = %v, want %v", got, 50.0/255)
	}
}

func TestPackageImageOpaqueSource(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 4, 4))
	out, err := PackageImage(img)
	if err != nil {
		t.Fatalf("PackageImage() error: %v", err)
	}
	for i, v := range out.Mask.Data {
		if v != 1 {
			t.Fatalf("mask[%d] = %v, want 1 for an opaque source", i, v)
		}
	}
}

func TestPackageFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "img.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, checkerImage(8, 6)); err != nil {
		t.Fatal(err)
	}
	f.Close()

	out, err := Package(path)
	if err != nil {
		t.Fatalf("Package() error: %v", err)
	}
	if out.Width != 8 || out.Height != 6 {
		t.Errorf("size = %dx%d, want 8x6", out.Width, out.Height)
	}
	if _, err := Package(filepath.Join(t.TempDir(), "missing.png")); err == nil {
		t.Error("Package() of a missing file should fail")
	}
}

func TestJSON(t *testing.T) {
	in := Tensor{Shape: []int{1, 2}, Data: []float32{0.25, 1}}
	b, err := json.Marshal(in)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(b), `"dtype":"float32"`) || !strings.Contains(string(b), `"shape":[1,2]`) {
		t.Errorf("MarshalJSON() = %s", b)
	}

	var out Tensor
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("UnmarshalJSON() error: %v", err)
	}
	if diff := cmp.Diff(in, out); diff != "" {
		t.Errorf("decoded tensor (-want +got):\n%s", diff)
	}

	bad := `{"shape":[3],"dtype":"float32","data":"AAAAAA=="}`
	if err := json.Unmarshal([]byte(bad), &out); err == nil {
		t.Error("UnmarshalJSON() should reject a short data payload")
	}
}

func TestWriteNPY(t *testing.T) {
	var buf bytes.Buffer
	if err := (Tensor{Shape: []int{1, 2, 3}, Data: make([]float32, 6)}).WriteNPY(&buf); err != nil {
		t.Fatalf("WriteNPY() error: %v", err)
	}
	b := buf.Bytes()
	if !bytes.HasPrefix(b, []byte("\x93NUMPY\x01\x00")) {
		t.Fatalf("bad magic %q", b[:8])
	}
	hlen := int(binary.LittleEndian.Uint16(b[8:10]))
	if (10+hlen)%64 != 0 {
		t.Errorf("header end %d not 64-byte aligned", 10+hlen)
	}
	header := string(b[10 : 10+hlen])
	if !strings.Contains(header, "'shape': (1, 2, 3)") || !strings.HasSuffix(header, "\n") {
		t.Errorf("header = %q", header)
	}
	if got := len(b) - 10 - hlen; got != 6*4 {
		t.Errorf("data length = %d, want 24", got)
	}
}

func TestMaskImage(t *testing.T) {
	mask := Tensor{Shape: []int{1, 1, 3}, Data: []float32{0, 0.5, 1}}
	img, err := MaskImage(mask)
	if err != nil {
		t.Fatalf("MaskImage() error: %v", err)
	}
	if diff := cmp.Diff([]uint8{0, 128, 255}, img.Pix); diff != "" {
		t.Errorf("pixels (-want +got):\n%s", diff)
	}

	var buf bytes.Buffer
	if err := WriteMaskPNG(&buf, mask); err != nil {
		t.Fatalf("WriteMaskPNG() error: %v", err)
	}
	if _, err := png.Decode(&buf); err != nil {
		t.Errorf("WriteMaskPNG() produced invalid PNG: %v", err)
	}
}

func TestThumbnail(t *testing.T) {
	tests := []struct {
		w, h, max    int
		wantW, wantH int
	}{
		{400, 100, 200, 200, 50},
		{100, 400, 200, 50, 200},
		{50, 20, 200, 50, 20},
	}
	for _, tt := range tests {
		b := Thumbnail(checkerImage(tt.w, tt.h), tt.max).Bounds()
		if b.Dx() != tt.wantW || b.Dy() != tt.wantH {
			t.Errorf("Thumbnail(%dx%d, %d) = %dx%d, want %dx%d", tt.w, tt.h, tt.max, b.Dx(), b.Dy(), tt.wantW, tt.wantH)
		}
	}
}
