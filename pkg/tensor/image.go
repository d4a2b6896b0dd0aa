package tensor

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"io"

	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"
)

// Output is a packaged capture.
type Output struct {
	Image  Tensor // [1, H, W, 3]
	Mask   Tensor // [1, H, W]
	Width  int
	Height int
}

// Package decodes the image file at path and packages it.
func Package(path string) (*Output, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, err
	}
	return PackageImage(img)
}

// Decode reads an encoded image from r, applying EXIF orientation.
func Decode(r io.Reader) (image.Image, error) {
	return imaging.Decode(r, imaging.AutoOrientation(true))
}

// PackageBytes decodes an encoded image and packages it.
func PackageBytes(data []byte) (*Output, error) {
	img, err := Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return PackageImage(img)
}

// PackageImage splits img into an RGB image tensor and an alpha mask, both
// scaled to 0..1 and carrying a leading batch dimension.
func PackageImage(img image.Image) (*Output, error) {
	nrgba := imaging.Clone(img)
	b := nrgba.Bounds()
	h, w := b.Dy(), b.Dx()

	rgb := New(h, w, 3)
	alpha := New(h, w, 1)
	for y := range h {
		row := nrgba.Pix[y*nrgba.Stride:]
		for x := range w {
			px := row[4*x : 4*x+4]
			i := y*w + x
			rgb.Data[3*i] = float32(px[0]) / 255
			rgb.Data[3*i+1] = float32(px[1]) / 255
			rgb.Data[3*i+2] = float32(px[2]) / 255
			alpha.Data[i] = float32(px[3]) / 255
		}
	}

	mask, err := MaskTo2D(alpha)
	if err != nil {
		return nil, err
	}
	return &Output{
		Image:  rgb.Unsqueeze(0),
		Mask:   mask.Unsqueeze(0),
		Width:  w,
		Height: h,
	}, nil
}

// MaskImage renders a [H, W] or [1, H, W] mask as a grayscale image.
func MaskImage(mask Tensor) (*image.Gray, error) {
	if mask.Rank() == 3 && mask.Shape[0] == 1 {
		var err error
		if mask, err = mask.Squeeze(0); err != nil {
			return nil, err
		}
	}
	m, err := MaskTo2D(mask)
	if err != nil {
		return nil, err
	}
	h, w := m.Shape[0], m.Shape[1]
	img := image.NewGray(image.Rect(0, 0, w, h))
	for i, v := range m.Data {
		img.Pix[i] = uint8(min(max(v, 0), 1)*255 + 0.5)
	}
	return img, nil
}

// WriteMaskPNG encodes the mask as a grayscale PNG.
func WriteMaskPNG(w io.Writer, mask Tensor) error {
	img, err := MaskImage(mask)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}

// Thumbnail scales img so that its longer side is at most maxSide,
// compositing it over a checkerboard so transparency stays visible.
func Thumbnail(img image.Image, maxSide int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if maxSide > 0 && (w > maxSide || h > maxSide) {
		if w >= h {
			h = max(h*maxSide/w, 1)
			w = maxSide
		} else {
			w = max(w*maxSide/h, 1)
			h = maxSide
		}
	}

	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	light := color.NRGBA{R: 0xee, G: 0xee, B: 0xee, A: 0xff}
	dark := color.NRGBA{R: 0xcc, G: 0xcc, B: 0xcc, A: 0xff}
	for y := range h {
		for x := range w {
			if (x/8+y/8)%2 == 0 {
				dst.SetNRGBA(x, y, light)
			} else {
				dst.SetNRGBA(x, y, dark)
			}
		}
	}
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}
