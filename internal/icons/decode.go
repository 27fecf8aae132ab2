package icons

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/mat/besticon/v3/ico"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/draw"
)

// Image is a decoded, pre-scaled icon: PNG-encoded pixel data plus its
// dimensions. The PNG form is what both cache tiers store and what the UI
// toolkit consumes.
type Image struct {
	PNG    []byte
	Width  int
	Height int
}

// Bytes returns the resident size for cache accounting.
func (i Image) Bytes() int {
	return len(i.PNG)
}

// decodeFile loads the icon at path and scales it to fit within size×size,
// preserving aspect ratio. SVG sources are rasterized directly at the
// target size; raster sources are resampled with a Catmull-Rom filter.
func decodeFile(path string, size int) (Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Image{}, err
	}

	if strings.EqualFold(filepath.Ext(path), ".svg") {
		return rasterizeSVG(data, size)
	}

	var src image.Image
	if strings.EqualFold(filepath.Ext(path), ".ico") {
		src, err = ico.Decode(bytes.NewReader(data))
	} else {
		src, _, err = image.Decode(bytes.NewReader(data))
	}
	if err != nil {
		return Image{}, fmt.Errorf("decoding %s: %w", path, err)
	}

	return scaleToFit(src, size)
}

// rasterizeSVG renders vector data straight to the target size, avoiding a
// decode-then-scale quality loss.
func rasterizeSVG(data []byte, size int) (Image, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(data))
	if err != nil {
		return Image{}, fmt.Errorf("parsing svg: %w", err)
	}

	srcW, srcH := icon.ViewBox.W, icon.ViewBox.H
	if srcW <= 0 || srcH <= 0 {
		srcW, srcH = float64(size), float64(size)
	}
	w, h := fitDimensions(srcW, srcH, size)

	icon.SetTarget(0, 0, float64(w), float64(h))
	rgba := image.NewRGBA(image.Rect(0, 0, w, h))
	scanner := rasterx.NewScannerGV(w, h, rgba, rgba.Bounds())
	icon.Draw(rasterx.NewDasher(w, h, scanner), 1.0)

	return encodePNG(rgba)
}

// scaleToFit resamples src to fit within size×size with Catmull-Rom.
func scaleToFit(src image.Image, size int) (Image, error) {
	b := src.Bounds()
	w, h := fitDimensions(float64(b.Dx()), float64(b.Dy()), size)

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)

	return encodePNG(dst)
}

// fitDimensions computes the largest w×h at the source aspect ratio that
// fits within max×max. Never returns zero dimensions.
func fitDimensions(srcW, srcH float64, max int) (int, int) {
	if srcW <= 0 || srcH <= 0 {
		return max, max
	}
	scale := float64(max) / srcW
	if s := float64(max) / srcH; s < scale {
		scale = s
	}
	w := int(srcW * scale)
	h := int(srcH * scale)
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return w, h
}

func encodePNG(img image.Image) (Image, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return Image{}, fmt.Errorf("encoding png: %w", err)
	}
	b := img.Bounds()
	return Image{PNG: buf.Bytes(), Width: b.Dx(), Height: b.Dy()}, nil
}
