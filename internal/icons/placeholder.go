package icons

import (
	"image"
	"image/color"

	"fredon/pkg/logging"
)

var (
	placeholderFill   = color.RGBA{R: 64, G: 64, B: 64, A: 200}
	placeholderBorder = color.RGBA{R: 128, G: 128, B: 128, A: 255}
)

// placeholder synthesizes the deterministic fallback image returned for
// icon references that cannot be resolved or decoded: a translucent gray
// field with a two-pixel border glyph, inset by two pixels. The same size
// always yields byte-identical PNG data, so broken references stay cheap
// once cached.
func placeholder(size int) Image {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			img.SetRGBA(x, y, placeholderFill)
		}
	}
	for i := 2; i < 4; i++ {
		for p := i; p < size-i; p++ {
			img.SetRGBA(p, i, placeholderBorder)
			img.SetRGBA(p, size-1-i, placeholderBorder)
			img.SetRGBA(i, p, placeholderBorder)
			img.SetRGBA(size-1-i, p, placeholderBorder)
		}
	}

	out, err := encodePNG(img)
	if err != nil {
		// png.Encode cannot fail for an in-memory RGBA, but keep Get total.
		logging.Error("IconCache", err, "Failed to encode placeholder")
		return Image{Width: size, Height: size}
	}
	return out
}
