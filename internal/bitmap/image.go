package bitmap

import (
	"image"

	"golang.org/x/image/draw"
)

// FromImage shrinks i to at most maxWidth pixels wide, keeping its aspect
// ratio, and thresholds it into a monochrome bitmap. Transparent areas are
// treated as white paper. Images are never scaled up.
func FromImage(i image.Image, maxWidth int, threshold uint8) *PixelBitmap {
	bounds := i.Bounds()
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 || maxWidth <= 0 {
		return Empty()
	}

	width := min(bounds.Dx(), maxWidth)
	height := max(1, bounds.Dy()*width/bounds.Dx())
	scaledBounds := image.Rect(0, 0, width, height)

	gray := image.NewGray(scaledBounds)
	draw.Draw(gray, scaledBounds, image.White, image.Point{}, draw.Src)
	if width == bounds.Dx() {
		draw.Draw(gray, scaledBounds, i, bounds.Min, draw.Over)
	} else {
		// resize image using Catmull Rom scaling
		draw.CatmullRom.Scale(gray, scaledBounds, i, bounds, draw.Over, nil)
	}

	return FromGray(gray, threshold)
}
