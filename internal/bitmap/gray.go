package bitmap

import (
	"image"
	"image/color"
)

// DefaultThreshold is the luminance below which a pixel is considered ink.
const DefaultThreshold = 128

// FromGray thresholds a grayscale image into a monochrome bitmap. Pixels
// darker than threshold become ink.
func FromGray(i *image.Gray, threshold uint8) *PixelBitmap {
	bounds := i.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	b := &PixelBitmap{
		pixels: make([]bool, width*height),
		width:  width,
		height: height,
	}
	for y := range height {
		for x := range width {
			if i.GrayAt(bounds.Min.X+x, bounds.Min.Y+y).Y < threshold {
				b.pixels[y*width+x] = true
			}
		}
	}
	return b
}

// ToImage expands any bitmap into a paletted image, ink black on white,
// for previews.
func ToImage(b Bitmap) *image.Paletted {
	palette := color.Palette{color.White, color.Black}
	i := image.NewPaletted(image.Rect(0, 0, b.Width(), b.Height()), palette)
	for y := range b.Height() {
		for x := range b.Width() {
			i.SetColorIndex(x, y, b.GetBit(x, y)&1)
		}
	}
	return i
}
