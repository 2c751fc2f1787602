package document

import (
	"image"

	"tomgalvin.uk/receiptprint/internal/bitmap"
)

// Height in pixels of one fed line in a preview, roughly the default line
// spacing of a 203dpi head.
const FeedLineHeight = 30

type previewPart struct {
	b   bitmap.Bitmap
	gap int
}

// Preview is a Sink that stacks everything it receives into one tall
// bitmap, as the paper would come out of the printer.
type Preview struct {
	width  int
	height int
	parts  []previewPart
}

func NewPreview(paperWidth int) *Preview {
	return &Preview{width: paperWidth}
}

func (p *Preview) Bitmap(b *bitmap.PackedBitmap) error {
	p.parts = append(p.parts, previewPart{b: b})
	p.height += b.Height()
	return nil
}

func (p *Preview) Feed(lines int) error {
	p.parts = append(p.parts, previewPart{gap: lines * FeedLineHeight})
	p.height += lines * FeedLineHeight
	return nil
}

// Reset has no visible effect on paper.
func (p *Preview) Reset() error {
	return nil
}

func (p *Preview) Height() int {
	return p.height
}

// Render draws the collected parts top to bottom, left aligned and clipped
// to the paper width.
func (p *Preview) Render() *bitmap.PixelBitmap {
	out, err := bitmap.New(max(p.width, 0), p.height)
	if err != nil {
		return bitmap.Empty()
	}
	y := 0
	for _, part := range p.parts {
		if part.b == nil {
			y += part.gap
			continue
		}
		out.Draw(part.b, 0, y)
		y += part.b.Height()
	}
	return out
}

func (p *Preview) Image() *image.Paletted {
	return bitmap.ToImage(p.Render())
}
