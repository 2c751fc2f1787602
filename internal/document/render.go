package document

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"tomgalvin.uk/receiptprint/internal/bitmap"
	"tomgalvin.uk/receiptprint/internal/receipt"
)

// Sink receives the rendered output of a document in order.
type Sink interface {
	Bitmap(b *bitmap.PackedBitmap) error
	Feed(lines int) error
	Reset() error
}

// Render lays out every block with r and hands the results to sink. It
// stops at the first block that fails.
func Render(r *receipt.Renderer, d *Document, sink Sink) error {
	for i := range d.Blocks {
		b := &d.Blocks[i]
		if err := renderBlock(r, b, sink); err != nil {
			return fmt.Errorf("Couldn't render block %d (%s):\n%w", i, b.Kind, err)
		}
	}
	return nil
}

func renderBlock(r *receipt.Renderer, b *Block, sink Sink) error {
	if err := b.validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}

	var (
		p   *bitmap.PackedBitmap
		err error
	)
	switch b.Kind {
	case TextKind:
		p, err = r.TextBitmap(b.Text, b.Align, b.Bold, b.size())
	case ColumnsKind:
		p, err = renderColumns(r, b)
	case TwoColumnsKind:
		p, err = r.TwoColumnBitmap(b.Left, b.Right, b.Bold, b.size())
	case StrokeKind:
		p, err = renderStroke(r, b)
	case ImageKind:
		p, err = renderImage(r, b)
	case FeedKind:
		lines := b.Lines
		if lines == 0 {
			lines = DefaultFeedLines
		}
		return sink.Feed(lines)
	case ResetKind:
		return sink.Reset()
	}
	if err != nil {
		return err
	}
	return sink.Bitmap(p)
}

func renderColumns(r *receipt.Renderer, b *Block) (*bitmap.PackedBitmap, error) {
	widths, err := columnWidths(b.Columns, r.PaperWidth())
	if err != nil {
		return nil, err
	}
	texts := make([]string, len(b.Columns))
	aligns := make([]receipt.Alignment, len(b.Columns))
	for i, c := range b.Columns {
		texts[i] = c.Text
		aligns[i] = c.Align
	}
	return r.ColumnTextBitmap(texts, widths, aligns, b.Bold, b.size())
}

// columnWidths shares whatever the explicitly sized columns leave of the
// paper width between the columns with no width. The last of them takes the
// remainder of the division.
func columnWidths(columns []Column, paperWidth int) ([]int, error) {
	widths := make([]int, len(columns))
	used, unsized := 0, 0
	for i, c := range columns {
		if c.Width > paperWidth-used {
			return nil, fmt.Errorf("%w: columns are wider than the %d pixel paper", ErrInvalidDocument, paperWidth)
		}
		widths[i] = c.Width
		used += c.Width
		if c.Width == 0 {
			unsized++
		}
	}
	if unsized == 0 {
		return widths, nil
	}

	remaining := paperWidth - used
	if remaining < unsized {
		return nil, fmt.Errorf("%w: %d unsized columns do not fit in the %d pixels left of the paper",
			ErrInvalidDocument, unsized, remaining)
	}
	share, last := remaining/unsized, -1
	for i := range widths {
		if widths[i] == 0 {
			widths[i] = share
			last = i
		}
	}
	widths[last] += remaining - share*unsized
	return widths, nil
}

func renderStroke(r *receipt.Renderer, b *Block) (*bitmap.PackedBitmap, error) {
	height, width, thickness := b.Height, b.Width, b.Thickness
	if height == 0 {
		height = DefaultStrokeHeight
	}
	if width == 0 {
		width = r.PaperWidth()
	}
	if width > r.PaperWidth() {
		return nil, fmt.Errorf("%w: stroke width %d is wider than the %d pixel paper", ErrInvalidDocument, width, r.PaperWidth())
	}
	if thickness == 0 {
		thickness = r.StrokeThickness()
	}
	return r.StrokeBitmapWithThickness(height, width, thickness, receipt.NewDashPattern(b.Dash...))
}

func renderImage(r *receipt.Renderer, b *Block) (*bitmap.PackedBitmap, error) {
	c, _, err := image.DecodeConfig(bytes.NewReader(b.Image))
	if err != nil {
		return nil, fmt.Errorf("%w: Couldn't decode image: %w", ErrInvalidDocument, err)
	}
	if c.Width <= 0 || c.Height <= 0 || c.Height > MaxImagePixels/c.Width {
		return nil, fmt.Errorf("%w: image is %dx%d, at most %d pixels are allowed",
			ErrInvalidDocument, c.Width, c.Height, MaxImagePixels)
	}

	i, _, err := image.Decode(bytes.NewReader(b.Image))
	if err != nil {
		return nil, fmt.Errorf("%w: Couldn't decode image: %w", ErrInvalidDocument, err)
	}
	return r.ImageBitmap(i, b.Align)
}
