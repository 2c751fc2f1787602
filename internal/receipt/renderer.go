// Package receipt lays out receipt content (wrapped text, column rows and
// rules) as monochrome bitmaps and packs them into printer raster rows.
//
// The package level functions are pure and work on PixelBitmaps. Renderer
// bundles them with a font and a paper width and returns packed bitmaps
// ready to be framed by the printer package.
package receipt

import (
	"image"

	"tomgalvin.uk/receiptprint/internal/bitmap"
	"tomgalvin.uk/receiptprint/internal/font"
)

const (
	// Printable width of a 58mm thermal head: 48 bytes of 8 dots.
	DefaultPaperWidth      = 48 * 8
	DefaultStrokeThickness = 2
	DefaultFontSize        = 24
)

type Config struct {
	PaperWidth      int
	StrokeThickness int
}

// Renderer holds no mutable state and may be shared between goroutines as
// long as its Metrics are.
type Renderer struct {
	metrics font.Metrics
	config  Config
}

func New(m font.Metrics, c Config) *Renderer {
	if c.PaperWidth <= 0 {
		c.PaperWidth = DefaultPaperWidth
	}
	if c.StrokeThickness <= 0 {
		c.StrokeThickness = DefaultStrokeThickness
	}
	return &Renderer{metrics: m, config: c}
}

func (r *Renderer) PaperWidth() int {
	return r.config.PaperWidth
}

func (r *Renderer) StrokeThickness() int {
	return r.config.StrokeThickness
}

// TextBitmap wraps text to the paper width and draws it with the given
// alignment and weight.
func (r *Renderer) TextBitmap(text string, align Alignment, bold bool, size float64) (*bitmap.PackedBitmap, error) {
	b, err := RasterizeWrapped(r.metrics, text, font.Spec{Size: size, Bold: bold}, align, float64(r.config.PaperWidth))
	if err != nil {
		return nil, err
	}
	return bitmap.PackBitmap(b), nil
}

// ColumnTextBitmap draws one row of columns. texts, widths and alignments
// are parallel slices and must have the same length.
func (r *Renderer) ColumnTextBitmap(texts []string, widths []int, alignments []Alignment, bold bool, size float64) (*bitmap.PackedBitmap, error) {
	if len(texts) != len(widths) || len(texts) != len(alignments) {
		return nil, invalidArgument("texts, widths and alignments must have the same length (got %d, %d, %d)",
			len(texts), len(widths), len(alignments))
	}

	columns := make([]Column, len(texts))
	for i := range texts {
		columns[i] = Column{Text: texts[i], Width: widths[i], Align: alignments[i]}
	}
	b, err := LayoutColumns(r.metrics, columns, bold, size)
	if err != nil {
		return nil, err
	}
	return bitmap.PackBitmap(b), nil
}

// TwoColumnBitmap draws a label on the left and a value flush right across
// the paper width.
func (r *Renderer) TwoColumnBitmap(left, right string, bold bool, size float64) (*bitmap.PackedBitmap, error) {
	b, err := TwoColumns(r.metrics, left, right, bold, size, r.config.PaperWidth)
	if err != nil {
		return nil, err
	}
	return bitmap.PackBitmap(b), nil
}

// StrokeBitmap draws a rule of the configured thickness.
func (r *Renderer) StrokeBitmap(height, width int, dash DashPattern) (*bitmap.PackedBitmap, error) {
	return r.StrokeBitmapWithThickness(height, width, r.config.StrokeThickness, dash)
}

func (r *Renderer) StrokeBitmapWithThickness(height, width, thickness int, dash DashPattern) (*bitmap.PackedBitmap, error) {
	b, err := RenderStroke(height, width, thickness, dash)
	if err != nil {
		return nil, err
	}
	return bitmap.PackBitmap(b), nil
}

// ImageBitmap fits an image to the paper width and places it with the given
// alignment.
func (r *Renderer) ImageBitmap(i image.Image, align Alignment) (*bitmap.PackedBitmap, error) {
	b := bitmap.FromImage(i, r.config.PaperWidth, bitmap.DefaultThreshold)
	if b.Width() == 0 {
		return nil, invalidArgument("image has no pixels")
	}
	out, err := bitmap.New(r.config.PaperWidth, b.Height())
	if err != nil {
		return nil, invalidArgument("%v", err)
	}
	out.Draw(b, align.offset(r.config.PaperWidth, b.Width()), 0)
	return bitmap.PackBitmap(out), nil
}

// WrapLines returns just the text of each wrapped line.
func (r *Renderer) WrapLines(text string, f font.Spec, maxWidth float64) ([]string, error) {
	lines, err := Wrap(r.metrics, text, f, maxWidth)
	if err != nil {
		return nil, err
	}
	texts := make([]string, len(lines))
	for i, l := range lines {
		texts[i] = l.Text
	}
	return texts, nil
}

// ConvertBitmap packs a caller supplied row-major pixel buffer.
func ConvertBitmap(pixels []bool, width, height int) (*bitmap.PackedBitmap, error) {
	b, err := bitmap.FromPixels(pixels, width, height)
	if err != nil {
		return nil, invalidArgument("%v", err)
	}
	return bitmap.PackBitmap(b), nil
}
