package receipt

import (
	"math"
	"strings"

	"tomgalvin.uk/receiptprint/internal/bitmap"
	"tomgalvin.uk/receiptprint/internal/font"
)

// Column is one independently wrapped region of a row. Width is in pixels;
// any gutter between columns has to be included in the widths.
type Column struct {
	Text  string
	Width int
	Align Alignment
}

// LayoutColumns draws each column wrapped to its own width and places them
// side by side, top aligned. The result is exactly as wide as the sum of the
// column widths and as tall as the tallest column.
func LayoutColumns(m font.Metrics, columns []Column, bold bool, size float64) (*bitmap.PixelBitmap, error) {
	if len(columns) == 0 {
		return bitmap.Empty(), nil
	}

	f := font.Spec{Size: size, Bold: bold}
	parts := make([]*bitmap.PixelBitmap, len(columns))
	var width, height int
	for i, c := range columns {
		if c.Width <= 0 {
			return nil, invalidArgument("column %d width must be positive, got %d", i, c.Width)
		}
		part, err := RasterizeWrapped(m, c.Text, f, c.Align, float64(c.Width))
		if err != nil {
			return nil, err
		}
		parts[i] = part
		width += c.Width
		height = max(height, part.Height())
	}

	b, err := bitmap.New(width, height)
	if err != nil {
		return nil, invalidArgument("%v", err)
	}
	x := 0
	for i, part := range parts {
		b.Draw(part, x, 0)
		x += columns[i].Width
	}
	return b, nil
}

// TwoColumns lays out a "label ... value" row lineWidth pixels wide. The
// value keeps its natural width and sits flush against the right margin; the
// label gets whatever is left and wraps into it rather than overlapping.
func TwoColumns(m font.Metrics, left, right string, bold bool, size float64, lineWidth int) (*bitmap.PixelBitmap, error) {
	if lineWidth <= 0 {
		return nil, invalidArgument("line width must be positive, got %d", lineWidth)
	}
	if strings.TrimSpace(right) == "" {
		return LayoutColumns(m, []Column{{Text: left, Width: lineWidth, Align: Left}}, bold, size)
	}

	f := font.Spec{Size: size, Bold: bold}
	rightNatural, err := m.Measure(right, f)
	if err != nil {
		return nil, measurementFailure(err, right)
	}
	rightWidth := int(math.Ceil(rightNatural))
	if rightWidth >= lineWidth {
		return nil, invalidArgument("right text %q (%dpx) leaves no room in a %dpx line", right, rightWidth, lineWidth)
	}

	return LayoutColumns(m, []Column{
		{Text: left, Width: lineWidth - rightWidth, Align: Left},
		{Text: right, Width: rightWidth, Align: Right},
	}, bold, size)
}
