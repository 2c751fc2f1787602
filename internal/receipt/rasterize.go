package receipt

import (
	"fmt"
	"math"

	"tomgalvin.uk/receiptprint/internal/bitmap"
	"tomgalvin.uk/receiptprint/internal/font"
)

// RasterizeLine draws text without wrapping. Explicit newlines still start a
// new line; the bitmap is as wide as the widest line.
func RasterizeLine(m font.Metrics, text string, f font.Spec, align Alignment) (*bitmap.PixelBitmap, error) {
	ps := paragraphs(text)
	lines := make([]WrappedLine, len(ps))
	var width float64
	for i, p := range ps {
		w, err := m.Measure(p, f)
		if err != nil {
			return nil, measurementFailure(err, p)
		}
		lines[i] = WrappedLine{Text: p, Width: w}
		width = math.Max(width, w)
	}
	return paintLines(m, lines, f, align, int(math.Ceil(width)))
}

// RasterizeWrapped wraps text to maxWidth and draws it on a bitmap
// ceil(maxWidth) pixels wide.
func RasterizeWrapped(m font.Metrics, text string, f font.Spec, align Alignment, maxWidth float64) (*bitmap.PixelBitmap, error) {
	lines, err := Wrap(m, text, f, maxWidth)
	if err != nil {
		return nil, err
	}
	return paintLines(m, lines, f, align, int(math.Ceil(maxWidth)))
}

func paintLines(m font.Metrics, lines []WrappedLine, f font.Spec, align Alignment, width int) (*bitmap.PixelBitmap, error) {
	lineHeight, err := m.LineHeight(f)
	if err == nil && !(lineHeight >= 0 && !math.IsInf(lineHeight, 1)) {
		err = fmt.Errorf("unusable line height %v", lineHeight)
	}
	if err != nil {
		return nil, measureError(err, "line height")
	}

	height := int(math.Ceil(float64(len(lines)) * lineHeight))
	b, err := bitmap.New(width, height)
	if err != nil {
		return nil, invalidArgument("%v", err)
	}

	for i, line := range lines {
		if line.Text == "" {
			continue
		}
		glyphs, err := m.Render(line.Text, f)
		if err != nil {
			return nil, measurementFailure(err, line.Text)
		}
		x := align.offset(width, glyphs.Width())
		y := int(math.Floor(float64(i) * lineHeight))
		b.Draw(glyphs, x, y)
	}
	return b, nil
}
