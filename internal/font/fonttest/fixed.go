// Package fonttest provides a deterministic font for layout tests.
package fonttest

import (
	"fmt"
	"math"

	"tomgalvin.uk/receiptprint/internal/bitmap"
	"tomgalvin.uk/receiptprint/internal/font"
)

// Fixed draws every glyph as a solid box of its advance width and the full
// line height, except spaces which are blank. Runes missing from Widths use
// Advance. Bold text adds BoldExtra pixels to every glyph.
type Fixed struct {
	Widths     map[rune]int
	Advance    int
	Height     float64
	BoldExtra  int
	FailAtSize float64
}

var _ font.Metrics = (*Fixed)(nil)

func (f *Fixed) check(s font.Spec) error {
	if s.Size <= 0 || (f.FailAtSize != 0 && s.Size == f.FailAtSize) {
		return fmt.Errorf("%w: size %v", font.ErrMeasurementFailure, s.Size)
	}
	return nil
}

func (f *Fixed) glyphWidth(r rune, s font.Spec) int {
	w, ok := f.Widths[r]
	if !ok {
		w = f.Advance
	}
	if s.Bold {
		w += f.BoldExtra
	}
	return w
}

func (f *Fixed) Measure(text string, s font.Spec) (float64, error) {
	if err := f.check(s); err != nil {
		return 0, err
	}
	width := 0
	for _, r := range text {
		width += f.glyphWidth(r, s)
	}
	return float64(width), nil
}

func (f *Fixed) LineHeight(s font.Spec) (float64, error) {
	if err := f.check(s); err != nil {
		return 0, err
	}
	return f.Height, nil
}

func (f *Fixed) Render(text string, s font.Spec) (*bitmap.PixelBitmap, error) {
	width, err := f.Measure(text, s)
	if err != nil {
		return nil, err
	}
	height := int(math.Ceil(f.Height))
	b, err := bitmap.New(int(width), height)
	if err != nil {
		return nil, err
	}
	x := 0
	for _, r := range text {
		w := f.glyphWidth(r, s)
		if r != ' ' {
			b.FillRect(x, 0, x+w, height)
		}
		x += w
	}
	return b, nil
}
