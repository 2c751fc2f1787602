// Package font measures and draws text for the receipt renderer. Metrics is
// the narrow capability the layout code depends on; Provider implements it
// with OpenType faces and fonttest.Fixed implements it with synthetic glyphs.
package font

import (
	"errors"

	"tomgalvin.uk/receiptprint/internal/bitmap"
)

// ErrMeasurementFailure is returned when a font can't be sized or drawn at
// the requested Spec.
var ErrMeasurementFailure = errors.New("font measurement failed")

// Spec describes the face to use. Size is in points at 72 DPI, so one point
// is one printer dot.
type Spec struct {
	Size float64
	Bold bool
}

// Metrics must be deterministic for a given (text, Spec) and safe for
// concurrent use.
type Metrics interface {
	// Measure returns the advance width of text in pixels.
	Measure(text string, s Spec) (float64, error)
	// LineHeight returns the natural distance between baselines in pixels.
	LineHeight(s Spec) (float64, error)
	// Render draws text on a bitmap ceil(Measure) wide and ceil(LineHeight) tall.
	Render(text string, s Spec) (*bitmap.PixelBitmap, error)
}
