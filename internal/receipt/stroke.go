package receipt

import (
	"math"

	"tomgalvin.uk/receiptprint/internal/bitmap"
)

// DashSegment is one on/off step of a dash cycle, in pixels.
type DashSegment struct {
	On  float64 `json:"on"`
	Off float64 `json:"off"`
}

// DashPattern is cycled left to right across a stroke. An empty pattern is a
// solid line.
type DashPattern []DashSegment

// NewDashPattern builds a pattern from alternating on/off lengths. An odd
// number of lengths is repeated to make it even, so NewDashPattern(5) is
// five on, five off.
func NewDashPattern(lengths ...float64) DashPattern {
	if len(lengths)%2 == 1 {
		lengths = append(lengths[:len(lengths):len(lengths)], lengths...)
	}
	d := make(DashPattern, 0, len(lengths)/2)
	for i := 0; i+1 < len(lengths); i += 2 {
		d = append(d, DashSegment{On: lengths[i], Off: lengths[i+1]})
	}
	return d
}

func (d DashPattern) period() float64 {
	var total float64
	for _, s := range d {
		total += s.On + s.Off
	}
	return total
}

func (d DashPattern) validate() error {
	for i, s := range d {
		if !(s.On >= 0 && s.Off >= 0) || math.IsInf(s.On, 1) || math.IsInf(s.Off, 1) {
			return invalidArgument("dash segment %d has invalid lengths (%v, %v)", i, s.On, s.Off)
		}
	}
	return nil
}

// inked reports whether the pixel whose left edge is at x falls in an on-run.
func (d DashPattern) inked(x int, period float64) bool {
	t := math.Mod(float64(x), period)
	for _, s := range d {
		if t < s.On {
			return true
		}
		t -= s.On
		if t < s.Off {
			return false
		}
		t -= s.Off
	}
	return false
}

// Row returns the ink pattern of a single stroke row width pixels long.
func (d DashPattern) Row(width int) []bool {
	row := make([]bool, max(width, 0))
	period := d.period()
	for x := range row {
		row[x] = len(d) == 0 || period == 0 || d.inked(x, period)
	}
	return row
}

// RenderStroke draws a horizontal rule on a height x width bitmap. The rule
// is thickness rows thick, centred vertically, and follows the dash pattern
// along x with the last partial segment cut off at the edge.
func RenderStroke(height, width, thickness int, dash DashPattern) (*bitmap.PixelBitmap, error) {
	if height <= 0 || width <= 0 {
		return nil, invalidArgument("stroke bitmap must have positive dimensions, got %dx%d", width, height)
	}
	if thickness <= 0 {
		return nil, invalidArgument("stroke thickness must be positive, got %d", thickness)
	}
	if err := dash.validate(); err != nil {
		return nil, err
	}

	b, err := bitmap.New(width, height)
	if err != nil {
		return nil, invalidArgument("%v", err)
	}

	thickness = min(thickness, height)
	top := (height - thickness) / 2
	row := dash.Row(width)
	for y := top; y < top+thickness; y++ {
		for x, ink := range row {
			if ink {
				b.Set(x, y, true)
			}
		}
	}
	return b, nil
}
