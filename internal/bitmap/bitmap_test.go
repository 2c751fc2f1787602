package bitmap

import (
	"errors"
	"image"
	"image/color"
	"math"
	"testing"
)

func TestFromPixelsRejectsInconsistentData(t *testing.T) {
	cases := []struct {
		pixels        int
		width, height int
	}{
		{pixels: 5, width: 2, height: 2},
		{pixels: 0, width: -1, height: 0},
		{pixels: 4, width: 4, height: 0},
	}
	for _, c := range cases {
		_, err := FromPixels(make([]bool, c.pixels), c.width, c.height)
		if !errors.Is(err, ErrInvalidDimensions) {
			t.Errorf("%v pixels as %dx%d: expected ErrInvalidDimensions, got %v", c.pixels, c.width, c.height, err)
		}
	}
}

func TestNewRejectsOversizedBitmaps(t *testing.T) {
	cases := []struct{ width, height int }{
		{1 << 32, 1 << 32},
		{math.MaxInt, 2},
		{384, MaxPixels/384 + 1},
	}
	for _, c := range cases {
		if _, err := New(c.width, c.height); !errors.Is(err, ErrInvalidDimensions) {
			t.Errorf("%dx%d: expected ErrInvalidDimensions, got %v", c.width, c.height, err)
		}
		if _, err := FromPixels(nil, c.width, c.height); !errors.Is(err, ErrInvalidDimensions) {
			t.Errorf("%dx%d: expected ErrInvalidDimensions from FromPixels, got %v", c.width, c.height, err)
		}
	}
}

func TestFromPixelsCopiesInput(t *testing.T) {
	pixels := []bool{true, false}
	b, err := FromPixels(pixels, 2, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	pixels[1] = true
	if b.At(1, 0) {
		t.Errorf("Bitmap aliases the caller's buffer")
	}
}

func TestDrawClipsAndOrs(t *testing.T) {
	dst, _ := New(4, 3)
	dst.Set(0, 0, true)
	src, _ := New(3, 2)
	src.FillRect(0, 0, 3, 2)

	dst.Draw(src, 2, 2)

	expected := []bool{
		true, false, false, false,
		false, false, false, false,
		false, false, true, true,
	}
	for i, ink := range dst.Pixels() {
		if ink != expected[i] {
			t.Errorf("Pixel %v: expected %v, got %v", i, expected[i], ink)
		}
	}
}

func TestFillRectClipped(t *testing.T) {
	b, _ := New(3, 3)
	b.FillRect(-5, 1, 10, 2)
	for y := range 3 {
		for x := range 3 {
			if b.At(x, y) != (y == 1) {
				t.Errorf("Unexpected pixel (%v, %v) = %v", x, y, b.At(x, y))
			}
		}
	}
}

func TestFromGrayThreshold(t *testing.T) {
	g := image.NewGray(image.Rect(0, 0, 3, 1))
	g.SetGray(0, 0, color.Gray{Y: 0})
	g.SetGray(1, 0, color.Gray{Y: 127})
	g.SetGray(2, 0, color.Gray{Y: 128})

	b := FromGray(g, DefaultThreshold)
	if !b.At(0, 0) || !b.At(1, 0) || b.At(2, 0) {
		t.Errorf("Unexpected threshold result %v", b.Pixels())
	}
}

func TestToImage(t *testing.T) {
	b, _ := New(2, 1)
	b.Set(1, 0, true)

	i := ToImage(PackBitmap(b))
	if i.ColorIndexAt(0, 0) != 0 || i.ColorIndexAt(1, 0) != 1 {
		t.Errorf("Unexpected palette indices %v", i.Pix)
	}
}
