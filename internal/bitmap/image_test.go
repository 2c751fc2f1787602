package bitmap

import (
	"image"
	"image/color"
	"testing"
)

func aFilledImage(width, height int, c color.Color) *image.RGBA {
	i := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := range height {
		for x := range width {
			i.Set(x, y, c)
		}
	}
	return i
}

func countInk(b *PixelBitmap) int {
	n := 0
	for _, ink := range b.Pixels() {
		if ink {
			n++
		}
	}
	return n
}

func TestFromImageScalesDown(t *testing.T) {
	b := FromImage(aFilledImage(20, 10, color.Black), 10, DefaultThreshold)
	if b.Width() != 10 || b.Height() != 5 {
		t.Fatalf("expected 10x5, got %s", b)
	}
	if countInk(b) != 50 {
		t.Errorf("expected every pixel to be ink, got %v", countInk(b))
	}
}

func TestFromImageKeepsSmallImages(t *testing.T) {
	i := aFilledImage(6, 3, color.White)
	i.Set(2, 1, color.Black)
	b := FromImage(i, 384, DefaultThreshold)
	if b.Width() != 6 || b.Height() != 3 {
		t.Fatalf("expected 6x3, got %s", b)
	}
	if countInk(b) != 1 || !b.At(2, 1) {
		t.Errorf("expected a single ink pixel at (2,1)")
	}
}

func TestFromImageTransparentIsPaper(t *testing.T) {
	b := FromImage(aFilledImage(4, 4, color.Transparent), 384, DefaultThreshold)
	if countInk(b) != 0 {
		t.Errorf("expected no ink, got %v", countInk(b))
	}
}

func TestFromImageOffsetBounds(t *testing.T) {
	i := image.NewGray(image.Rect(5, 5, 9, 7))
	b := FromImage(i, 384, DefaultThreshold)
	if b.Width() != 4 || b.Height() != 2 || countInk(b) != 8 {
		t.Errorf("expected a 4x2 all-ink bitmap, got %s with %v ink", b, countInk(b))
	}
}

func TestFromImageEmpty(t *testing.T) {
	b := FromImage(image.NewGray(image.Rect(0, 0, 0, 0)), 384, DefaultThreshold)
	if b.Width() != 0 || b.Height() != 0 {
		t.Errorf("expected an empty bitmap, got %s", b)
	}
}
