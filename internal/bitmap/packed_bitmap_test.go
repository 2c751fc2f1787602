package bitmap

import (
	"bytes"
	"fmt"
	"math/rand/v2"
	"testing"
)

func aRandomBitmap() *PixelBitmap {
	width, height := 1+rand.IntN(400), 1+rand.IntN(400)
	b, _ := New(width, height)
	for i := range b.pixels {
		b.pixels[i] = rand.IntN(2) == 1
	}
	return b
}

func assertBitmapsIdentical(t *testing.T, b1 Bitmap, b2 Bitmap) {
	t.Helper()
	if b1.Width() != b2.Width() {
		t.Fatalf("Bitmaps not of equal width: %s %s", b1, b2)
	}
	if b1.Height() != b2.Height() {
		t.Fatalf("Bitmaps not of equal height: %s %s", b1, b2)
	}
	width, height := b1.Width(), b1.Height()

	for y := range height {
		for x := range width {
			bit1, bit2 := b1.GetBit(x, y), b2.GetBit(x, y)
			if bit1 != bit2 {
				t.Errorf("Bit at (%v, %v) doesn't match: %v vs %v", x, y, bit1, bit2)
			}
		}
	}
}

func assertPaddingClear(t *testing.T, p *PackedBitmap) {
	t.Helper()
	pad := p.Stride()*bitsPerWord - p.Width()
	if pad == 0 {
		return
	}
	mask := byte(1<<pad) - 1
	for y := range p.Height() {
		last := p.Data()[y*p.Stride()+p.Stride()-1]
		if last&mask != 0 {
			t.Errorf("Padding bits set on row %v: %08b", y, last)
		}
	}
}

func TestPackBitmap(t *testing.T) {
	test, _ := FromPixels([]bool{
		true, false,
		false, true,
	}, 2, 2)

	copied := PackBitmap(test)
	assertBitmapsIdentical(t, test, copied)
	if !bytes.Equal(copied.Data(), []byte{0x80, 0x40}) {
		t.Errorf("Unexpected packed data: %x", copied.Data())
	}
}

func TestPackBitmapTenPixelRow(t *testing.T) {
	pixels := make([]bool, 10)
	for i := range pixels {
		pixels[i] = true
	}
	b, _ := FromPixels(pixels, 10, 1)

	p := PackBitmap(b)
	if p.Stride() != 2 {
		t.Errorf("Expected stride 2, got %v", p.Stride())
	}
	if !bytes.Equal(p.Data(), []byte{0xFF, 0xC0}) {
		t.Errorf("Expected ff c0, got %x", p.Data())
	}
}

func TestPackBitmapMsbFirst(t *testing.T) {
	pixels := []bool{false, false, false, false, false, false, false, true, true}
	b, _ := FromPixels(pixels, 9, 1)

	p := PackBitmap(b)
	if !bytes.Equal(p.Data(), []byte{0x01, 0x80}) {
		t.Errorf("Expected 01 80, got %x", p.Data())
	}
}

func TestPackBitmapLength(t *testing.T) {
	for width := 0; width <= 33; width++ {
		for height := 0; height <= 5; height++ {
			b, err := New(width, height)
			if err != nil {
				t.Fatalf("Couldn't create %dx%d bitmap: %v", width, height, err)
			}
			p := PackBitmap(b)
			expected := (width + 7) / 8 * height
			if len(p.Data()) != expected {
				t.Errorf("%dx%d: expected %v bytes, got %v", width, height, expected, len(p.Data()))
			}
			if p.Stride() != (width+7)/8 {
				t.Errorf("%dx%d: expected stride %v, got %v", width, height, (width+7)/8, p.Stride())
			}
		}
	}
}

func TestPackBitmapEmpty(t *testing.T) {
	for _, b := range []*PixelBitmap{Empty(), {width: 0, height: 7}, {width: 12, height: 0}} {
		if p := PackBitmap(b); len(p.Data()) != 0 {
			t.Errorf("%s: expected no data, got %x", b, p.Data())
		}
	}
}

func TestPackBitmapMany(t *testing.T) {
	const testCaseCount = 30

	for i := range testCaseCount {
		testBitmap := aRandomBitmap()
		t.Run(fmt.Sprintf("test %v: %s", i, testBitmap.String()), func(t *testing.T) {
			copiedBitmap := PackBitmap(testBitmap)
			assertBitmapsIdentical(t, testBitmap, copiedBitmap)
			assertPaddingClear(t, copiedBitmap)
			copiedAgainBitmap := PackBitmap(copiedBitmap)
			assertBitmapsIdentical(t, copiedBitmap, copiedAgainBitmap)
			if !bytes.Equal(copiedBitmap.Data(), copiedAgainBitmap.Data()) {
				t.Errorf("Repacking changed the data")
			}
		})
	}
}

func TestVerticalSlice(t *testing.T) {
	b := aRandomBitmap()
	p := PackBitmap(b)
	start := p.Height() / 3
	height := p.Height() - start

	slice := p.VerticalSlice(start, height)
	if slice.Height() != height || slice.Width() != p.Width() {
		t.Fatalf("Unexpected slice size %s", slice)
	}
	if len(slice.Data()) != height*p.Stride() {
		t.Fatalf("Expected %v bytes, got %v", height*p.Stride(), len(slice.Data()))
	}
	for y := range height {
		for x := range p.Width() {
			if slice.GetBit(x, y) != b.GetBit(x, y+start) {
				t.Fatalf("Bit at (%v, %v) doesn't match source row %v", x, y, y+start)
			}
		}
	}
}
