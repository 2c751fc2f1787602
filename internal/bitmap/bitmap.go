// This package defines an interface for a simple bitmap structure that has a
// width, height, and can get bits from the bitmap by (x,y) coordinate.
// PixelBitmap is the mutable, unpacked form every renderer paints into, and
// PackedBitmap is the row-packed form a thermal printer consumes over the wire.
package bitmap

import (
	"errors"
	"fmt"
	"math"
)

var ErrInvalidDimensions = errors.New("invalid bitmap dimensions")

// MaxPixels is the largest bitmap New will allocate, about 87m of 384 dot
// paper.
const MaxPixels = 1 << 28

func checkDimensions(width, height int) error {
	if width < 0 || height < 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	if width != 0 && (height > math.MaxInt/width || width*height > MaxPixels) {
		return fmt.Errorf("%w: %dx%d is larger than %d pixels", ErrInvalidDimensions, width, height, MaxPixels)
	}
	return nil
}

type Bitmap interface {
	Width() int
	Height() int
	GetBit(x int, y int) byte
}

// PixelBitmap stores one bool per pixel in a single row-major buffer,
// indexed by y*width+x. A set pixel is ink.
type PixelBitmap struct {
	pixels        []bool
	width, height int
}

// New returns a blank bitmap. A zero width or height is valid, anything
// over MaxPixels is not.
func New(width, height int) (*PixelBitmap, error) {
	if err := checkDimensions(width, height); err != nil {
		return nil, err
	}
	return &PixelBitmap{
		pixels: make([]bool, width*height),
		width:  width,
		height: height,
	}, nil
}

// Empty returns the 0x0 bitmap.
func Empty() *PixelBitmap {
	return &PixelBitmap{}
}

// FromPixels copies pixels into a new bitmap after checking they are
// consistent with the provided width and height.
func FromPixels(pixels []bool, width, height int) (*PixelBitmap, error) {
	if err := checkDimensions(width, height); err != nil {
		return nil, err
	}
	if len(pixels) != width*height {
		return nil, fmt.Errorf("%w: got %v pixels, expecting %v*%v=%v",
			ErrInvalidDimensions, len(pixels), width, height, width*height)
	}
	b := &PixelBitmap{
		pixels: make([]bool, len(pixels)),
		width:  width,
		height: height,
	}
	copy(b.pixels, pixels)
	return b, nil
}

func (b *PixelBitmap) Width() int {
	return b.width
}

func (b *PixelBitmap) Height() int {
	return b.height
}

func (b *PixelBitmap) GetBit(x int, y int) byte {
	if b.pixels[y*b.width+x] {
		return 1
	}
	return 0
}

func (b *PixelBitmap) At(x, y int) bool {
	return b.pixels[y*b.width+x]
}

func (b *PixelBitmap) Set(x, y int, ink bool) {
	b.pixels[y*b.width+x] = ink
}

// FillRect inks every pixel of the rectangle [x0,x1)x[y0,y1), clipped to the bitmap.
func (b *PixelBitmap) FillRect(x0, y0, x1, y1 int) {
	x0, y0 = max(x0, 0), max(y0, 0)
	x1, y1 = min(x1, b.width), min(y1, b.height)
	for y := y0; y < y1; y++ {
		row := b.pixels[y*b.width : (y+1)*b.width]
		for x := x0; x < x1; x++ {
			row[x] = true
		}
	}
}

// Draw ORs the ink of src into b with src's top-left corner at (dx, dy).
// Anything falling outside b is clipped.
func (b *PixelBitmap) Draw(src Bitmap, dx, dy int) {
	for y := 0; y < src.Height(); y++ {
		ty := y + dy
		if ty < 0 || ty >= b.height {
			continue
		}
		for x := 0; x < src.Width(); x++ {
			tx := x + dx
			if tx < 0 || tx >= b.width {
				continue
			}
			if src.GetBit(x, y) == 1 {
				b.pixels[ty*b.width+tx] = true
			}
		}
	}
}

// Pixels returns a copy of the underlying row-major buffer.
func (b *PixelBitmap) Pixels() []bool {
	p := make([]bool, len(b.pixels))
	copy(p, b.pixels)
	return p
}

func (b *PixelBitmap) String() string {
	return fmt.Sprintf("PixelBitmap(%d,%d)", b.width, b.height)
}
