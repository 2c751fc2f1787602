package printer

import (
	"bytes"
	"fmt"

	"tomgalvin.uk/receiptprint/internal/bitmap"
	"tomgalvin.uk/receiptprint/internal/document"
)

// Tallest raster image sent in a single GS v 0 command
const maxBitmapHeight = 256

// Widest row GS v 0 can describe with the single width byte we send
const maxBitmapStride = 0xFF

type Options struct {
	Justify Justify
	Density Density
	// Blank lines fed after the last block so the receipt clears the cutter
	TrailingFeed byte
}

var DefaultOptions = Options{
	Justify:      Left,
	Density:      Medium,
	TrailingFeed: 4,
}

// Program accumulates the printer commands for one receipt. It implements
// document.Sink so a document can be rendered straight into it.
type Program struct {
	options  Options
	commands [][]byte
	finished bool
}

var _ document.Sink = (*Program)(nil)

func NewProgram(o Options) *Program {
	p := &Program{options: o}
	p.start()
	return p
}

func (p *Program) start() {
	p.commands = append(p.commands,
		initPrinter(),
		setJustify(p.options.Justify),
		setDensity(p.options.Density),
	)
}

// Bitmap appends a raster image, split into slices of at most 256 rows.
func (p *Program) Bitmap(b *bitmap.PackedBitmap) error {
	if b.Stride() > maxBitmapStride {
		return fmt.Errorf("Bitmap too wide for printer: %s", b)
	}
	strideU8 := byte(b.Stride())

	for sliceStart := 0; sliceStart < b.Height(); sliceStart += maxBitmapHeight {
		sliceEnd := min(sliceStart+maxBitmapHeight, b.Height())
		slice := b.VerticalSlice(sliceStart, sliceEnd-sliceStart)

		p.commands = append(p.commands,
			printBitmapHeader(strideU8, uint16(slice.Height())),
			slice.Data(),
		)
	}
	return nil
}

func (p *Program) Feed(lines int) error {
	if lines < 0 || lines > 0xFF {
		return fmt.Errorf("Can't feed %d lines, must be between 0 and 255", lines)
	}
	p.commands = append(p.commands, feedLines(byte(lines)))
	return nil
}

// Reset reinitialises the printer and restores the program's justification
// and density, which the reset clears.
func (p *Program) Reset() error {
	p.start()
	return nil
}

// Finish appends the trailing feed. Calling it more than once has no further
// effect.
func (p *Program) Finish() {
	if p.finished {
		return
	}
	p.finished = true
	if p.options.TrailingFeed > 0 {
		p.commands = append(p.commands, feedLines(p.options.TrailingFeed))
	}
}

// Commands returns each command separately, in the order they must be sent.
func (p *Program) Commands() [][]byte {
	return p.commands
}

// Bytes returns the whole program as one stream.
func (p *Program) Bytes() []byte {
	return bytes.Join(p.commands, nil)
}
