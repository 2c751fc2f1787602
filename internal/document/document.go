// Package document describes a receipt as a list of blocks (text, column
// rows, rules, images, feeds and resets) and plays it through the receipt renderer
// into a Sink, which is either a printer program or a preview image.
package document

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"tomgalvin.uk/receiptprint/internal/receipt"
)

// Block kinds as they appear in the "type" field of a JSON block
type Kind string

const (
	TextKind       Kind = "text"
	ColumnsKind    Kind = "columns"
	TwoColumnsKind Kind = "two-columns"
	StrokeKind     Kind = "stroke"
	FeedKind       Kind = "feed"
	ResetKind      Kind = "reset"
	ImageKind      Kind = "image"
)

const (
	DefaultStrokeHeight = 20
	DefaultFeedLines    = 1
)

// Limits on what a single block may ask the renderer for
const (
	MaxStrokeHeight = 4096
	MaxFontSize     = 512
	MaxImagePixels  = 4096 * 4096
)

var ErrInvalidDocument = errors.New("invalid document")

type Column struct {
	Text  string            `json:"text"`
	Width int               `json:"width,omitempty"`
	Align receipt.Alignment `json:"align"`
}

// Block is a flat union of every block kind; only the fields relevant to
// Kind are read. Zero values mean "use the default".
type Block struct {
	Kind Kind `json:"type"`

	// text and image
	Text  string            `json:"text,omitempty"`
	Align receipt.Alignment `json:"align"`

	// image, PNG, JPEG or GIF data; base64 in JSON
	Image []byte `json:"image,omitempty"`

	// text, columns and two-columns
	Bold bool    `json:"bold,omitempty"`
	Size float64 `json:"size,omitempty"`

	Columns []Column `json:"columns,omitempty"`

	Left  string `json:"left,omitempty"`
	Right string `json:"right,omitempty"`

	// stroke
	Height    int       `json:"height,omitempty"`
	Width     int       `json:"width,omitempty"`
	Thickness int       `json:"thickness,omitempty"`
	Dash      []float64 `json:"dash,omitempty"`

	// feed
	Lines int `json:"lines,omitempty"`
}

type Document struct {
	Blocks []Block `json:"blocks"`
}

// Decode reads a JSON document, rejecting unknown fields and block kinds.
func Decode(r io.Reader) (*Document, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	var d Document
	if err := dec.Decode(&d); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

// Validate checks the block kinds and the values that can be checked
// without a renderer.
func (d *Document) Validate() error {
	for i, b := range d.Blocks {
		if err := b.validate(); err != nil {
			return fmt.Errorf("%w: block %d: %w", ErrInvalidDocument, i, err)
		}
	}
	return nil
}

func (b *Block) validate() error {
	switch b.Kind {
	case TextKind, TwoColumnsKind, ResetKind:
	case ColumnsKind:
		for i, c := range b.Columns {
			if c.Width < 0 {
				return fmt.Errorf("column %d has negative width %d", i, c.Width)
			}
		}
	case StrokeKind:
		if b.Height < 0 || b.Width < 0 || b.Thickness < 0 {
			return fmt.Errorf("stroke dimensions must not be negative")
		}
		if b.Height > MaxStrokeHeight {
			return fmt.Errorf("stroke height must be at most %d, got %d", MaxStrokeHeight, b.Height)
		}
		for _, l := range b.Dash {
			if l < 0 {
				return fmt.Errorf("dash lengths must not be negative, got %v", l)
			}
		}
	case FeedKind:
		if b.Lines < 0 || b.Lines > 255 {
			return fmt.Errorf("feed lines must be between 0 and 255, got %d", b.Lines)
		}
	case ImageKind:
		if len(b.Image) == 0 {
			return fmt.Errorf("image block has no image data")
		}
	case "":
		return fmt.Errorf("missing block type")
	default:
		return fmt.Errorf("unknown block type %q", b.Kind)
	}
	if !(b.Size >= 0 && b.Size <= MaxFontSize) {
		return fmt.Errorf("font size must be between 0 and %d, got %v", MaxFontSize, b.Size)
	}
	return nil
}

func (b *Block) size() float64 {
	if b.Size == 0 {
		return receipt.DefaultFontSize
	}
	return b.Size
}
