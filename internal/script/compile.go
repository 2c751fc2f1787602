package script

import (
	"fmt"
	"io"
	"strings"

	"tomgalvin.uk/receiptprint/internal/document"
	"tomgalvin.uk/receiptprint/internal/receipt"
)

// Parse reads a script and converts it to a document.
func Parse(filename string, r io.Reader) (*document.Document, error) {
	s, err := ParseScript(filename, r)
	if err != nil {
		return nil, err
	}
	return s.Document()
}

func ParseString(input string) (*document.Document, error) {
	return Parse("", strings.NewReader(input))
}

// Document converts the syntax tree to blocks, checking values the grammar
// can't.
func (s *Script) Document() (*document.Document, error) {
	d := &document.Document{Blocks: make([]document.Block, 0, len(s.Statements))}
	for _, stmt := range s.Statements {
		b, err := stmt.block()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", stmt.Pos, err)
		}
		d.Blocks = append(d.Blocks, b)
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return d, nil
}

func (stmt *Statement) block() (document.Block, error) {
	switch {
	case stmt.Text != nil:
		b := document.Block{Kind: document.TextKind, Text: string(stmt.Text.Text)}
		for _, o := range stmt.Text.Options {
			if o.Align != nil {
				a, err := receipt.ParseAlignment(*o.Align)
				if err != nil {
					return b, err
				}
				b.Align = a
			}
			if o.Font != nil {
				o.Font.apply(&b)
			}
		}
		return b, nil

	case stmt.Pair != nil:
		b := document.Block{
			Kind:  document.TwoColumnsKind,
			Left:  string(stmt.Pair.Left),
			Right: string(stmt.Pair.Right),
		}
		for _, o := range stmt.Pair.Options {
			o.apply(&b)
		}
		return b, nil

	case stmt.Row != nil:
		b := document.Block{Kind: document.ColumnsKind}
		for _, o := range stmt.Row.Options {
			o.apply(&b)
		}
		for _, cell := range stmt.Row.Cells {
			c := document.Column{Text: string(cell.Text)}
			if cell.Width != nil {
				c.Width = *cell.Width
			}
			if cell.Align != nil {
				a, err := receipt.ParseAlignment(*cell.Align)
				if err != nil {
					return b, err
				}
				c.Align = a
			}
			b.Columns = append(b.Columns, c)
		}
		return b, nil

	case stmt.Stroke != nil:
		b := document.Block{Kind: document.StrokeKind}
		for _, o := range stmt.Stroke.Options {
			switch {
			case o.Height != nil:
				b.Height = *o.Height
			case o.Width != nil:
				b.Width = *o.Width
			case o.Thickness != nil:
				b.Thickness = *o.Thickness
			default:
				b.Dash = append(b.Dash, o.Dash...)
			}
		}
		return b, nil

	case stmt.Feed != nil:
		b := document.Block{Kind: document.FeedKind}
		if stmt.Feed.Lines != nil {
			b.Lines = *stmt.Feed.Lines
		}
		return b, nil

	case stmt.Reset != nil:
		return document.Block{Kind: document.ResetKind}, nil
	}
	return document.Block{}, fmt.Errorf("empty statement")
}

func (o *FontOption) apply(b *document.Block) {
	if o.Bold {
		b.Bold = true
	}
	if o.Size != nil {
		b.Size = *o.Size
	}
}
