// Package script parses the receipt script language, a line per block:
//
//	text center bold size 40 "BUSINESS NAME"
//	feed 2
//	pair size 30 bold "TOTAL" "$155.99"
//	row [200 left "Item"] [184 right "$1.25"]
//	stroke height 20 dash 4 2
//	reset
//
// A pair line is a two-columns block and a row line is a columns block.
// Anything after a # is a comment.
package script

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var ErrSyntax = errors.New("syntax error")

var (
	scriptLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t\r]+`},
		{Name: "Comment", Pattern: `#[^\n]*`},
		{Name: "Newline", Pattern: `\n+`},
		{Name: "Number", Pattern: `\d+(?:\.\d+)?`},
		{Name: "String", Pattern: `"(?:\\.|[^"\n])*"`},
		{Name: "Ident", Pattern: `[A-Za-z][A-Za-z0-9_-]*`},
		{Name: "Symbol", Pattern: `[\[\]]`},
	})

	scriptParser = participle.MustBuild[Script](
		participle.Lexer(scriptLexer),
		participle.Elide("Whitespace", "Comment"),
	)
)

// Script is the root of a parsed receipt script.
type Script struct {
	Statements []*Statement `parser:"Newline* ( @@ Newline* )*"`
}

// Statement is a single line of a script.
type Statement struct {
	Pos    lexer.Position   `parser:""`
	Text   *TextStatement   `parser:"  @@"`
	Pair   *PairStatement   `parser:"| @@"`
	Row    *RowStatement    `parser:"| @@"`
	Stroke *StrokeStatement `parser:"| @@"`
	Feed   *FeedStatement   `parser:"| @@"`
	Reset  *ResetStatement  `parser:"| @@"`
}

type TextStatement struct {
	Options []*TextOption `parser:"'text' @@*"`
	Text    StringLiteral `parser:"@String"`
}

type TextOption struct {
	Align *string     `parser:"  @('left' | 'center' | 'centre' | 'right')"`
	Font  *FontOption `parser:"| @@"`
}

type FontOption struct {
	Bold bool     `parser:"  @'bold'"`
	Size *float64 `parser:"| 'size' @Number"`
}

// PairStatement is a label and a value pushed to either edge.
type PairStatement struct {
	Options []*FontOption `parser:"'pair' @@*"`
	Left    StringLiteral `parser:"@String"`
	Right   StringLiteral `parser:"@String"`
}

// RowStatement is a row of explicitly sized cells.
type RowStatement struct {
	Options []*FontOption `parser:"'row' @@*"`
	Cells   []*Cell       `parser:"@@+"`
}

// Cell is "[width align text]"; width and align are optional.
type Cell struct {
	Width *int          `parser:"'[' @Number?"`
	Align *string       `parser:"@('left' | 'center' | 'centre' | 'right')?"`
	Text  StringLiteral `parser:"@String ']'"`
}

type StrokeStatement struct {
	Options []*StrokeOption `parser:"'stroke' @@*"`
}

type StrokeOption struct {
	Height    *int      `parser:"  'height' @Number"`
	Width     *int      `parser:"| 'width' @Number"`
	Thickness *int      `parser:"| 'thickness' @Number"`
	Dash      []float64 `parser:"| 'dash' @Number+"`
}

type FeedStatement struct {
	Lines *int `parser:"'feed' @Number?"`
}

type ResetStatement struct {
	Reset bool `parser:"@'reset'"`
}

// StringLiteral unquotes Go-style strings on capture.
type StringLiteral string

// Capture implements participle.Capture.
func (s *StringLiteral) Capture(values []string) error {
	if len(values) == 0 {
		return fmt.Errorf("string literal capture requires value")
	}
	val, err := strconv.Unquote(values[0])
	if err != nil {
		return err
	}
	*s = StringLiteral(val)
	return nil
}

// ParseScript parses a script into its syntax tree. filename is only used
// in error positions and may be empty.
func ParseScript(filename string, r io.Reader) (*Script, error) {
	s, err := scriptParser.Parse(filename, r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSyntax, err)
	}
	if err := s.checkLines(); err != nil {
		return nil, err
	}
	return s, nil
}

// checkLines rejects two statements written on the same line.
func (s *Script) checkLines() error {
	for i := 1; i < len(s.Statements); i++ {
		if s.Statements[i].Pos.Line == s.Statements[i-1].Pos.Line {
			return fmt.Errorf("%w: %s: expected a newline before the next statement", ErrSyntax, s.Statements[i].Pos)
		}
	}
	return nil
}
