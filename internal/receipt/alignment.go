package receipt

import (
	"fmt"
	"strings"
)

// Horizontal placement of a line of text within its bitmap or column
type Alignment byte

const (
	Left Alignment = iota
	Center
	Right
)

func (a Alignment) String() string {
	switch a {
	case Left:
		return "LEFT"
	case Center:
		return "CENTER"
	case Right:
		return "RIGHT"
	default:
		return fmt.Sprintf("Alignment(%d)", byte(a))
	}
}

// ParseAlignment accepts LEFT, CENTER (or CENTRE) and RIGHT in any case.
func ParseAlignment(s string) (Alignment, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "LEFT":
		return Left, nil
	case "CENTER", "CENTRE":
		return Center, nil
	case "RIGHT":
		return Right, nil
	default:
		return Left, invalidArgument("invalid alignment %q", s)
	}
}

func (a Alignment) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *Alignment) UnmarshalText(text []byte) error {
	parsed, err := ParseAlignment(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// offset returns the x position of a line inkWidth pixels wide inside a
// bitmap width pixels wide. Odd centring slack goes to the left margin, and
// lines wider than the bitmap are always anchored left.
func (a Alignment) offset(width, inkWidth int) int {
	slack := width - inkWidth
	if slack <= 0 {
		return 0
	}
	switch a {
	case Right:
		return slack
	case Center:
		return (slack + 1) / 2
	default:
		return 0
	}
}
