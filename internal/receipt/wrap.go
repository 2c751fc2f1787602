package receipt

import (
	"math"
	"strings"

	"tomgalvin.uk/receiptprint/internal/font"
)

type WrappedLine struct {
	Text  string
	Width float64
}

// Wrap splits text into lines no wider than maxWidth. Explicit newlines
// always break, and blank paragraphs become empty lines. Words are only broken
// at whitespace: a word wider than maxWidth gets a line to itself.
func Wrap(m font.Metrics, text string, f font.Spec, maxWidth float64) ([]WrappedLine, error) {
	if !(maxWidth > 0) || math.IsInf(maxWidth, 1) {
		return nil, invalidArgument("max width must be positive, got %v", maxWidth)
	}

	var lines []WrappedLine
	for _, paragraph := range paragraphs(text) {
		words := strings.Fields(paragraph)
		if len(words) == 0 {
			lines = append(lines, WrappedLine{})
			continue
		}

		line := words[0]
		width, err := m.Measure(line, f)
		if err != nil {
			return nil, measurementFailure(err, line)
		}
		for _, word := range words[1:] {
			testLine := line + " " + word
			testWidth, err := m.Measure(testLine, f)
			if err != nil {
				return nil, measurementFailure(err, testLine)
			}
			if testWidth <= maxWidth {
				line, width = testLine, testWidth
				continue
			}

			lines = append(lines, WrappedLine{Text: line, Width: width})
			line = word
			if width, err = m.Measure(word, f); err != nil {
				return nil, measurementFailure(err, word)
			}
		}
		lines = append(lines, WrappedLine{Text: line, Width: width})
	}
	return lines, nil
}

func paragraphs(text string) []string {
	return strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
}
