package receipt

import (
	"errors"
	"math/rand/v2"
	"strings"
	"testing"
)

func TestLayoutColumnsComposite(t *testing.T) {
	b, err := LayoutColumns(aFixedFont(), []Column{
		{Text: "ab", Width: 8, Align: Left},
		{Text: "aa bb", Width: 6, Align: Center},
		{Text: "c", Width: 5, Align: Right},
	}, false, 12)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertSize(t, b, 19, 28)

	expectedRows := map[int]string{
		0:  "1111110011111100111",
		13: "1111110011111100111",
		14: "0000000011111100000",
		27: "0000000011111100000",
	}
	for y, expected := range expectedRows {
		if rowString(b, y) != expected {
			t.Errorf("row %v: expected %s, got %s", y, expected, rowString(b, y))
		}
	}
}

func TestLayoutColumnsWidthIsSumOfWidths(t *testing.T) {
	f := aFixedFont()
	for range 30 {
		columns := make([]Column, 1+rand.IntN(5))
		sum := 0
		for i := range columns {
			columns[i] = Column{
				Text:  aRandomSentence(),
				Width: 1 + rand.IntN(120),
				Align: Alignment(rand.IntN(3)),
			}
			sum += columns[i].Width
		}
		b, err := LayoutColumns(f, columns, rand.IntN(2) == 1, 12)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if b.Width() != sum {
			t.Errorf("expected width %v, got %v", sum, b.Width())
		}
	}
}

func TestLayoutColumnsEmpty(t *testing.T) {
	b, err := LayoutColumns(aFixedFont(), nil, false, 12)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertSize(t, b, 0, 0)
}

func TestLayoutColumnsRejectsNonPositiveWidth(t *testing.T) {
	_, err := LayoutColumns(aFixedFont(), []Column{{Text: "a", Width: 10}, {Text: "b", Width: 0}}, false, 12)
	if !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestTwoColumnsTotal(t *testing.T) {
	b, err := TwoColumns(aFixedFont(), "Total", "$12.00", false, 12, 40)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertSize(t, b, 40, 14)

	// "Total" is 15px at column 0, "$12.00" is 18px ending at column 39
	expected := strings.Repeat("1", 15) + strings.Repeat("0", 7) + strings.Repeat("1", 18)
	for y := range 14 {
		if rowString(b, y) != expected {
			t.Fatalf("row %v: expected %s, got %s", y, expected, rowString(b, y))
		}
	}
}

func TestTwoColumnsWrapsCollidingLabel(t *testing.T) {
	b, err := TwoColumns(aFixedFont(), "Lorem ipsum dolor", "$12.00", false, 12, 40)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// the label wraps into the 22px left of the value, one word per line
	assertSize(t, b, 40, 42)
	value := rowString(b, 0)[22:]
	if value != strings.Repeat("1", 18) {
		t.Errorf("expected the value in the first row, got %s", value)
	}
	for y := 14; y < 42; y++ {
		row := rowString(b, y)
		if row[22:] != strings.Repeat("0", 18) {
			t.Errorf("row %v: expected the value column to be padded blank, got %s", y, row)
		}
		if row[:15] != strings.Repeat("1", 15) {
			t.Errorf("row %v: expected a wrapped label word, got %s", y, row)
		}
	}
}

func TestTwoColumnsEmptyValue(t *testing.T) {
	b, err := TwoColumns(aFixedFont(), "Paid", "", false, 12, 40)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertSize(t, b, 40, 14)
	if rowString(b, 0) != strings.Repeat("1", 12)+strings.Repeat("0", 28) {
		t.Errorf("unexpected row %s", rowString(b, 0))
	}
}

func TestTwoColumnsValueTooWide(t *testing.T) {
	for _, right := range []string{strings.Repeat("9", 14), strings.Repeat("9", 20)} {
		if _, err := TwoColumns(aFixedFont(), "Total", right, false, 12, 40); !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("%q: expected ErrInvalidArgument, got %v", right, err)
		}
	}
}

func TestTwoColumnsMeasurementFailure(t *testing.T) {
	if _, err := TwoColumns(brokenMetrics{}, "a", "b", false, 12, 40); !errors.Is(err, ErrMeasurementFailure) {
		t.Errorf("expected ErrMeasurementFailure, got %v", err)
	}
}
