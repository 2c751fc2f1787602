package receipt

import (
	"errors"
	"fmt"
	"strconv"

	"tomgalvin.uk/receiptprint/internal/font"
)

var (
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrMeasurementFailure = font.ErrMeasurementFailure
)

func invalidArgument(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

// measurementFailure makes sure errors coming out of a Metrics
// implementation always match ErrMeasurementFailure.
func measurementFailure(err error, text string) error {
	return measureError(err, strconv.Quote(text))
}

func measureError(err error, subject string) error {
	if errors.Is(err, ErrMeasurementFailure) {
		return fmt.Errorf("Couldn't measure %s: %w", subject, err)
	}
	return fmt.Errorf("Couldn't measure %s: %w: %w", subject, ErrMeasurementFailure, err)
}
