package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidCoordinates is returned when a coordinate string does not
// parse as a "x, y" pair.
var ErrInvalidCoordinates = errors.New("invalid coordinates")

// ParseCoordinates parses the strict "x, y" textual form into a
// Coordinates value. Whitespace around either component is tolerated;
// anything else (missing component, trailing junk, extra components)
// fails.
func ParseCoordinates(s string) (Coordinates, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return Coordinates{}, fmt.Errorf("%w: %q", ErrInvalidCoordinates, s)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return Coordinates{}, fmt.Errorf("%w: %q", ErrInvalidCoordinates, s)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return Coordinates{}, fmt.Errorf("%w: %q", ErrInvalidCoordinates, s)
	}
	return Coordinates{X: x, Y: y}, nil
}

// String renders the canonical "x, y" form used in fragment attributes.
func (c Coordinates) String() string {
	return fmt.Sprintf("%s, %s",
		strconv.FormatFloat(c.X, 'f', -1, 64),
		strconv.FormatFloat(c.Y, 'f', -1, 64))
}
