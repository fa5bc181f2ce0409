package session

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidMinutes is returned when a minutes argument is not a positive integer.
var ErrInvalidMinutes = errors.New("minutes must be a positive integer")

// ParseMinutes parses a timer length given in whole minutes.
// Valid inputs: "25", " 5 ". Invalid inputs: "", "abc", "0", "-3", "2.5".
func ParseMinutes(input string) (int, error) {
	trimmed := strings.TrimSpace(input)
	minutes, err := strconv.Atoi(trimmed)
	if err != nil {
		return 0, fmt.Errorf("%w: got %q", ErrInvalidMinutes, input)
	}
	if minutes <= 0 {
		return 0, fmt.Errorf("%w: got %d", ErrInvalidMinutes, minutes)
	}
	return minutes, nil
}

// NormalizeLabel trims surrounding whitespace from the label and falls back
// to fallback (or DefaultLabel) when nothing is left. Inner whitespace is
// kept as given.
func NormalizeLabel(label, fallback string) string {
	label = strings.TrimSpace(label)
	if label != "" {
		return label
	}
	if fallback = strings.TrimSpace(fallback); fallback != "" {
		return fallback
	}
	return DefaultLabel
}
