package positions

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrNoName          = errors.New("name cannot be empty")
	ErrValueNotNumber  = errors.New("value has to be a number")
	ErrValueOutOfRange = errors.New("value has to be between")
)

// Bounds is the accepted height range, inclusive.
type Bounds struct {
	Min int
	Max int
}

// ValidateInput checks the new-position form fields and returns the parsed
// height.
func ValidateInput(name, heightText string, bounds Bounds) (int, error) {
	if strings.TrimSpace(name) == "" {
		return 0, ErrNoName
	}

	height, err := strconv.Atoi(strings.TrimSpace(heightText))
	if err != nil {
		return 0, ErrValueNotNumber
	}

	if height < bounds.Min || height > bounds.Max {
		return 0, fmt.Errorf("%w %d and %d", ErrValueOutOfRange, bounds.Min, bounds.Max)
	}
	return height, nil
}
