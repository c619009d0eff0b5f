package utils

import (
	"strconv"
)

// ParseFloat converts a string to a float64. Empty strings parse to 0
// without error so optional numeric query params can be read in one call.
func ParseFloat(s string) (float64, error) {
	if s == "" {
		return 0, nil
	}

	value, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}

	return value, nil
}
