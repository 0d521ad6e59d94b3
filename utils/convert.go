package utils

import (
	"fmt"
	"strings"

	"github.com/holiman/uint256"
)

// Uint256ToString renders a balance as a decimal string, treating nil as
// zero.
func Uint256ToString(v *uint256.Int) string {
	if v == nil {
		return "0"
	}
	return v.Dec()
}

// StringToUint256 parses a decimal amount string. Underscore separators are
// accepted ("1_000_000").
func StringToUint256(s string) (*uint256.Int, error) {
	v, err := uint256.FromDecimal(strings.ReplaceAll(s, "_", ""))
	if err != nil {
		return nil, fmt.Errorf("could not parse amount string: %v", err)
	}
	return v, nil
}
