// Package normalize converts numeric policy literals that may be written in
// hexadecimal or decimal form into a canonical integer.
package normalize

import (
	"fmt"
	"strconv"
	"strings"

	"static-flow-classifier/internal/model"
)

const hexPrefix = "0x"

// HexOrDecimal parses text as base 16 when it carries the "0x" prefix and as
// base 10 otherwise.
func HexOrDecimal(text string) (int64, error) {
	base := 10
	digits := text
	if strings.HasPrefix(text, hexPrefix) {
		base = 16
		digits = text[len(hexPrefix):]
		if strings.HasPrefix(digits, "+") || strings.HasPrefix(digits, "-") {
			return 0, fmt.Errorf("%w: %q has a sign after the hex prefix", model.ErrMalformedLiteral, text)
		}
	}
	v, err := strconv.ParseInt(digits, base, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a base %d integer", model.ErrMalformedLiteral, text, base)
	}
	return v, nil
}
