package vin

import (
	"fmt"
	"regexp"
	"strings"
)

// vinPattern matches a well-formed 17-character VIN. The letters I, O and Q
// are never used in a VIN to avoid confusion with 1 and 0.
var vinPattern = regexp.MustCompile(`^[A-HJ-NPR-Z0-9]{17}$`)

// positionWeights is the standard weight vector; position 9 (the check digit)
// carries weight 0 and is excluded from the sum.
var positionWeights = [17]int{8, 7, 6, 5, 4, 3, 2, 10, 0, 9, 8, 7, 6, 5, 4, 3, 2}

// transliteration maps VIN letters to their numeric values.
var transliteration = map[byte]int{
	'A': 1, 'B': 2, 'C': 3, 'D': 4, 'E': 5, 'F': 6, 'G': 7, 'H': 8,
	'J': 1, 'K': 2, 'L': 3, 'M': 4, 'N': 5, 'P': 7, 'R': 9,
	'S': 2, 'T': 3, 'U': 4, 'V': 5, 'W': 6, 'X': 7, 'Y': 8, 'Z': 9,
}

// ErrBadFormat identifies format violations in a ValidationError.
const ErrBadFormat = "BAD_FORMAT"

// ValidationError reports a VIN that cannot be parsed.
type ValidationError struct {
	Code    string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Vin is a validated 17-character vehicle identification number. Invalid
// input never produces a Vin.
type Vin struct {
	value string
}

// Normalize uppercases and trims a raw VIN candidate.
func Normalize(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

// IsWellFormed reports whether the normalized input matches the VIN pattern.
// It is the lightweight pre-dispatch check used by batch processing.
func IsWellFormed(raw string) bool {
	return vinPattern.MatchString(Normalize(raw))
}

// Parse validates the raw input and returns an immutable Vin value.
func Parse(raw string) (Vin, error) {
	normalized := Normalize(raw)
	if !vinPattern.MatchString(normalized) {
		return Vin{}, &ValidationError{
			Code:    ErrBadFormat,
			Message: fmt.Sprintf("invalid VIN format: %q", raw),
		}
	}
	return Vin{value: normalized}, nil
}

func (v Vin) String() string {
	return v.value
}

// ChecksumValid recomputes the check digit and compares it against position 9.
// A mismatch is reported, not rejected: legitimate older and non-US VINs fail
// this check, so callers treat it as a warning.
func (v Vin) ChecksumValid() bool {
	if len(v.value) != 17 {
		return false
	}
	sum := 0
	for i := 0; i < 17; i++ {
		ch := v.value[i]
		value := 0
		if ch >= '0' && ch <= '9' {
			value = int(ch - '0')
		} else {
			value = transliteration[ch]
		}
		sum += value * positionWeights[i]
	}
	expected := byte('X')
	if remainder := sum % 11; remainder < 10 {
		expected = byte('0' + remainder)
	}
	return v.value[8] == expected
}
