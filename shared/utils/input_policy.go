package utils

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	"github.com/Buchara777/AI-Adventure/shared/models"
)

// DefaultMaxInputBytes bounds a single free-text field.
const DefaultMaxInputBytes = 4096

// SystemInstructionFactor scales the limit for the system instruction.
const SystemInstructionFactor = 4

// CheckInput validates a user-supplied field. Input is rejected, never rewritten.
// Allowed control characters are \n, \t and \r.
func CheckInput(field, value string, maxBytes int) error {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxInputBytes
	}
	if len(value) > maxBytes {
		return models.NewInputError(fmt.Sprintf("%s exceeds %d bytes", field, maxBytes))
	}
	if !utf8.ValidString(value) {
		return models.NewInputError(fmt.Sprintf("%s contains invalid UTF-8", field))
	}
	for _, r := range value {
		if unicode.IsControl(r) && !isSafeControl(r) {
			return models.NewInputError(fmt.Sprintf("%s contains control characters", field))
		}
	}
	return nil
}

func isSafeControl(r rune) bool {
	return r == '\n' || r == '\t' || r == '\r'
}
