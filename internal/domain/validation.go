package domain

import (
	"fmt"
	"regexp"
	"strings"
)

// Validation constants
const (
	MinAccountIDLength = 3
	MaxAccountIDLength = 20
)

var accountIDRegex = regexp.MustCompile(fmt.Sprintf(`^\d{%d,%d}$`, MinAccountIDLength, MaxAccountIDLength))

// ValidateAccountID validates an account number.
func ValidateAccountID(id string) error {
	if !accountIDRegex.MatchString(id) {
		return fmt.Errorf("%w (got %q)", ErrInvalidAccountID, id)
	}

	return nil
}

// ValidateOwnerName validates the account owner's display name.
func ValidateOwnerName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrInvalidOwnerName
	}

	return nil
}
