package boundary

import (
	"strings"
	"unicode/utf8"
)

// ValidateOrganizationID checks an organization identifier for format and
// length. Lengths 3 and 50 are both valid.
func ValidateOrganizationID(id string) Result {
	return validateIdentifier(id, "Organization")
}

// ValidateUserID checks a user identifier with the same rules as
// ValidateOrganizationID.
func ValidateUserID(id string) Result {
	return validateIdentifier(id, "User")
}

func validateIdentifier(id, entity string) Result {
	if strings.TrimSpace(id) == "" {
		return Result{Error: entity + " ID is required"}
	}
	if utf8.RuneCountInString(strings.TrimSpace(id)) < 3 {
		return Result{Error: entity + " ID must be at least 3 characters"}
	}
	if utf8.RuneCountInString(id) > 50 {
		return Result{Error: entity + " ID must be 50 characters or less"}
	}
	for _, r := range id {
		if !isIdentifierRune(r) {
			return Result{Error: entity + " ID must contain only letters, numbers, hyphens, and underscores"}
		}
	}
	return Result{Valid: true}
}

func isIdentifierRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z':
		return true
	case r >= 'A' && r <= 'Z':
		return true
	case r >= '0' && r <= '9':
		return true
	case r == '-' || r == '_':
		return true
	}
	return false
}
