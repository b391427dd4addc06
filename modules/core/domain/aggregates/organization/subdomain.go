package organization

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var ErrInvalidSubdomain = errors.New("invalid subdomain")

var subdomainPattern = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]*[a-z0-9])?$`)

// Hostname labels reserved for the platform itself. A collective cannot
// claim them as its subdomain.
var reservedSubdomains = map[string]struct{}{
	"www":    {},
	"api":    {},
	"admin":  {},
	"public": {},
	"auth":   {},
	"status": {},
}

// NormalizeSubdomain lower-cases and trims a requested subdomain and
// validates it as a single DNS label.
func NormalizeSubdomain(v string) (string, error) {
	v = strings.ToLower(strings.TrimSpace(v))
	if len(v) < 3 || len(v) > 63 {
		return "", fmt.Errorf("%w: must be between 3 and 63 characters, got %d", ErrInvalidSubdomain, len(v))
	}
	if !subdomainPattern.MatchString(v) {
		return "", fmt.Errorf("%w: %q may only contain lowercase letters, digits and inner hyphens", ErrInvalidSubdomain, v)
	}
	if _, reserved := reservedSubdomains[v]; reserved {
		return "", fmt.Errorf("%w: %q is reserved", ErrInvalidSubdomain, v)
	}
	return v, nil
}
