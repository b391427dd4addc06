package internet

import (
	"fmt"
	"net/mail"
	"strings"
)

// Email is a validated, lower-cased email address.
type Email interface {
	Value() string
	Domain() string
}

type email string

// NewEmail parses and normalizes an address. The stored value is always
// lower case so lookups stay case insensitive.
func NewEmail(v string) (Email, error) {
	v = strings.ToLower(strings.TrimSpace(v))
	addr, err := mail.ParseAddress(v)
	if err != nil {
		return nil, fmt.Errorf("invalid email %q: %w", v, err)
	}
	if addr.Address != v {
		return nil, fmt.Errorf("invalid email %q: display names are not allowed", v)
	}
	return email(v), nil
}

// MustParseEmail is NewEmail for statically known addresses such as seeds.
func MustParseEmail(v string) Email {
	e, err := NewEmail(v)
	if err != nil {
		panic(err)
	}
	return e
}

func (e email) Value() string {
	return string(e)
}

func (e email) Domain() string {
	at := strings.LastIndex(string(e), "@")
	return string(e)[at+1:]
}
