package router

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var macPattern = regexp.MustCompile(`^([0-9A-Fa-f]{2}[:-]){5}([0-9A-Fa-f]{2})$`)

// ErrInvalidValue is wrapped by every value construction failure.
var ErrInvalidValue = errors.New("invalid value")

// MAC is a validated 6-octet hardware address.
// Equality is case and separator insensitive.
type MAC struct {
	raw string
}

// ParseMAC validates s as a colon- or hyphen-delimited MAC address.
func ParseMAC(s string) (MAC, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return MAC{}, fmt.Errorf("%w: MAC address cannot be null or empty", ErrInvalidValue)
	}
	if !macPattern.MatchString(s) {
		return MAC{}, fmt.Errorf("%w: invalid MAC address format: %s", ErrInvalidValue, s)
	}
	return MAC{raw: s}, nil
}

// Normalized returns the upper-case, colon-delimited form.
func (m MAC) Normalized() string {
	return strings.ToUpper(strings.ReplaceAll(m.raw, "-", ":"))
}

// Raw returns the address as it was supplied.
func (m MAC) Raw() string { return m.raw }

// String implements fmt.Stringer.
func (m MAC) String() string { return m.Normalized() }

// IsZero reports whether m was never assigned.
func (m MAC) IsZero() bool { return m.raw == "" }

// Equal compares the normalized forms of m and other.
func (m MAC) Equal(other MAC) bool {
	return m.Normalized() == other.Normalized()
}

// MarshalText encodes the normalized form.
func (m MAC) MarshalText() ([]byte, error) {
	return []byte(m.Normalized()), nil
}

// UnmarshalText validates and assigns text.
func (m *MAC) UnmarshalText(text []byte) error {
	parsed, err := ParseMAC(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
