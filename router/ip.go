package router

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var dottedQuad = regexp.MustCompile(`^(?:[0-9]{1,3}\.){3}[0-9]{1,3}$`)

// IPAddress is a validated IPv4 address in dotted-quad form.
type IPAddress struct {
	value string
}

// ParseIP validates s as a dotted-quad IPv4 address.
func ParseIP(s string) (IPAddress, error) {
	v, err := parseDottedQuad("IP address", s)
	if err != nil {
		return IPAddress{}, err
	}
	return IPAddress{value: v}, nil
}

// MustParseIP is like ParseIP but panics on invalid input.
// It is meant for package-level defaults.
func MustParseIP(s string) IPAddress {
	ip, err := ParseIP(s)
	if err != nil {
		panic(err)
	}
	return ip
}

func (ip IPAddress) String() string { return ip.value }

// IsZero reports whether ip was never assigned.
func (ip IPAddress) IsZero() bool { return ip.value == "" }

func (ip IPAddress) MarshalText() ([]byte, error) { return []byte(ip.value), nil }

func (ip *IPAddress) UnmarshalText(text []byte) error {
	parsed, err := ParseIP(string(text))
	if err != nil {
		return err
	}
	*ip = parsed
	return nil
}

// Netmask is a dotted-quad network mask. Any octet combination is accepted.
type Netmask struct {
	value string
}

// ParseNetmask validates s as a dotted-quad netmask.
func ParseNetmask(s string) (Netmask, error) {
	v, err := parseDottedQuad("netmask", s)
	if err != nil {
		return Netmask{}, err
	}
	return Netmask{value: v}, nil
}

func (n Netmask) String() string { return n.value }

func (n Netmask) MarshalText() ([]byte, error) { return []byte(n.value), nil }

func (n *Netmask) UnmarshalText(text []byte) error {
	parsed, err := ParseNetmask(string(text))
	if err != nil {
		return err
	}
	*n = parsed
	return nil
}

func parseDottedQuad(what, s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("%w: %s cannot be null or empty", ErrInvalidValue, what)
	}
	if !dottedQuad.MatchString(s) {
		return "", fmt.Errorf("%w: invalid %s format: %s", ErrInvalidValue, what, s)
	}
	for _, octet := range strings.Split(s, ".") {
		n, err := strconv.Atoi(octet)
		if err != nil || n > 255 {
			return "", fmt.Errorf("%w: invalid %s octet %q in %s", ErrInvalidValue, what, octet, s)
		}
	}
	return s, nil
}
