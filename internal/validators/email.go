package validators

import (
	"errors"
	"net"
	"net/mail"
	"strings"
)

var ErrInvalidEmail = errors.New("validators: invalid email")

// swapped in tests
var (
	lookupMX = net.LookupMX
	lookupIP = net.LookupIP
)

// NormalizeEmail accepts a bare address ("a@b.com") and returns it
// lowercased. Display-name forms are rejected.
func NormalizeEmail(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", ErrInvalidEmail
	}

	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s || addr.Name != "" {
		return "", ErrInvalidEmail
	}

	at := strings.LastIndex(s, "@")
	if at < 1 || !strings.Contains(s[at+1:], ".") {
		return "", ErrInvalidEmail
	}

	return strings.ToLower(s), nil
}

// IsEmailDomainValid reports whether the address domain can receive mail.
func IsEmailDomainValid(email string) bool {
	at := strings.LastIndex(email, "@")
	if at < 0 || at == len(email)-1 {
		return false
	}

	domain := email[at+1:]

	if mx, err := lookupMX(domain); err == nil && len(mx) > 0 {
		return true
	}

	if ips, err := lookupIP(domain); err == nil && len(ips) > 0 {
		return true
	}

	return false
}
