package validators

import (
	"net/mail"
	"strings"
)

// IsEmailAddress accepts a bare address with a dotted domain. Display
// names ("Ana <ana@x.com>") are rejected.
func IsEmailAddress(email string) bool {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return false
	}

	at := strings.LastIndex(email, "@")
	domain := email[at+1:]
	return strings.Contains(domain, ".") && !strings.HasSuffix(domain, ".")
}
