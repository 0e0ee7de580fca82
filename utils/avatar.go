package utils

import (
	"fmt"
	"net/url"
	"strings"
	"unicode"
)

// Initials returns up to two upper-case initials for a display name.
func Initials(name string) string {
	var initials []rune
	for _, word := range strings.Fields(name) {
		initials = append(initials, unicode.ToUpper([]rune(word)[0]))
		if len(initials) == 2 {
			break
		}
	}
	if len(initials) == 0 {
		return "?"
	}
	return string(initials)
}

// DefaultAvatar builds an initials placeholder image URL for a new account.
func DefaultAvatar(name string) string {
	return fmt.Sprintf("https://api.dicebear.com/7.x/initials/svg?seed=%s", url.QueryEscape(Initials(name)))
}
