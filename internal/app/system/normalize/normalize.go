// internal/app/system/normalize/normalize.go

// Package normalize provides small canonicalization helpers applied to
// user input before it is stored or compared. Keeping them in one place
// means every store and handler agrees on what "the same email" means.
package normalize

import "strings"

// Email lowercases and trims an email address.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims a display name, preserving case.
func Name(s string) string {
	return strings.TrimSpace(s)
}

// Role lowercases and trims a role value. It does not validate;
// validation belongs to the stores.
func Role(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Phone trims a phone number, preserving internal formatting.
func Phone(s string) string {
	return strings.TrimSpace(s)
}

// QueryParam trims a free-text query parameter, preserving case.
func QueryParam(s string) string {
	return strings.TrimSpace(s)
}
