package validator

import "regexp"

// nationalIDRegex matches an 18-character resident identity number:
// 6-digit region code, birth date, 3-digit sequence, check digit (0-9 or X).
var nationalIDRegex = regexp.MustCompile(`^[1-9]\d{5}(19|20)\d{2}(0[1-9]|1[0-2])(0[1-9]|[12]\d|3[01])\d{3}[\dXx]$`)

// roomNumberRegex matches a three-digit room number such as 101 or 303.
var roomNumberRegex = regexp.MustCompile(`^\d{3}$`)

// emailRegex is a pragmatic format check, not a full RFC 5322 parse.
var emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// IsValidNationalID reports whether s is a well-formed 18-character
// resident identity number.
func IsValidNationalID(s string) bool {
	return nationalIDRegex.MatchString(s)
}

// IsValidRoomNumber reports whether s is a three-digit room number.
func IsValidRoomNumber(s string) bool {
	return roomNumberRegex.MatchString(s)
}

// IsValidEmail reports whether s looks like an email address.
func IsValidEmail(s string) bool {
	return emailRegex.MatchString(s)
}
