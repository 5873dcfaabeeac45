package utils

import "github.com/nyaruka/phonenumbers"

// ValidPhoneNumber accepts numbers in international format (+<country><number>).
func ValidPhoneNumber(s string) bool {
	num, err := phonenumbers.Parse(s, "")
	if err != nil {
		return false
	}
	return phonenumbers.IsValidNumber(num)
}

// NormalizePhoneNumber returns the E.164 form of s, or s unchanged when it
// cannot be parsed.
func NormalizePhoneNumber(s string) string {
	num, err := phonenumbers.Parse(s, "")
	if err != nil {
		return s
	}
	return phonenumbers.Format(num, phonenumbers.E164)
}
