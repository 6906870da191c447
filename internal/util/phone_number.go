package util

import (
	"strings"
)

// IsValidBangladeshiPhoneNumber checks a Bangladeshi mobile number (01XXXXXXXXX, optionally +880 / 880 prefixed).
func IsValidBangladeshiPhoneNumber(phone string) bool {
	phone = NormalizePhoneNumber(phone)
	
	if len(phone) != 11 {
		return false
	}
	
	if !strings.HasPrefix(phone, "01") {
		return false
	}
	
	// Operator digit
	if phone[2] < '3' || phone[2] > '9' {
		return false
	}
	
	for _, c := range phone {
		if c < '0' || c > '9' {
			return false
		}
	}
	
	return true
}

// NormalizePhoneNumber strips separators and the country code, which Pathao does not accept.
func NormalizePhoneNumber(phone string) string {
	phone = strings.TrimSpace(phone)
	phone = strings.ReplaceAll(phone, "-", "")
	phone = strings.ReplaceAll(phone, " ", "")
	phone = strings.TrimPrefix(phone, "+")
	if strings.HasPrefix(phone, "880") {
		phone = phone[2:]
	}
	return phone
}
