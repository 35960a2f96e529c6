package validate

import (
	"regexp"
	"strings"
)

var (
	nameRe      = regexp.MustCompile(`^[א-תa-zA-Z\s]{2,}$`)
	emailRe     = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneRe     = regexp.MustCompile(`^05\d{8}$`)
	nationalRe  = regexp.MustCompile(`^\d{9}$`)
	addressRe   = regexp.MustCompile(`^\S+(\s+\S+)+$`)
	companyIDRe = regexp.MustCompile(`^\d{9}$`)
)

// Name accepts Hebrew or Latin letters (and inner spaces), at least two characters.
func Name(s string) bool {
	return nameRe.MatchString(strings.TrimSpace(s))
}

func Email(s string) bool {
	return emailRe.MatchString(strings.TrimSpace(s))
}

// Phone accepts Israeli mobile numbers: ten digits starting with 05.
func Phone(s string) bool {
	return phoneRe.MatchString(strings.TrimSpace(s))
}

// NationalID checks an Israeli ID number. Digits are weighted 1,2,1,2...
// from the left, two-digit products are reduced by their digit sum, and the
// total must be divisible by 10.
func NationalID(s string) bool {
	s = strings.TrimSpace(s)
	if !nationalRe.MatchString(s) {
		return false
	}

	sum := 0
	for i, r := range s {
		n := int(r-'0') * (i%2 + 1)
		if n > 9 {
			n -= 9
		}
		sum += n
	}

	return sum%10 == 0
}

// Address requires at least two tokens, e.g. a street name and a number.
func Address(s string) bool {
	return addressRe.MatchString(strings.TrimSpace(s))
}

// CompanyID is optional; when present it must be exactly nine digits.
func CompanyID(s string) bool {
	s = strings.TrimSpace(s)
	return s == "" || companyIDRe.MatchString(s)
}
