package account

import (
	"math/rand/v2"
	"strconv"
	"strings"
)

// Spanish IBAN layout: ES + 2 check digits + 20 digit BBAN.
const (
	countryCode = "ES"
	bankCode    = "2100"
	bbanLength  = 20
)

// NormalizeIBAN strips spaces and upper-cases an IBAN.
func NormalizeIBAN(iban string) string {
	return strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(iban), " ", ""))
}

// GenerateIBAN returns a random, checksum-valid Spanish IBAN.
func GenerateIBAN() string {
	var b strings.Builder
	b.WriteString(bankCode)
	for b.Len() < bbanLength {
		b.WriteByte(byte('0' + rand.IntN(10)))
	}
	bban := b.String()
	return countryCode + checkDigits(countryCode, bban) + bban
}

// ValidIBAN verifies the structure and ISO 13616 mod-97 checksum of a
// normalized IBAN.
func ValidIBAN(iban string) bool {
	if len(iban) < 15 || len(iban) > 34 {
		return false
	}
	for i, r := range iban {
		switch {
		case i < 2 && (r < 'A' || r > 'Z'):
			return false
		case i >= 2 && i < 4 && (r < '0' || r > '9'):
			return false
		case !(r >= 'A' && r <= 'Z') && !(r >= '0' && r <= '9'):
			return false
		}
	}
	return mod97(iban[4:]+iban[:4]) == 1
}

func checkDigits(country, bban string) string {
	n := 98 - mod97(bban+country+"00")
	s := strconv.Itoa(n)
	if n < 10 {
		s = "0" + s
	}
	return s
}

// mod97 computes the remainder of the numeric expansion of s, where
// letters count as 10 to 35.
func mod97(s string) int {
	r := 0
	for _, c := range s {
		switch {
		case c >= '0' && c <= '9':
			r = (r*10 + int(c-'0')) % 97
		case c >= 'A' && c <= 'Z':
			r = (r*100 + int(c-'A') + 10) % 97
		}
	}
	return r
}
