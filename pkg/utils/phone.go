package utils

import "strings"

// NormalizePhone turns a raw phone string into the canonical dialable form
// used everywhere in the campaign tables: digits only, Brazilian country
// code included. Local 10/11-digit numbers get the 55 prefix; anything that
// does not end up 12 or 13 digits long is rejected and the lead must be
// discarded.
func NormalizePhone(raw string) (string, bool) {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()

	if len(digits) == 10 || len(digits) == 11 {
		digits = "55" + digits
	}
	if len(digits) != 12 && len(digits) != 13 {
		return "", false
	}
	return digits, true
}
