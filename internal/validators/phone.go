package validators

import "strings"

// NormalizePhone mantém só os dígitos. Aceita de 10 (fixo com DDD) a 13
// dígitos (com código do país).
func NormalizePhone(raw string) (string, bool) {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}

	digits := b.String()
	if len(digits) < 10 || len(digits) > 13 {
		return digits, false
	}
	return digits, true
}
