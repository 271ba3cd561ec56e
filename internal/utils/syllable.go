package utils

import "strings"

// IsSyllabic reports whether s consists only of lowercase ASCII letters,
// the alphabet of a romanized syllable buffer.
func IsSyllabic(s string) bool {
	if len(s) == 0 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < 'a' || s[i] > 'z' {
			return false
		}
	}
	return true
}

// IsSyllableRune reports whether r can extend a syllable buffer.
// Uppercase input is accepted and folded by NormalizeSyllables.
func IsSyllableRune(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

// NormalizeSyllables folds a romanized key to its canonical form:
// lowercase with all separator spaces removed.
func NormalizeSyllables(s string) string {
	return strings.ToLower(strings.ReplaceAll(s, " ", ""))
}
