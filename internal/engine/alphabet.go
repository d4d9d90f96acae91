package engine

// MaxAlphabetSize is the number of lowercase Latin letters.
const MaxAlphabetSize = 26

// SymbolIndex maps a letter to its table index ('a' → 0, 'b' → 1, ...).
// It reports false for anything outside the first alphabetSize letters.
func SymbolIndex(r rune, alphabetSize int) (int, bool) {
	idx := int(r - 'a')
	if r < 'a' || idx >= alphabetSize || idx >= MaxAlphabetSize {
		return Absent, false
	}
	return idx, true
}

// SymbolName returns the letter for a table index, or "?" when the index
// is outside the Latin alphabet.
func SymbolName(index int) string {
	if index < 0 || index >= MaxAlphabetSize {
		return "?"
	}
	return string(rune('a' + index))
}
