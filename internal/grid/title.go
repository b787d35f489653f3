package grid

import "slices"

// Alphabet is the ordered symbol table used to derive column titles.
type Alphabet string

const (
	// DefaultAlphabet is the conventional A to Z table.
	DefaultAlphabet Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

	// LegacyAlphabet is the table of earlier releases, where U and V are
	// swapped. LegacyTitle pairs it with their numbering rule.
	LegacyAlphabet Alphabet = "ABCDEFGHIJKLMNOPQRSTVUWXYZ"
)

// Valid reports whether the alphabet has at least two distinct symbols.
func (a Alphabet) Valid() bool {
	symbols := []rune(a)
	if len(symbols) < 2 {
		return false
	}
	seen := make(map[rune]bool, len(symbols))
	for _, r := range symbols {
		if seen[r] {
			return false
		}
		seen[r] = true
	}
	return true
}

// Title returns the title for a zero-based column position using bijective
// numbering: A, B, ..., Z, AA, AB, ... for a 26 symbol table.
// Negative positions have no title.
func (a Alphabet) Title(pos int) string {
	if pos < 0 {
		return ""
	}
	symbols := []rune(a)
	base := len(symbols)

	var out []rune
	for n := pos + 1; n > 0; n = (n - 1) / base {
		out = append(out, symbols[(n-1)%base])
	}
	slices.Reverse(out)
	return string(out)
}

// Positional returns the title for pos written as a plain base-N number,
// with the first symbol as zero: for A to Z, 25 is Z and 26 is BA.
// Negative positions have no title.
func (a Alphabet) Positional(pos int) string {
	if pos < 0 {
		return ""
	}
	symbols := []rune(a)
	base := len(symbols)

	out := []rune{symbols[pos%base]}
	for n := pos / base; n > 0; n /= base {
		out = append(out, symbols[n%base])
	}
	slices.Reverse(out)
	return string(out)
}

// LegacyTitle returns the title earlier releases gave the column at pos:
// LegacyAlphabet read as a positional number, so Z is followed by BA.
func LegacyTitle(pos int) string {
	return LegacyAlphabet.Positional(pos)
}

// TitleFor returns the DefaultAlphabet title for a column position.
func TitleFor(pos int) string {
	return DefaultAlphabet.Title(pos)
}
