// internal/matching/letters.go
package matching

import "unicode"

const (
	vowelLetters     = "aeiouy"
	consonantLetters = "bcdfghjklmnpqrstvwxz"
)

type letterClass uint8

const (
	classOther letterClass = iota
	classVowel
	classConsonant
)

// alphabet is the immutable lookup table used by Classify. It is built once at
// package init and never written afterwards.
var alphabet = newLetterTable(vowelLetters, consonantLetters)

type letterTable [unicode.MaxASCII + 1]letterClass

func newLetterTable(vowels, consonants string) letterTable {
	var t letterTable
	for _, r := range consonants {
		t[r] = classConsonant
	}
	// vowels are checked first, so they win on overlap
	for _, r := range vowels {
		t[r] = classVowel
	}
	return t
}

func (t *letterTable) classify(r rune) letterClass {
	r = unicode.ToLower(r)
	if r < 0 || r > unicode.MaxASCII {
		return classOther
	}
	return t[r]
}

// Profile holds the letter statistics of a single customer or product name.
type Profile struct {
	Name           string
	LetterCount    int
	VowelCount     int
	ConsonantCount int

	divisors []int
}

// Classify counts the vowels and consonants of name, case-insensitively.
// Characters outside both sets are skipped.
func Classify(name string) Profile {
	p := Profile{Name: name}
	for _, r := range name {
		switch alphabet.classify(r) {
		case classVowel:
			p.VowelCount++
		case classConsonant:
			p.ConsonantCount++
		}
	}
	p.LetterCount = p.VowelCount + p.ConsonantCount
	p.divisors = properDivisors(p.LetterCount)
	return p
}

// IsEven reports whether the letter count is even. Zero counts as even.
func (p Profile) IsEven() bool {
	return p.LetterCount%2 == 0
}

// ProperDivisors returns the divisors of LetterCount in [2, LetterCount],
// ascending. The returned slice is a copy.
func (p Profile) ProperDivisors() []int {
	out := make([]int, len(p.divisors))
	copy(out, p.divisors)
	return out
}

// SharesDivisor reports whether the two profiles have a proper divisor in common.
func (p Profile) SharesDivisor(other Profile) bool {
	// both slices are sorted ascending
	i, j := 0, 0
	for i < len(p.divisors) && j < len(other.divisors) {
		switch {
		case p.divisors[i] == other.divisors[j]:
			return true
		case p.divisors[i] < other.divisors[j]:
			i++
		default:
			j++
		}
	}
	return false
}

func properDivisors(n int) []int {
	if n <= 1 {
		return nil
	}
	var out []int
	for f := 2; f <= n; f++ {
		if n%f == 0 {
			out = append(out, f)
		}
	}
	return out
}
