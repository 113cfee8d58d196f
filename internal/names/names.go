// Package names generates pronounceable competitor names.
package names

import (
	"fmt"

	"dice-league/internal/constants"
	"dice-league/internal/domain"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	consonants = "qwrtypsdfghjklzxcvbnm"
	vowels     = "euioa"
	minLetters = 4
	maxLetters = 7
)

// Generate alternates vowels and consonants, occasionally repeating a
// class, for 4 to 7 letters.
func Generate(rng domain.Rand) string {
	nextVowel := rng.Intn(4) != 0
	length := minLetters + rng.Intn(maxLetters-minLetters+1)

	letters := make([]byte, 0, length)
	for i := 0; i < length; i++ {
		if rng.Intn(10) != 0 {
			nextVowel = !nextVowel
		}
		pool := consonants
		if nextVowel {
			pool = vowels
		}
		letters = append(letters, pool[rng.Intn(len(pool))])
	}
	return cases.Title(language.English).String(string(letters))
}

// Unique draws names until taken reports false. After too many collisions a
// numeric suffix is appended.
func Unique(rng domain.Rand, taken func(string) bool) string {
	var name string
	for i := 0; i < constants.MaxNameAttempts; i++ {
		name = Generate(rng)
		if !taken(name) {
			return name
		}
	}
	for n := 2; ; n++ {
		candidate := fmt.Sprintf("%s %d", name, n)
		if !taken(candidate) {
			return candidate
		}
	}
}
