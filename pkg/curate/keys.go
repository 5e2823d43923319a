package curate

import (
	"path/filepath"
	"regexp"
	"strings"
)

// tokenSplit breaks a basename into candidate tokens. Any run of
// non-alphabetic characters separates tokens.
var tokenSplit = regexp.MustCompile(`[^a-zA-Z]+`)

// SpeciesKey derives the grouping key for a filename. The base name is
// stripped of its extension, lowercased, and tokenized; stopwords are
// dropped and the first token found in the animal vocabulary wins.
// Files with no recognized animal token fall back to their first
// remaining token, then to the whole lowercased base name.
func SpeciesKey(filename string, vocab *Vocabulary) string {
	base := filepath.Base(filename)
	base = strings.ToLower(strings.TrimSuffix(base, filepath.Ext(base)))

	var tokens []string
	for _, t := range tokenSplit.Split(base, -1) {
		if t == "" || vocab.IsStopword(t) {
			continue
		}
		tokens = append(tokens, t)
	}

	for _, t := range tokens {
		if vocab.IsAnimal(t) {
			return t
		}
	}
	if len(tokens) > 0 {
		return tokens[0]
	}
	return base
}
