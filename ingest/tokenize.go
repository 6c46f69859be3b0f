package ingest

import (
	"regexp"
	"sort"
	"strings"
)

// Candidate words are runs of at least two letters. Numerals, punctuation
// and single-letter function words are discarded; a hyphen splits tokens.
var wordPattern = regexp.MustCompile(`[A-Za-z]{2,}`)

// Tokenize extracts the unique candidate words from free text, lower-cased
// and sorted lexicographically for deterministic downstream processing.
func Tokenize(text string) []string {
	matches := wordPattern.FindAllString(text, -1)
	if len(matches) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(matches))
	tokens := make([]string, 0, len(matches))
	for _, m := range matches {
		token := strings.ToLower(m)
		if _, ok := seen[token]; ok {
			continue
		}
		seen[token] = struct{}{}
		tokens = append(tokens, token)
	}
	sort.Strings(tokens)
	return tokens
}
