// Package search does the in-memory matching used to filter catalog results.
// Results are filtered over the full fetched set; nothing is delegated to the
// backend, which caps this at small catalogs.
package search

import (
	"strings"
	"unicode"

	ahocorasick "github.com/petar-dambovaliev/aho-corasick"
	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize folds case and strips diacritics, so "Ação" and "acao" compare equal.
func Normalize(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return cases.Fold().String(strings.TrimSpace(out))
}

// Contains reports whether needle occurs in haystack after normalization.
// An empty needle matches everything.
func Contains(haystack, needle string) bool {
	n := Normalize(needle)
	if n == "" {
		return true
	}
	return strings.Contains(Normalize(haystack), n)
}

// Matcher matches text containing every term of a query.
type Matcher struct {
	terms []string
	ac    ahocorasick.AhoCorasick
}

// NewMatcher splits query into normalized terms. An empty query matches everything.
func NewMatcher(query string) *Matcher {
	seen := make(map[string]struct{})
	var terms []string
	for _, term := range strings.Fields(Normalize(query)) {
		if _, ok := seen[term]; ok {
			continue
		}
		seen[term] = struct{}{}
		terms = append(terms, term)
	}
	m := &Matcher{terms: terms}
	if len(terms) == 0 {
		return m
	}
	builder := ahocorasick.NewAhoCorasickBuilder(ahocorasick.Opts{
		AsciiCaseInsensitive: true,
		MatchOnlyWholeWords:  false,
		MatchKind:            ahocorasick.LeftMostLongestMatch,
		DFA:                  true,
	})
	m.ac = builder.Build(terms)
	return m
}

// Terms returns the normalized query terms.
func (m *Matcher) Terms() []string {
	return m.terms
}

// Match reports whether text contains all query terms.
func (m *Matcher) Match(text string) bool {
	if len(m.terms) == 0 {
		return true
	}
	haystack := Normalize(text)
	found := make([]bool, len(m.terms))
	count := 0
	for _, match := range m.ac.FindAll(haystack) {
		if p := match.Pattern(); !found[p] {
			found[p] = true
			count++
		}
	}
	if count == len(m.terms) {
		return true
	}
	// FindAll reports non-overlapping matches only; terms overlapping another
	// match are confirmed directly.
	for i, term := range m.terms {
		if !found[i] && !strings.Contains(haystack, term) {
			return false
		}
	}
	return true
}
