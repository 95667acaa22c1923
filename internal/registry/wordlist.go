package registry

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Key sets accepted for the two word-list documents. The files historically
// came in several shapes (a bare list, or a mapping under one of these keys),
// so all of them are accepted.
var (
	LexiconKeys   = []string{"words", "terms", "slurs", "deny", "denylist"}
	AllowlistKeys = []string{"words", "allow", "allowlist"}
)

// WordList defines the interface for term-list matching
//
//go:generate mockgen -source=wordlist.go -destination=../mocks/wordlist.go -package=mocks -mock_names=WordList=MockWordList
type WordList interface {
	// ContainsAny reports whether any term appears as a substring of text
	// (case-insensitive)
	ContainsAny(text string) bool

	// MatchesWord reports whether any term appears as a whole word in text
	// (case-insensitive)
	MatchesWord(text string) bool

	// Len returns the number of loaded terms
	Len() int
}

// wordList is the internal implementation of WordList
type wordList struct {
	words  []string
	wordRe *regexp.Regexp
}

// LoadWordList loads a word list from a YAML file. A missing file yields an
// empty list, not an error: callers decide whether empty means disabled
// (allow list) or fail-closed (lexicon fallback).
func LoadWordList(path string, keys []string) (WordList, error) {
	if path == "" {
		return &wordList{}, nil
	}

	data, err := os.ReadFile(path) //nolint:gosec,G304 // This should be a trusted file
	if err != nil {
		if os.IsNotExist(err) {
			return &wordList{}, nil
		}
		return nil, fmt.Errorf("failed to read word list file: %w", err)
	}

	var doc interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse word list YAML: %w", err)
	}

	seen := make(map[string]bool)
	var words []string
	add := func(items []interface{}) {
		for _, item := range items {
			w := strings.ToLower(strings.TrimSpace(fmt.Sprintf("%v", item)))
			if w != "" && !seen[w] {
				seen[w] = true
				words = append(words, w)
			}
		}
	}

	switch v := doc.(type) {
	case []interface{}:
		add(v)
	case map[string]interface{}:
		for _, key := range keys {
			if items, ok := v[key].([]interface{}); ok {
				add(items)
			}
		}
	}
	sort.Strings(words)

	wl := &wordList{words: words}
	if len(words) > 0 {
		escaped := make([]string, len(words))
		for i, w := range words {
			escaped[i] = regexp.QuoteMeta(w)
		}
		wl.wordRe, err = regexp.Compile(`(?i)\b(?:` + strings.Join(escaped, "|") + `)\b`)
		if err != nil {
			return nil, fmt.Errorf("failed to compile word list pattern: %w", err)
		}
	}

	return wl, nil
}

// ContainsAny reports whether any term appears as a substring of text
func (w *wordList) ContainsAny(text string) bool {
	if w == nil || len(w.words) == 0 || text == "" {
		return false
	}
	t := strings.ToLower(text)
	for _, word := range w.words {
		if strings.Contains(t, word) {
			return true
		}
	}
	return false
}

// MatchesWord reports whether any term appears as a whole word in text
func (w *wordList) MatchesWord(text string) bool {
	if w == nil || w.wordRe == nil || text == "" {
		return false
	}
	return w.wordRe.MatchString(text)
}

// Len returns the number of loaded terms
func (w *wordList) Len() int {
	if w == nil {
		return 0
	}
	return len(w.words)
}
