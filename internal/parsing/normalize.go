// Package parsing turns free text into normalized tokens ready for skill lookup.
package parsing

import (
	"strings"
	"unicode"

	"github.com/kljensen/snowball/english"
	"go.uber.org/zap"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// AliasTable resolves surface forms to canonical skills. Phrases returns the
// multi-word keys in sorted order.
type AliasTable interface {
	Canonical(key string) (string, bool)
	Phrases() []string
}

// Normalizer lowercases, cleans and tokenizes text, applies aliases and drops
// stop-words and boilerplate buzzwords.
type Normalizer struct {
	buzzwords map[string]struct{}
	logger    *zap.Logger
}

// Option configures a Normalizer.
type Option func(*Normalizer)

// WithLogger sets the logger used to flag malformed input.
func WithLogger(logger *zap.Logger) Option {
	return func(n *Normalizer) {
		if logger != nil {
			n.logger = logger
		}
	}
}

// NewNormalizer returns a Normalizer with the default buzzword list.
func NewNormalizer(opts ...Option) *Normalizer {
	n := &Normalizer{
		buzzwords: make(map[string]struct{}, len(defaultBuzzwords)),
		logger:    zap.NewNop(),
	}
	for _, w := range defaultBuzzwords {
		n.buzzwords[CleanKey(w)] = struct{}{}
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Normalize returns the ordered token sequence for text. Phrase aliases found in
// the token stream append their canonical form; single-token aliases replace
// the token. aliases may be nil.
func (n *Normalizer) Normalize(text string, aliases AliasTable) []string {
	tokens := strings.Fields(clean(text))
	if len(tokens) == 0 {
		return []string{}
	}

	if aliases != nil {
		joined := strings.Join(tokens, " ")
		for _, phrase := range aliases.Phrases() {
			if !strings.Contains(joined, phrase) {
				continue
			}
			if canonical, ok := aliases.Canonical(phrase); ok {
				tokens = append(tokens, canonical)
			}
		}
		for i, tok := range tokens {
			if canonical, ok := aliases.Canonical(tok); ok {
				tokens[i] = canonical
			}
		}
	}

	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if n.drop(tok) {
			continue
		}
		out = append(out, tok)
	}
	return out
}

// NormalizeValue normalizes a decoded value of unknown type. Anything other
// than a string is malformed input: it is logged and yields no tokens.
func (n *Normalizer) NormalizeValue(v any, aliases AliasTable) []string {
	text, ok := v.(string)
	if !ok {
		n.logger.Warn("input text is not a string", zap.Any("value", v))
		return []string{}
	}
	return n.Normalize(text, aliases)
}

func (n *Normalizer) drop(tok string) bool {
	if english.IsStopWord(tok) {
		return true
	}
	if _, ok := n.buzzwords[tok]; ok {
		return true
	}
	// numbers, "5+", lone "+" or "#"
	return strings.IndexFunc(tok, unicode.IsLetter) < 0
}

// CleanKey applies the same cleaning as Normalize to a single key and
// collapses whitespace, without alias or stop-word handling.
func CleanKey(s string) string {
	return strings.Join(strings.Fields(clean(s)), " ")
}

// clean folds accents, lowercases and keeps only letters, digits, '+', '#' and spaces.
func clean(text string) string {
	if text == "" {
		return ""
	}
	folder := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(folder, text)
	if err != nil {
		folded = text
	}

	var sb strings.Builder
	sb.Grow(len(folded))
	for _, r := range strings.ToLower(folded) {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '+', r == '#':
			sb.WriteRune(r)
		case unicode.IsSpace(r):
			sb.WriteByte(' ')
		}
	}
	return sb.String()
}
