// Package compatibility scores how well two profiles agree across their
// personality dimensions using token-set (Jaccard) similarity.
package compatibility

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// TokenSet is an unordered set of lowercase word tokens.
type TokenSet map[string]struct{}

func NewTokenSet(tokens ...string) TokenSet {
	s := make(TokenSet, len(tokens))
	for _, t := range tokens {
		s[t] = struct{}{}
	}
	return s
}

func (s TokenSet) Has(token string) bool {
	_, ok := s[token]
	return ok
}

func (s TokenSet) union(other TokenSet) {
	for t := range other {
		s[t] = struct{}{}
	}
}

var lower = cases.Lower(language.Und)

func isSeparator(r rune) bool {
	switch r {
	case ',', ';', '/', '&', '|':
		return true
	}
	return unicode.IsSpace(r)
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// Tokenize lowercases text, splits it on whitespace and , ; / & | and trims
// non-word characters from both ends of every piece.
func Tokenize(text string) TokenSet {
	tokens := make(TokenSet)
	for _, piece := range strings.FieldsFunc(lower.String(text), isSeparator) {
		piece = strings.TrimFunc(piece, func(r rune) bool { return !isWordRune(r) })
		if piece != "" {
			tokens[piece] = struct{}{}
		}
	}
	return tokens
}

// ErrMalformedField is reported when a value looks like JSON but does not decode.
var ErrMalformedField = errors.New("malformed structured field")

// ParseField turns a stored dimension value into its token set. It never
// fails: values that are not valid JSON are tokenized as plain text.
func ParseField(raw *string) TokenSet {
	tokens, _ := parseField(raw)
	return tokens
}

func parseField(raw *string) (TokenSet, error) {
	if raw == nil || *raw == "" {
		return TokenSet{}, nil
	}

	var decoded any
	dec := json.NewDecoder(strings.NewReader(*raw))
	dec.UseNumber()
	if err := dec.Decode(&decoded); err != nil || dec.More() {
		var malformed error
		if looksStructured(*raw) {
			malformed = ErrMalformedField
		}
		return Tokenize(*raw), malformed
	}

	switch v := decoded.(type) {
	case []any:
		tokens := make(TokenSet)
		for _, item := range v {
			tokens.union(Tokenize(stringify(item)))
		}
		return tokens, nil
	case map[string]any:
		tokens := make(TokenSet)
		for _, item := range v {
			tokens.union(Tokenize(stringify(item)))
		}
		return tokens, nil
	case string:
		return Tokenize(v), nil
	}
	return TokenSet{}, nil
}

func looksStructured(raw string) bool {
	trimmed := strings.TrimSpace(raw)
	return strings.HasPrefix(trimmed, "[") || strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, `"`)
}

// stringify renders a decoded JSON value as text for tokenization.
func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case nil:
		return "none"
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return ""
	}
	return strings.TrimSpace(buf.String())
}
