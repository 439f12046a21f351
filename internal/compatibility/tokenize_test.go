package compatibility

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want TokenSet
	}{
		{"empty", "", NewTokenSet()},
		{"lowercases", "Hiking", NewTokenSet("hiking")},
		{"whitespace", "  Direct and   open ", NewTokenSet("direct", "and", "open")},
		{"separators", "hiking,reading;cooking/art&music|travel", NewTokenSet("hiking", "reading", "cooking", "art", "music", "travel")},
		{"trims punctuation", "(honesty!) \"growth\".", NewTokenSet("honesty", "growth")},
		{"keeps inner hyphen", "Long-term relationship", NewTokenSet("long-term", "relationship")},
		{"drops pure punctuation", "-- ... !!", NewTokenSet()},
		{"unicode", "ÉCOLE Über", NewTokenSet("école", "über")},
		{"underscore is a word rune", "_snake_case_", NewTokenSet("_snake_case_")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Tokenize(tt.in))
		})
	}
}

func TestParseField(t *testing.T) {
	tests := []struct {
		name string
		raw  *string
		want TokenSet
	}{
		{"nil", nil, NewTokenSet()},
		{"empty string", strPtr(""), NewTokenSet()},
		{"json list", strPtr(`["Hiking", "Reading"]`), NewTokenSet("hiking", "reading")},
		{"json list padded items", strPtr(`["  hiking  ", " reading "]`), NewTokenSet("hiking", "reading")},
		{"json string", strPtr(`"Direct and open"`), NewTokenSet("direct", "and", "open")},
		{"json object values only", strPtr(`{"a": "Honesty", "b": "Growth"}`), NewTokenSet("honesty", "growth")},
		{"plain text", strPtr("Long-term relationship"), NewTokenSet("long-term", "relationship")},
		{"number scalar", strPtr("42"), NewTokenSet()},
		{"bool scalar", strPtr("true"), NewTokenSet()},
		{"null scalar", strPtr("null"), NewTokenSet()},
		{"trailing text after number", strPtr("42 years"), NewTokenSet("42", "years")},
		{"empty list", strPtr("[]"), NewTokenSet()},
		{"mixed list", strPtr(`["Hiking", 3, true, null, 1.5]`), NewTokenSet("hiking", "3", "true", "none", "1.5")},
		{"nested list", strPtr(`[["a", "b"]]`), NewTokenSet("a", "b")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseField(tt.raw))
		})
	}
}

func TestParseFieldMalformed(t *testing.T) {
	tokens, err := parseField(strPtr(`["hiking", "reading"`))
	require.ErrorIs(t, err, ErrMalformedField)
	assert.Equal(t, NewTokenSet("hiking", "reading"), tokens)

	tokens, err = parseField(strPtr("spontaneous, planned"))
	require.NoError(t, err)
	assert.Equal(t, NewTokenSet("spontaneous", "planned"), tokens)
}
