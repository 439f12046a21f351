package onboarding

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/gdugdh24/mutual-backend/internal/domain"
)

const (
	maxListItems   = 20
	maxItemRunes   = 200
	maxStringRunes = 2000
)

var listFields = map[string]bool{
	domain.FieldValues:                 true,
	domain.FieldInterests:              true,
	domain.FieldPersonalityTraits:      true,
	domain.FieldDealBreakers:           true,
	domain.FieldLifeGoals:              true,
	domain.FieldConversationHighlights: true,
}

var stringFields = map[string]bool{
	domain.FieldRelationshipGoals:  true,
	domain.FieldCommunicationStyle: true,
	domain.FieldBio:                true,
	domain.FieldDatingStyle:        true,
}

// ApplyProfileUpdates writes the recognised keys of updates onto p after
// coercing and bounding their values, and recomputes completeness. List
// fields are stored as JSON arrays, string fields as plain text. Unknown keys,
// nulls and values of the wrong shape are ignored. It reports whether any
// field was written.
func ApplyProfileUpdates(p *domain.Profile, updates map[string]any) bool {
	if len(updates) == 0 {
		return false
	}

	dirty := false
	for key, raw := range updates {
		if raw == nil {
			continue
		}
		var value string
		var ok bool
		switch {
		case listFields[key]:
			value, ok = coerceList(raw)
		case stringFields[key]:
			value, ok = coerceString(raw)
		default:
			continue
		}
		if !ok {
			continue
		}
		v := value
		*p.Field(key) = &v
		dirty = true
	}

	p.RecomputeCompleteness()
	return dirty
}

// coerceList accepts a JSON array or a single string and returns the
// encoded, bounded list. Non-string items are stringified, nulls and blanks dropped.
func coerceList(raw any) (string, bool) {
	var items []any
	switch v := raw.(type) {
	case []any:
		items = v
	case string:
		items = []any{v}
	default:
		return "", false
	}

	out := make([]string, 0, len(items))
	for _, item := range items {
		if len(out) == maxListItems {
			break
		}
		if item == nil {
			continue
		}
		s := strings.TrimSpace(stringify(item))
		if s == "" {
			continue
		}
		out = append(out, truncateRunes(s, maxItemRunes))
	}
	if len(out) == 0 {
		return "", false
	}

	encoded, err := encodeJSON(out)
	if err != nil {
		return "", false
	}
	return encoded, true
}

// coerceString accepts a string, a list (joined with ", ") or another scalar.
func coerceString(raw any) (string, bool) {
	var s string
	switch v := raw.(type) {
	case map[string]any:
		return "", false
	case []any:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			if item == nil {
				continue
			}
			if part := strings.TrimSpace(stringify(item)); part != "" {
				parts = append(parts, part)
			}
		}
		s = strings.Join(parts, ", ")
	default:
		s = stringify(v)
	}

	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	return truncateRunes(s, maxStringRunes), true
}

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
	}
	s, err := encodeJSON(v)
	if err != nil {
		return ""
	}
	return s
}

func encodeJSON(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

func truncateRunes(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit])
}
