// Package markers handles the bracketed control markers the onboarding model
// embeds in its replies, and strips them from user-authored text.
package markers

import (
	"encoding/json"
	"errors"
	"strings"
)

const (
	TopicComplete      = "[TOPIC_COMPLETE]"
	OnboardingComplete = "[ONBOARDING_COMPLETE]"
	ProfileUpdateOpen  = "[PROFILE_UPDATE]"
	ProfileUpdateClose = "[/PROFILE_UPDATE]"
)

var all = []string{TopicComplete, OnboardingComplete, ProfileUpdateOpen, ProfileUpdateClose}

// ErrInvalidSpan is reported for a profile update span whose body is not a JSON object.
var ErrInvalidSpan = errors.New("profile update span is not a JSON object")

// Extraction is the result of scanning a model reply for profile update spans.
type Extraction struct {
	Updates map[string]any
	// Skipped holds one error per span that could not be decoded.
	Skipped []error
}

// ExtractProfileUpdates merges the JSON objects of every complete
// [PROFILE_UPDATE]...[/PROFILE_UPDATE] span, left to right; later keys win.
// Spans that do not decode to an object are skipped. Scanning stops at an
// opening marker with no closing marker after it.
func ExtractProfileUpdates(text string) map[string]any {
	return Extract(text).Updates
}

func Extract(text string) Extraction {
	result := Extraction{Updates: map[string]any{}}

	rest := text
	for {
		start := strings.Index(rest, ProfileUpdateOpen)
		if start == -1 {
			break
		}
		body := rest[start+len(ProfileUpdateOpen):]
		end := strings.Index(body, ProfileUpdateClose)
		if end == -1 {
			break
		}

		obj, err := decodeObject(body[:end])
		if err != nil {
			result.Skipped = append(result.Skipped, err)
		} else {
			for k, v := range obj {
				result.Updates[k] = v
			}
		}
		rest = body[end+len(ProfileUpdateClose):]
	}
	return result
}

func decodeObject(raw string) (map[string]any, error) {
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()

	var obj map[string]any
	if err := dec.Decode(&obj); err != nil {
		return nil, errors.Join(ErrInvalidSpan, err)
	}
	if dec.More() || obj == nil {
		return nil, ErrInvalidSpan
	}
	return obj, nil
}

// CleanResponse removes complete profile update spans and the remaining
// marker tokens, then trims surrounding whitespace.
func CleanResponse(text string) string {
	var b strings.Builder
	rest := text
	for {
		start := strings.Index(rest, ProfileUpdateOpen)
		if start == -1 {
			break
		}
		end := strings.Index(rest[start:], ProfileUpdateClose)
		if end == -1 {
			break
		}
		b.WriteString(rest[:start])
		rest = rest[start+end+len(ProfileUpdateClose):]
	}
	b.WriteString(rest)

	return strings.TrimSpace(stripAll(b.String()))
}

// SanitizeUserInput strips every control marker from user text so a user
// cannot forge topic or onboarding completion.
func SanitizeUserInput(text string) string {
	return strings.TrimSpace(stripAll(text))
}

// stripAll repeats until no marker remains, so removing one marker cannot
// splice a new one together from its neighbours.
func stripAll(text string) string {
	for {
		before := text
		for _, m := range all {
			text = strings.ReplaceAll(text, m, "")
		}
		if text == before {
			return text
		}
	}
}

func HasTopicComplete(text string) bool {
	return strings.Contains(text, TopicComplete)
}

func HasOnboardingComplete(text string) bool {
	return strings.Contains(text, OnboardingComplete)
}
