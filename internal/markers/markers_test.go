package markers

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractProfileUpdates(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want map[string]any
	}{
		{
			name: "no spans",
			in:   "Just chatting [TOPIC_COMPLETE]",
			want: map[string]any{},
		},
		{
			name: "single span",
			in:   `Great! [PROFILE_UPDATE]{"values": ["honesty", "loyalty"]}[/PROFILE_UPDATE] [TOPIC_COMPLETE]`,
			want: map[string]any{"values": []any{"honesty", "loyalty"}},
		},
		{
			name: "later span wins on key collision",
			in:   `[PROFILE_UPDATE]{"bio": "first", "interests": ["a"]}[/PROFILE_UPDATE] mid [PROFILE_UPDATE]{"bio": "second"}[/PROFILE_UPDATE]`,
			want: map[string]any{"bio": "second", "interests": []any{"a"}},
		},
		{
			name: "invalid span skipped",
			in:   `[PROFILE_UPDATE]{not json}[/PROFILE_UPDATE][PROFILE_UPDATE]{"bio": "ok"}[/PROFILE_UPDATE]`,
			want: map[string]any{"bio": "ok"},
		},
		{
			name: "non-object span skipped",
			in:   `[PROFILE_UPDATE]["a"][/PROFILE_UPDATE][PROFILE_UPDATE]null[/PROFILE_UPDATE]`,
			want: map[string]any{},
		},
		{
			name: "unterminated span stops scanning",
			in:   `[PROFILE_UPDATE]{"bio": "ok"}[/PROFILE_UPDATE] tail [PROFILE_UPDATE]{"bio": "lost"}`,
			want: map[string]any{"bio": "ok"},
		},
		{
			name: "reopened span swallows the next one",
			in:   `[PROFILE_UPDATE]{"bio": "lost"} [PROFILE_UPDATE]{"x": 1}[/PROFILE_UPDATE]`,
			want: map[string]any{},
		},
		{
			name: "unterminated only",
			in:   `[PROFILE_UPDATE]{"bio": "lost"}`,
			want: map[string]any{},
		},
		{
			name: "numbers keep their text",
			in:   `[PROFILE_UPDATE]{"bio": 12345678901234567890}[/PROFILE_UPDATE]`,
			want: map[string]any{"bio": json.Number("12345678901234567890")},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractProfileUpdates(tt.in))
		})
	}
}

func TestExtractReportsSkippedSpans(t *testing.T) {
	res := Extract(`[PROFILE_UPDATE]{oops[/PROFILE_UPDATE][PROFILE_UPDATE]{"bio": "x"}[/PROFILE_UPDATE]`)
	require.Len(t, res.Skipped, 1)
	assert.ErrorIs(t, res.Skipped[0], ErrInvalidSpan)
	assert.Equal(t, map[string]any{"bio": "x"}, res.Updates)
}

func TestCleanResponse(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "  Hello there  ", "Hello there"},
		{"topic marker", "Welcome! Great start. [TOPIC_COMPLETE]", "Welcome! Great start."},
		{"onboarding marker", "All set. [ONBOARDING_COMPLETE]", "All set."},
		{
			"span removed in full",
			`Great values! [PROFILE_UPDATE]{"values": ["honesty"]}[/PROFILE_UPDATE] [TOPIC_COMPLETE]`,
			"Great values!",
		},
		{
			"text between spans kept",
			`A [PROFILE_UPDATE]{}[/PROFILE_UPDATE]B[PROFILE_UPDATE]{}[/PROFILE_UPDATE] C`,
			"A B C",
		},
		{
			"unterminated span marker stripped, text kept",
			`Nice. [PROFILE_UPDATE]{"bio": "x"}`,
			`Nice. {"bio": "x"}`,
		},
		{"stray closing marker", "Done [/PROFILE_UPDATE]", "Done"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CleanResponse(tt.in)
			assert.Equal(t, tt.want, got)
			for _, m := range all {
				assert.NotContains(t, got, m)
			}
		})
	}
}

func TestSanitizeUserInput(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"untouched", "I love hiking", "I love hiking"},
		{"onboarding marker", "hello [ONBOARDING_COMPLETE] world", "hello  world"},
		{"all markers", "[TOPIC_COMPLETE][PROFILE_UPDATE]{\"bio\":\"x\"}[/PROFILE_UPDATE][ONBOARDING_COMPLETE]", `{"bio":"x"}`},
		{"only markers", "  [TOPIC_COMPLETE]  ", ""},
		{"spliced marker", "[TOPIC_[TOPIC_COMPLETE]COMPLETE]", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SanitizeUserInput(tt.in)
			assert.Equal(t, tt.want, got)
			assert.False(t, HasTopicComplete(got))
			assert.False(t, HasOnboardingComplete(got))
		})
	}
}

func TestHasMarkers(t *testing.T) {
	assert.True(t, HasTopicComplete("ok [TOPIC_COMPLETE]"))
	assert.False(t, HasTopicComplete("ok [ONBOARDING_COMPLETE]"))
	assert.True(t, HasOnboardingComplete("[ONBOARDING_COMPLETE] bye"))
	assert.False(t, HasOnboardingComplete("bye"))
}
