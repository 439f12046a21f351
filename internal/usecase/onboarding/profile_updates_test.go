package onboarding

import (
	"encoding/json"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/gdugdh24/mutual-backend/internal/domain"
	"github.com/gdugdh24/mutual-backend/internal/markers"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeList(t *testing.T, raw *string) []string {
	t.Helper()
	require.NotNil(t, raw)
	var out []string
	require.NoError(t, json.Unmarshal([]byte(*raw), &out))
	return out
}

func TestApplyProfileUpdates(t *testing.T) {
	tests := []struct {
		name    string
		updates string
		check   func(t *testing.T, p *domain.Profile)
	}{
		{
			name:    "list field stored as json array",
			updates: `{"interests": ["hiking", "jazz"]}`,
			check: func(t *testing.T, p *domain.Profile) {
				assert.Equal(t, []string{"hiking", "jazz"}, decodeList(t, p.Interests))
			},
		},
		{
			name:    "single string for list field",
			updates: `{"values": "honesty"}`,
			check: func(t *testing.T, p *domain.Profile) {
				assert.Equal(t, []string{"honesty"}, decodeList(t, p.Values))
			},
		},
		{
			name:    "list items stringified and blanks dropped",
			updates: `{"life_goals": ["travel", 3, null, "  ", true]}`,
			check: func(t *testing.T, p *domain.Profile) {
				assert.Equal(t, []string{"travel", "3", "true"}, decodeList(t, p.LifeGoals))
			},
		},
		{
			name:    "string field stored as text",
			updates: `{"relationship_goals": "something serious"}`,
			check: func(t *testing.T, p *domain.Profile) {
				require.NotNil(t, p.RelationshipGoals)
				assert.Equal(t, "something serious", *p.RelationshipGoals)
			},
		},
		{
			name:    "list for string field is joined",
			updates: `{"communication_style": ["direct", "warm"]}`,
			check: func(t *testing.T, p *domain.Profile) {
				require.NotNil(t, p.CommunicationStyle)
				assert.Equal(t, "direct, warm", *p.CommunicationStyle)
			},
		},
		{
			name:    "unknown keys and wrong shapes ignored",
			updates: `{"favorite_color": "blue", "bio": {"a": 1}, "interests": 5, "dating_style": null}`,
			check: func(t *testing.T, p *domain.Profile) {
				assert.Nil(t, p.Bio)
				assert.Nil(t, p.Interests)
				assert.Nil(t, p.DatingStyle)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := domain.NewProfile(uuid.New())
			tt.check(t, applyRaw(t, p, tt.updates))
		})
	}
}

func applyRaw(t *testing.T, p *domain.Profile, body string) *domain.Profile {
	t.Helper()
	updates := markers.ExtractProfileUpdates(markers.ProfileUpdateOpen + body + markers.ProfileUpdateClose)
	ApplyProfileUpdates(p, updates)
	return p
}

func TestApplyProfileUpdatesBounds(t *testing.T) {
	items := make([]string, 30)
	for i := range items {
		items[i] = strings.Repeat("x", 300)
	}
	body, err := json.Marshal(map[string]any{
		"interests": items,
		"bio":       strings.Repeat("é", 2500),
	})
	require.NoError(t, err)

	p := applyRaw(t, domain.NewProfile(uuid.New()), string(body))

	list := decodeList(t, p.Interests)
	assert.Len(t, list, maxListItems)
	assert.Equal(t, maxItemRunes, utf8.RuneCountInString(list[0]))
	require.NotNil(t, p.Bio)
	assert.Equal(t, maxStringRunes, utf8.RuneCountInString(*p.Bio))
}

func TestApplyProfileUpdatesCompleteness(t *testing.T) {
	p := domain.NewProfile(uuid.New())

	assert.False(t, ApplyProfileUpdates(p, nil))
	assert.False(t, ApplyProfileUpdates(p, map[string]any{"unknown": "x"}))
	assert.Zero(t, p.ProfileCompleteness)

	assert.True(t, ApplyProfileUpdates(p, map[string]any{"bio": "hi", "interests": []any{"a"}}))
	assert.InDelta(t, 0.2, p.ProfileCompleteness, 1e-9)

	assert.True(t, ApplyProfileUpdates(p, map[string]any{"bio": "hello"}))
	assert.Equal(t, "hello", *p.Bio)
	assert.InDelta(t, 0.2, p.ProfileCompleteness, 1e-9)
}

func TestCompletenessOverCustomFieldSet(t *testing.T) {
	sixFields := []string{"bio", "interests", "values", "personality_traits", "relationship_goals", "communication_style"}
	p := domain.NewProfile(uuid.New())

	require.True(t, ApplyProfileUpdates(p, map[string]any{
		"bio":       "x",
		"interests": []any{"a"},
		"values":    []any{"b"},
	}))
	assert.Equal(t, 0.5, domain.Completeness(p, sixFields))
	assert.Equal(t, 0.3, p.ProfileCompleteness)
}

func TestNextTopic(t *testing.T) {
	assert.Equal(t, "greeting", FirstTopic())
	for i := 0; i < len(Topics)-1; i++ {
		assert.Equal(t, Topics[i+1], NextTopic(Topics[i]))
	}
	assert.Equal(t, "summary", NextTopic("summary"))
	assert.Equal(t, "made_up", NextTopic("made_up"))
}

func TestEveryTopicHasGuidance(t *testing.T) {
	for _, topic := range Topics {
		assert.NotEmpty(t, topicGuidance[topic], topic)
	}
}

func TestBuildSystemPrompt(t *testing.T) {
	name := "Sam [TOPIC_COMPLETE] Lee"
	job := "Nurse"
	user := &domain.User{DisplayName: &name, JobTitle: &job}
	profile := domain.NewProfile(user.ID)
	interests := `["chess"]`
	profile.Interests = &interests

	prompt := BuildSystemPrompt("dating_style", user, profile)

	assert.Contains(t, prompt, "Current topic: dating_style")
	assert.Contains(t, prompt, topicGuidance["dating_style"])
	assert.Contains(t, prompt, "- Name: Sam")
	assert.Contains(t, prompt, "- Job: Nurse")
	assert.Contains(t, prompt, "Profile fields already gathered: interests")
	assert.Equal(t, 1, strings.Count(prompt, markers.TopicComplete))
}

func TestBuildSystemPromptWithoutFacts(t *testing.T) {
	prompt := BuildSystemPrompt("greeting", &domain.User{}, nil)
	assert.NotContains(t, prompt, "Already known")
}
