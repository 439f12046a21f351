package onboarding

import (
	"fmt"
	"strings"

	"github.com/gdugdh24/mutual-backend/internal/domain"
	"github.com/gdugdh24/mutual-backend/internal/markers"
)

const systemPromptTemplate = `You are Mutual, a friendly AI on a dating app getting to know the user so we can find people they will click with.
You are an AI, not a person; never pretend otherwise. Be warm and curious, ask one question at a time, keep replies short.

Current topic: %s
%s

Topics in order: %s.

When the current topic has been explored (usually after 2-3 exchanges), move on naturally and put [TOPIC_COMPLETE] at the end of your message.
When the summary is done, put [ONBOARDING_COMPLETE] at the end instead.

Whenever you learn something for the profile, include it as JSON between markers:
[PROFILE_UPDATE]{"key": "value"}[/PROFILE_UPDATE]
List keys: values, interests, personality_traits, deal_breakers, life_goals, conversation_highlights.
String keys: relationship_goals, communication_style, bio, dating_style.
Never mention these markers to the user.
%s`

// BuildSystemPrompt renders the instructions for one turn: the topic block
// plus what is already known about the user, so the model does not re-ask it.
func BuildSystemPrompt(topic string, user *domain.User, profile *domain.Profile) string {
	guidance := topicGuidance[topic]
	return fmt.Sprintf(systemPromptTemplate,
		topic, guidance, strings.Join(Topics, ", "), knownFacts(user, profile))
}

func knownFacts(user *domain.User, profile *domain.Profile) string {
	var lines []string
	add := func(label string, value *string) {
		if value == nil {
			return
		}
		if v := markers.SanitizeUserInput(*value); v != "" {
			lines = append(lines, fmt.Sprintf("- %s: %s", label, v))
		}
	}
	addList := func(label string, values []string) {
		if len(values) == 0 {
			return
		}
		joined := strings.Join(values, ", ")
		add(label, &joined)
	}

	if user != nil {
		firstName := user.FirstName()
		if user.DisplayName != nil {
			add("Name", &firstName)
		}
		if age := user.Age(); age > 0 {
			lines = append(lines, fmt.Sprintf("- Age: %d", age))
		}
		add("Gender", user.Gender)
		add("Location", user.Location)
		add("Home town", user.HomeTown)
		add("Job", user.JobTitle)
		add("College", user.CollegeUniversity)
		add("Education", user.EducationLevel)
		addList("Languages", user.Languages)
		add("Religion", user.Religion)
		add("Drinking", user.Drinking)
		add("Smoking", user.Smoking)
		add("Looking for", user.RelationshipGoal)
	}

	var gathered []string
	for _, f := range domain.CompletenessFields {
		if profile.Get(f) != nil {
			gathered = append(gathered, f)
		}
	}
	if len(gathered) > 0 {
		lines = append(lines, "- Profile fields already gathered: "+strings.Join(gathered, ", "))
	}

	if len(lines) == 0 {
		return ""
	}
	return "\nAlready known about the user (do not ask again):\n" + strings.Join(lines, "\n")
}
