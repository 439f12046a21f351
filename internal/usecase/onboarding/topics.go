package onboarding

// Topics is the fixed order the onboarding conversation walks through.
var Topics = []string{
	"greeting",
	"interests",
	"deeper_interests",
	"relationship_goals",
	"dating_style",
	"life_goals",
	"communication_style",
	"summary",
}

func FirstTopic() string {
	return Topics[0]
}

// NextTopic returns the topic after current. The last topic, and any name
// outside the list, map to themselves.
func NextTopic(current string) string {
	for i, t := range Topics {
		if t == current {
			if i+1 < len(Topics) {
				return Topics[i+1]
			}
			return current
		}
	}
	return current
}

var topicGuidance = map[string]string{
	"greeting": "Welcome them warmly and get them talking about anything they like: hobbies, shows, food, places. " +
		"Keep it light.",
	"interests": "Explore their hobbies and passions and how they spend free time. " +
		"Extract \"interests\" as a list.",
	"deeper_interests": "Dig into why those interests matter to them and what that says about them. " +
		"Extract \"values\", \"personality_traits\" and \"conversation_highlights\" as lists.",
	"relationship_goals": "Ask what they are looking for in a partner and a relationship, and what would be a deal breaker. " +
		"Extract \"relationship_goals\" as a string and \"deal_breakers\" as a list.",
	"dating_style": "Ask how they like to date: first dates, pace, planned or spontaneous. " +
		"Extract \"dating_style\" as a string.",
	"life_goals": "Ask where they want their life to go in the next few years. " +
		"Extract \"life_goals\" as a list.",
	"communication_style": "Ask how they prefer to communicate and handle disagreements in a relationship. " +
		"Extract \"communication_style\" as a string.",
	"summary": "Summarise what you learned in a few warm sentences and tell them their profile is ready. " +
		"Extract \"bio\" as a short summary string.",
}
