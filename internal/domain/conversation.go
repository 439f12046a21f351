package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type OnboardingStatus string

const (
	OnboardingInProgress OnboardingStatus = "in_progress"
	OnboardingCompleted  OnboardingStatus = "completed"
)

type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

// ConversationState is the per-user onboarding pointer. Exactly one row per user.
type ConversationState struct {
	ID               uuid.UUID        `json:"id" db:"id"`
	UserID           uuid.UUID        `json:"user_id" db:"user_id"`
	CurrentTopic     string           `json:"current_topic" db:"current_topic"`
	TopicsCompleted  pq.StringArray   `json:"topics_completed" db:"topics_completed"`
	OnboardingStatus OnboardingStatus `json:"onboarding_status" db:"onboarding_status"`
	UpdatedAt        time.Time        `json:"updated_at" db:"updated_at"`
}

func (s *ConversationState) IsCompleted() bool {
	return s.OnboardingStatus == OnboardingCompleted
}

// MarkTopicCompleted appends topic unless it is already recorded.
func (s *ConversationState) MarkTopicCompleted(topic string) {
	for _, t := range s.TopicsCompleted {
		if t == topic {
			return
		}
	}
	s.TopicsCompleted = append(s.TopicsCompleted, topic)
}

// ConversationMessage is an append-only onboarding chat log entry.
type ConversationMessage struct {
	ID        uuid.UUID   `json:"id" db:"id"`
	UserID    uuid.UUID   `json:"-" db:"user_id"`
	Role      MessageRole `json:"role" db:"role"`
	Content   string      `json:"content" db:"content"`
	Topic     *string     `json:"topic" db:"topic"`
	CreatedAt time.Time   `json:"created_at" db:"created_at"`
}
