package repository

import (
	"context"

	"github.com/gdugdh24/mutual-backend/internal/domain"
	"github.com/google/uuid"
)

// Turn is everything one onboarding exchange writes after the model replied.
type Turn struct {
	State *domain.ConversationState
	// Profile is nil when the reply carried no profile updates.
	Profile *domain.Profile
	// Reply may be nil to write state only.
	Reply *domain.ConversationMessage
}

type ConversationRepository interface {
	// GetState returns domain.ErrStateNotFound before the first chat turn or status query.
	GetState(ctx context.Context, userID uuid.UUID) (*domain.ConversationState, error)
	// GetOrCreateState returns the user's state, creating it at firstTopic.
	GetOrCreateState(ctx context.Context, userID uuid.UUID, firstTopic string) (*domain.ConversationState, error)
	AddMessage(ctx context.Context, msg *domain.ConversationMessage) error
	// GetRecentMessages returns the newest limit messages, oldest first.
	GetRecentMessages(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.ConversationMessage, error)
	GetMessages(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.ConversationMessage, error)
	// CommitTurn writes the profile, state and reply atomically.
	CommitTurn(ctx context.Context, turn Turn) error
}
