package memory

import (
	"context"

	"github.com/gdugdh24/mutual-backend/internal/domain"
	"github.com/gdugdh24/mutual-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

type conversationRepository struct {
	s *Store
}

func NewConversationRepository(s *Store) repository.ConversationRepository {
	return &conversationRepository{s: s}
}

func (r *conversationRepository) GetState(ctx context.Context, userID uuid.UUID) (*domain.ConversationState, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	st, ok := r.s.states[userID]
	if !ok {
		return nil, domain.ErrStateNotFound
	}
	return copyState(st), nil
}

func (r *conversationRepository) GetOrCreateState(ctx context.Context, userID uuid.UUID, firstTopic string) (*domain.ConversationState, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	st, ok := r.s.states[userID]
	if !ok {
		st = &domain.ConversationState{
			ID:               uuid.New(),
			UserID:           userID,
			CurrentTopic:     firstTopic,
			TopicsCompleted:  pq.StringArray{},
			OnboardingStatus: domain.OnboardingInProgress,
			UpdatedAt:        r.s.now(),
		}
		r.s.states[userID] = st
	}
	return copyState(st), nil
}

func (r *conversationRepository) AddMessage(ctx context.Context, msg *domain.ConversationMessage) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.addChatMessage(msg)
	return nil
}

func (s *Store) addChatMessage(msg *domain.ConversationMessage) {
	msg.CreatedAt = s.now()
	c := *msg
	s.chat[msg.UserID] = append(s.chat[msg.UserID], &c)
}

func (r *conversationRepository) GetRecentMessages(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.ConversationMessage, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	all := r.s.chat[userID]
	start := 0
	if len(all) > limit {
		start = len(all) - limit
	}
	return copyMessages(all[start:]), nil
}

func (r *conversationRepository) GetMessages(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.ConversationMessage, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	all := r.s.chat[userID]
	from, to := page(len(all), limit, offset)
	return copyMessages(all[from:to]), nil
}

func (r *conversationRepository) CommitTurn(ctx context.Context, turn repository.Turn) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if turn.Profile != nil {
		r.s.upsertProfile(turn.Profile)
	}
	st := copyState(turn.State)
	st.UpdatedAt = r.s.now()
	r.s.states[st.UserID] = st
	if turn.Reply != nil {
		r.s.addChatMessage(turn.Reply)
	}
	return nil
}

func copyMessages(msgs []*domain.ConversationMessage) []*domain.ConversationMessage {
	out := make([]*domain.ConversationMessage, len(msgs))
	for i, m := range msgs {
		c := *m
		out[i] = &c
	}
	return out
}
