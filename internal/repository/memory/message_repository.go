package memory

import (
	"context"

	"github.com/gdugdh24/mutual-backend/internal/domain"
	"github.com/gdugdh24/mutual-backend/internal/repository"
	"github.com/google/uuid"
)

type messageRepository struct {
	s *Store
}

func NewMessageRepository(s *Store) repository.MessageRepository {
	return &messageRepository{s: s}
}

func (r *messageRepository) Create(ctx context.Context, msg *domain.DirectMessage) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.matches[msg.MatchID]; !ok {
		return domain.ErrMatchNotFound
	}
	msg.CreatedAt = r.s.now()
	c := *msg
	r.s.directMessages[msg.MatchID] = append(r.s.directMessages[msg.MatchID], &c)
	return nil
}

func (r *messageRepository) GetByMatch(ctx context.Context, matchID uuid.UUID, limit, offset int) ([]*domain.DirectMessage, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	all := r.s.directMessages[matchID]
	from, to := page(len(all), limit, offset)
	out := make([]*domain.DirectMessage, 0, to-from)
	for _, m := range all[from:to] {
		c := *m
		out = append(out, &c)
	}
	return out, nil
}
