package memory

import (
	"context"
	"sort"

	"github.com/gdugdh24/mutual-backend/internal/domain"
	"github.com/gdugdh24/mutual-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

type matchRepository struct {
	s *Store
}

func NewMatchRepository(s *Store) repository.MatchRepository {
	return &matchRepository{s: s}
}

func (r *matchRepository) Create(ctx context.Context, match *domain.Match) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	match.User1ID, match.User2ID = domain.OrderedPair(match.User1ID, match.User2ID)
	if existing := r.s.matchBetween(match.User1ID, match.User2ID); existing != nil {
		*match = *copyMatch(existing)
		return nil
	}
	match.CreatedAt = r.s.now()
	r.s.matches[match.ID] = copyMatch(match)
	return nil
}

func (r *matchRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Match, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	m, ok := r.s.matches[id]
	if !ok {
		return nil, domain.ErrMatchNotFound
	}
	return copyMatch(m), nil
}

func (r *matchRepository) GetByUsers(ctx context.Context, userA, userB uuid.UUID) (*domain.Match, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	m := r.s.matchBetween(userA, userB)
	if m == nil {
		return nil, domain.ErrMatchNotFound
	}
	return copyMatch(m), nil
}

func (r *matchRepository) GetUserMatches(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.Match, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var mine []*domain.Match
	for _, m := range r.s.matches {
		if m.HasUser(userID) {
			mine = append(mine, copyMatch(m))
		}
	}
	sort.Slice(mine, func(i, j int) bool {
		return mine[i].CreatedAt.After(mine[j].CreatedAt)
	})
	from, to := page(len(mine), limit, offset)
	return mine[from:to], len(mine), nil
}

func (r *matchRepository) UpdateIcebreakers(ctx context.Context, matchID uuid.UUID, icebreakers []string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	m, ok := r.s.matches[matchID]
	if !ok {
		return domain.ErrMatchNotFound
	}
	m.Icebreakers = append(pq.StringArray{}, icebreakers...)
	return nil
}

func (r *matchRepository) Unmatch(ctx context.Context, match *domain.Match) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	m, ok := r.s.matches[match.ID]
	if !ok {
		return domain.ErrMatchNotFound
	}
	r.s.deleteMatch(m)
	return nil
}
