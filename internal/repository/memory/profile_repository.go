package memory

import (
	"context"

	"github.com/gdugdh24/mutual-backend/internal/domain"
	"github.com/gdugdh24/mutual-backend/internal/repository"
	"github.com/google/uuid"
)

type profileRepository struct {
	s *Store
}

func NewProfileRepository(s *Store) repository.ProfileRepository {
	return &profileRepository{s: s}
}

func (r *profileRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.profiles[userID]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	return copyProfile(p), nil
}

func (r *profileRepository) GetByUserIDs(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID]*domain.Profile, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	result := make(map[uuid.UUID]*domain.Profile, len(userIDs))
	for _, id := range userIDs {
		if p, ok := r.s.profiles[id]; ok {
			result[id] = copyProfile(p)
		}
	}
	return result, nil
}

func (r *profileRepository) Upsert(ctx context.Context, profile *domain.Profile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.upsertProfile(profile)
	return nil
}

func (s *Store) upsertProfile(profile *domain.Profile) {
	if existing, ok := s.profiles[profile.UserID]; ok {
		profile.ID = existing.ID
	}
	profile.UpdatedAt = s.now()
	s.profiles[profile.UserID] = copyProfile(profile)
}
