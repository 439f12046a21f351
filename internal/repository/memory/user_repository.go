package memory

import (
	"context"
	"time"

	"github.com/gdugdh24/mutual-backend/internal/domain"
	"github.com/gdugdh24/mutual-backend/internal/repository"
	"github.com/google/uuid"
)

type userRepository struct {
	s *Store
}

func NewUserRepository(s *Store) repository.UserRepository {
	return &userRepository{s: s}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if u.Email == user.Email {
			return domain.ErrEmailTaken
		}
	}
	now := r.s.now()
	user.CreatedAt, user.UpdatedAt = now, now
	r.s.users[user.ID] = copyUser(user)
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return copyUser(u), nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if u.Email == email {
			return copyUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.users[user.ID]
	if !ok {
		return domain.ErrUserNotFound
	}
	updated := copyUser(user)
	// Columns not covered by a profile update keep their stored values.
	updated.Email = existing.Email
	updated.HashedPassword = existing.HashedPassword
	updated.IsActive = existing.IsActive
	updated.TokenInvalidatedAt = existing.TokenInvalidatedAt
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = r.s.now()
	user.UpdatedAt = updated.UpdatedAt
	r.s.users[user.ID] = updated
	return nil
}

func (r *userRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.IsActive = active
	u.UpdatedAt = r.s.now()
	return nil
}

func (r *userRepository) InvalidateTokens(ctx context.Context, id uuid.UUID, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.TokenInvalidatedAt = &at
	return nil
}

func (r *userRepository) GetDiscoverable(ctx context.Context, viewerID uuid.UUID) ([]*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	swiped := make(map[uuid.UUID]bool)
	for _, l := range r.s.likes {
		if l.LikerID == viewerID {
			swiped[l.LikedID] = true
		}
	}

	var users []*domain.User
	for id, u := range r.s.users {
		if id == viewerID || !u.IsActive || swiped[id] {
			continue
		}
		if st, ok := r.s.states[id]; !ok || !st.IsCompleted() {
			continue
		}
		if r.s.matchBetween(viewerID, id) != nil || r.s.blockedEitherWay(viewerID, id) {
			continue
		}
		users = append(users, copyUser(u))
	}
	return users, nil
}

func (r *userRepository) Erase(ctx context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[id]; !ok {
		return domain.ErrUserNotFound
	}

	for mid, m := range r.s.matches {
		if m.HasUser(id) {
			delete(r.s.directMessages, mid)
			delete(r.s.matches, mid)
		}
	}
	likes := r.s.likes[:0]
	for _, l := range r.s.likes {
		if l.LikerID != id && l.LikedID != id {
			likes = append(likes, l)
		}
	}
	r.s.likes = likes
	blocks := r.s.blocks[:0]
	for _, b := range r.s.blocks {
		if b.BlockerID != id && b.BlockedID != id {
			blocks = append(blocks, b)
		}
	}
	r.s.blocks = blocks

	delete(r.s.chat, id)
	delete(r.s.states, id)
	delete(r.s.profiles, id)
	delete(r.s.photos, id)
	delete(r.s.users, id)
	return nil
}
