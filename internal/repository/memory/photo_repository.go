package memory

import (
	"context"
	"sort"

	"github.com/gdugdh24/mutual-backend/internal/domain"
	"github.com/gdugdh24/mutual-backend/internal/repository"
	"github.com/google/uuid"
)

type photoRepository struct {
	s *Store
}

func NewPhotoRepository(s *Store) repository.PhotoRepository {
	return &photoRepository{s: s}
}

func (r *photoRepository) Create(ctx context.Context, photo *domain.Photo) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	photo.CreatedAt = r.s.now()
	c := *photo
	list := append(r.s.photos[photo.UserID], &c)
	sort.SliceStable(list, func(i, j int) bool { return list[i].OrderIndex < list[j].OrderIndex })
	r.s.photos[photo.UserID] = list
	return nil
}

func (r *photoRepository) GetByID(ctx context.Context, userID, photoID uuid.UUID) (*domain.Photo, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, p := range r.s.photos[userID] {
		if p.ID == photoID {
			c := *p
			return &c, nil
		}
	}
	return nil, domain.ErrPhotoNotFound
}

func (r *photoRepository) GetByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Photo, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	list := r.s.photos[userID]
	out := make([]*domain.Photo, len(list))
	for i, p := range list {
		c := *p
		out[i] = &c
	}
	return out, nil
}

func (r *photoRepository) CountByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return len(r.s.photos[userID]), nil
}

func (r *photoRepository) Delete(ctx context.Context, photo *domain.Photo) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	list := r.s.photos[photo.UserID]
	for i, p := range list {
		if p.ID != photo.ID {
			continue
		}
		list = append(list[:i], list[i+1:]...)
		if p.IsPrimary && len(list) > 0 {
			list[0].IsPrimary = true
		}
		r.s.photos[photo.UserID] = list
		return nil
	}
	return domain.ErrPhotoNotFound
}
