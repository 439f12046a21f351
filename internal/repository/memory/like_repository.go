package memory

import (
	"context"

	"github.com/gdugdh24/mutual-backend/internal/domain"
	"github.com/gdugdh24/mutual-backend/internal/repository"
	"github.com/google/uuid"
)

type likeRepository struct {
	s *Store
}

func NewLikeRepository(s *Store) repository.LikeRepository {
	return &likeRepository{s: s}
}

func (r *likeRepository) Create(ctx context.Context, like *domain.Like) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, l := range r.s.likes {
		if l.LikerID == like.LikerID && l.LikedID == like.LikedID {
			return domain.ErrAlreadySwiped
		}
	}
	like.CreatedAt = r.s.now()
	c := *like
	r.s.likes = append(r.s.likes, &c)
	return nil
}

func (r *likeRepository) Get(ctx context.Context, likerID, likedID uuid.UUID) (*domain.Like, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, l := range r.s.likes {
		if l.LikerID == likerID && l.LikedID == likedID {
			c := *l
			return &c, nil
		}
	}
	return nil, domain.ErrLikeNotFound
}
