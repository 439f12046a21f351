package repository

import (
	"context"
	"time"

	"github.com/gdugdh24/mutual-backend/internal/domain"
	"github.com/google/uuid"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	InvalidateTokens(ctx context.Context, id uuid.UUID, at time.Time) error
	// GetDiscoverable returns active users, other than viewerID, who finished
	// onboarding and have no like, pass, match or block with the viewer.
	GetDiscoverable(ctx context.Context, viewerID uuid.UUID) ([]*domain.User, error)
	// Erase removes the user and every row that references them.
	Erase(ctx context.Context, id uuid.UUID) error
}

type ProfileRepository interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Profile, error)
	GetByUserIDs(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID]*domain.Profile, error)
	Upsert(ctx context.Context, profile *domain.Profile) error
}

type PhotoRepository interface {
	Create(ctx context.Context, photo *domain.Photo) error
	GetByID(ctx context.Context, userID, photoID uuid.UUID) (*domain.Photo, error)
	GetByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Photo, error)
	CountByUser(ctx context.Context, userID uuid.UUID) (int, error)
	// Delete removes the photo and, if it was primary, promotes the next one.
	Delete(ctx context.Context, photo *domain.Photo) error
}
