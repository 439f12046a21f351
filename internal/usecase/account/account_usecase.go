package account

import (
	"context"
	"fmt"
	"time"

	"github.com/gdugdh24/mutual-backend/internal/domain"
	"github.com/gdugdh24/mutual-backend/internal/infrastructure/storage"
	"github.com/gdugdh24/mutual-backend/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AccountUseCase struct {
	userRepo  repository.UserRepository
	photoRepo repository.PhotoRepository
	store     storage.ObjectStore
	logger    *zap.Logger
}

func NewAccountUseCase(
	userRepo repository.UserRepository,
	photoRepo repository.PhotoRepository,
	store storage.ObjectStore,
	logger *zap.Logger,
) *AccountUseCase {
	return &AccountUseCase{
		userRepo:  userRepo,
		photoRepo: photoRepo,
		store:     store,
		logger:    logger,
	}
}

type StatusResponse struct {
	IsActive  bool      `json:"is_active"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

func (uc *AccountUseCase) Status(user *domain.User) *StatusResponse {
	return &StatusResponse{
		IsActive:  user.IsActive,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	}
}

func (uc *AccountUseCase) Deactivate(ctx context.Context, user *domain.User) (*StatusResponse, error) {
	return uc.setActive(ctx, user, false)
}

func (uc *AccountUseCase) Reactivate(ctx context.Context, user *domain.User) (*StatusResponse, error) {
	return uc.setActive(ctx, user, true)
}

func (uc *AccountUseCase) setActive(ctx context.Context, user *domain.User, active bool) (*StatusResponse, error) {
	if err := uc.userRepo.SetActive(ctx, user.ID, active); err != nil {
		return nil, fmt.Errorf("failed to update account: %w", err)
	}
	user.IsActive = active
	uc.logger.Info("account status changed", zap.String("user_id", user.ID.String()), zap.Bool("active", active))
	return uc.Status(user), nil
}

// Delete erases the account and everything it owns. Stored photo objects
// are removed after the rows are gone; failures there are logged only.
func (uc *AccountUseCase) Delete(ctx context.Context, userID uuid.UUID) error {
	photos, err := uc.photoRepo.GetByUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to list photos: %w", err)
	}

	if err := uc.userRepo.Erase(ctx, userID); err != nil {
		return fmt.Errorf("failed to erase account: %w", err)
	}

	for _, p := range photos {
		if err := uc.store.Delete(ctx, p.ObjectKey); err != nil {
			uc.logger.Warn("failed to delete photo object",
				zap.String("user_id", userID.String()),
				zap.String("key", p.ObjectKey),
				zap.Error(err),
			)
		}
	}

	uc.logger.Info("account deleted", zap.String("user_id", userID.String()))
	return nil
}
