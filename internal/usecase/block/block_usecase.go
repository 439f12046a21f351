package block

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gdugdh24/mutual-backend/internal/domain"
	"github.com/gdugdh24/mutual-backend/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	DefaultLimit = 50
	MaxLimit     = 200
)

type BlockUseCase struct {
	blockRepo repository.BlockRepository
	userRepo  repository.UserRepository
	logger    *zap.Logger
}

func NewBlockUseCase(blockRepo repository.BlockRepository, userRepo repository.UserRepository, logger *zap.Logger) *BlockUseCase {
	return &BlockUseCase{
		blockRepo: blockRepo,
		userRepo:  userRepo,
		logger:    logger,
	}
}

type BlockResponse struct {
	BlockedUserID uuid.UUID `json:"blocked_user_id"`
	AutoUnmatched bool      `json:"auto_unmatched"`
}

type BlockView struct {
	ID            uuid.UUID `json:"id"`
	BlockedUserID uuid.UUID `json:"blocked_user_id"`
	CreatedAt     time.Time `json:"created_at"`
}

type ListResponse struct {
	Blocks []*BlockView `json:"blocks"`
	Total  int          `json:"total"`
	Limit  int          `json:"limit"`
	Offset int          `json:"offset"`
}

// Block hides the two users from each other. Likes between them are
// dropped and an existing match is removed.
func (uc *BlockUseCase) Block(ctx context.Context, blockerID, targetID uuid.UUID) (*BlockResponse, error) {
	if blockerID == targetID {
		return nil, domain.ErrCannotTargetSelf
	}
	if _, err := uc.userRepo.GetByID(ctx, targetID); err != nil {
		return nil, err
	}

	unmatched, err := uc.blockRepo.Block(ctx, &domain.Block{ID: uuid.New(), BlockerID: blockerID, BlockedID: targetID})
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyBlocked) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to block user: %w", err)
	}

	uc.logger.Info("user blocked",
		zap.String("blocker_id", blockerID.String()),
		zap.String("blocked_id", targetID.String()),
		zap.Bool("auto_unmatched", unmatched),
	)
	return &BlockResponse{BlockedUserID: targetID, AutoUnmatched: unmatched}, nil
}

func (uc *BlockUseCase) Unblock(ctx context.Context, blockerID, targetID uuid.UUID) error {
	if err := uc.blockRepo.Unblock(ctx, blockerID, targetID); err != nil {
		if errors.Is(err, domain.ErrBlockNotFound) {
			return err
		}
		return fmt.Errorf("failed to unblock user: %w", err)
	}
	return nil
}

// List returns the users blockerID has blocked, newest first.
func (uc *BlockUseCase) List(ctx context.Context, blockerID uuid.UUID, limit, offset int) (*ListResponse, error) {
	if limit < 1 || limit > MaxLimit || offset < 0 {
		return nil, domain.ErrInvalidInput
	}
	blocks, total, err := uc.blockRepo.GetByBlocker(ctx, blockerID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to get blocks: %w", err)
	}
	views := make([]*BlockView, len(blocks))
	for i, b := range blocks {
		views[i] = &BlockView{ID: b.ID, BlockedUserID: b.BlockedID, CreatedAt: b.CreatedAt}
	}
	return &ListResponse{Blocks: views, Total: total, Limit: limit, Offset: offset}, nil
}
