package memory

import (
	"context"

	"github.com/gdugdh24/mutual-backend/internal/domain"
	"github.com/gdugdh24/mutual-backend/internal/repository"
	"github.com/google/uuid"
)

type blockRepository struct {
	s *Store
}

func NewBlockRepository(s *Store) repository.BlockRepository {
	return &blockRepository{s: s}
}

func (r *blockRepository) Block(ctx context.Context, block *domain.Block) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, b := range r.s.blocks {
		if b.BlockerID == block.BlockerID && b.BlockedID == block.BlockedID {
			return false, domain.ErrAlreadyBlocked
		}
	}
	block.CreatedAt = r.s.now()
	c := *block
	r.s.blocks = append(r.s.blocks, &c)

	r.s.deleteLikesBetween(block.BlockerID, block.BlockedID)
	if m := r.s.matchBetween(block.BlockerID, block.BlockedID); m != nil {
		r.s.deleteMatch(m)
		return true, nil
	}
	return false, nil
}

func (r *blockRepository) Unblock(ctx context.Context, blockerID, blockedID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for i, b := range r.s.blocks {
		if b.BlockerID == blockerID && b.BlockedID == blockedID {
			r.s.blocks = append(r.s.blocks[:i], r.s.blocks[i+1:]...)
			return nil
		}
	}
	return domain.ErrBlockNotFound
}

func (r *blockRepository) IsBlocked(ctx context.Context, userA, userB uuid.UUID) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return r.s.blockedEitherWay(userA, userB), nil
}

func (r *blockRepository) GetByBlocker(ctx context.Context, blockerID uuid.UUID, limit, offset int) ([]*domain.Block, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var mine []*domain.Block
	for i := len(r.s.blocks) - 1; i >= 0; i-- {
		if b := r.s.blocks[i]; b.BlockerID == blockerID {
			c := *b
			mine = append(mine, &c)
		}
	}
	from, to := page(len(mine), limit, offset)
	return mine[from:to], len(mine), nil
}
