package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/gdugdh24/mutual-backend/internal/domain"
	"github.com/gdugdh24/mutual-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type blockRepository struct {
	db *sqlx.DB
}

func NewBlockRepository(db *sqlx.DB) repository.BlockRepository {
	return &blockRepository{db: db}
}

func (r *blockRepository) Block(ctx context.Context, block *domain.Block) (bool, error) {
	autoUnmatched := false
	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		err := tx.QueryRowContext(ctx, `
			INSERT INTO blocks (id, blocker_id, blocked_id)
			VALUES ($1, $2, $3)
			RETURNING created_at
		`, block.ID, block.BlockerID, block.BlockedID).Scan(&block.CreatedAt)
		if isUniqueViolation(err) {
			return domain.ErrAlreadyBlocked
		}
		if err != nil {
			return err
		}

		if err := deleteLikesBetween(ctx, tx, block.BlockerID, block.BlockedID); err != nil {
			return err
		}

		user1ID, user2ID := domain.OrderedPair(block.BlockerID, block.BlockedID)
		var match domain.Match
		err = tx.GetContext(ctx, &match,
			`SELECT `+matchColumns+` FROM matches WHERE user1_id = $1 AND user2_id = $2 FOR UPDATE`,
			user1ID, user2ID)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := deleteMatch(ctx, tx, &match); err != nil {
			return err
		}
		autoUnmatched = true
		return nil
	})
	return autoUnmatched, err
}

func (r *blockRepository) Unblock(ctx context.Context, blockerID, blockedID uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM blocks WHERE blocker_id = $1 AND blocked_id = $2`, blockerID, blockedID)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	return affectedOrNotFound(rows, err, domain.ErrBlockNotFound)
}

func (r *blockRepository) IsBlocked(ctx context.Context, userA, userB uuid.UUID) (bool, error) {
	var blocked bool
	err := r.db.GetContext(ctx, &blocked, `
		SELECT EXISTS (
			SELECT 1 FROM blocks
			WHERE (blocker_id = $1 AND blocked_id = $2) OR (blocker_id = $2 AND blocked_id = $1)
		)
	`, userA, userB)
	return blocked, err
}

func (r *blockRepository) GetByBlocker(ctx context.Context, blockerID uuid.UUID, limit, offset int) ([]*domain.Block, int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM blocks WHERE blocker_id = $1`, blockerID); err != nil {
		return nil, 0, err
	}

	var blocks []*domain.Block
	query := `
		SELECT id, blocker_id, blocked_id, created_at FROM blocks
		WHERE blocker_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	if err := r.db.SelectContext(ctx, &blocks, query, blockerID, limit, offset); err != nil {
		return nil, 0, err
	}
	return blocks, total, nil
}
