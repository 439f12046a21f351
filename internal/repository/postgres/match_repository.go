package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/gdugdh24/mutual-backend/internal/domain"
	"github.com/gdugdh24/mutual-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const matchColumns = `id, user1_id, user2_id, compatibility_score, icebreakers, created_at`

type matchRepository struct {
	db *sqlx.DB
}

func NewMatchRepository(db *sqlx.DB) repository.MatchRepository {
	return &matchRepository{db: db}
}

func (r *matchRepository) Create(ctx context.Context, match *domain.Match) error {
	// Ensure user1_id < user2_id for constraint
	match.User1ID, match.User2ID = domain.OrderedPair(match.User1ID, match.User2ID)

	query := `
		INSERT INTO matches (id, user1_id, user2_id, compatibility_score, icebreakers)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user1_id, user2_id) DO NOTHING
		RETURNING created_at
	`
	err := r.db.QueryRowContext(ctx, query,
		match.ID, match.User1ID, match.User2ID, match.CompatibilityScore, match.Icebreakers,
	).Scan(&match.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		existing, getErr := r.GetByUsers(ctx, match.User1ID, match.User2ID)
		if getErr != nil {
			return getErr
		}
		*match = *existing
		return nil
	}
	return err
}

func (r *matchRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Match, error) {
	var match domain.Match
	err := r.db.GetContext(ctx, &match, `SELECT `+matchColumns+` FROM matches WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrMatchNotFound
		}
		return nil, err
	}
	return &match, nil
}

func (r *matchRepository) GetByUsers(ctx context.Context, userA, userB uuid.UUID) (*domain.Match, error) {
	user1ID, user2ID := domain.OrderedPair(userA, userB)

	var match domain.Match
	query := `SELECT ` + matchColumns + ` FROM matches WHERE user1_id = $1 AND user2_id = $2`
	err := r.db.GetContext(ctx, &match, query, user1ID, user2ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrMatchNotFound
		}
		return nil, err
	}
	return &match, nil
}

func (r *matchRepository) GetUserMatches(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.Match, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM matches WHERE user1_id = $1 OR user2_id = $1`, userID)
	if err != nil {
		return nil, 0, err
	}

	var matches []*domain.Match
	query := `
		SELECT ` + matchColumns + ` FROM matches
		WHERE (user1_id = $1 OR user2_id = $1)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	if err := r.db.SelectContext(ctx, &matches, query, userID, limit, offset); err != nil {
		return nil, 0, err
	}
	return matches, total, nil
}

func (r *matchRepository) UpdateIcebreakers(ctx context.Context, matchID uuid.UUID, icebreakers []string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE matches SET icebreakers = $1 WHERE id = $2`, pq.Array(icebreakers), matchID)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	return affectedOrNotFound(rows, err, domain.ErrMatchNotFound)
}

func (r *matchRepository) Unmatch(ctx context.Context, match *domain.Match) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		return deleteMatch(ctx, tx, match)
	})
}

func deleteMatch(ctx context.Context, tx *sqlx.Tx, match *domain.Match) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM direct_messages WHERE match_id = $1`, match.ID); err != nil {
		return err
	}
	if err := deleteLikesBetween(ctx, tx, match.User1ID, match.User2ID); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM matches WHERE id = $1`, match.ID)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	return affectedOrNotFound(rows, err, domain.ErrMatchNotFound)
}

func deleteLikesBetween(ctx context.Context, tx *sqlx.Tx, a, b uuid.UUID) error {
	_, err := tx.ExecContext(ctx, `
		DELETE FROM likes
		WHERE (liker_id = $1 AND liked_id = $2) OR (liker_id = $2 AND liked_id = $1)
	`, a, b)
	return err
}
