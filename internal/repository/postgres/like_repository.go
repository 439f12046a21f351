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

type likeRepository struct {
	db *sqlx.DB
}

func NewLikeRepository(db *sqlx.DB) repository.LikeRepository {
	return &likeRepository{db: db}
}

func (r *likeRepository) Create(ctx context.Context, like *domain.Like) error {
	query := `
		INSERT INTO likes (id, liker_id, liked_id, is_pass)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`
	err := r.db.QueryRowContext(ctx, query, like.ID, like.LikerID, like.LikedID, like.IsPass).Scan(&like.CreatedAt)
	if isUniqueViolation(err) {
		return domain.ErrAlreadySwiped
	}
	return err
}

func (r *likeRepository) Get(ctx context.Context, likerID, likedID uuid.UUID) (*domain.Like, error) {
	var like domain.Like
	query := `SELECT id, liker_id, liked_id, is_pass, created_at FROM likes WHERE liker_id = $1 AND liked_id = $2`
	err := r.db.GetContext(ctx, &like, query, likerID, likedID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrLikeNotFound
		}
		return nil, err
	}
	return &like, nil
}
