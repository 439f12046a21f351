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

const photoColumns = `id, user_id, object_key, url, is_primary, order_index, created_at`

type photoRepository struct {
	db *sqlx.DB
}

func NewPhotoRepository(db *sqlx.DB) repository.PhotoRepository {
	return &photoRepository{db: db}
}

func (r *photoRepository) Create(ctx context.Context, photo *domain.Photo) error {
	query := `
		INSERT INTO user_photos (id, user_id, object_key, url, is_primary, order_index)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`
	return r.db.QueryRowContext(ctx, query,
		photo.ID, photo.UserID, photo.ObjectKey, photo.URL, photo.IsPrimary, photo.OrderIndex,
	).Scan(&photo.CreatedAt)
}

func (r *photoRepository) GetByID(ctx context.Context, userID, photoID uuid.UUID) (*domain.Photo, error) {
	var photo domain.Photo
	query := `SELECT ` + photoColumns + ` FROM user_photos WHERE id = $1 AND user_id = $2`
	err := r.db.GetContext(ctx, &photo, query, photoID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPhotoNotFound
		}
		return nil, err
	}
	return &photo, nil
}

func (r *photoRepository) GetByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Photo, error) {
	var photos []*domain.Photo
	query := `SELECT ` + photoColumns + ` FROM user_photos WHERE user_id = $1 ORDER BY order_index, created_at`
	err := r.db.SelectContext(ctx, &photos, query, userID)
	return photos, err
}

func (r *photoRepository) CountByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	var n int
	err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM user_photos WHERE user_id = $1`, userID)
	return n, err
}

func (r *photoRepository) Delete(ctx context.Context, photo *domain.Photo) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM user_photos WHERE id = $1 AND user_id = $2`, photo.ID, photo.UserID)
		if err != nil {
			return err
		}
		rows, err := res.RowsAffected()
		if err := affectedOrNotFound(rows, err, domain.ErrPhotoNotFound); err != nil {
			return err
		}
		if !photo.IsPrimary {
			return nil
		}
		_, err = tx.ExecContext(ctx, `
			UPDATE user_photos SET is_primary = TRUE
			WHERE id = (
				SELECT id FROM user_photos WHERE user_id = $1
				ORDER BY order_index, created_at
				LIMIT 1
			)
		`, photo.UserID)
		return err
	})
}
