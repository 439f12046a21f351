package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/gdugdh24/mutual-backend/internal/domain"
	"github.com/gdugdh24/mutual-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const userColumns = `
	id, email, hashed_password, display_name, date_of_birth, gender, gender_preference,
	location, latitude, longitude, max_distance_km, age_range_min, age_range_max,
	height_inches, pref_height_min, pref_height_max, home_town, sexual_orientation,
	job_title, college_university, education_level, languages, religion,
	religion_preference, drinking, smoking, relationship_goal, hidden_fields,
	profile_setup_complete, is_active, token_invalidated_at, created_at, updated_at`

type userRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) repository.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (id, email, hashed_password, max_distance_km, age_range_min, age_range_max, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		user.ID, user.Email, user.HashedPassword,
		user.MaxDistanceKm, user.AgeRangeMin, user.AgeRangeMax, user.IsActive,
	).Scan(&user.CreatedAt, &user.UpdatedAt)
	if isUniqueViolation(err) {
		return domain.ErrEmailTaken
	}
	return err
}

func (r *userRepository) get(ctx context.Context, where string, arg any) (*domain.User, error) {
	var user domain.User
	err := r.db.GetContext(ctx, &user, `SELECT `+userColumns+` FROM users WHERE `+where, arg)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return r.get(ctx, "id = $1", id)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.get(ctx, "email = $1", email)
}

func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	query := `
		UPDATE users SET
			display_name = :display_name, date_of_birth = :date_of_birth, gender = :gender,
			gender_preference = :gender_preference, location = :location,
			latitude = :latitude, longitude = :longitude, max_distance_km = :max_distance_km,
			age_range_min = :age_range_min, age_range_max = :age_range_max,
			height_inches = :height_inches, pref_height_min = :pref_height_min, pref_height_max = :pref_height_max,
			home_town = :home_town, sexual_orientation = :sexual_orientation, job_title = :job_title,
			college_university = :college_university, education_level = :education_level,
			languages = :languages, religion = :religion, religion_preference = :religion_preference,
			drinking = :drinking, smoking = :smoking, relationship_goal = :relationship_goal,
			hidden_fields = :hidden_fields, profile_setup_complete = :profile_setup_complete,
			updated_at = NOW()
		WHERE id = :id
	`
	res, err := r.db.NamedExecContext(ctx, query, user)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	return affectedOrNotFound(rows, err, domain.ErrUserNotFound)
}

func (r *userRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	res, err := r.db.ExecContext(ctx, `UPDATE users SET is_active = $1, updated_at = NOW() WHERE id = $2`, active, id)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	return affectedOrNotFound(rows, err, domain.ErrUserNotFound)
}

func (r *userRepository) InvalidateTokens(ctx context.Context, id uuid.UUID, at time.Time) error {
	res, err := r.db.ExecContext(ctx, `UPDATE users SET token_invalidated_at = $1 WHERE id = $2`, at, id)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	return affectedOrNotFound(rows, err, domain.ErrUserNotFound)
}

func (r *userRepository) GetDiscoverable(ctx context.Context, viewerID uuid.UUID) ([]*domain.User, error) {
	var users []*domain.User
	query := `
		SELECT ` + userColumns + ` FROM users u
		WHERE u.id <> $1
		  AND u.is_active
		  AND EXISTS (
			SELECT 1 FROM conversation_states cs
			WHERE cs.user_id = u.id AND cs.onboarding_status = 'completed'
		  )
		  AND NOT EXISTS (SELECT 1 FROM likes l WHERE l.liker_id = $1 AND l.liked_id = u.id)
		  AND NOT EXISTS (
			SELECT 1 FROM matches m
			WHERE (m.user1_id = $1 AND m.user2_id = u.id) OR (m.user2_id = $1 AND m.user1_id = u.id)
		  )
		  AND NOT EXISTS (
			SELECT 1 FROM blocks b
			WHERE (b.blocker_id = $1 AND b.blocked_id = u.id) OR (b.blocked_id = $1 AND b.blocker_id = u.id)
		  )
	`
	err := r.db.SelectContext(ctx, &users, query, viewerID)
	return users, err
}

// Erase deletes the account and everything it owns. Most tables cascade on
// users(id); matches and messages are removed explicitly for both sides.
func (r *userRepository) Erase(ctx context.Context, id uuid.UUID) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		stmts := []string{
			`DELETE FROM direct_messages WHERE match_id IN (SELECT id FROM matches WHERE user1_id = $1 OR user2_id = $1) OR sender_id = $1`,
			`DELETE FROM matches WHERE user1_id = $1 OR user2_id = $1`,
			`DELETE FROM likes WHERE liker_id = $1 OR liked_id = $1`,
			`DELETE FROM blocks WHERE blocker_id = $1 OR blocked_id = $1`,
			`DELETE FROM conversation_messages WHERE user_id = $1`,
			`DELETE FROM conversation_states WHERE user_id = $1`,
			`DELETE FROM user_profiles WHERE user_id = $1`,
			`DELETE FROM user_photos WHERE user_id = $1`,
		}
		for _, stmt := range stmts {
			if _, err := tx.ExecContext(ctx, stmt, id); err != nil {
				return err
			}
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
		if err != nil {
			return err
		}
		rows, err := res.RowsAffected()
		return affectedOrNotFound(rows, err, domain.ErrUserNotFound)
	})
}
