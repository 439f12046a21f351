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

const profileColumns = `
	id, user_id, bio, interests, "values", personality_traits, relationship_goals,
	communication_style, deal_breakers, life_goals, dating_style,
	conversation_highlights, profile_completeness, updated_at`

const upsertProfileQuery = `
	INSERT INTO user_profiles (
		id, user_id, bio, interests, "values", personality_traits, relationship_goals,
		communication_style, deal_breakers, life_goals, dating_style,
		conversation_highlights, profile_completeness, updated_at
	)
	VALUES (
		:id, :user_id, :bio, :interests, :values, :personality_traits, :relationship_goals,
		:communication_style, :deal_breakers, :life_goals, :dating_style,
		:conversation_highlights, :profile_completeness, NOW()
	)
	ON CONFLICT (user_id) DO UPDATE SET
		bio = EXCLUDED.bio,
		interests = EXCLUDED.interests,
		"values" = EXCLUDED."values",
		personality_traits = EXCLUDED.personality_traits,
		relationship_goals = EXCLUDED.relationship_goals,
		communication_style = EXCLUDED.communication_style,
		deal_breakers = EXCLUDED.deal_breakers,
		life_goals = EXCLUDED.life_goals,
		dating_style = EXCLUDED.dating_style,
		conversation_highlights = EXCLUDED.conversation_highlights,
		profile_completeness = EXCLUDED.profile_completeness,
		updated_at = NOW()
`

type profileRepository struct {
	db *sqlx.DB
}

func NewProfileRepository(db *sqlx.DB) repository.ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	var profile domain.Profile
	err := r.db.GetContext(ctx, &profile, `SELECT `+profileColumns+` FROM user_profiles WHERE user_id = $1`, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepository) GetByUserIDs(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID]*domain.Profile, error) {
	result := make(map[uuid.UUID]*domain.Profile, len(userIDs))
	if len(userIDs) == 0 {
		return result, nil
	}

	ids := make([]string, len(userIDs))
	for i, id := range userIDs {
		ids[i] = id.String()
	}

	var profiles []*domain.Profile
	query := `SELECT ` + profileColumns + ` FROM user_profiles WHERE user_id = ANY($1::uuid[])`
	if err := r.db.SelectContext(ctx, &profiles, query, pq.Array(ids)); err != nil {
		return nil, err
	}
	for _, p := range profiles {
		result[p.UserID] = p
	}
	return result, nil
}

func (r *profileRepository) Upsert(ctx context.Context, profile *domain.Profile) error {
	_, err := r.db.NamedExecContext(ctx, upsertProfileQuery, profile)
	return err
}
