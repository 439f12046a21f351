package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/gdugdh24/mutual-backend/internal/domain"
	"github.com/gdugdh24/mutual-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const (
	stateColumns   = `id, user_id, current_topic, topics_completed, onboarding_status, updated_at`
	messageColumns = `id, user_id, role, content, topic, created_at`
)

type conversationRepository struct {
	db *sqlx.DB
}

func NewConversationRepository(db *sqlx.DB) repository.ConversationRepository {
	return &conversationRepository{db: db}
}

func (r *conversationRepository) GetState(ctx context.Context, userID uuid.UUID) (*domain.ConversationState, error) {
	var state domain.ConversationState
	err := r.db.GetContext(ctx, &state, `SELECT `+stateColumns+` FROM conversation_states WHERE user_id = $1`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrStateNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get conversation state: %w", err)
	}
	return &state, nil
}

func (r *conversationRepository) GetOrCreateState(ctx context.Context, userID uuid.UUID, firstTopic string) (*domain.ConversationState, error) {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO conversation_states (id, user_id, current_topic, topics_completed, onboarding_status)
		VALUES ($1, $2, $3, '{}', $4)
		ON CONFLICT (user_id) DO NOTHING
	`, uuid.New(), userID, firstTopic, domain.OnboardingInProgress)
	if err != nil {
		return nil, fmt.Errorf("create conversation state: %w", err)
	}

	var state domain.ConversationState
	err = r.db.GetContext(ctx, &state, `SELECT `+stateColumns+` FROM conversation_states WHERE user_id = $1`, userID)
	if err != nil {
		return nil, err
	}
	return &state, nil
}

func (r *conversationRepository) AddMessage(ctx context.Context, msg *domain.ConversationMessage) error {
	return insertConversationMessage(ctx, r.db, msg)
}

func insertConversationMessage(ctx context.Context, q sqlx.QueryerContext, msg *domain.ConversationMessage) error {
	query := `
		INSERT INTO conversation_messages (id, user_id, role, content, topic)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`
	return q.QueryRowxContext(ctx, query, msg.ID, msg.UserID, msg.Role, msg.Content, msg.Topic).
		Scan(&msg.CreatedAt)
}

func (r *conversationRepository) GetRecentMessages(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.ConversationMessage, error) {
	var messages []*domain.ConversationMessage
	query := `
		SELECT ` + messageColumns + ` FROM (
			SELECT ` + messageColumns + `, seq FROM conversation_messages
			WHERE user_id = $1
			ORDER BY seq DESC
			LIMIT $2
		) recent
		ORDER BY seq ASC
	`
	err := r.db.SelectContext(ctx, &messages, query, userID, limit)
	return messages, err
}

func (r *conversationRepository) GetMessages(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.ConversationMessage, error) {
	var messages []*domain.ConversationMessage
	query := `
		SELECT ` + messageColumns + ` FROM conversation_messages
		WHERE user_id = $1
		ORDER BY seq ASC
		LIMIT $2 OFFSET $3
	`
	err := r.db.SelectContext(ctx, &messages, query, userID, limit, offset)
	return messages, err
}

func (r *conversationRepository) CommitTurn(ctx context.Context, turn repository.Turn) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if turn.Profile != nil {
			if _, err := tx.NamedExecContext(ctx, upsertProfileQuery, turn.Profile); err != nil {
				return fmt.Errorf("save profile: %w", err)
			}
		}

		_, err := tx.ExecContext(ctx, `
			UPDATE conversation_states
			SET current_topic = $1, topics_completed = $2, onboarding_status = $3, updated_at = NOW()
			WHERE id = $4
		`, turn.State.CurrentTopic, turn.State.TopicsCompleted, turn.State.OnboardingStatus, turn.State.ID)
		if err != nil {
			return fmt.Errorf("save conversation state: %w", err)
		}

		if turn.Reply == nil {
			return nil
		}
		if err := insertConversationMessage(ctx, tx, turn.Reply); err != nil {
			return fmt.Errorf("save reply: %w", err)
		}
		return nil
	})
}
