package postgres

import (
	"context"

	"github.com/gdugdh24/mutual-backend/internal/domain"
	"github.com/gdugdh24/mutual-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type messageRepository struct {
	db *sqlx.DB
}

func NewMessageRepository(db *sqlx.DB) repository.MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Create(ctx context.Context, msg *domain.DirectMessage) error {
	query := `
		INSERT INTO direct_messages (id, match_id, sender_id, content)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`
	return r.db.QueryRowContext(ctx, query, msg.ID, msg.MatchID, msg.SenderID, msg.Content).Scan(&msg.CreatedAt)
}

func (r *messageRepository) GetByMatch(ctx context.Context, matchID uuid.UUID, limit, offset int) ([]*domain.DirectMessage, error) {
	var messages []*domain.DirectMessage
	query := `
		SELECT id, match_id, sender_id, content, read_at, created_at FROM direct_messages
		WHERE match_id = $1
		ORDER BY seq ASC
		LIMIT $2 OFFSET $3
	`
	err := r.db.SelectContext(ctx, &messages, query, matchID, limit, offset)
	return messages, err
}
