package repository

import (
	"context"

	"github.com/gdugdh24/mutual-backend/internal/domain"
	"github.com/google/uuid"
)

type MatchRepository interface {
	// Create stores the match with its users ordered. If the pair already
	// matched, match is filled in from the existing row.
	Create(ctx context.Context, match *domain.Match) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Match, error)
	GetByUsers(ctx context.Context, userA, userB uuid.UUID) (*domain.Match, error)
	// GetUserMatches returns one page of the user's matches, newest first,
	// and the total count.
	GetUserMatches(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.Match, int, error)
	UpdateIcebreakers(ctx context.Context, matchID uuid.UUID, icebreakers []string) error
	// Unmatch deletes the match, its messages and the likes between the pair.
	Unmatch(ctx context.Context, match *domain.Match) error
}

type LikeRepository interface {
	Create(ctx context.Context, like *domain.Like) error
	Get(ctx context.Context, likerID, likedID uuid.UUID) (*domain.Like, error)
}

type MessageRepository interface {
	Create(ctx context.Context, msg *domain.DirectMessage) error
	GetByMatch(ctx context.Context, matchID uuid.UUID, limit, offset int) ([]*domain.DirectMessage, error)
}

type BlockRepository interface {
	// Block records the block, removes likes in both directions and deletes
	// any match between the pair. It reports whether a match was removed.
	Block(ctx context.Context, block *domain.Block) (autoUnmatched bool, err error)
	Unblock(ctx context.Context, blockerID, blockedID uuid.UUID) error
	// IsBlocked reports a block in either direction.
	IsBlocked(ctx context.Context, userA, userB uuid.UUID) (bool, error)
	GetByBlocker(ctx context.Context, blockerID uuid.UUID, limit, offset int) ([]*domain.Block, int, error)
}
