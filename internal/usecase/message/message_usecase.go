package message

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/gdugdh24/mutual-backend/internal/domain"
	"github.com/gdugdh24/mutual-backend/internal/repository"
	"github.com/gdugdh24/mutual-backend/internal/usecase/match"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	MaxContentRunes = 5000
	DefaultLimit    = 50
	MaxLimit        = 200
)

type MessageUseCase struct {
	messageRepo repository.MessageRepository
	matchRepo   repository.MatchRepository
	blockRepo   repository.BlockRepository
	logger      *zap.Logger
}

func NewMessageUseCase(
	messageRepo repository.MessageRepository,
	matchRepo repository.MatchRepository,
	blockRepo repository.BlockRepository,
	logger *zap.Logger,
) *MessageUseCase {
	return &MessageUseCase{
		messageRepo: messageRepo,
		matchRepo:   matchRepo,
		blockRepo:   blockRepo,
		logger:      logger,
	}
}

type SendRequest struct {
	Content string `json:"content" binding:"required"`
}

type ListResponse struct {
	Messages []*domain.DirectMessage `json:"messages"`
	Limit    int                     `json:"limit"`
	Offset   int                     `json:"offset"`
}

// List returns a page of the match's messages, oldest first.
func (uc *MessageUseCase) List(ctx context.Context, userID, matchID uuid.UUID, limit, offset int) (*ListResponse, error) {
	if limit < 1 || limit > MaxLimit || offset < 0 {
		return nil, domain.ErrInvalidInput
	}
	if _, err := uc.open(ctx, userID, matchID); err != nil {
		return nil, err
	}

	msgs, err := uc.messageRepo.GetByMatch(ctx, matchID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to get messages: %w", err)
	}
	if msgs == nil {
		msgs = []*domain.DirectMessage{}
	}
	return &ListResponse{Messages: msgs, Limit: limit, Offset: offset}, nil
}

func (uc *MessageUseCase) Send(ctx context.Context, userID, matchID uuid.UUID, content string) (*domain.DirectMessage, error) {
	content = strings.TrimSpace(content)
	if content == "" || utf8.RuneCountInString(content) > MaxContentRunes {
		return nil, domain.ErrInvalidInput
	}
	if _, err := uc.open(ctx, userID, matchID); err != nil {
		return nil, err
	}

	msg := &domain.DirectMessage{
		ID:       uuid.New(),
		MatchID:  matchID,
		SenderID: userID,
		Content:  content,
	}
	if err := uc.messageRepo.Create(ctx, msg); err != nil {
		return nil, fmt.Errorf("failed to send message: %w", err)
	}
	uc.logger.Debug("direct message sent", zap.String("match_id", matchID.String()), zap.String("sender_id", userID.String()))
	return msg, nil
}

// open checks membership and that neither side blocked the other.
func (uc *MessageUseCase) open(ctx context.Context, userID, matchID uuid.UUID) (*domain.Match, error) {
	m, err := match.GetMember(ctx, uc.matchRepo, userID, matchID)
	if err != nil {
		return nil, err
	}
	other, _ := m.GetOtherUserID(userID)
	blocked, err := uc.blockRepo.IsBlocked(ctx, userID, other)
	if err != nil {
		return nil, fmt.Errorf("failed to check block: %w", err)
	}
	if blocked {
		return nil, domain.ErrBlocked
	}
	return m, nil
}
