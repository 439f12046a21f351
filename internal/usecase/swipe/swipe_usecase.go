package swipe

import (
	"context"
	"errors"
	"fmt"

	"github.com/gdugdh24/mutual-backend/internal/compatibility"
	"github.com/gdugdh24/mutual-backend/internal/domain"
	"github.com/gdugdh24/mutual-backend/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type SwipeUseCase struct {
	userRepo    repository.UserRepository
	likeRepo    repository.LikeRepository
	matchRepo   repository.MatchRepository
	blockRepo   repository.BlockRepository
	profileRepo repository.ProfileRepository
	scorer      *compatibility.Scorer
	logger      *zap.Logger
}

func NewSwipeUseCase(
	userRepo repository.UserRepository,
	likeRepo repository.LikeRepository,
	matchRepo repository.MatchRepository,
	blockRepo repository.BlockRepository,
	profileRepo repository.ProfileRepository,
	scorer *compatibility.Scorer,
	logger *zap.Logger,
) *SwipeUseCase {
	return &SwipeUseCase{
		userRepo:    userRepo,
		likeRepo:    likeRepo,
		matchRepo:   matchRepo,
		blockRepo:   blockRepo,
		profileRepo: profileRepo,
		scorer:      scorer,
		logger:      logger,
	}
}

// LikeResponse represents like result
type LikeResponse struct {
	LikedUserID uuid.UUID  `json:"liked_user_id"`
	IsMatch     bool       `json:"is_match"`
	MatchID     *uuid.UUID `json:"match_id"`
}

// PassResponse represents pass result
type PassResponse struct {
	PassedUserID uuid.UUID `json:"passed_user_id"`
}

// Like records a like and creates a match when the target already liked back.
func (uc *SwipeUseCase) Like(ctx context.Context, likerID, targetID uuid.UUID) (*LikeResponse, error) {
	target, err := uc.checkTarget(ctx, likerID, targetID)
	if err != nil {
		return nil, err
	}
	if !target.IsActive {
		return nil, domain.ErrTargetInactive
	}

	like := &domain.Like{ID: uuid.New(), LikerID: likerID, LikedID: targetID}
	if err := uc.likeRepo.Create(ctx, like); err != nil {
		if errors.Is(err, domain.ErrAlreadySwiped) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create like: %w", err)
	}

	response := &LikeResponse{LikedUserID: targetID}

	back, err := uc.likeRepo.Get(ctx, targetID, likerID)
	if errors.Is(err, domain.ErrLikeNotFound) || (err == nil && back.IsPass) {
		return response, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to check mutual like: %w", err)
	}

	match, err := uc.createMatch(ctx, likerID, targetID)
	if err != nil {
		return nil, err
	}
	response.IsMatch = true
	response.MatchID = &match.ID
	return response, nil
}

// Pass records that the user is not interested. Passing an inactive user is allowed.
func (uc *SwipeUseCase) Pass(ctx context.Context, passerID, targetID uuid.UUID) (*PassResponse, error) {
	if _, err := uc.checkTarget(ctx, passerID, targetID); err != nil {
		return nil, err
	}

	pass := &domain.Like{ID: uuid.New(), LikerID: passerID, LikedID: targetID, IsPass: true}
	if err := uc.likeRepo.Create(ctx, pass); err != nil {
		if errors.Is(err, domain.ErrAlreadySwiped) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create pass: %w", err)
	}
	return &PassResponse{PassedUserID: targetID}, nil
}

func (uc *SwipeUseCase) checkTarget(ctx context.Context, actorID, targetID uuid.UUID) (*domain.User, error) {
	if actorID == targetID {
		return nil, domain.ErrCannotTargetSelf
	}
	target, err := uc.userRepo.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}
	blocked, err := uc.blockRepo.IsBlocked(ctx, actorID, targetID)
	if err != nil {
		return nil, fmt.Errorf("failed to check block: %w", err)
	}
	if blocked {
		return nil, domain.ErrBlocked
	}
	return target, nil
}

// createMatch creates a match between two users
func (uc *SwipeUseCase) createMatch(ctx context.Context, a, b uuid.UUID) (*domain.Match, error) {
	profiles, err := uc.profileRepo.GetByUserIDs(ctx, []uuid.UUID{a, b})
	if err != nil {
		return nil, fmt.Errorf("failed to get profiles: %w", err)
	}
	score := compatibility.RoundScore(uc.scorer.Score(profiles[a], profiles[b]))

	user1, user2 := domain.OrderedPair(a, b)
	match := &domain.Match{
		ID:                 uuid.New(),
		User1ID:            user1,
		User2ID:            user2,
		CompatibilityScore: &score,
	}
	if err := uc.matchRepo.Create(ctx, match); err != nil {
		return nil, fmt.Errorf("failed to create match: %w", err)
	}

	uc.logger.Info("match created",
		zap.String("match_id", match.ID.String()),
		zap.String("user1_id", user1.String()),
		zap.String("user2_id", user2.String()),
		zap.Float64("score", score),
	)
	return match, nil
}
