package match

import (
	"context"
	"fmt"
	"time"

	"github.com/gdugdh24/mutual-backend/internal/domain"
	"github.com/gdugdh24/mutual-backend/internal/repository"
	"github.com/gdugdh24/mutual-backend/internal/usecase/profile"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultLimit = 20
	MaxLimit     = 50
)

// IcebreakerGenerator writes opening lines from both users' interests.
type IcebreakerGenerator interface {
	GenerateIcebreakers(ctx context.Context, user1Interests, user2Interests []string) ([]string, error)
}

type MatchUseCase struct {
	matchRepo   repository.MatchRepository
	userRepo    repository.UserRepository
	profileRepo repository.ProfileRepository
	photoRepo   repository.PhotoRepository
	blockRepo   repository.BlockRepository
	icebreakers IcebreakerGenerator
	logger      *zap.Logger
}

func NewMatchUseCase(
	matchRepo repository.MatchRepository,
	userRepo repository.UserRepository,
	profileRepo repository.ProfileRepository,
	photoRepo repository.PhotoRepository,
	blockRepo repository.BlockRepository,
	icebreakers IcebreakerGenerator,
	logger *zap.Logger,
) *MatchUseCase {
	return &MatchUseCase{
		matchRepo:   matchRepo,
		userRepo:    userRepo,
		profileRepo: profileRepo,
		photoRepo:   photoRepo,
		blockRepo:   blockRepo,
		icebreakers: icebreakers,
		logger:      logger,
	}
}

type MatchView struct {
	ID                 uuid.UUID              `json:"id"`
	OtherUser          *profile.CandidateView `json:"other_user"`
	CompatibilityScore *float64               `json:"compatibility_score"`
	CreatedAt          time.Time              `json:"created_at"`
}

type ListResponse struct {
	Matches []*MatchView `json:"matches"`
	Total   int          `json:"total"`
	Limit   int          `json:"limit"`
	Offset  int          `json:"offset"`
}

type IcebreakersResponse struct {
	MatchID     uuid.UUID `json:"match_id"`
	Icebreakers []string  `json:"icebreakers"`
}

// List returns the user's matches, newest first.
func (uc *MatchUseCase) List(ctx context.Context, userID uuid.UUID, limit, offset int) (*ListResponse, error) {
	if limit < 1 || limit > MaxLimit || offset < 0 {
		return nil, domain.ErrInvalidInput
	}

	matches, total, err := uc.matchRepo.GetUserMatches(ctx, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to get matches: %w", err)
	}

	others := make([]uuid.UUID, len(matches))
	for i, m := range matches {
		others[i], _ = m.GetOtherUserID(userID)
	}
	profiles, err := uc.profileRepo.GetByUserIDs(ctx, others)
	if err != nil {
		return nil, fmt.Errorf("failed to get profiles: %w", err)
	}

	views := make([]*MatchView, len(matches))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for i, m := range matches {
		g.Go(func() error {
			other, err := uc.userRepo.GetByID(gctx, others[i])
			if err != nil {
				return fmt.Errorf("failed to get matched user: %w", err)
			}
			photos, err := uc.photoRepo.GetByUser(gctx, other.ID)
			if err != nil {
				return fmt.Errorf("failed to get photos: %w", err)
			}
			var score float64
			if m.CompatibilityScore != nil {
				score = *m.CompatibilityScore
			}
			views[i] = &MatchView{
				ID:                 m.ID,
				OtherUser:          profile.BuildCandidateView(other, photos, profiles[other.ID], score),
				CompatibilityScore: m.CompatibilityScore,
				CreatedAt:          m.CreatedAt,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &ListResponse{Matches: views, Total: total, Limit: limit, Offset: offset}, nil
}

// Unmatch removes the match together with its messages and the likes
// between the pair.
func (uc *MatchUseCase) Unmatch(ctx context.Context, userID, matchID uuid.UUID) error {
	m, err := GetMember(ctx, uc.matchRepo, userID, matchID)
	if err != nil {
		return err
	}
	if err := uc.matchRepo.Unmatch(ctx, m); err != nil {
		return fmt.Errorf("failed to unmatch: %w", err)
	}
	uc.logger.Info("match removed", zap.String("match_id", m.ID.String()), zap.String("by", userID.String()))
	return nil
}

// Icebreakers returns the match's opening lines, generating and storing
// them on first request.
func (uc *MatchUseCase) Icebreakers(ctx context.Context, userID, matchID uuid.UUID) (*IcebreakersResponse, error) {
	m, err := GetMember(ctx, uc.matchRepo, userID, matchID)
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

	if len(m.Icebreakers) > 0 {
		return &IcebreakersResponse{MatchID: m.ID, Icebreakers: m.Icebreakers}, nil
	}
	if uc.icebreakers == nil {
		return nil, domain.ErrLLMUnavailable
	}

	profiles, err := uc.profileRepo.GetByUserIDs(ctx, []uuid.UUID{userID, other})
	if err != nil {
		return nil, fmt.Errorf("failed to get profiles: %w", err)
	}
	lines, err := uc.icebreakers.GenerateIcebreakers(ctx, interests(profiles[userID]), interests(profiles[other]))
	if err != nil {
		uc.logger.Error("icebreaker generation failed", zap.String("match_id", m.ID.String()), zap.Error(err))
		return nil, fmt.Errorf("%w: %w", domain.ErrLLMUnavailable, err)
	}

	if err := uc.matchRepo.UpdateIcebreakers(ctx, m.ID, lines); err != nil {
		return nil, fmt.Errorf("failed to save icebreakers: %w", err)
	}
	return &IcebreakersResponse{MatchID: m.ID, Icebreakers: lines}, nil
}

func interests(p *domain.Profile) []string {
	if data := profile.BuildProfileData(p); data != nil {
		return data.Interests
	}
	return nil
}

// GetMember loads a match that userID belongs to.
func GetMember(ctx context.Context, matches repository.MatchRepository, userID, matchID uuid.UUID) (*domain.Match, error) {
	m, err := matches.GetByID(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if !m.HasUser(userID) {
		return nil, domain.ErrNotMatchMember
	}
	return m, nil
}
