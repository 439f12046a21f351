package feed

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/gdugdh24/mutual-backend/internal/compatibility"
	"github.com/gdugdh24/mutual-backend/internal/domain"
	"github.com/gdugdh24/mutual-backend/internal/repository"
	"github.com/gdugdh24/mutual-backend/internal/usecase/profile"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultLimit = 10
	MaxLimit     = 50
)

type FeedUseCase struct {
	userRepo         repository.UserRepository
	profileRepo      repository.ProfileRepository
	photoRepo        repository.PhotoRepository
	conversationRepo repository.ConversationRepository
	scorer           *compatibility.Scorer
	now              func() time.Time
}

func NewFeedUseCase(
	userRepo repository.UserRepository,
	profileRepo repository.ProfileRepository,
	photoRepo repository.PhotoRepository,
	conversationRepo repository.ConversationRepository,
	scorer *compatibility.Scorer,
) *FeedUseCase {
	return &FeedUseCase{
		userRepo:         userRepo,
		profileRepo:      profileRepo,
		photoRepo:        photoRepo,
		conversationRepo: conversationRepo,
		scorer:           scorer,
		now:              time.Now,
	}
}

// DiscoverResponse is one page of ranked candidates
type DiscoverResponse struct {
	Users  []*profile.CandidateView `json:"users"`
	Total  int                      `json:"total"`
	Limit  int                      `json:"limit"`
	Offset int                      `json:"offset"`
}

type scoredCandidate struct {
	user       *domain.User
	score      float64
	distanceKm *float64
}

// Discover ranks every eligible candidate for viewer by compatibility and
// returns the requested page. The viewer must have finished onboarding.
func (uc *FeedUseCase) Discover(ctx context.Context, viewer *domain.User, limit, offset int) (*DiscoverResponse, error) {
	if limit < 1 || limit > MaxLimit || offset < 0 {
		return nil, domain.ErrInvalidInput
	}

	state, err := uc.conversationRepo.GetState(ctx, viewer.ID)
	if errors.Is(err, domain.ErrStateNotFound) {
		return nil, domain.ErrOnboardingIncomplete
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get onboarding state: %w", err)
	}
	if !state.IsCompleted() {
		return nil, domain.ErrOnboardingIncomplete
	}

	candidates, err := uc.userRepo.GetDiscoverable(ctx, viewer.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get candidates: %w", err)
	}

	now := uc.now()
	var eligible []scoredCandidate
	ids := []uuid.UUID{viewer.ID}
	for _, c := range candidates {
		ok, distance := uc.passesFilters(viewer, c, now)
		if !ok {
			continue
		}
		eligible = append(eligible, scoredCandidate{user: c, distanceKm: distance})
		ids = append(ids, c.ID)
	}

	profiles, err := uc.profileRepo.GetByUserIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to get profiles: %w", err)
	}
	mine := profiles[viewer.ID]
	for i := range eligible {
		eligible[i].score = uc.scorer.Score(mine, profiles[eligible[i].user.ID])
	}

	sort.SliceStable(eligible, func(i, j int) bool {
		if eligible[i].score != eligible[j].score {
			return eligible[i].score > eligible[j].score
		}
		return eligible[i].user.CreatedAt.Before(eligible[j].user.CreatedAt)
	})

	total := len(eligible)
	from, to := offset, offset+limit
	if from > total {
		from = total
	}
	if to > total {
		to = total
	}
	page := eligible[from:to]

	views := make([]*profile.CandidateView, len(page))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for i, c := range page {
		g.Go(func() error {
			photos, err := uc.photoRepo.GetByUser(gctx, c.user.ID)
			if err != nil {
				return fmt.Errorf("failed to get photos: %w", err)
			}
			v := profile.BuildCandidateView(c.user, photos, profiles[c.user.ID], compatibility.RoundScore(c.score))
			v.DistanceKm = roundKm(c.distanceKm)
			views[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &DiscoverResponse{Users: views, Total: total, Limit: limit, Offset: offset}, nil
}

// passesFilters applies the viewer's and the candidate's preferences. Any
// attribute unknown on either side does not exclude. It also returns the
// distance when both have coordinates.
func (uc *FeedUseCase) passesFilters(viewer, c *domain.User, now time.Time) (bool, *float64) {
	if c.DateOfBirth != nil {
		age := domain.AgeAt(*c.DateOfBirth, now)
		if age < viewer.AgeRangeMin || age > viewer.AgeRangeMax {
			return false, nil
		}
	}
	if viewer.DateOfBirth != nil {
		myAge := domain.AgeAt(*viewer.DateOfBirth, now)
		if myAge < c.AgeRangeMin || myAge > c.AgeRangeMax {
			return false, nil
		}
	}

	if !acceptsGender(viewer.GenderPreference, c.Gender) || !acceptsGender(c.GenderPreference, viewer.Gender) {
		return false, nil
	}

	var distance *float64
	if hasCoords(viewer) && hasCoords(c) {
		d := calculateDistance(*viewer.Latitude, *viewer.Longitude, *c.Latitude, *c.Longitude)
		if d > float64(viewer.MaxDistanceKm) {
			return false, nil
		}
		distance = &d
	} else if viewer.Location != nil && c.Location != nil &&
		!strings.EqualFold(strings.TrimSpace(*viewer.Location), strings.TrimSpace(*c.Location)) {
		return false, nil
	}

	if c.HeightInches != nil {
		if viewer.PrefHeightMin != nil && *c.HeightInches < *viewer.PrefHeightMin {
			return false, nil
		}
		if viewer.PrefHeightMax != nil && *c.HeightInches > *viewer.PrefHeightMax {
			return false, nil
		}
	}

	if len(viewer.ReligionPreference) > 0 && c.Religion != nil && !containsFold(viewer.ReligionPreference, *c.Religion) {
		return false, nil
	}

	return true, distance
}

func acceptsGender(prefs []string, gender *string) bool {
	if len(prefs) == 0 || gender == nil {
		return true
	}
	return containsFold(prefs, *gender)
}

func containsFold(list []string, s string) bool {
	for _, item := range list {
		if strings.EqualFold(item, s) {
			return true
		}
	}
	return false
}

func hasCoords(u *domain.User) bool {
	return u.Latitude != nil && u.Longitude != nil
}

func roundKm(d *float64) *float64 {
	if d == nil {
		return nil
	}
	r := math.Round(*d*10) / 10
	return &r
}

// calculateDistance returns the great-circle distance in km (haversine).
func calculateDistance(lat1, lon1, lat2, lon2 float64) float64 {
	const earthRadius = 6371.0
	dLat := (lat2 - lat1) * (math.Pi / 180.0)
	dLon := (lon2 - lon1) * (math.Pi / 180.0)
	lat1Rad := lat1 * (math.Pi / 180.0)
	lat2Rad := lat2 * (math.Pi / 180.0)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) + math.Sin(dLon/2)*math.Sin(dLon/2)*math.Cos(lat1Rad)*math.Cos(lat2Rad)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadius * c
}
