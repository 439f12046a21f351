package profile

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gdugdh24/mutual-backend/internal/domain"
	"github.com/gdugdh24/mutual-backend/internal/infrastructure/storage"
	"github.com/gdugdh24/mutual-backend/internal/repository"
	"github.com/gdugdh24/mutual-backend/internal/usecase/onboarding"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	MaxPhotos      = 6
	MinSetupPhotos = 3
	MaxPhotoBytes  = 5 << 20
	MinAge         = 18
)

var photoExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

type ProfileUseCase struct {
	userRepo    repository.UserRepository
	profileRepo repository.ProfileRepository
	photoRepo   repository.PhotoRepository
	store       storage.ObjectStore
	logger      *zap.Logger
	now         func() time.Time
}

func NewProfileUseCase(
	userRepo repository.UserRepository,
	profileRepo repository.ProfileRepository,
	photoRepo repository.PhotoRepository,
	store storage.ObjectStore,
	logger *zap.Logger,
) *ProfileUseCase {
	return &ProfileUseCase{
		userRepo:    userRepo,
		profileRepo: profileRepo,
		photoRepo:   photoRepo,
		store:       store,
		logger:      logger,
		now:         time.Now,
	}
}

// Date is a calendar date in YYYY-MM-DD form.
type Date struct {
	time.Time
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := string(bytes.Trim(b, `"`))
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return fmt.Errorf("date must be YYYY-MM-DD: %w", err)
	}
	d.Time = t
	return nil
}

// SetupRequest represents the one-time account setup
type SetupRequest struct {
	DisplayName       string   `json:"display_name" binding:"required,min=1,max=100"`
	DateOfBirth       Date     `json:"date_of_birth"`
	HeightInches      int      `json:"height_inches" binding:"required,min=48,max=84"`
	Location          string   `json:"location" binding:"required,min=1,max=100"`
	Latitude          *float64 `json:"latitude" binding:"omitempty,min=-90,max=90"`
	Longitude         *float64 `json:"longitude" binding:"omitempty,min=-180,max=180"`
	MaxDistanceKm     *int     `json:"max_distance_km" binding:"omitempty,min=1,max=500"`
	HomeTown          string   `json:"home_town" binding:"required,min=1,max=200"`
	Gender            string   `json:"gender" binding:"required,min=1,max=30"`
	SexualOrientation string   `json:"sexual_orientation" binding:"required,min=1,max=100"`
	JobTitle          string   `json:"job_title" binding:"required,min=1,max=200"`
	CollegeUniversity string   `json:"college_university" binding:"required,min=1,max=200"`
	EducationLevel    string   `json:"education_level" binding:"required,min=1,max=100"`
	Languages         []string `json:"languages" binding:"required,min=1,max=20,dive,min=1,max=50"`
	Religion          string   `json:"religion" binding:"required,min=1,max=100"`
	Drinking          string   `json:"drinking" binding:"required,min=1,max=50"`
	Smoking           string   `json:"smoking" binding:"required,min=1,max=50"`
	RelationshipGoal  string   `json:"relationship_goal" binding:"required,min=1,max=100"`
	HiddenFields      []string `json:"hidden_fields" binding:"omitempty,max=20,dive,hideable"`
}

// UpdateRequest represents a partial account update
type UpdateRequest struct {
	DisplayName        *string   `json:"display_name" binding:"omitempty,min=1,max=100"`
	DateOfBirth        *Date     `json:"date_of_birth"`
	Gender             *string   `json:"gender" binding:"omitempty,max=30"`
	GenderPreference   *[]string `json:"gender_preference" binding:"omitempty,max=10,dive,max=30"`
	Location           *string   `json:"location" binding:"omitempty,max=100"`
	Latitude           *float64  `json:"latitude" binding:"omitempty,min=-90,max=90"`
	Longitude          *float64  `json:"longitude" binding:"omitempty,min=-180,max=180"`
	MaxDistanceKm      *int      `json:"max_distance_km" binding:"omitempty,min=1,max=500"`
	AgeRangeMin        *int      `json:"age_range_min" binding:"omitempty,min=18,max=120"`
	AgeRangeMax        *int      `json:"age_range_max" binding:"omitempty,min=18,max=120"`
	HeightInches       *int      `json:"height_inches" binding:"omitempty,min=48,max=84"`
	PrefHeightMin      *int      `json:"pref_height_min" binding:"omitempty,min=48,max=84"`
	PrefHeightMax      *int      `json:"pref_height_max" binding:"omitempty,min=48,max=84"`
	HomeTown           *string   `json:"home_town" binding:"omitempty,max=200"`
	SexualOrientation  *string   `json:"sexual_orientation" binding:"omitempty,max=100"`
	JobTitle           *string   `json:"job_title" binding:"omitempty,max=200"`
	CollegeUniversity  *string   `json:"college_university" binding:"omitempty,max=200"`
	EducationLevel     *string   `json:"education_level" binding:"omitempty,max=100"`
	Languages          *[]string `json:"languages" binding:"omitempty,max=20,dive,max=50"`
	Religion           *string   `json:"religion" binding:"omitempty,max=100"`
	ReligionPreference *[]string `json:"religion_preference" binding:"omitempty,max=20,dive,max=100"`
	Drinking           *string   `json:"drinking" binding:"omitempty,max=50"`
	Smoking            *string   `json:"smoking" binding:"omitempty,max=50"`
	RelationshipGoal   *string   `json:"relationship_goal" binding:"omitempty,max=100"`
	HiddenFields       *[]string `json:"hidden_fields" binding:"omitempty,max=20,dive,hideable"`
}

// ProfileUpdateRequest edits personality dimensions directly. Values go
// through the same coercion as chat-extracted updates.
type ProfileUpdateRequest struct {
	Bio                *string   `json:"bio" binding:"omitempty,max=2000"`
	Interests          *[]string `json:"interests" binding:"omitempty,max=50"`
	Values             *[]string `json:"values" binding:"omitempty,max=50"`
	PersonalityTraits  *[]string `json:"personality_traits" binding:"omitempty,max=50"`
	RelationshipGoals  *string   `json:"relationship_goals" binding:"omitempty,max=200"`
	CommunicationStyle *string   `json:"communication_style" binding:"omitempty,max=200"`
}

func (uc *ProfileUseCase) load(ctx context.Context, userID uuid.UUID) ([]*domain.Photo, *domain.Profile, error) {
	photos, err := uc.photoRepo.GetByUser(ctx, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get photos: %w", err)
	}
	profile, err := uc.profileRepo.GetByUserID(ctx, userID)
	if errors.Is(err, domain.ErrProfileNotFound) {
		return photos, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return photos, profile, nil
}

func (uc *ProfileUseCase) GetMe(ctx context.Context, user *domain.User) (*UserResponse, error) {
	photos, profile, err := uc.load(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return BuildUserResponse(user, photos, profile), nil
}

func (uc *ProfileUseCase) checkAdult(dob time.Time) error {
	if domain.AgeAt(dob, uc.now()) < MinAge {
		return domain.ErrUnderage
	}
	return nil
}

// Setup fills in the account attributes and marks setup complete. It may be
// called again to overwrite them.
func (uc *ProfileUseCase) Setup(ctx context.Context, user *domain.User, req *SetupRequest) (*UserResponse, error) {
	if req.DateOfBirth.IsZero() {
		return nil, fmt.Errorf("%w: date_of_birth is required", domain.ErrInvalidInput)
	}
	if err := uc.checkAdult(req.DateOfBirth.Time); err != nil {
		return nil, err
	}

	count, err := uc.photoRepo.CountByUser(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count photos: %w", err)
	}
	if count < MinSetupPhotos {
		return nil, fmt.Errorf("%w: at least %d photos required (you have %d)", domain.ErrNotEnoughPhotos, MinSetupPhotos, count)
	}

	dob := req.DateOfBirth.Time
	user.DisplayName = &req.DisplayName
	user.DateOfBirth = &dob
	user.HeightInches = &req.HeightInches
	user.Location = &req.Location
	user.Latitude = req.Latitude
	user.Longitude = req.Longitude
	if req.MaxDistanceKm != nil {
		user.MaxDistanceKm = *req.MaxDistanceKm
	}
	user.HomeTown = &req.HomeTown
	user.Gender = &req.Gender
	user.SexualOrientation = &req.SexualOrientation
	user.JobTitle = &req.JobTitle
	user.CollegeUniversity = &req.CollegeUniversity
	user.EducationLevel = &req.EducationLevel
	user.Languages = req.Languages
	user.Religion = &req.Religion
	user.Drinking = &req.Drinking
	user.Smoking = &req.Smoking
	user.RelationshipGoal = &req.RelationshipGoal
	user.HiddenFields = req.HiddenFields
	if user.HiddenFields == nil {
		user.HiddenFields = []string{}
	}
	user.ProfileSetupComplete = true

	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return uc.GetMe(ctx, user)
}

func (uc *ProfileUseCase) Update(ctx context.Context, user *domain.User, req *UpdateRequest) (*UserResponse, error) {
	if req.DateOfBirth != nil {
		if err := uc.checkAdult(req.DateOfBirth.Time); err != nil {
			return nil, err
		}
		dob := req.DateOfBirth.Time
		user.DateOfBirth = &dob
	}

	setStr := func(dst **string, v *string) {
		if v != nil {
			*dst = v
		}
	}
	setInt := func(dst **int, v *int) {
		if v != nil {
			*dst = v
		}
	}

	setStr(&user.DisplayName, req.DisplayName)
	setStr(&user.Gender, req.Gender)
	setStr(&user.Location, req.Location)
	setStr(&user.HomeTown, req.HomeTown)
	setStr(&user.SexualOrientation, req.SexualOrientation)
	setStr(&user.JobTitle, req.JobTitle)
	setStr(&user.CollegeUniversity, req.CollegeUniversity)
	setStr(&user.EducationLevel, req.EducationLevel)
	setStr(&user.Religion, req.Religion)
	setStr(&user.Drinking, req.Drinking)
	setStr(&user.Smoking, req.Smoking)
	setStr(&user.RelationshipGoal, req.RelationshipGoal)
	setInt(&user.HeightInches, req.HeightInches)
	setInt(&user.PrefHeightMin, req.PrefHeightMin)
	setInt(&user.PrefHeightMax, req.PrefHeightMax)

	if req.Latitude != nil {
		user.Latitude = req.Latitude
	}
	if req.Longitude != nil {
		user.Longitude = req.Longitude
	}
	if req.MaxDistanceKm != nil {
		user.MaxDistanceKm = *req.MaxDistanceKm
	}
	if req.AgeRangeMin != nil {
		user.AgeRangeMin = *req.AgeRangeMin
	}
	if req.AgeRangeMax != nil {
		user.AgeRangeMax = *req.AgeRangeMax
	}
	if req.GenderPreference != nil {
		user.GenderPreference = *req.GenderPreference
	}
	if req.Languages != nil {
		user.Languages = *req.Languages
	}
	if req.ReligionPreference != nil {
		user.ReligionPreference = *req.ReligionPreference
	}
	if req.HiddenFields != nil {
		user.HiddenFields = *req.HiddenFields
	}

	if user.AgeRangeMin > user.AgeRangeMax {
		return nil, domain.ErrInvalidAgeRange
	}
	if user.PrefHeightMin != nil && user.PrefHeightMax != nil && *user.PrefHeightMin > *user.PrefHeightMax {
		return nil, fmt.Errorf("%w: pref_height_min must not exceed pref_height_max", domain.ErrInvalidInput)
	}

	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return uc.GetMe(ctx, user)
}

// UpdateProfileData applies direct edits to the personality profile and
// recomputes completeness.
func (uc *ProfileUseCase) UpdateProfileData(ctx context.Context, userID uuid.UUID, req *ProfileUpdateRequest) (*ProfileData, error) {
	profile, err := uc.profileRepo.GetByUserID(ctx, userID)
	if errors.Is(err, domain.ErrProfileNotFound) {
		profile = domain.NewProfile(userID)
	} else if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	updates := make(map[string]any)
	putStr := func(key string, v *string) {
		if v != nil {
			updates[key] = *v
		}
	}
	putList := func(key string, v *[]string) {
		if v == nil {
			return
		}
		items := make([]any, len(*v))
		for i, s := range *v {
			items[i] = s
		}
		updates[key] = items
	}
	putStr(domain.FieldBio, req.Bio)
	putStr(domain.FieldRelationshipGoals, req.RelationshipGoals)
	putStr(domain.FieldCommunicationStyle, req.CommunicationStyle)
	putList(domain.FieldInterests, req.Interests)
	putList(domain.FieldValues, req.Values)
	putList(domain.FieldPersonalityTraits, req.PersonalityTraits)

	if onboarding.ApplyProfileUpdates(profile, updates) {
		if err := uc.profileRepo.Upsert(ctx, profile); err != nil {
			return nil, fmt.Errorf("failed to save profile: %w", err)
		}
	}
	return BuildProfileData(profile), nil
}

// UploadPhoto stores an image for the user. The type is detected from the
// content; the first photo becomes primary.
func (uc *ProfileUseCase) UploadPhoto(ctx context.Context, userID uuid.UUID, r io.Reader) (*domain.Photo, error) {
	existing, err := uc.photoRepo.GetByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get photos: %w", err)
	}
	if len(existing) >= MaxPhotos {
		return nil, fmt.Errorf("%w: maximum %d photos allowed", domain.ErrPhotoLimitReached, MaxPhotos)
	}

	data, err := io.ReadAll(io.LimitReader(r, MaxPhotoBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if len(data) > MaxPhotoBytes {
		return nil, domain.ErrPhotoTooLarge
	}

	mtype := mimetype.Detect(data)
	ext, ok := photoExtensions[mtype.String()]
	if !ok {
		return nil, domain.ErrUnsupportedPhotoType
	}

	photoID := uuid.New()
	key := userID.String() + "/" + photoID.String() + ext
	if err := uc.store.Put(ctx, key, bytes.NewReader(data), int64(len(data)), mtype.String()); err != nil {
		return nil, fmt.Errorf("failed to store photo: %w", err)
	}

	photo := &domain.Photo{
		ID:        photoID,
		UserID:    userID,
		ObjectKey: key,
		URL:       uc.store.URL(key),
		IsPrimary: len(existing) == 0,
	}
	for _, p := range existing {
		if p.OrderIndex >= photo.OrderIndex {
			photo.OrderIndex = p.OrderIndex + 1
		}
	}
	if err := uc.photoRepo.Create(ctx, photo); err != nil {
		if delErr := uc.store.Delete(ctx, key); delErr != nil {
			uc.logger.Warn("failed to remove orphaned photo object", zap.String("key", key), zap.Error(delErr))
		}
		return nil, fmt.Errorf("failed to save photo: %w", err)
	}
	return photo, nil
}

func (uc *ProfileUseCase) DeletePhoto(ctx context.Context, userID, photoID uuid.UUID) error {
	photo, err := uc.photoRepo.GetByID(ctx, userID, photoID)
	if err != nil {
		return err
	}
	if err := uc.photoRepo.Delete(ctx, photo); err != nil {
		return fmt.Errorf("failed to delete photo: %w", err)
	}
	if err := uc.store.Delete(ctx, photo.ObjectKey); err != nil {
		uc.logger.Warn("failed to delete photo object", zap.String("key", photo.ObjectKey), zap.Error(err))
	}
	return nil
}
