package profile

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gdugdh24/mutual-backend/internal/domain"
	"github.com/gdugdh24/mutual-backend/internal/infrastructure/storage"
	"github.com/gdugdh24/mutual-backend/internal/repository/memory"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var pngBytes = append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), make([]byte, 64)...)

type fixture struct {
	uc   *ProfileUseCase
	user *domain.User
	root string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	s := memory.NewStore()
	users := memory.NewUserRepository(s)
	user := &domain.User{
		ID:          uuid.New(),
		Email:       "sam@example.com",
		IsActive:    true,
		AgeRangeMin: domain.DefaultAgeRangeMin,
		AgeRangeMax: domain.DefaultAgeRangeMax,
	}
	require.NoError(t, users.Create(context.Background(), user))

	root := t.TempDir()
	store, err := storage.NewLocalStore(root, "/uploads")
	require.NoError(t, err)

	uc := NewProfileUseCase(users, memory.NewProfileRepository(s), memory.NewPhotoRepository(s), store, zap.NewNop())
	uc.now = func() time.Time { return time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC) }
	return &fixture{uc: uc, user: user, root: root}
}

func (f *fixture) upload(t *testing.T, n int) []*domain.Photo {
	t.Helper()
	var out []*domain.Photo
	for i := 0; i < n; i++ {
		p, err := f.uc.UploadPhoto(context.Background(), f.user.ID, bytes.NewReader(pngBytes))
		require.NoError(t, err)
		out = append(out, p)
	}
	return out
}

func setupRequest(t *testing.T, dob string) *SetupRequest {
	t.Helper()
	body := `{
		"display_name": "Sam Lee",
		"date_of_birth": "` + dob + `",
		"height_inches": 68,
		"location": "Austin",
		"home_town": "Dallas",
		"gender": "female",
		"sexual_orientation": "straight",
		"job_title": "Engineer",
		"college_university": "UT",
		"education_level": "bachelors",
		"languages": ["English"],
		"religion": "none",
		"drinking": "socially",
		"smoking": "never",
		"relationship_goal": "long-term",
		"hidden_fields": ["religion"]
	}`
	var req SetupRequest
	require.NoError(t, json.Unmarshal([]byte(body), &req))
	return &req
}

func TestDateRejectsOtherFormats(t *testing.T) {
	var d Date
	assert.Error(t, json.Unmarshal([]byte(`"15/01/2000"`), &d))
	require.NoError(t, json.Unmarshal([]byte(`"2000-01-15"`), &d))
	assert.Equal(t, time.January, d.Month())
}

func TestUploadPhoto(t *testing.T) {
	f := newFixture(t)
	photos := f.upload(t, 2)

	assert.True(t, photos[0].IsPrimary)
	assert.False(t, photos[1].IsPrimary)
	assert.Equal(t, 0, photos[0].OrderIndex)
	assert.Equal(t, 1, photos[1].OrderIndex)
	assert.Equal(t, filepath.Ext(photos[0].ObjectKey), ".png")
	assert.Contains(t, photos[0].URL, "/uploads/"+f.user.ID.String()+"/")

	_, err := os.Stat(filepath.Join(f.root, photos[0].ObjectKey))
	assert.NoError(t, err)
}

func TestUploadPhotoRejections(t *testing.T) {
	ctx := context.Background()

	t.Run("unsupported type", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.uc.UploadPhoto(ctx, f.user.ID, bytes.NewReader([]byte("just some text, not an image")))
		assert.ErrorIs(t, err, domain.ErrUnsupportedPhotoType)
	})

	t.Run("too large", func(t *testing.T) {
		f := newFixture(t)
		big := append(append([]byte{}, pngBytes...), make([]byte, MaxPhotoBytes)...)
		_, err := f.uc.UploadPhoto(ctx, f.user.ID, bytes.NewReader(big))
		assert.ErrorIs(t, err, domain.ErrPhotoTooLarge)
	})

	t.Run("limit reached", func(t *testing.T) {
		f := newFixture(t)
		f.upload(t, MaxPhotos)
		_, err := f.uc.UploadPhoto(ctx, f.user.ID, bytes.NewReader(pngBytes))
		assert.ErrorIs(t, err, domain.ErrPhotoLimitReached)
	})
}

func TestDeletePhotoPromotesNext(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	photos := f.upload(t, 2)

	require.NoError(t, f.uc.DeletePhoto(ctx, f.user.ID, photos[0].ID))
	_, err := os.Stat(filepath.Join(f.root, photos[0].ObjectKey))
	assert.True(t, os.IsNotExist(err))

	me, err := f.uc.GetMe(ctx, f.user)
	require.NoError(t, err)
	require.Len(t, me.Photos, 1)
	assert.True(t, me.Photos[0].IsPrimary)

	err = f.uc.DeletePhoto(ctx, f.user.ID, photos[0].ID)
	assert.ErrorIs(t, err, domain.ErrPhotoNotFound)
}

func TestSetup(t *testing.T) {
	ctx := context.Background()

	t.Run("needs three photos", func(t *testing.T) {
		f := newFixture(t)
		f.upload(t, 2)
		_, err := f.uc.Setup(ctx, f.user, setupRequest(t, "1995-03-10"))
		assert.ErrorIs(t, err, domain.ErrNotEnoughPhotos)
		assert.Contains(t, err.Error(), "you have 2")
	})

	t.Run("underage", func(t *testing.T) {
		f := newFixture(t)
		f.upload(t, 3)
		_, err := f.uc.Setup(ctx, f.user, setupRequest(t, "2008-06-02"))
		assert.ErrorIs(t, err, domain.ErrUnderage)
	})

	t.Run("eighteenth birthday today", func(t *testing.T) {
		f := newFixture(t)
		f.upload(t, 3)
		_, err := f.uc.Setup(ctx, f.user, setupRequest(t, "2008-06-01"))
		assert.NoError(t, err)
	})

	t.Run("missing date of birth", func(t *testing.T) {
		f := newFixture(t)
		f.upload(t, 3)
		req := setupRequest(t, "1995-03-10")
		req.DateOfBirth = Date{}
		_, err := f.uc.Setup(ctx, f.user, req)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("success and repeat", func(t *testing.T) {
		f := newFixture(t)
		f.upload(t, 3)
		me, err := f.uc.Setup(ctx, f.user, setupRequest(t, "1995-03-10"))
		require.NoError(t, err)
		assert.True(t, me.ProfileSetupComplete)
		assert.Equal(t, "Sam Lee", *me.DisplayName)
		assert.Len(t, me.Photos, 3)

		req := setupRequest(t, "1995-03-10")
		req.DisplayName = "Samantha"
		me, err = f.uc.Setup(ctx, f.user, req)
		require.NoError(t, err)
		assert.Equal(t, "Samantha", *me.DisplayName)
	})
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	ageMin, ageMax := 30, 25
	_, err := f.uc.Update(ctx, f.user, &UpdateRequest{AgeRangeMin: &ageMin, AgeRangeMax: &ageMax})
	assert.ErrorIs(t, err, domain.ErrInvalidAgeRange)

	f = newFixture(t)
	lo, hi := 70, 60
	_, err = f.uc.Update(ctx, f.user, &UpdateRequest{PrefHeightMin: &lo, PrefHeightMax: &hi})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	f = newFixture(t)
	name := "Sammy"
	prefs := []string{"male"}
	me, err := f.uc.Update(ctx, f.user, &UpdateRequest{DisplayName: &name, GenderPreference: &prefs})
	require.NoError(t, err)
	assert.Equal(t, "Sammy", *me.DisplayName)
	assert.Equal(t, []string{"male"}, []string(me.GenderPreference))
	assert.Equal(t, domain.DefaultAgeRangeMax, me.AgeRangeMax)
}

func TestUpdateProfileData(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	bio := "I like long walks"
	interests := []string{"hiking", "Hiking", "jazz"}
	data, err := f.uc.UpdateProfileData(ctx, f.user.ID, &ProfileUpdateRequest{Bio: &bio, Interests: &interests})
	require.NoError(t, err)
	assert.Equal(t, bio, *data.Bio)
	assert.Contains(t, data.Interests, "jazz")
	assert.Greater(t, data.ProfileCompleteness, 0.0)

	me, err := f.uc.GetMe(ctx, f.user)
	require.NoError(t, err)
	require.NotNil(t, me.Profile)
	assert.Equal(t, data.Interests, me.Profile.Interests)
}

func TestBuildCandidateViewHidesFields(t *testing.T) {
	religion, job := "buddhist", "chef"
	u := &domain.User{
		ID:             uuid.New(),
		Religion:       &religion,
		JobTitle:       &job,
		EducationLevel: &job,
		Languages:      []string{"English"},
		HiddenFields:   []string{"religion", "languages"},
	}
	v := BuildCandidateView(u, nil, nil, 0.5)

	assert.Nil(t, v.Religion)
	assert.Nil(t, v.Languages)
	assert.Equal(t, "chef", *v.JobTitle)
	assert.NotNil(t, v.Photos)
	assert.Nil(t, v.Profile)
	assert.Equal(t, 0.5, v.CompatibilityScore)

	raw, err := json.Marshal(v)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "education_level")
}
