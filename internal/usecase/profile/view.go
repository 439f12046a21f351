package profile

import (
	"encoding/json"
	"sort"
	"time"

	"github.com/gdugdh24/mutual-backend/internal/domain"
	"github.com/google/uuid"
)

// ProfileData is the personality profile as clients see it, with list
// dimensions decoded.
type ProfileData struct {
	Bio                 *string  `json:"bio"`
	Interests           []string `json:"interests"`
	Values              []string `json:"values"`
	PersonalityTraits   []string `json:"personality_traits"`
	RelationshipGoals   *string  `json:"relationship_goals"`
	CommunicationStyle  *string  `json:"communication_style"`
	DealBreakers        []string `json:"deal_breakers"`
	LifeGoals           []string `json:"life_goals"`
	DatingStyle         *string  `json:"dating_style"`
	ProfileCompleteness float64  `json:"profile_completeness"`
}

// UserResponse is the owner's full view of their account.
type UserResponse struct {
	*domain.User
	Age     int             `json:"age,omitempty"`
	Photos  []*domain.Photo `json:"photos"`
	Profile *ProfileData    `json:"profile"`
}

// CandidateView is what other users see: account attributes minus the ones
// the owner hid, plus photos and profile data.
type CandidateView struct {
	ID                 uuid.UUID       `json:"id"`
	DisplayName        *string         `json:"display_name"`
	Age                int             `json:"age,omitempty"`
	Gender             *string         `json:"gender"`
	Location           *string         `json:"location"`
	DistanceKm         *float64        `json:"distance_km,omitempty"`
	HeightInches       *int            `json:"height_inches"`
	HomeTown           *string         `json:"home_town"`
	SexualOrientation  *string         `json:"sexual_orientation"`
	JobTitle           *string         `json:"job_title"`
	CollegeUniversity  *string         `json:"college_university"`
	Languages          []string        `json:"languages"`
	Religion           *string         `json:"religion"`
	Drinking           *string         `json:"drinking"`
	Smoking            *string         `json:"smoking"`
	RelationshipGoal   *string         `json:"relationship_goal"`
	Photos             []*domain.Photo `json:"photos"`
	Profile            *ProfileData    `json:"profile"`
	CompatibilityScore float64         `json:"compatibility_score"`
	CreatedAt          time.Time       `json:"created_at"`
}

// decodeList reads a stored list dimension. Values that are not a JSON
// array come back as a single item so nothing stored is lost.
func decodeList(raw *string) []string {
	if raw == nil || *raw == "" {
		return nil
	}
	var items []string
	if err := json.Unmarshal([]byte(*raw), &items); err != nil {
		return []string{*raw}
	}
	return items
}

func BuildProfileData(p *domain.Profile) *ProfileData {
	if p == nil {
		return nil
	}
	return &ProfileData{
		Bio:                 p.Bio,
		Interests:           decodeList(p.Interests),
		Values:              decodeList(p.Values),
		PersonalityTraits:   decodeList(p.PersonalityTraits),
		RelationshipGoals:   p.RelationshipGoals,
		CommunicationStyle:  p.CommunicationStyle,
		DealBreakers:        decodeList(p.DealBreakers),
		LifeGoals:           decodeList(p.LifeGoals),
		DatingStyle:         p.DatingStyle,
		ProfileCompleteness: p.ProfileCompleteness,
	}
}

func sortPhotos(photos []*domain.Photo) []*domain.Photo {
	if photos == nil {
		return []*domain.Photo{}
	}
	sort.SliceStable(photos, func(i, j int) bool {
		return photos[i].OrderIndex < photos[j].OrderIndex
	})
	return photos
}

func BuildUserResponse(u *domain.User, photos []*domain.Photo, p *domain.Profile) *UserResponse {
	return &UserResponse{
		User:    u,
		Age:     u.Age(),
		Photos:  sortPhotos(photos),
		Profile: BuildProfileData(p),
	}
}

// BuildCandidateView renders u for another user. Hidden attributes are
// left empty.
func BuildCandidateView(u *domain.User, photos []*domain.Photo, p *domain.Profile, score float64) *CandidateView {
	v := &CandidateView{
		ID:                 u.ID,
		DisplayName:        u.DisplayName,
		Age:                u.Age(),
		Location:           u.Location,
		HeightInches:       u.HeightInches,
		Photos:             sortPhotos(photos),
		Profile:            BuildProfileData(p),
		CompatibilityScore: score,
		CreatedAt:          u.CreatedAt,
	}

	str := func(field string, value *string) *string {
		if u.IsHidden(field) {
			return nil
		}
		return value
	}
	v.Gender = str("gender", u.Gender)
	v.HomeTown = str("home_town", u.HomeTown)
	v.SexualOrientation = str("sexual_orientation", u.SexualOrientation)
	v.JobTitle = str("job_title", u.JobTitle)
	v.CollegeUniversity = str("college_university", u.CollegeUniversity)
	v.Religion = str("religion", u.Religion)
	v.Drinking = str("drinking", u.Drinking)
	v.Smoking = str("smoking", u.Smoking)
	v.RelationshipGoal = str("relationship_goal", u.RelationshipGoal)
	if !u.IsHidden("languages") {
		v.Languages = u.Languages
	}
	return v
}
