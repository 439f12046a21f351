package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type User struct {
	ID                   uuid.UUID      `json:"id" db:"id"`
	Email                string         `json:"email" db:"email"`
	HashedPassword       string         `json:"-" db:"hashed_password"`
	DisplayName          *string        `json:"display_name" db:"display_name"`
	DateOfBirth          *time.Time     `json:"date_of_birth" db:"date_of_birth"`
	Gender               *string        `json:"gender" db:"gender"`
	GenderPreference     pq.StringArray `json:"gender_preference" db:"gender_preference"`
	Location             *string        `json:"location" db:"location"`
	Latitude             *float64       `json:"latitude" db:"latitude"`
	Longitude            *float64       `json:"longitude" db:"longitude"`
	MaxDistanceKm        int            `json:"max_distance_km" db:"max_distance_km"`
	AgeRangeMin          int            `json:"age_range_min" db:"age_range_min"`
	AgeRangeMax          int            `json:"age_range_max" db:"age_range_max"`
	HeightInches         *int           `json:"height_inches" db:"height_inches"`
	PrefHeightMin        *int           `json:"pref_height_min" db:"pref_height_min"`
	PrefHeightMax        *int           `json:"pref_height_max" db:"pref_height_max"`
	HomeTown             *string        `json:"home_town" db:"home_town"`
	SexualOrientation    *string        `json:"sexual_orientation" db:"sexual_orientation"`
	JobTitle             *string        `json:"job_title" db:"job_title"`
	CollegeUniversity    *string        `json:"college_university" db:"college_university"`
	EducationLevel       *string        `json:"education_level" db:"education_level"`
	Languages            pq.StringArray `json:"languages" db:"languages"`
	Religion             *string        `json:"religion" db:"religion"`
	ReligionPreference   pq.StringArray `json:"religion_preference" db:"religion_preference"`
	Drinking             *string        `json:"drinking" db:"drinking"`
	Smoking              *string        `json:"smoking" db:"smoking"`
	RelationshipGoal     *string        `json:"relationship_goal" db:"relationship_goal"`
	HiddenFields         pq.StringArray `json:"hidden_fields" db:"hidden_fields"`
	ProfileSetupComplete bool           `json:"profile_setup_complete" db:"profile_setup_complete"`
	IsActive             bool           `json:"is_active" db:"is_active"`
	TokenInvalidatedAt   *time.Time     `json:"-" db:"token_invalidated_at"`
	CreatedAt            time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt            time.Time      `json:"updated_at" db:"updated_at"`
}

const (
	DefaultMaxDistanceKm = 50
	DefaultAgeRangeMin   = 18
	DefaultAgeRangeMax   = 99
)

// HideableFields lists the account attributes a user may hide from other users.
var HideableFields = map[string]struct{}{
	"home_town":          {},
	"gender":             {},
	"sexual_orientation": {},
	"job_title":          {},
	"college_university": {},
	"languages":          {},
	"religion":           {},
	"drinking":           {},
	"smoking":            {},
	"relationship_goal":  {},
}

// Age returns the user's age in whole years, or 0 if the birth date is unknown.
func (u *User) Age() int {
	if u.DateOfBirth == nil {
		return 0
	}
	return AgeAt(*u.DateOfBirth, time.Now())
}

func AgeAt(dob, now time.Time) int {
	age := now.Year() - dob.Year()
	if now.Month() < dob.Month() || (now.Month() == dob.Month() && now.Day() < dob.Day()) {
		age--
	}
	return age
}

// FirstName is the first word of the display name, used to personalise prompts.
func (u *User) FirstName() string {
	if u.DisplayName == nil {
		return "there"
	}
	words := strings.Fields(*u.DisplayName)
	if len(words) == 0 {
		return "there"
	}
	return words[0]
}

func (u *User) IsHidden(field string) bool {
	for _, f := range u.HiddenFields {
		if f == field {
			return true
		}
	}
	return false
}

// TokenRevoked reports whether a token issued at issuedAt predates a forced invalidation.
func (u *User) TokenRevoked(issuedAt time.Time) bool {
	if u.TokenInvalidatedAt == nil {
		return false
	}
	return !issuedAt.After(*u.TokenInvalidatedAt)
}
