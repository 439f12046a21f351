package domain

import (
	"time"

	"github.com/google/uuid"
)

// Profile holds the personality dimensions gathered during onboarding.
// List-valued fields are stored as JSON arrays, string-valued fields as plain text.
type Profile struct {
	ID                     uuid.UUID `json:"id" db:"id"`
	UserID                 uuid.UUID `json:"user_id" db:"user_id"`
	Bio                    *string   `json:"bio" db:"bio"`
	Interests              *string   `json:"interests" db:"interests"`
	Values                 *string   `json:"values" db:"values"`
	PersonalityTraits      *string   `json:"personality_traits" db:"personality_traits"`
	RelationshipGoals      *string   `json:"relationship_goals" db:"relationship_goals"`
	CommunicationStyle     *string   `json:"communication_style" db:"communication_style"`
	DealBreakers           *string   `json:"deal_breakers" db:"deal_breakers"`
	LifeGoals              *string   `json:"life_goals" db:"life_goals"`
	DatingStyle            *string   `json:"dating_style" db:"dating_style"`
	ConversationHighlights *string   `json:"conversation_highlights" db:"conversation_highlights"`
	ProfileCompleteness    float64   `json:"profile_completeness" db:"profile_completeness"`
	UpdatedAt              time.Time `json:"updated_at" db:"updated_at"`
}

const (
	FieldBio                    = "bio"
	FieldInterests              = "interests"
	FieldValues                 = "values"
	FieldPersonalityTraits      = "personality_traits"
	FieldRelationshipGoals      = "relationship_goals"
	FieldCommunicationStyle     = "communication_style"
	FieldDealBreakers           = "deal_breakers"
	FieldLifeGoals              = "life_goals"
	FieldDatingStyle            = "dating_style"
	FieldConversationHighlights = "conversation_highlights"
)

// CompletenessFields is the fixed field set profile_completeness is measured against.
var CompletenessFields = []string{
	FieldBio,
	FieldInterests,
	FieldValues,
	FieldPersonalityTraits,
	FieldRelationshipGoals,
	FieldCommunicationStyle,
	FieldDealBreakers,
	FieldLifeGoals,
	FieldDatingStyle,
	FieldConversationHighlights,
}

func NewProfile(userID uuid.UUID) *Profile {
	return &Profile{
		ID:     uuid.New(),
		UserID: userID,
	}
}

// Field returns a pointer to the storage slot of the named dimension, or nil for unknown names.
func (p *Profile) Field(name string) **string {
	switch name {
	case FieldBio:
		return &p.Bio
	case FieldInterests:
		return &p.Interests
	case FieldValues:
		return &p.Values
	case FieldPersonalityTraits:
		return &p.PersonalityTraits
	case FieldRelationshipGoals:
		return &p.RelationshipGoals
	case FieldCommunicationStyle:
		return &p.CommunicationStyle
	case FieldDealBreakers:
		return &p.DealBreakers
	case FieldLifeGoals:
		return &p.LifeGoals
	case FieldDatingStyle:
		return &p.DatingStyle
	case FieldConversationHighlights:
		return &p.ConversationHighlights
	}
	return nil
}

// Get returns the raw stored value of a dimension. A nil profile has no values.
func (p *Profile) Get(name string) *string {
	if p == nil {
		return nil
	}
	slot := p.Field(name)
	if slot == nil {
		return nil
	}
	return *slot
}

// Completeness is the share of fields that are non-null.
func Completeness(p *Profile, fields []string) float64 {
	if p == nil || len(fields) == 0 {
		return 0
	}
	filled := 0
	for _, f := range fields {
		if p.Get(f) != nil {
			filled++
		}
	}
	return float64(filled) / float64(len(fields))
}

// RecomputeCompleteness refreshes the materialised completeness value.
func (p *Profile) RecomputeCompleteness() {
	p.ProfileCompleteness = Completeness(p, CompletenessFields)
}
