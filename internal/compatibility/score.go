package compatibility

import (
	"math"

	"github.com/gdugdh24/mutual-backend/internal/domain"
	"go.uber.org/zap"
)

// Dimension is one scored profile attribute and its share of the final score.
type Dimension struct {
	Field  string
	Weight float64
}

// Dimensions sum to 1.0. Dimensions missing on either side are dropped and
// the remaining weights are re-normalized, so sparse profiles are not
// penalised for sparsity, only for disagreement.
var Dimensions = []Dimension{
	{Field: domain.FieldValues, Weight: 0.30},
	{Field: domain.FieldRelationshipGoals, Weight: 0.25},
	{Field: domain.FieldInterests, Weight: 0.15},
	{Field: domain.FieldPersonalityTraits, Weight: 0.15},
	{Field: domain.FieldCommunicationStyle, Weight: 0.15},
}

// Jaccard returns |a∩b| / |a∪b|, or 0 when either set is empty.
func Jaccard(a, b TokenSet) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	small, large := a, b
	if len(small) > len(large) {
		small, large = large, small
	}
	intersection := 0
	for t := range small {
		if large.Has(t) {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	return float64(intersection) / float64(union)
}

type Scorer struct {
	logger *zap.Logger
}

func NewScorer(logger *zap.Logger) *Scorer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scorer{logger: logger}
}

// Score returns a compatibility value in [0, 1]. A nil profile, or no
// dimension populated on both sides, scores 0.
func (s *Scorer) Score(a, b *domain.Profile) float64 {
	if a == nil || b == nil {
		return 0
	}

	var weighted, totalWeight float64
	for _, dim := range Dimensions {
		setA := s.parse(a, dim.Field)
		setB := s.parse(b, dim.Field)
		if len(setA) == 0 || len(setB) == 0 {
			continue
		}
		weighted += Jaccard(setA, setB) * dim.Weight
		totalWeight += dim.Weight
	}

	if totalWeight == 0 {
		return 0
	}
	return weighted / totalWeight
}

func (s *Scorer) parse(p *domain.Profile, field string) TokenSet {
	tokens, err := parseField(p.Get(field))
	if err != nil {
		s.logger.Warn("stored profile field is not valid JSON, tokenizing as text",
			zap.String("user_id", p.UserID.String()),
			zap.String("field", field),
			zap.Error(err),
		)
	}
	return tokens
}

// Score is Scorer.Score without logging.
func Score(a, b *domain.Profile) float64 {
	return nopScorer.Score(a, b)
}

var nopScorer = NewScorer(nil)

// RoundScore rounds to 4 decimal places for storage and display.
func RoundScore(score float64) float64 {
	return math.Round(score*10000) / 10000
}
