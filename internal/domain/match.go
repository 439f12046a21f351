package domain

import (
	"bytes"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Like records a like or a pass from one user to another.
type Like struct {
	ID        uuid.UUID `json:"id" db:"id"`
	LikerID   uuid.UUID `json:"liker_id" db:"liker_id"`
	LikedID   uuid.UUID `json:"liked_id" db:"liked_id"`
	IsPass    bool      `json:"is_pass" db:"is_pass"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type Match struct {
	ID                 uuid.UUID      `json:"id" db:"id"`
	User1ID            uuid.UUID      `json:"user1_id" db:"user1_id"`
	User2ID            uuid.UUID      `json:"user2_id" db:"user2_id"`
	CompatibilityScore *float64       `json:"compatibility_score" db:"compatibility_score"`
	Icebreakers        pq.StringArray `json:"icebreakers" db:"icebreakers"`
	CreatedAt          time.Time      `json:"created_at" db:"created_at"`
}

func (m *Match) HasUser(userID uuid.UUID) bool {
	return m.User1ID == userID || m.User2ID == userID
}

func (m *Match) GetOtherUserID(userID uuid.UUID) (uuid.UUID, bool) {
	if m.User1ID == userID {
		return m.User2ID, true
	}
	if m.User2ID == userID {
		return m.User1ID, true
	}
	return uuid.Nil, false
}

// OrderedPair returns the two ids so that the first sorts before the second,
// matching the user1_id < user2_id constraint on matches.
func OrderedPair(a, b uuid.UUID) (uuid.UUID, uuid.UUID) {
	if bytes.Compare(a[:], b[:]) > 0 {
		return b, a
	}
	return a, b
}

type DirectMessage struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	MatchID   uuid.UUID  `json:"match_id" db:"match_id"`
	SenderID  uuid.UUID  `json:"sender_id" db:"sender_id"`
	Content   string     `json:"content" db:"content"`
	ReadAt    *time.Time `json:"read_at" db:"read_at"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
}

type Block struct {
	ID        uuid.UUID `json:"id" db:"id"`
	BlockerID uuid.UUID `json:"blocker_id" db:"blocker_id"`
	BlockedID uuid.UUID `json:"blocked_id" db:"blocked_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type Photo struct {
	ID         uuid.UUID `json:"id" db:"id"`
	UserID     uuid.UUID `json:"-" db:"user_id"`
	ObjectKey  string    `json:"-" db:"object_key"`
	URL        string    `json:"url" db:"url"`
	IsPrimary  bool      `json:"is_primary" db:"is_primary"`
	OrderIndex int       `json:"order_index" db:"order_index"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}
