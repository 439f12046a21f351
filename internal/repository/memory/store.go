// Package memory provides in-process repository implementations backed by a
// single mutex-guarded Store. Every write that spans several collections
// happens under one lock, so multi-entity operations are atomic.
package memory

import (
	"sync"
	"time"

	"github.com/gdugdh24/mutual-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

type Store struct {
	mu sync.RWMutex

	users          map[uuid.UUID]*domain.User
	profiles       map[uuid.UUID]*domain.Profile // by user id
	states         map[uuid.UUID]*domain.ConversationState
	chat           map[uuid.UUID][]*domain.ConversationMessage
	likes          []*domain.Like
	matches        map[uuid.UUID]*domain.Match
	directMessages map[uuid.UUID][]*domain.DirectMessage // by match id
	blocks         []*domain.Block
	photos         map[uuid.UUID][]*domain.Photo // by user id

	now func() time.Time
}

func NewStore() *Store {
	return &Store{
		users:          make(map[uuid.UUID]*domain.User),
		profiles:       make(map[uuid.UUID]*domain.Profile),
		states:         make(map[uuid.UUID]*domain.ConversationState),
		chat:           make(map[uuid.UUID][]*domain.ConversationMessage),
		matches:        make(map[uuid.UUID]*domain.Match),
		directMessages: make(map[uuid.UUID][]*domain.DirectMessage),
		photos:         make(map[uuid.UUID][]*domain.Photo),
		now:            time.Now,
	}
}

func (s *Store) deleteLikesBetween(a, b uuid.UUID) {
	kept := s.likes[:0]
	for _, l := range s.likes {
		if (l.LikerID == a && l.LikedID == b) || (l.LikerID == b && l.LikedID == a) {
			continue
		}
		kept = append(kept, l)
	}
	s.likes = kept
}

func (s *Store) matchBetween(a, b uuid.UUID) *domain.Match {
	u1, u2 := domain.OrderedPair(a, b)
	for _, m := range s.matches {
		if m.User1ID == u1 && m.User2ID == u2 {
			return m
		}
	}
	return nil
}

func (s *Store) deleteMatch(m *domain.Match) {
	delete(s.directMessages, m.ID)
	s.deleteLikesBetween(m.User1ID, m.User2ID)
	delete(s.matches, m.ID)
}

func (s *Store) blockedEitherWay(a, b uuid.UUID) bool {
	for _, bl := range s.blocks {
		if (bl.BlockerID == a && bl.BlockedID == b) || (bl.BlockerID == b && bl.BlockedID == a) {
			return true
		}
	}
	return false
}

func copyStrings(a pq.StringArray) pq.StringArray {
	if a == nil {
		return nil
	}
	return append(pq.StringArray{}, a...)
}

func copyUser(u *domain.User) *domain.User {
	c := *u
	c.GenderPreference = copyStrings(u.GenderPreference)
	c.Languages = copyStrings(u.Languages)
	c.ReligionPreference = copyStrings(u.ReligionPreference)
	c.HiddenFields = copyStrings(u.HiddenFields)
	return &c
}

func copyProfile(p *domain.Profile) *domain.Profile {
	c := *p
	return &c
}

func copyState(st *domain.ConversationState) *domain.ConversationState {
	c := *st
	c.TopicsCompleted = copyStrings(st.TopicsCompleted)
	return &c
}

func copyMatch(m *domain.Match) *domain.Match {
	c := *m
	c.Icebreakers = copyStrings(m.Icebreakers)
	return &c
}

// page applies offset and limit to n items and returns the slice bounds.
func page(n, limit, offset int) (int, int) {
	if offset >= n {
		return n, n
	}
	end := offset + limit
	if end > n {
		end = n
	}
	return offset, end
}
