package match

import (
	"context"
	"errors"
	"testing"

	"github.com/gdugdh24/mutual-backend/internal/domain"
	"github.com/gdugdh24/mutual-backend/internal/repository"
	"github.com/gdugdh24/mutual-backend/internal/repository/memory"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeIcebreakers struct {
	calls int
	got   [2][]string
	err   error
}

func (f *fakeIcebreakers) GenerateIcebreakers(ctx context.Context, a, b []string) ([]string, error) {
	f.calls++
	f.got = [2][]string{a, b}
	if f.err != nil {
		return nil, f.err
	}
	return []string{"What was your last hike?", "Favourite jazz record?"}, nil
}

type fixture struct {
	uc       *MatchUseCase
	gen      *fakeIcebreakers
	users    repository.UserRepository
	profiles repository.ProfileRepository
	matches  repository.MatchRepository
	messages repository.MessageRepository
	likes    repository.LikeRepository
	blocks   repository.BlockRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	s := memory.NewStore()
	f := &fixture{
		gen:      &fakeIcebreakers{},
		users:    memory.NewUserRepository(s),
		profiles: memory.NewProfileRepository(s),
		matches:  memory.NewMatchRepository(s),
		messages: memory.NewMessageRepository(s),
		likes:    memory.NewLikeRepository(s),
		blocks:   memory.NewBlockRepository(s),
	}
	f.uc = NewMatchUseCase(f.matches, f.users, f.profiles, memory.NewPhotoRepository(s), f.blocks, f.gen, zap.NewNop())
	return f
}

func (f *fixture) addUser(t *testing.T, interests string) *domain.User {
	t.Helper()
	ctx := context.Background()
	name := "User " + uuid.NewString()[:4]
	u := &domain.User{ID: uuid.New(), Email: uuid.NewString() + "@example.com", DisplayName: &name, IsActive: true}
	require.NoError(t, f.users.Create(ctx, u))
	if interests != "" {
		p := domain.NewProfile(u.ID)
		p.Interests = &interests
		require.NoError(t, f.profiles.Upsert(ctx, p))
	}
	return u
}

func (f *fixture) match(t *testing.T, a, b *domain.User) *domain.Match {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, f.likes.Create(ctx, &domain.Like{ID: uuid.New(), LikerID: a.ID, LikedID: b.ID}))
	require.NoError(t, f.likes.Create(ctx, &domain.Like{ID: uuid.New(), LikerID: b.ID, LikedID: a.ID}))
	score := 0.5
	m := &domain.Match{ID: uuid.New(), User1ID: a.ID, User2ID: b.ID, CompatibilityScore: &score}
	require.NoError(t, f.matches.Create(ctx, m))
	return m
}

func TestList(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	me := f.addUser(t, `["hiking"]`)
	a := f.addUser(t, `["jazz"]`)
	b := f.addUser(t, "")
	f.match(t, me, a)
	f.match(t, b, me)
	f.match(t, a, b)

	resp, err := f.uc.List(ctx, me.ID, DefaultLimit, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Total)
	require.Len(t, resp.Matches, 2)

	others := map[uuid.UUID]bool{}
	for _, m := range resp.Matches {
		require.NotNil(t, m.OtherUser)
		others[m.OtherUser.ID] = true
		assert.Equal(t, 0.5, *m.CompatibilityScore)
		assert.Equal(t, 0.5, m.OtherUser.CompatibilityScore)
	}
	assert.Equal(t, map[uuid.UUID]bool{a.ID: true, b.ID: true}, others)

	page, err := f.uc.List(ctx, me.ID, 1, 1)
	require.NoError(t, err)
	assert.Len(t, page.Matches, 1)
	assert.Equal(t, 2, page.Total)

	_, err = f.uc.List(ctx, me.ID, MaxLimit+1, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUnmatch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.addUser(t, "")
	b := f.addUser(t, "")
	stranger := f.addUser(t, "")
	m := f.match(t, a, b)
	require.NoError(t, f.messages.Create(ctx, &domain.DirectMessage{ID: uuid.New(), MatchID: m.ID, SenderID: a.ID, Content: "hi"}))

	assert.ErrorIs(t, f.uc.Unmatch(ctx, stranger.ID, m.ID), domain.ErrNotMatchMember)
	assert.ErrorIs(t, f.uc.Unmatch(ctx, a.ID, uuid.New()), domain.ErrMatchNotFound)

	require.NoError(t, f.uc.Unmatch(ctx, b.ID, m.ID))

	_, err := f.matches.GetByID(ctx, m.ID)
	assert.ErrorIs(t, err, domain.ErrMatchNotFound)
	msgs, err := f.messages.GetByMatch(ctx, m.ID, 50, 0)
	require.NoError(t, err)
	assert.Empty(t, msgs)
	_, err = f.likes.Get(ctx, a.ID, b.ID)
	assert.ErrorIs(t, err, domain.ErrLikeNotFound)
}

func TestIcebreakersGeneratedOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.addUser(t, `["hiking"]`)
	b := f.addUser(t, `["jazz"]`)
	m := f.match(t, a, b)

	first, err := f.uc.Icebreakers(ctx, a.ID, m.ID)
	require.NoError(t, err)
	assert.Len(t, first.Icebreakers, 2)
	assert.Equal(t, [2][]string{{"hiking"}, {"jazz"}}, f.gen.got)

	second, err := f.uc.Icebreakers(ctx, b.ID, m.ID)
	require.NoError(t, err)
	assert.Equal(t, first.Icebreakers, second.Icebreakers)
	assert.Equal(t, 1, f.gen.calls)
}

func TestIcebreakersErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("generator failure", func(t *testing.T) {
		f := newFixture(t)
		f.gen.err = errors.New("quota")
		a, b := f.addUser(t, ""), f.addUser(t, "")
		m := f.match(t, a, b)
		_, err := f.uc.Icebreakers(ctx, a.ID, m.ID)
		assert.ErrorIs(t, err, domain.ErrLLMUnavailable)
	})

	t.Run("no generator configured", func(t *testing.T) {
		f := newFixture(t)
		f.uc.icebreakers = nil
		a, b := f.addUser(t, ""), f.addUser(t, "")
		m := f.match(t, a, b)
		_, err := f.uc.Icebreakers(ctx, a.ID, m.ID)
		assert.ErrorIs(t, err, domain.ErrLLMUnavailable)
	})

	t.Run("not a member", func(t *testing.T) {
		f := newFixture(t)
		a, b, c := f.addUser(t, ""), f.addUser(t, ""), f.addUser(t, "")
		m := f.match(t, a, b)
		_, err := f.uc.Icebreakers(ctx, c.ID, m.ID)
		assert.ErrorIs(t, err, domain.ErrNotMatchMember)
	})
}
