package block

import (
	"context"
	"testing"

	"github.com/gdugdh24/mutual-backend/internal/domain"
	"github.com/gdugdh24/mutual-backend/internal/repository"
	"github.com/gdugdh24/mutual-backend/internal/repository/memory"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fixture struct {
	uc      *BlockUseCase
	users   repository.UserRepository
	matches repository.MatchRepository
	likes   repository.LikeRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	s := memory.NewStore()
	f := &fixture{
		users:   memory.NewUserRepository(s),
		matches: memory.NewMatchRepository(s),
		likes:   memory.NewLikeRepository(s),
	}
	f.uc = NewBlockUseCase(memory.NewBlockRepository(s), f.users, zap.NewNop())
	return f
}

func (f *fixture) addUser(t *testing.T) *domain.User {
	t.Helper()
	u := &domain.User{ID: uuid.New(), Email: uuid.NewString() + "@example.com", IsActive: true}
	require.NoError(t, f.users.Create(context.Background(), u))
	return u
}

func TestBlockRemovesMatchAndLikes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a, b := f.addUser(t), f.addUser(t)
	require.NoError(t, f.likes.Create(ctx, &domain.Like{ID: uuid.New(), LikerID: a.ID, LikedID: b.ID}))
	require.NoError(t, f.likes.Create(ctx, &domain.Like{ID: uuid.New(), LikerID: b.ID, LikedID: a.ID}))
	require.NoError(t, f.matches.Create(ctx, &domain.Match{ID: uuid.New(), User1ID: a.ID, User2ID: b.ID}))

	resp, err := f.uc.Block(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, b.ID, resp.BlockedUserID)
	assert.True(t, resp.AutoUnmatched)

	_, err = f.matches.GetByUsers(ctx, a.ID, b.ID)
	assert.ErrorIs(t, err, domain.ErrMatchNotFound)
	_, err = f.likes.Get(ctx, b.ID, a.ID)
	assert.ErrorIs(t, err, domain.ErrLikeNotFound)

	c := f.addUser(t)
	resp, err = f.uc.Block(ctx, a.ID, c.ID)
	require.NoError(t, err)
	assert.False(t, resp.AutoUnmatched)
}

func TestBlockRejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a, b := f.addUser(t), f.addUser(t)
	_, err := f.uc.Block(ctx, a.ID, b.ID)
	require.NoError(t, err)

	_, err = f.uc.Block(ctx, a.ID, a.ID)
	assert.ErrorIs(t, err, domain.ErrCannotTargetSelf)
	_, err = f.uc.Block(ctx, a.ID, uuid.New())
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
	_, err = f.uc.Block(ctx, a.ID, b.ID)
	assert.ErrorIs(t, err, domain.ErrAlreadyBlocked)

	// The other direction is a separate block.
	_, err = f.uc.Block(ctx, b.ID, a.ID)
	assert.NoError(t, err)
}

func TestUnblockAndList(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	me := f.addUser(t)
	first, second := f.addUser(t), f.addUser(t)
	_, err := f.uc.Block(ctx, me.ID, first.ID)
	require.NoError(t, err)
	_, err = f.uc.Block(ctx, me.ID, second.ID)
	require.NoError(t, err)

	list, err := f.uc.List(ctx, me.ID, DefaultLimit, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, list.Total)
	require.Len(t, list.Blocks, 2)
	assert.Equal(t, second.ID, list.Blocks[0].BlockedUserID)

	require.NoError(t, f.uc.Unblock(ctx, me.ID, first.ID))
	assert.ErrorIs(t, f.uc.Unblock(ctx, me.ID, first.ID), domain.ErrBlockNotFound)

	list, err = f.uc.List(ctx, me.ID, DefaultLimit, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, list.Total)

	_, err = f.uc.List(ctx, me.ID, 0, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
