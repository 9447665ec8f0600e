package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/tablefork/backend/internal/logger"
	"github.com/pageza/tablefork/backend/internal/service"
	"github.com/pageza/tablefork/backend/internal/testhelpers"
)

func TestGetUser(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	users := service.NewUserService(db, logger.NewNop())
	ctx := context.Background()

	author := testhelpers.CreateTestUser(t, db, "author")

	view, err := users.Get(ctx, nil, author.ID)
	require.NoError(t, err)
	assert.Equal(t, "author", view.Username)
	assert.False(t, view.IsSubscribed)

	_, err = users.Get(ctx, nil, uuid.New())
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestGetUserSubscribedFlag(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	users := service.NewUserService(db, logger.NewNop())
	follows := service.NewFollowService(db, logger.NewNop())
	ctx := context.Background()

	reader := testhelpers.CreateTestUser(t, db, "reader")
	author := testhelpers.CreateTestUser(t, db, "author")

	_, err := follows.Subscribe(ctx, reader.ID, author.ID, 0)
	require.NoError(t, err)

	view, err := users.Get(ctx, &reader.ID, author.ID)
	require.NoError(t, err)
	assert.True(t, view.IsSubscribed)

	// The flag is directional.
	back, err := users.Get(ctx, &author.ID, reader.ID)
	require.NoError(t, err)
	assert.False(t, back.IsSubscribed)
}

func TestListUsers(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	users := service.NewUserService(db, logger.NewNop())
	ctx := context.Background()

	testhelpers.CreateTestUser(t, db, "carol")
	testhelpers.CreateTestUser(t, db, "alice")
	testhelpers.CreateTestUser(t, db, "bob")

	all, err := users.List(ctx, nil, 10, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "alice", all[0].Username)
	assert.Equal(t, "bob", all[1].Username)
	assert.Equal(t, "carol", all[2].Username)

	page, err := users.List(ctx, nil, 2, 2)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "carol", page[0].Username)
}
