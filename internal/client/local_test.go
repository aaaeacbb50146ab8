package client

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lookmate/lookmate-backend/internal/models"
	"github.com/lookmate/lookmate-backend/internal/services"
)

func registerLocal(t *testing.T, auth *LocalAuth, email string) *models.AuthUser {
	t.Helper()
	user, err := auth.Register(context.Background(), &services.RegisterRequest{
		Email:       email,
		Password:    "secret1",
		DisplayName: "Mina",
	})
	require.NoError(t, err)
	return user
}

func TestLocalAuth_RegisterLoginLogout(t *testing.T) {
	ctx := context.Background()
	auth := NewLocalAuth(NewMemoryStorage())

	user := registerLocal(t, auth, "Mina@Example.com")
	assert.Equal(t, "mina@example.com", user.Email)

	current, err := auth.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, user, current)

	require.NoError(t, auth.Logout(ctx))
	current, err = auth.Current(ctx)
	require.NoError(t, err)
	assert.Nil(t, current)

	_, err = auth.Login(ctx, &services.LoginRequest{Email: "mina@example.com", Password: "wrong-password"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = auth.Login(ctx, &services.LoginRequest{Email: "nobody@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	again, err := auth.Login(ctx, &services.LoginRequest{Email: "MINA@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, user.ID, again.ID)
}

func TestLocalAuth_RejectsDuplicateAndShortPassword(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()
	auth := NewLocalAuth(storage)
	registerLocal(t, auth, "mina@example.com")

	_, err := auth.Register(ctx, &services.RegisterRequest{Email: "mina@example.com", Password: "another1", DisplayName: "Other"})
	assert.ErrorIs(t, err, ErrConflict)

	_, err = auth.Register(ctx, &services.RegisterRequest{Email: "short@example.com", Password: "abc", DisplayName: "Short"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = auth.Register(ctx, &services.RegisterRequest{Email: "not-an-email", Password: "secret1", DisplayName: "Bad"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	raw, ok, err := storage.Get(sharedKey(collectionUsers))
	require.NoError(t, err)
	require.True(t, ok)
	assert.NotContains(t, string(raw), "secret1")
}

func TestLocalRepository_ItemCRUD(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()
	user := registerLocal(t, NewLocalAuth(storage), "mina@example.com")
	repo := NewLocalRepository(storage)

	item, err := repo.CreateItem(ctx, user, &services.CreateClothingItemRequest{Category: "top", ImageURL: "x", Color: "black"})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, item.ID)
	assert.Equal(t, models.CategoryTop, item.Category)
	assert.Equal(t, "black", item.Color)
	assert.False(t, item.IsFavorite)
	assert.False(t, item.IsPurchased)
	assert.Nil(t, item.Price)

	color := "navy"
	updated, err := repo.UpdateItem(ctx, user, item.ID, &services.UpdateClothingItemRequest{Color: &color})
	require.NoError(t, err)
	assert.Equal(t, "navy", updated.Color)
	assert.Equal(t, "x", updated.ImageURL)

	items, err := repo.ListItems(ctx, user)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "navy", items[0].Color)

	require.NoError(t, repo.DeleteItem(ctx, user, item.ID))
	assert.ErrorIs(t, repo.DeleteItem(ctx, user, item.ID), ErrNotFound)

	_, err = repo.CreateItem(ctx, user, &services.CreateClothingItemRequest{Category: "hat", ImageURL: "x"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestLocalRepository_RequiresUserForWrites(t *testing.T) {
	ctx := context.Background()
	repo := NewLocalRepository(NewMemoryStorage())

	_, err := repo.CreateItem(ctx, nil, &services.CreateClothingItemRequest{Category: "top", ImageURL: "x"})
	assert.ErrorIs(t, err, ErrNotAuthenticated)

	items, err := repo.ListItems(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestLocalRepository_UsersAreIsolated(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()
	auth := NewLocalAuth(storage)
	owner := registerLocal(t, auth, "owner@example.com")
	other := registerLocal(t, auth, "other@example.com")
	repo := NewLocalRepository(storage)

	item, err := repo.CreateItem(ctx, owner, &services.CreateClothingItemRequest{Category: "top", ImageURL: "x"})
	require.NoError(t, err)

	items, err := repo.ListItems(ctx, other)
	require.NoError(t, err)
	assert.Empty(t, items)

	assert.ErrorIs(t, repo.DeleteItem(ctx, other, item.ID), ErrNotFound)

	items, err = repo.ListItems(ctx, owner)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestLocalRepository_LookKeepsItemSnapshot(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()
	user := registerLocal(t, NewLocalAuth(storage), "mina@example.com")
	repo := NewLocalRepository(storage)

	var ids []uuid.UUID
	for _, color := range []string{"red", "green", "blue"} {
		item, err := repo.CreateItem(ctx, user, &services.CreateClothingItemRequest{Category: "top", ImageURL: color + ".png", Color: color})
		require.NoError(t, err)
		ids = append(ids, item.ID)
	}

	look, err := repo.CreateLook(ctx, user, &services.CreateLookRequest{
		Name: "Weekend",
		Layers: []models.FittingLayer{
			models.NewFittingLayer(ids[0]),
			models.NewFittingLayer(ids[1]),
			models.NewFittingLayer(ids[2]),
		},
	})
	require.NoError(t, err)
	require.Len(t, look.Items, 3)

	require.NoError(t, repo.DeleteItem(ctx, user, ids[1]))

	looks, err := repo.ListLooks(ctx, user)
	require.NoError(t, err)
	require.Len(t, looks, 1)

	var found bool
	for _, item := range looks[0].Items {
		if item.ID == ids[1] {
			found = true
			assert.Equal(t, "green", item.Color)
		}
	}
	assert.True(t, found, "deleted item should remain in the look snapshot")
	assert.Len(t, looks[0].Layers, 3)
}

func createLocalLook(t *testing.T, repo *LocalRepository, user *models.AuthUser) *models.Look {
	t.Helper()
	ctx := context.Background()
	item, err := repo.CreateItem(ctx, user, &services.CreateClothingItemRequest{Category: "onepiece", ImageURL: "dress.png"})
	require.NoError(t, err)
	look, err := repo.CreateLook(ctx, user, &services.CreateLookRequest{
		Name:   "Party",
		Layers: []models.FittingLayer{models.NewFittingLayer(item.ID)},
	})
	require.NoError(t, err)
	return look
}

func TestLocalRepository_PublishIsIdempotent(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()
	user := registerLocal(t, NewLocalAuth(storage), "mina@example.com")
	repo := NewLocalRepository(storage)
	look := createLocalLook(t, repo, user)

	first, err := repo.Publish(ctx, user, look.ID)
	require.NoError(t, err)
	second, err := repo.Publish(ctx, user, look.ID)
	require.NoError(t, err)
	assert.Equal(t, first.PublicID, second.PublicID)
	assert.Equal(t, "Mina", first.OwnerName)

	feed, err := repo.ListPublicLooks(ctx, nil, FeedQuery{})
	require.NoError(t, err)
	assert.Len(t, feed, 1)

	looks, err := repo.ListLooks(ctx, user)
	require.NoError(t, err)
	assert.True(t, looks[0].IsPublic)
	require.NotNil(t, looks[0].PublicID)
	assert.Equal(t, first.PublicID, *looks[0].PublicID)
}

func TestLocalRepository_UnpublishChecksOwner(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()
	auth := NewLocalAuth(storage)
	owner := registerLocal(t, auth, "owner@example.com")
	other := registerLocal(t, auth, "other@example.com")
	repo := NewLocalRepository(storage)

	look := createLocalLook(t, repo, owner)
	published, err := repo.Publish(ctx, owner, look.ID)
	require.NoError(t, err)

	assert.ErrorIs(t, repo.Unpublish(ctx, other, published.PublicID), ErrForbidden)
	require.NoError(t, repo.Unpublish(ctx, owner, published.PublicID))
	assert.ErrorIs(t, repo.Unpublish(ctx, owner, published.PublicID), ErrNotFound)

	looks, err := repo.ListLooks(ctx, owner)
	require.NoError(t, err)
	assert.False(t, looks[0].IsPublic)
	assert.Nil(t, looks[0].PublicID)
}

func TestLocalRepository_DeleteLookRemovesFeedEntry(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()
	user := registerLocal(t, NewLocalAuth(storage), "mina@example.com")
	repo := NewLocalRepository(storage)

	look := createLocalLook(t, repo, user)
	_, err := repo.Publish(ctx, user, look.ID)
	require.NoError(t, err)

	require.NoError(t, repo.DeleteLook(ctx, user, look.ID))

	feed, err := repo.ListPublicLooks(ctx, nil, FeedQuery{})
	require.NoError(t, err)
	assert.Empty(t, feed)
}

func TestLocalRepository_ToggleReactionRoundTrip(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()
	auth := NewLocalAuth(storage)
	owner := registerLocal(t, auth, "owner@example.com")
	viewer := registerLocal(t, auth, "viewer@example.com")
	repo := NewLocalRepository(storage)

	look := createLocalLook(t, repo, owner)
	published, err := repo.Publish(ctx, owner, look.ID)
	require.NoError(t, err)

	state, err := repo.ToggleReaction(ctx, viewer, published.PublicID, models.ReactionLike)
	require.NoError(t, err)
	assert.Equal(t, &models.ReactionState{Active: true, Count: 1}, state)

	feed, err := repo.ListPublicLooks(ctx, viewer, FeedQuery{})
	require.NoError(t, err)
	require.Len(t, feed, 1)
	require.NotNil(t, feed[0].Liked)
	assert.True(t, *feed[0].Liked)
	assert.False(t, *feed[0].Bookmarked)
	assert.EqualValues(t, 1, feed[0].LikesCount)

	state, err = repo.ToggleReaction(ctx, viewer, published.PublicID, models.ReactionLike)
	require.NoError(t, err)
	assert.Equal(t, &models.ReactionState{Active: false, Count: 0}, state)

	_, err = repo.ToggleReaction(ctx, viewer, "missing", models.ReactionLike)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLocalRepository_ReactionCountNeverNegative(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()
	auth := NewLocalAuth(storage)
	owner := registerLocal(t, auth, "owner@example.com")
	repo := NewLocalRepository(storage)

	look := createLocalLook(t, repo, owner)
	published, err := repo.Publish(ctx, owner, look.ID)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		viewer := &models.AuthUser{ID: uuid.NewString(), Email: "v@example.com"}
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 3; j++ {
				state, err := repo.ToggleReaction(ctx, viewer, published.PublicID, models.ReactionBookmark)
				if assert.NoError(t, err) {
					assert.GreaterOrEqual(t, state.Count, int64(0))
				}
			}
		}()
	}
	wg.Wait()

	feed, err := repo.ListPublicLooks(ctx, nil, FeedQuery{})
	require.NoError(t, err)
	// Every viewer toggled an odd number of times
	assert.EqualValues(t, 20, feed[0].BookmarksCount)
}

func TestLocalRepository_FeedSortsByLikes(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()
	owner := registerLocal(t, NewLocalAuth(storage), "owner@example.com")
	repo := NewLocalRepository(storage)
	clock := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	repo.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}

	first, err := repo.Publish(ctx, owner, createLocalLook(t, repo, owner).ID)
	require.NoError(t, err)
	second, err := repo.Publish(ctx, owner, createLocalLook(t, repo, owner).ID)
	require.NoError(t, err)

	_, err = repo.ToggleReaction(ctx, owner, first.PublicID, models.ReactionLike)
	require.NoError(t, err)

	byLikes, err := repo.ListPublicLooks(ctx, nil, FeedQuery{Sort: services.FeedSortLikes})
	require.NoError(t, err)
	require.Len(t, byLikes, 2)
	assert.Equal(t, first.PublicID, byLikes[0].PublicID)

	limited, err := repo.ListPublicLooks(ctx, nil, FeedQuery{Limit: 1})
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, second.PublicID, limited[0].PublicID)
}
