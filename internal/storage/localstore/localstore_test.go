package localstore

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/citypulse/citypulse-backend/internal/auth/domain"
	"github.com/citypulse/citypulse-backend/internal/catalog"
)

func setupStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return New(client), mr
}

func testUser(uid string) *domain.User {
	return &domain.User{
		UID:            uid,
		Email:          uid + "@example.com",
		EmailVerified:  true,
		CreatedAt:      time.Now().UTC().Format(time.RFC3339),
		LastLoginAt:    time.Now().UTC().Format(time.RFC3339),
		FavoriteEvents: []string{},
		Preferences: domain.Preferences{
			Language:      "en",
			Notifications: true,
			Theme:         "light",
		},
	}
}

func TestStore_User(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()

	t.Run("round trips a user record", func(t *testing.T) {
		user := testUser("u1")
		require.NoError(t, store.SaveUser(ctx, user))

		got := store.GetUser(ctx)
		require.NotNil(t, got)
		assert.Equal(t, "u1", got.UID)
		assert.Equal(t, "u1@example.com", got.Email)
	})

	t.Run("rejects a user without uid", func(t *testing.T) {
		err := store.SaveUser(ctx, &domain.User{})
		assert.Error(t, err)
	})

	t.Run("absent user reads as nil", func(t *testing.T) {
		store, _ := setupStore(t)
		assert.Nil(t, store.GetUser(ctx))
	})

	t.Run("corrupt record reads as nil", func(t *testing.T) {
		store, mr := setupStore(t)
		mr.Set("cityPulse_user", "{not json")
		assert.Nil(t, store.GetUser(ctx))
	})
}

func TestStore_UserSession(t *testing.T) {
	ctx := context.Background()

	t.Run("saves with a 30 day expiry", func(t *testing.T) {
		store, _ := setupStore(t)
		require.NoError(t, store.SaveUserSession(ctx, "u1", testUser("u1")))

		sess := store.GetUserSession(ctx)
		require.NotNil(t, sess)
		assert.Equal(t, "u1", sess.FirebaseUID)
		assert.Equal(t, "u1", sess.UserData.UID)

		expiresAt, err := time.Parse(time.RFC3339, sess.ExpiresAt)
		require.NoError(t, err)
		assert.WithinDuration(t, time.Now().Add(30*24*time.Hour), expiresAt, time.Minute)
	})

	t.Run("expired session reads as absent and is evicted", func(t *testing.T) {
		store, mr := setupStore(t)

		expired := domain.Session{
			FirebaseUID: "u1",
			UserData:    *testUser("u1"),
			SavedAt:     time.Now().Add(-31 * 24 * time.Hour).UTC().Format(time.RFC3339),
			ExpiresAt:   time.Now().Add(-24 * time.Hour).UTC().Format(time.RFC3339),
		}
		raw, err := json.Marshal(expired)
		require.NoError(t, err)
		mr.Set("cityPulse_user_session", string(raw))

		assert.Nil(t, store.GetUserSession(ctx))
		assert.False(t, mr.Exists("cityPulse_user_session"), "expired envelope must be removed")
	})

	t.Run("clear removes the envelope", func(t *testing.T) {
		store, mr := setupStore(t)
		require.NoError(t, store.SaveUserSession(ctx, "u1", testUser("u1")))
		require.NoError(t, store.ClearUserSession(ctx))
		assert.False(t, mr.Exists("cityPulse_user_session"))
	})
}

func TestStore_BiometricCredential(t *testing.T) {
	ctx := context.Background()

	t.Run("round trips a credential", func(t *testing.T) {
		store, _ := setupStore(t)
		require.NoError(t, store.SaveBiometricCredential(ctx, "u1", "cred-abc"))

		cred := store.GetBiometricCredential(ctx)
		require.NotNil(t, cred)
		assert.Equal(t, "u1", cred.FirebaseUID)
		assert.Equal(t, "cred-abc", cred.CredentialID)
		assert.NotEmpty(t, cred.CreatedAt)
	})

	t.Run("clear removes credential and session together", func(t *testing.T) {
		store, mr := setupStore(t)
		require.NoError(t, store.SaveBiometricCredential(ctx, "u1", "cred-abc"))
		require.NoError(t, store.SaveUserSession(ctx, "u1", testUser("u1")))

		require.NoError(t, store.ClearBiometricData(ctx))
		assert.False(t, mr.Exists("cityPulse_biometric"))
		assert.False(t, mr.Exists("cityPulse_user_session"))
	})
}

func TestStore_Favorites(t *testing.T) {
	ctx := context.Background()

	t.Run("adding the same event twice keeps one entry", func(t *testing.T) {
		store, _ := setupStore(t)
		event := &catalog.Event{ID: "ev1", Name: "Concert"}

		require.NoError(t, store.SaveFavoriteEvent(ctx, event))
		require.NoError(t, store.SaveFavoriteEvent(ctx, event))

		favorites := store.GetFavoriteEvents(ctx)
		require.Len(t, favorites, 1)
		assert.Equal(t, "ev1", favorites[0].ID)
	})

	t.Run("remove deletes only the matching event", func(t *testing.T) {
		store, _ := setupStore(t)
		require.NoError(t, store.SaveFavoriteEvent(ctx, &catalog.Event{ID: "ev1"}))
		require.NoError(t, store.SaveFavoriteEvent(ctx, &catalog.Event{ID: "ev2"}))

		require.NoError(t, store.RemoveFavoriteEvent(ctx, "ev1"))

		favorites := store.GetFavoriteEvents(ctx)
		require.Len(t, favorites, 1)
		assert.Equal(t, "ev2", favorites[0].ID)
	})

	t.Run("rejects an event without id", func(t *testing.T) {
		store, _ := setupStore(t)
		assert.Error(t, store.SaveFavoriteEvent(ctx, &catalog.Event{}))
	})

	t.Run("empty list when nothing stored", func(t *testing.T) {
		store, _ := setupStore(t)
		assert.Empty(t, store.GetFavoriteEvents(ctx))
	})
}

func TestStore_ClearAll(t *testing.T) {
	store, mr := setupStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveUser(ctx, testUser("u1")))
	require.NoError(t, store.SaveFavoriteEvent(ctx, &catalog.Event{ID: "ev1"}))
	require.NoError(t, store.SaveUserPreferences(ctx, "u1", map[string]interface{}{"theme": "dark"}))
	require.NoError(t, store.SaveBiometricCredential(ctx, "u1", "cred-abc"))

	require.NoError(t, store.ClearAll(ctx))

	assert.False(t, mr.Exists("cityPulse_user"))
	assert.False(t, mr.Exists("cityPulse_favorites"))
	assert.False(t, mr.Exists("cityPulse_preferences"))
	// ClearAll does not touch the biometric credential
	assert.True(t, mr.Exists("cityPulse_biometric"))
}

func TestStore_Preferences(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveUserPreferences(ctx, "u1", map[string]interface{}{"notifications": false}))

	prefs := store.GetUserPreferences(ctx)
	require.NotNil(t, prefs)
	assert.Equal(t, "u1", prefs.UserID)
	assert.Equal(t, false, prefs.Values["notifications"])
}
