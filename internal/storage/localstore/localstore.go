package localstore

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/citypulse/citypulse-backend/internal/auth/domain"
	"github.com/citypulse/citypulse-backend/internal/catalog"
)

const (
	userKey        = "cityPulse_user"
	favoritesKey   = "cityPulse_favorites"
	preferencesKey = "cityPulse_preferences"
	sessionKey     = "cityPulse_user_session"
	biometricKey   = "cityPulse_biometric"
)

// Preferences is the loosely-typed preferences record kept alongside the user
type Preferences struct {
	UserID string                 `json:"userId"`
	Values map[string]interface{} `json:"values,omitempty"`
}

// Store is the local persistence adapter. Reads soft-fail: a broken or
// missing record is reported as absent, never as an error. Writes propagate
// failures to the caller.
type Store struct {
	client *redis.Client
}

func New(client *redis.Client) *Store {
	return &Store{client: client}
}

func (s *Store) setJSON(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}
	if err := s.client.Set(ctx, key, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

// getJSON reads and unmarshals a record. Returns false when the record is
// absent or unreadable.
func (s *Store) getJSON(ctx context.Context, key string, out interface{}) bool {
	data, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return false
	}
	if err != nil {
		log.Printf("[localstore] read %s failed: %v", key, err)
		return false
	}
	if err := json.Unmarshal([]byte(data), out); err != nil {
		log.Printf("[localstore] corrupt record at %s: %v", key, err)
		return false
	}
	return true
}

// SaveUser persists the full user snapshot.
func (s *Store) SaveUser(ctx context.Context, user *domain.User) error {
	if user == nil || user.UID == "" {
		return fmt.Errorf("user must have a uid")
	}
	return s.setJSON(ctx, userKey, user)
}

// GetUser returns the cached user record, or nil when absent.
func (s *Store) GetUser(ctx context.Context) *domain.User {
	var user domain.User
	if !s.getJSON(ctx, userKey, &user) {
		return nil
	}
	return &user
}

// SaveUserSession stores a session envelope with a fresh 30-day expiry.
func (s *Store) SaveUserSession(ctx context.Context, firebaseUID string, user *domain.User) error {
	now := time.Now().UTC()
	session := domain.Session{
		FirebaseUID: firebaseUID,
		UserData:    *user,
		SavedAt:     now.Format(time.RFC3339),
		ExpiresAt:   now.Add(domain.SessionLifetime).Format(time.RFC3339),
	}
	return s.setJSON(ctx, sessionKey, session)
}

// GetUserSession returns the cached session, or nil when absent or expired.
// An expired envelope is evicted as a side effect.
func (s *Store) GetUserSession(ctx context.Context) *domain.Session {
	var session domain.Session
	if !s.getJSON(ctx, sessionKey, &session) {
		return nil
	}
	if session.Expired(time.Now()) {
		if err := s.client.Del(ctx, sessionKey).Err(); err != nil {
			log.Printf("[localstore] failed to evict expired session: %v", err)
		}
		return nil
	}
	return &session
}

// ClearUserSession removes the session envelope.
func (s *Store) ClearUserSession(ctx context.Context) error {
	if err := s.client.Del(ctx, sessionKey).Err(); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// SaveBiometricCredential links a platform credential handle to a user.
func (s *Store) SaveBiometricCredential(ctx context.Context, firebaseUID, credentialID string) error {
	cred := domain.BiometricCredential{
		FirebaseUID:  firebaseUID,
		CredentialID: credentialID,
		CreatedAt:    time.Now().UTC().Format(time.RFC3339),
	}
	return s.setJSON(ctx, biometricKey, cred)
}

// GetBiometricCredential returns the stored credential, or nil when absent.
func (s *Store) GetBiometricCredential(ctx context.Context) *domain.BiometricCredential {
	var cred domain.BiometricCredential
	if !s.getJSON(ctx, biometricKey, &cred) {
		return nil
	}
	return &cred
}

// ClearBiometricData removes the credential and the session envelope together.
func (s *Store) ClearBiometricData(ctx context.Context) error {
	if err := s.client.Del(ctx, biometricKey, sessionKey).Err(); err != nil {
		return fmt.Errorf("failed to clear biometric data: %w", err)
	}
	return nil
}

// SaveFavoriteEvent appends the event to the favorites list, deduplicated by id.
func (s *Store) SaveFavoriteEvent(ctx context.Context, event *catalog.Event) error {
	if event == nil || event.ID == "" {
		return fmt.Errorf("event must have an id")
	}

	favorites := s.GetFavoriteEvents(ctx)
	for _, fav := range favorites {
		if fav.ID == event.ID {
			return nil
		}
	}
	favorites = append(favorites, *event)
	return s.setJSON(ctx, favoritesKey, favorites)
}

// RemoveFavoriteEvent removes the event with the given id, persisting the new list.
func (s *Store) RemoveFavoriteEvent(ctx context.Context, eventID string) error {
	favorites := s.GetFavoriteEvents(ctx)
	updated := make([]catalog.Event, 0, len(favorites))
	for _, fav := range favorites {
		if fav.ID != eventID {
			updated = append(updated, fav)
		}
	}
	return s.setJSON(ctx, favoritesKey, updated)
}

// GetFavoriteEvents returns the favorites list, or an empty list when absent.
func (s *Store) GetFavoriteEvents(ctx context.Context) []catalog.Event {
	var favorites []catalog.Event
	if !s.getJSON(ctx, favoritesKey, &favorites) {
		return []catalog.Event{}
	}
	return favorites
}

// SaveUserPreferences stores the loosely-typed preferences record.
func (s *Store) SaveUserPreferences(ctx context.Context, userID string, values map[string]interface{}) error {
	return s.setJSON(ctx, preferencesKey, Preferences{UserID: userID, Values: values})
}

// GetUserPreferences returns preferences, or nil when absent.
func (s *Store) GetUserPreferences(ctx context.Context) *Preferences {
	var prefs Preferences
	if !s.getJSON(ctx, preferencesKey, &prefs) {
		return nil
	}
	return &prefs
}

// ClearAll removes the user, favorites, and preferences records.
func (s *Store) ClearAll(ctx context.Context) error {
	if err := s.client.Del(ctx, userKey, favoritesKey, preferencesKey).Err(); err != nil {
		return fmt.Errorf("failed to clear storage: %w", err)
	}
	return nil
}

// Ping checks connectivity to the underlying store.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
