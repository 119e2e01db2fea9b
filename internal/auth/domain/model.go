package domain

import (
	"errors"
	"time"
)

// SessionLifetime is how long a locally cached session stays valid.
const SessionLifetime = 30 * 24 * time.Hour

// User represents a user in the application
// Firebase UID is the primary identifier
type User struct {
	UID            string      `json:"uid" firestore:"uid"`
	Email          string      `json:"email" firestore:"email"`
	DisplayName    string      `json:"displayName" firestore:"displayName"`
	PhotoURL       string      `json:"photoURL" firestore:"photoURL"`
	PhoneNumber    string      `json:"phoneNumber" firestore:"phoneNumber"`
	EmailVerified  bool        `json:"emailVerified" firestore:"emailVerified"`
	CreatedAt      string      `json:"createdAt" firestore:"createdAt"`
	LastLoginAt    string      `json:"lastLoginAt" firestore:"lastLoginAt"`
	FavoriteEvents []string    `json:"favoriteEvents" firestore:"favoriteEvents"`
	Preferences    Preferences `json:"preferences" firestore:"preferences"`
}

// Preferences holds per-user display and notification settings
type Preferences struct {
	Language      string   `json:"language" firestore:"language"`
	Notifications bool     `json:"notifications" firestore:"notifications"`
	Theme         string   `json:"theme" firestore:"theme"`
	Location      Location `json:"location" firestore:"location"`
}

type Location struct {
	City        string       `json:"city,omitempty" firestore:"city,omitempty"`
	Country     string       `json:"country,omitempty" firestore:"country,omitempty"`
	Coordinates *Coordinates `json:"coordinates,omitempty" firestore:"coordinates,omitempty"`
}

type Coordinates struct {
	Lat float64 `json:"lat" firestore:"lat"`
	Lng float64 `json:"lng" firestore:"lng"`
}

// Session is the locally cached proof of a previously authenticated user.
// An expired session must never be returned by the storage adapter.
type Session struct {
	FirebaseUID string `json:"firebaseUid"`
	UserData    User   `json:"userData"`
	SavedAt     string `json:"savedAt"`
	ExpiresAt   string `json:"expiresAt"`
}

// Expired reports whether the session's expiry has passed.
func (s *Session) Expired(now time.Time) bool {
	expiresAt, err := time.Parse(time.RFC3339, s.ExpiresAt)
	if err != nil {
		// Unparseable expiry is treated as expired
		return true
	}
	return now.After(expiresAt)
}

// BiometricCredential links a platform credential handle to a Firebase user
type BiometricCredential struct {
	FirebaseUID  string `json:"firebaseUid"`
	CredentialID string `json:"credentialId"`
	CreatedAt    string `json:"createdAt"`
}

// ProviderUser carries the identity claims reported by the identity provider
type ProviderUser struct {
	UID           string `json:"uid"`
	Email         string `json:"email"`
	DisplayName   string `json:"displayName"`
	PhotoURL      string `json:"photoURL"`
	PhoneNumber   string `json:"phoneNumber"`
	EmailVerified bool   `json:"emailVerified"`
}

// AuthState is the full reactive state published by the session store
type AuthState struct {
	User            *User  `json:"user"`
	IsLoading       bool   `json:"isLoading"`
	Error           string `json:"error,omitempty"`
	IsAuthenticated bool   `json:"isAuthenticated"`
}

// UserUpdate represents a partial profile update; nil fields are left untouched
type UserUpdate struct {
	DisplayName    *string      `json:"displayName,omitempty"`
	PhotoURL       *string      `json:"photoURL,omitempty"`
	PhoneNumber    *string      `json:"phoneNumber,omitempty"`
	FavoriteEvents *[]string    `json:"favoriteEvents,omitempty"`
	Preferences    *Preferences `json:"preferences,omitempty"`
}

var (
	// ErrNoCredential means biometric login was attempted without a registered credential
	ErrNoCredential = errors.New("no biometric credential found, please register biometric login first")

	// ErrSessionMismatch means the cached session is missing, expired, or belongs to another user
	ErrSessionMismatch = errors.New("user session expired, please login again to refresh your session")
)

// NewDefaultUser builds a fresh user record from identity-provider claims.
func NewDefaultUser(claims *ProviderUser, now time.Time) *User {
	ts := now.UTC().Format(time.RFC3339)
	return &User{
		UID:            claims.UID,
		Email:          claims.Email,
		DisplayName:    claims.DisplayName,
		PhotoURL:       claims.PhotoURL,
		PhoneNumber:    claims.PhoneNumber,
		EmailVerified:  claims.EmailVerified,
		CreatedAt:      ts,
		LastLoginAt:    ts,
		FavoriteEvents: []string{},
		Preferences: Preferences{
			Language:      "en",
			Notifications: true,
			Theme:         "light",
		},
	}
}

// ApplyUpdate merges non-nil fields of the partial update into the user.
func (u *User) ApplyUpdate(update *UserUpdate) {
	if update == nil {
		return
	}
	if update.DisplayName != nil {
		u.DisplayName = *update.DisplayName
	}
	if update.PhotoURL != nil {
		u.PhotoURL = *update.PhotoURL
	}
	if update.PhoneNumber != nil {
		u.PhoneNumber = *update.PhoneNumber
	}
	if update.FavoriteEvents != nil {
		u.FavoriteEvents = *update.FavoriteEvents
	}
	if update.Preferences != nil {
		u.Preferences = *update.Preferences
	}
}
