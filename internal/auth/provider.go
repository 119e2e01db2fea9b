package auth

import (
	"context"

	"github.com/citypulse/citypulse-backend/internal/auth/domain"
)

// Provider wraps the external identity provider. It forwards provider
// events to subscribers and issues no policy of its own.
type Provider interface {
	// SignIn validates an interactive sign-in assertion (an ID token) and
	// returns the provider's identity claims.
	SignIn(ctx context.Context, idToken string) (*domain.ProviderUser, error)

	// SignOut terminates the provider session for the user.
	SignOut(ctx context.Context, uid string) error

	// RestoreSession probes whether a live provider session can be
	// re-established for the user.
	RestoreSession(ctx context.Context, uid string) (bool, error)

	// OnAuthStateChange registers a callback invoked once with the current
	// state and again on every subsequent sign-in or sign-out. The returned
	// func removes the subscription.
	OnAuthStateChange(cb func(*domain.ProviderUser)) func()
}
