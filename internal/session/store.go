package session

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/citypulse/citypulse-backend/internal/auth"
	"github.com/citypulse/citypulse-backend/internal/auth/domain"
	"github.com/citypulse/citypulse-backend/internal/profile"
)

// LocalStore is the slice of the local persistence adapter the session
// store depends on.
type LocalStore interface {
	SaveUser(ctx context.Context, user *domain.User) error
	GetUser(ctx context.Context) *domain.User
	SaveUserSession(ctx context.Context, firebaseUID string, user *domain.User) error
	GetUserSession(ctx context.Context) *domain.Session
	ClearUserSession(ctx context.Context) error
	SaveBiometricCredential(ctx context.Context, firebaseUID, credentialID string) error
	GetBiometricCredential(ctx context.Context) *domain.BiometricCredential
	ClearBiometricData(ctx context.Context) error
	ClearAll(ctx context.Context) error
}

// ProfileService is the slice of the document-service gateway the session
// store depends on.
type ProfileService interface {
	SaveProfile(ctx context.Context, uid string, fields map[string]interface{}) error
	GetBiometricData(ctx context.Context, uid string) (*profile.BiometricData, error)
	SaveBiometric(ctx context.Context, uid, credentialID, deviceInfo string) error
	DisableBiometric(ctx context.Context, uid string) error
}

// Options tune store behavior.
type Options struct {
	// StrictProfileSync makes Login wait for the remote profile write and
	// surface its failure. Off by default: the write happens in the
	// background and failures are only logged.
	StrictProfileSync bool
}

// Store reconciles the identity provider's session with the locally cached
// one and publishes reactive auth state.
type Store struct {
	provider auth.Provider
	local    LocalStore
	profiles ProfileService
	opts     Options

	mu          sync.Mutex
	state       domain.AuthState
	subscribers map[int]func(domain.AuthState)
	nextSubID   int
}

func NewStore(provider auth.Provider, local LocalStore, profiles ProfileService, opts Options) *Store {
	return &Store{
		provider: provider,
		local:    local,
		profiles: profiles,
		opts:     opts,
		state: domain.AuthState{
			IsLoading: true,
		},
		subscribers: make(map[int]func(domain.AuthState)),
	}
}

// State returns a snapshot of the current auth state.
func (s *Store) State() domain.AuthState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe registers a callback invoked on every state publication. The
// returned func removes the subscription.
func (s *Store) Subscribe(cb func(domain.AuthState)) func() {
	s.mu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = cb
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subscribers, id)
		s.mu.Unlock()
	}
}

// publish replaces the state wholesale and notifies subscribers. Last write
// wins; racing operations are not serialized.
func (s *Store) publish(state domain.AuthState) {
	s.mu.Lock()
	s.state = state
	cbs := make([]func(domain.AuthState), 0, len(s.subscribers))
	for _, cb := range s.subscribers {
		cbs = append(cbs, cb)
	}
	s.mu.Unlock()

	for _, cb := range cbs {
		cb(state)
	}
}

// Init subscribes to provider auth-state changes and reconciles each one
// against the local cache. The subscription lives until the returned
// unsubscribe func is called, normally at process shutdown.
func (s *Store) Init(ctx context.Context) func() {
	s.publish(domain.AuthState{User: s.State().User, IsLoading: true})

	return s.provider.OnAuthStateChange(func(claims *domain.ProviderUser) {
		s.reconcile(ctx, claims)
	})
}

// reconcile merges one provider notification with the local session cache.
// Failures are terminal for the cycle and never retried.
func (s *Store) reconcile(ctx context.Context, claims *domain.ProviderUser) {
	if claims != nil {
		userData := s.local.GetUser(ctx)
		if userData == nil {
			userData = domain.NewDefaultUser(claims, time.Now())
		} else {
			userData.LastLoginAt = time.Now().UTC().Format(time.RFC3339)
		}

		// The envelope is keyed to the provider's uid, not the cached
		// record's, so an account switch cannot leave a stale key behind.
		if err := s.persistUser(ctx, claims.UID, userData); err != nil {
			log.Printf("[session] reconcile failed: %v", err)
			s.publish(domain.AuthState{Error: "Authentication failed"})
			return
		}

		s.publish(domain.AuthState{User: userData, IsAuthenticated: true})
		return
	}

	// Provider reports signed out: an unexpired cached session is accepted
	// as sufficient proof of a previously established identity.
	if sess := s.local.GetUserSession(ctx); sess != nil {
		user := sess.UserData
		s.publish(domain.AuthState{User: &user, IsAuthenticated: true})
		return
	}

	s.publish(domain.AuthState{})
}

// persistUser writes the user snapshot and a fresh session envelope keyed
// to uid.
func (s *Store) persistUser(ctx context.Context, uid string, user *domain.User) error {
	if err := s.local.SaveUser(ctx, user); err != nil {
		return err
	}
	return s.local.SaveUserSession(ctx, uid, user)
}

// Login performs an interactive sign-in with the identity provider.
func (s *Store) Login(ctx context.Context, idToken string) error {
	s.publish(domain.AuthState{IsLoading: true})

	claims, err := s.provider.SignIn(ctx, idToken)
	if err != nil {
		s.publish(domain.AuthState{Error: err.Error()})
		return err
	}

	userData := domain.NewDefaultUser(claims, time.Now())
	if err := s.persistUser(ctx, claims.UID, userData); err != nil {
		s.publish(domain.AuthState{Error: err.Error()})
		return err
	}

	if err := s.saveRemoteProfile(ctx, userData); err != nil {
		s.publish(domain.AuthState{Error: err.Error()})
		return err
	}

	s.syncBiometricState(ctx, userData.UID)

	s.publish(domain.AuthState{User: userData, IsAuthenticated: true})
	return nil
}

// saveRemoteProfile pushes the profile to the document service, either
// awaited or in the background depending on configuration.
func (s *Store) saveRemoteProfile(ctx context.Context, user *domain.User) error {
	fields := profile.UserFields(user)

	if s.opts.StrictProfileSync {
		return s.profiles.SaveProfile(ctx, user.UID, fields)
	}

	uid := user.UID
	go func() {
		bgCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := s.profiles.SaveProfile(bgCtx, uid, fields); err != nil {
			log.Printf("[session] background profile save failed for %s: %v", uid, err)
		}
	}()
	return nil
}

// syncBiometricState treats the remote biometric record as authoritative:
// an explicitly disabled enrollment evicts the local credential cache.
// Read failures are logged and ignored.
func (s *Store) syncBiometricState(ctx context.Context, uid string) {
	data, err := s.profiles.GetBiometricData(ctx, uid)
	if err != nil {
		log.Printf("[session] biometric state check failed for %s: %v", uid, err)
		return
	}
	if data != nil && !data.Enabled {
		if err := s.local.ClearBiometricData(ctx); err != nil {
			log.Printf("[session] failed to evict local biometric credential: %v", err)
		}
	}
}

// LoginWithBiometric reconciles a session after a locally verified
// biometric assertion. The platform credential ceremony happens in the
// calling layer; this operation only validates the cached credential and
// session pair.
func (s *Store) LoginWithBiometric(ctx context.Context) error {
	s.publish(domain.AuthState{IsLoading: true})

	cred := s.local.GetBiometricCredential(ctx)
	if cred == nil {
		s.publish(domain.AuthState{Error: domain.ErrNoCredential.Error()})
		return domain.ErrNoCredential
	}

	sess := s.local.GetUserSession(ctx)
	if sess == nil || sess.FirebaseUID != cred.FirebaseUID {
		s.publish(domain.AuthState{Error: domain.ErrSessionMismatch.Error()})
		return domain.ErrSessionMismatch
	}

	restored, err := s.provider.RestoreSession(ctx, cred.FirebaseUID)
	if err != nil || !restored {
		// The cached envelope alone is accepted as sufficient
		log.Printf("[session] provider session not active for %s, using stored session data", cred.FirebaseUID)
	}

	userData := sess.UserData
	userData.LastLoginAt = time.Now().UTC().Format(time.RFC3339)

	if err := s.persistUser(ctx, cred.FirebaseUID, &userData); err != nil {
		s.publish(domain.AuthState{Error: err.Error()})
		return err
	}

	s.publish(domain.AuthState{User: &userData, IsAuthenticated: true})
	log.Printf("[session] biometric login successful for user %s", userData.Email)
	return nil
}

// Logout signs out of the provider best-effort and always ends signed out
// locally. The session envelope is cleared so the biometric shortcut cannot
// outlive an explicit logout; the enrollment credential itself is kept.
func (s *Store) Logout(ctx context.Context) {
	current := s.State()
	s.publish(domain.AuthState{User: current.User, IsLoading: true})

	errMsg := ""
	if current.User != nil {
		if err := s.provider.SignOut(ctx, current.User.UID); err != nil {
			log.Printf("[session] provider sign-out failed: %v", err)
			errMsg = err.Error()
		}
	}

	if err := s.local.ClearAll(ctx); err != nil {
		log.Printf("[session] failed to clear local storage: %v", err)
		errMsg = err.Error()
	}
	if err := s.local.ClearUserSession(ctx); err != nil {
		log.Printf("[session] failed to clear session envelope: %v", err)
		errMsg = err.Error()
	}

	s.publish(domain.AuthState{Error: errMsg})
}

// UpdateUser merges the partial update into the in-memory user and
// publishes immediately. Persistence happens in the background; failures
// are logged, not surfaced.
func (s *Store) UpdateUser(update *domain.UserUpdate) {
	s.mu.Lock()
	if s.state.User == nil {
		s.mu.Unlock()
		return
	}
	updated := *s.state.User
	s.mu.Unlock()

	updated.ApplyUpdate(update)

	state := s.State()
	state.User = &updated
	s.publish(state)

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.persistUser(ctx, updated.UID, &updated); err != nil {
			log.Printf("[session] failed to persist user update: %v", err)
		}
	}()
}

// ClearError resets the error field without touching anything else.
func (s *Store) ClearError() {
	s.mu.Lock()
	s.state.Error = ""
	state := s.state
	cbs := make([]func(domain.AuthState), 0, len(s.subscribers))
	for _, cb := range s.subscribers {
		cbs = append(cbs, cb)
	}
	s.mu.Unlock()

	for _, cb := range cbs {
		cb(state)
	}
}

// RegisterBiometric stores a verified platform credential handle locally
// and records the enrollment remotely. Requires an authenticated user.
func (s *Store) RegisterBiometric(ctx context.Context, credentialID, deviceInfo string) error {
	state := s.State()
	if state.User == nil {
		return domain.ErrSessionMismatch
	}
	uid := state.User.UID

	if err := s.local.SaveBiometricCredential(ctx, uid, credentialID); err != nil {
		return err
	}
	if err := s.local.SaveUserSession(ctx, uid, state.User); err != nil {
		return err
	}
	return s.profiles.SaveBiometric(ctx, uid, credentialID, deviceInfo)
}

// DisableBiometric revokes the enrollment remotely and clears the local
// credential and session shortcut.
func (s *Store) DisableBiometric(ctx context.Context) error {
	state := s.State()
	if state.User == nil {
		return domain.ErrSessionMismatch
	}

	if err := s.profiles.DisableBiometric(ctx, state.User.UID); err != nil {
		return err
	}
	return s.local.ClearBiometricData(ctx)
}
