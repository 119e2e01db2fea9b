package auth

import (
	"context"
	"fmt"
	"log"
	"sync"

	firebase "firebase.google.com/go/v4"
	fbauth "firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"

	"github.com/citypulse/citypulse-backend/config"
	"github.com/citypulse/citypulse-backend/internal/auth/domain"
)

// InitializeFirebase initializes the Firebase Admin SDK and returns the app
// along with an Auth client
func InitializeFirebase(cfg *config.FirebaseConfig) (*firebase.App, *fbauth.Client, error) {
	if cfg.CredentialsPath == "" {
		return nil, nil, fmt.Errorf("FIREBASE_CREDENTIALS_PATH is required")
	}

	opt := option.WithCredentialsFile(cfg.CredentialsPath)
	app, err := firebase.NewApp(context.Background(), &firebase.Config{ProjectID: cfg.ProjectID}, opt)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize Firebase app: %w", err)
	}

	authClient, err := app.Auth(context.Background())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get Auth client: %w", err)
	}

	return app, authClient, nil
}

// FirebaseProvider implements Provider on top of Firebase Auth. It keeps
// track of the current signed-in identity and fans state changes out to
// subscribers.
type FirebaseProvider struct {
	client *fbauth.Client

	mu          sync.Mutex
	current     *domain.ProviderUser
	subscribers map[int]func(*domain.ProviderUser)
	nextID      int
}

func NewFirebaseProvider(client *fbauth.Client) *FirebaseProvider {
	return &FirebaseProvider{
		client:      client,
		subscribers: make(map[int]func(*domain.ProviderUser)),
	}
}

// SignIn verifies the ID token and loads the full user record for its claims.
func (p *FirebaseProvider) SignIn(ctx context.Context, idToken string) (*domain.ProviderUser, error) {
	decoded, err := p.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	record, err := p.client.GetUser(ctx, decoded.UID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user %s: %w", decoded.UID, err)
	}

	claims := providerUserFromRecord(record)
	p.publish(claims)
	return claims, nil
}

// SignOut revokes the user's refresh tokens and notifies subscribers.
func (p *FirebaseProvider) SignOut(ctx context.Context, uid string) error {
	if err := p.client.RevokeRefreshTokens(ctx, uid); err != nil {
		return fmt.Errorf("failed to sign out: %w", err)
	}
	p.publish(nil)
	return nil
}

// RestoreSession probes whether the provider still knows the user. This is
// a best-effort check used by the biometric shortcut.
func (p *FirebaseProvider) RestoreSession(ctx context.Context, uid string) (bool, error) {
	p.mu.Lock()
	current := p.current
	p.mu.Unlock()
	if current != nil && current.UID == uid {
		return true, nil
	}

	record, err := p.client.GetUser(ctx, uid)
	if err != nil {
		return false, err
	}
	if record.Disabled {
		return false, nil
	}
	return true, nil
}

// OnAuthStateChange registers a subscriber. The callback fires immediately
// with the current state, then on every later change.
func (p *FirebaseProvider) OnAuthStateChange(cb func(*domain.ProviderUser)) func() {
	p.mu.Lock()
	id := p.nextID
	p.nextID++
	p.subscribers[id] = cb
	current := p.current
	p.mu.Unlock()

	cb(current)

	return func() {
		p.mu.Lock()
		delete(p.subscribers, id)
		p.mu.Unlock()
	}
}

func (p *FirebaseProvider) publish(user *domain.ProviderUser) {
	p.mu.Lock()
	p.current = user
	cbs := make([]func(*domain.ProviderUser), 0, len(p.subscribers))
	for _, cb := range p.subscribers {
		cbs = append(cbs, cb)
	}
	p.mu.Unlock()

	if user != nil {
		log.Printf("[auth] provider state change: signed in uid=%s", user.UID)
	} else {
		log.Printf("[auth] provider state change: signed out")
	}
	for _, cb := range cbs {
		cb(user)
	}
}

func providerUserFromRecord(record *fbauth.UserRecord) *domain.ProviderUser {
	return &domain.ProviderUser{
		UID:           record.UID,
		Email:         record.Email,
		DisplayName:   record.DisplayName,
		PhotoURL:      record.PhotoURL,
		PhoneNumber:   record.PhoneNumber,
		EmailVerified: record.EmailVerified,
	}
}
