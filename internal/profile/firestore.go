package profile

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/citypulse/citypulse-backend/internal/auth/domain"
)

const usersCollection = "users"

// BiometricData is the remote biometric-enrollment sub-record nested in a
// user profile document.
type BiometricData struct {
	CredentialID string `json:"credentialId" firestore:"credentialId"`
	Enabled      bool   `json:"enabled" firestore:"enabled"`
	RegisteredAt string `json:"registeredAt" firestore:"registeredAt"`
	DeviceInfo   string `json:"deviceInfo,omitempty" firestore:"deviceInfo,omitempty"`
}

// Service is the document-service gateway over Firestore user profiles.
type Service struct {
	client *firestore.Client
}

func NewService(client *firestore.Client) *Service {
	return &Service{client: client}
}

func (s *Service) userRef(uid string) *firestore.DocumentRef {
	return s.client.Collection(usersCollection).Doc(uid)
}

// SaveProfile upserts the given fields into the user's profile document.
// Fields not present in the partial are left untouched.
func (s *Service) SaveProfile(ctx context.Context, uid string, fields map[string]interface{}) error {
	return withRetry(ctx, "save_profile", func() error {
		_, err := s.userRef(uid).Set(ctx, fields, firestore.MergeAll)
		if err != nil {
			return fmt.Errorf("failed to save user profile: %w", err)
		}
		return nil
	})
}

// GetProfile reads the user's profile document. Returns nil when absent.
func (s *Service) GetProfile(ctx context.Context, uid string) (*domain.User, error) {
	var user *domain.User
	err := withRetry(ctx, "get_profile", func() error {
		snap, err := s.userRef(uid).Get(ctx)
		if status.Code(err) == codes.NotFound {
			user = nil
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to get user profile: %w", err)
		}
		var u domain.User
		if err := snap.DataTo(&u); err != nil {
			return fmt.Errorf("failed to decode user profile: %w", err)
		}
		user = &u
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// SaveBiometric records an enabled biometric enrollment for the user.
func (s *Service) SaveBiometric(ctx context.Context, uid, credentialID, deviceInfo string) error {
	return withRetry(ctx, "save_biometric", func() error {
		data := BiometricData{
			CredentialID: credentialID,
			Enabled:      true,
			RegisteredAt: time.Now().UTC().Format(time.RFC3339),
			DeviceInfo:   deviceInfo,
		}
		_, err := s.userRef(uid).Set(ctx, map[string]interface{}{"biometric": data}, firestore.MergeAll)
		if err != nil {
			return fmt.Errorf("failed to save biometric credential: %w", err)
		}
		return nil
	})
}

// GetBiometricData reads the user's biometric sub-record. Returns nil when
// the profile or the sub-record is absent.
func (s *Service) GetBiometricData(ctx context.Context, uid string) (*BiometricData, error) {
	var data *BiometricData
	err := withRetry(ctx, "get_biometric", func() error {
		snap, err := s.userRef(uid).Get(ctx)
		if status.Code(err) == codes.NotFound {
			data = nil
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to get biometric data: %w", err)
		}

		raw, err := snap.DataAt("biometric")
		if err != nil {
			data = nil
			return nil
		}
		var bd BiometricData
		if err := remarshal(raw, &bd); err != nil {
			return fmt.Errorf("failed to decode biometric data: %w", err)
		}
		data = &bd
		return nil
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}

// DisableBiometric marks the user's biometric enrollment as disabled.
func (s *Service) DisableBiometric(ctx context.Context, uid string) error {
	return withRetry(ctx, "disable_biometric", func() error {
		_, err := s.userRef(uid).Update(ctx, []firestore.Update{
			{Path: "biometric.enabled", Value: false},
			{Path: "biometric.disabledAt", Value: time.Now().UTC().Format(time.RFC3339)},
		})
		if err != nil {
			return fmt.Errorf("failed to disable biometric auth: %w", err)
		}
		return nil
	})
}

// UserFields flattens a user record into the field map SaveProfile expects.
func UserFields(user *domain.User) map[string]interface{} {
	var fields map[string]interface{}
	// The JSON field names are the document field names
	_ = remarshal(user, &fields)
	return fields
}

func remarshal(in, out interface{}) error {
	raw, err := json.Marshal(in)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}
