package auth

import (
	"context"
	"testing"
	"time"

	"github.com/splitmate/splitmate/internal/models"
)

type memUserStorage struct {
	byEmail map[string]*models.User
}

func newMemUserStorage() *memUserStorage {
	return &memUserStorage{byEmail: make(map[string]*models.User)}
}

func (m *memUserStorage) CreateUser(_ context.Context, user *models.User) error {
	m.byEmail[user.Email] = user
	return nil
}

func (m *memUserStorage) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	return m.byEmail[email], nil
}

func (m *memUserStorage) GetUserByID(_ context.Context, id string) (*models.User, error) {
	for _, u := range m.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

func TestPasswordAuthenticator(t *testing.T) {
	ctx := context.Background()
	authenticator := NewPasswordAuthenticator(newMemUserStorage())

	user, err := authenticator.Register(ctx, "An@Example.com", "An", "correct horse")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if user.Email != "an@example.com" {
		t.Errorf("email not normalized: %s", user.Email)
	}
	if user.PasswordHash == "correct horse" {
		t.Error("password stored in plain text")
	}

	t.Run("duplicate email rejected", func(t *testing.T) {
		_, err := authenticator.Register(ctx, "an@example.com", "An2", "another pass")
		if err != ErrEmailExists {
			t.Errorf("error = %v, want ErrEmailExists", err)
		}
	})

	t.Run("weak password rejected", func(t *testing.T) {
		_, err := authenticator.Register(ctx, "b@example.com", "B", "short")
		if err != ErrWeakPassword {
			t.Errorf("error = %v, want ErrWeakPassword", err)
		}
	})

	t.Run("authenticate with correct password", func(t *testing.T) {
		got, err := authenticator.Authenticate(ctx, "an@example.com", "correct horse")
		if err != nil {
			t.Fatalf("Authenticate failed: %v", err)
		}
		if got.ID != user.ID {
			t.Errorf("user ID = %s, want %s", got.ID, user.ID)
		}
	})

	t.Run("authenticate with wrong password", func(t *testing.T) {
		_, err := authenticator.Authenticate(ctx, "an@example.com", "wrong password")
		if err != ErrInvalidCredentials {
			t.Errorf("error = %v, want ErrInvalidCredentials", err)
		}
	})
}

func TestJWTManagerRoundTrip(t *testing.T) {
	manager := NewJWTManager("test-secret-key-32-bytes-long!!!", "splitmate", time.Hour)
	user := models.NewUser("an@example.com", "An", "hash")

	token, err := manager.Generate(user)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	claims, err := manager.Validate(token)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if claims.UserID != user.ID {
		t.Errorf("UserID = %s, want %s", claims.UserID, user.ID)
	}
	if claims.Email != user.Email {
		t.Errorf("Email = %s, want %s", claims.Email, user.Email)
	}
}

func TestJWTManagerRejectsExpiredToken(t *testing.T) {
	manager := NewJWTManager("test-secret-key-32-bytes-long!!!", "splitmate", -time.Minute)
	user := models.NewUser("an@example.com", "An", "hash")

	token, err := manager.Generate(user)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if _, err := manager.Validate(token); err == nil {
		t.Error("expected expired token to be rejected")
	}
}

func TestJWTManagerRejectsForeignToken(t *testing.T) {
	a := NewJWTManager("secret-a-secret-a-secret-a-secret", "splitmate", time.Hour)
	b := NewJWTManager("secret-b-secret-b-secret-b-secret", "splitmate", time.Hour)
	user := models.NewUser("an@example.com", "An", "hash")

	token, err := a.Generate(user)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if _, err := b.Validate(token); err == nil {
		t.Error("expected token signed with a different key to be rejected")
	}
}
