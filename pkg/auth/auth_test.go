package auth

import (
	"context"
	"strings"
	"testing"
	"time"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestUserStore_CreateAndAuthenticate(t *testing.T) {
	s := NewUserStore()

	user, err := s.CreateUser("alice", "correct-horse", RoleEditor)
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	if user.ID == "" || user.PasswordHash == "correct-horse" {
		t.Error("Expected generated ID and hashed password")
	}

	got, err := s.Authenticate("alice", "correct-horse")
	if err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}
	if got.Username != "alice" || got.Role != RoleEditor {
		t.Errorf("Unexpected user: %+v", got)
	}

	if _, err := s.Authenticate("alice", "wrong"); err != ErrBadCredential {
		t.Errorf("Expected ErrBadCredential for wrong password, got %v", err)
	}
	if _, err := s.Authenticate("nobody", "correct-horse"); err != ErrBadCredential {
		t.Errorf("Expected ErrBadCredential for unknown user, got %v", err)
	}
}

func TestUserStore_Validation(t *testing.T) {
	s := NewUserStore()

	if _, err := s.CreateUser("ab", "password123", RoleViewer); err == nil {
		t.Error("Expected short username rejected")
	}
	if _, err := s.CreateUser("spaces here", "password123", RoleViewer); err == nil {
		t.Error("Expected invalid characters rejected")
	}
	if _, err := s.CreateUser("alice", "short", RoleViewer); err == nil {
		t.Error("Expected weak password rejected")
	}
	if _, err := s.CreateUser("alice", "password123", "superuser"); err == nil {
		t.Error("Expected unknown role rejected")
	}

	s.CreateUser("alice", "password123", RoleViewer)
	if _, err := s.CreateUser("alice", "password123", RoleViewer); err != ErrUserExists {
		t.Errorf("Expected ErrUserExists, got %v", err)
	}
}

func TestJWTManager_RoundTrip(t *testing.T) {
	m, err := NewJWTManager(testSecret, time.Hour)
	if err != nil {
		t.Fatalf("NewJWTManager failed: %v", err)
	}

	token, err := m.GenerateToken("u-1", "alice", RoleAdmin)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	claims, err := m.ValidateToken(context.Background(), token)
	if err != nil {
		t.Fatalf("ValidateToken failed: %v", err)
	}
	if claims.UserID != "u-1" || claims.Username != "alice" || claims.Role != RoleAdmin {
		t.Errorf("Unexpected claims: %+v", claims)
	}
}

func TestJWTManager_Rejections(t *testing.T) {
	if _, err := NewJWTManager("too-short", time.Hour); err != ErrShortSecret {
		t.Errorf("Expected ErrShortSecret, got %v", err)
	}

	m, _ := NewJWTManager(testSecret, time.Hour)

	if _, err := m.GenerateToken("", "alice", RoleAdmin); err != ErrEmptyUserID {
		t.Errorf("Expected ErrEmptyUserID, got %v", err)
	}
	if _, err := m.GenerateToken("u-1", "alice", "root"); err == nil {
		t.Error("Expected invalid role rejected")
	}

	if _, err := m.ValidateToken(context.Background(), ""); err != ErrInvalidToken {
		t.Errorf("Expected ErrInvalidToken for empty token, got %v", err)
	}
	if _, err := m.ValidateToken(context.Background(), "not.a.token"); err == nil {
		t.Error("Expected garbage token rejected")
	}

	// A token signed with a different secret must not validate
	other, _ := NewJWTManager(strings.Repeat("x", 32), time.Hour)
	forged, _ := other.GenerateToken("u-1", "alice", RoleAdmin)
	if _, err := m.ValidateToken(context.Background(), forged); err == nil {
		t.Error("Expected token with wrong signature rejected")
	}
}

func TestJWTManager_Expired(t *testing.T) {
	m, _ := NewJWTManager(testSecret, -time.Minute)

	token, err := m.GenerateToken("u-1", "alice", RoleViewer)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}
	if _, err := m.ValidateToken(context.Background(), token); err != ErrExpiredToken {
		t.Errorf("Expected ErrExpiredToken, got %v", err)
	}
}

func TestAPIKeyStore(t *testing.T) {
	s, err := NewAPIKeyStore(testSecret)
	if err != nil {
		t.Fatalf("NewAPIKeyStore failed: %v", err)
	}

	keyString, meta, err := s.Issue("ci-pipeline", RoleViewer)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	if !strings.HasPrefix(keyString, KeyPrefix) {
		t.Errorf("Expected %q prefix, got %q", KeyPrefix, keyString)
	}

	got, err := s.Validate(keyString)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if got.ID != meta.ID || got.LastUsed.IsZero() {
		t.Errorf("Unexpected key metadata: %+v", got)
	}

	if _, err := s.Validate("lnk_bogus"); err != ErrKeyNotFound {
		t.Errorf("Expected ErrKeyNotFound, got %v", err)
	}
	if _, err := s.Validate("wrong-prefix"); err != ErrKeyNotFound {
		t.Errorf("Expected ErrKeyNotFound for bad prefix, got %v", err)
	}

	if err := s.Revoke(meta.ID); err != nil {
		t.Fatalf("Revoke failed: %v", err)
	}
	if _, err := s.Validate(keyString); err != ErrKeyRevoked {
		t.Errorf("Expected ErrKeyRevoked, got %v", err)
	}
}
