package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"strings"
	"sync"
	"time"
)

const (
	KeyPrefix       = "lnk_"
	KeyRandomLength = 32 // bytes of random data
)

var (
	ErrKeyNotFound = errors.New("api key not found")
	ErrKeyRevoked  = errors.New("api key revoked")
)

// APIKey is the stored metadata for an issued key. Only the HMAC of the key
// material is kept; the full key is shown once at creation.
type APIKey struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Hash      string    `json:"-"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	LastUsed  time.Time `json:"last_used,omitempty"`
	Revoked   bool      `json:"revoked"`
}

// APIKeyStore issues and validates API keys.
type APIKeyStore struct {
	mu         sync.RWMutex
	keys       map[string]*APIKey // keyed by hash
	hmacSecret []byte
}

// NewAPIKeyStore creates a key store. The secret salts key hashes so a
// leaked store is useless without it.
func NewAPIKeyStore(secret string) (*APIKeyStore, error) {
	if len(secret) < 32 {
		return nil, ErrShortSecret
	}
	return &APIKeyStore{
		keys:       make(map[string]*APIKey),
		hmacSecret: []byte(secret),
	}, nil
}

// Issue creates a new API key and returns the full key string once.
func (s *APIKeyStore) Issue(name, role string) (string, *APIKey, error) {
	if !validRoles[role] {
		return "", nil, ErrInvalidRole
	}

	randomBytes := make([]byte, KeyRandomLength)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", nil, err
	}
	keyString := KeyPrefix + base64.RawURLEncoding.EncodeToString(randomBytes)

	key := &APIKey{
		ID:        generateID(),
		Name:      name,
		Hash:      s.hashKey(keyString),
		Role:      role,
		CreatedAt: time.Now(),
	}

	s.mu.Lock()
	s.keys[key.Hash] = key
	s.mu.Unlock()

	return keyString, key, nil
}

// Validate checks a presented key and returns its metadata.
func (s *APIKeyStore) Validate(keyString string) (*APIKey, error) {
	if !strings.HasPrefix(keyString, KeyPrefix) {
		return nil, ErrKeyNotFound
	}

	hash := s.hashKey(keyString)

	s.mu.Lock()
	defer s.mu.Unlock()

	key, ok := s.keys[hash]
	if !ok || subtle.ConstantTimeCompare([]byte(key.Hash), []byte(hash)) != 1 {
		return nil, ErrKeyNotFound
	}
	if key.Revoked {
		return nil, ErrKeyRevoked
	}

	key.LastUsed = time.Now()
	return key, nil
}

// Revoke disables a key by ID.
func (s *APIKeyStore) Revoke(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, key := range s.keys {
		if key.ID == id {
			key.Revoked = true
			return nil
		}
	}
	return ErrKeyNotFound
}

// List returns metadata for all issued keys.
func (s *APIKeyStore) List() []*APIKey {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*APIKey, 0, len(s.keys))
	for _, key := range s.keys {
		out = append(out, key)
	}
	return out
}

// hashKey creates an HMAC-SHA256 hash of the key using the store secret.
func (s *APIKeyStore) hashKey(keyString string) string {
	mac := hmac.New(sha256.New, s.hmacSecret)
	mac.Write([]byte(keyString))
	return hex.EncodeToString(mac.Sum(nil))
}

func generateID() string {
	randomBytes := make([]byte, 16)
	rand.Read(randomBytes)
	return base64.RawURLEncoding.EncodeToString(randomBytes)
}
