package session

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/crypto/pbkdf2"

	"github.com/kickabout/kickabout-cli/internal/errors"
)

const (
	sessionFile = "session.json"
	secretFile  = "device_secret"

	pbkdf2Iterations = 100000
)

var keySalt = []byte("kickabout-session-store")

// Store persists the Session encrypted at rest. Token, user id, and
// username are written together in a single file so they stay
// consistent with each other.
type Store struct {
	mu sync.Mutex

	dir       string
	masterKey []byte
}

// NewStore creates a session store rooted at the given state directory.
// The encryption key is derived from a per-device random secret created
// on first use.
func NewStore(dir string) (*Store, error) {
	secret, err := loadOrCreateSecret(filepath.Join(dir, secretFile))
	if err != nil {
		return nil, err
	}

	return &Store{
		dir:       dir,
		masterKey: pbkdf2.Key(secret, keySalt, pbkdf2Iterations, 32, sha256.New),
	}, nil
}

// Save persists the session, replacing any previous one
func (s *Store) Save(sess Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	plaintext, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	ciphertext, err := s.encrypt(plaintext)
	if err != nil {
		return fmt.Errorf("encrypt session: %w", err)
	}

	path := filepath.Join(s.dir, sessionFile)
	if err := os.WriteFile(path, []byte(ciphertext), 0600); err != nil {
		return errors.NewStoreWriteError(path, err)
	}

	return nil
}

// Load returns the persisted session, or nil when no session exists
func (s *Store) Load() (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.dir, sessionFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.NewStoreReadError(path, err)
	}

	plaintext, err := s.decrypt(string(data))
	if err != nil {
		return nil, errors.NewStoreReadError(path, err)
	}

	var sess Session
	if err := json.Unmarshal(plaintext, &sess); err != nil {
		return nil, errors.NewStoreReadError(path, err)
	}

	return &sess, nil
}

// Clear removes the persisted session. Clearing an absent session is
// not an error.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.dir, sessionFile)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return errors.NewStoreWriteError(path, err)
	}

	return nil
}

// encrypt seals plaintext with AES-GCM, nonce prepended
func (s *Store) encrypt(plaintext []byte) (string, error) {
	block, err := aes.NewCipher(s.masterKey)
	if err != nil {
		return "", err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	ciphertext := gcm.Seal(nonce, nonce, plaintext, nil)
	return base64.StdEncoding.EncodeToString(ciphertext), nil
}

// decrypt opens a sealed value produced by encrypt
func (s *Store) decrypt(ciphertext string) ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return nil, err
	}

	block, err := aes.NewCipher(s.masterKey)
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	nonceSize := gcm.NonceSize()
	if len(data) < nonceSize {
		return nil, fmt.Errorf("ciphertext too short")
	}

	nonce, sealed := data[:nonceSize], data[nonceSize:]
	return gcm.Open(nil, nonce, sealed, nil)
}

// loadOrCreateSecret returns the device secret, generating it on first use
func loadOrCreateSecret(path string) ([]byte, error) {
	if data, err := os.ReadFile(path); err == nil {
		return data, nil
	} else if !os.IsNotExist(err) {
		return nil, errors.NewStoreReadError(path, err)
	}

	secret := make([]byte, 32)
	if _, err := io.ReadFull(rand.Reader, secret); err != nil {
		return nil, fmt.Errorf("generate device secret: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, errors.NewStoreWriteError(path, err)
	}
	if err := os.WriteFile(path, secret, 0600); err != nil {
		return nil, errors.NewStoreWriteError(path, err)
	}

	return secret, nil
}
