package secrets

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"journal-backend/internal/config"
)

const MinSecretKeyLength = 32

var (
	ErrKeyNotConfigured = errors.New(
		"reports encryption key is not set (REPORTS_ENCRYPTION_KEY or REPORTS_ENCRYPTION_KEY_PATH)",
	)
	ErrKeyMalformed = fmt.Errorf(
		"reports encryption key must be at least %d bytes",
		MinSecretKeyLength,
	)
)

type SecretKeyService struct {
	// overridable in tests; defaults to config.GetEnv
	loadKeyConfig func() (key string, keyPath string)

	mu        sync.Mutex
	cachedKey *string
}

func (s *SecretKeyService) GetSecretKey() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cachedKey != nil {
		return *s.cachedKey, nil
	}

	key, keyPath := s.keyConfig()

	if key == "" && keyPath != "" {
		data, err := os.ReadFile(keyPath)
		if err != nil {
			if os.IsNotExist(err) {
				return "", fmt.Errorf("%w: key file %s does not exist", ErrKeyNotConfigured, keyPath)
			}
			return "", fmt.Errorf("failed to read secret key file: %w", err)
		}

		key = strings.TrimSpace(string(data))
	}

	if key == "" {
		return "", ErrKeyNotConfigured
	}

	if len(key) < MinSecretKeyLength {
		return "", ErrKeyMalformed
	}

	s.cachedKey = &key
	return key, nil
}

func (s *SecretKeyService) keyConfig() (string, string) {
	if s.loadKeyConfig != nil {
		return s.loadKeyConfig()
	}

	env := config.GetEnv()
	return env.ReportsEncryptionKey, env.ReportsEncryptionKeyPath
}
