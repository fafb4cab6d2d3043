package encryption

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"
	"strings"
	"sync"

	"golang.org/x/crypto/hkdf"
)

const (
	keyDerivationSalt = "journal-reports-field-encryption"
	keyDerivationInfo = "jsonb-report-leaves/v1"
)

type SecretKeySource interface {
	GetSecretKey() (string, error)
}

// SecretKeyFieldEncryptor is AES-256-GCM keyed by an HKDF derivation of the
// configured secret. Safe for concurrent use.
type SecretKeyFieldEncryptor struct {
	secretKeyService SecretKeySource

	mu  sync.Mutex
	gcm cipher.AEAD
}

func NewSecretKeyFieldEncryptor(secretKeyService SecretKeySource) *SecretKeyFieldEncryptor {
	return &SecretKeyFieldEncryptor{secretKeyService: secretKeyService}
}

func (e *SecretKeyFieldEncryptor) Validate() error {
	_, err := e.getGCM()
	return err
}

func (e *SecretKeyFieldEncryptor) Encrypt(plaintext string) (string, error) {
	gcm, err := e.getGCM()
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	sealed := gcm.Seal(nonce, nonce, []byte(plaintext), nil)

	return EnvelopePrefix + base64.StdEncoding.EncodeToString(sealed), nil
}

func (e *SecretKeyFieldEncryptor) Decrypt(envelope string) (string, error) {
	if !strings.HasPrefix(envelope, EnvelopePrefix) {
		return "", fmt.Errorf("%w: missing envelope prefix", ErrDecryption)
	}

	data, err := base64.StdEncoding.DecodeString(envelope[len(EnvelopePrefix):])
	if err != nil {
		return "", fmt.Errorf("%w: invalid base64 payload: %v", ErrDecryption, err)
	}

	if len(data) < nonceSize+tagSize {
		return "", fmt.Errorf("%w: payload too short", ErrDecryption)
	}

	gcm, err := e.getGCM()
	if err != nil {
		return "", err
	}

	plaintext, err := gcm.Open(nil, data[:nonceSize], data[nonceSize:], nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecryption, err)
	}

	return string(plaintext), nil
}

func (e *SecretKeyFieldEncryptor) getGCM() (cipher.AEAD, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.gcm != nil {
		return e.gcm, nil
	}

	masterKey, err := e.secretKeyService.GetSecretKey()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfiguration, err)
	}

	key := make([]byte, 32)
	reader := hkdf.New(sha256.New, []byte(masterKey), []byte(keyDerivationSalt), []byte(keyDerivationInfo))
	if _, err := io.ReadFull(reader, key); err != nil {
		return nil, fmt.Errorf("%w: failed to derive key: %w", ErrConfiguration, err)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create cipher: %w", ErrConfiguration, err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create GCM: %w", ErrConfiguration, err)
	}

	e.gcm = gcm
	return gcm, nil
}
