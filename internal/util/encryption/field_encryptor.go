package encryption

import (
	"encoding/base64"
	"errors"
	"strings"
)

const (
	EnvelopePrefix = "enc:v1:"

	nonceSize = 12
	tagSize   = 16
)

var (
	// ErrConfiguration wraps every missing or unusable key failure. It is
	// fatal for a whole migration run, never a per-row error.
	ErrConfiguration = errors.New("encryption is not configured")

	ErrDecryption = errors.New("failed to decrypt value")
)

type FieldEncryptor interface {
	// Encrypt returns a fresh envelope for plaintext. Two calls with the
	// same input produce different envelopes.
	Encrypt(plaintext string) (string, error)

	// Decrypt opens an envelope produced by Encrypt. Values that are not
	// envelopes are rejected with ErrDecryption.
	Decrypt(envelope string) (string, error)

	// Validate reports a configuration error when no usable key exists.
	Validate() error
}

// IsEnvelope is a structural check only: the versioned prefix followed by
// a base64 payload long enough to hold nonce and tag. No key is needed.
func IsEnvelope(value string) bool {
	if !strings.HasPrefix(value, EnvelopePrefix) {
		return false
	}

	payload := value[len(EnvelopePrefix):]
	if base64.StdEncoding.DecodedLen(len(payload)) < nonceSize+tagSize {
		return false
	}

	decoded, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return false
	}

	return len(decoded) >= nonceSize+tagSize
}
