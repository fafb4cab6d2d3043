package documents

import (
	"fmt"

	"journal-backend/internal/util/encryption"
	"journal-backend/internal/util/jsonvalue"
)

type DocumentEncryptor struct {
	fieldEncryptor encryption.FieldEncryptor
}

func NewDocumentEncryptor(fieldEncryptor encryption.FieldEncryptor) *DocumentEncryptor {
	return &DocumentEncryptor{fieldEncryptor}
}

func (e *DocumentEncryptor) Validate() error {
	return e.fieldEncryptor.Validate()
}

// EncryptDocument encrypts every string leaf. Callers must have checked
// the document with IsEncrypted first: leaves that are already envelopes
// would be encrypted a second time.
func (e *DocumentEncryptor) EncryptDocument(value jsonvalue.Value) (jsonvalue.Value, error) {
	return MapLeaves(value, e.fieldEncryptor.Encrypt)
}

// DecryptDocument decrypts envelope leaves and passes plaintext leaves
// through, so partially migrated documents read correctly.
func (e *DocumentEncryptor) DecryptDocument(value jsonvalue.Value) (jsonvalue.Value, error) {
	return MapLeaves(value, func(s string) (string, error) {
		if !encryption.IsEnvelope(s) {
			return s, nil
		}
		return e.fieldEncryptor.Decrypt(s)
	})
}

// EncryptColumns encrypts each column of a row, returning the full update
// payload or the first failure.
func (e *DocumentEncryptor) EncryptColumns(
	columns map[string]jsonvalue.Value,
) (map[string]jsonvalue.Value, error) {
	encrypted := make(map[string]jsonvalue.Value, len(columns))
	for column, value := range columns {
		encryptedValue, err := e.EncryptDocument(value)
		if err != nil {
			return nil, fmt.Errorf("failed to encrypt column %s: %w", column, err)
		}
		encrypted[column] = encryptedValue
	}
	return encrypted, nil
}

func (e *DocumentEncryptor) DecryptColumns(
	columns map[string]jsonvalue.Value,
) (map[string]jsonvalue.Value, error) {
	decrypted := make(map[string]jsonvalue.Value, len(columns))
	for column, value := range columns {
		decryptedValue, err := e.DecryptDocument(value)
		if err != nil {
			return nil, fmt.Errorf("failed to decrypt column %s: %w", column, err)
		}
		decrypted[column] = decryptedValue
	}
	return decrypted, nil
}
