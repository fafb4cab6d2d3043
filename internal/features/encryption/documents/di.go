package documents

import "journal-backend/internal/util/encryption"

var documentEncryptor = NewDocumentEncryptor(encryption.GetFieldEncryptor())

func GetDocumentEncryptor() *DocumentEncryptor {
	return documentEncryptor
}
