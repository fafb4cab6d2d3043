package documents

import (
	"errors"
	"strings"
	"testing"

	"journal-backend/internal/features/encryption/secrets"
	"journal-backend/internal/util/encryption"
	"journal-backend/internal/util/jsonvalue"

	"github.com/stretchr/testify/assert"
)

func newTestDocumentEncryptor() *DocumentEncryptor {
	return NewDocumentEncryptor(encryption.NewSecretKeyFieldEncryptor(
		secrets.NewSecretKeyService(strings.Repeat("k", 48), ""),
	))
}

const reportDocument = `{
	"summary": "Slept badly, better afternoon",
	"score": 6.5,
	"flags": {"journaled": true, "exercise": false, "note": null},
	"highlights": ["coffee with Sam", "", ["nested", 3]],
	"empty": {},
	"none": []
}`

func Test_EncryptDocument_DecryptDocument_RoundTrip(t *testing.T) {
	encryptor := newTestDocumentEncryptor()
	original := jsonvalue.MustParse(reportDocument)

	encrypted, err := encryptor.EncryptDocument(original)
	assert.NoError(t, err)
	assert.False(t, encrypted.Equal(original))

	decrypted, err := encryptor.DecryptDocument(encrypted)
	assert.NoError(t, err)
	assert.True(t, decrypted.Equal(original))
}

func Test_EncryptDocument_PreservesStructureAndNonStringLeaves(t *testing.T) {
	encryptor := newTestDocumentEncryptor()
	original := jsonvalue.MustParse(reportDocument)

	encrypted, err := encryptor.EncryptDocument(original)
	assert.NoError(t, err)

	keys := []string{}
	for _, m := range encrypted.Members() {
		keys = append(keys, m.Key)
	}
	assert.Equal(t, []string{"summary", "score", "flags", "highlights", "empty", "none"}, keys)

	score, _ := encrypted.Get("score")
	assert.Equal(t, "6.5", score.NumberValue().String())

	flags, _ := encrypted.Get("flags")
	journaled, _ := flags.Get("journaled")
	assert.True(t, journaled.BoolValue())
	note, _ := flags.Get("note")
	assert.True(t, note.IsNull())

	highlights, _ := encrypted.Get("highlights")
	assert.Len(t, highlights.Items(), 3)
	assert.True(t, encryption.IsEnvelope(highlights.Items()[0].Str()))
	assert.True(t, encryption.IsEnvelope(highlights.Items()[1].Str()))
	nested := highlights.Items()[2]
	assert.Equal(t, jsonvalue.KindNumber, nested.Items()[1].Kind())

	empty, _ := encrypted.Get("empty")
	assert.Empty(t, empty.Members())
	none, _ := encrypted.Get("none")
	assert.Equal(t, jsonvalue.KindArray, none.Kind())
	assert.Empty(t, none.Items())
}

func Test_IsEncrypted_PlaintextAndEncryptedDocuments(t *testing.T) {
	encryptor := newTestDocumentEncryptor()
	original := jsonvalue.MustParse(reportDocument)

	assert.False(t, IsEncrypted(original))

	encrypted, err := encryptor.EncryptDocument(original)
	assert.NoError(t, err)
	assert.True(t, IsEncrypted(encrypted))
}

func Test_IsEncrypted_AnyLeafIsEnough(t *testing.T) {
	encryptor := newTestDocumentEncryptor()
	envelope, err := encryptor.fieldEncryptor.Encrypt("secret")
	assert.NoError(t, err)

	partial := jsonvalue.Object(
		jsonvalue.Member{Key: "plain", Value: jsonvalue.String("hello")},
		jsonvalue.Member{Key: "deep", Value: jsonvalue.Array(
			jsonvalue.Array(jsonvalue.String(envelope)),
		)},
	)

	assert.True(t, IsEncrypted(partial))
}

func Test_IsEncrypted_NoStringLeaves_ReportsNotEncrypted(t *testing.T) {
	assert.False(t, IsEncrypted(jsonvalue.MustParse(`{"a":1,"b":[true,null],"c":{}}`)))
	assert.False(t, IsEncrypted(jsonvalue.Null()))
	assert.False(t, IsEncrypted(jsonvalue.MustParse(`"enc:v1:looks-like-it-but-is-not"`)))
}

func Test_DecryptDocument_ToleratesPlaintextLeaves(t *testing.T) {
	encryptor := newTestDocumentEncryptor()
	envelope, err := encryptor.fieldEncryptor.Encrypt("converted")
	assert.NoError(t, err)

	mixed := jsonvalue.Array(jsonvalue.String("still plain"), jsonvalue.String(envelope))

	decrypted, err := encryptor.DecryptDocument(mixed)
	assert.NoError(t, err)
	assert.True(t, decrypted.Equal(jsonvalue.Array(
		jsonvalue.String("still plain"),
		jsonvalue.String("converted"),
	)))
}

func Test_MapLeaves_NullReturnsNull(t *testing.T) {
	calls := 0
	result, err := MapLeaves(jsonvalue.Null(), func(s string) (string, error) {
		calls++
		return s, nil
	})

	assert.NoError(t, err)
	assert.True(t, result.IsNull())
	assert.Equal(t, 0, calls)
}

func Test_MapLeaves_StopsOnFirstError(t *testing.T) {
	failure := errors.New("boom")
	calls := 0

	_, err := MapLeaves(jsonvalue.MustParse(`["a","b","c"]`), func(s string) (string, error) {
		calls++
		if s == "b" {
			return "", failure
		}
		return s, nil
	})

	assert.ErrorIs(t, err, failure)
	assert.Equal(t, 2, calls)
}

func Test_MapLeaves_DeeplyNestedDocument(t *testing.T) {
	depth := 5000
	document := jsonvalue.String("bottom")
	for i := 0; i < depth; i++ {
		document = jsonvalue.Object(jsonvalue.Member{Key: "child", Value: document})
	}

	mapped, err := MapLeaves(document, func(s string) (string, error) {
		return strings.ToUpper(s), nil
	})
	assert.NoError(t, err)

	current := mapped
	for i := 0; i < depth; i++ {
		current, _ = current.Get("child")
	}
	assert.Equal(t, "BOTTOM", current.Str())
}

func Test_EncryptDocument_MissingKey_ReturnsConfigurationError(t *testing.T) {
	encryptor := NewDocumentEncryptor(encryption.NewSecretKeyFieldEncryptor(
		secrets.NewSecretKeyService("", ""),
	))

	_, err := encryptor.EncryptDocument(jsonvalue.MustParse(`{"summary":"hello"}`))
	assert.ErrorIs(t, err, encryption.ErrConfiguration)

	// documents without string leaves never reach the cipher
	unchanged, err := encryptor.EncryptDocument(jsonvalue.MustParse(`{"score":3}`))
	assert.NoError(t, err)
	assert.True(t, unchanged.Equal(jsonvalue.MustParse(`{"score":3}`)))
}
