package documents

import (
	"journal-backend/internal/util/encryption"
	"journal-backend/internal/util/jsonvalue"
)

// IsEncrypted reports whether any string leaf of value is an envelope.
// A document without string leaves is never encrypted, so it is picked up
// again by every migration run; encrypting it is a no-op.
func IsEncrypted(value jsonvalue.Value) bool {
	switch value.Kind() {
	case jsonvalue.KindString:
		return encryption.IsEnvelope(value.Str())
	case jsonvalue.KindArray:
		for _, item := range value.Items() {
			if IsEncrypted(item) {
				return true
			}
		}
	case jsonvalue.KindObject:
		for _, member := range value.Members() {
			if IsEncrypted(member.Value) {
				return true
			}
		}
	}

	return false
}

// IsAnyEncrypted is IsEncrypted over several columns of one row.
func IsAnyEncrypted(columns map[string]jsonvalue.Value) bool {
	for _, value := range columns {
		if IsEncrypted(value) {
			return true
		}
	}
	return false
}
