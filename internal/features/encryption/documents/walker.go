package documents

import (
	"journal-backend/internal/util/jsonvalue"
)

type LeafFunc func(s string) (string, error)

// MapLeaves rebuilds value with every string leaf replaced by fn(leaf).
// Array lengths and order, object keys and their order, and every
// non-string leaf are kept as they are. The first fn error aborts the walk.
func MapLeaves(value jsonvalue.Value, fn LeafFunc) (jsonvalue.Value, error) {
	switch value.Kind() {
	case jsonvalue.KindString:
		mapped, err := fn(value.Str())
		if err != nil {
			return jsonvalue.Value{}, err
		}
		return jsonvalue.String(mapped), nil

	case jsonvalue.KindArray:
		items := make([]jsonvalue.Value, 0, len(value.Items()))
		for _, item := range value.Items() {
			mapped, err := MapLeaves(item, fn)
			if err != nil {
				return jsonvalue.Value{}, err
			}
			items = append(items, mapped)
		}
		return jsonvalue.Array(items...), nil

	case jsonvalue.KindObject:
		members := make([]jsonvalue.Member, 0, len(value.Members()))
		for _, member := range value.Members() {
			mapped, err := MapLeaves(member.Value, fn)
			if err != nil {
				return jsonvalue.Value{}, err
			}
			members = append(members, jsonvalue.Member{Key: member.Key, Value: mapped})
		}
		return jsonvalue.Object(members...), nil

	default:
		return value, nil
	}
}
