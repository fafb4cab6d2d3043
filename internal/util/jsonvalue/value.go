// Package jsonvalue models an arbitrary JSON document as a tagged union.
//
// Object members keep their insertion order and numbers keep their literal
// text, so a document decoded and re-encoded without changes is byte-stable
// modulo whitespace.
package jsonvalue

import (
	"encoding/json"
)

type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// Value is one JSON value. The zero Value is JSON null.
type Value struct {
	kind    Kind
	boolean bool
	number  json.Number
	str     string
	items   []Value
	members []Member
}

type Member struct {
	Key   string
	Value Value
}

func Null() Value {
	return Value{kind: KindNull}
}

func Bool(b bool) Value {
	return Value{kind: KindBool, boolean: b}
}

func Number(n json.Number) Value {
	return Value{kind: KindNumber, number: n}
}

func String(s string) Value {
	return Value{kind: KindString, str: s}
}

func Array(items ...Value) Value {
	if items == nil {
		items = []Value{}
	}
	return Value{kind: KindArray, items: items}
}

func Object(members ...Member) Value {
	if members == nil {
		members = []Member{}
	}
	return Value{kind: KindObject, members: members}
}

func (v Value) Kind() Kind {
	return v.kind
}

func (v Value) IsNull() bool {
	return v.kind == KindNull
}

func (v Value) BoolValue() bool {
	return v.boolean
}

func (v Value) NumberValue() json.Number {
	return v.number
}

func (v Value) Str() string {
	return v.str
}

func (v Value) Items() []Value {
	return v.items
}

func (v Value) Members() []Member {
	return v.members
}

// Get returns the member value for key on objects.
func (v Value) Get(key string) (Value, bool) {
	if v.kind != KindObject {
		return Value{}, false
	}

	for _, m := range v.members {
		if m.Key == key {
			return m.Value, true
		}
	}

	return Value{}, false
}

// Equal compares structurally. Object member order is ignored, array order
// is not. Numbers compare by literal text.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}

	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.boolean == other.boolean
	case KindNumber:
		return v.number == other.number
	case KindString:
		return v.str == other.str
	case KindArray:
		if len(v.items) != len(other.items) {
			return false
		}
		for i := range v.items {
			if !v.items[i].Equal(other.items[i]) {
				return false
			}
		}
		return true
	case KindObject:
		if len(v.members) != len(other.members) {
			return false
		}
		for _, m := range v.members {
			otherValue, ok := other.Get(m.Key)
			if !ok || !m.Value.Equal(otherValue) {
				return false
			}
		}
		return true
	}

	return false
}
