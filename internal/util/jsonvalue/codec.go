package jsonvalue

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

var ErrTrailingData = errors.New("unexpected data after top-level JSON value")

func Parse(data []byte) (Value, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()

	value, err := decodeValue(decoder)
	if err != nil {
		return Value{}, err
	}

	if _, err := decoder.Token(); err != io.EOF {
		return Value{}, ErrTrailingData
	}

	return value, nil
}

// MustParse is Parse for literals known to be valid, mostly in tests.
func MustParse(data string) Value {
	value, err := Parse([]byte(data))
	if err != nil {
		panic(err)
	}
	return value
}

func decodeValue(decoder *json.Decoder) (Value, error) {
	token, err := decoder.Token()
	if err != nil {
		return Value{}, err
	}

	switch t := token.(type) {
	case nil:
		return Null(), nil
	case bool:
		return Bool(t), nil
	case json.Number:
		return Number(t), nil
	case string:
		return String(t), nil
	case json.Delim:
		switch t {
		case '[':
			return decodeArray(decoder)
		case '{':
			return decodeObject(decoder)
		}
	}

	return Value{}, fmt.Errorf("unexpected JSON token %v", token)
}

func decodeArray(decoder *json.Decoder) (Value, error) {
	items := []Value{}
	for decoder.More() {
		item, err := decodeValue(decoder)
		if err != nil {
			return Value{}, err
		}
		items = append(items, item)
	}

	// closing ']'
	if _, err := decoder.Token(); err != nil {
		return Value{}, err
	}

	return Array(items...), nil
}

func decodeObject(decoder *json.Decoder) (Value, error) {
	members := []Member{}
	for decoder.More() {
		keyToken, err := decoder.Token()
		if err != nil {
			return Value{}, err
		}

		key, ok := keyToken.(string)
		if !ok {
			return Value{}, fmt.Errorf("unexpected object key %v", keyToken)
		}

		value, err := decodeValue(decoder)
		if err != nil {
			return Value{}, err
		}

		// duplicate keys: last value wins, first position is kept
		replaced := false
		for i := range members {
			if members[i].Key == key {
				members[i].Value = value
				replaced = true
				break
			}
		}
		if !replaced {
			members = append(members, Member{Key: key, Value: value})
		}
	}

	// closing '}'
	if _, err := decoder.Token(); err != nil {
		return Value{}, err
	}

	return Object(members...), nil
}

func (v Value) MarshalJSON() ([]byte, error) {
	buffer := &bytes.Buffer{}
	encoder := json.NewEncoder(buffer)
	encoder.SetEscapeHTML(false)

	if err := encodeValue(buffer, encoder, v); err != nil {
		return nil, err
	}

	return buffer.Bytes(), nil
}

func (v *Value) UnmarshalJSON(data []byte) error {
	parsed, err := Parse(data)
	if err != nil {
		return err
	}

	*v = parsed
	return nil
}

func encodeValue(buffer *bytes.Buffer, encoder *json.Encoder, v Value) error {
	switch v.kind {
	case KindNull:
		buffer.WriteString("null")
	case KindBool:
		if v.boolean {
			buffer.WriteString("true")
		} else {
			buffer.WriteString("false")
		}
	case KindNumber:
		if v.number == "" {
			buffer.WriteString("0")
		} else {
			buffer.WriteString(v.number.String())
		}
	case KindString:
		if err := encodeString(buffer, encoder, v.str); err != nil {
			return err
		}
	case KindArray:
		buffer.WriteByte('[')
		for i, item := range v.items {
			if i > 0 {
				buffer.WriteByte(',')
			}
			if err := encodeValue(buffer, encoder, item); err != nil {
				return err
			}
		}
		buffer.WriteByte(']')
	case KindObject:
		buffer.WriteByte('{')
		for i, member := range v.members {
			if i > 0 {
				buffer.WriteByte(',')
			}
			if err := encodeString(buffer, encoder, member.Key); err != nil {
				return err
			}
			buffer.WriteByte(':')
			if err := encodeValue(buffer, encoder, member.Value); err != nil {
				return err
			}
		}
		buffer.WriteByte('}')
	default:
		return fmt.Errorf("unknown JSON kind %d", v.kind)
	}

	return nil
}

func encodeString(buffer *bytes.Buffer, encoder *json.Encoder, s string) error {
	if err := encoder.Encode(s); err != nil {
		return err
	}

	// Encode terminates every value with a newline
	buffer.Truncate(buffer.Len() - 1)
	return nil
}

// Scan reads a JSON/JSONB column. SQL NULL becomes the null value.
func (v *Value) Scan(src any) error {
	switch data := src.(type) {
	case nil:
		*v = Null()
		return nil
	case []byte:
		return v.UnmarshalJSON(data)
	case string:
		return v.UnmarshalJSON([]byte(data))
	default:
		return fmt.Errorf("cannot scan %T into JSON value", src)
	}
}

// Value writes a JSON/JSONB column. The null value is written as SQL NULL.
func (v Value) Value() (driver.Value, error) {
	if v.kind == KindNull {
		return nil, nil
	}

	data, err := v.MarshalJSON()
	if err != nil {
		return nil, err
	}

	return string(data), nil
}
