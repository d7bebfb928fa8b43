package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// StringList is an ordered list of strings persisted as a JSON-encoded text
// column (amenities, images). A nil or empty column always decodes to an
// empty, non-nil list so clients never see null.
type StringList []string

// EncodeStringList renders a list in its stored form. A nil list encodes as "[]".
func EncodeStringList(list []string) (string, error) {
	if list == nil {
		list = []string{}
	}
	b, err := json.Marshal(list)
	if err != nil {
		return "", fmt.Errorf("encode string list: %w", err)
	}
	return string(b), nil
}

// DecodeStringList parses a stored column value. Blank input and the JSON
// literal null both yield an empty list.
func DecodeStringList(raw string) (StringList, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "null" {
		return StringList{}, nil
	}
	var list []string
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		return StringList{}, fmt.Errorf("decode string list: %w", err)
	}
	if list == nil {
		list = []string{}
	}
	return StringList(list), nil
}

// Scan implements sql.Scanner.
func (l *StringList) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*l = StringList{}
		return nil
	case []byte:
		decoded, err := DecodeStringList(string(v))
		if err != nil {
			return err
		}
		*l = decoded
		return nil
	case string:
		decoded, err := DecodeStringList(v)
		if err != nil {
			return err
		}
		*l = decoded
		return nil
	default:
		return fmt.Errorf("decode string list: unsupported column type %T", src)
	}
}

// Value implements driver.Valuer.
func (l StringList) Value() (driver.Value, error) {
	return EncodeStringList(l)
}

// MarshalJSON always emits an array, never null.
func (l StringList) MarshalJSON() ([]byte, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(l))
}

// UnmarshalJSON accepts a JSON array, null, or a string holding an encoded
// array (PostgREST returns text columns that way).
func (l *StringList) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		*l = StringList{}
		return nil
	}
	if strings.HasPrefix(trimmed, `"`) {
		var encoded string
		if err := json.Unmarshal(data, &encoded); err != nil {
			return err
		}
		decoded, err := DecodeStringList(encoded)
		if err != nil {
			return err
		}
		*l = decoded
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return err
	}
	if list == nil {
		list = []string{}
	}
	*l = StringList(list)
	return nil
}

// OrEmpty returns l, or an empty list when l is nil.
func (l StringList) OrEmpty() StringList {
	if l == nil {
		return StringList{}
	}
	return l
}
