package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// ID is a row identifier as received from a client. Stores key rows by
// decimal auto-increment ids or UUIDs, and clients echo whichever they were
// given, so both a JSON string and a JSON integer are accepted.
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*id = ""
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}

	n, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return fmt.Errorf("id must be a string or an integer, got %s", data)
	}
	*id = ID(strconv.FormatInt(n, 10))
	return nil
}

func (id ID) String() string { return string(id) }
