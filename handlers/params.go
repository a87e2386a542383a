package handlers

import (
	"bytes"
	"strings"
)

// looseString accepts a JSON string or number and keeps the raw text, so
// quantity and rating parsing stays in the services.
type looseString string

func (s *looseString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}
	*s = looseString(strings.Trim(string(data), `"`))
	return nil
}

// UnmarshalParam lets gin bind the same field from form values.
func (s *looseString) UnmarshalParam(param string) error {
	*s = looseString(param)
	return nil
}
