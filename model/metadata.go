package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"

	"github.com/siherrmann/regraph/helper"
)

// Metadata holds free-form attributes attached to nodes and edges,
// persisted as a JSONB column.
type Metadata map[string]interface{}

// Value implements driver.Valuer so Metadata can be passed directly
// as a query parameter.
func (m Metadata) Value() (driver.Value, error) {
	return m.Marshal()
}

// Scan implements sql.Scanner for reading a JSONB column back.
func (m *Metadata) Scan(value interface{}) error {
	return m.Unmarshal(value)
}

// Marshal encodes the metadata as JSON.
func (m Metadata) Marshal() ([]byte, error) {
	return json.Marshal(m)
}

// Unmarshal decodes JSON bytes or copies an existing Metadata value.
// A nil input resets to an empty map.
func (m *Metadata) Unmarshal(value interface{}) error {
	if value == nil {
		*m = Metadata{}
		return nil
	}

	if s, ok := value.(Metadata); ok {
		*m = Metadata(s)
		return nil
	}

	b, ok := value.([]byte)
	if !ok {
		return helper.NewError("byte assertion", errors.New("type assertion to []byte failed"))
	}

	return json.Unmarshal(b, m)
}
