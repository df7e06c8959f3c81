package model

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"

	"github.com/pkg/errors"
)

// Document is an opaque JSON value stored verbatim in a TEXT column.
// The server never looks inside it, except to re-indent it for the
// admin edit form. An empty Document is stored as NULL and marshals
// as JSON null.
type Document []byte

// Parse validates text as JSON and returns it as a Document.
func Parse(text string) (Document, error) {
	if !json.Valid([]byte(text)) {
		return nil, errors.Errorf("invalid JSON document: %.40q", text)
	}
	return Document(text), nil
}

// Indent returns the document as indented JSON text for in-place editing.
func (d Document) Indent() (string, error) {
	if len(d) == 0 {
		return "", nil
	}
	var buf bytes.Buffer
	err := json.Indent(&buf, d, "", "  ")
	if err != nil {
		return "", errors.Wrap(err, "indent document")
	}
	return buf.String(), nil
}

func (d Document) MarshalJSON() ([]byte, error) {
	if len(d) == 0 {
		return []byte("null"), nil
	}
	return d, nil
}

func (d *Document) UnmarshalJSON(data []byte) error {
	*d = append((*d)[0:0], data...)
	return nil
}

func (d Document) Value() (driver.Value, error) {
	if len(d) == 0 {
		return nil, nil
	}
	return string(d), nil
}

func (d *Document) Scan(src any) error {
	switch src := src.(type) {
	case nil:
		*d = nil
	case string:
		*d = Document(src)
	case []byte:
		*d = append((*d)[0:0], src...)
	default:
		return errors.Errorf("cannot scan %T into Document", src)
	}
	return nil
}
