package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the wire and storage format of calendar dates
const DateLayout = "2006-01-02"

// Date is a calendar date without a time component.
// It is encoded as YYYY-MM-DD in JSON and in SQL parameters.
type Date struct {
	time.Time
}

// NewDate creates a date from year, month and day
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return Date{Time: t}, nil
}

// String returns the date in YYYY-MM-DD form
func (d Date) String() string {
	return d.Format(DateLayout)
}

// MarshalJSON implements json.Marshaler
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON implements json.Unmarshaler
func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Value implements driver.Valuer
func (d Date) Value() (driver.Value, error) {
	return d.String(), nil
}

// Scan implements sql.Scanner. Drivers hand dates back either as time.Time
// (postgres DATE, sqlite DATE columns holding a parseable value) or as text.
func (d *Date) Scan(src interface{}) error {
	switch v := src.(type) {
	case time.Time:
		d.Time = time.Date(v.Year(), v.Month(), v.Day(), 0, 0, 0, 0, time.UTC)
		return nil
	case string:
		return d.scanString(v)
	case []byte:
		return d.scanString(string(v))
	default:
		return fmt.Errorf("cannot scan %T into Date", src)
	}
}

func (d *Date) scanString(s string) error {
	if len(s) > len(DateLayout) {
		s = s[:len(DateLayout)]
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Field is an optional patch value. Set reports whether the key was present
// in the patch document at all, so that an explicit null can be told apart
// from an omitted key.
type Field[T any] struct {
	Set   bool
	Value T
}

// NewField returns a field that is set to v
func NewField[T any](v T) Field[T] {
	return Field[T]{Set: true, Value: v}
}

// ValidationError represents a validation error with field-specific details
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

// Error implements the error interface
func (ve *ValidationError) Error() string {
	if ve.Field == "" {
		return ve.Message
	}
	return fmt.Sprintf("%s: %s", ve.Field, ve.Message)
}

// patchSetter decodes one JSON value into the patch being built
type patchSetter func(raw json.RawMessage) error

// decodePatch walks a JSON object and dispatches each key to its setter.
// Keys without a setter are rejected.
func decodePatch(body []byte, setters map[string]patchSetter) error {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(body, &doc); err != nil {
		return &ValidationError{Message: fmt.Sprintf("patch body must be a JSON object: %v", err)}
	}

	for key, raw := range doc {
		setter, ok := setters[key]
		if !ok {
			return &ValidationError{Field: key, Message: "field cannot be updated"}
		}
		if err := setter(raw); err != nil {
			return &ValidationError{Field: key, Message: err.Error()}
		}
	}

	return nil
}

// setField returns a setter storing a decoded value into f
func setField[T any](f *Field[T]) patchSetter {
	return func(raw json.RawMessage) error {
		var v T
		if err := json.Unmarshal(raw, &v); err != nil {
			return err
		}
		*f = NewField(v)
		return nil
	}
}

// setRequired is like setField but refuses JSON null
func setRequired[T any](f *Field[T]) patchSetter {
	inner := setField(f)
	return func(raw json.RawMessage) error {
		if isNull(raw) {
			return fmt.Errorf("value cannot be null")
		}
		return inner(raw)
	}
}

func isNull(raw json.RawMessage) bool {
	return strings.TrimSpace(string(raw)) == "null"
}

func checkLength(field, value string, max int) error {
	if len(value) > max {
		return &ValidationError{Field: field, Message: fmt.Sprintf("cannot exceed %d characters", max), Value: value}
	}
	return nil
}

func checkRequired(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return &ValidationError{Field: field, Message: "is required"}
	}
	return nil
}

func int64Ptr(v int64) *int64 {
	return &v
}

func stringPtr(s string) *string {
	return &s
}
