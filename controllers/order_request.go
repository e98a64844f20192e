package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// LooseString holds a JSON string, number or boolean as text.
// Clients send table numbers both as "5" and as 5; null decodes to "".
type LooseString string

// UnmarshalJSON implements json.Unmarshaler
func (s *LooseString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*s = ""
	case len(data) > 0 && data[0] == '"':
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			return err
		}
		*s = LooseString(text)
	case bytes.Equal(data, []byte("true")):
		*s = "1"
	case bytes.Equal(data, []byte("false")):
		*s = "0"
	default:
		var number json.Number
		if err := json.Unmarshal(data, &number); err != nil {
			return fmt.Errorf("expected a string or number, got %s", data)
		}
		*s = LooseString(number.String())
	}
	return nil
}

// LooseInt holds a whole number sent either as a JSON number or as numeric text.
// Fractions round half away from zero, the way MySQL stores them in an integer column.
type LooseInt int

// UnmarshalJSON implements json.Unmarshaler
func (n *LooseInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	text := string(data)
	switch {
	case len(data) > 0 && data[0] == '"':
		if err := json.Unmarshal(data, &text); err != nil {
			return err
		}
		text = strings.TrimSpace(text)
	case text == "true":
		text = "1"
	case text == "false":
		text = "0"
	}

	value, err := decimal.NewFromString(text)
	if err != nil {
		return fmt.Errorf("incorrect integer value: %s", data)
	}
	*n = LooseInt(value.Round(0).IntPart())
	return nil
}

// IntPtr returns the value as *int, nil when n is nil
func (n *LooseInt) IntPtr() *int {
	if n == nil {
		return nil
	}
	v := int(*n)
	return &v
}
