package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// spaceRecord is the on-disk shape of a Space. Pointers and required tags let
// validation tell a missing field or a null memory apart from an empty one.
type spaceRecord struct {
	Description *string   `json:"description" validate:"required"`
	Memories    []*string `json:"memories" validate:"required,dive,required"`
}

var validate = validator.New()

// MarshalJSON encodes the brain as a JSON object keyed by space name, in
// insertion order.
func (b *Brain) MarshalJSON() ([]byte, error) {
	records := orderedmap.New[string, spaceRecord](b.spaces.Len())
	for pair := b.spaces.Oldest(); pair != nil; pair = pair.Next() {
		description := pair.Value.Description
		memories := make([]*string, len(pair.Value.Memories))
		for i := range pair.Value.Memories {
			memories[i] = &pair.Value.Memories[i]
		}
		records.Set(pair.Key, spaceRecord{Description: &description, Memories: memories})
	}
	return records.MarshalJSON()
}

// UnmarshalJSON decodes and validates a brain document. Any value that is not
// a {description, memories} object is rejected.
func (b *Brain) UnmarshalJSON(data []byte) error {
	records := orderedmap.New[string, spaceRecord]()
	if err := json.Unmarshal(data, records); err != nil {
		return err
	}

	spaces := orderedmap.New[string, *Space](records.Len())
	for pair := records.Oldest(); pair != nil; pair = pair.Next() {
		if err := validate.Struct(pair.Value); err != nil {
			return fmt.Errorf("space %q: %w", pair.Key, formatValidationError(err))
		}
		memories := make([]string, len(pair.Value.Memories))
		for i, m := range pair.Value.Memories {
			memories[i] = *m
		}
		spaces.Set(pair.Key, &Space{
			Description: *pair.Value.Description,
			Memories:    memories,
		})
	}
	b.spaces = spaces
	return nil
}

// Encode renders b as an indented JSON document.
func Encode(b *Brain) ([]byte, error) {
	raw, err := json.Marshal(b)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "    "); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// Decode parses a JSON document into a Brain.
func Decode(data []byte) (*Brain, error) {
	b := NewBrain()
	if err := json.Unmarshal(data, b); err != nil {
		return nil, err
	}
	return b, nil
}

func formatValidationError(err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}
	msgs := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		field := strings.ToLower(e.Field())
		switch e.Tag() {
		case "required":
			msgs = append(msgs, field+" is required")
		default:
			msgs = append(msgs, field+" is invalid")
		}
	}
	return errors.New(strings.Join(msgs, "; "))
}
