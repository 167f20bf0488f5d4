package kafka

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/kbukum/kafkasample/errors"
	"github.com/kbukum/kafkasample/validation"
)

// Codec converts record values to and from bytes.
type Codec[T any] interface {
	Encode(v T) ([]byte, error)
	// Decode returns an error with code MALFORMED_PAYLOAD for bytes that do
	// not represent a valid T.
	Decode(data []byte) (T, error)
}

// JSONCodec encodes values as JSON. Struct values are checked against their
// `validate` tags in both directions, so a decoded value is always one the
// producer could have sent.
type JSONCodec[T any] struct {
	validate bool
}

var _ Codec[struct{}] = JSONCodec[struct{}]{}

// NewJSONCodec creates a JSON codec for T.
func NewJSONCodec[T any]() JSONCodec[T] {
	var zero T
	t := reflect.TypeOf(zero)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return JSONCodec[T]{validate: t != nil && t.Kind() == reflect.Struct}
}

func (c JSONCodec[T]) Encode(v T) ([]byte, error) {
	if c.validate {
		if err := validation.Validate(v); err != nil {
			return nil, errors.Serialization(err)
		}
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Serialization(err)
	}
	return data, nil
}

func (c JSONCodec[T]) Decode(data []byte) (T, error) {
	var v T
	if len(bytes.TrimSpace(data)) == 0 {
		return v, errors.MalformedPayload(fmt.Errorf("empty payload"))
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return v, errors.MalformedPayload(err)
	}
	if c.validate {
		if err := validation.Validate(v); err != nil {
			var zero T
			return zero, errors.MalformedPayload(err)
		}
	}
	return v, nil
}
