package codec

import (
	"errors"
	"fmt"
)

// EncodingError reports that a quiz value could not be serialized.
type EncodingError struct {
	Field string
	Err   error
}

func (e *EncodingError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("encode quiz: %s: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("encode quiz: %v", e.Err)
}

func (e *EncodingError) Unwrap() error { return e.Err }

type Kind int

const (
	MalformedToken Kind = iota + 1 // not valid transport encoding
	CorruptPayload                 // bytes are not a usable JSON document
	MissingField                   // document lacks a required field
)

func (k Kind) String() string {
	switch k {
	case MalformedToken:
		return "malformed_token"
	case CorruptPayload:
		return "corrupt_payload"
	case MissingField:
		return "missing_field"
	default:
		return "unknown"
	}
}

// UserMessage is the text a player sees when a shared link fails this way.
func (k Kind) UserMessage() string {
	switch k {
	case MalformedToken:
		return "This quiz link is malformed. Ask the sender to share it again."
	case CorruptPayload:
		return "This quiz link is corrupted and cannot be opened."
	case MissingField:
		return "This quiz was made with an incompatible version of the app."
	default:
		return "This quiz could not be opened."
	}
}

var (
	ErrMalformedToken = errors.New("malformed token")
	ErrCorruptPayload = errors.New("corrupt payload")
	ErrMissingField   = errors.New("missing field")
)

// DecodingError is returned by Decode. Kind tells callers which failure
// occurred; Field is set for MissingField.
type DecodingError struct {
	Kind  Kind
	Field string
	Err   error
}

func (e *DecodingError) Error() string {
	switch {
	case e.Kind == MissingField:
		return fmt.Sprintf("decode quiz: missing field %q", e.Field)
	case e.Err != nil:
		return fmt.Sprintf("decode quiz: %s: %v", e.Kind, e.Err)
	default:
		return fmt.Sprintf("decode quiz: %s", e.Kind)
	}
}

func (e *DecodingError) Unwrap() error { return e.Err }

// Is matches the package sentinels by kind.
func (e *DecodingError) Is(target error) bool {
	switch target {
	case ErrMalformedToken:
		return e.Kind == MalformedToken
	case ErrCorruptPayload:
		return e.Kind == CorruptPayload
	case ErrMissingField:
		return e.Kind == MissingField
	}
	return false
}

// KindOf returns the decoding kind of err, or 0 when err is not a DecodingError.
func KindOf(err error) Kind {
	var de *DecodingError
	if errors.As(err, &de) {
		return de.Kind
	}
	return 0
}

func malformed(err error) error { return &DecodingError{Kind: MalformedToken, Err: err} }
func corrupt(err error) error   { return &DecodingError{Kind: CorruptPayload, Err: err} }
func missing(field string) error {
	return &DecodingError{Kind: MissingField, Field: field}
}
