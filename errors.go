package iso8583

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidField        = errors.New("invalid field")
	ErrFieldOutOfRange     = errors.New("field out of range")
	ErrTruncatedInput      = errors.New("truncated input")
	ErrInvalidLength       = errors.New("invalid length indicator")
	ErrLengthOutOfRange    = errors.New("length out of range")
	ErrValueTooLong        = errors.New("value too long")
	ErrLengthMismatch      = errors.New("length mismatch")
	ErrInvalidFieldContent = errors.New("invalid field content")
	ErrInvalidHexDigit     = errors.New("invalid hex digit")
	ErrOddLength           = errors.New("odd length")
	ErrUnknownField        = errors.New("unknown field")

	ErrInvalidMTI    = errors.New("invalid MTI")
	ErrInvalidBitmap = errors.New("invalid bitmap")
	ErrKindMismatch  = errors.New("field kind mismatch")
	ErrInvalidConfig = errors.New("invalid dialect config")
)

// FieldError ties an error to the field number it was raised for.
// Errors inside a nested sub-message chain, e.g. "field 127: field 2: ...".
type FieldError struct {
	Field int
	Err   error
}

func (fe *FieldError) Error() string {
	return fmt.Sprintf("field %d: %v", fe.Field, fe.Err)
}

func (fe *FieldError) Unwrap() error {
	return fe.Err
}

// ValidationError reports a validator rule rejecting a field's content.
type ValidationError struct {
	Field   int
	Rule    string
	Message string
}

func (ve *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for field %d (%s): %s", ve.Field, ve.Rule, ve.Message)
}

func (ve *ValidationError) Unwrap() error {
	return ErrInvalidFieldContent
}
