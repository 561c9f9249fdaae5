package models

import "errors"

// Error kinds surfaced to callers. Wrap them with fmt.Errorf("%w") to add detail.
var (
	ErrInvalidURL       = errors.New("invalid url")
	ErrInspectionFailed = errors.New("failed to fetch media information")
	ErrNoMatchingFormat = errors.New("format unavailable")
	ErrDuplicateURL     = errors.New("url is already queued")
)

// FieldError describes one missing or malformed criteria field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError lists every field problem; Error() surfaces the first one
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if e == nil || len(e.Fields) == 0 {
		return "invalid selection"
	}
	return e.Fields[0].Message
}

func (e *ValidationError) add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

func (e *ValidationError) orNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

// NewValidationError builds a single-field validation error
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: message}}}
}

// ErrorKind is a stable, transport-independent name for an error category
type ErrorKind string

const (
	KindInvalidURL       ErrorKind = "invalid_url"
	KindInspectionFailed ErrorKind = "inspection_failed"
	KindValidation       ErrorKind = "validation"
	KindNoMatchingFormat ErrorKind = "no_matching_format"
	KindDuplicateURL     ErrorKind = "duplicate_url"
	KindInternal         ErrorKind = "internal"
)

// Kind classifies err into one of the error kinds
func Kind(err error) ErrorKind {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		return KindValidation
	case errors.Is(err, ErrInvalidURL):
		return KindInvalidURL
	case errors.Is(err, ErrInspectionFailed):
		return KindInspectionFailed
	case errors.Is(err, ErrNoMatchingFormat):
		return KindNoMatchingFormat
	case errors.Is(err, ErrDuplicateURL):
		return KindDuplicateURL
	default:
		return KindInternal
	}
}
