package apperror

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Kind classifies an AppError for the transport layer.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindConflict
	KindNotFound
)

// Error codes surfaced to clients.
const (
	CodeValidation = "VALIDATION_ERROR"
	CodeConflict   = "CONFLICT"
	CodeNotFound   = "NOT_FOUND"
	CodeBatch      = "BATCH_VALIDATION_ERROR"
)

// AppError is a business error that is safe to return to callers.
// Fields holds field-scoped messages keyed by request field name.
type AppError struct {
	Kind    Kind
	Code    string
	Message string
	Fields  validation.Errors
	Items   []ItemError
	Err     error
}

// ItemError reports the failures of one element of a batch request.
type ItemError struct {
	Index  int               `json:"index"`
	Errors validation.Errors `json:"errors"`
}

func (e *AppError) Error() string {
	var b strings.Builder
	b.WriteString(e.Message)
	if len(e.Fields) > 0 {
		b.WriteString(": ")
		b.WriteString(e.Fields.Error())
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// FieldMessages flattens Fields to plain strings for JSON output.
func (e *AppError) FieldMessages() map[string]string {
	if len(e.Fields) == 0 {
		return nil
	}
	out := make(map[string]string, len(e.Fields))
	for k, v := range e.Fields {
		if v != nil {
			out[k] = v.Error()
		}
	}
	return out
}

// Validation builds a validation error from field-scoped messages.
// Returns nil when fields carries no error, so callers can write
// `if err := apperror.Validation(errs); err != nil`.
func Validation(fields validation.Errors) error {
	fields = compact(fields)
	if len(fields) == 0 {
		return nil
	}
	return &AppError{
		Kind:    KindValidation,
		Code:    CodeValidation,
		Message: "validation failed",
		Fields:  fields,
	}
}

// FieldError is a one-field validation error.
func FieldError(field, message string) error {
	return Validation(validation.Errors{field: errors.New(message)})
}

// FromValidation converts the result of validation.ValidateStruct (or
// validation.Errors.Filter) into an AppError. Internal errors pass through.
func FromValidation(err error) error {
	if err == nil {
		return nil
	}
	var errs validation.Errors
	if errors.As(err, &errs) {
		return Validation(errs)
	}
	var internal validation.InternalError
	if errors.As(err, &internal) {
		return fmt.Errorf("validation internal error: %w", internal.InternalError())
	}
	return err
}

// Conflict reports a uniqueness conflict on one field.
func Conflict(field, message string, cause error) error {
	return &AppError{
		Kind:    KindConflict,
		Code:    CodeConflict,
		Message: "conflict",
		Fields:  validation.Errors{field: errors.New(message)},
		Err:     cause,
	}
}

// NotFound reports a missing entity.
func NotFound(entity string, id int64, cause error) error {
	return &AppError{
		Kind:    KindNotFound,
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s %d not found", entity, id),
		Err:     cause,
	}
}

// Batch reports per-item validation failures of a batch request.
func Batch(items []ItemError) error {
	if len(items) == 0 {
		return nil
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Index < items[j].Index })
	return &AppError{
		Kind:    KindValidation,
		Code:    CodeBatch,
		Message: fmt.Sprintf("%d item(s) failed validation", len(items)),
		Items:   items,
	}
}

// As extracts an *AppError from err.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsKind reports whether err is an AppError of the given kind.
func IsKind(err error, kind Kind) bool {
	appErr, ok := As(err)
	return ok && appErr.Kind == kind
}

func compact(fields validation.Errors) validation.Errors {
	out := validation.Errors{}
	for k, v := range fields {
		if v != nil {
			out[k] = v
		}
	}
	return out
}
