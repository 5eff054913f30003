package apperr

import (
	stdErrors "errors"
	"fmt"
	"net/http"
)

// Code classifies an application error.
type Code string

const (
	CodeValidation            Code = "VALIDATION_ERROR"
	CodeNotFound              Code = "NOT_FOUND"
	CodeAlreadyExists         Code = "ALREADY_EXISTS"
	CodeAmbiguousIdentity     Code = "AMBIGUOUS_IDENTITY"
	CodeInvalidCredentials    Code = "INVALID_CREDENTIALS"
	CodeInsufficientPrivilege Code = "INSUFFICIENT_PRIVILEGE"
	CodeForbidden             Code = "FORBIDDEN"
	CodeDeliveryFailure       Code = "DELIVERY_FAILURE"
	CodeEmptyCart             Code = "EMPTY_CART"
	CodeTransaction           Code = "TRANSACTION_FAILURE"
	CodeInternal              Code = "INTERNAL_ERROR"
)

var statusByCode = map[Code]int{
	CodeValidation:            http.StatusBadRequest,
	CodeNotFound:              http.StatusNotFound,
	CodeAlreadyExists:         http.StatusConflict,
	CodeAmbiguousIdentity:     http.StatusConflict,
	CodeInvalidCredentials:    http.StatusUnauthorized,
	CodeInsufficientPrivilege: http.StatusForbidden,
	CodeForbidden:             http.StatusForbidden,
	CodeDeliveryFailure:       http.StatusBadGateway,
	CodeEmptyCart:             http.StatusConflict,
	CodeTransaction:           http.StatusInternalServerError,
	CodeInternal:              http.StatusInternalServerError,
}

// HTTPStatus maps a code to its response status. Unknown codes are 500.
func HTTPStatus(code Code) int {
	if status, ok := statusByCode[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// Error carries a code, a caller-facing message and optional per-field details.
type Error struct {
	code    Code
	message string
	fields  map[string]string
	cause   error
}

func New(code Code, message string) *Error {
	return &Error{code: code, message: message}
}

func Wrap(code Code, err error, message string) *Error {
	if err == nil {
		return New(code, message)
	}
	return &Error{code: code, message: message, cause: err}
}

func (e *Error) Code() Code {
	if e == nil {
		return CodeInternal
	}
	return e.code
}

func (e *Error) Message() string {
	if e == nil {
		return ""
	}
	return e.message
}

// Fields returns field-level validation details, nil when not a field error.
func (e *Error) Fields() map[string]string {
	if e == nil {
		return nil
	}
	return e.fields
}

// WithFields attaches per-field messages, used for validation errors.
func (e *Error) WithFields(fields map[string]string) *Error {
	if e == nil {
		return nil
	}
	e.fields = fields
	return e
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", e.code, e.message)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

// As extracts an *Error from an error chain, nil when absent.
func As(err error) *Error {
	if err == nil {
		return nil
	}
	var typed *Error
	if stdErrors.As(err, &typed) {
		return typed
	}
	return nil
}

// IsCode reports whether err carries the given code.
func IsCode(err error, code Code) bool {
	typed := As(err)
	return typed != nil && typed.Code() == code
}
