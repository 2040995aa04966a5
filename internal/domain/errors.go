package domain

import (
	"errors"
	"fmt"

	"creditdesk/pkg/errcodes"
)

// AppError is a classified application error.
type AppError struct {
	Code    errcodes.Code
	Message string
	cause   error
}

func (e *AppError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}

	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.cause
}

// ErrorCode and Description implement reply.CodedError.
func (e *AppError) ErrorCode() errcodes.Code {
	return e.Code
}

func (e *AppError) Description() string {
	return e.Message
}

func NewError(code errcodes.Code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

func WrapError(err error, code errcodes.Code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		cause:   err,
	}
}

func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

func GetCode(err error) (errcodes.Code, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code, true
	}

	return "", false
}
