package auth

import (
	"errors"
	"fmt"
)

// ErrorCode usa los códigos estilo "auth/..." que ya conoce la UI.
type ErrorCode string

const (
	CodeEmailAlreadyInUse ErrorCode = "auth/email-already-in-use"
	CodeWeakPassword      ErrorCode = "auth/weak-password"
	CodeInvalidEmail      ErrorCode = "auth/invalid-email"
	CodeUserNotFound      ErrorCode = "auth/user-not-found"
	CodeWrongPassword     ErrorCode = "auth/wrong-password"
	CodeTooManyRequests   ErrorCode = "auth/too-many-requests"
	CodeInvalidIDToken    ErrorCode = "auth/invalid-id-token"
	CodeNoCurrentUser     ErrorCode = "auth/no-current-user"
	CodeUserDisabled      ErrorCode = "auth/user-disabled"
	CodeInternal          ErrorCode = "auth/internal-error"
)

type Error struct {
	Code ErrorCode
	Err  error
}

func NewError(code ErrorCode, err error) *Error {
	return &Error{Code: code, Err: err}
}

func (e *Error) Error() string {
	if e.Err == nil {
		return string(e.Code)
	}
	return fmt.Sprintf("%s: %v", e.Code, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// CodeOf extrae el código de un error del proveedor; "" si no es *Error.
func CodeOf(err error) ErrorCode {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Code
	}
	return ""
}
