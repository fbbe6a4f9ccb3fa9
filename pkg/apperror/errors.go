package apperror

import (
	"fmt"
	"net/http"
)

// AppError is a structured error that maps to HTTP responses.
type AppError struct {
	Code       string `json:"error_code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// ---- Input Validation (VAL) ----

// Validation returns a 400 error for malformed or missing input.
func Validation(message string) *AppError {
	return New("VAL_001", message, http.StatusBadRequest)
}

// ---- Wallet Business Rules (WAL) ----

// ErrInsufficientFunds signals a payment rejected by the balance check.
// Deterministic rejection, safe to show verbatim, never retried.
func ErrInsufficientFunds() *AppError {
	return New("WAL_001", "Insufficient balance", http.StatusBadRequest)
}

// ErrCardNotFound signals an operation against an unknown card.
func ErrCardNotFound() *AppError {
	return New("WAL_002", "Card not found", http.StatusNotFound)
}

// ---- Catalog (CAT) ----

// ErrProductNotFound covers both missing and inactive products; the two are
// indistinguishable to callers.
func ErrProductNotFound() *AppError {
	return New("CAT_001", "Product not found or inactive", http.StatusNotFound)
}

// ---- System & Infrastructure (SYS) ----

// Infrastructure wraps a storage or transaction failure. The operation
// performed zero mutation; the client-facing message stays generic so no
// storage detail leaks.
func Infrastructure(err error) *AppError {
	return Wrap("SYS_001", "Operation failed, please try again", http.StatusInternalServerError, err)
}

// IsBusinessRejection reports whether err is a deterministic business-rule
// rejection (validation, not-found, insufficient funds) as opposed to an
// infrastructure failure.
func IsBusinessRejection(err *AppError) bool {
	return err != nil && err.Code != "SYS_001"
}
