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

// Validation returns a generic VAL_001 input error.
func Validation(message string) *AppError {
	return New("VAL_001", message, http.StatusBadRequest)
}

func ErrInvalidOutcome(value string) *AppError {
	return New("VAL_002", fmt.Sprintf("invalid payment outcome %q: expected success|failed|cancelled", value), http.StatusBadRequest)
}

func ErrInvalidFault(value string) *AppError {
	return New("VAL_003", fmt.Sprintf("invalid fault %q: expected none|server_error|timeout|network_drop", value), http.StatusBadRequest)
}

func ErrMissingReference() *AppError {
	return New("VAL_004", "reference is required", http.StatusBadRequest)
}

func ErrInvalidProvider(value string) *AppError {
	return New("VAL_005", fmt.Sprintf("unknown provider %q", value), http.StatusBadRequest)
}

func ErrInvalidPolicy(message string) *AppError {
	return New("VAL_006", message, http.StatusBadRequest)
}

// ---- Ledger (PAY) ----

func ErrInvalidAmount() *AppError {
	return New("PAY_002", "Invalid amount", http.StatusBadRequest)
}

func ErrNotFound(entity string) *AppError {
	return New("PAY_004", fmt.Sprintf("%s not found", entity), http.StatusNotFound)
}

// ---- Simulated Faults (SIM) ----

func ErrSimulatedServerError() *AppError {
	return New("SIM_001", "Mockpay simulated 500 error", http.StatusInternalServerError)
}

func ErrSimulatedTimeout() *AppError {
	return New("SIM_002", "Mockpay simulated timeout", http.StatusGatewayTimeout)
}

// ---- System & Infrastructure (SYS) ----

func ErrDatabaseError(err error) *AppError {
	return Wrap("SYS_001", "Internal database error", http.StatusInternalServerError, err)
}

func ErrStoreUnavailable(err error) *AppError {
	return Wrap("SYS_002", "Storage unavailable", http.StatusServiceUnavailable, err)
}

func ErrShutdownUnavailable() *AppError {
	return New("SYS_003", "Shutdown not available", http.StatusServiceUnavailable)
}

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, err)
}
