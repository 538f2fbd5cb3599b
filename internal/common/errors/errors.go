package commonerrors

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorCategory string

const (
	CategoryInvalidArgument ErrorCategory = "INVALID_ARGUMENT"
	CategoryNotFound        ErrorCategory = "NOT_FOUND"
	CategoryUnauthorized    ErrorCategory = "UNAUTHORIZED"
	CategoryForbidden       ErrorCategory = "FORBIDDEN"
	CategoryDuplicateKey    ErrorCategory = "DUPLICATE_KEY"
	CategoryInternal        ErrorCategory = "INTERNAL"
)

type DomainError interface {
	error
	Code() string
	Category() ErrorCategory
	HTTPStatus() int
	Message() string
	Unwrap() error
	WithCause(cause error) DomainError
	WithMessage(message string) DomainError
}

type domainError struct {
	code     string
	category ErrorCategory
	status   int
	message  string
	cause    error
}

func (e *domainError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

func (e *domainError) Code() string {
	return e.code
}

func (e *domainError) Category() ErrorCategory {
	return e.category
}

func (e *domainError) HTTPStatus() int {
	return e.status
}

func (e *domainError) Message() string {
	return e.message
}

func (e *domainError) Unwrap() error {
	return e.cause
}

// Is matches any domain error carrying the same code, so derived errors
// built with WithCause or WithMessage still match their sentinel.
func (e *domainError) Is(target error) bool {
	var de DomainError
	if !errors.As(target, &de) {
		return false
	}
	return de.Code() == e.code
}

func (e *domainError) WithCause(cause error) DomainError {
	return &domainError{
		code:     e.code,
		category: e.category,
		status:   e.status,
		message:  e.message,
		cause:    cause,
	}
}

func (e *domainError) WithMessage(message string) DomainError {
	return &domainError{
		code:     e.code,
		category: e.category,
		status:   e.status,
		message:  message,
		cause:    e.cause,
	}
}

func NewDomainError(code string, category ErrorCategory, status int, message string) DomainError {
	return &domainError{
		code:     code,
		category: category,
		status:   status,
		message:  message,
	}
}

func IsDomainError(err error) bool {
	var de DomainError
	return errors.As(err, &de)
}

func AsDomainError(err error) (DomainError, bool) {
	var de DomainError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// IsCategory reports whether err is a domain error of the given category.
func IsCategory(err error, category ErrorCategory) bool {
	de, ok := AsDomainError(err)
	return ok && de.Category() == category
}

var (
	ErrMissingRequiredEnv = NewDomainError(
		"MISSING_REQUIRED_ENV",
		CategoryInvalidArgument,
		http.StatusInternalServerError,
		"missing required environment variable",
	)

	ErrInvalidJWTSecret = NewDomainError(
		"INVALID_JWT_SECRET",
		CategoryInvalidArgument,
		http.StatusInternalServerError,
		"JWT_SECRET must be at least 32 bytes",
	)

	ErrInvalidArgument = NewDomainError(
		"INVALID_ARGUMENT",
		CategoryInvalidArgument,
		http.StatusBadRequest,
		"invalid argument",
	)

	ErrInvalidPayload = NewDomainError(
		"INVALID_PAYLOAD",
		CategoryInvalidArgument,
		http.StatusBadRequest,
		"request body is malformed",
	)

	ErrInvalidNoteID = NewDomainError(
		"INVALID_NOTE_ID",
		CategoryInvalidArgument,
		http.StatusBadRequest,
		"note id must be a positive integer",
	)

	ErrInvalidPagination = NewDomainError(
		"INVALID_PAGINATION",
		CategoryInvalidArgument,
		http.StatusBadRequest,
		"page must be >= 0 and size must be > 0",
	)

	ErrNoteValidation = NewDomainError(
		"NOTE_VALIDATION_FAILED",
		CategoryInvalidArgument,
		http.StatusBadRequest,
		"note validation failed",
	)

	ErrCredentialsValidation = NewDomainError(
		"CREDENTIALS_VALIDATION_FAILED",
		CategoryInvalidArgument,
		http.StatusBadRequest,
		"credentials validation failed",
	)

	ErrNoteNotFound = NewDomainError(
		"NOTE_NOT_FOUND",
		CategoryNotFound,
		http.StatusNotFound,
		"note not found",
	)

	ErrNoNotesFound = NewDomainError(
		"NO_NOTES_FOUND",
		CategoryNotFound,
		http.StatusNotFound,
		"no notes found",
	)

	ErrUserNotFound = NewDomainError(
		"USER_NOT_FOUND",
		CategoryNotFound,
		http.StatusNotFound,
		"user not found",
	)

	ErrUsernameAlreadyExists = NewDomainError(
		"USERNAME_ALREADY_EXISTS",
		CategoryDuplicateKey,
		http.StatusBadRequest,
		"username already exists",
	)

	ErrInvalidCredentials = NewDomainError(
		"INVALID_CREDENTIALS",
		CategoryUnauthorized,
		http.StatusUnauthorized,
		"invalid credentials",
	)

	ErrMissingAuthorization = NewDomainError(
		"MISSING_AUTHORIZATION",
		CategoryUnauthorized,
		http.StatusUnauthorized,
		"missing or invalid authorization header",
	)

	ErrTokenMalformed = NewDomainError(
		"TOKEN_MALFORMED",
		CategoryUnauthorized,
		http.StatusUnauthorized,
		"token is malformed",
	)

	ErrTokenInvalidSignature = NewDomainError(
		"TOKEN_INVALID_SIGNATURE",
		CategoryUnauthorized,
		http.StatusUnauthorized,
		"token signature is invalid",
	)

	ErrTokenExpired = NewDomainError(
		"TOKEN_EXPIRED",
		CategoryUnauthorized,
		http.StatusUnauthorized,
		"token has expired",
	)

	ErrInsufficientRole = NewDomainError(
		"INSUFFICIENT_ROLE",
		CategoryForbidden,
		http.StatusForbidden,
		"insufficient privileges",
	)

	ErrInternalError = NewDomainError(
		"INTERNAL_ERROR",
		CategoryInternal,
		http.StatusInternalServerError,
		"internal server error",
	)

	ErrDatabaseError = NewDomainError(
		"DATABASE_ERROR",
		CategoryInternal,
		http.StatusInternalServerError,
		"database operation failed",
	)

	ErrCircuitOpen = NewDomainError(
		"CIRCUIT_OPEN",
		CategoryInternal,
		http.StatusServiceUnavailable,
		"dependency temporarily unavailable",
	)
)
