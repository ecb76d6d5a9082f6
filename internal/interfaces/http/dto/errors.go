package dto

import "net/http"

// Error code constants organized by category
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	ErrCodeUnknown  = "ERR_UNKNOWN"
	ErrCodeInternal = "ERR_INTERNAL"
)

// Validation error codes
const (
	ErrCodeValidation = "ERR_VALIDATION"
	// ErrCodeInvalidField is used when a domain rule rejects one field of the
	// payload (a mark, a credit, an email).
	ErrCodeInvalidField = "ERR_VALIDATION_FIELD"
)

// Authentication error codes
const (
	ErrCodeUnauthorized       = "ERR_UNAUTHORIZED"
	ErrCodeForbidden          = "ERR_FORBIDDEN"
	ErrCodeTokenExpired       = "ERR_TOKEN_EXPIRED"
	ErrCodeTokenInvalid       = "ERR_TOKEN_INVALID"
	ErrCodeTokenRevoked       = "ERR_TOKEN_REVOKED"
	ErrCodeInvalidCredentials = "ERR_INVALID_CREDENTIALS"
	ErrCodeGoogleLoginFailed  = "ERR_GOOGLE_LOGIN_FAILED"
	// ErrCodeGoogleLoginDisabled is used when the Google flow is not configured
	ErrCodeGoogleLoginDisabled = "ERR_GOOGLE_LOGIN_DISABLED"
)

// Resource error codes
const (
	ErrCodeNotFound            = "ERR_NOT_FOUND"
	ErrCodeAlreadyExists       = "ERR_ALREADY_EXISTS"
	ErrCodeConflict            = "ERR_CONFLICT"
	ErrCodeConcurrencyConflict = "ERR_CONCURRENCY_CONFLICT"
)

// Uniqueness error codes
const (
	ErrCodeEmailTaken            = "ERR_EMAIL_TAKEN"
	ErrCodeUsernameTaken         = "ERR_USERNAME_TAKEN"
	ErrCodeUsernameUnavailable   = "ERR_USERNAME_UNAVAILABLE"
	ErrCodeGoogleAccountTaken    = "ERR_GOOGLE_ACCOUNT_TAKEN"
	ErrCodeGoogleAccountMismatch = "ERR_GOOGLE_ACCOUNT_MISMATCH"
	ErrCodeSemesterExists        = "ERR_SEMESTER_EXISTS"
	ErrCodeExamExists            = "ERR_EXAM_EXISTS"
)

// Input error codes
const (
	ErrCodeBadRequest   = "ERR_BAD_REQUEST"
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	ErrCodeInvalidJSON  = "ERR_INVALID_JSON"
	ErrCodeTooLarge     = "ERR_REQUEST_TOO_LARGE"
)

// Rate limiting error codes
const (
	ErrCodeRateLimited = "ERR_RATE_LIMITED"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	ErrCodeValidation:   http.StatusBadRequest,
	ErrCodeInvalidField: http.StatusBadRequest,

	ErrCodeUnauthorized:        http.StatusUnauthorized,
	ErrCodeForbidden:           http.StatusForbidden,
	ErrCodeTokenExpired:        http.StatusUnauthorized,
	ErrCodeTokenInvalid:        http.StatusUnauthorized,
	ErrCodeTokenRevoked:        http.StatusUnauthorized,
	ErrCodeInvalidCredentials:  http.StatusUnauthorized,
	ErrCodeGoogleLoginFailed:   http.StatusUnauthorized,
	ErrCodeGoogleLoginDisabled: http.StatusNotFound,

	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeConflict:            http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,

	ErrCodeEmailTaken:            http.StatusConflict,
	ErrCodeUsernameTaken:         http.StatusConflict,
	ErrCodeUsernameUnavailable:   http.StatusConflict,
	ErrCodeGoogleAccountTaken:    http.StatusConflict,
	ErrCodeGoogleAccountMismatch: http.StatusConflict,
	ErrCodeSemesterExists:        http.StatusConflict,
	ErrCodeExamExists:            http.StatusConflict,

	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeInvalidInput: http.StatusBadRequest,
	ErrCodeInvalidJSON:  http.StatusBadRequest,
	ErrCodeTooLarge:     http.StatusRequestEntityTooLarge,

	ErrCodeRateLimited: http.StatusTooManyRequests,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DomainErrorCodeMapping maps domain error codes to the codes exposed over
// HTTP. Domain codes missing from this table surface as internal errors.
var DomainErrorCodeMapping = map[string]string{
	"NOT_FOUND":            ErrCodeNotFound,
	"ALREADY_EXISTS":       ErrCodeAlreadyExists,
	"INVALID_INPUT":        ErrCodeInvalidInput,
	"VALIDATION_ERROR":     ErrCodeValidation,
	"UNAUTHORIZED":         ErrCodeUnauthorized,
	"FORBIDDEN":            ErrCodeForbidden,
	"CONCURRENCY_CONFLICT": ErrCodeConcurrencyConflict,
	"BAD_REQUEST":          ErrCodeBadRequest,
	"INTERNAL_ERROR":       ErrCodeInternal,

	"INVALID_CREDENTIALS":   ErrCodeInvalidCredentials,
	"GOOGLE_LOGIN_FAILED":   ErrCodeGoogleLoginFailed,
	"GOOGLE_LOGIN_DISABLED": ErrCodeGoogleLoginDisabled,

	"EMAIL_TAKEN":             ErrCodeEmailTaken,
	"USERNAME_TAKEN":          ErrCodeUsernameTaken,
	"USERNAME_UNAVAILABLE":    ErrCodeUsernameUnavailable,
	"GOOGLE_ACCOUNT_TAKEN":    ErrCodeGoogleAccountTaken,
	"GOOGLE_ACCOUNT_MISMATCH": ErrCodeGoogleAccountMismatch,
	"SEMESTER_EXISTS":         ErrCodeSemesterExists,
	"EXAM_EXISTS":             ErrCodeExamExists,

	"INVALID_NAME":        ErrCodeInvalidField,
	"INVALID_EMAIL":       ErrCodeInvalidField,
	"INVALID_PASSWORD":    ErrCodeInvalidField,
	"INVALID_USERNAME":    ErrCodeInvalidField,
	"INVALID_GOOGLE_ID":   ErrCodeInvalidField,
	"INVALID_EXAM_NUMBER": ErrCodeInvalidField,
	"INVALID_SEMESTER":    ErrCodeInvalidField,
	"INVALID_SUBJECT":     ErrCodeInvalidField,
	"TOO_MANY_SUBJECTS":   ErrCodeInvalidField,
	"INVALID_MARK":        ErrCodeInvalidField,
	"INVALID_CREDIT":      ErrCodeInvalidField,
}

// NormalizeErrorCode converts a domain error code to the HTTP code.
// Codes already in the ERR_ format pass through. Unknown codes become
// ErrCodeInternal.
func NormalizeErrorCode(code string) string {
	if mapped, ok := DomainErrorCodeMapping[code]; ok {
		return mapped
	}
	if _, ok := ErrorCodeHTTPStatus[code]; ok {
		return code
	}
	return ErrCodeInternal
}
