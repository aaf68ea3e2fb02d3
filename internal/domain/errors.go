package domain

import "fmt"

// DomainError represents a domain-specific error
type DomainError struct {
	Code    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError creates a new DomainError
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     nil,
	}
}

// NewDomainErrorWithCause creates a new DomainError with an underlying cause
func NewDomainErrorWithCause(code, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common domain error codes
const (
	ErrCodeValidation       = "VALIDATION_ERROR"
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeUnauthorized     = "UNAUTHORIZED"
	ErrCodeUnavailable      = "UNAVAILABLE"
	ErrCodeUpstream         = "UPSTREAM_ERROR"
	ErrCodeInternalError    = "INTERNAL_ERROR"
	ErrCodeInvalidOperation = "INVALID_OPERATION"
)

// Validation errors
var (
	ErrEmptyQuery         = NewDomainError(ErrCodeValidation, "query cannot be empty")
	ErrNoDocuments        = NewDomainError(ErrCodeValidation, "no documents provided for indexing")
	ErrEmptyDocument      = NewDomainError(ErrCodeValidation, "document has no extractable text")
	ErrUnsupportedFile    = NewDomainError(ErrCodeValidation, "unsupported file type")
	ErrInvalidChunkConfig = NewDomainError(ErrCodeValidation, "chunk overlap must be smaller than chunk size")
)

// Not found errors
var (
	ErrSourceNotFound = NewDomainError(ErrCodeNotFound, "source document not found")
	ErrIndexNotFound  = NewDomainError(ErrCodeNotFound, "no vector index has been built")
)

// Authorization errors
var (
	ErrInvalidAPIKey = NewDomainError(ErrCodeUnauthorized, "invalid api key")
)

// Index build errors. A failed build must never corrupt an existing index.
var (
	ErrIndexBuildEmpty    = NewDomainError(ErrCodeValidation, "cannot build index from zero chunks")
	ErrIndexModelMismatch = NewDomainError(ErrCodeInvalidOperation, "persisted index was built with a different embedding model")
)

// Generation errors are outcome-determining and surfaced to the caller.
var (
	ErrGenerationUnavailable = NewDomainError(ErrCodeUnavailable, "generation model is not configured")
	ErrEmbeddingUnavailable  = NewDomainError(ErrCodeUnavailable, "embedding provider is not configured")
)

// Storage errors
var (
	ErrArchiveNotConfigured = NewDomainError(ErrCodeUnavailable, "document archive storage is not configured")
	ErrStorageOperationFail = NewDomainError(ErrCodeInternalError, "storage operation failed")
)

// IndexBuildError wraps a cause into the canonical index build failure.
func IndexBuildError(err error) *DomainError {
	return NewDomainErrorWithCause(ErrCodeUpstream, "index build failed", err)
}

// GenerationError wraps a cause into the canonical generation failure.
func GenerationError(err error) *DomainError {
	return NewDomainErrorWithCause(ErrCodeUpstream, "answer generation failed", err)
}
