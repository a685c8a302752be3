package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// Extraction pipeline failures.
	ErrEmptyDocument   = errors.New("document contains no readable text")
	ErrCorruptDocument = errors.New("document could not be decoded")
	ErrConfiguration   = errors.New("generation service is not configured")
	ErrResponseFormat  = errors.New("no valid JSON found in model reply")
	ErrQuotaExceeded   = errors.New("generation service quota exceeded")
	ErrProcessing      = errors.New("invoice processing failed")

	// API-layer failures.
	ErrNotFound            = errors.New("resource not found")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrDuplicateEmail      = errors.New("email already registered")
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file exceeds maximum allowed size")
	ErrUploadFailed        = errors.New("file upload to storage failed")
)

// SchemaValidationError reports every schema rule the extracted record broke.
// Violations are ordered and human-readable; item violations carry 1-based
// positions.
type SchemaValidationError struct {
	Violations []string
}

func (e *SchemaValidationError) Error() string {
	return fmt.Sprintf("invoice data validation failed: %s", strings.Join(e.Violations, ", "))
}
