// internal/services/errors.go
package services

import (
	"errors"
	"fmt"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("user with this email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrItemNotFound       = errors.New("clothing item not found")
	ErrLookNotFound       = errors.New("look not found")
	ErrPublicLookNotFound = errors.New("public look not found")
	ErrProductNotFound    = errors.New("product not found")
	ErrForbidden          = errors.New("not the owner of this resource")
	ErrFileTooLarge       = errors.New("file exceeds maximum allowed size")
	ErrInvalidFileType    = errors.New("only image files are allowed")
	ErrURLForbidden       = errors.New("url is not allowed")
	ErrPreviewFailed      = errors.New("product page could not be read")
)

// ValidationError wraps validator failures so handlers can report field details.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %v", e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func validationFailed(err error) error {
	if err == nil {
		return nil
	}
	return &ValidationError{Err: err}
}
