package util

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes shared by services and the HTTP layer.
const (
	CodeValidation        = "VALIDATION_FAILED"
	CodeNotFound          = "NOT_FOUND"
	CodeUnauthorized      = "UNAUTHORIZED"
	CodePermissionDenied  = "PERMISSION_DENIED"
	CodeAlreadyResponded  = "ALREADY_RESPONDED"
	CodeUserNotFound      = "USER_NOT_FOUND"
	CodeSelfFollow        = "SELF_FOLLOW"
	CodeDuplicateFollow   = "DUPLICATE_FOLLOW"
	CodeDuplicateUsername = "DUPLICATE_USERNAME"
	CodeInternal          = "INTERNAL_ERROR"
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError(CodeValidation, message, http.StatusBadRequest, details)
}

func NewNotFound(resource string, details map[string]any) error {
	if details == nil {
		details = map[string]any{}
	}
	return &DomainError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
		Details:    details,
	}
}

func NewUnauthorized(message string) error {
	return NewDomainError(CodeUnauthorized, message, http.StatusUnauthorized, nil)
}

// NewPermissionDenied reports a mutation attempted by someone other than the owner.
func NewPermissionDenied(resource string) error {
	return NewDomainError(CodePermissionDenied,
		fmt.Sprintf("only the owner can modify this %s", resource), http.StatusForbidden, nil)
}

// NewAlreadyResponded reports a second review on a ticket.
func NewAlreadyResponded(ticketID int64) error {
	return NewDomainError(CodeAlreadyResponded, "ticket already has a review",
		http.StatusForbidden, map[string]any{"ticket_id": ticketID})
}

func NewUserNotFound(username string) error {
	return NewDomainError(CodeUserNotFound,
		fmt.Sprintf("user %q does not exist", username), http.StatusNotFound, nil)
}

func NewSelfFollow() error {
	return NewDomainError(CodeSelfFollow, "you cannot follow yourself", http.StatusBadRequest, nil)
}

func NewDuplicateFollow(username string) error {
	return NewDomainError(CodeDuplicateFollow,
		fmt.Sprintf("you already follow %s", username), http.StatusConflict, nil)
}

func NewDuplicateUsername(username string) error {
	return NewDomainError(CodeDuplicateUsername,
		fmt.Sprintf("username %q is already taken", username), http.StatusConflict, nil)
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       CodeInternal,
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// HasCode reports whether err is a DomainError carrying code.
func HasCode(err error, code string) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code == code
	}
	return false
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return &DomainError{
		Code:       CodeInternal,
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}
