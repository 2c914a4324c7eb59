package core

// error_messages.go maps technical errors to user-friendly messages.
//
// # Error Codes Reference
//
// When the page shows an error, the code can be quoted to whoever runs the
// deployment for faster diagnosis.
//
// # Source Errors (LOAD001-LOAD099)
//
//	LOAD001 - Not found: The book list could not be found
//	          Action: Check SOURCE_LOCATION points at an existing file or URL
//	          Trigger: LoadError with status 404 or a missing file
//
//	LOAD002 - Access denied: The book list source refused access
//	          Action: Check credentials or bucket policy for the source
//	          Trigger: LoadError with status 401 or 403
//
//	LOAD003 - Upstream error: The book list source returned an error
//	          Action: Please try again later
//	          Trigger: LoadError with any other non-2xx status
//
//	LOAD004 - Unreachable: The book list source could not be reached
//	          Action: Please try again in a few moments
//	          Trigger: LoadError without a status (network, DNS, file permissions)
//
//	LOAD005 - Too large: The book list exceeds the size limit
//	          Action: Raise SOURCE_MAX_BYTES or trim the file
//	          Trigger: ErrDocumentTooLarge
//
//	LOAD006 - Timeout: Loading the book list timed out
//	          Action: Please try again later
//	          Trigger: context deadline or client timeout during the fetch
//
//	LOAD007 - Busy: Too many book list loads are in progress
//	          Action: Please try again in a few moments
//	          Trigger: ErrTooManyLoads
//
// # Pipeline Errors (PIPE001)
//
//	PIPE001 - The book data could not be prepared
//	          Trigger: ErrPipelinePanic
//
// # Rate Limiting (RATE001)
//
//	RATE001 - Too many requests
//	          Patterns: "rate limit"
//
// # Default Error (ERR000)
//
//	ERR000 - An unexpected error occurred. Check the logs for the technical error.
//
// Typed errors are checked first with errors.As / errors.Is. Remaining errors
// are matched case-insensitively against errorPatterns; the first match wins.

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

var (
	msgNotFound = UserMessage{
		Message: "The book list could not be found",
		Action:  "Check SOURCE_LOCATION points at an existing file or URL",
		Code:    "LOAD001",
	}
	msgDenied = UserMessage{
		Message: "The book list source refused access",
		Action:  "Check credentials or bucket policy for the source",
		Code:    "LOAD002",
	}
	msgUpstream = UserMessage{
		Message: "The book list source returned an error",
		Action:  "Please try again later",
		Code:    "LOAD003",
	}
	msgUnreachable = UserMessage{
		Message: "The book list source could not be reached",
		Action:  "Please try again in a few moments",
		Code:    "LOAD004",
	}
	msgTooLarge = UserMessage{
		Message: "The book list exceeds the size limit",
		Action:  "Raise SOURCE_MAX_BYTES or trim the file",
		Code:    "LOAD005",
	}
	msgTimeout = UserMessage{
		Message: "Loading the book list timed out",
		Action:  "Please try again later",
		Code:    "LOAD006",
	}
	msgBusy = UserMessage{
		Message: "Too many book list loads are in progress",
		Action:  "Please try again in a few moments",
		Code:    "LOAD007",
	}
	msgPipeline = UserMessage{
		Message: "The book data could not be prepared",
		Action:  "Please try again or contact support",
		Code:    "PIPE001",
	}
)

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns covers errors that arrive without a type, e.g. from middleware.
var errorPatterns = []errorPattern{
	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Please wait a moment before trying again",
			Code:    "RATE001",
		},
	},
	{pattern: "context deadline exceeded", msg: msgTimeout},
	{pattern: "timeout", msg: msgTimeout},
}

// defaultMessage is returned when nothing matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
//
// Example:
//
//	err := &LoadError{Location: "/booklist.csv", Status: 404}
//	msg := MapError(err)
//	// msg.Code == "LOAD001"
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		return mapLoadError(loadErr)
	}
	if errors.Is(err, ErrTooManyLoads) {
		return msgBusy
	}
	if errors.Is(err, ErrPipelinePanic) {
		return msgPipeline
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

func mapLoadError(e *LoadError) UserMessage {
	switch {
	case errors.Is(e, ErrDocumentTooLarge):
		return msgTooLarge
	case isTimeout(e):
		return msgTimeout
	case e.NotFound():
		return msgNotFound
	case e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden:
		return msgDenied
	case e.Status != 0:
		return msgUpstream
	default:
		return msgUnreachable
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to a specific code rather than ERR000.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}
