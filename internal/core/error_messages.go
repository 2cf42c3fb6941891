package core

// error_messages.go maps technical errors to coded, user-facing messages.
//
// Users can quote the code to support staff. Codes are grouped by category:
//
//	FILE001 - File too large          Patterns: "file too large"
//	FILE004 - No file                 Patterns: "no file provided"
//	FILE005 - Empty file              Patterns: "empty file"
//	FILE006 - Unsupported type        Sentinel: ErrUnsupportedKind
//
//	PKG001 - Not an Office package    Sentinel: ooxml.ErrInvalidPackage
//	PKG002 - Package write failed     Sentinel: ErrWritePackage
//	PKG003 - Package entry too large  Sentinel: ooxml.ErrEntryTooLarge
//
//	LANG001 - Invalid language        Patterns: "invalid language"
//
//	UPL002 - System busy              Sentinel: ErrTooManyTransforms
//	UPL004 - Request cancelled        Sentinel: context.Canceled
//	UPL005 - Request timed out        Sentinel: context.DeadlineExceeded
//
//	JOB001 - Job not found            Sentinel: ErrJobNotFound
//	JOB002 - History disabled         Sentinel: ErrHistoryDisabled
//
//	DB004 - Connection refused        Patterns: "connection refused"
//	DB006 - Timeout                   Patterns: "timeout"
//
//	RATE001 - Rate limited            Patterns: "rate limit"
//
//	ERR000 - Fallback when nothing matches; check the logs for the
//	         original technical error.
//
// Sentinels are matched with errors.Is and take precedence over patterns.
// Patterns are matched case-insensitively with strings.Contains; the first
// match wins, so specific patterns come before general ones.

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/JonMunkholm/doctranslate/internal/ooxml"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

type errorSentinel struct {
	target error
	msg    UserMessage
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

var errorSentinels = []errorSentinel{
	{
		target: ErrUnsupportedKind,
		msg: UserMessage{
			Message: "This file type is not supported",
			Action:  "Upload a .pptx or .docx file",
			Code:    "FILE006",
		},
	},
	{
		target: ooxml.ErrInvalidPackage,
		msg: UserMessage{
			Message: "The file is not a valid Office document",
			Action:  "Open and re-save the file in PowerPoint or Word, then try again",
			Code:    "PKG001",
		},
	},
	{
		target: ErrWritePackage,
		msg: UserMessage{
			Message: "The translated document could not be written",
			Action:  "Please try again or contact support",
			Code:    "PKG002",
		},
	},
	{
		target: ooxml.ErrEntryTooLarge,
		msg: UserMessage{
			Message: "The document contains a part that is too large to process",
			Action:  "Split the document into smaller files",
			Code:    "PKG003",
		},
	},
	{
		target: ErrTooManyTransforms,
		msg: UserMessage{
			Message: "System is busy translating other documents",
			Action:  "Please wait a moment and try again",
			Code:    "UPL002",
		},
	},
	{
		target: context.Canceled,
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "UPL004",
		},
	},
	{
		target: context.DeadlineExceeded,
		msg: UserMessage{
			Message: "Translation timed out",
			Action:  "Try a smaller document or try again later",
			Code:    "UPL005",
		},
	},
	{
		target: ErrJobNotFound,
		msg: UserMessage{
			Message: "Translation job not found",
			Action:  "Check the job ID",
			Code:    "JOB001",
		},
	},
	{
		target: ErrHistoryDisabled,
		msg: UserMessage{
			Message: "Job history is not enabled on this server",
			Action:  "Configure DATABASE_URL to record translation jobs",
			Code:    "JOB002",
		},
	},
}

var errorPatterns = []errorPattern{
	{
		pattern: "file too large",
		msg: UserMessage{
			Message: "File exceeds the maximum upload size",
			Action:  "Split the document into smaller files",
			Code:    "FILE001",
		},
	},
	{
		pattern: "no file provided",
		msg: UserMessage{
			Message: "No file was selected",
			Action:  "Please select a .pptx or .docx file to upload",
			Code:    "FILE004",
		},
	},
	{
		pattern: "empty file",
		msg: UserMessage{
			Message: "The uploaded file is empty",
			Action:  "Please upload a document with content",
			Code:    "FILE005",
		},
	},
	{
		pattern: "invalid language",
		msg: UserMessage{
			Message: "The target language is not valid",
			Action:  "Choose one of the listed languages or a language code such as \"de\"",
			Code:    "LANG001",
		},
	},
	{
		pattern: "connection refused",
		msg: UserMessage{
			Message: "Unable to connect to database",
			Action:  "Please try again in a few moments",
			Code:    "DB004",
		},
	},
	{
		pattern: "timeout",
		msg: UserMessage{
			Message: "Operation timed out",
			Action:  "Please try again later",
			Code:    "DB006",
		},
	},
	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Please wait a moment before trying again",
			Code:    "RATE001",
		},
	},
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
//	_, err := core.ResolveKind("notes.txt")
//	msg := MapError(err)
//	// msg.Code == "FILE006"
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	for _, es := range errorSentinels {
		if errors.Is(err, es.target) {
			return es.msg
		}
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
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

// IsUserFacing reports whether err maps to a specific message rather than
// the ERR000 fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}

// UserError pairs a technical error with its user-facing message.
type UserError struct {
	Technical error       // Original technical error for logging
	User      UserMessage // User-friendly message for display
}

func (e *UserError) Error() string {
	return e.User.Message
}

func (e *UserError) Unwrap() error {
	return e.Technical
}

// NewUserError maps err to a UserError. Returns nil if err is nil.
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{
		Technical: err,
		User:      MapError(err),
	}
}
