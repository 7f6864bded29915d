// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package service

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// Code is the machine-checkable kind of a service failure
type Code string

const (
	CodeInvalidID            Code = "INVALID_ID"
	CodeInvalidEvent         Code = "INVALID_EVENT"
	CodeInvalidName          Code = "INVALID_NAME"
	CodeInvalidSegmentID     Code = "INVALID_SEGMENT_ID"
	CodeInvalidMaxScore      Code = "INVALID_MAXSCORE"
	CodeInvalidNumber        Code = "INVALID_NUMBER"
	CodeInvalidFullname      Code = "INVALID_FULLNAME"
	CodeInvalidRole          Code = "INVALID_ROLE"
	CodeInvalidNote          Code = "INVALID_NOTE"
	CodeInvalidUsername      Code = "INVALID_USERNAME"
	CodeInvalidPassword      Code = "INVALID_PASSWORD"
	CodeInvalidScore         Code = "INVALID_SCORE"
	CodeInvalidParticipantID Code = "INVALID_PARTICIPANT_ID"
	CodeInvalidCriteriaID    Code = "INVALID_CRITERIA_ID"
	CodeInvalidCredentials   Code = "INVALID_CREDENTIALS"

	CodeNotFound  Code = "NOT_FOUND"
	CodeForbidden Code = "FORBIDDEN"

	CodeDuplicateEvent    Code = "DUPLICATE_EVENT"
	CodeDuplicateNumber   Code = "DUPLICATE_NUMBER"
	CodeDuplicateUsername Code = "DUPLICATE_USERNAME"

	CodeCreateFailed Code = "CREATE_FAILED"
	CodeUpdateFailed Code = "UPDATE_FAILED"
	CodeDeleteFailed Code = "DELETE_FAILED"
	CodeFetchFailed  Code = "FETCH_FAILED"
	CodeStatsFailed  Code = "STATS_FAILED"
)

// Entities named in errors
const (
	EntityUser        = "user"
	EntityParticipant = "participant"
	EntitySegment     = "segment"
	EntityCriteria    = "criteria"
	EntityScore       = "score"
	EntityAuth        = "auth"
)

// Error is returned by every service operation. Message is safe to show to
// the user; Err keeps the underlying cause for errors.Is/As.
type Error struct {
	Entity  string
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsInvalid reports whether the code is one of the INVALID_* kinds
func (c Code) IsInvalid() bool {
	return strings.HasPrefix(string(c), "INVALID_")
}

// IsDuplicate reports whether the code is one of the DUPLICATE_* kinds
func (c Code) IsDuplicate() bool {
	return strings.HasPrefix(string(c), "DUPLICATE_")
}

// CodeOf returns the Code of a service error, or "" for anything else
func CodeOf(err error) Code {
	var se *Error
	if errors.As(err, &se) {
		return se.Code
	}
	return ""
}

func newError(entity string, code Code, format string, args ...any) *Error {
	return &Error{Entity: entity, Code: code, Message: fmt.Sprintf(format, args...)}
}

// wrap turns an unanticipated failure into the nearest domain kind.
// Service errors pass through unchanged.
func wrap(entity string, code Code, action string, err error) error {
	var se *Error
	if errors.As(err, &se) {
		return err
	}

	slog.Error("service operation failed", "entity", entity, "code", code, "error", err)
	return &Error{
		Entity:  entity,
		Code:    code,
		Message: fmt.Sprintf("Failed to %s: %v", action, err),
		Err:     err,
	}
}
