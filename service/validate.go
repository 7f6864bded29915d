// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package service

import (
	"math"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/danielhkuo/pageant-tally/models"
)

const (
	minTextLen     = 2
	maxTextLen     = 255
	maxNoteLen     = 1000
	minUsernameLen = 3
	minPasswordLen = 4
	maxPasswordLen = 72 // bcrypt input limit in bytes

	DefaultMaxScore = 100
	MinMaxScore     = 1
	MaxMaxScore     = 1000
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

func requireID(entity string, code Code, label string, id int64) error {
	if id <= 0 {
		return newError(entity, code, "%s is required", label)
	}
	return nil
}

// validateText checks a trimmed free-text field against the 2-255 bounds
// and returns the trimmed value.
func validateText(entity string, code Code, label, value string) (string, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", newError(entity, code, "%s is required", label)
	}
	n := utf8.RuneCountInString(trimmed)
	if n < minTextLen {
		return "", newError(entity, code, "%s must be at least %d characters", label, minTextLen)
	}
	if n > maxTextLen {
		return "", newError(entity, code, "%s must be less than %d characters", label, maxTextLen)
	}
	return trimmed, nil
}

func validateMaxScore(entity string, maxScore int) error {
	if maxScore < MinMaxScore {
		return newError(entity, CodeInvalidMaxScore, "Max score must be a positive number")
	}
	if maxScore > MaxMaxScore {
		return newError(entity, CodeInvalidMaxScore, "Max score cannot exceed %d", MaxMaxScore)
	}
	return nil
}

func validateParticipantNumber(number int64) error {
	if number <= 0 {
		return newError(EntityParticipant, CodeInvalidNumber, "Participant number must be a positive integer")
	}
	return nil
}

func validateCategory(role string) error {
	if role != models.CategoryMR && role != models.CategoryMS {
		return newError(EntityParticipant, CodeInvalidRole, "Invalid role. Must be one of: %s, %s",
			models.CategoryMR, models.CategoryMS)
	}
	return nil
}

func validateNote(note string) error {
	if utf8.RuneCountInString(note) > maxNoteLen {
		return newError(EntityParticipant, CodeInvalidNote, "Note must be less than %d characters", maxNoteLen)
	}
	return nil
}

func validateUsername(username string) error {
	if username == "" {
		return newError(EntityUser, CodeInvalidUsername, "Username is required")
	}
	if len(username) < minUsernameLen {
		return newError(EntityUser, CodeInvalidUsername, "Username must be at least %d characters", minUsernameLen)
	}
	if len(username) > maxTextLen {
		return newError(EntityUser, CodeInvalidUsername, "Username must be less than %d characters", maxTextLen)
	}
	if !usernamePattern.MatchString(username) {
		return newError(EntityUser, CodeInvalidUsername, "Username can only contain letters, numbers, and underscores")
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < minPasswordLen {
		return newError(EntityUser, CodeInvalidPassword, "Password must be at least %d characters", minPasswordLen)
	}
	if len(password) > maxPasswordLen {
		return newError(EntityUser, CodeInvalidPassword, "Password must be at most %d bytes", maxPasswordLen)
	}
	return nil
}

func validateUserRole(role string) error {
	if role != models.RoleOrganizer && role != models.RoleJudge {
		return newError(EntityUser, CodeInvalidRole, "Invalid role. Must be one of: %s, %s",
			models.RoleJudge, models.RoleOrganizer)
	}
	return nil
}

// validateScore enforces 0 <= score <= maxScore
// requireScore is validateScore for a value that may be absent
func requireScore(score *float64, maxScore int) error {
	if score == nil {
		return newError(EntityScore, CodeInvalidScore, "Score is required")
	}
	return validateScore(*score, maxScore)
}

func validateScore(score float64, maxScore int) error {
	if math.IsNaN(score) || math.IsInf(score, 0) {
		return newError(EntityScore, CodeInvalidScore, "Score must be a number")
	}
	if score < 0 {
		return newError(EntityScore, CodeInvalidScore, "Score cannot be negative")
	}
	if score > float64(maxScore) {
		return newError(EntityScore, CodeInvalidScore, "Score cannot exceed %d", maxScore)
	}
	return nil
}
