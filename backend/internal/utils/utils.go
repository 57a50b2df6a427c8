package utils

import (
	"net/http"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/campusboard/campusboard/shared/errors"
)

const (
	maxTitleLen     = 64
	maxPostTitleLen = 128
	maxContentLen   = 20_000
	maxNameLen      = 64
)

func badRequest(message string) error {
	return &errors.ErrorWithStatusCode{Message: message, StatusCode: http.StatusBadRequest}
}

// IsSlug reports whether s is lowercase letters, digits and dashes.
func IsSlug(s string) bool {
	for _, r := range s {
		if !(unicode.IsLower(r) || unicode.IsDigit(r) || r == '-') {
			return false
		}
	}
	return true
}

// Validator checks user supplied text before it reaches storage.
type Validator struct{}

func New() *Validator {
	return &Validator{}
}

// RoleTitle and BoardTitle are identifiers that end up in URLs and queries.
func (v *Validator) RoleTitle(title string) error {
	return slugTitle(title, "Role title")
}

func (v *Validator) BoardTitle(title string) error {
	return slugTitle(title, "Board title")
}

func slugTitle(title, what string) error {
	if title == "" {
		return badRequest(what + " is empty")
	}
	if utf8.RuneCountInString(title) > maxTitleLen {
		return badRequest(what + " is too long")
	}
	if !IsSlug(title) {
		return badRequest(what + " should contain only lowercase letters, digits and dashes")
	}
	return nil
}

func (v *Validator) UserName(name string) error {
	if strings.TrimSpace(name) == "" {
		return badRequest("Name is empty")
	}
	if utf8.RuneCountInString(name) > maxNameLen {
		return badRequest("Name is too long")
	}
	return nil
}

func (v *Validator) PostTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return badRequest("Title is empty")
	}
	if utf8.RuneCountInString(title) > maxPostTitleLen {
		return badRequest("Title is too long")
	}
	return nil
}

func (v *Validator) Content(text string) error {
	if strings.TrimSpace(text) == "" {
		return badRequest("Text is too short")
	}
	if utf8.RuneCountInString(text) > maxContentLen {
		return badRequest("Text is too long")
	}
	return nil
}
