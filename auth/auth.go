// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

// MaxUserIDLen bounds user identifiers accepted anywhere in the API.
const MaxUserIDLen = 100

var (
	ErrNotAllowed    = errors.New("user not on allow-list")
	ErrInvalidUserID = errors.New("invalid user id")
)

// AllowList gates which user identifiers may use the survey.
// An empty list lets everyone through. It is never mutated after construction.
type AllowList struct {
	ids map[string]struct{}
}

// NewAllowList builds an allow-list from ids, ignoring blanks
func NewAllowList(ids []string) *AllowList {
	a := &AllowList{ids: make(map[string]struct{}, len(ids))}
	for _, id := range ids {
		if id = strings.TrimSpace(id); id != "" {
			a.ids[id] = struct{}{}
		}
	}
	return a
}

// Enabled reports whether any restriction is in force.
func (a *AllowList) Enabled() bool {
	return a != nil && len(a.ids) > 0
}

// Check returns ErrNotAllowed when the gate is enabled and userID is absent.
func (a *AllowList) Check(userID string) error {
	if !a.Enabled() {
		return nil
	}
	if _, ok := a.ids[userID]; !ok {
		return ErrNotAllowed
	}
	return nil
}

// Len is the number of permitted ids.
func (a *AllowList) Len() int {
	if a == nil {
		return 0
	}
	return len(a.ids)
}

// NormalizeUserID trims whitespace and validates length
func NormalizeUserID(raw string) (string, error) {
	id := strings.TrimSpace(raw)
	if id == "" || len(id) > MaxUserIDLen {
		return "", ErrInvalidUserID
	}
	return id, nil
}

// NewResponseID returns a random identifier for a response record
func NewResponseID() string {
	return uuid.NewString()
}
