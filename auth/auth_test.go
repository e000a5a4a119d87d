// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestAllowList(t *testing.T) {
	tests := []struct {
		name    string
		ids     []string
		userID  string
		wantErr error
	}{
		{"empty list allows everyone", nil, "anyone", nil},
		{"blank entries only", []string{" ", ""}, "anyone", nil},
		{"listed user", []string{"alice", "bob"}, "alice", nil},
		{"unlisted user", []string{"alice", "bob"}, "mallory", ErrNotAllowed},
		{"entries are trimmed", []string{" carol "}, "carol", nil},
		{"match is exact", []string{"alice"}, "Alice", ErrNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gate := NewAllowList(tt.ids)
			err := gate.Check(tt.userID)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Check(%q) = %v, want %v", tt.userID, err, tt.wantErr)
			}
		})
	}
}

func TestAllowList_Nil(t *testing.T) {
	var gate *AllowList
	if gate.Enabled() {
		t.Error("nil allow-list should be disabled")
	}
	if err := gate.Check("x"); err != nil {
		t.Errorf("nil allow-list should allow everyone, got %v", err)
	}
	if gate.Len() != 0 {
		t.Errorf("nil allow-list Len() = %d", gate.Len())
	}
}

func TestNormalizeUserID(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{"plain", "p01", "p01", false},
		{"trimmed", "  p02\n", "p02", false},
		{"empty", "", "", true},
		{"whitespace only", "   ", "", true},
		{"too long", strings.Repeat("x", MaxUserIDLen+1), "", true},
		{"max length", strings.Repeat("x", MaxUserIDLen), strings.Repeat("x", MaxUserIDLen), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeUserID(tt.raw)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NormalizeUserID() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("NormalizeUserID() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNewResponseID(t *testing.T) {
	id1 := NewResponseID()
	id2 := NewResponseID()

	if _, err := uuid.Parse(id1); err != nil {
		t.Errorf("NewResponseID() is not a UUID: %v", err)
	}
	if id1 == id2 {
		t.Error("NewResponseID() produced duplicate IDs")
	}
}
