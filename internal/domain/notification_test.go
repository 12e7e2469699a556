package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validNotification() Notification {
	return Notification{
		Category: CategoryApproval,
		Title:    "Approved",
		Message:  "Leave approved",
	}
}

func TestNotification_Validate(t *testing.T) {
	require.NoError(t, validNotification().Validate())
}

func TestNotification_ValidateOptionalLink(t *testing.T) {
	n := validNotification()
	n.Link = "/leave/42"
	assert.NoError(t, n.Validate())
}

func TestNotification_ValidateCustomCategory(t *testing.T) {
	n := validNotification()
	n.Category = "reminder"
	assert.NoError(t, n.Validate())
}

func TestNotification_ValidateRequiredFields(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Notification)
		wantErr error
	}{
		{"missing category", func(n *Notification) { n.Category = "" }, ErrMissingCategory},
		{"missing title", func(n *Notification) { n.Title = "" }, ErrMissingTitle},
		{"missing message", func(n *Notification) { n.Message = "" }, ErrMissingMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := validNotification()
			tt.mutate(&n)
			assert.ErrorIs(t, n.Validate(), tt.wantErr)
		})
	}
}

func TestNotification_ValidateLengthLimits(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Notification)
	}{
		{"title too long", func(n *Notification) { n.Title = strings.Repeat("a", 201) }},
		{"message too long", func(n *Notification) { n.Message = strings.Repeat("a", 2001) }},
		{"link too long", func(n *Notification) { n.Link = strings.Repeat("a", 501) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := validNotification()
			tt.mutate(&n)
			assert.Error(t, n.Validate())
		})
	}
}
