package domain

import (
	"errors"
	"fmt"
)

// Category classifies a notification for client-side rendering. Producers may
// use values beyond the predefined ones; the relay never interprets them.
type Category string

const (
	CategoryStatusChange Category = "status_change"
	CategoryApproval     Category = "approval"
	CategoryRejection    Category = "rejection"
	CategoryAnnouncement Category = "announcement"
)

// Content length limits enforced at the producer boundary.
const (
	maxTitleLength   = 200
	maxMessageLength = 2000
	maxLinkLength    = 500
)

var (
	ErrMissingCategory = errors.New("notification category is required")
	ErrMissingTitle    = errors.New("notification title is required")
	ErrMissingMessage  = errors.New("notification message is required")
)

// Notification is the payload pushed to a user's open connections: a category
// discriminant, human-readable content, and an optional link target. The
// target user travels alongside it in the producer request, not inside the
// payload itself.
type Notification struct {
	Category Category `json:"type"`
	Title    string   `json:"title"`
	Message  string   `json:"message"`
	Link     string   `json:"link,omitempty"`
}

// Validate checks the producer-boundary contract. Payloads arriving over the
// relay's own wire protocol bypass this on purpose — they are forwarded as
// opaque blobs under the originating producer's responsibility.
func (n Notification) Validate() error {
	if n.Category == "" {
		return ErrMissingCategory
	}
	if n.Title == "" {
		return ErrMissingTitle
	}
	if n.Message == "" {
		return ErrMissingMessage
	}

	if len(n.Title) > maxTitleLength {
		return fmt.Errorf("notification title exceeds %d characters", maxTitleLength)
	}
	if len(n.Message) > maxMessageLength {
		return fmt.Errorf("notification message exceeds %d characters", maxMessageLength)
	}
	if len(n.Link) > maxLinkLength {
		return fmt.Errorf("notification link exceeds %d characters", maxLinkLength)
	}

	return nil
}
