package notifications

import (
	"strings"
	"time"

	"github.com/brazzaeats/brazzaeats-backend/pkg/enums"
	pkgerrors "github.com/brazzaeats/brazzaeats-backend/pkg/errors"
	"github.com/google/uuid"
)

// Notification is one inbox entry.
type Notification struct {
	ID      string                 `json:"id"`
	Title   string                 `json:"title"`
	Message string                 `json:"message"`
	Time    time.Time              `json:"time"`
	Read    bool                   `json:"read"`
	Type    enums.NotificationType `json:"type"`
}

// Message is the content of a notification about to be pushed.
type Message struct {
	Title   string
	Message string
	Type    enums.NotificationType
}

// Inbox keeps notifications newest first.
type Inbox struct {
	entries []Notification
	newID   func() string
}

// NewInbox restores an inbox from stored entries, already newest first.
func NewInbox(entries []Notification) *Inbox {
	return &Inbox{
		entries: append([]Notification{}, entries...),
		newID:   func() string { return uuid.NewString() },
	}
}

// Push records a new unread notification at the head of the inbox.
func (in *Inbox) Push(msg Message, now time.Time) (Notification, error) {
	if strings.TrimSpace(msg.Title) == "" {
		return Notification{}, pkgerrors.New(pkgerrors.CodeValidation, "notification title required")
	}
	if msg.Type == "" {
		msg.Type = enums.NotificationTypeSystem
	}
	if !msg.Type.IsValid() {
		return Notification{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid notification type").
			WithDetails(map[string]any{"type": msg.Type})
	}
	n := Notification{
		ID:      in.newID(),
		Title:   msg.Title,
		Message: msg.Message,
		Time:    now.UTC(),
		Type:    msg.Type,
	}
	in.entries = append([]Notification{n}, in.entries...)
	return n, nil
}

// List returns a copy of every notification, newest first.
func (in *Inbox) List() []Notification {
	return append([]Notification{}, in.entries...)
}

// MarkRead flags a notification as read. Marking it twice is a no-op.
func (in *Inbox) MarkRead(id string) (Notification, error) {
	for idx := range in.entries {
		if in.entries[idx].ID == id {
			in.entries[idx].Read = true
			return in.entries[idx], nil
		}
	}
	return Notification{}, pkgerrors.New(pkgerrors.CodeNotFound, "notification not found").
		WithDetails(map[string]any{"notification_id": id})
}

func (in *Inbox) UnreadCount() int {
	count := 0
	for _, n := range in.entries {
		if !n.Read {
			count++
		}
	}
	return count
}
