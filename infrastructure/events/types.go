// Package events defines the post lifecycle events written to Redis Streams.
package events

import (
	"time"

	"github.com/google/uuid"
)

// DefaultStreamName is the stream used when none is configured.
const DefaultStreamName = "board:post-events"

// PayloadField is the stream entry field holding the JSON-encoded event.
const PayloadField = "event"

// EventType identifies what happened to a post.
type EventType string

const (
	PostCreated EventType = "post.created"
	PostUpdated EventType = "post.updated"
	PostDeleted EventType = "post.deleted"
)

// PostEvent is the envelope for every post event. Title is only set for
// created and updated events.
type PostEvent struct {
	EventID   uuid.UUID `json:"event_id"`
	EventType EventType `json:"event_type"`
	PostID    int64     `json:"post_id"`
	Timestamp time.Time `json:"timestamp"`
	Title     string    `json:"title,omitempty"`
}

// NewPostEvent stamps a fresh event id and UTC timestamp.
func NewPostEvent(eventType EventType, postID int64, title string) PostEvent {
	return PostEvent{
		EventID:   uuid.New(),
		EventType: eventType,
		PostID:    postID,
		Timestamp: time.Now().UTC(),
		Title:     title,
	}
}
