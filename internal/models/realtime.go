package models

import "time"

type EventType string

const (
	EventCreated   EventType = "created"
	EventEdited    EventType = "edited"
	EventUpdated   EventType = "updated"
	EventWithdrawn EventType = "withdrawn"
	EventDeleted   EventType = "deleted"
)

// ComplaintEvent describes a committed lifecycle change. It is published after the
// store write and fanned out to live subscribers.
type ComplaintEvent struct {
	Type        EventType `json:"type"`
	ComplaintID string    `json:"complaintId"`
	SubmitterID string    `json:"submitterId"`
	Title       string    `json:"title"`
	Category    Category  `json:"category"`
	Status      Status    `json:"status"`
	Priority    Priority  `json:"priority"`
	ActorID     string    `json:"actorId"`
	ActorRole   Role      `json:"actorRole"`
	At          time.Time `json:"at"`
}
