package domain

import (
	"time"

	pericarpdomain "github.com/akeemphilbert/pericarp/pkg/domain"
)

// Re-export pericarp types, the way the teacher's user/domain package does,
// so callers outside this package never need to import pericarp directly.
type EntityEvent = pericarpdomain.EntityEvent
type EventDispatcher = pericarpdomain.EventDispatcher
type EventHandler = pericarpdomain.EventHandler

// Event types. These are informational only: no component in this protocol
// depends on event replay for correctness (the backend is the single source
// of truth), so they exist purely to give a caller that wants an audit log
// or search index a feed to subscribe to.
const (
	EventTypeResourceReserved = "resource.reserved"
	EventTypeResourcePopulated = "resource.populated"
	EventTypeResourceUpdated  = "resource.updated"
	EventTypeResourceDeleted  = "resource.deleted"
	EventTypeMemberAdded      = "container.member.added"
)

// ResourceEventData is the payload shared by every resource lifecycle event.
type ResourceEventData struct {
	OccurredAt       time.Time        `json:"occurred_at"`
	URI              string           `json:"uri"`
	InteractionModel InteractionModel `json:"interaction_model"`
}

// MemberAddedEventData is the payload for EventTypeMemberAdded.
type MemberAddedEventData struct {
	OccurredAt   time.Time `json:"occurred_at"`
	ContainerURI string    `json:"container_uri"`
	MemberURI    string    `json:"member_uri"`
}

func NewResourceReservedEvent(uri string) *EntityEvent {
	data := ResourceEventData{OccurredAt: time.Now(), URI: uri}
	return pericarpdomain.NewEntityEvent("resource", EventTypeResourceReserved, uri, "", "", data)
}

func NewResourcePopulatedEvent(r *Resource) *EntityEvent {
	data := ResourceEventData{OccurredAt: time.Now(), URI: r.URI, InteractionModel: r.InteractionModel}
	return pericarpdomain.NewEntityEvent("resource", EventTypeResourcePopulated, r.URI, "", "", data)
}

func NewResourceUpdatedEvent(r *Resource) *EntityEvent {
	data := ResourceEventData{OccurredAt: time.Now(), URI: r.URI, InteractionModel: r.InteractionModel}
	return pericarpdomain.NewEntityEvent("resource", EventTypeResourceUpdated, r.URI, "", "", data)
}

func NewResourceDeletedEvent(uri string, model InteractionModel) *EntityEvent {
	data := ResourceEventData{OccurredAt: time.Now(), URI: uri, InteractionModel: model}
	return pericarpdomain.NewEntityEvent("resource", EventTypeResourceDeleted, uri, "", "", data)
}

func NewMemberAddedEvent(containerURI, memberURI string) *EntityEvent {
	data := MemberAddedEventData{OccurredAt: time.Now(), ContainerURI: containerURI, MemberURI: memberURI}
	return pericarpdomain.NewEntityEvent("container", EventTypeMemberAdded, containerURI, "", "", data)
}
