package wire

import (
	"github.com/google/uuid"

	"github.com/ubus-protocol/ubus-go/pkg/uri"
)

// Attributes is the envelope of every protocol message. It is built once
// by the sender and never mutated afterwards; receivers and validators
// only read it.
type Attributes struct {
	// ID is the time-ordered unique message id. For time-ordered UUID
	// variants it doubles as the implicit send timestamp.
	ID uuid.UUID

	// Type drives every per-type validation rule.
	Type MessageType

	// Source is the origin address, always required.
	Source uri.UUri

	// Sink is the destination address; required or forbidden depending
	// on Type.
	Sink uri.UUri

	// Priority is the message priority ordinal.
	Priority Priority

	// TTL is the time-to-live in milliseconds. Nil, zero or negative
	// means the message never expires.
	TTL *int32

	// ReqID correlates a response with its originating request.
	ReqID uuid.UUID

	// CommStatus signals a remote-side failure out of band, distinct
	// from transport-level failure.
	CommStatus *Code

	// PermissionLevel is an opaque pass-through permission ordinal.
	PermissionLevel *int32

	// Token is an opaque pass-through access token.
	Token string
}

// TTLMillis returns the TTL value and whether one is present.
func (a *Attributes) TTLMillis() (int32, bool) {
	if a.TTL == nil {
		return 0, false
	}
	return *a.TTL, true
}

// HasCommStatus reports whether a comm-status is present and non-OK.
func (a *Attributes) HasCommStatus() bool {
	return a.CommStatus != nil && *a.CommStatus != CodeOK
}

// NewPublishAttributes builds the envelope for a publish message.
func NewPublishAttributes(id uuid.UUID, source uri.UUri, priority Priority) *Attributes {
	return &Attributes{
		ID:       id,
		Type:     MessagePublish,
		Source:   source,
		Priority: priority,
	}
}

// NewNotificationAttributes builds the envelope for a directed event.
func NewNotificationAttributes(id uuid.UUID, source, sink uri.UUri, priority Priority) *Attributes {
	return &Attributes{
		ID:       id,
		Type:     MessageNotification,
		Source:   source,
		Sink:     sink,
		Priority: priority,
	}
}

// NewRequestAttributes builds the envelope for an RPC request. The sink
// must address a method resource; ttl is the caller-supplied timeout in
// milliseconds.
func NewRequestAttributes(id uuid.UUID, source, sink uri.UUri, ttlMillis int32) *Attributes {
	return &Attributes{
		ID:       id,
		Type:     MessageRequest,
		Source:   source,
		Sink:     sink,
		Priority: PriorityRealtimeInteractive,
		TTL:      &ttlMillis,
	}
}

// NewResponseAttributes builds the envelope for an RPC response carrying
// the request's correlation id. Source and sink are the request's sink
// and source swapped.
func NewResponseAttributes(id uuid.UUID, source, sink uri.UUri, reqID uuid.UUID) *Attributes {
	return &Attributes{
		ID:       id,
		Type:     MessageResponse,
		Source:   source,
		Sink:     sink,
		Priority: PriorityRealtimeInteractive,
		ReqID:    reqID,
	}
}

// WithCommStatus returns a copy of the attributes carrying the given
// comm-status code.
func (a *Attributes) WithCommStatus(code Code) *Attributes {
	dup := *a
	dup.CommStatus = &code
	return &dup
}

// WithToken returns a copy of the attributes carrying the access token
// and permission level.
func (a *Attributes) WithToken(token string, permissionLevel int32) *Attributes {
	dup := *a
	dup.Token = token
	dup.PermissionLevel = &permissionLevel
	return &dup
}
