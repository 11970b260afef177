package transport

import (
	"github.com/ubus-protocol/ubus-go/pkg/uri"
	"github.com/ubus-protocol/ubus-go/pkg/wire"
)

// Listener receives inbound messages matching a registered filter.
// OnReceive may be invoked concurrently for distinct messages and must
// not block the delivery path for long.
type Listener interface {
	OnReceive(msg *wire.Message)
}

// ListenerFunc adapts a function to the Listener interface.
type ListenerFunc func(msg *wire.Message)

// OnReceive calls f.
func (f ListenerFunc) OnReceive(msg *wire.Message) { f(msg) }

// Transport is the one-way pub/sub collaborator the core sends through.
// Implementations report all failures as a Status; they never panic
// across the Send boundary.
type Transport interface {
	// Send hands a message to the transport for delivery.
	Send(msg *wire.Message) wire.Status

	// RegisterListener subscribes the listener to messages addressed to
	// the given topic or method URI.
	RegisterListener(topic uri.UUri, l Listener) wire.Status

	// UnregisterListener removes a previously registered listener. It
	// returns only after in-flight deliveries to the listener finish.
	UnregisterListener(topic uri.UUri, l Listener) wire.Status

	// Source returns the transport's own identity, which servers use to
	// scope method registration.
	Source() uri.UUri
}

// Compile-time interface satisfaction checks.
var (
	_ Listener  = ListenerFunc(nil)
	_ Transport = (*Loopback)(nil)
)
