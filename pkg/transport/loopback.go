package transport

import (
	"reflect"
	"sync"

	"github.com/rs/zerolog"

	"github.com/ubus-protocol/ubus-go/pkg/uri"
	"github.com/ubus-protocol/ubus-go/pkg/wire"
)

// registration is one listener bound to a URI filter. The wait group
// counts in-flight deliveries so unregistration can drain them.
type registration struct {
	topic    uri.UUri
	listener Listener
	inflight sync.WaitGroup
}

// Loopback is an in-memory Transport delivering messages between
// entities sharing a process. Deliveries run on their own goroutines so
// a slow listener cannot stall the sender.
type Loopback struct {
	source uri.UUri
	log    zerolog.Logger

	mu     sync.Mutex
	regs   []*registration
	closed bool
}

// LoopbackOption configures a Loopback.
type LoopbackOption func(*Loopback)

// WithLoopbackLogger attaches a logger; the default discards output.
func WithLoopbackLogger(log zerolog.Logger) LoopbackOption {
	return func(lb *Loopback) { lb.log = log }
}

// NewLoopback creates an in-memory transport with the given identity.
func NewLoopback(source uri.UUri, opts ...LoopbackOption) *Loopback {
	lb := &Loopback{source: source, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(lb)
	}
	return lb
}

// Source returns the transport identity.
func (lb *Loopback) Source() uri.UUri { return lb.source }

// Send routes the message to every listener whose filter matches the
// routing address: the sink for directed messages, the source topic for
// publishes. A message matching no listener is not an error.
func (lb *Loopback) Send(msg *wire.Message) wire.Status {
	if msg == nil || msg.Attributes == nil {
		return wire.NewStatus(wire.CodeInvalidArgument, "message has no attributes")
	}

	key := msg.Attributes.Sink
	if msg.Attributes.Type == wire.MessagePublish {
		key = msg.Attributes.Source
	}

	lb.mu.Lock()
	if lb.closed {
		lb.mu.Unlock()
		return wire.NewStatus(wire.CodeFailedPrecondition, "transport closed")
	}
	var targets []*registration
	for _, reg := range lb.regs {
		if matches(reg.topic, key) {
			reg.inflight.Add(1)
			targets = append(targets, reg)
		}
	}
	lb.mu.Unlock()

	lb.log.Debug().
		Stringer("type", msg.Attributes.Type).
		Int("listeners", len(targets)).
		Msg("loopback send")

	for _, reg := range targets {
		go func(reg *registration) {
			defer reg.inflight.Done()
			reg.listener.OnReceive(msg)
		}(reg)
	}
	return wire.OK
}

// RegisterListener subscribes a listener to a topic or method filter.
func (lb *Loopback) RegisterListener(topic uri.UUri, l Listener) wire.Status {
	if l == nil || topic.IsEmpty() {
		return wire.NewStatus(wire.CodeInvalidArgument, "missing topic or listener")
	}
	lb.mu.Lock()
	defer lb.mu.Unlock()
	if lb.closed {
		return wire.NewStatus(wire.CodeFailedPrecondition, "transport closed")
	}
	for _, reg := range lb.regs {
		if sameListener(reg.listener, l) && reg.topic.Equal(topic) {
			return wire.NewStatus(wire.CodeAlreadyExists, "listener already registered")
		}
	}
	lb.regs = append(lb.regs, &registration{topic: topic, listener: l})
	return wire.OK
}

// UnregisterListener removes a listener and waits for deliveries already
// dispatched to it to finish, so callers can rely on "unregister implies
// no further callbacks".
func (lb *Loopback) UnregisterListener(topic uri.UUri, l Listener) wire.Status {
	lb.mu.Lock()
	var found *registration
	for i, reg := range lb.regs {
		if sameListener(reg.listener, l) && reg.topic.Equal(topic) {
			found = reg
			lb.regs = append(lb.regs[:i], lb.regs[i+1:]...)
			break
		}
	}
	lb.mu.Unlock()

	if found == nil {
		return wire.NewStatus(wire.CodeNotFound, "listener not registered")
	}
	found.inflight.Wait()
	return wire.OK
}

// Close tears the transport down. Further sends and registrations fail
// with FAILED_PRECONDITION; in-flight deliveries are drained.
func (lb *Loopback) Close() {
	lb.mu.Lock()
	regs := lb.regs
	lb.regs = nil
	lb.closed = true
	lb.mu.Unlock()

	for _, reg := range regs {
		reg.inflight.Wait()
	}
}

// sameListener compares listener identity. Func-typed listeners such as
// ListenerFunc are not comparable with ==, so those fall back to code
// pointer identity.
func sameListener(a, b Listener) bool {
	if a == nil || b == nil {
		return a == b
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb {
		return false
	}
	if ta.Comparable() {
		return a == b
	}
	if ta.Kind() == reflect.Func {
		return reflect.ValueOf(a).Pointer() == reflect.ValueOf(b).Pointer()
	}
	return false
}

// matches applies wildcard-aware filter matching between a registered
// filter and a message's routing address.
func matches(filter, key uri.UUri) bool {
	return authorityMatches(filter.Authority, key.Authority) &&
		entityMatches(filter.Entity, key.Entity) &&
		resourceMatches(filter.Resource, key.Resource)
}

func authorityMatches(f, k uri.Authority) bool {
	if f.IsEmpty() || k.IsEmpty() {
		// Local filters see local traffic; a loopback carries no
		// remote peers, so an unset side matches.
		return true
	}
	if f.Name != "" && k.Name != "" {
		return f.Name == k.Name
	}
	return f.Equal(k)
}

func entityMatches(f, k uri.Entity) bool {
	if f.Name != "" && k.Name != "" && f.Name != k.Name {
		return false
	}
	if f.ID != nil && !uri.IsWildcardID(*f.ID) {
		if k.ID != nil && *k.ID != *f.ID {
			return false
		}
		if k.ID == nil && k.Name == "" {
			return false
		}
	}
	if f.VersionMajor != nil && !uri.IsWildcardVersion(*f.VersionMajor) {
		if k.VersionMajor != nil && *k.VersionMajor != *f.VersionMajor {
			return false
		}
	}
	return true
}

func resourceMatches(f, k uri.Resource) bool {
	if f.IsEmpty() {
		return true
	}
	if f.Name != "" && k.Name != "" {
		if f.Name != k.Name || f.Instance != k.Instance {
			return false
		}
	}
	if f.ID != nil && !uri.IsWildcardID(*f.ID) && k.ID != nil && *k.ID != *f.ID {
		return false
	}
	return true
}
