package rpc

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ubus-protocol/ubus-go/pkg/id"
	"github.com/ubus-protocol/ubus-go/pkg/transport"
	"github.com/ubus-protocol/ubus-go/pkg/uri"
	"github.com/ubus-protocol/ubus-go/pkg/validate"
	"github.com/ubus-protocol/ubus-go/pkg/wire"
)

// Client issues RPC requests over a one-way transport and demultiplexes
// the responses by correlation id. One shared listener is registered at
// construction on the client's response topic; per-call state lives in
// the pending-invocation map.
type Client struct {
	transport transport.Transport
	gen       id.Generator
	log       zerolog.Logger

	// responseTopic is the transport identity narrowed to the reserved
	// RPC response resource; it is both the request source and the
	// listener filter.
	responseTopic uri.UUri

	mu      sync.Mutex
	pending map[uuid.UUID]*Invocation
	closed  bool
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithClientLogger attaches a logger; the default discards output.
func WithClientLogger(log zerolog.Logger) ClientOption {
	return func(c *Client) { c.log = log }
}

// NewClient builds a client bound to the transport's identity and
// registers its shared response listener. The returned error carries a
// wire.Status if registration is rejected.
func NewClient(t transport.Transport, gen id.Generator, opts ...ClientOption) (*Client, error) {
	source := t.Source()
	c := &Client{
		transport: t,
		gen:       gen,
		log:       zerolog.Nop(),
		responseTopic: uri.UUri{
			Authority: source.Authority,
			Entity:    source.Entity,
			Resource:  uri.RPCResponse(),
		},
		pending: make(map[uuid.UUID]*Invocation),
	}
	for _, opt := range opts {
		opt(c)
	}
	if st := t.RegisterListener(c.responseTopic, c); st.IsError() {
		return nil, st.Err()
	}
	return c, nil
}

// Invoke sends a request to the method address and returns the pending
// invocation. The pending entry is recorded before the transport sees
// the message, so a response can never arrive unrecognized. Timeout is
// echoed into the request's TTL attribute in milliseconds.
//
// Synchronous rejections (validation failure, duplicate correlation id,
// closed client) return a nil invocation and an error carrying the
// status. A transport-level send failure instead resolves the returned
// invocation with the transport's status; no timer is started for it.
func (c *Client) Invoke(method uri.UUri, payload wire.Payload, timeout time.Duration) (*Invocation, error) {
	attrs := wire.NewRequestAttributes(c.gen.New(), c.responseTopic, method, int32(timeout.Milliseconds()))
	if st := validate.ForType(wire.MessageRequest).Validate(attrs); st.IsError() {
		return nil, st.Err()
	}

	inv := newInvocation(attrs.ID, time.Now().Add(timeout))

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, wire.NewStatus(wire.CodeFailedPrecondition, "client closed").Err()
	}
	if _, dup := c.pending[attrs.ID]; dup {
		c.mu.Unlock()
		return nil, wire.Statusf(wire.CodeAlreadyExists,
			"correlation id %s already pending", attrs.ID).Err()
	}
	c.pending[attrs.ID] = inv
	c.mu.Unlock()

	inv.setDetach(func() { c.remove(attrs.ID) })

	if st := c.transport.Send(wire.NewMessage(attrs, payload)); st.IsError() {
		c.remove(attrs.ID)
		c.log.Debug().Stringer("id", attrs.ID).Str("status", st.String()).
			Msg("request rejected by transport")
		inv.complete(wire.Payload{}, st)
		return inv, nil
	}

	inv.setTimer(time.AfterFunc(timeout, func() { c.timeout(attrs.ID) }))

	c.log.Debug().Stringer("id", attrs.ID).Dur("timeout", timeout).Msg("request sent")
	return inv, nil
}

// Call is Invoke followed by Await: it blocks until the response
// arrives, the timeout elapses, or the context is cancelled.
func (c *Client) Call(ctx context.Context, method uri.UUri, payload wire.Payload, timeout time.Duration) (wire.Payload, wire.Status) {
	inv, err := c.Invoke(method, payload, timeout)
	if err != nil {
		return wire.Payload{}, wire.StatusOf(err)
	}
	return inv.Await(ctx)
}

// OnReceive demultiplexes inbound traffic. Only response-typed messages
// with a pending correlation id are acted on; everything else is
// dropped. A message of the wrong type is folded into the timeout path
// rather than failing the call, because it carries no trustworthy
// result.
func (c *Client) OnReceive(msg *wire.Message) {
	if msg == nil || msg.Attributes == nil {
		return
	}
	attrs := msg.Attributes
	if attrs.Type != wire.MessageResponse {
		c.log.Debug().Stringer("type", attrs.Type).Msg("ignoring non-response message")
		return
	}
	if attrs.ReqID == uuid.Nil {
		return
	}

	c.mu.Lock()
	inv, ok := c.pending[attrs.ReqID]
	if ok {
		delete(c.pending, attrs.ReqID)
	}
	c.mu.Unlock()

	if !ok {
		// Late, duplicate or foreign response; idempotent drop.
		c.log.Debug().Stringer("reqid", attrs.ReqID).Msg("dropping unmatched response")
		return
	}

	if attrs.HasCommStatus() {
		inv.complete(wire.Payload{}, wire.Statusf(*attrs.CommStatus,
			"remote reported %s", attrs.CommStatus.String()))
		return
	}
	inv.complete(msg.Payload, wire.OK)
}

// PendingCount returns the number of in-flight invocations.
func (c *Client) PendingCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}

// Close unregisters the response listener and fails every pending
// invocation with ABORTED. Listener removal waits for in-flight
// deliveries, so no completion races past the close.
func (c *Client) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()

	st := c.transport.UnregisterListener(c.responseTopic, c)

	c.mu.Lock()
	pending := make([]*Invocation, 0, len(c.pending))
	for _, inv := range c.pending {
		pending = append(pending, inv)
	}
	c.pending = make(map[uuid.UUID]*Invocation)
	c.mu.Unlock()

	for _, inv := range pending {
		inv.complete(wire.Payload{}, wire.NewStatus(wire.CodeAborted, "client closed"))
	}
	return st.Err()
}

func (c *Client) remove(reqID uuid.UUID) {
	c.mu.Lock()
	delete(c.pending, reqID)
	c.mu.Unlock()
}

// timeout resolves an invocation whose deadline elapsed with no
// matching response.
func (c *Client) timeout(reqID uuid.UUID) {
	c.mu.Lock()
	inv, ok := c.pending[reqID]
	if ok {
		delete(c.pending, reqID)
	}
	c.mu.Unlock()

	if !ok {
		return
	}
	c.log.Debug().Stringer("id", reqID).Msg("invocation timed out")
	inv.complete(wire.Payload{}, wire.NewStatus(wire.CodeDeadlineExceeded, "request timed out"))
}

// Compile-time interface satisfaction check.
var _ transport.Listener = (*Client)(nil)
