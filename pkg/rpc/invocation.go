package rpc

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ubus-protocol/ubus-go/pkg/wire"
)

// Invocation is the result slot of one in-flight RPC call. It resolves
// exactly once with either a payload or a failure status; later
// completion attempts are ignored. Callers either block on Await or
// register a continuation with OnComplete.
type Invocation struct {
	id       uuid.UUID
	deadline time.Time

	mu        sync.Mutex
	completed bool
	payload   wire.Payload
	status    wire.Status
	callbacks []func(wire.Payload, wire.Status)
	timer     *time.Timer
	detach    func() // removes the pending entry, set by the client

	done chan struct{}
}

func newInvocation(id uuid.UUID, deadline time.Time) *Invocation {
	return &Invocation{
		id:       id,
		deadline: deadline,
		status:   wire.OK,
		done:     make(chan struct{}),
	}
}

// ID returns the invocation's correlation id.
func (inv *Invocation) ID() uuid.UUID { return inv.id }

// Deadline returns when the invocation times out.
func (inv *Invocation) Deadline() time.Time { return inv.deadline }

// Done returns a channel closed when the invocation resolves.
func (inv *Invocation) Done() <-chan struct{} { return inv.done }

// Await blocks until the invocation resolves or the context is
// cancelled. External cancellation removes the pending entry (the slot
// does not leak) and surfaces the context error.
func (inv *Invocation) Await(ctx context.Context) (wire.Payload, wire.Status) {
	select {
	case <-inv.done:
	case <-ctx.Done():
		inv.Cancel()
		<-inv.done
	}
	inv.mu.Lock()
	defer inv.mu.Unlock()
	return inv.payload, inv.status
}

// OnComplete registers a continuation invoked once when the invocation
// resolves. If it already resolved, the continuation runs immediately.
func (inv *Invocation) OnComplete(fn func(payload wire.Payload, status wire.Status)) {
	inv.mu.Lock()
	if !inv.completed {
		inv.callbacks = append(inv.callbacks, fn)
		inv.mu.Unlock()
		return
	}
	payload, status := inv.payload, inv.status
	inv.mu.Unlock()
	fn(payload, status)
}

// Cancel resolves the invocation with DEADLINE_EXCEEDED and removes its
// pending entry. A response arriving after cancellation is dropped.
func (inv *Invocation) Cancel() {
	inv.complete(wire.Payload{},
		wire.NewStatus(wire.CodeDeadlineExceeded, "invocation cancelled"))
}

// complete resolves the slot exactly once. Continuation panics are
// contained and downgrade the outcome to UNKNOWN.
func (inv *Invocation) complete(payload wire.Payload, status wire.Status) {
	inv.mu.Lock()
	if inv.completed {
		inv.mu.Unlock()
		return
	}
	inv.completed = true
	inv.payload = payload
	inv.status = status
	callbacks := inv.callbacks
	inv.callbacks = nil
	timer := inv.timer
	detach := inv.detach
	inv.mu.Unlock()

	if timer != nil {
		timer.Stop()
	}
	if detach != nil {
		detach()
	}

	for _, fn := range callbacks {
		inv.runCallback(fn, payload, status)
	}
	close(inv.done)
}

func (inv *Invocation) runCallback(fn func(wire.Payload, wire.Status), payload wire.Payload, status wire.Status) {
	defer func() {
		if r := recover(); r != nil {
			inv.mu.Lock()
			inv.status = wire.Statusf(wire.CodeUnknown, "completion handler panic: %v", r)
			inv.payload = wire.Payload{}
			inv.mu.Unlock()
		}
	}()
	fn(payload, status)
}

func (inv *Invocation) setTimer(t *time.Timer) {
	inv.mu.Lock()
	if inv.completed {
		inv.mu.Unlock()
		t.Stop()
		return
	}
	inv.timer = t
	inv.mu.Unlock()
}

func (inv *Invocation) setDetach(fn func()) {
	inv.mu.Lock()
	inv.detach = fn
	inv.mu.Unlock()
}
