package rpc

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/ubus-protocol/ubus-go/pkg/id"
	"github.com/ubus-protocol/ubus-go/pkg/transport"
	"github.com/ubus-protocol/ubus-go/pkg/uri"
	"github.com/ubus-protocol/ubus-go/pkg/wire"
)

// fakeTransport records sent messages and registrations so tests can
// drive the client and server without a real delivery path.
type fakeTransport struct {
	source uri.UUri

	mu             sync.Mutex
	sent           []*wire.Message
	sendStatus     wire.Status
	registerStatus wire.Status
	regs           []fakeRegistration
}

type fakeRegistration struct {
	topic    uri.UUri
	listener transport.Listener
}

func newFakeTransport(source uri.UUri) *fakeTransport {
	return &fakeTransport{source: source}
}

func (f *fakeTransport) Send(msg *wire.Message) wire.Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendStatus.IsError() {
		return f.sendStatus
	}
	f.sent = append(f.sent, msg)
	return wire.OK
}

func (f *fakeTransport) RegisterListener(topic uri.UUri, l transport.Listener) wire.Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.registerStatus.IsError() {
		return f.registerStatus
	}
	f.regs = append(f.regs, fakeRegistration{topic: topic, listener: l})
	return wire.OK
}

func (f *fakeTransport) UnregisterListener(topic uri.UUri, l transport.Listener) wire.Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, reg := range f.regs {
		if reg.listener == l && reg.topic.Equal(topic) {
			f.regs = append(f.regs[:i], f.regs[i+1:]...)
			return wire.OK
		}
	}
	return wire.NewStatus(wire.CodeNotFound, "listener not registered")
}

func (f *fakeTransport) Source() uri.UUri { return f.source }

func (f *fakeTransport) failSends(st wire.Status) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sendStatus = st
}

func (f *fakeTransport) sentCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

func (f *fakeTransport) sentAt(i int) *wire.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sent[i]
}

func (f *fakeTransport) waitForSent(t *testing.T, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for f.sentCount() < n {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %d sends, have %d", n, f.sentCount())
		}
		time.Sleep(time.Millisecond)
	}
}

func (f *fakeTransport) registrationCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.regs)
}

var _ transport.Transport = (*fakeTransport)(nil)

// fixedGen always mints the same id, which lets tests force correlation
// id collisions deterministically.
type fixedGen struct {
	id uuid.UUID
}

func (g fixedGen) New() uuid.UUID { return g.id }

func (g fixedGen) Timestamp(u uuid.UUID) (time.Time, bool) { return id.Timestamp(u) }

var _ id.Generator = fixedGen{}

func clientIdentity() uri.UUri {
	return uri.UUri{Entity: uri.EntityNamedVersion("petapp", 1)}
}

func serverIdentity() uri.UUri {
	return uri.UUri{Entity: uri.EntityNamedVersion("body.access", 1)}
}

func echoMethod() uri.UUri {
	return uri.UUri{
		Entity:   uri.EntityNamedVersion("body.access", 1),
		Resource: uri.RPCMethod("UpdateDoor"),
	}
}

// responseTo builds the transport-level response a remote server would
// send for the given request.
func responseTo(req *wire.Message, payload wire.Payload) *wire.Message {
	attrs := wire.NewResponseAttributes(uuid.New(), req.Attributes.Sink,
		req.Attributes.Source, req.Attributes.ID)
	return wire.NewMessage(attrs, payload)
}
