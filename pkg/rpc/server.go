package rpc

import (
	"context"
	"errors"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/rs/zerolog"

	"github.com/ubus-protocol/ubus-go/pkg/id"
	"github.com/ubus-protocol/ubus-go/pkg/transport"
	"github.com/ubus-protocol/ubus-go/pkg/uri"
	"github.com/ubus-protocol/ubus-go/pkg/wire"
)

// Handler implements one RPC method. A nil error produces a successful
// response carrying the returned payload; an error wrapping a
// wire.StatusError produces a response whose comm-status carries that
// status code; any other error, like a panic, maps to comm-status
// INTERNAL.
type Handler func(ctx context.Context, req *wire.Message) (wire.Payload, error)

// defaultPoolSize bounds concurrent handler executions when no pool
// size is configured.
const defaultPoolSize = 32

// methodKey is the comparable registry key of a method resource. The
// authority/entity part is pinned to the transport identity at
// registration time, so only the resource varies.
type methodKey struct {
	name     string
	instance string
	id       uint16
	hasID    bool
}

func keyOf(r uri.Resource) methodKey {
	k := methodKey{name: r.Name, instance: r.Instance}
	if r.ID != nil {
		k.id = *r.ID
		k.hasID = true
	}
	return k
}

// Server dispatches inbound request messages to registered method
// handlers and sends back the correlated responses. Handlers run off
// the delivery path on a worker pool so a slow or panicking handler
// cannot stall other deliveries.
type Server struct {
	transport transport.Transport
	gen       id.Generator
	pool      *ants.Pool
	log       zerolog.Logger

	source uri.UUri

	mu       sync.Mutex
	handlers map[methodKey]Handler
	closed   bool
}

// ServerOption configures a Server.
type ServerOption func(*Server) error

// WithServerLogger attaches a logger; the default discards output.
func WithServerLogger(log zerolog.Logger) ServerOption {
	return func(s *Server) error {
		s.log = log
		return nil
	}
}

// WithPoolSize bounds the number of concurrently running handlers.
func WithPoolSize(size int) ServerOption {
	return func(s *Server) error {
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		s.pool.Release()
		s.pool = pool
		return nil
	}
}

// NewServer builds a server scoped to the transport's identity.
func NewServer(t transport.Transport, gen id.Generator, opts ...ServerOption) (*Server, error) {
	pool, err := ants.NewPool(defaultPoolSize)
	if err != nil {
		return nil, err
	}
	s := &Server{
		transport: t,
		gen:       gen,
		pool:      pool,
		log:       zerolog.Nop(),
		source:    t.Source(),
		handlers:  make(map[methodKey]Handler),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			pool.Release()
			return nil, err
		}
	}
	return s, nil
}

// Register binds a handler to a method address. The method's authority,
// entity id and entity version must exactly match the transport's own
// identity; a mismatch is INVALID_ARGUMENT and the transport is never
// touched. Registering an already-registered method is ALREADY_EXISTS.
func (s *Server) Register(method uri.UUri, h Handler) wire.Status {
	if h == nil {
		return wire.NewStatus(wire.CodeInvalidArgument, "missing handler")
	}
	if st := s.checkMethod(method); st.IsError() {
		return st
	}

	key := keyOf(method.Resource)
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return wire.NewStatus(wire.CodeFailedPrecondition, "server closed")
	}
	if _, dup := s.handlers[key]; dup {
		s.mu.Unlock()
		return wire.NewStatus(wire.CodeAlreadyExists, "method already registered")
	}
	s.handlers[key] = h
	s.mu.Unlock()

	if st := s.transport.RegisterListener(method, s); st.IsError() {
		s.mu.Lock()
		delete(s.handlers, key)
		s.mu.Unlock()
		return st
	}
	s.log.Debug().Str("method", uri.EncodeLong(method)).Msg("method registered")
	return wire.OK
}

// Unregister removes a method's handler. Unknown methods are NOT_FOUND;
// an identity mismatch is INVALID_ARGUMENT and the transport is never
// touched.
func (s *Server) Unregister(method uri.UUri) wire.Status {
	if st := s.checkMethod(method); st.IsError() {
		return st
	}

	key := keyOf(method.Resource)
	s.mu.Lock()
	if _, ok := s.handlers[key]; !ok {
		s.mu.Unlock()
		return wire.NewStatus(wire.CodeNotFound, "method not registered")
	}
	delete(s.handlers, key)
	s.mu.Unlock()

	return s.transport.UnregisterListener(method, s)
}

// checkMethod verifies the method address belongs to this transport and
// names a callable resource.
func (s *Server) checkMethod(method uri.UUri) wire.Status {
	if method.IsEmpty() {
		return wire.NewStatus(wire.CodeInvalidArgument, "missing method uri")
	}
	if !method.Resource.IsRPCMethod() {
		return wire.NewStatus(wire.CodeInvalidArgument, "uri does not address an rpc method")
	}
	if !method.Authority.Equal(s.source.Authority) {
		return wire.NewStatus(wire.CodeInvalidArgument,
			"method authority does not match transport identity")
	}
	if !matchEntityIdentity(method.Entity, s.source.Entity) {
		return wire.NewStatus(wire.CodeInvalidArgument,
			"method entity does not match transport identity")
	}
	return wire.OK
}

// matchEntityIdentity compares the entity id and version of a method
// address with the transport's own, tolerating an absent numeric id
// only when both sides address by name.
func matchEntityIdentity(method, own uri.Entity) bool {
	if method.Name != "" && own.Name != "" && method.Name != own.Name {
		return false
	}
	if !eqU16(method.ID, own.ID) {
		return false
	}
	if !eqU8(method.VersionMajor, own.VersionMajor) {
		return false
	}
	if method.Name == "" && method.ID == nil {
		return false
	}
	return true
}

// OnReceive dispatches inbound requests. Requests for methods this
// server does not own are silently ignored; several independent servers
// may share one transport.
func (s *Server) OnReceive(msg *wire.Message) {
	if msg == nil || msg.Attributes == nil {
		return
	}
	attrs := msg.Attributes
	if attrs.Type != wire.MessageRequest {
		return
	}

	s.mu.Lock()
	h, ok := s.handlers[keyOf(attrs.Sink.Resource)]
	s.mu.Unlock()
	if !ok {
		return
	}

	if err := s.pool.Submit(func() { s.dispatch(h, msg) }); err != nil {
		// Pool exhausted or released; answer off the caller's goroutine
		// rather than dropping the request on the floor.
		s.log.Warn().Err(err).Msg("handler pool rejected request, running inline")
		s.dispatch(h, msg)
	}
}

// dispatch runs the handler and translates its outcome into the
// correlated response message.
func (s *Server) dispatch(h Handler, req *wire.Message) {
	payload, code := s.invokeHandler(h, req)

	attrs := wire.NewResponseAttributes(s.gen.New(), req.Attributes.Sink,
		req.Attributes.Source, req.Attributes.ID)
	if code != wire.CodeOK {
		attrs = attrs.WithCommStatus(code)
		payload = wire.Payload{}
	}

	if st := s.transport.Send(wire.NewMessage(attrs, payload)); st.IsError() {
		s.log.Error().Str("status", st.String()).
			Stringer("reqid", req.Attributes.ID).Msg("failed to send response")
	}
}

// invokeHandler contains the handler call so a panic is translated to
// INTERNAL instead of unwinding into the pool.
func (s *Server) invokeHandler(h Handler, req *wire.Message) (payload wire.Payload, code wire.Code) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error().Interface("panic", r).
				Stringer("reqid", req.Attributes.ID).Msg("handler panic recovered")
			payload = wire.Payload{}
			code = wire.CodeInternal
		}
	}()

	result, err := h(context.Background(), req)
	if err != nil {
		var se *wire.StatusError
		if errors.As(err, &se) {
			return wire.Payload{}, se.Status.Code
		}
		return wire.Payload{}, wire.CodeInternal
	}
	return result, wire.CodeOK
}

// MethodCount returns the number of registered methods.
func (s *Server) MethodCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.handlers)
}

// Close unregisters every method listener and releases the worker pool.
func (s *Server) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	methods := make([]uri.UUri, 0, len(s.handlers))
	for key := range s.handlers {
		res := uri.Resource{Name: key.name, Instance: key.instance}
		if key.hasID {
			rid := key.id
			res.ID = &rid
		}
		methods = append(methods, uri.UUri{
			Authority: s.source.Authority,
			Entity:    s.source.Entity,
			Resource:  res,
		})
	}
	s.handlers = make(map[methodKey]Handler)
	s.mu.Unlock()

	for _, m := range methods {
		if st := s.transport.UnregisterListener(m, s); st.IsError() {
			s.log.Warn().Str("status", st.String()).Msg("listener unregister failed during close")
		}
	}
	s.pool.Release()
	return nil
}

// Compile-time interface satisfaction check.
var _ transport.Listener = (*Server)(nil)

func eqU16(a, b *uint16) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func eqU8(a, b *uint8) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
