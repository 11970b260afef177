// Package rpc layers synchronous-looking request/response semantics on
// top of the one-way pub/sub transport.
//
// The Client mints a time-ordered correlation id per call, records a
// pending entry before the request is handed to the transport (so a fast
// peer's response can never outrun the bookkeeping), and resolves each
// invocation exactly once: by a matching response, by its deadline, or
// by a transport-level send failure. Responses with no pending entry are
// dropped; a misrouted message of the wrong type is ignored and the call
// is left to its timeout, because such a message carries no trustworthy
// result.
//
// The Server owns a method-to-handler registry scoped to the transport's
// own identity, so a handler cannot accidentally be registered for a
// peer's address. Handlers run off the delivery path on a worker pool;
// their outcome, including panics, is translated into a response whose
// comm-status carries the failure code. A request for a method this
// server does not own is silently ignored - several servers may share
// one transport and each owns only a subset of methods.
package rpc
