// Package transport defines the pub/sub transport contract the RPC core
// builds on, and an in-memory Loopback implementation used by tests and
// single-process deployments.
//
// The contract is deliberately small: one-way Send, listener
// registration keyed by a UUri filter, and the transport's own identity.
// Everything synchronous-looking above it (request/response correlation,
// timeouts) lives in package rpc.
//
// Unregistering a listener waits for in-flight deliveries to that
// listener to finish, so "unregister returned" implies "no further
// callbacks".
package transport
