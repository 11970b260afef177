// Package validate enforces the per-message-type attribute rules that
// every message must satisfy before it may be sent.
//
// A Validator is selected by message type via ForType; the dispatch
// itself never fails (an unknown type falls back to the publish rules).
// Validate runs all rules unconditionally and aggregates every failing
// rule's message into a single comma-joined INVALID_ARGUMENT status, in
// rule-declaration order. Partial success is not reported: either all
// rules pass or the caller sees the full list of violations.
//
// Expiry is deliberately not a validation rule. IsExpired is a separate
// predicate, and a message with no TTL, a non-positive TTL, or an id
// without an embedded timestamp is defined to be not expired.
package validate
