// Package uri defines the UUri address value that identifies a software
// entity on the bus, optionally scoped by a remote authority and a
// resource (a topic or an RPC method).
//
// A UUri is a pure value: it is built once, compared structurally, and
// never mutated. Three interchangeable wire encodings exist:
//
//   - Long: human-readable path string ("/body.access/1/door.front_left#Door")
//   - Short: compact hex path string ("/2a/1/5")
//   - Micro: fixed binary layout for bandwidth-constrained transports
//
// Decoding is total: malformed input of any form yields the empty UUri,
// never an error. Malformed addresses are expected at trust boundaries,
// so "unaddressable" is a value, not an exception.
//
// # Wildcards
//
// The all-ones value of a numeric field (0xFFFF for 16-bit ids, 0xFF for
// the version) is a reserved wildcard sentinel used by matching logic,
// not a real address value.
//
// # Micro form
//
// A UUri is micro-encodable only when the entity has a numeric id and
// version, the resource has a numeric id, and the authority (if remote)
// is an IP address or an opaque id of at most 255 bytes. EncodeMicro
// checks this before emitting bytes and returns nil otherwise.
package uri
