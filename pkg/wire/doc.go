// Package wire defines the message envelope shared by every protocol
// message: the attribute record, the message type and priority enums, the
// status-code taxonomy, and the opaque payload container.
//
// # Message Types
//
// There are four message types:
//   - Publish: fire-and-forget event on a topic
//   - Notification: directed event, requires a sink
//   - Request: RPC call, requires a sink method and a TTL
//   - Response: RPC result, requires a correlation id
//
// # Attributes
//
// Attributes are built once by the sender and are immutable afterwards.
// The id doubles as the send timestamp when it is a time-ordered UUID.
// TTL is in milliseconds; zero or negative means the message never
// expires. Expiry is a delivery concern, not a validity concern.
//
// # Envelope Codec
//
// Messages cross byte-stream transports as CBOR maps with integer keys
// for compactness. URIs embed in their micro form when micro-encodable
// and as long-form strings otherwise; the payload bytes are forwarded
// uninterpreted.
package wire
