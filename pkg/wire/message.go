package wire

// Payload is the opaque application payload: raw bytes plus a format
// tag. The core forwards both without interpretation.
type Payload struct {
	Format PayloadFormat
	Data   []byte
}

// IsEmpty reports whether the payload carries no bytes.
func (p Payload) IsEmpty() bool { return len(p.Data) == 0 }

// RawPayload wraps bytes in an uninterpreted payload.
func RawPayload(data []byte) Payload {
	return Payload{Format: PayloadFormatRaw, Data: data}
}

// Message is the unit handed to the transport: an attribute envelope
// plus an opaque payload.
type Message struct {
	Attributes *Attributes
	Payload    Payload
}

// NewMessage pairs an envelope with a payload.
func NewMessage(attrs *Attributes, payload Payload) *Message {
	return &Message{Attributes: attrs, Payload: payload}
}
