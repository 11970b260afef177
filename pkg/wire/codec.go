package wire

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"

	"github.com/ubus-protocol/ubus-go/pkg/uri"
)

// encMode is the CBOR encoder mode for envelope messages.
// Configured for deterministic encoding with integer keys.
var encMode cbor.EncMode

// decMode is the CBOR decoder mode for envelope messages.
var decMode cbor.DecMode

func init() {
	var err error

	encOpts := cbor.EncOptions{
		Sort:          cbor.SortCanonical,
		IndefLength:   cbor.IndefLengthForbidden,
		NilContainers: cbor.NilContainerAsNull,
		Time:          cbor.TimeUnix,
	}
	encMode, err = encOpts.EncMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create CBOR encoder mode: %v", err))
	}

	// Lenient decoding for forward compatibility.
	decOpts := cbor.DecOptions{
		DupMapKey:         cbor.DupMapKeyQuiet,
		IndefLength:       cbor.IndefLengthAllowed,
		ExtraReturnErrors: cbor.ExtraDecErrorNone,
	}
	decMode, err = decOpts.DecMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create CBOR decoder mode: %v", err))
	}
}

// wireAttributes is the integer-keyed CBOR spelling of Attributes.
// URIs travel as micro bytes when micro-encodable (compact) and as
// long-form strings otherwise; both may be present after resolution.
type wireAttributes struct {
	ID          []byte `cbor:"1,keyasint"`
	Type        uint8  `cbor:"2,keyasint"`
	SourceLong  string `cbor:"3,keyasint,omitempty"`
	SourceMicro []byte `cbor:"4,keyasint,omitempty"`
	SinkLong    string `cbor:"5,keyasint,omitempty"`
	SinkMicro   []byte `cbor:"6,keyasint,omitempty"`
	Priority    uint8  `cbor:"7,keyasint,omitempty"`
	TTL         *int32 `cbor:"8,keyasint,omitempty"`
	ReqID       []byte `cbor:"9,keyasint,omitempty"`
	CommStatus  *uint8 `cbor:"10,keyasint,omitempty"`
	Permission  *int32 `cbor:"11,keyasint,omitempty"`
	Token       string `cbor:"12,keyasint,omitempty"`
}

// wireMessage is the integer-keyed CBOR spelling of Message.
type wireMessage struct {
	Attributes wireAttributes `cbor:"1,keyasint"`
	Format     uint8          `cbor:"2,keyasint,omitempty"`
	Data       []byte         `cbor:"3,keyasint,omitempty"`
}

// EncodeMessage encodes a message envelope to CBOR bytes. The payload
// bytes are forwarded uninterpreted.
func EncodeMessage(msg *Message) ([]byte, error) {
	if msg == nil || msg.Attributes == nil {
		return nil, fmt.Errorf("message has no attributes")
	}
	a := msg.Attributes

	wa := wireAttributes{
		ID:    a.ID[:],
		Type:  uint8(a.Type),
		Token: a.Token,
	}
	wa.SourceLong, wa.SourceMicro = encodeURI(a.Source)
	wa.SinkLong, wa.SinkMicro = encodeURI(a.Sink)
	wa.Priority = uint8(a.Priority)
	wa.TTL = a.TTL
	if a.ReqID != uuid.Nil {
		wa.ReqID = a.ReqID[:]
	}
	if a.CommStatus != nil {
		cs := uint8(*a.CommStatus)
		wa.CommStatus = &cs
	}
	wa.Permission = a.PermissionLevel

	return encMode.Marshal(wireMessage{
		Attributes: wa,
		Format:     uint8(msg.Payload.Format),
		Data:       msg.Payload.Data,
	})
}

// DecodeMessage decodes CBOR bytes into a message envelope.
func DecodeMessage(data []byte) (*Message, error) {
	var wm wireMessage
	if err := decMode.Unmarshal(data, &wm); err != nil {
		return nil, fmt.Errorf("failed to decode message: %w", err)
	}
	wa := wm.Attributes

	id, err := uuid.FromBytes(wa.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid message id: %w", err)
	}

	a := &Attributes{
		ID:       id,
		Type:     MessageType(wa.Type),
		Source:   decodeURI(wa.SourceLong, wa.SourceMicro),
		Sink:     decodeURI(wa.SinkLong, wa.SinkMicro),
		Priority: Priority(wa.Priority),
		TTL:      wa.TTL,
		Token:    wa.Token,
	}
	if len(wa.ReqID) > 0 {
		reqID, err := uuid.FromBytes(wa.ReqID)
		if err != nil {
			return nil, fmt.Errorf("invalid correlation id: %w", err)
		}
		a.ReqID = reqID
	}
	if wa.CommStatus != nil {
		cs := Code(*wa.CommStatus)
		a.CommStatus = &cs
	}
	a.PermissionLevel = wa.Permission

	return &Message{
		Attributes: a,
		Payload:    Payload{Format: PayloadFormat(wm.Format), Data: wm.Data},
	}, nil
}

// encodeURI picks the compact spelling of an address: micro bytes when
// the URI is micro-encodable, the long string otherwise. A resolved URI
// carries both so the receiver keeps the names.
func encodeURI(u uri.UUri) (long string, micro []byte) {
	if u.IsEmpty() {
		return "", nil
	}
	if u.IsResolved() {
		return uri.EncodeLong(u), uri.EncodeMicro(u)
	}
	if u.IsMicroForm() {
		return "", uri.EncodeMicro(u)
	}
	return uri.EncodeLong(u), nil
}

// decodeURI reverses encodeURI, merging both spellings when present.
func decodeURI(long string, micro []byte) uri.UUri {
	switch {
	case long != "" && len(micro) > 0:
		return uri.Resolve(long, micro)
	case len(micro) > 0:
		return uri.DecodeMicro(micro)
	case long != "":
		return uri.DecodeLong(long)
	default:
		return uri.Empty
	}
}
