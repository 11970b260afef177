package wire

import (
	"bytes"
	"testing"

	"github.com/google/uuid"

	"github.com/ubus-protocol/ubus-go/pkg/uri"
)

func TestMessageRoundTripRequest(t *testing.T) {
	source := uri.UUri{
		Entity:   uri.EntityNamedVersion("petapp", 1),
		Resource: uri.RPCResponse(),
	}
	sink := uri.UUri{
		Entity:   uri.EntityNamedVersion("body.access", 1),
		Resource: uri.RPCMethod("UpdateDoor"),
	}
	attrs := NewRequestAttributes(uuid.New(), source, sink, 2000)
	msg := NewMessage(attrs.WithToken("secret", 3), RawPayload([]byte(`{"door":"front_left"}`)))
	msg.Payload.Format = PayloadFormatJSON

	data, err := EncodeMessage(msg)
	if err != nil {
		t.Fatalf("EncodeMessage: %v", err)
	}
	got, err := DecodeMessage(data)
	if err != nil {
		t.Fatalf("DecodeMessage: %v", err)
	}

	a := got.Attributes
	if a.ID != attrs.ID {
		t.Errorf("id = %v, want %v", a.ID, attrs.ID)
	}
	if a.Type != MessageRequest {
		t.Errorf("type = %v, want request", a.Type)
	}
	if !a.Source.Equal(source) {
		t.Errorf("source = %+v, want %+v", a.Source, source)
	}
	if !a.Sink.Equal(sink) {
		t.Errorf("sink = %+v, want %+v", a.Sink, sink)
	}
	if a.Priority != PriorityRealtimeInteractive {
		t.Errorf("priority = %v", a.Priority)
	}
	if ttl, ok := a.TTLMillis(); !ok || ttl != 2000 {
		t.Errorf("ttl = %d, %v", ttl, ok)
	}
	if a.Token != "secret" || a.PermissionLevel == nil || *a.PermissionLevel != 3 {
		t.Errorf("token/permission not preserved: %q %v", a.Token, a.PermissionLevel)
	}
	if got.Payload.Format != PayloadFormatJSON || !bytes.Equal(got.Payload.Data, msg.Payload.Data) {
		t.Errorf("payload not preserved")
	}
}

func TestMessageRoundTripResponseCommStatus(t *testing.T) {
	source := uri.UUri{
		Entity:   uri.EntityFromID(0x2a, 1),
		Resource: uri.ResourceFromID(5),
	}
	sink := uri.UUri{
		Entity:   uri.EntityFromID(0x10, 1),
		Resource: uri.ResourceFromID(0),
	}
	reqID := uuid.New()
	attrs := NewResponseAttributes(uuid.New(), source, sink, reqID).WithCommStatus(CodeDataLoss)
	msg := NewMessage(attrs, Payload{})

	data, err := EncodeMessage(msg)
	if err != nil {
		t.Fatalf("EncodeMessage: %v", err)
	}
	got, err := DecodeMessage(data)
	if err != nil {
		t.Fatalf("DecodeMessage: %v", err)
	}

	a := got.Attributes
	if a.ReqID != reqID {
		t.Errorf("reqid = %v, want %v", a.ReqID, reqID)
	}
	if !a.HasCommStatus() || *a.CommStatus != CodeDataLoss {
		t.Errorf("commstatus not preserved: %v", a.CommStatus)
	}
	if !a.Source.Equal(source) || !a.Sink.Equal(sink) {
		t.Error("micro-form addresses not preserved")
	}
	if !got.Payload.IsEmpty() {
		t.Error("payload should stay empty")
	}
}

func TestMessageRoundTripResolvedURI(t *testing.T) {
	resolved := uri.Resolve(
		"/body.access/1/door.front_left#Door",
		uri.EncodeMicro(uri.UUri{Entity: uri.EntityFromID(0x2a, 1), Resource: uri.ResourceFromID(0x5)}),
	)
	if resolved.IsEmpty() {
		t.Fatal("fixture resolve failed")
	}

	attrs := NewPublishAttributes(uuid.New(), resolved, PriorityStandard)
	data, err := EncodeMessage(NewMessage(attrs, RawPayload([]byte{0x01})))
	if err != nil {
		t.Fatalf("EncodeMessage: %v", err)
	}
	got, err := DecodeMessage(data)
	if err != nil {
		t.Fatalf("DecodeMessage: %v", err)
	}
	if !got.Attributes.Source.IsResolved() {
		t.Error("resolved source should survive the wire with names and ids")
	}
	if !got.Attributes.Source.Equal(resolved) {
		t.Errorf("source = %+v, want %+v", got.Attributes.Source, resolved)
	}
}

func TestEncodeMessageRejectsMissingAttributes(t *testing.T) {
	if _, err := EncodeMessage(nil); err == nil {
		t.Error("nil message should fail")
	}
	if _, err := EncodeMessage(&Message{}); err == nil {
		t.Error("message without attributes should fail")
	}
}

func TestDecodeMessageRejectsGarbage(t *testing.T) {
	if _, err := DecodeMessage([]byte{0xff, 0x00, 0x13}); err == nil {
		t.Error("garbage bytes should fail")
	}
}

func TestEnumStrings(t *testing.T) {
	if MessagePublish.String() != "PUBLISH" || MessageResponse.String() != "RESPONSE" {
		t.Error("message type strings wrong")
	}
	if MessageType(200).IsValid() {
		t.Error("out-of-range message type should be invalid")
	}
	if PriorityRealtimeInteractive.String() != "REALTIME_INTERACTIVE" {
		t.Errorf("priority string = %q", PriorityRealtimeInteractive.String())
	}
	if PayloadFormatCBOR.String() != "CBOR" {
		t.Errorf("payload format string = %q", PayloadFormatCBOR.String())
	}
}
