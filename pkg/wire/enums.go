package wire

// MessageType classifies a protocol message and drives every
// per-message-type validation rule.
type MessageType uint8

const (
	// MessagePublish is a fire-and-forget event on a topic.
	MessagePublish MessageType = 0

	// MessageNotification is a directed event with a required sink.
	MessageNotification MessageType = 1

	// MessageRequest is an RPC call addressed to a method resource.
	MessageRequest MessageType = 2

	// MessageResponse is an RPC result correlated by reqid.
	MessageResponse MessageType = 3
)

// String returns the message type name.
func (t MessageType) String() string {
	switch t {
	case MessagePublish:
		return "PUBLISH"
	case MessageNotification:
		return "NOTIFICATION"
	case MessageRequest:
		return "REQUEST"
	case MessageResponse:
		return "RESPONSE"
	default:
		return "UNKNOWN"
	}
}

// IsValid reports whether the value is one of the four message types.
func (t MessageType) IsValid() bool {
	return t <= MessageResponse
}

// Priority is the ordinal message priority ladder. Each message type has
// a minimum acceptable ordinal.
type Priority uint8

const (
	// PriorityLow is best-effort background traffic.
	PriorityLow Priority = 0

	// PriorityStandard is the default for publish and notification.
	PriorityStandard Priority = 1

	// PriorityOperations is network operations traffic.
	PriorityOperations Priority = 2

	// PriorityMultimediaStreaming is streaming media traffic.
	PriorityMultimediaStreaming Priority = 3

	// PriorityRealtimeInteractive is the floor for RPC traffic.
	PriorityRealtimeInteractive Priority = 4

	// PrioritySignaling is signaling-event traffic.
	PrioritySignaling Priority = 5

	// PriorityNetworkControl is network control traffic.
	PriorityNetworkControl Priority = 6
)

// String returns the priority name.
func (p Priority) String() string {
	switch p {
	case PriorityLow:
		return "LOW"
	case PriorityStandard:
		return "STANDARD"
	case PriorityOperations:
		return "OPERATIONS"
	case PriorityMultimediaStreaming:
		return "MULTIMEDIA_STREAMING"
	case PriorityRealtimeInteractive:
		return "REALTIME_INTERACTIVE"
	case PrioritySignaling:
		return "SIGNALING"
	case PriorityNetworkControl:
		return "NETWORK_CONTROL"
	default:
		return "UNKNOWN"
	}
}

// PayloadFormat tags the encoding of the opaque payload bytes. The core
// never interprets payload contents; the tag is forwarded as-is.
type PayloadFormat uint8

const (
	// PayloadFormatUnspecified means the format is unknown to the core.
	PayloadFormatUnspecified PayloadFormat = 0

	// PayloadFormatProtobuf is a serialized protobuf message.
	PayloadFormatProtobuf PayloadFormat = 1

	// PayloadFormatJSON is a UTF-8 JSON document.
	PayloadFormatJSON PayloadFormat = 2

	// PayloadFormatCBOR is a CBOR data item.
	PayloadFormatCBOR PayloadFormat = 3

	// PayloadFormatRaw is uninterpreted bytes.
	PayloadFormatRaw PayloadFormat = 4

	// PayloadFormatText is a UTF-8 text blob.
	PayloadFormatText PayloadFormat = 5
)

// String returns the payload format name.
func (f PayloadFormat) String() string {
	switch f {
	case PayloadFormatUnspecified:
		return "UNSPECIFIED"
	case PayloadFormatProtobuf:
		return "PROTOBUF"
	case PayloadFormatJSON:
		return "JSON"
	case PayloadFormatCBOR:
		return "CBOR"
	case PayloadFormatRaw:
		return "RAW"
	case PayloadFormatText:
		return "TEXT"
	default:
		return "UNKNOWN"
	}
}
