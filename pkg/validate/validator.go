package validate

import (
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/ubus-protocol/ubus-go/pkg/wire"
)

// rule is one named check over an attribute record. A rule returns the
// violation message, or "" when the rule passes.
type rule func(a *wire.Attributes) string

// Validator validates attribute records of a single message type.
type Validator struct {
	typ   wire.MessageType
	rules []rule
}

// Type returns the message type this validator applies to.
func (v *Validator) Type() wire.MessageType { return v.typ }

// Validate runs every rule and aggregates all violations, comma-joined
// in rule-declaration order, into one INVALID_ARGUMENT status. It
// returns OK only when every rule passes.
func (v *Validator) Validate(a *wire.Attributes) wire.Status {
	var violations []string
	for _, r := range v.rules {
		if msg := r(a); msg != "" {
			violations = append(violations, msg)
		}
	}
	if len(violations) == 0 {
		return wire.OK
	}
	return wire.NewStatus(wire.CodeInvalidArgument, strings.Join(violations, ","))
}

// Validators are stateless; build each once and dispatch by type.
var (
	publishValidator = &Validator{
		typ: wire.MessagePublish,
		rules: []rule{
			typeIs(wire.MessagePublish),
			validID,
			ttlPositiveIfPresent,
			sinkValidIfPresent,
			priorityAtLeast(wire.PriorityStandard),
			permissionNonNegative,
			reqIDWellFormedIfPresent,
		},
	}

	notificationValidator = &Validator{
		typ: wire.MessageNotification,
		rules: []rule{
			typeIs(wire.MessageNotification),
			validID,
			ttlUnchecked,
			sinkRequired,
			priorityAtLeast(wire.PriorityStandard),
			permissionNonNegative,
			reqIDWellFormedIfPresent,
		},
	}

	requestValidator = &Validator{
		typ: wire.MessageRequest,
		rules: []rule{
			typeIs(wire.MessageRequest),
			validID,
			ttlRequired,
			sinkRPCMethod,
			priorityAtLeast(wire.PriorityRealtimeInteractive),
			permissionNonNegative,
			reqIDWellFormedIfPresent,
		},
	}

	responseValidator = &Validator{
		typ: wire.MessageResponse,
		rules: []rule{
			typeIs(wire.MessageResponse),
			validID,
			ttlUnchecked,
			sinkRPCResponse,
			priorityAtLeast(wire.PriorityRealtimeInteractive),
			permissionNonNegative,
			reqIDRequired,
		},
	}
)

// ForType returns the validator for the given message type. Dispatch
// never fails: unknown types map to the publish rule set.
func ForType(t wire.MessageType) *Validator {
	switch t {
	case wire.MessageNotification:
		return notificationValidator
	case wire.MessageRequest:
		return requestValidator
	case wire.MessageResponse:
		return responseValidator
	default:
		return publishValidator
	}
}

func typeIs(want wire.MessageType) rule {
	return func(a *wire.Attributes) string {
		if a.Type != want {
			return "wrong attribute type [" + a.Type.String() + "]"
		}
		return ""
	}
}

func validID(a *wire.Attributes) string {
	if a.ID == uuid.Nil {
		return "missing message id"
	}
	return ""
}

// ttlUnchecked passes any TTL; a non-positive or absent TTL means the
// message never expires, which is a delivery concern, not a validity one.
func ttlUnchecked(*wire.Attributes) string { return "" }

func ttlPositiveIfPresent(a *wire.Attributes) string {
	if ttl, ok := a.TTLMillis(); ok && ttl <= 0 {
		return "invalid ttl [" + itoa(ttl) + "]"
	}
	return ""
}

func ttlRequired(a *wire.Attributes) string {
	ttl, ok := a.TTLMillis()
	if !ok {
		return "missing ttl"
	}
	if ttl <= 0 {
		return "invalid ttl [" + itoa(ttl) + "]"
	}
	return ""
}

func sinkValidIfPresent(a *wire.Attributes) string {
	if a.Sink.IsEmpty() {
		return ""
	}
	if a.Sink.Entity.IsEmpty() {
		return "invalid sink uri"
	}
	return ""
}

func sinkRequired(a *wire.Attributes) string {
	if a.Sink.IsEmpty() {
		return "missing sink"
	}
	return ""
}

func sinkRPCMethod(a *wire.Attributes) string {
	if a.Sink.IsEmpty() {
		return "missing sink"
	}
	if !a.Sink.Resource.IsRPCMethod() {
		return "invalid rpc method uri"
	}
	return ""
}

func sinkRPCResponse(a *wire.Attributes) string {
	if a.Sink.IsEmpty() {
		return "missing sink"
	}
	if !a.Sink.Resource.IsRPCResponse() {
		return "invalid rpc response uri"
	}
	return ""
}

func priorityAtLeast(floor wire.Priority) rule {
	return func(a *wire.Attributes) string {
		if a.Priority < floor {
			return "invalid priority [" + a.Priority.String() + "]"
		}
		return ""
	}
}

func permissionNonNegative(a *wire.Attributes) string {
	if a.PermissionLevel != nil && *a.PermissionLevel < 0 {
		return "invalid permission level"
	}
	return ""
}

func reqIDWellFormedIfPresent(*wire.Attributes) string {
	// A uuid.UUID is structurally well-formed by construction; absence
	// is spelled uuid.Nil and is allowed here.
	return ""
}

func reqIDRequired(a *wire.Attributes) string {
	if a.ReqID == uuid.Nil {
		return "missing correlation id"
	}
	return ""
}

func itoa(v int32) string {
	return strconv.FormatInt(int64(v), 10)
}
