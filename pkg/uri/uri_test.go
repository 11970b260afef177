package uri

import (
	"net"
	"testing"
)

func TestEmptyUUri(t *testing.T) {
	var u UUri
	if !u.IsEmpty() {
		t.Error("zero UUri should be empty")
	}
	if !u.IsLocal() {
		t.Error("zero UUri should be local")
	}
	if u.IsMicroForm() {
		t.Error("zero UUri should not be micro-encodable")
	}
	if u.IsLongForm() {
		t.Error("zero UUri should not be long-encodable")
	}
	if !u.Equal(Empty) {
		t.Error("zero UUri should equal Empty")
	}
}

func TestAuthorityType(t *testing.T) {
	tests := []struct {
		name string
		auth Authority
		want AuthorityType
		ok   bool
	}{
		{"local", Authority{}, AuthorityLocal, true},
		{"ipv4", AuthorityIP(net.IPv4(192, 168, 1, 10).To4()), AuthorityIPv4, true},
		{"ipv4 in 16 bytes", AuthorityIP(net.IPv4(192, 168, 1, 10)), AuthorityIPv4, true},
		{"ipv6", AuthorityIP(net.ParseIP("2001:db8::1")), AuthorityIPv6, true},
		{"opaque id", AuthorityFromID([]byte{0x01, 0x02}), AuthorityID, true},
		{"max id", AuthorityFromID(make([]byte, 255)), AuthorityID, true},
		{"oversized id", AuthorityFromID(make([]byte, 256)), AuthorityLocal, false},
		{"name only", AuthorityName("vcu.example.com"), AuthorityLocal, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.auth.Type()
			if got != tt.want || ok != tt.ok {
				t.Errorf("Type() = (%v, %v), want (%v, %v)", got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestIsMicroForm(t *testing.T) {
	micro := UUri{
		Entity:   EntityFromID(0x2a, 1),
		Resource: ResourceFromID(0x5),
	}
	if !micro.IsMicroForm() {
		t.Error("numeric local UUri should be micro-encodable")
	}

	tests := []struct {
		name string
		u    UUri
	}{
		{"named entity only", UUri{Entity: EntityNamed("body.access"), Resource: ResourceFromID(1)}},
		{"named resource only", UUri{Entity: EntityFromID(1, 1), Resource: ResourceNamed("door", "", "")}},
		{"name-only authority", UUri{
			Authority: AuthorityName("vcu.example.com"),
			Entity:    EntityFromID(1, 1),
			Resource:  ResourceFromID(1),
		}},
		{"missing version", UUri{
			Entity:   Entity{ID: u16(1)},
			Resource: ResourceFromID(1),
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.u.IsMicroForm() {
				t.Error("should not be micro-encodable")
			}
		})
	}
}

func TestWildcards(t *testing.T) {
	if !IsWildcardID(0xFFFF) || IsWildcardID(0xFFFE) {
		t.Error("IsWildcardID sentinel handling wrong")
	}
	if !IsWildcardVersion(0xFF) || IsWildcardVersion(0xFE) {
		t.Error("IsWildcardVersion sentinel handling wrong")
	}

	u := UUri{Entity: EntityFromID(WildcardID, 1), Resource: ResourceFromID(2)}
	if !u.HasWildcard() {
		t.Error("wildcard entity id should be detected")
	}
	u = UUri{Entity: EntityFromID(1, WildcardVersion), Resource: ResourceFromID(2)}
	if !u.HasWildcard() {
		t.Error("wildcard version should be detected")
	}
	u = UUri{Entity: EntityFromID(1, 1), Resource: ResourceFromID(WildcardID)}
	if !u.HasWildcard() {
		t.Error("wildcard resource id should be detected")
	}
	u = UUri{Entity: EntityFromID(1, 1), Resource: ResourceFromID(2)}
	if u.HasWildcard() {
		t.Error("plain ids should not be wildcards")
	}
}

func TestResourceRPCShapes(t *testing.T) {
	if !RPCMethod("echo").IsRPCMethod() {
		t.Error("named method should be an rpc method")
	}
	if RPCMethod("echo").IsRPCResponse() {
		t.Error("named method is not a response")
	}
	if !RPCResponse().IsRPCResponse() {
		t.Error("response resource should be a response")
	}
	if RPCResponse().IsRPCMethod() {
		t.Error("response resource is not a method")
	}
	if !RPCMethodFromID(7).IsRPCMethod() {
		t.Error("low numeric ids address methods")
	}
	if ResourceFromID(0).IsRPCMethod() {
		t.Error("resource id 0 is the response resource")
	}
	if !ResourceFromID(0).IsRPCResponse() {
		t.Error("resource id 0 is the response resource")
	}
	if ResourceFromID(0x8001).IsRPCMethod() {
		t.Error("topic-range ids do not address methods")
	}
}

func TestStructuralEquality(t *testing.T) {
	a := UUri{
		Authority: AuthorityName("vcu"),
		Entity:    EntityNamedVersion("body.access", 1),
		Resource:  ResourceNamed("door", "front_left", "Door"),
	}
	b := UUri{
		Authority: AuthorityName("vcu"),
		Entity:    EntityNamedVersion("body.access", 1),
		Resource:  ResourceNamed("door", "front_left", "Door"),
	}
	if !a.Equal(b) {
		t.Error("identical URIs should be equal")
	}
	b.Resource.Instance = "rear_left"
	if a.Equal(b) {
		t.Error("differing instance should break equality")
	}

	// IPv4 addresses compare equal across 4 and 16 byte spellings.
	x := UUri{Authority: AuthorityIP(net.IPv4(10, 0, 0, 1)), Entity: EntityFromID(1, 1), Resource: ResourceFromID(1)}
	y := UUri{Authority: AuthorityIP(net.IPv4(10, 0, 0, 1).To4()), Entity: EntityFromID(1, 1), Resource: ResourceFromID(1)}
	if !x.Equal(y) {
		t.Error("IPv4 spellings should compare equal")
	}
}

func TestIsResolved(t *testing.T) {
	resolved := UUri{
		Entity: Entity{Name: "body.access", ID: u16(0x2a), VersionMajor: u8(1)},
		Resource: Resource{
			Name: "door", Instance: "front_left", ID: u16(0x5),
		},
	}
	if !resolved.IsResolved() {
		t.Error("URI with names and ids should be resolved")
	}
	if !resolved.IsMicroForm() || !resolved.IsLongForm() {
		t.Error("resolved URI should be expressible in both forms")
	}

	nameOnly := UUri{Entity: EntityNamedVersion("body.access", 1)}
	if nameOnly.IsResolved() {
		t.Error("name-only URI is not resolved")
	}
}

func u16(v uint16) *uint16 { return &v }
func u8(v uint8) *uint8    { return &v }
