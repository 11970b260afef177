package uri

import (
	"bytes"
	"net"
)

// Wildcard sentinels. The all-ones value of a field is reserved for
// matching and never identifies a real entity or resource.
const (
	WildcardID      uint16 = 0xFFFF
	WildcardVersion uint8  = 0xFF
)

// MaxAuthorityIDLength is the largest opaque authority id that fits the
// micro form's single length byte.
const MaxAuthorityIDLength = 255

// IsWildcardID reports whether a 16-bit field carries the wildcard sentinel.
func IsWildcardID(id uint16) bool { return id == WildcardID }

// IsWildcardVersion reports whether a version field carries the wildcard sentinel.
func IsWildcardVersion(v uint8) bool { return v == WildcardVersion }

// AuthorityType discriminates the micro-form address payload.
type AuthorityType uint8

const (
	// AuthorityLocal means the address is scoped to the local transport.
	AuthorityLocal AuthorityType = 0

	// AuthorityIPv4 is a remote authority with a 4-byte address.
	AuthorityIPv4 AuthorityType = 1

	// AuthorityIPv6 is a remote authority with a 16-byte address.
	AuthorityIPv6 AuthorityType = 2

	// AuthorityID is a remote authority with an opaque 1-255 byte id.
	AuthorityID AuthorityType = 3
)

// String returns the authority type name.
func (t AuthorityType) String() string {
	switch t {
	case AuthorityLocal:
		return "LOCAL"
	case AuthorityIPv4:
		return "IPV4"
	case AuthorityIPv6:
		return "IPV6"
	case AuthorityID:
		return "ID"
	default:
		return "UNKNOWN"
	}
}

// Authority identifies where an entity is deployed. The zero value means
// "local transport default". A remote authority carries a host name, an
// IP address, an opaque id, or any combination once resolved.
type Authority struct {
	// Name is the human-readable host name, if known.
	Name string

	// IP is a 4-byte or 16-byte address, if resolved.
	IP net.IP

	// ID is an opaque 1-255 byte blob, if resolved.
	ID []byte
}

// AuthorityName builds a named remote authority.
func AuthorityName(name string) Authority {
	return Authority{Name: name}
}

// AuthorityIP builds a remote authority from an IP address.
func AuthorityIP(ip net.IP) Authority {
	return Authority{IP: ip}
}

// AuthorityFromID builds a remote authority from an opaque id.
func AuthorityFromID(id []byte) Authority {
	return Authority{ID: id}
}

// IsEmpty reports whether the authority is the local default.
func (a Authority) IsEmpty() bool {
	return a.Name == "" && len(a.IP) == 0 && len(a.ID) == 0
}

// IsRemote reports whether the authority references another host.
func (a Authority) IsRemote() bool { return !a.IsEmpty() }

// Type returns the micro-form discriminator for this authority.
// A remote authority that carries neither an IP nor an id has no
// micro representation and reports AuthorityLocal plus ok=false.
func (a Authority) Type() (AuthorityType, bool) {
	switch {
	case a.IsEmpty():
		return AuthorityLocal, true
	case len(a.IP) == net.IPv4len:
		return AuthorityIPv4, true
	case len(a.IP) == net.IPv6len:
		if ip4 := a.IP.To4(); ip4 != nil {
			return AuthorityIPv4, true
		}
		return AuthorityIPv6, true
	case len(a.ID) >= 1 && len(a.ID) <= MaxAuthorityIDLength:
		return AuthorityID, true
	default:
		return AuthorityLocal, false
	}
}

// IsMicroForm reports whether the authority can appear in a micro URI.
func (a Authority) IsMicroForm() bool {
	_, ok := a.Type()
	return ok
}

// Equal reports structural equality.
func (a Authority) Equal(b Authority) bool {
	return a.Name == b.Name && a.IP.Equal(b.IP) && bytes.Equal(a.ID, b.ID)
}

// Entity identifies the software entity (service) being addressed.
// An entity is named, numbered, or both; the micro form requires the
// numeric id and major version.
type Entity struct {
	// Name is the entity name used by the long form.
	Name string

	// ID is the numeric entity id used by the short and micro forms.
	ID *uint16

	// VersionMajor is the entity's major version.
	VersionMajor *uint8
}

// EntityNamed builds a name-only entity.
func EntityNamed(name string) Entity {
	return Entity{Name: name}
}

// EntityNamedVersion builds a named entity with a major version.
func EntityNamedVersion(name string, version uint8) Entity {
	return Entity{Name: name, VersionMajor: &version}
}

// EntityFromID builds a numeric entity as required by the micro form.
func EntityFromID(id uint16, version uint8) Entity {
	return Entity{ID: &id, VersionMajor: &version}
}

// IsEmpty reports whether the entity carries no addressing information.
func (e Entity) IsEmpty() bool {
	return e.Name == "" && e.ID == nil && e.VersionMajor == nil
}

// IsMicroForm reports whether the entity can appear in a micro URI.
func (e Entity) IsMicroForm() bool {
	return e.ID != nil && e.VersionMajor != nil
}

// IsLongForm reports whether the entity can appear in a long URI.
func (e Entity) IsLongForm() bool { return e.Name != "" }

// Equal reports structural equality.
func (e Entity) Equal(o Entity) bool {
	return e.Name == o.Name && eqU16(e.ID, o.ID) && eqU8(e.VersionMajor, o.VersionMajor)
}

// Resource identifies the topic or method within an entity.
// RPC methods use the reserved name "rpc" with the method as instance;
// resource id 0 is the implicit RPC response resource.
type Resource struct {
	// Name is the resource (topic) name.
	Name string

	// Instance qualifies the name ("door" -> "door.front_left").
	Instance string

	// Message is the protobuf-ish message type name carried after '#'.
	Message string

	// ID is the numeric resource id used by the short and micro forms.
	ID *uint16
}

// rpcName is the reserved resource name for RPC addressing.
const rpcName = "rpc"

// ResponseID is the reserved resource id of the RPC response resource.
const ResponseID uint16 = 0

// minTopicID is the first resource id outside the RPC method range.
// Ids 1..0x7FFF address methods; 0x8000 and above address topics.
const minTopicID uint16 = 0x8000

// ResourceNamed builds a topic resource from its name parts. Instance
// and message may be empty.
func ResourceNamed(name, instance, message string) Resource {
	return Resource{Name: name, Instance: instance, Message: message}
}

// ResourceFromID builds a numeric resource as required by the micro form.
func ResourceFromID(id uint16) Resource {
	return Resource{ID: &id}
}

// RPCMethod builds the resource addressing an RPC method by name.
func RPCMethod(method string) Resource {
	return Resource{Name: rpcName, Instance: method}
}

// RPCMethodFromID builds the resource addressing an RPC method by id.
func RPCMethodFromID(id uint16) Resource {
	return Resource{Name: rpcName, ID: &id}
}

// RPCResponse builds the reserved RPC response resource.
func RPCResponse() Resource {
	id := ResponseID
	return Resource{Name: rpcName, Instance: "response", ID: &id}
}

// IsEmpty reports whether the resource carries no addressing information.
func (r Resource) IsEmpty() bool {
	return r.Name == "" && r.Instance == "" && r.Message == "" && r.ID == nil
}

// IsMicroForm reports whether the resource can appear in a micro URI.
func (r Resource) IsMicroForm() bool { return r.ID != nil }

// IsLongForm reports whether the resource can appear in a long URI.
func (r Resource) IsLongForm() bool { return r.Name != "" }

// IsRPCMethod reports whether the resource addresses a callable method.
func (r Resource) IsRPCMethod() bool {
	if r.Name == rpcName && r.Instance != "" && r.Instance != "response" {
		return true
	}
	return r.ID != nil && *r.ID > ResponseID && *r.ID < minTopicID && !r.isResponseShape()
}

// IsRPCResponse reports whether this is the reserved response resource.
func (r Resource) IsRPCResponse() bool {
	if r.isResponseShape() {
		return true
	}
	return r.ID != nil && *r.ID == ResponseID
}

func (r Resource) isResponseShape() bool {
	return r.Name == rpcName && r.Instance == "response"
}

// Equal reports structural equality.
func (r Resource) Equal(o Resource) bool {
	return r.Name == o.Name && r.Instance == o.Instance &&
		r.Message == o.Message && eqU16(r.ID, o.ID)
}

// UUri is the full protocol address: authority + entity + resource.
// The zero value is the empty, unaddressable URI.
type UUri struct {
	Authority Authority
	Entity    Entity
	Resource  Resource
}

// New assembles a UUri from its three parts.
func New(a Authority, e Entity, r Resource) UUri {
	return UUri{Authority: a, Entity: e, Resource: r}
}

// Empty is the unaddressable URI returned by failed decodes.
var Empty = UUri{}

// IsEmpty reports whether every part of the URI is absent.
func (u UUri) IsEmpty() bool {
	return u.Authority.IsEmpty() && u.Entity.IsEmpty() && u.Resource.IsEmpty()
}

// IsLocal reports whether the URI is scoped to the local transport.
func (u UUri) IsLocal() bool { return u.Authority.IsEmpty() }

// IsMicroForm reports whether the URI can be encoded in the micro form:
// numeric entity id and version, numeric resource id, and an authority
// representable as an IP address or opaque id.
func (u UUri) IsMicroForm() bool {
	return u.Entity.IsMicroForm() && u.Resource.IsMicroForm() && u.Authority.IsMicroForm()
}

// IsLongForm reports whether the URI can round-trip through the long form.
func (u UUri) IsLongForm() bool {
	if !u.Entity.IsLongForm() {
		return false
	}
	if u.Authority.IsRemote() && u.Authority.Name == "" {
		return false
	}
	return u.Resource.IsEmpty() || u.Resource.IsLongForm()
}

// IsResolved reports whether both the name and numeric addressing of the
// entity and resource are populated.
func (u UUri) IsResolved() bool {
	return u.IsMicroForm() && u.Entity.IsLongForm() &&
		(u.Resource.IsEmpty() || u.Resource.IsLongForm())
}

// HasWildcard reports whether any numeric field carries a wildcard sentinel.
func (u UUri) HasWildcard() bool {
	if u.Entity.ID != nil && IsWildcardID(*u.Entity.ID) {
		return true
	}
	if u.Entity.VersionMajor != nil && IsWildcardVersion(*u.Entity.VersionMajor) {
		return true
	}
	if u.Resource.ID != nil && IsWildcardID(*u.Resource.ID) {
		return true
	}
	return false
}

// Equal reports structural equality.
func (u UUri) Equal(o UUri) bool {
	return u.Authority.Equal(o.Authority) && u.Entity.Equal(o.Entity) &&
		u.Resource.Equal(o.Resource)
}

func eqU16(a, b *uint16) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func eqU8(a, b *uint8) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
