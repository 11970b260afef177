package uri

import (
	"encoding/binary"
	"net"
)

// Micro form layout constants.
const (
	// MicroVersion is the format version tag in byte 0.
	MicroVersion byte = 1

	// microHeaderLength covers version, address type, resource id,
	// entity id, entity version and the reserved byte.
	microHeaderLength = 8
)

// EncodeMicro renders the URI in the fixed binary micro form:
//
//	byte 0    format version (1)
//	byte 1    address type (0 local, 1 IPv4, 2 IPv6, 3 opaque id)
//	bytes 2-3 resource id, big endian
//	bytes 4-5 entity id, big endian
//	byte 6    entity version major
//	byte 7    reserved
//	bytes 8+  authority payload: none, 4 bytes, 16 bytes, or
//	          one length byte followed by 1-255 id bytes
//
// Returns nil whenever the URI is not micro-encodable.
func EncodeMicro(u UUri) []byte {
	if !u.IsMicroForm() {
		return nil
	}
	addrType, _ := u.Authority.Type()

	buf := make([]byte, microHeaderLength, microHeaderLength+net.IPv6len)
	buf[0] = MicroVersion
	buf[1] = byte(addrType)
	binary.BigEndian.PutUint16(buf[2:4], *u.Resource.ID)
	binary.BigEndian.PutUint16(buf[4:6], *u.Entity.ID)
	buf[6] = *u.Entity.VersionMajor
	// buf[7] reserved, zero

	switch addrType {
	case AuthorityIPv4:
		buf = append(buf, u.Authority.IP.To4()...)
	case AuthorityIPv6:
		buf = append(buf, u.Authority.IP.To16()...)
	case AuthorityID:
		buf = append(buf, byte(len(u.Authority.ID)))
		buf = append(buf, u.Authority.ID...)
	}
	return buf
}

// DecodeMicro parses micro-form bytes. An unknown version tag, an unknown
// address type, or any total-length mismatch yields the empty UUri; the
// decoder never produces a partial parse.
func DecodeMicro(data []byte) UUri {
	if len(data) < microHeaderLength {
		return Empty
	}
	if data[0] != MicroVersion {
		return Empty
	}

	addrType := AuthorityType(data[1])
	var authority Authority
	payload := data[microHeaderLength:]

	switch addrType {
	case AuthorityLocal:
		if len(payload) != 0 {
			return Empty
		}
	case AuthorityIPv4:
		if len(payload) != net.IPv4len {
			return Empty
		}
		authority = AuthorityIP(net.IP(append([]byte(nil), payload...)))
	case AuthorityIPv6:
		if len(payload) != net.IPv6len {
			return Empty
		}
		authority = AuthorityIP(net.IP(append([]byte(nil), payload...)))
	case AuthorityID:
		if len(payload) < 2 {
			return Empty
		}
		n := int(payload[0])
		if n == 0 || len(payload) != 1+n {
			return Empty
		}
		authority = AuthorityFromID(append([]byte(nil), payload[1:]...))
	default:
		return Empty
	}

	resourceID := binary.BigEndian.Uint16(data[2:4])
	entityID := binary.BigEndian.Uint16(data[4:6])
	version := data[6]

	return UUri{
		Authority: authority,
		Entity:    EntityFromID(entityID, version),
		Resource:  ResourceFromID(resourceID),
	}
}
