package uri

import (
	"encoding/hex"
	"net"
	"strconv"
	"strings"
)

// EncodeShort renders the URI in the compact short form:
//
//	["//" authority] "/" entity-id ["/" version ["/" resource-id]]
//
// Numeric fields are lowercase hex without leading zeros. The authority,
// if remote, is the literal IP address string or the hex spelling of the
// opaque id. URIs without a numeric entity id encode to "".
func EncodeShort(u UUri) string {
	if u.IsEmpty() || u.Entity.ID == nil {
		return ""
	}

	var sb strings.Builder
	if u.Authority.IsRemote() {
		switch {
		case len(u.Authority.IP) > 0:
			sb.WriteString("//")
			sb.WriteString(u.Authority.IP.String())
		case len(u.Authority.ID) > 0:
			sb.WriteString("//")
			sb.WriteString(hex.EncodeToString(u.Authority.ID))
		default:
			// A name-only authority has no short spelling.
			return ""
		}
	}

	sb.WriteByte('/')
	sb.WriteString(strconv.FormatUint(uint64(*u.Entity.ID), 16))

	if u.Entity.VersionMajor != nil || u.Resource.ID != nil {
		sb.WriteByte('/')
		if u.Entity.VersionMajor != nil {
			sb.WriteString(strconv.FormatUint(uint64(*u.Entity.VersionMajor), 16))
		}
	}
	if u.Resource.ID != nil {
		sb.WriteByte('/')
		sb.WriteString(strconv.FormatUint(uint64(*u.Resource.ID), 16))
	}
	return sb.String()
}

// DecodeShort parses a short-form URI string. Decoding is strict: a
// non-numeric token, a blank authority, a field exceeding its bit width,
// or surplus path segments all yield the empty UUri. Fewer-than-maximal
// segments are accepted with trailing fields absent.
func DecodeShort(s string) UUri {
	s = stripScheme(strings.TrimSpace(s))
	if s == "" {
		return Empty
	}

	var u UUri
	var segs []string

	if strings.HasPrefix(s, "//") {
		parts := strings.Split(s[2:], "/")
		if parts[0] == "" {
			return Empty
		}
		auth, ok := parseShortAuthority(parts[0])
		if !ok {
			return Empty
		}
		u.Authority = auth
		segs = parts[1:]
	} else if strings.HasPrefix(s, "/") {
		segs = strings.Split(s[1:], "/")
	} else {
		return Empty
	}

	if len(segs) > 3 {
		return Empty
	}
	if len(segs) == 0 || allBlank(segs) {
		if u.Authority.IsRemote() {
			return u
		}
		return Empty
	}

	id, ok := parseHex16(segs[0])
	if !ok {
		return Empty
	}
	u.Entity.ID = &id

	if len(segs) >= 2 && segs[1] != "" {
		v, err := strconv.ParseUint(segs[1], 16, 8)
		if err != nil {
			return Empty
		}
		version := uint8(v)
		u.Entity.VersionMajor = &version
	}

	if len(segs) == 3 && segs[2] != "" {
		rid, ok := parseHex16(segs[2])
		if !ok {
			return Empty
		}
		u.Resource.ID = &rid
	}
	return u
}

// parseShortAuthority accepts a literal IP address or a hex opaque id.
func parseShortAuthority(s string) (Authority, bool) {
	if ip := net.ParseIP(s); ip != nil {
		if ip4 := ip.To4(); ip4 != nil {
			return AuthorityIP(ip4), true
		}
		return AuthorityIP(ip), true
	}
	id, err := hex.DecodeString(s)
	if err != nil || len(id) == 0 || len(id) > MaxAuthorityIDLength {
		return Authority{}, false
	}
	return AuthorityFromID(id), true
}

func parseHex16(s string) (uint16, bool) {
	v, err := strconv.ParseUint(s, 16, 16)
	if err != nil {
		return 0, false
	}
	return uint16(v), true
}
