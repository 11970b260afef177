package uri

import (
	"strconv"
	"strings"
)

// EncodeLong renders the URI in the human-readable long form:
//
//	["//" authority] "/" entity-name ["/" version ["/" resource]]
//
// where resource is name["."instance]["#"message], or rpc.<method> for
// RPC methods and rpc.response for the response resource. URIs whose
// entity has no name cannot be expressed and encode to "".
func EncodeLong(u UUri) string {
	if u.IsEmpty() {
		return ""
	}
	if u.Authority.IsRemote() && u.Authority.Name == "" {
		return ""
	}
	if !u.Entity.IsLongForm() {
		// Authority-only URIs are still expressible.
		if u.Authority.Name != "" && u.Entity.IsEmpty() && u.Resource.IsEmpty() {
			return "//" + u.Authority.Name
		}
		return ""
	}

	var sb strings.Builder
	if u.Authority.IsRemote() {
		sb.WriteString("//")
		sb.WriteString(u.Authority.Name)
	}
	sb.WriteByte('/')
	sb.WriteString(u.Entity.Name)

	res := longResource(u.Resource)
	if u.Entity.VersionMajor != nil || res != "" {
		sb.WriteByte('/')
		if u.Entity.VersionMajor != nil {
			sb.WriteString(strconv.FormatUint(uint64(*u.Entity.VersionMajor), 10))
		}
	}
	if res != "" {
		sb.WriteByte('/')
		sb.WriteString(res)
	}
	return sb.String()
}

func longResource(r Resource) string {
	if r.Name == "" {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(r.Name)
	if r.Instance != "" {
		sb.WriteByte('.')
		sb.WriteString(r.Instance)
	}
	if r.Message != "" {
		sb.WriteByte('#')
		sb.WriteString(r.Message)
	}
	return sb.String()
}

// DecodeLong parses a long-form URI string. Any scheme prefix before the
// first path separator is accepted and discarded. Malformed input yields
// the empty UUri, never an error.
func DecodeLong(s string) UUri {
	s = stripScheme(strings.TrimSpace(s))
	if s == "" {
		return Empty
	}

	var u UUri
	var segs []string

	if strings.HasPrefix(s, "//") {
		// Remote form: //authority[/entity[/version[/resource]]]
		rest := s[2:]
		parts := strings.Split(rest, "/")
		if parts[0] == "" {
			return Empty
		}
		u.Authority = AuthorityName(parts[0])
		segs = parts[1:]
	} else if strings.HasPrefix(s, "/") {
		segs = strings.Split(s[1:], "/")
	} else {
		return Empty
	}

	if len(segs) > 3 {
		return Empty
	}
	if len(segs) == 0 || segs[0] == "" {
		// Authority-only URIs are legal ("//vcu.example").
		if u.Authority.IsRemote() && (len(segs) == 0 || allBlank(segs)) {
			return u
		}
		return Empty
	}

	u.Entity.Name = segs[0]

	if len(segs) >= 2 && segs[1] != "" {
		v, err := strconv.ParseUint(segs[1], 10, 8)
		if err != nil {
			return Empty
		}
		version := uint8(v)
		u.Entity.VersionMajor = &version
	}

	if len(segs) == 3 && segs[2] != "" {
		res, ok := parseLongResource(segs[2])
		if !ok {
			return Empty
		}
		u.Resource = res
	}
	return u
}

// parseLongResource splits name["."instance]["#"message]. The reserved
// rpc.response spelling additionally pins the numeric response id.
func parseLongResource(s string) (Resource, bool) {
	var r Resource
	if hash := strings.Index(s, "#"); hash >= 0 {
		r.Message = s[hash+1:]
		s = s[:hash]
	}
	if s == "" {
		return Resource{}, false
	}
	if dot := strings.Index(s, "."); dot >= 0 {
		r.Name = s[:dot]
		r.Instance = s[dot+1:]
	} else {
		r.Name = s
	}
	if r.Name == rpcName && r.Instance == "response" {
		id := ResponseID
		r.ID = &id
	}
	return r, true
}

// stripScheme drops a leading "scheme:" token, tolerating any scheme
// name. Only text before the first path separator is considered.
func stripScheme(s string) string {
	colon := strings.Index(s, ":")
	if colon < 0 {
		return s
	}
	slash := strings.Index(s, "/")
	if slash >= 0 && slash < colon {
		return s
	}
	return s[colon+1:]
}

func allBlank(segs []string) bool {
	for _, s := range segs {
		if s != "" {
			return false
		}
	}
	return true
}
