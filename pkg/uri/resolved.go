package uri

// Resolve merges the long form of an address, which carries the
// human-readable names, with its micro form, which carries the
// authoritative numeric ids, into one fully-populated UUri.
//
// If either input is absent or unparseable the merge degrades to the
// empty UUri rather than failing partially.
func Resolve(long string, micro []byte) UUri {
	named := DecodeLong(long)
	numeric := DecodeMicro(micro)
	if named.IsEmpty() || numeric.IsEmpty() {
		return Empty
	}

	merged := UUri{
		Authority: Authority{
			Name: named.Authority.Name,
			IP:   numeric.Authority.IP,
			ID:   numeric.Authority.ID,
		},
		Entity: Entity{
			Name:         named.Entity.Name,
			ID:           numeric.Entity.ID,
			VersionMajor: numeric.Entity.VersionMajor,
		},
		Resource: Resource{
			Name:     named.Resource.Name,
			Instance: named.Resource.Instance,
			Message:  named.Resource.Message,
			ID:       numeric.Resource.ID,
		},
	}

	// The long form may carry its own version; the micro form wins, but
	// a disagreement marks the pair as unusable.
	if named.Entity.VersionMajor != nil && numeric.Entity.VersionMajor != nil &&
		*named.Entity.VersionMajor != *numeric.Entity.VersionMajor {
		return Empty
	}
	return merged
}
