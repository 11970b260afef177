package validate

import (
	"time"

	"github.com/ubus-protocol/ubus-go/pkg/id"
	"github.com/ubus-protocol/ubus-go/pkg/wire"
)

// IsExpired reports whether the message's TTL has elapsed at the given
// time. It is a delivery predicate, not a validation rule: an absent or
// non-positive TTL means "never expires", and an id without an embedded
// timestamp yields false as well. Absence of information is defined to
// mean "not expired", never an error.
func IsExpired(a *wire.Attributes, now time.Time) bool {
	ttl, ok := a.TTLMillis()
	if !ok || ttl <= 0 {
		return false
	}
	sent, ok := id.Timestamp(a.ID)
	if !ok {
		return false
	}
	return sent.Add(time.Duration(ttl) * time.Millisecond).Before(now)
}
