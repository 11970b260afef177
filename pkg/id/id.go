// Package id mints and inspects the time-ordered unique ids used as
// message and correlation ids. The production generator emits UUIDv7,
// whose leading 48 bits carry the creation time in Unix milliseconds;
// that timestamp doubles as the implicit send time of a message.
package id

import (
	"time"

	"github.com/google/uuid"
)

// Generator mints correlation ids and extracts their embedded send
// timestamp. Implementations must be safe for concurrent use.
type Generator interface {
	// New returns a fresh id, time-ordered and globally unique with
	// overwhelming probability.
	New() uuid.UUID

	// Timestamp extracts the creation time embedded in the id. It
	// reports ok=false for ids that are not time-ordered or malformed;
	// absence of a timestamp is never an error.
	Timestamp(u uuid.UUID) (time.Time, bool)
}

// V7Generator is the production Generator backed by UUIDv7.
type V7Generator struct{}

// NewV7Generator returns the production UUIDv7 generator.
func NewV7Generator() V7Generator { return V7Generator{} }

// New mints a UUIDv7. On entropy exhaustion it returns uuid.Nil, which
// downstream validation rejects.
func (V7Generator) New() uuid.UUID {
	u, err := uuid.NewV7()
	if err != nil {
		return uuid.Nil
	}
	return u
}

// Timestamp implements Generator using the package-level Timestamp.
func (V7Generator) Timestamp(u uuid.UUID) (time.Time, bool) {
	return Timestamp(u)
}

// Timestamp extracts the Unix-millisecond creation time from a UUIDv7.
// Non-v7 ids, including uuid.Nil, yield ok=false.
func Timestamp(u uuid.UUID) (time.Time, bool) {
	if u == uuid.Nil || u.Version() != 7 {
		return time.Time{}, false
	}
	millis := int64(u[0])<<40 | int64(u[1])<<32 | int64(u[2])<<24 |
		int64(u[3])<<16 | int64(u[4])<<8 | int64(u[5])
	return time.UnixMilli(millis), true
}

// Compile-time interface satisfaction check.
var _ Generator = V7Generator{}
