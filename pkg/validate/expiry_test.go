package validate

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ubus-protocol/ubus-go/pkg/id"
	"github.com/ubus-protocol/ubus-go/pkg/wire"
)

// v7At mints a UUIDv7 and overwrites its embedded timestamp so expiry
// can be tested against a fixed clock.
func v7At(t *testing.T, sent time.Time) uuid.UUID {
	t.Helper()
	u, err := uuid.NewV7()
	require.NoError(t, err)
	millis := sent.UnixMilli()
	u[0] = byte(millis >> 40)
	u[1] = byte(millis >> 32)
	u[2] = byte(millis >> 24)
	u[3] = byte(millis >> 16)
	u[4] = byte(millis >> 8)
	u[5] = byte(millis)
	return u
}

func TestIsExpired(t *testing.T) {
	now := time.Now()
	ttl := func(ms int32) *int32 { return &ms }

	tests := []struct {
		name  string
		attrs *wire.Attributes
		want  bool
	}{
		{
			"no ttl never expires",
			&wire.Attributes{ID: v7At(t, now.Add(-time.Hour))},
			false,
		},
		{
			"zero ttl never expires",
			&wire.Attributes{ID: v7At(t, now.Add(-time.Hour)), TTL: ttl(0)},
			false,
		},
		{
			"negative ttl never expires",
			&wire.Attributes{ID: v7At(t, now.Add(-time.Hour)), TTL: ttl(-1)},
			false,
		},
		{
			"within ttl",
			&wire.Attributes{ID: v7At(t, now.Add(-time.Second)), TTL: ttl(5000)},
			false,
		},
		{
			"past ttl",
			&wire.Attributes{ID: v7At(t, now.Add(-time.Minute)), TTL: ttl(1000)},
			true,
		},
		{
			"id without timestamp never expires",
			&wire.Attributes{ID: uuid.New(), TTL: ttl(1)},
			false,
		},
		{
			"nil id never expires",
			&wire.Attributes{TTL: ttl(1)},
			false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsExpired(tt.attrs, now))
		})
	}
}

func TestExpiryUsesEmbeddedTimestamp(t *testing.T) {
	sent := time.Now().Add(-10 * time.Second)
	u := v7At(t, sent)

	got, ok := id.Timestamp(u)
	require.True(t, ok)
	assert.WithinDuration(t, sent, got, time.Millisecond)

	ms := int32(5000)
	a := &wire.Attributes{ID: u, TTL: &ms}
	assert.True(t, IsExpired(a, time.Now()))
	assert.False(t, IsExpired(a, sent.Add(time.Second)))
}
