package http

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiter_AgotaCuotaYSeRecupera(t *testing.T) {
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(3)
	rl.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		assert.True(t, rl.allow("1.1.1.1"), "intento %d", i+1)
	}
	assert.False(t, rl.allow("1.1.1.1"), "el cuarto intento dentro del minuto se rechaza")
	assert.True(t, rl.allow("2.2.2.2"), "otra IP tiene su propia cuota")

	now = now.Add(20 * time.Second)
	assert.True(t, rl.allow("1.1.1.1"), "a 3/min se repone un token cada 20s")
}

func TestRateLimiter_CleanupQuitaInactivos(t *testing.T) {
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(5)
	rl.now = func() time.Time { return now }

	rl.allow("1.1.1.1")
	now = now.Add(5 * time.Minute)
	rl.allow("2.2.2.2")
	now = now.Add(6 * time.Minute)

	assert.Equal(t, 1, rl.Cleanup())
	assert.Len(t, rl.limiters, 1)
	assert.Contains(t, rl.limiters, "2.2.2.2")
}
