package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "DB_PATH", "TRAP_PENALTY", "JWT_EXPIRES_DAYS", "NODE_ENV"} {
		t.Setenv(k, "")
	}
	c := Load()
	assert.Equal(t, "5175", c.Port)
	assert.Equal(t, "./data/gollmf.db", c.DatabasePath)
	assert.Equal(t, 0, c.TrapPenalty)
	assert.Equal(t, 14*24*time.Hour, c.JWTTTL)
	assert.False(t, c.Production)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("TRAP_PENALTY", "2")
	t.Setenv("JWT_EXPIRES_DAYS", "1")
	t.Setenv("RATE_LIMIT_RPS", "not-a-number")
	t.Setenv("NODE_ENV", "production")

	c := Load()
	assert.Equal(t, "9000", c.Port)
	assert.Equal(t, 2, c.TrapPenalty)
	assert.Equal(t, 24*time.Hour, c.JWTTTL)
	assert.Equal(t, 10, c.RateLimitRPS)
	assert.True(t, c.Production)
}
