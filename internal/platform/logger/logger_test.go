package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedaction(t *testing.T) {
	log, logs := NewObserved()

	log.Info("login", "password", "hunter2", "recipient", "+15550001111", "status", "ok")

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()

	assert.Equal(t, "[REDACTED]", fields["password"])
	assert.Equal(t, "ok", fields["status"])
	hashed, ok := fields["recipient"].(string)
	require.True(t, ok)
	assert.Contains(t, hashed, "hash:")
	assert.NotContains(t, hashed, "5550001111")
}

func TestRedactionCarriesThroughWith(t *testing.T) {
	log, logs := NewObserved()

	log.With("api_key", "SG.abc").Warn("retrying")

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "[REDACTED]", entries[0].ContextMap()["api_key"])
}

func TestJWTLookingValuesAreRedacted(t *testing.T) {
	log, logs := NewObserved()

	log.Debug("parsed", "value", "eyJhbGciOiJIUzI1NiJ9.eyJzdWIiOiIxMjM0NTY3ODkwIn0.sig")

	require.Len(t, logs.All(), 1)
	assert.Equal(t, "[REDACTED]", logs.All()[0].ContextMap()["value"])
}
