package logger

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorRecordCarriesContext(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("orders", "info", &buf)

	log.Error("checkout", "req-1", "failed to place orders", errors.New("disk full"), slog.Int("buckets", 2))

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "ERROR", rec["level"])
	assert.Equal(t, "orders", rec["service"])
	assert.Equal(t, "checkout", rec["action"])
	assert.Equal(t, "req-1", rec["request_id"])
	assert.Equal(t, "disk full", rec["error"])
	assert.EqualValues(t, 2, rec["buckets"])
}

func TestLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("orders", "warn", &buf)

	log.Info("cart", "", "added")
	assert.Zero(t, buf.Len())

	log.Warn("cart", "", "replaced")
	assert.NotZero(t, buf.Len())
}
