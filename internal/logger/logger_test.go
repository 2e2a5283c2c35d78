package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProdLogsJSONAtInfo(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("prod", &buf)
	log.Debug("hidden")
	log.Info("store ready", "mode", "memory")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "store ready", line["msg"])
	assert.Equal(t, "memory", line["mode"])
	assert.Equal(t, "finflow", line["service"])
	assert.NotContains(t, buf.String(), "hidden")
}

func TestDevLogsTextAtDebug(t *testing.T) {
	var buf bytes.Buffer
	NewWithWriter("dev", &buf).Debug("listing", "page", 2)
	assert.Contains(t, buf.String(), "level=DEBUG")
	assert.Contains(t, buf.String(), "page=2")
}
