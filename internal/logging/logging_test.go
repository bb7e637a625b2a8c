package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetLogLevel(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error", "INFO", ""} {
		assert.NoError(t, SetLogLevel(level), level)
	}
	assert.Error(t, SetLogLevel("verbose"))
	require.NoError(t, SetLogLevel("info"))
}

func TestNew_WritesToOutput(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(nil)
	require.NoError(t, SetLogLevel("info"))

	log := New("test")
	log.Infow("scan admitted", "text", "ABC")
	log.Debugw("hidden")

	out := buf.String()
	assert.Contains(t, out, "scan admitted")
	assert.Contains(t, out, "text")
	assert.NotContains(t, out, "hidden")
}
