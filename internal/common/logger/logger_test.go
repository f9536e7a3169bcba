package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInitWithWriter_WritesServiceField(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter(&buf, "giveaway-tracker", false)

	Info().Str("channel_id", "42").Msg("scan finished")

	out := buf.String()
	assert.Contains(t, out, "scan finished")
	assert.Contains(t, out, "service:")
	assert.Contains(t, out, "giveaway-tracker")
	assert.Contains(t, out, "channel_id:")
}

func TestInitWithWriter_DebugLevel(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter(&buf, "svc", false)
	Debug().Msg("hidden")
	assert.NotContains(t, buf.String(), "hidden")

	buf.Reset()
	InitWithWriter(&buf, "svc", true)
	Debug().Msg("visible")
	assert.Contains(t, buf.String(), "visible")
}
