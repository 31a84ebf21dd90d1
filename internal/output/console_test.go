package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConsoleLevels(t *testing.T) {
	var out, errOut bytes.Buffer
	c := NewConsole(WithWriter(&out), WithErrWriter(&errOut), WithNoColor(true))

	c.Info("HTTP Verb: %s", "POST")
	c.Success("Done. Response written to %s", "response.txt")
	c.Warn("No authentication configured")
	c.Debug("hidden")
	c.Error("HTTP Verb is not valid")

	assert.Equal(t, "HTTP Verb: POST\nDone. Response written to response.txt\nNo authentication configured\n", out.String())
	assert.Equal(t, "HTTP Verb is not valid\n", errOut.String())
}

func TestConsoleVerboseDebug(t *testing.T) {
	var out bytes.Buffer
	c := NewConsole(WithWriter(&out), WithVerbose(true), WithNoColor(true))

	c.Debug("run id %s", "01ABC")
	assert.True(t, c.Verbose())
	assert.Equal(t, "run id 01ABC\n", out.String())
}

func TestNilConsoleIsSilent(t *testing.T) {
	var c *Console
	assert.NotPanics(t, func() {
		c.Info("x")
		c.Success("x")
		c.Warn("x")
		c.Error("x")
		c.Debug("x")
	})
	assert.False(t, c.Verbose())
}
