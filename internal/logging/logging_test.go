package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_Verbose(t *testing.T) {
	var buf bytes.Buffer
	log := New(true, &buf)

	log.Debug("utm note", "match", "UTM Zone 43N")
	assert.Contains(t, buf.String(), "utm note")
}

func TestNew_Quiet(t *testing.T) {
	var buf bytes.Buffer
	log := New(false, &buf)

	log.Debug("hidden")
	log.Info("hidden too")
	log.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}
