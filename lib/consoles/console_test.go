package consoles

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrintfWritesMessage(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	c := NewConsole(&out, false)

	c.Printf("Loading %v lines...\n", 10)

	assert.Contains(t, out.String(), "Loading 10 lines...")
}

func TestPrefixStack(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	c := NewConsole(&out, false)

	c.PushPrefix("export: ")
	c.PushPrefix("blame: ")
	c.Printf("a\n")
	assert.Contains(t, out.String(), "step=blame")

	out.Reset()
	c.PopPrefix()
	c.Printf("b\n")
	assert.Contains(t, out.String(), "step=export")

	out.Reset()
	c.PopPrefix()
	c.Printf("c\n")
	assert.NotContains(t, out.String(), "step=")
}

func TestDebugfOnlyWhenVerbose(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	NewConsole(&out, false).Debugf("hidden\n")
	assert.Empty(t, out.String())

	NewConsole(&out, true).Debugf("shown\n")
	assert.Contains(t, out.String(), "shown")
}
