package console

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, false)

	log.Info("reading input")
	log.Warn("root is an array")
	log.Error("invalid JSON")
	log.Debug("hidden %d", 1)

	assert.Equal(t, "[info] reading input\n[warn] root is an array\n[error] invalid JSON\n", buf.String())
	assert.False(t, log.DebugEnabled())
}

func TestLogger_Debug(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, true)

	log.Debug("extracted %d classes", 3)
	assert.Equal(t, "[debug] extracted 3 classes\n", buf.String())
}

func TestLogger_Dump(t *testing.T) {
	type class struct {
		Name   string
		Fields []string
	}

	var buf bytes.Buffer
	New(&buf, true).Dump("classes", []class{{Name: "Poxo", Fields: []string{"A"}}})

	out := buf.String()
	assert.Contains(t, out, "[debug] classes:\n")
	assert.Contains(t, out, `Name: (string) (len=4) "Poxo"`)
	assert.NotContains(t, out, "cap=")

	buf.Reset()
	New(&buf, false).Dump("classes", 1)
	assert.Empty(t, buf.String())
}

func TestLogger_NilWriter(t *testing.T) {
	assert.NotPanics(t, func() {
		New(nil, true).Error("nowhere")
	})
}
