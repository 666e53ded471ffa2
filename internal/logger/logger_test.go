package logger

import (
	"bytes"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
)

func captureOutput(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev, prevLevel := Output, log.GetLevel()
	Output = &buf
	log.SetLevel(log.DebugLevel)
	t.Cleanup(func() {
		Output = prev
		log.SetLevel(prevLevel)
	})
	return &buf
}

func TestBadgerLoggerTrimsNewline(t *testing.T) {
	buf := captureOutput(t)
	b := Badger()
	b.Warningf("value log %d full\n", 3)
	b.Infof("replaying\n")

	out := buf.String()
	assert.Contains(t, out, "badger")
	assert.Contains(t, out, "value log 3 full")
	assert.Contains(t, out, "replaying")
	assert.NotContains(t, out, "full\n\n")
}

func TestGinWriterSplitsLines(t *testing.T) {
	buf := captureOutput(t)
	w := Gin(log.InfoLevel)
	n, err := w.Write([]byte("GET /match 200\nGET /stats 200\n"))
	assert.NoError(t, err)
	assert.Equal(t, 30, n)
	assert.Contains(t, buf.String(), "GET /match 200")
	assert.Contains(t, buf.String(), "GET /stats 200")
}
