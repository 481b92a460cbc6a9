package progress

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBars_Start(t *testing.T) {
	var buf bytes.Buffer
	bars := New(&buf)

	tracker := bars.Start("org/repo", 2)
	tracker.Increment()
	tracker.Increment()
	tracker.Finish()

	assert.Contains(t, buf.String(), "org/repo")
	assert.Contains(t, buf.String(), "2/2")
}

func TestBars_StartEmpty(t *testing.T) {
	var buf bytes.Buffer

	tracker := New(&buf).Start("org/repo", 0)
	tracker.Increment()
	tracker.Finish()

	assert.Empty(t, buf.String())
}
