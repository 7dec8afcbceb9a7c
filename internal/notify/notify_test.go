package notify

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestWriter(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)

	w.Notify(Error("boom"))
	w.Notify(Success("done"))

	assert.Equal(t, "✗ boom\n✓ done\n", buf.String())
}

func TestQueue_DrainAndBound(t *testing.T) {
	q := NewQueue(2, zerolog.Nop())
	assert.Empty(t, q.Drain())

	q.Notify(Error("a"))
	q.Notify(Error("b"))
	q.Notify(Error("c"))

	items := q.Drain()
	if assert.Len(t, items, 2) {
		assert.Equal(t, "b", items[0].Message)
		assert.Equal(t, "c", items[1].Message)
	}
	assert.Empty(t, q.Drain())
}
