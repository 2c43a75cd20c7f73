package queue

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestUnboundedNeverBlocksProducer(t *testing.T) {
	q := NewUnbounded[int]()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 1000; i++ {
			q.In() <- i
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("producer blocked without a consumer")
	}

	assert.Eventually(t, func() bool { return q.Len() == 1000 }, time.Second, time.Millisecond)

	for i := 0; i < 1000; i++ {
		assert.Equal(t, i, <-q.Out())
	}
	assert.Eventually(t, func() bool { return q.Len() == 0 }, time.Second, time.Millisecond)
}

func TestUnboundedDrainsOnClose(t *testing.T) {
	q := NewUnbounded[string]()

	q.In() <- "a"
	q.In() <- "b"
	q.Close()

	got := []string{}
	for v := range q.Out() {
		got = append(got, v)
	}

	assert.Equal(t, []string{"a", "b"}, got)
}
