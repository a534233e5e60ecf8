package snapshot

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQueue_PushAndDrain(t *testing.T) {
	q := NewQueue[int](8)

	q.Push(1)
	q.Push(2)
	q.Push(3)
	assert.Equal(t, 3, q.Len())

	assert.Equal(t, []int{1, 2}, q.TryDrain(2))
	assert.Equal(t, []int{3}, q.TryDrain(2))
	assert.Empty(t, q.TryDrain(2))
}

func TestQueue_ConcurrentProducers(t *testing.T) {
	q := NewQueue[int](256)

	var wg sync.WaitGroup
	for p := 0; p < 4; p++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				q.Push(i)
			}
		}()
	}
	wg.Wait()

	total := 0
	for {
		batch := q.TryDrain(64)
		if len(batch) == 0 {
			break
		}
		total += len(batch)
	}
	assert.Equal(t, 200, total)
}

func TestQueue_PushBlocksWhenFull(t *testing.T) {
	q := NewQueue[int](1)
	q.Push(1)

	done := make(chan struct{})
	go func() {
		q.Push(2)
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("push should block on a full queue")
	default:
	}

	assert.Equal(t, []int{1}, q.TryDrain(1))
	<-done
	assert.Equal(t, []int{2}, q.TryDrain(1))
}
