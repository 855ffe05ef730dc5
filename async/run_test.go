package async

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRun(t *testing.T) {
	assert := assert.New(t)
	a := <-Run(func() int {
		return 123
	})
	assert.Equal(a, 123)
}

func TestForEach(t *testing.T) {
	assert := assert.New(t)
	var running, maxRunning int32
	seen := make([]bool, 20)
	var mu sync.Mutex

	err := ForEach(context.Background(), 3, len(seen), func(ctx context.Context, i int) {
		n := atomic.AddInt32(&running, 1)
		mu.Lock()
		if n > maxRunning {
			maxRunning = n
		}
		seen[i] = true
		mu.Unlock()
		time.Sleep(5 * time.Millisecond)
		atomic.AddInt32(&running, -1)
	})
	assert.NoError(err)
	assert.LessOrEqual(maxRunning, int32(3))
	for i, ok := range seen {
		assert.True(ok, i)
	}
}

func TestForEachCancelled(t *testing.T) {
	assert := assert.New(t)
	ctx, cancel := context.WithCancel(context.Background())
	var calls int32

	err := ForEach(ctx, 1, 10, func(ctx context.Context, i int) {
		if atomic.AddInt32(&calls, 1) == 2 {
			cancel()
		}
	})
	assert.ErrorIs(err, context.Canceled)
	assert.Equal(int32(2), atomic.LoadInt32(&calls))
}
