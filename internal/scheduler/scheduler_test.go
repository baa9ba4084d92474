package scheduler

import (
	"io"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingPruner struct {
	mu      sync.Mutex
	calls   int
	maxIdle time.Duration
}

func (c *countingPruner) Prune(maxIdle time.Duration) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	c.maxIdle = maxIdle
	return 1
}

func (c *countingPruner) Len() int { return 0 }

func (c *countingPruner) snapshot() (int, time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls, c.maxIdle
}

func TestStartMemoPruner(t *testing.T) {
	l := logrus.New()
	l.SetOutput(io.Discard)
	p := &countingPruner{}

	s, err := StartMemoPruner(l, p, 20*time.Millisecond, time.Minute)
	require.NoError(t, err)
	defer func() { _ = s.Shutdown() }()

	assert.Eventually(t, func() bool {
		n, _ := p.snapshot()
		return n >= 2
	}, 2*time.Second, 10*time.Millisecond)

	_, idle := p.snapshot()
	assert.Equal(t, time.Minute, idle)
	assert.Len(t, s.Jobs(), 1)
}

func TestStartMemoPruner_InvalidInterval(t *testing.T) {
	l := logrus.New()
	l.SetOutput(io.Discard)

	_, err := StartMemoPruner(l, &countingPruner{}, 0, time.Minute)
	assert.Error(t, err)
}
