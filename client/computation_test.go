package client

import (
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsubakinoniwa/nfschecker/fsserver"
	"github.com/tsubakinoniwa/nfschecker/nfsproto"
	"github.com/tsubakinoniwa/nfschecker/request"
)

func TestComputationPrimeAndResume(t *testing.T) {
	c := Start(func(yield Yielder) interface{} {
		reply := yield(request.GetAttr(nfsproto.RootHandle().Child("foo.txt")))
		return reply.Status.IsOK()
	})

	step := c.Prime()
	require.False(t, step.Done)
	assert.Equal(t, request.GetAttr(nfsproto.RootHandle().Child("foo.txt")), step.Request)

	step = c.Resume(fsserver.Reply{Status: 0})
	require.True(t, step.Done)
	assert.Equal(t, true, step.Value)
	c.Close()
}

func TestComputationDoneWithoutYielding(t *testing.T) {
	c := Start(func(yield Yielder) interface{} {
		return "no suspension points here"
	})
	step := c.Prime()
	require.True(t, step.Done)
	assert.Equal(t, "no suspension points here", step.Value)
	c.Close()
}

// goroutineCount waits briefly for the runtime to settle and returns the
// current goroutine count, the way a leak regression test has to since
// a cancelled goroutine's exit isn't synchronously observable from here.
func goroutineCount(t *testing.T) int {
	t.Helper()
	runtime.Gosched()
	time.Sleep(10 * time.Millisecond)
	return runtime.NumGoroutine()
}

func TestComputationCloseUnblocksSuspendedGoroutine(t *testing.T) {
	before := goroutineCount(t)

	const n = 20
	computations := make([]*Computation, n)
	for i := range computations {
		computations[i] = Start(func(yield Yielder) interface{} {
			// Yields once and then blocks waiting for a reply that this
			// test never sends, exactly the state a DFS node's
			// replayState leaves an unresumed process in.
			yield(request.GetAttr(nfsproto.RootHandle().Child("foo.txt")))
			return nil
		})
		computations[i].Prime()
	}

	during := goroutineCount(t)
	assert.GreaterOrEqual(t, during, before+n,
		"expected one goroutine per suspended computation while they're alive")

	for _, c := range computations {
		c.Close()
	}

	after := goroutineCount(t)
	assert.Less(t, after, during,
		"Close must let every suspended computation's goroutine exit")
	assert.InDelta(t, before, after, float64(n),
		"goroutine count should return close to baseline once all computations are closed")
}

func TestComputationCloseAfterCompletionIsNoop(t *testing.T) {
	c := Start(func(yield Yielder) interface{} {
		return 42
	})
	step := c.Prime()
	require.True(t, step.Done)

	assert.NotPanics(t, func() {
		c.Close()
		c.Close()
	})
}
