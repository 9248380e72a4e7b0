// Package client implements the client-side file-system façade as a
// restartable suspending computation, grounded on client_filesys.py's
// generator-based operations. Go has neither native generators nor
// yield-from, so this package emulates a coroutine with a goroutine
// paired with two unbuffered channels: one carrying the Request the
// computation yields, one carrying the server's reply back in. Exactly
// one side of the pair is ever runnable at a time, which is what keeps
// replay deterministic.
package client

import (
	"sync"

	"github.com/tsubakinoniwa/nfschecker/fsserver"
	"github.com/tsubakinoniwa/nfschecker/request"
)

// Yielder is handed to a client program's body; calling it suspends the
// computation, emitting req, and returns once the scheduler resumes with
// a reply.
type Yielder func(req request.Request) fsserver.Reply

// Step is what a Computation produces each time it's driven one step:
// either a pending Request it yielded, or its final return value.
type Step struct {
	Done    bool
	Request request.Request
	Value   interface{}
}

// cancelled is the panic value a suspended computation's yield raises
// once Close has been called on it, so its goroutine unwinds instead of
// blocking forever on a reply or a Step nobody will ever read.
type cancelled struct{}

// Computation is one restartable, single-threaded client program.
type Computation struct {
	out    chan Step
	in     chan fsserver.Reply
	closed chan struct{}
	once   sync.Once
}

// Start launches fn as a new Computation. fn runs on its own goroutine
// but never runs concurrently with the driver: it blocks on yield calls,
// and the driver blocks waiting for the next Step, so control alternates
// strictly.
func Start(fn func(yield Yielder) interface{}) *Computation {
	c := &Computation{
		out:    make(chan Step),
		in:     make(chan fsserver.Reply),
		closed: make(chan struct{}),
	}
	yield := func(req request.Request) fsserver.Reply {
		select {
		case c.out <- Step{Request: req}:
		case <-c.closed:
			panic(cancelled{})
		}
		select {
		case reply := <-c.in:
			return reply
		case <-c.closed:
			panic(cancelled{})
		}
	}
	go func() {
		defer func() {
			if r := recover(); r != nil {
				if _, ok := r.(cancelled); !ok {
					panic(r)
				}
			}
		}()
		value := fn(yield)
		select {
		case c.out <- Step{Done: true, Value: value}:
		case <-c.closed:
		}
	}()
	return c
}

// Prime runs the computation to its first suspension point (or to
// completion, if it never yields) and returns that Step.
func (c *Computation) Prime() Step {
	return <-c.out
}

// Resume feeds reply back to the computation's last yield and runs it to
// its next suspension point or completion.
func (c *Computation) Resume(reply fsserver.Reply) Step {
	c.in <- reply
	return <-c.out
}

// Close cancels c if it is still suspended, letting its goroutine unwind
// via the cancelled panic instead of leaking forever blocked on a reply
// that replay-from-scratch scheduling will never deliver. Idempotent and
// safe to call on a computation that has already run to completion.
func (c *Computation) Close() {
	c.once.Do(func() { close(c.closed) })
}
