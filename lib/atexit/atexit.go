// Package atexit lets independent parts of the program register cleanup
// hooks that run once, either when the program calls Run or when the
// process is interrupted by a signal — grounded on rclone's lib/atexit, which the
// CLI driver uses to flush a partial report instead of losing it on
// Ctrl-C.
package atexit

import (
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/tsubakinoniwa/nfschecker/lib/exitcode"
)

var (
	mu      sync.Mutex
	fns     []func()
	done    bool
	sigCh   chan os.Signal
	sigOnce sync.Once
)

// Register adds fn to the list of functions to run at exit and returns a
// handle for it. The handle's Unregister is a no-op, so a registered
// function cannot be cancelled.
func Register(fn func()) (fnHandle *FnHandle) {
	mu.Lock()
	defer mu.Unlock()
	handle := &FnHandle{fn: fn}
	fns = append(fns, fn)
	sigOnce.Do(startSignalHandler)
	return handle
}

// FnHandle identifies a registered cleanup function.
type FnHandle struct {
	fn func()
}

// Unregister is a no-op placeholder kept for symmetry with Register; the
// checker never needs to cancel a registered hook once installed.
func (h *FnHandle) Unregister() {}

// IgnoreSignals stops atexit from listening for interrupt/terminate
// signals. Used by tests that don't want a stray signal handler left
// registered on the process.
func IgnoreSignals() {
	mu.Lock()
	defer mu.Unlock()
	if sigCh != nil {
		signal.Stop(sigCh)
	}
}

func startSignalHandler() {
	sigCh = make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig, ok := <-sigCh
		if !ok {
			return
		}
		Run()
		os.Exit(exitCode(sig))
	}()
}

// Run calls all the registered functions exactly once.
func Run() {
	mu.Lock()
	if done {
		mu.Unlock()
		return
	}
	done = true
	toRun := make([]func(), len(fns))
	copy(toRun, fns)
	mu.Unlock()

	for _, fn := range toRun {
		fn()
	}
}

// exitCode maps a signal to the process exit status a shell expects
// (128+signal number), falling back to an uncategorized code for anything
// this process doesn't recognize.
func exitCode(sig os.Signal) int {
	switch sig {
	case os.Interrupt:
		return 128 + 2
	case syscall.SIGTERM:
		return 128 + 15
	case os.Kill:
		return 128 + 9
	default:
		return exitcode.UncategorizedError
	}
}
