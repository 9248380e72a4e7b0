// Package explorer implements the depth-first interleaving enumerator:
// replay-from-scratch scheduling, the commutativity-based partial order
// reduction of spec.md §4.4/§4.5, and the deduplicated Result sink.
package explorer

import (
	"github.com/pkg/errors"
	"github.com/tsubakinoniwa/nfschecker/client"
	"github.com/tsubakinoniwa/nfschecker/fsserver"
	"github.com/tsubakinoniwa/nfschecker/internal/xlog"
	"github.com/tsubakinoniwa/nfschecker/nfsproto"
	"github.com/tsubakinoniwa/nfschecker/request"
)

// Program is the client-program contract of spec.md §6: a function of
// the server that produces a suspending computation.
type Program func(server *fsserver.Server) *client.Computation

// Strategy selects which partial-order reduction the Explorer applies.
type Strategy int

const (
	// ReductionMemo canonicalizes each prefix and memoizes it, collapsing
	// any later prefix with the same canonical key. This is spec.md
	// §4.5's default.
	ReductionMemo Strategy = iota
	// ReductionUnionFind batches an entire commuting group of live
	// processes into one DFS level, ported from the original sim.py's
	// UnionFind-based _dfs. spec.md §4.5 allows either; this is the
	// documented alternate.
	ReductionUnionFind
	// ReductionNone disables the commutativity oracle entirely, visiting
	// every raw interleaving. Exists as the naive cross-check spec.md §8
	// scenario 3 calls for.
	ReductionNone
)

// Option configures an Explorer.
type Option func(*Explorer)

// WithReduction selects the partial-order reduction strategy. The
// default is ReductionMemo.
func WithReduction(s Strategy) Option {
	return func(e *Explorer) { e.strategy = s }
}

// WithMaxDepth installs a recursion-depth safety rail, spec.md §5's
// optional cap on unbounded client programs. 0 (the default) means no
// cap.
func WithMaxDepth(n int) Option {
	return func(e *Explorer) { e.maxDepth = n }
}

// WithInitialServer overrides the server factory used at the start of
// every replay. The default is fsserver.New (two empty files at root).
// spec.md §8 scenario 4 needs this to pre-populate foo.txt.
func WithInitialServer(factory func() *fsserver.Server) Option {
	return func(e *Explorer) { e.newServer = factory }
}

// Explorer owns one exploration run: the fixed set of client programs
// plus the mutable search state spec.md §4.4 assigns it (history, memo,
// results). It is not safe for concurrent use — spec.md's Non-goals
// explicitly exclude concurrent access to a single Explorer instance.
type Explorer struct {
	programs  []Program
	strategy  Strategy
	maxDepth  int
	newServer func() *fsserver.Server

	results *ResultSet
	memo    map[string]bool
}

// New creates an Explorer over the given client programs.
func New(programs []Program, opts ...Option) *Explorer {
	e := &Explorer{
		programs:  programs,
		newServer: fsserver.New,
		memo:      map[string]bool{},
		results:   newResultSet(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// replayState is what replaying a history prefix from scratch
// reconstructs: the server, each process's currently pending (or
// completed) step, the requests served along the way in order, and the
// per-process READ response log. The computations themselves are not
// kept; replay closes them before returning.
type replayState struct {
	server      *fsserver.Server
	steps       []client.Step
	served      []request.Request
	responseLog [][]string
}

// replay reconstructs the world at the end of history, deterministically
// from scratch, per spec.md §4.4 steps 1-3 and the "replay-based
// backtracking" design note: no checkpoint/restore, only replay. Every
// computation it constructs is Closed before returning — a DFS node
// never resumes a replayState's computations again (the next node
// replays from scratch into entirely fresh ones), so a computation left
// suspended here would otherwise leak its goroutine, blocked forever on
// a reply nobody will ever send, for the rest of the search.
func (e *Explorer) replay(history []int) *replayState {
	server := e.newServer()
	n := len(e.programs)
	steps := make([]client.Step, n)
	computations := make([]*client.Computation, n)
	for i, p := range e.programs {
		computations[i] = p(server)
		steps[i] = computations[i].Prime()
	}
	defer func() {
		for _, c := range computations {
			c.Close()
		}
	}()

	st := &replayState{
		server:      server,
		responseLog: make([][]string, n),
	}
	for _, pid := range history {
		if steps[pid].Done {
			// A process that terminated during an earlier replay stays
			// terminated; history never advances a dead process.
			continue
		}
		req := steps[pid].Request
		reply := client.ServeDispatch(server, req)
		if req.Kind == nfsproto.READ && reply.Status.IsOK() {
			st.responseLog[pid] = append(st.responseLog[pid], string(reply.Data))
		}
		steps[pid] = computations[pid].Resume(reply)
		st.served = append(st.served, req)
	}
	st.steps = steps
	return st
}

func allDone(steps []client.Step) bool {
	for _, s := range steps {
		if !s.Done {
			return false
		}
	}
	return true
}

// Explore runs the full DFS and returns the deduplicated ResultSet.
func (e *Explorer) Explore() (*ResultSet, error) {
	if len(e.programs) == 0 {
		return nil, errors.New("explorer: no client programs supplied")
	}
	e.results = newResultSet()
	e.memo = map[string]bool{}

	var dfs func(history []int) error
	switch e.strategy {
	case ReductionUnionFind:
		dfs = e.dfsUnionFind
	default:
		dfs = e.dfsMemo
	}

	if err := dfs(nil); err != nil {
		return nil, err
	}
	xlog.Logf(nil, "exploration complete: %d unique executions", e.results.Len())
	return e.results, nil
}

// dfsMemo is spec.md §4.4's algorithm verbatim, with ReductionNone as a
// variant that skips the memo lookup (every prefix is visited, never
// collapsed) while still recording results into the same deduplicated
// set.
func (e *Explorer) dfsMemo(history []int) error {
	if e.maxDepth > 0 && len(history) > e.maxDepth {
		return errors.Errorf("explorer: recursion depth exceeded %d", e.maxDepth)
	}

	st := e.replay(history)

	key := canonicalKey(history, st.served)
	if e.strategy == ReductionMemo {
		if e.memo[key] {
			return nil
		}
	}

	if allDone(st.steps) {
		e.results.add(Result{Responses: copyResponseLog(st.responseLog), Snapshot: st.server.Snapshot()})
		e.memo[key] = true
		return nil
	}

	for pid := range e.programs {
		if st.steps[pid].Done {
			continue
		}
		next := append(append([]int(nil), history...), pid)
		if err := e.dfsMemo(next); err != nil {
			return err
		}
	}

	e.memo[key] = true
	return nil
}

func copyResponseLog(in [][]string) [][]string {
	out := make([][]string, len(in))
	for i, v := range in {
		out[i] = append([]string(nil), v...)
	}
	return out
}
