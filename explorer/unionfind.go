package explorer

import (
	"github.com/pkg/errors"
	"github.com/tsubakinoniwa/nfschecker/request"
)

// unionFind is a disjoint-set with path compression, ported from the
// original sim.py's UnionFind: used to group live processes whose
// currently pending requests commute, so a whole commuting group can be
// applied as a single DFS branch instead of exploring each member's
// ordering separately.
type unionFind struct {
	parent []int
	rank   []int
}

func newUnionFind(n int) *unionFind {
	uf := &unionFind{parent: make([]int, n), rank: make([]int, n)}
	for i := range uf.parent {
		uf.parent[i] = i
		uf.rank[i] = 1
	}
	return uf
}

func (uf *unionFind) find(i int) int {
	if uf.parent[i] != i {
		uf.parent[i] = uf.find(uf.parent[i])
	}
	return uf.parent[i]
}

func (uf *unionFind) union(i, j int) {
	ri, rj := uf.find(i), uf.find(j)
	if ri == rj {
		return
	}
	if uf.rank[ri] < uf.rank[rj] {
		ri, rj = rj, ri
	}
	uf.parent[rj] = ri
	uf.rank[ri] += uf.rank[rj]
}

// dfsUnionFind is the alternate reduction strategy: at each node, group
// every live process with the first earlier live process whose pending
// request commutes with its own, then recurse once per resulting group
// with the whole group's pids appended to history in one shot, rather
// than memoizing a canonical form. No memo set is consulted or
// maintained — batching is the entire reduction here, matching the
// original sim.py _dfs this strategy is ported from.
func (e *Explorer) dfsUnionFind(history []int) error {
	if e.maxDepth > 0 && len(history) > e.maxDepth {
		return errors.Errorf("explorer: recursion depth exceeded %d", e.maxDepth)
	}

	st := e.replay(history)

	if allDone(st.steps) {
		e.results.add(Result{Responses: copyResponseLog(st.responseLog), Snapshot: st.server.Snapshot()})
		return nil
	}

	n := len(e.programs)
	uf := newUnionFind(n)
	for i := 0; i < n; i++ {
		if st.steps[i].Done {
			continue
		}
		for j := 0; j < i; j++ {
			if st.steps[j].Done {
				continue
			}
			if request.Commutes(st.steps[i].Request, st.steps[j].Request) {
				uf.union(i, j)
				break
			}
		}
	}

	rootIndex := map[int]int{}
	var groups [][]int
	var groupLive []bool
	for i := 0; i < n; i++ {
		root := uf.find(i)
		idx, ok := rootIndex[root]
		if !ok {
			idx = len(groups)
			rootIndex[root] = idx
			groups = append(groups, nil)
			groupLive = append(groupLive, false)
		}
		groups[idx] = append(groups[idx], i)
		if !st.steps[i].Done {
			groupLive[idx] = true
		}
	}

	for idx, group := range groups {
		if !groupLive[idx] {
			continue
		}
		next := append(append([]int(nil), history...), group...)
		if err := e.dfsUnionFind(next); err != nil {
			return err
		}
	}
	return nil
}
