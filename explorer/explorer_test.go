package explorer

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsubakinoniwa/nfschecker/fsserver"
	"github.com/tsubakinoniwa/nfschecker/nfsproto"
	"github.com/tsubakinoniwa/nfschecker/scenarios"
)

func prog(p scenarios.Program) Program {
	return Program(p)
}

func fooContent(t *testing.T, snapshot string) string {
	t.Helper()
	var tree map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(snapshot), &tree))
	foo, ok := tree["foo.txt"].(string)
	require.True(t, ok, "snapshot has no foo.txt: %s", snapshot)
	return foo
}

func TestSingleWriter(t *testing.T) {
	e := New([]Program{prog(scenarios.SingleWriter())})
	rs, err := e.Explore()
	require.NoError(t, err)
	require.Equal(t, 1, rs.Len())

	results := rs.Results()
	assert.Contains(t, results[0].Snapshot, `"x":"hello"`)
	assert.Empty(t, results[0].Responses[0])
	assert.Equal(t, results[0].Digest(), results[0].Digest(), "digest must be stable")
}

func TestConcurrentAppendsSingleByte(t *testing.T) {
	e := New([]Program{
		prog(scenarios.AppendRacer('1')),
		prog(scenarios.AppendRacer('2')),
	})
	rs, err := e.Explore()
	require.NoError(t, err)

	got := map[string]bool{}
	for _, r := range rs.Results() {
		got[fooContent(t, r.Snapshot)] = true
	}
	want := map[string]bool{
		"1": true, "2": true, "12": true, "21": true, "11": true, "22": true,
	}
	assert.Equal(t, want, got)
}

// resultKeySet runs progs under strategy and returns its ResultSet's
// members as a plain set of structural keys, so two strategies' outputs
// can be compared for equality independent of discovery order.
func resultKeySet(t *testing.T, progs []Program, strategy Strategy) map[string]bool {
	t.Helper()
	e := New(progs, WithReduction(strategy))
	rs, err := e.Explore()
	require.NoError(t, err)

	set := map[string]bool{}
	for _, r := range rs.Results() {
		set[r.key()] = true
	}
	return set
}

// assertStrategiesAgree is spec.md §8 scenario 3's reduction cross-check,
// generalized to all three strategies: ReductionMemo (the default) and
// ReductionUnionFind (the alternate, union-find-batching reduction) must
// both find exactly the Results that ReductionNone (the oracle disabled
// entirely) finds, since the commutativity oracle is sound and neither
// reduction is allowed to drop or invent a reachable Result.
func assertStrategiesAgree(t *testing.T, progs []Program) {
	t.Helper()
	naive := resultKeySet(t, progs, ReductionNone)
	memo := resultKeySet(t, progs, ReductionMemo)
	unionFind := resultKeySet(t, progs, ReductionUnionFind)

	assert.Equal(t, naive, memo, "memo-reduced and naive explorers must find the same results")
	assert.Equal(t, naive, unionFind, "union-find-reduced and naive explorers must find the same results")
}

func TestThreeWayRaceReductionCrossCheck(t *testing.T) {
	assertStrategiesAgree(t, []Program{
		prog(scenarios.AppendRacer('1')),
		prog(scenarios.AppendRacer('2')),
		prog(scenarios.AppendRacer('3')),
	})
}

func TestMkdirRmdirRaceReductionCrossCheck(t *testing.T) {
	assertStrategiesAgree(t, []Program{
		prog(scenarios.DirMaker("/d")),
		prog(scenarios.DirRemover("/d")),
	})
}

func TestReadOnlyClientsOnPrePopulatedServer(t *testing.T) {
	factory := func() *fsserver.Server {
		s := fsserver.New()
		s.Write(nfsproto.RootHandle().Child("foo.txt"), 0, []byte("hello"))
		return s
	}
	e := New([]Program{
		prog(scenarios.ReadOnlyReader()),
		prog(scenarios.ReadOnlyReader()),
	}, WithInitialServer(factory))

	rs, err := e.Explore()
	require.NoError(t, err)
	require.Equal(t, 1, rs.Len())

	r := rs.Results()[0]
	assert.Equal(t, []string{"hello"}, r.Responses[0])
	assert.Equal(t, []string{"hello"}, r.Responses[1])
}

func TestCrossDirectoryIndependence(t *testing.T) {
	e := New([]Program{
		prog(scenarios.DirectoryBuilder("/a", "x")),
		prog(scenarios.DirectoryBuilder("/b", "y")),
	})
	rs, err := e.Explore()
	require.NoError(t, err)
	assert.Equal(t, 1, rs.Len())
}

func TestMkdirRmdirRace(t *testing.T) {
	e := New([]Program{
		prog(scenarios.DirMaker("/d")),
		prog(scenarios.DirRemover("/d")),
	})
	rs, err := e.Explore()
	require.NoError(t, err)
	require.Equal(t, 2, rs.Len())

	var withD, withoutD int
	for _, r := range rs.Results() {
		var tree map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(r.Snapshot), &tree))
		if _, ok := tree["d"]; ok {
			withD++
		} else {
			withoutD++
		}
	}
	assert.Equal(t, 1, withD)
	assert.Equal(t, 1, withoutD)
}

func TestExploreRejectsEmptyProgramList(t *testing.T) {
	e := New(nil)
	_, err := e.Explore()
	assert.Error(t, err)
}

func TestExploreIsDeterministic(t *testing.T) {
	progs := []Program{
		prog(scenarios.AppendRacer('1')),
		prog(scenarios.AppendRacer('2')),
	}
	e1 := New(progs)
	rs1, err := e1.Explore()
	require.NoError(t, err)

	e2 := New(progs)
	rs2, err := e2.Explore()
	require.NoError(t, err)

	require.Equal(t, rs1.Len(), rs2.Len())
	r1 := rs1.Results()
	r2 := rs2.Results()
	for i := range r1 {
		assert.Equal(t, r1[i], r2[i])
	}
}

func TestMaxDepthSafetyRail(t *testing.T) {
	e := New([]Program{
		prog(scenarios.AppendRacer('1')),
		prog(scenarios.AppendRacer('2')),
	}, WithMaxDepth(1))
	_, err := e.Explore()
	assert.Error(t, err)
}
