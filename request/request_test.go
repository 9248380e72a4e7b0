package request

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tsubakinoniwa/nfschecker/nfsproto"
)

func h(components ...string) nfsproto.FileHandle {
	return nfsproto.NewFileHandle(components...)
}

func TestCommutesSymmetric(t *testing.T) {
	cases := []struct{ a, b Request }{
		{GetAttr(h("a")), Read(h("b"), 0, 1)},
		{GetAttr(h("a")), Write(h("a"), 0, []byte("x"))},
		{Mkdir(h(), "d"), Rmdir(h(), "d")},
		{Mkdir(h(), "d"), Write(h("d", "x"), 0, []byte("y"))},
		{Remove(h(), "x"), Remove(h(), "x")},
	}
	for _, c := range cases {
		assert.Equal(t, Commutes(c.a, c.b), Commutes(c.b, c.a))
	}
}

func TestDifferentFileOpsAlwaysCommute(t *testing.T) {
	a := Write(h("a"), 0, []byte("1"))
	b := Write(h("b"), 0, []byte("2"))
	assert.True(t, Commutes(a, b))
}

func TestSameFileCommutesOnlyIfBothReadOnly(t *testing.T) {
	r1 := Read(h("a"), 0, 1)
	r2 := GetAttr(h("a"))
	assert.True(t, Commutes(r1, r2))

	w := Write(h("a"), 0, []byte("x"))
	assert.False(t, Commutes(r1, w))
	assert.False(t, Commutes(w, w))
}

func TestFileUnderDirDoesNotCommuteWithRmdir(t *testing.T) {
	fileOp := Write(h("a", "b", "c.txt"), 0, []byte("x"))
	rmdir := Rmdir(h("a"), "b")
	assert.False(t, Commutes(fileOp, rmdir))

	other := Rmdir(h(), "other")
	assert.True(t, Commutes(fileOp, other))
}

func TestTwoRmdirsSameVsDifferentDir(t *testing.T) {
	assert.False(t, Commutes(Rmdir(h(), "d"), Rmdir(h(), "d")))
	assert.True(t, Commutes(Rmdir(h(), "d1"), Rmdir(h(), "d2")))
}
