package fsserver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsubakinoniwa/nfschecker/nfsproto"
)

func TestGetAttrRegular(t *testing.T) {
	s := New()
	r := s.GetAttr(nfsproto.RootHandle().Child("foo.txt"))
	require.True(t, r.Status.IsOK())
	assert.Equal(t, 0, r.Attr.Size)
}

func TestGetAttrMissing(t *testing.T) {
	s := New()
	r := s.GetAttr(nfsproto.RootHandle().Child("nope.txt"))
	assert.Equal(t, nfsproto.NOENT, r.Status)
}

func TestLookupNotDir(t *testing.T) {
	s := New()
	file := nfsproto.RootHandle().Child("foo.txt")
	r := s.Lookup(file, "x")
	assert.Equal(t, nfsproto.NOTDIR, r.Status)
}

func TestWriteExtendsWithNUL(t *testing.T) {
	s := New()
	h := nfsproto.RootHandle().Child("foo.txt")

	r := s.Write(h, 0, []byte("a"))
	require.True(t, r.Status.IsOK())
	r = s.Write(h, 9, []byte("b"))
	require.True(t, r.Status.IsOK())

	read := s.Read(h, 0, 100)
	require.True(t, read.Status.IsOK())
	assert.Equal(t, "a\x00\x00\x00\x00\x00\x00\x00\x00b", string(read.Data))
}

func TestReadISDIR(t *testing.T) {
	s := New()
	r := s.Read(nfsproto.RootHandle(), 0, 10)
	assert.Equal(t, nfsproto.ISDIR, r.Status)
}

func TestCreateExist(t *testing.T) {
	s := New()
	r := s.Create(nfsproto.RootHandle(), "foo.txt")
	assert.Equal(t, nfsproto.EXIST, r.Status)
}

func TestRemoveISDIR(t *testing.T) {
	s := New()
	mk := s.Mkdir(nfsproto.RootHandle(), "d")
	require.True(t, mk.Status.IsOK())
	r := s.Remove(nfsproto.RootHandle(), "d")
	assert.Equal(t, nfsproto.ISDIR, r.Status)
}

func TestMkdirRmdirRoundTrip(t *testing.T) {
	s := New()
	before := s.Snapshot()

	mk := s.Mkdir(nfsproto.RootHandle(), "d")
	require.True(t, mk.Status.IsOK())
	rm := s.Rmdir(nfsproto.RootHandle(), "d")
	require.True(t, rm.Status.IsOK())

	assert.Equal(t, before, s.Snapshot())
}

func TestRmdirNotEmpty(t *testing.T) {
	s := New()
	mk := s.Mkdir(nfsproto.RootHandle(), "d")
	require.True(t, mk.Status.IsOK())
	dh := mk.Handle
	cr := s.Create(dh, "x")
	require.True(t, cr.Status.IsOK())

	r := s.Rmdir(nfsproto.RootHandle(), "d")
	assert.Equal(t, nfsproto.NOTEMPTY, r.Status)
}

func TestSnapshotRoundTripStable(t *testing.T) {
	s := New()
	s.Write(nfsproto.RootHandle().Child("foo.txt"), 0, []byte("hello"))
	s.Mkdir(nfsproto.RootHandle(), "d")
	first := s.Snapshot()
	second := s.Snapshot()
	assert.Equal(t, first, second)
}

func TestSnapshotContainsRawContent(t *testing.T) {
	s := New()
	s.Write(nfsproto.RootHandle().Child("foo.txt"), 0, []byte("hello"))
	assert.Contains(t, s.Snapshot(), `"hello"`)
}

func TestDigestStableAndSensitiveToContent(t *testing.T) {
	s := New()
	d1 := s.Digest()
	assert.Equal(t, d1, s.Digest(), "digest must be stable across repeated calls")

	s.Write(nfsproto.RootHandle().Child("foo.txt"), 0, []byte("hello"))
	d2 := s.Digest()
	assert.NotEqual(t, d1, d2, "digest must change when the snapshot changes")
}
