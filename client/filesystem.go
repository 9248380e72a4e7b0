package client

import (
	"strings"

	"github.com/tsubakinoniwa/nfschecker/fsserver"
	"github.com/tsubakinoniwa/nfschecker/nfsproto"
	"github.com/tsubakinoniwa/nfschecker/request"
)

// MaxFiles bounds the descriptor pool per client, spec.md §3's MAX_FILES.
const MaxFiles = 100

// openFile is the state a FileSystem keeps for one open descriptor.
type openFile struct {
	handle nfsproto.FileHandle
	offset int
	attr   nfsproto.FileAttribute
	dir    nfsproto.FileHandle
	name   string
}

// FileSystem is the per-client façade over the server: open/close/read/
// write/seek/size/append/create/remove/mkdir/rmdir, each a function of a
// Yielder plus its own arguments, composing by ordinary Go call nesting
// instead of explicit continuation threading (see computation.go).
type FileSystem struct {
	available []int
	files     map[int]*openFile
}

// New creates a FileSystem with a full pool of MaxFiles descriptors.
func New() *FileSystem {
	available := make([]int, MaxFiles)
	for i := range available {
		available[i] = i
	}
	return &FileSystem{available: available, files: map[int]*openFile{}}
}

// allocate pops the front descriptor from the pool, or reports none left.
func (fs *FileSystem) allocate() (int, bool) {
	if len(fs.available) == 0 {
		return -1, false
	}
	fd := fs.available[0]
	fs.available = fs.available[1:]
	return fd, true
}

// free returns fd to the front of the pool, mirroring client_filesys.py's
// appendleft on close — the most recently closed descriptor is the next
// one handed out.
func (fs *FileSystem) free(fd int) {
	fs.available = append([]int{fd}, fs.available...)
}

func splitPath(path string) (dir nfsproto.FileHandle, name string) {
	parts := strings.Split(strings.TrimSpace(path), "/")
	name = parts[len(parts)-1]
	dir = nfsproto.NewFileHandle(parts[1 : len(parts)-1]...)
	return dir, name
}

// Open resolves path via LOOKUP and allocates a descriptor for it, or
// returns -1 if the path doesn't resolve or the pool is exhausted.
func (fs *FileSystem) Open(yield Yielder, path string) int {
	dir, name := splitPath(path)
	reply := yield(request.Lookup(dir, name))
	if !reply.Status.IsOK() {
		return -1
	}
	fd, ok := fs.allocate()
	if !ok {
		return -1
	}
	fs.files[fd] = &openFile{handle: reply.Handle, dir: dir, name: name, attr: reply.Attr}
	return fd
}

// Close releases fd back to the pool.
func (fs *FileSystem) Close(fd int) bool {
	if _, ok := fs.files[fd]; !ok {
		return false
	}
	fs.free(fd)
	delete(fs.files, fd)
	return true
}

// Read issues a READ at fd's current offset, advancing it by the amount
// actually read.
func (fs *FileSystem) Read(yield Yielder, fd int, count int) []byte {
	f, ok := fs.files[fd]
	if !ok {
		return []byte{}
	}
	reply := yield(request.Read(f.handle, f.offset, count))
	if !reply.Status.IsOK() {
		return []byte{}
	}
	f.offset += len(reply.Data)
	f.attr = reply.Attr
	return reply.Data
}

// Write issues a WRITE at fd's current offset, advancing it by len(data)
// on success.
func (fs *FileSystem) Write(yield Yielder, fd int, data []byte) bool {
	f, ok := fs.files[fd]
	if !ok {
		return false
	}
	reply := yield(request.Write(f.handle, f.offset, data))
	if !reply.Status.IsOK() {
		return false
	}
	f.offset += len(data)
	f.attr = reply.Attr
	return true
}

// Seek sets fd's offset unconditionally; it never issues an RPC.
func (fs *FileSystem) Seek(fd int, pos int) bool {
	f, ok := fs.files[fd]
	if !ok {
		return false
	}
	f.offset = pos
	return true
}

// Size always issues a fresh GETATTR — the attribute cache is never
// trusted to answer Size, a deliberate anti-stale policy per spec.md
// §4.3 — returning -1 on any non-OK status.
func (fs *FileSystem) Size(yield Yielder, fd int) int {
	f, ok := fs.files[fd]
	if !ok {
		return -1
	}
	reply := yield(request.GetAttr(f.handle))
	if !reply.Status.IsOK() {
		return -1
	}
	f.attr = reply.Attr
	return reply.Attr.Size
}

// Append is size(fd) followed by write(fd, s) at the observed size,
// exactly client_filesys.py's nested yield-from delegation: two
// suspension points, falling straight out of Go's ordinary call nesting.
func (fs *FileSystem) Append(yield Yielder, fd int, data []byte) bool {
	f, ok := fs.files[fd]
	if !ok {
		return false
	}
	size := fs.Size(yield, fd)
	if size == -1 {
		return false
	}
	f.offset = size
	return fs.Write(yield, fd, data)
}

// Create issues a CREATE and, on success, allocates a descriptor the same
// way Open does.
func (fs *FileSystem) Create(yield Yielder, path string) int {
	dir, name := splitPath(path)
	reply := yield(request.Create(dir, name))
	if !reply.Status.IsOK() {
		return -1
	}
	fd, ok := fs.allocate()
	if !ok {
		return -1
	}
	fs.files[fd] = &openFile{handle: reply.Handle, dir: dir, name: name, attr: reply.Attr}
	return fd
}

// Remove issues REMOVE using fd's cached parent/name, closing fd on
// success. An fd that isn't open issues no RPC.
func (fs *FileSystem) Remove(yield Yielder, fd int) bool {
	f, ok := fs.files[fd]
	if !ok {
		return false
	}
	reply := yield(request.Remove(f.dir, f.name))
	if !reply.Status.IsOK() {
		return false
	}
	fs.free(fd)
	delete(fs.files, fd)
	return true
}

// Mkdir issues a MKDIR for path.
func (fs *FileSystem) Mkdir(yield Yielder, path string) bool {
	dir, name := splitPath(path)
	return yield(request.Mkdir(dir, name)).Status.IsOK()
}

// Rmdir issues a RMDIR for path.
func (fs *FileSystem) Rmdir(yield Yielder, path string) bool {
	dir, name := splitPath(path)
	return yield(request.Rmdir(dir, name)).Status.IsOK()
}

// ServeDispatch serves req against server and returns the reply,
// implementing spec.md §9's "tagged enum of kinds plus a single serve
// dispatcher" instead of retaining function pointers on the Request.
func ServeDispatch(server *fsserver.Server, req request.Request) fsserver.Reply {
	switch req.Kind {
	case nfsproto.GETATTR:
		return server.GetAttr(req.Handle)
	case nfsproto.LOOKUP:
		return server.Lookup(req.Dir, req.Name)
	case nfsproto.READ:
		return server.Read(req.Handle, req.Offset, req.Count)
	case nfsproto.WRITE:
		return server.Write(req.Handle, req.Offset, req.Data)
	case nfsproto.CREATE:
		return server.Create(req.Dir, req.Name)
	case nfsproto.REMOVE:
		return server.Remove(req.Dir, req.Name)
	case nfsproto.MKDIR:
		return server.Mkdir(req.Dir, req.Name)
	case nfsproto.RMDIR:
		return server.Rmdir(req.Dir, req.Name)
	default:
		panic("client: unknown request kind")
	}
}
