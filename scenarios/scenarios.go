// Package scenarios supplies the example client programs spec.md treats
// as opaque coroutine producers: the concrete "main" functions that drive
// the explorer in spec.md §8's end-to-end properties and in example.py.
package scenarios

import (
	"github.com/tsubakinoniwa/nfschecker/client"
	"github.com/tsubakinoniwa/nfschecker/fsserver"
)

// Program is the external client-program contract of spec.md §6: a
// function of the server that produces a suspending computation whose
// completion value is whatever that client returns to its caller.
type Program func(server *fsserver.Server) *client.Computation

// program wraps a plain client body into a Program. The server argument
// is part of the contract but unused by the bodies below: requests are
// served externally by the scheduler via client.ServeDispatch, not by
// the client program reaching into the server directly.
func program(body func(yield client.Yielder) interface{}) Program {
	return func(_ *fsserver.Server) *client.Computation {
		return client.Start(body)
	}
}

// SingleWriter is spec.md §8 scenario 1: create /x then write "hello" to
// it.
func SingleWriter() Program {
	return program(func(yield client.Yielder) interface{} {
		fs := client.New()
		fd := fs.Create(yield, "/x")
		if fd == -1 {
			return false
		}
		return fs.Write(yield, fd, []byte("hello"))
	})
}

// AppendRacer is spec.md §8 scenario 2/3: open /foo.txt, then append a
// fixed single byte in a loop until the file is non-empty. Ported from
// example.py's clients that each race to be the first append.
func AppendRacer(b byte) Program {
	return program(func(yield client.Yielder) interface{} {
		fs := client.New()
		fd := fs.Open(yield, "/foo.txt")
		if fd == -1 {
			return false
		}
		for {
			size := fs.Size(yield, fd)
			if size >= 1 {
				return true
			}
			if !fs.Append(yield, fd, []byte{b}) {
				return false
			}
		}
	})
}

// ReadOnlyReader is spec.md §8 scenario 4: open /foo.txt and read it,
// with no mutation. The scenario calls for a server whose foo.txt is
// pre-populated before exploration starts; building that server is the
// caller's job (see explorer.WithInitialServer), not this program's.
func ReadOnlyReader() Program {
	return program(func(yield client.Yielder) interface{} {
		fs := client.New()
		fd := fs.Open(yield, "/foo.txt")
		if fd == -1 {
			return ""
		}
		return string(fs.Read(yield, fd, 100))
	})
}

// DirectoryBuilder is spec.md §8 scenario 5: mkdir a fresh directory then
// create a file inside it, parameterized so two instances can target
// disjoint subtrees (/a/x and /b/y).
func DirectoryBuilder(dir, file string) Program {
	return program(func(yield client.Yielder) interface{} {
		fs := client.New()
		if !fs.Mkdir(yield, dir) {
			return false
		}
		return fs.Create(yield, dir+"/"+file) != -1
	})
}

// DirMaker is half of spec.md §8 scenario 6: mkdir a fixed directory.
func DirMaker(dir string) Program {
	return program(func(yield client.Yielder) interface{} {
		fs := client.New()
		return fs.Mkdir(yield, dir)
	})
}

// DirRemover is the other half of scenario 6: rmdir a fixed directory
// that may or may not exist yet, depending on schedule order.
func DirRemover(dir string) Program {
	return program(func(yield client.Yielder) interface{} {
		fs := client.New()
		return fs.Rmdir(yield, dir)
	})
}
