package bench

import (
	"io"
	"sync/atomic"
)

var includeDepth int64

// File treats another template file as a nested root, guarded against
// unbounded recursion by a global include-depth counter (spec §4.2, §5).
type File struct {
	id   int
	path string
	root *Block
}

func newFile(id int, path string, root *Block) *File {
	return &File{id: id, path: path, root: root}
}

func (f *File) Kind() SegmentKind { return KindFile }

func (f *File) Generate(ctx int64, w io.Writer) (int64, error) {
	depth := atomic.AddInt64(&includeDepth, 1)
	defer atomic.AddInt64(&includeDepth, -1)
	if depth > MaxIncludeDepth {
		return 0, fatalf(-1, CodeIncludeDepth, "file %q exceeds include depth %d", f.path, MaxIncludeDepth)
	}
	return f.root.Generate(ctx, w)
}
