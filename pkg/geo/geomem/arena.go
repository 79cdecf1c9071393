// Copyright 2025 The Quartz Authors.
//
// Use of this software is governed by the Quartz Software License
// included in the /LICENSE file.

package geomem

import (
	"unsafe"

	"github.com/cockroachdb/errors"
)

// minSlabLen is the element count of the first chunk handed to a slab.
// Subsequent chunks grow by 1.5x, so a long-lived arena converges on a
// small number of chunk allocations per batch.
const minSlabLen = 128

// slab is a typed bump allocator region. Chunks that fill up are simply
// abandoned to the garbage collector; the slices already handed out keep
// them alive for as long as the trees referencing them do.
type slab[T any] struct {
	cur []T
	off int
}

// alloc returns n zeroed contiguous elements backed by slab memory. The
// result is capped so that appending to it cannot bleed into a neighboring
// allocation.
func (s *slab[T]) alloc(n int) []T {
	if n == 0 {
		return nil
	}
	if s.off+n > len(s.cur) {
		s.grow(n)
	}
	out := s.cur[s.off : s.off+n : s.off+n]
	s.off += n
	// The chunk may be recycled from a previous batch via Reset, so the
	// region handed out has to be cleared here rather than relying on make.
	clear(out)
	return out
}

func (s *slab[T]) grow(n int) {
	size := len(s.cur) + len(s.cur)/2
	if size < minSlabLen {
		size = minSlabLen
	}
	if size < n {
		size = n
	}
	s.cur = make([]T, size)
	s.off = 0
}

func (s *slab[T]) reset() {
	s.off = 0
}

// Arena owns the memory of every geometry tree built during one execution
// batch. It is a bump allocator: there is no per-object free, and Reset
// invalidates everything allocated so far at once. Allocation failure is
// fatal (out of memory), never an error return; callers bound peak usage by
// sizing their batches and checking AllocatedBytes.
//
// An Arena must not be shared between goroutines that allocate or Reset
// concurrently; give each batch its own instance.
type Arena struct {
	floats slab[float64]
	arrays slab[VertexArray]
	geoms  slab[Geometry]

	allocBytes int64
}

// NewArena returns an empty arena. Chunks are allocated lazily on first use.
func NewArena() *Arena {
	return &Arena{}
}

// AllocFloats returns n zeroed float64s of arena-owned storage.
func (a *Arena) AllocFloats(n int) []float64 {
	checkAllocLen(n)
	a.allocBytes += int64(n) * 8
	return a.floats.alloc(n)
}

// AllocVertexArrays returns n zeroed VertexArrays of arena-owned storage.
func (a *Arena) AllocVertexArrays(n int) []VertexArray {
	checkAllocLen(n)
	a.allocBytes += int64(n) * int64(unsafe.Sizeof(VertexArray{}))
	return a.arrays.alloc(n)
}

// AllocGeometries returns n zeroed Geometries of arena-owned storage.
func (a *Arena) AllocGeometries(n int) []Geometry {
	checkAllocLen(n)
	a.allocBytes += int64(n) * int64(unsafe.Sizeof(Geometry{}))
	return a.geoms.alloc(n)
}

// Reset invalidates all prior allocations and reuses the current chunks for
// the next batch. Trees built before the Reset must no longer be accessed;
// their storage will be overwritten by subsequent allocations.
func (a *Arena) Reset() {
	a.floats.reset()
	a.arrays.reset()
	a.geoms.reset()
	a.allocBytes = 0
}

// AllocatedBytes reports the bytes handed out since construction or the
// last Reset.
func (a *Arena) AllocatedBytes() int64 {
	return a.allocBytes
}

func checkAllocLen(n int) {
	if n < 0 {
		panic(errors.AssertionFailedf("negative arena allocation length %d", n))
	}
}
