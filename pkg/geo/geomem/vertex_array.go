// Copyright 2025 The Quartz Authors.
//
// Use of this software is governed by the Quartz Software License
// included in the /LICENSE file.

package geomem

import "github.com/cockroachdb/errors"

// Vertex is one coordinate tuple. Z and M are only meaningful when the
// owning VertexArray has the matching dimension flag set; they read as zero
// otherwise.
type Vertex struct {
	X, Y, Z, M float64
}

// Stride returns the number of doubles per vertex for the given dimension
// flags: 2 for XY, 3 for XYZ and XYM, 4 for XYZM.
func Stride(hasZ, hasM bool) int {
	stride := 2
	if hasZ {
		stride++
	}
	if hasM {
		stride++
	}
	return stride
}

// VertexArray is the only leaf storage of the geometry model: an ordered
// sequence of coordinate tuples held in one flat buffer of doubles. The
// dimensionality is uniform within an array and the vertex count may be
// zero (EMPTY). The buffer is owned by an Arena; a VertexArray is a cheap
// value and must never outlive the arena its buffer came from.
type VertexArray struct {
	data []float64
	hasZ bool
	hasM bool
}

// EmptyVertexArray returns a VertexArray with zero vertices.
func EmptyVertexArray(hasZ, hasM bool) VertexArray {
	return VertexArray{hasZ: hasZ, hasM: hasM}
}

// MakeVertexArray returns a zeroed VertexArray of count vertices backed by
// arena storage, to be filled in place with Set or SetOrdinate.
func MakeVertexArray(a *Arena, count int, hasZ, hasM bool) VertexArray {
	return VertexArray{
		data: a.AllocFloats(count * Stride(hasZ, hasM)),
		hasZ: hasZ,
		hasM: hasM,
	}
}

// CopyVertexArray deep-copies count vertices of flat coordinate data into
// arena-owned storage. This is the only way external coordinate data enters
// the model. The length of coords must be exactly count vertices worth of
// doubles; anything else is a caller bug.
func CopyVertexArray(a *Arena, coords []float64, count int, hasZ, hasM bool) VertexArray {
	if len(coords) != count*Stride(hasZ, hasM) {
		panic(errors.AssertionFailedf(
			"vertex data of %d doubles cannot hold %d vertices of stride %d",
			len(coords), count, Stride(hasZ, hasM),
		))
	}
	va := VertexArray{
		data: a.AllocFloats(len(coords)),
		hasZ: hasZ,
		hasM: hasM,
	}
	copy(va.data, coords)
	return va
}

// Count returns the number of vertices.
func (va VertexArray) Count() int {
	return len(va.data) / va.Stride()
}

// IsEmpty returns whether the array has zero vertices.
func (va VertexArray) IsEmpty() bool {
	return len(va.data) == 0
}

// HasZ returns whether each vertex carries a Z ordinate.
func (va VertexArray) HasZ() bool {
	return va.hasZ
}

// HasM returns whether each vertex carries an M ordinate.
func (va VertexArray) HasM() bool {
	return va.hasM
}

// Stride returns the number of doubles per vertex.
func (va VertexArray) Stride() int {
	return Stride(va.hasZ, va.hasM)
}

// Data returns the flat coordinate buffer. The buffer is borrowed from the
// arena; callers must treat it as read-only and must not retain it past the
// arena's batch.
func (va VertexArray) Data() []float64 {
	return va.data
}

// Get returns vertex i. Indexing out of range is a caller bug.
func (va VertexArray) Get(i int) Vertex {
	base := i * va.Stride()
	v := Vertex{X: va.data[base], Y: va.data[base+1]}
	switch {
	case va.hasZ && va.hasM:
		v.Z = va.data[base+2]
		v.M = va.data[base+3]
	case va.hasZ:
		v.Z = va.data[base+2]
	case va.hasM:
		v.M = va.data[base+2]
	}
	return v
}

// GetXY returns the X and Y ordinates of vertex i.
func (va VertexArray) GetXY(i int) (float64, float64) {
	base := i * va.Stride()
	return va.data[base], va.data[base+1]
}

// Set writes vertex i in place. Ordinates beyond the array's dimensionality
// are ignored.
func (va VertexArray) Set(i int, v Vertex) {
	base := i * va.Stride()
	va.data[base] = v.X
	va.data[base+1] = v.Y
	switch {
	case va.hasZ && va.hasM:
		va.data[base+2] = v.Z
		va.data[base+3] = v.M
	case va.hasZ:
		va.data[base+2] = v.Z
	case va.hasM:
		va.data[base+2] = v.M
	}
}

// Ordinate returns ordinate dim of vertex i, with dim counted in storage
// order (X=0, Y=1, then Z and/or M).
func (va VertexArray) Ordinate(i, dim int) float64 {
	va.checkDim(dim)
	return va.data[i*va.Stride()+dim]
}

// SetOrdinate writes ordinate dim of vertex i in place.
func (va VertexArray) SetOrdinate(i, dim int, value float64) {
	va.checkDim(dim)
	va.data[i*va.Stride()+dim] = value
}

func (va VertexArray) checkDim(dim int) {
	if dim < 0 || dim >= va.Stride() {
		panic(errors.AssertionFailedf("ordinate %d out of range for stride %d", dim, va.Stride()))
	}
}
