// Copyright 2025 The Quartz Authors.
//
// Use of this software is governed by the Quartz Software License
// included in the /LICENSE file.

package geomem

import (
	"encoding/binary"
	"math"

	"github.com/cockroachdb/errors"

	"github.com/quartzdb/quartz/pkg/geo/geopb"
)

// Deserialize decodes blob into a tree allocated from a. The blob must
// contain exactly one serialized geometry; truncated input, unknown shape
// kinds, reserved flag bits, children disagreeing with their parent, and
// trailing bytes are all decode errors. On error no partial tree is
// returned, though arena space consumed by the attempt is only reclaimed
// by the next Reset.
func Deserialize(a *Arena, blob geopb.SerializedGeometry) (Geometry, error) {
	r := blobReader{blob: blob}
	g, err := r.readGeometry(a)
	if err != nil {
		return Geometry{}, err
	}
	if r.remaining() != 0 {
		return Geometry{}, errors.Newf(
			"%d trailing bytes after serialized geometry", r.remaining(),
		)
	}
	return g, nil
}

// blobReader is a bounds-checked cursor over a serialized geometry. Every
// read validates length before touching the buffer, so malformed input
// surfaces as an error rather than an out of range read, and counts are
// validated against the bytes left before sizing any allocation from them.
type blobReader struct {
	blob geopb.SerializedGeometry
	off  int
}

func (r *blobReader) remaining() int {
	return len(r.blob) - r.off
}

func (r *blobReader) truncated(need int) error {
	return errors.Newf(
		"serialized geometry truncated at offset %d: need %d more bytes, have %d",
		r.off, need, r.remaining(),
	)
}

func (r *blobReader) readHeader() (shape geopb.ShapeType, hasZ, hasM bool, err error) {
	if r.remaining() < serializedHeaderSize {
		return 0, false, false, r.truncated(serializedHeaderSize)
	}
	kind, flags := r.blob[r.off], r.blob[r.off+1]
	if geopb.ShapeType(kind) < geopb.ShapeType_Point ||
		geopb.ShapeType(kind) > geopb.ShapeType_GeometryCollection {
		return 0, false, false, errors.Newf(
			"invalid shape type %d at offset %d", kind, r.off,
		)
	}
	if flags&serializedReservedMask != 0 {
		return 0, false, false, errors.Newf(
			"invalid dimension flags %#02x at offset %d", flags, r.off+1,
		)
	}
	r.off += serializedHeaderSize
	return geopb.ShapeType(kind), flags&serializedHasZ != 0, flags&serializedHasM != 0, nil
}

func (r *blobReader) readCount() (int, error) {
	if r.remaining() < 4 {
		return 0, r.truncated(4)
	}
	count := binary.LittleEndian.Uint32(r.blob[r.off:])
	r.off += 4
	return int(count), nil
}

func (r *blobReader) readVertexArray(a *Arena, hasZ, hasM bool) (VertexArray, error) {
	count, err := r.readCount()
	if err != nil {
		return VertexArray{}, err
	}
	if count == 0 {
		return EmptyVertexArray(hasZ, hasM), nil
	}
	need := 8 * count * Stride(hasZ, hasM)
	if need > r.remaining() {
		return VertexArray{}, r.truncated(need)
	}
	va := MakeVertexArray(a, count, hasZ, hasM)
	for i := range va.data {
		va.data[i] = math.Float64frombits(binary.LittleEndian.Uint64(r.blob[r.off:]))
		r.off += 8
	}
	return va, nil
}

func (r *blobReader) readGeometry(a *Arena) (Geometry, error) {
	headerOff := r.off
	shape, hasZ, hasM, err := r.readHeader()
	if err != nil {
		return Geometry{}, err
	}
	switch shape {
	case geopb.ShapeType_Point:
		va, err := r.readVertexArray(a, hasZ, hasM)
		if err != nil {
			return Geometry{}, err
		}
		if va.Count() > 1 {
			return Geometry{}, errors.Newf(
				"point with %d vertices at offset %d", va.Count(), headerOff,
			)
		}
		return MakePoint(va), nil

	case geopb.ShapeType_LineString:
		va, err := r.readVertexArray(a, hasZ, hasM)
		if err != nil {
			return Geometry{}, err
		}
		return MakeLineString(va), nil

	case geopb.ShapeType_Polygon:
		numRings, err := r.readCount()
		if err != nil {
			return Geometry{}, err
		}
		// Each ring takes at least its own count field, so a ring count
		// beyond the bytes left cannot be satisfied. Checking here keeps
		// the count from sizing an arbitrarily large allocation.
		if numRings > r.remaining() {
			return Geometry{}, r.truncated(4 * numRings)
		}
		g := MakePolygon(a, numRings, hasZ, hasM)
		for i := 0; i < numRings; i++ {
			ring, err := r.readVertexArray(a, hasZ, hasM)
			if err != nil {
				return Geometry{}, err
			}
			g.SetRing(i, ring)
		}
		return g, nil

	case geopb.ShapeType_MultiPoint, geopb.ShapeType_MultiLineString,
		geopb.ShapeType_MultiPolygon, geopb.ShapeType_GeometryCollection:
		numGeoms, err := r.readCount()
		if err != nil {
			return Geometry{}, err
		}
		if numGeoms > r.remaining() {
			return Geometry{}, r.truncated(serializedHeaderSize * numGeoms)
		}
		g := makeCollection(a, shape, numGeoms, hasZ, hasM)
		for i := 0; i < numGeoms; i++ {
			childOff := r.off
			child, err := r.readGeometry(a)
			if err != nil {
				return Geometry{}, err
			}
			if shape != geopb.ShapeType_GeometryCollection &&
				child.ShapeType() != shape.SingularType() {
				return Geometry{}, errors.Newf(
					"%v child in %v at offset %d", child.ShapeType(), shape, childOff,
				)
			}
			if child.HasZ() != hasZ || child.HasM() != hasM {
				return Geometry{}, errors.Newf(
					"child dimensionality (Z=%t, M=%t) at offset %d differs from parent (Z=%t, M=%t)",
					child.HasZ(), child.HasM(), childOff, hasZ, hasM,
				)
			}
			g.SetGeom(i, child)
		}
		return g, nil

	default:
		panic(errors.AssertionFailedf("unreachable shape type %v", shape))
	}
}
