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

// Serialized layout. Every geometry, nested ones included, starts with a
// two byte header: the shape kind (the ISO WKB base code, 1..7) followed
// by a flag byte carrying the Z and M bits. The payload is a pre-order
// traversal with every count written as a little-endian uint32 before the
// data it sizes, and vertex data packed as little-endian doubles in
// x, y, [z], [m] order. Children of a composite carry full headers of
// their own; their flags must agree with the parent's.
const (
	serializedHeaderSize = 2

	serializedHasZ byte = 1 << 0
	serializedHasM byte = 1 << 1

	serializedReservedMask = ^byte(serializedHasZ | serializedHasM)
)

func serializedFlags(hasZ, hasM bool) byte {
	var flags byte
	if hasZ {
		flags |= serializedHasZ
	}
	if hasM {
		flags |= serializedHasM
	}
	return flags
}

// SerializedSize returns the exact number of bytes Serialize produces
// for g.
func SerializedSize(g Geometry) int {
	size := serializedHeaderSize
	switch g.ShapeType() {
	case geopb.ShapeType_Point, geopb.ShapeType_LineString:
		size += 4 + 8*len(g.verts.data)
	case geopb.ShapeType_Polygon:
		size += 4
		for _, ring := range g.rings {
			size += 4 + 8*len(ring.data)
		}
	case geopb.ShapeType_MultiPoint, geopb.ShapeType_MultiLineString,
		geopb.ShapeType_MultiPolygon, geopb.ShapeType_GeometryCollection:
		size += 4
		for _, child := range g.geoms {
			size += SerializedSize(child)
		}
	default:
		panic(errors.AssertionFailedf("unknown shape type %v", g.ShapeType()))
	}
	return size
}

// Serialize encodes g into its storage form. The returned buffer is
// ordinary heap memory with no ties to the arena that owns g; it is the
// only form in which a geometry may outlive its batch.
func Serialize(g Geometry) geopb.SerializedGeometry {
	buf := make([]byte, 0, SerializedSize(g))
	buf = appendGeometry(buf, g)
	return geopb.SerializedGeometry(buf)
}

func appendGeometry(buf []byte, g Geometry) []byte {
	buf = append(buf, byte(g.shape), serializedFlags(g.hasZ, g.hasM))
	switch g.shape {
	case geopb.ShapeType_Point, geopb.ShapeType_LineString:
		buf = appendVertexArray(buf, g.verts)
	case geopb.ShapeType_Polygon:
		buf = binary.LittleEndian.AppendUint32(buf, uint32(len(g.rings)))
		for _, ring := range g.rings {
			buf = appendVertexArray(buf, ring)
		}
	case geopb.ShapeType_MultiPoint, geopb.ShapeType_MultiLineString,
		geopb.ShapeType_MultiPolygon, geopb.ShapeType_GeometryCollection:
		buf = binary.LittleEndian.AppendUint32(buf, uint32(len(g.geoms)))
		for _, child := range g.geoms {
			buf = appendGeometry(buf, child)
		}
	default:
		panic(errors.AssertionFailedf("unknown shape type %v", g.shape))
	}
	return buf
}

func appendVertexArray(buf []byte, va VertexArray) []byte {
	buf = binary.LittleEndian.AppendUint32(buf, uint32(va.Count()))
	for _, ordinate := range va.data {
		buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(ordinate))
	}
	return buf
}
