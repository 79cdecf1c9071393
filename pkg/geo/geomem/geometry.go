// Copyright 2025 The Quartz Authors.
//
// Use of this software is governed by the Quartz Software License
// included in the /LICENSE file.

// Package geomem implements the in-memory geometry model: an arena
// allocator, flat vertex storage, the geometry tree built from them, and
// the binary codec that turns a tree into its serialized storage form and
// back.
//
// Ownership is uniform: every Geometry and all storage it transitively
// references belong to exactly one Arena, and stay valid exactly as long as
// that arena is not Reset. The tree is an ownership DAG with no
// back-references, so nothing here is reference counted and nothing is
// individually freed.
//
// Nothing in this package synchronizes. All operations are synchronous and
// single-threaded; callers that want parallelism run independent batches
// with independent arenas.
package geomem

import (
	"github.com/cockroachdb/errors"

	"github.com/quartzdb/quartz/pkg/geo/geopb"
)

// Geometry is a tagged variant over the seven shape kinds. The kinds are a
// closed set (the OGC model), so every traversal dispatches with an
// exhaustive switch on ShapeType rather than through an interface; the cost
// of updating each traversal when a kind would be added is accepted, since
// the set is stable.
//
// Exactly one of the payload fields is populated for a given shape:
// Point and LineString wrap a single VertexArray, Polygon an ordered ring
// sequence (ring 0 the shell, the rest holes), and the multi/collection
// kinds a pre-sized child sequence. Child storage is arena-owned; a
// Geometry is a cheap value to copy and pass around within its batch.
type Geometry struct {
	shape geopb.ShapeType
	hasZ  bool
	hasM  bool
	verts VertexArray
	rings []VertexArray
	geoms []Geometry
}

// MakePoint returns a Point wrapping va, which must hold zero or one
// vertex.
func MakePoint(va VertexArray) Geometry {
	if va.Count() > 1 {
		panic(errors.AssertionFailedf("point vertex array has %d vertices", va.Count()))
	}
	return Geometry{shape: geopb.ShapeType_Point, hasZ: va.HasZ(), hasM: va.HasM(), verts: va}
}

// MakeEmptyPoint returns POINT EMPTY with the given dimensionality.
func MakeEmptyPoint(hasZ, hasM bool) Geometry {
	return MakePoint(EmptyVertexArray(hasZ, hasM))
}

// MakeLineString returns a LineString wrapping va.
func MakeLineString(va VertexArray) Geometry {
	return Geometry{shape: geopb.ShapeType_LineString, hasZ: va.HasZ(), hasM: va.HasM(), verts: va}
}

// MakePolygon returns a Polygon with storage for numRings rings, to be
// filled by SetRing. Zero rings is POLYGON EMPTY.
func MakePolygon(a *Arena, numRings int, hasZ, hasM bool) Geometry {
	g := Geometry{shape: geopb.ShapeType_Polygon, hasZ: hasZ, hasM: hasM}
	if numRings > 0 {
		g.rings = a.AllocVertexArrays(numRings)
		for i := range g.rings {
			g.rings[i] = EmptyVertexArray(hasZ, hasM)
		}
	}
	return g
}

// MakeMultiPoint returns a MultiPoint with storage for numPoints children,
// to be filled by SetGeom.
func MakeMultiPoint(a *Arena, numPoints int, hasZ, hasM bool) Geometry {
	return makeCollection(a, geopb.ShapeType_MultiPoint, numPoints, hasZ, hasM)
}

// MakeMultiLineString returns a MultiLineString with storage for numLines
// children, to be filled by SetGeom.
func MakeMultiLineString(a *Arena, numLines int, hasZ, hasM bool) Geometry {
	return makeCollection(a, geopb.ShapeType_MultiLineString, numLines, hasZ, hasM)
}

// MakeMultiPolygon returns a MultiPolygon with storage for numPolygons
// children, to be filled by SetGeom.
func MakeMultiPolygon(a *Arena, numPolygons int, hasZ, hasM bool) Geometry {
	return makeCollection(a, geopb.ShapeType_MultiPolygon, numPolygons, hasZ, hasM)
}

// MakeGeometryCollection returns a GeometryCollection with storage for
// numGeoms children of any kind, to be filled by SetGeom.
func MakeGeometryCollection(a *Arena, numGeoms int, hasZ, hasM bool) Geometry {
	return makeCollection(a, geopb.ShapeType_GeometryCollection, numGeoms, hasZ, hasM)
}

func makeCollection(a *Arena, shape geopb.ShapeType, n int, hasZ, hasM bool) Geometry {
	g := Geometry{shape: shape, hasZ: hasZ, hasM: hasM}
	if n > 0 {
		g.geoms = a.AllocGeometries(n)
		// Pre-populate with EMPTY children of the right kind so a
		// partially filled collection is still a well-formed tree.
		childShape := shape.SingularType()
		if childShape == geopb.ShapeType_Unset {
			childShape = geopb.ShapeType_Point
		}
		for i := range g.geoms {
			g.geoms[i] = makeEmptyShape(a, childShape, hasZ, hasM)
		}
	}
	return g
}

func makeEmptyShape(a *Arena, shape geopb.ShapeType, hasZ, hasM bool) Geometry {
	switch shape {
	case geopb.ShapeType_Point, geopb.ShapeType_LineString:
		return Geometry{shape: shape, hasZ: hasZ, hasM: hasM, verts: EmptyVertexArray(hasZ, hasM)}
	case geopb.ShapeType_Polygon, geopb.ShapeType_MultiPoint, geopb.ShapeType_MultiLineString,
		geopb.ShapeType_MultiPolygon, geopb.ShapeType_GeometryCollection:
		return Geometry{shape: shape, hasZ: hasZ, hasM: hasM}
	default:
		panic(errors.AssertionFailedf("unknown shape type %v", shape))
	}
}

// SetRing assigns ring i of a Polygon. The ring's dimensionality must match
// the polygon's.
func (g *Geometry) SetRing(i int, ring VertexArray) {
	if g.shape != geopb.ShapeType_Polygon {
		panic(errors.AssertionFailedf("SetRing on %v", g.shape))
	}
	if ring.HasZ() != g.hasZ || ring.HasM() != g.hasM {
		panic(errors.AssertionFailedf(
			"ring dimensionality (Z=%t, M=%t) differs from polygon (Z=%t, M=%t)",
			ring.HasZ(), ring.HasM(), g.hasZ, g.hasM,
		))
	}
	g.rings[i] = ring
}

// SetGeom assigns child i of a multi-shape or collection. The child's kind
// and dimensionality must fit the parent; a tree is uniform in Z/M by
// construction.
func (g *Geometry) SetGeom(i int, child Geometry) {
	switch g.shape {
	case geopb.ShapeType_MultiPoint, geopb.ShapeType_MultiLineString, geopb.ShapeType_MultiPolygon:
		if child.shape != g.shape.SingularType() {
			panic(errors.AssertionFailedf("%v child in %v", child.shape, g.shape))
		}
	case geopb.ShapeType_GeometryCollection:
	default:
		panic(errors.AssertionFailedf("SetGeom on %v", g.shape))
	}
	if child.hasZ != g.hasZ || child.hasM != g.hasM {
		panic(errors.AssertionFailedf(
			"child dimensionality (Z=%t, M=%t) differs from parent (Z=%t, M=%t)",
			child.hasZ, child.hasM, g.hasZ, g.hasM,
		))
	}
	g.geoms[i] = child
}

// ShapeType returns the shape kind.
func (g Geometry) ShapeType() geopb.ShapeType {
	return g.shape
}

// HasZ returns whether every vertex in the tree carries a Z ordinate.
func (g Geometry) HasZ() bool {
	return g.hasZ
}

// HasM returns whether every vertex in the tree carries an M ordinate.
func (g Geometry) HasM() bool {
	return g.hasM
}

// Stride returns the number of doubles per vertex throughout the tree.
func (g Geometry) Stride() int {
	return Stride(g.hasZ, g.hasM)
}

// VertexArray returns the vertex storage of a Point or LineString.
func (g Geometry) VertexArray() VertexArray {
	switch g.shape {
	case geopb.ShapeType_Point, geopb.ShapeType_LineString:
		return g.verts
	default:
		panic(errors.AssertionFailedf("VertexArray on %v", g.shape))
	}
}

// NumRings returns the ring count of a Polygon, zero for POLYGON EMPTY and
// for any non-polygon shape.
func (g Geometry) NumRings() int {
	return len(g.rings)
}

// Ring returns ring i of a Polygon; ring 0 is the shell.
func (g Geometry) Ring(i int) VertexArray {
	if g.shape != geopb.ShapeType_Polygon {
		panic(errors.AssertionFailedf("Ring on %v", g.shape))
	}
	return g.rings[i]
}

// NumGeoms returns the child count of a multi-shape or collection, zero for
// the EMPTY variants and for leaf shapes.
func (g Geometry) NumGeoms() int {
	return len(g.geoms)
}

// Geom returns child i of a multi-shape or collection.
func (g Geometry) Geom(i int) Geometry {
	if !g.shape.IsCollection() {
		panic(errors.AssertionFailedf("Geom on %v", g.shape))
	}
	return g.geoms[i]
}

// IsEmpty reports whether the tree contains no vertices at all. A composite
// is empty when it has no children or only empty children.
func (g Geometry) IsEmpty() bool {
	switch g.shape {
	case geopb.ShapeType_Point, geopb.ShapeType_LineString:
		return g.verts.IsEmpty()
	case geopb.ShapeType_Polygon:
		for _, ring := range g.rings {
			if !ring.IsEmpty() {
				return false
			}
		}
		return true
	case geopb.ShapeType_MultiPoint, geopb.ShapeType_MultiLineString,
		geopb.ShapeType_MultiPolygon, geopb.ShapeType_GeometryCollection:
		for _, child := range g.geoms {
			if !child.IsEmpty() {
				return false
			}
		}
		return true
	default:
		panic(errors.AssertionFailedf("unknown shape type %v", g.shape))
	}
}
