// Copyright 2025 The Quartz Authors.
//
// Use of this software is governed by the Quartz Software License
// included in the /LICENSE file.

// Package geogen generates random geometry trees for tests and benchmarks.
package geogen

import (
	"math/rand"

	"github.com/cockroachdb/errors"

	"github.com/quartzdb/quartz/pkg/geo/geomem"
	"github.com/quartzdb/quartz/pkg/geo/geopb"
)

// maxCollectionDepth bounds recursion when generating collections.
const maxCollectionDepth = 2

// RandomCoord returns a coordinate on a quarter-unit grid in [-100, 100).
// Grid-aligned values are exactly representable in decimal text, so
// generated geometries survive text round-trips without precision loss.
func RandomCoord(rng *rand.Rand) float64 {
	return float64(rng.Intn(800)-400) / 4
}

// RandomLayout returns a uniformly chosen Z/M dimensionality.
func RandomLayout(rng *rand.Rand) (hasZ bool, hasM bool) {
	return rng.Intn(2) == 0, rng.Intn(2) == 0
}

// RandomShapeType returns a uniformly chosen shape kind.
func RandomShapeType(rng *rand.Rand) geopb.ShapeType {
	return geopb.ShapeType(1 + rng.Intn(7))
}

// RandomVertexArray fills an arena-backed vertex array of count vertices
// with grid-aligned coordinates.
func RandomVertexArray(
	rng *rand.Rand, a *geomem.Arena, count int, hasZ bool, hasM bool,
) geomem.VertexArray {
	va := geomem.MakeVertexArray(a, count, hasZ, hasM)
	for i := 0; i < count; i++ {
		v := geomem.Vertex{X: RandomCoord(rng), Y: RandomCoord(rng)}
		if hasZ {
			v.Z = RandomCoord(rng)
		}
		if hasM {
			v.M = RandomCoord(rng)
		}
		va.Set(i, v)
	}
	return va
}

// randomRing returns a closed vertex array of 4 to 8 vertices. Closure is
// all the generator promises; rings may self-intersect.
func randomRing(rng *rand.Rand, a *geomem.Arena, hasZ bool, hasM bool) geomem.VertexArray {
	n := 3 + rng.Intn(5)
	va := geomem.MakeVertexArray(a, n+1, hasZ, hasM)
	for i := 0; i < n; i++ {
		v := geomem.Vertex{X: RandomCoord(rng), Y: RandomCoord(rng)}
		if hasZ {
			v.Z = RandomCoord(rng)
		}
		if hasM {
			v.M = RandomCoord(rng)
		}
		va.Set(i, v)
	}
	va.Set(n, va.Get(0))
	return va
}

// RandomPoint returns a random Point, EMPTY roughly one time in ten.
func RandomPoint(rng *rand.Rand, a *geomem.Arena, hasZ bool, hasM bool) geomem.Geometry {
	if rng.Intn(10) == 0 {
		return geomem.MakeEmptyPoint(hasZ, hasM)
	}
	return geomem.MakePoint(RandomVertexArray(rng, a, 1, hasZ, hasM))
}

// RandomLineString returns a random LineString, EMPTY roughly one time in
// ten.
func RandomLineString(rng *rand.Rand, a *geomem.Arena, hasZ bool, hasM bool) geomem.Geometry {
	if rng.Intn(10) == 0 {
		return geomem.MakeLineString(geomem.EmptyVertexArray(hasZ, hasM))
	}
	return geomem.MakeLineString(RandomVertexArray(rng, a, 2+rng.Intn(7), hasZ, hasM))
}

// RandomPolygon returns a random Polygon of up to 3 rings, EMPTY roughly
// one time in ten.
func RandomPolygon(rng *rand.Rand, a *geomem.Arena, hasZ bool, hasM bool) geomem.Geometry {
	if rng.Intn(10) == 0 {
		return geomem.MakePolygon(a, 0, hasZ, hasM)
	}
	numRings := 1 + rng.Intn(3)
	poly := geomem.MakePolygon(a, numRings, hasZ, hasM)
	for i := 0; i < numRings; i++ {
		poly.SetRing(i, randomRing(rng, a, hasZ, hasM))
	}
	return poly
}

// RandomMultiPoint returns a random MultiPoint of up to 5 members. Members
// are never EMPTY points, which cannot cross the external library boundary.
func RandomMultiPoint(rng *rand.Rand, a *geomem.Arena, hasZ bool, hasM bool) geomem.Geometry {
	n := rng.Intn(6)
	mp := geomem.MakeMultiPoint(a, n, hasZ, hasM)
	for i := 0; i < n; i++ {
		mp.SetGeom(i, geomem.MakePoint(RandomVertexArray(rng, a, 1, hasZ, hasM)))
	}
	return mp
}

// RandomMultiLineString returns a random MultiLineString of up to 4
// members, EMPTY members included.
func RandomMultiLineString(rng *rand.Rand, a *geomem.Arena, hasZ bool, hasM bool) geomem.Geometry {
	n := rng.Intn(5)
	mls := geomem.MakeMultiLineString(a, n, hasZ, hasM)
	for i := 0; i < n; i++ {
		mls.SetGeom(i, RandomLineString(rng, a, hasZ, hasM))
	}
	return mls
}

// RandomMultiPolygon returns a random MultiPolygon of up to 3 members,
// EMPTY members included.
func RandomMultiPolygon(rng *rand.Rand, a *geomem.Arena, hasZ bool, hasM bool) geomem.Geometry {
	n := rng.Intn(4)
	mpoly := geomem.MakeMultiPolygon(a, n, hasZ, hasM)
	for i := 0; i < n; i++ {
		mpoly.SetGeom(i, RandomPolygon(rng, a, hasZ, hasM))
	}
	return mpoly
}

// RandomGeometryCollection returns a random GeometryCollection of up to 3
// members of any kind, with nesting bounded.
func RandomGeometryCollection(
	rng *rand.Rand, a *geomem.Arena, hasZ bool, hasM bool,
) geomem.Geometry {
	return randomCollection(rng, a, hasZ, hasM, maxCollectionDepth)
}

func randomCollection(
	rng *rand.Rand, a *geomem.Arena, hasZ bool, hasM bool, depth int,
) geomem.Geometry {
	n := rng.Intn(4)
	gc := geomem.MakeGeometryCollection(a, n, hasZ, hasM)
	for i := 0; i < n; i++ {
		gc.SetGeom(i, randomShape(rng, a, RandomShapeType(rng), hasZ, hasM, depth-1))
	}
	return gc
}

func randomShape(
	rng *rand.Rand, a *geomem.Arena, shape geopb.ShapeType, hasZ bool, hasM bool, depth int,
) geomem.Geometry {
	switch shape {
	case geopb.ShapeType_Point:
		return RandomPoint(rng, a, hasZ, hasM)
	case geopb.ShapeType_LineString:
		return RandomLineString(rng, a, hasZ, hasM)
	case geopb.ShapeType_Polygon:
		return RandomPolygon(rng, a, hasZ, hasM)
	case geopb.ShapeType_MultiPoint:
		return RandomMultiPoint(rng, a, hasZ, hasM)
	case geopb.ShapeType_MultiLineString:
		return RandomMultiLineString(rng, a, hasZ, hasM)
	case geopb.ShapeType_MultiPolygon:
		return RandomMultiPolygon(rng, a, hasZ, hasM)
	case geopb.ShapeType_GeometryCollection:
		if depth <= 0 {
			return RandomPoint(rng, a, hasZ, hasM)
		}
		return randomCollection(rng, a, hasZ, hasM, depth)
	default:
		panic(errors.AssertionFailedf("unknown shape type %v", shape))
	}
}

// RandomGeometry returns a random tree of any kind and dimensionality.
func RandomGeometry(rng *rand.Rand, a *geomem.Arena) geomem.Geometry {
	hasZ, hasM := RandomLayout(rng)
	return RandomGeometryWithLayout(rng, a, hasZ, hasM)
}

// RandomGeometryWithLayout returns a random tree of any kind with the given
// dimensionality.
func RandomGeometryWithLayout(
	rng *rand.Rand, a *geomem.Arena, hasZ bool, hasM bool,
) geomem.Geometry {
	return randomShape(rng, a, RandomShapeType(rng), hasZ, hasM, maxCollectionDepth)
}
