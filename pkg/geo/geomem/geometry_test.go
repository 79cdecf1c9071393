// Copyright 2025 The Quartz Authors.
//
// Use of this software is governed by the Quartz Software License
// included in the /LICENSE file.

package geomem

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/quartzdb/quartz/pkg/geo/geopb"
)

// testVA builds an arena-backed vertex array from flat coordinate data.
func testVA(a *Arena, hasZ, hasM bool, coords ...float64) VertexArray {
	return CopyVertexArray(a, coords, len(coords)/Stride(hasZ, hasM), hasZ, hasM)
}

func TestMakePoint(t *testing.T) {
	a := NewArena()

	pt := MakePoint(testVA(a, false, false, 1, 2))
	require.Equal(t, geopb.ShapeType_Point, pt.ShapeType())
	require.False(t, pt.IsEmpty())
	require.Equal(t, Vertex{X: 1, Y: 2}, pt.VertexArray().Get(0))

	empty := MakeEmptyPoint(true, false)
	require.True(t, empty.IsEmpty())
	require.True(t, empty.HasZ())
	require.False(t, empty.HasM())

	require.Panics(t, func() {
		MakePoint(testVA(a, false, false, 1, 2, 3, 4))
	})
}

func TestMakeLineString(t *testing.T) {
	a := NewArena()
	ls := MakeLineString(testVA(a, true, true, 1, 2, 3, 4, 5, 6, 7, 8))
	require.Equal(t, geopb.ShapeType_LineString, ls.ShapeType())
	require.Equal(t, 2, ls.VertexArray().Count())
	require.Equal(t, 4, ls.Stride())
	require.False(t, ls.IsEmpty())
}

func TestMakePolygon(t *testing.T) {
	a := NewArena()

	poly := MakePolygon(a, 2, false, false)
	poly.SetRing(0, testVA(a, false, false, 0, 0, 4, 0, 4, 4, 0, 4, 0, 0))
	poly.SetRing(1, testVA(a, false, false, 1, 1, 2, 1, 2, 2, 1, 2, 1, 1))

	require.Equal(t, geopb.ShapeType_Polygon, poly.ShapeType())
	require.Equal(t, 2, poly.NumRings())
	require.Equal(t, 5, poly.Ring(0).Count())
	require.False(t, poly.IsEmpty())

	empty := MakePolygon(a, 0, false, true)
	require.Zero(t, empty.NumRings())
	require.True(t, empty.IsEmpty())
	require.True(t, empty.HasM())
}

func TestSetRingValidation(t *testing.T) {
	a := NewArena()

	poly := MakePolygon(a, 1, true, false)
	require.Panics(t, func() {
		poly.SetRing(0, testVA(a, false, false, 0, 0, 1, 0, 0, 1, 0, 0))
	}, "XY ring in XYZ polygon")

	pt := MakeEmptyPoint(false, false)
	require.Panics(t, func() {
		pt.SetRing(0, EmptyVertexArray(false, false))
	}, "SetRing on a point")
}

func TestCollections(t *testing.T) {
	a := NewArena()

	mp := MakeMultiPoint(a, 2, false, false)
	mp.SetGeom(0, MakePoint(testVA(a, false, false, 1, 1)))
	mp.SetGeom(1, MakePoint(testVA(a, false, false, 2, 2)))
	require.Equal(t, 2, mp.NumGeoms())
	require.Equal(t, Vertex{X: 2, Y: 2}, mp.Geom(1).VertexArray().Get(0))

	mls := MakeMultiLineString(a, 1, false, false)
	mls.SetGeom(0, MakeLineString(testVA(a, false, false, 0, 0, 1, 1)))
	require.False(t, mls.IsEmpty())

	mpoly := MakeMultiPolygon(a, 1, false, false)
	poly := MakePolygon(a, 1, false, false)
	poly.SetRing(0, testVA(a, false, false, 0, 0, 1, 0, 0, 1, 0, 0))
	mpoly.SetGeom(0, poly)
	require.Equal(t, 1, mpoly.Geom(0).NumRings())

	gc := MakeGeometryCollection(a, 2, false, false)
	gc.SetGeom(0, mp)
	gc.SetGeom(1, poly)
	require.Equal(t, geopb.ShapeType_MultiPoint, gc.Geom(0).ShapeType())
	require.Equal(t, geopb.ShapeType_Polygon, gc.Geom(1).ShapeType())
}

func TestSetGeomValidation(t *testing.T) {
	a := NewArena()

	mp := MakeMultiPoint(a, 1, false, false)
	require.Panics(t, func() {
		mp.SetGeom(0, MakeLineString(testVA(a, false, false, 0, 0, 1, 1)))
	}, "line child in multipoint")

	gc := MakeGeometryCollection(a, 1, true, false)
	require.Panics(t, func() {
		gc.SetGeom(0, MakeEmptyPoint(false, false))
	}, "XY child in XYZ collection")

	pt := MakeEmptyPoint(false, false)
	require.Panics(t, func() {
		pt.SetGeom(0, MakeEmptyPoint(false, false))
	}, "SetGeom on a point")
}

func TestAccessorShapeValidation(t *testing.T) {
	a := NewArena()
	poly := MakePolygon(a, 0, false, false)
	pt := MakeEmptyPoint(false, false)

	require.Panics(t, func() { poly.VertexArray() })
	require.Panics(t, func() { pt.Ring(0) })
	require.Panics(t, func() { pt.Geom(0) })
}

func TestIsEmptyRecursive(t *testing.T) {
	a := NewArena()

	// A collection of nothing but EMPTY members is itself empty.
	gc := MakeGeometryCollection(a, 2, false, false)
	gc.SetGeom(0, MakeEmptyPoint(false, false))
	gc.SetGeom(1, MakePolygon(a, 0, false, false))
	require.True(t, gc.IsEmpty())

	mp := MakeMultiPolygon(a, 1, false, false)
	require.True(t, mp.Geom(0).IsEmpty())
	require.True(t, mp.IsEmpty())

	// One real vertex anywhere makes the whole tree non-empty.
	gc2 := MakeGeometryCollection(a, 2, false, false)
	gc2.SetGeom(0, MakeEmptyPoint(false, false))
	gc2.SetGeom(1, MakePoint(testVA(a, false, false, 3, 4)))
	require.False(t, gc2.IsEmpty())
}
