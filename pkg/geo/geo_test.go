// Copyright 2025 The Quartz Authors.
//
// Use of this software is governed by the Quartz Software License
// included in the /LICENSE file.

package geo

import (
	"strings"
	"testing"

	"github.com/quartzdb/quartz/pkg/geo/geomem"
	"github.com/quartzdb/quartz/pkg/geo/geopb"
	"github.com/stretchr/testify/require"
)

func TestMakeGeometryFromSerialized(t *testing.T) {
	original := MustParseGeometry("SRID=4326;LINESTRING Z(1 2 3, 4 5 6)")

	g, err := MakeGeometryFromSerialized(original.Serialized(), 4326)
	require.NoError(t, err)
	require.Equal(t, original.SpatialObject(), g.SpatialObject())

	// The SRID is external to the payload and supplied by the caller.
	g, err = MakeGeometryFromSerialized(original.Serialized(), 3857)
	require.NoError(t, err)
	require.Equal(t, geopb.SRID(3857), g.SRID())

	_, err = MakeGeometryFromSerialized(geopb.SerializedGeometry("not a geometry"), 0)
	require.Error(t, err)

	_, err = MakeGeometryFromSerialized(nil, 0)
	require.Error(t, err)
}

func TestMakeGeometryFromTree(t *testing.T) {
	a := geomem.NewArena()
	va := geomem.MakeVertexArray(a, 2, false, false)
	va.Set(0, geomem.Vertex{X: 1, Y: 2})
	va.Set(1, geomem.Vertex{X: 3, Y: 4})

	g := MakeGeometryFromTree(geomem.MakeLineString(va), 4326)
	require.Equal(t, MustParseGeometry("SRID=4326;LINESTRING(1 2, 3 4)").SpatialObject(), g.SpatialObject())

	// The geometry survives the arena being reset.
	a.Reset()
	tree, err := g.AsTree(geomem.NewArena())
	require.NoError(t, err)
	require.Equal(t, []float64{1, 2, 3, 4}, tree.VertexArray().Data())
}

func TestGeometryAccessors(t *testing.T) {
	testCases := []struct {
		input     string
		shapeType geopb.ShapeType
		srid      geopb.SRID
		hasZ      bool
		hasM      bool
		empty     bool
	}{
		{"POINT(1 2)", geopb.ShapeType_Point, 0, false, false, false},
		{"SRID=4326;POINT Z(1 2 3)", geopb.ShapeType_Point, 4326, true, false, false},
		{"POINT M(1 2 3)", geopb.ShapeType_Point, 0, false, true, false},
		{"POINT ZM(1 2 3 4)", geopb.ShapeType_Point, 0, true, true, false},
		{"POINT EMPTY", geopb.ShapeType_Point, 0, false, false, true},
		{"LINESTRING(1 2, 3 4)", geopb.ShapeType_LineString, 0, false, false, false},
		{"POLYGON EMPTY", geopb.ShapeType_Polygon, 0, false, false, true},
		{"MULTILINESTRING(EMPTY, EMPTY)", geopb.ShapeType_MultiLineString, 0, false, false, true},
		{"MULTIPOLYGON Z(((0 0 1, 1 0 1, 1 1 1, 0 0 1)))", geopb.ShapeType_MultiPolygon, 0, true, false, false},
		{"GEOMETRYCOLLECTION(POINT EMPTY)", geopb.ShapeType_GeometryCollection, 0, false, false, true},
		{"GEOMETRYCOLLECTION(POINT EMPTY, POINT(1 2))", geopb.ShapeType_GeometryCollection, 0, false, false, false},
	}
	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			g := MustParseGeometry(tc.input)
			require.Equal(t, tc.shapeType, g.ShapeType())
			require.Equal(t, tc.srid, g.SRID())
			require.Equal(t, tc.hasZ, g.HasZ())
			require.Equal(t, tc.hasM, g.HasM())
			require.Equal(t, tc.empty, g.Empty())
			require.Equal(t, tc.empty, g.BoundingBoxRef() == nil)
		})
	}
}

func TestGeometryString(t *testing.T) {
	require.Equal(t, "SRID=4326;POINT (1 2)", MustParseGeometry("SRID=4326;POINT(1 2)").String())
	require.Equal(t, "POINT (1 2)", MustParseGeometry("POINT(1 2)").String())

	// The zero value carries no payload and cannot be printed as EWKT.
	var zero Geometry
	require.True(t, strings.HasPrefix(zero.String(), "<invalid geometry"))
}
