// Copyright 2025 The Quartz Authors.
//
// Use of this software is governed by the Quartz Software License
// included in the /LICENSE file.

package geo

import (
	"encoding/hex"
	"testing"

	"github.com/quartzdb/quartz/pkg/geo/geopb"
	"github.com/quartzdb/quartz/pkg/geo/wkt"
	"github.com/stretchr/testify/require"
)

// Hand-assembled little-endian fixtures for POINT (1 2).
const (
	wkbHexPoint12      = "0101000000000000000000F03F0000000000000040"
	ewkbHexPoint12SRID = "0101000020E6100000000000000000F03F0000000000000040"
)

func TestParseGeometry(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		shape geopb.ShapeType
		srid  geopb.SRID
		flat  []float64
		bbox  *geopb.BoundingBox
	}{
		{
			name:  "wkt point",
			input: "POINT(1 2)",
			shape: geopb.ShapeType_Point,
			srid:  0,
			flat:  []float64{1, 2},
			bbox:  &geopb.BoundingBox{LoX: 1, HiX: 1, LoY: 2, HiY: 2},
		},
		{
			name:  "ewkt point with srid",
			input: "SRID=4326;POINT(1 2)",
			shape: geopb.ShapeType_Point,
			srid:  4326,
			flat:  []float64{1, 2},
			bbox:  &geopb.BoundingBox{LoX: 1, HiX: 1, LoY: 2, HiY: 2},
		},
		{
			name:  "ewkt zero srid prefix",
			input: "SRID=0;POINT(1 2)",
			shape: geopb.ShapeType_Point,
			srid:  0,
			flat:  []float64{1, 2},
			bbox:  &geopb.BoundingBox{LoX: 1, HiX: 1, LoY: 2, HiY: 2},
		},
		{
			name:  "surrounding whitespace",
			input: "  POINT(1 2)\t",
			shape: geopb.ShapeType_Point,
			srid:  0,
			flat:  []float64{1, 2},
			bbox:  &geopb.BoundingBox{LoX: 1, HiX: 1, LoY: 2, HiY: 2},
		},
		{
			name:  "lowercase keyword",
			input: "point(-3.25 4)",
			shape: geopb.ShapeType_Point,
			srid:  0,
			flat:  []float64{-3.25, 4},
			bbox:  &geopb.BoundingBox{LoX: -3.25, HiX: -3.25, LoY: 4, HiY: 4},
		},
		{
			name:  "empty point",
			input: "POINT EMPTY",
			shape: geopb.ShapeType_Point,
			srid:  0,
			flat:  nil,
			bbox:  nil,
		},
		{
			name:  "linestring",
			input: "LINESTRING(1 2, 3 4)",
			shape: geopb.ShapeType_LineString,
			srid:  0,
			flat:  []float64{1, 2, 3, 4},
			bbox:  &geopb.BoundingBox{LoX: 1, HiX: 3, LoY: 2, HiY: 4},
		},
		{
			name:  "hex wkb point",
			input: wkbHexPoint12,
			shape: geopb.ShapeType_Point,
			srid:  0,
			flat:  []float64{1, 2},
			bbox:  &geopb.BoundingBox{LoX: 1, HiX: 1, LoY: 2, HiY: 2},
		},
		{
			name:  "hex ewkb point with srid",
			input: ewkbHexPoint12SRID,
			shape: geopb.ShapeType_Point,
			srid:  4326,
			flat:  []float64{1, 2},
			bbox:  &geopb.BoundingBox{LoX: 1, HiX: 1, LoY: 2, HiY: 2},
		},
		{
			name:  "raw ewkb bytes",
			input: string(mustHexDecode(ewkbHexPoint12SRID)),
			shape: geopb.ShapeType_Point,
			srid:  4326,
			flat:  []float64{1, 2},
			bbox:  &geopb.BoundingBox{LoX: 1, HiX: 1, LoY: 2, HiY: 2},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			g, err := ParseGeometry(tc.input)
			require.NoError(t, err)
			require.Equal(t, tc.shape, g.ShapeType())
			require.Equal(t, tc.srid, g.SRID())
			require.Equal(t, tc.bbox, g.BoundingBoxRef())
			require.Equal(t, tc.bbox == nil, g.Empty())

			geomT, err := g.AsGeomT()
			require.NoError(t, err)
			require.Equal(t, int(tc.srid), geomT.SRID())
			if len(tc.flat) == 0 {
				require.Empty(t, geomT.FlatCoords())
			} else {
				require.Equal(t, tc.flat, geomT.FlatCoords())
			}
		})
	}
}

func mustHexDecode(s string) []byte {
	b, err := hex.DecodeString(s)
	if err != nil {
		panic(err)
	}
	return b
}

func TestParseGeometryFromEWKT(t *testing.T) {
	testCases := []struct {
		name        string
		ewkt        geopb.EWKT
		defaultSRID geopb.SRID
		expected    geopb.SRID
	}{
		{"no prefix takes default", "POINT(1 2)", 4326, 4326},
		{"prefix overrides default", "SRID=4004;POINT(1 2)", 4326, 4004},
		{"zero prefix keeps default", "SRID=0;POINT(1 2)", 4326, 4326},
		{"no prefix no default", "POINT(1 2)", 0, 0},
		// The case-sensitive facade prefix check does not fire here; the
		// parser itself discards the prefix and the default stands.
		{"lowercase prefix is discarded", "srid=4004;POINT(1 2)", 4326, 4326},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			g, err := ParseGeometryFromEWKT(tc.ewkt, tc.defaultSRID)
			require.NoError(t, err)
			require.Equal(t, tc.expected, g.SRID())
			require.Equal(t, geopb.ShapeType_Point, g.ShapeType())
		})
	}

	t.Run("missing semicolon", func(t *testing.T) {
		_, err := ParseGeometryFromEWKT("SRID=4326 POINT(1 2)", 0)
		require.Error(t, err)
		require.Contains(t, err.Error(), "failed to find ; character")
	})
	t.Run("bad srid digits", func(t *testing.T) {
		_, err := ParseGeometryFromEWKT("SRID=abc;POINT(1 2)", 0)
		require.Error(t, err)
	})
}

func TestParseGeometryFromWKB(t *testing.T) {
	wkbBytes := geopb.WKB(mustHexDecode(wkbHexPoint12))

	g, err := ParseGeometryFromWKB(wkbBytes, geopb.WGS84SRID)
	require.NoError(t, err)
	require.Equal(t, geopb.WGS84SRID, g.SRID())
	require.Equal(t, geopb.ShapeType_Point, g.ShapeType())
	require.Equal(t, &geopb.BoundingBox{LoX: 1, HiX: 1, LoY: 2, HiY: 2}, g.BoundingBoxRef())

	g, err = ParseGeometryFromWKB(wkbBytes, 0)
	require.NoError(t, err)
	require.Equal(t, geopb.SRID(0), g.SRID())

	_, err = ParseGeometryFromWKB(wkbBytes[:8], 0)
	require.Error(t, err)
}

func TestParseGeometryFromEWKB(t *testing.T) {
	g, err := ParseGeometryFromEWKB(geopb.EWKB(mustHexDecode(ewkbHexPoint12SRID)))
	require.NoError(t, err)
	require.Equal(t, geopb.SRID(4326), g.SRID())
	require.Equal(t, geopb.ShapeType_Point, g.ShapeType())

	_, err = ParseGeometryFromEWKB(geopb.EWKB{0x01})
	require.Error(t, err)
}

func TestMustParseGeometry(t *testing.T) {
	g := MustParseGeometry("SRID=4326;POINT(1 2)")
	require.Equal(t, geopb.SRID(4326), g.SRID())

	require.Panics(t, func() {
		MustParseGeometry("POINT(1 x)")
	})
}

func TestParseGeometryErrors(t *testing.T) {
	t.Run("empty input", func(t *testing.T) {
		_, err := ParseGeometry("")
		require.EqualError(t, err, "geo: parsing empty string to geo type")
		_, err = ParseGeometry("   ")
		require.EqualError(t, err, "geo: parsing empty string to geo type")
	})
	t.Run("wkt errors carry position and context", func(t *testing.T) {
		_, err := ParseGeometry("POINT(1 x)")
		require.EqualError(t, err, "expected number at position 8 near: 'POINT(1 x'|<---")

		var parseErr *wkt.ParseError
		require.ErrorAs(t, err, &parseErr)
		require.Equal(t, 8, parseErr.Offset)
	})
	t.Run("bad hex", func(t *testing.T) {
		_, err := ParseGeometry("0XYZ")
		require.Error(t, err)
	})
}
