// Copyright 2025 The Quartz Authors.
//
// Use of this software is governed by the Quartz Software License
// included in the /LICENSE file.

package geo

import (
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/quartzdb/quartz/pkg/geo/geomem"
	"github.com/quartzdb/quartz/pkg/geo/geopb"
	"github.com/quartzdb/quartz/pkg/geo/wkt"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/ewkb"
	"github.com/twpayne/go-geom/encoding/ewkbhex"
	"github.com/twpayne/go-geom/encoding/wkb"
)

// ParseGeometry parses a Geometry from any of the text forms accepted for
// the direct cast from a string: hex-encoded EWKB, raw EWKB bytes, or
// (E)WKT, told apart by the first character the way PostGIS does it.
func ParseGeometry(str string) (Geometry, error) {
	return parseAmbiguousText(str, geopb.DefaultGeometrySRID)
}

// MustParseGeometry parses a Geometry, panicking on any error. For use in
// tests and constant initializers only.
func MustParseGeometry(str string) Geometry {
	g, err := ParseGeometry(str)
	if err != nil {
		panic(err)
	}
	return g
}

// ParseGeometryFromEWKT parses an EWKT string. An SRID=n; prefix overrides
// defaultSRID unless the declared SRID is zero.
func ParseGeometryFromEWKT(ewkt geopb.EWKT, defaultSRID geopb.SRID) (Geometry, error) {
	return decodeEWKT(string(ewkt), defaultSRID)
}

// ParseGeometryFromWKB parses ISO WKB bytes, stamping the result with the
// given SRID.
func ParseGeometryFromWKB(wkbBytes geopb.WKB, srid geopb.SRID) (Geometry, error) {
	t, err := wkb.Unmarshal(wkbBytes)
	if err != nil {
		return Geometry{}, err
	}
	if srid != 0 {
		adjustGeomSRID(t, srid)
	}
	return MakeGeometryFromGeomT(t)
}

// ParseGeometryFromEWKB parses EWKB bytes, taking the SRID embedded in the
// blob.
func ParseGeometryFromEWKB(b geopb.EWKB) (Geometry, error) {
	t, err := ewkb.Unmarshal(b)
	if err != nil {
		return Geometry{}, err
	}
	return MakeGeometryFromGeomT(t)
}

// parseAmbiguousText parses a text as a number of different formats
// available in the geospatial world, using the first character as a
// heuristic.
func parseAmbiguousText(str string, defaultSRID geopb.SRID) (Geometry, error) {
	str = strings.TrimSpace(str)
	if len(str) == 0 {
		return Geometry{}, errors.Newf("geo: parsing empty string to geo type")
	}

	switch str[0] {
	case '0':
		// Hex-encoded EWKB.
		t, err := ewkbhex.Decode(str)
		if err != nil {
			return Geometry{}, err
		}
		if defaultSRID != 0 && t.SRID() == 0 {
			adjustGeomSRID(t, defaultSRID)
		}
		return MakeGeometryFromGeomT(t)
	case 0x00, 0x01:
		// Raw EWKB bytes.
		t, err := ewkb.Unmarshal([]byte(str))
		if err != nil {
			return Geometry{}, err
		}
		if defaultSRID != 0 && t.SRID() == 0 {
			adjustGeomSRID(t, defaultSRID)
		}
		return MakeGeometryFromGeomT(t)
	default:
		return decodeEWKT(str, defaultSRID)
	}
}

// adjustGeomSRID adjusts the SRID of a given geom.T.
// Ideally SetSRID is an interface of geom.T, but that is not the case.
func adjustGeomSRID(t geom.T, srid geopb.SRID) {
	switch t := t.(type) {
	case *geom.Point:
		t.SetSRID(int(srid))
	case *geom.LineString:
		t.SetSRID(int(srid))
	case *geom.Polygon:
		t.SetSRID(int(srid))
	case *geom.MultiPoint:
		t.SetSRID(int(srid))
	case *geom.MultiLineString:
		t.SetSRID(int(srid))
	case *geom.MultiPolygon:
		t.SetSRID(int(srid))
	case *geom.GeometryCollection:
		t.SetSRID(int(srid))
	default:
		panic(errors.AssertionFailedf("unknown geom type: %T", t))
	}
}

const sridPrefix = "SRID="
const sridPrefixLen = len(sridPrefix)

// decodeEWKT decodes an EWKT string, splitting off an optional SRID=n;
// prefix before handing the rest to the WKT parser.
func decodeEWKT(str string, defaultSRID geopb.SRID) (Geometry, error) {
	srid := defaultSRID
	if strings.HasPrefix(str, sridPrefix) {
		end := strings.Index(str[sridPrefixLen:], ";")
		if end == -1 {
			return Geometry{}, errors.Newf(
				"failed to find ; character with SRID declaration during EWKT decode: %q",
				str,
			)
		}
		sridInt64, err := strconv.ParseInt(str[sridPrefixLen:sridPrefixLen+end], 10, 32)
		if err != nil {
			return Geometry{}, err
		}
		// Only override the SRID if the declared SRID is not zero. This is in
		// line with observed PostGIS behavior.
		if sridInt64 != 0 {
			srid = geopb.SRID(sridInt64)
		}
		str = str[sridPrefixLen+end+1:]
	}

	tree, err := wkt.Parse(geomem.NewArena(), str)
	if err != nil {
		return Geometry{}, err
	}
	return MakeGeometryFromTree(tree, srid), nil
}
