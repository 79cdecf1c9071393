// Copyright 2025 The Quartz Authors.
//
// Use of this software is governed by the Quartz Software License
// included in the /LICENSE file.

package geo

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/pierrre/geohash"
	"github.com/quartzdb/quartz/pkg/geo/geomem"
	"github.com/quartzdb/quartz/pkg/geo/geopb"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/ewkb"
	"github.com/twpayne/go-geom/encoding/ewkbhex"
	"github.com/twpayne/go-geom/encoding/geojson"
	"github.com/twpayne/go-geom/encoding/kml"
	"github.com/twpayne/go-geom/encoding/wkb"
	"github.com/twpayne/go-geom/encoding/wkbcommon"
	"github.com/twpayne/go-geom/encoding/wkbhex"
	"github.com/twpayne/go-geom/encoding/wkt"
)

// DefaultEWKBEncodingFormat is the byte order used whenever the package
// encodes WKB or EWKB without an explicit byte order.
var DefaultEWKBEncodingFormat binary.ByteOrder = binary.LittleEndian

// DefaultWKTDecimalDigits is the maximum number of decimal digits in WKT
// output when the caller does not specify one. Matches the ST_AsText
// default in PostGIS.
const DefaultWKTDecimalDigits = 15

// DefaultGeoJSONDecimalDigits is the default number of decimal digits of
// coordinates in GeoJSON.
const DefaultGeoJSONDecimalDigits = 9

// spatialObjectToGeomT decodes the serialized payload of a spatial object
// and converts it into a go-geom geometry carrying the object's SRID.
func spatialObjectToGeomT(so geopb.SpatialObject) (geom.T, error) {
	tree, err := geomem.Deserialize(geomem.NewArena(), so.Serialized)
	if err != nil {
		return nil, err
	}
	return treeToGeomT(tree, so.SRID)
}

// SpatialObjectToWKT transforms a given SpatialObject to WKT.
func SpatialObjectToWKT(so geopb.SpatialObject, maxDecimalDigits int) (geopb.WKT, error) {
	t, err := spatialObjectToGeomT(so)
	if err != nil {
		return "", err
	}
	ret, err := wkt.Marshal(t, wkt.EncodeOptionWithMaxDecimalDigits(maxDecimalDigits))
	return geopb.WKT(ret), err
}

// SpatialObjectToEWKT transforms a given SpatialObject to EWKT.
func SpatialObjectToEWKT(so geopb.SpatialObject, maxDecimalDigits int) (geopb.EWKT, error) {
	t, err := spatialObjectToGeomT(so)
	if err != nil {
		return "", err
	}
	ret, err := wkt.Marshal(t, wkt.EncodeOptionWithMaxDecimalDigits(maxDecimalDigits))
	if err != nil {
		return "", err
	}
	if t.SRID() != 0 {
		ret = fmt.Sprintf("SRID=%d;%s", t.SRID(), ret)
	}
	return geopb.EWKT(ret), err
}

// SpatialObjectToWKB transforms a given SpatialObject to WKB.
func SpatialObjectToWKB(so geopb.SpatialObject, byteOrder binary.ByteOrder) (geopb.WKB, error) {
	t, err := spatialObjectToGeomT(so)
	if err != nil {
		return nil, err
	}
	ret, err := wkb.Marshal(t, byteOrder, wkbcommon.WKBOptionEmptyPointHandling(wkbcommon.EmptyPointHandlingNaN))
	return geopb.WKB(ret), err
}

// SpatialObjectToEWKB transforms a given SpatialObject to EWKB.
func SpatialObjectToEWKB(so geopb.SpatialObject, byteOrder binary.ByteOrder) (geopb.EWKB, error) {
	t, err := spatialObjectToGeomT(so)
	if err != nil {
		return nil, err
	}
	// EWKB always encodes empty points as NaN coordinates; no option needed.
	ret, err := ewkb.Marshal(t, byteOrder)
	return geopb.EWKB(ret), err
}

// SpatialObjectToWKBHex transforms a given SpatialObject to WKBHex.
func SpatialObjectToWKBHex(so geopb.SpatialObject) (string, error) {
	t, err := spatialObjectToGeomT(so)
	if err != nil {
		return "", err
	}
	ret, err := wkbhex.Encode(t, DefaultEWKBEncodingFormat, wkbcommon.WKBOptionEmptyPointHandling(wkbcommon.EmptyPointHandlingNaN))
	return strings.ToUpper(ret), err
}

// SpatialObjectToEWKBHex transforms a given SpatialObject to EWKBHex.
func SpatialObjectToEWKBHex(so geopb.SpatialObject) (string, error) {
	t, err := spatialObjectToGeomT(so)
	if err != nil {
		return "", err
	}
	// EWKB always encodes empty points as NaN coordinates; no option needed.
	ret, err := ewkbhex.Encode(t, DefaultEWKBEncodingFormat)
	return strings.ToUpper(ret), err
}

// SpatialObjectToGeoJSONFlag maps to the ST_AsGeoJSON flags in PostGIS.
// Only the bounding box option is supported; the CRS options require a
// projection catalog.
type SpatialObjectToGeoJSONFlag int

const (
	SpatialObjectToGeoJSONFlagIncludeBBox SpatialObjectToGeoJSONFlag = 1 << iota

	SpatialObjectToGeoJSONFlagZero SpatialObjectToGeoJSONFlag = 0
)

// SpatialObjectToGeoJSON transforms a given SpatialObject to GeoJSON.
func SpatialObjectToGeoJSON(
	so geopb.SpatialObject, maxDecimalDigits int, flag SpatialObjectToGeoJSONFlag,
) ([]byte, error) {
	t, err := spatialObjectToGeomT(so)
	if err != nil {
		return nil, err
	}
	options := []geojson.EncodeGeometryOption{
		geojson.EncodeGeometryWithMaxDecimalDigits(maxDecimalDigits),
	}
	if flag&SpatialObjectToGeoJSONFlagIncludeBBox != 0 {
		// Empty bounding boxes are not encoded.
		if so.BoundingBox != nil {
			options = append(options, geojson.EncodeGeometryWithBBox())
		}
	}
	return geojson.Marshal(t, options...)
}

// SpatialObjectToKML transforms a given SpatialObject to KML.
func SpatialObjectToKML(so geopb.SpatialObject) (string, error) {
	t, err := spatialObjectToGeomT(so)
	if err != nil {
		return "", err
	}
	kmlElement, err := kml.Encode(t)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := kmlElement.Write(&buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// GeoHashAutoPrecision means to calculate the precision of
// SpatialObjectToGeoHash based on the input.
const GeoHashAutoPrecision = 0

// GeoHashMaxPrecision is the maximum precision for GeoHashes.
// 20 is picked as doubles have 51 decimals of precision, and each base32
// position can contain 5 bits of data. As we have two points, we use
// floor((2 * 51) / 5) = 20.
const GeoHashMaxPrecision = 20

// SpatialObjectToGeoHash transforms a given SpatialObject to a GeoHash.
func SpatialObjectToGeoHash(so geopb.SpatialObject, p int) (string, error) {
	if so.BoundingBox == nil {
		return "", nil
	}
	bbox := so.BoundingBox
	if bbox.LoX < -180 || bbox.HiX > 180 || bbox.LoY < -90 || bbox.HiY > 90 {
		return "", errors.Newf(
			"object has bounds greater than the bounds of lat/lng, got (%f %f, %f %f)",
			bbox.LoX, bbox.LoY,
			bbox.HiX, bbox.HiY,
		)
	}

	// Get precision using the bounding box if required.
	if p <= GeoHashAutoPrecision {
		p = getPrecisionForBBox(bbox)
	}

	// Support up to 20, which is the same as PostGIS.
	if p > GeoHashMaxPrecision {
		p = GeoHashMaxPrecision
	}

	bbCenterLng := bbox.LoX + (bbox.HiX-bbox.LoX)/2.0
	bbCenterLat := bbox.LoY + (bbox.HiY-bbox.LoY)/2.0

	return geohash.Encode(bbCenterLat, bbCenterLng, p), nil
}

// getPrecisionForBBox imitates the PostGIS behavior of deriving a GeoHash
// precision from the feature bounding box: halve a world bounding box until
// it no longer contains the feature box, counting bits gained along the way.
func getPrecisionForBBox(bbox *geopb.BoundingBox) int {
	bitPrecision := 0

	// This is a point, for points we use the full bitPrecision.
	if bbox.LoX == bbox.HiX && bbox.LoY == bbox.HiY {
		return GeoHashMaxPrecision
	}

	// Start from a world bounding box.
	lonMin := -180.0
	lonMax := 180.0
	latMin := -90.0
	latMax := 90.0

	// Each iteration shrinks the world bounding box by half in the dimension
	// that still fits, until a halving would cut into the feature box.
	for {
		lonWidth := lonMax - lonMin
		latWidth := latMax - latMin
		latMaxDelta, lonMaxDelta, latMinDelta, lonMinDelta := 0.0, 0.0, 0.0, 0.0

		if bbox.LoX > lonMin+lonWidth/2.0 {
			lonMinDelta = lonWidth / 2.0
		} else if bbox.HiX < lonMax-lonWidth/2.0 {
			lonMaxDelta = lonWidth / -2.0
		}
		if bbox.LoY > latMin+latWidth/2.0 {
			latMinDelta = latWidth / 2.0
		} else if bbox.HiY < latMax-latWidth/2.0 {
			latMaxDelta = latWidth / -2.0
		}

		// Every halving that still covers the feature box adds precision.
		// Once neither axis can shrink, the box is pinned and we are done.
		precisionDelta := 0
		if lonMinDelta != 0.0 || lonMaxDelta != 0.0 {
			lonMin += lonMinDelta
			lonMax += lonMaxDelta
			precisionDelta++
		} else {
			break
		}
		if latMinDelta != 0.0 || latMaxDelta != 0.0 {
			latMin += latMinDelta
			latMax += latMaxDelta
			precisionDelta++
		} else {
			break
		}
		bitPrecision += precisionDelta
	}
	// Each character can represent 5 bits of bitPrecision.
	return bitPrecision / 5
}

// StringToByteOrder returns the byte order of string.
func StringToByteOrder(s string) binary.ByteOrder {
	switch strings.ToLower(s) {
	case "ndr":
		return binary.LittleEndian
	case "xdr":
		return binary.BigEndian
	default:
		return DefaultEWKBEncodingFormat
	}
}
