// Copyright 2025 The Quartz Authors.
//
// Use of this software is governed by the Quartz Software License
// included in the /LICENSE file.

// Package geopb contains the wire-level types shared by the geometry
// model, the parsers and the codecs: shape tags, dimension flags, SRIDs
// and the serialized geometry blob.
package geopb

import "github.com/cockroachdb/redact"

// The following are the common standard SRIDs that we support.
const (
	// UnknownSRID is the default SRID if none is provided.
	UnknownSRID = SRID(0)
	// DefaultGeometrySRID is the same as being unknown.
	DefaultGeometrySRID = UnknownSRID
	// WGS84SRID (aka 4326) is the GPS lat/lng we all know and love.
	// In this system, (long, lat) corresponds to (X, Y), bounded by
	// ([-180, 180], [-90 90]).
	WGS84SRID = SRID(4326)
)

// SRID is a Spatial Reference Identifier. All geometry shapes are stored and
// represented using coordinates that are bare floats. SRIDs tie these floats
// to a coordinate system, allowing them to be interpreted and compared.
//
// The zero value is special and means an unknown coordinate system.
type SRID int32

// SafeValue implements the redact.SafeValue interface.
func (s SRID) SafeValue() {}

var _ redact.SafeValue = SRID(0)

// WKT is the Well Known Text form of a spatial object.
type WKT string

// EWKT is the Extended Well Known Text form of a spatial object.
type EWKT string

// WKB is the Well Known Bytes form of a spatial object.
type WKB []byte

// EWKB is the Extended Well Known Bytes form of a spatial object.
type EWKB []byte

// SerializedGeometry is the internal storage form of a geometry tree: a
// single contiguous, relocatable byte sequence produced by geomem.Serialize
// and consumed by geomem.Deserialize. It is the only form a geometry takes
// at rest or across the system boundary. The layout is a two byte header
// (shape tag, dimension flags) followed by a little-endian pre-order payload
// of counts and packed coordinate doubles.
type SerializedGeometry []byte

// ShapeType is the type of a spatial shape. Each of these corresponds to a
// different representation and serialization format. For example, a Point is
// a pair of doubles (or more than that for geometries with Z or M), a
// LineString is an ordered series of Points, etc.
//
// The numeric values double as the shape tag in SerializedGeometry and
// deliberately coincide with the ISO WKB base type codes.
type ShapeType int16

const (
	ShapeType_Unset              ShapeType = 0
	ShapeType_Point              ShapeType = 1
	ShapeType_LineString         ShapeType = 2
	ShapeType_Polygon            ShapeType = 3
	ShapeType_MultiPoint         ShapeType = 4
	ShapeType_MultiLineString    ShapeType = 5
	ShapeType_MultiPolygon       ShapeType = 6
	ShapeType_GeometryCollection ShapeType = 7
)

var ShapeType_name = map[int16]string{
	0: "Unset",
	1: "Point",
	2: "LineString",
	3: "Polygon",
	4: "MultiPoint",
	5: "MultiLineString",
	6: "MultiPolygon",
	7: "GeometryCollection",
}

var ShapeType_value = map[string]int16{
	"Unset":              0,
	"Point":              1,
	"LineString":         2,
	"Polygon":            3,
	"MultiPoint":         4,
	"MultiLineString":    5,
	"MultiPolygon":       6,
	"GeometryCollection": 7,
}

func (x ShapeType) String() string {
	return ShapeType_name[int16(x)]
}

// SafeValue implements the redact.SafeValue interface.
func (x ShapeType) SafeValue() {}

var _ redact.SafeValue = ShapeType_Unset

// IsCollection returns whether the shape holds child geometries rather than
// vertex data.
func (x ShapeType) IsCollection() bool {
	switch x {
	case ShapeType_MultiPoint, ShapeType_MultiLineString, ShapeType_MultiPolygon,
		ShapeType_GeometryCollection:
		return true
	default:
		return false
	}
}

// MultiType returns the multi-variant of the shape type, or Unset if the
// shape has no multi-variant.
func (x ShapeType) MultiType() ShapeType {
	switch x {
	case ShapeType_Point:
		return ShapeType_MultiPoint
	case ShapeType_LineString:
		return ShapeType_MultiLineString
	case ShapeType_Polygon:
		return ShapeType_MultiPolygon
	default:
		return ShapeType_Unset
	}
}

// SingularType returns the element type of a multi-shape, or Unset for
// shapes that are not multi-variants. GeometryCollection has no singular
// element type and also returns Unset.
func (x ShapeType) SingularType() ShapeType {
	switch x {
	case ShapeType_MultiPoint:
		return ShapeType_Point
	case ShapeType_MultiLineString:
		return ShapeType_LineString
	case ShapeType_MultiPolygon:
		return ShapeType_Polygon
	default:
		return ShapeType_Unset
	}
}

// SpatialObject is the in-memory header a facade Geometry carries alongside
// its serialized payload. Only Serialized (plus the SRID, at the SQL layer)
// is ever persisted; ShapeType, the dimension flags and the bounding box are
// derived at construction and cached here.
type SpatialObject struct {
	// Serialized is the geometry payload in internal serialized form.
	Serialized SerializedGeometry
	// SRID is the spatial reference identifier, 0 if unknown.
	SRID SRID
	// ShapeType is the shape of the serialized geometry.
	ShapeType ShapeType
	// HasZ and HasM describe the dimensionality of every vertex in the
	// serialized geometry.
	HasZ bool
	HasM bool
	// BoundingBox is the derived XY extent; nil for an EMPTY geometry.
	BoundingBox *BoundingBox
}
