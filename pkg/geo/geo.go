// Copyright 2025 The Quartz Authors.
//
// Use of this software is governed by the Quartz Software License
// included in the /LICENSE file.

// Package geo is the facade over the spatial type system. It wraps the
// vertex-level model in geomem behind an immutable value type carrying the
// serialized payload and its derived header (shape type, dimension flags,
// SRID, bounding box), and converts to and from the standard interchange
// formats: WKT, EWKT, WKB, EWKB, GeoJSON, KML and geohashes.
//
// Vertex-level work goes through AsTree, which deserializes into a
// caller-supplied arena. The arena bounds the lifetime of every slice the
// tree hands out; a Geometry itself never references arena memory.
package geo

import (
	"fmt"

	"github.com/quartzdb/quartz/pkg/geo/geomem"
	"github.com/quartzdb/quartz/pkg/geo/geopb"
	"github.com/twpayne/go-geom"
)

// Geometry is a planar spatial object in any of the seven OGC shapes. It is
// cheap to copy and safe to share; the wrapped payload is never mutated.
type Geometry struct {
	spatialObject geopb.SpatialObject
}

// MakeGeometryFromSerialized constructs a Geometry from its internal
// serialized form, validating the payload and deriving the header fields.
// The payload is retained as-is, not copied.
func MakeGeometryFromSerialized(
	serialized geopb.SerializedGeometry, srid geopb.SRID,
) (Geometry, error) {
	tree, err := geomem.Deserialize(geomem.NewArena(), serialized)
	if err != nil {
		return Geometry{}, err
	}
	return makeGeometry(tree, serialized, srid), nil
}

// MakeGeometryFromTree serializes an arena tree into a self-contained
// Geometry. The result holds no reference to the arena and stays valid
// after the arena is reset.
func MakeGeometryFromTree(tree geomem.Geometry, srid geopb.SRID) Geometry {
	return makeGeometry(tree, geomem.Serialize(tree), srid)
}

// MakeGeometryFromGeomT converts a go-geom geometry into a Geometry, taking
// the SRID the geometry carries.
func MakeGeometryFromGeomT(t geom.T) (Geometry, error) {
	tree, err := treeFromGeomT(geomem.NewArena(), t)
	if err != nil {
		return Geometry{}, err
	}
	return MakeGeometryFromTree(tree, geopb.SRID(t.SRID())), nil
}

func makeGeometry(
	tree geomem.Geometry, serialized geopb.SerializedGeometry, srid geopb.SRID,
) Geometry {
	return Geometry{
		spatialObject: geopb.SpatialObject{
			Serialized:  serialized,
			SRID:        srid,
			ShapeType:   tree.ShapeType(),
			HasZ:        tree.HasZ(),
			HasM:        tree.HasM(),
			BoundingBox: geomem.BoundsOf(tree).BoundingBox(),
		},
	}
}

// Serialized returns the internal serialized form. The returned slice must
// not be modified.
func (g Geometry) Serialized() geopb.SerializedGeometry {
	return g.spatialObject.Serialized
}

// SRID returns the spatial reference identifier of the geometry, zero when
// unknown.
func (g Geometry) SRID() geopb.SRID {
	return g.spatialObject.SRID
}

// ShapeType returns the shape of the geometry.
func (g Geometry) ShapeType() geopb.ShapeType {
	return g.spatialObject.ShapeType
}

// HasZ returns whether the vertices carry a Z ordinate.
func (g Geometry) HasZ() bool {
	return g.spatialObject.HasZ
}

// HasM returns whether the vertices carry an M ordinate.
func (g Geometry) HasM() bool {
	return g.spatialObject.HasM
}

// Empty returns whether the geometry contains no vertices, counting nested
// members for the collection shapes.
func (g Geometry) Empty() bool {
	return g.spatialObject.BoundingBox == nil
}

// BoundingBoxRef returns the bounding box of the geometry, nil when the
// geometry is empty. The returned value must not be modified.
func (g Geometry) BoundingBoxRef() *geopb.BoundingBox {
	return g.spatialObject.BoundingBox
}

// SpatialObject returns the wrapped SpatialObject header.
func (g Geometry) SpatialObject() geopb.SpatialObject {
	return g.spatialObject
}

// AsTree deserializes the geometry into the given arena and returns its
// vertex-level tree. Everything the tree hands out is valid until the arena
// is reset.
func (g Geometry) AsTree(a *geomem.Arena) (geomem.Geometry, error) {
	return geomem.Deserialize(a, g.spatialObject.Serialized)
}

// AsGeomT converts the geometry into a go-geom geometry.
func (g Geometry) AsGeomT() (geom.T, error) {
	tree, err := g.AsTree(geomem.NewArena())
	if err != nil {
		return nil, err
	}
	return treeToGeomT(tree, g.spatialObject.SRID)
}

// BoundingBoxIntersects returns whether the bounding boxes of the two
// geometries intersect. An empty geometry never intersects anything.
func (g Geometry) BoundingBoxIntersects(o Geometry) bool {
	lhs, rhs := g.CartesianBoundingBox(), o.CartesianBoundingBox()
	if lhs == nil || rhs == nil {
		return false
	}
	return lhs.Intersects(rhs)
}

// String returns the EWKT form of the geometry.
func (g Geometry) String() string {
	ewkt, err := SpatialObjectToEWKT(g.spatialObject, DefaultWKTDecimalDigits)
	if err != nil {
		return fmt.Sprintf("<invalid geometry: %v>", err)
	}
	return string(ewkt)
}
