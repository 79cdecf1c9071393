// Copyright 2025 The Quartz Authors.
//
// Use of this software is governed by the Quartz Software License
// included in the /LICENSE file.

package geomem

import (
	"math"

	"github.com/cockroachdb/errors"

	"github.com/quartzdb/quartz/pkg/geo/geopb"
)

// Bounds is the extent of a geometry tree: per-axis min/max for X and Y,
// plus Z when the tree carries a Z ordinate. Bounds are derived on demand
// by folding over the tree and are never persisted with it.
//
// A tree with no vertices has no extent at all. That state is kept
// distinguishable from a zero-area box at the origin: Empty bounds compare
// min > max on every axis.
type Bounds struct {
	MinX, MaxX float64
	MinY, MaxY float64
	MinZ, MaxZ float64
}

// MakeBounds returns Bounds covering nothing, ready to be widened.
func MakeBounds() Bounds {
	return Bounds{
		MinX: math.Inf(1), MaxX: math.Inf(-1),
		MinY: math.Inf(1), MaxY: math.Inf(-1),
		MinZ: math.Inf(1), MaxZ: math.Inf(-1),
	}
}

// BoundsOf computes the extent of g. Empty leaves contribute nothing, so
// the bounds of an all-empty tree are Empty rather than zeroed.
func BoundsOf(g Geometry) Bounds {
	b := MakeBounds()
	b.ExtendGeometry(g)
	return b
}

// Empty reports whether the bounds cover nothing.
func (b Bounds) Empty() bool {
	return b.MinX > b.MaxX
}

// Extend widens b to cover o as well.
func (b *Bounds) Extend(o Bounds) {
	b.MinX = math.Min(b.MinX, o.MinX)
	b.MaxX = math.Max(b.MaxX, o.MaxX)
	b.MinY = math.Min(b.MinY, o.MinY)
	b.MaxY = math.Max(b.MaxY, o.MaxY)
	b.MinZ = math.Min(b.MinZ, o.MinZ)
	b.MaxZ = math.Max(b.MaxZ, o.MaxZ)
}

// ExtendVertexArray widens b to cover every vertex of va.
func (b *Bounds) ExtendVertexArray(va VertexArray) {
	for i, n := 0, va.Count(); i < n; i++ {
		v := va.Get(i)
		b.MinX = math.Min(b.MinX, v.X)
		b.MaxX = math.Max(b.MaxX, v.X)
		b.MinY = math.Min(b.MinY, v.Y)
		b.MaxY = math.Max(b.MaxY, v.Y)
		if va.HasZ() {
			b.MinZ = math.Min(b.MinZ, v.Z)
			b.MaxZ = math.Max(b.MaxZ, v.Z)
		}
	}
}

// ExtendGeometry widens b to cover every vertex of the tree rooted at g.
func (b *Bounds) ExtendGeometry(g Geometry) {
	switch g.ShapeType() {
	case geopb.ShapeType_Point, geopb.ShapeType_LineString:
		b.ExtendVertexArray(g.VertexArray())
	case geopb.ShapeType_Polygon:
		for i, n := 0, g.NumRings(); i < n; i++ {
			b.ExtendVertexArray(g.Ring(i))
		}
	case geopb.ShapeType_MultiPoint, geopb.ShapeType_MultiLineString,
		geopb.ShapeType_MultiPolygon, geopb.ShapeType_GeometryCollection:
		for i, n := 0, g.NumGeoms(); i < n; i++ {
			b.ExtendGeometry(g.Geom(i))
		}
	default:
		panic(errors.AssertionFailedf("unknown shape type %v", g.ShapeType()))
	}
}

// BoundingBox returns the XY extent in wire form, or nil for Empty bounds.
// The wire bounding box is 2D only regardless of the source tree's Z.
func (b Bounds) BoundingBox() *geopb.BoundingBox {
	if b.Empty() {
		return nil
	}
	return &geopb.BoundingBox{LoX: b.MinX, HiX: b.MaxX, LoY: b.MinY, HiY: b.MaxY}
}
