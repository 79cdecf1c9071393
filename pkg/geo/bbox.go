// Copyright 2025 The Quartz Authors.
//
// Use of this software is governed by the Quartz Software License
// included in the /LICENSE file.

package geo

import (
	"math"

	"github.com/golang/geo/r1"
	"github.com/golang/geo/r2"
	"github.com/quartzdb/quartz/pkg/geo/geopb"
)

// CartesianBoundingBox is the bounding box of a planar geometry, layering
// rectangle predicates over the raw extent. A nil box contains nothing and
// grows through AddPoint.
type CartesianBoundingBox struct {
	geopb.BoundingBox
}

// NewCartesianBoundingBox returns a bounding box that contains nothing.
func NewCartesianBoundingBox() *CartesianBoundingBox {
	return nil
}

// AddPoint returns a bounding box extended to contain (x, y).
func (b *CartesianBoundingBox) AddPoint(x, y float64) *CartesianBoundingBox {
	if b == nil {
		return &CartesianBoundingBox{
			BoundingBox: geopb.BoundingBox{LoX: x, HiX: x, LoY: y, HiY: y},
		}
	}
	return &CartesianBoundingBox{
		BoundingBox: geopb.BoundingBox{
			LoX: math.Min(b.LoX, x),
			HiX: math.Max(b.HiX, x),
			LoY: math.Min(b.LoY, y),
			HiY: math.Max(b.HiY, y),
		},
	}
}

// Combine returns a bounding box containing both boxes. Either may be nil.
func (b *CartesianBoundingBox) Combine(o *CartesianBoundingBox) *CartesianBoundingBox {
	if o == nil {
		return b
	}
	return b.AddPoint(o.LoX, o.LoY).AddPoint(o.HiX, o.HiY)
}

// ToR2Rect converts the bounding box into an r2.Rect.
func (b *CartesianBoundingBox) ToR2Rect() r2.Rect {
	return r2.Rect{
		X: r1.Interval{Lo: b.LoX, Hi: b.HiX},
		Y: r1.Interval{Lo: b.LoY, Hi: b.HiY},
	}
}

// Covers returns whether b contains o entirely, boundaries included.
func (b *CartesianBoundingBox) Covers(o *CartesianBoundingBox) bool {
	return b.ToR2Rect().Contains(o.ToR2Rect())
}

// Intersects returns whether b and o overlap, treating both boxes as
// closed. Degenerate boxes from a single point still intersect anything
// that touches them.
func (b *CartesianBoundingBox) Intersects(o *CartesianBoundingBox) bool {
	return b.ToR2Rect().Intersects(o.ToR2Rect())
}

// CartesianBoundingBox returns a copy of the geometry's bounding box as a
// CartesianBoundingBox, nil for an empty geometry.
func (g Geometry) CartesianBoundingBox() *CartesianBoundingBox {
	if g.spatialObject.BoundingBox == nil {
		return nil
	}
	return &CartesianBoundingBox{BoundingBox: *g.spatialObject.BoundingBox}
}
