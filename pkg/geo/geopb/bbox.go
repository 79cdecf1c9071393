// Copyright 2025 The Quartz Authors.
//
// Use of this software is governed by the Quartz Software License
// included in the /LICENSE file.

package geopb

import (
	"fmt"
	"math"
)

// BoundingBox is the XY extent of a spatial object. It is always derived by
// traversal of the geometry and never persisted.
type BoundingBox struct {
	LoX, HiX float64
	LoY, HiY float64
}

// NewBoundingBox returns a properly initialized empty bounding box. The
// inverted infinities ensure the first Update sets all four fields, and
// distinguish "no extent" from a degenerate box at the origin.
func NewBoundingBox() *BoundingBox {
	return &BoundingBox{
		LoX: math.Inf(1),
		HiX: math.Inf(-1),
		LoY: math.Inf(1),
		HiY: math.Inf(-1),
	}
}

// Update extends the BoundingBox coordinates to include the point (x, y).
func (b *BoundingBox) Update(x, y float64) {
	b.LoX = math.Min(b.LoX, x)
	b.HiX = math.Max(b.HiX, x)
	b.LoY = math.Min(b.LoY, y)
	b.HiY = math.Max(b.HiY, y)
}

// Empty returns whether the bounding box has never been extended.
func (b *BoundingBox) Empty() bool {
	return b.LoX > b.HiX
}

func (b *BoundingBox) String() string {
	return fmt.Sprintf("BOX(%g %g,%g %g)", b.LoX, b.LoY, b.HiX, b.HiY)
}
