// Copyright 2025 The Quartz Authors.
//
// Use of this software is governed by the Quartz Software License
// included in the /LICENSE file.

package geomem

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBoundsOf(t *testing.T) {
	testCases := []struct {
		name     string
		build    func(a *Arena) Geometry
		empty    bool
		hasZ     bool
		expected Bounds
	}{
		{
			name: "point",
			build: func(a *Arena) Geometry {
				return MakePoint(testVA(a, false, false, 3, -4))
			},
			expected: Bounds{MinX: 3, MaxX: 3, MinY: -4, MaxY: -4},
		},
		{
			name: "empty point",
			build: func(a *Arena) Geometry {
				return MakeEmptyPoint(false, false)
			},
			empty: true,
		},
		{
			name: "polygon with hole keeps the shell extent",
			build: func(a *Arena) Geometry {
				poly := MakePolygon(a, 2, false, false)
				poly.SetRing(0, testVA(a, false, false, 0, 0, 4, 0, 4, 4, 0, 4, 0, 0))
				poly.SetRing(1, testVA(a, false, false, 1, 1, 2, 1, 2, 2, 1, 2, 1, 1))
				return poly
			},
			expected: Bounds{MinX: 0, MaxX: 4, MinY: 0, MaxY: 4},
		},
		{
			name: "empty polygon",
			build: func(a *Arena) Geometry {
				return MakePolygon(a, 0, false, false)
			},
			empty: true,
		},
		{
			name: "collection of empties",
			build: func(a *Arena) Geometry {
				gc := MakeGeometryCollection(a, 2, false, false)
				gc.SetGeom(0, MakeEmptyPoint(false, false))
				gc.SetGeom(1, MakeMultiLineString(a, 0, false, false))
				return gc
			},
			empty: true,
		},
		{
			name: "collection folds over all members",
			build: func(a *Arena) Geometry {
				gc := MakeGeometryCollection(a, 2, false, false)
				gc.SetGeom(0, MakePoint(testVA(a, false, false, -1, 10)))
				gc.SetGeom(1, MakeLineString(testVA(a, false, false, 0, 0, 5, 2)))
				return gc
			},
			expected: Bounds{MinX: -1, MaxX: 5, MinY: 0, MaxY: 10},
		},
		{
			name: "z range folds alongside xy",
			build: func(a *Arena) Geometry {
				return MakeLineString(testVA(a, true, false, 1, 2, -7, 3, 4, 9))
			},
			hasZ:     true,
			expected: Bounds{MinX: 1, MaxX: 3, MinY: 2, MaxY: 4, MinZ: -7, MaxZ: 9},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			a := NewArena()
			b := BoundsOf(tc.build(a))
			if tc.empty {
				require.True(t, b.Empty())
				require.Nil(t, b.BoundingBox())
				return
			}
			require.False(t, b.Empty())
			require.Equal(t, tc.expected.MinX, b.MinX)
			require.Equal(t, tc.expected.MaxX, b.MaxX)
			require.Equal(t, tc.expected.MinY, b.MinY)
			require.Equal(t, tc.expected.MaxY, b.MaxY)
			if tc.hasZ {
				require.Equal(t, tc.expected.MinZ, b.MinZ)
				require.Equal(t, tc.expected.MaxZ, b.MaxZ)
			}
		})
	}
}

func TestBoundsZeroExtentIsNotEmpty(t *testing.T) {
	a := NewArena()
	b := BoundsOf(MakePoint(testVA(a, false, false, 0, 0)))

	// A point at the origin has a real, degenerate extent. Only a geometry
	// with no vertices at all has Empty bounds.
	require.False(t, b.Empty())
	box := b.BoundingBox()
	require.NotNil(t, box)
	require.Zero(t, box.LoX)
	require.Zero(t, box.HiX)
}

func TestBoundsExtend(t *testing.T) {
	b := MakeBounds()
	require.True(t, b.Empty())

	other := Bounds{MinX: 1, MaxX: 2, MinY: 3, MaxY: 4, MinZ: 5, MaxZ: 6}
	b.Extend(other)
	require.False(t, b.Empty())
	require.Equal(t, other, b)

	b.Extend(Bounds{MinX: -1, MaxX: 0, MinY: 3, MaxY: 10, MinZ: 5, MaxZ: 6})
	require.Equal(t, Bounds{MinX: -1, MaxX: 2, MinY: 3, MaxY: 10, MinZ: 5, MaxZ: 6}, b)

	// Extending by empty bounds changes nothing.
	b.Extend(MakeBounds())
	require.Equal(t, Bounds{MinX: -1, MaxX: 2, MinY: 3, MaxY: 10, MinZ: 5, MaxZ: 6}, b)
}
