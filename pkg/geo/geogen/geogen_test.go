// Copyright 2025 The Quartz Authors.
//
// Use of this software is governed by the Quartz Software License
// included in the /LICENSE file.

package geogen

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/quartzdb/quartz/pkg/geo/geomem"
	"github.com/quartzdb/quartz/pkg/geo/geopb"
)

func TestRandomCoord(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 1000; i++ {
		c := RandomCoord(rng)
		require.GreaterOrEqual(t, c, -100.0)
		require.Less(t, c, 100.0)
		// Quarter-unit grid, exactly representable in decimal text.
		require.Equal(t, c*4, float64(int(c*4)))
	}
}

func TestRandomVertexArray(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	a := geomem.NewArena()
	va := RandomVertexArray(rng, a, 5, true, false)
	require.Equal(t, 5, va.Count())
	require.True(t, va.HasZ())
	require.False(t, va.HasM())
	require.Len(t, va.Data(), 15)
}

func TestRandomRingClosed(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	a := geomem.NewArena()
	for i := 0; i < 100; i++ {
		ring := randomRing(rng, a, false, true)
		require.GreaterOrEqual(t, ring.Count(), 4)
		require.Equal(t, ring.Get(0), ring.Get(ring.Count()-1))
	}
}

func TestRandomGeometryRespectsLayout(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	a := geomem.NewArena()
	for _, layout := range []struct{ hasZ, hasM bool }{
		{false, false}, {true, false}, {false, true}, {true, true},
	} {
		for i := 0; i < 50; i++ {
			a.Reset()
			g := RandomGeometryWithLayout(rng, a, layout.hasZ, layout.hasM)
			require.Equal(t, layout.hasZ, g.HasZ())
			require.Equal(t, layout.hasM, g.HasM())
		}
	}
}

func TestRandomGeometryCoversAllShapes(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	a := geomem.NewArena()
	seen := map[geopb.ShapeType]bool{}
	for i := 0; i < 500; i++ {
		a.Reset()
		seen[RandomGeometry(rng, a).ShapeType()] = true
	}
	require.Len(t, seen, 7)
}
