// Copyright 2025 The Quartz Authors.
//
// Use of this software is governed by the Quartz Software License
// included in the /LICENSE file.

package geo

import (
	"github.com/cockroachdb/errors"
	"github.com/quartzdb/quartz/pkg/geo/geomem"
	"github.com/quartzdb/quartz/pkg/geo/geopb"
	"github.com/twpayne/go-geom"
)

// layoutForFlags maps the model's dimension flags onto a go-geom layout.
func layoutForFlags(hasZ, hasM bool) geom.Layout {
	switch {
	case hasZ && hasM:
		return geom.XYZM
	case hasZ:
		return geom.XYZ
	case hasM:
		return geom.XYM
	default:
		return geom.XY
	}
}

// flagsForLayout is the inverse of layoutForFlags. Layouts beyond XYZM have
// no equivalent in the model.
func flagsForLayout(layout geom.Layout) (hasZ bool, hasM bool, _ error) {
	switch layout {
	case geom.XY:
		return false, false, nil
	case geom.XYZ:
		return true, false, nil
	case geom.XYM:
		return false, true, nil
	case geom.XYZM:
		return true, true, nil
	default:
		return false, false, errors.Newf("unsupported geom layout %s", layout)
	}
}

// copyFloats detaches coordinate data from arena-owned memory so the result
// can outlive the arena.
func copyFloats(data []float64) []float64 {
	out := make([]float64, len(data))
	copy(out, data)
	return out
}

// treeToGeomT converts a vertex-level tree into a go-geom geometry stamped
// with the given SRID. The result owns its coordinates and stays valid after
// the tree's arena is reset.
func treeToGeomT(tree geomem.Geometry, srid geopb.SRID) (geom.T, error) {
	layout := layoutForFlags(tree.HasZ(), tree.HasM())
	switch tree.ShapeType() {
	case geopb.ShapeType_Point:
		if tree.VertexArray().IsEmpty() {
			return geom.NewPointEmpty(layout).SetSRID(int(srid)), nil
		}
		return geom.NewPointFlat(layout, copyFloats(tree.VertexArray().Data())).SetSRID(int(srid)), nil
	case geopb.ShapeType_LineString:
		return geom.NewLineStringFlat(layout, copyFloats(tree.VertexArray().Data())).SetSRID(int(srid)), nil
	case geopb.ShapeType_Polygon:
		var flat []float64
		ends := make([]int, 0, tree.NumRings())
		for i := 0; i < tree.NumRings(); i++ {
			flat = append(flat, tree.Ring(i).Data()...)
			ends = append(ends, len(flat))
		}
		return geom.NewPolygonFlat(layout, flat, ends).SetSRID(int(srid)), nil
	case geopb.ShapeType_MultiPoint:
		mp := geom.NewMultiPoint(layout)
		for i := 0; i < tree.NumGeoms(); i++ {
			sub, err := treeToGeomT(tree.Geom(i), srid)
			if err != nil {
				return nil, err
			}
			if err := mp.Push(sub.(*geom.Point)); err != nil {
				return nil, err
			}
		}
		return mp.SetSRID(int(srid)), nil
	case geopb.ShapeType_MultiLineString:
		mls := geom.NewMultiLineString(layout)
		for i := 0; i < tree.NumGeoms(); i++ {
			sub, err := treeToGeomT(tree.Geom(i), srid)
			if err != nil {
				return nil, err
			}
			if err := mls.Push(sub.(*geom.LineString)); err != nil {
				return nil, err
			}
		}
		return mls.SetSRID(int(srid)), nil
	case geopb.ShapeType_MultiPolygon:
		mp := geom.NewMultiPolygon(layout)
		for i := 0; i < tree.NumGeoms(); i++ {
			sub, err := treeToGeomT(tree.Geom(i), srid)
			if err != nil {
				return nil, err
			}
			if err := mp.Push(sub.(*geom.Polygon)); err != nil {
				return nil, err
			}
		}
		return mp.SetSRID(int(srid)), nil
	case geopb.ShapeType_GeometryCollection:
		gc := geom.NewGeometryCollection()
		for i := 0; i < tree.NumGeoms(); i++ {
			sub, err := treeToGeomT(tree.Geom(i), srid)
			if err != nil {
				return nil, err
			}
			if err := gc.Push(sub); err != nil {
				return nil, err
			}
		}
		return gc.SetSRID(int(srid)), nil
	default:
		panic(errors.AssertionFailedf("unknown shape type %v", tree.ShapeType()))
	}
}

// treeFromGeomT converts a go-geom geometry into a vertex-level tree
// allocated on the given arena. Coordinates are copied; the tree does not
// reference the input.
//
// The SRID of the input is ignored here. Callers that care thread it through
// separately, as MakeGeometryFromGeomT does.
func treeFromGeomT(a *geomem.Arena, t geom.T) (geomem.Geometry, error) {
	switch t := t.(type) {
	case *geom.Point:
		hasZ, hasM, err := flagsForLayout(t.Layout())
		if err != nil {
			return geomem.Geometry{}, err
		}
		if t.Empty() {
			return geomem.MakeEmptyPoint(hasZ, hasM), nil
		}
		return geomem.MakePoint(geomem.CopyVertexArray(a, t.FlatCoords(), 1, hasZ, hasM)), nil
	case *geom.LineString:
		hasZ, hasM, err := flagsForLayout(t.Layout())
		if err != nil {
			return geomem.Geometry{}, err
		}
		return geomem.MakeLineString(geomem.CopyVertexArray(a, t.FlatCoords(), t.NumCoords(), hasZ, hasM)), nil
	case *geom.Polygon:
		hasZ, hasM, err := flagsForLayout(t.Layout())
		if err != nil {
			return geomem.Geometry{}, err
		}
		tree := geomem.MakePolygon(a, t.NumLinearRings(), hasZ, hasM)
		for i := 0; i < t.NumLinearRings(); i++ {
			ring := t.LinearRing(i)
			tree.SetRing(i, geomem.CopyVertexArray(a, ring.FlatCoords(), ring.NumCoords(), hasZ, hasM))
		}
		return tree, nil
	case *geom.MultiPoint:
		hasZ, hasM, err := flagsForLayout(t.Layout())
		if err != nil {
			return geomem.Geometry{}, err
		}
		tree := geomem.MakeMultiPoint(a, t.NumPoints(), hasZ, hasM)
		for i := 0; i < t.NumPoints(); i++ {
			child, err := treeFromGeomT(a, t.Point(i))
			if err != nil {
				return geomem.Geometry{}, err
			}
			tree.SetGeom(i, child)
		}
		return tree, nil
	case *geom.MultiLineString:
		hasZ, hasM, err := flagsForLayout(t.Layout())
		if err != nil {
			return geomem.Geometry{}, err
		}
		tree := geomem.MakeMultiLineString(a, t.NumLineStrings(), hasZ, hasM)
		for i := 0; i < t.NumLineStrings(); i++ {
			child, err := treeFromGeomT(a, t.LineString(i))
			if err != nil {
				return geomem.Geometry{}, err
			}
			tree.SetGeom(i, child)
		}
		return tree, nil
	case *geom.MultiPolygon:
		hasZ, hasM, err := flagsForLayout(t.Layout())
		if err != nil {
			return geomem.Geometry{}, err
		}
		tree := geomem.MakeMultiPolygon(a, t.NumPolygons(), hasZ, hasM)
		for i := 0; i < t.NumPolygons(); i++ {
			child, err := treeFromGeomT(a, t.Polygon(i))
			if err != nil {
				return geomem.Geometry{}, err
			}
			tree.SetGeom(i, child)
		}
		return tree, nil
	case *geom.GeometryCollection:
		// An all-empty collection reports NoLayout; treat it as XY.
		layout := t.Layout()
		if layout == geom.NoLayout {
			layout = geom.XY
		}
		hasZ, hasM, err := flagsForLayout(layout)
		if err != nil {
			return geomem.Geometry{}, err
		}
		tree := geomem.MakeGeometryCollection(a, t.NumGeoms(), hasZ, hasM)
		for i := 0; i < t.NumGeoms(); i++ {
			child, err := treeFromGeomT(a, t.Geom(i))
			if err != nil {
				return geomem.Geometry{}, err
			}
			if child.HasZ() != hasZ || child.HasM() != hasM {
				return geomem.Geometry{}, errors.Newf(
					"geometry collection member %d has mixed dimensions", i,
				)
			}
			tree.SetGeom(i, child)
		}
		return tree, nil
	default:
		return geomem.Geometry{}, errors.Newf("unknown shape: %T", t)
	}
}
