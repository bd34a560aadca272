package bvh

import (
	"fmt"

	"github.com/achilleasa/flatbvh/types"
)

type Axis uint8

const (
	XAxis Axis = iota
	YAxis
	ZAxis
)

func (a Axis) String() string {
	switch a {
	case XAxis:
		return "X"
	case YAxis:
		return "Y"
	case ZAxis:
		return "Z"
	}
	return fmt.Sprintf("Axis(%d)", uint8(a))
}

// An axis-aligned bounding box. A box is valid when Min <= Max on every axis;
// EmptyBBox returns an inverted box that acts as the identity for Union.
type BBox struct {
	Min types.Vec3
	Max types.Vec3
}

// Create a bbox from its two corners.
func NewBBox(min, max types.Vec3) BBox {
	return BBox{Min: min, Max: max}
}

// Create a bbox that contains nothing.
func EmptyBBox() BBox {
	return BBox{
		Min: types.Splat(types.Inf(1)),
		Max: types.Splat(types.Inf(-1)),
	}
}

// Returns true if the box is inverted on any axis.
func (b BBox) Empty() bool {
	return b.Min[0] > b.Max[0] || b.Min[1] > b.Max[1] || b.Min[2] > b.Max[2]
}

// Get the box side lengths.
func (b BBox) Extent() types.Vec3 {
	return b.Max.Sub(b.Min)
}

// Get the box center.
func (b BBox) Centroid() types.Vec3 {
	return b.Min.Add(b.Extent().Mul(0.5))
}

// Grow the box so that it contains point.
func (b *BBox) ExpandToInclude(point types.Vec3) {
	b.Min = types.MinVec3(b.Min, point)
	b.Max = types.MaxVec3(b.Max, point)
}

// Grow the box so that it contains other.
func (b *BBox) Union(other BBox) {
	b.Min = types.MinVec3(b.Min, other.Min)
	b.Max = types.MaxVec3(b.Max, other.Max)
}

// Get the axis with the greatest extent. Ties are resolved in X, Y, Z order.
func (b BBox) LongestAxis() Axis {
	ext := b.Extent()
	axis := XAxis
	if ext[YAxis] > ext[axis] {
		axis = YAxis
	}
	if ext[ZAxis] > ext[axis] {
		axis = ZAxis
	}
	return axis
}

// Clip the ray's parametric interval against the three slabs of the box and
// return the entry and exit distances.
//
// A zero direction component yields +/-Inf slab distances so the interval is
// either left untouched (origin inside the slab) or emptied (origin outside).
// When the origin lies exactly on a slab plane the division produces NaN;
// NaN never wins a comparison so that slab does not clip the interval.
func (b BBox) Intersect(ray Ray) (tNear, tFar float32, ok bool) {
	if b.Empty() {
		return 0, 0, false
	}

	tMin := types.Inf(-1)
	tMax := types.Inf(1)
	for axis := XAxis; axis <= ZAxis; axis++ {
		t1 := (b.Min[axis] - ray.Origin[axis]) / ray.Dir[axis]
		t2 := (b.Max[axis] - ray.Origin[axis]) / ray.Dir[axis]
		if t1 > t2 {
			t1, t2 = t2, t1
		}

		if t1 > tMin {
			tMin = t1
		}
		if t2 < tMax {
			tMax = t2
		}
		if tMin > tMax {
			return 0, 0, false
		}
	}

	return tMin, tMax, tMax >= tMin
}

func (b BBox) String() string {
	return fmt.Sprintf("[(%3.3f, %3.3f, %3.3f) - (%3.3f, %3.3f, %3.3f)]",
		b.Min[0], b.Min[1], b.Min[2],
		b.Max[0], b.Max[1], b.Max[2],
	)
}
