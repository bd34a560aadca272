package bvh

import "github.com/achilleasa/flatbvh/types"

// A ray with an origin and a direction. The direction does not need to be
// normalized; hit distances are expressed in units of its length.
type Ray struct {
	Origin types.Vec3
	Dir    types.Vec3
}

// Create a new ray.
func NewRay(origin, dir types.Vec3) Ray {
	return Ray{Origin: origin, Dir: dir}
}

// Get the point at parametric distance t along the ray.
func (r Ray) PointAt(t float32) types.Vec3 {
	return r.Origin.Add(r.Dir.Mul(t))
}

// The result of a ray/primitive intersection test.
type Intersection struct {
	// Parametric distance along the ray; +Inf if nothing was hit.
	Distance float32

	// Hit point and surface normal at the hit point.
	Point  types.Vec3
	Normal types.Vec3

	// The primitive that was hit or nil.
	Primitive Primitive
}

// An intersection that represents a miss.
func NoHit() Intersection {
	return Intersection{Distance: types.Inf(1)}
}

// Returns true if the intersection refers to a primitive.
func (in Intersection) Hit() bool {
	return in.Primitive != nil
}

// The Primitive interface is implemented by all objects that can be indexed by
// the BVH. The index never owns primitives; it only stores references to them.
type Primitive interface {
	// The primitive's axis-aligned bounds.
	BBox() BBox

	// A representative point used for choosing splits.
	Center() types.Vec3

	// Intersect the primitive with a ray. Misses must return NoHit().
	Intersect(ray Ray) Intersection
}
