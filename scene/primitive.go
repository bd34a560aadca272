package scene

import (
	"math"

	"github.com/achilleasa/flatbvh/bvh"
	"github.com/achilleasa/flatbvh/types"
)

// Hits closer than this distance to the ray origin are ignored.
const hitEpsilon float32 = 1e-6

type ShapeType uint32

const (
	SphereShape ShapeType = iota
	CuboidShape
)

func (t ShapeType) String() string {
	switch t {
	case SphereShape:
		return "sphere"
	case CuboidShape:
		return "cuboid"
	}
	return "unknown"
}

// A Shape is a bvh primitive that can be repositioned. Moving a shape
// invalidates any index that references it.
type Shape interface {
	bvh.Primitive

	// The shape type.
	Type() ShapeType

	// Move the shape so that its center is located at point.
	MoveTo(point types.Vec3)
}

// A sphere shape.
type Sphere struct {
	Origin types.Vec3
	Radius float32
}

// Create new sphere shape.
func NewSphere(origin types.Vec3, radius float32) *Sphere {
	return &Sphere{
		Origin: origin,
		Radius: radius,
	}
}

func (s *Sphere) Type() ShapeType {
	return SphereShape
}

func (s *Sphere) BBox() bvh.BBox {
	r := types.Splat(s.Radius)
	return bvh.NewBBox(s.Origin.Sub(r), s.Origin.Add(r))
}

func (s *Sphere) Center() types.Vec3 {
	return s.Origin
}

func (s *Sphere) MoveTo(point types.Vec3) {
	s.Origin = point
}

// Intersect the sphere with a ray by solving the quadratic
// |o + t*d - c|^2 = r^2 and picking the smallest root past hitEpsilon.
func (s *Sphere) Intersect(ray bvh.Ray) bvh.Intersection {
	op := s.Origin.Sub(ray.Origin)
	a := ray.Dir.Dot(ray.Dir)
	b := op.Dot(ray.Dir)
	det := b*b - a*(op.Dot(op)-s.Radius*s.Radius)
	if det < 0 || a == 0 {
		return bvh.NoHit()
	}

	det = float32(math.Sqrt(float64(det)))
	t := (b - det) / a
	if t <= hitEpsilon {
		t = (b + det) / a
		if t <= hitEpsilon {
			return bvh.NoHit()
		}
	}

	point := ray.PointAt(t)
	return bvh.Intersection{
		Distance:  t,
		Point:     point,
		Normal:    point.Sub(s.Origin).Mul(1.0 / s.Radius),
		Primitive: s,
	}
}

// An axis-aligned box shape.
type Cuboid struct {
	Origin types.Vec3

	// Side lengths along each axis.
	Size types.Vec3
}

// Create new cuboid shape centered at origin.
func NewCuboid(origin types.Vec3, size types.Vec3) *Cuboid {
	return &Cuboid{
		Origin: origin,
		Size:   size,
	}
}

func (c *Cuboid) Type() ShapeType {
	return CuboidShape
}

func (c *Cuboid) BBox() bvh.BBox {
	half := c.Size.Mul(0.5)
	return bvh.NewBBox(c.Origin.Sub(half), c.Origin.Add(half))
}

func (c *Cuboid) Center() types.Vec3 {
	return c.Origin
}

func (c *Cuboid) MoveTo(point types.Vec3) {
	c.Origin = point
}

// Intersect the cuboid with a ray using the slab method. If the ray origin
// is inside the cuboid the exit point is reported.
func (c *Cuboid) Intersect(ray bvh.Ray) bvh.Intersection {
	bbox := c.BBox()

	tMin := types.Inf(-1)
	tMax := types.Inf(1)
	minAxis, maxAxis := -1, -1
	for axis := 0; axis < 3; axis++ {
		t1 := (bbox.Min[axis] - ray.Origin[axis]) / ray.Dir[axis]
		t2 := (bbox.Max[axis] - ray.Origin[axis]) / ray.Dir[axis]
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tMin {
			tMin = t1
			minAxis = axis
		}
		if t2 < tMax {
			tMax = t2
			maxAxis = axis
		}
		if tMin > tMax {
			return bvh.NoHit()
		}
	}

	// Entry faces point against the ray direction, exit faces along it
	t, axis, sign := tMin, minAxis, float32(-1)
	if t <= hitEpsilon {
		t, axis, sign = tMax, maxAxis, 1
	}
	if t <= hitEpsilon || axis == -1 || math.IsInf(float64(t), 1) {
		return bvh.NoHit()
	}

	var normal types.Vec3
	if ray.Dir[axis] < 0 {
		sign = -sign
	}
	normal[axis] = sign

	return bvh.Intersection{
		Distance:  t,
		Point:     ray.PointAt(t),
		Normal:    normal,
		Primitive: c,
	}
}
