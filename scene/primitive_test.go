package scene

import (
	"testing"

	"github.com/achilleasa/flatbvh/bvh"
	"github.com/achilleasa/flatbvh/types"
)

type hitSpec struct {
	ray      bvh.Ray
	hit      bool
	distance float32
	point    types.Vec3
	normal   types.Vec3
}

func checkHits(t *testing.T, shape Shape, specs []hitSpec) {
	t.Helper()
	for index, s := range specs {
		in := shape.Intersect(s.ray)
		if in.Hit() != s.hit {
			t.Errorf("[spec %d] expected hit to be %t; got %t", index, s.hit, in.Hit())
			continue
		}
		if !s.hit {
			if in != bvh.NoHit() {
				t.Errorf("[spec %d] expected miss to equal NoHit(); got %+v", index, in)
			}
			continue
		}
		if in.Primitive != shape {
			t.Errorf("[spec %d] expected intersection to reference the shape", index)
		}
		if in.Distance != s.distance {
			t.Errorf("[spec %d] expected distance %f; got %f", index, s.distance, in.Distance)
		}
		if !in.Point.ApproxEqual(s.point, 1e-5) {
			t.Errorf("[spec %d] expected point %v; got %v", index, s.point, in.Point)
		}
		if !in.Normal.ApproxEqual(s.normal, 1e-5) {
			t.Errorf("[spec %d] expected normal %v; got %v", index, s.normal, in.Normal)
		}
	}
}

func TestSphereIntersect(t *testing.T) {
	sphere := NewSphere(types.XYZ(0, 0, 0), 1)
	checkHits(t, sphere, []hitSpec{
		{bvh.NewRay(types.XYZ(0, 0, -5), types.XYZ(0, 0, 1)), true, 4, types.XYZ(0, 0, -1), types.XYZ(0, 0, -1)},
		// Distances are expressed in units of the direction length
		{bvh.NewRay(types.XYZ(0, 0, -5), types.XYZ(0, 0, 2)), true, 2, types.XYZ(0, 0, -1), types.XYZ(0, 0, -1)},
		// Rays starting inside report the exit point
		{bvh.NewRay(types.XYZ(0, 0, 0), types.XYZ(1, 0, 0)), true, 1, types.XYZ(1, 0, 0), types.XYZ(1, 0, 0)},
		{bvh.NewRay(types.XYZ(0, 5, -5), types.XYZ(0, 0, 1)), false, 0, types.Vec3{}, types.Vec3{}},
		{bvh.NewRay(types.XYZ(0, 0, 5), types.XYZ(0, 0, 1)), false, 0, types.Vec3{}, types.Vec3{}},
		{bvh.NewRay(types.XYZ(0, 0, -5), types.XYZ(0, 0, 0)), false, 0, types.Vec3{}, types.Vec3{}},
	})

	if bbox := sphere.BBox(); bbox.Min != types.XYZ(-1, -1, -1) || bbox.Max != types.XYZ(1, 1, 1) {
		t.Fatalf("unexpected sphere bbox %v", bbox)
	}
}

func TestCuboidIntersect(t *testing.T) {
	cuboid := NewCuboid(types.XYZ(0, 0, 0), types.XYZ(2, 2, 2))
	checkHits(t, cuboid, []hitSpec{
		{bvh.NewRay(types.XYZ(0, 0, -5), types.XYZ(0, 0, 1)), true, 4, types.XYZ(0, 0, -1), types.XYZ(0, 0, -1)},
		{bvh.NewRay(types.XYZ(5, 0, 0), types.XYZ(-1, 0, 0)), true, 4, types.XYZ(1, 0, 0), types.XYZ(1, 0, 0)},
		{bvh.NewRay(types.XYZ(0, 0, 0), types.XYZ(1, 0, 0)), true, 1, types.XYZ(1, 0, 0), types.XYZ(1, 0, 0)},
		{bvh.NewRay(types.XYZ(0, 0, 0), types.XYZ(0, -1, 0)), true, 1, types.XYZ(0, -1, 0), types.XYZ(0, -1, 0)},
		{bvh.NewRay(types.XYZ(0, 3, -5), types.XYZ(0, 0, 1)), false, 0, types.Vec3{}, types.Vec3{}},
		{bvh.NewRay(types.XYZ(0, 0, 5), types.XYZ(0, 0, 1)), false, 0, types.Vec3{}, types.Vec3{}},
	})

	if bbox := cuboid.BBox(); bbox.Min != types.XYZ(-1, -1, -1) || bbox.Max != types.XYZ(1, 1, 1) {
		t.Fatalf("unexpected cuboid bbox %v", bbox)
	}
}

func TestMoveTo(t *testing.T) {
	shapes := []Shape{
		NewSphere(types.XYZ(0, 0, 0), 1),
		NewCuboid(types.XYZ(0, 0, 0), types.XYZ(2, 2, 2)),
	}

	for index, shape := range shapes {
		shape.MoveTo(types.XYZ(10, 0, 0))
		if shape.Center() != types.XYZ(10, 0, 0) {
			t.Errorf("[spec %d] expected center to be (10, 0, 0); got %v", index, shape.Center())
		}
		if bbox := shape.BBox(); bbox.Min != types.XYZ(9, -1, -1) || bbox.Max != types.XYZ(11, 1, 1) {
			t.Errorf("[spec %d] unexpected bbox after move %v", index, bbox)
		}
		if shape.Intersect(bvh.NewRay(types.XYZ(0, 0, -5), types.XYZ(0, 0, 1))).Hit() {
			t.Errorf("[spec %d] expected moved shape to be missed", index)
		}
	}
}
