package scene

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/achilleasa/flatbvh/bvh"
	"github.com/achilleasa/flatbvh/types"
)

func TestWorldAddRemoveShapes(t *testing.T) {
	w := NewWorld(bvh.DefaultLeafCapacity)
	ray := bvh.NewRay(types.XYZ(0, 0, 0), types.XYZ(0, 0, -1))

	if hit := w.NearestHit(ray); hit.Hit() {
		t.Fatal("expected empty world to report no hit")
	}

	near := NewSphere(types.XYZ(0, 0, -5), 1)
	far := NewCuboid(types.XYZ(0, 0, -10), types.XYZ(2, 2, 2))
	if err := w.AddShapes(far, near); err != nil {
		t.Fatal(err)
	}
	if w.Index().Len() != 2 {
		t.Fatalf("expected index to contain 2 primitives; got %d", w.Index().Len())
	}

	if hit := w.NearestHit(ray); hit.Primitive != near || hit.Distance != 4 {
		t.Fatalf("expected to hit the sphere at distance 4; got %+v", hit)
	}

	expError := "scene: shape already added"
	if err := w.AddShapes(NewSphere(types.XYZ(5, 5, 5), 1), near); err == nil || err.Error() != expError {
		t.Fatalf("expected error %q; got %v", expError, err)
	}
	if len(w.Shapes()) != 2 {
		t.Fatalf("expected failed add to leave 2 shapes; got %d", len(w.Shapes()))
	}

	if err := w.RemoveShape(near); err != nil {
		t.Fatal(err)
	}
	if hit := w.NearestHit(ray); hit.Primitive != far || hit.Distance != 9 {
		t.Fatalf("expected to hit the cuboid at distance 9; got %+v", hit)
	}

	expError = "scene: unknown shape"
	if err := w.RemoveShape(near); err == nil || err.Error() != expError {
		t.Fatalf("expected error %q; got %v", expError, err)
	}
	if err := w.MoveShape(near, types.XYZ(0, 0, 0)); err == nil || err.Error() != expError {
		t.Fatalf("expected error %q; got %v", expError, err)
	}
}

func TestWorldRemoveShapeKeepsSnapshots(t *testing.T) {
	w := NewWorld(1)
	shapes := RandomShapes(rand.New(rand.NewSource(4)), 5, 5, 10)
	if err := w.AddShapes(shapes...); err != nil {
		t.Fatal(err)
	}

	snapshot := w.Shapes()
	if err := w.RemoveShape(shapes[0]); err != nil {
		t.Fatal(err)
	}
	for i, shape := range snapshot {
		if shape != shapes[i] {
			t.Fatalf("expected snapshot entry %d to be left untouched", i)
		}
	}
	if len(w.Shapes()) != len(shapes)-1 || w.Shapes()[0] != shapes[1] {
		t.Fatalf("expected world to keep the remaining %d shapes in order", len(shapes)-1)
	}
}

func TestWorldRemoveShapeRollback(t *testing.T) {
	// Coincident centers get split in half so the initial index is shallow
	w := NewWorld(1)
	shapes := make([]Shape, 150)
	for i := range shapes {
		shapes[i] = NewSphere(types.Vec3{}, 1)
	}
	if err := w.AddShapes(shapes...); err != nil {
		t.Fatal(err)
	}
	prevIndex := w.Index()

	// Spread the centers so every midpoint split peels a single shape off
	// the range; the next rebuild exceeds the max tree depth.
	x := float32(1e-30)
	for _, shape := range shapes {
		shape.MoveTo(types.XYZ(-x, 0, 0))
		x *= 2.5
	}

	if err := w.RemoveShape(shapes[0]); !errors.Is(err, bvh.ErrTreeTooDeep) {
		t.Fatalf("expected error %v; got %v", bvh.ErrTreeTooDeep, err)
	}
	if len(w.Shapes()) != len(shapes) || w.Shapes()[0] != shapes[0] {
		t.Fatalf("expected failed removal to keep all %d shapes", len(shapes))
	}
	if w.Index() != prevIndex {
		t.Fatal("expected failed removal to keep the previous index")
	}
}

func TestWorldMoveShape(t *testing.T) {
	w := NewWorld(1)
	shapes := RandomShapes(rand.New(rand.NewSource(7)), 20, 20, 30)
	if err := w.AddShapes(shapes...); err != nil {
		t.Fatal(err)
	}

	target := shapes[3]
	if err := w.MoveShape(target, types.XYZ(0, 0, 100)); err != nil {
		t.Fatal(err)
	}

	hit := w.NearestHit(bvh.NewRay(types.XYZ(0, 0, 90), types.XYZ(0, 0, 1)))
	if hit.Primitive != target {
		t.Fatalf("expected moved shape to be hit; got %+v", hit)
	}
	if w.Index().BBox().Max[2] < target.BBox().Max[2] {
		t.Fatalf("expected index bounds %v to contain moved shape bounds %v", w.Index().BBox(), target.BBox())
	}
}

func TestWorldGrab(t *testing.T) {
	w := NewWorld(bvh.DefaultLeafCapacity)
	camera := NewCamera(45)

	target := NewSphere(types.XYZ(0, 0, -10), 1)
	distant := NewSphere(types.XYZ(5, 0, -50), 1)
	if err := w.AddShapes(target, distant); err != nil {
		t.Fatal(err)
	}

	if !w.Grab(camera) || w.Grabbed() != target {
		t.Fatal("expected the sphere in front of the camera to be grabbed")
	}

	if err := w.UpdateGrabbed(camera); err != nil {
		t.Fatal(err)
	}
	if !target.Center().ApproxEqual(types.XYZ(0, 0, -camera.HoldDistance), 1e-5) {
		t.Fatalf("expected grabbed shape to be held at %v; got %v", types.XYZ(0, 0, -camera.HoldDistance), target.Center())
	}
	if hit := w.NearestHit(camera.ForwardRay()); hit.Primitive != target || hit.Distance != camera.HoldDistance-1 {
		t.Fatalf("expected index to be rebuilt after moving the held shape; got %+v", hit)
	}

	w.Release()
	if w.Holding() {
		t.Fatal("expected world not to hold a shape after release")
	}

	// Shapes past the grab distance cannot be grabbed
	camera.Position = types.XYZ(5, 0, 0)
	camera.LookAt = types.XYZ(5, 0, -1)
	camera.Update()
	if w.Grab(camera) {
		t.Fatalf("expected distant shape not to be grabbed; grabbed %v", w.Grabbed())
	}

	// Removing the held shape releases it
	camera.Position = types.XYZ(0, 0, 0)
	camera.LookAt = types.XYZ(0, 0, -1)
	camera.Update()
	if !w.Grab(camera) {
		t.Fatal("expected shape to be grabbed")
	}
	if err := w.RemoveShape(target); err != nil {
		t.Fatal(err)
	}
	if w.Holding() {
		t.Fatal("expected removed shape to be released")
	}
	if err := w.UpdateGrabbed(camera); err != nil {
		t.Fatal(err)
	}
}

func TestRandomShapes(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	shapes := RandomShapes(rng, 30, 20, 10)
	if len(shapes) != 50 {
		t.Fatalf("expected 50 shapes; got %d", len(shapes))
	}

	for index, shape := range shapes {
		if shape.Center().Len() > 10+1e-4 {
			t.Errorf("[shape %d] expected center inside world radius; got %v", index, shape.Center())
		}
		expType := SphereShape
		if index >= 30 {
			expType = CuboidShape
		}
		if shape.Type() != expType {
			t.Errorf("[shape %d] expected type %s; got %s", index, expType, shape.Type())
		}
	}

	for i := 0; i < 100; i++ {
		if l := RandomDirection(rng).Len(); l < 0.999 || l > 1.001 {
			t.Fatalf("expected unit direction; got length %f", l)
		}
	}
}
