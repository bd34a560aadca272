package scene

import (
	"fmt"

	"github.com/achilleasa/flatbvh/bvh"
	"github.com/achilleasa/flatbvh/log"
	"github.com/achilleasa/flatbvh/types"
)

// A World holds a set of shapes and the BVH index over them. Every change to
// the shape set (add, remove, move) triggers a full index rebuild.
//
// World does not synchronize access. Callers must make sure that no queries
// are in flight while the shape set is being modified.
type World struct {
	logger log.Logger

	shapes []Shape
	index  *bvh.Index

	leafCapacity int

	// The shape currently held in front of the camera.
	grabbed Shape
}

// Create an empty world. The leafCapacity is passed through to bvh.Build.
func NewWorld(leafCapacity int) *World {
	w := &World{
		logger:       log.New("world"),
		shapes:       make([]Shape, 0),
		leafCapacity: leafCapacity,
	}

	// Building an empty index cannot fail
	w.index, _ = bvh.Build(nil, leafCapacity)
	return w
}

// Get the shapes in insertion order.
func (w *World) Shapes() []Shape {
	return w.shapes
}

// Get the current index.
func (w *World) Index() *bvh.Index {
	return w.index
}

// Add one or more shapes to the world and rebuild the index.
func (w *World) AddShapes(shapes ...Shape) error {
	prevLen := len(w.shapes)
	for _, shape := range shapes {
		if w.indexOf(shape) != -1 {
			w.shapes = w.shapes[:prevLen]
			return fmt.Errorf("scene: shape already added")
		}
		w.shapes = append(w.shapes, shape)
	}

	if err := w.Rebuild(); err != nil {
		w.shapes = w.shapes[:prevLen]
		return err
	}
	return nil
}

// Remove a shape from the world and rebuild the index. If the rebuild fails
// the shape set is left unchanged. Slices previously returned by Shapes are
// not modified.
func (w *World) RemoveShape(shape Shape) error {
	index := w.indexOf(shape)
	if index == -1 {
		return fmt.Errorf("scene: unknown shape")
	}

	prevShapes := w.shapes
	w.shapes = make([]Shape, 0, len(prevShapes)-1)
	w.shapes = append(w.shapes, prevShapes[:index]...)
	w.shapes = append(w.shapes, prevShapes[index+1:]...)
	if err := w.Rebuild(); err != nil {
		w.shapes = prevShapes
		return err
	}

	if w.grabbed == shape {
		w.grabbed = nil
	}
	return nil
}

// Move a shape and rebuild the index. If the rebuild fails the shape is
// moved back to its previous position.
func (w *World) MoveShape(shape Shape, point types.Vec3) error {
	if w.indexOf(shape) == -1 {
		return fmt.Errorf("scene: unknown shape")
	}

	prevPoint := shape.Center()
	shape.MoveTo(point)
	if err := w.Rebuild(); err != nil {
		shape.MoveTo(prevPoint)
		return err
	}
	return nil
}

// Rebuild the index from the current shape set.
func (w *World) Rebuild() error {
	prims := make([]bvh.Primitive, len(w.shapes))
	for i, shape := range w.shapes {
		prims[i] = shape
	}

	index, err := bvh.Build(prims, w.leafCapacity)
	if err != nil {
		return fmt.Errorf("scene: could not rebuild index: %w", err)
	}

	w.index = index
	w.logger.Debugf("rebuilt index for %d shapes", len(w.shapes))
	return nil
}

// Find the nearest shape hit by the ray.
func (w *World) NearestHit(ray bvh.Ray) bvh.Intersection {
	return w.index.NearestHit(ray)
}

// Pick the nearest shape along the camera view direction if it is closer
// than the camera grab distance. Returns true if a shape is being held.
func (w *World) Grab(camera *Camera) bool {
	if w.Holding() {
		return true
	}

	hit := w.NearestHit(camera.ForwardRay())
	if hit.Hit() && hit.Distance < camera.GrabDistance {
		w.grabbed = hit.Primitive.(Shape)
		w.logger.Infof("grabbed %s at distance %3.3f", w.grabbed.Type(), hit.Distance)
	}
	return w.Holding()
}

// Release the held shape.
func (w *World) Release() {
	w.grabbed = nil
}

// Returns true if a shape is being held.
func (w *World) Holding() bool {
	return w.grabbed != nil
}

// Get the held shape or nil.
func (w *World) Grabbed() Shape {
	return w.grabbed
}

// Move the held shape to the camera hold distance and rebuild the index.
func (w *World) UpdateGrabbed(camera *Camera) error {
	if !w.Holding() {
		return nil
	}

	target := camera.Position.Add(camera.Forward().Mul(camera.HoldDistance))
	return w.MoveShape(w.grabbed, target)
}

func (w *World) indexOf(shape Shape) int {
	for i, s := range w.shapes {
		if s == shape {
			return i
		}
	}
	return -1
}
