package scene

import (
	"fmt"

	"github.com/achilleasa/flatbvh/types"
)

const minCameraBasis = 1e-4

// The serialized form of a scene: a camera and a list of shapes. The BVH is
// never serialized; it is rebuilt when the definition is loaded.
type Definition struct {
	Camera CameraDefinition  `json:"camera"`
	Shapes []ShapeDefinition `json:"shapes"`
}

type CameraDefinition struct {
	Position types.Vec3 `json:"position"`
	LookAt   types.Vec3 `json:"look_at"`
	Up       types.Vec3 `json:"up"`
	FOV      float32    `json:"fov"`
}

type ShapeDefinition struct {
	Type   string     `json:"type"`
	Center types.Vec3 `json:"center"`

	// Sphere radius.
	Radius float32 `json:"radius,omitempty"`

	// Cuboid side lengths.
	Size *types.Vec3 `json:"size,omitempty"`
}

// Create a definition from a set of shapes and a camera.
func NewDefinition(shapes []Shape, camera *Camera) (*Definition, error) {
	def := &Definition{
		Camera: CameraDefinition{
			Position: camera.Position,
			LookAt:   camera.LookAt,
			Up:       camera.Up,
			FOV:      camera.FOV,
		},
		Shapes: make([]ShapeDefinition, 0, len(shapes)),
	}

	for index, shape := range shapes {
		switch s := shape.(type) {
		case *Sphere:
			def.Shapes = append(def.Shapes, ShapeDefinition{Type: SphereShape.String(), Center: s.Origin, Radius: s.Radius})
		case *Cuboid:
			size := s.Size
			def.Shapes = append(def.Shapes, ShapeDefinition{Type: CuboidShape.String(), Center: s.Origin, Size: &size})
		default:
			return nil, fmt.Errorf("scene: shape %d has unsupported type %T", index, shape)
		}
	}
	return def, nil
}

// Validate the definition and instanciate its camera and shapes.
func (def *Definition) Instanciate() ([]Shape, *Camera, error) {
	if def.Camera.FOV <= 0 || def.Camera.FOV >= 180 {
		return nil, nil, fmt.Errorf("scene: camera fov must be in (0, 180); got %f", def.Camera.FOV)
	}
	if def.Camera.LookAt == def.Camera.Position {
		return nil, nil, fmt.Errorf("scene: camera position and look_at must differ")
	}

	camera := NewCamera(def.Camera.FOV)
	camera.Position = def.Camera.Position
	camera.LookAt = def.Camera.LookAt
	if def.Camera.Up != (types.Vec3{}) {
		camera.Up = def.Camera.Up
	}

	// The frustrum right axis is forward x up
	if camera.Forward().Cross(camera.Up.Normalize()).Len() < minCameraBasis {
		return nil, nil, fmt.Errorf("scene: camera up vector must not be parallel to the view direction")
	}
	camera.Update()

	shapes := make([]Shape, 0, len(def.Shapes))
	for index, sd := range def.Shapes {
		switch sd.Type {
		case SphereShape.String():
			if sd.Radius <= 0 {
				return nil, nil, fmt.Errorf("scene: sphere %d must have a positive radius", index)
			}
			shapes = append(shapes, NewSphere(sd.Center, sd.Radius))
		case CuboidShape.String():
			if sd.Size == nil || sd.Size[0] < 0 || sd.Size[1] < 0 || sd.Size[2] < 0 {
				return nil, nil, fmt.Errorf("scene: cuboid %d must have a non-negative size", index)
			}
			shapes = append(shapes, NewCuboid(sd.Center, *sd.Size))
		default:
			return nil, nil, fmt.Errorf("scene: shape %d has unknown type %q", index, sd.Type)
		}
	}

	return shapes, camera, nil
}
