package scene

import (
	"math"
	"math/rand"

	"github.com/achilleasa/flatbvh/types"
)

// Generate spheres and cuboids at random points inside a sphere of the given
// radius centered at the origin. Sphere radii and cuboid sides are picked
// from [0.5, 1.5).
func RandomShapes(rng *rand.Rand, sphereCount, cuboidCount int, worldRadius float32) []Shape {
	shapes := make([]Shape, 0, sphereCount+cuboidCount)
	for i := 0; i < sphereCount; i++ {
		shapes = append(shapes, NewSphere(RandomPointInSphere(rng, types.Vec3{}, worldRadius), 0.5+rng.Float32()))
	}
	for i := 0; i < cuboidCount; i++ {
		size := types.XYZ(0.5+rng.Float32(), 0.5+rng.Float32(), 0.5+rng.Float32())
		shapes = append(shapes, NewCuboid(RandomPointInSphere(rng, types.Vec3{}, worldRadius), size))
	}
	return shapes
}

// Pick a uniformly distributed point inside a sphere.
func RandomPointInSphere(rng *rand.Rand, center types.Vec3, radius float32) types.Vec3 {
	for {
		p := types.XYZ(rng.Float32()*2-1, rng.Float32()*2-1, rng.Float32()*2-1)
		if p.Dot(p) <= 1 {
			return center.Add(p.Mul(radius))
		}
	}
}

// Pick a uniformly distributed unit vector.
func RandomDirection(rng *rand.Rand) types.Vec3 {
	z := rng.Float64()*2 - 1
	phi := rng.Float64() * 2 * math.Pi
	r := math.Sqrt(1 - z*z)
	return types.XYZ(float32(r*math.Cos(phi)), float32(r*math.Sin(phi)), float32(z))
}
