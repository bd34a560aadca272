package renderer

import (
	"image"
	"image/color"
	"math"

	"github.com/achilleasa/flatbvh/bvh"
)

const (
	nearShade = 255
	farShade  = 32
)

// Convert per-pixel intersections into a grayscale depth image. Hits are
// shaded from white (nearest hit in the frame) to dark gray (farthest hit);
// misses are black.
func DepthImage(hits []bvh.Intersection, frameW, frameH uint32) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, int(frameW), int(frameH)))

	minDist, maxDist := float32(math.Inf(1)), float32(math.Inf(-1))
	for _, hit := range hits {
		if !hit.Hit() {
			continue
		}
		if hit.Distance < minDist {
			minDist = hit.Distance
		}
		if hit.Distance > maxDist {
			maxDist = hit.Distance
		}
	}

	depthRange := maxDist - minDist
	for y := uint32(0); y < frameH; y++ {
		for x := uint32(0); x < frameW; x++ {
			hit := hits[y*frameW+x]
			if !hit.Hit() {
				continue
			}

			shade := float32(nearShade)
			if depthRange > 0 {
				shade -= (nearShade - farShade) * (hit.Distance - minDist) / depthRange
			}
			img.SetGray(int(x), int(y), color.Gray{Y: uint8(shade)})
		}
	}

	return img
}
