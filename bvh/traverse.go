package bvh

import "github.com/achilleasa/flatbvh/types"

// Find the nearest primitive hit by the ray. If the ray misses all indexed
// primitives then NoHit() is returned.
//
// Subtrees whose bbox entry distance is not closer than the best hit found
// so far are skipped. When both children of a node are hit, the child with
// the closest entry distance is visited first. Hits at exactly the same
// distance keep the first primitive that was found.
//
// NearestHit does not modify the index and can be called concurrently.
func (ix *Index) NearestHit(ray Ray) Intersection {
	best := NoHit()

	var stack [TraversalStackCapacity]traversalEntry
	stack[0] = traversalEntry{node: 0, tMin: types.Inf(-1)}
	sp := 1

	for sp > 0 {
		sp--
		entry := stack[sp]

		if entry.tMin >= best.Distance {
			continue
		}

		node := &ix.nodes[entry.node]
		if node.IsLeaf() {
			for _, prim := range ix.prims[node.Start : node.Start+node.Count] {
				candidate := prim.Intersect(ray)
				if candidate.Distance < best.Distance {
					best = candidate
				}
			}
			continue
		}

		left := entry.node + 1
		right := entry.node + node.RightOffset
		leftNear, _, hitLeft := ix.nodes[left].BBox.Intersect(ray)
		rightNear, _, hitRight := ix.nodes[right].BBox.Intersect(ray)

		switch {
		case hitLeft && hitRight:
			near, far := left, right
			nearT, farT := leftNear, rightNear
			if rightNear < leftNear {
				near, far = far, near
				nearT, farT = farT, nearT
			}

			// The far child may still contain the nearest hit
			stack[sp] = traversalEntry{node: far, tMin: farT}
			sp++
			stack[sp] = traversalEntry{node: near, tMin: nearT}
			sp++
		case hitLeft:
			stack[sp] = traversalEntry{node: left, tMin: leftNear}
			sp++
		case hitRight:
			stack[sp] = traversalEntry{node: right, tMin: rightNear}
			sp++
		}
	}

	return best
}

// Intersect the ray with every primitive in the list and return the nearest
// hit. Hits at exactly the same distance keep the first primitive in the list.
func BruteForce(prims []Primitive, ray Ray) Intersection {
	best := NoHit()
	for _, prim := range prims {
		candidate := prim.Intersect(ray)
		if candidate.Distance < best.Distance {
			best = candidate
		}
	}
	return best
}
