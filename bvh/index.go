package bvh

// A flattened BVH over a fixed set of primitives.
//
// An Index is immutable once built. If any primitive is added, removed or
// moved the index must be rebuilt from scratch with Build; there is no
// partial update.
type Index struct {
	// Primitives reordered so that each leaf covers a contiguous range.
	prims []Primitive

	// The flattened tree; the root is at index 0.
	nodes []Node

	stats Stats
}

// Get the flattened tree nodes. The returned slice must not be modified.
func (ix *Index) Nodes() []Node {
	return ix.nodes
}

// Get the indexed primitives in leaf order. The returned slice must not be
// modified.
func (ix *Index) Primitives() []Primitive {
	return ix.prims
}

// Get the number of indexed primitives.
func (ix *Index) Len() int {
	return len(ix.prims)
}

// Get the index build statistics.
func (ix *Index) Stats() Stats {
	return ix.stats
}

// Get the bbox of all indexed primitives.
func (ix *Index) BBox() BBox {
	return ix.nodes[0].BBox
}
