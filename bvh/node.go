package bvh

// Flat BVH nodes are stored as a contiguous list. The RightOffset field
// determines the node type:
//
// - For leafs it is 0 and [Start, Start+Count) indexes the primitive list
// - For internal nodes it is > 0; the left child is the node that immediately
//   follows and the right child is located RightOffset entries after the node.
type Node struct {
	BBox        BBox
	Start       int32
	Count       int32
	RightOffset int32
}

const (
	leafRightOffset int32 = 0

	// The right offset of an internal node counts down from untouched as
	// its children are emitted. The second child to be emitted is the right
	// one and replaces the counter with the real offset.
	untouched    int32 = -1
	touchedOnce  int32 = -2
	touchedTwice int32 = -3

	rootParent = -1
)

// Returns true if this is a leaf node.
func (n *Node) IsLeaf() bool {
	return n.RightOffset == leafRightOffset
}

// A pending range of primitives that the builder needs to process.
type buildEntry struct {
	start, end int

	// Index of the node that generated this entry or rootParent.
	parent int

	depth int
}

// A pending node visit during traversal along with the distance at which
// the ray enters the node's bbox.
type traversalEntry struct {
	node int32
	tMin float32
}
