package bvh

import (
	"time"

	"github.com/achilleasa/flatbvh/log"
)

const (
	// Ranges with this many primitives or less become leafs unless the
	// caller requests a different leaf capacity.
	DefaultLeafCapacity = 4

	// Max number of pending build entries. The builder always processes
	// the left range first so at any time the stack only holds the right
	// siblings of the nodes along the current path plus two fresh entries.
	BuildStackCapacity = 128

	// Max number of pending node visits per NearestHit call. Traversal
	// keeps at most one pending sibling per tree level so Build rejects
	// trees that are deeper than this.
	TraversalStackCapacity = 128
)

type builder struct {
	logger log.Logger

	// The permutation of the input primitives. Each leaf indexes a
	// contiguous range of this list.
	prims []Primitive

	// Bvh nodes stored as a contiguous list
	nodes []Node

	// The max number of primitives that a leaf may contain.
	leafCapacity int

	stats Stats
}

// Construct a BVH index over a list of primitives.
//
// The input list is not modified; the index keeps its own reordered copy of
// it. Nodes are split at the midpoint of their centroid bbox along its
// longest axis. Ranges with at most leafCapacity primitives become leafs; a
// leafCapacity <= 0 selects DefaultLeafCapacity.
//
// Build returns ErrBuildStackOverflow or ErrTreeTooDeep if the primitive
// distribution produces a tree that cannot be built or traversed with the
// fixed-size work stacks.
func Build(workList []Primitive, leafCapacity int) (*Index, error) {
	if leafCapacity <= 0 {
		leafCapacity = DefaultLeafCapacity
	}

	nodeCapacity := 2 * len(workList)
	if nodeCapacity == 0 {
		nodeCapacity = 1
	}

	b := &builder{
		logger:       log.New("bvh"),
		prims:        append(make([]Primitive, 0, len(workList)), workList...),
		nodes:        make([]Node, 0, nodeCapacity),
		leafCapacity: leafCapacity,
		stats: Stats{
			Primitives:   len(workList),
			LeafCapacity: leafCapacity,
		},
	}

	start := time.Now()
	if err := b.build(); err != nil {
		return nil, err
	}
	b.stats.BuildTime = time.Since(start)
	b.stats.Nodes = len(b.nodes)

	b.logger.Debugf(
		"BVH tree build time: %d us, primitives: %d, maxDepth: %d, nodes: %d, leafs: %d",
		b.stats.BuildTime.Nanoseconds()/1e3,
		b.stats.Primitives, b.stats.MaxDepth, b.stats.Nodes, b.stats.Leafs,
	)

	return &Index{
		prims: b.prims,
		nodes: b.nodes,
		stats: b.stats,
	}, nil
}

func (b *builder) build() error {
	var stack [BuildStackCapacity]buildEntry
	stack[0] = buildEntry{start: 0, end: len(b.prims), parent: rootParent}
	sp := 1

	for sp > 0 {
		sp--
		entry := stack[sp]

		if entry.depth >= TraversalStackCapacity {
			return ErrTreeTooDeep
		}
		if entry.depth > b.stats.MaxDepth {
			b.stats.MaxDepth = entry.depth
		}

		bbox, centroidBox := b.bounds(entry.start, entry.end)
		count := entry.end - entry.start
		node := Node{
			BBox:        bbox,
			Start:       int32(entry.start),
			Count:       int32(count),
			RightOffset: untouched,
		}

		isLeaf := count <= b.leafCapacity
		if isLeaf {
			node.RightOffset = leafRightOffset
			b.stats.Leafs++
		}

		nodeIndex := len(b.nodes)
		b.nodes = append(b.nodes, node)
		b.touchParent(entry.parent)

		if isLeaf {
			continue
		}

		middle := b.partition(entry.start, entry.end, centroidBox)

		// All centroids ended up on the same side; split the range in half
		if middle == entry.start || middle == entry.end {
			middle = entry.start + count/2
			b.stats.FallbackSplits++
		}

		if sp+2 > BuildStackCapacity {
			return ErrBuildStackOverflow
		}

		// Push right range first so the left one gets processed next
		stack[sp] = buildEntry{start: middle, end: entry.end, parent: nodeIndex, depth: entry.depth + 1}
		sp++
		stack[sp] = buildEntry{start: entry.start, end: middle, parent: nodeIndex, depth: entry.depth + 1}
		sp++

		if sp > b.stats.MaxStack {
			b.stats.MaxStack = sp
		}
	}

	return nil
}

// Calculate the bbox of the primitives in [start, end) and the bbox of their
// centers.
func (b *builder) bounds(start, end int) (bbox, centroidBox BBox) {
	bbox = EmptyBBox()
	centroidBox = EmptyBBox()
	for _, prim := range b.prims[start:end] {
		bbox.Union(prim.BBox())
		centroidBox.ExpandToInclude(prim.Center())
	}
	return bbox, centroidBox
}

// Reorder the primitives in [start, end) so that the ones whose center lies
// below the centroid box midpoint along its longest axis come first. Returns
// the index of the first primitive in the upper partition.
func (b *builder) partition(start, end int, centroidBox BBox) int {
	axis := centroidBox.LongestAxis()
	splitPoint := 0.5 * (centroidBox.Min[axis] + centroidBox.Max[axis])

	middle := start
	for i := start; i < end; i++ {
		if b.prims[i].Center()[axis] < splitPoint {
			b.prims[i], b.prims[middle] = b.prims[middle], b.prims[i]
			middle++
		}
	}
	return middle
}

// Register a newly emitted child with its parent. The left child is always
// emitted right after its parent; the right child is emitted after the whole
// left subtree so when the parent is touched for the second time the distance
// to the last emitted node is the parent's right offset.
func (b *builder) touchParent(parent int) {
	if parent == rootParent {
		return
	}

	node := &b.nodes[parent]
	node.RightOffset--
	if node.RightOffset == touchedTwice {
		node.RightOffset = int32(len(b.nodes) - 1 - parent)
	}
}
