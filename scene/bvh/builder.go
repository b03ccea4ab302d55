package bvh

import (
	"math"
	"time"

	"github.com/achilleasa/lumen/log"
	"github.com/achilleasa/lumen/types"
)

type Axis uint8

const (
	XAxis Axis = iota
	YAxis
	ZAxis

	// The BVH builder will not attempt to calculate split candidates
	// if the node bbox along an axis is less than this threshold.
	minSideLength float32 = 1e-3

	// If the split step (calculated as side length / (1024 / (depth+1)))
	// is less than this threshold the BVH builder will not evaluate
	// split candidates.
	minSplitStep float32 = 1e-5
)

var (
	// A split scoring strategy that uses the surface area heuristic (SAH).
	SurfaceAreaHeuristic = surfaceAreaHeuristic{}
)

// The BoundedVolume interface is implemented by all items that can be
// partitioned by the bvh builder.
type BoundedVolume interface {
	Bounds() types.Bounds3
	Center() types.Vec3
}

// A callback that is called whenever the BVH builder creates a new leaf.
type LeafCallback func(leaf *Node, itemList []BoundedVolume)

// A split scoring strategy.
type ScoreStrategy interface {
	// Calculate a score for splitting workList at splitPoint along a particular Axis.
	ScoreSplit(workList []BoundedVolume, splitAxis Axis, splitPoint float32) (leftCount, rightCount int, score float32)

	// Calculate a score for all items in workList.
	ScorePartition(workList []BoundedVolume) (score float32)
}

// Statistics collected while building a BVH.
type Stats struct {
	Primitives int `json:"primitives"`
	Nodes      int `json:"nodes"`
	Leaves     int `json:"leaves"`
	MaxDepth   int `json:"max_depth"`
}

type splitScore struct {
	axis       Axis
	splitPoint float32

	leftCount, rightCount int
	score                 float32
}

type builder struct {
	logger log.Logger

	// Bvh nodes stored as a contiguous list
	nodes []Node

	// A callback invoked to set up BVH leafs.
	leafCb LeafCallback

	// The minimum number of items that are required for creating a leaf.
	minLeafItems int

	// A channel for receiving score results.
	scoreChan chan splitScore

	// The split scoring strategy to use.
	scoreStrategy ScoreStrategy

	stats Stats
}

// Construct a BVH from a set of bounded volumes.
//
// The minLeafItems param should be used to specify the minimum number of
// items that can form a leaf. The BVH builder will automatically generate leafs
// if the incoming work length is <= minLeafItems.
//
// Nodes are emitted in depth-first order so the left child of an internal
// node always directly follows it. An empty work list yields no nodes.
func Build(workList []BoundedVolume, minLeafItems int, leafCb LeafCallback, scoreStrategy ScoreStrategy) ([]Node, Stats) {
	b := &builder{
		logger:        log.New("bvh builder"),
		nodes:         make([]Node, 0),
		leafCb:        leafCb,
		minLeafItems:  minLeafItems,
		scoreChan:     make(chan splitScore),
		scoreStrategy: scoreStrategy,
		stats: Stats{
			Primitives: len(workList),
		},
	}

	if len(workList) == 0 {
		return b.nodes, b.stats
	}

	start := time.Now()
	b.partition(workList, 0)
	b.logger.Debugf(
		"BVH tree build time: %d ms, items: %d, maxDepth: %d, nodes: %d, leafs: %d",
		time.Since(start).Milliseconds(),
		b.stats.Primitives, b.stats.MaxDepth, b.stats.Nodes, b.stats.Leaves,
	)
	return b.nodes, b.stats
}

// Partition worklist and return node index.
func (b *builder) partition(workList []BoundedVolume, depth int) uint32 {
	if depth > b.stats.MaxDepth {
		b.stats.MaxDepth = depth
	}

	// Calculate bounding box for node
	bbox := types.EmptyBounds3()
	for _, item := range workList {
		bbox = bbox.Union(item.Bounds())
	}
	var node Node
	node.SetBBox(bbox)

	// Do we have enough items for partitioning? If not create a leaf
	if len(workList) <= b.minLeafItems {
		return b.createLeaf(&node, workList)
	}

	// Calc current node score
	var bestScore float32 = b.scoreStrategy.ScorePartition(workList)
	var bestSplit *splitScore = nil

	// Try partitioning along each axis and select the split with best score
	pendingScores := 0

	// Run axis split tests in parallel
	side := node.Max.Sub(node.Min)
	for axis := XAxis; axis <= ZAxis; axis++ {
		// Skip axis if bbox dimension is too small
		if side[axis] < minSideLength {
			continue
		}

		// We want the split steps to become more granular the deeper we go
		splitStep := side[axis] / (1024.0 / float32(depth+1))
		if splitStep < minSplitStep {
			continue
		}

		// Step with an integer counter; accumulating splitStep stalls when it
		// drops below the float spacing of large coordinates.
		numSplits := int(side[axis] / splitStep)
		for split := 0; split < numSplits; split++ {
			pendingScores++
			go func(axis Axis, splitPoint float32) {
				lCount, rCount, score := b.scoreStrategy.ScoreSplit(workList, axis, splitPoint)
				b.scoreChan <- splitScore{
					axis:       axis,
					splitPoint: splitPoint,

					leftCount:  lCount,
					rightCount: rCount,
					score:      score,
				}
			}(axis, node.Min[axis]+float32(split)*splitStep)
		}
	}

	// Process all scores and pick the best split
	for ; pendingScores > 0; pendingScores-- {
		candidate := <-b.scoreChan
		if candidate.score < bestScore || (bestSplit != nil && candidate.score == bestScore && candidate.less(bestSplit)) {
			bestScore = candidate.score
			bestSplit = &candidate
		}
	}

	// If we can't find a split that improves the current node score create a leaf
	if bestSplit == nil {
		return b.createLeaf(&node, workList)
	}

	// split work list into two sets
	leftWorkList := make([]BoundedVolume, bestSplit.leftCount)
	rightWorkList := make([]BoundedVolume, bestSplit.rightCount)
	leftIndex := 0
	rightIndex := 0
	for _, item := range workList {
		center := item.Center()
		if center[bestSplit.axis] < bestSplit.splitPoint {
			leftWorkList[leftIndex] = item
			leftIndex++
		} else {
			rightWorkList[rightIndex] = item
			rightIndex++
		}
	}

	// Add node to list
	nodeIndex := len(b.nodes)
	b.nodes = append(b.nodes, node)
	b.stats.Nodes++

	// Partition children and update node indices
	leftNodeIndex := b.partition(leftWorkList, depth+1)
	rightNodeIndex := b.partition(rightWorkList, depth+1)
	b.nodes[nodeIndex].SetChildNodes(leftNodeIndex, rightNodeIndex)

	return uint32(nodeIndex)
}

// Setup the given node item as a leaf node containing all items in the work list.
// Returns the index to the node in the bvh node array.
func (b *builder) createLeaf(node *Node, workList []BoundedVolume) uint32 {
	b.leafCb(node, workList)

	// append node to list
	nodeIndex := len(b.nodes)
	b.nodes = append(b.nodes, *node)

	// update stats
	b.stats.Nodes++
	b.stats.Leaves++

	return uint32(nodeIndex)
}

// Order equally scored candidates so that builds are deterministic even
// though scores arrive in arbitrary order.
func (s *splitScore) less(other *splitScore) bool {
	if s.axis != other.axis {
		return s.axis < other.axis
	}
	return s.splitPoint < other.splitPoint
}

// A score implementation that uses surface area heuristic for calculating split scores.
type surfaceAreaHeuristic struct{}

// Score a BVH split based on the surface area heuristic. The SAH calculates
// the split score using the formula (lower score is better):
//
// left count * left BBOX area + rightCount * right BBOX area.
//
// SAH avoids splits that generate empty partitions by assigning the worst
// possible score (MaxFloat32) when it encounters such cases.
func (h surfaceAreaHeuristic) ScoreSplit(workList []BoundedVolume, axis Axis, splitPoint float32) (leftCount, rightCount int, score float32) {
	lbox := types.EmptyBounds3()
	rbox := types.EmptyBounds3()

	for _, item := range workList {
		center := item.Center()
		if center[axis] < splitPoint {
			leftCount++
			lbox = lbox.Union(item.Bounds())
		} else {
			rightCount++
			rbox = rbox.Union(item.Bounds())
		}
	}

	// Make sure that we don't generate empty partitions
	if leftCount == 0 || rightCount == 0 {
		return leftCount, rightCount, math.MaxFloat32
	}

	score = float32(leftCount)*halfArea(lbox) + float32(rightCount)*halfArea(rbox)
	return leftCount, rightCount, score
}

// Calculate score for a partitioned workList using formula:
// count * BBOX area
//
// If the workList is empty, then this method returns the worst possible
// score (MaxFloat32).
func (h surfaceAreaHeuristic) ScorePartition(workList []BoundedVolume) (score float32) {
	if len(workList) == 0 {
		return math.MaxFloat32
	}

	box := types.EmptyBounds3()
	for _, item := range workList {
		box = box.Union(item.Bounds())
	}
	return float32(len(workList)) * halfArea(box)
}

func halfArea(b types.Bounds3) float32 {
	side := b.Diagonal()
	return side[0]*side[1] + side[1]*side[2] + side[0]*side[2]
}
