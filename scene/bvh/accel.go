// Package bvh provides a bounding volume hierarchy aggregate.
package bvh

import (
	"io"
	"strconv"

	"github.com/achilleasa/lumen/log"
	"github.com/achilleasa/lumen/scene"
	"github.com/achilleasa/lumen/types"
	"github.com/olekukonko/tablewriter"
)

// The default number of primitives below which the builder emits a leaf.
const DefaultMinLeafItems = 4

// Initial traversal stack capacity. Deeper trees grow the stack on demand.
const traversalStackSize = 64

type Option func(*config)

type config struct {
	minLeafItems  int
	scoreStrategy ScoreStrategy
	logger        log.Logger
}

// Set the number of primitives below which the builder emits a leaf.
func WithMinLeafItems(n int) Option {
	return func(c *config) {
		if n < 1 {
			n = 1
		}
		c.minLeafItems = n
	}
}

// Use a custom split scoring strategy.
func WithScoreStrategy(s ScoreStrategy) Option {
	return func(c *config) {
		c.scoreStrategy = s
	}
}

// Use a specific logger.
func WithLogger(logger log.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// Wraps a primitive with its cached bounds for the builder.
type bvhPrimitive struct {
	prim   scene.Primitive
	bounds types.Bounds3
	center types.Vec3
}

func (p *bvhPrimitive) Bounds() types.Bounds3 {
	return p.bounds
}

func (p *bvhPrimitive) Center() types.Vec3 {
	return p.center
}

// Accel is a BVH aggregate. It is immutable once built and safe for
// concurrent queries.
type Accel struct {
	nodes []Node

	// Split axis for each internal node; used to visit the near child first.
	axes []uint8

	// Primitives in leaf order. Leaves reference contiguous ranges.
	prims []scene.Primitive

	stats Stats
}

// Build a BVH over a set of primitives.
func New(prims []scene.Primitive, opts ...Option) *Accel {
	cfg := config{
		minLeafItems:  DefaultMinLeafItems,
		scoreStrategy: SurfaceAreaHeuristic,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = log.New("bvh")
	}

	workList := make([]BoundedVolume, len(prims))
	for i, prim := range prims {
		bounds := prim.WorldBound()
		workList[i] = &bvhPrimitive{
			prim:   prim,
			bounds: bounds,
			center: bounds.Center(),
		}
	}

	a := &Accel{
		prims: make([]scene.Primitive, 0, len(prims)),
	}
	leafCb := func(leaf *Node, itemList []BoundedVolume) {
		leaf.SetPrimitives(uint32(len(a.prims)), uint32(len(itemList)))
		for _, item := range itemList {
			a.prims = append(a.prims, item.(*bvhPrimitive).prim)
		}
	}
	a.nodes, a.stats = Build(workList, cfg.minLeafItems, leafCb, cfg.scoreStrategy)
	a.axes = splitAxes(a.nodes)

	cfg.logger.Debugf(
		"built BVH with %d nodes (%d leaves, max depth %d) over %d primitives",
		a.stats.Nodes, a.stats.Leaves, a.stats.MaxDepth, a.stats.Primitives,
	)
	return a
}

// Derive the axis along which each internal node separates its children.
func splitAxes(nodes []Node) []uint8 {
	axes := make([]uint8, len(nodes))
	for i := range nodes {
		if nodes[i].IsLeaf() {
			continue
		}
		left, right := nodes[i].GetChildNodes()
		delta := nodes[right].Bounds().Center().Sub(nodes[left].Bounds().Center())
		axes[i] = uint8(delta.Abs().MaxDimension())
	}
	return axes
}

// Kind implements scene.Primitive.
func (a *Accel) Kind() scene.PrimitiveKind {
	return scene.AggregateKind
}

// Material implements scene.Primitive. Aggregates carry no material; hits
// report the material of the leaf primitive that was hit.
func (a *Accel) Material() *scene.Material {
	return nil
}

// WorldBound implements scene.Primitive.
func (a *Accel) WorldBound() types.Bounds3 {
	if len(a.nodes) == 0 {
		return types.EmptyBounds3()
	}
	return a.nodes[0].Bounds()
}

// Leaves implements scene.Aggregate.
func (a *Accel) Leaves() scene.PrimitiveView {
	return scene.NewPrimitiveView(a.prims)
}

// Get the node arena.
func (a *Accel) Nodes() []Node {
	return a.nodes
}

// Get build statistics.
func (a *Accel) Stats() Stats {
	return a.stats
}

// Intersect implements scene.Primitive.
func (a *Accel) Intersect(ray scene.Ray, isect *scene.SurfaceInteraction) bool {
	return a.traverse(ray, isect, false)
}

// IntersectP implements scene.Primitive.
func (a *Accel) IntersectP(ray scene.Ray) bool {
	return a.traverse(ray, nil, true)
}

func (a *Accel) traverse(ray scene.Ray, isect *scene.SurfaceInteraction, anyHit bool) bool {
	if len(a.nodes) == 0 {
		return false
	}

	invDir := types.XYZ(1/ray.Dir[0], 1/ray.Dir[1], 1/ray.Dir[2])
	var dirIsNeg [3]int
	for axis := 0; axis < 3; axis++ {
		if invDir[axis] < 0 {
			dirIsNeg[axis] = 1
		}
	}

	var (
		stackBuf [traversalStackSize]uint32
		stack    = stackBuf[:0]
		cur      uint32
		hit      bool
	)
	for {
		node := &a.nodes[cur]
		if node.Bounds().IntersectPInv(ray.Origin, invDir, dirIsNeg, ray.TMax) {
			if node.IsLeaf() {
				first, count := node.GetPrimitives()
				for _, prim := range a.prims[first : first+count] {
					if anyHit {
						if prim.IntersectP(ray) {
							return true
						}
						continue
					}
					if prim.Intersect(ray, isect) {
						hit = true
						ray.TMax = isect.T
					}
				}
			} else {
				left, right := node.GetChildNodes()
				if dirIsNeg[a.axes[cur]] == 1 {
					left, right = right, left
				}
				stack = append(stack, right)
				cur = left
				continue
			}
		}

		if len(stack) == 0 {
			break
		}
		cur = stack[len(stack)-1]
		stack = stack[:len(stack)-1]
	}
	return hit
}

// Render the stats as a table.
func (s Stats) Table(w io.Writer) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Primitives", "Nodes", "Leaves", "Max depth"})
	table.Append([]string{
		strconv.Itoa(s.Primitives),
		strconv.Itoa(s.Nodes),
		strconv.Itoa(s.Leaves),
		strconv.Itoa(s.MaxDepth),
	})
	table.Render()
}
