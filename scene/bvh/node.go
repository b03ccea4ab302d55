package bvh

import "github.com/achilleasa/lumen/types"

// Bvh node definition. Nodes are stored in a flat arena with the root at
// index 0.
type Node struct {
	// Bounding box min extent.
	Min types.Vec3

	// If this is a node then LData is > 0 and contains the index to the left
	// node. If this is a leaf then LData is <= 0 and contains the negated
	// index of the first primitive in the leaf.
	LData int32

	// Bounding box max extent.
	Max types.Vec3

	// If this is a node then RData contains the index to the right node. If
	// this is a leaf then RData contains the count of primitives in the leaf.
	RData int32
}

// Set node bounding box.
func (n *Node) SetBBox(b types.Bounds3) {
	n.Min = b.Min
	n.Max = b.Max
}

// Get node bounding box.
func (n *Node) Bounds() types.Bounds3 {
	return types.Bounds3{Min: n.Min, Max: n.Max}
}

// Set left and right child node indices.
func (n *Node) SetChildNodes(left, right uint32) {
	n.LData = int32(left)
	n.RData = int32(right)
}

// Get left and right child node indices.
func (n *Node) GetChildNodes() (left, right uint32) {
	return uint32(n.LData), uint32(n.RData)
}

// Set primitive index and count.
func (n *Node) SetPrimitives(firstPrimIndex, count uint32) {
	n.LData = -int32(firstPrimIndex)
	n.RData = int32(count)
}

// Get primitive index and count.
func (n *Node) GetPrimitives() (firstPrimIndex, count uint32) {
	return uint32(-n.LData), uint32(n.RData)
}

// Returns true if this is a leaf node.
func (n *Node) IsLeaf() bool {
	return n.LData <= 0
}
