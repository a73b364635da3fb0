// Package model holds the OSM graph model: Nodes and Ways with tag
// dictionaries, the back-references from a Node to every Way it
// participates in, and the precomputed neighbor map that the pathfinder
// walks during search.
package model

import "osmrouter/internal/geo"

// InvalidID is the sentinel id for an object that was never assigned one.
const InvalidID int64 = -1

// Tags is an unordered key/value dictionary with unique keys, attached to
// both Nodes and Ways.
type Tags map[string]string

// Find returns the tag value for key, or "" if absent.
func (t Tags) Find(key string) string {
	return t[key]
}

// Has reports whether key is present (regardless of value).
func (t Tags) Has(key string) bool {
	_, ok := t[key]
	return ok
}

// Object is the common ancestor of Node and Way.
type Object struct {
	ID   int64
	Tags Tags
}

// Valid reports whether the object was assigned a real id.
func (o Object) Valid() bool {
	return o.ID != InvalidID
}

// Way is an ordered sequence of Nodes (a polyline) plus tags.
type Way struct {
	Object
	Nodes []*Node
}

// NewWay returns an empty Way with the invalid sentinel id.
func NewWay() *Way {
	return &Way{Object: Object{ID: InvalidID, Tags: Tags{}}}
}

// BoundingBox returns the axis-aligned bbox of the way's nodes.
func (w *Way) BoundingBox() geo.BoundingBox {
	positions := make([]geo.Position, len(w.Nodes))
	for i, n := range w.Nodes {
		positions[i] = n.Position
	}
	return geo.Envelope(positions)
}

// Drivable reports whether the way carries a highway tag.
func (w *Way) Drivable() bool {
	return w.Tags.Has("highway")
}

// NeighborInfo describes the edge from a Node to one of its neighbors.
type NeighborInfo struct {
	Distance float64
	Tags     Tags
	// IsPositiveDirection records whether traversing toward the neighbor
	// follows the way's stored node order (true) or reverses it (false).
	// Consulted only to honor oneway=yes.
	IsPositiveDirection bool
}

// Node is a Position plus back-references to its incident Ways and
// precomputed neighbor metadata.
type Node struct {
	Object
	Position  geo.Position
	Ways      map[*Way]struct{}
	Neighbors map[*Node]NeighborInfo
}

// NewNode returns an empty Node with the invalid sentinel id.
func NewNode() *Node {
	return &Node{
		Object:    Object{ID: InvalidID, Tags: Tags{}},
		Ways:      make(map[*Way]struct{}),
		Neighbors: make(map[*Node]NeighborInfo),
	}
}

// HasDrivableWay reports whether any incident way is tagged highway=*.
func (n *Node) HasDrivableWay() bool {
	for w := range n.Ways {
		if w.Drivable() {
			return true
		}
	}
	return false
}
