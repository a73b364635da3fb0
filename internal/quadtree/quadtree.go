// Package quadtree implements a region quadtree over latitude/longitude,
// used to snap free-form query positions to the nearest graph node on a
// drivable road. It stores a small tagged union of *model.Node and
// *model.Way rather than a shared base type (Go has no object hierarchy),
// matching the "tagged variant over a base class" redesign the spec calls
// for.
package quadtree

import (
	"fmt"

	"osmrouter/internal/geo"
	"osmrouter/internal/model"
)

// Item is a tagged union: exactly one of Node or Way is non-nil.
type Item struct {
	Node *model.Node
	Way  *model.Way
}

// Tree is a recursive region of lat/lon space holding at most Capacity
// items before it subdivides into four children (SW, SE, NW, NE).
type Tree struct {
	BoundingBox geo.BoundingBox
	Capacity    int
	Items       []Item
	Divided     bool
	Children    [4]*Tree
}

// New returns an empty quadtree over bbox with the given per-cell capacity.
// capacity must be positive.
func New(bbox geo.BoundingBox, capacity int) *Tree {
	if capacity <= 0 {
		panic("quadtree: capacity must be positive")
	}
	return &Tree{BoundingBox: bbox, Capacity: capacity}
}

// InsertNode inserts a Node, rejecting it if its position falls outside
// this cell's bounding box.
func (t *Tree) InsertNode(n *model.Node) bool {
	if !t.BoundingBox.Contains(n.Position) {
		return false
	}
	return t.insert(Item{Node: n})
}

// InsertWay inserts a Way, rejecting it if its bounding box does not
// intersect this cell's bounding box.
func (t *Tree) InsertWay(w *model.Way) bool {
	if !t.BoundingBox.Intersects(w.BoundingBox()) {
		return false
	}
	return t.insert(Item{Way: w})
}

// insert assumes the spatial predicate for item has already been checked
// against this cell.
func (t *Tree) insert(item Item) bool {
	if len(t.Items) < t.Capacity {
		t.Items = append(t.Items, item)
		return true
	}

	if !t.Divided {
		t.subdivide()
	}

	for _, child := range t.Children {
		if item.Node != nil {
			if child.InsertNode(item.Node) {
				return true
			}
		} else {
			if child.InsertWay(item.Way) {
				return true
			}
		}
	}

	// A parent that accepted this item spatially must have at least one
	// child that also accepts it — the children's bboxes exactly partition
	// the parent's. Reaching here means the quadtree invariant is broken.
	panic(fmt.Sprintf("quadtree: no child accepted item that the parent accepted (bbox=%+v)", t.BoundingBox))
}

// subdivide splits this cell into four children at the midpoint of each
// axis: SW, SE, NW, NE. Existing items are left in the parent (legacy
// retention), matching the spec's explicitly allowed tradeoff.
func (t *Tree) subdivide() {
	minLat, minLon := t.BoundingBox.Min.Lat, t.BoundingBox.Min.Lon
	maxLat, maxLon := t.BoundingBox.Max.Lat, t.BoundingBox.Max.Lon
	midLat := (minLat + maxLat) / 2
	midLon := (minLon + maxLon) / 2

	t.Children[0] = New(geo.BoundingBox{ // SW
		Min: geo.Position{Lat: minLat, Lon: minLon},
		Max: geo.Position{Lat: midLat, Lon: midLon},
	}, t.Capacity)
	t.Children[1] = New(geo.BoundingBox{ // SE
		Min: geo.Position{Lat: minLat, Lon: midLon},
		Max: geo.Position{Lat: midLat, Lon: maxLon},
	}, t.Capacity)
	t.Children[2] = New(geo.BoundingBox{ // NW
		Min: geo.Position{Lat: midLat, Lon: minLon},
		Max: geo.Position{Lat: maxLat, Lon: midLon},
	}, t.Capacity)
	t.Children[3] = New(geo.BoundingBox{ // NE
		Min: geo.Position{Lat: midLat, Lon: midLon},
		Max: geo.Position{Lat: maxLat, Lon: maxLon},
	}, t.Capacity)

	t.Divided = true
}

// FindNode returns every indexed Node whose position lies in bbox and for
// which predicate holds. Subtrees whose bounding box doesn't intersect
// bbox are pruned.
func (t *Tree) FindNode(bbox geo.BoundingBox, predicate func(*model.Node) bool) []*model.Node {
	var result []*model.Node
	for _, item := range t.Items {
		if item.Node == nil {
			continue
		}
		if bbox.Contains(item.Node.Position) && predicate(item.Node) {
			result = append(result, item.Node)
		}
	}

	if t.Divided {
		for _, child := range t.Children {
			if child.BoundingBox.Intersects(bbox) {
				result = append(result, child.FindNode(bbox, predicate)...)
			}
		}
	}

	return result
}

// FindWay returns every indexed Way whose bounding box intersects bbox and
// for which predicate holds.
func (t *Tree) FindWay(bbox geo.BoundingBox, predicate func(*model.Way) bool) []*model.Way {
	var result []*model.Way
	for _, item := range t.Items {
		if item.Way == nil {
			continue
		}
		if bbox.Intersects(item.Way.BoundingBox()) && predicate(item.Way) {
			result = append(result, item.Way)
		}
	}

	if t.Divided {
		for _, child := range t.Children {
			if child.BoundingBox.Intersects(bbox) {
				result = append(result, child.FindWay(bbox, predicate)...)
			}
		}
	}

	return result
}
