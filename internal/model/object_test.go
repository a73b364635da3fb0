package model

import "testing"

func TestValid(t *testing.T) {
	n := NewNode()
	if n.Valid() {
		t.Error("freshly constructed node should be invalid (id == -1)")
	}
	n.ID = 42
	if !n.Valid() {
		t.Error("node with a real id should be valid")
	}
}

func TestWayDrivable(t *testing.T) {
	w := NewWay()
	if w.Drivable() {
		t.Error("way with no tags should not be drivable")
	}
	w.Tags["highway"] = "primary"
	if !w.Drivable() {
		t.Error("way tagged highway=primary should be drivable")
	}
}

func TestWayBoundingBox(t *testing.T) {
	w := NewWay()
	a, b, c := NewNode(), NewNode(), NewNode()
	a.Position.Lat, a.Position.Lon = 0, 0
	b.Position.Lat, b.Position.Lon = 5, -2
	c.Position.Lat, c.Position.Lon = -1, 9
	w.Nodes = []*Node{a, b, c}

	bb := w.BoundingBox()
	if bb.Min.Lat != -1 || bb.Min.Lon != -2 || bb.Max.Lat != 5 || bb.Max.Lon != 9 {
		t.Errorf("unexpected bbox: %+v", bb)
	}
}

func TestNodeHasDrivableWay(t *testing.T) {
	n := NewNode()
	if n.HasDrivableWay() {
		t.Error("node with no ways should not have a drivable way")
	}

	footpath := NewWay()
	footpath.Tags["highway"] = "" // no highway tag set at all below
	delete(footpath.Tags, "highway")
	footpath.Tags["footway"] = "yes"
	n.Ways[footpath] = struct{}{}
	if n.HasDrivableWay() {
		t.Error("node incident only to a non-highway way should not be drivable")
	}

	road := NewWay()
	road.Tags["highway"] = "residential"
	n.Ways[road] = struct{}{}
	if !n.HasDrivableWay() {
		t.Error("node incident to a highway way should be drivable")
	}
}
