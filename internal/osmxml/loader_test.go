package osmxml

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

func writeTestFile(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "extract.osm")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	return path
}

const straightLineChain = `<?xml version="1.0"?>
<osm>
  <bounds minlat="-1" minlon="-1" maxlat="5" maxlon="5"/>
  <node id="1" lat="0" lon="0"><tag k="name" v="a"/></node>
  <node id="2" lat="1" lon="0"/>
  <node id="3" lat="2" lon="0"/>
  <way id="100">
    <nd ref="1"/>
    <nd ref="2"/>
    <nd ref="3"/>
    <tag k="highway" v="primary"/>
    <tag k="maxspeed" v="10"/>
  </way>
</osm>`

func TestLoadWiresBackReferencesAndNeighbors(t *testing.T) {
	path := writeTestFile(t, straightLineChain)
	snap, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if len(snap.NodesByID) != 3 {
		t.Fatalf("got %d nodes, want 3", len(snap.NodesByID))
	}
	way := snap.WaysByID[100]
	if way == nil {
		t.Fatal("way 100 missing")
	}

	// Invariant 1: every way in a node's back-reference set contains that node.
	for _, n := range snap.NodesByID {
		for w := range n.Ways {
			found := false
			for _, wn := range w.Nodes {
				if wn == n {
					found = true
				}
			}
			if !found {
				t.Errorf("node %d references way %d which doesn't contain it", n.ID, w.ID)
			}
		}
	}

	n1, n2 := snap.NodesByID[1], snap.NodesByID[2]
	info, ok := n1.Neighbors[n2]
	if !ok {
		t.Fatal("expected node 1 to have node 2 as a neighbor")
	}
	if math.Abs(info.Distance-1.0) > 1e-12 {
		t.Errorf("distance = %v, want 1.0", info.Distance)
	}
	if !info.IsPositiveDirection {
		t.Error("1->2 follows the way's stored order, expected IsPositiveDirection=true")
	}
	back, ok := n2.Neighbors[n1]
	if !ok {
		t.Fatal("expected node 2 to have node 1 as a neighbor")
	}
	if back.IsPositiveDirection {
		t.Error("2->1 reverses the way's stored order, expected IsPositiveDirection=false")
	}

	if n1.Tags.Find("name") != "a" {
		t.Errorf("tags not wired: %+v", n1.Tags)
	}
}

func TestLoadMissingBoundsFallsBackToEnvelope(t *testing.T) {
	const noBounds = `<osm>
  <node id="1" lat="0" lon="0"/>
  <node id="2" lat="3" lon="4"/>
</osm>`
	snap, err := Load(writeTestFile(t, noBounds))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if snap.Bounds.Min.Lat != 0 || snap.Bounds.Max.Lat != 3 || snap.Bounds.Max.Lon != 4 {
		t.Errorf("bounds = %+v, want envelope of the two nodes", snap.Bounds)
	}
}

func TestLoadRejectsUnknownNodeReference(t *testing.T) {
	const badRef = `<osm>
  <bounds minlat="0" minlon="0" maxlat="1" maxlon="1"/>
  <node id="1" lat="0" lon="0"/>
  <way id="100"><nd ref="1"/><nd ref="999"/></way>
</osm>`
	_, err := Load(writeTestFile(t, badRef))
	if err == nil {
		t.Fatal("expected an error for a way referencing an unknown node")
	}
}

func TestLoadRejectsMissingOsmRoot(t *testing.T) {
	const noRoot = `<notosm></notosm>`
	_, err := Load(writeTestFile(t, noRoot))
	if err == nil {
		t.Fatal("expected an error when the root element isn't <osm>")
	}
}

func TestLoadDropsTagsWithMissingKOrV(t *testing.T) {
	const partialTag = `<osm>
  <bounds minlat="0" minlon="0" maxlat="1" maxlon="1"/>
  <node id="1" lat="0" lon="0"><tag k="" v="x"/><tag k="highway" v="primary"/></node>
</osm>`
	snap, err := Load(writeTestFile(t, partialTag))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	n := snap.NodesByID[1]
	if len(n.Tags) != 1 || n.Tags.Find("highway") != "primary" {
		t.Errorf("tags = %+v, want only highway=primary", n.Tags)
	}
}

func TestLoadKeepsCheapestDuplicateEdge(t *testing.T) {
	const duplicateEdge = `<osm>
  <bounds minlat="0" minlon="0" maxlat="1" maxlon="1"/>
  <node id="1" lat="0" lon="0"/>
  <node id="2" lat="1" lon="0"/>
  <way id="100"><nd ref="1"/><nd ref="2"/><tag k="highway" v="residential"/></way>
  <way id="200"><nd ref="1"/><nd ref="2"/><tag k="highway" v="motorway"/></way>
</osm>`
	snap, err := Load(writeTestFile(t, duplicateEdge))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	n1, n2 := snap.NodesByID[1], snap.NodesByID[2]
	// Both ways produce the same plain distance (1.0); the tie-break keeps
	// whichever was written, and ties resolve to the first writer since a
	// strictly-cheaper check never replaces an equal-cost entry. Which way is
	// written first follows map order, so only the edge's presence is checked.
	if _, ok := n1.Neighbors[n2]; !ok {
		t.Fatal("expected an edge between node 1 and node 2")
	}
}
