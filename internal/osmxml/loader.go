// Package osmxml loads an OSM XML extract into the in-memory graph model:
// it materializes Nodes and Ways, wires the Node<->Way back-references,
// derives per-node neighbor metadata, and bulk-inserts every node into a
// freshly built spatial index. The loader is the only place that depends
// on the on-disk document schema; the pathfinder depends only on the
// resulting Snapshot.
package osmxml

import (
	"encoding/xml"
	"fmt"
	"log"
	"os"

	"github.com/paulmach/osm"

	"osmrouter/internal/geo"
	"osmrouter/internal/model"
	"osmrouter/internal/quadtree"
)

// quadtreeCapacity bounds how many items a quadtree cell holds before it
// subdivides. Chosen empirically the way the teacher picks pool/buffer
// sizes: small enough to keep snap queries selective, large enough that a
// typical extract doesn't subdivide into a deep tree.
const quadtreeCapacity = 16

// document is the root of the OSM XML schema this loader accepts: one
// optional <bounds>, any number of <node> (each with any number of <tag>),
// and any number of <way> (each with ordered <nd> and any number of <tag>).
type document struct {
	XMLName xml.Name   `xml:"osm"`
	Bounds  *xmlBounds `xml:"bounds"`
	Nodes   []xmlNode  `xml:"node"`
	Ways    []xmlWay   `xml:"way"`
}

type xmlBounds struct {
	MinLat float64 `xml:"minlat,attr"`
	MaxLat float64 `xml:"maxlat,attr"`
	MinLon float64 `xml:"minlon,attr"`
	MaxLon float64 `xml:"maxlon,attr"`
}

type xmlTag struct {
	K string `xml:"k,attr"`
	V string `xml:"v,attr"`
}

type xmlNode struct {
	ID   int64    `xml:"id,attr"`
	Lat  float64  `xml:"lat,attr"`
	Lon  float64  `xml:"lon,attr"`
	Tags []xmlTag `xml:"tag"`
}

type xmlWay struct {
	ID   int64    `xml:"id,attr"`
	Nds  []xmlNd  `xml:"nd"`
	Tags []xmlTag `xml:"tag"`
}

type xmlNd struct {
	Ref int64 `xml:"ref,attr"`
}

// Snapshot is a fully loaded, immutable-after-load graph: the node and way
// tables, the spatial index over every node, and the document-declared (or
// derived) bounds. A Snapshot is safe for concurrent read-only use by any
// number of queries; it is replaced wholesale by the next Load, never
// mutated in place.
type Snapshot struct {
	NodesByID map[int64]*model.Node
	WaysByID  map[int64]*model.Way
	Tree      *quadtree.Tree
	Bounds    geo.BoundingBox
}

// Load reads path as an OSM XML document and builds a Snapshot. Any
// failure — a missing <osm> root, a non-numeric lat/lon/id, or a <nd>
// referencing an unknown node — is fatal to the whole load; no partial
// snapshot is ever returned.
func Load(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("osmxml: read %s: %w", path, err)
	}

	var doc document
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("osmxml: parse %s: %w", path, err)
	}

	nodesByID := make(map[int64]*model.Node, len(doc.Nodes))
	var rejectedTags int
	for _, xn := range doc.Nodes {
		n := model.NewNode()
		n.ID = xn.ID
		n.Position = geo.Position{Lat: xn.Lat, Lon: xn.Lon}
		n.Tags, rejectedTags = buildTags(xn.Tags, rejectedTags)
		nodesByID[n.ID] = n
	}

	waysByID := make(map[int64]*model.Way, len(doc.Ways))
	for _, xw := range doc.Ways {
		w := model.NewWay()
		w.ID = xw.ID
		w.Tags, rejectedTags = buildTags(xw.Tags, rejectedTags)

		w.Nodes = make([]*model.Node, 0, len(xw.Nds))
		for _, nd := range xw.Nds {
			n, ok := nodesByID[nd.Ref]
			if !ok {
				return nil, fmt.Errorf("osmxml: way %d references unknown node %d", xw.ID, nd.Ref)
			}
			w.Nodes = append(w.Nodes, n)
			n.Ways[w] = struct{}{}
		}
		waysByID[w.ID] = w
	}

	if rejectedTags > 0 {
		log.Printf("osmxml: rejected %d tags with a missing k or v attribute", rejectedTags)
	}

	for _, w := range waysByID {
		computeNeighborsForWay(w)
	}

	bounds := boundsOf(doc.Bounds, nodesByID)

	tree := quadtree.New(bounds, quadtreeCapacity)
	for _, n := range nodesByID {
		if !tree.InsertNode(n) {
			// A node outside the declared/derived bounds: the bounds were
			// either stale relative to the data or computed from a subset.
			// Widening and re-inserting the whole snapshot would be
			// wasted work for what should be a rare, malformed extract;
			// surface it as a fatal load error instead.
			return nil, fmt.Errorf("osmxml: node %d at %+v falls outside graph bounds %+v", n.ID, n.Position, bounds)
		}
	}

	log.Printf("osmxml: loaded %d nodes, %d ways from %s", len(nodesByID), len(waysByID), path)

	return &Snapshot{
		NodesByID: nodesByID,
		WaysByID:  waysByID,
		Tree:      tree,
		Bounds:    bounds,
	}, nil
}

// buildTags converts a parsed tag list into the unordered dictionary the
// graph model uses, dropping any tag with a missing k or v attribute and
// using paulmach/osm's Tags.Map to perform the slice-to-map collapse the
// OSM document schema requires.
func buildTags(raw []xmlTag, rejected int) (model.Tags, int) {
	osmTags := make(osm.Tags, 0, len(raw))
	for _, t := range raw {
		if t.K == "" || t.V == "" {
			rejected++
			continue
		}
		osmTags = append(osmTags, osm.Tag{Key: t.K, Value: t.V})
	}
	return model.Tags(osmTags.Map()), rejected
}

// boundsOf returns the document-declared bounds, or — when <bounds> was
// omitted, which the schema permits — the envelope of every parsed node.
func boundsOf(b *xmlBounds, nodesByID map[int64]*model.Node) geo.BoundingBox {
	if b != nil {
		return geo.BoundingBox{
			Min: geo.Position{Lat: b.MinLat, Lon: b.MinLon},
			Max: geo.Position{Lat: b.MaxLat, Lon: b.MaxLon},
		}
	}

	positions := make([]geo.Position, 0, len(nodesByID))
	for _, n := range nodesByID {
		positions = append(positions, n.Position)
	}
	return geo.Envelope(positions)
}

// computeNeighborsForWay wires bidirectional neighbor entries for every
// adjacent pair in way.Nodes. is_positive_direction is derived directly
// from the adjacency index (not carried over from any prior way), and a
// duplicate edge between the same node pair keeps whichever entry has the
// shorter distance rather than last-write-wins. Two ways joining the same
// node pair always give the same distance, so the entry written first is
// kept; Load visits ways in map order, so which way's tags win is not
// defined, and the cheaper road class is not preferred.
func computeNeighborsForWay(w *model.Way) {
	if len(w.Nodes) < 2 {
		return
	}
	for i := 0; i < len(w.Nodes)-1; i++ {
		a, b := w.Nodes[i], w.Nodes[i+1]
		dist := geo.Distance(a.Position, b.Position)
		updateNeighbor(a, b, dist, w.Tags, true)
		updateNeighbor(b, a, dist, w.Tags, false)
	}
}

func updateNeighbor(from, to *model.Node, dist float64, tags model.Tags, positiveDirection bool) {
	if existing, ok := from.Neighbors[to]; ok && existing.Distance <= dist {
		return
	}
	from.Neighbors[to] = model.NeighborInfo{
		Distance:            dist,
		Tags:                tags,
		IsPositiveDirection: positiveDirection,
	}
}
