// Package geo provides the planar geometry primitives the routing core is
// built on: a lat/lon position, an axis-aligned bounding box, and distance.
//
// Every distance in this module — indexing, the search heuristic, and edge
// weights — uses the same planar metric, not the great-circle distance. That
// is deliberate: internal consistency between the heuristic and the edge
// costs matters more than absolute metric accuracy, and nothing here promises
// callers a true geodesic distance.
package geo

import "math"

// Position is a latitude/longitude pair. Equality is exact field equality.
type Position struct {
	Lat float64
	Lon float64
}

// Distance returns the planar Euclidean distance between a and b.
func Distance(a, b Position) float64 {
	dLat := a.Lat - b.Lat
	dLon := a.Lon - b.Lon
	return math.Sqrt(dLat*dLat + dLon*dLon)
}

// BoundingBox is a min/max Position pair.
type BoundingBox struct {
	Min Position
	Max Position
}

// NewBoundingBoxFromCenter returns a square bbox centered on p with half-side
// radius.
func NewBoundingBoxFromCenter(p Position, radius float64) BoundingBox {
	return BoundingBox{
		Min: Position{Lat: p.Lat - radius, Lon: p.Lon - radius},
		Max: Position{Lat: p.Lat + radius, Lon: p.Lon + radius},
	}
}

// Contains reports whether p lies within the box, inclusive on all bounds.
func (b BoundingBox) Contains(p Position) bool {
	return p.Lat >= b.Min.Lat && p.Lat <= b.Max.Lat &&
		p.Lon >= b.Min.Lon && p.Lon <= b.Max.Lon
}

// Intersects reports whether b and other are not disjoint on either axis.
func (b BoundingBox) Intersects(other BoundingBox) bool {
	noOverlap := b.Max.Lat < other.Min.Lat ||
		b.Min.Lat > other.Max.Lat ||
		b.Max.Lon < other.Min.Lon ||
		b.Min.Lon > other.Max.Lon
	return !noOverlap
}

// Envelope returns the smallest bounding box containing every position in ps.
// Returns the zero value if ps is empty.
func Envelope(ps []Position) BoundingBox {
	if len(ps) == 0 {
		return BoundingBox{}
	}
	bb := BoundingBox{Min: ps[0], Max: ps[0]}
	for _, p := range ps[1:] {
		if p.Lat < bb.Min.Lat {
			bb.Min.Lat = p.Lat
		}
		if p.Lat > bb.Max.Lat {
			bb.Max.Lat = p.Lat
		}
		if p.Lon < bb.Min.Lon {
			bb.Min.Lon = p.Lon
		}
		if p.Lon > bb.Max.Lon {
			bb.Max.Lon = p.Lon
		}
	}
	return bb
}
