package pathfinder

import (
	"errors"

	"osmrouter/internal/geo"
	"osmrouter/internal/model"
	"osmrouter/internal/quadtree"
)

// ErrNoSnap is returned when a query endpoint has no drivable road within
// the snap radius.
var ErrNoSnap = errors.New("pathfinder: no drivable node within snap radius")

// defaultSnapRadius is the half-side, in degrees, of the square search box
// used to snap a free-form position to the nearest drivable node.
const defaultSnapRadius = 0.005

// findClosestNodeOnHighway snaps position to the nearest Node that has at
// least one incident way tagged highway=*.
func findClosestNodeOnHighway(tree *quadtree.Tree, position geo.Position) (*model.Node, error) {
	bbox := geo.NewBoundingBoxFromCenter(position, defaultSnapRadius)
	candidates := tree.FindNode(bbox, (*model.Node).HasDrivableWay)
	if len(candidates) == 0 {
		return nil, ErrNoSnap
	}

	best := candidates[0]
	bestDist := geo.Distance(best.Position, position)
	for _, c := range candidates[1:] {
		if d := geo.Distance(c.Position, position); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best, nil
}
