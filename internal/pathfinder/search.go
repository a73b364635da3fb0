// Package pathfinder implements the bidirectional, road-class-aware
// best-first search ("layered A*") that the engine runs over a loaded
// graph snapshot: endpoint snapping, the cost model, the two-sided search
// itself, and path reconstruction.
package pathfinder

import (
	"container/heap"
	"errors"
	"math"

	"osmrouter/internal/geo"
	"osmrouter/internal/model"
	"osmrouter/internal/quadtree"
)

// ErrNoPath is returned when either search fringe is exhausted without the
// two sides ever meeting. It is not an error condition in the Go sense —
// the query was well-formed, there simply is no route — but it lets
// callers distinguish "no route" from "no snap".
var ErrNoPath = errors.New("pathfinder: no route between the snapped endpoints")

// searchNode is the transient per-query record around a graph Node. It
// lives only for the duration of a single FindPath call; nothing here is
// ever written back onto the shared, read-only Snapshot.
type searchNode struct {
	node           *model.Node
	fScore, gScore float64
	cameFromStart  *searchNode
	cameFromGoal   *searchNode
	currentHighway string
	index          int // heap.Interface bookkeeping
}

// side bundles one fringe's open set, closed set, and node map so the main
// loop can drive both directions with the same code.
type side struct {
	open      openHeap
	closed    map[int64]bool
	nodes     map[int64]*searchNode
	target    geo.Position // the side-appropriate heuristic target
	isForward bool         // true for the start->goal side, false for goal->start
}

func newSide(target geo.Position, isForward bool) *side {
	return &side{
		closed:    make(map[int64]bool),
		nodes:     make(map[int64]*searchNode),
		target:    target,
		isForward: isForward,
	}
}

// openHeap is a container/heap.Interface min-heap over searchNode.fScore.
// Duplicate entries for the same node id are permitted; the closed set
// dedups at pop time.
type openHeap []*searchNode

func (h openHeap) Len() int            { return len(h) }
func (h openHeap) Less(i, j int) bool  { return h[i].fScore < h[j].fScore }
func (h openHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i]; h[i].index = i; h[j].index = j }
func (h *openHeap) Push(x any) {
	n := x.(*searchNode)
	n.index = len(*h)
	*h = append(*h, n)
}
func (h *openHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return item
}

// FindPath snaps start and goal onto the nearest drivable road and runs
// bidirectional best-first search between them under prefs. Returns the
// ordered chain of graph nodes, or ErrNoSnap / ErrNoPath.
func FindPath(tree *quadtree.Tree, start, goal geo.Position, prefs Preferences) ([]*model.Node, error) {
	startNode, err := findClosestNodeOnHighway(tree, start)
	if err != nil {
		return nil, err
	}
	goalNode, err := findClosestNodeOnHighway(tree, goal)
	if err != nil {
		return nil, err
	}

	if startNode == goalNode {
		return []*model.Node{startNode}, nil
	}

	fwd := newSide(goal, true)  // forward side's heuristic points at the goal
	bwd := newSide(start, false) // reverse side's heuristic points at the start

	startSN := &searchNode{node: startNode, gScore: 0, fScore: geo.Distance(startNode.Position, goal)}
	fwd.nodes[startNode.ID] = startSN
	heap.Push(&fwd.open, startSN)

	goalSN := &searchNode{node: goalNode, gScore: 0, fScore: geo.Distance(goalNode.Position, start)}
	bwd.nodes[goalNode.ID] = goalSN
	heap.Push(&bwd.open, goalSN)

	bestCost := math.Inf(1)
	var meetFwd, meetBwd *searchNode

	for fwd.open.Len() > 0 && bwd.open.Len() > 0 {
		// Canonical bidirectional termination: stop only once neither
		// fringe's best achievable f can still beat the best meeting cost
		// found so far.
		if fwd.open[0].fScore >= bestCost && bwd.open[0].fScore >= bestCost {
			break
		}

		if cur, other := expandOne(fwd, bwd, prefs); cur != nil {
			if cost := cur.gScore + other.gScore; cost < bestCost {
				bestCost = cost
				meetFwd, meetBwd = cur, other
			}
		}

		if cur, other := expandOne(bwd, fwd, prefs); cur != nil {
			if cost := cur.gScore + other.gScore; cost < bestCost {
				bestCost = cost
				meetFwd, meetBwd = other, cur
			}
		}
	}

	if meetFwd == nil {
		return nil, ErrNoPath
	}

	return reconstructPath(meetFwd, meetBwd), nil
}

// expandOne pops and closes this side's best open node, relaxes its
// neighbors, and reports whether it is also closed on the other side (a
// meeting candidate). Returns (nil, nil) when this side's open set is
// empty.
func expandOne(this, other *side, prefs Preferences) (cur, otherRecord *searchNode) {
	if this.open.Len() == 0 {
		return nil, nil
	}
	u := heap.Pop(&this.open).(*searchNode)
	if this.closed[u.node.ID] {
		return nil, nil
	}
	this.closed[u.node.ID] = true

	var meeting *searchNode
	if other.closed[u.node.ID] {
		meeting = other.nodes[u.node.ID]
	}

	for neighbor, info := range u.node.Neighbors {
		if this.closed[neighbor.ID] {
			continue
		}
		if !this.isForward {
			// The reverse side walks edges against travel: reaching neighbor
			// from u here stands for driving neighbor -> u, so the oneway
			// check must see that edge's direction, not u -> neighbor's.
			info.IsPositiveDirection = !info.IsPositiveDirection
		}
		w, err := weight(info, prefs)
		if err != nil || w < 0 {
			continue
		}
		w *= classChangeMultiplier(u.currentHighway, info.Tags.Find("highway"))

		tentative := u.gScore + w
		v, exists := this.nodes[neighbor.ID]
		if !exists {
			v = &searchNode{node: neighbor, gScore: math.Inf(1), fScore: math.Inf(1)}
			this.nodes[neighbor.ID] = v
		}
		if tentative < v.gScore {
			v.gScore = tentative
			v.currentHighway = info.Tags.Find("highway")
			v.fScore = v.gScore + geo.Distance(neighbor.Position, this.target)
			setCameFrom(this, v, u)
			heap.Push(&this.open, v)
		}
	}

	if meeting != nil {
		return u, meeting
	}
	return nil, nil
}

// setCameFrom records u as v's predecessor on whichever side this is. The
// two sides are symmetric except for which predecessor pointer they write,
// and the side's own isForward flag says which one that is.
func setCameFrom(this *side, v, u *searchNode) {
	// The forward side always owns cameFromStart; the reverse side always
	// owns cameFromGoal. isForward is set once in newSide and never changes,
	// so this distinguishes them unambiguously for the lifetime of a query.
	if this.isForward {
		v.cameFromStart = u
	} else {
		v.cameFromGoal = u
	}
}

// reconstructPath walks cameFromStart back from meetFwd to the start,
// reverses it, then walks cameFromGoal forward from meetBwd to the goal.
// The meeting node is emitted exactly once.
func reconstructPath(meetFwd, meetBwd *searchNode) []*model.Node {
	var forward []*model.Node
	for n := meetFwd; n != nil; n = n.cameFromStart {
		forward = append(forward, n.node)
	}
	for i, j := 0, len(forward)-1; i < j; i, j = i+1, j-1 {
		forward[i], forward[j] = forward[j], forward[i]
	}

	var backward []*model.Node
	for n := meetBwd.cameFromGoal; n != nil; n = n.cameFromGoal {
		backward = append(backward, n.node)
	}

	return append(forward, backward...)
}
