// Package routerengine is the thin façade the outer transports (HTTP, CLI)
// drive: it owns the current graph snapshot and exposes Load/Query as the
// only two operations. A Load swaps in a brand-new, fully built Snapshot
// atomically; every Query reads whichever snapshot was current when it
// started, so a Load running concurrently with in-flight queries never
// corrupts or blocks them.
package routerengine

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"osmrouter/internal/geo"
	"osmrouter/internal/model"
	"osmrouter/internal/osmxml"
	"osmrouter/internal/pathfinder"
)

// ErrNotLoaded is returned by Query before any successful Load.
var ErrNotLoaded = errors.New("routerengine: no graph loaded")

// Engine is the concurrency-safe entry point over a loaded road network.
// The zero value is a valid, empty Engine; Query returns ErrNotLoaded until
// Load succeeds at least once.
type Engine struct {
	snapshot atomic.Pointer[osmxml.Snapshot]
}

// New returns an empty Engine.
func New() *Engine {
	return &Engine{}
}

// Load parses the OSM XML extract at path and atomically installs it as the
// engine's current snapshot. In-flight queries against the previous
// snapshot are unaffected; they keep running against the pointer they
// already captured. Returns the new snapshot's bounds.
func (e *Engine) Load(ctx context.Context, path string) (geo.BoundingBox, error) {
	if err := ctx.Err(); err != nil {
		return geo.BoundingBox{}, err
	}
	snap, err := osmxml.Load(path)
	if err != nil {
		return geo.BoundingBox{}, fmt.Errorf("routerengine: load %s: %w", path, err)
	}
	e.snapshot.Store(snap)
	return snap.Bounds, nil
}

// Bounds reports the bounding box of the currently loaded snapshot.
func (e *Engine) Bounds() (geo.BoundingBox, error) {
	snap := e.snapshot.Load()
	if snap == nil {
		return geo.BoundingBox{}, ErrNotLoaded
	}
	return snap.Bounds, nil
}

// Query resolves start and goal onto the road network and returns the
// polyline of positions along the lowest-cost route the search finds under
// prefs; the search is heuristic and does not prove that route cheapest. Query is a
// pure reader: it allocates its own search state and never mutates the
// snapshot it reads from, so any number of Queries may run concurrently
// with each other and with a Load.
func (e *Engine) Query(ctx context.Context, start, goal geo.Position, prefs pathfinder.Preferences) ([]geo.Position, error) {
	snap := e.snapshot.Load()
	if snap == nil {
		return nil, ErrNotLoaded
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	nodes, err := pathfinder.FindPath(snap.Tree, start, goal, prefs)
	if err != nil {
		return nil, err
	}

	return positionsOf(nodes), nil
}

func positionsOf(nodes []*model.Node) []geo.Position {
	out := make([]geo.Position, len(nodes))
	for i, n := range nodes {
		out[i] = n.Position
	}
	return out
}
