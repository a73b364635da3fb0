package api

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"mime"
	"net/http"

	"osmrouter/internal/geo"
	"osmrouter/internal/pathfinder"
	"osmrouter/internal/routerengine"
)

// Router is the dependency Handlers needs from the routing engine. It is
// satisfied by *routerengine.Engine; tests substitute a stub.
type Router interface {
	Query(ctx context.Context, start, goal geo.Position, prefs pathfinder.Preferences) ([]geo.Position, error)
	Bounds() (geo.BoundingBox, error)
}

// Handlers holds the HTTP handlers and their dependencies.
type Handlers struct {
	router Router
}

// NewHandlers creates handlers with the given router.
func NewHandlers(router Router) *Handlers {
	return &Handlers{router: router}
}

// HandleRoute handles POST /route.
func (h *Handlers) HandleRoute(w http.ResponseWriter, r *http.Request) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "application/json" {
		writeError(w, http.StatusBadRequest, "invalid_request", "")
		return
	}

	var req RouteRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1024)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "")
		return
	}

	if err := validateCoord(req.Start); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_coordinates", "start")
		return
	}
	if err := validateCoord(req.End); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_coordinates", "end")
		return
	}

	start := geo.Position{Lat: req.Start.Lat, Lon: req.Start.Lng}
	end := geo.Position{Lat: req.End.Lat, Lon: req.End.Lng}
	prefs := pathfinder.ParsePreferences(req.Preferences)

	positions, err := h.router.Query(r.Context(), start, end, prefs)
	if err != nil {
		switch {
		case errors.Is(err, pathfinder.ErrNoSnap):
			writeError(w, http.StatusUnprocessableEntity, "point_too_far_from_road", "")
		case errors.Is(err, pathfinder.ErrNoPath):
			writeError(w, http.StatusNotFound, "no_route_found", "")
		case errors.Is(err, routerengine.ErrNotLoaded):
			writeError(w, http.StatusServiceUnavailable, "graph_not_loaded", "")
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			writeError(w, http.StatusServiceUnavailable, "request_timeout", "")
		default:
			writeError(w, http.StatusInternalServerError, "internal_error", "")
		}
		return
	}

	resp := RouteResponse{Positions: make([]LatLngJSON, len(positions))}
	for i, p := range positions {
		resp.Positions[i] = LatLngJSON{Lat: p.Lat, Lng: p.Lon}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// HandleHealth handles GET /health.
func (h *Handlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(HealthResponse{Status: "ok"})
}

// HandleBounds handles GET /bounds.
func (h *Handlers) HandleBounds(w http.ResponseWriter, r *http.Request) {
	bounds, err := h.router.Bounds()
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "graph_not_loaded", "")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(BoundsResponse{
		MinLat: bounds.Min.Lat,
		MinLon: bounds.Min.Lon,
		MaxLat: bounds.Max.Lat,
		MaxLon: bounds.Max.Lon,
	})
}

func validateCoord(ll LatLngJSON) error {
	if math.IsNaN(ll.Lat) || math.IsNaN(ll.Lng) || math.IsInf(ll.Lat, 0) || math.IsInf(ll.Lng, 0) {
		return errors.New("coordinates must be finite numbers")
	}
	if ll.Lat < -90 || ll.Lat > 90 || ll.Lng < -180 || ll.Lng > 180 {
		return errors.New("coordinates out of range")
	}
	return nil
}

func writeError(w http.ResponseWriter, status int, code, field string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{Error: code, Field: field})
}
