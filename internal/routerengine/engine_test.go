package routerengine

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"osmrouter/internal/geo"
	"osmrouter/internal/pathfinder"
)

const sampleExtract = `<?xml version="1.0"?>
<osm>
  <bounds minlat="-1" minlon="-1" maxlat="5" maxlon="5"/>
  <node id="1" lat="0" lon="0"/>
  <node id="2" lat="0" lon="1"/>
  <node id="3" lat="0" lon="2"/>
  <way id="100">
    <nd ref="1"/>
    <nd ref="2"/>
    <nd ref="3"/>
    <tag k="highway" v="residential"/>
  </way>
</osm>`

func writeExtract(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "extract.osm")
	if err := os.WriteFile(path, []byte(sampleExtract), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	return path
}

func TestQueryBeforeLoadFails(t *testing.T) {
	e := New()
	_, err := e.Query(context.Background(), geo.Position{Lat: 1, Lon: 1}, geo.Position{Lat: 2, Lon: 2}, pathfinder.Preferences{})
	if err != ErrNotLoaded {
		t.Fatalf("got %v, want ErrNotLoaded", err)
	}
}

func TestLoadThenQueryReturnsPath(t *testing.T) {
	e := New()
	bounds, err := e.Load(context.Background(), writeExtract(t))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if bounds.Max.Lon != 5 {
		t.Errorf("bounds = %+v, want declared bounds", bounds)
	}

	path, err := e.Query(context.Background(), geo.Position{Lat: 0, Lon: 0}, geo.Position{Lat: 0, Lon: 2}, pathfinder.ParsePreferences(nil))
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(path) != 3 {
		t.Fatalf("path = %v, want 3 positions", path)
	}
}
