// Command routecli loads a single OSM XML extract and runs one route query
// against it, printing the resulting polyline. It exists for manual
// smoke-testing an extract without standing up the HTTP server.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"osmrouter/internal/geo"
	"osmrouter/internal/pathfinder"
	"osmrouter/internal/routerengine"
)

func main() {
	extractPath := flag.String("extract", "extract.osm", "Path to an OSM XML extract")
	startLat := flag.Float64("start-lat", 0, "Start latitude")
	startLon := flag.Float64("start-lon", 0, "Start longitude")
	endLat := flag.Float64("end-lat", 0, "End latitude")
	endLon := flag.Float64("end-lon", 0, "End longitude")
	avoidHighway := flag.String("avoid-highway", "", "Comma-separated highway classes to avoid")
	avoidTolls := flag.Bool("avoid-tolls", false, "Avoid toll roads")
	flag.Parse()

	engine := routerengine.New()
	ctx := context.Background()

	if _, err := engine.Load(ctx, *extractPath); err != nil {
		log.Fatalf("load: %v", err)
	}

	prefs := pathfinder.ParsePreferences(map[string]string{
		"avoid_highway": *avoidHighway,
		"avoid_tolls":   fmt.Sprintf("%v", *avoidTolls),
	})

	start := geo.Position{Lat: *startLat, Lon: *startLon}
	goal := geo.Position{Lat: *endLat, Lon: *endLon}

	path, err := engine.Query(ctx, start, goal, prefs)
	if err != nil {
		log.Fatalf("query: %v", err)
	}

	for _, p := range path {
		fmt.Printf("%f,%f\n", p.Lat, p.Lon)
	}
}
