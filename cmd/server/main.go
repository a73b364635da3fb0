package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"
	"runtime/debug"
	"time"

	"osmrouter/internal/routerengine"
	"osmrouter/pkg/api"
)

func main() {
	extractPath := flag.String("extract", "extract.osm", "Path to an OSM XML extract")
	port := flag.Int("port", 8080, "HTTP port")
	corsOrigin := flag.String("cors-origin", "", "CORS allowed origin (empty = same-origin)")
	flag.Parse()

	start := time.Now()

	engine := routerengine.New()

	log.Printf("Loading extract from %s...", *extractPath)
	bounds, err := engine.Load(context.Background(), *extractPath)
	if err != nil {
		log.Fatalf("Failed to load extract: %v", err)
	}
	log.Printf("Loaded: bounds %+v", bounds)

	// Reclaim memory from load-time temporaries, the way a large XML parse
	// followed by graph construction leaves behind a high-water mark the GC
	// won't otherwise return to the OS promptly.
	runtime.GC()
	debug.FreeOSMemory()

	log.Printf("Ready in %s", time.Since(start).Round(time.Millisecond))

	addr := fmt.Sprintf(":%d", *port)
	cfg := api.DefaultConfig(addr)
	cfg.CORSOrigin = *corsOrigin

	handlers := api.NewHandlers(engine)
	srv := api.NewServer(cfg, handlers)

	if err := api.ListenAndServe(srv); err != nil {
		log.Printf("Server stopped: %v", err)
		os.Exit(1)
	}
}
