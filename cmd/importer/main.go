// Command importer loads a plain-text node/edge dataset (distilled spec
// §6 "Graph input") into Postgres. Adapted from the teacher's GTFS ZIP
// importer: the parse/validate/persist pipeline shape is kept, but the
// GTFS-specific stop-dedupe and trip-schedule import steps are replaced
// by graphdata.ParseDataset's single-pass node/edge parse, since this
// domain's edges already carry a complete time table rather than
// deriving one from trip stop-times.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/citypath/corridor/internal/db"
	"github.com/citypath/corridor/internal/graph"
	"github.com/citypath/corridor/internal/graphdata"
)

func main() {
	nodesPath := flag.String("nodes", "", "Path to the nodes text file (required)")
	edgesPath := flag.String("edges", "", "Path to the edges text file (required)")
	clear := flag.Bool("clear", false, "Truncate existing graph tables before importing")
	flag.Parse()

	if *nodesPath == "" || *edgesPath == "" {
		fmt.Println("Usage: importer -nodes=<path> -edges=<path> [-clear]")
		flag.PrintDefaults()
		os.Exit(1)
	}
	if _, err := os.Stat(*nodesPath); os.IsNotExist(err) {
		log.Fatalf("nodes file not found: %s", *nodesPath)
	}
	if _, err := os.Stat(*edgesPath); os.IsNotExist(err) {
		log.Fatalf("edges file not found: %s", *edgesPath)
	}

	log.Println("Starting graph dataset import...")
	start := time.Now()

	log.Println("Step 1/3: Parsing dataset...")
	ds, warnings, err := graphdata.ParseDataset(*nodesPath, *edgesPath)
	if err != nil {
		log.Fatalf("failed to parse dataset: %v", err)
	}
	for _, w := range warnings {
		log.Printf("  warning: %s", w)
	}
	log.Printf("  Parsed %d nodes, %d edges", len(ds.Nodes), len(ds.Edges))

	pool, err := db.GetDB()
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	builder := graph.NewBuilder(pool)

	if *clear {
		log.Println("Step 2/3: Clearing existing graph tables...")
		if err := builder.ClearGraph(ctx); err != nil {
			log.Fatalf("failed to clear graph: %v", err)
		}
	} else {
		log.Println("Step 2/3: Skipping clear (use -clear to truncate first)")
	}

	log.Println("Step 3/3: Persisting dataset...")
	if err := builder.Persist(ctx, ds); err != nil {
		log.Fatalf("failed to persist dataset: %v", err)
	}

	log.Printf("Import completed in %v", time.Since(start))
}
