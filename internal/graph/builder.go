package graph

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/citypath/corridor/internal/graphdata"
)

const batchSize = 1000

// Builder persists a parsed graphdata.Dataset into Postgres. Grounded on
// the teacher's internal/graph/builder.go pgx.Batch idiom; generalized
// from deriving GTFS RIDE/WALK/TRANSFER edges to inserting the dataset's
// already-complete node/edge/time-table rows directly, since this
// domain's edges are given in the input file rather than derived from
// trip schedules.
type Builder struct {
	db *pgxpool.Pool
}

// NewBuilder creates a graph builder bound to a connection pool.
func NewBuilder(db *pgxpool.Pool) *Builder {
	return &Builder{db: db}
}

// Persist writes every node, edge, and time-table sample in ds to
// Postgres, batching inserts per the teacher's batchSize convention.
func (b *Builder) Persist(ctx context.Context, ds *graphdata.Dataset) error {
	log.Println("Persisting parsed graph dataset...")

	if err := b.persistNodes(ctx, ds); err != nil {
		return fmt.Errorf("failed to persist nodes: %w", err)
	}
	log.Printf("  Persisted %d nodes", len(ds.Nodes))

	edgeCount, sampleCount, err := b.persistEdges(ctx, ds)
	if err != nil {
		return fmt.Errorf("failed to persist edges: %w", err)
	}
	log.Printf("  Persisted %d edges (%d time-table samples)", edgeCount, sampleCount)

	if err := b.analyze(ctx); err != nil {
		log.Printf("Warning: failed to analyze tables: %v", err)
	}
	return nil
}

func (b *Builder) persistNodes(ctx context.Context, ds *graphdata.Dataset) error {
	batch := &pgx.Batch{}
	for _, n := range ds.Nodes {
		batch.Queue(`
			INSERT INTO node (id, lat, lon) VALUES ($1, $2, $3)
			ON CONFLICT (id) DO UPDATE SET lat = EXCLUDED.lat, lon = EXCLUDED.lon
		`, n.ID, n.Lat, n.Lon)
		if batch.Len() >= batchSize {
			if err := b.executeBatch(ctx, batch); err != nil {
				return err
			}
			batch = &pgx.Batch{}
		}
	}
	if batch.Len() > 0 {
		return b.executeBatch(ctx, batch)
	}
	return nil
}

func (b *Builder) persistEdges(ctx context.Context, ds *graphdata.Dataset) (int, int, error) {
	edgeCount, sampleCount := 0, 0
	batch := &pgx.Batch{}

	for _, e := range ds.Edges {
		var edgeID int64
		row := b.db.QueryRow(ctx, `
			INSERT INTO edge (from_node_id, to_node_id, distance, base_width, rush_width)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id
		`, e.From, e.To, e.Distance, e.BaseWidth, e.RushWidth)
		if err := row.Scan(&edgeID); err != nil {
			return edgeCount, sampleCount, fmt.Errorf("failed to insert edge %d->%d: %w", e.From, e.To, err)
		}
		edgeCount++

		for _, s := range e.TimeTable {
			batch.Queue(`
				INSERT INTO edge_sample (edge_id, departure_min, travel_time) VALUES ($1, $2, $3)
			`, edgeID, s.DepartureMin, s.TravelTime)
			sampleCount++
			if batch.Len() >= batchSize {
				if err := b.executeBatch(ctx, batch); err != nil {
					return edgeCount, sampleCount, err
				}
				batch = &pgx.Batch{}
			}
		}
	}
	if batch.Len() > 0 {
		if err := b.executeBatch(ctx, batch); err != nil {
			return edgeCount, sampleCount, err
		}
	}
	return edgeCount, sampleCount, nil
}

// ClearGraph truncates every graph table, used before a full reload.
func (b *Builder) ClearGraph(ctx context.Context) error {
	_, err := b.db.Exec(ctx, "TRUNCATE TABLE edge_sample, edge, node CASCADE")
	return err
}

func (b *Builder) executeBatch(ctx context.Context, batch *pgx.Batch) error {
	results := b.db.SendBatch(ctx, batch)
	defer results.Close()
	for i := 0; i < batch.Len(); i++ {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("batch execution failed at query %d: %w", i, err)
		}
	}
	return nil
}

func (b *Builder) analyze(ctx context.Context) error {
	for _, table := range []string{"node", "edge", "edge_sample"} {
		if _, err := b.db.Exec(ctx, fmt.Sprintf("ANALYZE %s", table)); err != nil {
			return err
		}
	}
	return nil
}
