// Package graphdata parses the plain-text node/edge dataset format
// (distilled spec §6 "Graph input"): a nodes file (`id lat lon` per
// line) and an edges file (`src dst distance baseWidth rushWidth
// [(depKey,travelTime)]*` per line), `#`-prefixed comment lines skipped,
// whitespace-tokenized.
//
// Grounded on the teacher's internal/gtfs/parser.go for the overall
// "read a dataset directory, return an in-memory feed struct" shape, and
// on internal/gtfs/normalize.go for the clean/validate-pass idiom
// (generalized here into models.MonotonizeFIFO rather than transit-mode
// inference).
package graphdata

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/citypath/corridor/internal/models"
)

// Dataset is the parsed result: every node and edge read from the two
// input files, ready to be inserted into Postgres or loaded directly.
type Dataset struct {
	Nodes map[int64]*models.Node
	Edges []*models.Edge
}

// ParseDataset reads nodesPath and edgesPath and returns the assembled
// Dataset. Edges reference nodes by id; an edge naming an unknown node is
// a MalformedGraph condition recovered locally (distilled spec §7): it
// is skipped and logged by the caller via the returned warnings slice.
func ParseDataset(nodesPath, edgesPath string) (*Dataset, []string, error) {
	nodes, err := parseNodes(nodesPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse nodes file: %w", err)
	}

	edges, warnings, err := parseEdges(edgesPath, nodes)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse edges file: %w", err)
	}

	for _, e := range edges {
		models.MonotonizeFIFO(e)
		e.Finalize()
		if src, ok := nodes[e.From]; ok {
			src.Out[e.To] = e
		}
		if dst, ok := nodes[e.To]; ok {
			dst.In[e.From] = e
		}
	}

	return &Dataset{Nodes: nodes, Edges: edges}, warnings, nil
}

func parseNodes(path string) (map[int64]*models.Node, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	nodes := make(map[int64]*models.Node)
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 3 {
			return nil, fmt.Errorf("line %d: expected \"id lat lon\", got %q", lineNo, line)
		}
		id, err := strconv.ParseInt(fields[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: bad node id %q: %w", lineNo, fields[0], err)
		}
		lat, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: bad lat %q: %w", lineNo, fields[1], err)
		}
		lon, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: bad lon %q: %w", lineNo, fields[2], err)
		}
		nodes[id] = &models.Node{
			ID: id, Lat: lat, Lon: lon,
			Out: make(map[int64]*models.Edge),
			In:  make(map[int64]*models.Edge),
		}
	}
	return nodes, scanner.Err()
}

// parseEdges tokenizes "src dst distance baseWidth rushWidth
// [(depKey,travelTime)]*" lines. Each parenthesized pair after the first
// five fields is one time-table sample; an edge with none is treated as
// having a flat (edge §4.2 pass-through) time table.
func parseEdges(path string, nodes map[int64]*models.Node) ([]*models.Edge, []string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	var edges []*models.Edge
	var warnings []string
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 5 {
			return nil, warnings, fmt.Errorf("line %d: expected at least 5 fields, got %q", lineNo, line)
		}

		src, err := strconv.ParseInt(fields[0], 10, 64)
		if err != nil {
			return nil, warnings, fmt.Errorf("line %d: bad src %q: %w", lineNo, fields[0], err)
		}
		dst, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil {
			return nil, warnings, fmt.Errorf("line %d: bad dst %q: %w", lineNo, fields[1], err)
		}
		distance, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return nil, warnings, fmt.Errorf("line %d: bad distance %q: %w", lineNo, fields[2], err)
		}
		baseWidth, err := strconv.ParseFloat(fields[3], 64)
		if err != nil {
			return nil, warnings, fmt.Errorf("line %d: bad baseWidth %q: %w", lineNo, fields[3], err)
		}
		rushWidth, err := strconv.ParseFloat(fields[4], 64)
		if err != nil {
			return nil, warnings, fmt.Errorf("line %d: bad rushWidth %q: %w", lineNo, fields[4], err)
		}

		if _, ok := nodes[src]; !ok {
			warnings = append(warnings, fmt.Sprintf("line %d: edge references unknown source node %d, skipping", lineNo, src))
			continue
		}
		if _, ok := nodes[dst]; !ok {
			warnings = append(warnings, fmt.Sprintf("line %d: edge references unknown destination node %d, skipping", lineNo, dst))
			continue
		}

		e := &models.Edge{From: src, To: dst, Distance: distance, BaseWidth: baseWidth, RushWidth: rushWidth}
		samples, err := parseSamples(fields[5:])
		if err != nil {
			return nil, warnings, fmt.Errorf("line %d: %w", lineNo, err)
		}
		e.TimeTable = samples
		edges = append(edges, e)
	}
	return edges, warnings, scanner.Err()
}

// parseSamples parses the trailing "(depKey,travelTime)" tokens. Tokens
// are whitespace-separated per the external-interface contract, each
// wrapped in parentheses with a comma-separated pair inside.
func parseSamples(tokens []string) ([]models.TimeSample, error) {
	samples := make([]models.TimeSample, 0, len(tokens))
	for _, tok := range tokens {
		tok = strings.TrimPrefix(tok, "(")
		tok = strings.TrimSuffix(tok, ")")
		parts := strings.Split(tok, ",")
		if len(parts) != 2 {
			return nil, fmt.Errorf("bad time-table sample %q", tok)
		}
		dep, err := strconv.ParseFloat(parts[0], 64)
		if err != nil {
			return nil, fmt.Errorf("bad departure key %q: %w", parts[0], err)
		}
		tt, err := strconv.ParseFloat(parts[1], 64)
		if err != nil {
			return nil, fmt.Errorf("bad travel time %q: %w", parts[1], err)
		}
		samples = append(samples, models.TimeSample{DepartureMin: dep, TravelTime: tt})
	}
	return samples, nil
}
