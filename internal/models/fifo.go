package models

// MonotonizeFIFO enforces the FIFO assumption (SPEC_FULL.md §9) on an
// edge's time table in place: arrival time x+t(x) must be non-decreasing
// in departure time x. A table violating this (noisy or hand-authored
// input data) is repaired by raising any travel time that would let a
// later departure arrive earlier than an already-accepted arrival.
//
// Grounded on the teacher's internal/gtfs/normalize.go idiom of a single
// clean/validate pass over parsed rows before the graph is considered
// loadable; generalized here from mode inference to FIFO repair. Lives
// in models (rather than graph or graphdata) so both the Postgres loader
// and the text-dataset parser can share it without an import cycle.
func MonotonizeFIFO(e *Edge) {
	if len(e.TimeTable) < 2 {
		return
	}
	lastArrival := e.TimeTable[0].DepartureMin + e.TimeTable[0].TravelTime
	for i := 1; i < len(e.TimeTable); i++ {
		s := &e.TimeTable[i]
		arrival := s.DepartureMin + s.TravelTime
		if arrival < lastArrival {
			s.TravelTime = lastArrival - s.DepartureMin
			arrival = lastArrival
		}
		lastArrival = arrival
	}
}
