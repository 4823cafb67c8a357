package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMonotonizeFIFORepairsRegression(t *testing.T) {
	e := &Edge{
		TimeTable: []TimeSample{
			{DepartureMin: 0, TravelTime: 20},
			{DepartureMin: 10, TravelTime: 5}, // would arrive at 15, before 20 -- violates FIFO
			{DepartureMin: 30, TravelTime: 10},
		},
	}
	MonotonizeFIFO(e)

	lastArrival := e.TimeTable[0].DepartureMin + e.TimeTable[0].TravelTime
	for _, s := range e.TimeTable[1:] {
		arrival := s.DepartureMin + s.TravelTime
		assert.GreaterOrEqual(t, arrival, lastArrival-1e-9)
		lastArrival = arrival
	}
}

func TestMonotonizeFIFONoopWhenAlreadyMonotone(t *testing.T) {
	e := &Edge{
		TimeTable: []TimeSample{
			{DepartureMin: 0, TravelTime: 5},
			{DepartureMin: 10, TravelTime: 6},
			{DepartureMin: 20, TravelTime: 4},
		},
	}
	before := append([]TimeSample{}, e.TimeTable...)
	MonotonizeFIFO(e)
	assert.Equal(t, before, e.TimeTable)
}
