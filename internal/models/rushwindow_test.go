package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetRushWindowsOverridesWidthEvaluation(t *testing.T) {
	original := ActiveRushWindows
	t.Cleanup(func() { ActiveRushWindows = original })

	e := &Edge{BaseWidth: 2, RushWidth: 20}

	SetRushWindows([]RushWindow{{Start: 100, End: 200}})
	assert.Equal(t, 2.0, e.Width(50))
	assert.Equal(t, 20.0, e.Width(150))
}

func TestSetRushWindowsIgnoresEmptySlice(t *testing.T) {
	original := ActiveRushWindows
	t.Cleanup(func() { ActiveRushWindows = original })

	SetRushWindows([]RushWindow{{Start: 1, End: 2}})
	SetRushWindows(nil)
	assert.Equal(t, []RushWindow{{Start: 1, End: 2}}, ActiveRushWindows)
}
