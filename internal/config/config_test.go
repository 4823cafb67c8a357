package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/citypath/corridor/internal/models"
)

func TestGetEnvRushWindowsParsesPairs(t *testing.T) {
	os.Setenv("RUSH_WINDOWS_TEST", "450-570,960-1110")
	defer os.Unsetenv("RUSH_WINDOWS_TEST")

	windows := getEnvRushWindows("RUSH_WINDOWS_TEST", models.DefaultRushWindows)
	assert.Equal(t, []models.RushWindow{{Start: 450, End: 570}, {Start: 960, End: 1110}}, windows)
}

func TestGetEnvRushWindowsFallsBackWhenUnset(t *testing.T) {
	os.Unsetenv("RUSH_WINDOWS_UNSET")
	windows := getEnvRushWindows("RUSH_WINDOWS_UNSET", models.DefaultRushWindows)
	assert.Equal(t, models.DefaultRushWindows, windows)
}

func TestGetEnvRushWindowsFallsBackOnMalformedValue(t *testing.T) {
	os.Setenv("RUSH_WINDOWS_BAD", "not-a-window")
	defer os.Unsetenv("RUSH_WINDOWS_BAD")

	windows := getEnvRushWindows("RUSH_WINDOWS_BAD", models.DefaultRushWindows)
	assert.Equal(t, models.DefaultRushWindows, windows)
}

func TestLoadRoutingDefaultsRushWindows(t *testing.T) {
	os.Unsetenv("RUSH_WINDOWS")
	cfg := LoadRouting()
	assert.Equal(t, models.DefaultRushWindows, cfg.RushWindows)
}
