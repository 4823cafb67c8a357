// Package config centralizes every environment-driven knob for the
// routing pipeline (distilled spec §6 "Environment knobs") plus the
// ambient HTTP/DB/Redis/auth settings. Grounded on the teacher's
// getEnv(key, default) idiom repeated across internal/cache/redis.go and
// internal/db/connection.go.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/citypath/corridor/internal/models"
)

// Routing holds the search-tuning knobs (distilled spec §6).
type Routing struct {
	WideThreshold         float64
	MaxLabelsPerNode      int
	IntervalDuration      float64
	LabelingTimeout       time.Duration
	OverallQueryTimeout   time.Duration
	RushWindows           []models.RushWindow
}

// LoadRouting reads the routing knobs from the environment, falling back
// to the distilled spec's defaults.
func LoadRouting() Routing {
	return Routing{
		WideThreshold:       getEnvFloat("WIDENESS_THRESHOLD", 8.0),
		MaxLabelsPerNode:    getEnvInt("MAX_LABELS_PER_NODE", 10),
		IntervalDuration:    getEnvFloat("INTERVAL_DURATION", 30.0),
		LabelingTimeout:     time.Duration(getEnvFloat("LABELING_TIMEOUT_SECONDS", 5.0) * float64(time.Second)),
		OverallQueryTimeout: time.Duration(getEnvFloat("QUERY_TIMEOUT_SECONDS", 10.0) * float64(time.Second)),
		RushWindows:         getEnvRushWindows("RUSH_WINDOWS", models.DefaultRushWindows),
	}
}

// getEnvRushWindows parses a comma-separated list of "start-end" minute
// ranges (e.g. "450-570,960-1110") from the environment, falling back to
// fallback if the variable is unset or malformed.
func getEnvRushWindows(key string, fallback []models.RushWindow) []models.RushWindow {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}

	var windows []models.RushWindow
	for _, part := range strings.Split(v, ",") {
		bounds := strings.SplitN(strings.TrimSpace(part), "-", 2)
		if len(bounds) != 2 {
			return fallback
		}
		start, err1 := strconv.ParseFloat(strings.TrimSpace(bounds[0]), 64)
		end, err2 := strconv.ParseFloat(strings.TrimSpace(bounds[1]), 64)
		if err1 != nil || err2 != nil {
			return fallback
		}
		windows = append(windows, models.RushWindow{Start: start, End: end})
	}
	if len(windows) == 0 {
		return fallback
	}
	return windows
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
