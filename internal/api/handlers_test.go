package api

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"

	"github.com/citypath/corridor/internal/config"
	"github.com/citypath/corridor/internal/driver"
	"github.com/citypath/corridor/internal/graph"
	"github.com/citypath/corridor/internal/models"
)

func emptyGraph() *graph.Graph {
	g := &graph.Graph{}
	g.LoadInMemory(map[int64]*models.Node{})
	return g
}

func testApp() *fiber.App {
	g := emptyGraph()
	d := driver.New(g, config.Routing{
		WideThreshold: 8, MaxLabelsPerNode: 10, IntervalDuration: 30,
		LabelingTimeout: 0, OverallQueryTimeout: 0, RushWindows: models.DefaultRushWindows,
	})
	app := fiber.New()
	app.Get("/v2/route", Route(d))
	app.Post("/v2/route/:id/recompute", Recompute(d))
	app.Get("/v2/graph/edge", GraphEdge(g))
	return app
}

func TestRouteRejectsMissingSource(t *testing.T) {
	app := testApp()
	req := httptest.NewRequest("GET", "/v2/route?destination=2&budget=10", nil)
	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}

func TestRouteRejectsUnknownMode(t *testing.T) {
	app := testApp()
	req := httptest.NewRequest("GET", "/v2/route?source=1&destination=2&budget=10&mode=BOGUS", nil)
	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}

func TestGraphEdgeRejectsMalformedNodeParam(t *testing.T) {
	app := testApp()
	req := httptest.NewRequest("GET", "/v2/graph/edge?node=abc&neighbor=2", nil)
	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}

func TestGraphEdgeReturnsNotFoundForUnknownNode(t *testing.T) {
	app := testApp()
	req := httptest.NewRequest("GET", "/v2/graph/edge?node=1&neighbor=2", nil)
	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)
}

func TestRecomputeRejectsUnknownMode(t *testing.T) {
	app := testApp()
	req := httptest.NewRequest("POST", "/v2/route/some-id/recompute?mode=BOGUS", nil)
	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}

func TestRecomputeReturnsNotFoundForUnknownSession(t *testing.T) {
	app := testApp()
	req := httptest.NewRequest("POST", "/v2/route/some-id/recompute", nil)
	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)
}
