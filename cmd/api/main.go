// Command api is the HTTP front end for the routing engine: loads the
// graph, wires the driver, and serves the query/health/introspection
// endpoints behind optional auth/rate-limit/analytics middleware.
//
// Adapted from the teacher's cmd/api/main.go and main_with_auth.go: the
// two build-tagged entry points (auth-free vs. auth-gated) collapse
// into one binary that branches on config.Server's three toggles, since
// those toggles already carry the same information the teacher split
// across files with go:build constraints.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/citypath/corridor/internal/api"
	"github.com/citypath/corridor/internal/cache"
	"github.com/citypath/corridor/internal/config"
	"github.com/citypath/corridor/internal/db"
	"github.com/citypath/corridor/internal/driver"
	"github.com/citypath/corridor/internal/graph"
	"github.com/citypath/corridor/internal/middleware"
	"github.com/citypath/corridor/internal/models"
)

func main() {
	log.Println("Starting corridor routing API...")

	pool, err := db.GetDB()
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Println("database connection established")

	rdb, err := cache.GetClient()
	if err != nil {
		log.Fatalf("failed to connect to Redis: %v", err)
	}
	defer cache.Close()
	log.Println("redis connection established")

	g := graph.Get()
	if err := g.LoadFromDB(context.Background(), pool); err != nil {
		log.Fatalf("failed to load routing graph: %v", err)
	}
	log.Println("routing graph loaded into memory")

	routingCfg := config.LoadRouting()
	serverCfg := config.LoadServer()
	models.SetRushWindows(routingCfg.RushWindows)
	d := driver.New(g, routingCfg)

	log.Printf("configuration: auth=%v rate_limit=%v analytics=%v", serverCfg.EnableAuth, serverCfg.EnableRateLimit, serverCfg.EnableAnalytics)

	app := fiber.New(fiber.Config{
		AppName:      "corridor-api",
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorHandler: customErrorHandler,
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format:     "${time} | ${status} | ${latency} | ${method} ${path}\n",
		TimeFormat: "15:04:05",
		TimeZone:   "Local",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	app.Get("/health", api.Health)

	v2 := app.Group("/v2")
	if serverCfg.EnableAuth {
		v2.Use(middleware.AuthMiddleware(pool))
		log.Println("auth middleware enabled")
	}
	if serverCfg.EnableRateLimit && serverCfg.EnableAuth {
		v2.Use(middleware.RateLimitMiddleware(rdb))
		log.Println("rate limit middleware enabled")
	}
	if serverCfg.EnableAnalytics && serverCfg.EnableAuth {
		v2.Use(middleware.AnalyticsMiddleware(pool))
		log.Println("analytics middleware enabled")
	}

	v2.Get("/route", api.Route(d))
	v2.Post("/route/:id/recompute", api.Recompute(d))
	v2.Get("/graph/edge", api.GraphEdge(g))

	app.Use(func(c *fiber.Ctx) error {
		return c.Status(404).JSON(fiber.Map{"error": "endpoint not found"})
	})

	addr := fmt.Sprintf(":%s", serverCfg.Port)

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan

		log.Println("shutting down gracefully...")
		if err := app.ShutdownWithTimeout(30 * time.Second); err != nil {
			log.Printf("error during shutdown: %v", err)
		}
	}()

	log.Printf("listening on http://localhost%s", addr)
	if err := app.Listen(addr); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	log.Printf("error [%s %s]: %v", c.Method(), c.Path(), err)
	return c.Status(code).JSON(fiber.Map{"error": err.Error()})
}
