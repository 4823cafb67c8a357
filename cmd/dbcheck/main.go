// Command dbcheck is a standalone connectivity diagnostic, kept
// deliberately independent of the pooled pgx driver (internal/db) so it
// can diagnose a broken pool config. Adapted from the teacher's
// root-level test_connection.go: drops the PostGIS probe (no spatial
// extension is required by this schema) and reports node/edge/
// edge_sample row counts instead.
package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"

	_ "github.com/lib/pq"
)

func main() {
	host := os.Getenv("DB_HOST")
	port := os.Getenv("DB_PORT")
	user := os.Getenv("DB_USER")
	password := os.Getenv("DB_PASSWORD")
	dbname := os.Getenv("DB_NAME")
	sslmode := os.Getenv("DB_SSLMODE")

	connStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, port, user, password, dbname, sslmode)

	fmt.Println("Testing database connection...")
	fmt.Printf("  Host: %s:%s\n", host, port)
	fmt.Printf("  User: %s\n", user)
	fmt.Printf("  Database: %s\n\n", dbname)

	conn, err := sql.Open("postgres", connStr)
	if err != nil {
		log.Fatalf("failed to create connection: %v", err)
	}
	defer conn.Close()

	if err := conn.Ping(); err != nil {
		log.Fatalf("failed to ping database: %v", err)
	}
	fmt.Println("Connection successful.")

	var pgVersion string
	if err := conn.QueryRow("SELECT version()").Scan(&pgVersion); err != nil {
		log.Printf("could not read PostgreSQL version: %v", err)
	} else {
		fmt.Printf("PostgreSQL version: %s\n\n", pgVersion)
	}

	fmt.Println("Graph table row counts:")
	for _, table := range []string{"node", "edge", "edge_sample", "api_key", "query_log"} {
		var count int
		err := conn.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", table)).Scan(&count)
		if err != nil {
			fmt.Printf("  %-12s (not present or query failed: %v)\n", table, err)
			continue
		}
		fmt.Printf("  %-12s %d rows\n", table, count)
	}

	fmt.Println("\nConnection test completed successfully.")
}
