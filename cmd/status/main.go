package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
)

// Prints a snapshot of the database: module/comment totals and per-module
// review counts with analysis state.
func main() {
	_ = godotenv.Load(".env.local")

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL not set")
	}

	conn, err := sql.Open("pgx", dsn)
	if err != nil {
		log.Fatalf("DB connection error: %v", err)
	}
	defer conn.Close()

	var totalModules, analyzed, sufficient, totalComments int
	if err := conn.QueryRow(`SELECT count(*) FROM modules`).Scan(&totalModules); err != nil {
		log.Fatalf("Query error: %v", err)
	}
	if err := conn.QueryRow(`SELECT count(*) FROM modules WHERE sentiment_data IS NOT NULL`).Scan(&analyzed); err != nil {
		log.Fatalf("Query error: %v", err)
	}
	if err := conn.QueryRow(`SELECT count(*) FROM modules WHERE has_sufficient_reviews`).Scan(&sufficient); err != nil {
		log.Fatalf("Query error: %v", err)
	}
	if err := conn.QueryRow(`SELECT count(*) FROM comments`).Scan(&totalComments); err != nil {
		log.Fatalf("Query error: %v", err)
	}

	fmt.Println("==========================================")
	fmt.Println("DATABASE STATUS")
	fmt.Println("==========================================")
	fmt.Printf("Total modules:                  %d\n", totalModules)
	fmt.Printf("Total comments:                 %d\n", totalComments)
	fmt.Printf("Modules with sentiment data:    %d/%d\n", analyzed, totalModules)
	fmt.Printf("Modules with sufficient reviews: %d\n", sufficient)
	fmt.Println()

	rows, err := conn.Query(`
        SELECT code, comment_count, (sentiment_data IS NOT NULL), has_sufficient_reviews
        FROM modules ORDER BY code`)
	if err != nil {
		log.Fatalf("Query error: %v", err)
	}
	defer rows.Close()

	for rows.Next() {
		var code string
		var count int
		var hasSentiment, hasSufficient bool
		if err := rows.Scan(&code, &count, &hasSentiment, &hasSufficient); err != nil {
			log.Fatalf("Scan error: %v", err)
		}

		marker := "✗"
		if hasSentiment {
			marker = "✓"
		}
		note := ""
		if hasSentiment && !hasSufficient {
			note = " (insufficient reviews)"
		}
		fmt.Printf("  %s %-10s %3d reviews%s\n", marker, code, count, note)
	}
	if err := rows.Err(); err != nil {
		log.Fatalf("Rows error: %v", err)
	}
}
