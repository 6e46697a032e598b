package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/CourseLens/CL-Backend/internal/db"
	"github.com/CourseLens/CL-Backend/internal/modules"
	"github.com/CourseLens/CL-Backend/internal/sentiment"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

var clearFirst = flag.Bool("clear", false, "Clear all sentiment data before re-analyzing")

func main() {
	flag.Parse()
	_ = godotenv.Load(".env.local")

	db.Connect()
	modules.Init()

	store := modules.DefaultStore()
	logger := logrus.New()

	if *clearFirst {
		fmt.Print("Clear and regenerate all sentiment data? (yes/no): ")
		reader := bufio.NewReader(os.Stdin)
		answer, _ := reader.ReadString('\n')
		if strings.ToLower(strings.TrimSpace(answer)) != "yes" {
			fmt.Println("Aborted.")
			return
		}

		cleared, err := store.ClearSentiment()
		if err != nil {
			log.Fatal("Failed to clear sentiment data: ", err)
		}
		fmt.Printf("✓ Cleared sentiment data from %d modules\n", cleared)
	}

	ctx := context.Background()

	summarizer, err := sentiment.NewChatSummarizer(ctx, sentiment.LoadFromEnv(), logger)
	if err != nil {
		log.Fatal("Failed to initialize summarizer: ", err)
	}

	analyzer := sentiment.NewAnalyzer(store, summarizer, logger)
	stats := analyzer.AnalyzeAll(ctx)

	fmt.Println("==========================================")
	fmt.Println("SENTIMENT ANALYSIS COMPLETE")
	fmt.Printf("✓ Success:                     %d\n", stats.Success)
	fmt.Printf("~ Insufficient data (≤3 reviews): %d\n", stats.Insufficient)
	fmt.Printf("- Skipped:                     %d\n", stats.Skipped)
	fmt.Printf("✗ Failed:                      %d\n", stats.Failed)
	if stats.Failed > 0 {
		os.Exit(1)
	}
}
