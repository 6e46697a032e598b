package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/CourseLens/CL-Backend/internal/catalog"
	"github.com/CourseLens/CL-Backend/internal/db"
	"github.com/CourseLens/CL-Backend/internal/modules"
	"github.com/CourseLens/CL-Backend/internal/pipeline"
	"github.com/CourseLens/CL-Backend/internal/scraper"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// defaultCodes is the module set refreshed when no -modules flag is given.
var defaultCodes = []string{
	"GEA1000", "CS1010", "CS1101S", "CS2030S", "CS2040S",
	"CS2100", "MA1521", "MA1522", "ST2334", "IS1108",
	"IS2218", "CS1231S", "CS2106", "CS2103",
}

var (
	moduleList = flag.String("modules", "", "Comma-separated module codes (default: built-in list)")
	workers    = flag.Int("workers", 0, "Concurrent modules (default: INGEST_WORKERS or 1)")
)

func main() {
	flag.Parse()
	_ = godotenv.Load(".env.local")

	db.Connect()
	modules.Init()

	codes := defaultCodes
	if *moduleList != "" {
		codes = nil
		for _, code := range strings.Split(*moduleList, ",") {
			if code = strings.TrimSpace(code); code != "" {
				codes = append(codes, code)
			}
		}
	}

	logger := logrus.New()

	fetcher, err := scraper.NewBrowserFetcher()
	if err != nil {
		log.Fatal("Failed to start browser fetcher: ", err)
	}
	defer fetcher.Close()

	cat := catalog.NewClientFromEnv()
	sc := scraper.New(fetcher, cat.PageBase(), logger)

	p := pipeline.New(modules.DefaultStore(), cat, sc, logger)
	p.Workers = ingestWorkers()

	report := p.Run(context.Background(), codes)

	fmt.Println("==========================================")
	fmt.Println("INGEST COMPLETE")
	fmt.Printf("✓ Success: %d/%d\n", len(report.Succeeded), len(codes))
	fmt.Printf("✗ Failed:  %d/%d\n", len(report.Failed), len(codes))
	if len(report.Failed) > 0 {
		fmt.Println("Failed modules:", strings.Join(report.Failed, ", "))
		os.Exit(1)
	}
}

func ingestWorkers() int {
	if *workers > 0 {
		return *workers
	}
	if env := os.Getenv("INGEST_WORKERS"); env != "" {
		if n, err := strconv.Atoi(env); err == nil && n > 0 {
			return n
		}
	}
	return 1
}
