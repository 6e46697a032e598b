package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/CourseLens/CL-Backend/internal/db"
	"github.com/CourseLens/CL-Backend/internal/modules"
)

// Wipes sentiment data from every module so the next analyze run starts
// from scratch. Comments and catalog metadata are left alone.
func main() {
	err := godotenv.Load(".env.local")
	if err != nil {
		log.Println("No .env.local file found, relying on system env vars")
	}

	db.Connect()
	modules.Init()

	fmt.Print("This will clear sentiment data for ALL modules. Continue? (yes/no): ")
	reader := bufio.NewReader(os.Stdin)
	answer, _ := reader.ReadString('\n')
	if strings.TrimSpace(strings.ToLower(answer)) != "yes" {
		fmt.Println("Aborted.")
		return
	}

	cleared, err := modules.DefaultStore().ClearSentiment()
	if err != nil {
		log.Fatalf("Clear error: %v", err)
	}
	fmt.Printf("Cleared sentiment data for %d modules.\n", cleared)
}
