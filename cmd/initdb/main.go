package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/CourseLens/CL-Backend/internal/db"
	"github.com/CourseLens/CL-Backend/internal/modules"
	"github.com/joho/godotenv"
)

// Drops and recreates the modules/comments tables. Destructive; prompts
// before touching anything.
func main() {
	_ = godotenv.Load(".env.local")

	fmt.Print("WARNING: This will DELETE all existing data. Continue? (y/n): ")
	reader := bufio.NewReader(os.Stdin)
	answer, _ := reader.ReadString('\n')
	if strings.ToLower(strings.TrimSpace(answer)) != "y" {
		fmt.Println("Aborted.")
		return
	}

	db.Connect()

	log.Println("Dropping existing tables...")
	if err := db.DB.Migrator().DropTable(&modules.Comment{}, &modules.Module{}); err != nil {
		log.Fatal("Failed to drop tables: ", err)
	}

	log.Println("Creating tables...")
	modules.Init()

	log.Println("✓ Database initialized (tables: modules, comments)")
}
