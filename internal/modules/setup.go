package modules

import (
	"log"

	"github.com/CourseLens/CL-Backend/internal/db"
)

// store backs the HTTP handlers. The ingest pipeline and analyzer construct
// their own Store over the same handle.
var store *Store

func Init() {
	if err := db.DB.AutoMigrate(&Module{}, &Comment{}); err != nil {
		log.Fatal("Failed to auto-migrate tables: ", err)
	}

	// Case insensitive unique for modules.code
	if err := db.DB.Exec(`
        CREATE UNIQUE INDEX IF NOT EXISTS modules_code_ci_unique
        ON modules (LOWER(code));
    `).Error; err != nil {
		log.Fatal("Failed to create modules_code_ci_unique: ", err)
	}

	store = NewStore(db.DB)
}

// DefaultStore returns the store created by Init.
func DefaultStore() *Store {
	return store
}
