// Standalone migration job. Run this instead of letting the API server
// migrate on startup when SKIP_MIGRATIONS=true.
package main

import (
	"log"

	"bitbucket.org/vyaparsoft/backoffice_backend/config"
	"bitbucket.org/vyaparsoft/backoffice_backend/models"
)

func main() {
	db := config.ConnectDatabaseWithRetry()
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("acquire sql.DB: %v", err)
	}
	defer sqlDB.Close()

	if err := models.MigrateTable(db); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	if err := models.SeedSellerInfo(db); err != nil {
		log.Fatalf("seed seller info: %v", err)
	}
	log.Println("migrations applied")
}
