package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"visit-route-planner/internal/adapters/repositories"
	"visit-route-planner/internal/adapters/spreadsheet"
	"visit-route-planner/internal/config"
	"visit-route-planner/internal/platform/db"
	"visit-route-planner/internal/ports"
)

// dbtool initializes the schema and loads visit points, either from the JSON
// seed (SEED_PATH) or from a spreadsheet when IMPORT_XLSX is set.
func main() {
	config.LoadDotEnv()

	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()

	var sqlDB *sql.DB
	var repo ports.VisitRepository
	if cfg.DBDriver == db.DriverPostgres {
		sqlDB, err = db.Open(ctx, cfg.DatabaseURL)
		repo = repositories.NewSQLVisitRepository(sqlDB)
	} else {
		sqlDB, err = db.OpenSQLite(ctx, cfg.DBPath)
		repo = repositories.NewSqliteVisitRepository(sqlDB)
	}
	if err != nil {
		log.Fatal(err)
	}
	defer sqlDB.Close()

	if err := initAndLoad(ctx, sqlDB, repo, cfg); err != nil {
		log.Fatal(err)
	}
}

func initAndLoad(ctx context.Context, sqlDB *sql.DB, repo ports.VisitRepository, cfg config.Config) error {
	log.Println("Initializing database schema...")
	if err := repositories.InitSchema(ctx, sqlDB); err != nil {
		return fmt.Errorf("schema initialization failed: %w", err)
	}
	log.Println("Schema ready.")

	if cfg.ImportXLSX != "" {
		return importSpreadsheet(ctx, repo, cfg.ImportXLSX)
	}

	log.Println("Seeding database...")
	n, err := repositories.SeedFromJSON(ctx, repo, cfg.SeedPath)
	if err != nil {
		return fmt.Errorf("seeding failed: %w", err)
	}
	log.Printf("Seeding complete. count=%d", n)

	return nil
}

func importSpreadsheet(ctx context.Context, repo ports.VisitRepository, path string) error {
	log.Printf("Importing spreadsheet path=%s", path)

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("import spreadsheet: %w", err)
	}
	defer f.Close()

	res, err := spreadsheet.Import(f)
	if err != nil {
		return err
	}
	for _, s := range res.Skipped {
		log.Printf("Skipped %v", s)
	}

	if err := repo.ReplaceVisitPoints(ctx, res.Points); err != nil {
		return fmt.Errorf("import spreadsheet: %w", err)
	}
	log.Printf("Import complete. imported=%d skipped=%d", len(res.Points), len(res.Skipped))

	return nil
}
