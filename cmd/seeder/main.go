// cmd/seeder/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/ammerola/motofleet-be/internal/adapters/db"
	"github.com/ammerola/motofleet-be/internal/core/domain"
	"github.com/ammerola/motofleet-be/internal/core/ports"
	"github.com/ammerola/motofleet-be/internal/pkg/config"
	"github.com/ammerola/motofleet-be/internal/pkg/logger"
)

func main() {
	var (
		catalogFile = flag.String("catalog", "", "Excel workbook with Motorcycles and Parts sheets (built-in fleet when empty)")
		logLevel    = flag.String("log-level", "info", "Log level (debug, info, warn, error)")
		dryRun      = flag.Bool("dry-run", false, "Preview changes without modifying database")
		migrate     = flag.Bool("migrate", true, "Apply migrations before seeding")
		rollback    = flag.Bool("rollback", false, "Roll back the last migration and exit without seeding")
	)
	flag.Parse()

	slogger := logger.SetupLogger(*logLevel, "json")

	if *rollback {
		cfg, err := config.Load(slogger)
		if err != nil {
			slogger.Error("failed to load configuration", slog.String("error", err.Error()))
			os.Exit(1)
		}
		if err := db.RollbackLastMigration(context.Background(), migrationConfig(cfg), slogger); err != nil {
			slogger.Error("failed to roll back migration", slog.String("error", err.Error()))
			os.Exit(1)
		}
		return
	}

	catalog := DefaultCatalog()
	if *catalogFile != "" {
		data, err := os.ReadFile(*catalogFile)
		if err != nil {
			slogger.Error("failed to read catalog", slog.String("file", *catalogFile), slog.String("error", err.Error()))
			os.Exit(1)
		}
		if catalog, err = LoadCatalog(data); err != nil {
			slogger.Error("failed to load catalog", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	slogger.Info("catalog loaded",
		slog.Int("motorcycles", len(catalog.Motorcycles)),
		slog.Int("parts", len(catalog.Parts)))

	if *dryRun {
		printCatalog(catalog)
		fmt.Println("\n[DRY RUN] No changes were made to the database")
		return
	}

	cfg, err := config.Load(slogger)
	if err != nil {
		slogger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx := context.Background()

	database, err := db.NewDatabase(ctx, &db.Config{
		Host:               cfg.Database.Host,
		Port:               cfg.Database.Port,
		User:               cfg.Database.User,
		Password:           cfg.Database.Password,
		Database:           cfg.Database.Name,
		SSLMode:            cfg.Database.SSLMode,
		MaxConnections:     2,
		MinConnections:     1,
		MaxConnLifetime:    cfg.Database.MaxConnLifetime,
		MaxConnIdleTime:    cfg.Database.MaxConnIdleTime,
		HealthCheckPeriod:  cfg.Database.HealthCheckPeriod,
		ConnectTimeout:     cfg.Database.ConnectTimeout,
		StatementCacheMode: cfg.Database.StatementCacheMode,
	}, slogger)
	if err != nil {
		slogger.Error("failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer database.Close()

	if *migrate {
		err := db.RunMigrationsWithRetry(ctx, migrationConfig(cfg), slogger, 3)
		if err != nil {
			slogger.Error("failed to run migrations", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	summary := seed(ctx, catalog,
		db.NewMotorcycleRepository(database, slogger),
		db.NewInventoryPartRepository(database, slogger),
		slogger)

	fmt.Println("\n" + strings.Repeat("=", 60))
	fmt.Println("SEEDING SUMMARY")
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("Motorcycles upserted: %d\n", summary.Motorcycles)
	fmt.Printf("Parts created:        %d\n", summary.PartsCreated)
	fmt.Printf("Parts skipped:        %d\n", summary.PartsSkipped)
	if len(summary.Failures) > 0 {
		fmt.Printf("\nFailures (%d):\n", len(summary.Failures))
		for _, f := range summary.Failures {
			fmt.Printf("  - %s\n", f)
		}
		os.Exit(1)
	}
}

func migrationConfig(cfg *config.Config) *db.MigrationConfig {
	return &db.MigrationConfig{
		DatabaseURL: cfg.GetDatabaseURL(),
		SourcePath:  cfg.Database.MigrationPath,
		TableName:   "schema_migrations",
		SchemaName:  "public",
	}
}

// SeedSummary counts what a seed run did
type SeedSummary struct {
	Motorcycles  int
	PartsCreated int
	PartsSkipped int
	Failures     []string
}

// seed writes the catalog through the repositories. Motorcycles upsert on VIN and parts
// whose reference already exists are skipped, so reruns are harmless.
func seed(ctx context.Context, catalog *Catalog, motorcycles ports.MotorcycleRepository, parts ports.InventoryPartRepository, logger *slog.Logger) SeedSummary {
	var summary SeedSummary

	for _, m := range catalog.Motorcycles {
		if err := motorcycles.Save(ctx, m); err != nil {
			logger.Error("failed to save motorcycle", slog.String("vin", m.VIN), slog.String("error", err.Error()))
			summary.Failures = append(summary.Failures, "motorcycle "+m.VIN+": "+err.Error())
			continue
		}
		summary.Motorcycles++
	}

	for _, p := range catalog.Parts {
		err := parts.Save(ctx, p)
		switch {
		case err == nil:
			summary.PartsCreated++
		case errors.Is(err, domain.ErrValidation):
			logger.Info("part already present, skipping", slog.String("reference", p.ReferenceNumber))
			summary.PartsSkipped++
		default:
			logger.Error("failed to save part", slog.String("reference", p.ReferenceNumber), slog.String("error", err.Error()))
			summary.Failures = append(summary.Failures, "part "+p.ReferenceNumber+": "+err.Error())
		}
	}

	logger.Info("seed operation completed",
		slog.Int("motorcycles", summary.Motorcycles),
		slog.Int("parts_created", summary.PartsCreated),
		slog.Int("parts_skipped", summary.PartsSkipped),
		slog.Int("failures", len(summary.Failures)))
	return summary
}

func printCatalog(catalog *Catalog) {
	for _, m := range catalog.Motorcycles {
		fmt.Printf("motorcycle  %-18s %s %d\n", m.VIN, m.DisplayName(), m.Year)
	}
	for _, p := range catalog.Parts {
		fmt.Printf("part        %-18s %-32s stock=%d min=%d price=%s\n",
			p.ReferenceNumber, p.Name, p.CurrentStock, p.MinStockThreshold, p.UnitPrice.StringFixed(2))
	}
}
