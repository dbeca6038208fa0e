package main

import (
	"context"
	"log"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"churnscope/adapters/csvfile"
	"churnscope/adapters/excel"
	"churnscope/adapters/postgres"
	"churnscope/app"
	"churnscope/internal"
	"churnscope/internal/config"
	"churnscope/internal/report"
	"churnscope/ports"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := os.MkdirAll(cfg.Paths.OutputDir, 0o755); err != nil {
		log.Fatalf("Failed to create output directory: %v", err)
	}

	logger := internal.DefaultLogger
	ctx := context.Background()

	reader := csvfile.NewReader(cfg.Paths.InputFile)
	plotter := excel.NewWriter(cfg.Paths.OutputDir)

	var repo ports.RunRepository
	if cfg.Database.URL != "" {
		db, err := postgres.Connect(ctx, cfg.Database.URL)
		if err != nil {
			log.Fatalf("Failed to initialize database: %v", err)
		}
		defer db.Close()
		repo = postgres.NewRunRepository(db)
	}

	pipeline := app.NewPipeline(cfg, reader, plotter, repo, logger)
	result, err := pipeline.Run(ctx)
	if err != nil {
		log.Fatalf("Pipeline failed: %v", err)
	}

	md := report.RenderMarkdown(result)
	mdPath := filepath.Join(cfg.Paths.OutputDir, "churn_report.md")
	if err := os.WriteFile(mdPath, []byte(md), 0o644); err != nil {
		log.Fatalf("Failed to write markdown report: %v", err)
	}
	htmlPath := filepath.Join(cfg.Paths.OutputDir, "churn_report.html")
	if err := os.WriteFile(htmlPath, report.RenderHTML(md), 0o644); err != nil {
		log.Fatalf("Failed to write HTML report: %v", err)
	}

	logger.Info("run %s complete: %s, %s, %s", result.RunID, mdPath, htmlPath, plotter.Path())
}
