package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"time"

	"cian-offices-scraper/config"
	"cian-offices-scraper/models"
	"cian-offices-scraper/scraper/cian"
	"cian-offices-scraper/services"
	"cian-offices-scraper/storage"
	"cian-offices-scraper/utils"
)

func main() {
	logger := utils.NewLogger()
	cfg := config.Load()

	logger.Info("=== Cian offices crawler starting ===")
	logger.Info("Config: regions: %d | max pages: %d | delay: %v | output: %s",
		len(cian.DefaultRegionIDs), cfg.MaxPages, cfg.PageDelay(), cfg.CSVOutputPath)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	client := cian.NewClient(cian.OptionsFromConfig(cfg))
	extractor := services.NewExtractor(logger, nil)
	crawler := cian.NewCrawler(client, extractor, logger, cian.CrawlOptions{
		Regions:  cian.DefaultRegionIDs,
		MaxPages: cfg.MaxPages,
		Delay:    cfg.PageDelay(),
	})

	result := crawler.Crawl(ctx)
	logger.Info("Total offers collected: %d", len(result.Offers))

	csvWriter := storage.NewCSVWriter(cfg.CSVOutputPath)
	if err := csvWriter.Write(result.Offers); err != nil {
		if errors.Is(err, storage.ErrNoData) {
			logger.Warn("No offers found for the configured regions, nothing written")
			os.Exit(0)
		}
		logger.Error("CSV write failed: %v", err)
		os.Exit(1)
	}
	logger.Info("Offers saved to %s", csvWriter.Path())

	if cfg.PostgresEnabled {
		exportPostgres(cfg, logger, result.Offers)
	}

	summary := services.NewSummaryService(logger)
	summary.Print(summary.Generate(result.Offers, result.Regions))
}

// exportPostgres mirrors the result set into PostgreSQL. Failures are logged
// only; the CSV is already on disk.
func exportPostgres(cfg *config.Config, logger *utils.Logger, offers []*models.Offer) {
	retry := &utils.RetryConfig{
		MaxAttempts: cfg.MaxRetries,
		BaseDelay:   2 * time.Second,
		Logger:      logger,
	}

	pgWriter, err := storage.NewPostgresWriter(cfg.DSN(), retry, logger)
	if err != nil {
		logger.Error("Failed to connect to PostgreSQL: %v", err)
		return
	}
	defer pgWriter.Close()

	if err := pgWriter.Write(offers); err != nil {
		logger.Error("PostgreSQL write failed: %v", err)
		return
	}

	if n, err := pgWriter.CountRun(); err != nil {
		logger.Warn("Could not verify stored rows: %v", err)
	} else {
		logger.Info("PostgreSQL run %s holds %d offers", pgWriter.RunID(), n)
	}
}
