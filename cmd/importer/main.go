package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"trade-journal-go/internal/config"
	"trade-journal-go/internal/database"
	"trade-journal-go/internal/ingest"
	"trade-journal-go/internal/journal"
	"trade-journal-go/internal/logger"
)

func main() {
	var (
		journalFlag = flag.String("journal", "", "journal slug to import into (created if missing)")
		fileFlag    = flag.String("file", "", "path of the trade CSV to import")
		urlFlag     = flag.String("url", "", "URL of the trade CSV to import")
	)
	flag.Parse()

	if *journalFlag == "" || (*fileFlag == "") == (*urlFlag == "") {
		fmt.Fprintln(os.Stderr, "usage: importer -journal <slug> (-file <path> | -url <https://...>)")
		os.Exit(2)
	}

	cfg, err := config.LoadConfig("./configs")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.NewLogger(cfg.Logger.Level, cfg.Logger.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	db, err := database.NewDatabase(cfg.Database.DSN)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}

	ingestor := ingest.NewIngestor(log)
	journals := journal.NewService(db, log)

	if _, err := journals.Create(*journalFlag); err != nil {
		log.Fatal("Failed to create journal", zap.Error(err))
	}

	var (
		trades []ingest.Trade
		format ingest.Format
		source string
	)
	if *fileFlag != "" {
		source = *fileFlag
		f, err := os.Open(*fileFlag)
		if err != nil {
			log.Fatal("Failed to open file", zap.Error(err))
		}
		defer f.Close()
		trades, format, err = ingestor.IngestWithFormat(f)
		if err != nil {
			fatalIngest(log, err)
		}
	} else {
		source = *urlFlag
		fetcher := ingest.NewFetcher(cfg.Import.RateLimit, cfg.Import.RateLimitBurst, log)
		body, err := fetcher.Fetch(context.Background(), *urlFlag)
		if err != nil {
			log.Fatal("Failed to fetch CSV", zap.Error(err))
		}
		trades, format, err = ingestor.IngestWithFormat(body)
		if err != nil {
			fatalIngest(log, err)
		}
	}

	run, err := journals.ImportTrades(journal.Slugify(*journalFlag), trades, source, format)
	if err != nil {
		log.Fatal("Failed to store trades", zap.Error(err))
	}

	log.Info("Import finished",
		zap.String("journal", run.JournalSlug),
		zap.String("import_id", run.ImportID),
		zap.Stringer("format", format),
		zap.Int("rows", run.Rows),
	)
}

// fatalIngest logs the structured pipeline failure and exits non-zero.
func fatalIngest(log *zap.Logger, err error) {
	var schemaErr *ingest.SchemaError
	var parseErr *ingest.ParseError
	var validationErr *ingest.ValidationError

	switch {
	case errors.As(err, &schemaErr):
		log.Fatal("Schema error", zap.Strings("missing_columns", schemaErr.Missing))
	case errors.As(err, &parseErr):
		log.Fatal("Parse error",
			zap.Int("row", parseErr.Row),
			zap.String("field", parseErr.Field),
			zap.String("value", parseErr.Value),
		)
	case errors.As(err, &validationErr):
		log.Fatal("Validation error",
			zap.String("rule", validationErr.Rule),
			zap.Strings("rows", validationErr.Rows),
		)
	default:
		log.Fatal("Import failed", zap.Error(err))
	}
}
