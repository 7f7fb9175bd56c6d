// Package ingest implements the trade CSV ingestion pipeline: load a file,
// detect its shape, normalize it into the canonical trade table, validate it
// and compute derived columns. Ingestion is fail-closed: any schema, parse or
// validation problem aborts the whole import and no rows are returned.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
)

// Ingestor runs the ingestion pipeline. It holds no state between calls;
// ingesting the same file twice yields identical tables.
type Ingestor struct {
	logger *zap.Logger
}

// NewIngestor creates a new Ingestor.
func NewIngestor(logger *zap.Logger) *Ingestor {
	return &Ingestor{logger: logger}
}

// Ingest reads a CSV stream and returns the canonical trade table.
// Errors are one of *SchemaError, *ParseError or *ValidationError, each
// carrying enough structure for the caller to render a precise message.
func (in *Ingestor) Ingest(r io.Reader) ([]Trade, error) {
	trades, _, err := in.IngestWithFormat(r)
	return trades, err
}

// IngestWithFormat is Ingest plus the detected source format, for callers
// that record where the table came from.
func (in *Ingestor) IngestWithFormat(r io.Reader) ([]Trade, Format, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, FormatNative, fmt.Errorf("read csv: %w", err)
	}
	if len(records) == 0 {
		return nil, FormatNative, &SchemaError{}
	}
	header, data := records[0], records[1:]

	format, err := DetectFormat(header)
	if err != nil {
		return nil, format, err
	}
	in.logger.Debug("Detected CSV format",
		zap.Stringer("format", format),
		zap.Int("rows", len(data)),
	)

	t := newTable(header, data)

	var rows []tradeRow
	if format == FormatPaired {
		rows, err = normalizePaired(t)
	} else {
		rows, err = normalizeNative(t)
	}
	if err != nil {
		return nil, format, err
	}

	if err := validate(format, header, rows); err != nil {
		return nil, format, err
	}

	derive(rows)

	trades := make([]Trade, len(rows))
	for i, r := range rows {
		trades[i] = r.trade
	}
	in.logger.Info("Ingested trades",
		zap.Stringer("format", format),
		zap.Int("count", len(trades)),
	)
	return trades, format, nil
}

// IngestFile reads and ingests a CSV file from disk.
func (in *Ingestor) IngestFile(path string) ([]Trade, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return in.Ingest(f)
}
