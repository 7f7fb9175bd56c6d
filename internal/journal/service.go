// Package journal manages named trade journals: a registry of journals plus
// the imported trades persisted against each one.
package journal

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"trade-journal-go/internal/ingest"
	"trade-journal-go/internal/models"
)

// Service persists journals, import runs and trade records.
type Service struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewService creates a journal Service.
func NewService(db *gorm.DB, logger *zap.Logger) *Service {
	return &Service{db: db, logger: logger}
}

var slugRe = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

// Slugify turns "My Journal Name" into "my-journal-name". Names that reduce
// to nothing get a timestamped fallback.
func Slugify(name string) string {
	s := strings.ToLower(strings.Trim(slugRe.ReplaceAllString(strings.TrimSpace(name), "-"), "-"))
	if s == "" {
		return fmt.Sprintf("journal-%d", time.Now().Unix())
	}
	return s
}

// Create registers a journal under the slug of its name. Creating the same
// name twice returns the existing record.
func (s *Service) Create(name string) (models.Journal, error) {
	j := models.Journal{Slug: Slugify(name), Name: name}
	if err := s.db.FirstOrCreate(&j, models.Journal{Slug: j.Slug}).Error; err != nil {
		return models.Journal{}, fmt.Errorf("failed to create journal %q: %w", name, err)
	}
	return j, nil
}

// List returns all journals, oldest first.
func (s *Service) List() ([]models.Journal, error) {
	var out []models.Journal
	if err := s.db.Order("created_at asc").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("failed to list journals: %w", err)
	}
	return out, nil
}

// Get looks a journal up by slug.
func (s *Service) Get(slug string) (models.Journal, error) {
	var j models.Journal
	if err := s.db.Where("slug = ?", slug).First(&j).Error; err != nil {
		return models.Journal{}, fmt.Errorf("journal %q: %w", slug, err)
	}
	return j, nil
}

// ImportTrades stores a validated trade table against a journal in one
// transaction, together with an ImportRun describing where it came from.
func (s *Service) ImportTrades(slug string, trades []ingest.Trade, source string, format ingest.Format) (models.ImportRun, error) {
	if _, err := s.Get(slug); err != nil {
		return models.ImportRun{}, err
	}

	run := models.ImportRun{
		ImportID:    uuid.NewString(),
		JournalSlug: slug,
		Source:      source,
		Format:      format.String(),
		Rows:        len(trades),
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&run).Error; err != nil {
			return err
		}
		for _, t := range trades {
			rec, err := toRecord(slug, run.ImportID, t)
			if err != nil {
				return err
			}
			if err := tx.Create(&rec).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return models.ImportRun{}, fmt.Errorf("failed to import trades into %q: %w", slug, err)
	}

	s.logger.Info("Imported trades",
		zap.String("journal", slug),
		zap.String("import_id", run.ImportID),
		zap.String("source", source),
		zap.Int("rows", run.Rows),
	)
	return run, nil
}

// Trades reloads the canonical trade table of a journal, ordered by entry
// time.
func (s *Service) Trades(slug string) ([]ingest.Trade, error) {
	var recs []models.TradeRecord
	if err := s.db.Where("journal_slug = ?", slug).Order("entry_time asc").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("failed to load trades for %q: %w", slug, err)
	}

	out := make([]ingest.Trade, 0, len(recs))
	for _, r := range recs {
		t, err := fromRecord(r)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

// Imports lists the import runs of a journal, newest first.
func (s *Service) Imports(slug string) ([]models.ImportRun, error) {
	var out []models.ImportRun
	if err := s.db.Where("journal_slug = ?", slug).Order("created_at desc").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("failed to list imports for %q: %w", slug, err)
	}
	return out, nil
}

func toRecord(slug, importID string, t ingest.Trade) (models.TradeRecord, error) {
	rec := models.TradeRecord{
		JournalSlug: slug,
		ImportID:    importID,
		TradeID:     t.TradeID,
		Symbol:      t.Symbol,
		Side:        string(t.Side),
		EntryTime:   t.EntryTime,
		ExitTime:    t.ExitTime,
		EntryPrice:  t.EntryPrice,
		ExitPrice:   t.ExitPrice,
		Qty:         t.Qty,
		Fees:        t.Fees,
		Session:     t.Session,
		Notes:       t.Notes,
		PnL:         t.PnL,
		RMultiple:   t.RMultiple,
	}
	if len(t.Extra) > 0 {
		b, err := json.Marshal(t.Extra)
		if err != nil {
			return models.TradeRecord{}, fmt.Errorf("marshal passthrough columns: %w", err)
		}
		rec.Extra = string(b)
	}
	return rec, nil
}

func fromRecord(r models.TradeRecord) (ingest.Trade, error) {
	t := ingest.Trade{
		TradeID:    r.TradeID,
		Symbol:     r.Symbol,
		Side:       ingest.Side(r.Side),
		EntryTime:  r.EntryTime,
		ExitTime:   r.ExitTime,
		EntryPrice: r.EntryPrice,
		ExitPrice:  r.ExitPrice,
		Qty:        r.Qty,
		Fees:       r.Fees,
		Session:    r.Session,
		Notes:      r.Notes,
		PnL:        r.PnL,
		RMultiple:  r.RMultiple,
	}
	if r.Extra != "" {
		if err := json.Unmarshal([]byte(r.Extra), &t.Extra); err != nil {
			return ingest.Trade{}, fmt.Errorf("unmarshal passthrough columns: %w", err)
		}
	}
	return t, nil
}
