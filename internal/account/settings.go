// Package account manages user-level settings: profile, per-account starting
// equity, journal groups and dashboard defaults.
package account

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"trade-journal-go/internal/models"
)

const settingsKey = "account_settings"

// DefaultAccountKey selects the starting equity used for accounts without an
// explicit entry.
const DefaultAccountKey = "__default__"

// Profile is the stored user profile. The password is kept as a sha256 hash.
type Profile struct {
	Username     string     `json:"username"`
	PasswordHash string     `json:"password_hash"`
	CreatedAt    *time.Time `json:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at"`
}

// Defaults are the dashboard's initial selections.
type Defaults struct {
	Timeframe   string `json:"timeframe"`
	Account     string `json:"account"`
	JournalView string `json:"journal_view"`
}

// Settings is the full settings document.
type Settings struct {
	Profile        Profile             `json:"profile"`
	StartingEquity map[string]float64  `json:"starting_equity"`
	JournalGroups  map[string][]string `json:"journal_groups"`
	Defaults       Defaults            `json:"defaults"`
}

// DefaultSettings returns the baseline settings document.
func DefaultSettings() Settings {
	return Settings{
		StartingEquity: map[string]float64{DefaultAccountKey: 5000.0},
		JournalGroups:  map[string][]string{},
		Defaults: Defaults{
			Timeframe:   "All Dates",
			Account:     "ALL",
			JournalView: "Styled",
		},
	}
}

// StartEquityFor returns the starting equity for an account, falling back to
// the default entry.
func (s Settings) StartEquityFor(account string) float64 {
	if v, ok := s.StartingEquity[account]; ok {
		return v
	}
	return s.StartingEquity[DefaultAccountKey]
}

// Service loads and saves the settings document.
type Service struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewService creates a settings Service.
func NewService(db *gorm.DB, logger *zap.Logger) *Service {
	return &Service{db: db, logger: logger}
}

// Load returns the stored settings merged over the defaults, so documents
// written by older versions pick up newly introduced fields.
func (s *Service) Load() (Settings, error) {
	out := DefaultSettings()

	var row models.Setting
	err := s.db.Where("key = ?", settingsKey).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return out, nil
	}
	if err != nil {
		return Settings{}, fmt.Errorf("failed to load settings: %w", err)
	}

	if err := json.Unmarshal([]byte(row.Value), &out); err != nil {
		return Settings{}, fmt.Errorf("failed to decode settings: %w", err)
	}
	return out, nil
}

// Save persists the settings document, stamping the profile's updated time.
func (s *Service) Save(settings Settings) error {
	now := time.Now().UTC()
	settings.Profile.UpdatedAt = &now
	if settings.Profile.CreatedAt == nil {
		settings.Profile.CreatedAt = &now
	}

	b, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}

	row := models.Setting{Key: settingsKey}
	if err := s.db.Where(models.Setting{Key: settingsKey}).Assign(models.Setting{Value: string(b)}).FirstOrCreate(&row).Error; err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	// FirstOrCreate with Assign updates on conflict, but make sure the
	// value landed when the row already existed
	if row.Value != string(b) {
		row.Value = string(b)
		if err := s.db.Save(&row).Error; err != nil {
			return fmt.Errorf("failed to save settings: %w", err)
		}
	}

	s.logger.Debug("Saved account settings")
	return nil
}

// HashPassword returns the sha256 hex digest used for the stored password.
func HashPassword(pw string) string {
	sum := sha256.Sum256([]byte(pw))
	return hex.EncodeToString(sum[:])
}

// CheckPassword verifies a password against the stored hash.
func (s Settings) CheckPassword(pw string) bool {
	return s.Profile.PasswordHash != "" && s.Profile.PasswordHash == HashPassword(pw)
}
