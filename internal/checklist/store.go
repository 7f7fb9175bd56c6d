package checklist

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"trade-journal-go/internal/models"
)

// Store persists checklist templates and scored submissions.
type Store struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewStore creates a Store.
func NewStore(db *gorm.DB, logger *zap.Logger) *Store {
	return &Store{db: db, logger: logger}
}

// Template returns the active checklist template, seeding the built-in
// default on first use.
func (s *Store) Template() (models.ChecklistTemplate, error) {
	var tpl models.ChecklistTemplate
	err := s.db.Preload("Items").Preload("Confluences").First(&tpl).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		tpl = DefaultTemplate()
		if err := s.db.Create(&tpl).Error; err != nil {
			return models.ChecklistTemplate{}, fmt.Errorf("failed to seed checklist template: %w", err)
		}
		s.logger.Info("Seeded default checklist template", zap.String("name", tpl.Name))
		return tpl, nil
	}
	if err != nil {
		return models.ChecklistTemplate{}, fmt.Errorf("failed to load checklist template: %w", err)
	}
	return tpl, nil
}

// SaveTemplate replaces the stored template with tpl.
func (s *Store) SaveTemplate(tpl models.ChecklistTemplate) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var existing models.ChecklistTemplate
		err := tx.Where("name = ?", tpl.Name).First(&existing).Error
		if err == nil {
			if err := tx.Where("checklist_template_id = ?", existing.ID).Delete(&models.ChecklistItem{}).Error; err != nil {
				return err
			}
			if err := tx.Where("checklist_template_id = ?", existing.ID).Delete(&models.Confluence{}).Error; err != nil {
				return err
			}
			tpl.ID = existing.ID
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return tx.Save(&tpl).Error
	})
	if err != nil {
		return fmt.Errorf("failed to save checklist template %q: %w", tpl.Name, err)
	}
	return nil
}

// Submit scores the given items/confluences and persists the result.
func (s *Store) Submit(templateName, tradeID, notes string, items []models.ChecklistItem, confs []models.Confluence) (models.ChecklistSubmission, error) {
	score, grade, err := Score(items, confs)
	if err != nil {
		return models.ChecklistSubmission{}, err
	}
	sub := models.ChecklistSubmission{
		TemplateName: templateName,
		TradeID:      tradeID,
		Score:        score,
		Grade:        grade,
		Notes:        notes,
	}
	if err := s.db.Create(&sub).Error; err != nil {
		return models.ChecklistSubmission{}, fmt.Errorf("failed to save checklist submission: %w", err)
	}
	return sub, nil
}

// Submissions lists saved submissions, newest first.
func (s *Store) Submissions() ([]models.ChecklistSubmission, error) {
	var out []models.ChecklistSubmission
	if err := s.db.Order("created_at desc").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("failed to list checklist submissions: %w", err)
	}
	return out, nil
}
