package models

import "gorm.io/gorm"

// ChecklistTemplate is a named pre-trade checklist: graded items plus
// flat-bonus confluences.
type ChecklistTemplate struct {
	gorm.Model
	Name        string          `gorm:"uniqueIndex" json:"name"`
	Items       []ChecklistItem `gorm:"constraint:OnDelete:CASCADE" json:"items"`
	Confluences []Confluence    `gorm:"constraint:OnDelete:CASCADE" json:"confluences"`
}

// ChecklistItem is a select-one item whose options each carry a point value.
// Options is a JSON object of label -> points.
type ChecklistItem struct {
	gorm.Model
	ChecklistTemplateID uint   `gorm:"index" json:"-"`
	Name                string `json:"name"`
	Options             string `json:"options"`
	Value               string `json:"value"` // currently selected option
}

// Confluence is an on/off bonus worth a flat number of points.
type Confluence struct {
	gorm.Model
	ChecklistTemplateID uint    `gorm:"index" json:"-"`
	Name                string  `json:"name"`
	Points              float64 `json:"pts"`
	On                  bool    `json:"on"`
}

// ChecklistSubmission is a scored checklist saved against a trade.
type ChecklistSubmission struct {
	gorm.Model
	TemplateName string `gorm:"index" json:"template"`
	TradeID      string `json:"trade_id,omitempty"`
	Score        int    `json:"score"`
	Grade        string `json:"grade"`
	Notes        string `json:"notes,omitempty"`
}
