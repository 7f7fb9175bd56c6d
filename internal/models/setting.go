package models

import "gorm.io/gorm"

// Setting is a single account-settings entry. Value holds JSON so nested
// structures (per-account equity maps, journal groups) round-trip unchanged.
type Setting struct {
	gorm.Model
	Key   string `gorm:"uniqueIndex" json:"key"`
	Value string `json:"value"`
}
