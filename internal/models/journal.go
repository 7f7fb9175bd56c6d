package models

import "gorm.io/gorm"

// Journal is a named collection of imported trades, identified by a slug.
type Journal struct {
	gorm.Model
	Slug string `gorm:"uniqueIndex" json:"id"`
	Name string `json:"name"`
}

// ImportRun records one import action against a journal: where the file came
// from, what format was detected and how many rows it produced.
type ImportRun struct {
	gorm.Model
	ImportID    string `gorm:"uniqueIndex" json:"import_id"`
	JournalSlug string `gorm:"index" json:"journal"`
	Source      string `json:"source"` // file name or URL
	Format      string `json:"format"` // "native" or "paired-rows"
	Rows        int    `json:"rows"`
}
