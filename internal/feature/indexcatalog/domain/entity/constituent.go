// Package entity defines the index catalog domain types.
package entity

import "time"

// UsStocksAlias is the snake_case spelling accepted for the usStocks index.
const UsStocksAlias = "us_stocks"

// Constituent is one member of a market index.
type Constituent struct {
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
}

// IndexConstituent is the persisted form of a Constituent.
type IndexConstituent struct {
	ID        uint      `gorm:"primaryKey"`
	IndexName string    `gorm:"size:64;not null;uniqueIndex:idx_index_symbol"`
	Symbol    string    `gorm:"size:32;not null;uniqueIndex:idx_index_symbol"`
	Name      string    `gorm:"size:255"`
	SortKey   int       `gorm:"not null;default:0"`
	IsActive  bool      `gorm:"not null;default:true"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (IndexConstituent) TableName() string {
	return "index_constituents"
}

// CanonicalIndexName maps accepted aliases onto the catalog's own index names.
func CanonicalIndexName(name string) string {
	if name == UsStocksAlias {
		return "usStocks"
	}
	return name
}
