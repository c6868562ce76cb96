package store

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Make is a catalog manufacturer entry.
type Make struct {
	ID             uint   `gorm:"primaryKey"`
	Name           string `gorm:"size:64;index"`
	NameNormalized string `gorm:"size:64;uniqueIndex"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Model is a catalog model belonging to a make.
type Model struct {
	ID             uint   `gorm:"primaryKey"`
	MakeID         uint   `gorm:"index"`
	Name           string `gorm:"size:128;index"`
	NameNormalized string `gorm:"size:128;index"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Trim is a model-year configuration with its reference specs.
type Trim struct {
	ID             uint   `gorm:"primaryKey"`
	ModelID        uint   `gorm:"index"`
	Name           string `gorm:"size:64"`
	NameNormalized string `gorm:"size:64;index"`
	Year           int    `gorm:"index"`
	EngineSize     string `gorm:"size:16"`
	Horsepower     int
	Cylinders      int
	Price          float64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Listing is a published vehicle offer; VINs are unique across listings.
type Listing struct {
	ID        string `gorm:"primaryKey;size:36"`
	Vin       string `gorm:"size:17;uniqueIndex"`
	Year      int
	Make      string `gorm:"size:64"`
	Model     string `gorm:"size:128"`
	Price     float64
	Status    string `gorm:"size:32"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// BeforeCreate assigns a uuid identifier when none was provided.
func (l *Listing) BeforeCreate(tx *gorm.DB) error {
	if strings.TrimSpace(l.ID) == "" {
		l.ID = uuid.NewString()
	}
	l.Vin = strings.ToUpper(strings.TrimSpace(l.Vin))
	return nil
}

// NormalizeName lowercases and trims catalog names for matching.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
