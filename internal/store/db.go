package store

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// Database wraps the GORM DB handle and exposes repository helpers.
type Database struct {
	gorm *gorm.DB
	mu   sync.Mutex
}

// Open initializes the SQLite-backed database at the provided path.
func Open(path string, silent bool) (*Database, error) {
	cfg := &gorm.Config{}
	if silent {
		cfg.Logger = logger.Default.LogMode(logger.Silent)
	}
	db, err := gorm.Open(sqlite.Open(path), cfg)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.AutoMigrate(&Make{}, &Model{}, &Trim{}, &Listing{}); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}
	if err := db.Exec("PRAGMA journal_mode=WAL").Error; err != nil {
		logrus.WithError(err).Warn("enable WAL mode")
	}
	if err := db.Exec("PRAGMA synchronous=NORMAL").Error; err != nil {
		logrus.WithError(err).Warn("set synchronous pragma")
	}
	return &Database{gorm: db}, nil
}

// GORM exposes the raw gorm.DB handle.
func (d *Database) GORM() *gorm.DB {
	return d.gorm
}

// Close closes the underlying database connection.
func (d *Database) Close() error {
	if d == nil {
		return nil
	}
	sqlDB, err := d.gorm.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// FindMakesByNameFragment returns makes whose name contains or is contained
// by the fragment, in insertion order so first-match resolution is stable.
func (d *Database) FindMakesByNameFragment(text string) ([]Make, error) {
	fragment := NormalizeName(text)
	if fragment == "" {
		return nil, nil
	}
	var makes []Make
	err := d.gorm.
		Where("name_normalized LIKE ? OR ? LIKE '%' || name_normalized || '%'", "%"+fragment+"%", fragment).
		Order("id ASC").
		Find(&makes).Error
	if err != nil {
		return nil, fmt.Errorf("find makes: %w", err)
	}
	return makes, nil
}

// FindModelsByMake returns every model registered under the make.
func (d *Database) FindModelsByMake(makeID uint) ([]Model, error) {
	var models []Model
	if err := d.gorm.Where("make_id = ?", makeID).Order("id ASC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("find models: %w", err)
	}
	return models, nil
}

// FindTrimsByModelAndYear returns the trims offered for a model year.
func (d *Database) FindTrimsByModelAndYear(modelID uint, year int) ([]Trim, error) {
	var trims []Trim
	if err := d.gorm.Where("model_id = ? AND year = ?", modelID, year).Order("id ASC").Find(&trims).Error; err != nil {
		return nil, fmt.Errorf("find trims: %w", err)
	}
	return trims, nil
}

// FindListingByVin looks up a listing by normalized VIN. A missing listing is
// not an error.
func (d *Database) FindListingByVin(vin string) (*Listing, error) {
	normalized := strings.ToUpper(strings.TrimSpace(vin))
	if normalized == "" {
		return nil, nil
	}
	var listing Listing
	err := d.gorm.Where("vin = ?", normalized).First(&listing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find listing: %w", err)
	}
	return &listing, nil
}

// ListMakes returns the full make catalog ordered by name.
func (d *Database) ListMakes() ([]Make, error) {
	var makes []Make
	if err := d.gorm.Order("name ASC").Find(&makes).Error; err != nil {
		return nil, fmt.Errorf("list makes: %w", err)
	}
	return makes, nil
}

// UpsertMake inserts or refreshes a make keyed by normalized name.
func (d *Database) UpsertMake(m *Make) error {
	if m == nil {
		return errors.New("make is nil")
	}
	m.NameNormalized = NormalizeName(m.Name)
	d.mu.Lock()
	defer d.mu.Unlock()
	err := d.gorm.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name_normalized"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "updated_at"}),
	}).Create(m).Error
	if err != nil {
		return err
	}
	if m.ID == 0 {
		// conflict path does not report the surviving row id
		var existing Make
		if err := d.gorm.Where("name_normalized = ?", m.NameNormalized).First(&existing).Error; err == nil {
			m.ID = existing.ID
		}
	}
	return nil
}

// SaveModel persists a catalog model.
func (d *Database) SaveModel(m *Model) error {
	if m == nil {
		return errors.New("model is nil")
	}
	m.NameNormalized = NormalizeName(m.Name)
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.gorm.Create(m).Error
}

// SaveTrim persists a catalog trim.
func (d *Database) SaveTrim(t *Trim) error {
	if t == nil {
		return errors.New("trim is nil")
	}
	t.NameNormalized = NormalizeName(t.Name)
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.gorm.Create(t).Error
}

// SaveListing inserts or refreshes a listing keyed by VIN.
func (d *Database) SaveListing(l *Listing) error {
	if l == nil {
		return errors.New("listing is nil")
	}
	l.Vin = strings.ToUpper(strings.TrimSpace(l.Vin))
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.gorm.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "vin"}},
		DoUpdates: clause.AssignmentColumns([]string{"year", "make", "model", "price", "status", "updated_at"}),
	}).Create(l).Error
}
