package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// CatalogSeed is the JSON fixture format consumed by cmd/seed.
type CatalogSeed struct {
	Makes    []SeedMake    `json:"makes"`
	Listings []SeedListing `json:"listings"`
}

// SeedMake nests a make with its models and trims.
type SeedMake struct {
	Name   string      `json:"name"`
	Models []SeedModel `json:"models"`
}

// SeedModel nests a model with its trims.
type SeedModel struct {
	Name  string     `json:"name"`
	Trims []SeedTrim `json:"trims"`
}

// SeedTrim carries the reference specs used for enrichment.
type SeedTrim struct {
	Name       string  `json:"name"`
	Year       int     `json:"year"`
	EngineSize string  `json:"engineSize"`
	Horsepower int     `json:"horsepower"`
	Cylinders  int     `json:"cylinders"`
	Price      float64 `json:"price"`
}

// SeedListing is a pre-existing listing row for duplicate detection.
type SeedListing struct {
	ID    string  `json:"id"`
	Vin   string  `json:"vin"`
	Year  int     `json:"year"`
	Make  string  `json:"make"`
	Model string  `json:"model"`
	Price float64 `json:"price"`
}

// ApplySeedFile loads a JSON fixture and applies it to the database,
// returning the number of catalog rows written.
func (d *Database) ApplySeedFile(path string) (int, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return 0, fmt.Errorf("read seed: %w", err)
	}
	var seed CatalogSeed
	if err := json.Unmarshal(data, &seed); err != nil {
		return 0, fmt.Errorf("unmarshal seed: %w", err)
	}
	return d.ApplySeed(seed)
}

// ApplySeed writes the fixture contents through the repository helpers.
func (d *Database) ApplySeed(seed CatalogSeed) (int, error) {
	written := 0
	for _, seedMake := range seed.Makes {
		makeRow := Make{Name: seedMake.Name}
		if err := d.UpsertMake(&makeRow); err != nil {
			return written, fmt.Errorf("seed make %s: %w", seedMake.Name, err)
		}
		written++
		for _, seedModel := range seedMake.Models {
			modelRow := Model{MakeID: makeRow.ID, Name: seedModel.Name}
			if err := d.SaveModel(&modelRow); err != nil {
				return written, fmt.Errorf("seed model %s: %w", seedModel.Name, err)
			}
			written++
			for _, seedTrim := range seedModel.Trims {
				trimRow := Trim{
					ModelID:    modelRow.ID,
					Name:       seedTrim.Name,
					Year:       seedTrim.Year,
					EngineSize: seedTrim.EngineSize,
					Horsepower: seedTrim.Horsepower,
					Cylinders:  seedTrim.Cylinders,
					Price:      seedTrim.Price,
				}
				if err := d.SaveTrim(&trimRow); err != nil {
					return written, fmt.Errorf("seed trim %s: %w", seedTrim.Name, err)
				}
				written++
			}
		}
	}

	for _, seedListing := range seed.Listings {
		listing := Listing{
			ID:    seedListing.ID,
			Vin:   seedListing.Vin,
			Year:  seedListing.Year,
			Make:  seedListing.Make,
			Model: seedListing.Model,
			Price: seedListing.Price,
		}
		if err := d.SaveListing(&listing); err != nil {
			return written, fmt.Errorf("seed listing %s: %w", seedListing.Vin, err)
		}
		written++
	}

	logrus.WithField("rows", written).Info("catalog seed applied")
	return written, nil
}
