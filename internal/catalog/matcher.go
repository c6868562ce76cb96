package catalog

import (
	"strings"

	"github.com/sirupsen/logrus"

	"vin-decoder/internal/decoder"
	"vin-decoder/internal/store"
)

// Repository is the read-only catalog surface the matcher consumes.
type Repository interface {
	FindMakesByNameFragment(text string) ([]store.Make, error)
	FindModelsByMake(makeID uint) ([]store.Model, error)
	FindTrimsByModelAndYear(modelID uint, year int) ([]store.Trim, error)
}

// Match carries the opportunistically resolved catalog identifiers. A make
// match does not require a model match, nor a model match a trim match.
type Match struct {
	MakeID   *uint
	ModelID  *uint
	TrimID   *uint
	HasMatch bool
}

// Matcher fuzzy-resolves decoded make/model/trim names against the catalog.
// Resolution is first-match-wins at every tier: candidates are not ranked by
// edit distance or popularity.
type Matcher struct {
	repo Repository
}

// NewMatcher constructs a catalog matcher.
func NewMatcher(repo Repository) *Matcher {
	return &Matcher{repo: repo}
}

// Resolve matches the decoded vehicle against the catalog and backfills
// horsepower and engine size from a matched trim when the decoder left them
// empty. Repository failures degrade to a miss; they never fail the decode.
func (m *Matcher) Resolve(vehicle *decoder.DecodedVehicle) Match {
	result := Match{}
	if m == nil || m.repo == nil || vehicle == nil {
		return result
	}
	if strings.TrimSpace(vehicle.Make) == "" {
		return result
	}

	makes, err := m.repo.FindMakesByNameFragment(vehicle.Make)
	if err != nil {
		logrus.WithError(err).WithField("make", vehicle.Make).Warn("catalog make lookup failed")
		return result
	}
	makeRow, ok := firstMakeMatch(makes, vehicle.Make)
	if !ok {
		return result
	}
	result.MakeID = &makeRow.ID
	result.HasMatch = true

	models, err := m.repo.FindModelsByMake(makeRow.ID)
	if err != nil {
		logrus.WithError(err).WithField("make_id", makeRow.ID).Warn("catalog model lookup failed")
		return result
	}
	modelRow, ok := firstModelMatch(models, vehicle.Model)
	if !ok {
		return result
	}
	result.ModelID = &modelRow.ID

	if vehicle.Year == 0 || strings.TrimSpace(vehicle.Trim) == "" {
		return result
	}

	trims, err := m.repo.FindTrimsByModelAndYear(modelRow.ID, vehicle.Year)
	if err != nil {
		logrus.WithError(err).WithField("model_id", modelRow.ID).Warn("catalog trim lookup failed")
		return result
	}
	trimRow, ok := firstTrimMatch(trims, vehicle.Trim)
	if !ok {
		return result
	}
	result.TrimID = &trimRow.ID

	// the only point where catalog data overrides decoder data
	if vehicle.Horsepower == 0 && trimRow.Horsepower > 0 {
		vehicle.Horsepower = trimRow.Horsepower
	}
	if vehicle.EngineSize == "" && trimRow.EngineSize != "" {
		vehicle.EngineSize = trimRow.EngineSize
	}

	return result
}

// namesOverlap applies the containment rule: equal, contains, or contained
// by, case-insensitive.
func namesOverlap(catalogName, decodedName string) bool {
	a := strings.ToLower(strings.TrimSpace(catalogName))
	b := strings.ToLower(strings.TrimSpace(decodedName))
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}

func firstMakeMatch(makes []store.Make, decoded string) (store.Make, bool) {
	for _, row := range makes {
		if namesOverlap(row.Name, decoded) {
			return row, true
		}
	}
	return store.Make{}, false
}

func firstModelMatch(models []store.Model, decoded string) (store.Model, bool) {
	if strings.TrimSpace(decoded) == "" {
		return store.Model{}, false
	}
	for _, row := range models {
		if namesOverlap(row.Name, decoded) {
			return row, true
		}
	}
	return store.Model{}, false
}

func firstTrimMatch(trims []store.Trim, decoded string) (store.Trim, bool) {
	for _, row := range trims {
		if namesOverlap(row.Name, decoded) {
			return row, true
		}
	}
	return store.Trim{}, false
}
