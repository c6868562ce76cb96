package catalog

import (
	"errors"
	"testing"

	"vin-decoder/internal/decoder"
	"vin-decoder/internal/store"
)

type fakeRepo struct {
	makes  []store.Make
	models map[uint][]store.Model
	trims  map[uint][]store.Trim
	fail   bool
}

func (f *fakeRepo) FindMakesByNameFragment(text string) ([]store.Make, error) {
	if f.fail {
		return nil, errors.New("boom")
	}
	return f.makes, nil
}

func (f *fakeRepo) FindModelsByMake(makeID uint) ([]store.Model, error) {
	return f.models[makeID], nil
}

func (f *fakeRepo) FindTrimsByModelAndYear(modelID uint, year int) ([]store.Trim, error) {
	return f.trims[modelID], nil
}

func hondaRepo() *fakeRepo {
	return &fakeRepo{
		makes: []store.Make{{ID: 1, Name: "Honda"}, {ID: 2, Name: "Hyundai"}},
		models: map[uint][]store.Model{
			1: {{ID: 10, MakeID: 1, Name: "Accord"}, {ID: 11, MakeID: 1, Name: "Civic"}},
		},
		trims: map[uint][]store.Trim{
			10: {
				{ID: 100, ModelID: 10, Name: "EX", Year: 2003, EngineSize: "3.0L", Horsepower: 240, Cylinders: 6},
				{ID: 101, ModelID: 10, Name: "LX", Year: 2003, EngineSize: "2.4L", Horsepower: 160},
			},
		},
	}
}

func TestResolveFullChain(t *testing.T) {
	matcher := NewMatcher(hondaRepo())
	vehicle := &decoder.DecodedVehicle{Make: "HONDA", Model: "Accord", Year: 2003, Trim: "EX"}

	match := matcher.Resolve(vehicle)
	if !match.HasMatch {
		t.Fatal("expected catalog match")
	}
	if match.MakeID == nil || *match.MakeID != 1 {
		t.Fatalf("expected make id 1, got %v", match.MakeID)
	}
	if match.ModelID == nil || *match.ModelID != 10 {
		t.Fatalf("expected model id 10, got %v", match.ModelID)
	}
	if match.TrimID == nil || *match.TrimID != 100 {
		t.Fatalf("expected trim id 100, got %v", match.TrimID)
	}
}

func TestResolveMakeOnly(t *testing.T) {
	matcher := NewMatcher(hondaRepo())
	vehicle := &decoder.DecodedVehicle{Make: "Honda", Model: "Odyssey"}

	match := matcher.Resolve(vehicle)
	if !match.HasMatch {
		t.Fatal("a make match alone should set HasMatch")
	}
	if match.ModelID != nil || match.TrimID != nil {
		t.Fatal("expected no model/trim identifiers")
	}
}

func TestResolveContainment(t *testing.T) {
	matcher := NewMatcher(hondaRepo())

	// decoded name contains the catalog name
	vehicle := &decoder.DecodedVehicle{Make: "Honda Motor Company", Model: "Accord Sedan"}
	match := matcher.Resolve(vehicle)
	if !match.HasMatch || match.ModelID == nil {
		t.Fatal("containment in either direction should match")
	}
}

func TestResolveFirstMatchWins(t *testing.T) {
	repo := hondaRepo()
	repo.makes = []store.Make{{ID: 7, Name: "Hon"}, {ID: 1, Name: "Honda"}}
	matcher := NewMatcher(repo)

	match := matcher.Resolve(&decoder.DecodedVehicle{Make: "Honda"})
	if match.MakeID == nil || *match.MakeID != 7 {
		t.Fatalf("expected first acceptable match (id 7), got %v", match.MakeID)
	}
}

func TestResolveSkipsTrimWithoutYear(t *testing.T) {
	matcher := NewMatcher(hondaRepo())
	vehicle := &decoder.DecodedVehicle{Make: "Honda", Model: "Accord", Trim: "EX"}

	match := matcher.Resolve(vehicle)
	if match.TrimID != nil {
		t.Fatal("trim matching requires a decoded year")
	}
}

func TestResolveEnrichment(t *testing.T) {
	matcher := NewMatcher(hondaRepo())
	vehicle := &decoder.DecodedVehicle{Make: "Honda", Model: "Accord", Year: 2003, Trim: "LX"}

	matcher.Resolve(vehicle)
	if vehicle.Horsepower != 160 {
		t.Fatalf("expected horsepower backfilled to 160, got %d", vehicle.Horsepower)
	}
	if vehicle.EngineSize != "2.4L" {
		t.Fatalf("expected engine size backfilled, got %q", vehicle.EngineSize)
	}
}

func TestResolveDoesNotOverrideDecoder(t *testing.T) {
	matcher := NewMatcher(hondaRepo())
	vehicle := &decoder.DecodedVehicle{Make: "Honda", Model: "Accord", Year: 2003, Trim: "EX", Horsepower: 200, EngineSize: "3.5L"}

	matcher.Resolve(vehicle)
	if vehicle.Horsepower != 200 || vehicle.EngineSize != "3.5L" {
		t.Fatal("decoder-provided specs must not be overridden")
	}
}

func TestResolveNoMakeDecoded(t *testing.T) {
	matcher := NewMatcher(hondaRepo())
	if match := matcher.Resolve(&decoder.DecodedVehicle{}); match.HasMatch {
		t.Fatal("no decoded make should yield no match")
	}
}

func TestResolveRepositoryFailureDegradesToMiss(t *testing.T) {
	matcher := NewMatcher(&fakeRepo{fail: true})
	if match := matcher.Resolve(&decoder.DecodedVehicle{Make: "Honda"}); match.HasMatch {
		t.Fatal("repository failure should degrade to a miss")
	}
}
