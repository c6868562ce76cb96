package pipeline

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync/atomic"
	"testing"
	"time"

	"vin-decoder/internal/catalog"
	"vin-decoder/internal/decoder"
	"vin-decoder/internal/listing"
	"vin-decoder/internal/store"
)

type fakeDecoder struct {
	decode func(ctx context.Context, vin string) (*decoder.DecodedVehicle, error)
}

func (f *fakeDecoder) Decode(ctx context.Context, vin string) (*decoder.DecodedVehicle, error) {
	return f.decode(ctx, vin)
}

type fakeCatalog struct {
	makes  []store.Make
	models map[uint][]store.Model
	trims  map[uint][]store.Trim
}

func (f *fakeCatalog) FindMakesByNameFragment(text string) ([]store.Make, error) {
	return f.makes, nil
}

func (f *fakeCatalog) FindModelsByMake(makeID uint) ([]store.Model, error) {
	return f.models[makeID], nil
}

func (f *fakeCatalog) FindTrimsByModelAndYear(modelID uint, year int) ([]store.Trim, error) {
	return f.trims[modelID], nil
}

type fakeListings struct {
	byVin map[string]*store.Listing
}

func (f *fakeListings) FindListingByVin(vin string) (*store.Listing, error) {
	return f.byVin[vin], nil
}

func accordVehicle() *decoder.DecodedVehicle {
	return &decoder.DecodedVehicle{
		Make:            "HONDA",
		Model:           "Accord",
		Year:            2003,
		Trim:            "EX",
		BodyStyle:       decoder.BodySedan,
		VehicleType:     decoder.VehicleCar,
		EngineSize:      "3.0L",
		Cylinders:       6,
		Horsepower:      240,
		FuelType:        decoder.FuelGasoline,
		Transmission:    decoder.TransmissionAutomatic,
		DriveType:       decoder.DriveFWD,
		Doors:           4,
		RawFuelType:     "Gasoline",
		RawTransmission: "Automatic",
		RawDriveType:    "FWD",
	}
}

func newTestService(dec Decoder, concurrency int) *Service {
	repo := &fakeCatalog{
		makes:  []store.Make{{ID: 1, Name: "Honda"}},
		models: map[uint][]store.Model{1: {{ID: 10, MakeID: 1, Name: "Accord"}}},
		trims: map[uint][]store.Trim{10: {
			{ID: 100, ModelID: 10, Name: "EX", Year: 2003, EngineSize: "3.0L", Horsepower: 240},
		}},
	}
	listings := &fakeListings{byVin: map[string]*store.Listing{
		"1HGCM82633A004352": {
			ID:    "abcd1234-5678-90ab-cdef-1234567890ab",
			Vin:   "1HGCM82633A004352",
			Year:  2020,
			Make:  "Honda",
			Model: "Accord",
		},
	}}
	return NewService(dec, catalog.NewMatcher(repo), listing.NewDetector(listings), concurrency)
}

func TestDecodeSmartAggregates(t *testing.T) {
	service := newTestService(&fakeDecoder{decode: func(ctx context.Context, vin string) (*decoder.DecodedVehicle, error) {
		return accordVehicle(), nil
	}}, 0)

	result, err := service.DecodeSmart(context.Background(), "1HGCM82633A004352")
	if err != nil {
		t.Fatalf("decode smart: %v", err)
	}

	if !result.ChecksumValid {
		t.Fatal("expected valid checksum")
	}
	if !result.CatalogMatch.HasMatch || result.CatalogMatch.TrimID == nil {
		t.Fatal("expected full catalog match")
	}
	if !result.Duplicate.IsDuplicate {
		t.Fatal("expected duplicate listing detected")
	}
	if result.Duplicate.ExistingSlug != "2020-honda-accord-abcd1234" {
		t.Fatalf("unexpected slug %q", result.Duplicate.ExistingSlug)
	}
	if result.FieldConfidences["make"].Confidence != 0.95 {
		t.Fatalf("expected make confidence 0.95, got %v", result.FieldConfidences["make"])
	}
	if result.Description == "" {
		t.Fatal("expected generated description")
	}
}

func TestDecodeSmartDeterministic(t *testing.T) {
	service := newTestService(&fakeDecoder{decode: func(ctx context.Context, vin string) (*decoder.DecodedVehicle, error) {
		return accordVehicle(), nil
	}}, 0)

	first, err := service.DecodeSmart(context.Background(), "1HGCM82633A004352")
	if err != nil {
		t.Fatalf("first decode: %v", err)
	}
	second, err := service.DecodeSmart(context.Background(), "1HGCM82633A004352")
	if err != nil {
		t.Fatalf("second decode: %v", err)
	}

	first.ProcessingTimeMs = 0
	second.ProcessingTimeMs = 0
	if !reflect.DeepEqual(first, second) {
		t.Fatal("decoding the same VIN twice must yield identical results")
	}
}

func TestDecodeSmartEnrichment(t *testing.T) {
	service := newTestService(&fakeDecoder{decode: func(ctx context.Context, vin string) (*decoder.DecodedVehicle, error) {
		vehicle := accordVehicle()
		vehicle.Horsepower = 0 // decoder omitted it
		return vehicle, nil
	}}, 0)

	result, err := service.DecodeSmart(context.Background(), "1HGCM82633A004352")
	if err != nil {
		t.Fatalf("decode smart: %v", err)
	}
	if result.Vehicle.Horsepower != 240 {
		t.Fatalf("expected horsepower backfilled from trim, got %d", result.Vehicle.Horsepower)
	}
	if result.FieldConfidences["horsepower"].Confidence <= 0 {
		t.Fatal("expected positive horsepower confidence after enrichment")
	}
}

func TestDecodeSmartRejectsBadFormat(t *testing.T) {
	called := false
	service := newTestService(&fakeDecoder{decode: func(ctx context.Context, vin string) (*decoder.DecodedVehicle, error) {
		called = true
		return accordVehicle(), nil
	}}, 0)

	if _, err := service.DecodeSmart(context.Background(), "BADVIN"); err == nil {
		t.Fatal("expected validation error")
	}
	if called {
		t.Fatal("external decoder must not be called for invalid input")
	}
}

func batchVins(n int) []string {
	alphabet := "0123456789ABCDEFGH"
	vins := make([]string, 0, n)
	for i := 0; i < n; i++ {
		vins = append(vins, fmt.Sprintf("111111111111111%c%c",
			alphabet[(i/len(alphabet))%len(alphabet)], alphabet[i%len(alphabet)]))
	}
	return vins
}

func TestDecodeBatchHardCap(t *testing.T) {
	service := newTestService(&fakeDecoder{decode: func(ctx context.Context, vin string) (*decoder.DecodedVehicle, error) {
		return accordVehicle(), nil
	}}, 0)

	outcome := service.DecodeBatch(context.Background(), batchVins(75), 0)
	if outcome.TotalRequested != 50 {
		t.Fatalf("expected hard cap 50, got %d", outcome.TotalRequested)
	}
	if outcome.TotalDecoded+outcome.TotalFailed != outcome.TotalRequested {
		t.Fatalf("count invariant broken: %d + %d != %d",
			outcome.TotalDecoded, outcome.TotalFailed, outcome.TotalRequested)
	}
}

func TestDecodeBatchRespectsSmallerMax(t *testing.T) {
	service := newTestService(&fakeDecoder{decode: func(ctx context.Context, vin string) (*decoder.DecodedVehicle, error) {
		return accordVehicle(), nil
	}}, 0)

	outcome := service.DecodeBatch(context.Background(), batchVins(10), 3)
	if outcome.TotalRequested != 3 {
		t.Fatalf("expected requested max 3, got %d", outcome.TotalRequested)
	}
}

func TestDecodeBatchIsolation(t *testing.T) {
	service := newTestService(&fakeDecoder{decode: func(ctx context.Context, vin string) (*decoder.DecodedVehicle, error) {
		return accordVehicle(), nil
	}}, 0)

	outcome := service.DecodeBatch(context.Background(), []string{"1HGCV1F32LA000001", "BADVIN"}, 0)
	if len(outcome.Results) != 1 {
		t.Fatalf("expected one result, got %d", len(outcome.Results))
	}
	if msg, ok := outcome.Errors["BADVIN"]; !ok || msg != "Formato de VIN inválido" {
		t.Fatalf("expected format error for BADVIN, got %q", msg)
	}
	if outcome.TotalDecoded+outcome.TotalFailed != 2 {
		t.Fatal("count invariant broken")
	}
}

func TestDecodeBatchDecoderFailureKeyedByVin(t *testing.T) {
	serviceErr := errors.New("external decoder unavailable: status 503")
	service := newTestService(&fakeDecoder{decode: func(ctx context.Context, vin string) (*decoder.DecodedVehicle, error) {
		if vin == "11111111111111111" {
			return nil, serviceErr
		}
		return accordVehicle(), nil
	}}, 0)

	outcome := service.DecodeBatch(context.Background(), []string{"11111111111111111", "1HGCM82633A004352"}, 0)
	if len(outcome.Results) != 1 {
		t.Fatalf("expected one result, got %d", len(outcome.Results))
	}
	if msg := outcome.Errors["11111111111111111"]; msg != serviceErr.Error() {
		t.Fatalf("expected decoder error keyed by VIN, got %q", msg)
	}
}

func TestDecodeBatchPanicIsolation(t *testing.T) {
	service := newTestService(&fakeDecoder{decode: func(ctx context.Context, vin string) (*decoder.DecodedVehicle, error) {
		if vin == "11111111111111111" {
			panic("exploded")
		}
		return accordVehicle(), nil
	}}, 0)

	outcome := service.DecodeBatch(context.Background(), []string{"11111111111111111", "1HGCM82633A004352"}, 0)
	if len(outcome.Results) != 1 {
		t.Fatalf("expected surviving result, got %d", len(outcome.Results))
	}
	if _, ok := outcome.Errors["11111111111111111"]; !ok {
		t.Fatal("expected panic converted into an error entry")
	}
}

func TestDecodeBatchBoundedConcurrency(t *testing.T) {
	var inFlight, peak int64
	service := newTestService(&fakeDecoder{decode: func(ctx context.Context, vin string) (*decoder.DecodedVehicle, error) {
		current := atomic.AddInt64(&inFlight, 1)
		for {
			observed := atomic.LoadInt64(&peak)
			if current <= observed || atomic.CompareAndSwapInt64(&peak, observed, current) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		atomic.AddInt64(&inFlight, -1)
		return accordVehicle(), nil
	}}, 3)

	outcome := service.DecodeBatch(context.Background(), batchVins(20), 0)
	if outcome.TotalDecoded != 20 {
		t.Fatalf("expected 20 decoded, got %d", outcome.TotalDecoded)
	}
	if got := atomic.LoadInt64(&peak); got > 3 {
		t.Fatalf("concurrency bound exceeded: peak %d", got)
	}
}

func TestDecodeBatchEmitsProgress(t *testing.T) {
	service := newTestService(&fakeDecoder{decode: func(ctx context.Context, vin string) (*decoder.DecodedVehicle, error) {
		return accordVehicle(), nil
	}}, 0)

	var events []BatchProgress
	service.SetProgress(func(event BatchProgress) {
		events = append(events, event)
	})

	service.DecodeBatch(context.Background(), batchVins(2), 0)

	if len(events) != 4 { // started, 2 items, complete
		t.Fatalf("expected 4 events, got %d", len(events))
	}
	if events[0].Type != "started" || events[len(events)-1].Type != "complete" {
		t.Fatalf("unexpected event ordering: %+v", events)
	}
}
