package listing

import (
	"errors"
	"testing"

	"vin-decoder/internal/store"
)

type fakeFinder struct {
	listing *store.Listing
	err     error
}

func (f *fakeFinder) FindListingByVin(vin string) (*store.Listing, error) {
	return f.listing, f.err
}

func TestSlug(t *testing.T) {
	testCases := []struct {
		name   string
		year   int
		mk     string
		model  string
		id     string
		expect string
	}{
		{
			"plain",
			2020, "Honda", "Accord",
			"abcd1234-5678-90ab-cdef-1234567890ab",
			"2020-honda-accord-abcd1234",
		},
		{
			"spaces in make and model",
			2021, "Land Rover", "Range Rover Sport",
			"deadbeef-0000-0000-0000-000000000000",
			"2021-land-rover-range-rover-sport-deadbeef",
		},
		{
			"double dashes collapsed",
			2019, "Alfa  Romeo", "Giulia",
			"cafe0123-0000-0000-0000-000000000000",
			"2019-alfa-romeo-giulia-cafe0123",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Slug(tc.year, tc.mk, tc.model, tc.id); got != tc.expect {
				t.Fatalf("expected slug %q got %q", tc.expect, got)
			}
		})
	}
}

func TestCheckDuplicate(t *testing.T) {
	detector := NewDetector(&fakeFinder{listing: &store.Listing{
		ID:    "abcd1234-5678-90ab-cdef-1234567890ab",
		Vin:   "1HGCM82633A004352",
		Year:  2020,
		Make:  "Honda",
		Model: "Accord",
	}})

	info := detector.Check("1HGCM82633A004352")
	if !info.IsDuplicate {
		t.Fatal("expected duplicate")
	}
	if info.ExistingSlug != "2020-honda-accord-abcd1234" {
		t.Fatalf("unexpected slug %q", info.ExistingSlug)
	}
	if info.ExistingVehicleID != "abcd1234-5678-90ab-cdef-1234567890ab" {
		t.Fatalf("unexpected vehicle id %q", info.ExistingVehicleID)
	}
}

func TestCheckNoListing(t *testing.T) {
	detector := NewDetector(&fakeFinder{})
	if info := detector.Check("11111111111111111"); info.IsDuplicate {
		t.Fatal("expected no duplicate")
	}
}

func TestCheckLookupFailureDegrades(t *testing.T) {
	detector := NewDetector(&fakeFinder{err: errors.New("db down")})
	if info := detector.Check("11111111111111111"); info.IsDuplicate {
		t.Fatal("lookup failure must degrade to non-duplicate")
	}
}
