package vin

import (
	"errors"
	"testing"
)

func TestParseRejectsBadFormat(t *testing.T) {
	testCases := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"too short", "1HGCM82633A00435"},
		{"too long", "1HGCM82633A0043522"},
		{"contains I", "1HGCM82633A00435I"},
		{"contains O", "1HGCM82633A0O4352"},
		{"contains Q", "QHGCM82633A004352"},
		{"punctuation", "1HGCM-2633A004352"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Parse(tc.input); err == nil {
				t.Fatalf("expected error for %q", tc.input)
			} else {
				var verr *ValidationError
				if !errors.As(err, &verr) {
					t.Fatalf("expected ValidationError, got %T", err)
				}
				if verr.Code != ErrBadFormat {
					t.Fatalf("expected code %s got %s", ErrBadFormat, verr.Code)
				}
			}
		})
	}
}

func TestParseNormalizes(t *testing.T) {
	v, err := Parse("  1hgcm82633a004352 ")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if v.String() != "1HGCM82633A004352" {
		t.Fatalf("expected normalized VIN, got %q", v.String())
	}
}

func TestChecksum(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		valid bool
	}{
		{"known good honda", "1HGCM82633A004352", true},
		{"all ones", "11111111111111111", true},
		{"mutated check digit", "1HGCM82643A004352", false},
		{"check digit X mismatch", "1HGCM826X3A004352", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			v, err := Parse(tc.input)
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			if got := v.ChecksumValid(); got != tc.valid {
				t.Fatalf("expected checksum %v got %v", tc.valid, got)
			}
		})
	}
}

func TestIsWellFormed(t *testing.T) {
	if !IsWellFormed("1hgcm82633a004352") {
		t.Fatal("lowercase VIN should be well formed after normalization")
	}
	if IsWellFormed("BADVIN") {
		t.Fatal("short string should not be well formed")
	}
}
