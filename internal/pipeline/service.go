package pipeline

import (
	"context"

	"github.com/sirupsen/logrus"

	"vin-decoder/internal/catalog"
	"vin-decoder/internal/confidence"
	"vin-decoder/internal/decoder"
	"vin-decoder/internal/describe"
	"vin-decoder/internal/listing"
	"vin-decoder/internal/util"
	"vin-decoder/internal/vin"
)

// Decoder abstracts the external decoding service.
type Decoder interface {
	Decode(ctx context.Context, vin string) (*decoder.DecodedVehicle, error)
}

// Result aggregates everything a single smart decode produces.
type Result struct {
	Vin              vin.Vin
	ChecksumValid    bool
	Vehicle          *decoder.DecodedVehicle
	CatalogMatch     catalog.Match
	Duplicate        listing.DuplicateInfo
	FieldConfidences map[string]confidence.FieldConfidence
	Description      string
	ProcessingTimeMs int64
}

// Service runs the decode-and-reconcile pipeline.
type Service struct {
	decoder     Decoder
	matcher     *catalog.Matcher
	duplicates  *listing.Detector
	concurrency int
	progress    ProgressFunc
}

// NewService wires the pipeline collaborators. Concurrency bounds batch
// processing; values below 1 fall back to the default.
func NewService(dec Decoder, matcher *catalog.Matcher, duplicates *listing.Detector, concurrency int) *Service {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	return &Service{
		decoder:     dec,
		matcher:     matcher,
		duplicates:  duplicates,
		concurrency: concurrency,
	}
}

// SetProgress installs an observer for batch progress events.
func (s *Service) SetProgress(fn ProgressFunc) {
	s.progress = fn
}

// Decode validates the VIN and returns the normalized decoder record without
// catalog reconciliation. Used by the plain decode endpoint.
func (s *Service) Decode(ctx context.Context, raw string) (vin.Vin, *decoder.DecodedVehicle, error) {
	v, err := vin.Parse(raw)
	if err != nil {
		return vin.Vin{}, nil, err
	}
	vehicle, err := s.decoder.Decode(ctx, v.String())
	if err != nil {
		return v, nil, err
	}
	return v, vehicle, nil
}

// DecodeSmart runs the full pipeline for one VIN: validate, decode,
// reconcile against the catalog, score confidence, detect duplicates and
// generate the listing description.
func (s *Service) DecodeSmart(ctx context.Context, raw string) (*Result, error) {
	v, err := vin.Parse(raw)
	if err != nil {
		return nil, err
	}

	checksumValid := v.ChecksumValid()
	if !checksumValid {
		// legitimate older and foreign VINs fail the check digit
		logrus.WithField("vin", v.String()).Warn("VIN check digit mismatch")
	}

	timer := util.StartTimer()
	vehicle, err := s.decoder.Decode(ctx, v.String())
	if err != nil {
		return nil, err
	}

	match := s.matcher.Resolve(vehicle)
	duplicate := s.duplicates.Check(v.String())
	fields := confidence.Score(vehicle)
	description := describe.Summary(vehicle)

	return &Result{
		Vin:              v,
		ChecksumValid:    checksumValid,
		Vehicle:          vehicle,
		CatalogMatch:     match,
		Duplicate:        duplicate,
		FieldConfidences: fields,
		Description:      description,
		ProcessingTimeMs: timer.ElapsedMs(),
	}, nil
}
