package decoder

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// ErrExternalService marks failures of the external decoding service:
// unreachable, non-success status, or an empty result set. Never retried.
var ErrExternalService = errors.New("external decoder unavailable")

// Config drives decoder client behaviour.
type Config struct {
	BaseURL  string
	Timeout  time.Duration
	CacheTTL time.Duration
}

// Client calls the vPIC-style decoding service with a bounded timeout and a
// per-VIN TTL cache.
type Client struct {
	httpClient *http.Client
	baseURL    string
	cacheTTL   time.Duration
	cache      sync.Map // map[string]cacheEntry
}

type cacheEntry struct {
	at      time.Time
	vehicle DecodedVehicle
}

// NewClient constructs a decoder client, filling config defaults.
func NewClient(cfg Config) *Client {
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = "https://vpic.nhtsa.dot.gov/api/vehicles/DecodeVinValues"
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		cacheTTL:   ttl,
	}
}

// Decode fetches and normalizes the decoder record for the supplied VIN.
func (c *Client) Decode(ctx context.Context, vin string) (*DecodedVehicle, error) {
	if c == nil {
		return nil, errors.New("decoder client is nil")
	}

	key := strings.ToUpper(strings.TrimSpace(vin))
	if key == "" {
		return nil, fmt.Errorf("%w: empty vin", ErrExternalService)
	}

	if entry, ok := c.cache.Load(key); ok {
		cached := entry.(cacheEntry)
		if time.Since(cached.at) < c.cacheTTL {
			vehicle := cached.vehicle
			return &vehicle, nil
		}
		c.cache.Delete(key)
	}

	vehicle, err := c.performRequest(ctx, key)
	if err != nil {
		return nil, err
	}

	c.cache.Store(key, cacheEntry{at: time.Now(), vehicle: *vehicle})
	return vehicle, nil
}

func (c *Client) performRequest(ctx context.Context, vin string) (*DecodedVehicle, error) {
	endpoint := fmt.Sprintf("%s/%s?format=json", c.baseURL, vin)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExternalService, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExternalService, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrExternalService, resp.StatusCode)
	}

	var payload decodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrExternalService, err)
	}
	if len(payload.Results) == 0 {
		return nil, fmt.Errorf("%w: empty result set for %s", ErrExternalService, vin)
	}

	record := payload.Results[0]
	vehicle := normalizeRecord(record)

	// Non-zero error codes with otherwise-usable fields are advisory only.
	if code := strings.TrimSpace(record.ErrorCode); code != "" && code != "0" {
		logrus.WithFields(logrus.Fields{
			"vin":        vin,
			"error_code": code,
		}).Warn("decoder returned advisory error code")
	}

	return vehicle, nil
}

func normalizeRecord(record decodeRecord) *DecodedVehicle {
	engineSize := strings.TrimSpace(record.DisplacementL)
	if engineSize != "" && !strings.HasSuffix(strings.ToUpper(engineSize), "L") {
		engineSize += "L"
	}

	return &DecodedVehicle{
		Make:         strings.TrimSpace(record.Make),
		Model:        strings.TrimSpace(record.Model),
		Year:         parseIntField(record.ModelYear),
		Trim:         strings.TrimSpace(record.Trim),
		BodyStyle:    ParseBodyStyle(record.BodyClass),
		VehicleType:  ParseVehicleType(record.VehicleType),
		EngineSize:   engineSize,
		Cylinders:    parseIntField(record.EngineCylinders),
		Horsepower:   parseIntField(record.EngineHP),
		FuelType:     ParseFuelType(record.FuelTypePrimary),
		Transmission: ParseTransmission(record.TransmissionStyle),
		DriveType:    ParseDriveType(record.DriveType),
		Doors:        parseIntField(record.Doors),
		PlantCity:    strings.TrimSpace(record.PlantCity),
		PlantCountry: strings.TrimSpace(record.PlantCountry),
		Manufacturer: strings.TrimSpace(record.Manufacturer),
		ErrorCode:    strings.TrimSpace(record.ErrorCode),
		ErrorText:    strings.TrimSpace(record.ErrorText),

		RawFuelType:     strings.TrimSpace(record.FuelTypePrimary),
		RawTransmission: strings.TrimSpace(record.TransmissionStyle),
		RawDriveType:    strings.TrimSpace(record.DriveType),
	}
}

type decodeResponse struct {
	Count   int            `json:"Count"`
	Results []decodeRecord `json:"Results"`
}

type decodeRecord struct {
	Make              string `json:"Make"`
	Model             string `json:"Model"`
	ModelYear         string `json:"ModelYear"`
	Trim              string `json:"Trim"`
	BodyClass         string `json:"BodyClass"`
	VehicleType       string `json:"VehicleType"`
	DisplacementL     string `json:"DisplacementL"`
	EngineCylinders   string `json:"EngineCylinders"`
	EngineHP          string `json:"EngineHP"`
	FuelTypePrimary   string `json:"FuelTypePrimary"`
	TransmissionStyle string `json:"TransmissionStyle"`
	DriveType         string `json:"DriveType"`
	Doors             string `json:"Doors"`
	PlantCity         string `json:"PlantCity"`
	PlantCountry      string `json:"PlantCountry"`
	Manufacturer      string `json:"Manufacturer"`
	ErrorCode         string `json:"ErrorCode"`
	ErrorText         string `json:"ErrorText"`
}
