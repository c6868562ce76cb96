package api

import (
	"vin-decoder/internal/confidence"
	"vin-decoder/internal/decoder"
	"vin-decoder/internal/describe"
	"vin-decoder/internal/pipeline"
)

// SuggestedDataDTO carries listing-form prefill values.
type SuggestedDataDTO struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// DecodeDTO is the flat response of the plain decode endpoint.
type DecodeDTO struct {
	Vin           string           `json:"vin"`
	IsValid       bool             `json:"isValid"`
	Make          string           `json:"make"`
	Model         string           `json:"model"`
	Year          int              `json:"year"`
	Trim          string           `json:"trim,omitempty"`
	VehicleType   string           `json:"vehicleType"`
	BodyStyle     string           `json:"bodyStyle"`
	Doors         int              `json:"doors,omitempty"`
	EngineSize    string           `json:"engineSize,omitempty"`
	Cylinders     int              `json:"cylinders,omitempty"`
	Horsepower    int              `json:"horsepower,omitempty"`
	FuelType      string           `json:"fuelType"`
	Transmission  string           `json:"transmission"`
	DriveType     string           `json:"driveType"`
	PlantCity     string           `json:"plantCity,omitempty"`
	PlantCountry  string           `json:"plantCountry,omitempty"`
	Manufacturer  string           `json:"manufacturer,omitempty"`
	ErrorCode     string           `json:"errorCode,omitempty"`
	ErrorMessage  string           `json:"errorMessage,omitempty"`
	SuggestedData SuggestedDataDTO `json:"suggestedData"`
}

// VehicleDTO is the normalized vehicle block inside a smart decode.
type VehicleDTO struct {
	Make         string `json:"make"`
	Model        string `json:"model"`
	Year         int    `json:"year"`
	Trim         string `json:"trim,omitempty"`
	BodyStyle    string `json:"bodyStyle"`
	VehicleType  string `json:"vehicleType"`
	EngineSize   string `json:"engineSize,omitempty"`
	Cylinders    int    `json:"cylinders,omitempty"`
	Horsepower   int    `json:"horsepower,omitempty"`
	FuelType     string `json:"fuelType"`
	Transmission string `json:"transmission"`
	DriveType    string `json:"driveType"`
	Doors        int    `json:"doors,omitempty"`
	PlantCity    string `json:"plantCity,omitempty"`
	PlantCountry string `json:"plantCountry,omitempty"`
}

// CatalogMatchDTO reports the opportunistically resolved catalog identifiers.
type CatalogMatchDTO struct {
	MakeID   *uint `json:"makeId"`
	ModelID  *uint `json:"modelId"`
	TrimID   *uint `json:"trimId"`
	HasMatch bool  `json:"hasMatch"`
}

// SmartDecodeDTO is the full decode-and-reconcile response.
type SmartDecodeDTO struct {
	Vin                  string                                `json:"vin"`
	ChecksumValid        bool                                  `json:"checksumValid"`
	Vehicle              VehicleDTO                            `json:"vehicle"`
	CatalogMatch         CatalogMatchDTO                       `json:"catalogMatch"`
	HasCatalogMatch      bool                                  `json:"hasCatalogMatch"`
	IsDuplicate          bool                                  `json:"isDuplicate"`
	ExistingVehicleID    string                                `json:"existingVehicleId,omitempty"`
	ExistingSlug         string                                `json:"existingSlug,omitempty"`
	FieldConfidences     map[string]confidence.FieldConfidence `json:"fieldConfidences"`
	SuggestedDescription string                                `json:"suggestedDescription"`
	ProcessingTimeMs     int64                                 `json:"processingTimeMs"`
}

// BatchDecodeRequest is the decode-batch request body.
type BatchDecodeRequest struct {
	Vins     []string `json:"vins"`
	MaxItems int      `json:"maxItems"`
}

// BatchOutcomeDTO aggregates a batch run for the response.
type BatchOutcomeDTO struct {
	Results        []SmartDecodeDTO  `json:"results"`
	Errors         map[string]string `json:"errors"`
	TotalRequested int               `json:"totalRequested"`
	TotalDecoded   int               `json:"totalDecoded"`
	TotalFailed    int               `json:"totalFailed"`
}

// MakeDTO is a catalog make entry.
type MakeDTO struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// ModelDTO is a catalog model entry.
type ModelDTO struct {
	ID     uint   `json:"id"`
	MakeID uint   `json:"makeId"`
	Name   string `json:"name"`
}

// TrimDTO is a catalog trim entry with its reference specs.
type TrimDTO struct {
	ID         uint    `json:"id"`
	ModelID    uint    `json:"modelId"`
	Name       string  `json:"name"`
	Year       int     `json:"year"`
	EngineSize string  `json:"engineSize,omitempty"`
	Horsepower int     `json:"horsepower,omitempty"`
	Cylinders  int     `json:"cylinders,omitempty"`
	Price      float64 `json:"price,omitempty"`
}

// DecodeFromVehicle builds the plain decode DTO.
func DecodeFromVehicle(vinValue string, checksumValid bool, vehicle *decoder.DecodedVehicle) DecodeDTO {
	return DecodeDTO{
		Vin:          vinValue,
		IsValid:      checksumValid,
		Make:         vehicle.Make,
		Model:        vehicle.Model,
		Year:         vehicle.Year,
		Trim:         vehicle.Trim,
		VehicleType:  string(vehicle.VehicleType),
		BodyStyle:    string(vehicle.BodyStyle),
		Doors:        vehicle.Doors,
		EngineSize:   vehicle.EngineSize,
		Cylinders:    vehicle.Cylinders,
		Horsepower:   vehicle.Horsepower,
		FuelType:     string(vehicle.FuelType),
		Transmission: string(vehicle.Transmission),
		DriveType:    string(vehicle.DriveType),
		PlantCity:    vehicle.PlantCity,
		PlantCountry: vehicle.PlantCountry,
		Manufacturer: vehicle.Manufacturer,
		ErrorCode:    vehicle.ErrorCode,
		ErrorMessage: vehicle.ErrorText,
		SuggestedData: SuggestedDataDTO{
			Title:       describe.Title(vehicle),
			Description: describe.Summary(vehicle),
		},
	}
}

// SmartFromResult converts a pipeline result into its DTO representation.
func SmartFromResult(result *pipeline.Result) SmartDecodeDTO {
	vehicle := result.Vehicle
	return SmartDecodeDTO{
		Vin:           result.Vin.String(),
		ChecksumValid: result.ChecksumValid,
		Vehicle: VehicleDTO{
			Make:         vehicle.Make,
			Model:        vehicle.Model,
			Year:         vehicle.Year,
			Trim:         vehicle.Trim,
			BodyStyle:    string(vehicle.BodyStyle),
			VehicleType:  string(vehicle.VehicleType),
			EngineSize:   vehicle.EngineSize,
			Cylinders:    vehicle.Cylinders,
			Horsepower:   vehicle.Horsepower,
			FuelType:     string(vehicle.FuelType),
			Transmission: string(vehicle.Transmission),
			DriveType:    string(vehicle.DriveType),
			Doors:        vehicle.Doors,
			PlantCity:    vehicle.PlantCity,
			PlantCountry: vehicle.PlantCountry,
		},
		CatalogMatch: CatalogMatchDTO{
			MakeID:   result.CatalogMatch.MakeID,
			ModelID:  result.CatalogMatch.ModelID,
			TrimID:   result.CatalogMatch.TrimID,
			HasMatch: result.CatalogMatch.HasMatch,
		},
		HasCatalogMatch:      result.CatalogMatch.HasMatch,
		IsDuplicate:          result.Duplicate.IsDuplicate,
		ExistingVehicleID:    result.Duplicate.ExistingVehicleID,
		ExistingSlug:         result.Duplicate.ExistingSlug,
		FieldConfidences:     result.FieldConfidences,
		SuggestedDescription: result.Description,
		ProcessingTimeMs:     result.ProcessingTimeMs,
	}
}

// BatchFromOutcome converts a batch outcome into its DTO representation.
func BatchFromOutcome(outcome *pipeline.BatchOutcome) BatchOutcomeDTO {
	results := make([]SmartDecodeDTO, 0, len(outcome.Results))
	for _, result := range outcome.Results {
		results = append(results, SmartFromResult(result))
	}
	return BatchOutcomeDTO{
		Results:        results,
		Errors:         outcome.Errors,
		TotalRequested: outcome.TotalRequested,
		TotalDecoded:   outcome.TotalDecoded,
		TotalFailed:    outcome.TotalFailed,
	}
}
