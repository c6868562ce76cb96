package confidence

import (
	"strconv"

	"vin-decoder/internal/decoder"
)

// SourceExternalDecoder is the provenance tag for decoder-supplied fields.
const SourceExternalDecoder = "external-decoder"

// FieldConfidence scores a single decoded field with its provenance.
type FieldConfidence struct {
	Value      string  `json:"value"`
	Source     string  `json:"source"`
	Confidence float64 `json:"confidence"`
}

// Score assigns the fixed per-field confidence values. Confidence here is
// deterministic per field, not computed from data quality: the decoder either
// supplied a value (full confidence for that field) or it did not.
func Score(vehicle *decoder.DecodedVehicle) map[string]FieldConfidence {
	if vehicle == nil {
		return map[string]FieldConfidence{}
	}

	fields := map[string]FieldConfidence{
		"make":  presence(vehicle.Make, 0.95),
		"model": presence(vehicle.Model, 0.95),
		"year":  presenceInt(vehicle.Year, 0.99),
		"trim":  presence(vehicle.Trim, 0.8),

		// these always carry a vocabulary default
		"bodyStyle":   field(string(vehicle.BodyStyle), 0.85),
		"vehicleType": field(string(vehicle.VehicleType), 0.9),

		"engineSize": presence(vehicle.EngineSize, 0.9),
		"horsepower": presenceInt(vehicle.Horsepower, 0.85),
		"cylinders":  presenceInt(vehicle.Cylinders, 0.9),
	}

	// defaulted vocabularies score lower when the source field was empty
	fields["fuelType"] = sourced(string(vehicle.FuelType), vehicle.RawFuelType, 0.9)
	fields["transmission"] = sourced(string(vehicle.Transmission), vehicle.RawTransmission, 0.85)
	fields["driveType"] = sourced(string(vehicle.DriveType), vehicle.RawDriveType, 0.85)

	return fields
}

func field(value string, confidence float64) FieldConfidence {
	return FieldConfidence{Value: value, Source: SourceExternalDecoder, Confidence: confidence}
}

func presence(value string, confidence float64) FieldConfidence {
	if value == "" {
		return FieldConfidence{Source: SourceExternalDecoder}
	}
	return field(value, confidence)
}

func presenceInt(value int, confidence float64) FieldConfidence {
	if value == 0 {
		return FieldConfidence{Source: SourceExternalDecoder}
	}
	return field(strconv.Itoa(value), confidence)
}

func sourced(value, raw string, confidence float64) FieldConfidence {
	if raw == "" {
		return field(value, 0.5)
	}
	return field(value, confidence)
}
