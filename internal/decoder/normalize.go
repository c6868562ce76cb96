package decoder

import (
	"strconv"
	"strings"
)

// Vocabulary mappings are kept as ordered rule tables rather than inline
// conditionals: the first rule whose keyword appears in the source text wins,
// and an empty or unrecognized source falls through to the default.

type fuelRule struct {
	keywords []string
	value    FuelType
}

var fuelRules = []fuelRule{
	{[]string{"plug", "phev"}, FuelPlugInHybrid},
	{[]string{"diesel"}, FuelDiesel},
	{[]string{"hybrid"}, FuelHybrid},
	{[]string{"electric"}, FuelElectric},
	{[]string{"flex"}, FuelFlexFuel},
	{[]string{"hydrogen"}, FuelHydrogen},
	{[]string{"natural gas", "cng"}, FuelNaturalGas},
}

// ParseFuelType maps raw fuel text onto the closed vocabulary. Defaults to
// gasoline.
func ParseFuelType(raw string) FuelType {
	lower := strings.ToLower(strings.TrimSpace(raw))
	for _, rule := range fuelRules {
		if containsAny(lower, rule.keywords) {
			return rule.value
		}
	}
	return FuelGasoline
}

type transmissionRule struct {
	keywords []string
	value    TransmissionType
}

var transmissionRules = []transmissionRule{
	{[]string{"cvt"}, TransmissionCVT},
	{[]string{"dual", "dct"}, TransmissionDualClutch},
	{[]string{"automated"}, TransmissionAutomated},
	{[]string{"manual"}, TransmissionManual},
}

// ParseTransmission maps raw transmission text onto the closed vocabulary.
// Defaults to automatic.
func ParseTransmission(raw string) TransmissionType {
	lower := strings.ToLower(strings.TrimSpace(raw))
	for _, rule := range transmissionRules {
		if containsAny(lower, rule.keywords) {
			return rule.value
		}
	}
	return TransmissionAutomatic
}

type driveRule struct {
	keywords []string
	value    DriveType
}

var driveRules = []driveRule{
	{[]string{"4x4", "4wd", "four"}, DriveFourWD},
	{[]string{"awd", "all"}, DriveAWD},
	{[]string{"rwd", "rear"}, DriveRWD},
}

// ParseDriveType maps raw drive-train text onto the closed vocabulary.
// Defaults to front-wheel drive.
func ParseDriveType(raw string) DriveType {
	lower := strings.ToLower(strings.TrimSpace(raw))
	for _, rule := range driveRules {
		if containsAny(lower, rule.keywords) {
			return rule.value
		}
	}
	return DriveFWD
}

type bodyRule struct {
	keywords []string
	value    BodyStyle
}

// crossover precedes suv and minivan precedes van so the more specific bucket
// wins on composite labels like "Crossover Utility Vehicle (CUV)".
var bodyRules = []bodyRule{
	{[]string{"crossover", "cuv"}, BodyCrossover},
	{[]string{"suv", "sport utility"}, BodySUV},
	{[]string{"pickup"}, BodyPickup},
	{[]string{"minivan"}, BodyMinivan},
	{[]string{"van"}, BodyVan},
	{[]string{"coupe"}, BodyCoupe},
	{[]string{"convertible", "cabriolet"}, BodyConvertible},
	{[]string{"hatchback", "liftback"}, BodyHatchback},
	{[]string{"wagon"}, BodyWagon},
}

// ParseBodyStyle maps raw body-class text onto the closed vocabulary.
// Defaults to sedan.
func ParseBodyStyle(raw string) BodyStyle {
	lower := strings.ToLower(strings.TrimSpace(raw))
	for _, rule := range bodyRules {
		if containsAny(lower, rule.keywords) {
			return rule.value
		}
	}
	return BodySedan
}

type vehicleRule struct {
	keywords []string
	value    VehicleType
}

var vehicleRules = []vehicleRule{
	{[]string{"truck"}, VehicleTruck},
	{[]string{"suv", "multipurpose", "mpv"}, VehicleSUV},
	{[]string{"van"}, VehicleVan},
	{[]string{"motorcycle"}, VehicleMotorcycle},
	{[]string{"bus"}, VehicleBus},
}

// ParseVehicleType maps raw vehicle-class text onto the closed vocabulary.
// Defaults to car.
func ParseVehicleType(raw string) VehicleType {
	lower := strings.ToLower(strings.TrimSpace(raw))
	for _, rule := range vehicleRules {
		if containsAny(lower, rule.keywords) {
			return rule.value
		}
	}
	return VehicleCar
}

func containsAny(text string, keywords []string) bool {
	if text == "" {
		return false
	}
	for _, keyword := range keywords {
		if strings.Contains(text, keyword) {
			return true
		}
	}
	return false
}

// parseIntField parses a numeric decoder field defensively: unparsable input
// yields zero (unknown), never an error.
func parseIntField(raw string) int {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0
	}
	if value, err := strconv.Atoi(trimmed); err == nil && value > 0 {
		return value
	}
	// some sources report horsepower as a float string
	if value, err := strconv.ParseFloat(trimmed, 64); err == nil && value > 0 {
		return int(value)
	}
	return 0
}
