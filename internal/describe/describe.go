package describe

import (
	"fmt"
	"strings"

	"vin-decoder/internal/decoder"
)

// Localized vocabulary tables for the generated listing copy.
var transmissionES = map[decoder.TransmissionType]string{
	decoder.TransmissionAutomatic:  "automática",
	decoder.TransmissionManual:     "manual",
	decoder.TransmissionCVT:        "CVT",
	decoder.TransmissionDualClutch: "de doble embrague",
	decoder.TransmissionAutomated:  "automatizada",
}

var driveES = map[decoder.DriveType]string{
	decoder.DriveFWD:    "delantera (FWD)",
	decoder.DriveRWD:    "trasera (RWD)",
	decoder.DriveAWD:    "integral (AWD)",
	decoder.DriveFourWD: "4x4 (4WD)",
}

var fuelES = map[decoder.FuelType]string{
	decoder.FuelGasoline:     "gasolina",
	decoder.FuelDiesel:       "diésel",
	decoder.FuelHybrid:       "híbrido",
	decoder.FuelPlugInHybrid: "híbrido enchufable",
	decoder.FuelElectric:     "eléctrico",
	decoder.FuelFlexFuel:     "flex fuel",
	decoder.FuelHydrogen:     "hidrógeno",
	decoder.FuelNaturalGas:   "gas natural",
}

const closingSentence = "Publicación generada automáticamente a partir del VIN."

// Summary renders a short natural-language paragraph from the reconciled
// vehicle fields. Absent fields omit their clause; it never fails.
func Summary(vehicle *decoder.DecodedVehicle) string {
	if vehicle == nil {
		return closingSentence
	}

	var clauses []string

	if title := titleLine(vehicle); title != "" {
		clauses = append(clauses, title+".")
	}
	if engine := engineClause(vehicle); engine != "" {
		clauses = append(clauses, engine)
	}

	transmission := transmissionES[vehicle.Transmission]
	drive := driveES[vehicle.DriveType]
	if transmission != "" && drive != "" {
		clauses = append(clauses, fmt.Sprintf("Transmisión %s, tracción %s.", transmission, drive))
	}

	if fuel := fuelES[vehicle.FuelType]; fuel != "" {
		clauses = append(clauses, fmt.Sprintf("Combustible: %s.", fuel))
	}

	clauses = append(clauses, closingSentence)
	return strings.Join(clauses, " ")
}

// Title renders the listing title line ("{year} {make} {model} {trim}").
func Title(vehicle *decoder.DecodedVehicle) string {
	if vehicle == nil {
		return ""
	}
	return titleLine(vehicle)
}

func titleLine(vehicle *decoder.DecodedVehicle) string {
	var parts []string
	if vehicle.Year > 0 {
		parts = append(parts, fmt.Sprintf("%d", vehicle.Year))
	}
	for _, value := range []string{vehicle.Make, vehicle.Model, vehicle.Trim} {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return strings.Join(parts, " ")
}

func engineClause(vehicle *decoder.DecodedVehicle) string {
	var parts []string
	if engine := strings.TrimSpace(vehicle.EngineSize); engine != "" {
		parts = append(parts, "Motor "+engine)
	}
	if vehicle.Cylinders > 0 {
		parts = append(parts, fmt.Sprintf("%d cilindros", vehicle.Cylinders))
	}
	if vehicle.Horsepower > 0 {
		parts = append(parts, fmt.Sprintf("%d hp", vehicle.Horsepower))
	}
	if len(parts) == 0 {
		return ""
	}
	return strings.Join(parts, ", ") + "."
}
