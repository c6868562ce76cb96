package decoder

// FuelType is the closed fuel vocabulary.
type FuelType string

const (
	FuelGasoline     FuelType = "Gasoline"
	FuelDiesel       FuelType = "Diesel"
	FuelHybrid       FuelType = "Hybrid"
	FuelPlugInHybrid FuelType = "PlugInHybrid"
	FuelElectric     FuelType = "Electric"
	FuelFlexFuel     FuelType = "FlexFuel"
	FuelHydrogen     FuelType = "Hydrogen"
	FuelNaturalGas   FuelType = "NaturalGas"
)

// TransmissionType is the closed transmission vocabulary.
type TransmissionType string

const (
	TransmissionAutomatic  TransmissionType = "Automatic"
	TransmissionManual     TransmissionType = "Manual"
	TransmissionCVT        TransmissionType = "CVT"
	TransmissionDualClutch TransmissionType = "DualClutch"
	TransmissionAutomated  TransmissionType = "Automated"
)

// DriveType is the closed drive-train vocabulary.
type DriveType string

const (
	DriveFWD    DriveType = "FWD"
	DriveRWD    DriveType = "RWD"
	DriveAWD    DriveType = "AWD"
	DriveFourWD DriveType = "4WD"
)

// BodyStyle is the closed body-style vocabulary.
type BodyStyle string

const (
	BodySedan       BodyStyle = "Sedan"
	BodySUV         BodyStyle = "SUV"
	BodyCrossover   BodyStyle = "Crossover"
	BodyPickup      BodyStyle = "Pickup"
	BodyMinivan     BodyStyle = "Minivan"
	BodyVan         BodyStyle = "Van"
	BodyCoupe       BodyStyle = "Coupe"
	BodyConvertible BodyStyle = "Convertible"
	BodyHatchback   BodyStyle = "Hatchback"
	BodyWagon       BodyStyle = "Wagon"
)

// VehicleType is the closed vehicle-class vocabulary.
type VehicleType string

const (
	VehicleCar        VehicleType = "Car"
	VehicleTruck      VehicleType = "Truck"
	VehicleSUV        VehicleType = "SUV"
	VehicleVan        VehicleType = "Van"
	VehicleMotorcycle VehicleType = "Motorcycle"
	VehicleBus        VehicleType = "Bus"
)

// DecodedVehicle is the normalized output of the external decoding service.
// Enum fields always carry a vocabulary value; numeric fields use zero for
// unknown. The Raw* fields keep the source text of the category fields so the
// confidence scorer can tell a decoded value apart from a default.
type DecodedVehicle struct {
	Make         string
	Model        string
	Year         int
	Trim         string
	BodyStyle    BodyStyle
	VehicleType  VehicleType
	EngineSize   string
	Cylinders    int
	Horsepower   int
	FuelType     FuelType
	Transmission TransmissionType
	DriveType    DriveType
	Doors        int
	PlantCity    string
	PlantCountry string
	Manufacturer string
	ErrorCode    string
	ErrorText    string

	RawFuelType     string
	RawTransmission string
	RawDriveType    string
}
