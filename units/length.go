package units

import (
	"fmt"
	"math"
)

const (
	// MillimetersPerInch is the exact number of millimeters in an inch.
	MillimetersPerInch = 25.4
	// PointsPerInch is the number of typographic points in an inch.
	PointsPerInch = 72.0
	// DeviceUnitsPerInch is the eSCL native resolution of lengths.
	DeviceUnitsPerInch = 300.0
	// DeviceUnitsPerMillimeter is DeviceUnitsPerInch expressed per millimeter.
	DeviceUnitsPerMillimeter = DeviceUnitsPerInch / MillimetersPerInch
)

// Length is a physical length in one of the supported units.
type Length interface {
	Inches() Inches
	Millimeters() Millimeters
	DeviceUnits() DeviceUnits
	Points() Points
}

// Equal reports whether a and b describe the same length once
// converted to DeviceUnits. A nil length is never equal to anything.
func Equal(a, b Length) bool {
	if a == nil || b == nil {
		return false
	}
	return a.DeviceUnits() == b.DeviceUnits()
}

// Inches is a length in inches.
type Inches float64

func (v Inches) Inches() Inches           { return v }
func (v Inches) Millimeters() Millimeters { return Millimeters(float64(v) * MillimetersPerInch) }
func (v Inches) Points() Points           { return Points(float64(v) * PointsPerInch) }
func (v Inches) DeviceUnits() DeviceUnits { return roundDeviceUnits(float64(v) * DeviceUnitsPerInch) }
func (v Inches) String() string           { return fmt.Sprintf("%gin", float64(v)) }

// Millimeters is a length in millimeters.
type Millimeters float64

func (v Millimeters) Inches() Inches           { return Inches(float64(v) / MillimetersPerInch) }
func (v Millimeters) Millimeters() Millimeters { return v }
func (v Millimeters) Points() Points           { return v.Inches().Points() }
func (v Millimeters) DeviceUnits() DeviceUnits {
	return roundDeviceUnits(float64(v) * DeviceUnitsPerMillimeter)
}
func (v Millimeters) String() string { return fmt.Sprintf("%gmm", float64(v)) }

// Points is a length in typographic points (1/72 inch).
type Points float64

func (v Points) Inches() Inches           { return Inches(float64(v) / PointsPerInch) }
func (v Points) Millimeters() Millimeters { return v.Inches().Millimeters() }
func (v Points) Points() Points           { return v }
func (v Points) DeviceUnits() DeviceUnits { return v.Inches().DeviceUnits() }
func (v Points) String() string           { return fmt.Sprintf("%gpt", float64(v)) }

// DeviceUnits is a length in three hundredths of an inch, the unit
// eSCL uses on the wire (ThreeHundredthsOfInches).
type DeviceUnits uint32

func (v DeviceUnits) Inches() Inches           { return Inches(float64(v) / DeviceUnitsPerInch) }
func (v DeviceUnits) Millimeters() Millimeters { return Millimeters(float64(v) / DeviceUnitsPerMillimeter) }
func (v DeviceUnits) Points() Points           { return v.Inches().Points() }
func (v DeviceUnits) DeviceUnits() DeviceUnits { return v }
func (v DeviceUnits) String() string           { return fmt.Sprintf("%d/300in", uint32(v)) }

// roundDeviceUnits rounds half up. Negative lengths clamp to zero
// since the wire type is unsigned.
func roundDeviceUnits(x float64) DeviceUnits {
	if x <= 0 || math.IsNaN(x) {
		return 0
	}
	if x >= math.MaxUint32 {
		return math.MaxUint32
	}
	return DeviceUnits(math.Floor(x + 0.5))
}
