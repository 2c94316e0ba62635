// Package units converts between physical quantities and the raw codes
// stored in AFE4404 register fields.
//
// Encoders fail with ErrOutOfRange when a value is outside what the chip can
// represent. Decoders accept any code that fits its field and never fail.
// Nothing in this package touches the bus.
package units

import (
	"errors"
	"fmt"

	"periph.io/x/periph/conn/physic"
)

var (
	// ErrOutOfRange is returned when a physical value is outside the range
	// documented for the chip.
	ErrOutOfRange = errors.New("units: value out of range")
	// ErrUnsupported is returned when a value is inside the range but the
	// chip has no setting for it (e.g. a division ratio that is not
	// available).
	ErrUnsupported = errors.New("units: value not supported")
)

// LEDCode is the 6-bit drive current code of an LED.
type LEDCode uint8

// LEDCodeMax is the largest LED drive current code.
const LEDCodeMax LEDCode = 1<<6 - 1

// LED drive current full scales. The 100 mA range is selected with ILED_2X.
const (
	LEDFullScale   = 50 * physic.MilliAmpere
	LEDFullScale2x = 100 * physic.MilliAmpere
)

// LEDRange returns the smallest full scale that can represent all currents.
func LEDRange(currents ...physic.ElectricCurrent) physic.ElectricCurrent {
	for _, c := range currents {
		if c > LEDFullScale {
			return LEDFullScale2x
		}
	}
	return LEDFullScale
}

// LEDStep returns the current of one LSB at the given full scale.
func LEDStep(fullScale physic.ElectricCurrent) physic.ElectricCurrent {
	return fullScale / physic.ElectricCurrent(LEDCodeMax)
}

// EncodeLEDCurrent converts a drive current into its code at the given full
// scale. The code is rounded to the nearest step.
func EncodeLEDCurrent(c, fullScale physic.ElectricCurrent) (LEDCode, error) {
	if c < 0 || c > fullScale {
		return 0, fmt.Errorf("LED current %s outside 0..%s: %w", c, fullScale, ErrOutOfRange)
	}
	code := (int64(c)*int64(LEDCodeMax) + int64(fullScale)/2) / int64(fullScale)
	return LEDCode(code), nil
}

// DecodeLEDCurrent converts a code back into a drive current.
func DecodeLEDCurrent(code LEDCode, fullScale physic.ElectricCurrent) physic.ElectricCurrent {
	code &= LEDCodeMax
	return physic.ElectricCurrent(int64(code) * int64(fullScale) / int64(LEDCodeMax))
}

// OffsetCode is the 5-bit offset cancellation DAC code: polarity in bit 4
// (set for negative currents) and a 4-bit magnitude.
type OffsetCode uint8

const (
	offsetSign      OffsetCode = 1 << 4
	offsetMagnitude OffsetCode = offsetSign - 1

	// OffsetFullScale is the largest offset cancellation current.
	OffsetFullScale = 7 * physic.MicroAmpere
)

// EncodeOffsetCurrent converts an offset cancellation current into its code.
func EncodeOffsetCurrent(c physic.ElectricCurrent) (OffsetCode, error) {
	if c < -OffsetFullScale || c > OffsetFullScale {
		return 0, fmt.Errorf("offset current %s outside ±%s: %w", c, OffsetFullScale, ErrOutOfRange)
	}
	var sign OffsetCode
	if c < 0 {
		sign = offsetSign
		c = -c
	}
	mag := (int64(c)*int64(offsetMagnitude) + int64(OffsetFullScale)/2) / int64(OffsetFullScale)
	if mag == 0 {
		sign = 0
	}
	return sign | OffsetCode(mag), nil
}

// DecodeOffsetCurrent converts a code back into an offset current.
func DecodeOffsetCurrent(code OffsetCode) physic.ElectricCurrent {
	c := physic.ElectricCurrent(int64(code&offsetMagnitude) * int64(OffsetFullScale) / int64(offsetMagnitude))
	if code&offsetSign != 0 {
		return -c
	}
	return c
}
