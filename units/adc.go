package units

import (
	"fmt"
	"math"

	"periph.io/x/periph/conn/physic"
)

// ADCWord is the 24-bit two's complement content of an ADC output register.
type ADCWord uint32

const (
	adcMask ADCWord = 0xFF_FFFF
	adcSign ADCWord = 1 << 23

	// ADCCodeMax is the largest code the ADC produces (22-bit signed range).
	ADCCodeMax = 1<<21 - 1

	// ADCFullScale is the differential input voltage of ADCCodeMax.
	ADCFullScale = 1200 * physic.MilliVolt
)

// Code returns the sign-extended value of the word.
func (w ADCWord) Code() int32 {
	w &= adcMask
	if w&adcSign != 0 {
		return int32(w | ^adcMask)
	}
	return int32(w)
}

// Valid reports whether the word lies within the ±2^21 range the ADC is
// specified for. Words outside it are produced when the input saturates.
func (w ADCWord) Valid() bool {
	c := w.Code()
	return c >= -ADCCodeMax-1 && c <= ADCCodeMax
}

// DecodeADC converts an ADC word into the differential voltage at the ADC
// input.
func DecodeADC(w ADCWord) physic.ElectricPotential {
	c := int64(w.Code())
	v := c * int64(ADCFullScale)
	// round half away from zero
	if v < 0 {
		return physic.ElectricPotential((v - ADCCodeMax/2) / ADCCodeMax)
	}
	return physic.ElectricPotential((v + ADCCodeMax/2) / ADCCodeMax)
}

// EncodeADC converts a voltage into the ADC word that represents it.
func EncodeADC(v physic.ElectricPotential) (ADCWord, error) {
	if v < -ADCFullScale || v > ADCFullScale {
		return 0, fmt.Errorf("ADC input %s outside ±%s: %w", v, ADCFullScale, ErrOutOfRange)
	}
	n := int64(v) * ADCCodeMax
	var c int64
	if n < 0 {
		c = (n - int64(ADCFullScale)/2) / int64(ADCFullScale)
	} else {
		c = (n + int64(ADCFullScale)/2) / int64(ADCFullScale)
	}
	return ADCWord(uint32(int32(c))) & adcMask, nil
}

// PhotoCurrent converts a TIA output voltage into the photodiode current
// that produced it, given the gain resistor of the phase. The TIA output is
// differential, so the voltage is twice the current times the resistor.
func PhotoCurrent(v physic.ElectricPotential, r physic.ElectricResistance) physic.ElectricCurrent {
	if r <= 0 {
		return 0
	}
	// nV / nΩ gives A; scale to nA.
	return physic.ElectricCurrent(math.Round(float64(v) * float64(physic.Ampere) / (2 * float64(r))))
}

// AvgCode is the 4-bit NUMAV code.
type AvgCode uint8

// EncodeAveraging converts the number of ADC conversions averaged per phase
// (1 to 16) into its code.
func EncodeAveraging(n int) (AvgCode, error) {
	if n < 1 || n > 16 {
		return 0, fmt.Errorf("averaging %d outside 1..16: %w", n, ErrOutOfRange)
	}
	return AvgCode(n - 1), nil
}

// DecodeAveraging returns the number of averaged conversions of code.
func DecodeAveraging(code AvgCode) int {
	return int(code&0xF) + 1
}

// DecCode is the 3-bit DEC_FACTOR code.
type DecCode uint8

// EncodeDecimation converts a decimation factor into its code. A factor of
// 1 disables decimation; 2, 4, 8 and 16 are supported.
func EncodeDecimation(n int) (DecCode, error) {
	if n < 1 || n > 16 {
		return 0, fmt.Errorf("decimation %d outside 1..16: %w", n, ErrOutOfRange)
	}
	if n&(n-1) != 0 {
		return 0, fmt.Errorf("decimation %d is not a power of two: %w", n, ErrUnsupported)
	}
	var code DecCode
	for n > 1 {
		n >>= 1
		code++
	}
	return code, nil
}

// DecodeDecimation returns the decimation factor of code, or 0 for reserved
// codes.
func DecodeDecimation(code DecCode) int {
	if code > 4 {
		return 0
	}
	return 1 << code
}
