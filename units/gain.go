package units

import (
	"fmt"
	"strconv"

	"periph.io/x/periph/conn/physic"
)

// GainCode is the 3-bit TIA gain resistor code.
type GainCode uint8

// rung is a ladder entry: a value and the code selecting it.
type rung struct {
	value int64
	code  uint8
}

// The ladders are sorted by value; the codes follow the datasheet table.
var resistorLadder = []rung{
	{int64(10 * physic.KiloOhm), 5},
	{int64(25 * physic.KiloOhm), 4},
	{int64(50 * physic.KiloOhm), 3},
	{int64(100 * physic.KiloOhm), 2},
	{int64(250 * physic.KiloOhm), 1},
	{int64(500 * physic.KiloOhm), 0},
	{int64(1 * physic.MegaOhm), 6},
	{int64(2 * physic.MegaOhm), 7},
}

// Resistors returns the gain resistors supported by the TIA, smallest first.
func Resistors() []physic.ElectricResistance {
	out := make([]physic.ElectricResistance, len(resistorLadder))
	for i, r := range resistorLadder {
		out[i] = physic.ElectricResistance(r.value)
	}
	return out
}

// nearest picks the rung closest to v. Ties go to the lower rung. v outside
// the ladder is rejected.
func nearest(ladder []rung, v int64) (rung, bool) {
	if v < ladder[0].value || v > ladder[len(ladder)-1].value {
		return rung{}, false
	}
	best := ladder[0]
	for _, r := range ladder[1:] {
		if r.value-v < v-best.value {
			best = r
		}
	}
	return best, true
}

func lookup(ladder []rung, code uint8) int64 {
	for _, r := range ladder {
		if r.code == code {
			return r.value
		}
	}
	// every 3-bit code is on the ladders
	panic("units: code " + strconv.Itoa(int(code)) + " missing from ladder")
}

// EncodeResistance selects the ladder resistor nearest to r and returns its
// code together with the selected value.
func EncodeResistance(r physic.ElectricResistance) (GainCode, physic.ElectricResistance, error) {
	best, ok := nearest(resistorLadder, int64(r))
	if !ok {
		return 0, 0, fmt.Errorf("resistor %s outside %s..%s: %w",
			r, 10*physic.KiloOhm, 2*physic.MegaOhm, ErrOutOfRange)
	}
	return GainCode(best.code), physic.ElectricResistance(best.value), nil
}

// DecodeResistance returns the resistor selected by code.
func DecodeResistance(code GainCode) physic.ElectricResistance {
	return physic.ElectricResistance(lookup(resistorLadder, uint8(code&7)))
}

// Capacitance is an electrical capacitance stored as femtofarads.
type Capacitance int64

// Capacitance units.
const (
	FemtoFarad Capacitance = 1
	PicoFarad              = 1000 * FemtoFarad
	NanoFarad              = 1000 * PicoFarad
)

func (c Capacitance) String() string {
	return strconv.FormatFloat(float64(c)/float64(PicoFarad), 'f', -1, 64) + "pF"
}

// CapCode is the 3-bit TIA feedback capacitor code.
type CapCode uint8

var capacitorLadder = []rung{
	{int64(2500 * FemtoFarad), 1},
	{int64(5 * PicoFarad), 0},
	{int64(7500 * FemtoFarad), 3},
	{int64(10 * PicoFarad), 2},
	{int64(17500 * FemtoFarad), 5},
	{int64(20 * PicoFarad), 4},
	{int64(22500 * FemtoFarad), 7},
	{int64(25 * PicoFarad), 6},
}

// Capacitors returns the feedback capacitors supported by the TIA, smallest
// first.
func Capacitors() []Capacitance {
	out := make([]Capacitance, len(capacitorLadder))
	for i, r := range capacitorLadder {
		out[i] = Capacitance(r.value)
	}
	return out
}

// EncodeCapacitance selects the ladder capacitor nearest to c and returns its
// code together with the selected value.
func EncodeCapacitance(c Capacitance) (CapCode, Capacitance, error) {
	best, ok := nearest(capacitorLadder, int64(c))
	if !ok {
		return 0, 0, fmt.Errorf("capacitor %s outside %s..%s: %w",
			c, 2500*FemtoFarad, 25*PicoFarad, ErrOutOfRange)
	}
	return CapCode(best.code), Capacitance(best.value), nil
}

// DecodeCapacitance returns the capacitor selected by code.
func DecodeCapacitance(code CapCode) Capacitance {
	return Capacitance(lookup(capacitorLadder, uint8(code&7)))
}
