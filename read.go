package afe4404

import (
	"fmt"

	"github.com/cgxeiji/afe4404/reg"
	"github.com/cgxeiji/afe4404/units"
	"periph.io/x/periph/conn/physic"
)

// Reading is a single ADC conversion.
type Reading struct {
	Raw     units.ADCWord
	Voltage physic.ElectricPotential
}

func newReading(w reg.Word) Reading {
	raw := units.ADCWord(w)
	return Reading{Raw: raw, Voltage: units.DecodeADC(raw)}
}

// Valid reports whether the conversion is within the range of the ADC. An
// invalid reading means the TIA output saturated.
func (r Reading) Valid() bool {
	return r.Raw.Valid()
}

// Current returns the photodiode current that produced the reading, given
// the TIA gain resistor of its phase.
func (r Reading) Current(gain physic.ElectricResistance) physic.ElectricCurrent {
	return units.PhotoCurrent(r.Voltage, gain)
}

func (r Reading) String() string {
	return fmt.Sprintf("%s (%#06x)", r.Voltage, uint32(r.Raw))
}

// Sample holds the readings of one measurement window.
type Sample struct {
	// LEDs holds the LED1, LED2 (and LED3) readings.
	LEDs []Reading
	// Ambient holds the Ambient1 (and Ambient2) readings.
	Ambient []Reading
	// Differences holds the LED1 minus Ambient1 reading and, in TwoLEDs mode,
	// the LED2 minus Ambient2 reading, as subtracted by the chip.
	Differences []Reading
}

// Read reads the latest conversion of every phase. Readings are not
// synchronized with the timing engine; call Read after the ADC_RDY pulse to
// get readings of the same window.
func (d *Device) Read() (Sample, error) {
	if d.mode == ThreeLEDs {
		w, err := d.regs.ReadMany(reg.LED2Val, reg.ALED2Val, reg.LED1Val, reg.ALED1Val, reg.LED1ALED1Val)
		if err != nil {
			return Sample{}, err
		}
		return Sample{
			LEDs:        []Reading{newReading(w[2]), newReading(w[0]), newReading(w[1])},
			Ambient:     []Reading{newReading(w[3])},
			Differences: []Reading{newReading(w[4])},
		}, nil
	}

	w, err := d.regs.ReadMany(reg.LED2Val, reg.ALED2Val, reg.LED1Val, reg.ALED1Val, reg.LED2ALED2Val, reg.LED1ALED1Val)
	if err != nil {
		return Sample{}, err
	}
	return Sample{
		LEDs:        []Reading{newReading(w[2]), newReading(w[0])},
		Ambient:     []Reading{newReading(w[3]), newReading(w[1])},
		Differences: []Reading{newReading(w[5]), newReading(w[4])},
	}, nil
}

// Averaged holds the difference readings of the chip: LED1 minus Ambient1,
// and LED2 minus the second phase (Ambient2, or LED3 in ThreeLEDs mode).
type Averaged struct {
	LED1, LED2 Reading
}

// ReadAveraged reads the difference readings, averaged over the decimation
// factor when decimation is enabled.
func (d *Device) ReadAveraged() (Averaged, error) {
	w, err := d.regs.ReadMany(reg.AvgLED1ALED1, reg.AvgLED2ALED2)
	if err != nil {
		return Averaged{}, err
	}
	return Averaged{LED1: newReading(w[0]), LED2: newReading(w[1])}, nil
}
