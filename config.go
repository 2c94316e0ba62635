package afe4404

import (
	"fmt"

	"github.com/cgxeiji/afe4404/units"
	"go.uber.org/multierr"
	"periph.io/x/periph/conn/physic"
)

// LEDCurrents holds the drive currents of the LEDs, LED1 first. It is
// created by NewLEDCurrents or read back with Device.LEDsCurrent.
type LEDCurrents struct {
	codes     []units.LEDCode
	fullScale physic.ElectricCurrent
}

// NewLEDCurrents validates and quantizes the drive current of each LED. Two
// currents configure a TwoLEDs device, three a ThreeLEDs one. Currents above
// 50mA switch every channel to the 100mA range, halving the resolution.
func NewLEDCurrents(currents ...physic.ElectricCurrent) (LEDCurrents, error) {
	if n := len(currents); n != 2 && n != 3 {
		return LEDCurrents{}, &ValidationError{
			Setting: "LED currents",
			Err:     fmt.Errorf("%d channels, want 2 or 3: %w", n, units.ErrUnsupported),
		}
	}

	fs := units.LEDRange(currents...)
	codes := make([]units.LEDCode, len(currents))
	var err error
	for i, c := range currents {
		code, e := units.EncodeLEDCurrent(c, fs)
		if e != nil {
			err = multierr.Append(err, &ValidationError{
				Setting: fmt.Sprintf("LED%d current", i+1),
				Err:     e,
			})
			continue
		}
		codes[i] = code
	}
	if err != nil {
		return LEDCurrents{}, err
	}

	return LEDCurrents{codes: codes, fullScale: fs}, nil
}

// Len returns the number of LED channels.
func (c LEDCurrents) Len() int {
	return len(c.codes)
}

// Currents returns the drive currents as applied by the chip, LED1 first.
func (c LEDCurrents) Currents() []physic.ElectricCurrent {
	out := make([]physic.ElectricCurrent, len(c.codes))
	for i, code := range c.codes {
		out[i] = units.DecodeLEDCurrent(code, c.fullScale)
	}
	return out
}

// Current returns the applied drive current of a single LED (1-based), or 0
// for a channel that is not configured.
func (c LEDCurrents) Current(led int) physic.ElectricCurrent {
	if led < 1 || led > len(c.codes) {
		return 0
	}
	return units.DecodeLEDCurrent(c.codes[led-1], c.fullScale)
}

// FullScale returns the current range in use (50mA or 100mA).
func (c LEDCurrents) FullScale() physic.ElectricCurrent {
	return c.fullScale
}

// OffsetCurrents holds the offset cancellation currents subtracted from the
// photodiode current in each phase, in the range ±7µA.
type OffsetCurrents struct {
	leds    []units.OffsetCode
	ambient []units.OffsetCode
}

// NewOffsetCurrents validates and quantizes offset cancellation currents.
// A TwoLEDs device takes two LED and two ambient currents (LED1, LED2 and
// Ambient1, Ambient2); a ThreeLEDs device takes three LED currents and a
// single ambient one.
func NewOffsetCurrents(leds, ambient []physic.ElectricCurrent) (OffsetCurrents, error) {
	if len(leds)+len(ambient) != 4 || (len(leds) != 2 && len(leds) != 3) {
		return OffsetCurrents{}, &ValidationError{
			Setting: "offset currents",
			Err: fmt.Errorf("%d LED and %d ambient channels, want 2+2 or 3+1: %w",
				len(leds), len(ambient), units.ErrUnsupported),
		}
	}

	var err error
	encode := func(name string, in []physic.ElectricCurrent) []units.OffsetCode {
		out := make([]units.OffsetCode, len(in))
		for i, c := range in {
			code, e := units.EncodeOffsetCurrent(c)
			if e != nil {
				err = multierr.Append(err, &ValidationError{
					Setting: fmt.Sprintf("%s%d offset current", name, i+1),
					Err:     e,
				})
				continue
			}
			out[i] = code
		}
		return out
	}
	o := OffsetCurrents{
		leds:    encode("LED", leds),
		ambient: encode("Ambient", ambient),
	}
	if err != nil {
		return OffsetCurrents{}, err
	}
	return o, nil
}

// Len returns the number of LED channels.
func (o OffsetCurrents) Len() int {
	return len(o.leds)
}

// LEDs returns the applied offset currents of the LED phases, LED1 first.
func (o OffsetCurrents) LEDs() []physic.ElectricCurrent {
	return decodeOffsets(o.leds)
}

// Ambient returns the applied offset currents of the ambient phases.
func (o OffsetCurrents) Ambient() []physic.ElectricCurrent {
	return decodeOffsets(o.ambient)
}

func decodeOffsets(codes []units.OffsetCode) []physic.ElectricCurrent {
	out := make([]physic.ElectricCurrent, len(codes))
	for i, code := range codes {
		out[i] = units.DecodeOffsetCurrent(code)
	}
	return out
}

// Resistors holds the two TIA gain resistors. Resistor 1 is used while
// sampling LED1 and Ambient1 (the only ambient phase in ThreeLEDs mode),
// resistor 2 while sampling LED2 and Ambient2 or LED3.
type Resistors struct {
	codes [2]units.GainCode
}

// NewResistors selects the supported resistors closest to r1 and r2.
func NewResistors(r1, r2 physic.ElectricResistance) (Resistors, error) {
	var r Resistors
	var err error
	for i, v := range [2]physic.ElectricResistance{r1, r2} {
		code, _, e := units.EncodeResistance(v)
		if e != nil {
			err = multierr.Append(err, &ValidationError{
				Setting: fmt.Sprintf("resistor%d", i+1),
				Err:     e,
			})
			continue
		}
		r.codes[i] = code
	}
	if err != nil {
		return Resistors{}, err
	}
	return r, nil
}

// Resistor1 returns the applied resistor of the LED1 and Ambient1 phases.
func (r Resistors) Resistor1() physic.ElectricResistance {
	return units.DecodeResistance(r.codes[0])
}

// Resistor2 returns the applied resistor of the LED2 and Ambient2 or LED3
// phases.
func (r Resistors) Resistor2() physic.ElectricResistance {
	return units.DecodeResistance(r.codes[1])
}

// Capacitors holds the two TIA feedback capacitors, paired with the phases
// the same way as Resistors.
type Capacitors struct {
	codes [2]units.CapCode
}

// NewCapacitors selects the supported capacitors closest to c1 and c2.
func NewCapacitors(c1, c2 units.Capacitance) (Capacitors, error) {
	var c Capacitors
	var err error
	for i, v := range [2]units.Capacitance{c1, c2} {
		code, _, e := units.EncodeCapacitance(v)
		if e != nil {
			err = multierr.Append(err, &ValidationError{
				Setting: fmt.Sprintf("capacitor%d", i+1),
				Err:     e,
			})
			continue
		}
		c.codes[i] = code
	}
	if err != nil {
		return Capacitors{}, err
	}
	return c, nil
}

// Capacitor1 returns the applied capacitor of the LED1 and Ambient1 phases.
func (c Capacitors) Capacitor1() units.Capacitance {
	return units.DecodeCapacitance(c.codes[0])
}

// Capacitor2 returns the applied capacitor of the LED2 and Ambient2 or LED3
// phases.
func (c Capacitors) Capacitor2() units.Capacitance {
	return units.DecodeCapacitance(c.codes[1])
}
