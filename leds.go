package afe4404

import (
	"github.com/cgxeiji/afe4404/reg"
	"github.com/cgxeiji/afe4404/units"
)

// SetLEDsCurrent sets the drive current of every LED.
func (d *Device) SetLEDsCurrent(c LEDCurrents) error {
	if err := d.checkMode("LED currents", c.Len()); err != nil {
		return err
	}

	ctrl, err := d.regs.Read(reg.Control2)
	if err != nil {
		return err
	}

	var w reg.Word
	for i, code := range c.codes {
		w = reg.ILED(i+1).Set(w, uint32(code))
	}

	return d.regs.WriteAll(
		reg.Op{Reg: reg.LEDCurrent, Word: w},
		reg.Op{Reg: reg.Control2, Word: reg.ILED2x.Flag(ctrl, c.fullScale == units.LEDFullScale2x)},
	)
}

// LEDsCurrent reads back the drive current of every LED.
func (d *Device) LEDsCurrent() (LEDCurrents, error) {
	w, err := d.regs.ReadMany(reg.LEDCurrent, reg.Control2)
	if err != nil {
		return LEDCurrents{}, err
	}

	fs := units.LEDFullScale
	if reg.ILED2x.Bit(w[1]) {
		fs = units.LEDFullScale2x
	}
	c := LEDCurrents{
		codes:     make([]units.LEDCode, d.mode.LEDs()),
		fullScale: fs,
	}
	for i := range c.codes {
		c.codes[i] = units.LEDCode(reg.ILED(i + 1).Get(w[0]))
	}
	return c, nil
}

// offsetFields returns the offset DAC fields of the LED and ambient phases,
// in the order used by OffsetCurrents.
func (d *Device) offsetFields() (leds, ambient []reg.Field) {
	if d.mode == ThreeLEDs {
		return []reg.Field{reg.OffDACLED1, reg.OffDACLED2, reg.OffDACAmb2},
			[]reg.Field{reg.OffDACAmb1}
	}
	return []reg.Field{reg.OffDACLED1, reg.OffDACLED2},
		[]reg.Field{reg.OffDACAmb1, reg.OffDACAmb2}
}

// SetOffsetCurrent sets the offset cancellation current of every phase.
func (d *Device) SetOffsetCurrent(o OffsetCurrents) error {
	if err := d.checkMode("offset currents", o.Len()); err != nil {
		return err
	}

	leds, ambient := d.offsetFields()
	var w reg.Word
	for i, f := range leds {
		w = f.Set(w, uint32(o.leds[i]))
	}
	for i, f := range ambient {
		w = f.Set(w, uint32(o.ambient[i]))
	}
	return d.regs.Write(reg.OffsetDAC, w)
}

// OffsetCurrent reads back the offset cancellation current of every phase.
func (d *Device) OffsetCurrent() (OffsetCurrents, error) {
	w, err := d.regs.Read(reg.OffsetDAC)
	if err != nil {
		return OffsetCurrents{}, err
	}

	leds, ambient := d.offsetFields()
	get := func(fields []reg.Field) []units.OffsetCode {
		out := make([]units.OffsetCode, len(fields))
		for i, f := range fields {
			out[i] = units.OffsetCode(f.Get(w))
		}
		return out
	}
	return OffsetCurrents{leds: get(leds), ambient: get(ambient)}, nil
}
