package afe4404

import (
	"github.com/cgxeiji/afe4404/reg"
	"github.com/cgxeiji/afe4404/units"
)

// separate reports whether the TIA needs separate gain settings for the two
// stages: it does as soon as either the resistors or the capacitors differ.
func separate(sep, main reg.Word) bool {
	return reg.GainSep.Get(sep) != reg.Gain.Get(main) || reg.CfSep.Get(sep) != reg.Cf.Get(main)
}

// SetTIAResistors sets the gain resistors of the TIA.
func (d *Device) SetTIAResistors(r Resistors) error {
	w, err := d.regs.ReadMany(reg.TIAGainSep, reg.TIAGain)
	if err != nil {
		return err
	}

	sep := reg.GainSep.Set(w[0], uint32(r.codes[1]))
	main := reg.Gain.Set(w[1], uint32(r.codes[0]))
	sep = reg.EnSepGain.Flag(sep, separate(sep, main))

	return d.regs.WriteAll(
		reg.Op{Reg: reg.TIAGainSep, Word: sep},
		reg.Op{Reg: reg.TIAGain, Word: main},
	)
}

// TIAResistors reads back the gain resistors of the TIA. While separate gains
// are disabled, the LED2 and Ambient2 or LED3 phases use resistor 1 as well.
func (d *Device) TIAResistors() (Resistors, error) {
	w, err := d.regs.ReadMany(reg.TIAGainSep, reg.TIAGain)
	if err != nil {
		return Resistors{}, err
	}

	var r Resistors
	r.codes[0] = units.GainCode(reg.Gain.Get(w[1]))
	r.codes[1] = r.codes[0]
	if reg.EnSepGain.Bit(w[0]) {
		r.codes[1] = units.GainCode(reg.GainSep.Get(w[0]))
	}
	return r, nil
}

// SetTIACapacitors sets the feedback capacitors of the TIA.
func (d *Device) SetTIACapacitors(c Capacitors) error {
	w, err := d.regs.ReadMany(reg.TIAGainSep, reg.TIAGain)
	if err != nil {
		return err
	}

	sep := reg.CfSep.Set(w[0], uint32(c.codes[1]))
	main := reg.Cf.Set(w[1], uint32(c.codes[0]))
	sep = reg.EnSepGain.Flag(sep, separate(sep, main))

	return d.regs.WriteAll(
		reg.Op{Reg: reg.TIAGainSep, Word: sep},
		reg.Op{Reg: reg.TIAGain, Word: main},
	)
}

// TIACapacitors reads back the feedback capacitors of the TIA.
func (d *Device) TIACapacitors() (Capacitors, error) {
	w, err := d.regs.ReadMany(reg.TIAGainSep, reg.TIAGain)
	if err != nil {
		return Capacitors{}, err
	}

	var c Capacitors
	c.codes[0] = units.CapCode(reg.Cf.Get(w[1]))
	c.codes[1] = c.codes[0]
	if reg.EnSepGain.Bit(w[0]) {
		c.codes[1] = units.CapCode(reg.CfSep.Get(w[0]))
	}
	return c, nil
}
