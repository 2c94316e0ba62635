package afe4404

import (
	"fmt"

	"github.com/cgxeiji/afe4404/reg"
	"github.com/cgxeiji/afe4404/units"
	"periph.io/x/periph/conn/physic"
)

// ClockSource is the origin of the clock of the chip.
type ClockSource int

// Clock sources.
const (
	// Internal runs from the 4MHz oscillator.
	Internal ClockSource = iota
	// InternalOutput runs from the 4MHz oscillator and drives a divided copy
	// of it on the CLK pin.
	InternalOutput
	// External runs from a clock fed to the CLK pin.
	External
)

func (s ClockSource) String() string {
	switch s {
	case Internal:
		return "internal"
	case InternalOutput:
		return "internal with output"
	case External:
		return "external"
	}
	return fmt.Sprintf("ClockSource(%d)", int(s))
}

// Clock configures the clock of the chip. It is created by InternalClock,
// InternalClockOutput or ExternalClock.
type Clock struct {
	source    ClockSource
	frequency physic.Frequency
	output    units.ClkOutCode
	extDiv    units.ExtDivCode
	ratio     int
}

// InternalClock runs the chip from its internal oscillator.
func InternalClock() Clock {
	return Clock{source: Internal, frequency: units.InternalClock, ratio: 1}
}

// InternalClockOutput runs the chip from its internal oscillator and outputs
// the oscillator divided by division (a power of two from 1 to 128) on the
// CLK pin.
func InternalClockOutput(division int) (Clock, error) {
	code, err := units.EncodeClockOutput(division)
	if err != nil {
		return Clock{}, &ValidationError{Setting: "clock output division", Err: err}
	}
	return Clock{
		source:    InternalOutput,
		frequency: units.InternalClock,
		output:    code,
		ratio:     1,
	}, nil
}

// ExternalClock runs the chip from a clock of frequency f fed to the CLK pin.
// f must be between 4MHz and 60MHz, and the chip must be able to divide it
// down to 4..6MHz.
func ExternalClock(f physic.Frequency) (Clock, error) {
	code, ratio, err := units.EncodeExternalClock(f)
	if err != nil {
		return Clock{}, &ValidationError{Setting: "external clock", Err: err}
	}
	return Clock{
		source:    External,
		frequency: f,
		extDiv:    code,
		ratio:     ratio,
	}, nil
}

// Source returns the clock source.
func (c Clock) Source() ClockSource {
	return c.source
}

// Frequency returns the frequency the chip runs from.
func (c Clock) Frequency() physic.Frequency {
	return c.frequency
}

// Division returns the CLK pin division ratio of an InternalOutput clock, or
// 0 for other sources.
func (c Clock) Division() int {
	if c.source != InternalOutput {
		return 0
	}
	return units.DecodeClockOutput(c.output)
}

// Ratio returns the division applied to the clock before it reaches the
// timing engine.
func (c Clock) Ratio() int {
	return c.ratio
}

func (c Clock) String() string {
	switch c.source {
	case InternalOutput:
		return fmt.Sprintf("%s %s, /%d on CLK", c.source, c.frequency, c.Division())
	case External:
		return fmt.Sprintf("%s %s /%d", c.source, c.frequency, c.ratio)
	}
	return fmt.Sprintf("%s %s", c.source, c.frequency)
}

// SetClockSource selects the clock of the chip. The clock must match the
// reference clock the device was created with; the oscillator is switched
// last, once the dividers are in place.
func (d *Device) SetClockSource(c Clock) error {
	switch c.source {
	case Internal, InternalOutput:
		if d.clock != units.InternalClock {
			return fmt.Errorf("%w: internal oscillator with a %s reference clock", ErrClockMismatch, d.clock)
		}
	case External:
		if c.frequency != d.clock {
			return fmt.Errorf("%w: %s external clock with a %s reference clock", ErrClockMismatch, c.frequency, d.clock)
		}
	default:
		return &ValidationError{Setting: "clock source", Err: fmt.Errorf("%s: %w", c.source, units.ErrUnsupported)}
	}

	internal := c.source != External
	ctrl, err := d.regs.ReadMany(reg.Control3, reg.Control2)
	if err != nil {
		return err
	}

	if !internal {
		if err := d.regs.Write(reg.Control3, reg.ClkDivExtMode.Set(ctrl[0], uint32(c.extDiv))); err != nil {
			return err
		}
	}

	var out reg.Word
	if c.source == InternalOutput {
		out = reg.EnableClkOut.Flag(out, true)
		out = reg.ClkDivClkOut.Set(out, uint32(c.output))
	}
	return d.regs.WriteAll(
		reg.Op{Reg: reg.ClkOut, Word: out},
		reg.Op{Reg: reg.Control2, Word: reg.OscEnable.Flag(ctrl[1], internal)},
	)
}

// ClockSource reads back the clock configuration of the chip.
func (d *Device) ClockSource() (Clock, error) {
	w, err := d.regs.ReadMany(reg.Control2, reg.ClkOut, reg.Control3)
	if err != nil {
		return Clock{}, err
	}

	if !reg.OscEnable.Bit(w[0]) {
		code := units.ExtDivCode(reg.ClkDivExtMode.Get(w[2]))
		ratio := units.DecodeExternalClock(code)
		if ratio == 0 {
			return Clock{}, fmt.Errorf("%w: CLKDIV_EXTMODE %d", ErrInvalidRegister, code)
		}
		return Clock{source: External, frequency: d.clock, extDiv: code, ratio: ratio}, nil
	}

	if !reg.EnableClkOut.Bit(w[1]) {
		return InternalClock(), nil
	}
	code := units.ClkOutCode(reg.ClkDivClkOut.Get(w[1]))
	if units.DecodeClockOutput(code) == 0 {
		return Clock{}, fmt.Errorf("%w: CLKDIV_CLKOUT %d", ErrInvalidRegister, code)
	}
	return Clock{source: InternalOutput, frequency: units.InternalClock, output: code, ratio: 1}, nil
}
