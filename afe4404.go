// Package afe4404 drives the TI AFE4404 optical analog front end used for
// heart rate and SpO2 measurements.
//
// All settings are given in physical units from periph.io/x/periph/conn/physic
// and quantized to the closest value the chip supports. Configurations are
// validated when they are created, so a Device only ever writes values the
// chip accepts.
//
// A Device is not safe for concurrent use. Setters that touch more than one
// register issue the writes back to back; they are not atomic on the chip.
package afe4404

import (
	"fmt"

	"github.com/cgxeiji/afe4404/reg"
	"github.com/cgxeiji/afe4404/units"
	"periph.io/x/periph/conn/i2c"
	"periph.io/x/periph/conn/physic"
)

// Device defines an AFE4404 device.
type Device struct {
	regs *reg.Dev
	mode Mode

	// clock is the frequency of the clock the chip runs from, engine the
	// frequency that reaches the timing engine after the external divider.
	clock  physic.Frequency
	engine physic.Frequency

	bus i2c.BusCloser
}

// New returns a device on bus. An address of 0 selects the default address
// (0x58). clock is the frequency of the reference clock of the chip: 4MHz for
// the internal oscillator, or the frequency fed to the CLK pin. New does not
// talk to the chip.
func New(bus i2c.Bus, addr uint16, clock physic.Frequency, mode Mode) (*Device, error) {
	if !mode.valid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidMode, mode)
	}
	_, ratio, err := units.EncodeExternalClock(clock)
	if err != nil {
		return nil, &ValidationError{Setting: "reference clock", Err: err}
	}

	return &Device{
		regs:   reg.New(bus, addr),
		mode:   mode,
		clock:  clock,
		engine: clock / physic.Frequency(ratio),
	}, nil
}

// Mode returns the LED mode of the device.
func (d *Device) Mode() Mode {
	return d.mode
}

// Clock returns the reference clock of the device.
func (d *Device) Clock() physic.Frequency {
	return d.clock
}

// Addr returns the I²C address of the device.
func (d *Device) Addr() uint16 {
	return d.regs.Addr()
}

// Close releases the bus when the device was created with Open.
func (d *Device) Close() error {
	if d.bus == nil {
		return nil
	}
	return d.bus.Close()
}
