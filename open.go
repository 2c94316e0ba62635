package afe4404

import (
	"fmt"

	"github.com/cgxeiji/afe4404/units"
	"periph.io/x/periph/conn/i2c/i2creg"
	"periph.io/x/periph/host"
)

// Open initializes the host, opens an I²C bus and returns a device on it. The
// bus is released by Device.Close.
func Open(mode Mode, opts ...Option) (*Device, error) {
	o := &openOptions{clock: units.InternalClock}
	for _, opt := range opts {
		opt(o)
	}

	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("afe4404: could not initialize host: %w", err)
	}

	bus, err := i2creg.Open(o.bus)
	if err != nil {
		return nil, fmt.Errorf("afe4404: could not open I2C bus: %w", err)
	}

	d, err := New(bus, o.addr, o.clock, mode)
	if err != nil {
		bus.Close()
		return nil, err
	}
	d.bus = bus

	return d, nil
}
