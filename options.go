package afe4404

import "periph.io/x/periph/conn/physic"

// An Option configures how Open finds the device.
type Option func(o *openOptions) Option

type openOptions struct {
	bus   string
	addr  uint16
	clock physic.Frequency
}

// OnBus selects the I²C bus Open passes to i2creg, such as "/dev/i2c-1" or
// "1". The empty name picks the first bus registered on the host.
func OnBus(name string) Option {
	return func(o *openOptions) Option {
		old := o.bus
		o.bus = name
		return OnBus(old)
	}
}

// OnAddr overrides the device address. The AFE4404 answers on 0x58 only, but
// an address translator may move it.
func OnAddr(addr uint16) Option {
	return func(o *openOptions) Option {
		old := o.addr
		o.addr = addr
		return OnAddr(old)
	}
}

// WithClock sets the reference clock of the chip when it runs from an
// external clock. By default, the internal 4MHz oscillator is assumed.
func WithClock(f physic.Frequency) Option {
	return func(o *openOptions) Option {
		old := o.clock
		o.clock = f
		return WithClock(old)
	}
}
