// Package tinygobus adapts a TinyGo I²C bus (tinygo.org/x/drivers.I2C, as
// implemented by machine.I2C) to the periph.io i2c.Bus interface, so the
// afe4404 package can drive the chip from a microcontroller.
package tinygobus

import (
	"errors"

	"periph.io/x/periph/conn/i2c"
	"periph.io/x/periph/conn/physic"
	"tinygo.org/x/drivers"
)

// ErrSpeed is returned by SetSpeed when the underlying bus cannot change its
// clock after it has been configured.
var ErrSpeed = errors.New("tinygobus: bus speed cannot be changed")

var _ i2c.Bus = (*Bus)(nil)

// Bus wraps a TinyGo I²C bus.
type Bus struct {
	bus  drivers.I2C
	name string
}

// New wraps bus. name is only used by String.
func New(bus drivers.I2C, name string) *Bus {
	if name == "" {
		name = "tinygo-i2c"
	}
	return &Bus{bus: bus, name: name}
}

func (b *Bus) String() string {
	return b.name
}

// Tx forwards the transaction to the TinyGo bus. Errors are returned as is.
func (b *Bus) Tx(addr uint16, w, r []byte) error {
	return b.bus.Tx(addr, w, r)
}

// SetSpeed changes the bus clock when the TinyGo bus supports it
// (machine.I2C.SetBaudRate).
func (b *Bus) SetSpeed(f physic.Frequency) error {
	s, ok := b.bus.(interface{ SetBaudRate(br uint32) error })
	if !ok {
		return ErrSpeed
	}
	return s.SetBaudRate(uint32(f / physic.Hertz))
}
