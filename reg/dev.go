// Package reg describes the AFE4404 register map and moves 24-bit register
// words over I²C.
//
// Every register holds three data bytes sent MSB first after the register
// address. Configuration registers can only be read back while the REG_READ
// bit of register 0x00 is set, and writes are ignored by the chip during
// that time, so Dev brackets such reads with the enable and disable writes.
//
// Errors returned by the bus are passed through untouched so callers can
// compare them against the errors of their transport.
package reg

import (
	"periph.io/x/periph/conn/i2c"
)

// Op is a single register write.
type Op struct {
	Reg  byte
	Word Word
}

// Dev defines the register interface of an AFE4404 device.
type Dev struct {
	dev *i2c.Dev
}

// New returns a register interface for the device at addr on bus. An
// address of 0 selects the default address (0x58).
func New(bus i2c.Bus, addr uint16) *Dev {
	if addr == 0 {
		addr = Addr
	}
	return &Dev{
		dev: &i2c.Dev{
			Addr: addr,
			Bus:  bus,
		},
	}
}

// Addr returns the I²C address of the device.
func (d *Dev) Addr() uint16 {
	return d.dev.Addr
}

// Write writes a word to a register.
func (d *Dev) Write(reg byte, w Word) error {
	b := w.Bytes()
	return d.dev.Tx([]byte{reg, b[0], b[1], b[2]}, nil)
}

// WriteAll writes ops in order and stops at the first failure. Registers
// written before the failure keep their new content.
func (d *Dev) WriteAll(ops ...Op) error {
	for _, op := range ops {
		if err := d.Write(op.Reg, op.Word); err != nil {
			return err
		}
	}
	return nil
}

// Read reads a single register.
func (d *Dev) Read(reg byte) (Word, error) {
	w, err := d.ReadMany(reg)
	if err != nil {
		return 0, err
	}
	return w[0], nil
}

// ReadMany reads regs in order. Register readback is enabled once for the
// whole group when any of them needs it, and disabled again even when a read
// fails; the first error is returned.
func (d *Dev) ReadMany(regs ...byte) ([]Word, error) {
	enable := false
	for _, r := range regs {
		if NeedsReadEnable(r) {
			enable = true
			break
		}
	}

	if enable {
		if err := d.Write(Diag, RegRead.Flag(0, true)); err != nil {
			return nil, err
		}
	}

	words, err := d.read(regs)

	if enable {
		// The chip drops every write until REG_READ is cleared.
		if e := d.Write(Diag, 0); err == nil {
			err = e
		}
	}
	if err != nil {
		return nil, err
	}
	return words, nil
}

func (d *Dev) read(regs []byte) ([]Word, error) {
	words := make([]Word, len(regs))
	b := make([]byte, WordSize)
	for i, r := range regs {
		if err := d.dev.Tx([]byte{r}, b); err != nil {
			return nil, err
		}
		words[i] = WordFromBytes(b)
	}
	return words, nil
}
