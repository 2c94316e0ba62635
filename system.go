package afe4404

import (
	"fmt"

	"github.com/cgxeiji/afe4404/reg"
	"github.com/cgxeiji/afe4404/units"
)

// Reset resets every register of the chip to its default value.
func (d *Device) Reset() error {
	return d.regs.Write(reg.Diag, reg.SWReset.Flag(0, true))
}

// ResetCounter holds the timing engine counter in reset until
// ResetCounter(false) is called.
func (d *Device) ResetCounter(hold bool) error {
	return d.regs.Write(reg.Diag, reg.TMCountRst.Flag(0, hold))
}

func (d *Device) setFlag(f reg.Field, on bool) error {
	w, err := d.regs.Read(f.Reg)
	if err != nil {
		return err
	}
	return d.regs.Write(f.Reg, f.Flag(w, on))
}

func (d *Device) flag(f reg.Field) (bool, error) {
	w, err := d.regs.Read(f.Reg)
	if err != nil {
		return false, err
	}
	return f.Bit(w), nil
}

// PowerDown powers down the whole chip. Register content is kept.
func (d *Device) PowerDown() error {
	return d.setFlag(reg.PDNAFE, true)
}

// PowerUp wakes the chip from PowerDown.
func (d *Device) PowerUp() error {
	return d.setFlag(reg.PDNAFE, false)
}

// PowerDownRX powers down the receiver (TIA and ADC) only.
func (d *Device) PowerDownRX() error {
	return d.setFlag(reg.PDNRX, true)
}

// PowerUpRX wakes the receiver from PowerDownRX.
func (d *Device) PowerUpRX() error {
	return d.setFlag(reg.PDNRX, false)
}

// Dynamic selects the blocks that are powered down during the power-down
// interval of the measurement window.
type Dynamic struct {
	Transmitter bool
	ADC         bool
	TIA         bool
	RestOfADC   bool
}

// SetDynamic selects the blocks powered down during the power-down interval.
func (d *Device) SetDynamic(c Dynamic) error {
	w, err := d.regs.Read(reg.Control2)
	if err != nil {
		return err
	}
	w = reg.Dynamic1.Flag(w, c.Transmitter)
	w = reg.Dynamic2.Flag(w, c.ADC)
	w = reg.Dynamic3.Flag(w, c.TIA)
	w = reg.Dynamic4.Flag(w, c.RestOfADC)
	return d.regs.Write(reg.Control2, w)
}

// Dynamic reads back the blocks powered down during the power-down interval.
func (d *Device) Dynamic() (Dynamic, error) {
	w, err := d.regs.Read(reg.Control2)
	if err != nil {
		return Dynamic{}, err
	}
	return Dynamic{
		Transmitter: reg.Dynamic1.Bit(w),
		ADC:         reg.Dynamic2.Bit(w),
		TIA:         reg.Dynamic3.Bit(w),
		RestOfADC:   reg.Dynamic4.Bit(w),
	}, nil
}

// SetPhotodiode connects or disconnects the photodiode from the TIA inputs.
func (d *Device) SetPhotodiode(connected bool) error {
	return d.setFlag(reg.PDDisconnect, !connected)
}

// Photodiode reports whether the photodiode is connected to the TIA inputs.
func (d *Device) Photodiode() (bool, error) {
	disconnected, err := d.flag(reg.PDDisconnect)
	return !disconnected, err
}

// SetInputShort shorts the TIA inputs to VCM while the TIA is powered down.
func (d *Device) SetInputShort(on bool) error {
	return d.setFlag(reg.EnableInputShort, on)
}

// SetAveraging sets the number of ADC conversions (1 to 16) averaged in each
// phase.
func (d *Device) SetAveraging(n int) error {
	code, err := units.EncodeAveraging(n)
	if err != nil {
		return &ValidationError{Setting: "averaging", Err: err}
	}
	w, err := d.regs.Read(reg.TimerCtrl)
	if err != nil {
		return err
	}
	return d.regs.Write(reg.TimerCtrl, reg.NumAv.Set(w, uint32(code)))
}

// Averaging reads back the number of ADC conversions averaged in each phase.
func (d *Device) Averaging() (int, error) {
	w, err := d.regs.Read(reg.TimerCtrl)
	if err != nil {
		return 0, err
	}
	return units.DecodeAveraging(units.AvgCode(reg.NumAv.Get(w))), nil
}

// SetDecimation sets the decimation factor of the difference registers read
// by ReadAveraged. A factor of 1 disables decimation.
func (d *Device) SetDecimation(n int) error {
	code, err := units.EncodeDecimation(n)
	if err != nil {
		return &ValidationError{Setting: "decimation", Err: err}
	}
	w, err := d.regs.Read(reg.Decimation)
	if err != nil {
		return err
	}
	w = reg.DecEn.Flag(w, n > 1)
	w = reg.DecFactor.Set(w, uint32(code))
	return d.regs.Write(reg.Decimation, w)
}

// Decimation reads back the decimation factor.
func (d *Device) Decimation() (int, error) {
	w, err := d.regs.Read(reg.Decimation)
	if err != nil {
		return 0, err
	}
	if !reg.DecEn.Bit(w) {
		return 1, nil
	}
	code := units.DecCode(reg.DecFactor.Get(w))
	n := units.DecodeDecimation(code)
	if n == 0 {
		return 0, fmt.Errorf("%w: DEC_FACTOR %d", ErrInvalidRegister, code)
	}
	return n, nil
}
