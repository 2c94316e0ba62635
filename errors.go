package afe4404

import (
	"errors"
	"fmt"
)

var (
	// ErrModeMismatch is returned when a configuration does not have the
	// channel layout of the device mode.
	ErrModeMismatch = errors.New("afe4404: configuration does not match the LED mode")
	// ErrClockMismatch is returned when a clock configuration cannot run from
	// the reference clock the device was created with.
	ErrClockMismatch = errors.New("afe4404: clock configuration does not match the reference clock")
	// ErrInvalidRegister is returned by getters when a register holds a code
	// the datasheet marks as reserved.
	ErrInvalidRegister = errors.New("afe4404: register holds a reserved value")
	// ErrInvalidMode is returned by New for modes other than TwoLEDs and
	// ThreeLEDs.
	ErrInvalidMode = errors.New("afe4404: unknown LED mode")
)

// ValidationError is returned when a configuration value is outside what the
// chip supports. Nothing is written to the device when it occurs.
type ValidationError struct {
	// Setting names the rejected value (e.g. "LED2 current").
	Setting string
	Err     error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("afe4404: invalid %s: %v", e.Setting, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func (d *Device) checkMode(setting string, leds int) error {
	if leds != d.mode.LEDs() {
		return fmt.Errorf("%w: %s for %d LEDs, device runs %s", ErrModeMismatch, setting, leds, d.mode)
	}
	return nil
}
