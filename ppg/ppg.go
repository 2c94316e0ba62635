// Package ppg estimates heart rate and SpO2 from photoplethysmography
// samples, such as the red and infrared readings of an AFE4404.
//
// A Monitor is fed timestamped samples and never blocks; HeartRate and SpO2
// report the running estimates.
package ppg

import (
	"errors"
	"time"

	"github.com/cgxeiji/afe4404/units"
	"periph.io/x/periph/conn/physic"
)

var (
	// ErrNotDetected is returned when nothing is placed on the sensor (e.g.
	// no finger covers the LEDs).
	ErrNotDetected = errors.New("ppg: nothing detected on the sensor")
	// ErrNoBeat is returned by HeartRate until two beats have been seen.
	ErrNoBeat = errors.New("ppg: no heart beat detected yet")
	// ErrTooNoisy is returned when no valid beat has been found for longer
	// than the slowest supported heart rate (e.g. ambient light, moving
	// finger, etc.).
	ErrTooNoisy = errors.New("ppg: data has too much noise")
)

const (
	// Threshold is the normalized level below which the sensor is considered
	// uncovered.
	Threshold = 0.10

	// Beat intervals outside 238ms..6s (250 to 10 bpm) are discarded.
	minBeat = 238 * time.Millisecond
	maxBeat = 6 * time.Second

	// DefaultWindow is the number of samples in each SpO2 window, about a
	// second and a quarter at 100 samples/s.
	DefaultWindow = 128
)

// Normalize scales an ADC voltage to the 0.0 - 1.0 range Monitor expects.
func Normalize(v physic.ElectricPotential) float64 {
	return float64(v) / float64(units.ADCFullScale)
}

// Monitor tracks the heart rate and SpO2 of a red and infrared pulse.
type Monitor struct {
	beat  *beat
	ratio *ratio

	contact  bool
	last     time.Time
	lastBeat time.Time

	span movingAverage
	spo2 movingAverage
}

// NewMonitor returns a Monitor computing SpO2 over windows of the given
// number of samples. A window of 0 selects DefaultWindow.
func NewMonitor(window int) *Monitor {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Monitor{
		beat:  newBeat(),
		ratio: newRatio(window),
		span:  movingAverage{weight: 4},
		spo2:  movingAverage{weight: 4},
	}
}

// Add feeds a pair of normalized (0.0 - 1.0) samples taken at t. It reports
// whether the sample completes a heart beat.
func (m *Monitor) Add(t time.Time, red, ir float64) bool {
	m.last = t

	if red < Threshold || ir < Threshold {
		if m.contact {
			m.contact = false
			m.beat.reset()
			m.ratio.reset()
			m.span.reset()
			m.spo2.reset()
			m.lastBeat = time.Time{}
		}
		return false
	}
	m.contact = true
	m.ratio.add(red, ir)

	if !m.beat.check(red) {
		return false
	}
	if !m.lastBeat.IsZero() {
		if d := t.Sub(m.lastBeat); d >= minBeat && d <= maxBeat {
			m.span.prime(float64(d.Milliseconds()))
		}
	}
	m.lastBeat = t
	return true
}

// HeartRate returns the current heart rate in beats per minute.
func (m *Monitor) HeartRate() (float64, error) {
	if !m.contact {
		return 0, ErrNotDetected
	}
	if !m.lastBeat.IsZero() && m.last.Sub(m.lastBeat) > maxBeat {
		m.span.reset()
		return 0, ErrTooNoisy
	}
	if m.span.mean == 0 {
		return 0, ErrNoBeat
	}
	return 60000 / m.span.mean, nil
}

// SpO2 returns the SpO2 value in 100%, estimated from the ratio of the
// pulsatile part of the red and infrared signals over the last complete
// window. Each call folds that ratio into a running average, and 0 is
// returned until a window is complete.
func (m *Monitor) SpO2() (float64, error) {
	if !m.contact {
		return 0, ErrNotDetected
	}

	r := m.ratio.value()
	if r == 0 {
		return 0, nil
	}
	spo2 := 104 - 17*r
	if spo2 <= 0 {
		return 0, nil
	}

	m.spo2.prime(spo2)
	return m.spo2.mean, nil
}

// Reset clears the estimates and the sample history.
func (m *Monitor) Reset() {
	m.beat.reset()
	m.ratio.reset()
	m.span.reset()
	m.spo2.reset()
	m.contact = false
	m.last, m.lastBeat = time.Time{}, time.Time{}
}
