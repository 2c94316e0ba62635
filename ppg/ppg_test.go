package ppg

import (
	"errors"
	"math"
	"testing"
	"time"

	"periph.io/x/periph/conn/physic"
)

const rate = 100 // samples/s

// pulse feeds m with n samples of a 1.25Hz (75 bpm) pulse and returns the
// time of the next sample.
func pulse(m *Monitor, start time.Time, n int) time.Time {
	t := start
	for i := 0; i < n; i++ {
		s := math.Sin(2 * math.Pi * 1.25 * float64(i) / rate)
		m.Add(t, 0.5+0.005*s, 0.5+0.01*s)
		t = t.Add(time.Second / rate)
	}
	return t
}

func TestHeartRate(t *testing.T) {
	m := NewMonitor(0)
	if _, err := m.HeartRate(); !errors.Is(err, ErrNotDetected) {
		t.Errorf("expected ErrNotDetected before any sample, got %v", err)
	}

	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	pulse(m, start, 60*rate)

	bpm, err := m.HeartRate()
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(bpm-75) > 1 {
		t.Errorf("HeartRate() = %.2f, want 75", bpm)
	}
}

func TestHeartRateNoBeat(t *testing.T) {
	m := NewMonitor(0)
	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	m.Add(start, 0.5, 0.5)
	if _, err := m.HeartRate(); !errors.Is(err, ErrNoBeat) {
		t.Errorf("expected ErrNoBeat, got %v", err)
	}
}

func TestHeartRateTooNoisy(t *testing.T) {
	m := NewMonitor(0)
	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	next := pulse(m, start, 30*rate)

	for i := 0; i < 8*rate; i++ {
		m.Add(next, 0.5, 0.5)
		next = next.Add(time.Second / rate)
	}
	if _, err := m.HeartRate(); !errors.Is(err, ErrTooNoisy) {
		t.Errorf("expected ErrTooNoisy, got %v", err)
	}
}

func TestSpO2(t *testing.T) {
	m := NewMonitor(0)
	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	pulse(m, start, 10*rate)

	got, err := m.SpO2()
	if err != nil {
		t.Fatal(err)
	}
	// R = (0.01/0.495) / (0.02/0.49)
	want := 104 - 17*(0.01/0.495)/(0.02/0.49)
	if math.Abs(got-want) > 0.1 {
		t.Errorf("SpO2() = %.2f, want %.2f", got, want)
	}
}

func TestNotDetected(t *testing.T) {
	m := NewMonitor(16)
	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	next := pulse(m, start, 10*rate)
	m.Add(next, 0.02, 0.03)

	if _, err := m.HeartRate(); !errors.Is(err, ErrNotDetected) {
		t.Errorf("HeartRate(): expected ErrNotDetected, got %v", err)
	}
	if _, err := m.SpO2(); !errors.Is(err, ErrNotDetected) {
		t.Errorf("SpO2(): expected ErrNotDetected, got %v", err)
	}

	m.Reset()
	if _, err := m.SpO2(); !errors.Is(err, ErrNotDetected) {
		t.Errorf("SpO2() after Reset: expected ErrNotDetected, got %v", err)
	}
}

func TestNormalize(t *testing.T) {
	if got := Normalize(600 * physic.MilliVolt); got != 0.5 {
		t.Errorf("Normalize(600mV) = %v, want 0.5", got)
	}
}

func TestRatio(t *testing.T) {
	r := newRatio(4)
	for _, v := range []float64{4, 1, 2} {
		r.add(v, v)
	}
	if r.value() != 0 {
		t.Fatalf("value() = %v before a complete window, want 0", r.value())
	}
	r.add(3, 3)
	if r.red != (span{1, 4}) {
		t.Fatalf("red span = %+v, want 1..4", r.red)
	}
	if r.value() != 1 {
		t.Errorf("value() = %v, want 1", r.value())
	}

	// 1..3 red (perfusion 2) against 2..3 infrared (0.5)
	for _, v := range [][2]float64{{1, 2}, {3, 3}, {2, 2}, {2, 2}} {
		r.add(v[0], v[1])
	}
	if r.value() != 4 {
		t.Errorf("value() = %v, want 4", r.value())
	}

	r.reset()
	if r.value() != 0 {
		t.Errorf("value() = %v after reset, want 0", r.value())
	}
}

func TestSpO2Warmup(t *testing.T) {
	m := NewMonitor(0)
	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	pulse(m, start, DefaultWindow-1)

	if got, err := m.SpO2(); err != nil || got != 0 {
		t.Errorf("SpO2() = %v, %v before a complete window, want 0", got, err)
	}
}

func TestFIRGain(t *testing.T) {
	var f fir
	var z float64
	for i := 0; i < firRing; i++ {
		z = f.lowPass(1)
	}
	var want float64
	for i, c := range firTaps {
		if i == firCentre {
			want += c
		} else {
			want += 2 * c
		}
	}
	if z != want {
		t.Errorf("DC gain = %v, want %v", z, want)
	}
}
