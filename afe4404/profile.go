package main

import (
	"fmt"
	"math"
	"os"

	"github.com/cgxeiji/afe4404"
	"github.com/cgxeiji/afe4404/units"
	"gopkg.in/yaml.v3"
	"periph.io/x/periph/conn/physic"
)

// Profile is the front end configuration loaded from a YAML file.
type Profile struct {
	Bus     string `yaml:"bus"`
	Address uint16 `yaml:"address"`
	// Mode is "two" or "three".
	Mode  string      `yaml:"mode"`
	Clock ClockConfig `yaml:"clock"`

	LEDs       []float64     `yaml:"leds_ma"`
	Offsets    OffsetsConfig `yaml:"offsets_ua"`
	Resistors  []float64     `yaml:"resistors_kohm"`
	Capacitors []float64     `yaml:"capacitors_pf"`
	Dynamic    bool          `yaml:"dynamic"`
	Averaging  int           `yaml:"averaging"`
	Decimation int           `yaml:"decimation"`

	// Red and IR are the LED channels (1-based) fed to the pulse monitor.
	Red int `yaml:"red"`
	IR  int `yaml:"ir"`
}

// ClockConfig selects the clock of the chip.
type ClockConfig struct {
	// Source is "internal", "output" or "external".
	Source       string  `yaml:"source"`
	FrequencyMHz float64 `yaml:"frequency_mhz"`
	Division     int     `yaml:"division"`
}

// OffsetsConfig holds the offset cancellation currents.
type OffsetsConfig struct {
	LEDs    []float64 `yaml:"leds"`
	Ambient []float64 `yaml:"ambient"`
}

// DefaultProfile returns a three LEDs profile suited to a finger sensor with
// a green LED on channel 2, red on 3 and infrared on 1.
func DefaultProfile() *Profile {
	return &Profile{
		Mode:  "three",
		Clock: ClockConfig{Source: "internal", FrequencyMHz: 4},
		LEDs:  []float64{30, 2, 2},
		Offsets: OffsetsConfig{
			LEDs:    []float64{-1.5, -3, -3},
			Ambient: []float64{0},
		},
		Resistors:  []float64{50, 50},
		Capacitors: []float64{5, 5},
		Dynamic:    true,
		Averaging:  1,
		Decimation: 1,
		Red:        3,
		IR:         1,
	}
}

// Load reads a profile from path. Missing fields keep their default value.
func Load(path string) (*Profile, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	p := DefaultProfile()
	if err := yaml.Unmarshal(b, p); err != nil {
		return nil, fmt.Errorf("profile %s: %w", path, err)
	}
	return p, nil
}

// LEDMode returns the mode selected by the profile.
func (p *Profile) LEDMode() (afe4404.Mode, error) {
	switch p.Mode {
	case "two", "2":
		return afe4404.TwoLEDs, nil
	case "three", "3":
		return afe4404.ThreeLEDs, nil
	}
	return 0, fmt.Errorf("unknown mode %q", p.Mode)
}

// Reference returns the reference clock of the chip.
func (p *Profile) Reference() physic.Frequency {
	if p.Clock.Source != "external" {
		return units.InternalClock
	}
	return physic.Frequency(math.Round(p.Clock.FrequencyMHz * float64(physic.MegaHertz)))
}

func (p *Profile) clock() (afe4404.Clock, error) {
	switch p.Clock.Source {
	case "", "internal":
		return afe4404.InternalClock(), nil
	case "output":
		return afe4404.InternalClockOutput(p.Clock.Division)
	case "external":
		return afe4404.ExternalClock(p.Reference())
	}
	return afe4404.Clock{}, fmt.Errorf("unknown clock source %q", p.Clock.Source)
}

func currents(v []float64, unit physic.ElectricCurrent) []physic.ElectricCurrent {
	out := make([]physic.ElectricCurrent, len(v))
	for i, x := range v {
		out[i] = physic.ElectricCurrent(math.Round(x * float64(unit)))
	}
	return out
}

func pair(v []float64, what string) (a, b float64, err error) {
	if len(v) != 2 {
		return 0, 0, fmt.Errorf("%s: got %d values, want 2", what, len(v))
	}
	return v[0], v[1], nil
}

// Apply resets the chip and configures it with the profile.
func (p *Profile) Apply(d *afe4404.Device) error {
	leds, err := afe4404.NewLEDCurrents(currents(p.LEDs, physic.MilliAmpere)...)
	if err != nil {
		return err
	}
	offsets, err := afe4404.NewOffsetCurrents(
		currents(p.Offsets.LEDs, physic.MicroAmpere),
		currents(p.Offsets.Ambient, physic.MicroAmpere),
	)
	if err != nil {
		return err
	}
	r1, r2, err := pair(p.Resistors, "resistors")
	if err != nil {
		return err
	}
	res, err := afe4404.NewResistors(
		physic.ElectricResistance(math.Round(r1*float64(physic.KiloOhm))),
		physic.ElectricResistance(math.Round(r2*float64(physic.KiloOhm))),
	)
	if err != nil {
		return err
	}
	c1, c2, err := pair(p.Capacitors, "capacitors")
	if err != nil {
		return err
	}
	caps, err := afe4404.NewCapacitors(
		units.Capacitance(math.Round(c1*float64(units.PicoFarad))),
		units.Capacitance(math.Round(c2*float64(units.PicoFarad))),
	)
	if err != nil {
		return err
	}
	clock, err := p.clock()
	if err != nil {
		return err
	}

	if err := d.Reset(); err != nil {
		return fmt.Errorf("could not reset: %w", err)
	}
	steps := []struct {
		name string
		fn   func() error
	}{
		{"LED currents", func() error { return d.SetLEDsCurrent(leds) }},
		{"offset currents", func() error { return d.SetOffsetCurrent(offsets) }},
		{"TIA resistors", func() error { return d.SetTIAResistors(res) }},
		{"TIA capacitors", func() error { return d.SetTIACapacitors(caps) }},
		{"dynamic power down", func() error {
			return d.SetDynamic(afe4404.Dynamic{TIA: p.Dynamic, RestOfADC: p.Dynamic})
		}},
		{"averaging", func() error { return d.SetAveraging(p.Averaging) }},
		{"decimation", func() error { return d.SetDecimation(p.Decimation) }},
		{"window", func() error { return d.SetWindow(afe4404.DefaultWindow(d.Mode())) }},
		{"clock", func() error { return d.SetClockSource(clock) }},
	}
	for _, s := range steps {
		if err := s.fn(); err != nil {
			return fmt.Errorf("could not set %s: %w", s.name, err)
		}
	}
	return nil
}
