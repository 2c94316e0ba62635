package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cgxeiji/afe4404"
	"github.com/cgxeiji/afe4404/reg"
	"periph.io/x/periph/conn/physic"
)

type regBus struct {
	regs map[byte]reg.Word
}

func (b *regBus) String() string                    { return "regbus" }
func (b *regBus) SetSpeed(f physic.Frequency) error { return nil }

func (b *regBus) Tx(addr uint16, w, r []byte) error {
	switch {
	case len(w) == 4 && len(r) == 0:
		b.regs[w[0]] = reg.WordFromBytes(w[1:])
	case len(w) == 1 && len(r) == 3:
		v := b.regs[w[0]].Bytes()
		copy(r, v[:])
	default:
		return errors.New("regbus: malformed transaction")
	}
	return nil
}

func writeProfile(t *testing.T, s string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "profile.yaml")
	if err := os.WriteFile(path, []byte(s), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeProfile(t, `
mode: two
address: 0x59
clock:
  source: external
  frequency_mhz: 24
leds_ma: [10, 20]
offsets_ua:
  leds: [1, 2]
  ambient: [0, 0]
red: 2
`)
	p, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if p.Address != 0x59 {
		t.Errorf("address = %#x, want 0x59", p.Address)
	}
	mode, err := p.LEDMode()
	if err != nil || mode != afe4404.TwoLEDs {
		t.Errorf("LEDMode() = %v, %v, want two LEDs", mode, err)
	}
	if got := p.Reference(); got != 24*physic.MegaHertz {
		t.Errorf("Reference() = %s, want 24MHz", got)
	}
	if len(p.LEDs) != 2 || p.LEDs[1] != 20 {
		t.Errorf("leds_ma = %v, want [10 20]", p.LEDs)
	}
	// Fields missing from the file keep their default.
	if p.IR != 1 || p.Averaging != 1 || len(p.Resistors) != 2 {
		t.Errorf("defaults lost: ir %d, averaging %d, resistors %v", p.IR, p.Averaging, p.Resistors)
	}
	if p.Red != 2 {
		t.Errorf("red = %d, want 2", p.Red)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected a missing file error, got %v", err)
	}
	if _, err := Load(writeProfile(t, "leds_ma: [oops")); err == nil {
		t.Error("expected an error on malformed YAML")
	}

	p := DefaultProfile()
	p.Mode = "four"
	if _, err := p.LEDMode(); err == nil {
		t.Error("expected an error on an unknown mode")
	}
}

func TestApply(t *testing.T) {
	bus := &regBus{regs: map[byte]reg.Word{}}
	d, err := afe4404.New(bus, 0, physic.MegaHertz*4, afe4404.ThreeLEDs)
	if err != nil {
		t.Fatal(err)
	}

	if err := DefaultProfile().Apply(d); err != nil {
		t.Fatal(err)
	}

	leds, err := d.LEDsCurrent()
	if err != nil {
		t.Fatal(err)
	}
	if leds.Len() != 3 {
		t.Errorf("%d LEDs configured, want 3", leds.Len())
	}
	res, err := d.TIAResistors()
	if err != nil {
		t.Fatal(err)
	}
	if res.Resistor1() != 50*physic.KiloOhm || res.Resistor2() != 50*physic.KiloOhm {
		t.Errorf("TIA resistors = %s, %s, want 50kΩ", res.Resistor1(), res.Resistor2())
	}
	dyn, err := d.Dynamic()
	if err != nil {
		t.Fatal(err)
	}
	if want := (afe4404.Dynamic{TIA: true, RestOfADC: true}); dyn != want {
		t.Errorf("Dynamic() = %+v, want %+v", dyn, want)
	}
	w, err := d.Window()
	if err != nil {
		t.Fatal(err)
	}
	if w.Period() != 10*time.Millisecond {
		t.Errorf("window period = %s, want 10ms", w.Period())
	}
	c, err := d.ClockSource()
	if err != nil {
		t.Fatal(err)
	}
	if c.Source() != afe4404.Internal {
		t.Errorf("clock source = %s, want internal", c.Source())
	}
}

func TestApplyErrors(t *testing.T) {
	bus := &regBus{regs: map[byte]reg.Word{}}
	d, err := afe4404.New(bus, 0, physic.MegaHertz*4, afe4404.TwoLEDs)
	if err != nil {
		t.Fatal(err)
	}

	// Three LED currents on a two LEDs device.
	if err := DefaultProfile().Apply(d); !errors.Is(err, afe4404.ErrModeMismatch) {
		t.Errorf("expected ErrModeMismatch, got %v", err)
	}

	p := DefaultProfile()
	p.Resistors = []float64{50}
	if err := p.Apply(d); err == nil {
		t.Error("expected an error with a single resistor")
	}

	p = DefaultProfile()
	p.LEDs = []float64{200, 2, 2}
	var verr *afe4404.ValidationError
	if err := p.Apply(d); !errors.As(err, &verr) {
		t.Errorf("expected a validation error for 200mA, got %v", err)
	}
}
