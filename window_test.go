package afe4404

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/cgxeiji/afe4404/reg"
	"github.com/cgxeiji/afe4404/units"
	"go.uber.org/multierr"
	"periph.io/x/periph/conn/physic"
)

func TestSetWindow(t *testing.T) {
	for _, mode := range []Mode{TwoLEDs, ThreeLEDs} {
		t.Run(mode.String(), func(t *testing.T) {
			d, bus := newRegDevice(t, mode)
			w := DefaultWindow(mode)
			if err := d.SetWindow(w); err != nil {
				t.Fatal(err)
			}

			want := map[byte]reg.Word{
				reg.PRPCT:        39999,
				reg.ClkDivPRF:    0,
				reg.TimerCtrl:    0x00_0100,
				reg.LED2LEDSTC:   0,
				reg.LED2LEDENDC:  399,
				reg.LED1LEDSTC:   802,
				reg.ALED2STC:     501,
				reg.ALED1STC:     1303,
				reg.ALED1CONVEND: 4675,
				reg.PDNCYCLESTC:  5475,
				reg.PDNCYCLEENDC: 39199,
			}
			if mode == ThreeLEDs {
				want[reg.LED3LEDSTC] = 401
				want[reg.LED3LEDENDC] = 800
			}
			for r, v := range want {
				if got := bus.regs[r]; got != v {
					t.Errorf("register %#02x = %d, want %d", r, got, v)
				}
			}
			if _, ok := bus.regs[reg.LED3LEDSTC]; mode == TwoLEDs && ok {
				t.Error("LED3 registers written in two LEDs mode")
			}

			got, err := d.Window()
			if err != nil {
				t.Fatal(err)
			}
			if !reflect.DeepEqual(got, w) {
				t.Errorf("Window() = %+v, want %+v", got, w)
			}
			if got.Rate() != 100*physic.Hertz {
				t.Errorf("Rate() = %s, want 100Hz", got.Rate())
			}
		})
	}
}

func TestSetWindowDivider(t *testing.T) {
	d, bus := newRegDevice(t, TwoLEDs)
	def := DefaultWindow(TwoLEDs)
	w, err := NewWindow(40*time.Millisecond, def.LEDs(), def.Ambient(), def.PowerDown())
	if err != nil {
		t.Fatal(err)
	}
	if err := d.SetWindow(w); err != nil {
		t.Fatal(err)
	}
	if got := bus.regs[reg.ClkDivPRF]; got != 5 {
		t.Errorf("CLKDIV_PRF = %d, want 5 (divide by 4)", got)
	}
	if got := bus.regs[reg.PRPCT]; got != 39999 {
		t.Errorf("PRPCT = %d, want 39999", got)
	}

	got, err := d.Window()
	if err != nil {
		t.Fatal(err)
	}
	if got.Period() != 40*time.Millisecond {
		t.Errorf("Period() = %s, want 40ms", got.Period())
	}
	// 1µs ticks
	if l := got.LEDs()[1].Light.End; l != 100*time.Microsecond {
		t.Errorf("LED2 light end = %s, want 100µs", l)
	}
}

func TestWindowReservedDivider(t *testing.T) {
	d, bus := newRegDevice(t, TwoLEDs)
	bus.regs[reg.ClkDivPRF] = 1
	if _, err := d.Window(); !errors.Is(err, ErrInvalidRegister) {
		t.Errorf("expected ErrInvalidRegister, got %v", err)
	}
}

func TestNewWindow(t *testing.T) {
	def := DefaultWindow(ThreeLEDs)

	if _, err := NewWindow(10*time.Millisecond, def.LEDs()[:2], def.Ambient(), Interval{}); err == nil {
		t.Error("2 LED and 1 ambient phases should be rejected")
	}
	if _, err := NewWindow(0, def.LEDs(), def.Ambient(), Interval{}); !errors.Is(err, units.ErrOutOfRange) {
		t.Errorf("expected ErrOutOfRange for a zero period, got %v", err)
	}

	leds := def.LEDs()
	leds[0].Sample = Interval{Start: 2 * time.Millisecond, End: time.Millisecond}
	leds[2].Convert.End = 11 * time.Millisecond
	_, err := NewWindow(10*time.Millisecond, leds, def.Ambient(), Interval{})
	if n := len(multierr.Errors(err)); n != 2 {
		t.Errorf("got %d errors, want 2: %v", n, err)
	}
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Errorf("expected a validation error, got %v", err)
	}

	amb := def.Ambient()
	amb[0].Light = Interval{End: time.Millisecond}
	w, err := NewWindow(10*time.Millisecond, def.LEDs(), amb, Interval{})
	if err != nil {
		t.Fatal(err)
	}
	if w.Ambient()[0].Light != (Interval{}) {
		t.Error("ambient phases do not light an LED")
	}
}

func TestTrigger(t *testing.T) {
	d, bus := newRegDevice(t, TwoLEDs)
	bus.regs[reg.TIAGain] = 0x00_0003

	if _, ok, err := d.Trigger(); err != nil || ok {
		t.Fatalf("Trigger() = %v, %v before SetTrigger, want disabled", ok, err)
	}

	want := Interval{Start: us(1168.75), End: 1200 * time.Microsecond}
	if err := d.SetTrigger(want); err != nil {
		t.Fatal(err)
	}
	regs := map[byte]reg.Word{
		reg.ProgTGSTC:  4675,
		reg.ProgTGENDC: 4800,
		reg.TIAGain:    0x00_0103,
	}
	for r, v := range regs {
		if got := bus.regs[r]; got != v {
			t.Errorf("register %#02x = %#06x, want %#06x", r, got, v)
		}
	}

	got, ok, err := d.Trigger()
	if err != nil {
		t.Fatal(err)
	}
	if !ok || got != want {
		t.Errorf("Trigger() = %+v, %v, want %+v", got, ok, want)
	}

	if err := d.ClearTrigger(); err != nil {
		t.Fatal(err)
	}
	if got := bus.regs[reg.TIAGain]; got != 0x00_0003 {
		t.Errorf("register 0x21 = %#06x after ClearTrigger, want 0x000003", got)
	}
}

func TestTriggerErrors(t *testing.T) {
	d, bus := newRegDevice(t, TwoLEDs)

	var verr *ValidationError
	if err := d.SetTrigger(Interval{Start: time.Millisecond}); !errors.As(err, &verr) {
		t.Errorf("expected a validation error for an inverted interval, got %v", err)
	}
	if bus.txs != 0 {
		t.Errorf("%d transactions issued for an invalid interval", bus.txs)
	}

	if err := d.SetTrigger(Interval{End: 20 * time.Millisecond}); !errors.Is(err, units.ErrOutOfRange) {
		t.Errorf("expected ErrOutOfRange past the counter, got %v", err)
	}

	bus.regs[reg.ClkDivPRF] = 1
	if err := d.SetTrigger(Interval{End: time.Millisecond}); !errors.Is(err, ErrInvalidRegister) {
		t.Errorf("expected ErrInvalidRegister, got %v", err)
	}
}
