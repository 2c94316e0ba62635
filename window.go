package afe4404

import (
	"fmt"
	"time"

	"github.com/cgxeiji/afe4404/reg"
	"github.com/cgxeiji/afe4404/units"
	"go.uber.org/multierr"
	"periph.io/x/periph/conn/physic"
)

// Interval is a time interval relative to the start of the measurement
// window.
type Interval struct {
	Start, End time.Duration
}

// Phase holds the timings of one phase of the measurement window. Light is
// ignored for ambient phases.
type Phase struct {
	Light   Interval
	Sample  Interval
	Reset   Interval
	Convert Interval
}

// Window is the measurement window run by the timing engine: its period, the
// phases sampling each LED and the ambient light, and the interval during
// which the receiver is powered down. It is created by NewWindow or
// DefaultWindow.
type Window struct {
	period    time.Duration
	leds      []Phase
	ambient   []Phase
	powerDown Interval
}

// NewWindow validates a measurement window. leds holds the LED1, LED2 (and
// LED3) phases, ambient the Ambient1 (and Ambient2) phases, with the same
// 2+2 or 3+1 layout as the device mode. A zero powerDown disables the dynamic
// power-down.
func NewWindow(period time.Duration, leds, ambient []Phase, powerDown Interval) (Window, error) {
	if len(leds)+len(ambient) != 4 || (len(leds) != 2 && len(leds) != 3) {
		return Window{}, &ValidationError{
			Setting: "window",
			Err: fmt.Errorf("%d LED and %d ambient phases, want 2+2 or 3+1: %w",
				len(leds), len(ambient), units.ErrUnsupported),
		}
	}
	if period <= 0 {
		return Window{}, &ValidationError{
			Setting: "window period",
			Err:     fmt.Errorf("%s: %w", period, units.ErrOutOfRange),
		}
	}

	var err error
	check := func(name string, i Interval) {
		if i.Start < 0 || i.End < i.Start || i.End > period {
			err = multierr.Append(err, &ValidationError{
				Setting: name,
				Err:     fmt.Errorf("%s..%s outside 0..%s: %w", i.Start, i.End, period, units.ErrOutOfRange),
			})
		}
	}
	for n, p := range leds {
		name := fmt.Sprintf("LED%d", n+1)
		check(name+" light", p.Light)
		check(name+" sample", p.Sample)
		check(name+" reset", p.Reset)
		check(name+" convert", p.Convert)
	}
	for n, p := range ambient {
		name := fmt.Sprintf("Ambient%d", n+1)
		check(name+" sample", p.Sample)
		check(name+" reset", p.Reset)
		check(name+" convert", p.Convert)
	}
	check("power down", powerDown)
	if err != nil {
		return Window{}, err
	}

	w := Window{
		period:    period,
		leds:      append([]Phase(nil), leds...),
		ambient:   append([]Phase(nil), ambient...),
		powerDown: powerDown,
	}
	for i := range w.ambient {
		w.ambient[i].Light = Interval{}
	}
	return w, nil
}

func us(v float64) time.Duration {
	return time.Duration(v * float64(time.Microsecond))
}

// DefaultWindow returns a 100Hz measurement window suited to mode, with the
// datasheet's recommended timings at 4MHz.
func DefaultWindow(mode Mode) Window {
	led2 := Phase{
		Light:   Interval{0, us(99.75)},
		Sample:  Interval{us(25), us(99.75)},
		Reset:   Interval{us(100.25), us(101.75)},
		Convert: Interval{us(102.25), us(367)},
	}
	slot2 := Phase{
		Light:   Interval{us(100.25), us(200)},
		Sample:  Interval{us(125.25), us(200)},
		Reset:   Interval{us(367.5), us(369)},
		Convert: Interval{us(369.5), us(634.25)},
	}
	led1 := Phase{
		Light:   Interval{us(200.5), us(300.25)},
		Sample:  Interval{us(225.5), us(300.25)},
		Reset:   Interval{us(634.75), us(636.25)},
		Convert: Interval{us(636.75), us(901.5)},
	}
	amb1 := Phase{
		Sample:  Interval{us(325.75), us(400.5)},
		Reset:   Interval{us(902), us(903.5)},
		Convert: Interval{us(904), us(1168.75)},
	}

	w := Window{
		period:    10 * time.Millisecond,
		powerDown: Interval{us(1368.75), us(9799.75)},
	}
	if mode == ThreeLEDs {
		w.leds = []Phase{led1, led2, slot2}
		w.ambient = []Phase{amb1}
	} else {
		slot2.Light = Interval{}
		w.leds = []Phase{led1, led2}
		w.ambient = []Phase{amb1, slot2}
	}
	return w
}

// Period returns the window period.
func (w Window) Period() time.Duration {
	return w.period
}

// LEDs returns the LED phases, LED1 first.
func (w Window) LEDs() []Phase {
	return append([]Phase(nil), w.leds...)
}

// Ambient returns the ambient phases, Ambient1 first.
func (w Window) Ambient() []Phase {
	return append([]Phase(nil), w.ambient...)
}

// PowerDown returns the dynamic power-down interval.
func (w Window) PowerDown() Interval {
	return w.powerDown
}

// Rate returns the sample rate of the window.
func (w Window) Rate() physic.Frequency {
	if w.period <= 0 {
		return 0
	}
	return physic.Frequency(int64(time.Second) * int64(physic.Hertz) / int64(w.period))
}

// slots returns the timing registers of the LED and ambient phases, in the
// order used by Window.
func (d *Device) slots() (leds, ambient []reg.Slot) {
	if d.mode == ThreeLEDs {
		return []reg.Slot{reg.SlotLED1, reg.SlotLED2, reg.SlotLED3},
			[]reg.Slot{reg.SlotALED1}
	}
	return []reg.Slot{reg.SlotLED1, reg.SlotLED2},
		[]reg.Slot{reg.SlotALED1, reg.SlotALED2}
}

func slotIntervals(s reg.Slot, p *Phase) []*Interval {
	out := make([]*Interval, 0, 4)
	if s.HasLight() {
		out = append(out, &p.Light)
	}
	return append(out, &p.Sample, &p.Reset, &p.Convert)
}

// SetWindow programs the measurement window and starts the timing engine.
// The timing engine divider is chosen so that the period fits the 16-bit
// counter; every time offset is then rounded to the divided clock.
func (d *Device) SetWindow(w Window) error {
	if err := d.checkMode("window", len(w.leds)); err != nil {
		return err
	}

	div, f, err := units.EncodePRFDivider(w.period, d.engine)
	if err != nil {
		return &ValidationError{Setting: "window period", Err: err}
	}
	prpct, err := units.EncodePeriod(w.period, f)
	if err != nil {
		return &ValidationError{Setting: "window period", Err: err}
	}

	var ops []reg.Op
	count := func(r byte, t time.Duration) error {
		c, err := units.EncodeCount(t, f)
		if err != nil {
			return &ValidationError{Setting: fmt.Sprintf("timing register %#02x", r), Err: err}
		}
		ops = append(ops, reg.Op{Reg: r, Word: reg.Count(r).Set(0, uint32(c))})
		return nil
	}
	program := func(slots []reg.Slot, phases []Phase) error {
		for i, s := range slots {
			p := phases[i]
			regs := s.Registers()
			for j, iv := range slotIntervals(s, &p) {
				if err := count(regs[2*j], iv.Start); err != nil {
					return err
				}
				if err := count(regs[2*j+1], iv.End); err != nil {
					return err
				}
			}
		}
		return nil
	}
	leds, ambient := d.slots()
	if err := program(leds, w.leds); err != nil {
		return err
	}
	if err := program(ambient, w.ambient); err != nil {
		return err
	}
	if err := count(reg.PDNCYCLESTC, w.powerDown.Start); err != nil {
		return err
	}
	if err := count(reg.PDNCYCLEENDC, w.powerDown.End); err != nil {
		return err
	}

	timer, err := d.regs.Read(reg.TimerCtrl)
	if err != nil {
		return err
	}
	head := []reg.Op{
		{Reg: reg.PRPCT, Word: reg.Count(reg.PRPCT).Set(0, uint32(prpct))},
		{Reg: reg.ClkDivPRF, Word: reg.ClkDivPRFSel.Set(0, uint32(div))},
		{Reg: reg.TimerCtrl, Word: reg.TimerEn.Flag(timer, true)},
	}
	return d.regs.WriteAll(append(head, ops...)...)
}

// Window reads back the measurement window.
func (d *Device) Window() (Window, error) {
	leds, ambient := d.slots()
	regs := []byte{reg.PRPCT, reg.ClkDivPRF, reg.PDNCYCLESTC, reg.PDNCYCLEENDC}
	for _, s := range append(append([]reg.Slot(nil), leds...), ambient...) {
		regs = append(regs, s.Registers()...)
	}
	words, err := d.regs.ReadMany(regs...)
	if err != nil {
		return Window{}, err
	}

	f, err := d.tick(words[1])
	if err != nil {
		return Window{}, err
	}

	next := 2
	at := func() time.Duration {
		r := regs[next]
		c := units.Count(reg.Count(r).Get(words[next]))
		next++
		return units.DecodeCount(c, f)
	}
	read := func(slots []reg.Slot) []Phase {
		out := make([]Phase, len(slots))
		for i, s := range slots {
			for _, iv := range slotIntervals(s, &out[i]) {
				iv.Start = at()
				iv.End = at()
			}
		}
		return out
	}

	w := Window{
		period: units.DecodePeriod(units.Count(reg.Count(reg.PRPCT).Get(words[0])), f),
	}
	w.powerDown.Start = at()
	w.powerDown.End = at()
	w.leds = read(leds)
	w.ambient = read(ambient)
	return w, nil
}

// tick returns the timing engine frequency selected by CLKDIV_PRF.
func (d *Device) tick(div reg.Word) (physic.Frequency, error) {
	code := units.PRFDivCode(reg.ClkDivPRFSel.Get(div))
	ratio := units.DecodePRFDivider(code)
	if ratio == 0 {
		return 0, fmt.Errorf("%w: CLKDIV_PRF %d", ErrInvalidRegister, code)
	}
	return d.engine / physic.Frequency(ratio), nil
}

// SetTrigger drives the ADC_RDY pin high during i, relative to the start of
// the window, instead of pulsing it after each conversion. The offsets are
// rounded with the divider of the current window, so SetWindow goes first.
func (d *Device) SetTrigger(i Interval) error {
	if i.Start < 0 || i.End < i.Start {
		return &ValidationError{
			Setting: "trigger",
			Err:     fmt.Errorf("%s..%s: %w", i.Start, i.End, units.ErrOutOfRange),
		}
	}

	w, err := d.regs.ReadMany(reg.ClkDivPRF, reg.TIAGain)
	if err != nil {
		return err
	}
	f, err := d.tick(w[0])
	if err != nil {
		return err
	}
	stc, err := units.EncodeCount(i.Start, f)
	if err != nil {
		return &ValidationError{Setting: "trigger start", Err: err}
	}
	endc, err := units.EncodeCount(i.End, f)
	if err != nil {
		return &ValidationError{Setting: "trigger end", Err: err}
	}

	return d.regs.WriteAll(
		reg.Op{Reg: reg.ProgTGSTC, Word: reg.Count(reg.ProgTGSTC).Set(0, uint32(stc))},
		reg.Op{Reg: reg.ProgTGENDC, Word: reg.Count(reg.ProgTGENDC).Set(0, uint32(endc))},
		reg.Op{Reg: reg.TIAGain, Word: reg.ProgTGEn.Flag(w[1], true)},
	)
}

// ClearTrigger gives the ADC_RDY pin back its end of conversion pulse.
func (d *Device) ClearTrigger() error {
	return d.setFlag(reg.ProgTGEn, false)
}

// Trigger reads back the ADC_RDY interval. ok is false when the pin pulses
// after each conversion.
func (d *Device) Trigger() (i Interval, ok bool, err error) {
	w, err := d.regs.ReadMany(reg.TIAGain, reg.ClkDivPRF, reg.ProgTGSTC, reg.ProgTGENDC)
	if err != nil {
		return Interval{}, false, err
	}
	if !reg.ProgTGEn.Bit(w[0]) {
		return Interval{}, false, nil
	}
	f, err := d.tick(w[1])
	if err != nil {
		return Interval{}, false, err
	}
	return Interval{
		Start: units.DecodeCount(units.Count(reg.Count(reg.ProgTGSTC).Get(w[2])), f),
		End:   units.DecodeCount(units.Count(reg.Count(reg.ProgTGENDC).Get(w[3])), f),
	}, true, nil
}
