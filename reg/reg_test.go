package reg

import (
	"errors"
	"testing"

	"periph.io/x/periph/conn/i2c/i2ctest"
	"periph.io/x/periph/conn/physic"
)

func TestFieldGetSet(t *testing.T) {
	tests := []struct {
		name  string
		field Field
		in    Word
		v     uint32
		want  Word
	}{
		{"iled1", ILED1, 0, 38, 0x00_0026},
		{"iled2", ILED2, 0, 6, 0x00_0180},
		{"iled3", ILED3, 0, 6, 0x00_6000},
		{"iled2x keeps others", ILED2x, 0x00_0201, 1, 0x02_0201},
		{"truncated", NumAv, 0, 0x1F, 0x00_000F},
		{"clears", Gain, 0x00_0007, 2, 0x00_0002},
		{"offset dac led2", OffDACLED2, 0, 0x1F, 0x0F_8000},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.field.Set(tc.in, tc.v)
			if got != tc.want {
				t.Fatalf("Set() = %#06x, want %#06x", got, tc.want)
			}
			if v := tc.field.Get(got); v != tc.v&tc.field.Max() {
				t.Fatalf("Get() = %d, want %d", v, tc.v&tc.field.Max())
			}
		})
	}
}

func TestWordBytes(t *testing.T) {
	w := Word(0x12_3456)
	b := w.Bytes()
	if b != [3]byte{0x12, 0x34, 0x56} {
		t.Fatalf("Bytes() = %#v", b)
	}
	if got := WordFromBytes(b[:]); got != w {
		t.Fatalf("WordFromBytes() = %#x, want %#x", got, w)
	}
}

func TestNeedsReadEnable(t *testing.T) {
	for r := byte(0); r <= AvgLED1ALED1; r++ {
		adc := (r >= LED2Val && r <= LED1ALED1Val) || r >= AvgLED2ALED2
		if got := NeedsReadEnable(r); got == adc {
			t.Errorf("NeedsReadEnable(%#x) = %v", r, got)
		}
	}
}

func TestSlotRegisters(t *testing.T) {
	if n := len(SlotLED1.Registers()); n != 8 {
		t.Errorf("LED slot has %d registers, want 8", n)
	}
	if n := len(SlotALED1.Registers()); n != 6 {
		t.Errorf("ambient slot has %d registers, want 6", n)
	}
	if SlotLED3.SampleStart != SlotALED2.SampleStart {
		t.Errorf("LED3 and ambient 2 must share sampling registers")
	}
}

func TestDevReadConfig(t *testing.T) {
	bus := &i2ctest.Playback{
		Ops: []i2ctest.IO{
			{Addr: Addr, W: []byte{Diag, 0, 0, 1}},
			{Addr: Addr, W: []byte{TIAGain}, R: []byte{0x00, 0x01, 0x1A}},
			{Addr: Addr, W: []byte{LEDCurrent}, R: []byte{0x00, 0x61, 0x86}},
			{Addr: Addr, W: []byte{Diag, 0, 0, 0}},
		},
	}
	d := New(bus, 0)

	words, err := d.ReadMany(TIAGain, LEDCurrent)
	if err != nil {
		t.Fatal(err)
	}
	if words[0] != 0x00_011A || words[1] != 0x00_6186 {
		t.Fatalf("ReadMany() = %#x", words)
	}
	if err := bus.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestDevReadADC(t *testing.T) {
	bus := &i2ctest.Playback{
		Ops: []i2ctest.IO{
			{Addr: 0x59, W: []byte{LED1Val}, R: []byte{0xFF, 0xFF, 0xFE}},
		},
	}
	d := New(bus, 0x59)

	w, err := d.Read(LED1Val)
	if err != nil {
		t.Fatal(err)
	}
	if w != 0xFF_FFFE {
		t.Fatalf("Read() = %#x", w)
	}
	if err := bus.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestDevWriteAll(t *testing.T) {
	bus := &i2ctest.Playback{
		Ops: []i2ctest.IO{
			{Addr: Addr, W: []byte{PRPCT, 0x00, 0x9C, 0x3F}},
			{Addr: Addr, W: []byte{ClkDivPRF, 0x00, 0x00, 0x00}},
		},
	}
	d := New(bus, Addr)

	if err := d.WriteAll(
		Op{PRPCT, Count(PRPCT).Set(0, 39999)},
		Op{ClkDivPRF, 0},
	); err != nil {
		t.Fatal(err)
	}
	if err := bus.Close(); err != nil {
		t.Fatal(err)
	}
}

// failBus records every transaction and fails the n-th one (1-based).
type failBus struct {
	n   int
	err error
	log [][]byte
}

func (b *failBus) String() string                    { return "failbus" }
func (b *failBus) SetSpeed(f physic.Frequency) error { return nil }

func (b *failBus) Tx(addr uint16, w, r []byte) error {
	b.log = append(b.log, append([]byte(nil), w...))
	if len(b.log) == b.n {
		return b.err
	}
	return nil
}

func TestDevReadManyFailure(t *testing.T) {
	errBus := errors.New("nack")
	for _, n := range []int{2, 3} {
		bus := &failBus{n: n, err: errBus}
		d := New(bus, 0)

		if _, err := d.ReadMany(TIAGain, LEDCurrent); err != errBus {
			t.Fatalf("read %d failing: got %v, want the bus error", n-1, err)
		}
		last := bus.log[len(bus.log)-1]
		if len(bus.log) != n+1 || string(last) != string([]byte{Diag, 0, 0, 0}) {
			t.Errorf("read %d failing: transactions %x, want readback disabled last", n-1, bus.log)
		}
	}

	bus := &failBus{n: 4, err: errBus}
	if _, err := New(bus, 0).ReadMany(TIAGain, LEDCurrent); err != errBus {
		t.Errorf("disable failing: got %v, want the bus error", err)
	}
}
