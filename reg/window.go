package reg

// Slot groups the timing registers of one of the four phases of the
// measurement window. A zero start/end pair means the phase has no such
// interval (ambient phases do not light an LED).
type Slot struct {
	LightStart, LightEnd   byte
	SampleStart, SampleEnd byte
	ResetStart, ResetEnd   byte
	ConvStart, ConvEnd     byte
}

// HasLight reports whether the slot drives an LED.
func (s Slot) HasLight() bool {
	return s.LightStart != 0
}

// Registers returns the slot registers in write order.
func (s Slot) Registers() []byte {
	regs := make([]byte, 0, 8)
	if s.HasLight() {
		regs = append(regs, s.LightStart, s.LightEnd)
	}
	return append(regs,
		s.SampleStart, s.SampleEnd,
		s.ResetStart, s.ResetEnd,
		s.ConvStart, s.ConvEnd,
	)
}

// Phase slots in the order the timing engine runs them.
var (
	SlotLED2 = Slot{
		LED2LEDSTC, LED2LEDENDC,
		LED2STC, LED2ENDC,
		ADCRSTSTCT0, ADCRSTENDCT0,
		LED2CONVST, LED2CONVEND,
	}
	SlotALED2 = Slot{
		0, 0,
		ALED2STC, ALED2ENDC,
		ADCRSTSTCT1, ADCRSTENDCT1,
		ALED2CONVST, ALED2CONVEND,
	}
	SlotLED3 = Slot{
		LED3LEDSTC, LED3LEDENDC,
		ALED2STC, ALED2ENDC,
		ADCRSTSTCT1, ADCRSTENDCT1,
		ALED2CONVST, ALED2CONVEND,
	}
	SlotLED1 = Slot{
		LED1LEDSTC, LED1LEDENDC,
		LED1STC, LED1ENDC,
		ADCRSTSTCT2, ADCRSTENDCT2,
		LED1CONVST, LED1CONVEND,
	}
	SlotALED1 = Slot{
		0, 0,
		ALED1STC, ALED1ENDC,
		ADCRSTSTCT3, ADCRSTENDCT3,
		ALED1CONVST, ALED1CONVEND,
	}
)
