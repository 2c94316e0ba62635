package reg

// Word is the 24-bit content of a register.
type Word uint32

const wordMask Word = 0xFF_FFFF

// Bytes returns the register content as sent on the bus, MSB first.
func (w Word) Bytes() [WordSize]byte {
	return [WordSize]byte{byte(w >> 16), byte(w >> 8), byte(w)}
}

// WordFromBytes assembles a register content received MSB first.
func WordFromBytes(b []byte) Word {
	return (Word(b[0])<<16 | Word(b[1])<<8 | Word(b[2])) & wordMask
}

// Field is a bit slice of a register.
type Field struct {
	Reg   byte
	Shift uint8
	Width uint8
}

// Max returns the largest value the field can hold.
func (f Field) Max() uint32 {
	return 1<<f.Width - 1
}

func (f Field) mask() Word {
	return Word(f.Max()) << f.Shift
}

// Get extracts the field value from w.
func (f Field) Get(w Word) uint32 {
	return uint32(w&f.mask()) >> f.Shift
}

// Set returns w with the field replaced by v. Bits of v that do not fit the
// field are dropped.
func (f Field) Set(w Word, v uint32) Word {
	return w&^f.mask() | Word(v&f.Max())<<f.Shift
}

// Flag returns w with a single bit field set or cleared.
func (f Field) Flag(w Word, on bool) Word {
	if on {
		return f.Set(w, 1)
	}
	return f.Set(w, 0)
}

// Bit reports whether a single bit field is set in w.
func (f Field) Bit(w Word) bool {
	return f.Get(w) != 0
}

// 0x00
var (
	SWReset    = Field{Diag, 3, 1}
	TMCountRst = Field{Diag, 1, 1}
	RegRead    = Field{Diag, 0, 1}
)

// Timing counters in 0x01..0x1D and 0x32..0x37 use the low 16 bits.
const countWidth = 16

// Count returns the 16-bit timing counter field of a timing register.
func Count(reg byte) Field {
	return Field{reg, 0, countWidth}
}

// 0x1E
var (
	TimerEn = Field{TimerCtrl, 8, 1}
	NumAv   = Field{TimerCtrl, 0, 4}
)

// 0x20, 0x21
var (
	EnSepGain = Field{TIAGainSep, 15, 1}
	CfSep     = Field{TIAGainSep, 3, 3}
	GainSep   = Field{TIAGainSep, 0, 3}
	ProgTGEn  = Field{TIAGain, 8, 1}
	Cf        = Field{TIAGain, 3, 3}
	Gain      = Field{TIAGain, 0, 3}
)

// 0x22
var (
	ILED1 = Field{LEDCurrent, 0, 6}
	ILED2 = Field{LEDCurrent, 6, 6}
	ILED3 = Field{LEDCurrent, 12, 6}
)

// ILED returns the drive current field of LED n (1 based).
func ILED(n int) Field {
	return [...]Field{ILED1, ILED2, ILED3}[n-1]
}

// 0x23
var (
	Dynamic1  = Field{Control2, 20, 1}
	ILED2x    = Field{Control2, 17, 1}
	Dynamic2  = Field{Control2, 14, 1}
	OscEnable = Field{Control2, 9, 1}
	Dynamic3  = Field{Control2, 4, 1}
	Dynamic4  = Field{Control2, 3, 1}
	PDNRX     = Field{Control2, 1, 1}
	PDNAFE    = Field{Control2, 0, 1}
)

// 0x29
var (
	EnableClkOut = Field{ClkOut, 9, 1}
	ClkDivClkOut = Field{ClkOut, 1, 4}
)

// 0x31
var (
	PDDisconnect     = Field{Control3, 10, 1}
	EnableInputShort = Field{Control3, 5, 1}
	ClkDivExtMode    = Field{Control3, 0, 3}
)

// 0x39
var ClkDivPRFSel = Field{ClkDivPRF, 0, 3}

// 0x3A. Each offset DAC field is 5 bits wide: polarity in the MSB followed by
// a 4-bit magnitude.
var (
	OffDACLED2 = Field{OffsetDAC, 15, 5}
	OffDACAmb1 = Field{OffsetDAC, 10, 5}
	OffDACLED1 = Field{OffsetDAC, 5, 5}
	OffDACAmb2 = Field{OffsetDAC, 0, 5} // LED3 in three LEDs mode
)

// 0x3D
var (
	DecEn     = Field{Decimation, 5, 1}
	DecFactor = Field{Decimation, 1, 3}
)
