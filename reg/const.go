package reg

// Register addresses
const (
	Diag         = 0x00
	LED2STC      = 0x01
	LED2ENDC     = 0x02
	LED1LEDSTC   = 0x03
	LED1LEDENDC  = 0x04
	ALED2STC     = 0x05 // LED3STC in three LEDs mode
	ALED2ENDC    = 0x06 // LED3ENDC in three LEDs mode
	LED1STC      = 0x07
	LED1ENDC     = 0x08
	LED2LEDSTC   = 0x09
	LED2LEDENDC  = 0x0A
	ALED1STC     = 0x0B
	ALED1ENDC    = 0x0C
	LED2CONVST   = 0x0D
	LED2CONVEND  = 0x0E
	ALED2CONVST  = 0x0F
	ALED2CONVEND = 0x10
	LED1CONVST   = 0x11
	LED1CONVEND  = 0x12
	ALED1CONVST  = 0x13
	ALED1CONVEND = 0x14
	ADCRSTSTCT0  = 0x15
	ADCRSTENDCT0 = 0x16
	ADCRSTSTCT1  = 0x17
	ADCRSTENDCT1 = 0x18
	ADCRSTSTCT2  = 0x19
	ADCRSTENDCT2 = 0x1A
	ADCRSTSTCT3  = 0x1B
	ADCRSTENDCT3 = 0x1C
	PRPCT        = 0x1D
	TimerCtrl    = 0x1E
	TIAGainSep   = 0x20
	TIAGain      = 0x21
	LEDCurrent   = 0x22
	Control2     = 0x23
	ClkOut       = 0x29
	LED2Val      = 0x2A
	ALED2Val     = 0x2B // LED3VAL in three LEDs mode
	LED1Val      = 0x2C
	ALED1Val     = 0x2D
	LED2ALED2Val = 0x2E
	LED1ALED1Val = 0x2F
	Control3     = 0x31
	PDNCYCLESTC  = 0x32
	PDNCYCLEENDC = 0x33
	ProgTGSTC    = 0x34
	ProgTGENDC   = 0x35
	LED3LEDSTC   = 0x36
	LED3LEDENDC  = 0x37
	ClkDivPRF    = 0x39
	OffsetDAC    = 0x3A
	Decimation   = 0x3D
	AvgLED2ALED2 = 0x3F
	AvgLED1ALED1 = 0x40
)

// Device constants
const (
	// Addr is the fixed 7-bit I²C address of the AFE4404.
	Addr = 0x58

	// WordSize is the number of data bytes carried by every register.
	WordSize = 3
)

// NeedsReadEnable reports whether reading back reg requires the REG_READ bit
// to be set first. Only the ADC output registers are readable at any time.
func NeedsReadEnable(reg byte) bool {
	return reg < LED2Val || (reg > LED1ALED1Val && reg < AvgLED2ALED2)
}
