package afe4404

import "strconv"

// Mode selects how the four phases of the measurement window are used.
type Mode int

const (
	// TwoLEDs samples LED2, Ambient2, LED1 and Ambient1.
	TwoLEDs Mode = 2
	// ThreeLEDs samples LED2, LED3, LED1 and a single ambient phase.
	ThreeLEDs Mode = 3
)

// LEDs returns the number of LED channels of the mode.
func (m Mode) LEDs() int {
	return int(m)
}

// Ambient returns the number of ambient phases of the mode.
func (m Mode) Ambient() int {
	return 4 - int(m)
}

func (m Mode) valid() bool {
	return m == TwoLEDs || m == ThreeLEDs
}

func (m Mode) String() string {
	switch m {
	case TwoLEDs:
		return "two LEDs"
	case ThreeLEDs:
		return "three LEDs"
	}
	return "Mode(" + strconv.Itoa(int(m)) + ")"
}
