package units

import (
	"fmt"
	"math"
	"time"

	"periph.io/x/periph/conn/physic"
)

// Internal oscillator and the range the timing engine accepts.
const (
	InternalClock    = 4 * physic.MegaHertz
	EngineClockMin   = 4 * physic.MegaHertz
	EngineClockMax   = 6 * physic.MegaHertz
	ExternalClockMin = 4 * physic.MegaHertz
	ExternalClockMax = 60 * physic.MegaHertz
)

// ExtDivCode is the 3-bit CLKDIV_EXTMODE code.
type ExtDivCode uint8

// Division ratios available for an external clock, largest first, with the
// code selecting each of them.
var extDividers = []struct {
	ratio int64
	code  ExtDivCode
}{
	{12, 3},
	{8, 2},
	{6, 6},
	{4, 4},
	{2, 0},
	{1, 5},
}

// EncodeExternalClock selects the division ratio that brings an external
// clock into the timing engine range. The largest ratio keeping the divided
// clock at or above 4 MHz is used.
func EncodeExternalClock(f physic.Frequency) (ExtDivCode, int, error) {
	if f < ExternalClockMin || f > ExternalClockMax {
		return 0, 0, fmt.Errorf("external clock %s outside %s..%s: %w",
			f, ExternalClockMin, ExternalClockMax, ErrOutOfRange)
	}
	for _, d := range extDividers {
		div := f / physic.Frequency(d.ratio)
		if div < EngineClockMin {
			continue
		}
		if div > EngineClockMax {
			break
		}
		return d.code, int(d.ratio), nil
	}
	return 0, 0, fmt.Errorf("external clock %s cannot be divided into %s..%s: %w",
		f, EngineClockMin, EngineClockMax, ErrUnsupported)
}

// DecodeExternalClock returns the division ratio selected by code, or 0 for
// the codes the datasheet marks as reserved.
func DecodeExternalClock(code ExtDivCode) int {
	for _, d := range extDividers {
		if d.code == code&7 {
			return int(d.ratio)
		}
	}
	return 0
}

// ClkOutCode is the 4-bit CLKDIV_CLKOUT code.
type ClkOutCode uint8

// EncodeClockOutput converts a CLK pin division ratio into its code. The
// ratio must be a power of two from 1 to 128.
func EncodeClockOutput(ratio int) (ClkOutCode, error) {
	if ratio < 1 || ratio > 128 {
		return 0, fmt.Errorf("clock output division %d outside 1..128: %w", ratio, ErrOutOfRange)
	}
	if ratio&(ratio-1) != 0 {
		return 0, fmt.Errorf("clock output division %d is not a power of two: %w", ratio, ErrUnsupported)
	}
	var code ClkOutCode
	for ratio > 1 {
		ratio >>= 1
		code++
	}
	return code, nil
}

// DecodeClockOutput returns the division ratio selected by code. Codes above
// 7 are reserved and decode to 0.
func DecodeClockOutput(code ClkOutCode) int {
	if code > 7 {
		return 0
	}
	return 1 << code
}

// PRFDivCode is the 3-bit CLKDIV_PRF code.
type PRFDivCode uint8

var prfDividers = []struct {
	ratio int
	code  PRFDivCode
}{
	{1, 0},
	{2, 4},
	{4, 5},
	{8, 6},
	{16, 7},
}

// CountMax is the largest value of a 16-bit timing counter.
const CountMax = 1<<16 - 1

// Count is a 16-bit timing engine counter value.
type Count uint16

// EncodePRFDivider selects the smallest timing engine divider that lets a
// window period fit the 16-bit period counter at clock f. It returns the code
// and the divided clock.
func EncodePRFDivider(period time.Duration, f physic.Frequency) (PRFDivCode, physic.Frequency, error) {
	if period <= 0 {
		return 0, 0, fmt.Errorf("window period %s: %w", period, ErrOutOfRange)
	}
	for _, d := range prfDividers {
		div := f / physic.Frequency(d.ratio)
		if ticks(period, div) <= CountMax+1 {
			return d.code, div, nil
		}
	}
	return 0, 0, fmt.Errorf("window period %s too long for a %s clock: %w", period, f, ErrOutOfRange)
}

// DecodePRFDivider returns the division ratio selected by code, or 0 for
// reserved codes.
func DecodePRFDivider(code PRFDivCode) int {
	for _, d := range prfDividers {
		if d.code == code&7 {
			return d.ratio
		}
	}
	return 0
}

func ticks(d time.Duration, f physic.Frequency) float64 {
	return math.Round(d.Seconds() * float64(f) / float64(physic.Hertz))
}

// EncodeCount converts a time offset into timing engine ticks at clock f.
func EncodeCount(d time.Duration, f physic.Frequency) (Count, error) {
	if d < 0 {
		return 0, fmt.Errorf("time offset %s is negative: %w", d, ErrOutOfRange)
	}
	n := ticks(d, f)
	if n > CountMax {
		return 0, fmt.Errorf("time offset %s exceeds the counter range at %s: %w", d, f, ErrOutOfRange)
	}
	return Count(n), nil
}

// DecodeCount converts timing engine ticks at clock f into a time offset.
func DecodeCount(c Count, f physic.Frequency) time.Duration {
	if f <= 0 {
		return 0
	}
	return time.Duration(math.Round(float64(c) * float64(time.Second) * float64(physic.Hertz) / float64(f)))
}

// EncodePeriod converts a window period into the PRPCT value at the divided
// clock f. The counter runs from 0 to PRPCT, so the period is PRPCT+1 ticks.
func EncodePeriod(period time.Duration, f physic.Frequency) (Count, error) {
	n := ticks(period, f)
	if n < 1 || n > CountMax+1 {
		return 0, fmt.Errorf("window period %s outside the counter range at %s: %w", period, f, ErrOutOfRange)
	}
	return Count(n - 1), nil
}

// DecodePeriod converts a PRPCT value at the divided clock f into the window
// period.
func DecodePeriod(c Count, f physic.Frequency) time.Duration {
	if f <= 0 {
		return 0
	}
	return time.Duration(math.Round((float64(c) + 1) * float64(time.Second) * float64(physic.Hertz) / float64(f)))
}
