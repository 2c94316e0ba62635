package ppg

// Limits of the peak to peak amplitude of the filtered pulse, in filter
// units, for a zero crossing to count as a beat.
const (
	beatMinSwing = 1
	beatMaxSwing = 50
)

// beat finds heart beats as rising zero crossings of the band passed pulse:
// a short moving average removes the DC level and the FIR removes noise.
type beat struct {
	lp fir
	dc movingAverage

	prev   float64
	peak   float64
	trough float64
	rising bool
}

func newBeat() *beat {
	return &beat{dc: movingAverage{weight: 4}}
}

// check receives a normalized (0.0 - 1.0) sample and reports whether it
// completes a beat.
func (b *beat) check(v float64) bool {
	b.dc.add(v)
	ac := b.lp.lowPass(v - b.dc.mean)

	found := false
	switch {
	case b.prev < 0 && ac >= 0:
		swing := b.peak - b.trough
		found = swing > beatMinSwing && swing < beatMaxSwing
		b.rising = true
		b.peak = 0
	case b.prev > 0 && ac <= 0:
		b.rising = false
		b.trough = 0
	}

	if b.rising && ac > b.prev {
		b.peak = ac
	}
	if !b.rising && ac < b.prev {
		b.trough = ac
	}

	b.prev = ac
	return found
}

func (b *beat) reset() {
	*b = *newBeat()
}
