package ppg

// firTaps holds the first half of a symmetric 23-tap low pass filter, centre
// tap last. The cut-off sits around 4% of the sample rate.
var firTaps = [...]float64{21.5, 40.125, 72.375, 115.875, 170.0, 232.25, 298.75, 364.5, 423.875, 471.0, 501.5, 512.0}

const (
	firCentre = len(firTaps) - 1
	firLen    = 2*firCentre + 1
	firRing   = 32 // power of two, >= firLen
)

type fir struct {
	ring [firRing]float64
	idx  int
}

// lowPass pushes x through the filter and returns the filtered value, which
// lags the input by firCentre samples.
func (f *fir) lowPass(x float64) float64 {
	f.ring[f.idx] = x

	at := func(back int) float64 {
		return f.ring[(f.idx-back)&(firRing-1)]
	}
	z := firTaps[firCentre] * at(firCentre)
	for i := 0; i < firCentre; i++ {
		z += firTaps[i] * (at(i) + at(firLen-1-i))
	}

	f.idx = (f.idx + 1) & (firRing - 1)
	return z
}

func (f *fir) reset() {
	*f = fir{}
}
