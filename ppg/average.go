package ppg

// movingAverage is an exponential moving average weighting the newest value
// by 1/weight.
type movingAverage struct {
	mean   float64
	weight float64
}

func (m *movingAverage) add(n float64) {
	m.mean += (n - m.mean) / m.weight
}

// prime adds n, taking it as the mean when the average is empty.
func (m *movingAverage) prime(n float64) {
	if m.mean == 0 {
		m.mean = n
	}
	m.add(n)
}

func (m *movingAverage) reset() {
	m.mean = 0
}
