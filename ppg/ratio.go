package ppg

// span is the range covered by a channel during one window.
type span struct {
	lo, hi float64
}

func (s *span) add(v float64) {
	if v < s.lo {
		s.lo = v
	}
	if v > s.hi {
		s.hi = v
	}
}

// perfusion returns the pulsatile part of the signal relative to its floor.
func (s span) perfusion() float64 {
	if s.lo <= 0 {
		return 0
	}
	return (s.hi - s.lo) / s.lo
}

// ratio measures the red and infrared spans over consecutive windows of n
// samples and keeps the ratio of their perfusions for the last complete
// window. A window must cover at least one heart beat.
type ratio struct {
	n     int
	count int

	red, ir span
	last    float64
}

func newRatio(n int) *ratio {
	return &ratio{n: n}
}

func (r *ratio) add(red, ir float64) {
	if r.count == 0 {
		r.red, r.ir = span{red, red}, span{ir, ir}
	} else {
		r.red.add(red)
		r.ir.add(ir)
	}

	r.count++
	if r.count < r.n {
		return
	}
	r.count = 0

	r.last = 0
	if p := r.ir.perfusion(); p > 0 {
		r.last = r.red.perfusion() / p
	}
}

// value returns the ratio of the last complete window, 0 until one is
// complete.
func (r *ratio) value() float64 {
	return r.last
}

func (r *ratio) reset() {
	r.count, r.last = 0, 0
	r.red, r.ir = span{}, span{}
}
