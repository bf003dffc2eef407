package busparams

import "fmt"

// Tolerance holds the CAN FD oscillator tolerance conditions df1..df5 in
// parts per million. DF3, DF4 and DF5 only exist when a data phase timing is
// given.
type Tolerance struct {
	DF1 int
	DF2 int
	DF3 *int
	DF4 *int
	DF5 *int
}

// Min returns the tightest of the available conditions.
func (t Tolerance) Min() int {
	m := min(t.DF1, t.DF2)
	for _, df := range []*int{t.DF3, t.DF4, t.DF5} {
		if df != nil {
			m = min(m, *df)
		}
	}
	return m
}

func (t Tolerance) String() string {
	opt := func(p *int) string {
		if p == nil {
			return "None"
		}
		return fmt.Sprint(*p)
	}
	return fmt.Sprintf("Tolerance(df1=%d, df2=%d, df3=%s, df4=%s, df5=%s)",
		t.DF1, t.DF2, opt(t.DF3), opt(t.DF4), opt(t.DF5))
}

func ppm(x float64) *int {
	v := round(x * 1e6)
	return &v
}

// CalcTolerance computes the oscillator tolerance conditions for nominal and,
// when data is not nil, CAN FD data phase timing.
//
// df2 and df4 both use the nominal phase segments.
func CalcTolerance(nominal BusParamsTq, data *BusParamsTq) Tolerance {
	nTQ := float64(nominal.tq)
	nPhase2 := float64(nominal.phase2)
	nPhaseMin := float64(min(nominal.phase1, nominal.phase2))

	t := Tolerance{
		DF1: round(float64(nominal.sjw) / (2 * 10 * nTQ) * 2 * 1e6),
		DF2: round(nPhaseMin / (13*nTQ - nPhase2) * 1e6),
	}
	if data == nil {
		return t
	}

	dTQ := float64(data.tq)
	dPhase2 := float64(data.phase2)
	dSJW := float64(data.sjw)
	dnRatio := float64(data.prescaler) / float64(nominal.prescaler)
	ndRatio := float64(nominal.prescaler) / float64(data.prescaler)

	t.DF3 = ppm(dSJW / (10 * dTQ))
	t.DF4 = ppm(nPhaseMin / (6*dTQ - dPhase2*dnRatio + 7*nTQ))
	t.DF5 = ppm((dSJW - max(0, ndRatio-1)) / ((2*nTQ-nPhase2)*ndRatio + dPhase2 + 4*dTQ))
	return t
}
