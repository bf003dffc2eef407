package busparams

import (
	"fmt"
	"math"
)

// minTQ is the shortest bit the solver will produce: SYNC plus one quantum
// each for the remaining segments.
const minTQ = 3

// round rounds half to even.
func round(x float64) int {
	return int(math.RoundToEven(x))
}

// BitrateResult is the outcome of CalcBitrate.
type BitrateResult struct {
	// Bitrate actually reachable with TQ quanta per bit
	Bitrate float64
	TQ      int
}

// CalcBitrate finds the number of quanta per bit closest to targetBitrate.
// The result never has fewer than three quanta.
func CalcBitrate(targetBitrate, clkFreq float64) BitrateResult {
	tq := round(clkFreq / targetBitrate)
	if tq < minTQ {
		tq = minTQ
	}
	return BitrateResult{
		Bitrate: clkFreq / float64(tq),
		TQ:      tq,
	}
}

// SamplePointResult is the outcome of CalcSamplePoint.
type SamplePointResult struct {
	// SamplePoint reachable with Phase2, in percent
	SamplePoint float64
	Phase2      int
}

// CalcSamplePoint derives PHASE2 from the wanted sample point in percent.
// Phase2 is not clamped and may reach 0 for sample points close to 100%.
func CalcSamplePoint(tq int, targetSamplePoint float64) SamplePointResult {
	phase2 := tq - round(targetSamplePoint/100*float64(tq))
	return SamplePointResult{
		SamplePoint: float64(tq-phase2) / float64(tq) * 100,
		Phase2:      phase2,
	}
}

// CalcPhaseSeg1 returns what is left for PHASE1 once prop, phase2 and the
// sync segment are taken out of tq. Anything below 1 is raised to 1, so the
// result may no longer add up to tq; CalcPropSeg restores the sum.
func CalcPhaseSeg1(tq, prop, phase2, syncTQ int) int {
	phase1 := tq - prop - phase2 - syncTQ
	if phase1 < 1 {
		phase1 = 1
	}
	return phase1
}

// CalcPropSeg returns the PROP length that makes the segments add up to tq.
func CalcPropSeg(tq, phase1, phase2, syncTQ int) int {
	return tq - phase2 - phase1 - syncTQ
}

// SJWResult is the outcome of CalcSJW.
type SJWResult struct {
	SJW int
	// Percent is the SJW as a rounded percentage of the bit time
	Percent int
}

// CalcSJW converts a SJW in percent of the bit into quanta, at least 1.
func CalcSJW(tq int, targetSyncJumpWidth float64) SJWResult {
	sjw := round(targetSyncJumpWidth / 100 * float64(tq))
	if sjw < 1 {
		sjw = 1
	}
	return SJWResult{
		SJW:     sjw,
		Percent: round(float64(sjw) / float64(tq) * 100),
	}
}

type calcOptions struct {
	propTQ    *int
	prescaler int
}

// Option configures CalcBusParamsTq.
type Option func(*calcOptions)

// WithPropTQ requests a propagation segment of n quanta at prescaler 1. The
// value is scaled down by the prescaler before use.
func WithPropTQ(n int) Option {
	return func(o *calcOptions) {
		o.propTQ = &n
	}
}

// WithPrescaler sets the clock prescaler, 1 if not given.
func WithPrescaler(p int) Option {
	return func(o *calcOptions) {
		o.prescaler = p
	}
}

// CalcBusParamsTq computes a full segment set for the target bitrate (bit/s),
// sample point (%) and SJW (%) at clock frequency clkFreq (Hz).
//
// Without WithPropTQ PHASE1 mirrors PHASE2 and PROP takes the rest of the bit.
// The SJW is limited to the shorter phase segment.
func CalcBusParamsTq(targetBitrate, targetSamplePoint, targetSyncJumpWidth, clkFreq float64, opts ...Option) (BusParamsTq, error) {
	o := calcOptions{prescaler: 1}
	for _, opt := range opts {
		opt(&o)
	}
	if o.prescaler < 1 {
		return BusParamsTq{}, fmt.Errorf("%w: %d", ErrInvalidPrescaler, o.prescaler)
	}

	// One bit lasts tq * prescaler / clkFreq
	tq := CalcBitrate(targetBitrate*float64(o.prescaler), clkFreq).TQ
	phase2 := CalcSamplePoint(tq, targetSamplePoint).Phase2

	var phase1 int
	if o.propTQ == nil {
		phase1 = phase2
	} else {
		scaledProp := round(float64(*o.propTQ) / float64(o.prescaler))
		phase1 = CalcPhaseSeg1(tq, scaledProp, phase2, syncTQ)
	}
	prop := CalcPropSeg(tq, phase1, phase2, syncTQ)

	sjw := CalcSJW(tq, targetSyncJumpWidth).SJW
	if limit := min(phase1, phase2); sjw > limit {
		sjw = limit
	}

	bp, err := NewBusParamsTq(tq, phase1, phase2, sjw, o.prescaler, prop)
	if err != nil {
		return BusParamsTq{}, fmt.Errorf("calc busparams for %v bit/s: %w", targetBitrate, err)
	}
	return bp, nil
}
