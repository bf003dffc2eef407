// Package busparams computes CAN and CAN FD bit timing expressed in time
// quanta, converts between that and the classic tseg1/tseg2/sjw form, checks
// timing against controller limits and calculates oscillator tolerances.
//
// Every bit is made of four segments:
//
//	+------+------------+----------------+----------------+
//	| SYNC | PROP       | PHASE1         | PHASE2         |
//	+------+------------+----------------+----------------+
//	  1 tq   prop tq      phase1 tq        phase2 tq
//	                                     ^
//	                                     sample point
//
// and the number of quanta per bit is tq = 1 + prop + phase1 + phase2.
package busparams

import (
	"fmt"
	"math"
)

// syncTQ is the length of the synchronization segment, always one quantum.
const syncTQ = 1

// BusParamsTq is a validated bit timing. The zero value is not valid, use
// NewBusParamsTq or CalcBusParamsTq. Fields are only reachable through
// accessors so a BusParamsTq can never hold a segment set that breaks
// tq == 1 + prop + phase1 + phase2.
type BusParamsTq struct {
	tq        int
	prop      int
	phase1    int
	phase2    int
	sjw       int
	prescaler int
}

// NewBusParamsTq validates and returns a bit timing. The argument order
// follows the driver's canSetBusParamsTq structure.
func NewBusParamsTq(tq, phase1, phase2, sjw, prescaler, prop int) (BusParamsTq, error) {
	if prescaler < 1 {
		return BusParamsTq{}, fmt.Errorf("%w: %d", ErrInvalidPrescaler, prescaler)
	}
	if tq != syncTQ+prop+phase1+phase2 {
		return BusParamsTq{}, fmt.Errorf("%w: tq=%d, sync=%d, prop=%d, phase1=%d, phase2=%d",
			ErrInvalidTQ, tq, syncTQ, prop, phase1, phase2)
	}
	return BusParamsTq{
		tq:        tq,
		prop:      prop,
		phase1:    phase1,
		phase2:    phase2,
		sjw:       sjw,
		prescaler: prescaler,
	}, nil
}

// TQ returns the number of time quanta per bit.
func (b BusParamsTq) TQ() int { return b.tq }

// Prop returns the propagation segment length in quanta.
func (b BusParamsTq) Prop() int { return b.prop }

// Phase1 returns the phase segment 1 length in quanta.
func (b BusParamsTq) Phase1() int { return b.phase1 }

// Phase2 returns the phase segment 2 length in quanta.
func (b BusParamsTq) Phase2() int { return b.phase2 }

// SJW returns the synchronization jump width in quanta.
func (b BusParamsTq) SJW() int { return b.sjw }

// Prescaler returns the clock divider.
func (b BusParamsTq) Prescaler() int { return b.prescaler }

// Bitrate returns the bitrate in bit/s produced by clkFreq.
func (b BusParamsTq) Bitrate(clkFreq float64) float64 {
	return clkFreq / float64(b.tq*b.prescaler)
}

// SamplePoint returns the sample point in percent of the bit time.
func (b BusParamsTq) SamplePoint() float64 {
	return float64(b.tq-b.phase2) / float64(b.tq) * 100
}

// SamplePointNs returns the time from the start of the bit to the sample
// point in nanoseconds.
func (b BusParamsTq) SamplePointNs(clkFreq float64) float64 {
	return float64(b.prescaler) * float64(b.tq-b.phase2) / clkFreq * 1e9
}

// SyncJumpWidth returns the SJW in percent of the bit time.
func (b BusParamsTq) SyncJumpWidth() float64 {
	return float64(b.sjw) / float64(b.tq) * 100
}

// IPLinkArgs renders the timing as iproute2 arguments, e.g.
//
//	tq 13 prop-seg 107 phase-seg1 31 phase-seg2 31 sjw 31
//
// The data phase variant uses the dtq/dprop-seg/... names.
func (b BusParamsTq) IPLinkArgs(clkFreq float64, data bool) []string {
	prefix := ""
	if data {
		prefix = "d"
	}
	tqNs := int64(math.Round(float64(b.prescaler) * 1e9 / clkFreq))
	return []string{
		prefix + "tq", fmt.Sprint(tqNs),
		prefix + "prop-seg", fmt.Sprint(b.prop),
		prefix + "phase-seg1", fmt.Sprint(b.phase1),
		prefix + "phase-seg2", fmt.Sprint(b.phase2),
		prefix + "sjw", fmt.Sprint(b.sjw),
	}
}

func (b BusParamsTq) String() string {
	return fmt.Sprintf("BusParamsTq(tq=%d, prop=%d, phase1=%d, phase2=%d, sjw=%d, prescaler=%d)",
		b.tq, b.prop, b.phase1, b.phase2, b.sjw, b.prescaler)
}
