package busparams

import (
	"fmt"
	"reflect"
)

type convertOptions struct {
	prescaler int
	data      bool
}

// ConvertOption configures ToBusParamsTq.
type ConvertOption func(*convertOptions)

// WithConvertPrescaler divides the computed quanta by p.
func WithConvertPrescaler(p int) ConvertOption {
	return func(o *convertOptions) {
		o.prescaler = p
	}
}

// AsData folds PROP into PHASE1 for CAN FD data phase timing, which most
// controllers configure without a separate propagation segment.
func AsData() ConvertOption {
	return func(o *convertOptions) {
		o.data = true
	}
}

// isNil reports whether an interface holds nothing or a nil pointer.
func isNil(v interface{}) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Ptr && rv.IsNil()
}

// ToBusParamsTq converts classic bus parameters into quanta. A nil param
// returns nil without error.
//
// Classic parameters are defined at prescaler 1; with WithConvertPrescaler
// every segment is divided by the prescaler and the result must still add up,
// otherwise ErrInvalidTQ is returned.
func ToBusParamsTq(clkFreq float64, param ClassicTiming, opts ...ConvertOption) (*BusParamsTq, error) {
	if isNil(param) {
		return nil, nil
	}
	o := convertOptions{prescaler: 1}
	for _, opt := range opts {
		opt(&o)
	}
	if o.prescaler < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidPrescaler, o.prescaler)
	}

	c := param.Classic()
	// The classic form leaves one quantum for SYNC outside tseg1
	total := float64(1 + c.Tseg1 + c.Tseg2)
	samplePoint := 100 * float64(1+c.Tseg1) / total
	sjw := 100 * float64(c.SJW) / total

	bp, err := CalcBusParamsTq(float64(round(c.Freq)), samplePoint, sjw, clkFreq)
	if err != nil {
		return nil, err
	}

	if p := o.prescaler; p != 1 {
		bp, err = NewBusParamsTq(bp.tq/p, bp.phase1/p, bp.phase2/p, bp.sjw/p, p, bp.prop/p)
		if err != nil {
			return nil, fmt.Errorf("rescale to prescaler %d: %w", p, err)
		}
	}

	if o.data {
		bp, err = NewBusParamsTq(bp.tq, bp.phase1+bp.prop, bp.phase2, bp.sjw, bp.prescaler, 0)
		if err != nil {
			return nil, err
		}
	}
	return &bp, nil
}

// ToBitrateSetting converts a bit timing back into classic parameters. The
// prescaler only survives through the resulting bitrate.
func ToBitrateSetting(clkFreq float64, param *BusParamsTq) *BitrateSetting {
	if param == nil {
		return nil
	}
	s := NewBitrateSetting(param.Bitrate(clkFreq), param.prop+param.phase1, param.phase2, param.sjw)
	return &s
}
