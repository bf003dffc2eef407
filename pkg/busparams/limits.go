package busparams

import (
	"fmt"
	"strings"
)

// LimitParams holds one bound (minimum or maximum) per bit timing field as
// reported by a device. There is no tq bound.
type LimitParams struct {
	Prop      int `toml:"prop"`
	Phase1    int `toml:"phase1"`
	Phase2    int `toml:"phase2"`
	SJW       int `toml:"sjw"`
	Prescaler int `toml:"prescaler"`
}

// BusParamTqLimits are the device limits for arbitration and data phase
// timing.
type BusParamTqLimits struct {
	ArbitrationMin LimitParams `toml:"arbitration_min"`
	ArbitrationMax LimitParams `toml:"arbitration_max"`
	DataMin        LimitParams `toml:"data_min"`
	DataMax        LimitParams `toml:"data_max"`
}

// Violation is a single field outside its bounds.
type Violation struct {
	// Phase is "Arbitration" or "Data"
	Phase string
	Field string
	Min   int
	Value int
	Max   int
}

func (v Violation) String() string {
	return fmt.Sprintf("%s %s: %d <= %d <= %d", v.Phase, v.Field, v.Min, v.Value, v.Max)
}

// LimitError lists every field that is out of range.
type LimitError struct {
	Violations []Violation
}

func (e *LimitError) Error() string {
	lines := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		lines[i] = v.String()
	}
	return strings.Join(lines, "\n")
}

func (e *LimitError) Unwrap() error { return ErrOutOfRange }

// Validate checks busParam, and dataParam when not nil, against the limits.
// All violations are collected into a single *LimitError.
//
// Devices that report 0 for both the minimum and maximum PROP do not have a
// separate propagation segment; for them phase1 + prop is checked against
// the PHASE1 bounds and PROP itself is not checked.
func (l BusParamTqLimits) Validate(busParam BusParamsTq, dataParam *BusParamsTq) error {
	violations := checkLimits("Arbitration", busParam, l.ArbitrationMin, l.ArbitrationMax)
	if dataParam != nil {
		violations = append(violations, checkLimits("Data", *dataParam, l.DataMin, l.DataMax)...)
	}
	if len(violations) > 0 {
		return &LimitError{Violations: violations}
	}
	return nil
}

func checkLimits(phase string, bp BusParamsTq, lo, hi LimitParams) []Violation {
	var violations []Violation
	check := func(field string, lo, value, hi int) {
		if value < lo || value > hi {
			violations = append(violations, Violation{Phase: phase, Field: field, Min: lo, Value: value, Max: hi})
		}
	}

	mergedProp := lo.Prop == 0 && hi.Prop == 0
	phase1 := bp.phase1
	if mergedProp {
		phase1 += bp.prop
	}

	check("phase1", lo.Phase1, phase1, hi.Phase1)
	check("phase2", lo.Phase2, bp.phase2, hi.Phase2)
	check("sjw", lo.SJW, bp.sjw, hi.SJW)
	check("prescaler", lo.Prescaler, bp.prescaler, hi.Prescaler)
	if !mergedProp {
		check("prop", lo.Prop, bp.prop, hi.Prop)
	}
	return violations
}
