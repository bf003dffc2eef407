package busparams

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBusParamsTq(t *testing.T) {
	tests := []struct {
		name    string
		args    [6]int // tq, phase1, phase2, sjw, prescaler, prop
		wantErr error
	}{
		{name: "valid", args: [6]int{170, 31, 31, 31, 1, 107}},
		{name: "tq mismatch", args: [6]int{10, 3, 3, 1, 1, 2}, wantErr: ErrInvalidTQ},
		{name: "zero prescaler", args: [6]int{9, 3, 3, 1, 0, 2}, wantErr: ErrInvalidPrescaler},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := tt.args
			bp, err := NewBusParamsTq(a[0], a[1], a[2], a[3], a[4], a[5])
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, a[0], bp.TQ())
			assert.Equal(t, a[1], bp.Phase1())
			assert.Equal(t, a[2], bp.Phase2())
			assert.Equal(t, a[3], bp.SJW())
			assert.Equal(t, a[4], bp.Prescaler())
			assert.Equal(t, a[5], bp.Prop())
		})
	}
}

func TestBusParamsTqEquality(t *testing.T) {
	a := mustBusParams(t, 170, 31, 31, 31, 1, 107)
	b := mustBusParams(t, 170, 31, 31, 31, 1, 107)
	c := mustBusParams(t, 170, 31, 31, 30, 1, 107)
	assert.True(t, a == b)
	assert.False(t, a == c)
}

func TestBusParamsTqAccessors(t *testing.T) {
	bp := mustBusParams(t, 170, 31, 31, 31, 1, 107)

	assert.InDelta(t, 470588.235, bp.Bitrate(80e6), 1e-3)
	assert.InDelta(t, 81.7647, bp.SamplePoint(), 1e-4)
	assert.InDelta(t, 1737.5, bp.SamplePointNs(80e6), 1e-9)
	assert.InDelta(t, 18.2353, bp.SyncJumpWidth(), 1e-4)

	scaled := mustBusParams(t, 80, 16, 16, 16, 2, 47)
	assert.Equal(t, 500000.0, scaled.Bitrate(80e6))
	assert.InDelta(t, 1600.0, scaled.SamplePointNs(80e6), 1e-9)
}

func TestBusParamsTqString(t *testing.T) {
	bp := mustBusParams(t, 170, 31, 31, 31, 1, 107)
	assert.Equal(t, "BusParamsTq(tq=170, prop=107, phase1=31, phase2=31, sjw=31, prescaler=1)", bp.String())
}

func TestBusParamsTqIPLinkArgs(t *testing.T) {
	bp := mustBusParams(t, 170, 31, 31, 31, 1, 107)
	assert.Equal(t,
		[]string{"tq", "13", "prop-seg", "107", "phase-seg1", "31", "phase-seg2", "31", "sjw", "31"},
		bp.IPLinkArgs(80e6, false))

	data := mustBusParams(t, 40, 8, 8, 8, 2, 23)
	assert.Equal(t,
		[]string{"dtq", "25", "dprop-seg", "23", "dphase-seg1", "8", "dphase-seg2", "8", "dsjw", "8"},
		data.IPLinkArgs(80e6, true))
}
