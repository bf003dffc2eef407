package busparams

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToBusParamsTq(t *testing.T) {
	setting := NewBitrateSetting(500000, 12, 3, 1)

	tests := []struct {
		name    string
		param   ClassicTiming
		opts    []ConvertOption
		want    [6]int // tq, phase1, phase2, sjw, prescaler, prop
		wantErr error
	}{
		{
			name:  "bitrate setting",
			param: setting,
			want:  [6]int{160, 30, 30, 10, 1, 99},
		},
		{
			name:  "tuple",
			param: Classic{Freq: 500000, Tseg1: 12, Tseg2: 3, SJW: 1},
			want:  [6]int{160, 30, 30, 10, 1, 99},
		},
		{
			name:  "prescaler 2",
			param: setting,
			opts:  []ConvertOption{WithConvertPrescaler(2)},
			want:  [6]int{80, 15, 15, 5, 2, 49},
		},
		{
			name:    "prescaler 3 truncates",
			param:   setting,
			opts:    []ConvertOption{WithConvertPrescaler(3)},
			wantErr: ErrInvalidTQ,
		},
		{
			name:    "prescaler 0",
			param:   setting,
			opts:    []ConvertOption{WithConvertPrescaler(0)},
			wantErr: ErrInvalidPrescaler,
		},
		{
			name:  "data folds prop into phase1",
			param: setting,
			opts:  []ConvertOption{AsData()},
			want:  [6]int{160, 129, 30, 10, 1, 0},
		},
		{
			name:  "data with prescaler",
			param: &setting,
			opts:  []ConvertOption{WithConvertPrescaler(2), AsData()},
			want:  [6]int{80, 64, 15, 5, 2, 0},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToBusParamsTq(80e6, tt.param, tt.opts...)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, got)
			w := tt.want
			assert.Equal(t, mustBusParams(t, w[0], w[1], w[2], w[3], w[4], w[5]), *got)
		})
	}
}

func TestToBusParamsTqNil(t *testing.T) {
	got, err := ToBusParamsTq(80e6, nil)
	assert.NoError(t, err)
	assert.Nil(t, got)

	var setting *BitrateSetting
	got, err = ToBusParamsTq(80e6, setting)
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestToBitrateSetting(t *testing.T) {
	assert.Nil(t, ToBitrateSetting(80e6, nil))

	bp := mustBusParams(t, 160, 30, 30, 10, 1, 99)
	got := ToBitrateSetting(80e6, &bp)
	require.NotNil(t, got)
	assert.Equal(t, NewBitrateSetting(500000, 129, 30, 10), *got)

	back, err := ToBusParamsTq(80e6, got)
	require.NoError(t, err)
	assert.Equal(t, bp, *back)
}

func TestToBitrateSettingPrescaler(t *testing.T) {
	bp := mustBusParams(t, 80, 15, 15, 5, 2, 49)
	got := ToBitrateSetting(80e6, &bp)
	require.NotNil(t, got)
	assert.Equal(t, NewBitrateSetting(500000, 64, 15, 5), *got)
}
