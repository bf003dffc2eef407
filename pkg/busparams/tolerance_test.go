package busparams

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestCalcToleranceNominalOnly(t *testing.T) {
	nominal := mustBusParams(t, 170, 31, 31, 31, 1, 107)

	got := CalcTolerance(nominal, nil)
	assert.Equal(t, Tolerance{DF1: 18235, DF2: 14227}, got)
	assert.Nil(t, got.DF3)
	assert.Nil(t, got.DF4)
	assert.Nil(t, got.DF5)
	assert.Equal(t, 14227, got.Min())
	assert.Equal(t, "Tolerance(df1=18235, df2=14227, df3=None, df4=None, df5=None)", got.String())
}

func TestCalcTolerance(t *testing.T) {
	tests := []struct {
		name    string
		nominal [6]int // tq, phase1, phase2, sjw, prescaler, prop
		data    [6]int
		want    Tolerance
	}{
		{
			name:    "same prescaler",
			nominal: [6]int{160, 32, 32, 32, 1, 95},
			data:    [6]int{40, 8, 8, 8, 1, 23},
			want: Tolerance{
				DF1: 20000,
				DF2: 15625,
				DF3: intPtr(20000),
				DF4: intPtr(23669),
				DF5: intPtr(17544),
			},
		},
		{
			name:    "nominal prescaler twice data prescaler",
			nominal: [6]int{80, 16, 16, 16, 2, 47},
			data:    [6]int{40, 8, 8, 8, 1, 23},
			want: Tolerance{
				DF1: 20000,
				DF2: 15625,
				DF3: intPtr(20000),
				DF4: intPtr(20101),
				DF5: intPtr(15351),
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, d := tt.nominal, tt.data
			nominal := mustBusParams(t, n[0], n[1], n[2], n[3], n[4], n[5])
			data := mustBusParams(t, d[0], d[1], d[2], d[3], d[4], d[5])

			got := CalcTolerance(nominal, &data)
			require.NotNil(t, got.DF3)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestToleranceMin(t *testing.T) {
	tol := Tolerance{DF1: 20000, DF2: 15625, DF3: intPtr(20000), DF4: intPtr(9000), DF5: intPtr(17544)}
	assert.Equal(t, 9000, tol.Min())
}
