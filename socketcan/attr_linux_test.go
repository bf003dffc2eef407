//go:build linux

package can

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func TestLinkInfoSetAttribute(t *testing.T) {
	var li LinkInfo

	_, ok := li.Limits()
	assert.False(t, ok)
	_, _, err := li.BusParams()
	assert.Error(t, err)

	clock := make([]byte, ClockSize)
	binary.LittleEndian.PutUint32(clock, 40000000)
	require.NoError(t, li.SetAttribute(unix.IFLA_CAN_CLOCK, clock))

	nominal := make([]byte, BitTimingSize)
	require.NoError(t, BitTimingToBuffer(&BitTiming{Bitrate: 500000, SamplePoint: 875, TQ: 25, PropSeg: 34, PhaseSeg1: 35, PhaseSeg2: 10, SJW: 1, BRP: 1}, nominal))
	require.NoError(t, li.SetAttribute(unix.IFLA_CAN_BITTIMING, nominal))

	data := make([]byte, BitTimingSize)
	require.NoError(t, BitTimingToBuffer(&BitTiming{Bitrate: 2000000, SamplePoint: 750, TQ: 25, PropSeg: 7, PhaseSeg1: 7, PhaseSeg2: 5, SJW: 1, BRP: 1}, data))
	require.NoError(t, li.SetAttribute(unix.IFLA_CAN_DATA_BITTIMING, data))

	btc := make([]byte, BitTimingConstSize)
	require.NoError(t, BitTimingConstToBuffer(&BitTimingConst{Name: "flexcan", Tseg1Min: 2, Tseg1Max: 96, Tseg2Min: 2, Tseg2Max: 32, SJWMax: 16, BRPMin: 1, BRPMax: 1024, BRPInc: 1}, btc))
	require.NoError(t, li.SetAttribute(unix.IFLA_CAN_BITTIMING_CONST, btc))
	require.NoError(t, BitTimingConstToBuffer(&BitTimingConst{Name: "flexcan", Tseg1Min: 2, Tseg1Max: 39, Tseg2Min: 2, Tseg2Max: 8, SJWMax: 4, BRPMin: 1, BRPMax: 1024, BRPInc: 1}, btc))
	require.NoError(t, li.SetAttribute(unix.IFLA_CAN_DATA_BITTIMING_CONST, btc))

	// ignored
	require.NoError(t, li.SetAttribute(unix.IFLA_CAN_STATE, []byte{0}))

	require.NotNil(t, li.Clock)
	assert.Equal(t, 40e6, li.Clock.Frequency())
	assert.Equal(t, "flexcan", li.BitTimingConst.Name)

	n, d, err := li.BusParams()
	require.NoError(t, err)
	require.NotNil(t, d)
	assert.Equal(t, 80, n.TQ())
	assert.Equal(t, 20, d.TQ())
	assert.Equal(t, 500000.0, n.Bitrate(li.Clock.Frequency()))
	assert.Equal(t, 2e6, d.Bitrate(li.Clock.Frequency()))

	limits, ok := li.Limits()
	require.True(t, ok)
	assert.NoError(t, limits.Validate(n, d))
}

func TestLinkInfoShortPayload(t *testing.T) {
	var li LinkInfo
	assert.ErrorIs(t, li.SetAttribute(unix.IFLA_CAN_BITTIMING, []byte{1, 2}), ErrShortBuffer)
	assert.ErrorIs(t, li.SetAttribute(unix.IFLA_CAN_DATA_BITTIMING_CONST, []byte{1, 2}), ErrShortBuffer)
	assert.Nil(t, li.BitTiming)
}
