package can

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/karlding/canbustiming/pkg/busparams"
)

// Payload sizes of the structures taken from the Linux kernel source:
//
//	include/uapi/linux/can/netlink.h
const (
	BitTimingSize      = 8 * 4
	BitTimingConstSize = 16 + 8*4
	ClockSize          = 4
)

// ErrShortBuffer is returned when a payload is smaller than the structure it
// should hold.
var ErrShortBuffer = errors.New("can: buffer too short")

// BitTiming is a representation of the Linux can_bittiming struct
type BitTiming struct {
	// Bit-rate in bits/second
	Bitrate uint32
	// Sample point in one-tenth of a percent
	SamplePoint uint32
	// Time quantum in nanoseconds
	TQ        uint32
	PropSeg   uint32
	PhaseSeg1 uint32
	PhaseSeg2 uint32
	SJW       uint32
	// Bit-rate prescaler
	BRP uint32
}

// NewBitTiming fills a BitTiming from bus parameters running at clkFreq Hz
func NewBitTiming(bp busparams.BusParamsTq, clkFreq float64) BitTiming {
	return BitTiming{
		Bitrate:     uint32(math.Round(bp.Bitrate(clkFreq))),
		SamplePoint: uint32(math.Round(bp.SamplePoint() * 10)),
		TQ:          uint32(math.Round(float64(bp.Prescaler()) * 1e9 / clkFreq)),
		PropSeg:     uint32(bp.Prop()),
		PhaseSeg1:   uint32(bp.Phase1()),
		PhaseSeg2:   uint32(bp.Phase2()),
		SJW:         uint32(bp.SJW()),
		BRP:         uint32(bp.Prescaler()),
	}
}

// BusParamsTq converts the kernel representation back into bus parameters.
// The kernel stores the quantum length in ns, the quanta per bit are the sum
// of the segments.
func (bt *BitTiming) BusParamsTq() (busparams.BusParamsTq, error) {
	tq := 1 + int(bt.PropSeg) + int(bt.PhaseSeg1) + int(bt.PhaseSeg2)
	return busparams.NewBusParamsTq(tq, int(bt.PhaseSeg1), int(bt.PhaseSeg2), int(bt.SJW), int(bt.BRP), int(bt.PropSeg))
}

// BufferToBitTiming converts a raw IFLA_CAN_BITTIMING payload to a BitTiming
func BufferToBitTiming(buffer []byte, bt *BitTiming) error {
	// struct can_bittiming {
	//   __u32 bitrate;
	//   __u32 sample_point;
	//   __u32 tq;
	//   __u32 prop_seg;
	//   __u32 phase_seg1;
	//   __u32 phase_seg2;
	//   __u32 sjw;
	//   __u32 brp;
	// };
	if len(buffer) < BitTimingSize {
		return fmt.Errorf("%w: can_bittiming needs %d bytes, got %d", ErrShortBuffer, BitTimingSize, len(buffer))
	}
	fields := []*uint32{&bt.Bitrate, &bt.SamplePoint, &bt.TQ, &bt.PropSeg, &bt.PhaseSeg1, &bt.PhaseSeg2, &bt.SJW, &bt.BRP}
	for i, f := range fields {
		*f = binary.LittleEndian.Uint32(buffer[i*4:])
	}
	return nil
}

// BitTimingToBuffer converts a BitTiming to a byte buffer
func BitTimingToBuffer(bt *BitTiming, buffer []byte) error {
	if len(buffer) < BitTimingSize {
		return fmt.Errorf("%w: can_bittiming needs %d bytes, got %d", ErrShortBuffer, BitTimingSize, len(buffer))
	}
	fields := []uint32{bt.Bitrate, bt.SamplePoint, bt.TQ, bt.PropSeg, bt.PhaseSeg1, bt.PhaseSeg2, bt.SJW, bt.BRP}
	for i, f := range fields {
		binary.LittleEndian.PutUint32(buffer[i*4:], f)
	}
	return nil
}

// BitTimingConst is a representation of the Linux can_bittiming_const struct,
// the timing limits a controller driver reports.
type BitTimingConst struct {
	// Name of the CAN controller hardware
	Name     string `toml:"name"`
	Tseg1Min uint32 `toml:"tseg1_min"`
	Tseg1Max uint32 `toml:"tseg1_max"`
	Tseg2Min uint32 `toml:"tseg2_min"`
	Tseg2Max uint32 `toml:"tseg2_max"`
	SJWMax   uint32 `toml:"sjw_max"`
	BRPMin   uint32 `toml:"brp_min"`
	BRPMax   uint32 `toml:"brp_max"`
	BRPInc   uint32 `toml:"brp_inc"`
}

// BufferToBitTimingConst converts a raw IFLA_CAN_BITTIMING_CONST payload to a
// BitTimingConst
func BufferToBitTimingConst(buffer []byte, c *BitTimingConst) error {
	// struct can_bittiming_const {
	//   char name[16];
	//   __u32 tseg1_min;
	//   __u32 tseg1_max;
	//   __u32 tseg2_min;
	//   __u32 tseg2_max;
	//   __u32 sjw_max;
	//   __u32 brp_min;
	//   __u32 brp_max;
	//   __u32 brp_inc;
	// };
	if len(buffer) < BitTimingConstSize {
		return fmt.Errorf("%w: can_bittiming_const needs %d bytes, got %d", ErrShortBuffer, BitTimingConstSize, len(buffer))
	}
	name := string(buffer[:16])
	if i := strings.IndexByte(name, 0); i >= 0 {
		name = name[:i]
	}
	c.Name = name

	fields := []*uint32{&c.Tseg1Min, &c.Tseg1Max, &c.Tseg2Min, &c.Tseg2Max, &c.SJWMax, &c.BRPMin, &c.BRPMax, &c.BRPInc}
	for i, f := range fields {
		*f = binary.LittleEndian.Uint32(buffer[16+i*4:])
	}
	return nil
}

// BitTimingConstToBuffer converts a BitTimingConst to a byte buffer. Names
// longer than 15 bytes are truncated.
func BitTimingConstToBuffer(c *BitTimingConst, buffer []byte) error {
	if len(buffer) < BitTimingConstSize {
		return fmt.Errorf("%w: can_bittiming_const needs %d bytes, got %d", ErrShortBuffer, BitTimingConstSize, len(buffer))
	}
	name := make([]byte, 16)
	copy(name[:15], c.Name)
	copy(buffer[:16], name)

	fields := []uint32{c.Tseg1Min, c.Tseg1Max, c.Tseg2Min, c.Tseg2Max, c.SJWMax, c.BRPMin, c.BRPMax, c.BRPInc}
	for i, f := range fields {
		binary.LittleEndian.PutUint32(buffer[16+i*4:], f)
	}
	return nil
}

// Bounds returns the minimum and maximum bus parameters. The kernel only
// knows tseg1 = prop + phase1, so both prop bounds are 0.
func (c *BitTimingConst) Bounds() (lo, hi busparams.LimitParams) {
	lo = busparams.LimitParams{
		Phase1:    int(c.Tseg1Min),
		Phase2:    int(c.Tseg2Min),
		SJW:       1,
		Prescaler: int(c.BRPMin),
	}
	hi = busparams.LimitParams{
		Phase1:    int(c.Tseg1Max),
		Phase2:    int(c.Tseg2Max),
		SJW:       int(c.SJWMax),
		Prescaler: int(c.BRPMax),
	}
	return lo, hi
}

// Limits builds device limits from the arbitration and, for CAN FD
// controllers, data phase constants.
func Limits(arbitration *BitTimingConst, data *BitTimingConst) busparams.BusParamTqLimits {
	var l busparams.BusParamTqLimits
	l.ArbitrationMin, l.ArbitrationMax = arbitration.Bounds()
	if data != nil {
		l.DataMin, l.DataMax = data.Bounds()
	}
	return l
}

// BufferToClock converts a raw IFLA_CAN_CLOCK payload (struct can_clock,
// a single __u32 freq in Hz) to a ClockInfo
func BufferToClock(buffer []byte) (busparams.ClockInfo, error) {
	if len(buffer) < ClockSize {
		return busparams.ClockInfo{}, fmt.Errorf("%w: can_clock needs %d bytes, got %d", ErrShortBuffer, ClockSize, len(buffer))
	}
	freq := binary.LittleEndian.Uint32(buffer[0:4])
	return busparams.ClockInfoFromList([]int{1, int(freq), 1, 0, 0})
}
