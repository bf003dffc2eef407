//go:build linux

package can

import (
	"fmt"

	"golang.org/x/sys/unix"

	"github.com/karlding/canbustiming/pkg/busparams"
)

// LinkInfo collects the bit timing related IFLA_CAN_* attributes of a CAN
// network interface as found in a RTM_NEWLINK message.
type LinkInfo struct {
	Clock              *busparams.ClockInfo
	BitTiming          *BitTiming
	BitTimingConst     *BitTimingConst
	DataBitTiming      *BitTiming
	DataBitTimingConst *BitTimingConst
}

// SetAttribute decodes one IFLA_INFO_DATA attribute. Attributes unrelated to
// bit timing are ignored.
func (li *LinkInfo) SetAttribute(attrType uint16, payload []byte) error {
	switch attrType {
	case unix.IFLA_CAN_CLOCK:
		clock, err := BufferToClock(payload)
		if err != nil {
			return err
		}
		li.Clock = &clock
	case unix.IFLA_CAN_BITTIMING:
		bt := new(BitTiming)
		if err := BufferToBitTiming(payload, bt); err != nil {
			return err
		}
		li.BitTiming = bt
	case unix.IFLA_CAN_DATA_BITTIMING:
		bt := new(BitTiming)
		if err := BufferToBitTiming(payload, bt); err != nil {
			return err
		}
		li.DataBitTiming = bt
	case unix.IFLA_CAN_BITTIMING_CONST:
		c := new(BitTimingConst)
		if err := BufferToBitTimingConst(payload, c); err != nil {
			return err
		}
		li.BitTimingConst = c
	case unix.IFLA_CAN_DATA_BITTIMING_CONST:
		c := new(BitTimingConst)
		if err := BufferToBitTimingConst(payload, c); err != nil {
			return err
		}
		li.DataBitTimingConst = c
	}
	return nil
}

// Limits returns the device limits, false if the interface did not report
// any bit timing constants.
func (li *LinkInfo) Limits() (busparams.BusParamTqLimits, bool) {
	if li.BitTimingConst == nil {
		return busparams.BusParamTqLimits{}, false
	}
	return Limits(li.BitTimingConst, li.DataBitTimingConst), true
}

// BusParams returns the configured nominal and, if present, data phase
// timing.
func (li *LinkInfo) BusParams() (nominal busparams.BusParamsTq, data *busparams.BusParamsTq, err error) {
	if li.BitTiming == nil {
		return nominal, nil, fmt.Errorf("can: no bit timing attribute")
	}
	if nominal, err = li.BitTiming.BusParamsTq(); err != nil {
		return nominal, nil, err
	}
	if li.DataBitTiming != nil {
		d, err := li.DataBitTiming.BusParamsTq()
		if err != nil {
			return nominal, nil, fmt.Errorf("data bit timing: %w", err)
		}
		data = &d
	}
	return nominal, data, nil
}
