package busparams

import (
	"fmt"
	"math"
)

// clockInfoVersion is the only clock info list layout understood
const clockInfoVersion = 1

// ClockInfo describes the oscillator driving a CAN controller. The frequency
// is expressed as Numerator / Denominator * 10^PowerOfTen, Accuracy is in ppm.
type ClockInfo struct {
	Numerator   int
	Denominator int
	PowerOfTen  int
	Accuracy    int
}

// ClockInfoFromList builds a ClockInfo from the versioned list reported by
// the driver:
//
//	[version, numerator, denominator, power_of_ten, accuracy]
func ClockInfoFromList(args []int) (ClockInfo, error) {
	if len(args) == 0 || args[0] != clockInfoVersion {
		var v interface{} = "<none>"
		if len(args) > 0 {
			v = args[0]
		}
		return ClockInfo{}, fmt.Errorf("%w: %v", ErrUnknownVersion, v)
	}
	if len(args) < 5 {
		return ClockInfo{}, fmt.Errorf("busparams: clock info version 1 needs 5 values, got %d", len(args))
	}
	return ClockInfo{
		Numerator:   args[1],
		Denominator: args[2],
		PowerOfTen:  args[3],
		Accuracy:    args[4],
	}, nil
}

// Frequency returns the oscillator frequency in Hz.
func (c ClockInfo) Frequency() float64 {
	return float64(c.Numerator) / float64(c.Denominator) * math.Pow(10, float64(c.PowerOfTen))
}

// Equal compares accuracy and resulting frequency, so 80/1*10^6 equals
// 8/1*10^7.
func (c ClockInfo) Equal(other ClockInfo) bool {
	return c.Accuracy == other.Accuracy && c.Frequency() == other.Frequency()
}

func (c ClockInfo) String() string {
	return fmt.Sprintf("ClockInfo(numerator=%d, denominator=%d, power_of_ten=%d, accuracy=%d)",
		c.Numerator, c.Denominator, c.PowerOfTen, c.Accuracy)
}
