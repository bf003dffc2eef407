package busparams

import (
	"fmt"
	"strconv"
	"strings"
)

// BitrateSetting is the classic, prescaler independent bus parameter form
// used by canSetBusParams: the sync segment is implicit and not part of
// Tseg1.
type BitrateSetting struct {
	// Freq is the bitrate in bit/s
	Freq  float64
	Tseg1 int
	Tseg2 int
	SJW   int
	// NoSamp is the number of sampling points, always 1
	NoSamp int
	// SyncMode is ignored
	SyncMode int
}

// NewBitrateSetting returns a BitrateSetting with a single sampling point.
func NewBitrateSetting(freq float64, tseg1, tseg2, sjw int) BitrateSetting {
	return BitrateSetting{
		Freq:   freq,
		Tseg1:  tseg1,
		Tseg2:  tseg2,
		SJW:    sjw,
		NoSamp: 1,
	}
}

// Classic implements ClassicTiming.
func (s BitrateSetting) Classic() Classic {
	return Classic{Freq: s.Freq, Tseg1: s.Tseg1, Tseg2: s.Tseg2, SJW: s.SJW}
}

func (s BitrateSetting) String() string {
	return fmt.Sprintf("BitrateSetting(freq=%v, tseg1=%d, tseg2=%d, sjw=%d, nosamp=%d, syncMode=%d)",
		s.Freq, s.Tseg1, s.Tseg2, s.SJW, s.NoSamp, s.SyncMode)
}

// Classic is the bare (freq, tseg1, tseg2, sjw) tuple accepted wherever a
// BitrateSetting is.
type Classic struct {
	Freq  float64
	Tseg1 int
	Tseg2 int
	SJW   int
}

// Classic implements ClassicTiming.
func (c Classic) Classic() Classic { return c }

// ClassicTiming is anything that can be expressed as classic bus parameters.
type ClassicTiming interface {
	Classic() Classic
}

var bitrateSuffixes = map[string]float64{
	"k": 1e3,
	"m": 1e6,
}

// ParseBitrate parses a bitrate such as "500000", "500K", "1M" or "2.5m".
func ParseBitrate(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("busparams: empty bitrate")
	}
	mult := 1.0
	if m, ok := bitrateSuffixes[strings.ToLower(s[len(s)-1:])]; ok {
		mult = m
		s = s[:len(s)-1]
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("busparams: invalid bitrate %q: %w", s, err)
	}
	if v <= 0 {
		return 0, fmt.Errorf("busparams: bitrate must be positive, got %v", v*mult)
	}
	return v * mult, nil
}
