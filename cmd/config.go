package cmd

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/karlding/canbustiming/pkg/busparams"
	can "github.com/karlding/canbustiming/socketcan"
)

// Bitrate is a bitrate in bit/s. In TOML it may be a number or a string such
// as "500K".
type Bitrate float64

// UnmarshalTOML implements toml.Unmarshaler
func (b *Bitrate) UnmarshalTOML(v interface{}) error {
	switch v := v.(type) {
	case int64:
		*b = Bitrate(v)
	case float64:
		*b = Bitrate(v)
	case string:
		f, err := busparams.ParseBitrate(v)
		if err != nil {
			return err
		}
		*b = Bitrate(f)
	default:
		return fmt.Errorf("bitrate: unsupported value %v", v)
	}
	return nil
}

// ClockConfig describes the CAN controller oscillator, either as a plain
// frequency in Hz or in the driver's numerator/denominator/power_of_ten form
type ClockConfig struct {
	Frequency   float64 `toml:"frequency"`
	Numerator   int     `toml:"numerator"`
	Denominator int     `toml:"denominator"`
	PowerOfTen  int     `toml:"power_of_ten"`
	Accuracy    int     `toml:"accuracy"`
}

// ClockInfo returns the configured clock
func (c ClockConfig) ClockInfo() (busparams.ClockInfo, error) {
	switch {
	case c.Frequency > 0:
		if c.Frequency != math.Trunc(c.Frequency) {
			return busparams.ClockInfo{}, fmt.Errorf("clock frequency %v is not a whole number of Hz", c.Frequency)
		}
		return busparams.ClockInfoFromList([]int{1, int(c.Frequency), 1, 0, c.Accuracy})
	case c.Numerator > 0:
		denominator := c.Denominator
		if denominator == 0 {
			denominator = 1
		}
		return busparams.ClockInfoFromList([]int{1, c.Numerator, denominator, c.PowerOfTen, c.Accuracy})
	}
	return busparams.ClockInfo{}, errors.New("no clock frequency configured")
}

// TimingConfig holds the targets for one bus phase
type TimingConfig struct {
	Bitrate     Bitrate `toml:"bitrate"`
	SamplePoint float64 `toml:"sample_point"`
	SJW         float64 `toml:"sjw"`
	Prop        *int    `toml:"prop"`
	Prescaler   int     `toml:"prescaler"`
}

func (t TimingConfig) options() []busparams.Option {
	opts := []busparams.Option{busparams.WithPrescaler(t.Prescaler)}
	if t.Prop != nil {
		opts = append(opts, busparams.WithPropTQ(*t.Prop))
	}
	return opts
}

// Profile contains the representation of a TOML file describing a CAN
// controller and the wanted bus timing
type Profile struct {
	Clock   ClockConfig   `toml:"clock"`
	Nominal TimingConfig  `toml:"nominal"`
	Data    *TimingConfig `toml:"data"`

	// Limits in the driver's form
	Limits *busparams.BusParamTqLimits `toml:"limits"`

	// Limits as reported by a Linux SocketCAN driver
	BitTimingConst     *can.BitTimingConst `toml:"bittiming_const"`
	DataBitTimingConst *can.BitTimingConst `toml:"data_bittiming_const"`
}

func defaultTiming() TimingConfig {
	return TimingConfig{
		SamplePoint: 80,
		SJW:         20,
		Prescaler:   1,
	}
}

func defaultProfile() Profile {
	return Profile{Nominal: defaultTiming()}
}

// LoadProfile reads a TOML profile on top of the defaults. A [data] table
// also starts from the defaults.
func LoadProfile(path string) (Profile, error) {
	p := defaultProfile()
	data := defaultTiming()
	p.Data = &data

	md, err := toml.DecodeFile(path, &p)
	if err != nil {
		return p, fmt.Errorf("load profile %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return p, fmt.Errorf("load profile %s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	if !md.IsDefined("data") {
		p.Data = nil
	}
	return p, nil
}

// DeviceLimits returns the limits declared in the profile, nil if there are
// none
func (p Profile) DeviceLimits() (*busparams.BusParamTqLimits, error) {
	if p.Limits != nil && p.BitTimingConst != nil {
		return nil, errors.New("profile declares both [limits] and [bittiming_const]")
	}
	if p.Limits != nil {
		return p.Limits, nil
	}
	if p.BitTimingConst != nil {
		l := can.Limits(p.BitTimingConst, p.DataBitTimingConst)
		return &l, nil
	}
	return nil, nil
}
