package cmd

import (
	"github.com/spf13/pflag"

	"github.com/karlding/canbustiming/pkg/busparams"
)

// timingFlags are the targets of one bus phase
type timingFlags struct {
	bitrate     string
	samplePoint float64
	sjw         float64
	prop        int
	prescaler   int
}

func (f *timingFlags) register(fs *pflag.FlagSet, prefix, phase string) {
	fs.StringVar(&f.bitrate, prefix+"bitrate", "", phase+" bitrate in bit/s, e.g. 500K")
	fs.Float64Var(&f.samplePoint, prefix+"sample-point", 80, phase+" sample point in percent")
	fs.Float64Var(&f.sjw, prefix+"sjw", 20, phase+" SJW in percent of the bit")
	fs.IntVar(&f.prop, prefix+"prop", 0, phase+" propagation segment in quanta at prescaler 1")
	fs.IntVar(&f.prescaler, prefix+"prescaler", 1, phase+" clock prescaler")
}

func (f *timingFlags) changed(fs *pflag.FlagSet, prefix string) bool {
	for _, name := range []string{"bitrate", "sample-point", "sjw", "prop", "prescaler"} {
		if fs.Changed(prefix + name) {
			return true
		}
	}
	return false
}

// apply overrides the profile values whose flags were set explicitly
func (f *timingFlags) apply(fs *pflag.FlagSet, prefix string, t *TimingConfig) error {
	if fs.Changed(prefix + "bitrate") {
		b, err := busparams.ParseBitrate(f.bitrate)
		if err != nil {
			return err
		}
		t.Bitrate = Bitrate(b)
	}
	if fs.Changed(prefix + "sample-point") {
		t.SamplePoint = f.samplePoint
	}
	if fs.Changed(prefix + "sjw") {
		t.SJW = f.sjw
	}
	if fs.Changed(prefix + "prop") {
		prop := f.prop
		t.Prop = &prop
	}
	if fs.Changed(prefix + "prescaler") {
		t.Prescaler = f.prescaler
	}
	return nil
}

// segmentFlags are explicit segment lengths of one bus phase
type segmentFlags struct {
	prop      int
	phase1    int
	phase2    int
	sjw       int
	prescaler int
}

func (f *segmentFlags) register(fs *pflag.FlagSet, prefix, phase string) {
	fs.IntVar(&f.prop, prefix+"prop", 0, phase+" propagation segment in quanta")
	fs.IntVar(&f.phase1, prefix+"phase1", 0, phase+" phase segment 1 in quanta")
	fs.IntVar(&f.phase2, prefix+"phase2", 0, phase+" phase segment 2 in quanta")
	fs.IntVar(&f.sjw, prefix+"sjw", 1, phase+" SJW in quanta")
	fs.IntVar(&f.prescaler, prefix+"prescaler", 1, phase+" clock prescaler")
}

func (f *segmentFlags) changed(fs *pflag.FlagSet, prefix string) bool {
	for _, name := range []string{"prop", "phase1", "phase2", "sjw", "prescaler"} {
		if fs.Changed(prefix + name) {
			return true
		}
	}
	return false
}

func (f *segmentFlags) busParams() (busparams.BusParamsTq, error) {
	tq := 1 + f.prop + f.phase1 + f.phase2
	return busparams.NewBusParamsTq(tq, f.phase1, f.phase2, f.sjw, f.prescaler, f.prop)
}

// resolveClock returns the --clock value when given, the profile clock
// otherwise
func resolveClock(fs *pflag.FlagSet, clock float64) (float64, error) {
	if fs.Changed("clock") {
		c, err := ClockConfig{Frequency: clock}.ClockInfo()
		if err != nil {
			return 0, err
		}
		return c.Frequency(), nil
	}
	p, err := loadProfile()
	if err != nil {
		return 0, err
	}
	c, err := p.Clock.ClockInfo()
	if err != nil {
		return 0, err
	}
	return c.Frequency(), nil
}

// loadProfile loads --config, or returns the defaults when not given
func loadProfile() (Profile, error) {
	if tomlFile == "" {
		return defaultProfile(), nil
	}
	return LoadProfile(tomlFile)
}
