package cmd

import (
	"encoding/hex"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/spf13/cobra"

	"github.com/karlding/canbustiming/pkg/busparams"
	can "github.com/karlding/canbustiming/socketcan"
)

var (
	calcClock   float64
	calcFormat  string
	calcNominal timingFlags
	calcData    timingFlags
)

func init() {
	rootCmd.AddCommand(calcCommand)

	fs := calcCommand.Flags()
	fs.Float64Var(&calcClock, "clock", 0, "CAN controller clock in Hz")
	fs.StringVar(&calcFormat, "format", "text", "Output format [text,ip,bittiming]")
	calcNominal.register(fs, "", "Nominal")
	calcData.register(fs, "data-", "CAN FD data phase")
}

var calcCommand = &cobra.Command{
	Use:   "calc",
	Short: "Calculate bus parameters for a bitrate",
	Long: `Calculate the segment lengths for a nominal and optionally a CAN FD data
phase bitrate, together with the resulting oscillator tolerance. When the
profile declares device limits the result is checked against them.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := loadProfile()
		if err != nil {
			return err
		}
		if err := applyCalcFlags(cmd, &p); err != nil {
			return err
		}
		r, err := calculate(p)
		if err != nil {
			return err
		}
		if err := printCalc(cmd.OutOrStdout(), r, calcFormat); err != nil {
			return err
		}
		return r.LimitErr
	},
}

func applyCalcFlags(cmd *cobra.Command, p *Profile) error {
	fs := cmd.Flags()
	if fs.Changed("clock") {
		p.Clock = ClockConfig{Frequency: calcClock, Accuracy: p.Clock.Accuracy}
	}
	if err := calcNominal.apply(fs, "", &p.Nominal); err != nil {
		return err
	}
	if calcData.changed(fs, "data-") {
		if p.Data == nil {
			d := defaultTiming()
			p.Data = &d
		}
		if err := calcData.apply(fs, "data-", p.Data); err != nil {
			return err
		}
	}
	return nil
}

type calcResult struct {
	Clock     busparams.ClockInfo
	Nominal   busparams.BusParamsTq
	Data      *busparams.BusParamsTq
	Tolerance busparams.Tolerance
	Limits    *busparams.BusParamTqLimits
	// LimitErr is set when Limits are known and violated
	LimitErr error
}

func calculate(p Profile) (*calcResult, error) {
	clock, err := p.Clock.ClockInfo()
	if err != nil {
		return nil, err
	}
	clkFreq := clock.Frequency()

	r := &calcResult{Clock: clock}
	if r.Nominal, err = solve("nominal", p.Nominal, clkFreq); err != nil {
		return nil, err
	}
	if p.Data != nil {
		data, err := solve("data", *p.Data, clkFreq)
		if err != nil {
			return nil, err
		}
		r.Data = &data
	}
	r.Tolerance = busparams.CalcTolerance(r.Nominal, r.Data)

	if r.Limits, err = p.DeviceLimits(); err != nil {
		return nil, err
	}
	if r.Limits != nil {
		r.LimitErr = r.Limits.Validate(r.Nominal, r.Data)
		if r.LimitErr != nil {
			logger.Warn().Msg("bus parameters exceed the device limits")
		}
	}
	return r, nil
}

func solve(phase string, t TimingConfig, clkFreq float64) (busparams.BusParamsTq, error) {
	if t.Bitrate <= 0 {
		return busparams.BusParamsTq{}, fmt.Errorf("%s: no bitrate given", phase)
	}
	logger.Debug().
		Str("phase", phase).
		Float64("bitrate", float64(t.Bitrate)).
		Float64("sample_point", t.SamplePoint).
		Float64("sjw", t.SJW).
		Int("prescaler", t.Prescaler).
		Float64("clock", clkFreq).
		Msg("calculating bus parameters")

	bp, err := busparams.CalcBusParamsTq(float64(t.Bitrate), t.SamplePoint, t.SJW, clkFreq, t.options()...)
	if err != nil {
		return bp, fmt.Errorf("%s: %w", phase, err)
	}

	if want := busparams.CalcSJW(bp.TQ(), t.SJW).SJW; want > bp.SJW() {
		logger.Warn().Str("phase", phase).Int("requested", want).Int("sjw", bp.SJW()).
			Msg("sjw limited to the shorter phase segment")
	}
	if t.Prop != nil {
		if want := int(math.RoundToEven(float64(*t.Prop) / float64(t.Prescaler))); want != bp.Prop() {
			logger.Warn().Str("phase", phase).Int("requested", want).Int("prop", bp.Prop()).
				Msg("propagation segment does not fit, phase1 floored at one quantum")
		}
	}
	if bp.Phase2() == 0 {
		logger.Warn().Str("phase", phase).Msg("phase2 is zero, sample point too late")
	}
	if achieved := bp.Bitrate(clkFreq); achieved != float64(t.Bitrate) {
		logger.Info().Str("phase", phase).Float64("target", float64(t.Bitrate)).Float64("achieved", achieved).
			Msg("bitrate differs from target")
	}
	return bp, nil
}

func printCalc(w io.Writer, r *calcResult, format string) error {
	clkFreq := r.Clock.Frequency()
	switch format {
	case "text":
		fmt.Fprintf(w, "%-14s %.0f Hz, %d ppm\n", "Clock", clkFreq, r.Clock.Accuracy)
		printPhase(w, "Nominal", r.Nominal, clkFreq)
		if r.Data != nil {
			printPhase(w, "Data", *r.Data, clkFreq)
		}
		fmt.Fprintf(w, "%-14s %s\n", "Tolerance", r.Tolerance)
		fmt.Fprintf(w, "%-14s %s\n", "ip link", strings.Join(ipLinkArgs(r, clkFreq), " "))
		if r.Limits != nil && r.LimitErr == nil {
			fmt.Fprintf(w, "%-14s %s\n", "Limits", "ok")
		}
	case "ip":
		fmt.Fprintln(w, strings.Join(ipLinkArgs(r, clkFreq), " "))
	case "bittiming":
		if err := printBitTiming(w, "bittiming", r.Nominal, clkFreq); err != nil {
			return err
		}
		if r.Data != nil {
			return printBitTiming(w, "data_bittiming", *r.Data, clkFreq)
		}
	default:
		return fmt.Errorf("unknown format %q", format)
	}
	return nil
}

func printPhase(w io.Writer, name string, bp busparams.BusParamsTq, clkFreq float64) {
	fmt.Fprintf(w, "%-14s %s\n", name, bp)
	fmt.Fprintf(w, "  %-12s %.3f bit/s\n", "bitrate", bp.Bitrate(clkFreq))
	fmt.Fprintf(w, "  %-12s %.2f %% (%.1f ns)\n", "sample point", bp.SamplePoint(), bp.SamplePointNs(clkFreq))
	fmt.Fprintf(w, "  %-12s %.2f %%\n", "sjw", bp.SyncJumpWidth())
}

func ipLinkArgs(r *calcResult, clkFreq float64) []string {
	args := r.Nominal.IPLinkArgs(clkFreq, false)
	if r.Data != nil {
		args = append(args, r.Data.IPLinkArgs(clkFreq, true)...)
	}
	return args
}

func printBitTiming(w io.Writer, name string, bp busparams.BusParamsTq, clkFreq float64) error {
	bt := can.NewBitTiming(bp, clkFreq)
	buffer := make([]byte, can.BitTimingSize)
	if err := can.BitTimingToBuffer(&bt, buffer); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%s %s\n", name, hex.EncodeToString(buffer))
	return err
}
