package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/karlding/canbustiming/pkg/busparams"
)

var (
	convertClock     float64
	convertBitrate   string
	convertTseg1     int
	convertTseg2     int
	convertSJW       int
	convertPrescaler int
	convertData      bool
	convertSegments  segmentFlags
)

func init() {
	rootCmd.AddCommand(convertCommand)
	convertCommand.AddCommand(toTqCommand)
	convertCommand.AddCommand(toClassicCommand)

	convertCommand.PersistentFlags().Float64Var(&convertClock, "clock", 0, "CAN controller clock in Hz")

	fs := toTqCommand.Flags()
	fs.StringVar(&convertBitrate, "bitrate", "", "Bitrate in bit/s, e.g. 500K")
	fs.IntVar(&convertTseg1, "tseg1", 0, "Time segment 1 (prop + phase1) in quanta")
	fs.IntVar(&convertTseg2, "tseg2", 0, "Time segment 2 in quanta")
	fs.IntVar(&convertSJW, "sjw", 1, "SJW in quanta")
	fs.IntVar(&convertPrescaler, "prescaler", 1, "Prescaler to rescale the result to")
	fs.BoolVar(&convertData, "data", false, "Fold prop into phase1 for CAN FD data phase timing")
	toTqCommand.MarkFlagRequired("bitrate")
	toTqCommand.MarkFlagRequired("tseg1")
	toTqCommand.MarkFlagRequired("tseg2")

	convertSegments.register(toClassicCommand.Flags(), "", "Bus")
	toClassicCommand.MarkFlagRequired("phase1")
	toClassicCommand.MarkFlagRequired("phase2")
}

var convertCommand = &cobra.Command{
	Use:   "convert",
	Short: "Convert between classic and time quanta bus parameters",
}

var toTqCommand = &cobra.Command{
	Use:   "to-tq",
	Short: "Convert classic tseg1/tseg2/sjw parameters to time quanta",
	RunE: func(cmd *cobra.Command, args []string) error {
		clkFreq, err := resolveClock(cmd.Flags(), convertClock)
		if err != nil {
			return err
		}
		bitrate, err := busparams.ParseBitrate(convertBitrate)
		if err != nil {
			return err
		}
		opts := []busparams.ConvertOption{busparams.WithConvertPrescaler(convertPrescaler)}
		if convertData {
			opts = append(opts, busparams.AsData())
		}
		classic := busparams.Classic{Freq: bitrate, Tseg1: convertTseg1, Tseg2: convertTseg2, SJW: convertSJW}
		logger.Debug().Str("classic", fmt.Sprintf("%+v", classic)).Float64("clock", clkFreq).Msg("converting")

		bp, err := busparams.ToBusParamsTq(clkFreq, classic, opts...)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), bp)
		return nil
	},
}

var toClassicCommand = &cobra.Command{
	Use:   "to-classic",
	Short: "Convert time quanta bus parameters to classic tseg1/tseg2/sjw",
	RunE: func(cmd *cobra.Command, args []string) error {
		clkFreq, err := resolveClock(cmd.Flags(), convertClock)
		if err != nil {
			return err
		}
		bp, err := convertSegments.busParams()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), busparams.ToBitrateSetting(clkFreq, &bp))
		return nil
	},
}
