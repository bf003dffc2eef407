package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/karlding/canbustiming/pkg/busparams"
)

var (
	validateNominal segmentFlags
	validateData    segmentFlags
)

func init() {
	rootCmd.AddCommand(validateCommand)

	fs := validateCommand.Flags()
	validateNominal.register(fs, "", "Nominal")
	validateData.register(fs, "data-", "CAN FD data phase")
	validateCommand.MarkFlagRequired("phase1")
	validateCommand.MarkFlagRequired("phase2")
}

var validateCommand = &cobra.Command{
	Use:   "validate",
	Short: "Check bus parameters against the device limits of a profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := loadProfile()
		if err != nil {
			return err
		}
		limits, err := p.DeviceLimits()
		if err != nil {
			return err
		}
		if limits == nil {
			return errors.New("profile declares no device limits")
		}

		nominal, err := validateNominal.busParams()
		if err != nil {
			return fmt.Errorf("nominal: %w", err)
		}
		var data *busparams.BusParamsTq
		if validateData.changed(cmd.Flags(), "data-") {
			d, err := validateData.busParams()
			if err != nil {
				return fmt.Errorf("data: %w", err)
			}
			data = &d
		}

		logger.Debug().Stringer("nominal", nominal).Msg("validating")
		if err := limits.Validate(nominal, data); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "ok")
		return nil
	},
}
