package cmd

import (
	"fmt"

	"pointsbot/config"

	"github.com/spf13/cobra"
)

// RootOptions holds global flags and the configuration loaded for the run
type RootOptions struct {
	Format string

	cfg *config.Config
}

// ValidFormats defines the allowed output formats
var ValidFormats = []string{FormatText, FormatJSON}

// NewRootCommand creates the pointsbot command tree
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "pointsbot",
		Short: "Points ledger and rewards bot",
		Long: `pointsbot credits points for community activity, applies role multipliers
and lets members redeem points for rewards.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			cfg.ConfigureLogging()
			opts.cfg = cfg
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.Format, "format", FormatText, "output format (text|json)")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewMigrateCommand(opts))
	cmd.AddCommand(NewAwardCommand(opts))
	cmd.AddCommand(NewRedeemCommand(opts))
	cmd.AddCommand(NewLeaderboardCommand(opts))
	cmd.AddCommand(NewBalanceCommand(opts))
	cmd.AddCommand(NewMultiplierCommand(opts))
	cmd.AddCommand(NewRewardCommand(opts))
	cmd.AddCommand(NewActionPointsCommand(opts))
	cmd.AddCommand(NewQuestCommand(opts))
	cmd.AddCommand(NewWalletCommand(opts))

	return cmd
}

func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
