package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"scopemeter.dev/pkg/scopemeter/internal/domain"
	m "scopemeter.dev/pkg/scopemeter/internal/model"
)

// compareCmd represents the compare command.
var compareCmd = newCompareCmd()

func newCompareCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "compare <old-id> [new-id]",
		Short: "Compare two saved reports",
		Long: `Show how complexity and risky call counts changed between two saved
snapshots. The newer snapshot defaults to the latest one.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			display, err := displayOptions(cmd)
			if err != nil {
				return err
			}

			newID := ""
			if len(args) == 2 {
				newID = args[1]
			}

			return workflow.Compare(cmd.Context(), domain.CompareArgs{
				Reports: m.Path(viper.GetString(outputFlagName)),
				OldID:   args[0],
				NewID:   newID,
				Display: display,
			})
		},
	}
}

func init() {
	rootCmd.AddCommand(compareCmd)
}
