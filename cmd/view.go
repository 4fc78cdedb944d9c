package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"scopemeter.dev/pkg/scopemeter/internal/domain"
	m "scopemeter.dev/pkg/scopemeter/internal/model"
)

var viewAllFlag bool

// viewCmd represents the view command.
var viewCmd = newViewCmd()

func newViewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "view [id]",
		Short: "View previously saved reports",
		Long: `View a saved report snapshot from the reports directory. Without an id the
latest snapshot is shown, --all lists every saved snapshot.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			display, err := displayOptions(cmd)
			if err != nil {
				return err
			}

			var id string
			if len(args) == 1 {
				id = args[0]
			}

			return workflow.View(cmd.Context(), domain.ViewArgs{
				Reports: m.Path(viper.GetString(outputFlagName)),
				ID:      id,
				All:     viewAllFlag,
				Display: display,
			})
		},
	}

	cmd.Flags().BoolVar(&viewAllFlag, allFlagName, false, "list all saved snapshots")

	return cmd
}

func init() {
	rootCmd.AddCommand(viewCmd)
}
