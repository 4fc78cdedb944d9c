package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"scopemeter.dev/pkg/scopemeter/internal/domain"
)

var listLanguageFlag string

// listCmd represents the list command.
var listCmd = newListCmd()

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list [paths...]",
		Short: "List source files and their scope counts",
		Long:  listLongDescription,
		RunE: func(cmd *cobra.Command, args []string) error {
			display, err := displayOptions(cmd)
			if err != nil {
				return err
			}

			cfg := analysisConfigFromViper()
			if cmd.Flags().Changed(languageFlagName) {
				cfg.Language = listLanguageFlag
			}

			return workflow.List(cmd.Context(), domain.ListArgs{
				Paths:      parsePaths(args),
				Exclude:    viper.GetStringSlice(excludeConfigKey),
				Extensions: viper.GetStringSlice(extensionsConfigKey),
				Config:     cfg,
				Display:    display,
			})
		},
	}

	// Not bound to the config key, analyze owns that binding.
	cmd.Flags().StringVar(&listLanguageFlag, languageFlagName, domain.LanguageRust, "language preset: rust or go")

	return cmd
}

func init() {
	rootCmd.AddCommand(listCmd)
}
