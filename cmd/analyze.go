package cmd

import (
	"runtime"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"scopemeter.dev/pkg/scopemeter/internal/domain"
	m "scopemeter.dev/pkg/scopemeter/internal/model"
)

var analyzeThresholdFlag int
var analyzeTopFlag int
var analyzeRiskyPatternFlag string
var analyzeMarkerFlags []string
var analyzeWindowFlag int
var analyzeParallelFlag int
var analyzeSkipTestsFlag bool
var analyzeLanguageFlag string
var analyzeMaxComplexityFlag int
var analyzeMaxRiskyFlag int
var analyzeNoSaveFlag bool
var analyzeNoMaskFlag bool

// analyzeCmd represents the analyze command.
var analyzeCmd = newAnalyzeCmd()

func newAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [paths...]",
		Short: "Analyze sources and report complexity and risky calls",
		Long:  analyzeLongDescription,
		RunE: func(cmd *cobra.Command, args []string) error {
			display, err := displayOptions(cmd)
			if err != nil {
				return err
			}

			cfg := analysisConfigFromViper()
			if analyzeNoMaskFlag {
				cfg.MaskLiterals = false
			}

			return workflow.Analyze(cmd.Context(), domain.AnalyzeArgs{
				Paths:      parsePaths(args),
				Exclude:    viper.GetStringSlice(excludeConfigKey),
				Extensions: viper.GetStringSlice(extensionsConfigKey),
				Config:     cfg,
				Gate:       gateFromViper(),
				Reports:    m.Path(viper.GetString(outputFlagName)),
				NoSave:     analyzeNoSaveFlag,
				Display:    display,
			})
		},
	}

	configureAnalyzeFlags(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
}

func configureAnalyzeFlags(cmd *cobra.Command) {
	flags := cmd.Flags()

	flags.IntVar(&analyzeThresholdFlag, thresholdFlagName, domain.DefaultThreshold, "report scopes whose complexity score exceeds this value")
	bindFlagToConfig(flags.Lookup(thresholdFlagName), thresholdConfigKey)

	flags.IntVar(&analyzeTopFlag, topFlagName, domain.DefaultTopN, "number of entries in the ranked tables (0 keeps all)")
	bindFlagToConfig(flags.Lookup(topFlagName), topNConfigKey)

	flags.StringVar(&analyzeRiskyPatternFlag, riskyPatternFlagName, "", "literal call text reported as risky (default from the language preset)")
	bindFlagToConfig(flags.Lookup(riskyPatternFlagName), riskyPatternConfigKey)

	flags.StringArrayVar(&analyzeMarkerFlags, markerFlagName, nil, "regex marking a test scope (can be repeated, replaces the preset markers)")
	bindFlagToConfig(flags.Lookup(markerFlagName), markersConfigKey)

	flags.IntVar(&analyzeWindowFlag, windowFlagName, defaultWindow, "lines searched backward for a test marker (<= 0 searches the whole file)")
	bindFlagToConfig(flags.Lookup(windowFlagName), windowConfigKey)

	flags.IntVarP(&analyzeParallelFlag, parallelFlagName, "p", runtime.NumCPU(), "number of files analyzed in parallel")
	bindFlagToConfig(flags.Lookup(parallelFlagName), parallelConfigKey)

	flags.BoolVar(&analyzeSkipTestsFlag, skipTestsFlagName, false, "do not score test scopes for complexity")
	bindFlagToConfig(flags.Lookup(skipTestsFlagName), skipTestsConfigKey)

	flags.StringVar(&analyzeLanguageFlag, languageFlagName, domain.LanguageRust, "language preset: rust or go")
	bindFlagToConfig(flags.Lookup(languageFlagName), languageConfigKey)

	flags.IntVar(&analyzeMaxComplexityFlag, maxComplexityFlag, defaultGateLimit, "fail when more complexity findings are reported (negative disables)")
	bindFlagToConfig(flags.Lookup(maxComplexityFlag), gateComplexityConfigKey)

	flags.IntVar(&analyzeMaxRiskyFlag, maxRiskyFlag, defaultGateLimit, "fail when more risky calls are reported (negative disables)")
	bindFlagToConfig(flags.Lookup(maxRiskyFlag), gateRiskyConfigKey)

	flags.BoolVar(&analyzeNoSaveFlag, noSaveFlagName, false, "do not save the report as a snapshot")
	flags.BoolVar(&analyzeNoMaskFlag, noMaskFlagName, false, "count delimiters inside strings and comments too")
}
