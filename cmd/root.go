// Package cmd provides the root command and CLI setup for scopemeter.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"scopemeter.dev/pkg/scopemeter/internal/adapter"
	"scopemeter.dev/pkg/scopemeter/internal/controller"
	"scopemeter.dev/pkg/scopemeter/internal/domain"
	m "scopemeter.dev/pkg/scopemeter/internal/model"
)

var sourceFSAdapter adapter.SourceFSAdapter
var reportStore adapter.ReportStore
var workflow domain.Workflow
var ui controller.UI

// reportsOutputDirFlag is a root-level flag shared by commands that read/write reports.
var reportsOutputDirFlag string

// excludePatterns is a root-level flag that filters files for applicable commands.
var excludePatterns []string

var logFileFlag string
var verboseFlag bool
var formatFlag string

func init() {
	// Initialize shared dependencies.
	ui = controller.NewUI(rootCmd, controller.IsTTY(os.Stdout))
	sourceFSAdapter = adapter.NewLocalSourceFSAdapter()
	reportStore = adapter.NewLocalReportStore()
	workflow = domain.NewWorkflow(
		sourceFSAdapter,
		reportStore,
		ui,
	)
}

const pathPatternsHelp = `Supports Go-style path patterns:
  - ./...          recursively scan current directory
  - ./src/...      recursively scan src directory
  - ./src ./lib    scan multiple directories (not recursive)
  - src/main.rs    scan a single file`

const rootLongDescription = `Scopemeter is a static analyzer that splits source files into function
scopes, tells production code from test code and reports scopes whose
complexity exceeds a threshold together with every risky call (such as
.unwrap()) made from production code.

` + pathPatternsHelp

const analyzeLongDescription = `Analyze the given paths (default: current directory), print the report,
save it as a snapshot and apply the quality gate.

` + pathPatternsHelp

const listLongDescription = `List candidate source files with their production, test and dropped
scope counts.

` + pathPatternsHelp

// rootCmd represents the base command when called without any subcommands.
var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "scopemeter",
		Short:        "Scope based complexity and risky call analyzer",
		Long:         rootLongDescription,
		SilenceUsage: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			configureLogger(logFileFlag, viper.GetBool(logVerboseKey))
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	configureRootFlags(cmd)

	return cmd
}

func configureRootFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()

	flags.StringVarP(&reportsOutputDirFlag, outputFlagName, "o", defaultReportsDir, "directory for saved report snapshots")
	bindFlagToConfig(flags.Lookup(outputFlagName), outputFlagName)

	flags.StringArrayVarP(&excludePatterns, excludeFlagName, "x", nil, "exclude files matching regex (can be repeated)")
	bindFlagToConfig(flags.Lookup(excludeFlagName), excludeConfigKey)

	flags.StringVar(&logFileFlag, logFileFlagName, "", "log file path (default from log.filename)")

	flags.BoolVarP(&verboseFlag, verboseFlagName, "v", defaultLogVerbose, "log at debug level")
	bindFlagToConfig(flags.Lookup(verboseFlagName), logVerboseKey)

	flags.StringVarP(&formatFlag, formatFlagName, "f", defaultFormat, "output format: text, json or yaml")
	bindFlagToConfig(flags.Lookup(formatFlagName), formatConfigKey)
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)

	stop()

	if err != nil {
		os.Exit(1)
	}
}

func parsePaths(args []string) []m.Path {
	paths := make([]m.Path, 0, len(args))
	for _, arg := range args {
		paths = append(paths, m.Path(arg))
	}

	return paths
}
