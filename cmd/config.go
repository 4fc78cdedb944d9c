package cmd

import (
	"errors"
	"log/slog"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"

	"scopemeter.dev/pkg/scopemeter/internal/controller"
	"scopemeter.dev/pkg/scopemeter/internal/domain"
	"scopemeter.dev/pkg/scopemeter/internal/domain/scope"
	m "scopemeter.dev/pkg/scopemeter/internal/model"
)

const (
	configVersionKey     = "version"
	currentConfigVersion = 1

	configBaseName   = "scopemeter"
	configFileName   = configBaseName + ".yaml"
	configFolderPath = "."

	outputFlagName       = "output"
	excludeFlagName      = "exclude"
	logFileFlagName      = "log-file"
	verboseFlagName      = "verbose"
	formatFlagName       = "format"
	thresholdFlagName    = "threshold"
	topFlagName          = "top"
	riskyPatternFlagName = "risky-pattern"
	markerFlagName       = "marker"
	windowFlagName       = "window"
	parallelFlagName     = "parallel"
	noSaveFlagName       = "no-save"
	skipTestsFlagName    = "skip-tests"
	noMaskFlagName       = "no-mask"
	languageFlagName     = "language"
	maxComplexityFlag    = "max-complexity-findings"
	maxRiskyFlag         = "max-risky-calls"
	allFlagName          = "all"

	excludeConfigKey          = "paths.exclude"
	extensionsConfigKey       = "paths.extensions"
	formatConfigKey           = "format"
	languageConfigKey         = "language"
	thresholdConfigKey        = "complexity.threshold"
	complexityPatternsKey     = "complexity.patterns"
	skipTestsConfigKey        = "complexity.skip_tests"
	topNConfigKey             = "report.top_n"
	snippetWidthConfigKey     = "report.snippet_width"
	maxSnippetsConfigKey      = "report.max_snippets"
	riskyPatternConfigKey     = "risky.pattern"
	markersConfigKey          = "classifier.markers"
	windowConfigKey           = "classifier.window"
	signaturePatternConfigKey = "scan.signature_pattern"
	maskLiteralsConfigKey     = "scan.mask_literals"
	parallelConfigKey         = "run.parallel"
	gateComplexityConfigKey   = "gate.max_complexity_findings"
	gateRiskyConfigKey        = "gate.max_risky_calls"

	defaultReportsDir  = ".scopemeter-reports"
	defaultFormat      = string(controller.FormatText)
	defaultMaxSnippets = 5
	defaultWindow      = scope.DefaultWindow
	defaultGateLimit   = -1

	envPrefix = "SCOPEMETER"

	logFilenameKey   = "log.filename"
	logLevelKey      = "log.level"
	logVerboseKey    = "log.verbose"
	logMaxSizeKey    = "log.max_size"
	logMaxBackupsKey = "log.max_backups"
	logMaxAgeKey     = "log.max_age"
	logCompressKey   = "log.compress"

	defaultLogFilename   = ".scopemeter.log"
	defaultLogLevel      = int(slog.LevelInfo)
	defaultLogVerbose    = false
	defaultLogMaxSize    = 10
	defaultLogMaxBackups = 3
	defaultLogMaxAge     = 28
	defaultLogCompress   = true
)

var globalLogger *slog.Logger

func init() {
	// A missing .env is fine, real environment variables still apply.
	_ = godotenv.Load()

	viper.SetConfigName(configBaseName)
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configFolderPath)
	viper.SetConfigFile(filepath.Join(configFolderPath, configFileName))
	viper.AutomaticEnv()
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	viper.SetDefault(configVersionKey, currentConfigVersion)
	viper.SetDefault(outputFlagName, defaultReportsDir)
	viper.SetDefault(excludeConfigKey, []string{})
	viper.SetDefault(extensionsConfigKey, []string{})
	viper.SetDefault(formatConfigKey, defaultFormat)
	viper.SetDefault(languageConfigKey, domain.LanguageRust)

	// Analysis defaults. Empty pattern options fall back to the language preset.
	viper.SetDefault(thresholdConfigKey, domain.DefaultThreshold)
	viper.SetDefault(complexityPatternsKey, []string{})
	viper.SetDefault(skipTestsConfigKey, false)
	viper.SetDefault(topNConfigKey, domain.DefaultTopN)
	viper.SetDefault(snippetWidthConfigKey, domain.DefaultSnippetWidth)
	viper.SetDefault(maxSnippetsConfigKey, defaultMaxSnippets)
	viper.SetDefault(riskyPatternConfigKey, "")
	viper.SetDefault(markersConfigKey, []string{})
	viper.SetDefault(windowConfigKey, defaultWindow)
	viper.SetDefault(signaturePatternConfigKey, "")
	viper.SetDefault(maskLiteralsConfigKey, true)
	viper.SetDefault(parallelConfigKey, runtime.NumCPU())
	viper.SetDefault(gateComplexityConfigKey, defaultGateLimit)
	viper.SetDefault(gateRiskyConfigKey, defaultGateLimit)

	// Logging defaults (used by config/env and as fallbacks for flags).
	viper.SetDefault(logFilenameKey, defaultLogFilename)
	viper.SetDefault(logLevelKey, defaultLogLevel)
	viper.SetDefault(logVerboseKey, defaultLogVerbose)
	viper.SetDefault(logMaxSizeKey, defaultLogMaxSize)
	viper.SetDefault(logMaxBackupsKey, defaultLogMaxBackups)
	viper.SetDefault(logMaxAgeKey, defaultLogMaxAge)
	viper.SetDefault(logCompressKey, defaultLogCompress)

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			slog.Debug("config file not loaded", "error", err)
		}
	}
}

// analysisConfigFromViper assembles the analysis options from flags, env,
// config file and defaults.
func analysisConfigFromViper() m.AnalysisConfig {
	cfg := domain.DefaultAnalysisConfig()

	cfg.Language = viper.GetString(languageConfigKey)
	cfg.SignaturePattern = viper.GetString(signaturePatternConfigKey)
	cfg.MaskLiterals = viper.GetBool(maskLiteralsConfigKey)
	cfg.TestMarkers = viper.GetStringSlice(markersConfigKey)
	cfg.Window = viper.GetInt(windowConfigKey)
	cfg.ComplexityPatterns = viper.GetStringSlice(complexityPatternsKey)
	cfg.ComplexityThreshold = viper.GetInt(thresholdConfigKey)
	cfg.SkipTestScopes = viper.GetBool(skipTestsConfigKey)
	cfg.RiskyPattern = viper.GetString(riskyPatternConfigKey)
	cfg.SnippetWidth = viper.GetInt(snippetWidthConfigKey)
	cfg.TopN = viper.GetInt(topNConfigKey)
	cfg.Parallel = viper.GetInt(parallelConfigKey)

	return cfg
}

func gateFromViper() domain.Gate {
	return domain.Gate{
		MaxComplexityFindings: viper.GetInt(gateComplexityConfigKey),
		MaxRiskyCalls:         viper.GetInt(gateRiskyConfigKey),
	}
}

// displayOptions resolves the output format. Colour is only used on a terminal.
func displayOptions(cmd *cobra.Command) (controller.DisplayOptions, error) {
	format, err := controller.ParseFormat(viper.GetString(formatConfigKey))
	if err != nil {
		return controller.DisplayOptions{}, err
	}

	return controller.DisplayOptions{
		Format:      format,
		MaxSnippets: viper.GetInt(maxSnippetsConfigKey),
		Color:       controller.IsTTY(cmd.OutOrStdout()),
	}, nil
}

func parseSlogLevel(value string, defaultLevel slog.Level) slog.Level {
	level := strings.ToLower(strings.TrimSpace(value))
	if level == "" {
		return defaultLevel
	}

	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}

	// Numeric slog levels work too (e.g. -4 for debug).
	if n, err := strconv.Atoi(level); err == nil {
		return slog.Level(n)
	}

	return defaultLevel
}

// configureLogger configures the global slog logger.
//
// By default it logs at Info; if verbose is true it logs at Debug.
func configureLogger(logPath string, verbose bool) {
	if strings.TrimSpace(logPath) == "" {
		logPath = viper.GetString(logFilenameKey)
	}

	if strings.TrimSpace(logPath) == "" {
		logPath = defaultLogFilename
	}

	var logLevel slog.Level
	if verbose {
		logLevel = slog.LevelDebug
	} else {
		logLevel = parseSlogLevel(viper.GetString(logLevelKey), slog.LevelInfo)
	}

	logWriter := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    viper.GetInt(logMaxSizeKey),
		MaxBackups: viper.GetInt(logMaxBackupsKey),
		MaxAge:     viper.GetInt(logMaxAgeKey),
		Compress:   viper.GetBool(logCompressKey),
	}

	handler := slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		AddSource: true,
		Level:     logLevel,
	})

	globalLogger = slog.New(handler)
	slog.SetDefault(globalLogger)
}
