package cmd

import (
	"errors"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	configVersionKey     = "version"
	currentConfigVersion = 1

	configBaseName   = "snipcheck"
	configFileName   = configBaseName + ".yaml"
	configFolderPath = "."

	libraryFlagName        = "library"
	libraryDirFlagName     = "library-dir"
	projectFlagName        = "project"
	declSubdirFlagName     = "decl-subdir"
	goVersionFlagName      = "go-version"
	softWarningsFlagName   = "soft-warnings"
	formatFlagName         = "format"
	verboseFlagName        = "verbose"
	logFileFlagName        = "log-file"
	parallelFlagName       = "parallel"
	noAutoImportFlagName   = "no-auto-import"
	autoImportPkgsFlagName = "auto-import-package"
	explainFlagName        = "explain"

	// stdinSource is the argument that reads a snippet from standard input.
	stdinSource = "-"

	libraryNameKey           = "library.name"
	libraryDirKey            = "library.dir"
	libraryProjectKey        = "library.project"
	libraryDeclSubdirKey     = "library.decl_subdir"
	validateAutoImportKey    = "validate.auto_import"
	validateAutoImportPkgKey = "validate.auto_import_packages"
	validateGoVersionKey     = "validate.go_version"
	validateParallelKey      = "validate.parallel"
	validateSoftWarningsKey  = "validate.soft_errors_as_warnings"
	outputFormatKey          = "output.format"

	defaultLibraryProject = "."
	defaultAutoImport     = true
	defaultParallel       = 4
	defaultOutputFormat   = "table"

	envPrefix = "SNIPCHECK"

	logFilenameKey   = "log.filename"
	logLevelKey      = "log.level"
	logVerboseKey    = "log.verbose"
	logMaxSizeKey    = "log.max_size"
	logMaxBackupsKey = "log.max_backups"
	logMaxAgeKey     = "log.max_age"
	logCompressKey   = "log.compress"

	defaultLogFilename   = ".snipcheck.log"
	defaultLogLevel      = "info"
	defaultLogVerbose    = false
	defaultLogMaxSize    = 10
	defaultLogMaxBackups = 3
	defaultLogMaxAge     = 28
	defaultLogCompress   = true
)

var globalLogger *slog.Logger

func init() {
	viper.SetConfigName(configBaseName)
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configFolderPath)
	viper.SetConfigFile(filepath.Join(configFolderPath, configFileName))
	viper.AutomaticEnv()
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	viper.SetDefault(configVersionKey, currentConfigVersion)
	viper.SetDefault(libraryNameKey, "")
	viper.SetDefault(libraryDirKey, "")
	viper.SetDefault(libraryProjectKey, defaultLibraryProject)
	viper.SetDefault(libraryDeclSubdirKey, "")
	viper.SetDefault(validateAutoImportKey, defaultAutoImport)
	viper.SetDefault(validateAutoImportPkgKey, []string{})
	viper.SetDefault(validateGoVersionKey, "")
	viper.SetDefault(validateParallelKey, defaultParallel)
	viper.SetDefault(validateSoftWarningsKey, false)
	viper.SetDefault(outputFormatKey, defaultOutputFormat)

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
		if errors.As(err, &notFound) {
			return
		}

		return
	}
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

	// Allow numeric slog levels as well (e.g. -4 for debug).
	if n, err := strconv.Atoi(level); err == nil {
		return slog.Level(n)
	}

	return defaultLevel
}

// configureLogger configures the global slog logger.
//
// By default it logs at the configured level; if verbose is true it logs at Debug.
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
