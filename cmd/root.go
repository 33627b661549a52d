// Package cmd provides the root command and CLI setup for snipcheck.
package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"snipcheck.dev/pkg/snipcheck/internal/adapter"
	"snipcheck.dev/pkg/snipcheck/internal/domain"
	m "snipcheck.dev/pkg/snipcheck/internal/model"
)

// ErrValidationFailed is returned when at least one snippet has errors.
var ErrValidationFailed = errors.New("snippet validation failed")

var errLibraryRequired = errors.New("no library configured: pass --library or set library.name")

// validatorFactory builds the validator for a command run. Tests replace it.
var validatorFactory = newValidatorFromConfig

// changeWatcher drives the watch command. Tests replace it.
var changeWatcher adapter.ChangeWatcher = adapter.NewFSNotifyWatcher(adapter.DefaultDebounce)

var (
	libraryFlag    string
	libraryDirFlag string
	projectFlag    string
	declSubdirFlag string
	goVersionFlag  string
	softWarnFlag   bool
	formatFlag     string
	verboseFlag    bool
	logFileFlag    string
)

const rootLongDescription = `Snipcheck type-checks Go snippets against the declarations of a library,
as a compiler would, without writing anything to disk.

Snippets that do not import the library get it dot-imported automatically,
and diagnostics are reported in the snippet's own line and column numbers.`

// rootCmd represents the base command when called without any subcommands.
var rootCmd = baseRootCmd()

func init() {
	configureRootFlags(rootCmd)
}

func baseRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "snipcheck",
		Short: "Type-check Go snippets against a library",
		Long:  rootLongDescription,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			configureLogger(viper.GetString(logFilenameKey), viper.GetBool(logVerboseKey))
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
}

func newRootCmd() *cobra.Command {
	cmd := baseRootCmd()
	configureRootFlags(cmd)

	return cmd
}

func configureRootFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()

	flags.StringVarP(&libraryFlag, libraryFlagName, "l", viper.GetString(libraryNameKey), "module path of the library snippets are checked against")
	bindFlagToConfig(flags.Lookup(libraryFlagName), libraryNameKey)

	flags.StringVar(&libraryDirFlag, libraryDirFlagName, viper.GetString(libraryDirKey), "library source directory (skips go.mod resolution)")
	bindFlagToConfig(flags.Lookup(libraryDirFlagName), libraryDirKey)

	flags.StringVar(&projectFlag, projectFlagName, viper.GetString(libraryProjectKey), "directory of the go.mod that requires the library")
	bindFlagToConfig(flags.Lookup(projectFlagName), libraryProjectKey)

	flags.StringVar(&declSubdirFlag, declSubdirFlagName, viper.GetString(libraryDeclSubdirKey), "subdirectory of the library module holding its declarations")
	bindFlagToConfig(flags.Lookup(declSubdirFlagName), libraryDeclSubdirKey)

	flags.StringVar(&goVersionFlag, goVersionFlagName, viper.GetString(validateGoVersionKey), "language version to check against, e.g. go1.22")
	bindFlagToConfig(flags.Lookup(goVersionFlagName), validateGoVersionKey)

	flags.BoolVar(&softWarnFlag, softWarningsFlagName, viper.GetBool(validateSoftWarningsKey), "report unused variables and imports as warnings")
	bindFlagToConfig(flags.Lookup(softWarningsFlagName), validateSoftWarningsKey)

	flags.StringVarP(&formatFlag, formatFlagName, "f", viper.GetString(outputFormatKey), "output format: table, json or yaml")
	bindFlagToConfig(flags.Lookup(formatFlagName), outputFormatKey)

	flags.BoolVarP(&verboseFlag, verboseFlagName, "v", viper.GetBool(logVerboseKey), "log at debug level")
	bindFlagToConfig(flags.Lookup(verboseFlagName), logVerboseKey)

	flags.StringVar(&logFileFlag, logFileFlagName, viper.GetString(logFilenameKey), "log file path")
	bindFlagToConfig(flags.Lookup(logFileFlagName), logFilenameKey)
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
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func newValidatorFromConfig() (domain.Validator, error) {
	name := strings.TrimSpace(viper.GetString(libraryNameKey))
	if name == "" {
		return nil, errLibraryRequired
	}

	fs := adapter.NewLocalSourceFSAdapter()

	config := domain.Config{
		Library: m.Library{
			Name:       name,
			AutoImport: viper.GetStringSlice(validateAutoImportPkgKey),
		},
		GoVersion:            viper.GetString(validateGoVersionKey),
		AutoImport:           viper.GetBool(validateAutoImportKey),
		SoftErrorsAsWarnings: viper.GetBool(validateSoftWarningsKey),
	}

	return domain.NewValidator(
		config,
		adapter.NewDeclarationCache(fs),
		adapter.NewLocalDeclarationResolver(fs, viper.GetString(libraryDeclSubdirKey)),
		adapter.NewModuleEntryPointAdapter(fs, libraryLocation()),
		adapter.NewLocalGoFileAdapter(),
	), nil
}

func libraryLocation() adapter.ModuleLocation {
	return adapter.ModuleLocation{
		LibraryDir: m.Path(viper.GetString(libraryDirKey)),
		ProjectDir: m.Path(viper.GetString(libraryProjectKey)),
	}
}
