package cmd

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"snipcheck.dev/pkg/snipcheck/internal/controller"
	"snipcheck.dev/pkg/snipcheck/internal/domain"
	m "snipcheck.dev/pkg/snipcheck/internal/model"
)

const manifestFileName = "go.mod"

const watchLongDescription = `Validate a snippet file and re-validate it whenever it changes.

The declaration cache is invalidated when the project's go.mod or the
library's go.mod changes, so a library upgrade is picked up without a restart.`

// watchCmd represents the watch command.
var watchCmd = newWatchCmd()

func newWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch <file>",
		Short: "Re-validate a snippet file on every change",
		Long:  watchLongDescription,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := controller.ParseFormat(viper.GetString(outputFormatKey))
			if err != nil {
				return err
			}

			validator, err := validatorFactory()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			// The pager would block between runs, so watch always prints.
			ui := controller.NewUI(cmd, format, false)
			file := m.Path(args[0])
			manifests := watchedManifests()

			run := func() {
				runWatchIteration(ctx, ui, validator, file)
			}

			run()

			paths := append([]m.Path{file}, manifests...)

			return changeWatcher.Watch(ctx, paths, func(changed []m.Path) {
				invalidated := containsAny(changed, manifests)
				if invalidated {
					validator.InvalidateDeclarationCache()
				}

				ui.DisplayWatchEvent(ctx, changed, invalidated)
				run()
			})
		},
	}
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatchIteration(ctx context.Context, ui controller.UI, validator domain.Validator, file m.Path) {
	snippets, err := readSnippets(nil, []string{string(file)})
	if err != nil {
		slog.Error("Failed to read snippet", "file", file, "error", err)
		return
	}

	reports, err := validateSnippets(ctx, validator, snippets, 1, validateOptions())
	if err != nil {
		slog.Error("Failed to validate snippet", "file", file, "error", err)
		return
	}

	if err := ui.DisplayReports(ctx, reports); err != nil {
		slog.Error("Failed to display report", "file", file, "error", err)
	}
}

// watchedManifests returns the go.mod files whose change may swap the
// library's declarations. Missing files are skipped.
func watchedManifests() []m.Path {
	var candidates []string

	if dir := viper.GetString(libraryProjectKey); dir != "" {
		candidates = append(candidates, filepath.Join(dir, manifestFileName))
	}

	if dir := viper.GetString(libraryDirKey); dir != "" {
		candidates = append(candidates, filepath.Join(dir, manifestFileName))
	}

	var manifests []m.Path

	for _, candidate := range candidates {
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			manifests = append(manifests, m.Path(candidate))
		}
	}

	return manifests
}

func containsAny(changed, targets []m.Path) bool {
	for _, c := range changed {
		for _, t := range targets {
			if filepath.Clean(string(c)) == filepath.Clean(string(t)) {
				return true
			}
		}
	}

	return false
}
