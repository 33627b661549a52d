package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"
	"snipcheck.dev/pkg/snipcheck/internal/controller"
	"snipcheck.dev/pkg/snipcheck/internal/domain"
	m "snipcheck.dev/pkg/snipcheck/internal/model"
)

var (
	parallelFlag       int
	noAutoImportFlag   bool
	explainFlag        bool
	autoImportPkgsFlag []string
)

const validateLongDescription = `Type-check one or more snippet files against the configured library.

Pass "-" to read a snippet from standard input. The command exits with a
non-zero status when any snippet has errors; warnings alone do not fail it.`

// snippet is one source handed to the validator.
type snippet struct {
	source string
	code   string
}

// validateCmd represents the validate command.
var validateCmd = newValidateCmd()

func newValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [files...|-]",
		Short: "Type-check snippets against the library",
		Long:  validateLongDescription,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := controller.ParseFormat(viper.GetString(outputFormatKey))
			if err != nil {
				return err
			}

			validator, err := validatorFactory()
			if err != nil {
				return err
			}

			snippets, err := readSnippets(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			ui := controller.NewUI(cmd, format, controller.IsTTY(cmd.OutOrStdout()))
			opts := validateOptions()

			if explainFlag {
				for _, s := range snippets {
					unit, _ := validator.Prepare(s.code, opts...)
					if err := ui.DisplayExplanation(ctx, s.source, unit); err != nil {
						return err
					}
				}
			}

			reports, err := validateSnippets(ctx, validator, snippets, viper.GetInt(validateParallelKey), opts)
			if err != nil {
				return err
			}

			if err := ui.DisplayReports(ctx, reports); err != nil {
				return err
			}

			if !m.Summarize(reports).OK() {
				cmd.SilenceUsage = true
				return ErrValidationFailed
			}

			return nil
		},
	}

	configureValidateFlags(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func configureValidateFlags(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&parallelFlag, parallelFlagName, "p", viper.GetInt(validateParallelKey), "number of snippets validated concurrently")
	bindFlagToConfig(cmd.Flags().Lookup(parallelFlagName), validateParallelKey)

	cmd.Flags().StringSliceVar(&autoImportPkgsFlag, autoImportPkgsFlagName, viper.GetStringSlice(validateAutoImportPkgKey), "package dot-imported into snippets (can be repeated; default: the library root)")
	bindFlagToConfig(cmd.Flags().Lookup(autoImportPkgsFlagName), validateAutoImportPkgKey)

	cmd.Flags().BoolVar(&noAutoImportFlag, noAutoImportFlagName, false, "do not import the library into snippets automatically")
	cmd.Flags().BoolVar(&explainFlag, explainFlagName, false, "show the source the type checker sees for each snippet")
}

func validateOptions() []domain.ValidateOption {
	autoImport := viper.GetBool(validateAutoImportKey) && !noAutoImportFlag

	return []domain.ValidateOption{domain.WithAutoImport(autoImport)}
}

func readSnippets(stdin io.Reader, args []string) ([]snippet, error) {
	snippets := make([]snippet, 0, len(args))

	for _, arg := range args {
		var (
			code []byte
			err  error
		)

		if arg == stdinSource {
			code, err = io.ReadAll(stdin)
		} else {
			code, err = os.ReadFile(arg)
		}

		if err != nil {
			return nil, fmt.Errorf("failed to read snippet %s: %w", arg, err)
		}

		snippets = append(snippets, snippet{source: arg, code: string(code)})
	}

	return snippets, nil
}

// validateSnippets checks every snippet with at most parallel calls in
// flight. Reports keep the order of snippets.
func validateSnippets(
	ctx context.Context,
	validator domain.Validator,
	snippets []snippet,
	parallel int,
	opts []domain.ValidateOption,
) ([]m.Report, error) {
	if parallel < 1 {
		parallel = 1
	}

	reports := make([]m.Report, len(snippets))

	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(parallel)

	for i, s := range snippets {
		group.Go(func() error {
			result, err := validator.Validate(ctx, s.code, opts...)
			if err != nil {
				return fmt.Errorf("validate %s: %w", s.source, err)
			}

			reports[i] = m.Report{Source: s.source, ValidationResult: result}

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	return reports, nil
}
