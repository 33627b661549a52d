package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"snipcheck.dev/pkg/snipcheck/internal/domain"
)

func TestNewRootCmd(t *testing.T) {
	cmd := newRootCmd()
	assert.Equal(t, "snipcheck", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.Equal(t, rootLongDescription, cmd.Long)

	for _, name := range []string{
		libraryFlagName, libraryDirFlagName, projectFlagName, declSubdirFlagName,
		goVersionFlagName, softWarningsFlagName, formatFlagName, verboseFlagName, logFileFlagName,
	} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(name), name)
	}
}

func TestRootCmd_HelpOutput(t *testing.T) {
	cmd := newRootCmd()
	output := &bytes.Buffer{}
	cmd.SetOut(output)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--log-file", filepath.Join(t.TempDir(), "test.log")})

	err := cmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, output.String(), "Usage:")
	assert.Contains(t, output.String(), "dot-imported automatically")
}

func TestRootCmd_RegistersSubcommands(t *testing.T) {
	names := map[string]bool{}
	for _, sub := range rootCmd.Commands() {
		names[sub.Name()] = true
	}

	for _, want := range []string{"validate", "watch", "init", "version"} {
		assert.True(t, names[want], want)
	}
}

func TestNewValidatorFromConfig(t *testing.T) {
	t.Run("library is required", func(t *testing.T) {
		cmd := newRootCmd()
		require.NoError(t, cmd.ParseFlags([]string{"--library", ""}))

		_, err := newValidatorFromConfig()
		require.ErrorIs(t, err, errLibraryRequired)
	})

	t.Run("flags configure the validator", func(t *testing.T) {
		cmd := newRootCmd()
		require.NoError(t, cmd.ParseFlags([]string{
			"--library", "example.com/fplib",
			"--library-dir", fplibDir(t),
		}))

		v, err := newValidatorFromConfig()
		require.NoError(t, err)
		require.NotNil(t, v)

		unit, prepended := v.Prepare("var x = 1", domain.WithAutoImport(true))
		assert.True(t, prepended)
		assert.Contains(t, unit.EffectiveText, `import . "example.com/fplib"`)
	})
}

func TestNewValidatorFromConfig_SoftWarnings(t *testing.T) {
	const code = "func f() {\n\tx := Some(1)\n}"

	t.Cleanup(func() {
		require.NoError(t, newRootCmd().ParseFlags([]string{"--" + softWarningsFlagName + "=false"}))
	})

	for _, tt := range []struct {
		flag        string
		wantSuccess bool
	}{
		{flag: "--soft-warnings=false", wantSuccess: false},
		{flag: "--soft-warnings", wantSuccess: true},
	} {
		cmd := newRootCmd()
		require.NoError(t, cmd.ParseFlags([]string{
			"--library", "example.com/fplib",
			"--library-dir", fplibDir(t),
			tt.flag,
		}))

		v, err := newValidatorFromConfig()
		require.NoError(t, err)

		result, err := v.Validate(t.Context(), code)
		require.NoError(t, err)
		assert.Equal(t, tt.wantSuccess, result.Success, tt.flag)
		require.Len(t, result.Diagnostics, 1, tt.flag)
	}
}

func TestLibraryLocation(t *testing.T) {
	cmd := newRootCmd()
	require.NoError(t, cmd.ParseFlags([]string{"--library-dir", "/lib", "--project", "/proj"}))

	loc := libraryLocation()
	assert.Equal(t, "/lib", string(loc.LibraryDir))
	assert.Equal(t, "/proj", string(loc.ProjectDir))
}

func TestExecute_WithError(t *testing.T) {
	originalRootCmd := rootCmd
	defer func() {
		rootCmd = originalRootCmd
	}()

	mockCmd := &cobra.Command{
		Use: "test",
		RunE: func(_ *cobra.Command, _ []string) error {
			return ErrValidationFailed
		},
	}
	mockCmd.SetOut(&bytes.Buffer{})
	mockCmd.SetErr(&bytes.Buffer{})

	rootCmd = mockCmd

	// Execute itself would exit the process, so only the command is run here.
	err := rootCmd.Execute()
	require.True(t, errors.Is(err, ErrValidationFailed))
}

func TestExecute_ProcessLevel_Failure(t *testing.T) {
	if os.Getenv("TEST_EXECUTE_SUBPROCESS_FAIL") == "1" {
		originalRootCmd := rootCmd
		mockCmd := &cobra.Command{
			Use: "test",
			RunE: func(_ *cobra.Command, _ []string) error {
				fmt.Fprintln(os.Stderr, "error occurred")
				return ErrValidationFailed
			},
		}
		mockCmd.SetOut(os.Stdout)
		mockCmd.SetErr(os.Stderr)
		rootCmd = mockCmd
		defer func() { rootCmd = originalRootCmd }()

		Execute() // This should call os.Exit(1)
		return
	}

	cmd := exec.Command(os.Args[0], "-test.run=TestExecute_ProcessLevel_Failure")
	cmd.Env = append(os.Environ(), "TEST_EXECUTE_SUBPROCESS_FAIL=1")
	output, err := cmd.CombinedOutput()

	require.Error(t, err)

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		assert.Equal(t, 1, exitErr.ExitCode())
	} else {
		assert.Fail(t, "expected exec.ExitError", "got %T", err)
	}

	assert.Contains(t, string(output), "error occurred")
}

func fplibDir(t *testing.T) string {
	t.Helper()

	dir, err := filepath.Abs(filepath.Join("..", "internal", "domain", "testdata", "fplib"))
	require.NoError(t, err)

	return dir
}
