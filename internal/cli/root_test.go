package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "csgen", cmd.Use)
	assert.Contains(t, cmd.Long, "i-statement")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := []string{"render", "validate", "streams", "history", "show", "test"}

	for _, cmdName := range commands {
		t.Run(cmdName, func(t *testing.T) {
			subCmd, _, err := cmd.Find([]string{cmdName})
			require.NoError(t, err, "Command %s should exist", cmdName)
			require.NotNil(t, subCmd)
			assert.Equal(t, cmdName, subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	t.Setenv(EnvFormat, "")
	t.Setenv(EnvDatabase, "")
	cmd := NewRootCommand()

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)

	dbFlag := cmd.PersistentFlags().Lookup("db")
	require.NotNil(t, dbFlag)
	assert.Equal(t, "", dbFlag.DefValue)
}

func TestGlobalFlags_EnvDefaults(t *testing.T) {
	t.Setenv(EnvFormat, "json")
	t.Setenv(EnvDatabase, "/tmp/renders.db")
	cmd := NewRootCommand()

	assert.Equal(t, "json", cmd.PersistentFlags().Lookup("format").DefValue)
	assert.Equal(t, "/tmp/renders.db", cmd.PersistentFlags().Lookup("db").DefValue)
}

func TestRenderCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	renderCmd, _, err := cmd.Find([]string{"render"})
	require.NoError(t, err)

	outputFlag := renderCmd.Flags().Lookup("output")
	require.NotNil(t, outputFlag)
	assert.Equal(t, "o", outputFlag.Shorthand)
}

func TestInvalidFormat(t *testing.T) {
	cmd := NewRootCommand()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"streams", "--format", "yaml"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid format "yaml"`)
}

func TestExecute_ExitCodes(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantCode int
		wantErr  string
	}{
		{"success", []string{"streams"}, ExitSuccess, ""},
		{"invalid_format", []string{"streams", "--format", "yaml"}, ExitCommandError, `Error: invalid format "yaml"`},
		{"wrong_arg_count", []string{"show"}, ExitCommandError, "Error: accepts 1 arg(s)"},
		{"unknown_flag", []string{"render", "--bogus"}, ExitCommandError, "Error: unknown flag: --bogus"},
		{"command_failure", []string{"show", "abc"}, ExitCommandError, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(EnvFormat, "")
			t.Setenv(EnvDatabase, "")
			cmd := NewRootCommand()
			out := &bytes.Buffer{}
			errOut := &bytes.Buffer{}
			cmd.SetOut(out)
			cmd.SetErr(errOut)
			cmd.SetArgs(tt.args)

			assert.Equal(t, tt.wantCode, Execute(cmd))
			if tt.wantErr != "" {
				assert.Contains(t, errOut.String(), tt.wantErr)
				assert.Equal(t, 1, bytes.Count(errOut.Bytes(), []byte("Error:")), "printed once")
			}
		})
	}
}

func TestLoadEnv(t *testing.T) {
	const key = "CSGEN_TEST_LOAD_ENV"
	t.Setenv(key, "")
	require.NoError(t, os.Unsetenv(key))

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(key+"=from-file\n"), 0644))

	require.NoError(t, LoadEnv(path))
	assert.Equal(t, "from-file", os.Getenv(key))
}

func TestLoadEnv_DoesNotOverride(t *testing.T) {
	const key = "CSGEN_TEST_LOAD_ENV_SET"
	t.Setenv(key, "from-env")

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(key+"=from-file\n"), 0644))

	require.NoError(t, LoadEnv(path))
	assert.Equal(t, "from-env", os.Getenv(key))
}

func TestLoadEnv_MissingFile(t *testing.T) {
	assert.NoError(t, LoadEnv(filepath.Join(t.TempDir(), "nope.env")))
}
