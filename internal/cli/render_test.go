package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/csgen/internal/ir"
	"github.com/roach88/csgen/internal/store"
)

const melodyScore = "testdata/scores/melody.yaml"

func melodyGolden(t *testing.T) string {
	t.Helper()
	data, err := os.ReadFile("testdata/scenarios/golden/melody.golden")
	require.NoError(t, err)
	return string(data)
}

func executeRender(t *testing.T, opts *RenderOptions, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := newRenderCommand(opts)
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestRender_Stdout(t *testing.T) {
	out, err := executeRender(t, &RenderOptions{RootOptions: &RootOptions{Format: "text"}}, melodyScore)
	require.NoError(t, err)
	assert.Equal(t, melodyGolden(t), out)
}

func TestRender_OutputFile(t *testing.T) {
	outPath := filepath.Join(t.TempDir(), "melody.sco")
	opts := &RenderOptions{RootOptions: &RootOptions{Format: "text"}}

	out, err := executeRender(t, opts, melodyScore, "-o", outPath)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Wrote "+outPath+" (4 statements)")

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Equal(t, melodyGolden(t), string(data))
}

func TestRender_JSON(t *testing.T) {
	out, err := executeRender(t, &RenderOptions{RootOptions: &RootOptions{Format: "json"}}, melodyScore)
	require.NoError(t, err)

	var resp struct {
		Status string       `json:"status"`
		Data   RenderResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 1, resp.Data.Parts)
	assert.Equal(t, 4, resp.Data.Statements)
	assert.Equal(t, melodyGolden(t), resp.Data.Text)
	assert.Equal(t, ir.ContentHash(resp.Data.Text), resp.Data.ContentHash)
	assert.Empty(t, resp.Data.ArchiveID)
}

func TestRender_Archive(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "renders.db")
	opts := &RenderOptions{
		RootOptions: &RootOptions{Format: "json", Database: dbPath},
		IDs:         store.NewFixedGenerator("render-1", "render-2"),
	}

	_, err := executeRender(t, opts, melodyScore)
	require.NoError(t, err)
	out, err := executeRender(t, opts, melodyScore)
	require.NoError(t, err)

	var resp struct {
		Data RenderResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "render-2", resp.Data.ArchiveID)
	assert.Equal(t, int64(2), resp.Data.ArchiveSeq)

	st, err := store.Open(dbPath)
	require.NoError(t, err)
	defer st.Close()

	r, err := st.ReadRender(context.Background(), "render-1")
	require.NoError(t, err)
	assert.Equal(t, melodyScore, r.Source)
	assert.Equal(t, melodyGolden(t), r.Text)
	assert.Equal(t, 4, r.StatementCount)
}

func TestRender_ConfigErrorWritesNothing(t *testing.T) {
	outPath := filepath.Join(t.TempDir(), "drone.sco")
	opts := &RenderOptions{RootOptions: &RootOptions{Format: "text"}}

	out, err := executeRender(t, opts, "testdata/scores/drone.yaml", "-o", outPath)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [MISSING_END]")

	_, statErr := os.Stat(outPath)
	assert.True(t, os.IsNotExist(statErr), "no output file on failure")
}

func TestRender_UnknownStream(t *testing.T) {
	out, err := executeRender(t, &RenderOptions{RootOptions: &RootOptions{Format: "json"}}, "testdata/scores/unknown.yaml")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "E020", resp.Error.Code)
}

func TestRender_MissingFile(t *testing.T) {
	out, err := executeRender(t, &RenderOptions{RootOptions: &RootOptions{Format: "text"}}, "testdata/scores/nope.yaml")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [E005]")
}

func TestRender_ThroughRoot(t *testing.T) {
	t.Setenv(EnvFormat, "")
	t.Setenv(EnvDatabase, "")

	buf := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"render", melodyScore})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, melodyGolden(t), buf.String())
}
