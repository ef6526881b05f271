package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/csgen/internal/engine"
	"github.com/roach88/csgen/internal/stream"
	"github.com/roach88/csgen/internal/testutil"
)

const scenarioB = "f1 0 512 10 1\n\n" + testutil.ScenarioAText + "\ne\n"

func writeDoc(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func quiet() engine.PartOption {
	return engine.WithLogger(testutil.DiscardLogger())
}

func TestLoad_ScenarioBAllFormats(t *testing.T) {
	for _, name := range []string{"scenario_b.yaml", "scenario_b.json", "scenario_b.cue"} {
		t.Run(name, func(t *testing.T) {
			s, err := Load(filepath.Join("testdata", name), stream.Default(), quiet())
			require.NoError(t, err)
			require.Len(t, s.Parts(), 1)
			assert.Equal(t, "melody", s.Parts()[0].Name())

			out, err := s.Render()
			require.NoError(t, err)
			assert.Equal(t, scenarioB, out)
		})
	}
}

func TestParse_StreamSpecForms(t *testing.T) {
	doc, err := Parse([]byte(`
parts:
  - instrument: 2
    end: 4
    duration: inverse_duration
    delay: {uniform: {min: 0, max: 1}}
    fields:
      p4: {counter: }
      6: {cycle: [a, b]}
`))
	require.NoError(t, err)
	require.Len(t, doc.Parts, 1)
	pd := doc.Parts[0]

	assert.Equal(t, "inverse_duration", pd.Duration.Name)
	assert.Nil(t, pd.Duration.Payload)
	assert.Equal(t, "uniform", pd.Delay.Name)
	require.NotNil(t, pd.Delay.Payload)

	require.Len(t, pd.Fields, 2)
	assert.Equal(t, "p4", pd.Fields[0].Key)
	assert.Equal(t, "counter", pd.Fields[0].Stream.Name)
	assert.Nil(t, pd.Fields[0].Stream.Payload, "null payload is treated as absent")
	assert.Equal(t, "6", pd.Fields[1].Key)
	assert.Nil(t, pd.Start)
	assert.Equal(t, 2, *pd.Instrument)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"unknown key", "parts:\n  - instrumnet: 1\n"},
		{"two-key stream", "parts:\n  - duration: {const: 1, cycle: [1]}\n"},
		{"list stream", "parts:\n  - duration: [1, 2]\n"},
		{"fields not a mapping", "parts:\n  - fields: [1, 2]\n"},
		{"bad instrument", "parts:\n  - instrument: one\n"},
		{"syntax", "parts: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.src))
			require.Error(t, err)
			var le *LoadError
			require.ErrorAs(t, err, &le)
			assert.Equal(t, ErrCodeParse, le.Code)
		})
	}
}

func TestParse_Empty(t *testing.T) {
	doc, err := Parse(nil)
	require.NoError(t, err)
	assert.Empty(t, doc.Parts)
}

func TestBuild_UnknownStream(t *testing.T) {
	path := writeDoc(t, "score.yaml", `
parts:
  - instrument: 1
    end: 4
    duration: {bogus: 1}
    delay: {const: 0}
`)
	_, err := Load(path, stream.Default(), quiet())
	require.Error(t, err)

	var le *LoadError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, ErrCodeUnknownStream, le.Code)
	assert.Equal(t, 5, le.Line)
	assert.Equal(t, path, le.Path)
	assert.ErrorIs(t, err, stream.ErrUnknownStream)
	assert.Contains(t, err.Error(), "parts[0]: duration")
}

func TestBuild_BadPayload(t *testing.T) {
	doc, err := Parse([]byte(`
parts:
  - instrument: 1
    end: 4
    duration: {const: 1}
    delay: {const: 0}
    fields:
      4: {uniform: {min: 5, max: 1}}
`))
	require.NoError(t, err)
	_, err = Build(doc, stream.Default(), quiet())

	var le *LoadError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, ErrCodeStreamPayload, le.Code)
	assert.Contains(t, err.Error(), "fields[4]")
}

func TestBuild_IncompletePartFailsAtRender(t *testing.T) {
	doc, err := Parse([]byte(`
parts:
  - instrument: 1
    duration: {const: 1}
    delay: {const: 0}
`))
	require.NoError(t, err)
	s, err := Build(doc, stream.Default(), quiet())
	require.NoError(t, err)

	out, err := s.Render()
	assert.Empty(t, out)
	assert.Equal(t, engine.ErrCodeMissingEnd, engine.ConfigCode(err))
}

func TestBuild_RejectedFieldKeysAreSkipped(t *testing.T) {
	doc, err := Parse([]byte(`
parts:
  - instrument: 1
    end: 1
    duration: {const: 1}
    delay: {const: 0}
    fields:
      2: {const: 99}
      amp: {const: 0.5}
      4: {const: 7}
`))
	require.NoError(t, err)
	s, err := Build(doc, stream.Default(), quiet())
	require.NoError(t, err)

	p := s.Parts()[0]
	rejected := p.Rejected()
	require.Len(t, rejected, 2)
	assert.Equal(t, "2", rejected[0].Key)
	assert.Equal(t, "amp", rejected[1].Key)

	out, err := s.Render()
	require.NoError(t, err)
	assert.Contains(t, out, "i1         0         1         7")
}

func TestBuild_DuplicateFieldKey(t *testing.T) {
	doc, err := Parse([]byte(`
parts:
  - instrument: 1
    end: 1
    duration: {const: 1}
    delay: {const: 0}
    fields:
      4: {const: 7}
      p4: {const: 8}
`))
	require.NoError(t, err)
	s, err := Build(doc, stream.Default(), quiet())
	require.NoError(t, err)

	rejected := s.Parts()[0].Rejected()
	require.Len(t, rejected, 1)
	assert.Equal(t, "duplicate p-field", rejected[0].Reason)

	out, err := s.Render()
	require.NoError(t, err)
	assert.Contains(t, out, "i1         0         1         7")
}

func TestBuild_MaxStatements(t *testing.T) {
	doc, err := Parse([]byte(`
parts:
  - instrument: 1
    end: 1
    max_statements: 10
    duration: {const: 0}
    delay: {const: 0}
`))
	require.NoError(t, err)
	s, err := Build(doc, stream.Default(), quiet())
	require.NoError(t, err)
	_, err = s.Render()
	assert.True(t, engine.IsQuotaError(err))
}

func TestLoadFile_Errors(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	var le *LoadError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, ErrCodeNotFound, le.Code)

	_, err = LoadFile("score.toml")
	require.ErrorAs(t, err, &le)
	assert.Equal(t, ErrCodeUnsupportedFormat, le.Code)

	path := writeDoc(t, "bad.yaml", "parts: {")
	_, err = LoadFile(path)
	require.ErrorAs(t, err, &le)
	assert.Equal(t, ErrCodeParse, le.Code)
	assert.Equal(t, path, le.Path)
}

func TestParseCUE_Errors(t *testing.T) {
	t.Run("syntax", func(t *testing.T) {
		_, err := ParseCUE("bad.cue", []byte("parts: [\n"))
		var le *LoadError
		require.ErrorAs(t, err, &le)
		assert.Equal(t, ErrCodeParse, le.Code)
	})

	t.Run("not concrete", func(t *testing.T) {
		_, err := ParseCUE("open.cue", []byte("parts: [{instrument: int, end: 4}]\n"))
		var le *LoadError
		require.ErrorAs(t, err, &le)
		assert.Equal(t, ErrCodeParse, le.Code)
	})

	t.Run("constraint violation", func(t *testing.T) {
		_, err := ParseCUE("neg.cue", []byte("#S: number & >=0\nparts: [{end: #S & -1}]\n"))
		var le *LoadError
		require.ErrorAs(t, err, &le)
		assert.Greater(t, le.Line, 0)
	})
}

func TestFormatFor(t *testing.T) {
	f, err := FormatFor("a/b.YML")
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, f)

	f, err = FormatFor("x.cue")
	require.NoError(t, err)
	assert.Equal(t, FormatCUE, f)

	_, err = FormatFor("x")
	assert.Error(t, err)
}

func TestErrorCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"load", &LoadError{Code: ErrCodeParse}, ErrCodeParse},
		{"wrapped load", fmt.Errorf("parts[0]: %w", &LoadError{Code: ErrCodeUnknownStream}), ErrCodeUnknownStream},
		{"config", fmt.Errorf("part 0: %w", &engine.ConfigError{Code: engine.ErrCodeMissingDelay}), "MISSING_DELAY"},
		{"generation", &engine.GenerationError{Code: engine.ErrCodeNonNumeric}, "NON_NUMERIC"},
		{"other", errors.New("boom"), ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ErrorCode(tt.err))
		})
	}
}
