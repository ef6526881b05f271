package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/csgen/internal/stream"
)

func TestStreams_Text(t *testing.T) {
	buf := &bytes.Buffer{}
	cmd := NewStreamsCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{})

	require.NoError(t, cmd.Execute())
	for _, b := range stream.Builtins {
		assert.Contains(t, buf.String(), b.Name)
	}
	assert.Contains(t, buf.String(), "inverse_duration")
}

func TestStreams_JSON(t *testing.T) {
	buf := &bytes.Buffer{}
	cmd := NewStreamsCommand(&RootOptions{Format: "json"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{})
	require.NoError(t, cmd.Execute())

	var resp struct {
		Status string       `json:"status"`
		Data   []StreamInfo `json:"data"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	require.Len(t, resp.Data, len(stream.Builtins))
	assert.Equal(t, "const", resp.Data[0].Name)
	assert.Equal(t, stream.Usage("const"), resp.Data[0].Usage)
}
