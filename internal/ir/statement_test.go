package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatement_SetAndGet(t *testing.T) {
	s := NewStatement()
	require.NoError(t, s.SetField(FieldInstrument, Number(1)))
	require.NoError(t, s.SetField(FieldOnset, Number(0.5)))
	require.NoError(t, s.SetField(FieldDuration, Number(2)))

	v, ok := s.Field(FieldOnset)
	assert.True(t, ok)
	assert.Equal(t, "0.5", v.String())

	_, ok = s.Field(4)
	assert.False(t, ok, "unset field reports absent")

	_, ok = s.Field(0)
	assert.False(t, ok)

	d, ok := s.Duration()
	assert.True(t, ok)
	assert.Equal(t, 2.0, d)
	assert.Equal(t, 3, s.Len())
}

func TestStatement_SetFieldRejectsIndexBelowOne(t *testing.T) {
	s := NewStatement()
	err := s.SetField(0, Number(1))
	assert.ErrorIs(t, err, ErrInvalidIndex)
	err = s.SetField(-3, Number(1))
	assert.ErrorIs(t, err, ErrInvalidIndex)
	assert.Equal(t, 0, s.Len())
}

func TestStatement_RenderIsIndexOrdered(t *testing.T) {
	s := NewStatement()
	// Insert out of order; rendering must follow the index.
	require.NoError(t, s.SetField(5, Number(0.25)))
	require.NoError(t, s.SetField(1, Number(1)))
	require.NoError(t, s.SetField(4, Text("hi")))
	require.NoError(t, s.SetField(3, Number(4)))
	require.NoError(t, s.SetField(2, Number(8)))

	assert.Equal(t, "i1 8 4 hi 0.25", s.Render())
	assert.Equal(t, []string{"i1", "8", "4", "hi", "0.25"}, s.DisplayFields())
}

func TestStatement_GapsRenderAsCarry(t *testing.T) {
	s := NewStatement()
	require.NoError(t, s.SetField(1, Number(2)))
	require.NoError(t, s.SetField(2, Number(0)))
	require.NoError(t, s.SetField(3, Number(1)))
	require.NoError(t, s.SetField(6, Number(7)))

	assert.Equal(t, "i2 0 1 . . 7", s.Render())
	_, ok := s.Field(5)
	assert.False(t, ok)
}

func TestStatement_ValuesIsACopy(t *testing.T) {
	s := NewStatement()
	require.NoError(t, s.SetField(1, Number(1)))
	vals := s.Values()
	vals[0] = Number(99)
	assert.Equal(t, "i1", s.Render())
}

func TestStatement_EmptyDisplayFields(t *testing.T) {
	assert.Empty(t, NewStatement().DisplayFields())
	assert.Equal(t, "i", NewStatement().Render())
}

func TestStatement_TrailingAbsentFieldsAreDropped(t *testing.T) {
	s := NewStatement()
	require.NoError(t, s.SetField(1, Number(1)))
	require.NoError(t, s.SetField(2, Number(0)))
	require.NoError(t, s.SetField(3, Number(0)))
	require.NoError(t, s.SetField(4, Number(440)))
	require.NoError(t, s.SetField(5, Value{}))
	require.NoError(t, s.SetField(6, Value{}))

	assert.Equal(t, 4, s.Len())
	assert.Equal(t, "i1 0 0 440", s.Render())
	assert.Equal(t, []string{"i1", "0", "0", "440"}, s.DisplayFields())
	assert.Len(t, s.Values(), 4)
}
