package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/csgen/internal/ir"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "renders.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpen_CreatesNewDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	_, err = os.Stat(path)
	assert.NoError(t, err, "database file was created")

	version, err := s.SchemaVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, currentSchemaVersion, version)
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	for i := 0; i < 3; i++ {
		s, err := Open(path)
		require.NoError(t, err, "Open() iteration %d", i)
		require.NoError(t, s.Close())
	}
}

func TestOpen_InMemory(t *testing.T) {
	s, err := Open(":memory:")
	require.NoError(t, err)
	defer s.Close()

	renders, err := s.ReadRenders(context.Background(), 0)
	require.NoError(t, err)
	assert.NotNil(t, renders)
	assert.Empty(t, renders)
}

func TestClose_NilDB(t *testing.T) {
	assert.NoError(t, (&Store{}).Close())
}

func TestWriteRender_AssignsIDAndSeq(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()
	ids := NewFixedGenerator("render-1", "render-2")

	first, err := s.WriteRender(ctx, NewRender("a.yaml", "i1 0 1\n", 1, 1), ids)
	require.NoError(t, err)
	assert.Equal(t, "render-1", first.ID)
	assert.Equal(t, int64(1), first.Seq)
	assert.Equal(t, ir.ContentHash("i1 0 1\n"), first.ContentHash)

	second, err := s.WriteRender(ctx, NewRender("b.yaml", "i2 0 1\n", 1, 1), ids)
	require.NoError(t, err)
	assert.Equal(t, int64(2), second.Seq)

	got, err := s.ReadRender(ctx, "render-2")
	require.NoError(t, err)
	assert.Equal(t, second, got)
}

func TestWriteRender_Idempotent(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()

	r := NewRender("a.yaml", "text", 1, 3)
	r.ID = "fixed"
	first, err := s.WriteRender(ctx, r, NewFixedGenerator())
	require.NoError(t, err)

	r.Text = "different"
	again, err := s.WriteRender(ctx, r, NewFixedGenerator())
	require.NoError(t, err)
	assert.Equal(t, first, again, "existing row is returned unchanged")

	all, err := s.ReadRenders(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestWriteRender_ComputesMissingHash(t *testing.T) {
	s := openTemp(t)
	r, err := s.WriteRender(context.Background(), Render{Source: "x", Text: "abc"}, NewFixedGenerator("id"))
	require.NoError(t, err)
	assert.Equal(t, ir.ContentHash("abc"), r.ContentHash)
}

func TestReadRenders_OrderAndLimit(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()
	ids := NewFixedGenerator("c", "a", "b")
	for _, text := range []string{"one", "two", "three"} {
		_, err := s.WriteRender(ctx, NewRender("score.yaml", text, 1, 1), ids)
		require.NoError(t, err)
	}

	all, err := s.ReadRenders(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"c", "a", "b"}, []string{all[0].ID, all[1].ID, all[2].ID}, "ordered by seq, not id")
	assert.Empty(t, all[0].Text, "listing omits text")

	limited, err := s.ReadRenders(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestReadRender_NotFound(t *testing.T) {
	s := openTemp(t)
	_, err := s.ReadRender(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFindByHash(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()
	ids := NewFixedGenerator("1", "2", "3")
	for _, text := range []string{"same", "other", "same"} {
		_, err := s.WriteRender(ctx, NewRender("s.yaml", text, 1, 1), ids)
		require.NoError(t, err)
	}

	found, err := s.FindByHash(ctx, ir.ContentHash("same"))
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, "1", found[0].ID)
	assert.Equal(t, "3", found[1].ID)
}

func TestUUIDv7Generator(t *testing.T) {
	g := UUIDv7Generator{}
	a, b := g.Generate(), g.Generate()
	assert.Len(t, a, 36)
	assert.NotEqual(t, a, b)
}

func TestFixedGenerator_PanicsWhenExhausted(t *testing.T) {
	g := NewFixedGenerator("only")
	assert.Equal(t, "only", g.Generate())
	assert.Panics(t, func() { g.Generate() })
}
