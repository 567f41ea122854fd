package dataset

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadTable(t *testing.T) {
	t.Run("header and rows", func(t *testing.T) {
		table, err := ReadTable(strings.NewReader("\xef\xbb\xbfid, text\n1,\"screen, broken\"\n2,reset pw\n"))
		require.NoError(t, err)

		assert.Equal(t, []string{"id", "text"}, table.Header)
		idx, ok := table.Column("text")
		require.True(t, ok)
		assert.Equal(t, []string{"screen, broken", "reset pw"}, table.Values(idx))
		assert.Equal(t, map[string]string{"id": "2", "text": "reset pw"}, table.Records()[1])
	})

	t.Run("ragged rows fail", func(t *testing.T) {
		_, err := ReadTable(strings.NewReader("text,id\na\n"))
		assert.ErrorContains(t, err, "parse csv")
	})

	t.Run("empty input", func(t *testing.T) {
		_, err := ReadTable(strings.NewReader(""))
		assert.ErrorIs(t, err, ErrEmpty)
	})

	t.Run("header only", func(t *testing.T) {
		table, err := ReadTable(strings.NewReader("text\n"))
		require.NoError(t, err)
		assert.Empty(t, table.Records())
	})
}

func TestReadLabeled(t *testing.T) {
	t.Run("valid corpus", func(t *testing.T) {
		got, err := ReadLabeled(strings.NewReader("category,text\nsoftware bug,app crashes\n"))
		require.NoError(t, err)
		assert.Equal(t, []Example{{Text: "app crashes", Category: "software bug"}}, got)
	})

	t.Run("missing category", func(t *testing.T) {
		_, err := ReadLabeled(strings.NewReader("text\napp crashes\n"))
		assert.ErrorIs(t, err, ErrMissingColumns)
		assert.ErrorContains(t, err, "CSV must contain 'text' and 'category' columns")
	})

	t.Run("from file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "tickets.csv")
		require.NoError(t, os.WriteFile(path, []byte("text,category\nx y,hardware issue\n"), 0o644))
		got, err := ReadLabeledFile(path)
		require.NoError(t, err)
		assert.Len(t, got, 1)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := ReadLabeledFile(filepath.Join(t.TempDir(), "none.csv"))
		assert.Error(t, err)
	})
}
