package tabular

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "table.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadAndGet(t *testing.T) {
	path := writeTemp(t, "First Name,Last Name,Company\nJane,Doe,Acme Corp\nJohn,Smith,\n")

	table, err := Read(path)
	require.NoError(t, err)

	assert.Equal(t, 2, table.Len())
	assert.Equal(t, "Jane", table.Get(0, "First Name"))
	assert.Equal(t, "Acme Corp", table.Get(0, "company"))
	assert.Equal(t, "", table.Get(1, "Company"))
	assert.Equal(t, "", table.Get(0, "Missing Column"))
}

func TestReadToleratesRaggedRows(t *testing.T) {
	path := writeTemp(t, "A,B,C\n1,2\n1,2,3,4\n")

	table, err := Read(path)
	require.NoError(t, err)

	assert.Equal(t, 2, table.Len())
	assert.Equal(t, "", table.Get(0, "C"))
	assert.Equal(t, "3", table.Get(1, "C"))
}

func TestRequire(t *testing.T) {
	path := writeTemp(t, "First Name,Company\nJane,Acme\n")

	table, err := Read(path)
	require.NoError(t, err)

	assert.NoError(t, table.Require("First Name", "Company"))

	err = table.Require("First Name", "Position", "Connected On")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Position")
	assert.Contains(t, err.Error(), "Connected On")
	assert.NotContains(t, err.Error(), "First Name")
}

func TestRowMap(t *testing.T) {
	path := writeTemp(t, "First Name, Company \nJane,Acme\n")

	table, err := Read(path)
	require.NoError(t, err)

	row := table.RowMap(0)
	assert.Equal(t, "Jane", row["First Name"])
	assert.Equal(t, "Acme", row["Company"])
}

func TestWriteRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	columns := []string{"Name", "Score"}
	rows := [][]string{{"Jane", "95"}, {"John, Jr.", "60"}}

	require.NoError(t, Write(path, columns, rows))

	table, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, 2, table.Len())
	assert.Equal(t, "John, Jr.", table.Get(1, "Name"))
	assert.Equal(t, "60", table.Get(1, "Score"))
}

func TestWriteUnwritableDestination(t *testing.T) {
	err := Write(filepath.Join(t.TempDir(), "missing", "out.csv"), []string{"A"}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "create")
}

func TestReadMissingFile(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "nope.csv"))
	require.Error(t, err)
}
