package extract

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitColumns(t *testing.T) {
	assert.Equal(t, []string{"Name", "Age", "City"}, splitColumns("Name\tAge\tCity"))
	assert.Equal(t, []string{"Name", "Age", "City"}, splitColumns("Name   Age    City"))
	assert.Equal(t, []string{"single line"}, splitColumns("single line"))
	assert.Nil(t, splitColumns("   "))
}

func TestDetectTablesFindsAlignedRun(t *testing.T) {
	page := strings.Join([]string{
		"Some introductory prose.",
		"Name    Age    City",
		"Alice   30     Paris",
		"Bob     25     Lyon",
		"Closing prose here.",
	}, "\n")

	tables := detectTables(page)
	require.Len(t, tables, 1)
	require.Len(t, tables[0], 3)
	assert.Equal(t, []string{"Name", "Age", "City"}, tables[0][0])
	assert.Equal(t, []string{"Bob", "25", "Lyon"}, tables[0][2])
}

func TestDetectTablesSplitsOnColumnCountChange(t *testing.T) {
	page := strings.Join([]string{
		"a    b",
		"c    d",
		"x    y    z",
		"p    q    r",
	}, "\n")

	tables := detectTables(page)
	require.Len(t, tables, 2)
	assert.Len(t, tables[0][0], 2)
	assert.Len(t, tables[1][0], 3)
}

func TestDetectTablesIgnoresSingleLine(t *testing.T) {
	page := "prose\na    b\nmore prose"
	assert.Empty(t, detectTables(page))
}

func TestRenderTableMarkdown(t *testing.T) {
	rows := [][]string{
		{"Name", "Age"},
		{"Alice", "30"},
		{"Bob", "25"},
	}
	out := renderTable(1, rows)
	assert.True(t, strings.HasPrefix(out, "Table 1 Data:\n"))
	assert.Contains(t, out, "Name")
	assert.Contains(t, out, "Alice")
	assert.Contains(t, out, "|")
}

func TestRenderTableRaggedFallback(t *testing.T) {
	rows := [][]string{
		{"Name", "Age"},
		{"Alice", "30", "extra"},
	}
	out := renderTable(2, rows)
	assert.True(t, strings.HasPrefix(out, "Table 2 Data:\n"))
	assert.Contains(t, out, "Name | Age")
	assert.Contains(t, out, "Alice | 30 | extra")
}
