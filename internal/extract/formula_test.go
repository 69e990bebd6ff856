package extract

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestIsProbableFormula(t *testing.T) {
	cases := []struct {
		line string
		want bool
	}{
		{"a = sqrt(b + c)", true},
		{"attention = softmax(Q K^T / d) V", true},
		{"y = sin(theta)", true},
		{"ratio = a/b", true},
		{"x = y + z", false},          // has "=" but no indicator
		{"call sqrt(2) for scale", false}, // indicator but no "="
		{"plain prose line", false},
		{"", false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, isProbableFormula(tc.line), "line: %q", tc.line)
	}
}

func TestFormulaExtractEmptyInput(t *testing.T) {
	e := NewFormulaExtractor(t.TempDir(), zap.NewNop().Sugar())
	got, err := e.Extract(nil)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestFormulaArtifactWritten(t *testing.T) {
	dir := t.TempDir()
	e := NewFormulaExtractor(dir, zap.NewNop().Sugar())

	err := e.writeArtifact([]string{"Page 1: a = sqrt(b)", "Page 3: y = sin(theta)"})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "extracted_formulas.txt"))
	require.NoError(t, err)
	assert.Equal(t, "Page 1: a = sqrt(b)\nPage 3: y = sin(theta)\n", string(data))
}
