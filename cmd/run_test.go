package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestDefaultFor(t *testing.T) {
	table := map[string]float64{"A": 0.25}
	assert.Equal(t, 0.25, defaultFor(table, "A", 0.4))
	assert.Equal(t, 0.4, defaultFor(table, "B", 0.4))
}

func TestWriteColumns(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "out.dat")
	P := mat.NewDense(2, 2, []float64{1, 2, 3, 4})
	require.NoError(t, writeColumns(fn, P))
	data, err := os.ReadFile(fn)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, 3, len(strings.Fields(lines[0])), "x column plus two components")
	assert.Contains(t, lines[0], "0.25000000")
	assert.Contains(t, lines[1], "0.75000000")
}
