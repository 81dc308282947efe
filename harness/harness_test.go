package harness

import (
	"context"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/numflux/mhdtube/consolidate"
	"github.com/numflux/mhdtube/driver"
	"github.com/numflux/mhdtube/problems"
	"github.com/numflux/mhdtube/solvers/scalar"
)

func testConfig(t *testing.T, ranks int) Config {
	t.Helper()
	is, err := problems.Build(problems.SRShockTube1, nil, nil, 0)
	require.NoError(t, err)
	nop := zerolog.Nop()
	return Config{
		Problem:   is,
		NumRanks:  ranks,
		Nx:        256,
		CFL:       0.4,
		FinalTime: 0.1,
		Quiet:     true,
		NewSolver: func() driver.Solver { return scalar.New(scalar.Minmod) },
		Log:       &nop,
	}
}

func TestSingleRankRun(t *testing.T) {
	P, err := Run(context.Background(), testConfig(t, 1))
	require.NoError(t, err)
	rows, cols := P.Dims()
	assert.Equal(t, 256, rows)
	assert.Equal(t, 1, cols)
}

func TestDecomposedMatchesSingleRank(t *testing.T) {
	// With deterministic per-rank physics and a proper ghost exchange, a
	// four-rank run reproduces the single-rank result over the full domain.
	single, err := Run(context.Background(), testConfig(t, 1))
	require.NoError(t, err)
	split, err := Run(context.Background(), testConfig(t, 4))
	require.NoError(t, err)

	rows, _ := split.Dims()
	require.Equal(t, 256, rows)
	for i := 0; i < rows; i++ {
		assert.InDelta(t, single.At(i, 0), split.At(i, 0), 1e-12, "cell %d", i)
	}
}

func TestConsolidationLengthAndOrder(t *testing.T) {
	cfg := testConfig(t, 2)
	store := consolidate.NewMemStore()
	cfg.Store = store
	P, err := Run(context.Background(), cfg)
	require.NoError(t, err)

	rows, _ := P.Dims()
	assert.Equal(t, 256, rows)
	recs, err := store.List()
	require.NoError(t, err)
	require.Len(t, recs, 2)
	for _, r := range recs {
		assert.Equal(t, 128, r.Nx)
		// The global array holds rank 0's record then rank 1's, verbatim.
		for i := 0; i < r.Nx; i++ {
			assert.Equal(t, r.Data[i], P.At(r.Rank*128+i, 0))
		}
	}
}

type failingSolver struct {
	*scalar.Solver
	failAfter int
	steps     int
}

func (f *failingSolver) AdvanceState(P *mat.Dense, dt float64) error {
	f.steps++
	if f.steps > f.failAfter {
		return fmt.Errorf("synthetic failure at step %d", f.steps)
	}
	return f.Solver.AdvanceState(P, dt)
}

func TestRankFailureAbortsRun(t *testing.T) {
	cfg := testConfig(t, 3)
	var built int
	cfg.NewSolver = func() driver.Solver {
		built++
		if built == 2 {
			return &failingSolver{Solver: scalar.New(scalar.Minmod), failAfter: 3}
		}
		return scalar.New(scalar.Minmod)
	}
	_, err := Run(context.Background(), cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "synthetic failure")
}

func TestConfigValidation(t *testing.T) {
	cfg := testConfig(t, 0)
	_, err := Run(context.Background(), cfg)
	assert.Error(t, err)

	cfg = testConfig(t, 2)
	cfg.Nx = 1
	_, err = Run(context.Background(), cfg)
	assert.Error(t, err)

	cfg = testConfig(t, 1)
	cfg.NewSolver = nil
	_, err = Run(context.Background(), cfg)
	assert.Error(t, err)
}
