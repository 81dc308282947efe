// Package harness runs one shock-tube problem across a decomposed domain:
// one driver loop per rank, a shared exchanger for ghost cells, a shared
// store for the per-rank records, and a single consolidation by the
// coordinator once every rank has finished.
package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"

	"github.com/numflux/mhdtube/boundary"
	"github.com/numflux/mhdtube/consolidate"
	"github.com/numflux/mhdtube/domain"
	"github.com/numflux/mhdtube/driver"
	"github.com/numflux/mhdtube/problems"
)

type Config struct {
	Problem    *problems.InitialState
	NumRanks   int
	Nx         int // global interior cell count
	XMin, XMax float64
	CFL        float64
	FinalTime  float64
	Quiet      bool
	Policy     boundary.Policy
	// NewSolver builds one solver instance per rank; solver state is
	// rank-local and never shared.
	NewSolver func() driver.Solver
	// Store receives the per-rank records. Defaults to an in-memory store.
	Store consolidate.Store
	// Out receives progress lines from all ranks. Defaults to os.Stdout.
	Out io.Writer
	// Log is the run-level structured logger. Nil disables logging.
	Log *zerolog.Logger
}

// Run integrates the problem on every rank and returns the consolidated
// global interior array, ordered by ascending rank. The first rank failure
// aborts the whole run; there is no per-rank fault tolerance.
func Run(ctx context.Context, cfg Config) (*mat.Dense, error) {
	if cfg.NumRanks < 1 {
		return nil, fmt.Errorf("harness: need at least one rank, got %d", cfg.NumRanks)
	}
	if cfg.Nx < cfg.NumRanks {
		return nil, fmt.Errorf("harness: %d cells cannot be split over %d ranks", cfg.Nx, cfg.NumRanks)
	}
	if cfg.NewSolver == nil {
		return nil, fmt.Errorf("harness: no solver factory")
	}
	if cfg.Problem == nil {
		return nil, fmt.Errorf("harness: no problem")
	}
	if cfg.XMax == cfg.XMin {
		cfg.XMin, cfg.XMax = 0, 1
	}
	if cfg.Store == nil {
		cfg.Store = consolidate.NewMemStore()
	}
	if cfg.Log == nil {
		nop := zerolog.Nop()
		cfg.Log = &nop
	}
	var out io.Writer = os.Stdout
	if cfg.Out != nil {
		out = cfg.Out
	}
	out = &lockedWriter{w: out}

	var (
		part  = domain.NewPartition(cfg.NumRanks, cfg.Nx)
		ex    *domain.Exchanger
		start = time.Now()
	)
	if cfg.NumRanks > 1 {
		ex = domain.NewExchanger(cfg.NumRanks)
	}

	// One error slot per rank, FibGo-orchestrator style: a failed rank
	// aborts its neighbors' exchanges, and the abort casualties must not
	// drown out the root cause.
	rankErrs := make([]error, cfg.NumRanks)
	g, _ := errgroup.WithContext(ctx)
	for rank := 0; rank < cfg.NumRanks; rank++ {
		rank := rank
		solver := cfg.NewSolver() // built serially, used only by this rank
		g.Go(func() error {
			block := domain.NewBlock(rank, part, cfg.XMin, cfg.XMax, ex, cfg.Store)
			interior, err := driver.Run(solver, cfg.Problem, block, driver.Options{
				CFL:       cfg.CFL,
				FinalTime: cfg.FinalTime,
				Quiet:     cfg.Quiet,
				Policy:    cfg.Policy,
				Out:       out,
			})
			if err != nil {
				if ex != nil {
					ex.Abort()
				}
				cfg.Log.Error().Int("rank", rank).Err(err).Msg("rank failed")
				rankErrs[rank] = fmt.Errorf("rank %d: %w", rank, err)
				return nil
			}
			cfg.Log.Debug().Int("rank", rank).Int("cells", block.LocalCells()).
				Msg("rank finished")
			rankErrs[rank] = block.Dump(interior)
			return nil
		})
	}
	g.Wait()
	if err := firstFailure(rankErrs); err != nil {
		return nil, err
	}

	// Every record is durably in the store now; only the coordinator
	// gathers.
	P, err := consolidate.Consolidate(cfg.Store)
	if err != nil {
		return nil, err
	}
	cfg.Log.Info().Str("problem", cfg.Problem.Name).
		Int("ranks", cfg.NumRanks).
		Dur("total", time.Since(start)).
		Msg("driver finished")
	return P, nil
}

// firstFailure picks the lowest-rank error that is not an abort casualty,
// falling back to any error at all.
func firstFailure(errs []error) error {
	var fallback error
	for _, err := range errs {
		if err == nil {
			continue
		}
		if !errors.Is(err, domain.ErrAborted) {
			return err
		}
		if fallback == nil {
			fallback = err
		}
	}
	return fallback
}

// lockedWriter serializes progress lines from concurrent ranks.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}
