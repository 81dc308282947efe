// Package driver owns the time-advance loop of the harness: it seeds the
// field array from a problem's initial state, applies boundaries, advances the
// solver one explicit step at a time under a CFL-limited step size and returns
// the interior slice of the final state. The numerical scheme itself lives
// behind the Solver interface; the driver has no dependency on any particular
// scheme.
package driver

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/numflux/mhdtube/boundary"
	"github.com/numflux/mhdtube/problems"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Solver is the narrow view the driver has of a numerical scheme.
type Solver interface {
	// NewProblem initializes the solver against a domain. Called once,
	// before InitialModel.
	NewProblem(d Domain) error
	// NumComponents is the number of field components per cell.
	NumComponents() int
	// NumGhostCells is the stencil's ghost-cell count per boundary.
	NumGhostCells() int
	// InitialModel maps the physical initial state into the solver's own
	// field representation, shape (LocalCells+2*ng) x nq. The solver, not
	// the driver, owns that mapping.
	InitialModel(is *problems.InitialState, d Domain, ng, nq int) (*mat.Dense, error)
	// AdvanceState advances P in place by exactly one explicit step of
	// size dt. It is trusted to be stable for the supplied dt.
	AdvanceState(P *mat.Dense, dt float64) error
}

// Domain is the driver's view of one rank's sub-domain.
type Domain interface {
	// CellSize is the grid spacing per axis.
	CellSize() []float64
	// LocalCells is the interior cell count of this sub-domain.
	LocalCells() int
	// SetBC fills the ghost cells of P, doing any neighbor exchange first
	// and applying policy at physical edges.
	SetBC(P *mat.Dense, ng int, policy boundary.Policy) error
}

// seedDT is the first-step size. Small but nonzero so that nothing divides by
// a zero step before the CFL estimate kicks in.
const seedDT = 1e-9

type Options struct {
	CFL       float64
	FinalTime float64
	Quiet     bool
	// Policy applies at the physical domain edges. Zero value is Outflow,
	// the only policy the driver guarantees by default.
	Policy boundary.Policy
	// Out receives the per-step progress lines. Defaults to os.Stdout. The
	// line format is scraped by tooling and must not change.
	Out io.Writer
}

// Run integrates from t=0 until t >= FinalTime and returns a copy of the
// interior slice of the final field array, ghost cells stripped. The final
// step may overshoot FinalTime by less than one dt; steps are never truncated
// to land exactly on it. Any solver or boundary failure aborts the run.
func Run(solver Solver, is *problems.InitialState, dom Domain, opts Options) (*mat.Dense, error) {
	var (
		out = opts.Out
	)
	if out == nil {
		out = os.Stdout
	}
	if opts.CFL <= 0 {
		return nil, fmt.Errorf("driver: CFL must be positive, got %g", opts.CFL)
	}
	if opts.FinalTime <= 0 {
		return nil, fmt.Errorf("driver: final time must be positive, got %g", opts.FinalTime)
	}

	if err := solver.NewProblem(dom); err != nil {
		return nil, &SolverFailure{Err: err}
	}
	var (
		nq = solver.NumComponents()
		ng = solver.NumGhostCells()
	)
	P, err := solver.InitialModel(is, dom, ng, nq)
	if err != nil {
		return nil, &SolverFailure{Err: err}
	}
	rows, cols := P.Dims()
	if rows != dom.LocalCells()+2*ng || cols != nq {
		return nil, &SolverFailure{Err: fmt.Errorf("initial model is %dx%d, want %dx%d",
			rows, cols, dom.LocalCells()+2*ng, nq)}
	}

	var (
		t     float64
		dt    = seedDT
		nc    int
		minDX = floats.Min(dom.CellSize())
		size  = float64(rows * cols)
	)
	for t < opts.FinalTime {
		nc++
		start := time.Now()

		if err = dom.SetBC(P, ng, opts.Policy); err != nil {
			return nil, &SolverFailure{Step: nc, Time: t, Err: err}
		}
		if err = solver.AdvanceState(P, dt); err != nil {
			return nil, &SolverFailure{Step: nc, Time: t, Err: err}
		}

		t += dt
		stepTime := time.Since(start).Seconds()

		if !opts.Quiet {
			// Failure count is a placeholder for the solver to report
			// numerical failures; nothing feeds it yet.
			fmt.Fprintf(out, "N: %05d t: %6.4f dt: %6.4e us/zone: %5.4f failures: %d\n",
				nc, t, dt, 1e6*stepTime/size, 0)
		}

		// Simplified CFL estimate from the grid spacing alone, with no
		// wave-speed dependence. The spacing is invariant, so every rank
		// derives the same dt sequence without communication.
		dt = opts.CFL * minDX
	}

	return mat.DenseCopyOf(P.Slice(ng, rows-ng, 0, nq)), nil
}
