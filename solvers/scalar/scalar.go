// Package scalar is the reference solver of the harness: linear advection of
// a single component, integrated with forward Euler and an upwind flux. The
// initial model carries the density jump of the shock-tube state across the
// domain midpoint, which is enough to exercise every contract the driver,
// boundary and consolidation stages have. Real MHD schemes plug into the same
// interface.
package scalar

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/numflux/mhdtube/driver"
	"github.com/numflux/mhdtube/problems"
)

// Limiter selects the slope reconstruction of the upwind flux.
type Limiter uint8

const (
	// PiecewiseConstant uses no reconstruction (first order).
	PiecewiseConstant Limiter = iota
	// Minmod uses piecewise-linear reconstruction with the minmod limiter.
	Minmod
)

var limiterNames = []string{"piecewise_constant", "minmod"}

func (l Limiter) String() string {
	if int(l) >= len(limiterNames) {
		return fmt.Sprintf("limiter(%d)", l)
	}
	return limiterNames[l]
}

func ParseLimiter(name string) (Limiter, error) {
	for i, ln := range limiterNames {
		if ln == name {
			return Limiter(i), nil
		}
	}
	return 0, fmt.Errorf("unknown limiter %q", name)
}

// Geometry is the optional view of a domain that can place cells in space.
// The harness's domain blocks implement it; the solver needs it to put the
// initial discontinuity at the right global position.
type Geometry interface {
	CellCenters() []float64
}

const numGhost = 2

type Solver struct {
	// Speed is the constant advection speed. Positive means rightward.
	Speed float64
	// Jump is the global x position of the initial discontinuity.
	Jump    float64
	Limiter Limiter

	dx      float64
	centers []float64
	scratch []float64
}

// New returns a solver advecting at unit speed with the discontinuity at the
// domain midpoint of the unit interval.
func New(limiter Limiter) *Solver {
	return &Solver{Speed: 1.0, Jump: 0.5, Limiter: limiter}
}

func (s *Solver) NewProblem(d driver.Domain) error {
	if s.Speed <= 0 {
		return fmt.Errorf("scalar: advection speed must be positive, got %g", s.Speed)
	}
	s.dx = d.CellSize()[0]
	geo, ok := d.(Geometry)
	if !ok {
		return fmt.Errorf("scalar: domain %T does not expose cell centers", d)
	}
	s.centers = geo.CellCenters()
	if len(s.centers) != d.LocalCells() {
		return fmt.Errorf("scalar: domain has %d cell centers for %d cells",
			len(s.centers), d.LocalCells())
	}
	return nil
}

func (s *Solver) NumComponents() int { return 1 }
func (s *Solver) NumGhostCells() int { return numGhost }

// InitialModel seeds the density jump: left-state density below the jump
// position, right-state density above it. Ghost rows start at the adjacent
// state value; the first boundary application overwrites them anyway.
func (s *Solver) InitialModel(is *problems.InitialState, d driver.Domain, ng, nq int) (*mat.Dense, error) {
	if is == nil {
		return nil, fmt.Errorf("scalar: nil initial state")
	}
	P := mat.NewDense(d.LocalCells()+2*ng, nq, nil)
	for i, x := range s.centers {
		v := is.Left.Rho
		if x >= s.Jump {
			v = is.Right.Rho
		}
		P.Set(ng+i, 0, v)
	}
	for i := 0; i < ng; i++ {
		P.Set(i, 0, P.At(ng, 0))
		P.Set(d.LocalCells()+ng+i, 0, P.At(d.LocalCells()+ng-1, 0))
	}
	return P, nil
}

// AdvanceState takes one forward-Euler step of the upwind flux update,
// mutating the interior rows of P in place. Ghost rows are read, never
// written; the caller refreshes them before each step.
func (s *Solver) AdvanceState(P *mat.Dense, dt float64) error {
	if dt <= 0 {
		return fmt.Errorf("scalar: non-positive dt %g", dt)
	}
	rows, _ := P.Dims()
	n := rows - 2*numGhost
	if len(s.scratch) < n {
		s.scratch = make([]float64, n)
	}
	u := func(i int) float64 { return P.At(i, 0) }

	// Upwind interface flux for positive speed: the left cell's
	// reconstructed right-edge value.
	flux := func(i int) float64 { // flux through the i-1/2 interface
		ul := u(i - 1)
		if s.Limiter == Minmod {
			ul += 0.5 * minmod(u(i-1)-u(i-2), u(i)-u(i-1))
		}
		return s.Speed * ul
	}

	lambda := dt / s.dx
	for i := 0; i < n; i++ {
		c := numGhost + i
		s.scratch[i] = u(c) - lambda*(flux(c+1)-flux(c))
	}
	for i := 0; i < n; i++ {
		P.Set(numGhost+i, 0, s.scratch[i])
	}
	return nil
}

func minmod(a, b float64) float64 {
	switch {
	case a > 0 && b > 0:
		return min(a, b)
	case a < 0 && b < 0:
		return max(a, b)
	}
	return 0
}
