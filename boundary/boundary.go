// Package boundary fills the ghost cells of a 1D field array before each
// solver advance. The field layout is rows = cells (ghosts included), cols =
// conserved/primitive components.
package boundary

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

type Policy uint8

const (
	// Outflow copies the nearest interior cell into each ghost cell
	// (zero-gradient). This is the default policy of the harness.
	Outflow Policy = iota
	// Periodic wraps each ghost cell around to the opposite interior edge.
	Periodic
	// Reflecting mirrors the interior cells across the domain edge.
	Reflecting
)

var policyNames = []string{"outflow", "periodic", "reflecting"}

func (p Policy) String() string {
	if int(p) >= len(policyNames) {
		return fmt.Sprintf("policy(%d)", p)
	}
	return policyNames[p]
}

// ParsePolicy maps a policy name from an input file to its Policy value.
func ParsePolicy(name string) (Policy, error) {
	for i, pn := range policyNames {
		if pn == name {
			return Policy(i), nil
		}
	}
	return 0, fmt.Errorf("unknown boundary policy %q", name)
}

// Side selects which edge of the domain a fill applies to.
type Side uint8

const (
	Low Side = 1 << iota
	High
	Both = Low | High
)

// Apply overwrites the ng ghost rows on each side of P in place. The interior
// rows are never touched. P must have at least 2*ng+1 rows.
func Apply(P *mat.Dense, ng int, policy Policy) error {
	return ApplySide(P, ng, policy, Both)
}

// ApplySide fills only the selected edge's ghost rows. Decomposed domains use
// it at their physical edges while interior edges are filled by neighbor
// exchange.
func ApplySide(P *mat.Dense, ng int, policy Policy, side Side) error {
	rows, _ := P.Dims()
	if rows < 2*ng+1 {
		return fmt.Errorf("boundary: field has %d rows, need at least %d for %d ghost cells",
			rows, 2*ng+1, ng)
	}
	for i := 0; i < ng; i++ {
		var lo, hi int // source rows for the low/high side ghost row i
		switch policy {
		case Outflow:
			lo, hi = ng, rows-ng-1
		case Periodic:
			lo, hi = rows-2*ng+i, ng+i
		case Reflecting:
			lo, hi = 2*ng-1-i, rows-ng-1-i
		default:
			return fmt.Errorf("unknown boundary policy %d", policy)
		}
		if side&Low != 0 {
			copyRow(P, i, lo)
		}
		if side&High != 0 {
			copyRow(P, rows-ng+i, hi)
		}
	}
	return nil
}

func copyRow(P *mat.Dense, dst, src int) {
	copy(P.RawRowView(dst), P.RawRowView(src))
}
