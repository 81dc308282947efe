// Package domain decomposes the 1D grid into one contiguous block per rank
// and gives the driver its boundary-application and result-persistence
// contract. Ghost exchange between adjacent blocks happens inside SetBC; the
// driver never sees it.
package domain

import (
	"gonum.org/v1/gonum/mat"

	"github.com/numflux/mhdtube/boundary"
	"github.com/numflux/mhdtube/consolidate"
)

// Block is one rank's sub-domain of the global grid spanning [XMin, XMax).
type Block struct {
	rank  int
	part  *Partition
	xmin  float64
	dx    []float64
	ex    *Exchanger // nil when running single-rank
	store consolidate.Store
}

// NewBlock builds rank's block of a decomposition over [xmin, xmax). The
// Exchanger may be nil for a single-rank run; the store receives the local
// interior result on Dump.
func NewBlock(rank int, part *Partition, xmin, xmax float64, ex *Exchanger, store consolidate.Store) *Block {
	return &Block{
		rank:  rank,
		part:  part,
		xmin:  xmin,
		dx:    []float64{(xmax - xmin) / float64(part.Total)},
		ex:    ex,
		store: store,
	}
}

func (b *Block) Rank() int           { return b.rank }
func (b *Block) CellSize() []float64 { return b.dx }
func (b *Block) LocalCells() int     { return b.part.Size(b.rank) }

// CellCenters returns the global x coordinate of each local interior cell
// center. Solvers use it to place the initial discontinuity.
func (b *Block) CellCenters() (x []float64) {
	lo, hi := b.part.Range(b.rank)
	x = make([]float64, 0, hi-lo)
	for i := lo; i < hi; i++ {
		x = append(x, b.xmin+(float64(i)+0.5)*b.dx[0])
	}
	return
}

// SetBC fills the ghost rows of P: interior edges by neighbor exchange,
// physical edges by the supplied policy. Periodic wraps within the local
// block, so it is only meaningful on a single-rank run.
func (b *Block) SetBC(P *mat.Dense, ng int, policy boundary.Policy) error {
	var lowFilled, highFilled bool
	if b.ex != nil {
		var err error
		if lowFilled, highFilled, err = b.ex.Exchange(b.rank, P, ng); err != nil {
			return err
		}
	}
	switch {
	case lowFilled && highFilled:
		return nil
	case lowFilled:
		return boundary.ApplySide(P, ng, policy, boundary.High)
	case highFilled:
		return boundary.ApplySide(P, ng, policy, boundary.Low)
	}
	return boundary.Apply(P, ng, policy)
}

// Dump persists the interior slice as this rank's durable record. Write-once;
// the consolidation stage reads it back by rank order.
func (b *Block) Dump(interior *mat.Dense) error {
	return b.store.Put(consolidate.NewRecord(b.rank, interior))
}
