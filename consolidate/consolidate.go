// Package consolidate gathers the per-rank interior slices produced by a
// decomposed run into one globally ordered field array. Only the coordinator
// rank calls Consolidate; every other rank only puts its own record.
package consolidate

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// Record is one rank's durable partial result: exactly the interior field
// slice, flattened row-major, with the rank embedded as the ordering key.
type Record struct {
	Rank int       `json:"rank"`
	Nx   int       `json:"nx"`
	Nq   int       `json:"nq"`
	Data []float64 `json:"data"`
}

// NewRecord flattens the interior slice P into a Record for rank.
func NewRecord(rank int, P *mat.Dense) Record {
	nx, nq := P.Dims()
	data := make([]float64, 0, nx*nq)
	for i := 0; i < nx; i++ {
		data = append(data, P.RawRowView(i)...)
	}
	return Record{Rank: rank, Nx: nx, Nq: nq, Data: data}
}

// InconsistentShapeError reports a component-count mismatch between rank
// records. The records themselves remain valid and reusable after a fix.
type InconsistentShapeError struct {
	Rank       int
	Nq, WantNq int
}

func (e *InconsistentShapeError) Error() string {
	return fmt.Sprintf("rank %d record has %d components, want %d", e.Rank, e.Nq, e.WantNq)
}

// Store is the ordered collection the ranks publish their records into. Put
// is write-once per rank; List returns everything published so far, in no
// particular order.
type Store interface {
	Put(r Record) error
	List() ([]Record, error)
}

// Consolidate reads every record from s, orders them by ascending rank and
// concatenates the interior slices along the spatial axis. All records must
// agree on the component count.
func Consolidate(s Store) (*mat.Dense, error) {
	recs, err := s.List()
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, fmt.Errorf("consolidate: no records")
	}
	sort.Slice(recs, func(i, j int) bool { return recs[i].Rank < recs[j].Rank })

	nq := recs[0].Nq
	var nxTotal int
	for _, r := range recs {
		if r.Nq != nq {
			return nil, &InconsistentShapeError{Rank: r.Rank, Nq: r.Nq, WantNq: nq}
		}
		if len(r.Data) != r.Nx*r.Nq {
			return nil, fmt.Errorf("consolidate: rank %d record has %d values, want %d",
				r.Rank, len(r.Data), r.Nx*r.Nq)
		}
		nxTotal += r.Nx
	}

	data := make([]float64, 0, nxTotal*nq)
	for _, r := range recs {
		data = append(data, r.Data...)
	}
	return mat.NewDense(nxTotal, nq, data), nil
}
