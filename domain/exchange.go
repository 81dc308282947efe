package domain

import (
	"errors"
	"fmt"
	"sync"

	"gonum.org/v1/gonum/mat"
)

// ErrAborted is returned from Exchange on every rank still waiting when some
// other rank failed and called Abort. The failing rank's own error is the one
// worth reporting.
var ErrAborted = errors.New("exchange: run aborted by a failed rank")

// Exchanger swaps edge strips between adjacent ranks of a 1D chain. Each
// adjacent pair shares two single-slot channels, one per direction; the
// blocking receives keep neighboring ranks in lockstep per step without any
// global barrier.
type Exchanger struct {
	numRanks  int
	toRight   []chan []float64 // toRight[r] carries rank r's high edge to r+1
	toLeft    []chan []float64 // toLeft[r] carries rank r+1's low edge to r
	done      chan struct{}
	abortOnce sync.Once
}

func NewExchanger(numRanks int) (e *Exchanger) {
	e = &Exchanger{
		numRanks: numRanks,
		toRight:  make([]chan []float64, numRanks-1),
		toLeft:   make([]chan []float64, numRanks-1),
		done:     make(chan struct{}),
	}
	for i := range e.toRight {
		e.toRight[i] = make(chan []float64, 1)
		e.toLeft[i] = make(chan []float64, 1)
	}
	return
}

// Abort unblocks every rank waiting in Exchange. A rank whose step failed
// calls it so the whole run dies instead of deadlocking its neighbors; there
// is no per-rank fault tolerance.
func (e *Exchanger) Abort() {
	e.abortOnce.Do(func() { close(e.done) })
}

// Exchange sends this rank's edge interior strips to its neighbors and fills
// its ghost rows with the strips received back. It reports which sides were
// filled; the caller applies a physical boundary policy on the rest. Every
// rank of a step must call Exchange exactly once; sends complete before any
// receive so the chain cannot deadlock.
func (e *Exchanger) Exchange(rank int, P *mat.Dense, ng int) (lowFilled, highFilled bool, err error) {
	rows, nq := P.Dims()
	if rows < 4*ng {
		return false, false, fmt.Errorf("exchange: field has %d rows, need at least %d", rows, 4*ng)
	}
	if rank > 0 {
		select {
		case e.toLeft[rank-1] <- strip(P, ng, ng, nq):
		case <-e.done:
			return false, false, ErrAborted
		}
	}
	if rank < e.numRanks-1 {
		select {
		case e.toRight[rank] <- strip(P, rows-2*ng, ng, nq):
		case <-e.done:
			return false, false, ErrAborted
		}
	}
	if rank > 0 {
		select {
		case buf := <-e.toRight[rank-1]:
			if err = fill(P, 0, buf, ng, nq); err != nil {
				return
			}
			lowFilled = true
		case <-e.done:
			return false, false, ErrAborted
		}
	}
	if rank < e.numRanks-1 {
		select {
		case buf := <-e.toLeft[rank]:
			if err = fill(P, rows-ng, buf, ng, nq); err != nil {
				return
			}
			highFilled = true
		case <-e.done:
			return false, false, ErrAborted
		}
	}
	return
}


// strip copies ng rows starting at row into a flat buffer.
func strip(P *mat.Dense, row, ng, nq int) []float64 {
	buf := make([]float64, 0, ng*nq)
	for i := 0; i < ng; i++ {
		buf = append(buf, P.RawRowView(row+i)...)
	}
	return buf
}

// fill writes a received strip into ng rows starting at row.
func fill(P *mat.Dense, row int, buf []float64, ng, nq int) error {
	if len(buf) != ng*nq {
		return fmt.Errorf("exchange: got strip of %d values, want %d", len(buf), ng*nq)
	}
	for i := 0; i < ng; i++ {
		copy(P.RawRowView(row+i), buf[i*nq:(i+1)*nq])
	}
	return nil
}
