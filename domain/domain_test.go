package domain

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/numflux/mhdtube/boundary"
	"github.com/numflux/mhdtube/consolidate"
)

func TestPartitionBalance(t *testing.T) {
	for _, tc := range []struct{ ranks, total int }{
		{1, 256}, {2, 256}, {3, 256}, {7, 100}, {4, 5},
	} {
		p := NewPartition(tc.ranks, tc.total)
		var sum, minSz, maxSz int
		minSz = tc.total
		prevHi := 0
		for n := 0; n < tc.ranks; n++ {
			lo, hi := p.Range(n)
			assert.Equal(t, prevHi, lo, "blocks are contiguous")
			prevHi = hi
			sz := p.Size(n)
			sum += sz
			if sz < minSz {
				minSz = sz
			}
			if sz > maxSz {
				maxSz = sz
			}
		}
		assert.Equal(t, tc.total, sum)
		assert.Equal(t, tc.total, prevHi)
		assert.LessOrEqual(t, maxSz-minSz, 1, "imbalance is at most one cell")
	}
}

func TestPartitionRankOf(t *testing.T) {
	p := NewPartition(3, 100)
	for cell := 0; cell < 100; cell++ {
		rank := p.RankOf(cell)
		lo, hi := p.Range(rank)
		assert.True(t, lo <= cell && cell < hi)
	}
}

// runExchange drives one Exchange step on every rank concurrently.
func runExchange(t *testing.T, e *Exchanger, fields []*mat.Dense, ng int) {
	t.Helper()
	var wg sync.WaitGroup
	for rank := range fields {
		wg.Add(1)
		go func(rank int) {
			defer wg.Done()
			_, _, err := e.Exchange(rank, fields[rank], ng)
			assert.NoError(t, err)
		}(rank)
	}
	wg.Wait()
}

func constField(rows, nq int, v float64) *mat.Dense {
	P := mat.NewDense(rows, nq, nil)
	for i := 0; i < rows; i++ {
		for q := 0; q < nq; q++ {
			P.Set(i, q, v)
		}
	}
	return P
}

func TestExchangeTwoRanks(t *testing.T) {
	const ng = 2
	e := NewExchanger(2)
	// Rank 0 holds 1s, rank 1 holds 2s; 4 interior cells each.
	fields := []*mat.Dense{constField(8, 1, 1), constField(8, 1, 2)}
	runExchange(t, e, fields, ng)

	// Rank 0's high ghosts now hold rank 1's low interior and vice versa.
	assert.Equal(t, 2.0, fields[0].At(6, 0))
	assert.Equal(t, 2.0, fields[0].At(7, 0))
	assert.Equal(t, 1.0, fields[1].At(0, 0))
	assert.Equal(t, 1.0, fields[1].At(1, 0))
	// Physical-edge ghosts are untouched.
	assert.Equal(t, 0.0, fields[0].At(0, 0)+fields[1].At(7, 0))
}

func TestExchangeThreeRanksSeveralSteps(t *testing.T) {
	const ng = 1
	e := NewExchanger(3)
	fields := []*mat.Dense{constField(6, 2, 1), constField(6, 2, 2), constField(6, 2, 3)}
	for step := 0; step < 5; step++ {
		runExchange(t, e, fields, ng)
	}
	assert.Equal(t, 2.0, fields[0].At(5, 0))
	assert.Equal(t, 1.0, fields[1].At(0, 1))
	assert.Equal(t, 3.0, fields[1].At(5, 0))
	assert.Equal(t, 2.0, fields[2].At(0, 1))
}

func TestBlockSetBC(t *testing.T) {
	const ng = 1
	part := NewPartition(2, 8)
	e := NewExchanger(2)
	store := consolidate.NewMemStore()
	blocks := []*Block{
		NewBlock(0, part, 0, 1, e, store),
		NewBlock(1, part, 0, 1, e, store),
	}
	fields := []*mat.Dense{constField(6, 1, 1), constField(6, 1, 2)}
	// Zero the ghosts so fills are visible.
	for _, P := range fields {
		P.Set(0, 0, 0)
		P.Set(5, 0, 0)
	}

	var wg sync.WaitGroup
	for rank := range blocks {
		wg.Add(1)
		go func(rank int) {
			defer wg.Done()
			assert.NoError(t, blocks[rank].SetBC(fields[rank], ng, boundary.Outflow))
		}(rank)
	}
	wg.Wait()

	// Interior edges come from the neighbor, physical edges from outflow.
	assert.Equal(t, 1.0, fields[0].At(0, 0), "rank 0 low edge is physical outflow")
	assert.Equal(t, 2.0, fields[0].At(5, 0), "rank 0 high edge came from rank 1")
	assert.Equal(t, 1.0, fields[1].At(0, 0), "rank 1 low edge came from rank 0")
	assert.Equal(t, 2.0, fields[1].At(5, 0), "rank 1 high edge is physical outflow")
}

func TestBlockSingleRank(t *testing.T) {
	part := NewPartition(1, 4)
	b := NewBlock(0, part, 0, 1, nil, consolidate.NewMemStore())
	P := constField(6, 1, 3)
	P.Set(0, 0, 0)
	P.Set(5, 0, 0)
	require.NoError(t, b.SetBC(P, 1, boundary.Outflow))
	assert.Equal(t, 3.0, P.At(0, 0))
	assert.Equal(t, 3.0, P.At(5, 0))
}

func TestBlockGeometry(t *testing.T) {
	part := NewPartition(2, 8)
	b0 := NewBlock(0, part, 0, 1, nil, nil)
	b1 := NewBlock(1, part, 0, 1, nil, nil)
	assert.Equal(t, []float64{0.125}, b0.CellSize())
	assert.Equal(t, 4, b0.LocalCells())
	assert.Equal(t, []float64{0.0625, 0.1875, 0.3125, 0.4375}, b0.CellCenters())
	assert.Equal(t, []float64{0.5625, 0.6875, 0.8125, 0.9375}, b1.CellCenters())
}

func TestBlockDump(t *testing.T) {
	part := NewPartition(1, 3)
	store := consolidate.NewMemStore()
	b := NewBlock(0, part, 0, 1, nil, store)
	interior := mat.NewDense(3, 2, []float64{1, 2, 3, 4, 5, 6})
	require.NoError(t, b.Dump(interior))
	recs, err := store.List()
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, 0, recs[0].Rank)
	assert.Equal(t, []float64{1, 2, 3, 4, 5, 6}, recs[0].Data)
}
