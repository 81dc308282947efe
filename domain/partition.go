package domain

// Partition splits the global interior cell range into one contiguous block
// per rank, with a maximum imbalance of one cell. The remainder is spread
// over the first blocks.
type Partition struct {
	Total    int // global interior cell count
	NumRanks int
	bounds   [][2]int // half-open [lo, hi) per rank
}

func NewPartition(numRanks, total int) (p *Partition) {
	if numRanks < 1 || total < numRanks {
		panic("partition: need at least one cell per rank")
	}
	p = &Partition{
		Total:    total,
		NumRanks: numRanks,
		bounds:   make([][2]int, numRanks),
	}
	var (
		per       = total / numRanks
		remainder = total % numRanks
	)
	for n := 0; n < numRanks; n++ {
		var startAdd, endAdd int
		if remainder != 0 {
			if n+1 > remainder {
				startAdd = remainder
			} else {
				startAdd = n
				endAdd = 1
			}
		}
		lo := n*per + startAdd
		p.bounds[n] = [2]int{lo, lo + per + endAdd}
	}
	return
}

// Range returns rank's half-open global cell range [lo, hi).
func (p *Partition) Range(rank int) (lo, hi int) {
	lo, hi = p.bounds[rank][0], p.bounds[rank][1]
	return
}

// Size returns rank's local interior cell count.
func (p *Partition) Size(rank int) int {
	return p.bounds[rank][1] - p.bounds[rank][0]
}

// RankOf returns the rank owning the global cell index.
func (p *Partition) RankOf(cell int) (rank int) {
	// Initial guess is exact for the balanced case.
	rank = p.NumRanks * cell / p.Total
	for !(p.bounds[rank][0] <= cell && cell < p.bounds[rank][1]) {
		if p.bounds[rank][0] > cell {
			rank--
		} else {
			rank++
		}
	}
	return
}
