package domain

import (
	"cmp"
	"slices"
)

// SortByLatestMassBalance returns up to n glaciers ordered by the last value
// of their mass-balance history: highest first when reverse is true, lowest
// first otherwise. Ties keep collection order.
//
// Glaciers with an empty history are excluded. n larger than the number of
// candidates returns all of them; n <= 0 returns an empty slice.
func (c *GlacierCollection) SortByLatestMassBalance(n int, reverse bool) []*Glacier {
	if n <= 0 {
		return []*Glacier{}
	}

	ranked := make([]*Glacier, 0, len(c.glaciers))
	for _, g := range c.glaciers {
		if len(g.MassBalance) > 0 {
			ranked = append(ranked, g)
		}
	}

	slices.SortStableFunc(ranked, func(a, b *Glacier) int {
		la, _ := a.LatestMassBalance()
		lb, _ := b.LatestMassBalance()
		if reverse {
			return cmp.Compare(lb, la)
		}
		return cmp.Compare(la, lb)
	})

	return ranked[:min(n, len(ranked))]
}
