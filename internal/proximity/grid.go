package proximity

import (
	"math"

	"github.com/iburimskiy/constellation/internal/particle"
)

// maxGridCells bounds the cell table. Configurations spread wider than this
// fall back to the pairwise scan.
const maxGridCells = 1 << 20

// forward holds the neighbour offsets visited from each cell. Together with
// the cell itself they cover the 3x3 neighbourhood, with every pair of
// adjacent cells visited from exactly one side.
var forward = [4][2]int{{1, 0}, {-1, 1}, {0, 1}, {1, 1}}

// Grid buckets particles into square cells one link distance wide so only
// neighbouring cells are compared. Buffers are reused between calls; a Grid
// must not be shared between goroutines.
type Grid struct {
	start  []int // cell -> first slot in items, len cells+1
	items  []int // particle indices ordered by cell
	cell   []int // particle -> cell
	cursor []int
}

func (g *Grid) Links(ps []particle.Particle, prox []float64, p Params, out []Link) []Link {
	out = out[:0]
	if len(ps) < 2 || p.LinkDistance <= 0 {
		return out
	}
	size := p.LinkDistance

	minCX, minCY := math.MaxInt, math.MaxInt
	maxCX, maxCY := math.MinInt, math.MinInt
	for i := range ps {
		cx := int(math.Floor(ps[i].X / size))
		cy := int(math.Floor(ps[i].Y / size))
		minCX, maxCX = min(minCX, cx), max(maxCX, cx)
		minCY, maxCY = min(minCY, cy), max(maxCY, cy)
	}
	cols := maxCX - minCX + 1
	rows := maxCY - minCY + 1
	if cols <= 0 || rows <= 0 || cols > maxGridCells/rows {
		return Pairwise{}.Links(ps, prox, p, out)
	}
	cells := cols * rows

	g.start = resize(g.start, cells+1)
	g.items = resize(g.items, len(ps))
	g.cell = resize(g.cell, len(ps))
	clear(g.start)

	// counting sort by cell keeps indices ascending within a cell
	for i := range ps {
		cx := int(math.Floor(ps[i].X/size)) - minCX
		cy := int(math.Floor(ps[i].Y/size)) - minCY
		c := cy*cols + cx
		g.cell[i] = c
		g.start[c+1]++
	}
	for c := 1; c <= cells; c++ {
		g.start[c] += g.start[c-1]
	}
	g.cursor = resize(g.cursor, cells)
	copy(g.cursor, g.start[:cells])
	for i := range ps {
		c := g.cell[i]
		g.items[g.cursor[c]] = i
		g.cursor[c]++
	}

	for cy := 0; cy < rows; cy++ {
		for cx := 0; cx < cols; cx++ {
			c := cy*cols + cx
			base := g.items[g.start[c]:g.start[c+1]]
			if len(base) == 0 {
				continue
			}
			for a := range base {
				i := base[a]
				for b := a + 1; b < len(base); b++ {
					if j := base[b]; i < j {
						out = appendLink(out, ps, prox, p, i, j)
					}
				}
			}
			for _, off := range forward {
				nx, ny := cx+off[0], cy+off[1]
				if nx < 0 || nx >= cols || ny >= rows {
					continue
				}
				n := ny*cols + nx
				neigh := g.items[g.start[n]:g.start[n+1]]
				for _, i := range base {
					for _, j := range neigh {
						out = appendLink(out, ps, prox, p, i, j)
					}
				}
			}
		}
	}
	return out
}

func resize(s []int, n int) []int {
	if cap(s) < n {
		return make([]int, n)
	}
	return s[:n]
}
