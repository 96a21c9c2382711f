package proximity

import (
	"math"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/iburimskiy/constellation/internal/particle"
)

var testParams = Params{LinkDistance: 115, MouseRadius: 360, MaxLineAlpha: 0.95}

func at(xy ...float64) []particle.Particle {
	ps := make([]particle.Particle, 0, len(xy)/2)
	for i := 0; i+1 < len(xy); i += 2 {
		ps = append(ps, particle.Particle{X: xy[i], Y: xy[i+1]})
	}
	return ps
}

func ones(n int) []float64 {
	p := make([]float64, n)
	for i := range p {
		p[i] = 1
	}
	return p
}

func sortLinks(ls []Link) []Link {
	out := slices.Clone(ls)
	slices.SortFunc(out, func(a, b Link) int {
		if a.A != b.A {
			return a.A - b.A
		}
		return a.B - b.B
	})
	return out
}

func TestFocalProximity(t *testing.T) {
	ps := at(100, 100, 280, 100, 460, 100, 1000, 1000)
	got := Focal(ps, 100, 100, true, 360, nil)
	want := []float64{1, 0.5, 0, 0}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-12 {
			t.Errorf("proximity[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestFocalInactiveIsZero(t *testing.T) {
	ps := at(1, 1, 2, 2, 3, 3)
	buf := []float64{0.3, 0.7, 0.9}
	got := Focal(ps, 1, 1, false, 360, buf)
	for i, v := range got {
		if v != 0 {
			t.Errorf("proximity[%d] = %v, want exactly 0", i, v)
		}
	}
}

func TestFocalReusesBuffer(t *testing.T) {
	buf := make([]float64, 0, 8)
	got := Focal(at(0, 0, 1, 1), 0, 0, true, 10, buf)
	if len(got) != 2 || &got[0] != &buf[:1][0] {
		t.Error("Focal did not reuse a large enough buffer")
	}
}

func TestStrengthBoundaryExclusive(t *testing.T) {
	l := testParams.LinkDistance
	if s := Strength(l*l, testParams, 1, 1); s != 0 {
		t.Errorf("strength at exactly link distance = %v, want 0", s)
	}
	half := l / 2
	want := testParams.MaxLineAlpha * (1 - 0.25) * 0.6
	if s := Strength(half*half, testParams, 0.2, 0.6); math.Abs(s-want) > 1e-12 {
		t.Errorf("strength at half distance = %v, want %v", s, want)
	}
	if s := Strength(1, testParams, 0, 0); s != 0 {
		t.Errorf("strength with no proximity = %v, want 0", s)
	}
}

func TestPairwiseLinks(t *testing.T) {
	// 0-1 close, 1-2 exactly at link distance, 3 far away
	ps := at(0, 0, 50, 0, 165, 0, 900, 900)
	links := Pairwise{}.Links(ps, ones(4), testParams, nil)
	if len(links) != 1 {
		t.Fatalf("got %d links, want 1: %+v", len(links), links)
	}
	if links[0].A != 0 || links[0].B != 1 {
		t.Errorf("link = %+v, want 0-1", links[0])
	}
}

func TestLinksSkipZeroProximity(t *testing.T) {
	ps := at(0, 0, 10, 0, 20, 0)
	prox := []float64{0, 0, 0.5}
	links := Pairwise{}.Links(ps, prox, testParams, nil)
	for _, l := range links {
		if prox[l.A] == 0 && prox[l.B] == 0 {
			t.Errorf("link %+v has no focal proximity", l)
		}
	}
	if len(links) != 2 {
		t.Errorf("got %d links, want 2", len(links))
	}
}

func TestGridMatchesPairwise(t *testing.T) {
	rng := rand.New(rand.NewPCG(11, 13))
	var g Grid
	for trial := 0; trial < 60; trial++ {
		n := 1 + rng.IntN(400)
		w := 50 + rng.Float64()*1500
		h := 50 + rng.Float64()*1000
		ps := make([]particle.Particle, n)
		prox := make([]float64, n)
		for i := range ps {
			ps[i] = particle.Particle{X: rng.Float64() * w, Y: rng.Float64() * h}
			if trial%3 == 0 {
				// off-surface and negative positions still match
				ps[i].X -= w / 2
			}
			if rng.Float64() < 0.7 {
				prox[i] = rng.Float64()
			}
		}
		want := sortLinks(Pairwise{}.Links(ps, prox, testParams, nil))
		got := sortLinks(g.Links(ps, prox, testParams, nil))
		if !slices.Equal(got, want) {
			t.Fatalf("trial %d (n=%d): grid found %d links, pairwise %d", trial, n, len(got), len(want))
		}
	}
}

func TestGridPairsAreUnique(t *testing.T) {
	rng := rand.New(rand.NewPCG(17, 19))
	ps := make([]particle.Particle, 300)
	for i := range ps {
		ps[i] = particle.Particle{X: rng.Float64() * 400, Y: rng.Float64() * 300}
	}
	var g Grid
	links := g.Links(ps, ones(len(ps)), testParams, nil)
	seen := map[[2]int]bool{}
	for _, l := range links {
		if l.A >= l.B {
			t.Fatalf("link %+v is not ordered", l)
		}
		k := [2]int{l.A, l.B}
		if seen[k] {
			t.Fatalf("pair %v reported twice", k)
		}
		seen[k] = true
	}
}

func TestGridCellBoundaries(t *testing.T) {
	l := testParams.LinkDistance
	// pairs straddling cell edges, including exactly on an edge
	ps := at(l-1, l-1, l+1, l+1, 2*l, 0, 2*l-0.5, l, 0, 2*l, 1, 2*l-1)
	var g Grid
	want := sortLinks(Pairwise{}.Links(ps, ones(len(ps)), testParams, nil))
	got := sortLinks(g.Links(ps, ones(len(ps)), testParams, nil))
	if !slices.Equal(got, want) {
		t.Errorf("grid %+v, pairwise %+v", got, want)
	}
}

func TestGridFallsBackOnSparseSpread(t *testing.T) {
	ps := at(0, 0, 10, 0, 1e9, 1e9)
	var g Grid
	got := sortLinks(g.Links(ps, ones(3), testParams, nil))
	if len(got) != 1 || got[0].A != 0 || got[0].B != 1 {
		t.Errorf("links = %+v, want only 0-1", got)
	}
}

func BenchmarkPairwise(b *testing.B) {
	benchmarkSearch(b, Pairwise{})
}

func BenchmarkGrid(b *testing.B) {
	benchmarkSearch(b, &Grid{})
}

func benchmarkSearch(b *testing.B, s Searcher) {
	rng := rand.New(rand.NewPCG(1, 1))
	ps := make([]particle.Particle, 520)
	for i := range ps {
		ps[i] = particle.Particle{X: rng.Float64() * 1920, Y: rng.Float64() * 1080}
	}
	prox := ones(len(ps))
	var out []Link
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		out = s.Links(ps, prox, testParams, out)
	}
}
