package kernel

import (
	"math"

	"github.com/npillmayer/draft/core/geom"
)

// MakeBSpline creates an edge on a cubic spline interpolating nodes. Knots
// are spaced by |Pᵢ−Pᵢ₋₁|^a, i.e. a=0 yields uniform, a=0.5 centripetal
// and a=1 chord-length parameterization. Periodic splines must not repeat
// the first node at the end.
func MakeBSpline(nodes []geom.Vector, a float64, periodic bool) (*Edge, error) {
	if len(nodes) < 2 {
		return nil, geometryError("B-spline needs at least 2 nodes, have %d", len(nodes))
	}
	if periodic && len(nodes) < 3 {
		return nil, geometryError("closed B-spline needs at least 3 nodes")
	}
	if periodic && geom.Coincident(nodes[0], nodes[len(nodes)-1]) {
		return nil, geometryError("closed B-spline must not repeat its first node")
	}
	knots, err := SplineKnots(nodes, a, periodic)
	if err != nil {
		return nil, err
	}
	sp := &BSpline{Nodes: append([]geom.Vector(nil), nodes...), Knots: knots, Periodic: periodic}
	sp.solve()
	first, last := sp.Range()
	return NewEdge(sp, first, last), nil
}

// SplineKnots returns the knot sequence for a set of interpolation nodes as
// the partial sums of |Pᵢ−Pᵢ₋₁|^a.
func SplineKnots(nodes []geom.Vector, a float64, periodic bool) ([]float64, error) {
	a = math.Max(0, math.Min(1, a))
	n := len(nodes)
	cnt := n
	if periodic {
		cnt++
	}
	knots := make([]float64, cnt)
	for i := 1; i < cnt; i++ {
		d := geom.Dist(nodes[i%n], nodes[i-1])
		if d < geom.Epsilon() {
			return nil, geometryError("B-spline nodes %d and %d coincide", i-1, i%n)
		}
		knots[i] = knots[i-1] + math.Pow(d, a)
	}
	return knots, nil
}

// solve computes the second derivatives at the knots. Open splines use
// natural end conditions, periodic splines wrap around.
func (b *BSpline) solve() {
	n := len(b.Knots) // number of knots
	b.m = make([]geom.Vector, n)
	if !b.Periodic && n < 3 {
		return
	}
	h := make([]float64, n-1)
	for i := range h {
		h[i] = b.Knots[i+1] - b.Knots[i]
	}
	slope := func(i int) geom.Vector { // (P_{i+1} − P_i) / h_i
		return geom.Scale(1/h[i], geom.Sub(b.node(i+1), b.node(i)))
	}
	if !b.Periodic {
		// tridiagonal system for M_1 … M_{n-2}, Thomas algorithm
		k := n - 2
		diag := make([]float64, k)
		upper := make([]float64, k)
		rhs := make([]geom.Vector, k)
		for j := 0; j < k; j++ {
			i := j + 1
			diag[j] = 2 * (h[i-1] + h[i])
			upper[j] = h[i]
			rhs[j] = geom.Scale(6, geom.Sub(slope(i), slope(i-1)))
		}
		for j := 1; j < k; j++ {
			w := h[j] / diag[j-1] // lower[j] = h[i-1] = h[j]
			diag[j] -= w * upper[j-1]
			rhs[j] = geom.Sub(rhs[j], geom.Scale(w, rhs[j-1]))
		}
		for j := k - 1; j >= 0; j-- {
			r := rhs[j]
			if j < k-1 {
				r = geom.Sub(r, geom.Scale(upper[j], b.m[j+2]))
			}
			b.m[j+1] = geom.Scale(1/diag[j], r)
		}
		return
	}
	// periodic: unknowns M_0 … M_{k-1}, with M_k = M_0
	k := n - 1
	a := make([][]float64, k)
	rhs := make([]geom.Vector, k)
	for i := 0; i < k; i++ {
		a[i] = make([]float64, k)
		prev := (i - 1 + k) % k
		a[i][prev] += h[prev]
		a[i][i] += 2 * (h[prev] + h[i])
		a[i][(i+1)%k] += h[i]
		rhs[i] = geom.Scale(6, geom.Sub(slope(i), slope(prev)))
	}
	x := solveDense(a, rhs)
	copy(b.m, x)
	b.m[k] = b.m[0]
}

// solveDense solves a·x = rhs by Gaussian elimination with partial pivoting.
func solveDense(a [][]float64, rhs []geom.Vector) []geom.Vector {
	n := len(a)
	for col := 0; col < n; col++ {
		piv := col
		for r := col + 1; r < n; r++ {
			if math.Abs(a[r][col]) > math.Abs(a[piv][col]) {
				piv = r
			}
		}
		a[col], a[piv] = a[piv], a[col]
		rhs[col], rhs[piv] = rhs[piv], rhs[col]
		if math.Abs(a[col][col]) < 1e-300 {
			continue
		}
		for r := col + 1; r < n; r++ {
			f := a[r][col] / a[col][col]
			if f == 0 {
				continue
			}
			for c := col; c < n; c++ {
				a[r][c] -= f * a[col][c]
			}
			rhs[r] = geom.Sub(rhs[r], geom.Scale(f, rhs[col]))
		}
	}
	x := make([]geom.Vector, n)
	for r := n - 1; r >= 0; r-- {
		s := rhs[r]
		for c := r + 1; c < n; c++ {
			s = geom.Sub(s, geom.Scale(a[r][c], x[c]))
		}
		if a[r][r] != 0 {
			x[r] = geom.Scale(1/a[r][r], s)
		}
	}
	return x
}

// MakeBezier creates a multi-segment Bézier edge. The number of poles must
// be k·degree+1 for k ≥ 1 segments.
func MakeBezier(poles []geom.Vector, degree int) (*Edge, error) {
	if degree < 1 {
		return nil, geometryError("Bézier degree must be positive, is %d", degree)
	}
	if len(poles) < degree+1 || (len(poles)-1)%degree != 0 {
		return nil, geometryError("%d poles do not fit Bézier segments of degree %d", len(poles), degree)
	}
	bz := &Bezier{Poles: append([]geom.Vector(nil), poles...), Degree: degree}
	return NewEdge(bz, 0, float64(bz.Segments())), nil
}
