package element

// Shape function families. Each builder closes over the nodal reference
// coordinates so that node i is the one-hot point of N_i.

type order1D int

const (
	linear order1D = iota
	quadratic
)

// lagrange1D is the 1D Lagrange polynomial of node position p (in {-1,0,1})
// evaluated at x, with its derivative.
func lagrange1D(o order1D, p, x float64) (v, dv float64) {
	if o == linear {
		return 0.5 * (1 + p*x), 0.5 * p
	}
	switch {
	case p < 0:
		return 0.5 * x * (x - 1), x - 0.5
	case p > 0:
		return 0.5 * x * (x + 1), x + 0.5
	default:
		return (1 + x) * (1 - x), -2 * x
	}
}

// tensorFcns builds tensor-product Lagrange functions on [-1,1]^d.
func tensorFcns(ref [][]float64, o order1D) (fcns func([]float64) []float64, derivs func([]float64) [][]float64) {
	dim := len(ref[0])
	fcns = func(xi []float64) (N []float64) {
		N = make([]float64, len(ref))
		for i, r := range ref {
			N[i] = 1
			for d := 0; d < dim; d++ {
				v, _ := lagrange1D(o, r[d], xi[d])
				N[i] *= v
			}
		}
		return
	}
	derivs = func(xi []float64) (dN [][]float64) {
		dN = make2D(dim, len(ref))
		for i, r := range ref {
			var v, dv [3]float64
			for d := 0; d < dim; d++ {
				v[d], dv[d] = lagrange1D(o, r[d], xi[d])
			}
			for k := 0; k < dim; k++ {
				prod := 1.
				for d := 0; d < dim; d++ {
					if d == k {
						prod *= dv[d]
					} else {
						prod *= v[d]
					}
				}
				dN[k][i] = prod
			}
		}
		return
	}
	return
}

// serendipityFcns builds the quadratic serendipity family (QUAD8, HEX20).
// Corner nodes have every coordinate at +-1, mid-edge nodes have one zero.
func serendipityFcns(ref [][]float64) (fcns func([]float64) []float64, derivs func([]float64) [][]float64) {
	dim := len(ref[0])
	zeroAxis := func(r []float64) int {
		for d, p := range r {
			if p == 0 {
				return d
			}
		}
		return -1
	}
	fcns = func(xi []float64) (N []float64) {
		N = make([]float64, len(ref))
		for i, r := range ref {
			if z := zeroAxis(r); z >= 0 {
				v := 1 - xi[z]*xi[z]
				for d := 0; d < dim; d++ {
					if d != z {
						v *= 0.5 * (1 + r[d]*xi[d])
					}
				}
				N[i] = v
				continue
			}
			v, sum := 1., 0.
			for d := 0; d < dim; d++ {
				v *= 0.5 * (1 + r[d]*xi[d])
				sum += r[d] * xi[d]
			}
			N[i] = v * (sum - float64(dim-1))
		}
		return
	}
	derivs = func(xi []float64) (dN [][]float64) {
		dN = make2D(dim, len(ref))
		for i, r := range ref {
			if z := zeroAxis(r); z >= 0 {
				for k := 0; k < dim; k++ {
					var v float64
					if k == z {
						v = -2 * xi[z]
					} else {
						v = 1 - xi[z]*xi[z]
					}
					for d := 0; d < dim; d++ {
						if d == z {
							continue
						}
						if d == k {
							v *= 0.5 * r[d]
						} else {
							v *= 0.5 * (1 + r[d]*xi[d])
						}
					}
					dN[k][i] = v
				}
				continue
			}
			var l [3]float64
			prod, sum := 1., 0.
			for d := 0; d < dim; d++ {
				l[d] = 0.5 * (1 + r[d]*xi[d])
				prod *= l[d]
				sum += r[d] * xi[d]
			}
			for k := 0; k < dim; k++ {
				others := 1.
				for d := 0; d < dim; d++ {
					if d != k {
						others *= l[d]
					}
				}
				// d/dxi_k [ prod * (sum - (dim-1)) ]
				dN[k][i] = 0.5*r[k]*others*(sum-float64(dim-1)) + prod*r[k]
			}
		}
		return
	}
	return
}

// barycentric returns L_0 = 1 - sum(xi), L_{k+1} = xi_k.
func barycentric(xi []float64, dim int) (L []float64) {
	L = make([]float64, dim+1)
	L[0] = 1
	for k := 0; k < dim; k++ {
		L[k+1] = xi[k]
		L[0] -= xi[k]
	}
	return
}

// dBarycentric is dL_j/dxi_k.
func dBarycentric(j, k int) float64 {
	switch {
	case j == 0:
		return -1
	case j == k+1:
		return 1
	default:
		return 0
	}
}

// simplexFcns builds linear (TRI3, TET4) or quadratic (TRI6, TET10) simplex
// functions. For quadratic ones, mids lists {a, b, node} for each mid-edge node.
func simplexFcns(dim int, mids [][]int) (fcns func([]float64) []float64, derivs func([]float64) [][]float64) {
	numNodes := dim + 1 + len(mids)
	fcns = func(xi []float64) (N []float64) {
		L := barycentric(xi, dim)
		if len(mids) == 0 {
			return L
		}
		N = make([]float64, numNodes)
		for i := 0; i <= dim; i++ {
			N[i] = L[i] * (2*L[i] - 1)
		}
		for _, m := range mids {
			N[m[2]] = 4 * L[m[0]] * L[m[1]]
		}
		return
	}
	derivs = func(xi []float64) (dN [][]float64) {
		L := barycentric(xi, dim)
		dN = make2D(dim, numNodes)
		for k := 0; k < dim; k++ {
			for i := 0; i <= dim; i++ {
				if len(mids) == 0 {
					dN[k][i] = dBarycentric(i, k)
				} else {
					dN[k][i] = (4*L[i] - 1) * dBarycentric(i, k)
				}
			}
			for _, m := range mids {
				a, b := m[0], m[1]
				dN[k][m[2]] = 4 * (dBarycentric(a, k)*L[b] + L[a]*dBarycentric(b, k))
			}
		}
		return
	}
	return
}

// wedgeFcns is TRI3 in (xi, eta) times a linear function in zeta on [-1,1].
func wedgeFcns(ref [][]float64) (fcns func([]float64) []float64, derivs func([]float64) [][]float64) {
	fcns = func(xi []float64) (N []float64) {
		L := barycentric(xi, 2)
		N = make([]float64, len(ref))
		for i, r := range ref {
			N[i] = L[i%3] * 0.5 * (1 + r[2]*xi[2])
		}
		return
	}
	derivs = func(xi []float64) (dN [][]float64) {
		L := barycentric(xi, 2)
		dN = make2D(3, len(ref))
		for i, r := range ref {
			z := 0.5 * (1 + r[2]*xi[2])
			dN[0][i] = dBarycentric(i%3, 0) * z
			dN[1][i] = dBarycentric(i%3, 1) * z
			dN[2][i] = L[i%3] * 0.5 * r[2]
		}
		return
	}
	return
}

const apexTol = 1e-12

// pyramidFcns is the rational five-node pyramid on base [-1,1]^2 at zeta=0
// with its apex at zeta=1.
func pyramidFcns(ref [][]float64) (fcns func([]float64) []float64, derivs func([]float64) [][]float64) {
	fcns = func(xi []float64) (N []float64) {
		N = make([]float64, 5)
		x, y, z := xi[0], xi[1], xi[2]
		if 1-z < apexTol {
			N[4] = 1
			return
		}
		for i := 0; i < 4; i++ {
			r := ref[i]
			N[i] = 0.25 * ((1+r[0]*x)*(1+r[1]*y) - z + r[0]*r[1]*x*y*z/(1-z))
		}
		N[4] = z
		return
	}
	derivs = func(xi []float64) (dN [][]float64) {
		dN = make2D(3, 5)
		x, y, z := xi[0], xi[1], xi[2]
		if 1-z < apexTol {
			z = 1 - apexTol
		}
		q := z / (1 - z)
		dq := 1 / ((1 - z) * (1 - z))
		for i := 0; i < 4; i++ {
			r := ref[i]
			dN[0][i] = 0.25 * (r[0]*(1+r[1]*y) + r[0]*r[1]*y*q)
			dN[1][i] = 0.25 * (r[1]*(1+r[0]*x) + r[0]*r[1]*x*q)
			dN[2][i] = 0.25 * (-1 + r[0]*r[1]*x*y*dq)
		}
		dN[2][4] = 1
		return
	}
	return
}

func vertexFcns() (func([]float64) []float64, func([]float64) [][]float64) {
	return func([]float64) []float64 { return []float64{1} }, nil
}

func make2D(rows, cols int) (m [][]float64) {
	m = make([][]float64, rows)
	for i := range m {
		m[i] = make([]float64, cols)
	}
	return
}
