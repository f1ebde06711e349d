package element

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

func vec(v []float64) r3.Vec { return r3.Vec{X: v[0], Y: v[1], Z: v[2]} }

// NodeCoords returns the nodal coordinates as a numNodes x 3 matrix.
func (e *Element) NodeCoords() *mat.Dense {
	X := mat.NewDense(len(e.Nodes), 3, nil)
	for i, n := range e.Nodes {
		X.SetRow(i, []float64{n.Coords.X, n.Coords.Y, n.Coords.Z})
	}
	return X
}

func (e *Element) ShapeFcns(xi []float64) ([]float64, error) { return e.Shape.ShapeFcns(xi) }

func (e *Element) ShapeFcnsDerivs(xi []float64) (*mat.Dense, error) {
	return e.Shape.ShapeFcnsDerivs(xi)
}

// Jacobian is dx/dxi = dN . X, one row per reference direction.
func (e *Element) Jacobian(xi []float64) (J *mat.Dense, err error) {
	var dN *mat.Dense
	if dN, err = e.Shape.ShapeFcnsDerivs(xi); err != nil {
		return
	}
	J = &mat.Dense{}
	J.Mul(dN, e.NodeCoords())
	return
}

// Position maps xi to physical coordinates, x = sum N_i x_i.
func (e *Element) Position(xi []float64) (x r3.Vec, err error) {
	var N []float64
	if N, err = e.Shape.ShapeFcns(xi); err != nil {
		return
	}
	for i, n := range e.Nodes {
		x = r3.Add(x, r3.Scale(N[i], n.Coords))
	}
	return
}

// IsInRef tests whether xi lies inside the reference domain.
func (e *Element) IsInRef(xi []float64, includeBoundary bool) (bool, error) {
	return e.Shape.IsInRef(xi, includeBoundary)
}

var (
	tet4N = mat.NewDense(4, 3, []float64{
		-1, -1, -1,
		1, 0, 0,
		0, 1, 0,
		0, 0, 1,
	})
	tet4B = mat.NewVecDense(4, []float64{1, 0, 0, 0})
)

// GetXi inverts the reference map. Only the affine TET4 map is supported:
// solve (X^T N) xi = x - X^T b.
func (e *Element) GetXi(x r3.Vec) (xi []float64, err error) {
	if e.Shape != Tet4 {
		return nil, fmt.Errorf("%w: inverse map of %s", ErrNotImplemented, e.ShapeName())
	}
	X := e.NodeCoords()
	var A mat.Dense
	A.Mul(X.T(), tet4N)

	var Xb mat.VecDense
	Xb.MulVec(X.T(), tet4B)
	rhs := mat.NewVecDense(3, []float64{x.X, x.Y, x.Z})
	rhs.SubVec(rhs, &Xb)

	var sol mat.VecDense
	if err = sol.SolveVec(&A, rhs); err != nil {
		return nil, fmt.Errorf("degenerate TET4: %w", err)
	}
	return []float64{sol.AtVec(0), sol.AtVec(1), sol.AtVec(2)}, nil
}

// ProjectQuantityXi interpolates nodal values (one row per node) at xi.
func (e *Element) ProjectQuantityXi(xi []float64, values mat.Matrix) (q []float64, err error) {
	r, c := values.Dims()
	if r != len(e.Nodes) {
		return nil, fmt.Errorf("%s: %d nodal value rows for %d nodes", e.ShapeName(), r, len(e.Nodes))
	}
	var N []float64
	if N, err = e.Shape.ShapeFcns(xi); err != nil {
		return
	}
	var res mat.VecDense
	res.MulVec(values.T(), mat.NewVecDense(len(N), N))
	q = make([]float64, c)
	for i := range q {
		q[i] = res.AtVec(i)
	}
	return
}

// ProjectQuantity interpolates nodal values at the physical point x.
func (e *Element) ProjectQuantity(x r3.Vec, values mat.Matrix) ([]float64, error) {
	xi, err := e.GetXi(x)
	if err != nil {
		return nil, err
	}
	return e.ProjectQuantityXi(xi, values)
}

// IntegrateXi integrates f over the element with a fixed gauss rule.
// The measure is sqrt(det(J J^T)), so surfaces and lines embedded in 3-space work.
func (e *Element) IntegrateXi(f func(xi []float64) []float64, numGP int) (result []float64, err error) {
	var (
		points  [][]float64
		weights []float64
	)
	if points, weights, err = e.Shape.GaussPoints(numGP); err != nil {
		return
	}
	for g, xi := range points {
		var J *mat.Dense
		if J, err = e.Jacobian(xi); err != nil {
			return
		}
		var G mat.Dense
		G.Mul(J, J.T())
		detG := mat.Det(&G)
		if detG < 0 {
			detG = 0
		}
		detA := math.Sqrt(detG)
		val := f(xi)
		if result == nil {
			result = make([]float64, len(val))
		}
		floats.AddScaled(result, weights[g]*detA, val)
	}
	return
}

// Integrate is IntegrateXi with the integrand given in physical coordinates.
func (e *Element) Integrate(f func(x r3.Vec) []float64, numGP int) ([]float64, error) {
	var posErr error
	result, err := e.IntegrateXi(func(xi []float64) []float64 {
		x, err := e.Position(xi)
		if err != nil {
			posErr = err
		}
		return f(x)
	}, numGP)
	if err == nil {
		err = posErr
	}
	return result, err
}

// Normal is the unit normal of a surface element at xi, from the cross product
// of the two tangent rows of the Jacobian. Curved faces are only approximated.
func (e *Element) Normal(xi []float64) (n r3.Vec, err error) {
	if e.Dim() != 2 {
		return n, fmt.Errorf("%w: normal of %s", ErrNotImplemented, e.ShapeName())
	}
	var J *mat.Dense
	if J, err = e.Jacobian(xi); err != nil {
		return
	}
	t1 := vec(mat.Row(nil, 0, J))
	t2 := vec(mat.Row(nil, 1, J))
	c := r3.Cross(t1, t2)
	if r3.Norm(c) == 0 {
		return n, fmt.Errorf("%s: degenerate surface, zero normal", e.ShapeName())
	}
	return r3.Unit(c), nil
}
