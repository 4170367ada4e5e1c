/*
 * qp.go, part of goresp.
 *
 * Copyright 2023 Raul Mera <rmera{at}usachDOTcl>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package resp

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

//QPConfig contains the options for the equality-constrained QP solve.
type QPConfig struct {
	Tolerance      float64 //convergence is declared when the constraint residual norm is below this
	Regularization float64 //lambda, the L2 shrinkage strength added to the quadratic form
	Verbose        bool
}

//DefaultQPConfig returns a QPConfig with the default options.
func DefaultQPConfig() *QPConfig {
	ret := new(QPConfig)
	ret.Tolerance = 1e-6
	ret.Regularization = 0.0005
	ret.Verbose = false
	return ret
}

//QPSolution contains the result of a charge fit.
type QPSolution struct {
	Charges    []float64
	Objective  float64 //value of the unregularized objective at the solution
	Residual   float64 //Euclidean norm of the constraint residual
	Converged  bool
	Iterations int
}

//SolveQP minimizes 0.5*q^T*H*q + f^T*q subject to the equality constraints
//in cons, with H and f as built by ESPMatrices. A Tikhonov term 2*lambda*I
//is added to H before solving; with no constraint rows the regularized
//system is solved through a Cholesky factorization (falling back to a
//minimum-norm solve if H is not numerically positive definite), otherwise
//the KKT saddle-point system is solved directly. The solve is single-shot:
//Iterations is always 1, and Converged reports whether the constraint
//residual ended below the tolerance. Numerical near-singularity never makes
//this function fail; a non-converged solution is a valid, reportable
//outcome. The reported objective uses the unregularized H and f, so it
//measures the true ESP mismatch regardless of lambda.
func SolveQP(H *mat.SymDense, f []float64, cons *Constraints, conf *QPConfig) *QPSolution {
	if conf == nil {
		conf = DefaultQPConfig()
	}
	if cons == nil {
		cons = new(Constraints) //a nil cons means an unconstrained fit
	}
	n := len(f)
	if r, _ := H.Dims(); r != n {
		panic(ErrShapeMismatch)
	}
	if conf.Verbose {
		fmt.Printf("Equality-constrained QP: %d variables, %d constraints\n", n, cons.Len())
	}
	Hreg := mat.NewSymDense(n, nil)
	Hreg.CopySym(H)
	for i := 0; i < n; i++ {
		Hreg.SetSym(i, i, Hreg.At(i, i)+2*conf.Regularization)
	}
	var q *mat.VecDense
	if cons.Len() == 0 {
		q = solveUnconstrained(Hreg, f)
	} else {
		q = solveKKT(Hreg, f, cons)
	}
	charges := make([]float64, n)
	for i := 0; i < n; i++ {
		charges[i] = q.AtVec(i)
	}
	sol := new(QPSolution)
	sol.Charges = charges
	sol.Residual = cons.Residual(charges)
	sol.Converged = sol.Residual < conf.Tolerance
	sol.Iterations = 1
	tmp := mat.NewVecDense(n, nil)
	tmp.MulVec(H, q)
	sol.Objective = 0.5*mat.Dot(q, tmp) + floats.Dot(f, charges)
	if conf.Verbose {
		fmt.Printf("  Converged: %v\n  Objective: %e\n  Constraint residual: %e\n", sol.Converged, sol.Objective, sol.Residual)
	}
	return sol
}

//solveUnconstrained solves Hreg*q = -f through a Cholesky factorization,
//falling back to a minimum-norm SVD solve when Hreg is not numerically
//positive definite.
func solveUnconstrained(Hreg *mat.SymDense, f []float64) *mat.VecDense {
	n := len(f)
	negf := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		negf.SetVec(i, -f[i])
	}
	x := mat.NewVecDense(n, nil)
	var chol mat.Cholesky
	if chol.Factorize(Hreg) {
		if err := chol.SolveVecTo(x, negf); err == nil {
			return x
		}
	}
	var hd mat.Dense
	hd.CloneFrom(Hreg)
	return minNormSolve(&hd, negf)
}

//solveKKT builds and solves the saddle-point system
//
//	[ Hreg  A^T ] [ q ]   [ -f ]
//	[  A     0  ] [ y ] = [  b ]
//
//and returns the first n components. The LU solve is pivoted; an
//ill-conditioned system is accepted as-is, and an exactly singular one falls
//back to a minimum-norm SVD solve.
func solveKKT(Hreg *mat.SymDense, f []float64, cons *Constraints) *mat.VecDense {
	n := len(f)
	m := cons.Len()
	size := n + m
	K := mat.NewDense(size, size, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			K.Set(i, j, Hreg.At(i, j))
		}
	}
	A := cons.Matrix()
	for r := 0; r < m; r++ {
		for c := 0; c < n; c++ {
			v := A.At(r, c)
			K.Set(n+r, c, v)
			K.Set(c, n+r, v)
		}
	}
	rhs := mat.NewVecDense(size, nil)
	for i := 0; i < n; i++ {
		rhs.SetVec(i, -f[i])
	}
	for r, b := range cons.Targets() {
		rhs.SetVec(n+r, b)
	}
	sol := mat.NewVecDense(size, nil)
	var lu mat.LU
	lu.Factorize(K)
	if err := lu.SolveVecTo(sol, false, rhs); err != nil {
		//An ill-conditioned but finite solution is accepted as-is. An exactly
		//singular system leaves non-finite entries behind, so it goes through
		//the pseudoinverse instead.
		if _, conditioned := err.(mat.Condition); !conditioned || !finiteVec(sol) {
			sol = minNormSolve(K, rhs)
		}
	}
	q := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		q.SetVec(i, sol.AtVec(i))
	}
	return q
}

func finiteVec(v *mat.VecDense) bool {
	for i := 0; i < v.Len(); i++ {
		x := v.AtVec(i)
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}

//minNormSolve returns the minimum-norm least-squares solution of a*x = b,
//obtained by applying the pseudoinverse from a thin SVD. Singular values
//below 1e-12 of the largest are treated as zero. It never fails: for an
//unusable factorization it returns the zero vector, which the caller will
//report as non-converged.
func minNormSolve(a *mat.Dense, b *mat.VecDense) *mat.VecDense {
	_, c := a.Dims()
	x := mat.NewVecDense(c, nil)
	var svd mat.SVD
	if !svd.Factorize(a, mat.SVDThin) {
		return x
	}
	s := svd.Values(nil)
	if len(s) == 0 || s[0] <= 0 {
		return x
	}
	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)
	cutoff := 1e-12 * s[0]
	y := make([]float64, len(s))
	ucol := make([]float64, b.Len())
	for i, si := range s {
		if si <= cutoff {
			continue
		}
		mat.Col(ucol, i, &u)
		y[i] = floats.Dot(ucol, b.RawVector().Data) / si
	}
	x.MulVec(&v, mat.NewVecDense(len(y), y))
	return x
}
