/*
 * espmatrix.go, part of goresp.
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
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

//minDistance is the floor applied to atom-point distances to avoid
//divisions by zero in the Coulomb kernel.
const minDistance = 1e-10

//degenerateNorm is the column norm under which a design-matrix column is
//considered degenerate and left unscaled.
const degenerateNorm = 1e-10

//ESPMatrices builds the matrices of the quadratic objective
//0.5*q^T*H*q + f^T*q whose minimization fits the charges q to the grid
//potentials: H = 2*A^T*A and f = -2*A^T*v, with A(p,a) = 1/r(p,a) the
//Coulomb design matrix over grid points p and atoms a, and v the reference
//potentials. Each column of A is normalized by its Euclidean norm before
//forming the products, and f is then scaled back through the same norms, so
//that the solved variable remains the physical charge. The normalization is
//only there to condition the subsequent linear solve. H is positive
//semidefinite by construction; callers regularize before inverting.
func ESPMatrices(mol *Molecule, grid *ESPGrid) (*mat.SymDense, []float64) {
	if mol == nil {
		panic(ErrNilMolecule)
	}
	if grid == nil {
		panic(ErrNilGrid)
	}
	n := mol.Len()
	m := grid.Len()
	A := mat.NewDense(m, n, nil)
	for p := 0; p < m; p++ {
		gp := grid.coords.RawRowView(p)
		for a := 0; a < n; a++ {
			at := mol.Coords.RawRowView(a)
			r := distRaw(gp, at)
			if r < minDistance {
				r = minDistance
			}
			A.Set(p, a, 1/r)
		}
	}
	//Normalize each column for conditioning.
	scale := make([]float64, n)
	col := make([]float64, m)
	for a := 0; a < n; a++ {
		mat.Col(col, a, A)
		scale[a] = floats.Norm(col, 2)
		if scale[a] > degenerateNorm {
			for p := 0; p < m; p++ {
				A.Set(p, a, A.At(p, a)/scale[a])
			}
		}
	}
	var ata mat.Dense
	ata.Mul(A.T(), A)
	H := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			H.SetSym(i, j, 2*ata.At(i, j))
		}
	}
	v := mat.NewVecDense(m, grid.Potentials())
	atv := mat.NewVecDense(n, nil)
	atv.MulVec(A.T(), v)
	f := make([]float64, n)
	for a := 0; a < n; a++ {
		f[a] = -2 * atv.AtVec(a)
		//Scale back so that the solution is in physical charge units.
		if scale[a] > degenerateNorm {
			f[a] /= scale[a]
		}
	}
	return H, f
}

//CoulombPotential returns the electrostatic potential, in Hartree/e, that
//the charges q placed on the atoms of mol generate at point (a raw 3-vector
//in Bohr).
func CoulombPotential(mol *Molecule, q []float64, point []float64) float64 {
	var esp float64
	for i := 0; i < mol.Len(); i++ {
		r := distRaw(point, mol.Coords.RawRowView(i))
		if r < minDistance {
			r = minDistance
		}
		esp += q[i] / r
	}
	return esp
}

func distRaw(a, b []float64) float64 {
	dx := a[0] - b[0]
	dy := a[1] - b[1]
	dz := a[2] - b[2]
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}
