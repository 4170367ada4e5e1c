/*
 * constraints.go, part of goresp.
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
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

//Constraints holds a dense linear equality system A*q = b over the atomic
//charges. Rows are only ever appended. Redundant rows (as produced by
//overlapping symmetry classes) are legal; no rank checking is performed
//here, the solver is expected to cope with them.
type Constraints struct {
	rows    [][]float64
	targets []float64
}

//AddChargeConstraint appends the row constraining the sum of all natoms
//charges to total.
func (C *Constraints) AddChargeConstraint(natoms int, total float64) {
	row := make([]float64, natoms)
	for i := range row {
		row[i] = 1
	}
	C.rows = append(C.rows, row)
	C.targets = append(C.targets, total)
}

//AddSymmetryConstraint appends the row constraining the charges of atoms i
//and j to be equal. Panics if i or j is out of range. For a class of k
//equivalent atoms, the caller is expected to add k-1 such rows, each pairing
//the first member with another one.
func (C *Constraints) AddSymmetryConstraint(i, j, natoms int) {
	if i < 0 || j < 0 || i >= natoms || j >= natoms {
		panic(ErrAtomOutOfRange)
	}
	row := make([]float64, natoms)
	row[i] = 1
	row[j] = -1
	C.rows = append(C.rows, row)
	C.targets = append(C.targets, 0)
}

//Len returns the number of constraint rows.
func (C *Constraints) Len() int {
	return len(C.rows)
}

//Targets returns the right-hand side b of the constraint system.
func (C *Constraints) Targets() []float64 {
	return C.targets
}

//Matrix returns the constraint matrix A as a dense gonum matrix, or nil if
//no row has been added.
func (C *Constraints) Matrix() *mat.Dense {
	m := C.Len()
	if m == 0 {
		return nil
	}
	n := len(C.rows[0])
	A := mat.NewDense(m, n, nil)
	for i, row := range C.rows {
		A.SetRow(i, row)
	}
	return A
}

//Residual returns the Euclidean norm of A*q - b, or 0 if there are no rows.
//Panics if q doesn't match the constraint columns.
func (C *Constraints) Residual(q []float64) float64 {
	if C.Len() == 0 {
		return 0
	}
	res := make([]float64, C.Len())
	for i, row := range C.rows {
		if len(row) != len(q) {
			panic(ErrShapeMismatch)
		}
		res[i] = floats.Dot(row, q) - C.targets[i]
	}
	return floats.Norm(res, 2)
}

//Satisfied returns whether the charges q satisfy every constraint row within
//tol. It is trivially true when no row has been added.
func (C *Constraints) Satisfied(q []float64, tol float64) bool {
	return C.Residual(q) < tol
}
