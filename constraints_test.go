/*
 * constraints_test.go, part of goresp.
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
	"testing"
)

func TestChargeConstraint(Te *testing.T) {
	cons := new(Constraints)
	cons.AddChargeConstraint(3, 1.0)
	if cons.Len() != 1 {
		Te.Errorf("expected 1 constraint row, got %d", cons.Len())
	}
	A := cons.Matrix()
	for j := 0; j < 3; j++ {
		if A.At(0, j) != 1 {
			Te.Errorf("charge constraint row should be all ones, got %v at %d", A.At(0, j), j)
		}
	}
	if r := cons.Residual([]float64{0.5, 0.3, 0.2}); r > 1e-12 {
		Te.Errorf("exact charge distribution should have zero residual, got %e", r)
	}
	if !cons.Satisfied([]float64{0.5, 0.3, 0.2}, 1e-6) {
		Te.Error("exact charge distribution reported as unsatisfied")
	}
	if r := cons.Residual([]float64{1, 1, 1}); math.Abs(r-2) > 1e-12 {
		Te.Errorf("expected residual 2 for a total of 3 against a target of 1, got %e", r)
	}
}

func TestSymmetryConstraintChain(Te *testing.T) {
	cons := new(Constraints)
	//class {0, 2, 3}: first against each other member
	cons.AddSymmetryConstraint(0, 2, 4)
	cons.AddSymmetryConstraint(0, 3, 4)
	if cons.Len() != 2 {
		Te.Errorf("expected 2 rows for a 3-member class, got %d", cons.Len())
	}
	for _, b := range cons.Targets() {
		if b != 0 {
			Te.Errorf("symmetry constraint target should be zero, got %v", b)
		}
	}
	if !cons.Satisfied([]float64{0.2, -0.6, 0.2, 0.2}, 1e-12) {
		Te.Error("equal charges on the class should satisfy the chain")
	}
	if cons.Satisfied([]float64{0.2, -0.6, 0.3, 0.2}, 1e-6) {
		Te.Error("unequal charges on the class should not satisfy the chain")
	}
}

func TestEmptyConstraints(Te *testing.T) {
	cons := new(Constraints)
	if cons.Matrix() != nil {
		Te.Error("empty constraint set should have a nil matrix")
	}
	if r := cons.Residual([]float64{1, 2, 3}); r != 0 {
		Te.Errorf("empty constraint set should have zero residual, got %e", r)
	}
}
