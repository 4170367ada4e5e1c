/*
 * qp_test.go, part of goresp.
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
	"testing"

	v3 "github.com/rmera/goresp/v3"
)

//syntheticGrid evaluates the potential that the given charges on mol
//generate at each of the points (a flat Bohr-coordinate slice) and returns
//the resulting grid, so a fit against it has an exact answer.
func syntheticGrid(mol *Molecule, q []float64, points []float64) *ESPGrid {
	cm, err := v3.NewMatrix(points)
	if err != nil {
		panic(err.Error())
	}
	pots := make([]float64, cm.NVecs())
	for i := range pots {
		pots[i] = CoulombPotential(mol, q, cm.RawRowView(i))
	}
	grid, err := NewESPGrid(cm, pots)
	if err != nil {
		panic(err.Error())
	}
	return grid
}

//a symmetric diatomic with a symmetric cage of sample points: the fit is
//exactly determined and the unregularized, unconstrained solve must recover
//the generating charges.
func TestUnconstrainedRecovery(Te *testing.T) {
	mol := makeMol([]string{"H", "H"}, []float64{-1, 0, 0, 1, 0, 0})
	truth := []float64{0.3, -0.3}
	grid := syntheticGrid(mol, truth, []float64{
		-4, 0, 0,
		4, 0, 0,
		0, 3, 0,
		0, -3, 0,
		0, 0, 3,
		0, 0, -3,
	})
	H, f := ESPMatrices(mol, grid)
	conf := DefaultQPConfig()
	conf.Regularization = 0
	sol := SolveQP(H, f, nil, conf)
	if !sol.Converged || sol.Iterations != 1 {
		Te.Errorf("unconstrained solve should converge in one shot: %+v", sol)
	}
	for i, want := range truth {
		if math.Abs(sol.Charges[i]-want) > 1e-8 {
			Te.Errorf("charge %d: expected %v, got %v", i, want, sol.Charges[i])
		}
	}
}

//a single charge with a charge-sum constraint is fully determined by the
//constraint, whatever the regularization.
func TestChargeSumConstraint(Te *testing.T) {
	mol := makeMol([]string{"H"}, []float64{0, 0, 0})
	grid := syntheticGrid(mol, []float64{1.0}, []float64{
		2, 0, 0,
		-2, 0, 0,
		0, 2, 0,
		0, 0, 2,
	})
	H, f := ESPMatrices(mol, grid)
	cons := new(Constraints)
	cons.AddChargeConstraint(1, 1.0)
	sol := SolveQP(H, f, cons, nil)
	if !sol.Converged {
		Te.Errorf("constrained solve did not converge, residual %e", sol.Residual)
	}
	if math.Abs(sol.Charges[0]-1.0) > 1e-10 {
		Te.Errorf("expected charge 1.0, got %v", sol.Charges[0])
	}
	if err := mol.SetCharges(sol.Charges); err != nil {
		Te.Fatal(err)
	}
	val := Validate(mol, grid)
	if val.RMSE > 1e-10 {
		Te.Errorf("exactly reproducible potential should fit with zero RMSE, got %e", val.RMSE)
	}
	fmt.Println("Single-charge fit quality:", val.Quality())
}

//the reported objective must come from the unregularized quadratic form. For
//the single unit charge with its 4 equidistant points the perfect fit lands
//at exactly -1: the quadratic form differs from the ESP mismatch |Aq-v|^2 by
//the constant -|v|^2, and the column normalization scales both to 1 here. A
//regularized surrogate would report -1 + lambda*|q|^2 instead, so the value
//must stay put when lambda changes.
func TestObjectiveUnregularized(Te *testing.T) {
	mol := makeMol([]string{"H"}, []float64{0, 0, 0})
	grid := syntheticGrid(mol, []float64{1.0}, []float64{
		2, 0, 0,
		-2, 0, 0,
		0, 2, 0,
		0, 0, 2,
	})
	H, f := ESPMatrices(mol, grid)
	cons := new(Constraints)
	cons.AddChargeConstraint(1, 1.0)
	conf := DefaultQPConfig()
	conf.Regularization = 0
	sol := SolveQP(H, f, cons, conf)
	if math.Abs(sol.Charges[0]-1.0) > 1e-6 {
		Te.Errorf("expected charge 1.0, got %v", sol.Charges[0])
	}
	if math.Abs(sol.Objective+1) > 1e-10 {
		Te.Errorf("expected objective -1 at the perfect fit, got %v", sol.Objective)
	}
	conf.Regularization = 0.1
	sol = SolveQP(H, f, cons, conf)
	if math.Abs(sol.Objective+1) > 1e-10 {
		Te.Errorf("objective leaked the regularization term: %v", sol.Objective)
	}
}

//charge-sum plus symmetry on a diatomic pin both variables exactly.
func TestSymmetryConstrainedFit(Te *testing.T) {
	mol := makeMol([]string{"O", "O"}, []float64{-1.1, 0, 0, 1.1, 0, 0})
	grid := syntheticGrid(mol, []float64{-0.2, -0.2}, []float64{
		-4, 0, 0,
		4, 0, 0,
		0, 3.5, 0,
		0, -3.5, 0,
	})
	H, f := ESPMatrices(mol, grid)
	cons := new(Constraints)
	cons.AddChargeConstraint(2, -0.4)
	cons.AddSymmetryConstraint(0, 1, 2)
	sol := SolveQP(H, f, cons, nil)
	if !sol.Converged {
		Te.Errorf("solve did not converge, residual %e", sol.Residual)
	}
	if math.Abs(sol.Charges[0]+0.2) > 1e-9 || math.Abs(sol.Charges[1]+0.2) > 1e-9 {
		Te.Errorf("expected (-0.2, -0.2), got %v", sol.Charges)
	}
}

//redundant constraint rows make the KKT matrix exactly singular; the solve
//must still come back with a usable, constraint-satisfying answer.
func TestRedundantConstraints(Te *testing.T) {
	mol := makeMol([]string{"H", "H"}, []float64{-1, 0, 0, 1, 0, 0})
	grid := syntheticGrid(mol, []float64{0.5, 0.5}, []float64{
		-4, 0, 0,
		4, 0, 0,
		0, 3, 0,
		0, -3, 0,
	})
	H, f := ESPMatrices(mol, grid)
	cons := new(Constraints)
	cons.AddChargeConstraint(2, 1.0)
	cons.AddChargeConstraint(2, 1.0) //same row twice
	cons.AddSymmetryConstraint(0, 1, 2)
	sol := SolveQP(H, f, cons, nil)
	for _, q := range sol.Charges {
		if math.IsNaN(q) || math.IsInf(q, 0) {
			Te.Fatalf("non-finite charges from a singular system: %v", sol.Charges)
		}
	}
	if !cons.Satisfied(sol.Charges, 1e-6) {
		Te.Errorf("redundant but consistent constraints not satisfied: %v", sol.Charges)
	}
}

//the full pipeline on the test files, as the command-line tool runs it.
func TestFitPipeline(Te *testing.T) {
	mol, err := XYZRead("test/water.xyz")
	if err != nil {
		Te.Fatal(err)
	}
	mol.SetTotalCharge(0)
	grid, rep, err := CubeRead("test/water_esp.cube")
	if err != nil {
		Te.Fatal(err)
	}
	if rep.Read != 8 || rep.Kept != 8 {
		Te.Errorf("expected all 8 samples kept, got %+v", rep)
	}
	H, f := ESPMatrices(mol, grid)
	cons := new(Constraints)
	cons.AddChargeConstraint(mol.Len(), 0)
	for _, class := range EquivalentAtoms(mol, 0) {
		for _, idx := range class[1:] {
			cons.AddSymmetryConstraint(class[0], idx, mol.Len())
		}
	}
	if cons.Len() != 2 {
		Te.Fatalf("water should yield a charge row plus one symmetry row, got %d", cons.Len())
	}
	sol := SolveQP(H, f, cons, nil)
	if !sol.Converged {
		Te.Errorf("water fit did not converge, residual %e", sol.Residual)
	}
	if s := sol.Charges[0] + sol.Charges[1] + sol.Charges[2]; math.Abs(s) > 1e-8 {
		Te.Errorf("charges do not sum to the total charge: %v", s)
	}
	if math.Abs(sol.Charges[1]-sol.Charges[2]) > 1e-8 {
		Te.Errorf("equivalent hydrogens got different charges: %v", sol.Charges)
	}
	if err := mol.SetCharges(sol.Charges); err != nil {
		Te.Fatal(err)
	}
	val := Validate(mol, grid)
	fmt.Printf("Water fit: charges %v, RMSE %e, quality %s\n", sol.Charges, val.RMSE, val.Quality())
	if err := ChargesWrite("test/water_charges.txt", mol, val); err != nil {
		Te.Error(err)
	}
}
