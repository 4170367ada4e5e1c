/*
 * validator.go, part of goresp.
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
)

//Validation contains the quality measures of a finished charge fit: how
//well the fitted charges reproduce the reference potential, and the
//molecular properties they imply. Potentials in Hartree/e, dipole in Debye.
type Validation struct {
	RMSE        float64
	MaxError    float64
	Dipole      float64
	TotalCharge float64
}

//Validate computes the quality measures of the current charges of mol
//against the reference grid.
func Validate(mol *Molecule, grid *ESPGrid) *Validation {
	if mol == nil {
		panic(ErrNilMolecule)
	}
	if grid == nil {
		panic(ErrNilGrid)
	}
	ret := new(Validation)
	q := mol.Charges()
	var sumsq float64
	for i := 0; i < grid.Len(); i++ {
		p := grid.coords.RawRowView(i)
		err := math.Abs(CoulombPotential(mol, q, p) - grid.potentials[i])
		sumsq += err * err
		if err > ret.MaxError {
			ret.MaxError = err
		}
	}
	if grid.Len() > 0 {
		ret.RMSE = math.Sqrt(sumsq / float64(grid.Len()))
	}
	ret.Dipole = mol.DipoleMoment()
	ret.TotalCharge = floats.Sum(q)
	return ret
}

//Quality classifies the fit from its RMSE, for quick human consumption.
func (V *Validation) Quality() string {
	switch {
	case V.RMSE < 0.01:
		return "EXCELLENT"
	case V.RMSE < 0.05:
		return "GOOD"
	case V.RMSE < 0.10:
		return "ACCEPTABLE"
	}
	return "POOR"
}
