/*
 * symmetry.go, part of goresp.
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
	"sort"

	v3 "github.com/rmera/goresp/v3"
)

//DefaultSymmetryTol is the default tolerance, in Bohr, for comparing atomic
//distance environments.
const DefaultSymmetryTol = 0.1

//EquivalentAtoms partitions the atoms of mol into classes of
//symmetry-equivalent atoms. Two atoms are considered equivalent if they are
//the same element and the sorted distances from each of them to every other
//atom in the molecule match within tol (if tol<=0, DefaultSymmetryTol is
//used). Only classes with 2 or more members are returned; classes are
//ordered by their lowest member index and each class is in ascending index
//order. The test is a necessary-but-not-sufficient invariant: it can, on
//rare degenerate geometries, group atoms that a full graph analysis would
//separate, but it is deterministic and cheap.
func EquivalentAtoms(mol *Molecule, tol float64) [][]int {
	if mol == nil {
		panic(ErrNilMolecule)
	}
	if tol <= 0 {
		tol = DefaultSymmetryTol
	}
	n := mol.Len()
	assigned := make([]bool, n)
	classes := make([][]int, 0, 2)
	tmp := v3.Zeros(1)
	for i := 0; i < n; i++ {
		if assigned[i] {
			continue
		}
		class := []int{i}
		assigned[i] = true
		for j := i + 1; j < n; j++ {
			if assigned[j] || mol.Atom(i).Symbol != mol.Atom(j).Symbol {
				continue
			}
			if equivalentEnvironment(mol, i, j, tol, tmp) {
				class = append(class, j)
				assigned[j] = true
			}
		}
		if len(class) > 1 {
			classes = append(classes, class)
		}
	}
	return classes
}

//equivalentEnvironment compares the sorted distances from atoms i and j to
//every atom in the molecule other than i and j themselves.
func equivalentEnvironment(mol *Molecule, i, j int, tol float64, tmp *v3.Matrix) bool {
	n := mol.Len()
	di := make([]float64, 0, n-2)
	dj := make([]float64, 0, n-2)
	vi := mol.Coords.VecView(i)
	vj := mol.Coords.VecView(j)
	for k := 0; k < n; k++ {
		if k == i || k == j {
			continue
		}
		vk := mol.Coords.VecView(k)
		di = append(di, dist(vi, vk, tmp))
		dj = append(dj, dist(vj, vk, tmp))
	}
	sort.Float64s(di)
	sort.Float64s(dj)
	for k := range di {
		if diff := di[k] - dj[k]; diff > tol || diff < -tol {
			return false
		}
	}
	return true
}

func dist(r, t, tmp *v3.Matrix) float64 {
	tmp.Sub(r, t)
	return tmp.Norm(2)
}
