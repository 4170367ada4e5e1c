/*
 * resp.go, part of goresp.
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

	v3 "github.com/rmera/goresp/v3"
)

/**Note: Some functions here panic instead of returning errors. This is because they are "fundamental"
 * functions. I considered that if something goes wrong here, the program is way-most likely wrong and should
 * crash. Most panics are related to using the function on a nil object or trying to access out-of-bounds
 * fields**/

//Atom contains the per-atom data except for the coordinates, which are kept
//in a matrix owned by the Molecule. The Charge field is the partial charge
//being solved for, in electrons.
type Atom struct {
	Symbol string
	Mass   float64
	Charge float64
	Index  int //Zero-based. Kept equal to the atom's position in the owning molecule.
}

//Copy returns a copy of the Atom object.
func (A *Atom) Copy() *Atom {
	if A == nil {
		panic("Attempted to copy a nil atom")
	}
	Newat := new(Atom)
	Newat.Symbol = A.Symbol
	Newat.Mass = A.Mass
	Newat.Charge = A.Charge
	Newat.Index = A.Index
	return Newat
}

//AtomicNumber returns the atomic number for the atom's element symbol, or 0
//if the element is not in the internal tables.
func (A *Atom) AtomicNumber() int {
	return symbolZ[A.Symbol]
}

//Molecule contains the atoms of a molecule and their coordinates, plus the
//externally-supplied total molecular charge. Coordinates are always in Bohr.
type Molecule struct {
	Atoms       []*Atom
	Coords      *v3.Matrix
	totalCharge float64
}

//NewMolecule makes a molecule with ats atoms and coords coordinates (Bohr),
//and returns it. It returns an error if one of the arguments is nil or if
//the number of coordinates doesn't match the number of atoms. The atom
//indexes are reset to match the current atom order.
func NewMolecule(ats []*Atom, coords *v3.Matrix) (*Molecule, error) {
	if ats == nil {
		return nil, CError{"goresp: nil atom slice given", []string{"NewMolecule"}}
	}
	if coords == nil {
		return nil, CError{"goresp: nil coordinates given", []string{"NewMolecule"}}
	}
	if len(ats) != coords.NVecs() {
		return nil, CError{fmt.Sprintf("goresp: %d atoms but %d coordinates", len(ats), coords.NVecs()), []string{"NewMolecule"}}
	}
	mol := new(Molecule)
	mol.Atoms = ats
	mol.Coords = coords
	mol.FillIndexes()
	return mol, nil
}

//FillIndexes sets the Index of each atom to its current position in the
//molecule.
func (M *Molecule) FillIndexes() {
	for i, at := range M.Atoms {
		at.Index = i
	}
}

//Len returns the number of atoms in the molecule.
func (M *Molecule) Len() int {
	return len(M.Atoms)
}

//Atom returns the Atom corresponding to the index i. Panics if out of range.
func (M *Molecule) Atom(i int) *Atom {
	if i < 0 || i >= M.Len() {
		panic(ErrAtomOutOfRange)
	}
	return M.Atoms[i]
}

//TotalCharge returns the total molecular charge, in electrons.
func (M *Molecule) TotalCharge() float64 {
	return M.totalCharge
}

//SetTotalCharge sets the total molecular charge to q electrons.
func (M *Molecule) SetTotalCharge(q float64) {
	M.totalCharge = q
}

//Charges returns a slice with the current partial charge of each atom.
func (M *Molecule) Charges() []float64 {
	q := make([]float64, M.Len())
	for i, at := range M.Atoms {
		q[i] = at.Charge
	}
	return q
}

//SetCharges sets the partial charge of every atom from q, in order. It
//returns an error if q doesn't have one value per atom.
func (M *Molecule) SetCharges(q []float64) error {
	if len(q) != M.Len() {
		return CError{fmt.Sprintf("goresp: %d charges given for %d atoms", len(q), M.Len()), []string{"SetCharges"}}
	}
	for i, val := range q {
		M.Atoms[i].Charge = val
	}
	return nil
}

//Masses returns a slice with the mass of each atom, and an error if any mass
//has not been assigned.
func (M *Molecule) Masses() ([]float64, error) {
	mass := make([]float64, M.Len())
	for i := 0; i < M.Len(); i++ {
		at := M.Atom(i)
		if at.Mass == 0 {
			return nil, CError{fmt.Sprintf("goresp: mass not obtained for atom %d (%s)", i, at.Symbol), []string{"Masses"}}
		}
		mass[i] = at.Mass
	}
	return mass, nil
}

//CenterOfMass returns the center of mass of the molecule as a 1-vector
//matrix, in Bohr. It is computed from the current coordinates, not stored.
func (M *Molecule) CenterOfMass() (*v3.Matrix, error) {
	mass, err := M.Masses()
	if err != nil {
		return nil, errDecorate(err, "CenterOfMass")
	}
	com := v3.Zeros(1)
	tmp := v3.Zeros(1)
	var totalmass float64
	for i := 0; i < M.Len(); i++ {
		tmp.Scale(mass[i], M.Coords.VecView(i))
		com.Add(com, tmp)
		totalmass += mass[i]
	}
	com.Scale(1/totalmass, com)
	return com, nil
}

//DipoleMoment returns the magnitude of the dipole moment generated by the
//current partial charges, in Debye. It is computed on the fly from the
//current atom state.
func (M *Molecule) DipoleMoment() float64 {
	var dx, dy, dz float64
	for i := 0; i < M.Len(); i++ {
		r := M.Coords.RawRowView(i)
		q := M.Atoms[i].Charge
		dx += q * r[0]
		dy += q * r[1]
		dz += q * r[2]
	}
	return math.Sqrt(dx*dx+dy*dy+dz*dz) * EBohr2Debye
}

/**Type ESPGrid**/

//ESPGrid contains a set of points in space with the reference electrostatic
//potential at each of them. Positions are in Bohr and potentials in
//Hartree/e. The point order is irrelevant to the fit, but it is kept stable
//so results are reproducible. An ESPGrid is never modified after creation.
type ESPGrid struct {
	coords     *v3.Matrix
	potentials []float64
}

//NewESPGrid makes an ESPGrid from a set of coordinates (Bohr) and the
//potential at each of them (Hartree/e). It returns an error if either
//argument is nil or their lengths don't match.
func NewESPGrid(coords *v3.Matrix, potentials []float64) (*ESPGrid, error) {
	if coords == nil || potentials == nil {
		return nil, CError{"goresp: nil coordinates or potentials given", []string{"NewESPGrid"}}
	}
	if coords.NVecs() != len(potentials) {
		return nil, CError{fmt.Sprintf("goresp: %d grid points but %d potentials", coords.NVecs(), len(potentials)), []string{"NewESPGrid"}}
	}
	return &ESPGrid{coords: coords, potentials: potentials}, nil
}

//Len returns the number of points in the grid.
func (G *ESPGrid) Len() int {
	return len(G.potentials)
}

//Point returns a view of the position of the ith grid point, and the
//potential at it. Panics if out of range.
func (G *ESPGrid) Point(i int) (*v3.Matrix, float64) {
	if i < 0 || i >= G.Len() {
		panic(ErrPointOutOfRange)
	}
	return G.coords.VecView(i), G.potentials[i]
}

//Positions returns the positions of all grid points. The returned matrix is
//the grid's own storage, so the caller must not modify it.
func (G *ESPGrid) Positions() *v3.Matrix {
	return G.coords
}

//Potentials returns the potential at every grid point, in order. The
//returned slice is the grid's own storage, so the caller must not modify it.
func (G *ESPGrid) Potentials() []float64 {
	return G.potentials
}

//MinPotential returns the smallest potential in the grid, or 0 for an empty
//grid.
func (G *ESPGrid) MinPotential() float64 {
	if G.Len() == 0 {
		return 0
	}
	min := G.potentials[0]
	for _, v := range G.potentials {
		if v < min {
			min = v
		}
	}
	return min
}

//MaxPotential returns the largest potential in the grid, or 0 for an empty
//grid.
func (G *ESPGrid) MaxPotential() float64 {
	if G.Len() == 0 {
		return 0
	}
	max := G.potentials[0]
	for _, v := range G.potentials {
		if v > max {
			max = v
		}
	}
	return max
}
