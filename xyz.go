/*
 * xyz.go, part of goresp.
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
	"bufio"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	v3 "github.com/rmera/goresp/v3"
)

//XYZRead reads an XYZ coordinate file and returns the molecule. XYZ files
//are in Angstroms, so the coordinates are converted to Bohr here; everything
//downstream of this function works in atomic units. The molecule's total
//charge is left at 0 for the caller to set.
func XYZRead(xyzname string) (*Molecule, error) {
	xyzfile, err := os.Open(xyzname)
	if err != nil {
		return nil, CError{fmt.Sprintf("goresp: unable to open XYZ file: %s", err.Error()), []string{"XYZRead"}}
	}
	defer xyzfile.Close()
	xyz := bufio.NewReader(xyzfile)
	line, err := xyz.ReadString('\n')
	if err != nil {
		return nil, CError{"goresp: ill-formatted XYZ file", []string{"XYZRead"}}
	}
	natoms, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil || natoms <= 0 {
		return nil, CError{"goresp: ill-formatted XYZ file", []string{"XYZRead"}}
	}
	if _, err = xyz.ReadString('\n'); err != nil { //comment line
		return nil, CError{"goresp: ill-formatted XYZ file", []string{"XYZRead"}}
	}
	atoms := make([]*Atom, natoms)
	coords := make([]float64, natoms*3)
	for i := 0; i < natoms; i++ {
		line, err = xyz.ReadString('\n')
		if err != nil && line == "" {
			return nil, CError{fmt.Sprintf("goresp: expected %d atoms but file %s ends at %d", natoms, xyzname, i), []string{"XYZRead"}}
		}
		fields := strings.Fields(line)
		if len(fields) < 4 {
			return nil, CError{fmt.Sprintf("goresp: line %d of file %s ill-formed", i+3, xyzname), []string{"XYZRead"}}
		}
		at := new(Atom)
		at.Symbol = fields[0]
		at.Mass = symbolMass[at.Symbol]
		if at.AtomicNumber() == 0 {
			log.Printf("goresp: unknown element %q in %s, mass and atomic number left unset", at.Symbol, xyzname)
		}
		atoms[i] = at
		for j := 0; j < 3; j++ {
			val, err := strconv.ParseFloat(fields[j+1], 64)
			if err != nil {
				return nil, CError{fmt.Sprintf("goresp: line %d of file %s ill-formed: %s", i+3, xyzname, err.Error()), []string{"XYZRead"}}
			}
			coords[i*3+j] = val * A2Bohr
		}
	}
	cm, err := v3.NewMatrix(coords)
	if err != nil {
		return nil, errDecorate(err, "XYZRead")
	}
	mol, err := NewMolecule(atoms, cm)
	if err != nil {
		return nil, errDecorate(err, "XYZRead")
	}
	return mol, nil
}

//ChargesWrite writes the fitted charges of mol to the file name, one atom
//per line, with a commented header carrying the given validation summary
//(which may be nil).
func ChargesWrite(name string, mol *Molecule, val *Validation) error {
	out, err := os.Create(name)
	if err != nil {
		return CError{fmt.Sprintf("goresp: unable to create charges file: %s", err.Error()), []string{"ChargesWrite"}}
	}
	defer out.Close()
	fmt.Fprintf(out, "# Atomic partial charges fitted to the ESP\n")
	fmt.Fprintf(out, "# Total charge: %g\n", mol.TotalCharge())
	if val != nil {
		fmt.Fprintf(out, "# ESP RMSE: %g a.u.\n", val.RMSE)
		fmt.Fprintf(out, "# Dipole moment: %g D\n", val.Dipole)
	}
	fmt.Fprintf(out, "#\n# Atom  Element  Charge(e)\n")
	for i := 0; i < mol.Len(); i++ {
		at := mol.Atom(i)
		_, err = fmt.Fprintf(out, "%5d  %-7s  %12.6f\n", i+1, at.Symbol, at.Charge)
		if err != nil {
			return CError{fmt.Sprintf("goresp: %s", err.Error()), []string{"ChargesWrite"}}
		}
	}
	return nil
}
