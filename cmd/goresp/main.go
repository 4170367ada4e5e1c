/*
 * main.go, part of goresp.
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

//goresp fits atomic partial charges to an ESP sampled on a grid. It takes
//an XYZ geometry and a cube file with the reference potential, and writes
//the fitted charges to a plain-text file.
package main

import (
	"flag"
	"fmt"
	"os"

	resp "github.com/rmera/goresp"
)

func main() {
	output := flag.String("o", "charges.txt", "output file for the fitted charges")
	totalCharge := flag.Float64("q", 0, "total molecular charge")
	tolerance := flag.Float64("t", 1e-6, "convergence tolerance for the constraint residual")
	lambda := flag.Float64("l", 0.0005, "regularization (L2 shrinkage) strength")
	symmetry := flag.Bool("s", true, "constrain symmetry-equivalent atoms to equal charges")
	verbose := flag.Bool("v", false, "verbose output")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] geometry.xyz esp.cube\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Cube files compressed with gzip (.gz) or zstd (.zst) are read directly.\n\nFlags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 2 {
		flag.Usage()
		os.Exit(1)
	}
	xyzname := flag.Arg(0)
	cubename := flag.Arg(1)

	mol, err := resp.XYZRead(xyzname)
	if err != nil {
		die(err)
	}
	mol.SetTotalCharge(*totalCharge)
	fmt.Printf("Molecule: %s (%d atoms, total charge %g)\n", xyzname, mol.Len(), *totalCharge)

	grid, report, err := resp.CubeRead(cubename)
	if err != nil {
		die(err)
	}
	fmt.Printf("ESP grid: %s (%d points kept of %d read)\n", cubename, report.Kept, report.Read)
	if *verbose {
		fmt.Printf("  Filtered near a nucleus: %d\n", report.NearNucleus)
		fmt.Printf("  Filtered extreme values: %d\n", report.Extreme)
		fmt.Printf("  ESP range: [%g, %g] a.u.\n", grid.MinPotential(), grid.MaxPotential())
	}
	if report.SignFlipped {
		fmt.Println("  Input potential had a flipped sign convention; corrected.")
	}

	H, f := resp.ESPMatrices(mol, grid)
	cons := new(resp.Constraints)
	cons.AddChargeConstraint(mol.Len(), *totalCharge)
	if *symmetry {
		classes := resp.EquivalentAtoms(mol, resp.DefaultSymmetryTol)
		for _, class := range classes {
			if *verbose {
				fmt.Print("Equivalent atoms:")
				for _, idx := range class {
					fmt.Printf(" %s%d", mol.Atom(idx).Symbol, idx+1)
				}
				fmt.Println()
			}
			for _, idx := range class[1:] {
				cons.AddSymmetryConstraint(class[0], idx, mol.Len())
			}
		}
	}

	conf := resp.DefaultQPConfig()
	conf.Tolerance = *tolerance
	conf.Regularization = *lambda
	conf.Verbose = *verbose
	sol := resp.SolveQP(H, f, cons, conf)
	if !sol.Converged {
		fmt.Fprintf(os.Stderr, "Warning: fit did not converge (constraint residual %e)\n", sol.Residual)
	}
	if err := mol.SetCharges(sol.Charges); err != nil {
		die(err)
	}

	fmt.Println("\nFitted charges:")
	var sum float64
	for i := 0; i < mol.Len(); i++ {
		at := mol.Atom(i)
		fmt.Printf("  %3s%-3d %+8.4f e\n", at.Symbol, i+1, at.Charge)
		sum += at.Charge
	}
	fmt.Printf("  Sum:   %+8.4f e\n", sum)

	val := resp.Validate(mol, grid)
	fmt.Printf("\nESP RMSE:      %g a.u.\n", val.RMSE)
	fmt.Printf("ESP max error: %g a.u.\n", val.MaxError)
	fmt.Printf("Dipole moment: %g D\n", val.Dipole)
	fmt.Printf("Quality:       %s\n", val.Quality())

	if err := resp.ChargesWrite(*output, mol, val); err != nil {
		die(err)
	}
	fmt.Printf("\nCharges written to %s\n", *output)
}

func die(err error) {
	fmt.Fprintf(os.Stderr, "Error: %s\n", err.Error())
	os.Exit(1)
}
