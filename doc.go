/*
 * doc.go, part of goresp.
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

/*Package resp fits atomic partial charges to a reference electrostatic
potential. It obtains the charges that best reproduce, through the Coulomb
potential, an ESP sampled on a 3D grid, subject to linear equality
constraints for the total molecular charge and for chemical equivalence
between atoms.


	**goresp Capabilities**

    Reads XYZ geometry files and Gaussian-style cube files with ESP data,
	including gzip- and zstd-compressed cube files.

    Cleans up raw volumetric ESP data: it removes points too close to a
	nucleus, removes numerically divergent values and detects (and corrects)
	a flipped sign convention in the input potential.

    Detects symmetry-equivalent atoms from their distance environments, so
	chemically equivalent atoms can be forced to carry the same charge.

    Solves the resulting equality-constrained quadratic program in one
	direct KKT solve, with Tikhonov regularization, falling back to more
	permissive factorizations when the problem is numerically degenerate.

    Validates the fit (ESP RMSE, maximum error, dipole moment) against the
	reference grid.

Everything inside the library is in atomic units: length in Bohr, potential
in Hartree/e. The XYZ reader converts from the customary Angstroms at the
boundary; cube lattice data is taken to be in atomic units already.

The goresp developers kindly request that you cite the use of goresp
in any publication produced with it.
*/
package resp
