/*
 * conversion.go, part of goresp.
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

//This provides useful conversion factors. Everything inside the library is
//kept in atomic units (length in Bohr, potential in Hartree/e); these
//constants are for converting at the boundaries.

//Conversions
const (
	A2Bohr      = 1.889725989
	Bohr2A      = 1 / 1.889725989
	EBohr2Debye = 2.541746473 //dipole moment, e*Bohr to Debye
)
