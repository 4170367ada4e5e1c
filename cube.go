/*
 * cube.go, part of goresp.
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
	"compress/gzip"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
	v3 "github.com/rmera/goresp/v3"
	"gonum.org/v1/gonum/stat"
)

//The ingestion heuristics. All in atomic units.
const (
	nearNucleusCutoff = 1.5 //points closer than this to a nucleus diverge
	innerRegion       = 2.0 //wider ceiling applies within this distance of a nucleus
	innerCeiling      = 50.0
	outerCeiling      = 20.0
	shellInner        = 2.0 //the "shell" region sampled for the sign-convention check
	shellOuter        = 5.0
	shellCap          = 5.0 //shell samples above this magnitude are not representative
	shellMinSamples   = 100
	shellMeanFlip     = 0.001 //a mean shell potential above this triggers the sign flip
)

//CubeLattice is raw volumetric potential data on a regular 3D lattice, plus
//the nuclei it was computed around. Everything is in atomic units: positions
//and steps in Bohr, values in Hartree/e; no unit conversion is applied to
//any of it (unlike the XYZ reader, which converts at the boundary). Values
//run in scan order with the first axis outermost and the third innermost.
type CubeLattice struct {
	Origin []float64    //3 components
	Step   [3][]float64 //the three lattice step vectors, 3 components each
	N      [3]int       //points along each axis
	Values []float64
	Nuclei *v3.Matrix //nuclear positions
	Z      []int      //atomic numbers, parallel to Nuclei
}

//GridReport carries the filtering diagnostics of an ingestion run.
type GridReport struct {
	Read        int //samples consumed from the lattice
	NearNucleus int //discarded for being too close to a nucleus
	Extreme     int //discarded for an out-of-range potential
	Kept        int
	SignFlipped bool //whether the sign convention of the input was corrected
}

//CubeRead reads a Gaussian-style cube file with ESP data and returns the
//cleaned-up grid (see NormalizeGrid) along with the filtering diagnostics.
//Files ending in .gz or .zst are decompressed on the fly. The lattice data
//is taken to be in atomic units already.
func CubeRead(name string) (*ESPGrid, *GridReport, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, nil, CError{fmt.Sprintf("goresp: unable to open cube file: %s", err.Error()), []string{"CubeRead"}}
	}
	defer f.Close()
	r, err := cubeStream(name, f)
	if err != nil {
		return nil, nil, errDecorate(err, "CubeRead")
	}
	lat, err := parseCube(bufio.NewReader(r))
	if err != nil {
		return nil, nil, errDecorate(err, "CubeRead")
	}
	grid, rep, err := NormalizeGrid(lat)
	if err != nil {
		return nil, nil, errDecorate(err, "CubeRead")
	}
	return grid, rep, nil
}

//cubeStream wraps f in the decompressor matching the file name, if any.
func cubeStream(name string, f *os.File) (io.Reader, error) {
	switch {
	case strings.HasSuffix(name, ".zst"):
		d, err := zstd.NewReader(f)
		if err != nil {
			return nil, CError{fmt.Sprintf("goresp: unable to open zstd stream: %s", err.Error()), []string{"cubeStream"}}
		}
		return d, nil
	case strings.HasSuffix(name, ".gz"):
		d, err := gzip.NewReader(f)
		if err != nil {
			return nil, CError{fmt.Sprintf("goresp: unable to open gzip stream: %s", err.Error()), []string{"cubeStream"}}
		}
		return d, nil
	}
	return f, nil
}

//parseCube reads the cube header (two comment lines; atom count and origin;
//three lattice vectors; one line per atom) and the flat value list.
func parseCube(r *bufio.Reader) (*CubeLattice, error) {
	ill := func(what string, err error) error {
		return CError{fmt.Sprintf("goresp: ill-formatted cube %s: %v", what, err), []string{"parseCube"}}
	}
	for i := 0; i < 2; i++ {
		if _, err := r.ReadString('\n'); err != nil {
			return nil, ill("comment", err)
		}
	}
	lat := new(CubeLattice)
	lat.Origin = make([]float64, 3)
	var natoms int
	_, err := fmt.Fscan(r, &natoms, &lat.Origin[0], &lat.Origin[1], &lat.Origin[2])
	if err != nil {
		return nil, ill("origin line", err)
	}
	if natoms < 0 { //cube convention for files that carry extra per-point data
		natoms = -natoms
	}
	if natoms == 0 {
		return nil, CError{"goresp: cube file carries no atoms, cannot filter the grid", []string{"parseCube"}}
	}
	for i := 0; i < 3; i++ {
		lat.Step[i] = make([]float64, 3)
		_, err = fmt.Fscan(r, &lat.N[i], &lat.Step[i][0], &lat.Step[i][1], &lat.Step[i][2])
		if err != nil {
			return nil, ill("lattice vector", err)
		}
	}
	nuclei := make([]float64, 0, natoms*3)
	lat.Z = make([]int, natoms)
	for i := 0; i < natoms; i++ {
		var nucharge, x, y, z float64
		_, err = fmt.Fscan(r, &lat.Z[i], &nucharge, &x, &y, &z)
		if err != nil {
			return nil, ill("atom line", err)
		}
		nuclei = append(nuclei, x, y, z)
	}
	lat.Nuclei, err = v3.NewMatrix(nuclei)
	if err != nil {
		return nil, errDecorate(err, "parseCube")
	}
	lat.Values = make([]float64, 0, lat.N[0]*lat.N[1]*lat.N[2])
	for {
		var val float64
		_, err = fmt.Fscan(r, &val)
		if err != nil {
			break
		}
		lat.Values = append(lat.Values, val)
	}
	return lat, nil
}

//NormalizeGrid turns raw lattice data into a clean ESPGrid. A sample is
//discarded if it lies within 1.5 Bohr of a nucleus, or if its magnitude
//exceeds 50 within 2 Bohr of a nucleus or 20 beyond that. Before the
//filtering pass, if any nucleus has atomic number >= 6 the mean potential
//over the shell 2-5 Bohr from the nearest nucleus (samples below 5 in
//magnitude only) is checked: a clearly positive mean over at least 100
//samples indicates a flipped sign convention in the upstream tool, and
//every retained value is negated. It fails if the lattice carries no
//values, or if no sample survives the filters.
func NormalizeGrid(lat *CubeLattice) (*ESPGrid, *GridReport, error) {
	if lat == nil || len(lat.Values) == 0 {
		return nil, nil, CError{"goresp: no ESP values read from lattice", []string{"NormalizeGrid"}}
	}
	total := lat.N[0] * lat.N[1] * lat.N[2]
	if len(lat.Values) < total {
		total = len(lat.Values)
	}
	rep := new(GridReport)
	rep.Read = total
	positions := make([]float64, 0, total*3)
	nearest := make([]float64, 0, total)
	idx := 0
scan:
	for i := 0; i < lat.N[0]; i++ {
		for j := 0; j < lat.N[1]; j++ {
			for k := 0; k < lat.N[2]; k++ {
				if idx >= total {
					break scan
				}
				x := lat.Origin[0] + float64(i)*lat.Step[0][0] + float64(j)*lat.Step[1][0] + float64(k)*lat.Step[2][0]
				y := lat.Origin[1] + float64(i)*lat.Step[0][1] + float64(j)*lat.Step[1][1] + float64(k)*lat.Step[2][1]
				z := lat.Origin[2] + float64(i)*lat.Step[0][2] + float64(j)*lat.Step[1][2] + float64(k)*lat.Step[2][2]
				positions = append(positions, x, y, z)
				nearest = append(nearest, nearestNucleus(lat.Nuclei, x, y, z))
				idx++
			}
		}
	}
	flip := flippedSign(lat, nearest)
	rep.SignFlipped = flip
	coords := make([]float64, 0, total*3)
	pots := make([]float64, 0, total)
	for p := 0; p < idx; p++ {
		d := nearest[p]
		if d < nearNucleusCutoff {
			rep.NearNucleus++
			continue
		}
		val := lat.Values[p]
		ceiling := outerCeiling
		if d < innerRegion {
			ceiling = innerCeiling
		}
		if math.Abs(val) > ceiling {
			rep.Extreme++
			continue
		}
		if flip {
			val = -val
		}
		coords = append(coords, positions[p*3:p*3+3]...)
		pots = append(pots, val)
	}
	if len(pots) == 0 {
		return nil, nil, CError{"goresp: no valid ESP points after filtering", []string{"NormalizeGrid"}}
	}
	rep.Kept = len(pots)
	cm, err := v3.NewMatrix(coords)
	if err != nil {
		return nil, nil, errDecorate(err, "NormalizeGrid")
	}
	grid, err := NewESPGrid(cm, pots)
	if err != nil {
		return nil, nil, errDecorate(err, "NormalizeGrid")
	}
	return grid, rep, nil
}

//flippedSign decides, once and globally, whether the sign convention of the
//input potential is inverted. Electron-rich molecules (any nucleus with
//Z >= 6) should show a negative mean potential in the 2-5 Bohr shell around
//the nuclei; a clearly positive mean there is the fingerprint of a flipped
//convention in some upstream potential-generation tools.
func flippedSign(lat *CubeLattice, nearest []float64) bool {
	electronRich := false
	for _, z := range lat.Z {
		if z >= 6 {
			electronRich = true
			break
		}
	}
	if !electronRich {
		return false
	}
	shell := make([]float64, 0, len(nearest))
	for p, d := range nearest {
		v := lat.Values[p]
		if d >= shellInner && d <= shellOuter && math.Abs(v) < shellCap {
			shell = append(shell, v)
		}
	}
	if len(shell) < shellMinSamples {
		return false
	}
	return stat.Mean(shell, nil) > shellMeanFlip
}

func nearestNucleus(nuclei *v3.Matrix, x, y, z float64) float64 {
	best := math.MaxFloat64
	for i := 0; i < nuclei.NVecs(); i++ {
		n := nuclei.RawRowView(i)
		dx := x - n[0]
		dy := y - n[1]
		dz := z - n[2]
		if d := math.Sqrt(dx*dx + dy*dy + dz*dz); d < best {
			best = d
		}
	}
	return best
}
