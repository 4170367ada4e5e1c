/*
 * v3_test.go, part of goresp.
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

package v3

import (
	"math"
	"testing"
)

func TestNewMatrix(Te *testing.T) {
	_, err := NewMatrix([]float64{1, 2, 3, 4})
	if err == nil {
		Te.Error("NewMatrix accepted a slice of length 4")
	}
	A, err := NewMatrix([]float64{1, 0, 0, 0, 2, 0})
	if err != nil {
		Te.Fatal(err)
	}
	if A.NVecs() != 2 {
		Te.Errorf("Wrong number of vectors: %d", A.NVecs())
	}
}

func TestVecViewSub(Te *testing.T) {
	A, _ := NewMatrix([]float64{1, 0, 0, 0, 2, 0})
	d := Zeros(1)
	d.Sub(A.VecView(0), A.VecView(1))
	if n := d.Norm(2); math.Abs(n-math.Sqrt(5)) > 1e-12 {
		Te.Errorf("Wrong distance between vectors: %f", n)
	}
}

func TestSomeVecs(Te *testing.T) {
	A, _ := NewMatrix([]float64{1, 0, 0, 0, 2, 0, 0, 0, 3})
	B := Zeros(2)
	B.SomeVecs(A, []int{2, 0})
	if B.At(0, 2) != 3 || B.At(1, 0) != 1 {
		Te.Error("SomeVecs copied the wrong vectors")
	}
}
