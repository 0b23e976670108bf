/*
 * vec.go, part of goferam.
 *
 *
 * Copyright 2024 The goferam Authors
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
 *
 */

package feram

import (
	"strconv"
	"strings"

	"gonum.org/v1/gonum/floats"
)

//Vec3 is a 3-component vector, used for fields, strains and dipole displacements.
type Vec3 [3]float64

//Int3 is a lattice size or a lattice coordinate.
type Int3 [3]int

//Vec7 holds the 7 short-range inter-site coupling constants (j) of a material.
type Vec7 [7]float64

func (V Vec3) String() string { return joinFloats(V[:]) }

func (V Vec7) String() string { return joinFloats(V[:]) }

func (I Int3) String() string {
	return strconv.Itoa(I[0]) + " " + strconv.Itoa(I[1]) + " " + strconv.Itoa(I[2])
}

//Norm returns the euclidean norm of the vector.
func (V Vec3) Norm() float64 {
	return floats.Norm(V[:], 2)
}

//Scale returns the vector multiplied by f.
func (V Vec3) Scale(f float64) Vec3 {
	return Vec3{V[0] * f, V[1] * f, V[2] * f}
}

//Cells returns the number of cells in a lattice of size I.
func (I Int3) Cells() int {
	return I[0] * I[1] * I[2]
}

//formatFloat gives the shortest representation that reads back to the same float.
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func joinFloats(fs []float64) string {
	s := make([]string, len(fs))
	for i, v := range fs {
		s[i] = formatFloat(v)
	}
	return strings.Join(s, " ")
}
