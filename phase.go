/*
 * phase.go, part of goferam.
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

import "math"

//The crystal phases Phase can tell apart.
const (
	Cubic        = "C"   //(0,0,0)
	Tetragonal   = "T"   //(a,0,0)
	Orthorhombic = "O"   //(a,a,0)
	Rhombohedral = "R"   //(a,a,a)
	MonoclinicA  = "Ma"  //(a,a,b), a<b
	MonoclinicB  = "Mb"  //(a,a,b), a>b
	MonoclinicC  = "Mc"  //(a,b,0)
	Triclinic    = "Tri" //(a,b,c)
	UnknownPhase = "???"
)

//DefaultNoise is the polarization, in micro C/cm^2, below which a component is
//taken as zero, and the difference below which two components are taken as equal.
const DefaultNoise = 0.5

//Phase classifies a polarization vector by the symmetry of its components.
//Components (in absolute value) smaller than noise count as zero, and
//components closer than noise to each other count as equal.
func Phase(p Vec3, noise float64) string {
	a := Vec3{math.Abs(p[0]), math.Abs(p[1]), math.Abs(p[2])}
	nonzero, zero := 0, 0
	for _, v := range a {
		switch {
		case v > noise:
			nonzero++
		case v < noise:
			zero++
		}
	}
	//a component right at the threshold is neither.
	if nonzero+zero != 3 {
		return UnknownPhase
	}
	eq := func(x, y float64) bool { return math.Abs(x-y) < noise }
	switch nonzero {
	case 0:
		return Cubic
	case 1:
		return Tetragonal
	case 2:
		var x, y float64
		switch {
		case a[0] < noise:
			x, y = a[1], a[2]
		case a[1] < noise:
			x, y = a[0], a[2]
		default:
			x, y = a[0], a[1]
		}
		if eq(x, y) {
			return Orthorhombic
		}
		return MonoclinicC
	}
	//three non-zero components. Find a pair of equal ones, if any, and
	//compare it with the odd one.
	if eq(a[0], a[1]) && eq(a[0], a[2]) {
		return Rhombohedral
	}
	for _, c := range [3][3]int{{0, 1, 2}, {0, 2, 1}, {2, 1, 0}} {
		pair, odd := a[c[0]], a[c[2]]
		if !eq(a[c[0]], a[c[1]]) || eq(pair, odd) {
			continue
		}
		if pair < odd {
			return MonoclinicA
		}
		return MonoclinicB
	}
	return Triclinic
}
