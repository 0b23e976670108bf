/*
 * materials.go, part of goferam.
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

//BTO is BaTiO3, with the parameters distributed with feram.
var BTO = Material{
	Name:            "BTO",
	MassAmu:         39.0,
	A0:              3.98597,
	ZStar:           10.33,
	B11:             126.731671475652,
	B12:             41.7582963902598,
	B44:             49.2408864348646,
	B1xx:            -185.347187551195,
	B1yy:            -3.28092949275457,
	B4yz:            -14.5501738943852,
	Pk1:             -267.98013991724,
	Pk2:             197.500718362573,
	Pk3:             830.199979293529,
	Pk4:             641.968099408642,
	PAlpha:          78.9866142426818,
	PGamma:          -115.484148812672,
	PKappa2:         8.53400622096412,
	J:               Vec7{-2.08403, -1.12904, 0.68946, -0.61134, 0.00000, 0.27690, 0.00000},
	EpsilonInf:      6.86915,
	AcousticMassAmu: 41.67,
}

//BST is the Ba(0.5)Sr(0.5)TiO3 solid solution in the virtual crystal
//approximation. The Ba/Sr ordering enters through ModulationConst.
var BST = Material{
	Name:            "BST",
	MassAmu:         40.9285,
	A0:              3.9435,
	ZStar:           9.807238756,
	B11:             129.0286059,
	B12:             39.00720516,
	B44:             45.26949109,
	B1xx:            -143.7185938,
	B1yy:            -1.375464746,
	B4yz:            -15.02208695,
	Pk1:             -166.56247,
	Pk2:             157.2518592,
	Pk3:             515.9414896,
	Pk4:             390.6570497,
	PAlpha:          50.68630712,
	PGamma:          -72.18357441,
	PKappa2:         9.4250031,
	J:               Vec7{-2.048250285, -1.472144446, 0.6396521198, -0.5891190367, 0.0, 0.2576732039, 0.0},
	EpsilonInf:      6.663371926,
	ModulationConst: -0.279,
	AcousticMassAmu: 41.6,
}
