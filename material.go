/*
 * material.go, part of goferam.
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
	"sort"
	"strings"
)

//Material holds the parameters of the effective Hamiltonian of a compound.
//Energies are in eV, lengths in Angstrom and masses in atomic mass units.
//Materials are values: they are never modified after creation.
type Material struct {
	Name            string  `feram:"-" yaml:"name"`
	MassAmu         float64 `feram:"mass_amu" yaml:"mass_amu"`
	A0              float64 `feram:"a0" yaml:"a0"`
	ZStar           float64 `feram:"Z_star" yaml:"Z_star"`
	B11             float64 `feram:"B11" yaml:"B11"`
	B12             float64 `feram:"B12" yaml:"B12"`
	B44             float64 `feram:"B44" yaml:"B44"`
	B1xx            float64 `feram:"B1xx" yaml:"B1xx"`
	B1yy            float64 `feram:"B1yy" yaml:"B1yy"`
	B4yz            float64 `feram:"B4yz" yaml:"B4yz"`
	Pk1             float64 `feram:"P_k1" yaml:"P_k1"`
	Pk2             float64 `feram:"P_k2" yaml:"P_k2"`
	Pk3             float64 `feram:"P_k3" yaml:"P_k3"`
	Pk4             float64 `feram:"P_k4" yaml:"P_k4"`
	PAlpha          float64 `feram:"P_alpha" yaml:"P_alpha"`
	PGamma          float64 `feram:"P_gamma" yaml:"P_gamma"`
	PKappa2         float64 `feram:"P_kappa2" yaml:"P_kappa2"`
	J               Vec7    `feram:"j" yaml:"j"`
	EpsilonInf      float64 `feram:"epsilon_inf" yaml:"epsilon_inf"`
	ModulationConst float64 `feram:"modulation_constant,omitempty" yaml:"modulation_constant"`
	AcousticMassAmu float64 `feram:"acoustic_mass_amu,omitempty" yaml:"acoustic_mass_amu"`
}

//PolarizationFactor converts an average dipole displacement in Angstrom to a
//polarization in micro C/cm^2: 1.6e3 * Z* / a0^3.
func (M Material) PolarizationFactor() float64 {
	return 1.6e3 * M.ZStar / (M.A0 * M.A0 * M.A0)
}

//Polarization returns the polarization, in micro C/cm^2, that corresponds to
//the average displacement u.
func (M Material) Polarization(u Vec3) Vec3 {
	return u.Scale(M.PolarizationFactor())
}

var materials = map[string]Material{
	"bto": BTO,
	"bst": BST,
}

//MaterialByName returns the preset with the given name. The lookup ignores case.
func MaterialByName(name string) (Material, error) {
	m, ok := materials[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Material{}, newError(UnknownMatter+": "+name+" (known: "+strings.Join(MaterialNames(), ", ")+")", "", "MaterialByName")
	}
	return m, nil
}

//MaterialNames returns the names of the presets, sorted.
func MaterialNames() []string {
	ret := make([]string, 0, len(materials))
	for k := range materials {
		ret = append(ret, k)
	}
	sort.Strings(ret)
	return ret
}
