/*
 * feramconfig.go, part of goferam.
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
	"fmt"
	"os"
	"strings"
)

//FeramConfig is a complete simulation input: the merged settings and the material.
type FeramConfig struct {
	Setup    Settings
	Material Material
}

//NewFeramConfig merges the setups and pairs them with the material.
func NewFeramConfig(material Material, setups ...Setup) *FeramConfig {
	return &FeramConfig{Setup: MergeSetups(setups...), Material: material}
}

//Clone returns a copy of the configuration that shares nothing with the original.
func (F *FeramConfig) Clone() *FeramConfig {
	return &FeramConfig{Setup: F.Setup.Clone(), Material: F.Material}
}

//Generate renders the settings file read by feram. There is one block
//per section, each with a "# section" header and one "key = value" line per
//parameter, followed by a blank line.
func (F *FeramConfig) Generate() string {
	var b strings.Builder
	b.WriteString("# setup\n")
	for _, k := range F.Setup.keys {
		fmt.Fprintf(&b, "%s = %s\n", k, formatValue(F.Setup.vals[k]))
	}
	b.WriteString("\n# material\n")
	for _, f := range fields(F.Material) {
		fmt.Fprintf(&b, "%s = %s\n", f.key, formatValue(f.value))
	}
	b.WriteString("\n")
	return b.String()
}

//WriteFile writes the settings file to path.
func (F *FeramConfig) WriteFile(path string) error {
	if err := os.WriteFile(path, []byte(F.Generate()), 0644); err != nil {
		return newError(err.Error(), path, "FeramConfig.WriteFile")
	}
	return nil
}

//TotalSteps returns the number of steps of one feram run: thermalization
//plus averaging. Both keys must be present.
func (F *FeramConfig) TotalSteps() (int, error) {
	therm, err := F.Setup.Int(KeyThermalize)
	if err != nil {
		return 0, errDecorate(err, "FeramConfig.TotalSteps")
	}
	avg, err := F.Setup.Int(KeyAverage)
	if err != nil {
		return 0, errDecorate(err, "FeramConfig.TotalSteps")
	}
	return therm + avg, nil
}

//LastCoord returns the suffix feram uses for the last coordinate file of a run,
//the total number of steps padded to 10 digits. The file itself is
//<name>.<LastCoord()>.coord
func (F *FeramConfig) LastCoord() (string, error) {
	n, err := F.TotalSteps()
	if err != nil {
		return "", errDecorate(err, "FeramConfig.LastCoord")
	}
	return fmt.Sprintf("%010d", n), nil
}

//Size returns the lattice size, L.
func (F *FeramConfig) Size() (Int3, error) {
	v, ok := F.Setup.Get(KeyL)
	if !ok {
		return Int3{}, newError(MissingKey+": "+KeyL, "", "FeramConfig.Size")
	}
	L, ok := v.(Int3)
	if !ok {
		return Int3{}, newError(fmt.Sprintf("setting L is not a lattice size: %v", v), "", "FeramConfig.Size")
	}
	return L, nil
}

//PolarizationFactor is the factor that converts displacements to polarization
//for this configuration's material.
func (F *FeramConfig) PolarizationFactor() float64 {
	return F.Material.PolarizationFactor()
}
