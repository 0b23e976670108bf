/*
 * avg.go, part of goferam.
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
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

//AvgEnergies are the energy terms of an .avg line, in eV per unit cell.
type AvgEnergies struct {
	DipoKinetic     float64
	LongRange       float64
	DipoleEField    float64
	Unharmonic      float64
	HomoStrain      float64
	HomoCoupling    float64
	InhoStrain      float64
	InhoCoupling    float64
	Total           float64
	NosePoincare    float64
	E2              float64
	DipoKineticTrue float64
	AcouKinetic     float64
	ShortRange      float64
	InhoModulation  float64
}

//Avg is one line of a feram .avg file: the averages over the
//n_average steps of one run.
type Avg struct {
	Kelvin   float64
	E        Vec3       //external field
	Strain   [6]float64 //xx yy zz yz xz xy
	U        Vec3       //average dipole displacement
	UU       [6]float64 //second moments of the displacement
	Energies AvgEnergies
	P        Vec3
	PP       [6]float64
	Columns  int //number of columns that were actually read.
}

//minAvgCols is the number of columns up to the average displacement.
const minAvgCols = 13

//number of columns of a full .avg line
const fullAvgCols = 43

//Polarization returns the polarization vector, in micro C/cm^2, given the
//material's conversion factor.
func (A Avg) Polarization(factor float64) Vec3 {
	return A.U.Scale(factor)
}

//ReadAvg reads an .avg file. Since thermo.avg is built by appending the .avg
//of each run, it is read the same way, one Avg per line. Empty lines and lines
//starting with # are skipped. Lines shorter than 13 columns are an error; any
//other missing column is left as zero.
func ReadAvg(path string) ([]Avg, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, newError(UnableToOpen+": "+err.Error(), path, "ReadAvg")
	}
	defer f.Close()
	var ret []Avg
	s := bufio.NewScanner(f)
	s.Buffer(make([]byte, 64*1024), 1024*1024)
	nline := 0
	for s.Scan() {
		nline++
		line := strings.TrimSpace(s.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		a, err := parseAvg(line)
		if err != nil {
			return nil, newError(fmt.Sprintf("%s, line %d: %s", WrongFormat, nline, err.Error()), path, "ReadAvg")
		}
		ret = append(ret, a)
	}
	if err := s.Err(); err != nil {
		return nil, newError(err.Error(), path, "ReadAvg")
	}
	return ret, nil
}

func parseAvg(line string) (Avg, error) {
	fields := strings.Fields(line)
	if len(fields) < minAvgCols {
		return Avg{}, fmt.Errorf("%d columns, at least %d needed", len(fields), minAvgCols)
	}
	if len(fields) > fullAvgCols {
		fields = fields[:fullAvgCols]
	}
	v := make([]float64, fullAvgCols)
	for i, f := range fields {
		x, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return Avg{}, fmt.Errorf("column %d: %w", i+1, err)
		}
		v[i] = x
	}
	var a Avg
	a.Columns = len(fields)
	a.Kelvin = v[0]
	copy(a.E[:], v[1:4])
	copy(a.Strain[:], v[4:10])
	copy(a.U[:], v[10:13])
	copy(a.UU[:], v[13:19])
	e := &a.Energies
	for i, p := range []*float64{&e.DipoKinetic, &e.LongRange, &e.DipoleEField, &e.Unharmonic,
		&e.HomoStrain, &e.HomoCoupling, &e.InhoStrain, &e.InhoCoupling, &e.Total,
		&e.NosePoincare, &e.E2, &e.DipoKineticTrue, &e.AcouKinetic, &e.ShortRange, &e.InhoModulation} {
		*p = v[19+i]
	}
	copy(a.P[:], v[34:37])
	copy(a.PP[:], v[37:43])
	return a, nil
}
