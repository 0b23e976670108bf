/*
 * modulation.go, part of goferam.
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
	"io"
	"os"
	"strconv"
	"strings"
)

//Modulation describes a superlattice made by stacking, along z, Layers[0]
//layers of one composition and Layers[1] of the other, repeatedly.
type Modulation struct {
	Size   Int3
	Layers [2]int
}

//Period is the number of layers in one repetition.
func (M Modulation) Period() int { return M.Layers[0] + M.Layers[1] }

//Check returns an error if the layers do not tile the lattice along z.
func (M Modulation) Check() error {
	if M.Size[0] <= 0 || M.Size[1] <= 0 || M.Size[2] <= 0 {
		return newError(fmt.Sprintf("%s: size %v", BadLattice, M.Size), "", "Modulation.Check")
	}
	if M.Layers[0] < 0 || M.Layers[1] < 0 || M.Period() == 0 {
		return newError(fmt.Sprintf("%s: layers %v", BadLattice, M.Layers), "", "Modulation.Check")
	}
	if M.Size[2]%M.Period() != 0 {
		return newError(fmt.Sprintf("%s: Lz=%d is not a multiple of the period %d", BadLattice, M.Size[2], M.Period()), "", "Modulation.Check")
	}
	return nil
}

//Value returns the composition of the layer z: 0 for the first block of
//each period, 1 for the second.
func (M Modulation) Value(z int) int {
	if z%M.Period() < M.Layers[0] {
		return 0
	}
	return 1
}

//Write writes a feram .modulation file, one "x y z m" line per cell, with x
//varying slowest.
func (M Modulation) Write(w io.Writer) error {
	if err := M.Check(); err != nil {
		return errDecorate(err, "Modulation.Write")
	}
	bw := bufio.NewWriter(w)
	for x := 0; x < M.Size[0]; x++ {
		for y := 0; y < M.Size[1]; y++ {
			for z := 0; z < M.Size[2]; z++ {
				fmt.Fprintf(bw, "%d %d %d %d\n", x, y, z, M.Value(z))
			}
		}
	}
	if err := bw.Flush(); err != nil {
		return newError(err.Error(), "", "Modulation.Write")
	}
	return nil
}

//ModulationMap is the composition of each cell.
type ModulationMap map[Int3]int

//Map returns the composition of every cell of the lattice.
func (M Modulation) Map() ModulationMap {
	ret := make(ModulationMap, M.Size.Cells())
	for x := 0; x < M.Size[0]; x++ {
		for y := 0; y < M.Size[1]; y++ {
			for z := 0; z < M.Size[2]; z++ {
				ret[Int3{x, y, z}] = M.Value(z)
			}
		}
	}
	return ret
}

//ReadModulation reads a .modulation file.
func ReadModulation(path string) (ModulationMap, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, newError(UnableToOpen+": "+err.Error(), path, "ReadModulation")
	}
	defer f.Close()
	ret := make(ModulationMap)
	s := bufio.NewScanner(f)
	nline := 0
	for s.Scan() {
		nline++
		fields := strings.Fields(s.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) < 4 {
			return nil, newError(fmt.Sprintf("%s, line %d", WrongFormat, nline), path, "ReadModulation")
		}
		var v [4]int
		for i := range v {
			v[i], err = strconv.Atoi(fields[i])
			if err != nil {
				return nil, newError(fmt.Sprintf("%s, line %d: %s", WrongFormat, nline, err.Error()), path, "ReadModulation")
			}
		}
		ret[Int3{v[0], v[1], v[2]}] = v[3]
	}
	if err := s.Err(); err != nil {
		return nil, newError(err.Error(), path, "ReadModulation")
	}
	return ret, nil
}
