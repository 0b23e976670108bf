/*
 * dump.go, part of goferam.
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
	"sort"
)

//Vorticity returns the curl of the displacement field of the frame at each
//dipole, in the order of F.Dipoles. Derivatives are finite differences with
//unit spacing: central in the interior of the lattice, one-sided at its
//edges, and zero along axes only one cell thick. The frame must cover its
//lattice exactly once.
func (F *Frame) Vorticity() ([]Vec3, error) {
	size := F.Size()
	n := size.Cells()
	if n != len(F.Dipoles) {
		return nil, newError(fmt.Sprintf("%s: %d dipoles for a %v lattice", BadLattice, len(F.Dipoles), size), F.Name, "Frame.Vorticity")
	}
	idx := func(x, y, z int) int { return (z*size[1]+y)*size[0] + x }
	grid := make([]Vec3, n)
	seen := make([]bool, n)
	for _, d := range F.Dipoles {
		c := d.Cell
		if c[0] < 0 || c[1] < 0 || c[2] < 0 {
			return nil, newError(fmt.Sprintf("%s: negative cell %v", BadLattice, c), F.Name, "Frame.Vorticity")
		}
		i := idx(c[0], c[1], c[2])
		if seen[i] {
			return nil, newError(fmt.Sprintf("%s: repeated cell %v", BadLattice, c), F.Name, "Frame.Vorticity")
		}
		seen[i] = true
		grid[i] = d.U
	}
	//deriv returns the derivative of component comp along axis ax at cell c.
	deriv := func(c Int3, comp, ax int) float64 {
		L := size[ax]
		if L < 2 {
			return 0
		}
		lo, hi := c, c
		div := 2.0
		switch c[ax] {
		case 0:
			hi[ax]++
			div = 1
		case L - 1:
			lo[ax]--
			div = 1
		default:
			lo[ax]--
			hi[ax]++
		}
		return (grid[idx(hi[0], hi[1], hi[2])][comp] - grid[idx(lo[0], lo[1], lo[2])][comp]) / div
	}
	ret := make([]Vec3, len(F.Dipoles))
	for i, d := range F.Dipoles {
		c := d.Cell
		ret[i] = Vec3{
			deriv(c, 2, 1) - deriv(c, 1, 2), //dw/dy - dv/dz
			deriv(c, 0, 2) - deriv(c, 2, 0), //du/dz - dw/dx
			deriv(c, 1, 0) - deriv(c, 0, 1), //dv/dx - du/dy
		}
	}
	return ret, nil
}

//WriteDump writes the frames to w as a LAMMPS-style dump, one TIMESTEP per
//frame, which OVITO can read. Each cell is an atom with the displacement as
//its dipole (mux muy muz) and the vorticity as its velocity (vx vy vz). The
//charge of an atom is the composition of its cell from mod, and its type
//enumerates the different compositions. mod can be nil, in which case every
//cell has composition 0.
func WriteDump(w io.Writer, frames []*Frame, mod ModulationMap) error {
	types := map[int]int{0: 1}
	if len(mod) > 0 {
		vals := make([]int, 0, 2)
		seen := make(map[int]bool)
		for _, v := range mod {
			if !seen[v] {
				seen[v] = true
				vals = append(vals, v)
			}
		}
		sort.Ints(vals)
		types = make(map[int]int, len(vals))
		for i, v := range vals {
			types[v] = i + 1
		}
	}
	bw := bufio.NewWriter(w)
	for i, f := range frames {
		vt, err := f.Vorticity()
		if err != nil {
			return errDecorate(err, "WriteDump")
		}
		size := f.Size()
		fmt.Fprintf(bw, "ITEM: TIMESTEP\n%d\t%s\n", i, f.Name)
		fmt.Fprintf(bw, "ITEM: NUMBER OF ATOMS\n%d\n", len(f.Dipoles))
		fmt.Fprintf(bw, "ITEM: BOX BOUNDS pp pp pp\n0 %d\n0 %d\n0 %d\n", size[0], size[1], size[2])
		bw.WriteString("ITEM: ATOMS id type q xu yu zu mux muy muz vx vy vz\n")
		for j, d := range f.Dipoles {
			q := 0
			if len(mod) > 0 {
				var ok bool
				q, ok = mod[d.Cell]
				if !ok {
					return newError(fmt.Sprintf("cell %v has no composition", d.Cell), f.Name, "WriteDump")
				}
			}
			fmt.Fprintf(bw, "%d %d %d %d %d %d %.6f %.6f %.6f %.6f %.6f %.6f\n", j+1, types[q], q,
				d.Cell[0], d.Cell[1], d.Cell[2], d.U[0], d.U[1], d.U[2], vt[j][0], vt[j][1], vt[j][2])
		}
	}
	if err := bw.Flush(); err != nil {
		return newError(err.Error(), "", "WriteDump")
	}
	return nil
}
