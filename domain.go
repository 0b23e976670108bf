/*
 * domain.go, part of goferam.
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
	"io"

	"gonum.org/v1/gonum/floats"
)

//DefectScale multiplies the x component of the field written to the .defects file.
const DefectScale = 134.106

//Domain is a seed cell from which a domain grows, and the local field (Props)
//that will polarize it.
type Domain struct {
	Seed  Int3 `yaml:"seed"`
	Props Vec3 `yaml:"props"`
}

//Cell is a lattice cell assigned to a domain.
type Cell struct {
	Coord  Int3
	Domain int //index of the domain in the slice given to FindBoundaries
	//Props is the field of the Majority domain. It is the field written to
	//the .localfield and .defects files, so a cell takes the field of its
	//surroundings rather than that of its own seed.
	Props Vec3
	//Share is the fraction of the in-bounds neighbors of the cell that
	//belong to the most common domain among them. Cells with Share < 1
	//lie on a domain boundary.
	Share float64
	//Majority is the most common domain among the neighbors.
	Majority int
}

//Boundary reports whether the cell is on a boundary between domains.
func (C Cell) Boundary() bool { return C.Share < 1 }

//FindBoundaries assigns every cell of a lattice of the given size to the domain
//with the closest seed (ties go to the domain that comes first) and measures
//how mixed its first neighbors are. Cells on the edge of the lattice only count the
//neighbors inside the lattice. The cells are returned with x varying slowest
//and z fastest.
func FindBoundaries(size Int3, domains []Domain) ([]Cell, error) {
	if len(domains) == 0 {
		return nil, newError(NoDomains, "", "FindBoundaries")
	}
	if size[0] <= 0 || size[1] <= 0 || size[2] <= 0 {
		return nil, newError(fmt.Sprintf("%s: size %v", BadLattice, size), "", "FindBoundaries")
	}
	idx := func(c Int3) int { return (c[0]*size[1]+c[1])*size[2] + c[2] }
	cells := make([]Cell, 0, size.Cells())
	for x := 0; x < size[0]; x++ {
		for y := 0; y < size[1]; y++ {
			for z := 0; z < size[2]; z++ {
				c := Int3{x, y, z}
				d := closest(domains, c)
				cells = append(cells, Cell{Coord: c, Domain: d, Props: domains[d].Props})
			}
		}
	}
	counts := make([]int, len(domains))
	for i, c := range cells {
		for j := range counts {
			counts[j] = 0
		}
		n := 0
		order := make([]int, 0, 6)
		for _, nb := range neighbors(c.Coord, size) {
			d := cells[idx(nb)].Domain
			if counts[d] == 0 {
				order = append(order, d)
			}
			counts[d]++
			n++
		}
		if n == 0 {
			//a 1x1x1 lattice
			cells[i].Share = 1
			cells[i].Majority = c.Domain
			continue
		}
		best := order[0]
		for _, d := range order[1:] {
			if counts[d] > counts[best] {
				best = d
			}
		}
		cells[i].Majority = best
		cells[i].Props = domains[best].Props
		cells[i].Share = float64(counts[best]) / float64(n)
	}
	return cells, nil
}

func closest(domains []Domain, c Int3) int {
	p := []float64{float64(c[0]), float64(c[1]), float64(c[2])}
	best, bestd := 0, -1.0
	for i, d := range domains {
		s := []float64{float64(d.Seed[0]), float64(d.Seed[1]), float64(d.Seed[2])}
		dist := floats.Distance(p, s, 2)
		if bestd < 0 || dist < bestd {
			best, bestd = i, dist
		}
	}
	return best
}

//neighbors returns the 6 first neighbors of c that lie inside a lattice of the
//given size, in the order -x -y -z +x +y +z.
func neighbors(c Int3, size Int3) []Int3 {
	ret := make([]Int3, 0, 6)
	for _, d := range []int{-1, 1} {
		for ax := 0; ax < 3; ax++ {
			n := c
			n[ax] += d
			if n[ax] >= 0 && n[ax] < size[ax] {
				ret = append(ret, n)
			}
		}
	}
	return ret
}

//WriteLocalfield writes a feram .localfield file: the local field of each cell,
//one "x y z px py pz" line per cell. The field is that of the majority
//domain around the cell (Cell.Props).
func WriteLocalfield(w io.Writer, cells []Cell) error {
	for _, c := range cells {
		if _, err := fmt.Fprintf(w, "%s %s\n", c.Coord, c.Props); err != nil {
			return newError(err.Error(), "", "WriteLocalfield")
		}
	}
	return nil
}

//WriteDefects writes a feram .defects file with the cells on domain boundaries.
//The x component of their field is multiplied by DefectScale.
func WriteDefects(w io.Writer, cells []Cell) error {
	for _, c := range cells {
		if !c.Boundary() {
			continue
		}
		p := c.Props
		p[0] *= DefectScale
		if _, err := fmt.Fprintf(w, "%s %s\n", c.Coord, p); err != nil {
			return newError(err.Error(), "", "WriteDefects")
		}
	}
	return nil
}
