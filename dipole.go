/*
 * dipole.go, part of goferam.
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
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

//Dipole is the displacement of one cell of the lattice.
type Dipole struct {
	Cell Int3
	U    Vec3
}

//Frame is a lattice snapshot, as read from a .coord or .dipoRavg file.
type Frame struct {
	Name    string //where the frame came from, usually a file name.
	Dipoles []Dipole
}

//Size returns the size of the smallest lattice, starting at the origin, that
//contains every cell of the frame.
func (F *Frame) Size() Int3 {
	var s Int3
	for _, d := range F.Dipoles {
		for i := range s {
			if d.Cell[i]+1 > s[i] {
				s[i] = d.Cell[i] + 1
			}
		}
	}
	return s
}

//Average returns the mean displacement of the frame.
func (F *Frame) Average() Vec3 {
	var avg Vec3
	if len(F.Dipoles) == 0 {
		return avg
	}
	for _, d := range F.Dipoles {
		for i := range avg {
			avg[i] += d.U[i]
		}
	}
	return avg.Scale(1 / float64(len(F.Dipoles)))
}

//ReadDipoles reads a .coord or .dipoRavg file. Each non-empty line has the cell
//coordinates and the 3 components of the displacement; later columns, such as
//the acoustic displacements of .coord files, are ignored.
func ReadDipoles(path string) (*Frame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, newError(UnableToOpen+": "+err.Error(), path, "ReadDipoles")
	}
	defer f.Close()
	frame := &Frame{Name: path}
	s := bufio.NewScanner(f)
	nline := 0
	for s.Scan() {
		nline++
		fields := strings.Fields(s.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}
		d, err := parseDipole(fields)
		if err != nil {
			return nil, newError(fmt.Sprintf("%s, line %d: %s", WrongFormat, nline, err.Error()), path, "ReadDipoles")
		}
		frame.Dipoles = append(frame.Dipoles, d)
	}
	if err := s.Err(); err != nil {
		return nil, newError(err.Error(), path, "ReadDipoles")
	}
	return frame, nil
}

func parseDipole(fields []string) (Dipole, error) {
	var d Dipole
	if len(fields) < 6 {
		return d, fmt.Errorf("%d columns, 6 needed", len(fields))
	}
	for i := 0; i < 3; i++ {
		//some feram versions print the cell indexes as floats.
		c, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return d, err
		}
		d.Cell[i] = int(c)
		u, err := strconv.ParseFloat(fields[i+3], 64)
		if err != nil {
			return d, err
		}
		d.U[i] = u
	}
	return d, nil
}

//DipoleFiles returns the files in dir with the given extension (without the dot),
//sorted by the number in their name, so 5.coord comes before 10.coord. Files
//whose name is not a number go last, in lexical order.
func DipoleFiles(dir, ext string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, newError(UnableToOpen+": "+err.Error(), dir, "DipoleFiles")
	}
	type named struct {
		path string
		num  float64
		isn  bool
	}
	var files []named
	for _, e := range entries {
		name := e.Name()
		stem, found := strings.CutSuffix(name, "."+ext)
		if e.IsDir() || !found {
			continue
		}
		n, err := strconv.ParseFloat(stem, 64)
		files = append(files, named{path: filepath.Join(dir, name), num: n, isn: err == nil})
	}
	sort.SliceStable(files, func(i, j int) bool {
		a, b := files[i], files[j]
		if a.isn != b.isn {
			return a.isn
		}
		if a.isn && a.num != b.num {
			return a.num < b.num
		}
		return a.path < b.path
	})
	ret := make([]string, len(files))
	for i, f := range files {
		ret[i] = f.path
	}
	return ret, nil
}

//ReadFrames reads the given files with ReadDipoles. The name of each frame
//is the base name of its file.
func ReadFrames(paths []string) ([]*Frame, error) {
	ret := make([]*Frame, 0, len(paths))
	for _, p := range paths {
		f, err := ReadDipoles(p)
		if err != nil {
			return nil, errDecorate(err, "ReadFrames")
		}
		f.Name = filepath.Base(p)
		ret = append(ret, f)
	}
	return ret, nil
}
