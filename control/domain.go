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

package control

import (
	"io"

	feram "github.com/autoferam/goferam"
	"github.com/autoferam/goferam/ops"
)

//DomainOps returns the operations that write <name>.localfield and
//<name>.defects to the output directory, for the given domains in a lattice
//of the given size.
func DomainOps(R Runner, size feram.Int3, domains []feram.Domain) []ops.Operation {
	cells := func() ([]feram.Cell, error) { return feram.FindBoundaries(size, domains) }
	return []ops.Operation{
		ops.WriteTable{
			File: ops.FileOut(R.file(R.OutputDir, ".localfield")),
			Write: func(w io.Writer) error {
				c, err := cells()
				if err != nil {
					return err
				}
				return feram.WriteLocalfield(w, c)
			},
		},
		ops.WriteTable{
			File: ops.FileOut(R.file(R.OutputDir, ".defects")),
			Write: func(w io.Writer) error {
				c, err := cells()
				if err != nil {
					return err
				}
				return feram.WriteDefects(w, c)
			},
		},
	}
}

//ModulationOp returns the operation that writes <name>.modulation to the
//output directory.
func ModulationOp(R Runner, mod feram.Modulation) ops.Operation {
	return ops.WriteTable{
		File:  ops.FileOut(R.file(R.OutputDir, ".modulation")),
		Write: mod.Write,
	}
}
