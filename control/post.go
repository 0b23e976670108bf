/*
 * post.go, part of goferam.
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
	"os"
	"path/filepath"

	feram "github.com/autoferam/goferam"
	"github.com/autoferam/goferam/feramplot"
	"github.com/autoferam/goferam/ops"
	"github.com/autoferam/goferam/table"
)

//artifacts is where post-processing leaves its output.
const artifacts = "_artifacts"

//WriteDumpOp writes the vorticity dump of the files with extension ext in dir.
//If the file modulation exists, it gives the composition of the cells.
func WriteDumpOp(dir, ext, out, modulation string) ops.Operation {
	return ops.WriteTable{
		File: ops.FileOut(out),
		Write: func(w io.Writer) error {
			files, err := feram.DipoleFiles(dir, ext)
			if err != nil {
				return err
			}
			frames, err := feram.ReadFrames(files)
			if err != nil {
				return err
			}
			var mod feram.ModulationMap
			if _, err := os.Stat(modulation); err == nil {
				if mod, err = feram.ReadModulation(modulation); err != nil {
					return err
				}
			}
			return feram.WriteDump(w, frames, mod)
		},
	}
}

func avgRows(thermo string, m feram.Material) ([]table.AvgRow, error) {
	avgs, err := feram.ReadAvg(thermo)
	if err != nil {
		return nil, err
	}
	return table.FromAvg(avgs, m.PolarizationFactor(), feram.DefaultNoise), nil
}

//avgTableOp writes the rows of thermo.avg as a Parquet table.
func avgTableOp(thermo, out string, m feram.Material) ops.Operation {
	return ops.WriteTable{
		File: ops.FileOut(out),
		Write: func(w io.Writer) error {
			rows, err := avgRows(thermo, m)
			if err != nil {
				return err
			}
			return table.WriteParquet(w, rows)
		},
	}
}

//polarizationPlotOp plots the polarization of the sweep in thermo.avg.
func polarizationPlotOp(thermo, out string, m feram.Material) ops.Operation {
	return ops.WriteTable{
		File: ops.FileOut(out),
		Write: func(w io.Writer) error {
			rows, err := avgRows(thermo, m)
			if err != nil {
				return err
			}
			p, err := feramplot.PolarizationVsTemperature(rows)
			if err != nil {
				return err
			}
			return feramplot.Write(w, p, feramplot.Format(out))
		},
	}
}

//stageLog is the log of one stage of a run, as read by stageRows.
type stageLog struct {
	stage string
	path  string
}

func stageRows(logs []stageLog) ([]table.TimeStepRow, error) {
	var rows []table.TimeStepRow
	for _, l := range logs {
		steps, err := feram.ReadLog(l.path)
		if err != nil {
			return nil, err
		}
		rows = append(rows, table.FromLog(l.stage, steps)...)
	}
	return rows, nil
}

//logTableOp writes the steps of the logs as one Parquet table.
func logTableOp(logs []stageLog, out string) ops.Operation {
	return ops.WriteTable{
		File: ops.FileOut(out),
		Write: func(w io.Writer) error {
			rows, err := stageRows(logs)
			if err != nil {
				return err
			}
			return table.WriteParquet(w, rows)
		},
	}
}

//evolutionPlotOp plots the temperature along the logs.
func evolutionPlotOp(logs []stageLog, out string) ops.Operation {
	return ops.WriteTable{
		File: ops.FileOut(out),
		Write: func(w io.Writer) error {
			rows, err := stageRows(logs)
			if err != nil {
				return err
			}
			p, err := feramplot.Evolution(rows)
			if err != nil {
				return err
			}
			return feramplot.Write(w, p, feramplot.Format(out))
		},
	}
}

//runFileOp copies the run file, if any, to the artifacts directory.
func runFileOp(R Runner, artifactsDir string) ops.Operation {
	if R.RunFile == "" {
		return ops.Empty{}
	}
	return ops.Copy{Src: ops.FileIn(R.RunFile), Dst: ops.FileOut(filepath.Join(artifactsDir, filepath.Base(R.RunFile)))}
}
