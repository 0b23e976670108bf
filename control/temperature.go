/*
 * temperature.go, part of goferam.
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
	"context"
	"path/filepath"

	feram "github.com/autoferam/goferam"
	"github.com/autoferam/goferam/ops"
)

//Temperature runs a temperature sweep. For each temperature of the range it
//writes the settings, runs feram in the output directory and files away
//its output:
//
//	<name>.avg       appended to thermo.avg, then removed
//	<name>.dipoRavg  moved to dipoRavg/<T>.dipoRavg
//	last .coord      copied to <name>.restart, for the next run, and moved to coords/<T>.coord
//
//The pre operations run after the output directories are created, and
//before the sweep. Once the sweep is done, the restart file is removed and
//the dumps, the table and the plot of the sweep are written to
//_artifacts; finally, the whole output directory is archived next to
//itself. When a run fails, the sweep stops there and the restart file is
//kept, so the sweep can be resumed from it.
func Temperature(ctx context.Context, R Runner, c TempConfig, pre ...ops.Operation) ops.Result {
	seq, err := TemperatureOps(R, c, pre...)
	if err != nil {
		return ops.Fail("Temperature", err)
	}
	return R.run(ctx, seq)
}

//TemperatureOps builds the operations of Temperature without running them.
func TemperatureOps(R Runner, c TempConfig, pre ...ops.Operation) (ops.Sequence, error) {
	if err := c.Range.Check(); err != nil {
		return nil, err
	}
	config := c.Config()
	last, err := config.LastCoord()
	if err != nil {
		return nil, err
	}
	bin, err := filepath.Abs(R.FeramBin)
	if err != nil {
		return nil, err
	}
	out := R.OutputDir
	var (
		feramFile    = R.SimName + ".feram"
		avgFile      = R.SimName + ".avg"
		dipoRavgFile = R.SimName + ".dipoRavg"
		lastCoord    = R.SimName + "." + last + ".coord"
		restart      = R.SimName + ".restart"
		thermo       = "thermo.avg"
		coordDir     = "coords"
		dipoRavgDir  = "dipoRavg"
		artifactsDir = filepath.Join(out, artifacts)
		dumpDir      = filepath.Join(artifactsDir, "dumps")
	)

	first := ops.Seq(
		ops.Message("Pre"),
		ops.MkDirs{Dir: ops.DirOut(out)},
		ops.MkDirs{Dir: ops.DirOut(filepath.Join(out, coordDir))},
		ops.MkDirs{Dir: ops.DirOut(filepath.Join(out, dipoRavgDir))},
	)
	first = ops.Concat(first, pre)

	step := func(t float64) ops.Operation {
		name := TempName(t)
		cfg := config.Clone()
		cfg.Setup.SetKelvin(t)
		return ops.Seq(
			ops.Message("Temperature: "+name),
			ops.Write{File: ops.FileOut(feramFile), Content: cfg.Generate},
			ops.Feram{Bin: ops.Exec(bin), Input: ops.FileIn(feramFile)},
			ops.Append{Src: ops.FileIn(avgFile), Dst: ops.FileOut(thermo)},
			ops.Remove{File: ops.FileIn(avgFile)},
			ops.Rename{Src: ops.FileIn(dipoRavgFile), Dst: ops.FileOut(filepath.Join(dipoRavgDir, name+".dipoRavg"))},
			ops.Copy{Src: ops.FileIn(lastCoord), Dst: ops.FileOut(restart)},
			ops.Rename{Src: ops.FileIn(lastCoord), Dst: ops.FileOut(filepath.Join(coordDir, name+".coord"))},
		)
	}
	var steps ops.Sequence
	for _, t := range c.Range.Values() {
		steps = append(steps, step(t))
	}
	main := ops.Seq(
		ops.Message("Main"),
		ops.WithDir{Dir: ops.DirIn(out), Op: steps},
	)

	modulation := R.file(out, ".modulation")
	post := ops.Seq(
		ops.Message("Post"),
		ops.Remove{File: ops.FileIn(filepath.Join(out, restart))},
		ops.MkDirs{Dir: ops.DirOut(dumpDir)},
		runFileOp(R, artifactsDir),
		WriteDumpOp(filepath.Join(out, coordDir), "coord", filepath.Join(dumpDir, "coords.dump"), modulation),
		WriteDumpOp(filepath.Join(out, dipoRavgDir), "dipoRavg", filepath.Join(dumpDir, "dipoRavg.dump"), modulation),
		avgTableOp(filepath.Join(out, thermo), filepath.Join(artifactsDir, "thermo.parquet"), c.Material),
		polarizationPlotOp(filepath.Join(out, thermo), filepath.Join(artifactsDir, "polarization.png"), c.Material),
		ops.Archive{Src: ops.DirIn(out), Dst: ops.FileOut(R.archivePath())},
	)
	return ops.Seq(first, main, post, ops.Success(R.SimName)), nil
}

//Multidomain runs a temperature sweep of a system divided in domains. Before the
//sweep it writes the local fields of the domains to <name>.localfield, and
//the cells on their boundaries to <name>.defects.
func Multidomain(ctx context.Context, R Runner, c TempConfig, domains []feram.Domain, pre ...ops.Operation) ops.Result {
	size, err := c.Config().Size()
	if err != nil {
		return ops.Fail("Multidomain", err)
	}
	dom := DomainOps(R, size, domains)
	return Temperature(ctx, R, c, append(dom, pre...)...)
}

//Superlattice runs a temperature sweep of a superlattice, whose composition
//is written to <name>.modulation before the sweep.
func Superlattice(ctx context.Context, R Runner, c TempConfig, layers [2]int, pre ...ops.Operation) ops.Result {
	size, err := c.Config().Size()
	if err != nil {
		return ops.Fail("Superlattice", err)
	}
	mod := feram.Modulation{Size: size, Layers: layers}
	if err := mod.Check(); err != nil {
		return ops.Fail("Superlattice", err)
	}
	return Temperature(ctx, R, c, append([]ops.Operation{ModulationOp(R, mod)}, pre...)...)
}
