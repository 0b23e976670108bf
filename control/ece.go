/*
 * ece.go, part of goferam.
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
	"fmt"
	"path/filepath"

	feram "github.com/autoferam/goferam"
	"github.com/autoferam/goferam/ops"
)

//The stages of the electrocaloric protocol, in the order they run.
const (
	PreNPT  = "preNPT"  //equilibration under a constant field, at constant temperature
	PreNPE  = "preNPE"  //the same, at constant energy
	RampNPE = "rampNPE" //the field is ramped, at constant energy
	PostNPE = "postNPE" //relaxation under the final field
)

//StageNames lists the stages in order.
var StageNames = [4]string{PreNPT, PreNPE, RampNPE, PostNPE}

//StageDir is the directory of the i-th stage (from 0), like 1_preNPT.
func StageDir(i int) string {
	return fmt.Sprintf("%d_%s", i+1, StageNames[i])
}

//ECEConfig is the configuration of an electrocaloric measurement. Each stage
//has its own setups, which are merged after the common ones.
type ECEConfig struct {
	Material feram.Material
	//Common is the base of every stage. Merging works bundle by bundle, so a
	//bundle given for a stage replaces the common one whole: a stage General
	//brings its own L and kelvin. To change only some keys of a common
	//bundle, pass a modified copy of it to the stage, which is what run
	//files do (see RunFile).
	Common []feram.Setup
	Stages   [4][]feram.Setup //in the order of StageNames
	//InitialRestart, if set, is the coordinate file the first stage starts from.
	InitialRestart string
}

//Stage returns the configuration of the i-th stage.
func (E ECEConfig) Stage(i int) *feram.FeramConfig {
	setups := make([]feram.Setup, 0, len(E.Common)+len(E.Stages[i]))
	setups = append(setups, E.Common...)
	setups = append(setups, E.Stages[i]...)
	return feram.NewFeramConfig(E.Material, setups...)
}

//Validate returns an error if a stage is missing or lacks its step counts.
func (E ECEConfig) Validate() error {
	for i, name := range StageNames {
		if len(E.Stages[i]) == 0 {
			return fmt.Errorf("ece: stage %s is missing", name)
		}
		if _, err := E.Stage(i).LastCoord(); err != nil {
			return fmt.Errorf("ece: stage %s: %w", name, err)
		}
	}
	return nil
}

//ECE runs the electrocaloric protocol. The stages run in order, each in its
//own directory under the output directory, and the last coordinates of each
//become the restart file of the next. There is no branching and no retry:
//the first failure stops the protocol. Afterwards, the dumps of each stage,
//a table and a plot of all the logs are written to _artifacts, and the
//output directory is archived next to itself.
func ECE(ctx context.Context, R Runner, c ECEConfig, pre ...ops.Operation) ops.Result {
	seq, err := ECEOps(R, c, pre...)
	if err != nil {
		return ops.Fail("ECE", err)
	}
	return R.run(ctx, seq)
}

//ECEOps builds the operations of ECE without running them.
func ECEOps(R Runner, c ECEConfig, pre ...ops.Operation) (ops.Sequence, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	bin, err := filepath.Abs(R.FeramBin)
	if err != nil {
		return nil, err
	}
	out := R.OutputDir
	dirs := make([]string, len(StageNames))
	for i := range StageNames {
		dirs[i] = filepath.Join(out, StageDir(i))
	}
	first := ops.Seq(ops.Message("Pre"), ops.MkDirs{Dir: ops.DirOut(out)})
	for _, d := range dirs {
		first = append(first, ops.MkDirs{Dir: ops.DirOut(d)})
	}
	if c.InitialRestart != "" {
		first = append(first, ops.Copy{Src: ops.FileIn(c.InitialRestart), Dst: ops.FileOut(R.file(dirs[0], ".restart"))})
	}
	first = ops.Concat(first, pre)

	main := ops.Seq(ops.Message("Main"))
	var logs []stageLog
	for i, name := range StageNames {
		cfg := c.Stage(i)
		last, _ := cfg.LastCoord()
		lastCoord := R.file(dirs[i], "."+last+".coord")
		feramFile := R.file(dirs[i], ".feram")
		stage := ops.Seq(
			ops.Message("Stage: "+name),
			ops.Write{File: ops.FileOut(feramFile), Content: cfg.Generate},
			ops.Feram{Bin: ops.Exec(bin), Input: ops.FileIn(feramFile), Dir: dirs[i]},
		)
		if i+1 < len(dirs) {
			stage = append(stage, ops.Copy{Src: ops.FileIn(lastCoord), Dst: ops.FileOut(R.file(dirs[i+1], ".restart"))})
		}
		main = append(main, stage)
		logs = append(logs, stageLog{stage: name, path: R.file(dirs[i], ".log")})
	}

	artifactsDir := filepath.Join(out, artifacts)
	dumpDir := filepath.Join(artifactsDir, "dumps")
	post := ops.Seq(
		ops.Message("Post"),
		ops.MkDirs{Dir: ops.DirOut(dumpDir)},
		runFileOp(R, artifactsDir),
	)
	for i := range StageNames {
		post = append(post,
			WriteDumpOp(dirs[i], "coord", filepath.Join(dumpDir, StageDir(i)+"_coords.dump"), R.file(out, ".modulation")),
			WriteDumpOp(dirs[i], "dipoRavg", filepath.Join(dumpDir, StageDir(i)+"_dipoRavg.dump"), R.file(out, ".modulation")),
		)
	}
	post = append(post,
		logTableOp(logs, filepath.Join(artifactsDir, "ece.parquet")),
		evolutionPlotOp(logs, filepath.Join(artifactsDir, "ece.png")),
		ops.Archive{Src: ops.DirIn(out), Dst: ops.FileOut(R.archivePath())},
	)
	return ops.Seq(first, main, post, ops.Success(R.SimName)), nil
}
