/*
 * runner.go, part of goferam.
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

//Package control runs complete feram protocols: temperature sweeps, the
//four-stage electrocaloric measurement, and sweeps of systems with domains
//or a superlattice. Each protocol is a sequence of operations from package
//ops; the first failure stops it, and its result is returned.
package control

import (
	"context"
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strconv"

	"github.com/google/uuid"
	"go.uber.org/zap"

	feram "github.com/autoferam/goferam"
	"github.com/autoferam/goferam/ops"
)

//Runner says where and how a protocol runs.
type Runner struct {
	SimName   string //name of the simulation; the settings file is <SimName>.feram
	OutputDir string
	FeramBin  string
	//RunFile, if set, is copied to the artifacts of the run.
	RunFile string
	Logger  *zap.Logger
}

func (R Runner) logger() *zap.Logger {
	if R.Logger == nil {
		return zap.NewNop()
	}
	return R.Logger
}

//file returns the path of <SimName><ext> in dir.
func (R Runner) file(dir, ext string) string {
	return filepath.Join(dir, R.SimName+ext)
}

//archivePath is the archive of the output directory, next to it.
func (R Runner) archivePath() string {
	out := filepath.Clean(R.OutputDir)
	return filepath.Join(filepath.Dir(out), filepath.Base(out)+".tar.gz")
}

//run adds the runner's logger to the reporters of ctx and runs op. Every
//run gets its own id in the log, so interleaved protocols can be told apart.
func (R Runner) run(ctx context.Context, op ops.Operation) ops.Result {
	log := R.logger().With(zap.String("run", uuid.NewString()), zap.String("sim", R.SimName), zap.String("output", R.OutputDir))
	rep := ops.Reporters{ops.LogReporter{Logger: log}, ops.ReporterFrom(ctx)}
	res := op.Run(ops.WithReporter(ctx, rep))
	if res.Failed() {
		fields := []zap.Field{zap.Error(res.Err)}
		var e *ops.Error
		if errors.As(res.Err, &e) {
			fields = append(fields, zap.Strings("trace", e.Trace()))
		}
		log.Error("protocol failed", fields...)
	}
	return res
}

//TempRange is a range of temperatures, in K. Like a range of integers, it
//includes Initial and excludes Final; a negative Delta goes down.
type TempRange struct {
	Initial float64 `yaml:"initial"`
	Final   float64 `yaml:"final"`
	Delta   float64 `yaml:"delta"`
}

//MaxTemperatures is the most runs a temperature range may have.
const MaxTemperatures = 1000000

//Check returns an error if the range is empty, never ends or is too long.
func (T TempRange) Check() error {
	n, err := T.count()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("temperature range %v to %v by %v is empty", T.Initial, T.Final, T.Delta)
	}
	return nil
}

//count returns the number of temperatures in the range.
func (T TempRange) count() (int, error) {
	for _, v := range []float64{T.Initial, T.Final, T.Delta} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, fmt.Errorf("temperature range: %v is not a finite number", v)
		}
	}
	if T.Delta == 0 {
		return 0, fmt.Errorf("temperature range: delta must not be 0")
	}
	n := math.Ceil((T.Final - T.Initial) / T.Delta)
	if n > MaxTemperatures {
		return 0, fmt.Errorf("temperature range %v to %v by %v has more than %d temperatures", T.Initial, T.Final, T.Delta, MaxTemperatures)
	}
	if n <= 0 {
		return 0, nil
	}
	return int(n), nil
}

//Values returns the temperatures of the range, or nil if Check fails.
func (T TempRange) Values() []float64 {
	n, err := T.count()
	if err != nil {
		return nil
	}
	ret := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		ret = append(ret, T.Initial+float64(i)*T.Delta)
	}
	return ret
}

//TempName is the name used for the output files of a run at temperature t.
func TempName(t float64) string {
	return strconv.FormatFloat(t, 'g', -1, 64)
}

//TempConfig is the configuration of a temperature sweep.
type TempConfig struct {
	Material feram.Material
	Range    TempRange
	Setups   []feram.Setup
}

//Config returns the merged configuration the sweep starts from.
func (T TempConfig) Config() *feram.FeramConfig {
	return feram.NewFeramConfig(T.Material, T.Setups...)
}
