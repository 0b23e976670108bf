/*
 * runfile.go, part of goferam.
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
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	feram "github.com/autoferam/goferam"
)

//Setups holds the bundles given in a run file. A nil bundle was not given.
type Setups struct {
	General       *feram.General
	Strain        *feram.Strain
	EFieldStatic  *feram.EFieldStatic
	EFieldDynamic *feram.EFieldDynamic
	Film          *feram.FilmGap
}

//List returns the bundles that were given, in a fixed order.
func (S Setups) List() []feram.Setup {
	var ret []feram.Setup
	if S.General != nil {
		ret = append(ret, *S.General)
	}
	if S.Strain != nil {
		ret = append(ret, *S.Strain)
	}
	if S.EFieldStatic != nil {
		ret = append(ret, *S.EFieldStatic)
	}
	if S.EFieldDynamic != nil {
		ret = append(ret, *S.EFieldDynamic)
	}
	if S.Film != nil {
		ret = append(ret, *S.Film)
	}
	return ret
}

//decodeSetups reads a setup block of a run file on top of base: a bundle that
//base already has only changes in the keys the block gives; a new one starts
//from its defaults. Unknown bundles or keys are an error.
func decodeSetups(n *yaml.Node, base Setups) (Setups, error) {
	ret := base
	if n == nil || n.Kind == 0 {
		return ret, nil
	}
	var blocks map[string]yaml.Node
	if err := n.Decode(&blocks); err != nil {
		return ret, err
	}
	for key, node := range blocks {
		node := node
		var err error
		switch key {
		case "general":
			v := feram.DefaultGeneral()
			if base.General != nil {
				v = *base.General
			}
			err = strictDecode(&node, &v)
			ret.General = &v
		case "strain":
			var v feram.Strain
			if base.Strain != nil {
				v = *base.Strain
			}
			err = strictDecode(&node, &v)
			ret.Strain = &v
		case "efield_static":
			var v feram.EFieldStatic
			if base.EFieldStatic != nil {
				v = *base.EFieldStatic
			}
			err = strictDecode(&node, &v)
			ret.EFieldStatic = &v
		case "efield_dynamic":
			v := feram.DefaultEFieldDynamic()
			if base.EFieldDynamic != nil {
				v = *base.EFieldDynamic
			}
			err = strictDecode(&node, &v)
			ret.EFieldDynamic = &v
		case "film":
			var v feram.FilmGap
			if base.Film != nil {
				v = *base.Film
			}
			err = strictDecode(&node, &v)
			ret.Film = &v
		default:
			err = fmt.Errorf("line %d: unknown setup %q", node.Line, key)
		}
		if err != nil {
			return ret, fmt.Errorf("setup %s: %w", key, err)
		}
	}
	return ret, nil
}

//strictDecode decodes n into v, failing on keys v does not have.
func strictDecode(n *yaml.Node, v any) error {
	b, err := yaml.Marshal(n)
	if err != nil {
		return err
	}
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	return dec.Decode(v)
}

//ModulationBlock is the superlattice of a run file.
type ModulationBlock struct {
	Layers [2]int `yaml:"layers"`
}

//RunFile is a YAML file that describes a complete protocol. It can be read with
//ReadRunFile, or built by hand and then checked with Check.
type RunFile struct {
	SimName   string `yaml:"sim_name"`
	OutputDir string `yaml:"output_dir"`
	FeramBin  string `yaml:"feram_bin"`
	// Material is the name of a preset, bto or bst.
	Material string `yaml:"material"`

	Temperature *TempRange `yaml:"temperature"`

	// Setup has the bundles of every run. In an ECE file, they are the
	// common base of the stages.
	Setup yaml.Node `yaml:"setup"`

	// Stages has one setup block per ECE stage, read on top of Setup.
	Stages map[string]yaml.Node `yaml:"stages"`

	InitialRestart string `yaml:"initial_restart"`

	Domains    []feram.Domain   `yaml:"domains"`
	Modulation *ModulationBlock `yaml:"modulation"`

	path   string
	setups Setups
	stages [4]Setups
	given  [4]bool
}

//ReadRunFile reads and checks a run file. Relative paths in it are taken
//relative to the directory of the file.
func ReadRunFile(path string) (*RunFile, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	R := new(RunFile)
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(R); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	R.path = path
	dir := filepath.Dir(path)
	R.OutputDir = relativeTo(dir, R.OutputDir)
	R.InitialRestart = relativeTo(dir, R.InitialRestart)
	//a bare name is looked up in PATH
	if filepath.Base(R.FeramBin) != R.FeramBin {
		R.FeramBin = relativeTo(dir, R.FeramBin)
	}
	if err := R.Check(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return R, nil
}

//Check resolves the setup blocks and checks the file is complete and consistent.
func (R *RunFile) Check() error {
	if R.SimName == "" {
		return fmt.Errorf("sim_name is required")
	}
	if R.OutputDir == "" {
		return fmt.Errorf("output_dir is required")
	}
	if _, err := feram.MaterialByName(R.Material); err != nil {
		return err
	}
	if R.Temperature != nil {
		if err := R.Temperature.Check(); err != nil {
			return err
		}
	}
	var err error
	R.setups, err = decodeSetups(&R.Setup, Setups{})
	if err != nil {
		return err
	}
	R.given = [4]bool{}
	for name, node := range R.Stages {
		i := stageIndex(name)
		if i < 0 {
			return fmt.Errorf("unknown stage %q, must be one of %v", name, StageNames)
		}
		node := node
		R.stages[i], err = decodeSetups(&node, R.setups)
		if err != nil {
			return fmt.Errorf("stage %s: %w", name, err)
		}
		R.given[i] = true
	}
	if len(R.Domains) > 0 && R.Modulation != nil {
		return fmt.Errorf("domains and modulation cannot be used together")
	}
	if R.Modulation != nil {
		size, err := feram.NewFeramConfig(feram.Material{}, R.setups.List()...).Size()
		if err != nil {
			return err
		}
		if err := (feram.Modulation{Size: size, Layers: R.Modulation.Layers}).Check(); err != nil {
			return err
		}
	}
	return nil
}

func relativeTo(dir, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}

func stageIndex(name string) int {
	for i, s := range StageNames {
		if s == name {
			return i
		}
	}
	return -1
}

//Path returns the file the run file was read from, or "" if it was built by hand.
func (R *RunFile) Path() string { return R.path }

//Setups returns the bundles of the setup block.
func (R *RunFile) Setups() Setups { return R.setups }

//Runner returns the runner described by the file. bin replaces the
//simulator of the file when it is not empty.
func (R *RunFile) Runner(bin string, log *zap.Logger) Runner {
	if bin == "" {
		bin = R.FeramBin
	}
	return Runner{SimName: R.SimName, OutputDir: R.OutputDir, FeramBin: bin, RunFile: R.path, Logger: log}
}

func (R *RunFile) material() feram.Material {
	m, _ := feram.MaterialByName(R.Material)
	return m
}

//Config returns the merged configuration of the setup block.
func (R *RunFile) Config() *feram.FeramConfig {
	return feram.NewFeramConfig(R.material(), R.setups.List()...)
}

//TempConfig returns the configuration of a temperature sweep.
func (R *RunFile) TempConfig() (TempConfig, error) {
	if R.Temperature == nil {
		return TempConfig{}, fmt.Errorf("temperature range is required")
	}
	if R.setups.General == nil {
		return TempConfig{}, fmt.Errorf("setup general is required")
	}
	return TempConfig{Material: R.material(), Range: *R.Temperature, Setups: R.setups.List()}, nil
}

//ECEConfig returns the configuration of an electrocaloric measurement.
func (R *RunFile) ECEConfig() (ECEConfig, error) {
	c := ECEConfig{Material: R.material(), InitialRestart: R.InitialRestart}
	for i := range StageNames {
		if !R.given[i] {
			return c, fmt.Errorf("stage %s is missing", StageNames[i])
		}
		c.Stages[i] = R.stages[i].List()
	}
	return c, c.Validate()
}
