/*
 * commands.go, part of goferam.
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

package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	feram "github.com/autoferam/goferam"
	"github.com/autoferam/goferam/control"
	"github.com/autoferam/goferam/ops"
	"github.com/autoferam/goferam/table"
)

var (
	stage      string
	output     string
	ext        string
	modulation string
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("4"))
	keyStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Width(16)
)

var temperatureCmd = &cobra.Command{
	Use:   "temperature [run.yaml]",
	Short: "Run a temperature sweep",
	Long: `Runs feram once per temperature of the range of the run file, each run
starting from the last coordinates of the previous one.

Example run file:
  sim_name: bto
  output_dir: bto_sweep
  material: bto
  temperature: {initial: 350, final: 150, delta: -10}
  setup:
    general: {L: [16, 16, 16], n_thermalize: 20000, n_average: 10000}`,
	Args: cobra.ExactArgs(1),
	RunE: runProtocol(func(cmd *cobra.Command, R *control.RunFile, run control.Runner) (ops.Result, error) {
		c, err := R.TempConfig()
		if err != nil {
			return ops.Result{}, err
		}
		return control.Temperature(cmd.Context(), run, c), nil
	}),
}

var multidomainCmd = &cobra.Command{
	Use:   "multidomain [run.yaml]",
	Short: "Run a temperature sweep of a system with domains",
	Long: `Like temperature, but the lattice is first divided in the domains of the
run file, each around its seed cell with its own local field:

  domains:
    - {seed: [0, 0, 0], props: [0.01, 0, 0]}
    - {seed: [8, 8, 8], props: [-0.01, 0, 0]}`,
	Args: cobra.ExactArgs(1),
	RunE: runProtocol(func(cmd *cobra.Command, R *control.RunFile, run control.Runner) (ops.Result, error) {
		c, err := R.TempConfig()
		if err != nil {
			return ops.Result{}, err
		}
		if len(R.Domains) == 0 {
			return ops.Result{}, fmt.Errorf("the run file has no domains")
		}
		return control.Multidomain(cmd.Context(), run, c, R.Domains), nil
	}),
}

var superlatticeCmd = &cobra.Command{
	Use:   "superlattice [run.yaml]",
	Short: "Run a temperature sweep of a superlattice",
	Long: `Like temperature, for a superlattice stacked along z:

  modulation: {layers: [2, 2]}`,
	Args: cobra.ExactArgs(1),
	RunE: runProtocol(func(cmd *cobra.Command, R *control.RunFile, run control.Runner) (ops.Result, error) {
		c, err := R.TempConfig()
		if err != nil {
			return ops.Result{}, err
		}
		if R.Modulation == nil {
			return ops.Result{}, fmt.Errorf("the run file has no modulation")
		}
		return control.Superlattice(cmd.Context(), run, c, R.Modulation.Layers), nil
	}),
}

var eceCmd = &cobra.Command{
	Use:   "ece [run.yaml]",
	Short: "Run the four-stage electrocaloric measurement",
	Long: `Runs the stages preNPT, preNPE, rampNPE and postNPE in order. Each stage is a
setup block under stages, read on top of the setup of the run file.`,
	Args: cobra.ExactArgs(1),
	RunE: runProtocol(func(cmd *cobra.Command, R *control.RunFile, run control.Runner) (ops.Result, error) {
		c, err := R.ECEConfig()
		if err != nil {
			return ops.Result{}, err
		}
		return control.ECE(cmd.Context(), run, c), nil
	}),
}

type protocol func(cmd *cobra.Command, R *control.RunFile, run control.Runner) (ops.Result, error)

//runProtocol reads the run file, runs the protocol and reports every
//operation on standard output.
func runProtocol(p protocol) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		R, err := control.ReadRunFile(args[0])
		if err != nil {
			return err
		}
		bin, err := resolveBin(R.FeramBin)
		if err != nil {
			return err
		}
		ctx := ops.WithReporter(cmd.Context(), ops.TermReporter{W: cmd.OutOrStdout()})
		cmd.SetContext(ctx)
		res, err := p(cmd, R, R.Runner(bin, logger))
		if err != nil {
			return err
		}
		if res.Failed() {
			return res.Err
		}
		return nil
	}
}

var configCmd = &cobra.Command{
	Use:   "config [run.yaml]",
	Short: "Print the feram settings file of a run file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		R, err := control.ReadRunFile(args[0])
		if err != nil {
			return err
		}
		cfg := R.Config()
		if stage != "" {
			c, err := R.ECEConfig()
			if err != nil {
				return err
			}
			i := -1
			for j, s := range control.StageNames {
				if s == stage {
					i = j
				}
			}
			if i < 0 {
				return fmt.Errorf("unknown stage %q", stage)
			}
			cfg = c.Stage(i)
		}
		_, err = fmt.Fprint(cmd.OutOrStdout(), cfg.Generate())
		return err
	},
}

var materialsCmd = &cobra.Command{
	Use:   "materials",
	Short: "List the material presets",
	RunE: func(cmd *cobra.Command, args []string) error {
		w := cmd.OutOrStdout()
		for _, name := range feram.MaterialNames() {
			m, err := feram.MaterialByName(name)
			if err != nil {
				return err
			}
			fmt.Fprintln(w, titleStyle.Render(m.Name))
			fmt.Fprintln(w, keyStyle.Render("a0")+fmt.Sprint(m.A0))
			fmt.Fprintln(w, keyStyle.Render("Z_star")+fmt.Sprint(m.ZStar))
			fmt.Fprintln(w, keyStyle.Render("P factor")+fmt.Sprintf("%.4g uC/cm2 per A", m.PolarizationFactor()))
		}
		return nil
	},
}

var parseLogCmd = &cobra.Command{
	Use:   "parse-log [file.log]",
	Short: "Summarize a feram log, and optionally convert it to a table",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		steps, err := feram.ReadLog(args[0])
		if err != nil {
			return err
		}
		if len(steps) == 0 {
			return fmt.Errorf("%s: no time steps", args[0])
		}
		s := feram.Summarize(steps)
		w := cmd.OutOrStdout()
		fmt.Fprintln(w, titleStyle.Render(filepath.Base(args[0])))
		fmt.Fprintln(w, keyStyle.Render("steps")+fmt.Sprint(s.Steps))
		fmt.Fprintln(w, keyStyle.Render("last step")+fmt.Sprint(s.LastTimeStep))
		fmt.Fprintln(w, keyStyle.Render("kelvin")+fmt.Sprintf("%.3f +- %.3f", s.Kelvin, s.KelvinStd))
		fmt.Fprintln(w, keyStyle.Render("total energy")+fmt.Sprintf("%.6g +- %.3g", s.TotalEnergy, s.EnergyStd))
		fmt.Fprintln(w, keyStyle.Render("<u>")+s.U.String())
		if output == "" {
			return nil
		}
		name := stage
		if name == "" {
			name = strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
		}
		return table.WriteFile(output, table.FromLog(name, steps))
	},
}

var dumpCmd = &cobra.Command{
	Use:   "dump [dir]",
	Short: "Write the dipoles of a directory, with their vorticity, as a LAMMPS dump",
	Long: `Reads every <n>.<ext> file in the directory, in numerical order, and writes
one frame per file to a LAMMPS dump, for visualization with OVITO.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := output
		if out == "" {
			out = filepath.Clean(args[0]) + ".dump"
		}
		res := control.WriteDumpOp(args[0], ext, out, modulation).Run(cmd.Context())
		fmt.Fprintln(cmd.OutOrStdout(), ops.Format(res))
		if res.Failed() {
			return res.Err
		}
		return nil
	},
}

var watchCmd = &cobra.Command{
	Use:   "watch [file.log]",
	Short: "Follow a feram log as it is written",
	Long: `Prints one line per time step of the log, as feram completes them, until
interrupted.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		w := cmd.OutOrStdout()
		W := &control.LogWatcher{Path: args[0], Logger: logger}
		return W.Watch(cmd.Context(), func(s feram.TimeStep) {
			fmt.Fprintln(w, stepLine(s))
		})
	},
}

//stepLine renders the main values of a time step.
func stepLine(s feram.TimeStep) string {
	line := keyStyle.Render(fmt.Sprintf("step %d", s.TimeStep))
	if k, ok := s.Kelvin(); ok {
		line += fmt.Sprintf(" T=%.2f K", k)
	}
	if s.TotalEnergy != nil {
		line += fmt.Sprintf(" E=%.6g eV", *s.TotalEnergy)
	}
	if s.U != nil {
		line += " <u>=" + s.U.String()
	}
	return line
}
