/*
 * main.go, part of goferam.
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

//autoferam runs feram protocols described in YAML run files, and
//post-processes feram output.
package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	verbose  bool
	feramBin string

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "autoferam",
	Short: "Run feram simulation protocols",
	Long: `autoferam drives the feram molecular dynamics simulator through complete
protocols: temperature sweeps, sweeps of systems with domains or a
superlattice, and the four-stage electrocaloric measurement.

Each protocol is described by a YAML run file. The runs are a sequence of
operations; the first one that fails stops the protocol, and autoferam exits
with status 1.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log every operation")
	rootCmd.PersistentFlags().StringVar(&feramBin, "feram-bin", "", "feram executable (default: feram_bin of the run file, or feram in PATH)")

	configCmd.Flags().StringVar(&stage, "stage", "", "print the settings of this ECE stage")
	parseLogCmd.Flags().StringVarP(&output, "output", "o", "", "write the steps to this .parquet or .csv file")
	parseLogCmd.Flags().StringVar(&stage, "stage", "", "stage name stored with the steps")
	dumpCmd.Flags().StringVar(&ext, "ext", "coord", "extension of the dipole files")
	dumpCmd.Flags().StringVarP(&output, "output", "o", "", "dump file (default: <dir>.dump)")
	dumpCmd.Flags().StringVar(&modulation, "modulation", "", "modulation file giving the composition of the cells")

	rootCmd.AddCommand(
		temperatureCmd,
		multidomainCmd,
		superlatticeCmd,
		eceCmd,
		configCmd,
		materialsCmd,
		parseLogCmd,
		dumpCmd,
		watchCmd,
	)
}

//resolveBin picks the simulator: the flag, then the run file, then PATH.
func resolveBin(fromFile string) (string, error) {
	bin := feramBin
	if bin == "" {
		bin = fromFile
	}
	if bin == "" {
		bin = "feram"
	}
	path, err := exec.LookPath(bin)
	if err != nil {
		return "", fmt.Errorf("feram executable: %w", err)
	}
	return path, nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
