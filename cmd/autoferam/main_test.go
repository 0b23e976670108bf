package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	feram "github.com/autoferam/goferam"
	"github.com/autoferam/goferam/feramtest"
	"github.com/autoferam/goferam/table"
)

//execute runs the command line with fresh flags and returns its output.
func execute(Te *testing.T, args ...string) (string, error) {
	Te.Helper()
	verbose, feramBin = false, ""
	stage, output, ext, modulation = "", "", "coord", ""
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return buf.String(), err
}

func runFile(Te *testing.T, content string) string {
	Te.Helper()
	path := filepath.Join(Te.TempDir(), "run.yaml")
	require.NoError(Te, os.WriteFile(path, []byte(content), 0644))
	return path
}

const sweep = `sim_name: bto
output_dir: out
material: bto
temperature: {initial: 10, final: 20, delta: 5}
setup:
  general: {L: [2, 2, 1], n_thermalize: 1, n_average: 1}
`

func TestConfig(Te *testing.T) {
	out, err := execute(Te, "config", runFile(Te, sweep))
	require.NoError(Te, err)
	assert.True(Te, strings.HasPrefix(out, "# setup\n"), out)
	assert.Contains(Te, out, "L = 2 2 1\n")
	assert.Contains(Te, out, "# material\n")
	//a sweep has no stages
	_, err = execute(Te, "config", "--stage", "preNPT", runFile(Te, sweep))
	assert.Error(Te, err)
}

func TestMaterials(Te *testing.T) {
	out, err := execute(Te, "materials")
	require.NoError(Te, err)
	assert.Contains(Te, out, "BTO")
	assert.Contains(Te, out, "BST")
}

func TestParseLog(Te *testing.T) {
	dest := filepath.Join(Te.TempDir(), "steps.parquet")
	out, err := execute(Te, "parse-log", "-o", dest, filepath.Join("..", "..", "testdata", "bto.log"))
	require.NoError(Te, err)
	assert.Contains(Te, out, "bto.log")
	assert.Contains(Te, out, "steps")
	rows, err := table.ReadParquet[table.TimeStepRow](dest)
	require.NoError(Te, err)
	require.Len(Te, rows, 2)
	assert.Equal(Te, "bto", rows[0].Stage)

	dest = filepath.Join(Te.TempDir(), "steps.csv")
	_, err = execute(Te, "parse-log", "--stage", "preNPT", "-o", dest, filepath.Join("..", "..", "testdata", "bto.log"))
	require.NoError(Te, err)
	b, err := os.ReadFile(dest)
	require.NoError(Te, err)
	assert.Equal(Te, 3, strings.Count(string(b), "\n"))
	assert.Contains(Te, string(b), "\npreNPT,")

	_, err = execute(Te, "parse-log", filepath.Join(Te.TempDir(), "missing.log"))
	assert.Error(Te, err)
}

func TestDump(Te *testing.T) {
	dir := filepath.Join(Te.TempDir(), "coords")
	require.NoError(Te, os.Mkdir(dir, 0755))
	b, err := os.ReadFile(filepath.Join("..", "..", "testdata", "2x2x1.coord"))
	require.NoError(Te, err)
	for _, n := range []string{"10", "5"} {
		require.NoError(Te, os.WriteFile(filepath.Join(dir, n+".coord"), b, 0644))
	}
	out, err := execute(Te, "dump", dir)
	require.NoError(Te, err, out)
	dump, err := os.ReadFile(dir + ".dump")
	require.NoError(Te, err)
	assert.Equal(Te, 2, strings.Count(string(dump), "ITEM: TIMESTEP"))
	assert.Contains(Te, string(dump), "0\t5.coord\n")

	_, err = execute(Te, "dump", "--ext", "dipoRavg", filepath.Join(Te.TempDir(), "none"))
	assert.Error(Te, err)
}

func TestTemperatureCommand(Te *testing.T) {
	bin := feramtest.Install(Te, feramtest.Options{})
	path := runFile(Te, sweep)
	out, err := execute(Te, "--feram-bin", bin, "temperature", path)
	require.NoError(Te, err, out)
	assert.Contains(Te, out, "[Message] Temperature: 15")
	assert.Contains(Te, out, "[Success] bto")
	outDir := filepath.Join(filepath.Dir(path), "out")
	avgs, err := feram.ReadAvg(filepath.Join(outDir, "thermo.avg"))
	require.NoError(Te, err)
	assert.Len(Te, avgs, 2)
	assert.FileExists(Te, filepath.Join(outDir, "_artifacts", "run.yaml"))
}

func TestTemperatureCommandFailure(Te *testing.T) {
	bin := feramtest.Install(Te, feramtest.Options{FailAt: "10"})
	out, err := execute(Te, "--feram-bin", bin, "temperature", runFile(Te, sweep))
	require.Error(Te, err)
	assert.Contains(Te, out, "[Failure]")
	assert.Contains(Te, err.Error(), "diverged")

	_, err = execute(Te, "--feram-bin", bin, "multidomain", runFile(Te, sweep))
	assert.Error(Te, err)
	_, err = execute(Te, "--feram-bin", bin, "superlattice", runFile(Te, sweep))
	assert.Error(Te, err)
	_, err = execute(Te, "--feram-bin", filepath.Join(Te.TempDir(), "nothing"), "temperature", runFile(Te, sweep))
	assert.Error(Te, err)
}

func TestStepLine(Te *testing.T) {
	steps := feram.ParseLog("TIME_STEP 7\ndipo_kinetic = 0.0387735\ntotal_energy = -0.25\n<u> = 0.1 0 0\nTIME_STEP_END\n")
	require.Len(Te, steps, 1)
	line := stepLine(steps[0])
	assert.Contains(Te, line, "step 7")
	assert.Contains(Te, line, "T=")
	assert.Contains(Te, line, "E=-0.25 eV")
	assert.Contains(Te, line, "<u>=0.1 0 0")
}
