package feram

import (
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadAvg(Te *testing.T) {
	avgs, err := ReadAvg("testdata/thermo.avg")
	require.NoError(Te, err)
	require.Len(Te, avgs, 2)
	a := avgs[0]
	assert.Equal(Te, 43, a.Columns)
	assert.Equal(Te, 300.0, a.Kelvin)
	assert.Equal(Te, 305.0, avgs[1].Kelvin)
	assert.Equal(Te, Vec3{0.001, 0, 0}, a.E)
	assert.Equal(Te, Vec3{0.1, 0, 0}, a.U)
	assert.Equal(Te, -0.01, a.Energies.Total)
	assert.Equal(Te, -0.01, a.Energies.InhoModulation)
	p := a.Polarization(BTO.PolarizationFactor())
	fmt.Println(p, Phase(p, DefaultNoise))
	assert.Equal(Te, Tetragonal, Phase(p, DefaultNoise))
}

func TestReadAvgShort(Te *testing.T) {
	_, err := ReadAvg("testdata/short.avg")
	require.Error(Te, err)
	assert.Contains(Te, err.Error(), "line 2")
	_, err = ReadAvg("testdata/nothere.avg")
	assert.Error(Te, err)
}

func TestReadDipoles(Te *testing.T) {
	f, err := ReadDipoles("testdata/2x2x1.coord")
	require.NoError(Te, err)
	require.Len(Te, f.Dipoles, 4)
	assert.Equal(Te, Int3{2, 2, 1}, f.Size())
	assert.Equal(Te, Dipole{Cell: Int3{1, 1, 0}, U: Vec3{0.2, 0.5, 0}}, f.Dipoles[3])
	avg := f.Average()
	assert.InDelta(Te, 0.15, avg[0], 1e-12)
	assert.InDelta(Te, 0.2, avg[1], 1e-12)
}

func TestPhase(Te *testing.T) {
	cases := []struct {
		p    Vec3
		want string
	}{
		{Vec3{0, 0.1, -0.2}, Cubic},
		{Vec3{0, 0, 20}, Tetragonal},
		{Vec3{-20, 0, 0}, Tetragonal},
		{Vec3{15, 15.2, 0}, Orthorhombic},
		{Vec3{0, 5, 15}, MonoclinicC},
		{Vec3{10, -10.1, 10.2}, Rhombohedral},
		{Vec3{5, 5, 15}, MonoclinicA},
		{Vec3{15, 5, 15}, MonoclinicB},
		{Vec3{15, 15, 5}, MonoclinicB},
		{Vec3{5, 10, 15}, Triclinic},
		{Vec3{0.5, 10, 0}, UnknownPhase},
	}
	for _, c := range cases {
		assert.Equal(Te, c.want, Phase(c.p, DefaultNoise), "%v", c.p)
	}
}

func TestDipoleFiles(Te *testing.T) {
	dir := Te.TempDir()
	for _, n := range []string{"10.coord", "5.coord", "-5.coord", "x.coord", "7.dipoRavg"} {
		require.NoError(Te, writeString(dir+"/"+n, "0 0 0 0 0 0\n"))
	}
	files, err := DipoleFiles(dir, "coord")
	require.NoError(Te, err)
	require.Len(Te, files, 4)
	assert.Equal(Te, dir+"/-5.coord", files[0])
	assert.Equal(Te, dir+"/5.coord", files[1])
	assert.Equal(Te, dir+"/10.coord", files[2])
	assert.Equal(Te, dir+"/x.coord", files[3])
	frames, err := ReadFrames(files[:2])
	require.NoError(Te, err)
	assert.Equal(Te, "5.coord", frames[1].Name)
}

func writeString(path, s string) error {
	return os.WriteFile(path, []byte(s), 0644)
}
