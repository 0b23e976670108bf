package feram

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindBoundaries(Te *testing.T) {
	size := Int3{4, 1, 1}
	domains := []Domain{
		{Seed: Int3{0, 0, 0}, Props: Vec3{-1, 0, 0}},
		{Seed: Int3{3, 0, 0}, Props: Vec3{1, 0, 0}},
	}
	cells, err := FindBoundaries(size, domains)
	require.NoError(Te, err)
	require.Len(Te, cells, 4)
	want := []int{0, 0, 1, 1}
	for i, c := range cells {
		assert.Equal(Te, want[i], c.Domain, "cell %v", c.Coord)
	}
	//the two middle cells have one neighbor of each domain
	assert.False(Te, cells[0].Boundary())
	assert.True(Te, cells[1].Boundary())
	assert.Equal(Te, 0.5, cells[1].Share)
	assert.True(Te, cells[2].Boundary())
	assert.False(Te, cells[3].Boundary())

	var lf, def bytes.Buffer
	require.NoError(Te, WriteLocalfield(&lf, cells))
	require.NoError(Te, WriteDefects(&def, cells))
	fmt.Print(lf.String(), def.String())
	//each cell takes the field of the majority around it; ties go to the
	//neighbor seen first, in the order -x -y -z +x +y +z
	assert.Equal(Te, "0 0 0 -1 0 0\n1 0 0 -1 0 0\n2 0 0 -1 0 0\n3 0 0 1 0 0\n", lf.String())
	assert.Equal(Te, "1 0 0 -134.106 0 0\n2 0 0 -134.106 0 0\n", def.String())
}

func TestFindBoundariesMajority(Te *testing.T) {
	domains := []Domain{
		{Seed: Int3{0, 0, 0}, Props: Vec3{1, 0, 0}},
		{Seed: Int3{2, 0, 0}, Props: Vec3{-1, 0, 0}},
	}
	cells, err := FindBoundaries(Int3{3, 1, 1}, domains)
	require.NoError(Te, err)
	require.Len(Te, cells, 3)
	//the middle cell is as close to both seeds and goes to the first one
	assert.Equal(Te, []int{0, 0, 1}, []int{cells[0].Domain, cells[1].Domain, cells[2].Domain})
	assert.Equal(Te, 0, cells[2].Majority)
	assert.Equal(Te, 1.0, cells[2].Share)
	var lf, def bytes.Buffer
	require.NoError(Te, WriteLocalfield(&lf, cells))
	require.NoError(Te, WriteDefects(&def, cells))
	assert.Equal(Te, "0 0 0 1 0 0\n1 0 0 1 0 0\n2 0 0 1 0 0\n", lf.String())
	assert.Equal(Te, "1 0 0 134.106 0 0\n", def.String())
}

func TestFindBoundariesErrors(Te *testing.T) {
	_, err := FindBoundaries(Int3{2, 2, 2}, nil)
	assert.Error(Te, err)
	_, err = FindBoundaries(Int3{0, 2, 2}, []Domain{{}})
	assert.Error(Te, err)
	cells, err := FindBoundaries(Int3{1, 1, 1}, []Domain{{Props: Vec3{0, 1, 0}}})
	require.NoError(Te, err)
	assert.False(Te, cells[0].Boundary())
}

func TestModulation(Te *testing.T) {
	m := Modulation{Size: Int3{1, 1, 6}, Layers: [2]int{2, 1}}
	require.NoError(Te, m.Check())
	var b bytes.Buffer
	require.NoError(Te, m.Write(&b))
	lines := strings.Split(strings.TrimSpace(b.String()), "\n")
	require.Len(Te, lines, 6)
	assert.Equal(Te, []string{"0 0 0 0", "0 0 1 0", "0 0 2 1", "0 0 3 0", "0 0 4 0", "0 0 5 1"}, lines)
	bad := Modulation{Size: Int3{1, 1, 5}, Layers: [2]int{2, 1}}
	assert.Error(Te, bad.Check())
	assert.Error(Te, bad.Write(&b))
	assert.Error(Te, Modulation{Size: Int3{1, 1, 2}}.Check())

	path := Te.TempDir() + "/bst.modulation"
	require.NoError(Te, writeString(path, b.String()))
	mm, err := ReadModulation(path)
	require.NoError(Te, err)
	assert.Equal(Te, m.Map(), mm)
}

func TestVorticity(Te *testing.T) {
	//u = (0, x, 0) has a curl of (0, 0, 1) everywhere.
	var f Frame
	for z := 0; z < 2; z++ {
		for y := 0; y < 3; y++ {
			for x := 0; x < 3; x++ {
				f.Dipoles = append(f.Dipoles, Dipole{Cell: Int3{x, y, z}, U: Vec3{0, float64(x), 0}})
			}
		}
	}
	vt, err := f.Vorticity()
	require.NoError(Te, err)
	for _, v := range vt {
		assert.InDelta(Te, 0, v[0], 1e-12)
		assert.InDelta(Te, 0, v[1], 1e-12)
		assert.InDelta(Te, 1, v[2], 1e-12)
	}
	//u = (0, x*x, 0): central differences inside, one-sided at the edges
	for i := range f.Dipoles {
		x := float64(f.Dipoles[i].Cell[0])
		f.Dipoles[i].U = Vec3{0, x * x, 0}
	}
	vt, err = f.Vorticity()
	require.NoError(Te, err)
	assert.InDelta(Te, 1, vt[0][2], 1e-12) //x=0: 1-0
	assert.InDelta(Te, 2, vt[1][2], 1e-12) //x=1: (4-0)/2
	assert.InDelta(Te, 3, vt[2][2], 1e-12) //x=2: 4-1

	f.Dipoles = f.Dipoles[1:]
	_, err = f.Vorticity()
	assert.Error(Te, err)
}

func TestWriteDump(Te *testing.T) {
	f, err := ReadDipoles("testdata/2x2x1.coord")
	require.NoError(Te, err)
	f.Name = "10.coord"
	var b bytes.Buffer
	require.NoError(Te, WriteDump(&b, []*Frame{f}, nil))
	out := b.String()
	fmt.Print(out)
	assert.True(Te, strings.HasPrefix(out, "ITEM: TIMESTEP\n0\t10.coord\nITEM: NUMBER OF ATOMS\n4\nITEM: BOX BOUNDS pp pp pp\n0 2\n0 2\n0 1\nITEM: ATOMS id type q xu yu zu mux muy muz vx vy vz\n"))
	//dv/dx = 0.2 at y=1, du/dy = 0
	assert.Contains(Te, out, "\n4 1 0 1 1 0 0.200000 0.500000 0.000000 0.000000 0.000000 0.200000\n")

	mod := ModulationMap{{0, 0, 0}: 0, {1, 0, 0}: 1, {0, 1, 0}: 0, {1, 1, 0}: 1}
	b.Reset()
	require.NoError(Te, WriteDump(&b, []*Frame{f, f}, mod))
	assert.Contains(Te, b.String(), "\n2 2 1 1 0 0 ")
	assert.Contains(Te, b.String(), "ITEM: TIMESTEP\n1\t10.coord\n")
	delete(mod, Int3{1, 1, 0})
	assert.Error(Te, WriteDump(&b, []*Frame{f}, mod))
}
