package ops

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreconditions(Te *testing.T) {
	dir := Te.TempDir()
	file := filepath.Join(dir, "a.txt")
	require.NoError(Te, os.WriteFile(file, []byte("a"), 0644))

	assert.NoError(Te, FileExists(file))
	assert.ErrorIs(Te, FileExists(dir), ErrNotFile)
	assert.ErrorIs(Te, FileExists(filepath.Join(dir, "nope")), ErrNotFile)
	assert.NoError(Te, DirExists(dir))
	assert.ErrorIs(Te, DirExists(file), ErrNotDir)
	assert.NoError(Te, DirAbsent(filepath.Join(dir, "new")))
	assert.ErrorIs(Te, DirAbsent(dir), ErrExists)
	assert.ErrorIs(Te, Executable(file), ErrNotExecutable)
	require.NoError(Te, os.Chmod(file, 0755))
	assert.NoError(Te, Executable(file))
	assert.Contains(Te, FileExists("/no/such").Error(), "'/no/such'")
}

func TestPathCheckAll(Te *testing.T) {
	dir := Te.TempDir()
	ctx := context.Background()
	//every failing precondition is reported
	p := FileIn(filepath.Join(dir, "x"), DirExists)
	err := p.Check(ctx)
	require.Error(Te, err)
	assert.ErrorIs(Te, err, ErrNotFile)
	assert.ErrorIs(Te, err, ErrNotDir)
	assert.NoError(Te, FileOut(filepath.Join(dir, "x")).Check(ctx))
	assert.NoError(Te, DirOut(dir).Check(ctx))
	assert.Error(Te, Exec(filepath.Join(dir, "x")).Check(ctx))
	assert.Len(Te, Exec("feram").Pre, 2)
	assert.Equal(Te, RoleDirIn, DirIn(dir).Role)
	assert.Equal(Te, "Exec", RoleExec.String())
}

func TestResolve(Te *testing.T) {
	ctx := context.Background()
	assert.Equal(Te, "a/b", FileIn("a/b").Resolve(ctx))
	wctx := withWorkDir(ctx, "/run")
	assert.Equal(Te, "/run/a/b", FileIn("a/b").Resolve(wctx))
	assert.Equal(Te, "/abs", FileIn("/abs").Resolve(wctx))
	assert.Equal(Te, "/run", WorkDir(wctx))
	assert.Equal(Te, "", WorkDir(ctx))
}

func TestResult(Te *testing.T) {
	r := Ok("Copy", "a >> b")
	assert.False(Te, r.Failed())
	assert.Equal(Te, "Copy: a >> b", r.String())
	f := Fail("Copy", errors.New("boom"))
	assert.True(Te, f.Failed())
	assert.Equal(Te, "Copy: boom", f.String())
	var e *Error
	require.True(Te, errors.As(f.Err, &e))
	assert.Equal(Te, []string{"Sequence"}, e.Decorate("Sequence"))
	assert.Equal(Te, "Empty", Empty{}.Run(context.Background()).String())
}
