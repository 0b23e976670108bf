package ops

import (
	"archive/tar"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/autoferam/goferam/feramtest"
)

func writeFile(Te *testing.T, path, content string) {
	Te.Helper()
	require.NoError(Te, os.WriteFile(path, []byte(content), 0644))
}

func readFile(Te *testing.T, path string) string {
	Te.Helper()
	b, err := os.ReadFile(path)
	require.NoError(Te, err)
	return string(b)
}

func TestMkDirs(Te *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(Te.TempDir(), "out", "coords")
	r := MkDirs{DirOut(dir)}.Run(ctx)
	require.False(Te, r.Failed(), r.String())
	assert.Equal(Te, "MkDirs: "+dir, r.String())
	assert.DirExists(Te, dir)
	//exist_ok
	r = MkDirs{DirOut(dir)}.Run(ctx)
	assert.False(Te, r.Failed(), r.String())
	//must not exist
	r = MkDirs{DirOut(dir, DirAbsent)}.Run(ctx)
	require.True(Te, r.Failed())
	assert.ErrorIs(Te, r.Err, ErrExists)
	assert.True(Te, strings.HasPrefix(r.String(), "MkDirs: "))
}

func TestFileOps(Te *testing.T) {
	ctx := context.Background()
	dir := Te.TempDir()
	a := filepath.Join(dir, "a.avg")
	writeFile(Te, a, "1 2 3\n")
	old := time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)
	require.NoError(Te, os.Chtimes(a, old, old))
	require.NoError(Te, os.Chmod(a, 0600))

	r := Copy{FileIn(a), FileOut(filepath.Join(dir, "b.avg"))}.Run(ctx)
	require.False(Te, r.Failed(), r.String())
	assert.Equal(Te, fmt.Sprintf("Copy: %s >> %s", a, filepath.Join(dir, "b.avg")), r.String())
	fi, err := os.Stat(filepath.Join(dir, "b.avg"))
	require.NoError(Te, err)
	assert.True(Te, fi.ModTime().Equal(old))
	assert.Equal(Te, os.FileMode(0600), fi.Mode().Perm())

	thermo := FileOut(filepath.Join(dir, "thermo.avg"))
	for i := 0; i < 2; i++ {
		r = Append{FileIn(a), thermo}.Run(ctx)
		require.False(Te, r.Failed(), r.String())
	}
	assert.Equal(Te, "1 2 3\n1 2 3\n", readFile(Te, thermo.Name))

	r = Rename{FileIn(a), FileOut(filepath.Join(dir, "c.avg"))}.Run(ctx)
	require.False(Te, r.Failed(), r.String())
	assert.NoFileExists(Te, a)
	assert.FileExists(Te, filepath.Join(dir, "c.avg"))

	r = Remove{FileIn(filepath.Join(dir, "c.avg"))}.Run(ctx)
	require.False(Te, r.Failed(), r.String())
	assert.NoFileExists(Te, filepath.Join(dir, "c.avg"))

	//preconditions fail before anything is done
	r = Remove{FileIn(filepath.Join(dir, "c.avg"))}.Run(ctx)
	require.True(Te, r.Failed())
	assert.ErrorIs(Te, r.Err, ErrNotFile)
	r = Append{FileIn(a), thermo}.Run(ctx)
	assert.True(Te, r.Failed())
	assert.Equal(Te, "1 2 3\n1 2 3\n", readFile(Te, thermo.Name))
}

func TestWriteLazy(Te *testing.T) {
	ctx := context.Background()
	dir := Te.TempDir()
	content := "before"
	w := Write{FileOut(filepath.Join(dir, "bto.feram")), func() string { return content }}
	content = "after"
	r := w.Run(ctx)
	require.False(Te, r.Failed(), r.String())
	assert.Equal(Te, "after", readFile(Te, filepath.Join(dir, "bto.feram")))

	called := false
	wt := WriteTable{FileOut(filepath.Join(dir, "t.csv")), func(w io.Writer) error {
		called = true
		_, err := io.WriteString(w, "a,b\n")
		return err
	}}
	assert.False(Te, called)
	r = wt.Run(ctx)
	require.False(Te, r.Failed(), r.String())
	assert.Equal(Te, "a,b\n", readFile(Te, filepath.Join(dir, "t.csv")))

	wt = WriteTable{FileOut(filepath.Join(dir, "bad.csv")), func(w io.Writer) error { return errors.New("no rows") }}
	r = wt.Run(ctx)
	assert.True(Te, r.Failed())
	assert.NoFileExists(Te, filepath.Join(dir, "bad.csv"))
	assert.Contains(Te, r.String(), "WriteTable: ")
}

func TestWithDir(Te *testing.T) {
	ctx := context.Background()
	dir := Te.TempDir()
	writeFile(Te, filepath.Join(dir, "bto.avg"), "x\n")
	r := WithDir{DirIn(dir), Seq(
		Append{FileIn("bto.avg"), FileOut("thermo.avg")},
		Remove{FileIn("bto.avg")},
	)}.Run(ctx)
	require.False(Te, r.Failed(), r.String())
	assert.Equal(Te, "x\n", readFile(Te, filepath.Join(dir, "thermo.avg")))
	assert.NoFileExists(Te, filepath.Join(dir, "bto.avg"))
	wd, err := os.Getwd()
	require.NoError(Te, err)
	assert.NotEqual(Te, dir, wd)

	r = WithDir{DirIn(filepath.Join(dir, "nope")), Empty{}}.Run(ctx)
	assert.ErrorIs(Te, r.Err, ErrNotDir)
}

func TestSequenceShortCircuit(Te *testing.T) {
	ctx := context.Background()
	var ran []string
	op := func(name string, fail bool) Operation {
		return Func{Label: name, Fn: func(context.Context) (string, error) {
			ran = append(ran, name)
			if fail {
				return "", errors.New(name + " failed")
			}
			return name + " ok", nil
		}}
	}
	var reported []Result
	rctx := WithReporter(ctx, ReporterFunc(func(r Result) { reported = append(reported, r) }))
	r := Seq(op("A", false), op("B", true), op("C", false)).Run(rctx)
	require.True(Te, r.Failed())
	assert.Equal(Te, []string{"A", "B"}, ran)
	assert.Equal(Te, "B: B failed", r.String())
	assert.Len(Te, reported, 2)

	ran = nil
	r = Seq(op("A", false), op("C", false)).Run(ctx)
	assert.False(Te, r.Failed())
	assert.Equal(Te, "C: C ok", r.String())
	assert.Equal(Te, "Empty", Seq().Run(ctx).Op)

	//nested and concatenated
	ran = nil
	reported = nil
	s := Concat(Seq(op("A", false)), Seq(Seq(op("B", false), op("C", false)), Message("done")))
	r = s.Run(rctx)
	assert.False(Te, r.Failed())
	assert.Equal(Te, []string{"A", "B", "C"}, ran)
	assert.Equal(Te, KindMessage, r.Kind)
	assert.Len(Te, reported, 4)
	assert.Len(Te, Concat(nil, nil), 0)

	cctx, cancel := context.WithCancel(ctx)
	cancel()
	ran = nil
	r = Seq(op("A", false)).Run(cctx)
	assert.True(Te, r.Failed())
	assert.Empty(Te, ran)
}

func TestErrorTrace(Te *testing.T) {
	bad := Func{Label: "bad", Fn: func(context.Context) (string, error) {
		return "", errors.New("broken")
	}}
	r := WithDir{DirIn(Te.TempDir()), Seq(Seq(bad))}.Run(context.Background())
	require.True(Te, r.Failed())
	var e *Error
	require.True(Te, errors.As(r.Err, &e))
	assert.Equal(Te, "bad", e.Op)
	assert.Equal(Te, []string{"Sequence", "Sequence", "WithDir"}, e.Trace())
	assert.Equal(Te, "bad: broken", r.String())
}

func TestConcatAssociative(Te *testing.T) {
	a, b, c := Seq(Message("a")), Seq(Message("b")), Seq(Message("c"), Message("d"))
	assert.Equal(Te, Concat(Concat(a, b), c), Concat(a, Concat(b, c)))
	assert.Equal(Te, a, Concat(a, Seq()))
	assert.Equal(Te, a, Concat(Seq(), a))
}

func TestArchive(Te *testing.T) {
	ctx := context.Background()
	root := Te.TempDir()
	out := filepath.Join(root, "temp_run")
	require.NoError(Te, os.MkdirAll(filepath.Join(out, "coords"), 0755))
	writeFile(Te, filepath.Join(out, "thermo.avg"), "300 0 0\n")
	writeFile(Te, filepath.Join(out, "coords", "10.coord"), "0 0 0 0.1 0 0\n")

	for _, ext := range []string{".tar.gz", ".tar.zst"} {
		dst := filepath.Join(root, "temp_run"+ext)
		r := Archive{DirIn(out), FileOut(dst)}.Run(ctx)
		require.False(Te, r.Failed(), r.String())
		names := listArchive(Te, dst)
		assert.Equal(Te, []string{"temp_run/", "temp_run/coords/", "temp_run/coords/10.coord", "temp_run/thermo.avg"}, names, ext)
	}
	r := Archive{DirIn(filepath.Join(root, "none")), FileOut(filepath.Join(root, "x.tar.gz"))}.Run(ctx)
	assert.True(Te, r.Failed())
}

func listArchive(Te *testing.T, path string) []string {
	f, err := os.Open(path)
	require.NoError(Te, err)
	defer f.Close()
	var zr io.Reader
	if strings.HasSuffix(path, ".zst") {
		d, err := zstd.NewReader(f)
		require.NoError(Te, err)
		defer d.Close()
		zr = d
	} else {
		g, err := gzip.NewReader(f)
		require.NoError(Te, err)
		defer g.Close()
		zr = g
	}
	tr := tar.NewReader(zr)
	var names []string
	for {
		h, err := tr.Next()
		if err == io.EOF {
			break
		}
		require.NoError(Te, err)
		names = append(names, h.Name)
	}
	sort.Strings(names)
	return names
}

func TestFeram(Te *testing.T) {
	bin := feramtest.Install(Te, feramtest.Options{FailAt: "15"})
	dir := Te.TempDir()
	settings := "# setup\nkelvin = 10\nn_thermalize = 10\nn_average = 8\nL = 2 2 1\n\n"
	writeFile(Te, filepath.Join(dir, "bto.feram"), settings)
	ctx := context.Background()
	r := Feram{Bin: Exec(bin), Input: FileIn(filepath.Join(dir, "bto.feram"))}.Run(ctx)
	require.False(Te, r.Failed(), r.String())
	assert.FileExists(Te, filepath.Join(dir, "bto.avg"))
	assert.FileExists(Te, filepath.Join(dir, "bto.0000000018.coord"))
	assert.Contains(Te, readFile(Te, filepath.Join(dir, "bto.stdout")), "kelvin=10")

	//relative input inside WithDir
	writeFile(Te, filepath.Join(dir, "bto.feram"), strings.Replace(settings, "kelvin = 10", "kelvin = 15", 1))
	r = WithDir{DirIn(dir), Feram{Bin: Exec(bin), Input: FileIn("bto.feram")}}.Run(ctx)
	require.True(Te, r.Failed())
	assert.ErrorIs(Te, r.Err, ErrExitStatus)
	var exit *ExitError
	require.True(Te, errors.As(r.Err, &exit))
	assert.Equal(Te, 3, exit.Code)
	assert.Contains(Te, r.String(), "diverged at 15 K")
	assert.True(Te, strings.HasPrefix(r.String(), "Feram: "))

	r = Feram{Bin: Exec(filepath.Join(dir, "noferam")), Input: FileIn(filepath.Join(dir, "none.feram"))}.Run(ctx)
	require.True(Te, r.Failed())
	assert.ErrorIs(Te, r.Err, ErrNotFile)
	assert.ErrorIs(Te, r.Err, ErrNotExecutable)
}

func TestTailWriter(Te *testing.T) {
	w := newTailWriter(stdoutTail)
	var all strings.Builder
	for i := 1; i <= 30; i++ {
		fmt.Fprintf(&all, "step %d\n", i)
	}
	//odd sized chunks split lines anywhere
	text := all.String()
	for len(text) > 0 {
		n := min(7, len(text))
		k, err := w.Write([]byte(text[:n]))
		require.NoError(Te, err)
		assert.Equal(Te, n, k)
		text = text[n:]
	}
	lines := strings.Split(w.String(), "\n")
	require.Len(Te, lines, stdoutTail)
	assert.Equal(Te, "step 11", lines[0])
	assert.Equal(Te, "step 30", lines[stdoutTail-1])
	assert.LessOrEqual(Te, len(w.lines), stdoutTail)

	//an unfinished last line is kept, a long one is cut
	w = newTailWriter(2)
	fmt.Fprint(w, "a\nb\nc")
	assert.Equal(Te, "b\nc", w.String())
	w = newTailWriter(2)
	fmt.Fprint(w, strings.Repeat("x", 3*maxTailLine)+"\nend\n")
	lines = strings.Split(w.String(), "\n")
	require.Len(Te, lines, 2)
	assert.Len(Te, lines[0], maxTailLine)
	assert.Equal(Te, "end", lines[1])
	assert.Equal(Te, "", newTailWriter(3).String())
}

func TestReporters(Te *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	var b bytes.Buffer
	rep := Reporters{LogReporter{zap.New(core)}, TermReporter{&b}, LogReporter{}}
	ctx := WithReporter(context.Background(), rep)
	r := Seq(Message("Pre"), Func{Label: "Bad", Fn: func(context.Context) (string, error) { return "", errors.New("x") }}).Run(ctx)
	require.True(Te, r.Failed())
	assert.Equal(Te, 2, logs.Len())
	assert.Equal(Te, 1, logs.FilterMessage("operation failed").Len())
	assert.Contains(Te, b.String(), "Pre")
	assert.Contains(Te, b.String(), "Bad: x")
	assert.Contains(Te, Format(Success("bto").Run(context.Background())), "bto")
	assert.Contains(Te, Format(Ok("Copy", "a >> b")), "Copy: a >> b")
}
