/*
 * feram.go, part of goferam.
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

package ops

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

//number of lines of standard output kept in the error of a failed run
const stdoutTail = 20

//longest line, in bytes, the tail of the standard output keeps
const maxTailLine = 4096

//Feram runs the simulator on a settings file: <Bin> <Input>. The process
//runs in Dir; if Dir is empty, in the working directory of the context, and
//if there is none, in the directory of Input. feram names its output after
//the settings file, so that is where the output ends up.
//
//The standard output is also saved to <name>.stdout in that directory, where
//<name> is the settings file without extension. A non-zero exit status is
//a failure that carries the status, the standard error and the end of the
//standard output.
type Feram struct {
	Bin   Path
	Input Path
	Dir   string
}

func (f Feram) Name() string { return "Feram" }

func (f Feram) Run(ctx context.Context) Result {
	return guard(ctx, f.Name(), []Path{f.Bin, f.Input}, func() (string, error) {
		input := f.Input.Resolve(ctx)
		dir := f.Dir
		if dir == "" {
			dir = WorkDir(ctx)
		}
		if dir == "" {
			dir = filepath.Dir(input)
		}
		dir, err := filepath.Abs(dir)
		if err != nil {
			return "", err
		}
		bin, err := filepath.Abs(f.Bin.Resolve(ctx))
		if err != nil {
			return "", err
		}
		absInput, err := filepath.Abs(input)
		if err != nil {
			return "", err
		}
		//feram is given the file name when it is in the run directory, since it
		//uses the argument as given to name its outputs.
		arg := absInput
		if rel, err := filepath.Rel(dir, absInput); err == nil && !strings.Contains(rel, string(filepath.Separator)) && rel != ".." {
			arg = rel
		}
		stem := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
		log, err := os.Create(filepath.Join(dir, stem+".stdout"))
		if err != nil {
			return "", err
		}
		defer log.Close()
		var stderr bytes.Buffer
		stdout := newTailWriter(stdoutTail)
		cmd := exec.CommandContext(ctx, bin, arg)
		cmd.Dir = dir
		cmd.Stdout = io.MultiWriter(stdout, log)
		cmd.Stderr = &stderr
		err = cmd.Run()
		if err != nil {
			var exit *exec.ExitError
			if errors.As(err, &exit) && ctx.Err() == nil {
				return "", &ExitError{Code: exit.ExitCode(), Stderr: stderr.String(), Stdout: stdout.String()}
			}
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			return "", err
		}
		return f.Bin.Name + " " + f.Input.Name, nil
	})
}

//tailWriter keeps the last n lines written to it. Longer lines are cut
//to maxTailLine bytes.
type tailWriter struct {
	n       int
	lines   []string
	partial []byte
}

func newTailWriter(n int) *tailWriter {
	return &tailWriter{n: n}
}

func (T *tailWriter) Write(p []byte) (int, error) {
	written := len(p)
	for len(p) > 0 {
		i := bytes.IndexByte(p, '\n')
		if i < 0 {
			T.add(p)
			break
		}
		T.add(p[:i])
		T.lines = append(T.lines, string(T.partial))
		T.partial = T.partial[:0]
		if len(T.lines) > T.n {
			T.lines = append(T.lines[:0], T.lines[len(T.lines)-T.n:]...)
		}
		p = p[i+1:]
	}
	return written, nil
}

func (T *tailWriter) add(p []byte) {
	if room := maxTailLine - len(T.partial); room < len(p) {
		p = p[:max(room, 0)]
	}
	T.partial = append(T.partial, p...)
}

//String returns the kept lines, an unfinished last line included, without
//a final newline.
func (T *tailWriter) String() string {
	lines := T.lines
	if len(T.partial) > 0 {
		lines = append(append([]string(nil), lines...), string(T.partial))
	}
	if len(lines) > T.n {
		lines = lines[len(lines)-T.n:]
	}
	return strings.Join(lines, "\n")
}
