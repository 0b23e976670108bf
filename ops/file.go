/*
 * file.go, part of goferam.
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
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

//MkDirs creates a directory and any missing parents. It succeeds if the
//directory already exists, unless Dir was built with DirAbsent.
type MkDirs struct {
	Dir Path
}

func (m MkDirs) Name() string { return "MkDirs" }

func (m MkDirs) Run(ctx context.Context) Result {
	return guard(ctx, m.Name(), []Path{m.Dir}, func() (string, error) {
		return m.Dir.Name, os.MkdirAll(m.Dir.Resolve(ctx), 0755)
	})
}

//Remove deletes a file.
type Remove struct {
	File Path
}

func (r Remove) Name() string { return "Remove" }

func (r Remove) Run(ctx context.Context) Result {
	return guard(ctx, r.Name(), []Path{r.File}, func() (string, error) {
		return r.File.Name, os.Remove(r.File.Resolve(ctx))
	})
}

//Rename moves a file or directory.
type Rename struct {
	Src, Dst Path
}

func (r Rename) Name() string { return "Rename" }

func (r Rename) Run(ctx context.Context) Result {
	return guard(ctx, r.Name(), []Path{r.Src, r.Dst}, func() (string, error) {
		return arrow(r.Src, r.Dst), os.Rename(r.Src.Resolve(ctx), r.Dst.Resolve(ctx))
	})
}

//Copy copies a file. The copy keeps the mode and modification time of the original.
type Copy struct {
	Src, Dst Path
}

func (c Copy) Name() string { return "Copy" }

func (c Copy) Run(ctx context.Context) Result {
	return guard(ctx, c.Name(), []Path{c.Src, c.Dst}, func() (string, error) {
		return arrow(c.Src, c.Dst), copyFile(c.Src.Resolve(ctx), c.Dst.Resolve(ctx))
	})
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	fi, err := in.Stat()
	if err != nil {
		return err
	}
	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, fi.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	if err := os.Chmod(dst, fi.Mode().Perm()); err != nil {
		return err
	}
	return os.Chtimes(dst, fi.ModTime(), fi.ModTime())
}

//Append adds the contents of Src at the end of Dst, creating Dst if needed.
type Append struct {
	Src, Dst Path
}

func (a Append) Name() string { return "Append" }

func (a Append) Run(ctx context.Context) Result {
	return guard(ctx, a.Name(), []Path{a.Src, a.Dst}, func() (string, error) {
		return arrow(a.Src, a.Dst), appendFile(a.Src.Resolve(ctx), a.Dst.Resolve(ctx))
	})
}

func appendFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

//Write writes the text returned by Content to File. Content is only called
//when the operation runs, so it sees the state at that moment.
type Write struct {
	File    Path
	Content func() string
}

func (w Write) Name() string { return "Write" }

func (w Write) Run(ctx context.Context) Result {
	return guard(ctx, w.Name(), []Path{w.File}, func() (string, error) {
		return w.File.Name, os.WriteFile(w.File.Resolve(ctx), []byte(w.Content()), 0644)
	})
}

//WriteTable creates File and hands it to Write, which is only called when the
//operation runs. It is meant for output produced from other files, such as
//tables and plots, that only exist by then. If Write fails, the partial
//file is removed.
type WriteTable struct {
	File  Path
	Write func(w io.Writer) error
}

func (w WriteTable) Name() string { return "WriteTable" }

func (w WriteTable) Run(ctx context.Context) Result {
	return guard(ctx, w.Name(), []Path{w.File}, func() (string, error) {
		name := w.File.Resolve(ctx)
		f, err := os.Create(name)
		if err != nil {
			return "", err
		}
		if err := w.Write(f); err != nil {
			f.Close()
			os.Remove(name)
			return "", err
		}
		return w.File.Name, f.Close()
	})
}

//WithDir runs Op with Dir as the working directory for its relative paths.
//Unlike changing the process directory, this only affects Op.
type WithDir struct {
	Dir Path
	Op  Operation
}

func (w WithDir) Name() string { return "WithDir" }

func (w WithDir) Run(ctx context.Context) Result {
	if err := w.Dir.Check(ctx); err != nil {
		return Fail(w.Name(), err)
	}
	dir, err := filepath.Abs(w.Dir.Resolve(ctx))
	if err != nil {
		return failPath(w.Name(), w.Dir.Name, err)
	}
	r := w.Op.Run(withWorkDir(ctx, dir))
	if r.Failed() {
		var e *Error
		if errors.As(r.Err, &e) {
			e.Decorate(w.Name())
		}
		return r
	}
	return Ok(w.Name(), fmt.Sprintf("%s (%s)", w.Dir.Name, r))
}

func arrow(src, dst Path) string {
	return src.Name + " >> " + dst.Name
}
