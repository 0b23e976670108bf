/*
 * path.go, part of goferam.
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
	"os"
	"path/filepath"
)

//A Precondition checks a path before it is used. It returns nil if the path
//is fine, or an error that says what is wrong. It must not panic.
type Precondition func(path string) error

//FileExists requires a regular file.
func FileExists(path string) error {
	fi, err := os.Stat(path)
	if err != nil || !fi.Mode().IsRegular() {
		return fmt.Errorf("%w: '%s'", ErrNotFile, path)
	}
	return nil
}

//DirExists requires a directory.
func DirExists(path string) error {
	fi, err := os.Stat(path)
	if err != nil || !fi.IsDir() {
		return fmt.Errorf("%w: '%s'", ErrNotDir, path)
	}
	return nil
}

//DirAbsent requires that nothing exists at path.
func DirAbsent(path string) error {
	if _, err := os.Lstat(path); err == nil {
		return fmt.Errorf("directory %w: '%s'", ErrExists, path)
	}
	return nil
}

//Executable requires a file with at least one execute bit set.
func Executable(path string) error {
	fi, err := os.Stat(path)
	if err != nil || fi.IsDir() || fi.Mode().Perm()&0111 == 0 {
		return fmt.Errorf("%w: '%s'", ErrNotExecutable, path)
	}
	return nil
}

//Role says what an operation does with a path.
type Role int

const (
	RoleFileIn Role = iota
	RoleFileOut
	RoleDirIn
	RoleDirOut
	RoleExec
)

func (r Role) String() string {
	switch r {
	case RoleFileIn:
		return "FileIn"
	case RoleFileOut:
		return "FileOut"
	case RoleDirIn:
		return "DirIn"
	case RoleDirOut:
		return "DirOut"
	case RoleExec:
		return "Exec"
	}
	return fmt.Sprintf("Role(%d)", int(r))
}

//Path is a file system path together with its role and the preconditions
//to check before using it. Build it with FileIn, FileOut, DirIn, DirOut or
//Exec, which set the default checks for the role.
type Path struct {
	Name string
	Role Role
	Pre  []Precondition
}

func newPath(name string, role Role, defaults []Precondition, extra []Precondition) Path {
	pre := make([]Precondition, 0, len(defaults)+len(extra))
	pre = append(pre, defaults...)
	pre = append(pre, extra...)
	return Path{Name: name, Role: role, Pre: pre}
}

//FileIn is a file to be read. It must exist.
func FileIn(name string, extra ...Precondition) Path {
	return newPath(name, RoleFileIn, []Precondition{FileExists}, extra)
}

//FileOut is a file to be written.
func FileOut(name string, extra ...Precondition) Path {
	return newPath(name, RoleFileOut, nil, extra)
}

//DirIn is a directory to be read. It must exist.
func DirIn(name string, extra ...Precondition) Path {
	return newPath(name, RoleDirIn, []Precondition{DirExists}, extra)
}

//DirOut is a directory to be created or written to.
func DirOut(name string, extra ...Precondition) Path {
	return newPath(name, RoleDirOut, nil, extra)
}

//Exec is a program to run. It must be an executable file.
func Exec(name string, extra ...Precondition) Path {
	return newPath(name, RoleExec, []Precondition{FileExists, Executable}, extra)
}

func (P Path) String() string { return P.Name }

//Resolve returns the path as the operations use it: relative paths are
//taken relative to the working directory in ctx, if there is one.
func (P Path) Resolve(ctx context.Context) string {
	if filepath.IsAbs(P.Name) {
		return P.Name
	}
	if wd := WorkDir(ctx); wd != "" {
		return filepath.Join(wd, P.Name)
	}
	return P.Name
}

//Check runs every precondition of the path, resolved against ctx, and
//returns all the failures joined, or nil.
func (P Path) Check(ctx context.Context) error {
	name := P.Resolve(ctx)
	var errs []error
	for _, pre := range P.Pre {
		if err := pre(name); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

//checkAll checks all the paths, and returns every failure, not only the first.
func checkAll(ctx context.Context, paths ...Path) error {
	var errs []error
	for _, p := range paths {
		if err := p.Check(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

type ctxKey int

const (
	workDirKey ctxKey = iota
	reporterKey
)

//WorkDir returns the working directory set in ctx by WithDir, or "" if none is.
func WorkDir(ctx context.Context) string {
	wd, _ := ctx.Value(workDirKey).(string)
	return wd
}

func withWorkDir(ctx context.Context, dir string) context.Context {
	return context.WithValue(ctx, workDirKey, dir)
}
