/*
 * errors.go, part of goferam.
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
	"errors"
	"fmt"
	"strings"
)

//Sentinel errors. Failures of operations wrap one of these when they apply,
//so they can be tested with errors.Is.
var (
	ErrNotFile       = errors.New("no such file")
	ErrNotDir        = errors.New("no such directory")
	ErrExists        = errors.New("already exists")
	ErrNotExecutable = errors.New("not executable")
	ErrExitStatus    = errors.New("non-zero exit status")
)

//Error is the error of a failed operation.
type Error struct {
	Op   string //name of the operation
	Path string //the main path involved, if any
	Msg  string
	Err  error //the cause
	deco []string
}

func (err *Error) Error() string {
	var b strings.Builder
	b.WriteString(err.Op)
	b.WriteString(": ")
	if err.Msg != "" {
		b.WriteString(err.Msg)
		if err.Err != nil {
			b.WriteString(": ")
		}
	}
	if err.Err != nil {
		b.WriteString(err.Err.Error())
	}
	return b.String()
}

func (err *Error) Unwrap() error { return err.Err }

//Trace returns the operations the error went through on its way up, the
//innermost first.
func (err *Error) Trace() []string { return err.Decorate("") }

//Decorate adds the name of an enclosing operation to the trace and returns
//the trace. An empty string just returns it.
func (err *Error) Decorate(deco string) []string {
	if deco != "" {
		err.deco = append(err.deco, deco)
	}
	return err.deco
}

//ExitError is the cause of a Feram failure when the process ran but did not
//exit with status 0.
type ExitError struct {
	Code   int
	Stderr string
	Stdout string //the last lines of the standard output
}

func (err *ExitError) Error() string {
	msg := fmt.Sprintf("[%d]", err.Code)
	if s := strings.TrimSpace(err.Stderr); s != "" {
		msg += " " + s
	}
	if s := strings.TrimSpace(err.Stdout); s != "" {
		msg += "\n" + s
	}
	return msg
}

func (err *ExitError) Is(target error) bool { return target == ErrExitStatus }
