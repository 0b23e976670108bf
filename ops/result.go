/*
 * result.go, part of goferam.
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
)

//Kind tells what sort of operation produced a Result, which decides how
//it is displayed.
type Kind int

const (
	KindOp      Kind = iota //a regular operation
	KindMessage             //an informative message
	KindSuccess             //the closing message of a protocol
)

//Result is the outcome of running an Operation. It is a failure if Err is
//not nil, and a success otherwise. There is no partial success.
type Result struct {
	Op   string //name of the operation
	Msg  string //what was done, for a success
	Kind Kind
	Err  error
}

//Ok builds a successful result.
func Ok(op, msg string) Result {
	return Result{Op: op, Msg: msg}
}

//Fail builds a failed result. If err is not already an *Error, it is wrapped
//in one.
func Fail(op string, err error) Result {
	var e *Error
	if !errors.As(err, &e) {
		e = &Error{Op: op, Err: err}
	}
	return Result{Op: op, Err: e}
}

func failPath(op, path string, err error) Result {
	return Result{Op: op, Err: &Error{Op: op, Path: path, Err: err}}
}

//Failed reports whether the operation failed.
func (R Result) Failed() bool { return R.Err != nil }

//String gives "<Op>: <message>" for a success, and the error for a failure.
func (R Result) String() string {
	if R.Err != nil {
		return R.Err.Error()
	}
	if R.Msg == "" {
		return R.Op
	}
	return R.Op + ": " + R.Msg
}
