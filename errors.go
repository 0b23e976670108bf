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

package feram

import "fmt"

//Error is the error type returned by the readers and writers of this package.
//Like the other errors in the library, it carries a trace of the functions it
//went through, which can be extended with Decorate as it travels up.
type Error struct {
	message  string
	filename string //the file with problems, or empty string if none.
	deco     []string
	critical bool
}

func (err *Error) Error() string {
	if err.filename == "" {
		return fmt.Sprintf("feram error: %s", err.message)
	}
	return fmt.Sprintf("feram file %s error: %s", err.filename, err.message)
}

//Decorate adds new information to the error and returns the current trace,
//the function where the error happened first. An empty string just returns
//the trace.
func (err *Error) Decorate(deco string) []string {
	if deco != "" {
		err.deco = append(err.deco, deco)
	}
	return err.deco
}

//FileName returns the file associated to the error, if any.
func (err *Error) FileName() string { return err.filename }

//Critical returns true if the error is critical, false otherwise
func (err *Error) Critical() bool { return err.critical }

const (
	UnableToOpen  = "Unable to open file"
	WrongFormat   = "Wrong format in file"
	MissingKey    = "Required setting missing"
	NoDomains     = "No domains given"
	BadLattice    = "Ill-formed lattice"
	UnknownMatter = "Unknown material"
)

func newError(message, filename, caller string) *Error {
	return &Error{message: message, filename: filename, deco: []string{caller}, critical: true}
}

//errDecorate decorates err with the caller's name if err is an *Error,
//and returns it unchanged otherwise.
func errDecorate(err error, caller string) error {
	if e, ok := err.(*Error); ok {
		e.Decorate(caller)
		return e
	}
	return err
}
