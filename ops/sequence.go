/*
 * sequence.go, part of goferam.
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
)

//Sequence runs operations in order. It stops at the first failure and
//returns it; the operations after it are not run. If they all succeed,
//the result is that of the last one, and an empty Sequence returns the
//result of Empty. A Sequence is an Operation, so sequences nest.
//
//The result of each operation is handed to the Reporter in the context.
type Sequence []Operation

//Seq builds a sequence.
func Seq(ops ...Operation) Sequence {
	return Sequence(ops)
}

//Concat returns a new sequence with the operations of a followed by those of
//b. It does not modify a or b.
func Concat(a, b Sequence) Sequence {
	ret := make(Sequence, 0, len(a)+len(b))
	ret = append(ret, a...)
	return append(ret, b...)
}

func (s Sequence) Name() string { return "Sequence" }

func (s Sequence) Run(ctx context.Context) Result {
	rep := ReporterFrom(ctx)
	last := Empty{}.Run(ctx)
	for _, op := range s {
		if err := ctx.Err(); err != nil {
			r := Fail(op.Name(), err)
			rep.Report(r)
			return r
		}
		r := op.Run(ctx)
		//nested sequences report their own operations.
		if _, ok := op.(Sequence); !ok {
			rep.Report(r)
		}
		if r.Failed() {
			var e *Error
			if errors.As(r.Err, &e) {
				e.Decorate(s.Name())
			}
			return r
		}
		last = r
	}
	return last
}
