/*
 * operation.go, part of goferam.
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
)

//Operation is a deferred unit of work. Building an Operation has no side
//effects; Run performs it.
type Operation interface {
	Name() string
	Run(ctx context.Context) Result
}

//guard checks the paths, and if they all hold, runs fn. The message fn returns
//is the one of the successful result.
func guard(ctx context.Context, name string, paths []Path, fn func() (string, error)) Result {
	if err := checkAll(ctx, paths...); err != nil {
		return Fail(name, err)
	}
	msg, err := fn()
	if err != nil {
		path := ""
		if len(paths) > 0 {
			path = paths[0].Name
		}
		return failPath(name, path, err)
	}
	return Ok(name, msg)
}

//Empty does nothing, successfully.
type Empty struct{}

func (Empty) Name() string                   { return "Empty" }
func (Empty) Run(ctx context.Context) Result { return Ok("Empty", "") }

//Message always succeeds, with the given text. It is used to mark the parts
//of a protocol in its report.
type Message string

func (m Message) Name() string { return "Message" }

func (m Message) Run(ctx context.Context) Result {
	return Result{Op: m.Name(), Msg: string(m), Kind: KindMessage}
}

//Success always succeeds, with the given text. It closes a protocol.
type Success string

func (s Success) Name() string { return "Success" }

func (s Success) Run(ctx context.Context) Result {
	return Result{Op: s.Name(), Msg: string(s), Kind: KindSuccess}
}

//Func adapts a function to an Operation. Its paths are checked before
//Fn is called.
type Func struct {
	Label string
	Paths []Path
	Fn    func(ctx context.Context) (string, error)
}

func (f Func) Name() string { return f.Label }

func (f Func) Run(ctx context.Context) Result {
	return guard(ctx, f.Label, f.Paths, func() (string, error) { return f.Fn(ctx) })
}
