/*
 * doc.go, part of goferam.
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

//Package ops provides the small operations that, chained, drive a feram
//simulation: making directories, moving the simulator's output around,
//writing inputs and tables, archiving and running the simulator itself.
//
//An Operation does nothing when built. Its Run method first checks the
//preconditions of every path it involves, then performs its effect only if
//all of them hold, and returns a Result. A Sequence runs operations in order
//and stops at the first failure, which becomes its own result.
//
//Relative paths are taken relative to the working directory carried by the
//context (see WithDir), never to the process working directory, which this
//package does not change.
package ops
