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

//Package feram prepares input for, and reads the output of, feram, the
//molecular-dynamics simulator for ferroelectrics built on first-principles
//effective Hamiltonians.
//
//The package models a simulation as a set of typed Setup bundles merged into
//flat Settings, plus a Material with the Hamiltonian parameters. Together they
//form a FeramConfig, which renders the simulator's settings file. On the
//output side there are readers for the per-step log, the .avg summaries and
//the .coord/.dipoRavg lattice snapshots, as well as generators for the
//auxiliary input files (local fields, defects, superlattice modulation).
//
//Running the simulator and moving its files around is the job of the
//subpackages ops (single operations and sequences of them) and control
//(complete protocols such as temperature sweeps and the electrocaloric
//measurement).
package feram
