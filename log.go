/*
 * log.go, part of goferam.
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

import (
	"os"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/stat"
)

//Boltzmann constant in eV/K
const KB = 8.617e-5

//TimeStep is one entry of a feram log. Energies are in eV per unit cell.
//Any field feram did not print for that step is nil.
type TimeStep struct {
	TimeStep       int
	AcouKinetic    *float64
	DipoKinetic    *float64
	ShortRange     *float64
	LongRange      *float64
	DipoleEField   *float64
	Unharmonic     *float64
	HomoStrain     *float64
	HomoCoupling   *float64
	InhoStrain     *float64
	InhoCoupling   *float64
	InhoModulation *float64
	TotalEnergy    *float64
	HNosePoincare  *float64
	SNose          *float64
	PiNose         *float64
	U              *Vec3
	USigma         *Vec3
	P              *Vec3
	PSigma         *Vec3
}

//Kelvin returns the temperature that corresponds to the dipole kinetic energy
//of the step, dipo_kinetic / (3/2 kB). The second value is false if the
//kinetic energy is not known.
func (T TimeStep) Kelvin() (float64, bool) {
	if T.DipoKinetic == nil {
		return 0, false
	}
	return *T.DipoKinetic / (1.5 * KB), true
}

//scalarTags maps each scalar tag in the log to the field it fills.
var scalarTags = []struct {
	tag string
	f   func(*TimeStep) **float64
}{
	{"acou_kinetic", func(t *TimeStep) **float64 { return &t.AcouKinetic }},
	{"dipo_kinetic", func(t *TimeStep) **float64 { return &t.DipoKinetic }},
	{"short_range", func(t *TimeStep) **float64 { return &t.ShortRange }},
	{"long_range", func(t *TimeStep) **float64 { return &t.LongRange }},
	{"dipole_E_field", func(t *TimeStep) **float64 { return &t.DipoleEField }},
	{"unharmonic", func(t *TimeStep) **float64 { return &t.Unharmonic }},
	{"homo_strain", func(t *TimeStep) **float64 { return &t.HomoStrain }},
	{"homo_coupling", func(t *TimeStep) **float64 { return &t.HomoCoupling }},
	{"inho_strain", func(t *TimeStep) **float64 { return &t.InhoStrain }},
	{"inho_coupling", func(t *TimeStep) **float64 { return &t.InhoCoupling }},
	{"inho_modulation", func(t *TimeStep) **float64 { return &t.InhoModulation }},
	{"total_energy", func(t *TimeStep) **float64 { return &t.TotalEnergy }},
	{"H_Nose_Poincare", func(t *TimeStep) **float64 { return &t.HNosePoincare }},
	{"s_Nose", func(t *TimeStep) **float64 { return &t.SNose }},
	{"pi_Nose", func(t *TimeStep) **float64 { return &t.PiNose }},
}

const (
	stepStart = "TIME_STEP"
	stepEnd   = "TIME_STEP_END"
)

//ReadLog reads and parses the feram log in path.
func ReadLog(path string) ([]TimeStep, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, newError(UnableToOpen+": "+err.Error(), path, "ReadLog")
	}
	return ParseLog(string(b)), nil
}

//ParseLog returns one TimeStep per TIME_STEP ... TIME_STEP_END section of
//the log, in the order they appear. The fields are searched by their tag,
//so their order within a section does not matter. A field that is missing or
//does not parse is left nil. Sections without a step number are skipped, as
//is a last section with no end marker.
func ParseLog(log string) []TimeStep {
	var ret []TimeStep
	rest := log
	for {
		start := indexToken(rest, stepStart)
		if start < 0 {
			break
		}
		rest = rest[start+len(stepStart):]
		end := indexToken(rest, stepEnd)
		if end < 0 {
			break
		}
		section := rest[:end]
		rest = rest[end+len(stepEnd):]
		ts, ok := parseSection(section)
		if ok {
			ret = append(ret, ts)
		}
	}
	return ret
}

//parseSection reads the body of a section, the text right after the
//TIME_STEP marker.
func parseSection(s string) (TimeStep, bool) {
	var ts TimeStep
	toks := valueTokens(s, 1)
	if len(toks) == 0 {
		return ts, false
	}
	n, err := strconv.Atoi(toks[0])
	if err != nil {
		return ts, false
	}
	ts.TimeStep = n
	for _, st := range scalarTags {
		i := indexToken(s, st.tag)
		if i < 0 {
			continue
		}
		v := valueTokens(s[i+len(st.tag):], 1)
		if len(v) == 0 {
			continue
		}
		if f, err := strconv.ParseFloat(v[0], 64); err == nil {
			*st.f(&ts) = &f
		}
	}
	ui := indexToken(s, "<u>")
	pi := indexToken(s, "<p>")
	if ui >= 0 {
		after := s[ui+len("<u>"):]
		ts.U = vector(after)
		//the sigma of u comes before <p>, when there is one.
		if pi > ui {
			after = s[ui+len("<u>") : pi]
		}
		ts.USigma = sigma(after)
	}
	if pi >= 0 {
		after := s[pi+len("<p>"):]
		ts.P = vector(after)
		ts.PSigma = sigma(after)
	}
	return ts, true
}

func sigma(s string) *Vec3 {
	i := indexToken(s, "sigma")
	if i < 0 {
		return nil
	}
	return vector(s[i+len("sigma"):])
}

//vector reads 3 floats after an optional "=".
func vector(s string) *Vec3 {
	toks := valueTokens(s, 3)
	if len(toks) < 3 {
		return nil
	}
	var v Vec3
	for i := range v {
		f, err := strconv.ParseFloat(toks[i], 64)
		if err != nil {
			return nil
		}
		v[i] = f
	}
	return &v
}

//valueTokens returns up to n whitespace-separated tokens from the start of s,
//skipping one leading "=" if present.
func valueTokens(s string, n int) []string {
	s = strings.TrimLeft(s, " \t")
	if strings.HasPrefix(s, "=") {
		s = s[1:]
	}
	//values never span more than the current line
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[:nl]
	}
	f := strings.Fields(s)
	if len(f) > n {
		f = f[:n]
	}
	return f
}

func isIdent(c byte) bool {
	return c == '_' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

//indexToken is like strings.Index, but only matches tok where it is not
//part of a longer identifier, so "TIME_STEP" does not match "TIME_STEP_END"
//and "sigma" does not match "u_sigma".
func indexToken(s, tok string) int {
	off := 0
	for {
		i := strings.Index(s[off:], tok)
		if i < 0 {
			return -1
		}
		i += off
		j := i + len(tok)
		before := i == 0 || !isIdent(s[i-1]) || !isIdent(tok[0])
		after := j == len(s) || !isIdent(s[j]) || !isIdent(tok[len(tok)-1])
		if before && after {
			return i
		}
		off = i + 1
	}
}

//LogSummary holds the averages of a set of time steps.
type LogSummary struct {
	Steps        int
	Kelvin       float64
	KelvinStd    float64
	TotalEnergy  float64
	EnergyStd    float64
	U            Vec3
	LastTimeStep int
}

//Summarize averages the temperature, total energy and displacement over the
//given steps. Steps that lack a value do not count for that value's average.
func Summarize(steps []TimeStep) LogSummary {
	var k, e []float64
	var ux, uy, uz []float64
	ret := LogSummary{Steps: len(steps)}
	for _, s := range steps {
		if v, ok := s.Kelvin(); ok {
			k = append(k, v)
		}
		if s.TotalEnergy != nil {
			e = append(e, *s.TotalEnergy)
		}
		if s.U != nil {
			ux = append(ux, s.U[0])
			uy = append(uy, s.U[1])
			uz = append(uz, s.U[2])
		}
		ret.LastTimeStep = s.TimeStep
	}
	if len(k) > 0 {
		ret.Kelvin, ret.KelvinStd = meanStd(k)
	}
	if len(e) > 0 {
		ret.TotalEnergy, ret.EnergyStd = meanStd(e)
	}
	if len(ux) > 0 {
		ret.U = Vec3{stat.Mean(ux, nil), stat.Mean(uy, nil), stat.Mean(uz, nil)}
	}
	return ret
}

//meanStd is stat.MeanStdDev, but with a zero deviation for a single value.
func meanStd(x []float64) (float64, float64) {
	if len(x) == 1 {
		return x[0], 0
	}
	return stat.MeanStdDev(x, nil)
}
