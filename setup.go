/*
 * setup.go, part of goferam.
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
	"fmt"
	"reflect"
	"strings"
)

//Method is the integration method used by feram.
type Method string

const (
	MethodMD Method = "md" //molecular dynamics (Nose-Poincare thermostat)
	MethodLF Method = "lf" //leapfrog, constant energy
	MethodVS Method = "vs" //velocity scaling
	MethodHL Method = "hl" //heat-bath (Langevin)
)

//Structure selects between bulk, film and epitaxial geometries.
type Structure string

const (
	Bulk Structure = "bulk"
	Film Structure = "film"
	Epit Structure = "epit"
)

//EWaveType is the shape of a time-dependent external field.
type EWaveType string

const (
	RampOff       EWaveType = "ramping_off"
	RampOn        EWaveType = "ramping_on"
	TriangularSin EWaveType = "triangular_sin"
	TriangularCos EWaveType = "triangular_cos"
)

//Keys used by the control routines. The full set of keys is given by the
//feram tags of the Setup bundles.
const (
	KeyKelvin      = "kelvin"
	KeyThermalize  = "n_thermalize"
	KeyAverage     = "n_average"
	KeyL           = "L"
	KeyDt          = "dt"
	KeyMethod      = "method"
	KeyExternalE   = "external_E_field"
	KeyHLFrequency = "n_hl_freq"
)

//Setup is one bundle of simulation parameters. The set of bundles is closed:
//General, Strain, EFieldStatic, EFieldDynamic and FilmGap. Each field of a bundle
//carries the settings-file key in its feram tag.
type Setup interface {
	setup()
}

//General holds the parameters every simulation needs.
type General struct {
	Method                Method    `feram:"method" yaml:"method"`
	BulkOrFilm            Structure `feram:"bulk_or_film" yaml:"bulk_or_film"`
	L                     Int3      `feram:"L" yaml:"L"`
	Dt                    float64   `feram:"dt" yaml:"dt"`
	GPa                   float64   `feram:"GPa" yaml:"GPa"`
	Kelvin                float64   `feram:"kelvin" yaml:"kelvin"`
	QNose                 float64   `feram:"Q_Nose" yaml:"Q_Nose"`
	Verbose               int       `feram:"verbose" yaml:"verbose"`
	NThermalize           int       `feram:"n_thermalize" yaml:"n_thermalize"`
	NAverage              int       `feram:"n_average" yaml:"n_average"`
	NCoordFreq            int       `feram:"n_coord_freq" yaml:"n_coord_freq"`
	DistributionDirectory string    `feram:"distribution_directory" yaml:"distribution_directory"`
	SliceDirectory        string    `feram:"slice_directory" yaml:"slice_directory"`
	InitDipoAvg           Vec3      `feram:"init_dipo_avg" yaml:"init_dipo_avg"` //[Angstrom] average of the initial dipole displacements
	InitDipoDev           Vec3      `feram:"init_dipo_dev" yaml:"init_dipo_dev"` //[Angstrom] deviation of the initial dipole displacements
}

//DefaultGeneral returns the General bundle with feram's usual production values.
func DefaultGeneral() General {
	return General{
		Method:                MethodMD,
		BulkOrFilm:            Bulk,
		L:                     Int3{36, 36, 36},
		Dt:                    0.002,
		GPa:                   0,
		Kelvin:                300,
		QNose:                 15,
		Verbose:               4,
		NThermalize:           40000,
		NAverage:              20000,
		NCoordFreq:            60000,
		DistributionDirectory: "never",
		SliceDirectory:        "never",
		InitDipoAvg:           Vec3{0, 0, 0},
		InitDipoDev:           Vec3{0.02, 0.02, 0.02},
	}
}

//Strain sets an epitaxial strain.
type Strain struct {
	EpiStrain Vec3 `feram:"epi_strain" yaml:"epi_strain"`
}

//EFieldStatic is a constant external electric field.
type EFieldStatic struct {
	ExternalEField Vec3 `feram:"external_E_field" yaml:"external_E_field"`
}

//EFieldDynamic is a time-dependent external electric field.
type EFieldDynamic struct {
	NEWavePeriod   int       `feram:"n_E_wave_period" yaml:"n_E_wave_period"`
	NHLFreq        int       `feram:"n_hl_freq" yaml:"n_hl_freq"`
	EWaveType      EWaveType `feram:"E_wave_type" yaml:"E_wave_type"`
	ExternalEField Vec3      `feram:"external_E_field" yaml:"external_E_field"`
}

//DefaultEFieldDynamic returns a field ramping off with feram's default output frequency.
func DefaultEFieldDynamic() EFieldDynamic {
	return EFieldDynamic{NHLFreq: 10000, EWaveType: RampOff}
}

//FilmGap sets the vacuum gap of a film geometry.
type FilmGap struct {
	GapID int `feram:"gap_id" yaml:"gap_id"`
}

func (General) setup()       {}
func (Strain) setup()        {}
func (EFieldStatic) setup()  {}
func (EFieldDynamic) setup() {}
func (FilmGap) setup()       {}

//Settings is the flat, ordered result of merging Setup bundles.
//A key keeps the position of its first appearance. The zero value is empty
//and ready to use.
type Settings struct {
	keys []string
	vals map[string]any
}

//MergeSetups flattens each bundle and folds them from left to right. When
//two bundles share a key, the later one wins.
func MergeSetups(setups ...Setup) Settings {
	var S Settings
	for _, s := range setups {
		for _, f := range fields(s) {
			S.set(f.key, f.value)
		}
	}
	return S
}

//Merge returns a new Settings with the values in o overriding those in S.
func (S Settings) Merge(o Settings) Settings {
	ret := S.Clone()
	for _, k := range o.keys {
		ret.set(k, o.vals[k])
	}
	return ret
}

//Clone returns a deep copy of the settings.
func (S Settings) Clone() Settings {
	ret := Settings{keys: make([]string, len(S.keys)), vals: make(map[string]any, len(S.vals))}
	copy(ret.keys, S.keys)
	for k, v := range S.vals {
		ret.vals[k] = v
	}
	return ret
}

//Keys returns the keys in order.
func (S Settings) Keys() []string {
	ret := make([]string, len(S.keys))
	copy(ret, S.keys)
	return ret
}

func (S Settings) Len() int { return len(S.keys) }

//Get returns the value for key, and whether it was present.
func (S Settings) Get(key string) (any, bool) {
	v, ok := S.vals[key]
	return v, ok
}

//Value returns the value for key as it would be written in the settings file.
func (S Settings) Value(key string) (string, bool) {
	v, ok := S.vals[key]
	if !ok {
		return "", false
	}
	return formatValue(v), true
}

//Int returns an integer setting. It is an error if the key is absent or not an integer.
func (S Settings) Int(key string) (int, error) {
	v, ok := S.vals[key]
	if !ok {
		return 0, newError(fmt.Sprintf("%s: %s", MissingKey, key), "", "Settings.Int")
	}
	i, ok := v.(int)
	if !ok {
		return 0, newError(fmt.Sprintf("setting %s is not an integer: %v", key, v), "", "Settings.Int")
	}
	return i, nil
}

//SetKelvin sets the temperature. This is the one parameter the sweeps change
//between runs.
func (S *Settings) SetKelvin(k float64) {
	S.set(KeyKelvin, k)
}

//Apply merges the bundles into the settings, in place.
func (S *Settings) Apply(setups ...Setup) {
	for _, s := range setups {
		for _, f := range fields(s) {
			S.set(f.key, f.value)
		}
	}
}

func (S *Settings) set(key string, v any) {
	if S.vals == nil {
		S.vals = make(map[string]any)
	}
	if _, ok := S.vals[key]; !ok {
		S.keys = append(S.keys, key)
	}
	S.vals[key] = v
}

type field struct {
	key   string
	value any
}

//fields flattens a tagged struct into ordered key/value pairs. Fields tagged
//with omitempty are skipped when they hold the zero value.
func fields(s any) []field {
	v := reflect.ValueOf(s)
	if v.Kind() == reflect.Pointer {
		v = v.Elem()
	}
	t := v.Type()
	ret := make([]field, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		tag, ok := t.Field(i).Tag.Lookup("feram")
		if !ok || tag == "-" {
			continue
		}
		name, opts, _ := strings.Cut(tag, ",")
		fv := v.Field(i)
		if opts == "omitempty" && fv.IsZero() {
			continue
		}
		ret = append(ret, field{key: name, value: plain(fv)})
	}
	return ret
}

//plain strips named string/number types down to their underlying kind,
//so the settings hold only int, float64, string and the vector types.
func plain(v reflect.Value) any {
	switch v.Kind() {
	case reflect.String:
		return v.String()
	case reflect.Int, reflect.Int64, reflect.Int32:
		return int(v.Int())
	case reflect.Float64, reflect.Float32:
		return v.Float()
	case reflect.Bool:
		return v.Bool()
	}
	return v.Interface()
}

func formatValue(v any) string {
	switch t := v.(type) {
	case float64:
		return formatFloat(t)
	case string:
		return t
	case fmt.Stringer:
		return t.String()
	}
	return fmt.Sprint(v)
}
