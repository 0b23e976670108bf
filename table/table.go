//Package table turns parsed feram output into flat rows, and writes them
//as Parquet or CSV.
package table

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/parquet-go/parquet-go"

	feram "github.com/autoferam/goferam"
)

//TimeStepRow is one step of a feram log. Values feram did not print are null.
type TimeStepRow struct {
	Stage          string   `parquet:"stage"`
	TimeStep       int64    `parquet:"time_step"`
	Kelvin         *float64 `parquet:"kelvin,optional"`
	AcouKinetic    *float64 `parquet:"acou_kinetic,optional"`
	DipoKinetic    *float64 `parquet:"dipo_kinetic,optional"`
	ShortRange     *float64 `parquet:"short_range,optional"`
	LongRange      *float64 `parquet:"long_range,optional"`
	DipoleEField   *float64 `parquet:"dipole_E_field,optional"`
	Unharmonic     *float64 `parquet:"unharmonic,optional"`
	HomoStrain     *float64 `parquet:"homo_strain,optional"`
	HomoCoupling   *float64 `parquet:"homo_coupling,optional"`
	InhoStrain     *float64 `parquet:"inho_strain,optional"`
	InhoCoupling   *float64 `parquet:"inho_coupling,optional"`
	InhoModulation *float64 `parquet:"inho_modulation,optional"`
	TotalEnergy    *float64 `parquet:"total_energy,optional"`
	HNosePoincare  *float64 `parquet:"H_Nose_Poincare,optional"`
	SNose          *float64 `parquet:"s_Nose,optional"`
	PiNose         *float64 `parquet:"pi_Nose,optional"`
	Ux             *float64 `parquet:"ux,optional"`
	Uy             *float64 `parquet:"uy,optional"`
	Uz             *float64 `parquet:"uz,optional"`
	USigmaX        *float64 `parquet:"u_sigma_x,optional"`
	USigmaY        *float64 `parquet:"u_sigma_y,optional"`
	USigmaZ        *float64 `parquet:"u_sigma_z,optional"`
	Px             *float64 `parquet:"px,optional"`
	Py             *float64 `parquet:"py,optional"`
	Pz             *float64 `parquet:"pz,optional"`
	PSigmaX        *float64 `parquet:"p_sigma_x,optional"`
	PSigmaY        *float64 `parquet:"p_sigma_y,optional"`
	PSigmaZ        *float64 `parquet:"p_sigma_z,optional"`
}

//FromLog converts the steps of a log into rows labeled with the stage.
func FromLog(stage string, steps []feram.TimeStep) []TimeStepRow {
	ret := make([]TimeStepRow, len(steps))
	for i, s := range steps {
		r := TimeStepRow{
			Stage:          stage,
			TimeStep:       int64(s.TimeStep),
			AcouKinetic:    s.AcouKinetic,
			DipoKinetic:    s.DipoKinetic,
			ShortRange:     s.ShortRange,
			LongRange:      s.LongRange,
			DipoleEField:   s.DipoleEField,
			Unharmonic:     s.Unharmonic,
			HomoStrain:     s.HomoStrain,
			HomoCoupling:   s.HomoCoupling,
			InhoStrain:     s.InhoStrain,
			InhoCoupling:   s.InhoCoupling,
			InhoModulation: s.InhoModulation,
			TotalEnergy:    s.TotalEnergy,
			HNosePoincare:  s.HNosePoincare,
			SNose:          s.SNose,
			PiNose:         s.PiNose,
		}
		if k, ok := s.Kelvin(); ok {
			r.Kelvin = &k
		}
		r.Ux, r.Uy, r.Uz = split(s.U)
		r.USigmaX, r.USigmaY, r.USigmaZ = split(s.USigma)
		r.Px, r.Py, r.Pz = split(s.P)
		r.PSigmaX, r.PSigmaY, r.PSigmaZ = split(s.PSigma)
		ret[i] = r
	}
	return ret
}

func split(v *feram.Vec3) (x, y, z *float64) {
	if v == nil {
		return nil, nil, nil
	}
	c := *v
	return &c[0], &c[1], &c[2]
}

//AvgRow is one run of a sweep, from its line in thermo.avg.
type AvgRow struct {
	Kelvin      float64 `parquet:"kelvin"`
	Ex          float64 `parquet:"Ex"`
	Ey          float64 `parquet:"Ey"`
	Ez          float64 `parquet:"Ez"`
	Ux          float64 `parquet:"ux"`
	Uy          float64 `parquet:"uy"`
	Uz          float64 `parquet:"uz"`
	Px          float64 `parquet:"px"`
	Py          float64 `parquet:"py"`
	Pz          float64 `parquet:"pz"`
	PTotal      float64 `parquet:"p_total"`
	Phase       string  `parquet:"phase"`
	TotalEnergy float64 `parquet:"e_total"`
}

//FromAvg converts .avg lines into rows. The polarization, in micro C/cm^2,
//is the displacement times factor (see feram.Material.PolarizationFactor),
//and the phase is classified with noise as threshold.
func FromAvg(avgs []feram.Avg, factor, noise float64) []AvgRow {
	ret := make([]AvgRow, len(avgs))
	for i, a := range avgs {
		p := a.Polarization(factor)
		ret[i] = AvgRow{
			Kelvin:      a.Kelvin,
			Ex:          a.E[0],
			Ey:          a.E[1],
			Ez:          a.E[2],
			Ux:          a.U[0],
			Uy:          a.U[1],
			Uz:          a.U[2],
			Px:          p[0],
			Py:          p[1],
			Pz:          p[2],
			PTotal:      p.Norm(),
			Phase:       feram.Phase(p, noise),
			TotalEnergy: a.Energies.Total,
		}
	}
	return ret
}

//WriteParquet writes the rows to w as a Parquet file.
func WriteParquet[T any](w io.Writer, rows []T) error {
	return parquet.Write(w, rows)
}

//ReadParquet reads rows written by WriteParquet.
func ReadParquet[T any](path string) ([]T, error) {
	return parquet.ReadFile[T](path)
}

//Record is a row that can be written as CSV.
type Record interface {
	Header() []string
	Record() []string
}

//WriteCSV writes a header and the rows to w.
func WriteCSV[T Record](w io.Writer, rows []T) error {
	cw := csv.NewWriter(w)
	var zero T
	if err := cw.Write(zero.Header()); err != nil {
		return err
	}
	for _, r := range rows {
		if err := cw.Write(r.Record()); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

//WriteFile writes the rows to path, as CSV if path ends in .csv and
//as Parquet otherwise.
func WriteFile[T Record](path string, rows []T) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if strings.HasSuffix(strings.ToLower(path), ".csv") {
		err = WriteCSV(f, rows)
	} else {
		err = WriteParquet(f, rows)
	}
	if err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

var timeStepHeader = []string{"stage", "time_step", "kelvin", "acou_kinetic", "dipo_kinetic",
	"short_range", "long_range", "dipole_E_field", "unharmonic", "homo_strain", "homo_coupling",
	"inho_strain", "inho_coupling", "inho_modulation", "total_energy", "H_Nose_Poincare", "s_Nose",
	"pi_Nose", "ux", "uy", "uz", "u_sigma_x", "u_sigma_y", "u_sigma_z", "px", "py", "pz",
	"p_sigma_x", "p_sigma_y", "p_sigma_z"}

func (TimeStepRow) Header() []string { return timeStepHeader }

//Record gives the values in the order of Header. Null values are empty.
func (r TimeStepRow) Record() []string {
	ret := []string{r.Stage, strconv.FormatInt(r.TimeStep, 10)}
	for _, v := range []*float64{r.Kelvin, r.AcouKinetic, r.DipoKinetic, r.ShortRange, r.LongRange,
		r.DipoleEField, r.Unharmonic, r.HomoStrain, r.HomoCoupling, r.InhoStrain, r.InhoCoupling,
		r.InhoModulation, r.TotalEnergy, r.HNosePoincare, r.SNose, r.PiNose, r.Ux, r.Uy, r.Uz,
		r.USigmaX, r.USigmaY, r.USigmaZ, r.Px, r.Py, r.Pz, r.PSigmaX, r.PSigmaY, r.PSigmaZ} {
		if v == nil {
			ret = append(ret, "")
			continue
		}
		ret = append(ret, ftoa(*v))
	}
	return ret
}

var avgHeader = []string{"kelvin", "Ex", "Ey", "Ez", "ux", "uy", "uz", "px", "py", "pz", "p_total", "phase", "e_total"}

func (AvgRow) Header() []string { return avgHeader }

func (r AvgRow) Record() []string {
	ret := make([]string, 0, len(avgHeader))
	for _, v := range []float64{r.Kelvin, r.Ex, r.Ey, r.Ez, r.Ux, r.Uy, r.Uz, r.Px, r.Py, r.Pz, r.PTotal} {
		ret = append(ret, ftoa(v))
	}
	return append(ret, r.Phase, ftoa(r.TotalEnergy))
}

func ftoa(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
