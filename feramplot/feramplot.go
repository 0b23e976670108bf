/*
 * feramplot.go, part of goferam.
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

//Package feramplot draws the usual figures of a feram study with gonum/plot.
package feramplot

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/autoferam/goferam/table"
)

//Default size of the figures.
var (
	Width  = 16 * vg.Centimeter
	Height = 10 * vg.Centimeter
)

func basicPlot(title, x, y string) *plot.Plot {
	p := plot.New()
	p.Title.Padding = 3 * vg.Millimeter
	p.Title.Text = title
	p.X.Label.Text = x
	p.Y.Label.Text = y
	p.Add(plotter.NewGrid())
	p.Legend.Top = true
	return p
}

//PolarizationVsTemperature plots the components of the polarization, and its
//magnitude, against the temperature of each run of a sweep.
func PolarizationVsTemperature(rows []table.AvgRow) (*plot.Plot, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("feramplot: no data to plot")
	}
	sorted := make([]table.AvgRow, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Kelvin < sorted[j].Kelvin })
	p := basicPlot("Polarization", "T (K)", "P (µC/cm²)")
	series := []struct {
		name string
		get  func(table.AvgRow) float64
	}{
		{"Px", func(r table.AvgRow) float64 { return r.Px }},
		{"Py", func(r table.AvgRow) float64 { return r.Py }},
		{"Pz", func(r table.AvgRow) float64 { return r.Pz }},
		{"|P|", func(r table.AvgRow) float64 { return r.PTotal }},
	}
	for i, s := range series {
		xys := make(plotter.XYs, len(sorted))
		for j, r := range sorted {
			xys[j].X = r.Kelvin
			xys[j].Y = s.get(r)
		}
		l, sc, err := plotter.NewLinePoints(xys)
		if err != nil {
			return nil, err
		}
		l.Color = plotutil.Color(i)
		sc.Color = plotutil.Color(i)
		sc.Shape = plotutil.Shape(i)
		p.Add(l, sc)
		p.Legend.Add(s.name, l, sc)
	}
	return p, nil
}

//Evolution plots the temperature, from the dipole kinetic energy, along the
//steps of a multi-stage run, one line per stage. The steps of each stage
//continue those of the previous one. Steps without temperature are skipped.
func Evolution(rows []table.TimeStepRow) (*plot.Plot, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("feramplot: no data to plot")
	}
	p := basicPlot("Temperature evolution", "step", "T (K)")
	var stages []string
	byStage := map[string]plotter.XYs{}
	offset, last := 0.0, 0.0
	cur := ""
	for i, r := range rows {
		if i == 0 || r.Stage != cur {
			if i > 0 {
				offset = last
			}
			cur = r.Stage
			if _, ok := byStage[cur]; !ok {
				stages = append(stages, cur)
			}
		}
		x := offset + float64(r.TimeStep)
		last = x
		if r.Kelvin == nil {
			continue
		}
		byStage[cur] = append(byStage[cur], plotter.XY{X: x, Y: *r.Kelvin})
	}
	for i, st := range stages {
		xys := byStage[st]
		if len(xys) == 0 {
			continue
		}
		l, err := plotter.NewLine(xys)
		if err != nil {
			return nil, err
		}
		l.Color = plotutil.Color(i)
		l.Width = vg.Points(1.5)
		p.Add(l)
		name := st
		if name == "" {
			name = "run"
		}
		p.Legend.Add(name, l)
	}
	return p, nil
}

//Write renders p to w in the given format (png, svg, pdf, eps, jpg or tif).
func Write(w io.Writer, p *plot.Plot, format string) error {
	wt, err := p.WriterTo(Width, Height, format)
	if err != nil {
		return err
	}
	_, err = wt.WriteTo(w)
	return err
}

//Format returns the image format for a file name, from its extension.
//It defaults to png.
func Format(name string) string {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
	switch ext {
	case "svg", "pdf", "eps", "jpg", "jpeg", "tif", "tiff", "png":
		return ext
	}
	return "png"
}
