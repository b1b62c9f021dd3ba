// BIOROC: Biomarker Cutoff Analysis Tool
// Copyright (c) 2022 imec vzw.

// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version, and Additional Terms
// (see below).

// This program is distributed in the hope that it will be useful, but
// WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Affero General Public License for more details.

// You should have received a copy of the GNU Affero General Public
// License and Additional Terms along with this program. If not, see
// <https://github.com/ExaScience/ptra/blob/master/LICENSE.txt>.

package charts

import (
	"errors"
	"fmt"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"bioroc/detection"
)

// ErrNothingToPlot is returned when no defined values are available for a chart.
var ErrNothingToPlot = errors.New("nothing to plot")

const (
	width  = 8 * vg.Inch
	height = 5 * vg.Inch
)

// YoudenByWindow plots the Youden index of a compound over the time windows, one line per cutoff. Undefined indices
// are left out of the lines. The image format is derived from the file extension.
func YoudenByWindow(results detection.Results, matrix, compound, file string) error {
	windows := []string{}
	windowIndex := map[string]int{}
	cutoffs := []float64{}
	lines := map[float64]plotter.XYs{}
	for _, r := range results {
		if r.Matrix != matrix || r.Compound != compound {
			continue
		}
		if _, ok := windowIndex[r.Window.Label]; !ok {
			windowIndex[r.Window.Label] = len(windows)
			windows = append(windows, r.Window.Label)
		}
		if _, ok := lines[r.Cutoff]; !ok {
			cutoffs = append(cutoffs, r.Cutoff)
			lines[r.Cutoff] = plotter.XYs{}
		}
		if r.Youden.Defined {
			lines[r.Cutoff] = append(lines[r.Cutoff], plotter.XY{X: float64(windowIndex[r.Window.Label]),
				Y: r.Youden.Value})
		}
	}
	if len(windows) == 0 {
		return fmt.Errorf("%s %s: %w", matrix, compound, ErrNothingToPlot)
	}
	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s %s: Youden index per time window", matrix, compound)
	p.X.Label.Text = "time window"
	p.Y.Label.Text = "Youden J"
	p.Y.Min, p.Y.Max = -1, 1
	p.NominalX(windows...)
	args := []interface{}{}
	for _, c := range cutoffs {
		if len(lines[c]) == 0 {
			continue
		}
		args = append(args, "cutoff "+strconv.FormatFloat(c, 'f', -1, 64), lines[c])
	}
	if len(args) == 0 {
		return fmt.Errorf("%s %s: %w", matrix, compound, ErrNothingToPlot)
	}
	if err := plotutil.AddLinePoints(p, args...); err != nil {
		return err
	}
	return p.Save(width, height, file)
}

// ROCCurves plots the ROC curves of a compound, one per time window with a defined area under the curve.
func ROCCurves(curves []detection.Curve, matrix, compound, file string) error {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s %s: ROC per time window", matrix, compound)
	p.X.Label.Text = "1 - specificity"
	p.Y.Label.Text = "sensitivity"
	p.X.Min, p.X.Max = 0, 1
	p.Y.Min, p.Y.Max = 0, 1
	diagonal := plotter.NewFunction(func(x float64) float64 { return x })
	diagonal.Dashes = []vg.Length{vg.Points(2), vg.Points(2)}
	p.Add(diagonal)
	args := []interface{}{}
	for _, c := range curves {
		if !c.AUC.Defined {
			continue
		}
		xys := make(plotter.XYs, len(c.FPR))
		for i := range c.FPR {
			xys[i] = plotter.XY{X: c.FPR[i], Y: c.TPR[i]}
		}
		args = append(args, fmt.Sprintf("%s (AUC %s)", c.Window.Label, c.AUC.Format(2)), xys)
	}
	if len(args) == 0 {
		return fmt.Errorf("%s %s: %w", matrix, compound, ErrNothingToPlot)
	}
	if err := plotutil.AddLines(p, args...); err != nil {
		return err
	}
	return p.Save(width, height, file)
}
