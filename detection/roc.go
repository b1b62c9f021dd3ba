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

package detection

import (
	"gonum.org/v1/gonum/integrate"
	"gonum.org/v1/gonum/stat"
)

// Curve is the receiver operating characteristic of a compound in one time window. The ground truth follows the
// labeling policy: samples of a post-exposure window are positive when their arm is exposed, baseline samples are
// negative and are pooled into every post-exposure window.
type Curve struct {
	Compound   string
	Window     Window
	TPR, FPR   []float64
	Thresholds []float64
	AUC        Ratio
	Positives  int
	Negatives  int
}

// ROC computes the ROC curve and its area for a compound in a time window. The curve is empty and the area undefined
// when either class has no samples.
func (b *Builder) ROC(compound string, w Window) (Curve, error) {
	idx, err := b.ds.CompoundIndex(compound)
	if err != nil {
		return Curve{}, err
	}
	curve := Curve{Compound: compound, Window: w}
	var y []float64
	var classes []bool
	collect := func(label string, baseline bool) {
		for _, r := range b.ds.Records {
			if r.Window != label || idx >= len(r.Values) || !r.Values[idx].Present {
				continue
			}
			positive := !baseline && r.Treatment.Exposed()
			if positive {
				curve.Positives++
			} else {
				curve.Negatives++
			}
			y = append(y, r.Values[idx].Value)
			classes = append(classes, positive)
		}
	}
	collect(w.Label, w.PreExposure())
	if !w.PreExposure() {
		for _, label := range b.preLabels {
			collect(label, true)
		}
	}
	if curve.Positives == 0 || curve.Negatives == 0 {
		return curve, nil
	}
	stat.SortWeightedLabeled(y, classes, nil)
	curve.TPR, curve.FPR, curve.Thresholds = stat.ROC(nil, y, classes, nil)
	curve.AUC = Defined(integrate.Trapezoidal(curve.FPR, curve.TPR))
	return curve, nil
}
