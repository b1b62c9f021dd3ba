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
	"strconv"

	"gonum.org/v1/gonum/stat/distuv"
)

// Ratio is a derived statistic that is undefined when its denominator is zero.
type Ratio struct {
	Value   float64
	Defined bool
}

// Undefined is the value of statistics with a zero denominator.
var Undefined = Ratio{}

// Defined returns a defined ratio.
func Defined(v float64) Ratio {
	return Ratio{Value: v, Defined: true}
}

func ratio(num, den int) Ratio {
	if den == 0 {
		return Undefined
	}
	return Defined(float64(num) / float64(den))
}

// Format prints the value with the given precision, or NA when undefined.
func (r Ratio) Format(prec int) string {
	if !r.Defined {
		return "NA"
	}
	return strconv.FormatFloat(r.Value, 'f', prec, 64)
}

func (r Ratio) String() string {
	if !r.Defined {
		return "NA"
	}
	return strconv.FormatFloat(r.Value, 'g', -1, 64)
}

// Ptr returns a pointer to the value, nil when undefined.
func (r Ratio) Ptr() *float64 {
	if !r.Defined {
		return nil
	}
	v := r.Value
	return &v
}

// Interval is a two-sided confidence interval.
type Interval struct {
	Lower, Upper Ratio
}

// ConfidenceLevel of the exact intervals reported for Sensitivity and Specificity.
const ConfidenceLevel = 0.95

// ExactInterval computes the Clopper-Pearson interval for k successes in n trials. The interval is undefined for
// n = 0.
func ExactInterval(k, n int, level float64) Interval {
	if n <= 0 || k < 0 || k > n {
		return Interval{}
	}
	alpha := 1 - level
	lower, upper := 0.0, 1.0
	if k > 0 {
		lower = distuv.Beta{Alpha: float64(k), Beta: float64(n - k + 1)}.Quantile(alpha / 2)
	}
	if k < n {
		upper = distuv.Beta{Alpha: float64(k + 1), Beta: float64(n - k)}.Quantile(1 - alpha/2)
	}
	return Interval{Lower: Defined(lower), Upper: Defined(upper)}
}

// Metrics holds the classification quality statistics derived from one confusion matrix.
type Metrics struct {
	Sensitivity   Ratio // TP/(TP+FN)
	Specificity   Ratio // TN/(TN+FP)
	PPV           Ratio // TP/(TP+FP)
	NPV           Ratio // TN/(TN+FN)
	Efficiency    Ratio // 100*(TP+TN)/(TP+FN+FP+TN)
	Youden        Ratio // Sensitivity+Specificity-1
	SensitivityCI Interval
	SpecificityCI Interval
}

// Calculate derives the metrics of a confusion matrix. Every ratio is computed on its own; Youden is only defined
// when both Sensitivity and Specificity are.
func Calculate(m *ConfusionMatrix) Metrics {
	if m.NoData {
		return Metrics{}
	}
	result := Metrics{
		Sensitivity:   ratio(m.TP, m.TP+m.FN),
		Specificity:   ratio(m.TN, m.TN+m.FP),
		PPV:           ratio(m.TP, m.TP+m.FP),
		NPV:           ratio(m.TN, m.TN+m.FN),
		SensitivityCI: ExactInterval(m.TP, m.TP+m.FN, ConfidenceLevel),
		SpecificityCI: ExactInterval(m.TN, m.TN+m.FP, ConfidenceLevel),
	}
	if total := m.Total(); total > 0 {
		result.Efficiency = Defined(100 * float64(m.TP+m.TN) / float64(total))
	}
	if result.Sensitivity.Defined && result.Specificity.Defined {
		result.Youden = Defined(result.Sensitivity.Value + result.Specificity.Value - 1)
	}
	return result
}
