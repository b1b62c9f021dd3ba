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

import "github.com/montanaflynn/stats"

// Summary describes the measured concentrations of a compound for one treatment arm in one time window.
type Summary struct {
	Compound string
	Window   string
	Arm      Arm
	N        int //records in the window and arm
	Missing  int //records without a value
	Detected int //records with a value above 0
	Median   Ratio
	P75      Ratio
	Max      Ratio
}

// Summarize computes the concentration summaries of a compound per time window and treatment arm, in window table
// order and then arm order. Statistics over zero values are undefined.
func Summarize(ds *Dataset, compound string, table WindowTable) ([]Summary, error) {
	idx, err := ds.CompoundIndex(compound)
	if err != nil {
		return nil, err
	}
	result := []Summary{}
	for _, w := range table {
		for _, arm := range []Arm{Placebo, LowDose, HighDose} {
			s := Summary{Compound: compound, Window: w.Label, Arm: arm}
			values := stats.Float64Data{}
			for _, r := range ds.Records {
				if r.Window != w.Label || r.Treatment != arm {
					continue
				}
				s.N++
				if idx >= len(r.Values) || !r.Values[idx].Present {
					s.Missing++
					continue
				}
				if r.Values[idx].Value > 0 {
					s.Detected++
				}
				values = append(values, r.Values[idx].Value)
			}
			if len(values) > 0 {
				s.Median = summaryRatio(stats.Median(values))
				s.P75 = summaryRatio(stats.Percentile(values, 75))
				s.Max = summaryRatio(stats.Max(values))
			}
			result = append(result, s)
		}
	}
	return result, nil
}

func summaryRatio(v float64, err error) Ratio {
	if err != nil {
		return Undefined
	}
	return Defined(v)
}
