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
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/exascience/pargo/parallel"
)

// Result is one row of the results table: a confusion matrix with its derived metrics.
type Result struct {
	ConfusionMatrix
	Metrics
	Label string //compound name as reported, defaults to the compound column
	order int    //position of the row in the caller's compound x cutoff x window order
}

// Results is the long-format results table consumed by ranking, reporting, and plotting.
type Results []*Result

// validateCutoffs checks that every cutoff is a non-negative number.
func validateCutoffs(cutoffs []float64) error {
	for _, c := range cutoffs {
		if c < 0 || math.IsNaN(c) {
			return fmt.Errorf("%w: %g", ErrNegativeCutoff, c)
		}
	}
	return nil
}

// Sweep builds the confusion matrix and metrics for every compound, cutoff, and time window. Rows are ordered by
// compound, then cutoff, then window, in the order given by the caller. A window without data yields a NoData row with
// undefined metrics; unknown compounds, negative cutoffs, and malformed window tables abort the sweep. The
// (cutoff, window) combinations of a compound are computed in parallel.
func Sweep(ds *Dataset, compounds []string, cutoffs []float64, table WindowTable) (Results, error) {
	builder, err := NewBuilder(ds, table)
	if err != nil {
		return nil, err
	}
	if err := validateCutoffs(cutoffs); err != nil {
		return nil, err
	}
	for _, compound := range compounds {
		if _, err := ds.CompoundIndex(compound); err != nil {
			return nil, err
		}
	}
	results := Results{}
	nofWindows := len(table)
	combinations := len(cutoffs) * nofWindows
	for ci, compound := range compounds {
		if combinations == 0 {
			break
		}
		offset := ci * combinations
		result := parallel.RangeReduce(0, combinations, 0, func(low, high int) interface{} {
			lresults := Results{}
			for i := low; i < high; i++ {
				cutoff := cutoffs[i/nofWindows]
				w := table[i%nofWindows]
				m, err := builder.Build(compound, cutoff, w)
				if err != nil && !errors.Is(err, ErrEmptySlice) {
					panic(err) // validated above
				}
				lresults = append(lresults, &Result{ConfusionMatrix: *m, Metrics: Calculate(m), Label: compound,
					order: offset + i})
			}
			return lresults
		}, func(result1, result2 interface{}) interface{} {
			r1 := result1.(Results)
			r2 := result2.(Results)
			return append(r1, r2...)
		})
		if result != nil {
			results = append(results, result.(Results)...)
		}
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].order < results[j].order
	})
	fmt.Println("Computed ", len(results), " results for matrix ", ds.Matrix, " (", len(compounds), " compounds x ",
		len(cutoffs), " cutoffs x ", nofWindows, " windows).")
	return results, nil
}

// Filter returns the rows that pass keep, in order.
func (rs Results) Filter(keep func(r *Result) bool) Results {
	filtered := Results{}
	for _, r := range rs {
		if keep(r) {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

// Rename replaces the reported compound label of rows whose compound appears in the given map. The compound column
// itself is kept.
func (rs Results) Rename(names map[string]string) {
	for _, r := range rs {
		if name, ok := names[r.Compound]; ok {
			r.Label = name
		}
	}
}
