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
	"math"
	"sort"

	"github.com/exascience/pargo/parallel"
	"github.com/valyala/fastrand"
	"gonum.org/v1/gonum/stat"
)

// BootstrapInterval is a percentile interval of the mean Youden index of a (compound, cutoff) over a range.
type BootstrapInterval struct {
	Lower, Upper Ratio
	Replicates   int //nr of replicates with a defined mean Youden index
}

// resampleSubjects draws len(subjects) subjects with replacement and returns all their records. A subject drawn
// twice contributes its records twice.
func resampleSubjects(ds *Dataset, subjects []string, records map[string][]*Record) *Dataset {
	sample := &Dataset{Matrix: ds.Matrix, Compounds: ds.Compounds, Removed: ds.Removed}
	n := uint32(len(subjects))
	for range subjects {
		id := subjects[fastrand.Uint32n(n)]
		sample.Records = append(sample.Records, records[id]...)
	}
	return sample
}

// meanYouden averages the defined Youden indices of a compound at a cutoff over the windows whose stop is in range.
// It returns NaN when no index is defined.
func meanYouden(b *Builder, compound string, cutoff float64, r Range) float64 {
	js := []float64{}
	for _, w := range b.table {
		if !r.Contains(w.Stop) {
			continue
		}
		m, err := b.Build(compound, cutoff, w)
		if err != nil {
			continue
		}
		if j := Calculate(m).Youden; j.Defined {
			js = append(js, j.Value)
		}
	}
	if len(js) == 0 {
		return math.NaN()
	}
	return stat.Mean(js, nil)
}

// Bootstrap resamples subjects with replacement iter times, recomputes the mean Youden index of the selected
// compound and cutoff over the range, and returns the percentile interval at the given level. Replicates are
// computed in parallel.
func Bootstrap(ds *Dataset, table WindowTable, best Best, r Range, iter int, level float64) (BootstrapInterval, error) {
	if err := table.Validate(); err != nil {
		return BootstrapInterval{}, err
	}
	if _, err := ds.CompoundIndex(best.Compound); err != nil {
		return BootstrapInterval{}, err
	}
	subjects := ds.Subjects()
	if iter <= 0 || len(subjects) == 0 {
		return BootstrapInterval{}, nil
	}
	records := map[string][]*Record{}
	for _, rec := range ds.Records {
		records[rec.ID] = append(records[rec.ID], rec)
	}
	replicates := make([]float64, iter)
	parallel.Range(0, iter, 0, func(low, high int) {
		for i := low; i < high; i++ {
			sample := resampleSubjects(ds, subjects, records)
			replicates[i] = meanYouden(newBuilder(sample, table), best.Compound, best.Cutoff, r)
		}
	})
	defined := []float64{}
	for _, j := range replicates {
		if !math.IsNaN(j) {
			defined = append(defined, j)
		}
	}
	if len(defined) == 0 {
		return BootstrapInterval{}, nil
	}
	sort.Float64s(defined)
	alpha := 1 - level
	return BootstrapInterval{
		Lower:      Defined(stat.Quantile(alpha/2, stat.Empirical, defined, nil)),
		Upper:      Defined(stat.Quantile(1-alpha/2, stat.Empirical, defined, nil)),
		Replicates: len(defined),
	}, nil
}
