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
	"fmt"

	"gonum.org/v1/gonum/stat"
)

// Range is a closed interval of elapsed minutes used to select the time windows that are averaged for ranking.
type Range struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// Contains reports whether a window stop falls within the range.
func (r Range) Contains(stop float64) bool {
	return stop >= r.Min && stop <= r.Max
}

// CutoffScore is the Youden index of a compound at a cutoff averaged over the windows of a range.
type CutoffScore struct {
	Compound   string
	Cutoff     float64
	MeanYouden float64
	Windows    int //nr of windows with a defined Youden index
}

// Best is the selected (compound, cutoff) combination of a biological matrix.
type Best struct {
	Matrix string
	Label  string //reported compound name
	CutoffScore
}

// ScoreCutoffs averages, per cutoff, the defined Youden indices of a compound over all windows whose stop falls in
// the range. Undefined indices are left out of the mean; cutoffs without any defined index are left out. Scores are
// returned in order of first occurrence of the cutoff in the results.
func ScoreCutoffs(rs Results, matrix, compound string, r Range) []CutoffScore {
	cutoffs := []float64{}
	youdens := map[float64][]float64{}
	for _, row := range rs {
		if row.Matrix != matrix || row.Compound != compound {
			continue
		}
		if _, ok := youdens[row.Cutoff]; !ok {
			cutoffs = append(cutoffs, row.Cutoff)
			youdens[row.Cutoff] = []float64{}
		}
		if !r.Contains(row.Window.Stop) || !row.Youden.Defined {
			continue
		}
		youdens[row.Cutoff] = append(youdens[row.Cutoff], row.Youden.Value)
	}
	scores := []CutoffScore{}
	for _, c := range cutoffs {
		js := youdens[c]
		if len(js) == 0 {
			continue
		}
		scores = append(scores, CutoffScore{Compound: compound, Cutoff: c, MeanYouden: stat.Mean(js, nil),
			Windows: len(js)})
	}
	return scores
}

// better reports whether score a ranks above b: higher mean, then lower cutoff.
func better(a, b CutoffScore) bool {
	if a.MeanYouden != b.MeanYouden {
		return a.MeanYouden > b.MeanYouden
	}
	return a.Cutoff < b.Cutoff
}

// SelectCutoff returns the cutoff with the maximal mean Youden index for a compound. Among tied maxima the lower
// cutoff wins.
func SelectCutoff(rs Results, matrix, compound string, r Range) (Best, error) {
	scores := ScoreCutoffs(rs, matrix, compound, r)
	if len(scores) == 0 {
		return Best{}, fmt.Errorf("%s %s in [%g, %g]: %w", matrix, compound, r.Min, r.Max, ErrNoRankable)
	}
	best := scores[0]
	for _, s := range scores[1:] {
		if better(s, best) {
			best = s
		}
	}
	return Best{Matrix: matrix, Label: labelOf(rs, matrix, compound), CutoffScore: best}, nil
}

// SelectBest returns the best (compound, cutoff) of a matrix over the given compounds. Ties go to the lower cutoff,
// then to the compound listed first.
func SelectBest(rs Results, matrix string, compounds []string, r Range) (Best, error) {
	var best Best
	found := false
	for _, compound := range compounds {
		b, err := SelectCutoff(rs, matrix, compound, r)
		if err != nil {
			continue
		}
		if !found || better(b.CutoffScore, best.CutoffScore) {
			best = b
			found = true
		}
	}
	if !found {
		return Best{}, fmt.Errorf("%s in [%g, %g]: %w", matrix, r.Min, r.Max, ErrNoRankable)
	}
	return best, nil
}

func labelOf(rs Results, matrix, compound string) string {
	for _, row := range rs {
		if row.Matrix == matrix && row.Compound == compound && row.Label != "" {
			return row.Label
		}
	}
	return compound
}
