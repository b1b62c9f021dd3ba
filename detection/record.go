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
)

// Treatment arms. The arm of a subject is the ground truth for post-exposure samples: any arm other than Placebo is
// a truly exposed subject.
type Arm int

const (
	Placebo Arm = iota
	LowDose
	HighDose
)

func (a Arm) String() string {
	switch a {
	case Placebo:
		return "Placebo"
	case LowDose:
		return "LowDose"
	case HighDose:
		return "HighDose"
	default:
		return fmt.Sprintf("Arm(%d)", int(a))
	}
}

// Exposed reports whether subjects in this arm received the compound.
func (a Arm) Exposed() bool {
	return a != Placebo
}

// Sentinel errors. Row level conditions are recoverable, the others abort a sweep.
var (
	ErrOutOfRangeTime   = errors.New("elapsed time outside all time windows")
	ErrEmptySlice       = errors.New("no complete-case records in time window")
	ErrUnknownCompound  = errors.New("unknown compound column")
	ErrMalformedWindows = errors.New("malformed time window table")
	ErrNegativeCutoff   = errors.New("negative cutoff")
	ErrNoRankable       = errors.New("no defined Youden index in ranking range")
)

// Measurement is a compound concentration. Present is false when the compound was not measured for the sample.
type Measurement struct {
	Value   float64
	Present bool
}

// Missing is the measurement used for samples without a value.
var Missing = Measurement{}

// Value returns a present measurement.
func Value(v float64) Measurement {
	return Measurement{Value: v, Present: true}
}

// Record represents one sample of one subject.
type Record struct {
	ID            string        //subject identifier
	Treatment     Arm           //treatment arm of the subject
	Group         string        //exposure-experience group, not used for labeling
	TimeFromStart float64       //minutes since exposure start, negative for baseline samples
	Window        string        //assigned time window label, empty when unassigned
	Values        []Measurement //one measurement per compound of the dataset, same order as Dataset.Compounds
}

// Dataset contains all records of one biological matrix (blood, oral fluid, breath).
type Dataset struct {
	Matrix    string         //biological matrix name
	Compounds []string       //compound column names
	Records   []*Record      //the samples
	Removed   map[string]int //per window label, nr of records removed by deduplication
}

// CompoundIndex returns the index of a compound in the dataset's measurement vectors.
func (ds *Dataset) CompoundIndex(compound string) (int, error) {
	for i, c := range ds.Compounds {
		if c == compound {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %q in matrix %q", ErrUnknownCompound, compound, ds.Matrix)
}

// Subset returns a dataset sharing the compounds and dedup counters of ds with only the records passing keep.
func (ds *Dataset) Subset(keep func(r *Record) bool) *Dataset {
	result := &Dataset{Matrix: ds.Matrix, Compounds: ds.Compounds, Removed: ds.Removed}
	for _, r := range ds.Records {
		if keep(r) {
			result.Records = append(result.Records, r)
		}
	}
	return result
}

// Subjects returns the distinct subject IDs in order of first occurrence.
func (ds *Dataset) Subjects() []string {
	seen := map[string]bool{}
	ids := []string{}
	for _, r := range ds.Records {
		if !seen[r.ID] {
			seen[r.ID] = true
			ids = append(ids, r.ID)
		}
	}
	return ids
}
