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

import "fmt"

// RecordFilter prescribes a function type for implementing filters on samples, to be able to compute metrics for
// specific subgroups. E.g. occasional users only, or a subset of treatment arms.
type RecordFilter func(r *Record) bool

// ApplyRecordFilters returns a dataset with only the records that pass all filters.
func ApplyRecordFilters(filters []RecordFilter, ds *Dataset) *Dataset {
	result := ds.Subset(func(r *Record) bool {
		for _, filter := range filters {
			if !filter(r) {
				return false
			}
		}
		return true
	})
	fmt.Println("Filtered ", ds.Matrix, " down from ", len(ds.Records), " to ", len(result.Records), " records.")
	return result
}

// GroupFilter keeps samples of subjects in the given experience group.
func GroupFilter(group string) RecordFilter {
	return func(r *Record) bool {
		return r.Group == group
	}
}

// ArmFilter removes all samples of the given treatment arm.
func ArmFilter(arm Arm) RecordFilter {
	return func(r *Record) bool {
		return r.Treatment != arm
	}
}

// SubjectFilter removes all samples of the given subjects.
func SubjectFilter(ids ...string) RecordFilter {
	excluded := map[string]bool{}
	for _, id := range ids {
		excluded[id] = true
	}
	return func(r *Record) bool {
		return !excluded[r.ID]
	}
}
