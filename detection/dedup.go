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

import "sort"

// dedupKey identifies a subject's time window.
type dedupKey struct {
	id, window string
}

// Deduplicate keeps, for every (subject, time window) group, only the record with the earliest elapsed time. Ties keep
// the record that occurs first in the input. The returned dataset lists the kept records in input order and counts
// the removed records per window label. Want to avoid a subject over counting in a window.
func Deduplicate(ds *Dataset) *Dataset {
	earliest := map[dedupKey]int{}
	for i, r := range ds.Records {
		key := dedupKey{id: r.ID, window: r.Window}
		if j, ok := earliest[key]; !ok || r.TimeFromStart < ds.Records[j].TimeFromStart {
			earliest[key] = i
		}
	}
	kept := make([]int, 0, len(earliest))
	for _, i := range earliest {
		kept = append(kept, i)
	}
	sort.Ints(kept)
	result := &Dataset{Matrix: ds.Matrix, Compounds: ds.Compounds, Removed: map[string]int{},
		Records: make([]*Record, 0, len(kept))}
	for label, n := range ds.Removed {
		result.Removed[label] = n
	}
	for _, i := range kept {
		result.Records = append(result.Records, ds.Records[i])
	}
	for _, r := range ds.Records {
		result.Removed[r.Window]++
	}
	for _, r := range result.Records {
		result.Removed[r.Window]--
	}
	for label, n := range result.Removed {
		if n == 0 {
			delete(result.Removed, label)
		}
	}
	return result
}

// TotalRemoved returns the total nr of records removed by deduplication.
func (ds *Dataset) TotalRemoved() int {
	total := 0
	for _, n := range ds.Removed {
		total += n
	}
	return total
}
