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

package app

import (
	"strings"

	"bioroc/detection"
)

// GetRecordFilter returns the record filter for a name. Names of experience groups declared in the study select
// that group. Unknown names return the identity filter.
func GetRecordFilter(s string, study *Study) detection.RecordFilter {
	id := func(r *detection.Record) bool { return true }
	switch s {
	case "id", "":
		return id
	case "placebo-":
		return detection.ArmFilter(detection.Placebo)
	case "low-":
		return detection.ArmFilter(detection.LowDose)
	case "high-":
		return detection.ArmFilter(detection.HighDose)
	}
	for _, g := range study.Groups {
		if strings.EqualFold(s, g) {
			return detection.GroupFilter(g)
		}
	}
	if strings.HasPrefix(s, "subject-") {
		return detection.SubjectFilter(strings.Split(strings.TrimPrefix(s, "subject-"), "+")...)
	}
	return id
}

// GetRecordFilters parses a comma separated list of filter names.
func GetRecordFilters(filters string, study *Study) []detection.RecordFilter {
	var result []detection.RecordFilter
	for _, f := range strings.Split(filters, ",") {
		trimmed := strings.Trim(f, " ")
		result = append(result, GetRecordFilter(trimmed, study))
	}
	return result
}
