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
	"math"
)

// Window is a contiguous interval of elapsed minutes since exposure start.
type Window struct {
	Start float64 `yaml:"start"`
	Stop  float64 `yaml:"stop"`
	Label string  `yaml:"label"`
}

// PreExposure reports whether the window only holds baseline samples.
func (w Window) PreExposure() bool {
	return w.Stop <= 0
}

func (w Window) String() string {
	return fmt.Sprintf("%s [%g, %g)", w.Label, w.Start, w.Stop)
}

// WindowTable partitions the elapsed time axis. It starts with one or more pre-exposure windows. Windows are
// half-open [start, stop) so a boundary value lands in the window whose start it equals. Values before the first
// window belong to the first window. The last pre-exposure window also includes its stop, keeping a sample at the
// exposure start a baseline sample, and so does the last window of the table.
type WindowTable []Window

// Validate checks the structural invariants of a window table.
func (t WindowTable) Validate() error {
	if len(t) == 0 {
		return fmt.Errorf("%w: no windows", ErrMalformedWindows)
	}
	if !t[0].PreExposure() {
		return fmt.Errorf("%w: first window %q must stop at or before 0", ErrMalformedWindows, t[0].Label)
	}
	labels := map[string]bool{}
	for i, w := range t {
		if w.Label == "" {
			return fmt.Errorf("%w: window %d has no label", ErrMalformedWindows, i)
		}
		if labels[w.Label] {
			return fmt.Errorf("%w: duplicate label %q", ErrMalformedWindows, w.Label)
		}
		labels[w.Label] = true
		if math.IsNaN(w.Start) || math.IsNaN(w.Stop) || w.Start >= w.Stop {
			return fmt.Errorf("%w: window %q has start %g >= stop %g", ErrMalformedWindows, w.Label, w.Start, w.Stop)
		}
		if i > 0 && t[i-1].Stop != w.Start {
			return fmt.Errorf("%w: window %q starts at %g but %q stops at %g", ErrMalformedWindows, w.Label,
				w.Start, t[i-1].Label, t[i-1].Stop)
		}
	}
	return nil
}

// Lookup returns the window with the given label.
func (t WindowTable) Lookup(label string) (Window, bool) {
	for _, w := range t {
		if w.Label == label {
			return w, true
		}
	}
	return Window{}, false
}

// PreExposureLabels returns the labels of all windows that hold baseline samples only.
func (t WindowTable) PreExposureLabels() map[string]bool {
	labels := map[string]bool{}
	for _, w := range t {
		if w.PreExposure() {
			labels[w.Label] = true
		}
	}
	return labels
}

// Assign returns the window that contains the given elapsed time. Values after the stop of the last window are out
// of range.
func (t WindowTable) Assign(elapsed float64) (Window, error) {
	if len(t) == 0 || math.IsNaN(elapsed) {
		return Window{}, fmt.Errorf("%w: %g", ErrOutOfRangeTime, elapsed)
	}
	if elapsed < t[0].Start {
		return t[0], nil
	}
	lastPre := 0
	for i, w := range t {
		if w.PreExposure() {
			lastPre = i
		}
	}
	last := len(t) - 1
	for i, w := range t {
		closed := i == lastPre || i == last
		if elapsed >= w.Start && (elapsed < w.Stop || closed && elapsed == w.Stop) {
			return w, nil
		}
	}
	return Window{}, fmt.Errorf("%w: %g", ErrOutOfRangeTime, elapsed)
}

// AssignWindows labels every record of a dataset with its time window. Records with an out of range elapsed time are
// dropped and counted when drop is set, otherwise the first one aborts the assignment. The input dataset is left
// untouched.
func AssignWindows(ds *Dataset, table WindowTable, drop bool) (*Dataset, int, error) {
	if err := table.Validate(); err != nil {
		return nil, 0, err
	}
	result := &Dataset{Matrix: ds.Matrix, Compounds: ds.Compounds, Removed: map[string]int{}}
	dropped := 0
	for _, r := range ds.Records {
		w, err := table.Assign(r.TimeFromStart)
		if err != nil {
			if drop {
				dropped++
				continue
			}
			return nil, dropped, fmt.Errorf("subject %s: %w", r.ID, err)
		}
		labeled := *r
		labeled.Window = w.Label
		result.Records = append(result.Records, &labeled)
	}
	return result, dropped, nil
}
