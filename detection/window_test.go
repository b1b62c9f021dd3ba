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

package detection_test

import (
	"errors"
	"math"
	"testing"

	"bioroc/detection"
)

var testWindows = detection.WindowTable{
	{Start: -60, Stop: 0, Label: "pre"},
	{Start: 0, Stop: 30, Label: "0-30"},
	{Start: 30, Stop: 60, Label: "30-60"},
	{Start: 60, Stop: 120, Label: "60-120"},
}

func TestAssign(t *testing.T) {
	tests := []struct {
		elapsed float64
		label   string
	}{
		{-500, "pre"},
		{-60, "pre"},
		{0, "pre"},
		{0.5, "0-30"},
		{29.9, "0-30"},
		{30, "30-60"},
		{59.99, "30-60"},
		{60, "60-120"},
		{120, "60-120"},
	}
	for _, test := range tests {
		w, err := testWindows.Assign(test.elapsed)
		if err != nil {
			t.Errorf("Assign(%g): unexpected error %v", test.elapsed, err)
			continue
		}
		if w.Label != test.label {
			t.Errorf("Assign(%g) = %s, want %s", test.elapsed, w.Label, test.label)
		}
	}
	for _, elapsed := range []float64{120.01, 1000, math.NaN()} {
		if _, err := testWindows.Assign(elapsed); !errors.Is(err, detection.ErrOutOfRangeTime) {
			t.Errorf("Assign(%g): got %v, want ErrOutOfRangeTime", elapsed, err)
		}
	}
}

func TestAssignSeveralBaselineWindows(t *testing.T) {
	table := detection.WindowTable{
		{Start: -120, Stop: -60, Label: "pre1"},
		{Start: -60, Stop: 0, Label: "pre2"},
		{Start: 0, Stop: 30, Label: "0-30"},
	}
	if err := table.Validate(); err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		elapsed float64
		label   string
	}{
		{-300, "pre1"},
		{-120, "pre1"},
		{-60.5, "pre1"},
		{-60, "pre2"},
		{0, "pre2"},
		{0.1, "0-30"},
		{30, "0-30"},
	}
	for _, test := range tests {
		w, err := table.Assign(test.elapsed)
		if err != nil || w.Label != test.label {
			t.Errorf("Assign(%g) = %s, %v, want %s", test.elapsed, w.Label, err, test.label)
		}
	}
	if labels := table.PreExposureLabels(); len(labels) != 2 {
		t.Errorf("PreExposureLabels = %v", labels)
	}
}

func TestValidate(t *testing.T) {
	if err := testWindows.Validate(); err != nil {
		t.Fatalf("valid table rejected: %v", err)
	}
	tests := map[string]detection.WindowTable{
		"empty":        {},
		"no baseline":  {{Start: 0, Stop: 30, Label: "0-30"}},
		"gap":          {{Start: -60, Stop: 0, Label: "pre"}, {Start: 10, Stop: 30, Label: "10-30"}},
		"overlap":      {{Start: -60, Stop: 0, Label: "pre"}, {Start: -10, Stop: 30, Label: "0-30"}},
		"duplicate":    {{Start: -60, Stop: 0, Label: "pre"}, {Start: 0, Stop: 30, Label: "pre"}},
		"no label":     {{Start: -60, Stop: 0, Label: "pre"}, {Start: 0, Stop: 30}},
		"empty window": {{Start: -60, Stop: 0, Label: "pre"}, {Start: 0, Stop: 0, Label: "0"}},
	}
	for name, table := range tests {
		if err := table.Validate(); !errors.Is(err, detection.ErrMalformedWindows) {
			t.Errorf("%s: got %v, want ErrMalformedWindows", name, err)
		}
	}
}

func TestPreExposureLabels(t *testing.T) {
	labels := testWindows.PreExposureLabels()
	if len(labels) != 1 || !labels["pre"] {
		t.Errorf("PreExposureLabels = %v, want only pre", labels)
	}
	if w, ok := testWindows.Lookup("30-60"); !ok || w.Start != 30 {
		t.Errorf("Lookup(30-60) = %v, %v", w, ok)
	}
	if _, ok := testWindows.Lookup("none"); ok {
		t.Error("Lookup of unknown label succeeded")
	}
}

func TestAssignWindows(t *testing.T) {
	ds := &detection.Dataset{Matrix: "blood", Compounds: []string{"THC"}, Records: []*detection.Record{
		{ID: "1", TimeFromStart: -20, Values: []detection.Measurement{detection.Value(0)}},
		{ID: "1", TimeFromStart: 200, Values: []detection.Measurement{detection.Value(1)}},
		{ID: "2", TimeFromStart: 45, Values: []detection.Measurement{detection.Value(2)}},
	}}
	labeled, dropped, err := detection.AssignWindows(ds, testWindows, true)
	if err != nil {
		t.Fatal(err)
	}
	if dropped != 1 || len(labeled.Records) != 2 {
		t.Fatalf("dropped %d, kept %d, want 1 and 2", dropped, len(labeled.Records))
	}
	if labeled.Records[0].Window != "pre" || labeled.Records[1].Window != "30-60" {
		t.Errorf("labels %s, %s", labeled.Records[0].Window, labeled.Records[1].Window)
	}
	if ds.Records[0].Window != "" {
		t.Error("input dataset was modified")
	}
	if _, _, err := detection.AssignWindows(ds, testWindows, false); !errors.Is(err, detection.ErrOutOfRangeTime) {
		t.Errorf("got %v, want ErrOutOfRangeTime", err)
	}
	if _, _, err := detection.AssignWindows(ds, detection.WindowTable{}, true); !errors.Is(err,
		detection.ErrMalformedWindows) {
		t.Errorf("got %v, want ErrMalformedWindows", err)
	}
}
