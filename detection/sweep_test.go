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
	"reflect"
	"testing"

	"bioroc/detection"
)

func sweepDataset() *detection.Dataset {
	ds := &detection.Dataset{Matrix: "blood", Compounds: []string{"THC", "CBD"}, Removed: map[string]int{}}
	add := func(id string, arm detection.Arm, window string, thc, cbd float64) {
		ds.Records = append(ds.Records, &detection.Record{ID: id, Treatment: arm, Window: window,
			Values: []detection.Measurement{detection.Value(thc), detection.Value(cbd)}})
	}
	add("p1", detection.Placebo, "pre", 0, 0)
	add("a1", detection.HighDose, "pre", 0, 0.5)
	add("p1", detection.Placebo, "0-30", 0.3, 0)
	add("a1", detection.HighDose, "0-30", 12, 2)
	add("p1", detection.Placebo, "30-60", 0, 0)
	add("a1", detection.HighDose, "30-60", 4, 0.8)
	return ds
}

func TestSweepOrder(t *testing.T) {
	compounds := []string{"CBD", "THC"}
	cutoffs := []float64{2, 0, 1}
	results, err := detection.Sweep(sweepDataset(), compounds, cutoffs, testWindows)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != len(compounds)*len(cutoffs)*len(testWindows) {
		t.Fatalf("%d rows", len(results))
	}
	i := 0
	for _, compound := range compounds {
		for _, cutoff := range cutoffs {
			for _, w := range testWindows {
				r := results[i]
				if r.Compound != compound || r.Label != compound || r.Cutoff != cutoff || r.Window != w {
					t.Errorf("row %d is %s %g %s, want %s %g %s", i, r.Compound, r.Cutoff, r.Window.Label,
						compound, cutoff, w.Label)
				}
				i++
			}
		}
	}
	for _, r := range results {
		if r.Window.Label == "60-120" && (!r.NoData || r.Youden.Defined) {
			t.Errorf("empty window row %+v", *r)
		}
	}
}

func TestSweepIdempotent(t *testing.T) {
	ds := sweepDataset()
	first, err := detection.Sweep(ds, []string{"THC", "CBD"}, []float64{0, 1, 5}, testWindows)
	if err != nil {
		t.Fatal(err)
	}
	second, err := detection.Sweep(ds, []string{"THC", "CBD"}, []float64{0, 1, 5}, testWindows)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("two sweeps over the same input differ")
	}
}

func TestSweepErrors(t *testing.T) {
	ds := sweepDataset()
	if _, err := detection.Sweep(ds, []string{"LSD"}, []float64{1}, testWindows); !errors.Is(err,
		detection.ErrUnknownCompound) {
		t.Errorf("got %v, want ErrUnknownCompound", err)
	}
	if _, err := detection.Sweep(ds, []string{"THC"}, []float64{1, -0.5}, testWindows); !errors.Is(err,
		detection.ErrNegativeCutoff) {
		t.Errorf("got %v, want ErrNegativeCutoff", err)
	}
	if _, err := detection.Sweep(ds, []string{"THC"}, []float64{1}, testWindows[1:]); !errors.Is(err,
		detection.ErrMalformedWindows) {
		t.Errorf("got %v, want ErrMalformedWindows", err)
	}
	results, err := detection.Sweep(ds, []string{"THC"}, nil, testWindows)
	if err != nil || len(results) != 0 {
		t.Errorf("sweep without cutoffs: %d rows, %v", len(results), err)
	}
}

func TestRename(t *testing.T) {
	results, err := detection.Sweep(sweepDataset(), []string{"THC", "CBD"}, []float64{1}, testWindows)
	if err != nil {
		t.Fatal(err)
	}
	results.Rename(map[string]string{"THC": "Delta9-THC"})
	for _, r := range results {
		want := r.Compound
		if r.Compound == "THC" {
			want = "Delta9-THC"
		}
		if r.Label != want {
			t.Errorf("%s labeled %s", r.Compound, r.Label)
		}
	}
	thc := results.Filter(func(r *detection.Result) bool { return r.Compound == "THC" })
	if len(thc) != len(testWindows) {
		t.Errorf("filtered %d rows", len(thc))
	}
}
