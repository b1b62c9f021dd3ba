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

package app_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"bioroc/app"
	"bioroc/detection"
	"bioroc/report"
)

const runMeasurements = `id,treatment,group,time_from_start,THC,THCCOOH-gluc
s1,PLA,occasional,-15,0,0
s1,PLA,occasional,20,0.4,0
s1,PLA,occasional,45,0,0
s1,PLA,occasional,90,0,0.5
s2,PLA,frequent,-10,0.3,1
s2,PLA,frequent,25,0.5,1.2
s2,PLA,frequent,50,0.2,1
s2,PLA,frequent,100,0,1
s3,HIGH,frequent,-10,0.8,4
s3,HIGH,frequent,10,20,6
s3,HIGH,frequent,15,18,6
s3,HIGH,frequent,40,9,8
s3,HIGH,frequent,80,3,9
s4,LOW,occasional,-20,0,0.2
s4,LOW,occasional,25,6,2
s4,LOW,occasional,55,2,3
s4,LOW,occasional,110,1.2,3.5
s5,HIGH,occasional,500,5,5
`

// writeStudy writes the test study and its measurement file to a temporary directory.
func writeStudy(t *testing.T) (studyFile, dataDir string) {
	t.Helper()
	dataDir = t.TempDir()
	studyFile = filepath.Join(dataDir, "study.yaml")
	if err := os.WriteFile(studyFile, []byte(testStudy), 0600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dataDir, "blood.csv"), []byte(runMeasurements), 0600); err != nil {
		t.Fatal(err)
	}
	return studyFile, dataDir
}

func TestAnalyze(t *testing.T) {
	study, err := app.ParseStudy([]byte(testStudy))
	if err != nil {
		t.Fatal(err)
	}
	blood, _ := study.Matrix("blood")
	ds, err := app.ParseMeasurements(strings.NewReader(runMeasurements), ',', study, blood)
	if err != nil {
		t.Fatal(err)
	}
	analysis, err := app.Analyze(study, blood, ds, app.GetRecordFilters("id", study), 20,
		detection.ConfidenceLevel, true)
	if err != nil {
		t.Fatal(err)
	}
	if analysis.Dropped != 1 || analysis.Dataset.TotalRemoved() != 1 {
		t.Errorf("dropped %d, removed %d, want 1 and 1", analysis.Dropped, analysis.Dataset.TotalRemoved())
	}
	if len(analysis.Results) != 2*3*4 {
		t.Errorf("%d results", len(analysis.Results))
	}
	for _, r := range analysis.Results {
		if r.Compound == "THCCOOH-gluc" && r.Label != "THCCOOH" {
			t.Errorf("compound %s reported as %s", r.Compound, r.Label)
		}
	}
	if len(analysis.Selections) != 3 || !analysis.Selections[2].Overall {
		t.Fatalf("selections %+v", analysis.Selections)
	}
	thc := analysis.Selections[0]
	if thc.Compound != "THC" || thc.Cutoff != 1 || thc.MeanYouden != 1 {
		t.Errorf("THC selection %+v, want cutoff 1 with mean Youden 1", thc.Best)
	}
	if len(analysis.Summaries) != 2*4*3 {
		t.Errorf("%d summaries", len(analysis.Summaries))
	}
	if len(analysis.Curves["THC"]) != 4 {
		t.Errorf("%d THC curves", len(analysis.Curves["THC"]))
	}

	_, err = app.Analyze(study, blood, ds, nil, 0, detection.ConfidenceLevel, false)
	if !errors.Is(err, detection.ErrOutOfRangeTime) {
		t.Errorf("got %v, want ErrOutOfRangeTime", err)
	}
}

func TestRun(t *testing.T) {
	studyFile, dataDir := writeStudy(t)
	outputPath := t.TempDir()
	err := app.Run(&app.ExperimentParams{
		StudyFile:      studyFile,
		DataDir:        dataDir,
		OutputPath:     outputPath,
		Filters:        "id",
		Iter:           20,
		DropOutOfRange: true,
		XLSX:           true,
		Parquet:        true,
		Plots:          "png",
		RunID:          "test-run",
	})
	if err != nil {
		t.Fatal(err)
	}
	dir := filepath.Join(outputPath, "trial")
	for _, parts := range [][]string{
		{"blood", "results.tab"},
		{"blood", "summary.tab"},
		{"best.tab"},
		{"xlsx"},
		{"blood", "parquet"},
		{"blood", "THC", "youden", "png"},
		{"blood", "THC", "roc", "png"},
	} {
		file := report.FileName(dir, "trial", parts...)
		if info, err := os.Stat(file); err != nil || info.Size() == 0 {
			t.Errorf("missing output %s: %v", file, err)
		}
	}
	content, err := os.ReadFile(report.FileName(dir, "trial", "blood", "results.tab"))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	if len(lines) != 1+2*3*4 || lines[0] != strings.Join(report.ResultsHeader, "\t") {
		t.Errorf("results table with %d lines, header %q", len(lines), lines[0])
	}
}

func TestRunErrors(t *testing.T) {
	studyFile, dataDir := writeStudy(t)
	if err := app.Run(&app.ExperimentParams{StudyFile: filepath.Join(dataDir, "none.yaml"), DataDir: dataDir,
		OutputPath: t.TempDir()}); err == nil {
		t.Error("missing study file accepted")
	}
	if err := app.Run(&app.ExperimentParams{StudyFile: studyFile, DataDir: t.TempDir(),
		OutputPath: t.TempDir()}); err == nil {
		t.Error("missing measurement file accepted")
	}
	err := app.Run(&app.ExperimentParams{StudyFile: studyFile, DataDir: dataDir, OutputPath: t.TempDir()})
	if !errors.Is(err, detection.ErrOutOfRangeTime) {
		t.Errorf("got %v, want ErrOutOfRangeTime", err)
	}
}
