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

package report_test

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/parquet-go/parquet-go"
	"github.com/xuri/excelize/v2"

	"bioroc/detection"
	"bioroc/report"
)

func testResults() detection.Results {
	defined := &detection.Result{
		ConfusionMatrix: detection.ConfusionMatrix{Matrix: "blood", Compound: "THCCOOH-gluc", Cutoff: 2.5,
			Window: detection.Window{Start: 0, Stop: 30, Label: "0-30"}, TP: 3, FN: 1, FP: 2, TN: 4, N: 11,
			Missing: 1},
		Label: "THCCOOH",
	}
	defined.Metrics = detection.Calculate(&defined.ConfusionMatrix)
	empty := &detection.Result{
		ConfusionMatrix: detection.ConfusionMatrix{Matrix: "blood", Compound: "THCCOOH-gluc", Cutoff: 2.5,
			Window: detection.Window{Start: 30, Stop: 60, Label: "30-60"}, NoData: true},
		Label: "THCCOOH",
	}
	return detection.Results{defined, empty}
}

func TestWriteResults(t *testing.T) {
	var buf bytes.Buffer
	if err := report.WriteResults(&buf, testResults()); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("%d lines", len(lines))
	}
	for i, line := range lines {
		if fields := strings.Split(line, "\t"); len(fields) != len(report.ResultsHeader) {
			t.Errorf("line %d has %d fields, want %d", i, len(fields), len(report.ResultsHeader))
		}
	}
	first := strings.Split(lines[1], "\t")
	if first[1] != "THCCOOH" || first[2] != "2.5" || first[5] != "0-30" || first[15] != "0.7500" || first[19] != "70.00" {
		t.Errorf("row %v", first)
	}
	second := strings.Split(lines[2], "\t")
	if second[14] != "true" || second[20] != "NA" {
		t.Errorf("empty window row %v", second)
	}
}

func TestWriteSelections(t *testing.T) {
	selection := report.Selection{
		Best: detection.Best{Matrix: "blood", Label: "THC", CutoffScore: detection.CutoffScore{Compound: "THC",
			Cutoff: 1, MeanYouden: 0.875, Windows: 3}},
		Interval: detection.BootstrapInterval{Lower: detection.Defined(0.7), Upper: detection.Defined(1),
			Replicates: 100},
		Overall: true,
	}
	record := report.SelectionRecord(selection)
	want := []string{"blood", "THC", "1", "0.8750", "3", "true", "0.7000", "1.0000", "100"}
	if strings.Join(record, " ") != strings.Join(want, " ") {
		t.Errorf("selection record %v, want %v", record, want)
	}
	name := filepath.Join(t.TempDir(), "best.tab")
	if err := report.WriteSelectionsToTabFile([]report.Selection{selection}, name); err != nil {
		t.Fatal(err)
	}
}

func TestWriteWorkbook(t *testing.T) {
	name := filepath.Join(t.TempDir(), "exp.xlsx")
	tables := []report.MatrixResults{{Matrix: "blood", Results: testResults()}}
	if err := report.WriteWorkbook(name, tables, nil); err != nil {
		t.Fatal(err)
	}
	f, err := excelize.OpenFile(name)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	sheets := f.GetSheetList()
	if len(sheets) != 2 || sheets[0] != "blood" || sheets[1] != "Best" {
		t.Errorf("sheets %v", sheets)
	}
	tests := map[string]string{"A1": "matrix", "B2": "THCCOOH", "G2": "3", "U3": "NA"}
	for cell, want := range tests {
		got, err := f.GetCellValue("blood", cell)
		if err != nil {
			t.Fatal(err)
		}
		if got != want {
			t.Errorf("%s = %q, want %q", cell, got, want)
		}
	}
}

func TestWriteWorkbookReservedSheets(t *testing.T) {
	for _, matrix := range []string{"Best", "sheet1"} {
		name := filepath.Join(t.TempDir(), "exp.xlsx")
		tables := []report.MatrixResults{{Matrix: matrix, Results: testResults()}}
		if err := report.WriteWorkbook(name, tables, nil); !errors.Is(err, report.ErrReservedSheet) {
			t.Errorf("matrix %s: got %v, want ErrReservedSheet", matrix, err)
		}
	}
	if report.ReservedSheetName("blood") {
		t.Error("blood is not a reserved sheet name")
	}
}

func TestWriteResultsToParquet(t *testing.T) {
	name := filepath.Join(t.TempDir(), "blood.parquet")
	if err := report.WriteResultsToParquet(testResults(), "run-1", name); err != nil {
		t.Fatal(err)
	}
	rows, err := parquet.ReadFile[report.ResultRow](name)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Fatalf("%d rows", len(rows))
	}
	if rows[0].RunID != "run-1" || rows[1].RunID != "run-1" {
		t.Errorf("run ids %s, %s", rows[0].RunID, rows[1].RunID)
	}
	if rows[0].Sensitivity == nil || *rows[0].Sensitivity != 0.75 || rows[0].TP != 3 {
		t.Errorf("row %+v", rows[0])
	}
	if !rows[1].NoData || rows[1].Youden != nil || rows[1].Sensitivity != nil {
		t.Errorf("empty window row %+v", rows[1])
	}
}

func TestFileName(t *testing.T) {
	if got := report.FileName("out", "exp", "blood", "results.tab"); got != filepath.Join("out",
		"exp.blood.results.tab") {
		t.Errorf("FileName = %s", got)
	}
}
